package service

import (
	"github.com/vincentyono/icp-smart-contract/internal/observability/metrics"
)

func incrementUsersRegistered() {
	metrics.UsersRegistered.Inc()
}

func recordSignIn(result string) {
	metrics.SignInsTotal.WithLabelValues(result).Inc()
}

func setSessionActive(active bool) {
	if active {
		metrics.SessionActive.Set(1)
		return
	}
	metrics.SessionActive.Set(0)
}

func incrementSessionReplacements() {
	metrics.SessionReplacements.Inc()
}

func incrementContentsPosted() {
	metrics.ContentsPosted.Inc()
}

func incrementReactions(kind string) {
	metrics.ReactionsTotal.WithLabelValues(kind).Inc()
}

func incrementCommentsPosted() {
	metrics.CommentsPosted.Inc()
}
