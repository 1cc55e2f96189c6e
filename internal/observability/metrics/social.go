package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	UsersRegistered = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "users_registered_total",
			Help:      "Total number of registered users",
		},
	)

	SignInsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "signins_total",
			Help:      "Total number of sign-in attempts by result",
		},
		[]string{"result"},
	)

	SessionActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "session_active",
			Help:      "Whether a session is currently active (0 or 1)",
		},
	)

	SessionReplacements = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "session_replacements_total",
			Help:      "Sign-ins that replaced an already active session",
		},
	)

	ContentsPosted = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "contents_posted_total",
			Help:      "Total number of posted contents",
		},
	)

	ReactionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reactions_total",
			Help:      "Total number of reactions applied by kind",
		},
		[]string{"kind"},
	)

	CommentsPosted = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "comments_posted_total",
			Help:      "Total number of comments appended",
		},
	)
)
