package http

import (
	"net/http"

	commonerrors "github.com/vincentyono/icp-smart-contract/internal/common/errors"
	"github.com/vincentyono/icp-smart-contract/internal/common/jwtverify"
	"github.com/vincentyono/icp-smart-contract/internal/common/logger"
	"github.com/vincentyono/icp-smart-contract/internal/social/service"
)

// requireActiveSession rejects bearer tokens issued for a session that is no
// longer the active one. It runs after jwtverify.Middleware.
func (h *Handler) requireActiveSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		claims, ok := jwtverify.FromContext(ctx)
		if !ok {
			h.errors.HandleError(w, r, commonerrors.ErrMissingTokenClaims)
			return
		}

		active, err := h.social.CurrentSession(ctx)
		if err != nil {
			h.errors.HandleError(w, r, err)
			return
		}

		if active.ID != claims.SessionID {
			h.log.WithFields(ctx, logger.Fields{
				"user_id":    claims.UserID,
				"session_id": claims.SessionID,
				"action":     "session_token_stale",
			}).Warn("request rejected: token does not belong to the active session")
			h.errors.HandleError(w, r, service.ErrSessionMismatch)
			return
		}

		next.ServeHTTP(w, r)
	})
}
