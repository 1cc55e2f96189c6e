package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/vincentyono/icp-smart-contract/internal/common/constants"
	commonhttp "github.com/vincentyono/icp-smart-contract/internal/common/http"
	"github.com/vincentyono/icp-smart-contract/internal/common/jwtverify"
	"github.com/vincentyono/icp-smart-contract/internal/common/logger"
	"github.com/vincentyono/icp-smart-contract/internal/social/service"
)

type RouterConfig struct {
	RequestTimeout time.Duration
	SessionSecret  string
}

type Handler struct {
	social *service.SocialService
	errors *commonhttp.ErrorHandler
	log    *logger.Logger
}

// NewRouter mounts the JSON API and /health. Callers add /metrics and the
// feed endpoint on the returned mux.
func NewRouter(social *service.SocialService, limiter *commonhttp.StrictRateLimiter, cfg RouterConfig, log *logger.Logger) *chi.Mux {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = constants.DefaultRequestTimeout
	}

	h := &Handler{
		social: social,
		errors: commonhttp.NewErrorHandler(log),
		log:    log,
	}

	r := chi.NewRouter()
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		commonhttp.WriteErrorEnvelope(w, http.StatusNotFound, commonhttp.CodeNotFound, "not found", nil, commonhttp.TraceIDFromContext(r.Context()))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		commonhttp.WriteErrorEnvelope(w, http.StatusMethodNotAllowed, commonhttp.CodeMethodNotAllowed, "method not allowed", nil, commonhttp.TraceIDFromContext(r.Context()))
	})

	r.Get("/health", commonhttp.HealthHandler(log))

	r.Route("/api", func(r chi.Router) {
		r.Use(limiter.General())
		r.Use(commonhttp.WithTimeout(cfg.RequestTimeout))

		r.With(limiter.Register()).Post("/users/register", h.register)

		r.Route("/session", func(r chi.Router) {
			r.With(limiter.SignIn()).Post("/signin", h.signIn)
			r.Post("/signout", h.signOut)
		})

		r.Route("/contents", func(r chi.Router) {
			r.Get("/", h.getContents)
			r.Get("/{contentID}", h.getContent)

			r.Group(func(r chi.Router) {
				if social.AuthzMode() == service.AuthzSession {
					r.Use(jwtverify.Middleware(cfg.SessionSecret, log))
					r.Use(h.requireActiveSession)
				}
				r.Post("/", h.postContent)
				r.Post("/{contentID}/like", h.likeContent)
				r.Post("/{contentID}/dislike", h.dislikeContent)
				r.Post("/{contentID}/comments", h.postComment)
			})
		})
	})

	return r
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !h.decode(w, r, &req, "register") {
		return
	}

	user, err := h.social.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusCreated, toUserResponse(user))
}

func (h *Handler) signIn(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !h.decode(w, r, &req, "signin") {
		return
	}

	result, err := h.social.SignIn(r.Context(), req.Username, req.Password)
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, signInResponse{
		Message: result.Message,
		Token:   result.Token,
	})
}

func (h *Handler) signOut(w http.ResponseWriter, r *http.Request) {
	msg, err := h.social.SignOut(r.Context())
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteMessage(w, http.StatusOK, msg)
}

func (h *Handler) getContents(w http.ResponseWriter, r *http.Request) {
	contents, err := h.social.GetContents(r.Context())
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, toContentResponses(contents))
}

func (h *Handler) getContent(w http.ResponseWriter, r *http.Request) {
	content, err := h.social.GetContent(r.Context(), chi.URLParam(r, "contentID"))
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, toContentResponse(content))
}

func (h *Handler) postContent(w http.ResponseWriter, r *http.Request) {
	var req postContentRequest
	if !h.decode(w, r, &req, "post_content") {
		return
	}

	content, err := h.social.PostContent(r.Context(), req.Content, req.UserID)
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusCreated, toContentResponse(content))
}

func (h *Handler) likeContent(w http.ResponseWriter, r *http.Request) {
	var req reactionRequest
	if !h.decode(w, r, &req, "like") {
		return
	}

	msg, err := h.social.LikeContent(r.Context(), chi.URLParam(r, "contentID"), req.UserID)
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteMessage(w, http.StatusOK, msg)
}

func (h *Handler) dislikeContent(w http.ResponseWriter, r *http.Request) {
	var req reactionRequest
	if !h.decode(w, r, &req, "dislike") {
		return
	}

	msg, err := h.social.DislikeContent(r.Context(), chi.URLParam(r, "contentID"), req.UserID)
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteMessage(w, http.StatusOK, msg)
}

func (h *Handler) postComment(w http.ResponseWriter, r *http.Request) {
	var req postCommentRequest
	if !h.decode(w, r, &req, "post_comment") {
		return
	}

	content, err := h.social.PostComment(r.Context(), chi.URLParam(r, "contentID"), req.Comment, req.UserID)
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusCreated, toContentResponse(content))
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any, action string) bool {
	err := commonhttp.DecodeJSON(r, v)
	if err == nil {
		return true
	}

	traceID := commonhttp.TraceIDFromContext(r.Context())
	h.log.WithFields(r.Context(), logger.Fields{
		"path":   r.URL.Path,
		"action": action + "_invalid_json",
	}).Warnf("%s failed: invalid json: %v", action, err)

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		commonhttp.WriteErrorEnvelope(w, http.StatusRequestEntityTooLarge, commonhttp.CodeRequestTooLarge, "request body too large", nil, traceID)
		return false
	}
	commonhttp.WriteErrorEnvelope(w, http.StatusBadRequest, commonhttp.CodeInvalidJSON, "invalid json", nil, traceID)
	return false
}
