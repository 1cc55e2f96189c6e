package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vincentyono/icp-smart-contract/internal/common/clock"
	"github.com/vincentyono/icp-smart-contract/internal/common/constants"
	commoncrypto "github.com/vincentyono/icp-smart-contract/internal/common/crypto"
	commonhttp "github.com/vincentyono/icp-smart-contract/internal/common/http"
	"github.com/vincentyono/icp-smart-contract/internal/common/logger"
	contentrepo "github.com/vincentyono/icp-smart-contract/internal/content/repository"
	"github.com/vincentyono/icp-smart-contract/internal/session"
	"github.com/vincentyono/icp-smart-contract/internal/social/service"
	userrepo "github.com/vincentyono/icp-smart-contract/internal/user/repository"
)

type testServer struct {
	t       *testing.T
	handler http.Handler
	nextIP  atomic.Int32
}

func newTestServer(t *testing.T, mode service.AuthzMode) *testServer {
	t.Helper()

	log := logger.NewWithWriter(io.Discard, "test", "error")
	ids := commoncrypto.NewUUIDGenerator()
	clk := clock.NewSteppingClock(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), time.Millisecond)
	social := service.NewSocialService(
		userrepo.NewMemoryRepository(),
		contentrepo.NewMemoryRepository(),
		session.NewGate(ids, clk),
		commoncrypto.NewPasswordHasher("plain"),
		ids,
		nil,
		clk,
		service.Config{AuthzMode: mode, SessionSecret: constants.TestJWTSecret, SessionTokenTTL: time.Hour},
		log,
	)

	limiter := commonhttp.NewStrictRateLimiter(1000, 1000)
	t.Cleanup(limiter.Stop)

	router := NewRouter(social, limiter, RouterConfig{
		RequestTimeout: time.Second,
		SessionSecret:  constants.TestJWTSecret,
	}, log)

	return &testServer{t: t, handler: commonhttp.BuildBaseHandler(log, router)}
}

// do sends each request from a distinct client address so the strict
// credential limiters stay out of the way.
func (s *testServer) do(method, path string, body any, header http.Header) *httptest.ResponseRecorder {
	s.t.Helper()
	return s.doFrom(fmt.Sprintf("10.0.0.%d", s.nextIP.Add(1)), method, path, body, header)
}

func (s *testServer) doFrom(ip, method, path string, body any, header http.Header) *httptest.ResponseRecorder {
	s.t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Real-IP", ip)
	for k, v := range header {
		req.Header[k] = v
	}

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) register(username, password string) userResponse {
	s.t.Helper()
	rec := s.do(http.MethodPost, "/api/users/register", credentialsRequest{Username: username, Password: password}, nil)
	require.Equal(s.t, http.StatusCreated, rec.Code, rec.Body.String())
	var user userResponse
	require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), &user))
	return user
}

func (s *testServer) postContent(text, userID string, header http.Header) contentResponse {
	s.t.Helper()
	rec := s.do(http.MethodPost, "/api/contents", postContentRequest{Content: text, UserID: userID}, header)
	require.Equal(s.t, http.StatusCreated, rec.Code, rec.Body.String())
	var content contentResponse
	require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), &content))
	return content
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) commonhttp.ErrorEnvelope {
	t.Helper()
	var env commonhttp.ErrorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func bearer(token string) http.Header {
	return http.Header{"Authorization": []string{"Bearer " + token}}
}

func TestRegister_OmitsPassword(t *testing.T) {
	s := newTestServer(t, service.AuthzUser)

	rec := s.do(http.MethodPost, "/api/users/register", credentialsRequest{Username: "alice", Password: "pw1"}, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.NotContains(t, rec.Body.String(), "pw1")
	assert.NotContains(t, rec.Body.String(), "password")

	var user userResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
	assert.True(t, commoncrypto.ValidateID(user.ID))
	assert.Equal(t, "alice", user.Username)
}

func TestRegister_InvalidInput(t *testing.T) {
	s := newTestServer(t, service.AuthzUser)

	rec := s.do(http.MethodPost, "/api/users/register", credentialsRequest{Username: "", Password: "pw"}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.Equal(t, "INVALID_USERNAME", env.Code)
	assert.NotEmpty(t, env.TraceID)

	rec = s.do(http.MethodPost, "/api/users/register", `{"username":"a","password":"b","extra":1}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, commonhttp.CodeInvalidJSON, decodeEnvelope(t, rec).Code)

	rec = s.do(http.MethodPost, "/api/users/register", `{"username":`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, commonhttp.CodeInvalidJSON, decodeEnvelope(t, rec).Code)
}

func TestRegister_RateLimited(t *testing.T) {
	s := newTestServer(t, service.AuthzUser)

	var last *httptest.ResponseRecorder
	for i := 0; i <= constants.RateLimitRegisterBurst; i++ {
		last = s.doFrom("10.9.9.9", http.MethodPost, "/api/users/register", credentialsRequest{Username: "u", Password: "p"}, nil)
	}
	assert.Equal(t, http.StatusTooManyRequests, last.Code)
	assert.Equal(t, commonhttp.CodeRateLimited, decodeEnvelope(t, last).Code)
}

func TestSignInSignOut(t *testing.T) {
	s := newTestServer(t, service.AuthzUser)
	s.register("alice", "pw1")

	rec := s.do(http.MethodPost, "/api/session/signout", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "NOT_SIGNED_IN", decodeEnvelope(t, rec).Code)

	rec = s.do(http.MethodPost, "/api/session/signin", credentialsRequest{Username: "bob", Password: "pw1"}, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NO_SUCH_USER", decodeEnvelope(t, rec).Code)

	rec = s.do(http.MethodPost, "/api/session/signin", credentialsRequest{Username: "alice", Password: "nope"}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "BAD_CREDENTIALS", decodeEnvelope(t, rec).Code)

	rec = s.do(http.MethodPost, "/api/session/signin", credentialsRequest{Username: "alice", Password: "pw1"}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var signIn signInResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &signIn))
	assert.Equal(t, service.MsgSignedIn, signIn.Message)
	assert.NotEmpty(t, signIn.Token)

	rec = s.do(http.MethodPost, "/api/session/signout", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var msg commonhttp.MessageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &msg))
	assert.Equal(t, service.MsgSignedOut, msg.Message)

	rec = s.do(http.MethodPost, "/api/session/signout", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestContentLifecycle(t *testing.T) {
	s := newTestServer(t, service.AuthzUser)
	alice := s.register("alice", "pw1")

	rec := s.do(http.MethodGet, "/api/contents", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	posted := s.postContent("hi", alice.ID, nil)
	assert.Equal(t, alice.ID, posted.UserID)
	assert.Equal(t, "hi", posted.Content)
	assert.Equal(t, []string{}, posted.Comments)

	for _, path := range []string{"like", "like", "dislike"} {
		rec = s.do(http.MethodPost, "/api/contents/"+posted.ID+"/"+path, reactionRequest{UserID: alice.ID}, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}

	rec = s.do(http.MethodPost, "/api/contents/"+posted.ID+"/comments", postCommentRequest{Comment: "nice", UserID: alice.ID}, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(http.MethodGet, "/api/contents/"+posted.ID, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var got contentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, uint32(2), got.Like)
	assert.Equal(t, uint32(1), got.Dislike)
	assert.Equal(t, []string{"nice"}, got.Comments)
	assert.Equal(t, uint64(5), got.Version)

	rec = s.do(http.MethodGet, "/api/contents", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var all []contentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &all))
	require.Len(t, all, 1)
	assert.Equal(t, got, all[0])
}

func TestContentErrors(t *testing.T) {
	s := newTestServer(t, service.AuthzUser)
	alice := s.register("alice", "pw1")
	missing := "00000000-0000-4000-8000-000000000000"

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		status int
		code   string
	}{
		{name: "get malformed id", method: http.MethodGet, path: "/api/contents/nope", status: http.StatusBadRequest, code: "INVALID_ID"},
		{name: "get unknown id", method: http.MethodGet, path: "/api/contents/" + missing, status: http.StatusNotFound, code: "CONTENT_NOT_FOUND"},
		{name: "post empty text", method: http.MethodPost, path: "/api/contents", body: postContentRequest{UserID: alice.ID}, status: http.StatusBadRequest, code: "INVALID_PARAMETER"},
		{name: "post unknown user", method: http.MethodPost, path: "/api/contents", body: postContentRequest{Content: "x", UserID: missing}, status: http.StatusNotFound, code: "USER_NOT_FOUND"},
		{name: "like unknown content", method: http.MethodPost, path: "/api/contents/" + missing + "/like", body: reactionRequest{UserID: alice.ID}, status: http.StatusNotFound, code: "CONTENT_NOT_FOUND"},
		{name: "like without body", method: http.MethodPost, path: "/api/contents/" + missing + "/like", status: http.StatusBadRequest, code: commonhttp.CodeInvalidJSON},
		{name: "unknown route", method: http.MethodGet, path: "/api/nothing", status: http.StatusNotFound, code: commonhttp.CodeNotFound},
		{name: "wrong method", method: http.MethodDelete, path: "/api/contents", status: http.StatusMethodNotAllowed, code: commonhttp.CodeMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(tt.method, tt.path, tt.body, nil)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			assert.Equal(t, tt.code, decodeEnvelope(t, rec).Code)
		})
	}
}

func TestSessionMode_RequiresActiveSessionToken(t *testing.T) {
	s := newTestServer(t, service.AuthzSession)
	alice := s.register("alice", "pw1")
	s.register("bob", "pw2")

	rec := s.do(http.MethodPost, "/api/contents", postContentRequest{Content: "hi", UserID: alice.ID}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, commonhttp.CodeMissingAuthorization, decodeEnvelope(t, rec).Code)

	rec = s.do(http.MethodPost, "/api/session/signin", credentialsRequest{Username: "alice", Password: "pw1"}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var first signInResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &first))

	s.postContent("hi", alice.ID, bearer(first.Token))

	rec = s.do(http.MethodPost, "/api/session/signin", credentialsRequest{Username: "bob", Password: "pw2"}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodPost, "/api/contents", postContentRequest{Content: "stale", UserID: alice.ID}, bearer(first.Token))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "SESSION_MISMATCH", decodeEnvelope(t, rec).Code)

	rec = s.do(http.MethodPost, "/api/contents", postContentRequest{Content: "x"}, bearer("garbage"))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, commonhttp.CodeInvalidToken, decodeEnvelope(t, rec).Code)

	rec = s.do(http.MethodGet, "/api/contents", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code, "reads stay public")
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, service.AuthzUser)

	rec := s.do(http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(commonhttp.TraceIDHeader))
}
