package jwtverify

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vincentyono/icp-smart-contract/internal/common/constants"
	commonerrors "github.com/vincentyono/icp-smart-contract/internal/common/errors"
	"github.com/vincentyono/icp-smart-contract/internal/common/logger"
)

var testClaims = Claims{
	UserID:    "6f1d8a8e-2b1c-4f0e-9a43-0c1f2d3e4b5a",
	Username:  "alice",
	SessionID: "0b9f7c1e-5a2d-4e3f-8b6c-7d8e9f0a1b2c",
}

func TestIssueAndParse(t *testing.T) {
	secret := []byte(constants.TestJWTSecret)

	token, err := Issue(secret, testClaims, time.Now(), time.Hour)
	require.NoError(t, err)

	got, err := ParseToken(token, secret)
	require.NoError(t, err)
	assert.Equal(t, testClaims, got)
}

func TestParseToken_WrongSecret(t *testing.T) {
	token, err := Issue([]byte(constants.TestJWTSecret), testClaims, time.Now(), time.Hour)
	require.NoError(t, err)

	_, err = ParseToken(token, []byte("another-secret-that-is-long-enough-to-use"))
	assert.ErrorIs(t, err, commonerrors.ErrInvalidToken)
}

func TestParseToken_Expired(t *testing.T) {
	secret := []byte(constants.TestJWTSecret)
	token, err := Issue(secret, testClaims, time.Now().Add(-2*time.Hour), time.Hour)
	require.NoError(t, err)

	_, err = ParseToken(token, secret)
	assert.ErrorIs(t, err, commonerrors.ErrInvalidToken)
}

func TestParseToken_MissingSessionID(t *testing.T) {
	secret := []byte(constants.TestJWTSecret)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": testClaims.UserID,
		"usr": testClaims.Username,
	}).SignedString(secret)
	require.NoError(t, err)

	_, err = ParseToken(token, secret)
	assert.ErrorIs(t, err, commonerrors.ErrMissingTokenClaims)
}

func TestMiddleware(t *testing.T) {
	log := logger.NewWithWriter(io.Discard, "test", "error")
	secret := constants.TestJWTSecret

	var seen Claims
	handler := Middleware(secret, log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = FromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	t.Run("missing header", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/contents", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "MISSING_AUTHORIZATION")
	})

	t.Run("garbage token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/contents", nil)
		req.Header.Set("Authorization", "Bearer not-a-token")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "INVALID_TOKEN")
	})

	t.Run("valid token", func(t *testing.T) {
		token, err := Issue([]byte(secret), testClaims, time.Now(), time.Hour)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPost, "/api/contents", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, testClaims, seen)
	})
}
