package db

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vincentyono/icp-smart-contract/internal/common/logger"
)

func fastRetry() RetryConfig {
	return RetryConfig{
		MaxAttempts:  3,
		InitialDelay: time.Millisecond,
		MaxDelay:     2 * time.Millisecond,
		Multiplier:   2.0,
	}
}

func TestIsRetryableError(t *testing.T) {
	assert.False(t, IsRetryableError(nil))
	assert.False(t, IsRetryableError(errors.New("boom")))
	assert.True(t, IsRetryableError(&pgconn.PgError{Code: "40001"}))
	assert.True(t, IsRetryableError(&pgconn.PgError{Code: "08006"}))
	assert.False(t, IsRetryableError(&pgconn.PgError{Code: "23505"}))
}

func TestRetryWithBackoff_RetriesTransientErrors(t *testing.T) {
	log, _ := logger.New("", "test", "error")

	calls := 0
	err := RetryWithBackoff(context.Background(), log, fastRetry(), func() error {
		calls++
		if calls < 3 {
			return &pgconn.PgError{Code: "40P01"}
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetryWithBackoff_StopsOnPermanentError(t *testing.T) {
	log, _ := logger.New("", "test", "error")
	permanent := errors.New("permanent")

	calls := 0
	err := RetryWithBackoff(context.Background(), log, fastRetry(), func() error {
		calls++
		return permanent
	})

	assert.ErrorIs(t, err, permanent)
	assert.Equal(t, 1, calls)
}

func TestRetryWithBackoff_GivesUp(t *testing.T) {
	log, _ := logger.New("", "test", "error")

	calls := 0
	err := RetryWithBackoff(context.Background(), log, fastRetry(), func() error {
		calls++
		return &pgconn.PgError{Code: "08006"}
	})

	require.Error(t, err)
	assert.Equal(t, 3, calls)
}

func TestHandleQueryError(t *testing.T) {
	notFound := errors.New("not found")
	start := time.Now()

	assert.NoError(t, HandleQueryError(nil, notFound, "find user", start))
	assert.ErrorIs(t, HandleQueryError(sql.ErrNoRows, notFound, "find user", start), notFound)

	wrapped := HandleQueryError(errors.New("conn reset"), notFound, "find content", start)
	require.Error(t, wrapped)
	assert.Contains(t, wrapped.Error(), "failed to find content")
}
