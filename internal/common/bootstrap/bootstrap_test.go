package bootstrap

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vincentyono/icp-smart-contract/internal/common/config"
	"github.com/vincentyono/icp-smart-contract/internal/common/constants"
	"github.com/vincentyono/icp-smart-contract/internal/common/logger"
	"github.com/vincentyono/icp-smart-contract/internal/social/service"
)

func testConfig(driver string) config.Config {
	return config.Config{
		RequestTimeout:          time.Second,
		Store:                   config.StoreConfig{Driver: driver},
		SessionSecret:           constants.TestJWTSecret,
		SessionTokenTTL:         time.Hour,
		AuthzMode:               config.AuthzModeUser,
		PasswordHasher:          config.HasherPlain,
		CircuitBreakerThreshold: 5,
		CircuitBreakerTimeout:   time.Second,
		CircuitBreakerReset:     time.Second,
	}
}

func exerciseApp(t *testing.T, app *App) {
	t.Helper()
	ctx := context.Background()

	user, err := app.Social.Register(ctx, "alice", "pw1")
	require.NoError(t, err)

	content, err := app.Social.PostContent(ctx, "hi", string(user.ID))
	require.NoError(t, err)

	_, err = app.Social.LikeContent(ctx, string(content.ID), string(user.ID))
	require.NoError(t, err)

	all, err := app.Social.GetContents(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, uint32(1), all[0].Like)
}

func TestBuild_Memory(t *testing.T) {
	log := logger.NewWithWriter(io.Discard, "test", "error")

	app, err := Build(context.Background(), testConfig(config.DriverMemory), log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	assert.Nil(t, app.Pool)
	assert.Nil(t, app.SQLite)
	assert.Equal(t, service.AuthzUser, app.Social.AuthzMode())
	exerciseApp(t, app)
}

func TestBuild_SQLite(t *testing.T) {
	log := logger.NewWithWriter(io.Discard, "test", "error")
	cfg := testConfig(config.DriverSQLite)
	cfg.Store.SQLitePath = filepath.Join(t.TempDir(), "social.db")
	cfg.AuthzMode = config.AuthzModeSession

	app, err := Build(context.Background(), cfg, log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	require.NotNil(t, app.SQLite)
	assert.Equal(t, service.AuthzSession, app.Social.AuthzMode())

	ctx := context.Background()
	user, err := app.Social.Register(ctx, "alice", "pw1")
	require.NoError(t, err)
	_, err = app.Social.SignIn(ctx, "alice", "pw1")
	require.NoError(t, err)
	_, err = app.Social.PostContent(ctx, "hi", string(user.ID))
	require.NoError(t, err)

	var tables int
	require.NoError(t, app.SQLite.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name IN ('users', 'contents')`,
	).Scan(&tables))
	assert.Equal(t, 2, tables)
}

func TestNewApp_LoggerFollowsConfig(t *testing.T) {
	dir := t.TempDir()
	logDir := filepath.Join(dir, "logs")
	cfgPath := filepath.Join(dir, "config.yaml")

	body := fmt.Sprintf("session_secret: %q\nlog_dir: %q\nlog_level: debug\nstore:\n  driver: memory\n",
		constants.TestJWTSecret, logDir)
	require.NoError(t, os.WriteFile(cfgPath, []byte(body), 0o600))
	t.Setenv("CONFIG_PATH", cfgPath)

	app, err := NewApp(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	assert.Equal(t, logDir, app.Config.LogDir)
	assert.True(t, app.Log.ShouldLog(logger.DEBUG))

	data, err := os.ReadFile(filepath.Join(logDir, "social.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "social service wired")
}

func TestBuild_UnknownDriver(t *testing.T) {
	log := logger.NewWithWriter(io.Discard, "test", "error")

	_, err := Build(context.Background(), testConfig("cassandra"), log)
	assert.Error(t, err)
}
