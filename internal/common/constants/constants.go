package constants

import "time"

const (
	JWTSecretMinLength = 32

	BcryptMaxPasswordBytes = 72

	DefaultMaxRequestSize = 1 << 20

	DBPoolMaxConns        = 25
	DBPoolMinConns        = 5
	DBPoolConnMaxLifetime = time.Hour
	DBPoolConnMaxIdleTime = 30 * time.Minute
	DBPoolHealthCheck     = 1 * time.Minute
	DBPoolConnectTimeout  = 5 * time.Second
	DBPoolMaxAttempts     = 10
	DBPoolRetryDelay      = 1 * time.Second
	DBPoolMetricsInterval = 30 * time.Second
	DBQueryTimeout        = 30 * time.Second

	ServerReadHeaderTimeout = 10 * time.Second
	ServerReadTimeout       = 30 * time.Second
	ServerWriteTimeout      = 30 * time.Second
	ServerIdleTimeout       = 120 * time.Second

	ShutdownTimeout = 30 * time.Second
	DrainTimeout    = 10 * time.Second

	DefaultHTTPPort       = "8080"
	DefaultRequestTimeout = 5 * time.Second

	DefaultCircuitBreakerThreshold = 50
	DefaultCircuitBreakerTimeout   = 15 * time.Second
	DefaultCircuitBreakerReset     = 10 * time.Second

	RateLimitCleanupInterval = 5 * time.Minute
	DefaultRateLimitRPS      = 20.0
	DefaultRateLimitBurst    = 40
	RateLimitSignInRPS       = 1.0
	RateLimitSignInBurst     = 5
	RateLimitRegisterRPS     = 0.5
	RateLimitRegisterBurst   = 3

	FeedWriteWait       = 10 * time.Second
	FeedPongWait        = 60 * time.Second
	FeedPingPeriod      = (FeedPongWait * 9) / 10
	FeedMaxMessageSize  = 4 * 1024
	FeedDefaultSendBuf  = 256
	FeedReadBufferSize  = 1024
	FeedWriteBufferSize = 1024

	LoggerMaxSize    = 100
	LoggerMaxBackups = 3
	LoggerMaxAge     = 28

	TestJWTSecret = "test-secret-key-that-is-at-least-32-bytes-long"
)

type TraceIDKeyType string

const TraceIDKey TraceIDKeyType = "trace_id"
