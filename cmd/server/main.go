package main

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vincentyono/icp-smart-contract/internal/common/bootstrap"
	commonhttp "github.com/vincentyono/icp-smart-contract/internal/common/http"
	srv "github.com/vincentyono/icp-smart-contract/internal/common/server"
	"github.com/vincentyono/icp-smart-contract/internal/feed"
	socialhttp "github.com/vincentyono/icp-smart-contract/internal/social/http"
)

func main() {
	app, err := bootstrap.NewApp(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start social service: %v\n", err)
		os.Exit(1)
	}
	log := app.Log
	cfg := app.Config

	hubCtx, stopHub := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		app.Hub.Run(hubCtx)
	}()

	rateLimiter := commonhttp.NewStrictRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)

	router := socialhttp.NewRouter(app.Social, rateLimiter, socialhttp.RouterConfig{
		RequestTimeout: cfg.RequestTimeout,
		SessionSecret:  cfg.SessionSecret,
	}, log)
	router.Handle("/metrics", promhttp.Handler())
	router.Handle("/ws/feed", feed.NewHandler(app.Hub, cfg.FeedSendBuffer, log))

	server := srv.NewServer(srv.DefaultServerConfig(cfg.HTTPPort), commonhttp.BuildBaseHandler(log, router))

	shutdownHooks := []srv.ShutdownHook{
		func(ctx context.Context) error {
			log.Infof("social service: closing feed connections")
			stopHub()
			done := make(chan struct{})
			go func() {
				wg.Wait()
				close(done)
			}()
			select {
			case <-done:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		},
		func(ctx context.Context) error {
			rateLimiter.Stop()
			return nil
		},
	}

	srv.Run(server, log, "social", shutdownHooks...)

	if err := app.Close(); err != nil {
		log.Errorf("social service: %v", err)
	}
}
