package main

import (
	"context"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"gestor/internal/cache"
	"gestor/internal/charts"
	"gestor/internal/cli"
	apphttp "gestor/internal/http"
	applog "gestor/internal/log"
	"gestor/internal/middleware/ratelimit"
	"gestor/internal/session"
)

func main() {
	cfg, logger := cli.LoadAndValidateConfig()
	logger = logger.WithComponent(applog.ComponentApp)

	// Validate has already checked all three.
	initial, _ := cfg.InitialBalanceMoney()
	period, _ := cfg.Period()
	loc, _ := cfg.Location()

	sessions := session.NewManager(session.Options{
		MaxSessions:    cfg.MaxSessions,
		TTL:            cfg.SessionTTL,
		InitialBalance: initial,
		DefaultPeriod:  period,
		SeedDemo:       cfg.SeedDemo,
		Location:       loc,
	}, logger)

	caches := cache.NewManager(logger)
	caches.Register(sessions.Registry())

	limiter := ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: cfg.RateLimitPerMinute})

	srv := apphttp.NewServer(apphttp.Options{
		Addr:          ":" + cfg.Port,
		Sessions:      sessions,
		Charts:        charts.NewGenerator(),
		Limiter:       limiter,
		Logger:        logger,
		ToastDuration: cfg.ToastDuration,
		SessionTTL:    cfg.SessionTTL,
	})
	srv.ReadTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16

	ctx, cancel := cli.SignalContext(context.Background(), logger)
	defer cancel()

	logger.Info("Starting gestor",
		applog.FieldOperation, applog.OpStartup,
		"port", cfg.Port,
		applog.FieldPeriod, string(period),
		"initial_balance", initial.String(),
		"seed_demo", cfg.SeedDemo,
		"timezone", loc.String())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.Run(gctx, 30*time.Second) })
	g.Go(func() error { return caches.Run(gctx, 5*time.Minute) })
	g.Go(func() error { return limiter.Run(gctx) })

	if err := g.Wait(); err != nil {
		logger.Error("Server error", applog.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
