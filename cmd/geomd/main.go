package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/mohammed-shakir/geomcore/internal/cache/redisstore"
	"github.com/mohammed-shakir/geomcore/internal/core/config"
	"github.com/mohammed-shakir/geomcore/internal/core/health"
	"github.com/mohammed-shakir/geomcore/internal/core/observability"
	"github.com/mohammed-shakir/geomcore/internal/core/server"
	"github.com/mohammed-shakir/geomcore/internal/cover"
	"github.com/mohammed-shakir/geomcore/internal/logger"
	h3mapper "github.com/mohammed-shakir/geomcore/internal/mapper/h3"
)

var Version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	cfg := config.FromEnv()

	zl := logger.Build(logger.Config{
		Level:     cfg.LogLevel,
		Console:   cfg.LogConsole,
		SampleN:   cfg.LogSampleN,
		Service:   "geomd",
		Component: "main",
	}, os.Stdout)
	appLog := logger.NewSlog(&zl)

	observability.ExposeBuildInfo(Version)
	appLog.Info("starting geomd",
		"addr", cfg.Addr,
		"version", Version,
		"h3_res", cfg.H3Res,
		"h3_res_min", cfg.H3ResMin,
		"h3_res_max", cfg.H3ResMax,
		"redis", cfg.RedisAddr != "")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps := map[string]health.Pinger{"redis": nil}
	var store cover.Store
	if cfg.RedisAddr != "" {
		rc, err := redisstore.New(ctx, cfg.RedisAddr,
			redisstore.WithPoolSize(cfg.RedisPoolSize),
			redisstore.WithDialTimeout(cfg.RedisDialTimeout),
			redisstore.WithReadTimeout(cfg.RedisReadTimeout),
		)
		if err != nil {
			appLog.Error("redis connect failed", "addr", cfg.RedisAddr, "err", err)
			return 1
		}
		defer func() { _ = rc.Close() }()
		store = rc
		deps["redis"] = rc
	}

	svc, err := cover.New(appLog, h3mapper.New(), store, cover.Config{
		Namespace: cfg.Cover.Namespace,
		MinRes:    cfg.H3ResMin,
		MaxRes:    cfg.H3ResMax,
		MaxCells:  cfg.Cover.MaxCells,
		LRUSize:   cfg.Cover.LRUSize,
		TTL:       cfg.Cover.TTL,
		OpTimeout: cfg.CacheOpTimeout,
	})
	if err != nil {
		appLog.Error("cover service setup failed", "err", err)
		return 1
	}

	h := server.NewHandler(cfg, appLog, svc, deps)
	if err := server.Run(ctx, cfg, appLog, h); err != nil {
		appLog.Error("server exited", "err", err)
		return 1
	}
	appLog.Info("shutdown complete")
	return 0
}
