package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"anoa.com/lostfound/internal/bootstrap"
	"anoa.com/lostfound/internal/config"
	"anoa.com/lostfound/internal/server"
	"anoa.com/lostfound/pkg/database"
	"anoa.com/lostfound/pkg/logger"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logg := logger.New(cfg.LogLevel, cfg.LogFormat)

	db, err := database.Connect(database.Options{
		Host:     cfg.DBHost,
		User:     cfg.DBUser,
		Password: cfg.DBPass,
		Name:     cfg.DBName,
		Port:     cfg.DBPort,
		SSLMode:  cfg.DBSSL,
		Debug:    cfg.DBLog,
	})
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := bootstrap.Migrate(db); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	if cfg.AppEnv == "development" && cfg.SeedDemo {
		if err := bootstrap.SeedDemoItems(db, logg); err != nil {
			log.Fatalf("failed to seed demo items: %v", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("invalid REDIS_URL: %v", err)
		}
		redisClient = redis.NewClient(opt)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logg.Warn("redis unreachable, continuing without rate limits and live notifications",
				slog.String("error", err.Error()))
			_ = redisClient.Close()
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	} else {
		logg.Warn("REDIS_URL is not set, rate limits and live notifications are disabled")
	}

	srv, err := server.NewServer(cfg, logg, db, redisClient)
	if err != nil {
		log.Fatalf("failed to build server: %v", err)
	}

	if err := srv.Run(ctx); err != nil {
		log.Fatalf("server exited with error: %v", err)
	}
}
