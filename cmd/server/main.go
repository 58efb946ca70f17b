package main // Entry point package

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv" // loads .env files in development
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/evlive/lounge/internal/cache"
	"github.com/evlive/lounge/internal/config"
	"github.com/evlive/lounge/internal/database"
	"github.com/evlive/lounge/internal/handler"
	"github.com/evlive/lounge/internal/lounge"
	"github.com/evlive/lounge/internal/queue"
	"github.com/evlive/lounge/internal/realtime"
	"github.com/evlive/lounge/internal/repository"
	"github.com/evlive/lounge/internal/router"
	queue_publisher "github.com/evlive/lounge/internal/service"
)

func main() {
	_ = godotenv.Load() // ignore error; env vars may come from the host

	cfg := config.Load()
	if cfg.Env == "prod" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
	log := logrus.WithField("service", "lounge")

	// Events and sessions are read-only here; the event CRUD collaborator
	// owns that schema.
	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.WithError(err).Fatal("database connection failed")
	}
	defer db.Close()
	eventRepo := repository.NewEventRepo(db)
	sessionRepo := repository.NewSessionRepo(db)

	// Redis is optional; a nil client disables the snapshot cache and the
	// rate limiter degrades to pass-through.
	rdb := config.NewRedisClient()
	snapCache := cache.NewSnapshotCache(rdb, config.LoadSnapshotCacheConfig(), log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	registry := lounge.NewRegistry(log)
	hub := realtime.NewHub(registry, log)
	hub.AddSink(snapCache.Sink())
	hub.AddIntentSink(queue_publisher.ActivitySink())
	go hub.Run(ctx)

	// Background audit consumer; reconnects on its own.
	go func() {
		if err := queue.StartActivityConsumer(); err != nil {
			log.WithError(err).Warn("activity consumer stopped")
		}
	}()

	e := echo.New()
	e.HideBanner = true
	router.RegisterRoutes(e, handler.NewWSHandler(hub, cfg.JWTSecret))
	router.RegisterLounge(e,
		handler.NewLoungeHandler(hub, registry, snapCache, cfg),
		handler.NewJoinStateHandler(eventRepo, sessionRepo),
		cfg, rdb)

	go func() {
		<-ctx.Done()
		_ = e.Shutdown(context.Background())
	}()

	addr := ":" + cfg.Port
	log.WithFields(logrus.Fields{"addr": addr, "env": cfg.Env}).Info("listening")
	if err := e.Start(addr); err != nil {
		log.WithError(err).Info("server stopped")
	}
}
