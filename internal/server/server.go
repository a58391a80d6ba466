package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"anoa.com/lostfound/internal/config"
	"anoa.com/lostfound/internal/job"
	"anoa.com/lostfound/internal/middleware"

	itemHttp "anoa.com/lostfound/internal/modules/item/delivery/http"
	itemRepo "anoa.com/lostfound/internal/modules/item/repository"
	itemService "anoa.com/lostfound/internal/modules/item/service"

	matchHttp "anoa.com/lostfound/internal/modules/matching/delivery/http"
	matchService "anoa.com/lostfound/internal/modules/matching/service"

	notifHttp "anoa.com/lostfound/internal/modules/notification/delivery/http"
	notifRepo "anoa.com/lostfound/internal/modules/notification/repository"
	notifService "anoa.com/lostfound/internal/modules/notification/service"

	pushHttp "anoa.com/lostfound/internal/modules/push/delivery/http"
	pushRepo "anoa.com/lostfound/internal/modules/push/repository"
	pushService "anoa.com/lostfound/internal/modules/push/service"

	searchHttp "anoa.com/lostfound/internal/modules/search/delivery/http"
	searchService "anoa.com/lostfound/internal/modules/search/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/meilisearch/meilisearch-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	jobTimeout      = 10 * time.Minute
	shutdownTimeout = 15 * time.Second
)

type Server struct {
	log       *slog.Logger
	cfg       *config.Config
	engine    *gin.Engine
	scheduler *job.Scheduler
	items     itemService.Service
}

func NewServer(cfg *config.Config, log *slog.Logger, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	meiliHost := cfg.MeiliSearchHost
	if !strings.HasPrefix(meiliHost, "http") {
		meiliHost = "http://" + meiliHost + ":7700"
	}
	meiliClient := meilisearch.New(meiliHost, meilisearch.WithAPIKey(cfg.MeiliMasterKey))

	// Item store
	itemRepository := itemRepo.NewRepository(db)
	searchSvc := searchService.NewService(log, meiliClient, itemRepository)
	searchHandler := searchHttp.NewSearchHandler(searchSvc)

	// Notification Module
	notificationRepository := notifRepo.NewNotificationRepository(db)
	notificationSvc := notifService.NewNotificationService(log, notificationRepository, redisClient)
	notificationHandler := notifHttp.NewNotificationHandler(log, notificationSvc, redisClient)

	// Push
	deviceRepository := pushRepo.NewDeviceTokenRepository(db)
	fcmSender := pushService.NewFCMSender(log, deviceRepository, pushService.FCMConfig{
		Endpoint:  cfg.FCMEndpoint,
		ServerKey: cfg.FCMServerKey,
		Timeout:   cfg.FCMTimeout,
	})
	deviceHandler := pushHttp.NewDeviceHandler(pushService.NewDeviceService(deviceRepository))

	// Matching
	matchSvc := matchService.NewService(log, itemRepository, fcmSender, notificationSvc, matchService.Options{
		QueryMinScore:  cfg.Match.QueryMinScore,
		NotifyMinScore: cfg.Match.NotifyMinScore,
		ResultLimit:    cfg.Match.ResultLimit,
		NotifyMax:      cfg.Match.NotifyMax,
		PoolLimit:      cfg.Match.PoolLimit,
	})
	matchHandler := matchHttp.NewMatchHandler(matchSvc)

	itemSvc := itemService.NewService(log, itemRepository, matchSvc, searchSvc, redisClient, itemService.Options{
		RateLimitGlobal: cfg.RateLimitGlobal,
		RateLimitItem:   cfg.RateLimitItem,
		DispatchTimeout: cfg.Match.DispatchTimeout,
	})
	itemHandler := itemHttp.NewItemHandler(itemSvc)

	scheduler := job.NewScheduler(log, jobTimeout)
	if err := scheduler.Register(job.NewSearchResyncJob(log, searchSvc, cfg.SearchResync)); err != nil {
		return nil, err
	}

	router := gin.New()

	setupCORS(router, cfg.AllowedOrigins)

	router.Use(gin.Recovery())
	router.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		SkipPaths: []string{"/healthz", "/api/notifications/ws"},
	}))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authMiddleware := middleware.NewAuthMiddleware(cfg.JWTSecret)

	api := router.Group("/api")

	// Public routes (no auth required)
	api.GET("/items", itemHandler.ListItems)
	api.GET("/items/:id", itemHandler.GetItem)
	api.GET("/items/:id/matches", matchHandler.GetItemMatches)
	api.GET("/matches", matchHandler.SearchMatches)
	api.GET("/search/items", searchHandler.SearchItems)

	// Protected routes
	protected := api.Group("")
	protected.Use(authMiddleware.RequireAuth())
	{
		// Item routes
		protected.POST("/items", itemHandler.CreateItem)
		protected.GET("/me/items", itemHandler.GetMyItems)
		protected.PATCH("/items/:id/status", itemHandler.UpdateStatus)
		protected.POST("/items/:id/notify-matches", matchHandler.NotifyMatches)

		// Device routes
		protected.PUT("/devices/token", deviceHandler.RegisterToken)

		// Notification routes
		protected.GET("/notifications", notificationHandler.GetNotifications)
		protected.GET("/notifications/unread-count", notificationHandler.UnreadCount)
		protected.PUT("/notifications/:id/read", notificationHandler.MarkAsRead)
		protected.PUT("/notifications/read-all", notificationHandler.MarkAllAsRead)
		protected.GET("/notifications/ws", notificationHandler.HandleWebSocket)
	}

	return &Server{
		log:       log,
		cfg:       cfg,
		engine:    router,
		scheduler: scheduler,
		items:     itemSvc,
	}, nil
}

// Run serves until ctx is cancelled, then drains requests, the scheduler and
// in-flight match dispatches.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              ":" + s.cfg.Port,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.scheduler.Start()
	defer s.scheduler.Stop()

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := srv.Shutdown(shutdownCtx)
	s.items.Wait()
	return err
}

func setupCORS(router *gin.Engine, allowedOrigins string) {
	var origins []string
	if allowedOrigins != "" {
		origins = strings.Split(allowedOrigins, ",")
	} else {
		origins = []string{"http://localhost:3000"}
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
