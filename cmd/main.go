package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"complaintdesk/backend/internal/api/handler"
	"complaintdesk/backend/internal/app"
	"complaintdesk/backend/internal/config"
	"complaintdesk/backend/internal/feed"
	"complaintdesk/backend/internal/intake"
	"complaintdesk/backend/internal/logger"
	"complaintdesk/backend/internal/models"
	"complaintdesk/backend/internal/telegram"

	"github.com/gin-gonic/gin"
)

func main() {
	log := logger.New("complaintdesk")
	log.Info("Starting complaint desk backend...")

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		log.WithError(err).Fatal("failed to initialise dependencies")
	}
	defer a.Close()

	// Workers keep running until the HTTP server has drained, so they get
	// their own context.
	workCtx, cancelWork := context.WithCancel(context.Background())
	defer cancelWork()

	proc := intake.NewProcessor(a.Storage, a.Line, a.Complaints, log.WithField("component", "intake"))
	pool := intake.NewPool(proc, cfg.IntakeWorkers, cfg.IntakeQueueSize, log.WithField("component", "intake"))
	pool.Start(workCtx)

	hub := feed.NewHub(nil, log.WithField("component", "feed"))
	events := make(chan models.ComplaintEvent, 64)
	go feed.Relay(ctx, a.Storage.SubscribeComplaintEvents(ctx), events, log.WithField("component", "feed"))
	go hub.Run(ctx, events)

	if a.Telegram != nil {
		bot := telegram.NewBot(a.Telegram, a.Complaints, cfg.TelegramChatID, a.Lang, log.WithField("component", "telegram"))
		go bot.Run(ctx)
	}

	gin.SetMode(gin.ReleaseMode)
	h := &handler.Handler{
		Complaints: a.Complaints,
		Intake:     pool,
		Feed:       hub,
		Auth:       handler.NewAuth(cfg.JWTSecret, cfg.JWTIssuer),
		LineSecret: cfg.LineChannelSecret,
		Checks: map[string]handler.HealthCheck{
			"postgres": func(ctx context.Context) error {
				sqlDB, err := a.DB.DB()
				if err != nil {
					return err
				}
				return sqlDB.PingContext(ctx)
			},
			"redis": func(ctx context.Context) error { return a.Redis.Ping(ctx).Err() },
		},
		Log: log.WithField("component", "http"),
	}

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           h.NewRouter(),
		ReadHeaderTimeout: 10 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		log.WithField("addr", cfg.HTTPAddr).Info("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("HTTP server failed")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("HTTP server did not shut down cleanly")
	}
	pool.Close()
	log.Info("Shutdown complete")
}
