// Package app wires the complaint desk from its configuration. Both the
// server and the admin CLI build their collaborators here.
package app

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"complaintdesk/backend/internal/blob"
	"complaintdesk/backend/internal/complaint"
	"complaintdesk/backend/internal/config"
	"complaintdesk/backend/internal/imageset"
	"complaintdesk/backend/internal/line"
	"complaintdesk/backend/internal/localization"
	"complaintdesk/backend/internal/notify"
	"complaintdesk/backend/internal/storage"
	"complaintdesk/backend/internal/telegram"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// App holds the long-lived collaborators.
type App struct {
	Config     *config.Config
	Log        logrus.FieldLogger
	DB         *gorm.DB
	Redis      *redis.Client
	Storage    *storage.Service
	Line       *line.Client
	Telegram   *tgbotapi.BotAPI
	Lang       localization.Lang
	Complaints *complaint.Service

	closers []func() error
}

// New connects to every dependency and builds the complaint service.
func New(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) (*App, error) {
	a := &App{Config: cfg, Log: log, Lang: localization.Default().For(cfg.Language)}
	if err := a.build(ctx); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) build(ctx context.Context) error {
	cfg := a.Config

	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return fmt.Errorf("failed to connect PostgreSQL: %w", err)
	}
	a.DB = db
	if sqlDB, err := db.DB(); err == nil {
		a.closers = append(a.closers, sqlDB.Close)
	}

	a.Redis = redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	a.closers = append(a.closers, a.Redis.Close)
	if err := a.Redis.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect Redis: %w", err)
	}

	a.Storage = storage.NewStorageService(db, a.Redis)
	if err := a.Storage.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}

	store := a.blobStore()

	a.Line, err = line.NewClient(cfg.LineAccessToken, httpClient, a.Log.WithField("component", "line"))
	if err != nil {
		return err
	}

	group, groupID, err := a.groupPusher()
	if err != nil {
		return err
	}

	composer := notify.NewComposer(a.Lang, cfg.WebBaseURL)
	dispatcher := notify.NewDispatcher(group, groupID, a.Line, a.Log.WithField("component", "dispatcher"))
	images := imageset.NewReconciler(store, a.Log.WithField("component", "images"))

	a.Complaints = complaint.NewService(a.Storage, images, composer, dispatcher, a.Log.WithField("component", "complaints"))
	a.Log.WithFields(logrus.Fields{
		"group_platform":  cfg.GroupPlatform,
		"storage_backend": cfg.StorageBackend,
	}).Info("Database and Redis connections established, migrations complete")
	return nil
}

func (a *App) blobStore() blob.Store {
	cfg := a.Config
	log := a.Log.WithField("component", "blob")
	if cfg.StorageBackend == config.StorageFTP {
		ftp := blob.NewFTPStore(cfg.FTPHost, cfg.FTPPort, cfg.FTPUser, cfg.FTPPassword, cfg.FTPDir, cfg.FTPBaseURL, log)
		a.closers = append(a.closers, ftp.Close)
		return ftp
	}
	return blob.NewSupabaseStore(cfg.SupabaseURL, cfg.SupabaseKey, cfg.SupabaseBucket, log)
}

func (a *App) groupPusher() (notify.Pusher, string, error) {
	cfg := a.Config
	if cfg.GroupPlatform != config.PlatformTelegram {
		return a.Line, cfg.LineGroupID, nil
	}
	bot, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, "", fmt.Errorf("failed to start Telegram bot: %w", err)
	}
	bot.Debug = false
	a.Telegram = bot
	a.Log.WithField("bot", bot.Self.UserName).Info("authorized on Telegram")
	return telegram.NewPusher(bot), strconv.FormatInt(cfg.TelegramChatID, 10), nil
}

// Close releases every connection in reverse order of opening.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.Log.WithError(err).Warn("error during shutdown")
		}
	}
	a.closers = nil
}
