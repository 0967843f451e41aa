package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	firebase "firebase.google.com/go"
	"firebase.google.com/go/messaging"
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/krishyadav90/ProJobHub-IND/internal/board"
	"github.com/krishyadav90/ProJobHub-IND/internal/chat"
	"github.com/krishyadav90/ProJobHub-IND/internal/config"
	"github.com/krishyadav90/ProJobHub-IND/internal/handlers"
	"github.com/krishyadav90/ProJobHub-IND/internal/models"
	"github.com/krishyadav90/ProJobHub-IND/internal/repositories"
	"github.com/krishyadav90/ProJobHub-IND/internal/services"
	"github.com/krishyadav90/ProJobHub-IND/utils"
)

type application struct {
	cfg    config.Config
	logger *zap.SugaredLogger
	db     *sql.DB
	redis  *redis.Client // nil without REDIS_ADDR

	userService *services.UserService

	board    *board.Board
	presence *chat.Presence
	chatHub  *chat.Hub
	bus      chat.Bus

	userHandler         *handlers.UserHandler
	jobHandler          *handlers.JobHandler
	profileHandler      *handlers.ProfileHandler
	messageHandler      *handlers.MessageHandler
	notificationHandler *handlers.NotificationHandler
}

// infra groups the optional backends; nil members fall back to in-process behaviour.
type infra struct {
	redis     *redis.Client
	bus       chat.Bus
	uploader  utils.Uploader
	messaging *messaging.Client
	static    []models.JobListing
}

func initializeApp(cfg config.Config, db *sql.DB, in infra, logger *zap.SugaredLogger) (*application, error) {
	dialect := repositories.Dialect(cfg.Database.Driver)

	// Repositories
	userRepo := &repositories.UserRepository{DB: db, Dialect: dialect}
	jobRepo := &repositories.JobRepository{DB: db, Dialect: dialect}
	profileRepo := &repositories.ProfileRepository{DB: db, Dialect: dialect}
	messageRepo := &repositories.MessageRepository{DB: db, Dialect: dialect}
	deviceTokenRepo := &repositories.DeviceTokenRepository{DB: db, Dialect: dialect}

	// Services
	resetTokens, err := utils.NewManager(cfg.Auth.ResetSigningKey, "password_reset")
	if err != nil {
		return nil, fmt.Errorf("reset token manager: %w", err)
	}
	userService := &services.UserService{
		Users:       userRepo,
		Profiles:    profileRepo,
		ResetTokens: resetTokens,
		SigningKey:  cfg.Auth.SigningKey,
		AccessTTL:   cfg.Auth.AccessTokenTTL,
		RefreshTTL:  cfg.Auth.RefreshTokenTTL,
		ResetTTL:    cfg.Auth.ResetTokenTTL,
		Logger:      logger,
	}

	jobService := &services.JobService{Store: jobRepo, Logger: logger}
	if in.redis != nil {
		jobService.Cache = &services.RedisListingCache{Client: in.redis, TTL: cfg.Redis.ListingCacheTTL}
	}
	if in.uploader != nil {
		jobService.Uploader = in.uploader
	}

	profileService := &services.ProfileService{Profiles: profileRepo, Users: userRepo, Logger: logger}
	if in.uploader != nil {
		profileService.Uploader = in.uploader
	}

	notificationService := &services.NotificationService{Tokens: deviceTokenRepo, Logger: logger}
	if in.messaging != nil {
		notificationService.Client = in.messaging
	}

	presence := chat.NewPresence(in.redis, logger)
	messageService := &services.MessageService{
		Store:        messageRepo,
		Bus:          in.bus,
		Presence:     presence,
		Notifier:     notificationService,
		HistoryLimit: cfg.Chat.HistoryLimit,
		Logger:       logger,
	}

	jobBoard := board.New(jobService, in.static, logger)
	hub := chat.NewHub(in.bus, presence, messageService, messageService, cfg.Chat.HistoryLimit, logger)

	return &application{
		cfg:         cfg,
		logger:      logger,
		db:          db,
		redis:       in.redis,
		userService: userService,
		board:       jobBoard,
		presence:    presence,
		chatHub:     hub,
		bus:         in.bus,

		userHandler:         &handlers.UserHandler{Service: userService},
		jobHandler:          &handlers.JobHandler{Board: jobBoard, Updater: jobService},
		profileHandler:      &handlers.ProfileHandler{Service: profileService},
		messageHandler:      &handlers.MessageHandler{Service: messageService, Presence: presence},
		notificationHandler: &handlers.NotificationHandler{Service: notificationService},
	}, nil
}

func openDB(driver, dsn string) (*sql.DB, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	db.SetMaxIdleConns(35)
	db.SetConnMaxLifetime(30 * time.Minute)
	return db, nil
}

func openRedis(ctx context.Context, cfg config.Config) (*redis.Client, error) {
	if cfg.Redis.Addr == "" {
		return nil, nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

func openMessaging(ctx context.Context, credentialsFile string) (*messaging.Client, error) {
	if credentialsFile == "" {
		return nil, nil
	}
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("firebase app: %w", err)
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase messaging: %w", err)
	}
	return client, nil
}

func addSecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cross-Origin-Opener-Policy", "same-origin-allow-popups")
		w.Header().Set("Cross-Origin-Embedder-Policy", "unsafe-none")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		next.ServeHTTP(w, r)
	})
}
