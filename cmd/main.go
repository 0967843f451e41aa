package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/krishyadav90/ProJobHub-IND/internal/chat"
	"github.com/krishyadav90/ProJobHub-IND/internal/config"
	"github.com/krishyadav90/ProJobHub-IND/utils"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Error loading .env file: %v", err)
	}

	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	flag.Parse()

	zl, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer zl.Sync()
	logger := zl.Sugar()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := openDB(cfg.Database.Driver, cfg.Database.URL)
	if err != nil {
		logger.Fatalf("open db: %v", err)
	}
	defer db.Close()

	var in infra

	in.redis, err = openRedis(ctx, cfg)
	if err != nil {
		logger.Fatalf("%v", err)
	}
	if in.redis != nil {
		defer in.redis.Close()
	}

	if cfg.NATS.URL != "" {
		nc, err := chat.ConnectNATS(cfg.NATS.URL, 5*time.Second)
		if err != nil {
			logger.Fatalf("connect nats: %v", err)
		}
		natsBus, err := chat.NewNATSBus(nc, cfg.NATS.Subject, logger)
		if err != nil {
			logger.Fatalf("subscribe nats: %v", err)
		}
		defer natsBus.Close()
		in.bus = natsBus
	} else {
		in.bus = chat.NewLocalBus()
	}

	if cfg.Storage.Bucket != "" {
		uploader, err := utils.NewS3Uploader(utils.S3Config{
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
			Bucket:    cfg.Storage.Bucket,
			Region:    cfg.Storage.Region,
			Endpoint:  cfg.Storage.Endpoint,
			PublicURL: cfg.Storage.PublicURL,
		})
		if err != nil {
			logger.Fatalf("init storage: %v", err)
		}
		in.uploader = uploader
	}

	in.messaging, err = openMessaging(ctx, cfg.Firebase.CredentialsFile)
	if err != nil {
		logger.Errorf("push notifications disabled: %v", err)
	}

	in.static, err = config.LoadStaticListings(cfg.StaticListingsFile)
	if err != nil {
		logger.Fatalf("%v", err)
	}

	app, err := initializeApp(cfg, db, in, logger)
	if err != nil {
		logger.Fatalf("init app: %v", err)
	}

	startBoardRefresher(ctx, app.board, cfg.Server.BoardRefresh, logger)
	if app.redis != nil {
		go app.presence.Watch(ctx)
	}

	router, err := app.routes()
	if err != nil {
		logger.Fatalf("routes: %v", err)
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowCredentials: true,
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
	})

	srv := &http.Server{
		Addr:         cfg.Server.Address,
		ErrorLog:     zap.NewStdLog(zl),
		Handler:      addSecurityHeaders(c.Handler(router)),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Errorf("shutdown: %v", err)
		}
	}()

	logger.Infof("Starting server on %s", cfg.Server.Address)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatalf("%v", err)
	}
}
