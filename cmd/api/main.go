package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/raqtkosh/backend/internal/config"
	"github.com/raqtkosh/backend/internal/db"
	"github.com/raqtkosh/backend/internal/identity"
	appmw "github.com/raqtkosh/backend/internal/middleware"
	"github.com/raqtkosh/backend/internal/mq"
	"github.com/raqtkosh/backend/internal/server"
	"github.com/raqtkosh/backend/internal/storage"
)

func main() {
	_ = godotenv.Load()
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	opts := server.Options{
		GitSHA:              cfg.GitSHA,
		BuildTime:           cfg.BuildTime,
		AllowedOriginSuffix: cfg.AllowedOriginSuffix,
	}

	authMw, err := appmw.NewAuthMiddleware(ctx, cfg.FirebaseProjectID)
	if err != nil {
		log.Printf("firebase auth disabled: %v", err)
	} else {
		opts.Auth = authMw
	}

	if cfg.WebhookSigningSecret != "" {
		v, err := identity.NewVerifier(cfg.WebhookSigningSecret)
		if err != nil {
			log.Fatalf("identity webhook secret: %v", err)
		}
		opts.Webhook = v
	} else {
		log.Printf("SIGNING_SECRET not set; identity webhook disabled")
	}

	if cfg.StorageBucket != "" {
		up, err := storage.New(ctx, cfg.StorageBucket, cfg.GoogleCredentialsFile)
		if err != nil {
			log.Printf("storage disabled: %v", err)
		} else {
			defer up.Close()
			opts.Store = up
		}
	}

	if cfg.RabbitURL != "" {
		pub, err := mq.NewPublisher(cfg.RabbitURL, cfg.RabbitExchange)
		if err != nil {
			log.Printf("rabbitmq disabled: %v", err)
		} else {
			defer pub.Close()
			opts.Publisher = pub
		}
	}

	srv := server.New(nil, opts)
	addr := ":" + cfg.Port

	errCh := make(chan error, 1)

	go func() {
		log.Printf("starting server on %s", addr)
		errCh <- srv.Start(addr)
	}()

	go func() {
		conn, err := db.Connect(cfg)
		if err != nil {
			log.Printf("db connect error: %v", err)
			return
		}
		if err := db.Migrate(conn); err != nil {
			log.Printf("auto migrate error: %v", err)
			return
		}
		srv.SetDB(conn)
		log.Printf("database ready")
	}()

	if err := <-errCh; err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
