package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/forumlab/forum-api/config"
	"github.com/forumlab/forum-api/internal/application"
	"github.com/forumlab/forum-api/internal/infrastructure/sqlstore"
	handlers "github.com/forumlab/forum-api/internal/interface/http"
	"github.com/forumlab/forum-api/internal/interface/middleware"
	"github.com/forumlab/forum-api/internal/router"
	"github.com/forumlab/forum-api/internal/router/modules"
	"github.com/forumlab/forum-api/internal/session"
	"github.com/forumlab/forum-api/internal/storage"
	"github.com/forumlab/forum-api/pkg/helpers"
	"github.com/forumlab/forum-api/pkg/markdown"
	"github.com/forumlab/forum-api/pkg/validation"
)

func main() {
	_ = godotenv.Load() // load .env if present

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)
	gin.SetMode(cfg.GinMode)
	validation.Init()

	ctx := context.Background()

	db, err := sqlstore.Open(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer func() { _ = db.Close() }()

	var files storage.BlobStore
	if cfg.UploadBackend == "gcs" {
		gcsClient, err := storage.NewGCSClient(ctx, cfg.GCSCredentialsJSONPath)
		if err != nil {
			log.Fatalf("failed to init GCS client: %v", err)
		}
		defer func() { _ = gcsClient.Close() }()
		files = storage.NewGCSStore(gcsClient, cfg.GCSBucket)
	} else {
		files = storage.NewDiskStore(cfg.UploadDir)
	}

	// Sessions live in this process only; a restart logs everyone out.
	sessions := session.NewManager()
	hasher := helpers.NewPasswordHasher(cfg.BcryptCost)
	renderer := markdown.New()

	users := sqlstore.NewUserRepository(db)
	posts := sqlstore.NewPostRepository(db)

	authSvc := application.NewAuthService(users, sessions, hasher, files, logger, cfg.MaxUploadBytes)
	forumSvc := application.NewForumService(posts, files, renderer, logger, cfg.MaxUploadBytes)

	authHandler := handlers.NewAuthHandler(authSvc, logger, cfg.CookieDomain, cfg.CookieSecure)
	forumHandler := handlers.NewForumHandler(forumSvc, logger)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	if origins := cfg.CORSOrigins(); len(origins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     origins,
			AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}
	if cfg.HTTPLogEnabled || cfg.Env == "development" {
		r.Use(gin.Logger())
	}
	if cfg.UploadBackend != "gcs" {
		r.Static("/uploads", cfg.UploadDir)
	}

	reg := router.NewRegistry(r)
	reg.Use(middleware.Session(sessions))
	reg.Add(modules.NewAuthModule(authHandler))
	reg.Add(modules.NewForumModule(forumHandler))
	reg.RegisterAll()

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		logger.Infof("forum running on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %s", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Fatalf("server forced to shutdown: %v", err)
	}
	logger.Info("server exited properly")
}
