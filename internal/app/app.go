package app

import (
	"context"
	"fmt"
	"time"

	"artsy/internal/config"
	"artsy/internal/db"
	"artsy/internal/handlers"
	"artsy/internal/logger"
	"artsy/internal/markdown"
	"artsy/internal/media"
	"artsy/internal/middleware"
	"artsy/internal/models"
	"artsy/internal/repository"
	"artsy/internal/routes"
	"artsy/internal/sanitize"
	"artsy/internal/services"
	"artsy/internal/storage"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// InitApp wires storage, services and handlers. The returned func releases
// the database pool and object store clients.
func InitApp(ctx context.Context, cfg *config.Config) (*mux.Router, func(), error) {
	var cleanups []func()
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	store, err := openStore(ctx, cfg, &cleanups)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	objects, closeObjects, err := storage.New(ctx, cfg)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("object store: %w", err)
	}
	cleanups = append(cleanups, closeObjects)

	ingestor := media.NewIngestor(objects, media.Config{
		Quality:   cfg.ImageQuality,
		MaxPixels: cfg.MaxImagePixels,
		Workers:   cfg.TranscodeWorkers,
		URLPrefix: cfg.MediaURLPrefix,
	})
	content := services.NewContentPipeline(markdown.New(markdown.DefaultConfig()), sanitize.New())
	site := services.SiteInfo{BaseURL: cfg.BaseURL, Title: cfg.SiteTitle, Description: cfg.SiteDescription}

	// services
	articleSvc := services.NewArticleService(services.ArticleDeps{
		Store:       store,
		Images:      ingestor,
		Content:     content,
		Site:        site,
		HeaderImage: media.Resize{Width: cfg.HeaderImageWidth, Height: cfg.HeaderImageHeight},
	})
	commentSvc := services.NewCommentService(store)
	fileSvc := services.NewFileService(store, ingestor, objects)
	feedSvc := services.NewFeedService(store, content, site)

	// handlers
	maxUpload := cfg.UploadMaxBytes()
	articleH := handlers.NewArticleHandler(articleSvc, maxUpload)
	commentH := handlers.NewCommentHandler(commentSvc)
	fileH := handlers.NewFileHandler(fileSvc, maxUpload)
	seoH := handlers.NewSEOHandler(feedSvc)

	router := mux.NewRouter()
	routes.InitRoutes(router, cfg.JWTSecret, articleH, commentH, fileH, seoH)

	return router, cleanup, nil
}

func openStore(ctx context.Context, cfg *config.Config, cleanups *[]func()) (repository.Store, error) {
	if cfg.Store == "memory" {
		mem := repository.NewMemoryStore()
		if cfg.Env == "dev" {
			seedDevAdmin(mem, cfg.JWTSecret)
		}
		return mem, nil
	}

	pool, err := db.NewPostgresConnection(ctx, cfg)
	if err != nil {
		return nil, err
	}
	*cleanups = append(*cleanups, pool.Close)
	logger.Log.Info("connected to postgres", zap.String("dsn", cfg.GetDSNSafe()))
	return repository.NewPostgresStore(pool), nil
}

// seedDevAdmin gives an in-memory dev instance one usable account, since
// accounts are normally owned by an external identity service.
func seedDevAdmin(mem *repository.MemoryStore, secret string) {
	admin := models.User{ID: "dev-admin", Name: "Dev Admin", Role: models.RoleAdmin, CreatedAt: time.Now()}
	mem.PutUser(admin)
	if secret == "" {
		return
	}
	token, err := middleware.IssueToken(secret, models.Requester{UserID: admin.ID, Role: admin.Role}, 24*time.Hour)
	if err != nil {
		logger.Log.Warn("dev token not issued", zap.Error(err))
		return
	}
	logger.Log.Info("dev admin seeded", zap.String("user_id", admin.ID), zap.String("bearer", token))
}
