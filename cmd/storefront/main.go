package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mittbutik/storefront/config"
	"github.com/mittbutik/storefront/internal/app/controller"
	"github.com/mittbutik/storefront/internal/app/service"
	"github.com/mittbutik/storefront/internal/bus"
	"github.com/mittbutik/storefront/internal/catalog"
	"github.com/mittbutik/storefront/internal/router"
	"github.com/mittbutik/storefront/internal/storage"
	"github.com/mittbutik/storefront/internal/ws"
	"github.com/mittbutik/storefront/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting Storefront Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"catalog":     cfg.Catalog.BaseURL,
		"storage":     cfg.Storage.Backend,
	})

	// Select the storage backend holding the persisted cart
	store, closeStore, err := openStore(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize storage", err)
	}
	defer closeStore()

	// Event bus: the only coupling between components
	eventBus := bus.New()

	// Catalog client and components
	catalogClient := catalog.NewClient(&cfg.Catalog)
	categoryService := service.NewCategoryService(catalogClient, eventBus)
	productBrowser := service.NewProductBrowser(catalogClient, eventBus, cfg.Browser.SearchDebounce)
	detailService := service.NewDetailService(catalogClient, eventBus)
	cartService := service.NewCartService(store, eventBus, cfg.Storage.Key)
	viewRouter := service.NewViewRouter(eventBus)

	// Cart feed for independent observers (navbar badge and friends)
	cartFeed := ws.NewHub(eventBus)
	go cartFeed.Run()

	// Load the category grid in the background; the server can start serving
	// its Loading state right away.
	go categoryService.Load(context.Background())

	// Initialize controllers
	categoryController := controller.NewCategoryController(categoryService, productBrowser)
	productController := controller.NewProductController(productBrowser)
	detailController := controller.NewDetailController(detailService)
	cartController := controller.NewCartController(cartService, detailService)
	viewController := controller.NewViewController(viewRouter)

	// Setup router
	r := router.NewRouter(
		categoryController,
		productController,
		detailController,
		cartController,
		viewController,
		cartFeed,
		cfg,
	)
	engine := r.Setup()

	// Start server in a goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	logger.Info("Server stopped successfully")
}

func openStore(cfg *config.Config) (storage.Store, func(), error) {
	switch cfg.Storage.Backend {
	case "redis":
		store, err := storage.NewRedisStore(&cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {
			if err := store.Close(); err != nil {
				logger.Error("Failed to close Redis connection", err)
			}
		}, nil
	case "memory":
		return storage.NewMemoryStore(), func() {}, nil
	default:
		return storage.NewFileStore(cfg.Storage.File), func() {}, nil
	}
}
