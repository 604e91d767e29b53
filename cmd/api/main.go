package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/xelth-com/ecksvcgo/internal/authority"
	"github.com/xelth-com/ecksvcgo/internal/cache"
	"github.com/xelth-com/ecksvcgo/internal/config"
	"github.com/xelth-com/ecksvcgo/internal/database"
	"github.com/xelth-com/ecksvcgo/internal/handlers"
	"github.com/xelth-com/ecksvcgo/internal/models"
	"github.com/xelth-com/ecksvcgo/internal/reconcile"
	"github.com/xelth-com/ecksvcgo/internal/store"
	"github.com/xelth-com/ecksvcgo/internal/websocket"
)

// hubNotifier pushes finished pass reports to connected dashboards
type hubNotifier struct {
	hub *websocket.Hub
}

func (n hubNotifier) BroadcastReport(report *reconcile.Report) {
	n.hub.Broadcast("pass_report", report)
}

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// 2. Initialize database (Detects Embedded vs External automatically)
	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	// Note: db.Close() is called manually in shutdown handler below

	// 3. Auto-Migrate Schema
	log.Println("🚀 Synchronizing database schema...")
	err = db.AutoMigrate(
		&models.UserAuth{},
		&models.Customer{},
		&models.Queue{},
		&models.Status{},
		&models.Product{},
		&models.Order{},
		&models.OrderNote{},
		&models.ServiceOrderItem{},
		&models.Device{},
		&models.Repair{},
		&models.TaggedItem{},
		&models.PassRun{},
	)
	if err != nil {
		log.Printf("⚠️ Migration warning: %v\n", err)
	} else {
		log.Println("✅ Schema synchronized successfully")
	}

	st := store.New(db)

	// 4. Cache regions (optional: the app runs without Redis, just uncached)
	var caches *cache.Registry
	if cfg.Redis.URL != "" {
		caches, err = cache.NewRegistry(cfg.Redis.URL)
		if err != nil {
			log.Printf("⚠️ Cache backend unavailable, running uncached: %v", err)
			caches = nil
		} else {
			log.Println("✅ Cache regions ready")
		}
	}

	// 5. Dashboard event hub
	hub := websocket.NewHub()
	go hub.Run()

	// 6. Reconciliation service
	authClient := authority.NewClient(
		cfg.Authority.URL,
		cfg.Authority.Username,
		cfg.Authority.Password,
		time.Duration(cfg.Authority.TimeoutSeconds)*time.Second,
	)

	var invalidator reconcile.Invalidator
	if caches != nil {
		invalidator = caches
	}
	service := reconcile.NewService(
		reconcile.NewReconciler(st, reconcile.NewRemoteAuthority(authClient)),
		reconcile.NewRecomputer(st),
		reconcile.NewTagNormalizer(st),
		reconcile.NewCodeNormalizer(st),
		st,
		hubNotifier{hub: hub},
		invalidator,
		time.Duration(cfg.Reconcile.IntervalMinutes)*time.Minute,
	)

	if cfg.Reconcile.Enabled {
		if cfg.Authority.URL == "" {
			log.Println("⚠️ AUTHORITY_URL not configured; repair reconciliation will report every candidate unreachable")
		}
		service.Start()
	} else {
		log.Println("📴 Reconciliation service disabled by configuration")
	}

	// 7. Set up HTTP router
	router := handlers.NewRouter(db, st, cfg)
	router.SetService(service)
	router.SetCaches(caches)
	router.SetHub(hub)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Channel to listen for shutdown signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	// Start server in goroutine
	go func() {
		log.Printf("🚀 Server starting on port %s\n", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for shutdown signal
	sig := <-shutdown
	log.Printf("\n⚠️  Received signal: %v. Shutting down gracefully...\n", sig)

	// Create context with timeout for graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown HTTP server
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	// Stop background sweeps
	if cfg.Reconcile.Enabled {
		service.Stop()
	}

	// Close cache connections
	if caches != nil {
		if err := caches.Close(); err != nil {
			log.Printf("Cache close error: %v", err)
		}
	}

	// Close database (this also stops embedded PostgreSQL)
	log.Println("🛑 Closing database connection...")
	if err := db.Close(); err != nil {
		log.Printf("Database close error: %v", err)
	}

	log.Println("✅ Shutdown complete")
}
