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

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	handler "managersurvey/api"
	"managersurvey/db"
)

func main() {
	migrate := flag.Bool("migrate", false, "create the survey table on SUPABASE_DB_URL and exit")
	flag.Parse()

	// Load environment variables FIRST (optional - will use system env vars if .env not found)
	if err := godotenv.Load(); err != nil {
		log.Printf("⚠️  No .env file found, using environment variables")
	} else {
		log.Printf("✅ Loaded configuration from .env file")
	}

	config := handler.LoadConfig()

	if *migrate {
		if err := runMigrate(config); err != nil {
			log.Fatalf("❌ Migration failed: %v", err)
		}
		return
	}

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	router := handler.NewRouter(config, handler.NewSupabaseStore, handler.NewMetrics())

	address := config.Host + ":" + config.Port
	log.Printf("🚀 Starting Managers Survey API on %s", address)
	log.Printf("📋 Available endpoints:")
	log.Printf("   GET  /api/health")
	log.Printf("   POST /api/submit-manager-survey")
	if config.MetricsEnabled {
		log.Printf("   GET  /api/metrics")
	}

	// Log configuration status
	if config.HasSupabaseConfig() {
		log.Printf("✅ Supabase configured (table %s)", config.Table())
	} else {
		log.Printf("⚠️  Supabase not configured, submissions will fail with a configuration error")
		log.Printf("   Set SUPABASE_URL and SUPABASE_SERVICE_ROLE_KEY")
	}

	server := &http.Server{
		Addr:              address,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("❌ Shutdown failed: %v", err)
		}
	}()

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("Failed to start server:", err)
	}
	log.Printf("👋 Server stopped")
}

func runMigrate(config *handler.Config) error {
	if !config.HasDatabaseConfig() {
		return errors.New("SUPABASE_DB_URL is required for -migrate")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := db.CreateSchema(ctx, config.DatabaseURL, config.Table()); err != nil {
		return err
	}
	log.Printf("✅ Table %s is ready", config.Table())
	return nil
}
