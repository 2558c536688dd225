package handler

import (
	"log"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
)

var (
	router     *gin.Engine
	routerOnce sync.Once
)

// NewRouter builds the gin engine shared by the Vercel function and the local server
func NewRouter(config *Config, newStore StoreFactory, metrics *Metrics) *gin.Engine {
	engine := gin.New()

	// CORS runs before recovery so the headers survive a panic
	engine.Use(gin.Logger(), RequestIDMiddleware(), CORSMiddleware(), RecoveryMiddleware(metrics))

	// Root endpoint
	engine.GET("/", RootHandler(config))
	engine.GET("/api", RootHandler(config))

	// Health check endpoint
	engine.GET("/health", HealthCheckHandler(config))
	engine.GET("/api/health", HealthCheckHandler(config))

	if config.MetricsEnabled && metrics != nil {
		engine.GET("/metrics", gin.WrapH(metrics.Handler()))
		engine.GET("/api/metrics", gin.WrapH(metrics.Handler()))
	}

	// Survey submission; every method reaches the handler so it can answer 405 itself
	submit := SubmitManagerSurveyHandler(config, newStore, metrics)
	engine.Any("/submit-manager-survey", submit)
	engine.Any("/api/submit-manager-survey", submit)

	engine.NoRoute(NotFoundHandler)

	return engine
}

// Handler is the Vercel serverless function entry point.
// The router is built on the first invocation and reused while the instance is warm.
func Handler(w http.ResponseWriter, r *http.Request) {
	routerOnce.Do(func() {
		gin.SetMode(gin.ReleaseMode)
		config := LoadConfig()
		router = NewRouter(config, NewSupabaseStore, NewMetrics())
		log.Printf("✅ Routes configured")
	})

	log.Printf("📥 Request: %s %s", r.Method, r.URL.Path)

	router.ServeHTTP(w, r)
}
