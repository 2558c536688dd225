package handler

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

// SubmitManagerSurveyHandler handles managers survey submissions.
// Every failing step returns immediately; nothing is retried.
func SubmitManagerSurveyHandler(config *Config, newStore StoreFactory, metrics *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost {
			metrics.RecordOutcome(outcomeMethodNotAllowed)
			c.JSON(http.StatusMethodNotAllowed, ErrorResponse{Error: msgMethodNotAllowed})
			return
		}

		log.Printf("🔔 [SURVEY %s] Request received", requestID(c))

		if err := submitSurvey(c, config, newStore, metrics); err != nil {
			surveyErr := asSurveyError(err)
			log.Printf("❌ [SURVEY %s] %s: %v", requestID(c), surveyErr.Kind, surveyErr)
			metrics.RecordOutcome(surveyErr.Kind.String())
			c.JSON(surveyErr.Status(), ErrorResponse{Error: surveyErr.Error()})
			return
		}

		metrics.RecordOutcome(outcomeSuccess)
		c.JSON(http.StatusOK, SubmissionResponse{Success: true})
	}
}

func submitSurvey(c *gin.Context, config *Config, newStore StoreFactory, metrics *Metrics) error {
	ctx := c.Request.Context()
	tag := requestID(c)

	log.Printf("🔧 [SURVEY %s] Supabase URL present: %t", tag, config.SupabaseURL != "")
	log.Printf("🔧 [SURVEY %s] Supabase key present: %t", tag, config.SupabaseServiceRoleKey != "")

	if !config.HasSupabaseConfig() {
		return newSurveyError(KindConfigMissing, msgConfigMissing, nil)
	}

	store := newStore(config)

	start := time.Now()
	err := store.Probe(ctx)
	metrics.ObserveUpstream("probe", start)
	if err != nil {
		return probeError(err)
	}

	log.Printf("✅ [SURVEY %s] Supabase connection successful", tag)

	var raw []byte
	if c.Request.Body != nil {
		raw, err = c.GetRawData()
		if err != nil {
			return newSurveyError(KindInternal, msgInternal, err)
		}
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return newSurveyError(KindValidationFailed, msgMissingBody, nil)
	}

	log.Printf("📦 [SURVEY %s] Request body: %s", tag, string(trimmed))

	var submission SurveySubmission
	if err := binding.JSON.BindBody(trimmed, &submission); err != nil {
		return newSurveyError(KindValidationFailed, msgInvalidJSON, err)
	}

	if err := submission.Validate(); err != nil {
		return err
	}

	record := BuildResponseRecord(submission, ClientIPAddress(c.Request))

	if recordJSON, err := json.Marshal(record); err == nil {
		log.Printf("📤 [SURVEY %s] Data to insert: %s", tag, string(recordJSON))
	}

	log.Printf("🔄 [SURVEY %s] Attempting to insert data...", tag)

	start = time.Now()
	err = store.InsertResponse(ctx, record)
	metrics.ObserveUpstream("insert", start)
	if err != nil {
		return persistError(err)
	}

	log.Printf("🎉 [SURVEY %s] Data inserted successfully", tag)
	return nil
}

// HealthCheckHandler provides a simple health check endpoint.
// It never calls Supabase; it only reports whether credentials are configured.
func HealthCheckHandler(config *Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":     "healthy",
			"service":    "Managers Survey API",
			"version":    "1.0.0",
			"configured": config.HasSupabaseConfig(),
		})
	}
}

// RootHandler describes the service and its endpoints
func RootHandler(config *Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		endpoints := gin.H{
			"health": "/api/health",
			"submit": "/api/submit-manager-survey",
		}
		if config.MetricsEnabled {
			endpoints["metrics"] = "/api/metrics"
		}
		c.JSON(http.StatusOK, gin.H{
			"status":    "running",
			"message":   "Managers Survey API",
			"version":   "1.0",
			"endpoints": endpoints,
		})
	}
}

// NotFoundHandler answers unknown routes with a JSON error
func NotFoundHandler(c *gin.Context) {
	c.JSON(http.StatusNotFound, ErrorResponse{Error: "Not found"})
}
