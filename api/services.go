package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const clientInfo = "managersurvey-go/1.0"

// SurveyStore persists survey responses
type SurveyStore interface {
	// Probe checks that the data store answers before anything is written
	Probe(ctx context.Context) error
	// InsertResponse writes one response row
	InsertResponse(ctx context.Context, record SurveyResponseRecord) error
}

// StoreFactory builds the store used for a single request
type StoreFactory func(config *Config) SurveyStore

// NewSupabaseStore is the StoreFactory used in production
func NewSupabaseStore(config *Config) SurveyStore {
	return NewSupabaseService(config)
}

// SupabaseService talks to the Supabase REST (PostgREST) API with the service role key
type SupabaseService struct {
	config     *Config
	httpClient *http.Client
}

// NewSupabaseService creates a new Supabase service instance
func NewSupabaseService(config *Config) *SupabaseService {
	timeout := config.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &SupabaseService{
		config:     config,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// tableURL builds the REST URL of the survey table
func (s *SupabaseService) tableURL(query url.Values) string {
	endpoint := strings.TrimRight(s.config.SupabaseURL, "/") + "/rest/v1/" + url.PathEscape(s.config.Table())
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	return endpoint
}

// makeSupabaseRequest makes an HTTP request to the Supabase REST API.
// Non-2xx answers are returned as *PostgrestError.
func (s *SupabaseService) makeSupabaseRequest(ctx context.Context, method, endpoint string, body interface{}, prefer string) (*http.Response, error) {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("apikey", s.config.SupabaseServiceRoleKey)
	req.Header.Set("Authorization", "Bearer "+s.config.SupabaseServiceRoleKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Client-Info", clientInfo)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if prefer != "" {
		req.Header.Set("Prefer", prefer)
	}

	log.Printf("🌐 [SUPABASE] %s %s", method, req.URL.Path)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}

	log.Printf("📥 [SUPABASE] Response status: %d", resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		return nil, decodePostgrestError(resp)
	}

	return resp, nil
}

// Probe runs a head-only exact count on the survey table
func (s *SupabaseService) Probe(ctx context.Context) error {
	query := url.Values{}
	query.Set("select", "count")

	resp, err := s.makeSupabaseRequest(ctx, http.MethodHead, s.tableURL(query), nil, "count=exact")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if count, ok := parseContentRangeCount(resp.Header.Get("Content-Range")); ok {
		log.Printf("✅ [SUPABASE] Connection successful, %d existing responses", count)
	} else {
		log.Printf("✅ [SUPABASE] Connection successful")
	}
	return nil
}

// InsertResponse inserts a single row. The row is sent as a one-element array,
// which PostgREST writes in one statement.
func (s *SupabaseService) InsertResponse(ctx context.Context, record SurveyResponseRecord) error {
	resp, err := s.makeSupabaseRequest(ctx, http.MethodPost, s.tableURL(nil), []SurveyResponseRecord{record}, "return=minimal")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// decodePostgrestError reads a PostgREST error body. HEAD responses carry no
// body, so the status text stands in for the message.
func decodePostgrestError(resp *http.Response) *PostgrestError {
	pgErr := &PostgrestError{Status: resp.StatusCode}

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		log.Printf("❌ [SUPABASE] Failed to read error body: %v", err)
	} else if len(bytes.TrimSpace(bodyBytes)) > 0 {
		log.Printf("📥 [SUPABASE] Error body: %s", string(bodyBytes))
		if jsonErr := json.Unmarshal(bodyBytes, pgErr); jsonErr != nil {
			pgErr.Message = strings.TrimSpace(string(bodyBytes))
		}
	}

	if pgErr.Message == "" {
		pgErr.Message = http.StatusText(resp.StatusCode)
	}
	return pgErr
}

// parseContentRangeCount extracts the total from a "0-24/3573" or "*/42" header
func parseContentRangeCount(header string) (int, bool) {
	idx := strings.LastIndex(header, "/")
	if idx < 0 || idx == len(header)-1 {
		return 0, false
	}
	total := header[idx+1:]
	if total == "*" {
		return 0, false
	}
	count, err := strconv.Atoi(total)
	if err != nil {
		return 0, false
	}
	return count, true
}
