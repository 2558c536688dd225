package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, handler http.HandlerFunc) *SupabaseService {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewSupabaseService(&Config{
		SupabaseURL:            server.URL + "/",
		SupabaseServiceRoleKey: "service-role-key",
		SurveyTable:            DefaultSurveyTable,
		RequestTimeout:         5 * time.Second,
	})
}

func TestProbeSendsHeadCount(t *testing.T) {
	var got *http.Request
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Clone(context.Background())
		w.Header().Set("Content-Range", "*/42")
		w.WriteHeader(http.StatusOK)
	})

	require.NoError(t, svc.Probe(context.Background()))

	require.NotNil(t, got)
	assert.Equal(t, http.MethodHead, got.Method)
	assert.Equal(t, "/rest/v1/managers_survey_responses", got.URL.Path)
	assert.Equal(t, "count", got.URL.Query().Get("select"))
	assert.Equal(t, "count=exact", got.Header.Get("Prefer"))
	assert.Equal(t, "service-role-key", got.Header.Get("apikey"))
	assert.Equal(t, "Bearer service-role-key", got.Header.Get("Authorization"))
}

func TestProbeReportsServiceError(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	err := svc.Probe(context.Background())

	var pgErr *PostgrestError
	require.True(t, errors.As(err, &pgErr))
	assert.Equal(t, http.StatusUnauthorized, pgErr.Status)
	assert.Equal(t, "Unauthorized", pgErr.Message)
	assert.Equal(t, "Supabase connection failed: Unauthorized", probeError(err).Error())
}

func TestProbeReportsTransportError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()
	svc := NewSupabaseService(&Config{SupabaseURL: server.URL, SupabaseServiceRoleKey: "k"})

	err := svc.Probe(context.Background())

	require.Error(t, err)
	var pgErr *PostgrestError
	assert.False(t, errors.As(err, &pgErr))
	assert.Contains(t, probeError(err).Error(), "Supabase connection error: ")
}

func TestInsertResponseSendsSingleRowArray(t *testing.T) {
	var (
		method string
		prefer string
		rows   []map[string]any
	)
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		prefer = r.Header.Get("Prefer")
		body, err := io.ReadAll(r.Body)
		if err == nil {
			_ = json.Unmarshal(body, &rows)
		}
		w.WriteHeader(http.StatusCreated)
	})

	challenge := "delays"
	err := svc.InsertResponse(context.Background(), SurveyResponseRecord{
		Country:         "Kenya",
		FacedChallenges: true,
		MainChallenge:   &challenge,
		IPAddress:       "unknown",
	})

	require.NoError(t, err)
	assert.Equal(t, http.MethodPost, method)
	assert.Equal(t, "return=minimal", prefer)
	require.Len(t, rows, 1)
	assert.Equal(t, "Kenya", rows[0]["country"])
	assert.Equal(t, true, rows[0]["faced_challenges"])
	assert.Equal(t, "delays", rows[0]["main_challenge"])
	assert.Nil(t, rows[0]["feedback_reason"])
}

func TestInsertResponseDecodesPostgrestError(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"code":"PGRST204","details":null,"hint":null,"message":"Could not find the 'country' column"}`))
	})

	err := svc.InsertResponse(context.Background(), SurveyResponseRecord{Country: "Kenya"})

	var pgErr *PostgrestError
	require.True(t, errors.As(err, &pgErr))
	assert.Equal(t, "PGRST204", pgErr.Code)
	assert.Equal(t, "Could not find the 'country' column", pgErr.Message)
	assert.Equal(t, "Database error: Could not find the 'country' column", persistError(err).Error())
}

func TestInsertResponseKeepsPlainTextErrors(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream unavailable", http.StatusBadGateway)
	})

	err := svc.InsertResponse(context.Background(), SurveyResponseRecord{})

	var pgErr *PostgrestError
	require.True(t, errors.As(err, &pgErr))
	assert.Equal(t, "upstream unavailable", pgErr.Message)
}

func TestParseContentRangeCount(t *testing.T) {
	tests := []struct {
		header string
		count  int
		ok     bool
	}{
		{"*/42", 42, true},
		{"0-24/3573", 3573, true},
		{"0-24/*", 0, false},
		{"", 0, false},
		{"*/", 0, false},
	}
	for _, tt := range tests {
		count, ok := parseContentRangeCount(tt.header)
		assert.Equal(t, tt.ok, ok, tt.header)
		assert.Equal(t, tt.count, count, tt.header)
	}
}

func TestTableURLEscapesName(t *testing.T) {
	svc := NewSupabaseService(&Config{SupabaseURL: "https://abc.supabase.co/", SurveyTable: "survey responses"})

	assert.Equal(t, "https://abc.supabase.co/rest/v1/survey%20responses", svc.tableURL(nil))
}
