package handler

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies why a submission was not stored
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindConfigMissing
	KindProbeFailed
	KindValidationFailed
	KindPersistFailed
)

func (k ErrorKind) String() string {
	switch k {
	case KindConfigMissing:
		return "config_missing"
	case KindProbeFailed:
		return "probe_failed"
	case KindValidationFailed:
		return "validation_failed"
	case KindPersistFailed:
		return "persist_failed"
	default:
		return "internal"
	}
}

// Client-facing error messages
const (
	msgMethodNotAllowed   = "Method not allowed"
	msgConfigMissing      = "Server configuration error: Missing Supabase credentials"
	msgProbeRejected      = "Supabase connection failed"
	msgProbeUnreachable   = "Supabase connection error"
	msgMissingBody        = "Missing request body"
	msgInvalidJSON        = "Invalid JSON payload"
	msgMissingFields      = "Missing required fields"
	msgPersistRejected    = "Database error"
	msgPersistUnreachable = "Database operation failed"
	msgInternal           = "Internal server error"
)

// SurveyError is returned by every failing step of a submission.
// Message is shown to the caller, followed by the upstream message when Err is set.
type SurveyError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func newSurveyError(kind ErrorKind, message string, err error) *SurveyError {
	return &SurveyError{Kind: kind, Message: message, Err: err}
}

func (e *SurveyError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + upstreamMessage(e.Err)
}

func (e *SurveyError) Unwrap() error { return e.Err }

// Status maps the error kind to an HTTP status code
func (e *SurveyError) Status() int {
	if e.Kind == KindValidationFailed {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// PostgrestError is an error reported by the Supabase REST API itself
type PostgrestError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

func (e *PostgrestError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("supabase error %d (%s): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("supabase error %d: %s", e.Status, e.Message)
}

// upstreamMessage returns the message the data store reported, or the error text
// for transport failures
func upstreamMessage(err error) string {
	var pgErr *PostgrestError
	if errors.As(err, &pgErr) {
		return pgErr.Message
	}
	return err.Error()
}

// probeError separates "service answered with an error" from "service unreachable"
func probeError(err error) *SurveyError {
	var pgErr *PostgrestError
	if errors.As(err, &pgErr) {
		return newSurveyError(KindProbeFailed, msgProbeRejected, err)
	}
	return newSurveyError(KindProbeFailed, msgProbeUnreachable, err)
}

func persistError(err error) *SurveyError {
	var pgErr *PostgrestError
	if errors.As(err, &pgErr) {
		return newSurveyError(KindPersistFailed, msgPersistRejected, err)
	}
	return newSurveyError(KindPersistFailed, msgPersistUnreachable, err)
}

// asSurveyError normalizes any error into a SurveyError, defaulting to KindInternal
func asSurveyError(err error) *SurveyError {
	var surveyErr *SurveyError
	if errors.As(err, &surveyErr) {
		return surveyErr
	}
	return newSurveyError(KindInternal, msgInternal, err)
}
