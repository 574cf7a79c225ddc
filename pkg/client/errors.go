package client

import (
	"errors"
	"fmt"
)

// Common errors returned by the client.
var (
	// ErrNotFound is wrapped by the APIError of a 404 response.
	ErrNotFound = errors.New("resource not found")

	// ErrRateLimited is returned when a 429 cool-down is active.
	ErrRateLimited = errors.New("request blocked: ledger API cool-down active")
)

// ErrorClass represents a classification of request failures.
type ErrorClass string

const (
	// ErrorClassClient represents 4xx client errors.
	ErrorClassClient ErrorClass = "client"

	// ErrorClassServer represents 5xx server errors.
	ErrorClassServer ErrorClass = "server"

	// ErrorClassRateLimit represents 429 Too Many Requests.
	ErrorClassRateLimit ErrorClass = "rate_limit"

	// ErrorClassNetwork represents network/timeout errors.
	ErrorClassNetwork ErrorClass = "network"
)

// APIError is a failed ledger API request.
type APIError struct {
	StatusCode int
	ErrorClass ErrorClass
	Message    string
	Err        error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("ledger API %s error (status %d): %s: %v",
			e.ErrorClass, e.StatusCode, e.Message, e.Err)
	}
	return fmt.Sprintf("ledger API %s error (status %d): %s",
		e.ErrorClass, e.StatusCode, e.Message)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *APIError) Unwrap() error {
	return e.Err
}

// shouldRetry determines if an error should be retried based on its classification.
func shouldRetry(errorClass ErrorClass) bool {
	switch errorClass {
	case ErrorClassClient:
		return false
	case ErrorClassServer:
		return true
	case ErrorClassRateLimit:
		// The tracker's cool-down governs when to try again, not the backoff.
		return false
	case ErrorClassNetwork:
		return true
	default:
		return false
	}
}
