// Package testutil provides testing utilities for the ledger client.
package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
)

// MockResponse defines the behavior for a mock endpoint response.
type MockResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
}

// RecordedRequest is one request the mock received.
type RecordedRequest struct {
	Method string
	Path   string
	Query  url.Values
	Body   []byte
}

// MockLedger is a configurable mock ledger API server. Handlers are keyed by
// path and by the "cursor" query parameter so paged listings can be scripted.
type MockLedger struct {
	server    *httptest.Server
	mu        sync.RWMutex
	responses map[string]MockResponse
	requests  []RecordedRequest
}

// NewMockLedger creates a new mock ledger server. Unscripted paths return 404.
func NewMockLedger() *MockLedger {
	mock := &MockLedger{
		responses: make(map[string]MockResponse),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)

		mock.mu.Lock()
		mock.requests = append(mock.requests, RecordedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.Query(),
			Body:   body,
		})
		resp, exists := mock.responses[responseKey(r.Method, r.URL.Path, r.URL.Query().Get("cursor"))]
		mock.mu.Unlock()

		if !exists {
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error":"Not Found"}`))
			return
		}

		for key, value := range resp.Headers {
			w.Header().Set(key, value)
		}
		w.WriteHeader(resp.StatusCode)
		if resp.Body != "" {
			w.Write([]byte(resp.Body))
		}
	}))

	return mock
}

// URL returns the mock server URL.
func (m *MockLedger) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockLedger) Close() {
	m.server.Close()
}

// SetResponse scripts a response for method and path when called with cursor
// ("" for the first page).
func (m *MockLedger) SetResponse(method, path, cursor string, resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[responseKey(method, path, cursor)] = resp
}

// SetPage scripts a GET list page holding records, followed by next ("" for
// the last page).
func (m *MockLedger) SetPage(path, cursor string, records []map[string]any, next string) {
	envelope := map[string]any{"data": records}
	if next != "" {
		envelope["cursor"] = next
	}
	m.SetResponse(http.MethodGet, path, cursor, NewJSONResponse(envelope))
}

// Requests returns a copy of the requests received so far.
func (m *MockLedger) Requests() []RecordedRequest {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]RecordedRequest, len(m.requests))
	copy(out, m.requests)
	return out
}

// GetRequestCount returns the number of requests made to the server.
func (m *MockLedger) GetRequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.requests)
}

// NewJSONResponse creates a 200 OK response with v encoded as the body.
func NewJSONResponse(v any) MockResponse {
	body, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return MockResponse{
		StatusCode: http.StatusOK,
		Body:       string(body),
		Headers: map[string]string{
			"Content-Type": "application/json; charset=utf-8",
		},
	}
}

// NewServerErrorResponse creates a 500 Internal Server Error response.
func NewServerErrorResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusInternalServerError,
		Body:       `{"error": "Internal server error"}`,
		Headers: map[string]string{
			"Content-Type": "application/json; charset=utf-8",
		},
	}
}

// NewRateLimitResponse creates a 429 Too Many Requests response.
func NewRateLimitResponse(retryAfter string) MockResponse {
	return MockResponse{
		StatusCode: http.StatusTooManyRequests,
		Body:       `{"error": "Too Many Requests"}`,
		Headers: map[string]string{
			"Retry-After":  retryAfter,
			"Content-Type": "application/json; charset=utf-8",
		},
	}
}

// PaymentV1Record builds a payment_v1 wire record.
func PaymentV1Record(hash, payer, payee string, amount int64) map[string]any {
	return map[string]any{
		"type":      "payment_v1",
		"time":      1586629801,
		"signature": "sig-" + hash,
		"payer":     payer,
		"payee":     payee,
		"nonce":     54,
		"height":    12345,
		"hash":      hash,
		"fee":       0,
		"amount":    amount,
	}
}

func responseKey(method, path, cursor string) string {
	return method + " " + path + "?" + cursor
}
