package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
)

func TestLoggerIncludesViewer(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	handler := Logger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte("ok"))
	}))

	req := httptest.NewRequest("POST", "/inbox", nil)
	req.Header.Set("X-Souq-User", "c2f7a1de-9b44-4c3e-8d1a-5e6f7a8b9c0d")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	var line map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("unmarshal log line: %v", err)
	}
	if line["viewer"] != "c2f7a1de-9b44-4c3e-8d1a-5e6f7a8b9c0d" {
		t.Fatalf("viewer = %v", line["viewer"])
	}
	if line["status"] != float64(http.StatusCreated) {
		t.Fatalf("status = %v", line["status"])
	}
	if line["method"] != "POST" {
		t.Fatalf("method = %v", line["method"])
	}
}

func TestLoggerAnonymousRequestOmitsViewer(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	handler := Logger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	var line map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("unmarshal log line: %v", err)
	}
	if _, ok := line["viewer"]; ok {
		t.Fatal("viewer field present on anonymous request")
	}
}
