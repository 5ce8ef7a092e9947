package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/eslsoft/lingvo/internal/infrastructure/config"
)

func TestRequestLogger_LevelFollowsStatus(t *testing.T) {
	tests := []struct {
		status int
		level  logrus.Level
	}{
		{status: http.StatusOK, level: logrus.InfoLevel},
		{status: http.StatusConflict, level: logrus.WarnLevel},
		{status: http.StatusServiceUnavailable, level: logrus.ErrorLevel},
	}
	for _, tc := range tests {
		logger, hook := test.NewNullLogger()
		handler := RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(tc.status)
		}))

		req := httptest.NewRequest(http.MethodGet, "/api/v1/vocabulary?page=2", nil)
		req.Header.Set("X-Forwarded-For", " 10.0.0.1, 10.0.0.2")
		handler.ServeHTTP(httptest.NewRecorder(), req)

		entry := hook.LastEntry()
		if entry == nil {
			t.Fatalf("status %d: expected a log entry", tc.status)
		}
		if entry.Level != tc.level {
			t.Fatalf("status %d: expected level %s, got %s", tc.status, tc.level, entry.Level)
		}
		if entry.Data["status"] != tc.status {
			t.Fatalf("expected status field %d, got %v", tc.status, entry.Data["status"])
		}
		if entry.Data["client_ip"] != "10.0.0.1" {
			t.Fatalf("expected client ip 10.0.0.1, got %v", entry.Data["client_ip"])
		}
		if entry.Data["query"] != "page=2" {
			t.Fatalf("expected query page=2, got %v", entry.Data["query"])
		}
	}
}

func TestNewLogger(t *testing.T) {
	cfg := &config.Config{Log: config.LogConfig{Level: "debug", Format: "text"}}
	logger, err := NewLogger(cfg)
	if err != nil {
		t.Fatalf("NewLogger returned error: %v", err)
	}
	if logger.GetLevel() != logrus.DebugLevel {
		t.Fatalf("expected debug level, got %s", logger.GetLevel())
	}
	if _, ok := logger.Formatter.(*logrus.TextFormatter); !ok {
		t.Fatalf("expected text formatter, got %T", logger.Formatter)
	}

	cfg.Log.Level = "loud"
	if _, err := NewLogger(cfg); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}
