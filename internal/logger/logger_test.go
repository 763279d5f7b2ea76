package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"tasktrack/backend/internal/logger"
)

func TestNew_ServiceField(t *testing.T) {
	log := logger.New("tasktrack-test")

	var buf bytes.Buffer
	log.SetOutput(&buf)

	log.Info("hello")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Expected JSON log line, got %q: %v", buf.String(), err)
	}

	if entry["service"] != "tasktrack-test" {
		t.Errorf("Expected service field, got %v", entry["service"])
	}

	if entry["message"] != "hello" {
		t.Errorf("Expected message field, got %v", entry["message"])
	}
}

func TestWithRequestID(t *testing.T) {
	log := logger.New("tasktrack-test")

	entry := logger.WithRequestID(log, "req-123")
	if entry.Data["request_id"] != "req-123" {
		t.Errorf("Expected request_id field, got %v", entry.Data["request_id"])
	}

	empty := logger.WithRequestID(log, "")
	if _, ok := empty.Data["request_id"]; ok {
		t.Error("Expected no request_id field for empty id")
	}
}
