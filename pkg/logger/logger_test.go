package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

func TestWithFieldsFlowsThroughContext(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{ServiceName: "test", Output: &buf})

	ctx := log.WithFields(context.Background(), map[string]any{
		"product_id": "p-1",
	})
	ctx = log.WithRequestID(ctx, "req-42")
	log.Info(ctx, "hello")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("invalid json log line: %v", err)
	}
	if entry["product_id"] != "p-1" {
		t.Fatalf("expected product_id field, got %v", entry["product_id"])
	}
	if entry["request_id"] != "req-42" {
		t.Fatalf("expected request_id field, got %v", entry["request_id"])
	}
	if entry["service"] != "test" {
		t.Fatalf("expected service field, got %v", entry["service"])
	}
}

func TestErrorIncludesStack(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{ServiceName: "test", Output: &buf})

	log.Error(context.Background(), "boom", nil)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("invalid json log line: %v", err)
	}
	if entry["stack"] == nil || entry["stack"] == "" {
		t.Fatal("expected stack field on error logs")
	}
}

func TestParseLevel(t *testing.T) {
	if ParseLevel("debug") != zerolog.DebugLevel {
		t.Fatal("expected debug level")
	}
	if ParseLevel("") != zerolog.InfoLevel {
		t.Fatal("expected info fallback for empty value")
	}
	if ParseLevel("nonsense") != zerolog.InfoLevel {
		t.Fatal("expected info fallback for unknown value")
	}
}
