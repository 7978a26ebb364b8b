package audit

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/antonetteqpkkkkk/Fish-Price-Monitoring-System/internal/core/domain"
)

func TestFileSink_WritesJSONLines(t *testing.T) {
	var buf bytes.Buffer
	sink := NewWriterSink(&buf)
	ts := time.Date(2026, 1, 22, 8, 0, 0, 0, time.UTC)

	_ = sink.Write(context.Background(), domain.AuditEvent{TS: ts, Type: domain.DenialAuthMissing, IP: "10.0.0.1", Path: "/api/fish-prices"})
	_ = sink.Write(context.Background(), domain.AuditEvent{TS: ts, Type: domain.DenialLoginFailed, IP: "10.0.0.2", Path: "/api/admin/login", Detail: "bad_password"})

	sc := bufio.NewScanner(&buf)
	var lines []map[string]string
	for sc.Scan() {
		var m map[string]string
		if err := json.Unmarshal(sc.Bytes(), &m); err != nil {
			t.Fatalf("line is not JSON: %q: %v", sc.Text(), err)
		}
		lines = append(lines, m)
	}
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[0]["ts"] != "2026-01-22T08:00:00Z" || lines[0]["type"] != "auth_missing" {
		t.Fatalf("unexpected first line: %v", lines[0])
	}
	if _, ok := lines[0]["detail"]; ok {
		t.Fatalf("empty detail must be omitted: %v", lines[0])
	}
	if _, ok := lines[0]["message"]; ok {
		t.Fatalf("no message field expected: %v", lines[0])
	}
	if lines[1]["detail"] != "bad_password" {
		t.Fatalf("unexpected second line: %v", lines[1])
	}
}

func TestOpenFileSink_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "audit.log")
	sink, err := OpenFileSink(path)
	if err != nil {
		t.Fatalf("OpenFileSink returned error: %v", err)
	}
	_ = sink.Write(context.Background(), domain.AuditEvent{TS: time.Now(), Type: domain.DenialAuthInvalidRole, IP: "::1", Path: "/api/fish-prices/1"})
	if err := sink.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read audit log: %v", err)
	}
	if !bytes.Contains(data, []byte(`"type":"auth_invalid_role"`)) {
		t.Fatalf("unexpected log content: %s", data)
	}
}
