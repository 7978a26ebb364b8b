// Package audit writes security events to append-only destinations.
package audit

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/antonetteqpkkkkk/Fish-Price-Monitoring-System/internal/core/domain"
)

// FileSink appends one JSON object per line:
//
//	{"ts":"…","type":"auth_missing","ip":"…","path":"…","detail":"…"}
type FileSink struct {
	out    zerolog.Logger
	closer io.Closer
}

// OpenFileSink opens path for appending, creating parent directories.
func OpenFileSink(path string) (*FileSink, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("audit: create log dir: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o640)
	if err != nil {
		return nil, fmt.Errorf("audit: open log: %w", err)
	}
	s := NewWriterSink(f)
	s.closer = f
	return s, nil
}

// NewWriterSink writes audit lines to w.
func NewWriterSink(w io.Writer) *FileSink {
	return &FileSink{out: zerolog.New(zerolog.SyncWriter(w))}
}

func (s *FileSink) Write(_ context.Context, event domain.AuditEvent) error {
	e := s.out.Log().
		Str("ts", event.TS.UTC().Format(time.RFC3339Nano)).
		Str("type", event.Type).
		Str("ip", event.IP).
		Str("path", event.Path)
	if event.Detail != "" {
		e = e.Str("detail", event.Detail)
	}
	e.Send()
	return nil
}

func (s *FileSink) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}
