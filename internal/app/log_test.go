package app

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestPCHandler(t *testing.T) {
	t.Run("formats records as tab-separated fields", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(&pcHandler{w: &buf, opID: "op-123"})

		logger.Info("asset catalogued", "file", "a.jpg", "size", 42)

		line := strings.TrimSuffix(buf.String(), "\n")
		fields := strings.Split(line, "\t")
		if len(fields) != 6 {
			t.Fatalf("fields = %d (%q), want 6", len(fields), line)
		}
		if _, err := time.Parse("2006-01-02T15:04:05Z", fields[0]); err != nil {
			t.Errorf("timestamp %q does not parse: %v", fields[0], err)
		}
		if fields[1] != "INFO" {
			t.Errorf("level = %q, want INFO", fields[1])
		}
		if fields[2] != "op-123" {
			t.Errorf("opID = %q, want op-123", fields[2])
		}
		if fields[3] != "asset catalogued" {
			t.Errorf("message = %q", fields[3])
		}
		if fields[4] != "file=a.jpg" || fields[5] != "size=42" {
			t.Errorf("attrs = %q %q", fields[4], fields[5])
		}
	})

	t.Run("carries pre-set attrs before record attrs", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(&pcHandler{w: &buf, opID: "op"}).With("root", "/photos")

		logger.Warn("skipping file", "file", "bad.jpg")

		line := buf.String()
		rootIdx := strings.Index(line, "root=/photos")
		fileIdx := strings.Index(line, "file=bad.jpg")
		if rootIdx < 0 || fileIdx < 0 {
			t.Fatalf("missing attrs in %q", line)
		}
		if rootIdx > fileIdx {
			t.Errorf("pre-set attr after record attr in %q", line)
		}
	})

	t.Run("is enabled at every level", func(t *testing.T) {
		h := &pcHandler{w: &bytes.Buffer{}, opID: "op"}
		for _, level := range []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError} {
			if !h.Enabled(context.Background(), level) {
				t.Errorf("Enabled(%v) = false", level)
			}
		}
	})
}
