package ctxkey

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestWithRequestID(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewTextHandler(&buf, nil))

	ctx := WithRequestID(context.Background(), "req-1", base)

	id, ok := RequestID(ctx)
	if !ok || id != "req-1" {
		t.Errorf("RequestID() = %q, %v, want req-1, true", id, ok)
	}

	Logger(ctx, nil).Info("hello")
	if !strings.Contains(buf.String(), "request_id=req-1") {
		t.Errorf("log output = %q, want request_id field", buf.String())
	}
}

func TestLogger_Fallback(t *testing.T) {
	fallback := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	if got := Logger(context.Background(), fallback); got != fallback {
		t.Error("Logger() did not return fallback for empty context")
	}
	if _, ok := RequestID(context.Background()); ok {
		t.Error("RequestID() ok = true for empty context")
	}
}
