package telemetry

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"go.opentelemetry.io/otel"
)

func TestSetupTracing(t *testing.T) {
	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	var buf bytes.Buffer
	shutdown, err := SetupTracing(&buf, "1.2.3")
	if err != nil {
		t.Fatalf("SetupTracing() error: %v", err)
	}

	_, span := Tracer().Start(context.Background(), "registry GET")
	span.End()

	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown() error: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "registry GET") {
		t.Errorf("exported spans = %q, want span name", out)
	}
	if !strings.Contains(out, ServiceName) {
		t.Errorf("exported spans = %q, want service name resource", out)
	}
}
