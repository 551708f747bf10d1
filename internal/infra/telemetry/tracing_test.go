package telemetry

import (
	"context"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/arklim/social-platform-auth/internal/infra/config"
)

func TestTracerProviderLifecycle(t *testing.T) {
	cfg := config.TelemetrySettings{
		ServiceName:  "auth-test",
		OTLPEndpoint: "localhost:4318",
		SamplingRate: 0,
	}

	tp, err := NewTracerProvider(context.Background(), cfg, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("unexpected tracer provider error: %v", err)
	}

	tracer := tp.Tracer("auth-test")
	if tracer == nil {
		t.Fatal("expected a tracer")
	}

	_, span := tracer.Start(context.Background(), "noop")
	span.End()

	if err := tp.Shutdown(context.Background()); err != nil {
		t.Fatalf("unexpected shutdown error: %v", err)
	}
}

func TestTracerProviderSamplesByRatio(t *testing.T) {
	cfg := config.TelemetrySettings{
		ServiceName:  "auth-test",
		OTLPEndpoint: "localhost:4318",
		SamplingRate: 0,
	}

	tp, err := NewTracerProvider(context.Background(), cfg, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("unexpected tracer provider error: %v", err)
	}
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			t.Fatalf("unexpected shutdown error: %v", err)
		}
	}()

	_, span := tp.Tracer("auth-test").Start(context.Background(), "dropped")
	defer span.End()

	if span.IsRecording() {
		t.Fatal("expected span to be dropped at sampling rate 0")
	}
}
