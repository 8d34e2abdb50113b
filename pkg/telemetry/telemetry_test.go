package telemetry

import (
	"context"
	"errors"
	"testing"

	"github.com/sweetpotato0/ticket-resolver/pkg/logging"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// retainingExporter keeps spans across provider shutdown; the in-memory
// exporter clears them on Shutdown.
type retainingExporter struct {
	*tracetest.InMemoryExporter
}

func (retainingExporter) Shutdown(context.Context) error { return nil }

func TestInitDisabled(t *testing.T) {
	shutdown, err := Init(context.Background(), Config{Disable: true})
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}

func TestSpansReachExporter(t *testing.T) {
	ctx := context.Background()
	exp := tracetest.NewInMemoryExporter()
	shutdown, err := Init(ctx, Config{
		ServiceName: "resolver-test",
		Environment: "test",
		Exporter:    retainingExporter{exp},
		Logger:      logging.Discard(),
	})
	if err != nil {
		t.Fatalf("init: %v", err)
	}

	runCtx, run := Start(ctx, "resolver.run", AttrRunID.String("run-1"))
	_, stage := Start(runCtx, "resolver.draft", AttrRetryCount.Int(1))
	End(stage, errors.New("provider unavailable"))
	End(run, nil)
	End(nil, nil)

	if err := shutdown(ctx); err != nil {
		t.Fatalf("shutdown: %v", err)
	}

	spans := exp.GetSpans()
	if len(spans) != 2 {
		t.Fatalf("expected 2 spans, got %d", len(spans))
	}
	byName := map[string]tracetest.SpanStub{}
	for _, s := range spans {
		byName[s.Name] = s
	}

	draft, ok := byName["resolver.draft"]
	if !ok {
		t.Fatal("missing stage span")
	}
	if draft.Status.Code != codes.Error {
		t.Errorf("stage status = %v, want error", draft.Status.Code)
	}
	if draft.Parent.SpanID() != byName["resolver.run"].SpanContext.SpanID() {
		t.Error("stage span is not a child of the run span")
	}

	run1 := byName["resolver.run"]
	if run1.Status.Code != codes.Ok {
		t.Errorf("run status = %v, want ok", run1.Status.Code)
	}
	found := false
	for _, kv := range run1.Attributes {
		if kv.Key == AttrRunID && kv.Value.AsString() == "run-1" {
			found = true
		}
	}
	if !found {
		t.Error("run span missing run.id attribute")
	}
}
