package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func bufferedLogger(component string) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	l := New(Config{
		Component: component,
		Handler:   slog.NewTextHandler(&buf, nil),
	})
	return l, &buf
}

func TestInfoCarriesComponent(t *testing.T) {
	l, buf := bufferedLogger(ComponentWorker)

	l.Info("Refreshed rate series", FieldSeries, "DEXUSEU")

	out := buf.String()
	if !strings.Contains(out, "component=worker") {
		t.Errorf("output missing component attribute: %s", out)
	}
	if !strings.Contains(out, "series=DEXUSEU") {
		t.Errorf("output missing series attribute: %s", out)
	}
}

func TestWithComponent(t *testing.T) {
	l, buf := bufferedLogger(ComponentApp)

	l.WithComponent(ComponentDataset).Info("Dataset snapshot built")

	if !strings.Contains(buf.String(), "component=dataset") {
		t.Errorf("output missing rebound component: %s", buf.String())
	}
}

func TestErrorLevel(t *testing.T) {
	l, buf := bufferedLogger(ComponentAMQP)

	l.Error("Failed to publish refresh event", FieldError, "broker unavailable")

	out := buf.String()
	if !strings.Contains(out, "level=ERROR") {
		t.Errorf("output missing error level: %s", out)
	}
}
