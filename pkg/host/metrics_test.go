package host

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsRecording(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(WithRegistry(reg), WithNamespace("test"))

	m.sessionStarted()
	m.sessionStarted()
	m.sessionEnded()
	if got := testutil.ToFloat64(m.activeSessions); got != 1 {
		t.Errorf("active_sessions = %v, want 1", got)
	}

	m.recordPatchFrame(3)
	m.recordPatchFrame(5)
	if got := testutil.ToFloat64(m.patchesSent); got != 2 {
		t.Errorf("patches_sent_total = %v, want 2", got)
	}

	m.recordEvent("click", "ok", 0.01)
	m.recordEvent("click", "ok", 0.02)
	m.recordEvent("input", "unhandled", 0.01)
	if got := testutil.ToFloat64(m.eventsTotal.WithLabelValues("click", "ok")); got != 2 {
		t.Errorf("events_total{click,ok} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.eventsTotal.WithLabelValues("input", "unhandled")); got != 1 {
		t.Errorf("events_total{input,unhandled} = %v, want 1", got)
	}

	m.recordWSError("read")
	if got := testutil.ToFloat64(m.wsErrors.WithLabelValues("read")); got != 1 {
		t.Errorf("websocket_errors_total{read} = %v, want 1", got)
	}
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.sessionStarted()
	m.sessionEnded()
	m.recordEvent("click", "ok", 0)
	m.recordPatchFrame(1)
	m.recordWSError("write")
}

func TestCustomNamespace(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(WithRegistry(reg), WithNamespace("myapp"), WithSubsystem("ui"))
	m.recordPatchFrame(1)

	families, err := reg.Gather()
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, mf := range families {
		if mf.GetName() == "myapp_ui_patches_sent_total" {
			found = true
		}
	}
	if !found {
		t.Error("namespaced metric not registered")
	}
}
