package observability

import (
	"testing"
	"time"
)

func TestMetricsSnapshot(t *testing.T) {
	m := NewMetrics()
	m.RecordRequest("/tickets", "GET", 200, 10*time.Millisecond)
	m.RecordRequest("/tickets", "GET", 200, 30*time.Millisecond)
	m.RecordError("/tickets/:id/confirm-closure", "POST", "CONFLICT")

	snap := m.Snapshot()
	if snap.Requests["/tickets|GET|200"] != 2 {
		t.Fatalf("requests = %v", snap.Requests)
	}
	if avg := snap.AverageDurationMS["/tickets|GET|200"]; avg != 20 {
		t.Fatalf("average = %v, want 20", avg)
	}
	if snap.Errors["/tickets/:id/confirm-closure|POST|CONFLICT"] != 1 {
		t.Fatalf("errors = %v", snap.Errors)
	}
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.RecordRequest("/", "GET", 200, time.Millisecond)
	m.RecordError("/", "GET", "X")
	if len(m.Snapshot().Requests) != 0 {
		t.Fatal("nil metrics should snapshot empty")
	}
}
