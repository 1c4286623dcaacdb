package admin

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/lodgepole/gale/internal/gateway/session"
	"github.com/lodgepole/gale/internal/testutil/testlog"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	status := func() session.Snapshot {
		return session.Snapshot{
			Phase:             "established",
			ConnID:            3,
			SessionID:         "abc123",
			LastSeq:           17,
			HeartbeatInterval: 41250,
		}
	}
	srv := NewServer(":0", nil, status, zerolog.Nop())
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func TestHealthEndpoint(t *testing.T) {
	testlog.Start(t)
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("get health: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode health: %v", err)
	}
	if body["status"] != "ok" || body["service"] != "galectl" {
		t.Fatalf("unexpected health body: %v", body)
	}
}

func TestStatusEndpointReportsSession(t *testing.T) {
	testlog.Start(t)
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/status")
	if err != nil {
		t.Fatalf("get status: %v", err)
	}
	defer resp.Body.Close()
	var snap session.Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if snap.Phase != "established" || snap.SessionID != "abc123" || snap.LastSeq != 17 {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
}

func TestMetricsEndpointExposed(t *testing.T) {
	testlog.Start(t)
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatalf("get metrics: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read metrics: %v", err)
	}
	if !strings.Contains(string(data), "gale_gateway_decode_failures_total") {
		t.Fatalf("gateway metrics missing from exposition")
	}
}
