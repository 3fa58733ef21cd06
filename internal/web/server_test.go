package web

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/roblatour/netblocker/internal/safety"
	"github.com/roblatour/netblocker/internal/status"
)

func newTestServer(t *testing.T) (*httptest.Server, *status.Tracker) {
	t.Helper()
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cfg := status.Config{
		Broker:           "tcp://192.168.1.200:1883",
		TopicPrefix:      "netblocker",
		PollMs:           100,
		SettleMs:         10,
		SwitchboxEnabled: true,
		HTTPAddr:         ":8080",
	}
	tr := status.NewTracker(start, cfg)
	srv := New(":0", tr)
	ts := httptest.NewServer(srv.httpServer.Handler)
	t.Cleanup(ts.Close)
	return ts, tr
}

func TestJSONEndpoint(t *testing.T) {
	ts, tr := newTestServer(t)
	tr.SetRole(safety.RoleController)
	tr.Update(safety.StatusUnblocked, safety.StatusUnblocked, safety.StatusUnblocked,
		safety.AlarmNone, time.Now().Add(30*time.Second), status.Counts{Sent: 4, Received: 3})

	resp, err := http.Get(ts.URL + "/index.json")
	if err != nil {
		t.Fatalf("GET /index.json: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Errorf("status: got %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type: got %q, want application/json", ct)
	}

	var sj status.StatusJSON
	if err := json.NewDecoder(resp.Body).Decode(&sj); err != nil {
		t.Fatalf("decode JSON: %v", err)
	}
	if sj.Status.Role != "CONTROLLER" {
		t.Errorf("role: got %q, want CONTROLLER", sj.Status.Role)
	}
	if sj.Status.Network != "UNBLOCKED" {
		t.Errorf("network: got %q, want UNBLOCKED", sj.Status.Network)
	}
	if sj.Status.Counts.Sent != 4 {
		t.Errorf("sent: got %d, want 4", sj.Status.Counts.Sent)
	}
	if sj.Status.Config.Broker != "tcp://192.168.1.200:1883" {
		t.Errorf("broker: got %q", sj.Status.Config.Broker)
	}
}

func TestIndexPage(t *testing.T) {
	ts, tr := newTestServer(t)
	tr.SetRole(safety.RoleController)
	tr.Update(safety.StatusBlocked, safety.StatusBlocked, safety.StatusBlocked,
		safety.AlarmNone, time.Now(), status.Counts{})

	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatalf("GET /: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Errorf("status: got %d, want 200", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	page := string(body)
	if !strings.Contains(page, "CONTROLLER") {
		t.Error("page should show the role")
	}
	if !strings.Contains(page, "BLOCKED") {
		t.Error("page should show the network status")
	}
	if !strings.Contains(page, "Switchbox switch") {
		t.Error("controller page should show the peer switch row")
	}
}

func TestIndexPageHidesPeerForSwitchbox(t *testing.T) {
	ts, tr := newTestServer(t)
	tr.SetRole(safety.RoleSwitchbox)

	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatalf("GET /: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if strings.Contains(string(body), "Switchbox switch") {
		t.Error("switchbox page should not show a peer switch row")
	}
}

func TestNotFound(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/nope")
	if err != nil {
		t.Fatalf("GET /nope: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 404 {
		t.Errorf("status: got %d, want 404", resp.StatusCode)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Errorf("status: got %d, want 200", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "netblocker_network_blocked") {
		t.Error("metrics output should include netblocker_network_blocked")
	}
}
