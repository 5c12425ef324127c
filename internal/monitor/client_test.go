package monitor

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/hmaslab/ha-adapter/internal/infrastructure/config"
	"github.com/hmaslab/ha-adapter/internal/infrastructure/logging"
)

func testClient(monitorURL, explorerURL string) *Client {
	return NewClient(config.MonitorConfig{
		URL:         monitorURL,
		ExplorerURL: explorerURL,
		Timeout:     2,
	}, logging.Default())
}

func TestNotify(t *testing.T) {
	var gotHeader string
	var gotBody Notification
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeader = r.Header.Get("X-Notification-Type")
		json.NewDecoder(r.Body).Decode(&gotBody)
	}))
	defer srv.Close()

	c := testClient(srv.URL, "")
	n := &Notification{
		ArtifactURI:  "http://host/workspaces/office/artifacts/Lamp#artifact",
		PropertyURI:  "http://host/workspaces/office/artifacts/Lamp/props/state",
		Value:        true,
		ValueTypeURI: "http://www.w3.org/2001/XMLSchema#boolean",
		Timestamp:    "2024-05-01T10:00:00Z",
		TriggerURI:   "http://host/workspaces/office/artifacts/Lamp/actions/read",
	}
	if err := c.Notify(context.Background(), n); err != nil {
		t.Fatalf("Notify() error = %v", err)
	}
	if gotHeader != "ArtifactObsPropertyUpdated" {
		t.Errorf("X-Notification-Type = %q", gotHeader)
	}
	if gotBody.ArtifactURI != n.ArtifactURI || gotBody.Value != true {
		t.Errorf("delivered body = %+v", gotBody)
	}
}

func TestNotifyNotConfigured(t *testing.T) {
	c := testClient("", "")
	if c.Enabled() {
		t.Error("Enabled() = true for empty URL")
	}
	if err := c.Notify(context.Background(), &Notification{}); err != ErrNotConfigured {
		t.Errorf("Notify() error = %v, want ErrNotConfigured", err)
	}
}

func TestNotifyRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := testClient(srv.URL, "")
	err := c.Notify(context.Background(), &Notification{})
	if err == nil {
		t.Fatal("Notify() error = nil, want delivery failure")
	}
}

func TestResetRetriesUntilSuccess(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/reset" {
			t.Errorf("reset path = %q", r.URL.Path)
		}
		if calls.Add(1) < 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
	}))
	defer srv.Close()

	c := testClient(srv.URL, "")
	if err := c.Reset(context.Background()); err != nil {
		t.Fatalf("Reset() error = %v", err)
	}
	if calls.Load() != 2 {
		t.Errorf("reset attempts = %d, want 2", calls.Load())
	}
}

func TestResetCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := testClient(srv.URL, "")
	if err := c.Reset(ctx); err != context.Canceled {
		t.Errorf("Reset() error = %v, want context.Canceled", err)
	}
}

func TestResetExplorerPath(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
	}))
	defer srv.Close()

	c := testClient("", srv.URL)
	if err := c.ResetExplorer(context.Background()); err != nil {
		t.Fatalf("ResetExplorer() error = %v", err)
	}
	if gotPath != "/admin/reset" {
		t.Errorf("explorer reset path = %q", gotPath)
	}
}

func TestRegisterArtifacts(t *testing.T) {
	var uris []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		uris = append(uris, body["uri"])
	}))
	defer srv.Close()

	c := testClient("", srv.URL)
	c.RegisterArtifacts(context.Background(), []string{"http://a#artifact", "http://b#artifact"})

	if len(uris) != 2 || uris[0] != "http://a#artifact" || uris[1] != "http://b#artifact" {
		t.Errorf("registered uris = %v", uris)
	}
}

type recordingMirror struct {
	areas     []string
	artifacts []string
}

func (m *recordingMirror) PublishNotification(areaID, artifact string, _ []byte) error {
	m.areas = append(m.areas, areaID)
	m.artifacts = append(m.artifacts, artifact)
	return nil
}

func TestNotifyMirrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	mirror := &recordingMirror{}
	c := testClient(srv.URL, "")
	c.SetMirror(mirror)

	n := &Notification{AreaID: "office", Artifact: "Lamp", Value: "on"}
	if err := c.Notify(context.Background(), n); err != nil {
		t.Fatalf("Notify() error = %v", err)
	}
	if len(mirror.artifacts) != 1 || mirror.artifacts[0] != "Lamp" || mirror.areas[0] != "office" {
		t.Errorf("mirror delivered areas=%v artifacts=%v", mirror.areas, mirror.artifacts)
	}
}
