package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hmaslab/ha-adapter/internal/forwarder"
	"github.com/hmaslab/ha-adapter/internal/hub"
	"github.com/hmaslab/ha-adapter/internal/infrastructure/config"
	"github.com/hmaslab/ha-adapter/internal/infrastructure/logging"
)

type fakeRegistry struct {
	areas    []hub.Area
	devices  map[string][]hub.Device
	entities []hub.Entity
}

func (f *fakeRegistry) ListAreas(context.Context) ([]hub.Area, error) { return f.areas, nil }

func (f *fakeRegistry) DevicesInArea(_ context.Context, areaID string) ([]hub.Device, error) {
	return f.devices[areaID], nil
}

func (f *fakeRegistry) ListEntities(context.Context) ([]hub.Entity, error) {
	return f.entities, nil
}

type fakeStates struct {
	states  []hub.State
	catalog []hub.ServiceDomain

	calledDomain  string
	calledService string
	calledData    map[string]any
}

func (f *fakeStates) States(context.Context) ([]hub.State, error) { return f.states, nil }

func (f *fakeStates) Services(context.Context) ([]hub.ServiceDomain, error) {
	return f.catalog, nil
}

func (f *fakeStates) CallService(_ context.Context, domain, service string, data map[string]any) error {
	f.calledDomain = domain
	f.calledService = service
	f.calledData = data
	return nil
}

type fakeStatus struct{ state forwarder.State }

func (f *fakeStatus) State() forwarder.State { return f.state }

func fixtureRegistry() *fakeRegistry {
	return &fakeRegistry{
		areas: []hub.Area{{AreaID: "office", Name: "Office"}},
		devices: map[string][]hub.Device{
			"office": {
				{ID: "dev1", Name: "Desk Lamp", AreaID: "office"},
				{ID: "dev2", Name: "Climate Probe", AreaID: "office"},
			},
		},
		entities: []hub.Entity{
			{EntityID: "light.desk_lamp", DeviceID: "dev1"},
			{EntityID: "sensor.probe_temp", DeviceID: "dev2"},
		},
	}
}

func fixtureStates() *fakeStates {
	return &fakeStates{
		states: []hub.State{
			{
				EntityID:   "sensor.probe_temp",
				State:      "21.5",
				Attributes: map[string]any{"device_class": "temperature", "unit_of_measurement": "°C"},
			},
		},
		catalog: []hub.ServiceDomain{
			{Domain: "light", Services: map[string]hub.ServiceMeta{
				"turn_on":  {Fields: map[string]json.RawMessage{"entity_id": nil}},
				"turn_off": {Fields: map[string]json.RawMessage{"entity_id": nil}},
			}},
		},
	}
}

func testServer(t *testing.T, status StatusReporter) (*httptest.Server, *fakeStates) {
	t.Helper()
	states := fixtureStates()
	s, err := New(Deps{
		Config:    config.APIConfig{},
		Forwarder: config.ForwarderConfig{Areas: []string{"office"}, BaseURI: "http://host"},
		Logger:    logging.Default(),
		Registry:  fixtureRegistry(),
		States:    states,
		Status:    status,
		Version:   "test",
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	srv := httptest.NewServer(s.buildRouter())
	t.Cleanup(srv.Close)
	return srv, states
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	return resp, string(body)
}

func post(t *testing.T, url, body string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	b, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	return resp, string(b)
}

func TestListWorkspaces(t *testing.T) {
	srv, _ := testServer(t, nil)

	resp, body := get(t, srv.URL+"/workspaces")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "text/turtle" {
		t.Errorf("Content-Type = %q", ct)
	}
	if !strings.Contains(body, "hmas:Workspace") || !strings.Contains(body, `td:title "Office"`) {
		t.Errorf("workspace listing incomplete:\n%s", body)
	}
}

func TestGetWorkspaceNotFound(t *testing.T) {
	srv, _ := testServer(t, nil)

	resp, _ := get(t, srv.URL+"/workspaces/basement")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestGetArtifactDescription(t *testing.T) {
	srv, _ := testServer(t, nil)

	resp, body := get(t, srv.URL+"/workspaces/office/artifacts/Desk%20Lamp")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	for _, want := range []string{
		`td:title "Desk Lamp"`,
		`td:name "LightTurnOn"`,
		`td:name "getArtifactRepresentation"`,
		`td:name "subscribeToArtifact"`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("description missing %q:\n%s", want, body)
		}
	}
}

func TestGetArtifactNotFound(t *testing.T) {
	srv, _ := testServer(t, nil)

	resp, _ := get(t, srv.URL+"/workspaces/office/artifacts/Nonexistent")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestServiceActionInvokesHub(t *testing.T) {
	srv, states := testServer(t, nil)

	resp, body := post(t, srv.URL+"/workspaces/office/artifacts/Desk%20Lamp/ha/light/turn_on", `{"brightness":200}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}
	if body != "Action succeeded:" {
		t.Errorf("body = %q", body)
	}
	if states.calledDomain != "light" || states.calledService != "turn_on" {
		t.Errorf("called %s.%s", states.calledDomain, states.calledService)
	}
	if states.calledData["entity_id"] != "light.desk_lamp" {
		t.Errorf("entity_id = %v", states.calledData["entity_id"])
	}
	if states.calledData["brightness"] != 200.0 {
		t.Errorf("brightness = %v", states.calledData["brightness"])
	}
}

func TestServiceActionUnknownService(t *testing.T) {
	srv, _ := testServer(t, nil)

	resp, _ := post(t, srv.URL+"/workspaces/office/artifacts/Desk%20Lamp/ha/light/warp_drive", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestServiceActionWrongDomain(t *testing.T) {
	srv, _ := testServer(t, nil)

	resp, _ := post(t, srv.URL+"/workspaces/office/artifacts/Desk%20Lamp/ha/cover/open_cover", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestSensorActionReturnsState(t *testing.T) {
	srv, _ := testServer(t, nil)

	resp, body := post(t, srv.URL+"/workspaces/office/artifacts/Climate%20Probe/getTemperatureInDegc", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}
	if body != "21.5" {
		t.Errorf("body = %q, want 21.5", body)
	}
}

func TestSensorActionWrongName(t *testing.T) {
	srv, _ := testServer(t, nil)

	resp, _ := post(t, srv.URL+"/workspaces/office/artifacts/Climate%20Probe/getHumidityInPercent", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestStubsAcknowledge(t *testing.T) {
	srv, _ := testServer(t, nil)

	for _, url := range []string{
		srv.URL + "/workspaces/office/focus",
		srv.URL + "/hub/",
	} {
		resp, body := post(t, url, `{}`)
		if resp.StatusCode != http.StatusOK || body != "Action succeeded:" {
			t.Errorf("POST %s = %d %q", url, resp.StatusCode, body)
		}
	}
}

func TestForwarderStatus(t *testing.T) {
	srv, _ := testServer(t, &fakeStatus{state: forwarder.StateSubscribed})

	resp, body := get(t, srv.URL+"/_forwarder/status")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var got forwarderStatus
	if err := json.Unmarshal([]byte(body), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if !got.Enabled || got.State != "subscribed" {
		t.Errorf("status = %+v", got)
	}
	if len(got.Areas) != 1 || got.Areas[0] != "office" {
		t.Errorf("areas = %v", got.Areas)
	}
}

func TestForwarderStatusDisabled(t *testing.T) {
	srv, _ := testServer(t, nil)

	_, body := get(t, srv.URL+"/_forwarder/status")
	var got forwarderStatus
	if err := json.Unmarshal([]byte(body), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if got.Enabled || got.State != "disabled" {
		t.Errorf("status = %+v", got)
	}
}

func TestHealthAndRequestID(t *testing.T) {
	srv, _ := testServer(t, nil)

	resp, body := get(t, srv.URL+"/api/v1/health")
	if resp.StatusCode != http.StatusOK || !strings.Contains(body, `"ok"`) {
		t.Errorf("health = %d %q", resp.StatusCode, body)
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Error("X-Request-ID header missing")
	}
}

func TestMetricsExposed(t *testing.T) {
	srv, _ := testServer(t, nil)

	resp, _ := get(t, srv.URL+"/metrics")
	if resp.StatusCode != http.StatusOK {
		t.Errorf("metrics status = %d", resp.StatusCode)
	}
}
