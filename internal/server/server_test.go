package server

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/agentstation/instantbox"
	"github.com/agentstation/instantbox/internal/replication/memory"
	"github.com/agentstation/instantbox/internal/server/response"
	"github.com/agentstation/instantbox/pkg/inventory"
)

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *response.Error `json:"error"`
}

// newTestServer starts a server over an in-memory inventory.
func newTestServer(t *testing.T, mutate func(*Config), opts ...instantbox.Option) (*Server, *httptest.Server) {
	t.Helper()

	box, err := instantbox.New(context.Background(), opts...)
	if err != nil {
		t.Fatalf("instantbox.New() error = %v", err)
	}
	t.Cleanup(func() { _ = box.Close() })

	cfg := DefaultConfig()
	cfg.RateLimit = 0
	if mutate != nil {
		mutate(&cfg)
	}

	srv, err := New(box, cfg, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	srv.Start()
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	})

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return srv, ts
}

func call(t *testing.T, method, url string, body any, headers ...string) (int, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()

	var env envelope
	if resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
			t.Fatalf("%s %s: decode: %v", method, url, err)
		}
	}
	return resp.StatusCode, env
}

func decodeData[T any](t *testing.T, env envelope) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(env.Data, &v); err != nil {
		t.Fatalf("decode data: %v (%s)", err, env.Data)
	}
	return v
}

// TestServerInitialization tests that New() and Start() complete without
// blocking before any client connects.
func TestServerInitialization(t *testing.T) {
	box, err := instantbox.New(context.Background())
	if err != nil {
		t.Fatalf("instantbox.New() error = %v", err)
	}
	defer box.Close()

	done := make(chan error, 1)
	var srv *Server
	go func() {
		var err error
		srv, err = New(box, DefaultConfig(), nil)
		if err == nil {
			srv.Start()
		}
		done <- err
	}()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server setup deadlocked")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}

// TestServer_FilmLifecycle drives a camera and pack through load and
// shooting until the pack is finished.
func TestServer_FilmLifecycle(t *testing.T) {
	_, ts := newTestServer(t, nil)
	api := ts.URL + "/api/v1"

	status, env := call(t, http.MethodPost, api+"/cameras", map[string]any{"model": "600"})
	if status != http.StatusCreated {
		t.Fatalf("create camera status = %d (%+v)", status, env.Error)
	}
	cam := decodeData[inventory.Camera](t, env)
	if cam.Capacity != 8 || cam.Nickname != "600" {
		t.Errorf("unexpected camera %+v", cam)
	}

	status, env = call(t, http.MethodPost, api+"/packs", map[string]any{"type": "600", "model": "Color"})
	if status != http.StatusCreated {
		t.Fatalf("create pack status = %d (%+v)", status, env.Error)
	}
	pack := decodeData[inventory.FilmPack](t, env)
	if pack.Total != 8 || pack.Remaining != 8 {
		t.Errorf("unexpected pack %+v", pack)
	}

	status, env = call(t, http.MethodPost, api+"/cameras/"+cam.ID+"/load", map[string]any{"pack_id": pack.ID})
	if status != http.StatusOK {
		t.Fatalf("load status = %d (%+v)", status, env.Error)
	}

	status, env = call(t, http.MethodGet, api+"/packs?loaded=true", nil)
	if status != http.StatusOK {
		t.Fatalf("list packs status = %d", status)
	}
	list := decodeData[struct {
		Packs []inventory.FilmPack `json:"packs"`
	}](t, env)
	if len(list.Packs) != 1 || !list.Packs[0].LoadedIn(cam.ID) {
		t.Errorf("expected the pack loaded in the camera, got %+v", list.Packs)
	}

	status, env = call(t, http.MethodPost, api+"/cameras/"+cam.ID+"/shoot", map[string]any{"count": 3})
	if status != http.StatusOK {
		t.Fatalf("shoot status = %d (%+v)", status, env.Error)
	}
	shot := decodeData[struct {
		Remaining int  `json:"remaining"`
		Finished  bool `json:"finished"`
	}](t, env)
	if shot.Remaining != 5 || shot.Finished {
		t.Errorf("after 3 shots got %+v", shot)
	}

	status, env = call(t, http.MethodPost, api+"/cameras/"+cam.ID+"/shoot", map[string]any{"count": 9})
	if status != http.StatusUnprocessableEntity || env.Error.Code != "SHOTS_REJECTED" {
		t.Errorf("overshoot: status = %d, error = %+v", status, env.Error)
	}

	status, env = call(t, http.MethodPost, api+"/cameras/"+cam.ID+"/shoot", map[string]any{"count": 5})
	if status != http.StatusOK || !decodeData[struct {
		Finished bool `json:"finished"`
	}](t, env).Finished {
		t.Fatalf("expected finished pack, status = %d", status)
	}

	status, _ = call(t, http.MethodGet, api+"/packs/"+pack.ID, nil)
	if status != http.StatusNotFound {
		t.Errorf("finished pack should be deleted, got %d", status)
	}

	status, env = call(t, http.MethodPost, api+"/cameras/"+cam.ID+"/shoot", nil)
	if status != http.StatusUnprocessableEntity || env.Error.Code != "NO_FILM" {
		t.Errorf("empty camera: status = %d, error = %+v", status, env.Error)
	}
}

func TestServer_LoadRefused(t *testing.T) {
	_, ts := newTestServer(t, nil)
	api := ts.URL + "/api/v1"

	_, env := call(t, http.MethodPost, api+"/cameras", map[string]any{"model": "600"})
	cam := decodeData[inventory.Camera](t, env)
	_, env = call(t, http.MethodPost, api+"/packs", map[string]any{"type": "Go", "model": "Color"})
	pack := decodeData[inventory.FilmPack](t, env)

	status, env := call(t, http.MethodPost, api+"/cameras/"+cam.ID+"/load", map[string]any{"pack_id": pack.ID, "check": true})
	if status != http.StatusUnprocessableEntity || env.Error.Code != "INCOMPATIBLE" {
		t.Errorf("incompatible check: status = %d, error = %+v", status, env.Error)
	}

	status, _ = call(t, http.MethodPost, api+"/cameras/"+cam.ID+"/load", map[string]any{"pack_id": "missing"})
	if status != http.StatusNotFound {
		t.Errorf("missing pack: status = %d", status)
	}

	status, env = call(t, http.MethodPost, api+"/cameras/"+cam.ID+"/eject", nil)
	if status != http.StatusUnprocessableEntity || env.Error.Code != "NO_FILM" {
		t.Errorf("eject empty camera: status = %d, error = %+v", status, env.Error)
	}
}

func TestServer_PackOperations(t *testing.T) {
	_, ts := newTestServer(t, nil)
	api := ts.URL + "/api/v1"

	_, env := call(t, http.MethodPost, api+"/packs", map[string]any{"type": "SX-70", "model": "Color", "note": "birthday"})
	pack := decodeData[inventory.FilmPack](t, env)
	if pack.Total != 10 {
		t.Errorf("SX-70 default total = %d, want 10", pack.Total)
	}

	status, env := call(t, http.MethodPatch, api+"/packs/"+pack.ID, map[string]any{"remaining": 4})
	if status != http.StatusOK || decodeData[inventory.FilmPack](t, env).Remaining != 4 {
		t.Errorf("patch: status = %d, body = %s", status, env.Data)
	}

	status, env = call(t, http.MethodPost, api+"/packs/"+pack.ID+"/duplicate", nil)
	if status != http.StatusCreated {
		t.Fatalf("duplicate status = %d", status)
	}
	dup := decodeData[inventory.FilmPack](t, env)
	if dup.ID == pack.ID || dup.Remaining != 10 || dup.Note == nil || *dup.Note != "birthday" {
		t.Errorf("unexpected duplicate %+v", dup)
	}

	status, env = call(t, http.MethodGet, api+"/groups", nil)
	groups := decodeData[struct {
		Count int `json:"count"`
	}](t, env)
	if status != http.StatusOK || groups.Count != 1 {
		t.Errorf("groups: status = %d, count = %d", status, groups.Count)
	}

	status, env = call(t, http.MethodGet, api+"/groups/"+inventory.GroupKey("SX-70", "Color"), nil)
	detail := decodeData[struct {
		Packs []inventory.FilmPack `json:"packs"`
	}](t, env)
	if status != http.StatusOK || len(detail.Packs) != 2 {
		t.Errorf("group detail: status = %d, packs = %d", status, len(detail.Packs))
	}

	status, _ = call(t, http.MethodDelete, api+"/packs/"+dup.ID, nil)
	if status != http.StatusNoContent {
		t.Errorf("delete status = %d", status)
	}

	// The groups view is cached; the delete must invalidate it.
	_, env = call(t, http.MethodGet, api+"/groups/"+inventory.GroupKey("SX-70", "Color"), nil)
	detail = decodeData[struct {
		Packs []inventory.FilmPack `json:"packs"`
	}](t, env)
	if len(detail.Packs) != 1 {
		t.Errorf("expected 1 pack after delete, got %d", len(detail.Packs))
	}
}

func TestServer_Errors(t *testing.T) {
	_, ts := newTestServer(t, nil)
	api := ts.URL + "/api/v1"

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		status int
		code   string
	}{
		{"missing camera", http.MethodGet, "/cameras/nope", nil, http.StatusNotFound, "NOT_FOUND"},
		{"empty model", http.MethodPost, "/cameras", map[string]any{"model": " "}, http.StatusBadRequest, "BAD_REQUEST"},
		{"unknown field", http.MethodPost, "/cameras", map[string]any{"brand_new": 1}, http.StatusBadRequest, "BAD_REQUEST"},
		{"bad sort", http.MethodGet, "/groups?sort=random", nil, http.StatusBadRequest, "BAD_REQUEST"},
		{"unknown route", http.MethodGet, "/lenses", nil, http.StatusNotFound, "NOT_FOUND"},
		{"wrong method", http.MethodPut, "/cameras", map[string]any{}, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED"},
		{"sync disabled", http.MethodPost, "/sync", nil, http.StatusConflict, "CONFLICT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, env := call(t, tt.method, api+tt.path, tt.body)
			if status != tt.status {
				t.Errorf("status = %d, want %d", status, tt.status)
			}
			if env.Error == nil || env.Error.Code != tt.code {
				t.Errorf("error = %+v, want code %s", env.Error, tt.code)
			}
		})
	}
}

func TestServer_Sync(t *testing.T) {
	replica := memory.New()
	_, ts := newTestServer(t, nil,
		instantbox.WithReplication(replica),
		instantbox.WithSync(true),
		instantbox.WithDeviceID("server"),
	)
	api := ts.URL + "/api/v1"

	status, env := call(t, http.MethodPost, api+"/sync", map[string]any{"dry_run": true})
	if status != http.StatusOK {
		t.Fatalf("sync status = %d (%+v)", status, env.Error)
	}
	res := decodeData[struct {
		DryRun      bool             `json:"dry_run"`
		Collections []map[string]any `json:"collections"`
	}](t, env)
	if !res.DryRun || len(res.Collections) != 2 {
		t.Errorf("unexpected sync result %s", env.Data)
	}

	status, _ = call(t, http.MethodPost, api+"/sync", map[string]any{"strategy": "newest"})
	if status != http.StatusBadRequest {
		t.Errorf("bad strategy status = %d", status)
	}
}

func TestServer_Auth(t *testing.T) {
	srv, ts := newTestServer(t, func(c *Config) {
		c.AuthEnabled = true
		c.AuthSecret = "0123456789abcdef0123456789abcdef"
	})
	api := ts.URL + "/api/v1"

	if status, _ := call(t, http.MethodGet, api+"/health", nil); status != http.StatusOK {
		t.Errorf("health should be public, got %d", status)
	}
	if status, _ := call(t, http.MethodGet, api+"/cameras", nil); status != http.StatusUnauthorized {
		t.Errorf("expected 401 without token, got %d", status)
	}

	token, err := srv.IssueToken("tester")
	if err != nil {
		t.Fatalf("IssueToken() error = %v", err)
	}
	if status, _ := call(t, http.MethodGet, api+"/cameras", nil, "Authorization", "Bearer "+token); status != http.StatusOK {
		t.Errorf("expected 200 with token, got %d", status)
	}
}

func TestServer_EventStream(t *testing.T) {
	_, ts := newTestServer(t, nil)
	api := ts.URL + "/api/v1"

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, api+"/events/stream", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("stream request: %v", err)
	}
	defer resp.Body.Close()

	reader := bufio.NewReader(resp.Body)
	readEvent := func() string {
		var event string
		for {
			line, err := reader.ReadString('\n')
			if err != nil {
				t.Fatalf("read stream: %v", err)
			}
			line = strings.TrimSpace(line)
			if line == "" && event != "" {
				return event
			}
			if name, ok := strings.CutPrefix(line, "event: "); ok {
				event = name
			}
		}
	}

	if got := readEvent(); got != "client.connected" {
		t.Fatalf("first event = %q", got)
	}

	call(t, http.MethodPost, api+"/cameras", map[string]any{"model": "SX-70"})

	if got := readEvent(); got != "camera.added" {
		t.Errorf("expected camera.added, got %q", got)
	}
}

func TestServer_MetricsAndOpenAPI(t *testing.T) {
	_, ts := newTestServer(t, nil)

	call(t, http.MethodGet, ts.URL+"/api/v1/cameras", nil)

	resp, err := http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatalf("metrics: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if !strings.Contains(string(body), `instantbox_http_request_duration_milliseconds_count{code="200",method="GET",route="/api/v1/cameras`) {
		t.Errorf("request histogram missing from metrics output")
	}

	resp, err = http.Get(ts.URL + "/api/v1/openapi.json")
	if err != nil {
		t.Fatalf("openapi: %v", err)
	}
	defer resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	var doc map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil || doc["openapi"] != "3.0.3" {
		t.Errorf("openapi document not served: %v", err)
	}
}
