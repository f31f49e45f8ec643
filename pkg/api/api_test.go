package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/funnelchart/pkg/errors"
	"github.com/matzehuels/funnelchart/pkg/observability"
	"github.com/matzehuels/funnelchart/pkg/pipeline"
	"github.com/matzehuels/funnelchart/pkg/settings"
)

const hiringBody = `{"table": [["Stage","Candidates"],["Applied",100],["Phone Interview",80],
	["On-site Interview",45],["Given Offer",30],["Accepted Offer",12]]}`

func newTestServer(t *testing.T, opts ...Option) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(NewServer(pipeline.NewRunner(nil, nil, nil), opts...).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, method, url, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)
	resp := do(t, http.MethodGet, srv.URL+"/healthz", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	body := decode[map[string]string](t, resp)
	if body["status"] != "ok" || body["version"] == "" {
		t.Errorf("body = %v", body)
	}
}

func TestFunnelEnvelope(t *testing.T) {
	srv := newTestServer(t)
	resp := do(t, http.MethodPost, srv.URL+"/v1/funnels",
		`{"rows": [{"label":"Visited","value":1000},{"label":"Signed up","value":150}], "formats": ["svg","json"]}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	body := decode[funnelResponse](t, resp)
	if body.ID == "" || body.ID != body.Layout.ID {
		t.Errorf("ID = %q, layout ID = %q", body.ID, body.Layout.ID)
	}
	if len(body.Layout.Segments) != 2 {
		t.Errorf("segments = %d, want 2", len(body.Layout.Segments))
	}
	if !strings.Contains(string(body.Artifacts["svg"]), "<svg") {
		t.Error("svg artifact missing")
	}
	if len(body.Artifacts["json"]) == 0 {
		t.Error("json artifact missing")
	}
	if body.RevealMs <= 0 {
		t.Errorf("RevealMs = %d, want > 0", body.RevealMs)
	}
}

func TestFunnelRawFormat(t *testing.T) {
	srv := newTestServer(t)
	resp := do(t, http.MethodPost, srv.URL+"/v1/funnels?format=svg", hiringBody)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Content-Type = %q", ct)
	}
	if resp.Header.Get("X-Funnel-Id") == "" {
		t.Error("missing X-Funnel-Id header")
	}
}

func TestFunnelErrors(t *testing.T) {
	srv := newTestServer(t)
	tests := []struct {
		name   string
		query  string
		body   string
		status int
		code   errors.Code
	}{
		{"malformed json", "", `{"table":`, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"unknown field", "", `{"tabel": []}`, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"one row", "", `{"table": [["A", 1]]}`, http.StatusBadRequest, errors.ErrCodeInvalidInputShape},
		{"negative", "", `{"table": [["A", 1], ["B", -2]]}`, http.StatusBadRequest, errors.ErrCodeNegativeValue},
		{"zero total", "", `{"table": [["A", 0], ["B", 0]]}`, http.StatusBadRequest, errors.ErrCodeZeroTotal},
		{"bad format", "?format=gif", hiringBody, http.StatusBadRequest, errors.ErrCodeInvalidFormat},
		{"bad style", "", `{"table": [["A", 1], ["B", 2]], "style": "neon"}`, http.StatusBadRequest, errors.ErrCodeInvalidStyle},
		{"no settings", "", `{"table": [["A", 1], ["B", 2]], "document": "q3"}`, http.StatusUnsupportedMediaType, errors.ErrCodeUnsupported},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, http.MethodPost, srv.URL+"/v1/funnels"+tt.query, tt.body)
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			body := decode[errorResponse](t, resp)
			if body.Code != string(tt.code) {
				t.Errorf("code = %q, want %q", body.Code, tt.code)
			}
			if body.Message == "" {
				t.Error("empty message")
			}
		})
	}
}

func TestDocumentSettings(t *testing.T) {
	store := settings.NewFileStore(t.TempDir())
	srv := newTestServer(t, WithSettings(store))

	resp := do(t, http.MethodPut, srv.URL+"/v1/documents/q3-report/settings/animation_speed", `{"value": 2}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("PUT status = %d, want 200", resp.StatusCode)
	}

	resp = do(t, http.MethodGet, srv.URL+"/v1/documents/q3-report/settings", "")
	list := decode[struct {
		Settings map[string]float64 `json:"settings"`
	}](t, resp)
	if list.Settings[settings.AnimationSpeed] != 2 {
		t.Errorf("settings = %v", list.Settings)
	}

	plain := decode[funnelResponse](t, do(t, http.MethodPost, srv.URL+"/v1/funnels", hiringBody))
	withDoc := strings.Replace(hiringBody, `{"table"`, `{"document": "q3-report", "table"`, 1)
	fast := decode[funnelResponse](t, do(t, http.MethodPost, srv.URL+"/v1/funnels", withDoc))
	if fast.RevealMs >= plain.RevealMs {
		t.Errorf("doubled speed reveal = %dms, default = %dms", fast.RevealMs, plain.RevealMs)
	}

	resp = do(t, http.MethodPut, srv.URL+"/v1/documents/q3-report/settings/animation_speed", `{"value": 0}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("zero speed status = %d, want 400", resp.StatusCode)
	}
	resp = do(t, http.MethodPut, srv.URL+"/v1/documents/q3-report/settings/animation_speed", `{}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("missing value status = %d, want 400", resp.StatusCode)
	}
}

type recordingHTTPHooks struct {
	observability.NoopHTTPHooks

	mu       sync.Mutex
	statuses []int
}

func (h *recordingHTTPHooks) OnResponse(_ context.Context, _, _ string, status int, _ time.Duration) {
	h.mu.Lock()
	h.statuses = append(h.statuses, status)
	h.mu.Unlock()
}

func TestInstrumentHooks(t *testing.T) {
	observability.Reset()
	defer observability.Reset()
	hooks := &recordingHTTPHooks{}
	observability.SetHTTPHooks(hooks)

	srv := newTestServer(t)
	do(t, http.MethodGet, srv.URL+"/healthz", "")
	do(t, http.MethodPost, srv.URL+"/v1/funnels", `{"table": []}`)

	hooks.mu.Lock()
	defer hooks.mu.Unlock()
	if len(hooks.statuses) != 2 || hooks.statuses[0] != 200 || hooks.statuses[1] != 400 {
		t.Errorf("statuses = %v, want [200 400]", hooks.statuses)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{errors.New(errors.ErrCodeInvalidConfig, "bad"), http.StatusBadRequest},
		{errors.New(errors.ErrCodeFileNotFound, "gone"), http.StatusNotFound},
		{errors.New(errors.ErrCodeUnsupported, "no rsvg"), http.StatusUnsupportedMediaType},
		{errors.New(errors.ErrCodeNetwork, "down"), http.StatusServiceUnavailable},
		{errors.New(errors.ErrCodeInternal, "boom"), http.StatusInternalServerError},
		{context.Canceled, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
