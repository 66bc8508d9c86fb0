package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mossworks/sprout/pkg/geom"
	"github.com/mossworks/sprout/pkg/mesh"
	"github.com/mossworks/sprout/pkg/pipeline"
	"github.com/mossworks/sprout/pkg/stl"
)

func testServer(t *testing.T) http.Handler {
	t.Helper()
	return NewServer(pipeline.NewRunner(nil, nil, nil), nil).Routes()
}

func encodeSquare(t *testing.T) []byte {
	t.Helper()
	square := mesh.Mesh{
		geom.NewTriangle(geom.Vec3(0, 0, 0), geom.Vec3(1, 0, 0), geom.Vec3(1, 1, 0)),
		geom.NewTriangle(geom.Vec3(0, 0, 0), geom.Vec3(1, 1, 0), geom.Vec3(0, 1, 0)),
	}
	var buf bytes.Buffer
	if err := stl.Write(&buf, square); err != nil {
		t.Fatalf("encode square: %v", err)
	}
	return buf.Bytes()
}

func TestHealth(t *testing.T) {
	srv := testServer(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if rec.Body.String() != "ok" {
		t.Errorf("body = %q, want %q", rec.Body.String(), "ok")
	}
}

func TestGrow(t *testing.T) {
	srv := testServer(t)
	body := encodeSquare(t)

	url := "/v1/grow?seed=0&depth=1&children=1&scale=0.5&strategy=uniform"
	req := httptest.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Content-Type"); got != "model/stl" {
		t.Errorf("Content-Type = %q, want %q", got, "model/stl")
	}
	if rec.Header().Get("X-Run-Id") == "" {
		t.Error("X-Run-Id header missing")
	}

	out, err := stl.Read(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatalf("decode response: %v", err)
	}
	// depth 1, children 1: the full base copied once onto a sampled
	// triangle, appended to the two base triangles.
	if len(out) != 4 {
		t.Errorf("response has %d triangles, want 4", len(out))
	}
}

func TestGrowDefaults(t *testing.T) {
	srv := testServer(t)
	body := encodeSquare(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/grow", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	out, err := stl.Read(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatalf("decode response: %v", err)
	}
	// Defaults are depth 2, children 3: 2 base triangles plus
	// 2*(3+9) grown copies. A bare request must grow, not pass
	// the mesh through untouched.
	if len(out) != 26 {
		t.Errorf("response has %d triangles, want 26", len(out))
	}
}

func TestGrowDeterministic(t *testing.T) {
	srv := testServer(t)
	body := encodeSquare(t)

	post := func() []byte {
		req := httptest.NewRequest(http.MethodPost, "/v1/grow?seed=7&depth=2&children=2", bytes.NewReader(body))
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
		}
		return rec.Body.Bytes()
	}

	if !bytes.Equal(post(), post()) {
		t.Error("identical requests produced different bodies")
	}
}

func TestGrowPreset(t *testing.T) {
	srv := testServer(t)
	body := encodeSquare(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/grow?preset=passthrough", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	out, err := stl.Read(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(out) != 2 {
		t.Errorf("passthrough returned %d triangles, want 2", len(out))
	}
}

func TestGrowErrors(t *testing.T) {
	srv := testServer(t)
	square := encodeSquare(t)

	tests := []struct {
		name       string
		url        string
		body       []byte
		wantStatus int
		wantCode   string
	}{
		{
			name:       "bad strategy",
			url:        "/v1/grow?strategy=spiral",
			body:       square,
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_STRATEGY",
		},
		{
			name:       "bad preset",
			url:        "/v1/grow?preset=nope",
			body:       square,
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_PRESET",
		},
		{
			name:       "bad seed",
			url:        "/v1/grow?seed=banana",
			body:       square,
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_INPUT",
		},
		{
			name:       "negative depth",
			url:        "/v1/grow?depth=-1",
			body:       square,
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_INPUT",
		},
		{
			name:       "truncated body",
			url:        "/v1/grow",
			body:       square[:40],
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_FORMAT",
		},
		{
			name:       "degenerate triangle",
			url:        "/v1/grow?depth=1",
			body:       encodeDegenerate(t),
			wantStatus: http.StatusBadRequest,
			wantCode:   "DEGENERATE_GEOMETRY",
		},
		{
			name:       "empty mesh with growth",
			url:        "/v1/grow?depth=2",
			body:       encodeEmpty(t),
			wantStatus: http.StatusBadRequest,
			wantCode:   "EMPTY_SELECTION",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, tt.url, bytes.NewReader(tt.body))
			rec := httptest.NewRecorder()
			srv.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}

			var resp map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode error body: %v", err)
			}
			if resp["code"] != tt.wantCode {
				t.Errorf("code = %q, want %q", resp["code"], tt.wantCode)
			}
		})
	}
}

// encodeDegenerate builds a binary STL holding a single zero-area
// triangle. stl.Write refuses such meshes, so the record is laid out
// by hand: 80-byte header, uint32 count of 1, one all-zero record.
func encodeDegenerate(t *testing.T) []byte {
	t.Helper()
	body := make([]byte, 80+4+50)
	body[80] = 1
	return body
}

func encodeEmpty(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := stl.Write(&buf, nil); err != nil {
		t.Fatalf("encode empty mesh: %v", err)
	}
	return buf.Bytes()
}

func TestPresets(t *testing.T) {
	srv := testServer(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/presets", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var presets []struct {
		Name     string `json:"name"`
		Strategy string `json:"strategy"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &presets); err != nil {
		t.Fatalf("decode: %v", err)
	}

	names := make(map[string]bool, len(presets))
	for _, p := range presets {
		names[p.Name] = true
		if p.Strategy != "area" && p.Strategy != "uniform" {
			t.Errorf("preset %s has strategy %q", p.Name, p.Strategy)
		}
	}
	for _, want := range []string{"passthrough", "thicket", "meadow", "bramble"} {
		if !names[want] {
			t.Errorf("preset %q missing from listing", want)
		}
	}
}
