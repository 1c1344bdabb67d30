package handlers

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/kozaktomas/facereg/internal/config"
	"github.com/kozaktomas/facereg/internal/database/mock"
	"github.com/kozaktomas/facereg/internal/logging"
	"github.com/kozaktomas/facereg/internal/photostore"
	"github.com/kozaktomas/facereg/internal/workflow"
)

const testDim = 4

// testConfig creates a minimal config for testing
func testConfig() *config.Config {
	cfg := config.Defaults()
	cfg.Matching.Dimension = testDim
	cfg.Database.Driver = "mock"
	return cfg
}

// descriptor returns a testDim vector filled with v.
func descriptor(v float32) []float32 {
	return []float32{v, v, v, v}
}

func testPhoto(t *testing.T) string {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewGray(image.Rect(0, 0, 2, 2))); err != nil {
		t.Fatalf("encoding png: %v", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

type testDeps struct {
	cfg    *config.Config
	store  *mock.MockIdentityStore
	photos *photostore.Memory
	faces  *FacesHandler
}

func newTestDeps(cfg *config.Config) *testDeps {
	store := mock.NewMockIdentityStore()
	photos := photostore.NewMemory()
	log := logging.Discard()
	return &testDeps{
		cfg:    cfg,
		store:  store,
		photos: photos,
		faces: NewFacesHandler(
			workflow.NewRegistration(store, photos, cfg, log),
			workflow.NewRecognition(store, &cfg.Matching, log),
			log,
			cfg.Web.MaxRequestBytes,
		),
	}
}

// jsonRequest creates a POST request with a JSON body
func jsonRequest(t *testing.T, path string, body any) *http.Request {
	t.Helper()
	var raw string
	switch b := body.(type) {
	case string:
		raw = b
	default:
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request: %v", err)
		}
		raw = string(data)
	}
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// requestWithChiParams creates a request with chi URL parameters
func requestWithChiParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// parseJSONResponse parses a JSON response body into the target type
func parseJSONResponse(t *testing.T, recorder *httptest.ResponseRecorder, target any) {
	t.Helper()
	if err := json.Unmarshal(recorder.Body.Bytes(), target); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nBody: %s", err, recorder.Body.String())
	}
}

// assertStatusCode checks if the response has the expected status code
func assertStatusCode(t *testing.T, recorder *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if recorder.Code != expected {
		t.Errorf("expected status %d, got %d\nBody: %s", expected, recorder.Code, recorder.Body.String())
	}
}

// assertContentType checks if the response has the expected content type
func assertContentType(t *testing.T, recorder *httptest.ResponseRecorder, expected string) {
	t.Helper()
	ct := recorder.Header().Get("Content-Type")
	if ct != expected {
		t.Errorf("expected Content-Type '%s', got '%s'", expected, ct)
	}
}

// assertFailure checks for a {success:false} body with the expected message
func assertFailure(t *testing.T, recorder *httptest.ResponseRecorder, expectedMessage string) {
	t.Helper()
	var result FailureResponse
	parseJSONResponse(t, recorder, &result)
	if result.Success {
		t.Error("expected success to be false")
	}
	if expectedMessage != "" && result.Message != expectedMessage {
		t.Errorf("expected message '%s', got '%s'", expectedMessage, result.Message)
	}
}
