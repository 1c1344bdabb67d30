package handlers

import (
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kozaktomas/facereg/internal/database"
)

func TestFacesHandler_Check(t *testing.T) {
	deps := newTestDeps(testConfig())
	alice := deps.store.AddIdentity(database.Identity{Name: "Alice", Embedding: descriptor(0.1)})
	deps.store.AddIdentity(database.Identity{Name: "Alice twin", Embedding: descriptor(0.12)})

	t.Run("registered face", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		deps.faces.Check(recorder, jsonRequest(t, "/api/v1/faces/check", map[string]any{"descriptor": descriptor(0.11)}))

		assertStatusCode(t, recorder, http.StatusOK)
		assertContentType(t, recorder, "application/json")

		var result CheckResponse
		parseJSONResponse(t, recorder, &result)
		if !result.Success || !result.Exists {
			t.Fatalf("expected exists, got %+v", result)
		}
		if result.User == nil || result.User.ID != alice.ID || result.User.Name != "Alice" {
			t.Errorf("expected first qualifying identity Alice, got %+v", result.User)
		}
		if result.Distance == nil || math.Abs(*result.Distance-0.02) > 1e-6 {
			t.Errorf("unexpected distance %v", result.Distance)
		}
	})

	t.Run("unknown face", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		deps.faces.Check(recorder, jsonRequest(t, "/api/v1/faces/check", map[string]any{"descriptor": descriptor(0.9)}))

		assertStatusCode(t, recorder, http.StatusOK)
		var result CheckResponse
		parseJSONResponse(t, recorder, &result)
		if !result.Success || result.Exists || result.User != nil || result.Distance != nil {
			t.Errorf("expected no match, got %+v", result)
		}
		if result.Message != msgNotRegistered {
			t.Errorf("unexpected message %q", result.Message)
		}
	})
}

func TestFacesHandler_Check_BadRequests(t *testing.T) {
	tests := []struct {
		name    string
		body    any
		status  int
		message string
	}{
		{"missing descriptor", map[string]any{}, http.StatusBadRequest, msgDescriptorMissing},
		{"malformed json", `{"descriptor": [0.1,`, http.StatusBadRequest, errInvalidRequestBody},
		{"trailing data", `{"descriptor": [0.1]} {}`, http.StatusBadRequest, errInvalidRequestBody},
		{"string descriptor", `{"descriptor": "0.1,0.2"}`, http.StatusBadRequest, errInvalidRequestBody},
		{"wrong dimension", map[string]any{"descriptor": []float32{0.1, 0.2}}, http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deps := newTestDeps(testConfig())
			recorder := httptest.NewRecorder()

			deps.faces.Check(recorder, jsonRequest(t, "/api/v1/faces/check", tt.body))

			assertStatusCode(t, recorder, tt.status)
			assertFailure(t, recorder, tt.message)
		})
	}
}

func TestFacesHandler_Check_StoreFailure(t *testing.T) {
	deps := newTestDeps(testConfig())
	deps.store.ListAllError = errors.New("pq: connection refused")

	recorder := httptest.NewRecorder()
	deps.faces.Check(recorder, jsonRequest(t, "/api/v1/faces/check", map[string]any{"descriptor": descriptor(0.1)}))

	assertStatusCode(t, recorder, http.StatusInternalServerError)
	assertFailure(t, recorder, "failed to access identity store")
	if strings.Contains(recorder.Body.String(), "pq:") {
		t.Error("driver errors must not leak to clients")
	}
}

func TestFacesHandler_Recognize(t *testing.T) {
	deps := newTestDeps(testConfig())
	deps.store.AddIdentity(database.Identity{Name: "Alice", Embedding: descriptor(0.8)})
	bob := deps.store.AddIdentity(database.Identity{Name: "Bob", Embedding: descriptor(0.3)})
	deps.store.AddIdentity(database.Identity{Name: "Carol", Embedding: descriptor(0.5)})

	recorder := httptest.NewRecorder()
	deps.faces.Recognize(recorder, jsonRequest(t, "/api/v1/faces/recognize", map[string]any{"descriptor": descriptor(0.35)}))

	assertStatusCode(t, recorder, http.StatusOK)
	var result RecognizeResponse
	parseJSONResponse(t, recorder, &result)
	if !result.Success || !result.Match {
		t.Fatalf("expected a match, got %+v", result)
	}
	if result.User.ID != bob.ID {
		t.Errorf("expected nearest identity Bob, got %+v", result.User)
	}
	if math.Abs(*result.Distance-0.1) > 1e-6 {
		t.Errorf("expected distance 0.1, got %v", *result.Distance)
	}

	recorder = httptest.NewRecorder()
	deps.faces.Recognize(recorder, jsonRequest(t, "/api/v1/faces/recognize", map[string]any{"descriptor": descriptor(-2)}))

	var unknown RecognizeResponse
	parseJSONResponse(t, recorder, &unknown)
	if !unknown.Success || unknown.Match || unknown.Message != msgNotRecognized {
		t.Errorf("expected unrecognized face, got %+v", unknown)
	}
}

func TestFacesHandler_Recognize_MissingDescriptor(t *testing.T) {
	deps := newTestDeps(testConfig())
	recorder := httptest.NewRecorder()

	deps.faces.Recognize(recorder, jsonRequest(t, "/api/v1/faces/recognize", map[string]any{"name": "x"}))

	assertStatusCode(t, recorder, http.StatusBadRequest)
	assertFailure(t, recorder, msgDescriptorMissing)
}

func TestFacesHandler_Register(t *testing.T) {
	deps := newTestDeps(testConfig())

	recorder := httptest.NewRecorder()
	deps.faces.Register(recorder, jsonRequest(t, "/api/v1/faces/register", RegisterRequest{
		Name:       "Alice",
		Descriptor: descriptor(0.1),
		Photo:      testPhoto(t),
	}))

	assertStatusCode(t, recorder, http.StatusCreated)
	var result RegisterResponse
	parseJSONResponse(t, recorder, &result)
	if !result.Success || result.ID != 1 || result.PhotoPath == "" {
		t.Fatalf("unexpected response %+v", result)
	}
	if deps.photos.Len() != 1 {
		t.Errorf("expected one stored photo, got %d", deps.photos.Len())
	}
}

func TestFacesHandler_Register_Failures(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(*testDeps)
		req     RegisterRequest
		status  int
		message string
	}{
		{
			name:   "missing name",
			req:    RegisterRequest{Descriptor: descriptor(0.1), Photo: "photo"},
			status: http.StatusBadRequest,
		},
		{
			name:   "bad photo",
			req:    RegisterRequest{Name: "Alice", Descriptor: descriptor(0.1), Photo: "data:image/jpeg;base64,AAAA"},
			status: http.StatusBadRequest,
		},
		{
			name:    "storage failure",
			setup:   func(d *testDeps) { d.photos.SaveError = errors.New("read-only file system") },
			status:  http.StatusInternalServerError,
			message: "failed to store photo",
		},
		{
			name:    "persistence failure",
			setup:   func(d *testDeps) { d.store.InsertError = errors.New("duplicate key") },
			status:  http.StatusInternalServerError,
			message: "failed to access identity store",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deps := newTestDeps(testConfig())
			if tt.setup != nil {
				tt.setup(deps)
			}
			req := tt.req
			if req.Name == "" && req.Descriptor == nil {
				req = RegisterRequest{Name: "Alice", Descriptor: descriptor(0.1), Photo: testPhoto(t)}
			}

			recorder := httptest.NewRecorder()
			deps.faces.Register(recorder, jsonRequest(t, "/api/v1/faces/register", req))

			assertStatusCode(t, recorder, tt.status)
			assertFailure(t, recorder, tt.message)
			if deps.photos.Len() != 0 {
				t.Errorf("expected no stored photos after failure, got %d", deps.photos.Len())
			}
		})
	}
}

func TestFacesHandler_Register_Duplicate(t *testing.T) {
	cfg := testConfig()
	cfg.Matching.RejectDuplicates = true
	deps := newTestDeps(cfg)
	deps.store.AddIdentity(database.Identity{Name: "Alice", Embedding: descriptor(0.1)})

	recorder := httptest.NewRecorder()
	deps.faces.Register(recorder, jsonRequest(t, "/api/v1/faces/register", RegisterRequest{
		Name: "Alice", Descriptor: descriptor(0.1), Photo: testPhoto(t),
	}))

	assertStatusCode(t, recorder, http.StatusConflict)
	assertFailure(t, recorder, "")
}

func TestFacesHandler_BodyTooLarge(t *testing.T) {
	cfg := testConfig()
	cfg.Web.MaxRequestBytes = 64
	deps := newTestDeps(cfg)

	recorder := httptest.NewRecorder()
	deps.faces.Register(recorder, jsonRequest(t, "/api/v1/faces/register", RegisterRequest{
		Name: "Alice", Descriptor: descriptor(0.1), Photo: testPhoto(t),
	}))

	assertStatusCode(t, recorder, http.StatusRequestEntityTooLarge)
	assertFailure(t, recorder, "")
}
