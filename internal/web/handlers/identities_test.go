package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kozaktomas/facereg/internal/database"
	"github.com/kozaktomas/facereg/internal/database/mock"
	"github.com/kozaktomas/facereg/internal/logging"
)

func seededIdentities() *mock.MockIdentityStore {
	store := mock.NewMockIdentityStore()
	store.AddIdentity(database.Identity{Name: "Jan Novák", Embedding: descriptor(0.1), PhotoPath: "face_a.jpg"})
	store.AddIdentity(database.Identity{Name: "Petra", Embedding: descriptor(0.2), PhotoPath: "face_b.png"})
	store.AddIdentity(database.Identity{Name: "jan novak", Embedding: descriptor(0.3), PhotoPath: "face_c.jpg"})
	return store
}

func TestIdentitiesHandler_List(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []int64
	}{
		{"all", "", []int64{1, 2, 3}},
		{"by normalized name", "?name=JAN-NOVAK", []int64{1, 3}},
		{"no match", "?name=nobody", []int64{}},
	}

	handler := NewIdentitiesHandler(seededIdentities(), logging.Discard())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			handler.List(recorder, httptest.NewRequest(http.MethodGet, "/api/v1/identities"+tt.query, nil))

			assertStatusCode(t, recorder, http.StatusOK)
			var result IdentityListResponse
			parseJSONResponse(t, recorder, &result)
			if result.Count != len(tt.want) || len(result.Identities) != len(tt.want) {
				t.Fatalf("expected %d identities, got %d", len(tt.want), result.Count)
			}
			for i, id := range tt.want {
				if result.Identities[i].ID != id {
					t.Errorf("identity %d: got id %d, want %d", i, result.Identities[i].ID, id)
				}
			}
		})
	}
}

func TestIdentitiesHandler_List_OmitsDescriptor(t *testing.T) {
	handler := NewIdentitiesHandler(seededIdentities(), logging.Discard())

	recorder := httptest.NewRecorder()
	handler.List(recorder, httptest.NewRequest(http.MethodGet, "/api/v1/identities", nil))

	body := recorder.Body.String()
	if strings.Contains(body, "descriptor") || strings.Contains(body, "embedding") {
		t.Errorf("descriptors must not be exposed: %s", body)
	}
	if !strings.Contains(body, `"photo_url":"/api/v1/photos/face_a.jpg"`) {
		t.Errorf("expected photo url in response: %s", body)
	}
}

func TestIdentitiesHandler_List_StoreError(t *testing.T) {
	store := mock.NewMockIdentityStore()
	store.ListAllError = errors.New("boom")
	handler := NewIdentitiesHandler(store, logging.Discard())

	recorder := httptest.NewRecorder()
	handler.List(recorder, httptest.NewRequest(http.MethodGet, "/api/v1/identities", nil))

	assertStatusCode(t, recorder, http.StatusInternalServerError)
	assertFailure(t, recorder, "failed to list identities")
}

func TestIdentitiesHandler_Get(t *testing.T) {
	handler := NewIdentitiesHandler(seededIdentities(), logging.Discard())

	tests := []struct {
		name   string
		id     string
		status int
	}{
		{"existing", "2", http.StatusOK},
		{"missing", "99", http.StatusNotFound},
		{"not a number", "abc", http.StatusBadRequest},
		{"zero", "0", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := requestWithChiParams(httptest.NewRequest(http.MethodGet, "/api/v1/identities/"+tt.id, nil), map[string]string{"id": tt.id})
			recorder := httptest.NewRecorder()

			handler.Get(recorder, req)

			assertStatusCode(t, recorder, tt.status)
			if tt.status != http.StatusOK {
				assertFailure(t, recorder, "")
				return
			}
			var result IdentityResponse
			parseJSONResponse(t, recorder, &result)
			if result.Name != "Petra" || result.Dimension != testDim || result.PhotoPath != "face_b.png" {
				t.Errorf("unexpected identity %+v", result)
			}
		})
	}
}
