package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/whitebox/contacts-service/internal/api/handler"
	"github.com/whitebox/contacts-service/internal/core/domain"
	"github.com/whitebox/contacts-service/internal/core/service"
	"github.com/whitebox/contacts-service/internal/infrastructure/db/memory"
)

type testServer struct {
	t     *testing.T
	e     *echo.Echo
	store *memory.Store
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	store := memory.NewStore()
	registry := prometheus.NewRegistry()

	e := NewRouter(Dependencies{
		Auth:        service.NewAuthService(store.Users(), "test-secret", time.Hour),
		Contacts:    service.NewContactService(store.Contacts(), store.Users(), zerolog.Nop()),
		Checks:      map[string]handler.Pinger{"memory": store},
		Logger:      zerolog.Nop(),
		CORSOrigins: []string{"http://localhost:3000"},
		Registerer:  registry,
		Gatherer:    registry,
	})
	return &testServer{t: t, e: e, store: store}
}

func (s *testServer) do(method, path, token string, body any) (int, map[string]any) {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)

	var out map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), &out), "body: %s", rec.Body.String())
	}
	return rec.Code, out
}

// register signs a user up and returns their id and token.
func (s *testServer) register(email, name string) (string, string) {
	s.t.Helper()
	code, body := s.do(http.MethodPost, "/v1/auth/register", "", map[string]string{
		"email": email, "password": "password123", "name": name,
	})
	require.Equal(s.t, http.StatusCreated, code, body)
	return body["user"].(map[string]any)["id"].(string), body["access_token"].(string)
}

func TestRouter_AuthFlow(t *testing.T) {
	s := newTestServer(t)
	id, _ := s.register("alice@example.com", "Alice")

	code, body := s.do(http.MethodPost, "/v1/auth/register", "", map[string]string{
		"email": "ALICE@example.com", "password": "password123",
	})
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "user already exists", body["error"])

	code, body = s.do(http.MethodPost, "/v1/auth/login", "", map[string]string{
		"email": "alice@example.com", "password": "wrong-pass",
	})
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "invalid credentials", body["error"])

	code, body = s.do(http.MethodPost, "/v1/auth/login", "", map[string]string{
		"email": "alice@example.com", "password": "password123",
	})
	require.Equal(t, http.StatusOK, code)
	token := body["access_token"].(string)

	code, body = s.do(http.MethodGet, "/v1/auth/me", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, id, body["id"])
	assert.Equal(t, "USER", body["role"])
	assert.NotContains(t, body, "password")
}

func TestRouter_RequiresBearerToken(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/v1/auth/me", "/v1/contacts", "/v1/contacts/search", "/v1/contacts/archived"} {
		code, _ := s.do(http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, code, path)

		code, _ = s.do(http.MethodGet, path, "garbage", nil)
		assert.Equal(t, http.StatusUnauthorized, code, path)
	}
}

func TestRouter_ContactLifecycle(t *testing.T) {
	s := newTestServer(t)
	aliceID, alice := s.register("alice@example.com", "Alice")
	bobID, _ := s.register("bob@example.com", "Bob")
	charlieID, _ := s.register("charlie@example.com", "")

	// Self and unknown targets are rejected.
	code, _ := s.do(http.MethodPost, "/v1/contacts", alice, map[string]any{"contactUserId": aliceID})
	assert.Equal(t, http.StatusBadRequest, code)
	code, _ = s.do(http.MethodPost, "/v1/contacts", alice, map[string]any{"contactUserId": "nobody"})
	assert.Equal(t, http.StatusNotFound, code)
	code, body := s.do(http.MethodPost, "/v1/contacts", alice, map[string]any{})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.NotEmpty(t, body["details"])

	code, body = s.do(http.MethodPost, "/v1/contacts", alice, map[string]any{
		"contactUserId": bobID, "notes": "college friend", "tags": []string{"friends"},
	})
	require.Equal(t, http.StatusCreated, code, body)
	bobContact := body["id"].(string)
	assert.Equal(t, "Bob", body["contactUser"].(map[string]any)["name"])

	code, _ = s.do(http.MethodPost, "/v1/contacts", alice, map[string]any{"contactUserId": bobID})
	assert.Equal(t, http.StatusConflict, code)

	code, body = s.do(http.MethodPost, "/v1/contacts", alice, map[string]any{"contactUserId": charlieID})
	require.Equal(t, http.StatusCreated, code)
	charlieContact := body["id"].(string)
	assert.Nil(t, body["contactUser"].(map[string]any)["name"])
	assert.Equal(t, []any{}, body["tags"])

	code, body = s.do(http.MethodPut, "/v1/contacts/"+charlieContact, alice, map[string]any{"tags": []string{"work"}})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, []any{"work"}, body["tags"])

	code, body = s.do(http.MethodGet, "/v1/contacts?sortBy=name&sortOrder=asc", alice, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["data"], 2)
	assert.EqualValues(t, 2, body["meta"].(map[string]any)["total"])

	code, body = s.do(http.MethodGet, "/v1/contacts/search?search=BOB", alice, nil)
	require.Equal(t, http.StatusOK, code)
	require.Len(t, body["data"], 1)
	assert.Equal(t, bobContact, body["data"].([]any)[0].(map[string]any)["id"])

	code, body = s.do(http.MethodGet, "/v1/contacts?tags=work", alice, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["data"], 1)

	// Archive, then the pair cannot be re-created but can be restored.
	code, body = s.do(http.MethodDelete, "/v1/contacts/"+bobContact, alice, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, false, body["isActive"])

	code, body = s.do(http.MethodGet, "/v1/contacts", alice, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["data"], 1)

	code, body = s.do(http.MethodGet, "/v1/contacts/archived", alice, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["data"], 1)

	code, _ = s.do(http.MethodPost, "/v1/contacts", alice, map[string]any{"contactUserId": bobID})
	assert.Equal(t, http.StatusNotFound, code)

	code, body = s.do(http.MethodPatch, "/v1/contacts/"+bobContact+"/activate", alice, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["isActive"])
	assert.Equal(t, "college friend", body["notes"])

	code, body = s.do(http.MethodGet, "/v1/contacts/"+bobContact, alice, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, bobID, body["contactUserId"])
}

func TestRouter_UnrecognisedRoleIsForbidden(t *testing.T) {
	s := newTestServer(t)
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	_, err = s.store.Users().Create(context.Background(), &domain.User{
		ID: "guest-1", Email: "guest@example.com", PasswordHash: string(hash), Role: "GUEST",
	})
	require.NoError(t, err)

	code, body := s.do(http.MethodPost, "/v1/auth/login", "", map[string]string{
		"email": "guest@example.com", "password": "password123",
	})
	require.Equal(t, http.StatusOK, code, body)
	token := body["access_token"].(string)

	code, _ = s.do(http.MethodGet, "/v1/contacts", token, nil)
	assert.Equal(t, http.StatusForbidden, code)

	_, user := s.register("user@example.com", "User")
	code, _ = s.do(http.MethodGet, "/v1/contacts", user, nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestRouter_ContactsAreOwnerScoped(t *testing.T) {
	s := newTestServer(t)
	_, alice := s.register("alice@example.com", "Alice")
	_, bob := s.register("bob@example.com", "Bob")
	charlieID, _ := s.register("charlie@example.com", "Charlie")

	code, body := s.do(http.MethodPost, "/v1/contacts", alice, map[string]any{"contactUserId": charlieID})
	require.Equal(t, http.StatusCreated, code)
	aliceContact := body["id"].(string)

	for _, req := range []struct{ method, path string }{
		{http.MethodGet, "/v1/contacts/" + aliceContact},
		{http.MethodPut, "/v1/contacts/" + aliceContact},
		{http.MethodDelete, "/v1/contacts/" + aliceContact},
		{http.MethodPatch, "/v1/contacts/" + aliceContact + "/activate"},
	} {
		code, _ := s.do(req.method, req.path, bob, map[string]any{})
		assert.Equal(t, http.StatusNotFound, code, req.method+" "+req.path)
	}

	code, body = s.do(http.MethodGet, "/v1/contacts", bob, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, body["data"])

	// Contacts are directed: bob can still add alice's target independently.
	code, _ = s.do(http.MethodPost, "/v1/contacts", bob, map[string]any{"contactUserId": charlieID})
	assert.Equal(t, http.StatusCreated, code)
}

func TestRouter_ListingQueryValidation(t *testing.T) {
	s := newTestServer(t)
	_, alice := s.register("alice@example.com", "Alice")

	code, body := s.do(http.MethodGet, "/v1/contacts?page=0&sortBy=email", alice, nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Len(t, body["details"], 2)
}

func TestRouter_TagWithCommaMatchesItself(t *testing.T) {
	s := newTestServer(t)
	_, alice := s.register("alice@example.com", "Alice")
	bobID, _ := s.register("bob@example.com", "Bob")

	code, body := s.do(http.MethodPost, "/v1/contacts", alice, map[string]any{
		"contactUserId": bobID, "tags": []string{"work,home"},
	})
	require.Equal(t, http.StatusCreated, code, body)

	code, body = s.do(http.MethodGet, "/v1/contacts?tags=work%2Chome", alice, nil)
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 1, body["meta"].(map[string]any)["total"])

	code, body = s.do(http.MethodGet, "/v1/contacts?tags=work", alice, nil)
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 0, body["meta"].(map[string]any)["total"])
}

func TestRouter_PageBeyondAnyOffset(t *testing.T) {
	s := newTestServer(t)
	_, alice := s.register("alice@example.com", "Alice")
	bobID, _ := s.register("bob@example.com", "Bob")
	code, _ := s.do(http.MethodPost, "/v1/contacts", alice, map[string]any{"contactUserId": bobID})
	require.Equal(t, http.StatusCreated, code)

	code, body := s.do(http.MethodGet, "/v1/contacts?page=1000000000000000000&limit=10", alice, nil)
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, []any{}, body["data"])
	meta := body["meta"].(map[string]any)
	assert.EqualValues(t, 1, meta["total"])
	assert.Equal(t, false, meta["hasNext"])
	assert.Equal(t, true, meta["hasPrev"])
}

func TestRouter_OperationalEndpoints(t *testing.T) {
	s := newTestServer(t)

	code, body := s.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body["status"])

	code, body = s.do(http.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body["dependencies"], "memory")

	// One request so the HTTP collectors have samples.
	s.do(http.MethodGet, "/v1/nope", "", nil)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_requests_total")
}

func TestRouter_CORSPreflight(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/v1/contacts", nil)
	req.Header.Set(echo.HeaderOrigin, "http://localhost:3000")
	req.Header.Set(echo.HeaderAccessControlRequestMethod, http.MethodPost)
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
	assert.Equal(t, "true", rec.Header().Get(echo.HeaderAccessControlAllowCredentials))
}
