package api_test

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"sigs.k8s.io/yaml"

	specpkg "github.com/scrimnight/scrimnight/api"
	"github.com/scrimnight/scrimnight/internal/api"
	"github.com/scrimnight/scrimnight/internal/auth"
	"github.com/scrimnight/scrimnight/internal/match"
	"github.com/scrimnight/scrimnight/internal/member"
)

// openAPISpec is the minimal structure needed to extract paths from the OpenAPI document.
type openAPISpec struct {
	Paths map[string]map[string]interface{} `json:"paths"`
}

func newTestRouter(t *testing.T, authService *auth.Service) *chi.Mux {
	t.Helper()

	members := member.NewMemoryRepository()
	svc := match.NewService(match.NewMemoryRepository(members), members)

	return api.NewRouter(api.RouterDeps{
		Version:     "test",
		OpenAPISpec: specpkg.OpenAPISpec,
		CORSOrigins: []string{"*"},
		Members:     members,
		Matches:     svc,
		Scores:      member.DefaultScoreTable(),
		Auth:        authService,
		Metrics:     http.NotFoundHandler(),
		Live:        func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) },
	})
}

func TestOpenAPISpec_RoutesCoverAllPaths(t *testing.T) {
	t.Parallel()

	specJSON, err := yaml.YAMLToJSON(specpkg.OpenAPISpec)
	require.NoError(t, err, "embedded document must convert to JSON")

	var spec openAPISpec
	err = yaml.Unmarshal(specJSON, &spec)
	require.NoError(t, err, "document JSON must unmarshal")

	specRoutes := extractSpecRoutes(t, spec)
	require.NotEmpty(t, specRoutes, "document should define at least one route")

	router := newTestRouter(t, auth.NewService(""))

	chiRoutes := extractChiRoutes(t, router)
	require.NotEmpty(t, chiRoutes, "Chi router should have at least one route")

	for _, sr := range specRoutes {
		t.Run(fmt.Sprintf("openapi_%s_%s_has_Chi_route", sr.method, sr.path), func(t *testing.T) {
			assert.Contains(t, chiRoutes, sr, "documented route %s %s not found in Chi router", sr.method, sr.path)
		})
	}

	for _, cr := range chiRoutes {
		t.Run(fmt.Sprintf("Chi_%s_%s_is_documented", cr.method, cr.path), func(t *testing.T) {
			assert.Contains(t, specRoutes, cr, "Chi route %s %s not found in the OpenAPI document", cr.method, cr.path)
		})
	}
}

func TestRouter_WriteRoutesRequireOrganizerKey(t *testing.T) {
	t.Parallel()

	rawKey := auth.KeyPrefix + "router-test"
	hash, err := bcrypt.GenerateFromPassword([]byte(rawKey), bcrypt.MinCost)
	require.NoError(t, err)
	router := newTestRouter(t, auth.NewService(string(hash)))

	writes := []string{"/members", "/matches", "/matches/0b7c6f9e-2f4a-4df3-9a43-5f9d1c2b7a10/result"}
	for _, path := range writes {
		t.Run(path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader([]byte(`{}`)))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}

	t.Run("read routes stay open", func(t *testing.T) {
		for _, path := range []string{"/members", "/matches", "/health"} {
			req := httptest.NewRequest(http.MethodGet, path, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, http.StatusOK, w.Code, path)
		}
	})

	t.Run("valid key passes through to validation", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/members", bytes.NewReader([]byte(`{}`)))
		req.Header.Set("X-API-Key", rawKey)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestRouter_EchoesRequestID(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, auth.NewService(""))
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
}

type route struct {
	method string
	path   string
}

func extractSpecRoutes(t *testing.T, spec openAPISpec) []route {
	t.Helper()
	var routes []route
	for path, methods := range spec.Paths {
		for method := range methods {
			routes = append(routes, route{
				method: strings.ToUpper(method),
				path:   path,
			})
		}
	}
	sortRoutes(routes)
	return routes
}

func extractChiRoutes(t *testing.T, r *chi.Mux) []route {
	t.Helper()
	var routes []route
	walkFunc := func(method, routePath string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		// The Swagger UI serves its own assets and is not part of the API.
		if strings.HasPrefix(routePath, "/swagger/") {
			return nil
		}
		// Chi subroutes produce trailing slashes (e.g. /members/).
		normalized := strings.TrimRight(routePath, "/")
		if normalized == "" {
			normalized = "/"
		}
		routes = append(routes, route{method: method, path: normalized})
		return nil
	}
	err := chi.Walk(r, walkFunc)
	require.NoError(t, err, "chi.Walk should not error")

	sortRoutes(routes)
	return routes
}

func sortRoutes(routes []route) {
	sort.Slice(routes, func(i, j int) bool {
		if routes[i].path == routes[j].path {
			return routes[i].method < routes[j].method
		}
		return routes[i].path < routes[j].path
	})
}
