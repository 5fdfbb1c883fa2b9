package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/scrimnight/scrimnight/internal/member"
)

func makeChiRequest(method, path string, body []byte, routePattern string, params map[string]string) (*http.Request, *httptest.ResponseRecorder) {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, path, bytes.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()

	if len(params) > 0 {
		rctx := chi.NewRouteContext()
		rctx.RoutePatterns = append(rctx.RoutePatterns, routePattern)
		for k, v := range params {
			rctx.URLParams.Add(k, v)
		}
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	}

	return req, w
}

func parseEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var env map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &env)
	require.NoError(t, err, "failed to parse response body")
	return env
}

func errorCode(t *testing.T, env map[string]interface{}) string {
	t.Helper()
	errObj, ok := env["error"].(map[string]interface{})
	require.True(t, ok, "response should carry an error object")
	return errObj["code"].(string)
}

func errorDetails(t *testing.T, env map[string]interface{}) map[string]interface{} {
	t.Helper()
	errObj := env["error"].(map[string]interface{})
	details, ok := errObj["details"].(map[string]interface{})
	require.True(t, ok, "error details should be an object")
	return details
}

func tierPtr(t member.Tier) *member.Tier { return &t }

// seedMembers registers n members in repo, cycling through the tiers from
// IRON upward.
func seedMembers(t *testing.T, repo member.Repository, n int) []member.Member {
	t.Helper()
	out := make([]member.Member, 0, n)
	for i := 0; i < n; i++ {
		m := &member.Member{
			Name:   fmt.Sprintf("Player %02d", i),
			Handle: fmt.Sprintf("Player%02d#EUW", i),
			Tier:   tierPtr(member.Tiers[i%len(member.Tiers)]),
		}
		require.NoError(t, repo.Create(context.Background(), m))
		out = append(out, *m)
	}
	return out
}

func mustJSON(t *testing.T, v interface{}) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}
