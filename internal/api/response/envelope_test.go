package response_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scrimnight/scrimnight/internal/api/response"
)

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var env map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestNewMeta(t *testing.T) {
	meta := response.NewMeta("")
	_, err := uuid.Parse(meta.RequestID)
	assert.NoError(t, err, "generated requestId should be a UUID")

	_, err = time.Parse(time.RFC3339, meta.Timestamp)
	assert.NoError(t, err)

	assert.Equal(t, "req-7", response.NewMeta("req-7").RequestID)
}

func TestSuccess(t *testing.T) {
	w := httptest.NewRecorder()

	response.Success(w, http.StatusCreated, map[string]string{"outcome": "PENDING"}, "req-1")

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	env := decode(t, w)
	assert.Nil(t, env["error"])
	assert.Equal(t, "PENDING", env["data"].(map[string]any)["outcome"])
	assert.Equal(t, "req-1", env["meta"].(map[string]any)["requestId"])
}

func TestSuccessList_IncludesTotal(t *testing.T) {
	w := httptest.NewRecorder()

	response.SuccessList(w, http.StatusOK, []string{"a", "b"}, 2, "req-2")

	env := decode(t, w)
	assert.Len(t, env["data"], 2)
	meta := env["meta"].(map[string]any)
	assert.Equal(t, float64(2), meta["total"])
	assert.Equal(t, "req-2", meta["requestId"])
}

func TestErr(t *testing.T) {
	w := httptest.NewRecorder()

	response.Err(w, http.StatusNotFound, "NOT_FOUND", "Match not found", "req-3")

	assert.Equal(t, http.StatusNotFound, w.Code)
	env := decode(t, w)
	assert.Nil(t, env["data"])
	apiErr := env["error"].(map[string]any)
	assert.Equal(t, "NOT_FOUND", apiErr["code"])
	assert.Equal(t, "Match not found", apiErr["message"])
	_, hasDetails := apiErr["details"]
	assert.False(t, hasDetails)
}

func TestErrWithDetails(t *testing.T) {
	w := httptest.NewRecorder()

	response.ErrWithDetails(w, http.StatusConflict, "ALREADY_RESOLVED", "Match already resolved",
		map[string]string{"outcome": "BLUE"}, "req-4")

	assert.Equal(t, http.StatusConflict, w.Code)
	apiErr := decode(t, w)["error"].(map[string]any)
	assert.Equal(t, "BLUE", apiErr["details"].(map[string]any)["outcome"])
}
