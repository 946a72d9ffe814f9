package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blogem/site-intake/models"
)

func TestSend_WritesExactShape(t *testing.T) {
	fixed := time.Date(2026, 10, 18, 9, 30, 0, 0, time.FixedZone("SGT", 8*3600))
	Now = func() time.Time { return fixed }
	t.Cleanup(func() { Now = time.Now })

	rec := httptest.NewRecorder()
	Send(rec, models.Failed(http.StatusForbidden, "nope"))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))

	var raw map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	assert.Len(t, raw, 3)
	assert.Equal(t, false, raw["success"])
	assert.Equal(t, "nope", raw["message"])
	assert.Equal(t, "2026-10-18T09:30:00+08:00", raw["timestamp"])
}

func TestSend_ZeroStatusDefaultsToOK(t *testing.T) {
	rec := httptest.NewRecorder()
	Send(rec, models.Result{Success: true, Message: "ok"})

	assert.Equal(t, http.StatusOK, rec.Code)
}
