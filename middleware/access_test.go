package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blogem/site-intake/clientctx"
	"github.com/blogem/site-intake/models"
)

// recordingAccess captures RecordAccess calls.
type recordingAccess struct {
	mu       sync.Mutex
	enabled  bool
	requests []*models.AccessRequest
	result   bool
}

func (a *recordingAccess) RecordAccess(_ context.Context, req *models.AccessRequest) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.requests = append(a.requests, req)
	return a.result
}

func (a *recordingAccess) GetStats(context.Context, int) []models.DailyStats {
	return []models.DailyStats{}
}

func (a *recordingAccess) Enabled() bool { return a.enabled }

func TestAccessRecorder_RecordsStatusAndSize(t *testing.T) {
	access := &recordingAccess{enabled: true, result: true}
	var seenIP string
	handler := AccessRecorder(access, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenIP = clientctx.GetClientIP(r.Context())
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte("short and stout"))
	}))

	req := httptest.NewRequest(http.MethodGet, "/about?lang=en", nil)
	req.Header.Set("X-Forwarded-For", "1.2.3.4, 5.6.7.8")
	req.Header.Set("User-Agent", "test-agent")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, "1.2.3.4", seenIP)

	require.Len(t, access.requests, 1)
	got := access.requests[0]
	assert.Equal(t, http.MethodGet, got.Method)
	assert.Equal(t, "/about?lang=en", got.RequestURI)
	assert.Equal(t, "test-agent", got.Header.Get("User-Agent"))
	assert.Equal(t, http.StatusTeapot, *got.StatusCode)
	assert.Equal(t, len("short and stout"), *got.ResponseSize)
}

func TestAccessRecorder_ImplicitOK(t *testing.T) {
	access := &recordingAccess{enabled: true}
	handler := AccessRecorder(access, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	require.Len(t, access.requests, 1)
	assert.Equal(t, http.StatusOK, *access.requests[0].StatusCode)
	assert.Equal(t, 0, *access.requests[0].ResponseSize)
}

func TestAccessRecorder_SkipPaths(t *testing.T) {
	access := &recordingAccess{enabled: true}
	called := false
	handler := AccessRecorder(access, []string{"/healthz"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.True(t, called)
	assert.Empty(t, access.requests)
}

func TestAccessRecorder_FailureDoesNotBreakPage(t *testing.T) {
	access := &recordingAccess{enabled: true, result: false}
	handler := AccessRecorder(access, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("page"))
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "page", rec.Body.String())
	assert.Len(t, access.requests, 1)
}

func TestAccessRecorder_DisabledStillSetsIdentity(t *testing.T) {
	access := &recordingAccess{enabled: false}
	var seenIP string
	handler := AccessRecorder(access, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenIP = clientctx.GetClientIP(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.1.1.1:9999"
	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "10.1.1.1", seenIP)
	assert.Empty(t, access.requests)
}

func panickingHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("handler exploded")
	})
}

func TestAccessRecorder_PanicOutsideRecoverer(t *testing.T) {
	access := &recordingAccess{enabled: true, result: true}
	handler := AccessRecorder(access, nil)(chimiddleware.Recoverer(panickingHandler()))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/page", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Len(t, access.requests, 1)
	assert.Equal(t, http.StatusInternalServerError, *access.requests[0].StatusCode)
	assert.Equal(t, "/page", access.requests[0].RequestURI)
}

func TestAccessRecorder_PanicInsideRecoverer(t *testing.T) {
	access := &recordingAccess{enabled: true, result: true}
	handler := chimiddleware.Recoverer(AccessRecorder(access, nil)(panickingHandler()))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/page", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Len(t, access.requests, 1)
	assert.Equal(t, http.StatusInternalServerError, *access.requests[0].StatusCode)
}

func TestAccessRecorder_PanicPropagates(t *testing.T) {
	access := &recordingAccess{enabled: true}
	handler := AccessRecorder(access, nil)(panickingHandler())

	assert.PanicsWithValue(t, "handler exploded", func() {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/page", nil))
	})
	assert.Len(t, access.requests, 1)
}
