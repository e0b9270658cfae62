package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"merchmagic/internal/domain"
)

func TestObserveCountsByOutcome(t *testing.T) {
	m := New()
	m.Observe(domain.OperationGenerate, "success", 2*time.Second)
	m.Observe(domain.OperationGenerate, "success", time.Second)
	m.Observe(domain.OperationEdit, "no_image", time.Second)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.attempts.WithLabelValues("generate", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.attempts.WithLabelValues("edit", "no_image")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.attemptDuration))
}

func TestMiddlewareUsesRoutePattern(t *testing.T) {
	m := New()
	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/v1/sessions/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, id := range []string{"a", "b"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/sessions/"+id, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "/v1/sessions/{id}", "404")))
}

func TestHandlerExposesCollectors(t *testing.T) {
	m := New()
	m.Observe(domain.OperationEdit, "error", time.Second)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `merchmagic_mockup_attempts_total{op="edit",outcome="error"} 1`))
	assert.Contains(t, body, "go_goroutines")
}
