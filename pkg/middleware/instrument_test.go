package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tackboard/tack/pkg/contextkeys"
	"github.com/tackboard/tack/pkg/observability"
)

func TestInstrument_RecordsRouteTemplate(t *testing.T) {
	logger := observability.NewLogger(observability.ErrorLevel, io.Discard)
	metrics := observability.NewMetrics(prometheus.NewRegistry())

	r := mux.NewRouter()
	r.Use(Instrument(logger, metrics))
	r.HandleFunc("/api/boards/{id}", func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, contextkeys.RequestID(r.Context()))
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodGet)

	req := httptest.NewRequest(http.MethodGet, "/api/boards/123", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	// the metric is labeled with the route template, not the raw path
	mrec := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(mrec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := mrec.Body.String()
	assert.Contains(t, body, `path="/api/boards/{id}"`)
	assert.NotContains(t, body, `path="/api/boards/123"`)
}

func TestRecover(t *testing.T) {
	logger := observability.NewLogger(observability.ErrorLevel, io.Discard)

	r := mux.NewRouter()
	r.Use(Recover(logger))
	r.HandleFunc("/boom", func(w http.ResponseWriter, r *http.Request) {
		panic("kaboom")
	})

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "internal server error"))
}
