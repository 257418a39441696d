package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookstore-api/pkg/metrics"
)

func inFlight(t *testing.T) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, metrics.HTTPRequestsInProgress.Write(&m))
	return m.GetGauge().GetValue()
}

func TestMetrics_InFlight(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var during float64
	r := gin.New()
	r.Use(Metrics())
	r.GET("/books", func(c *gin.Context) {
		during = inFlight(t)
		c.Status(http.StatusOK)
	})

	before := 0.0
	if metrics.HTTPRequestsInProgress != nil {
		before = inFlight(t)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/books", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, before+1, during)
	assert.Equal(t, before, inFlight(t))
}

func TestMetrics_UnmatchedRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(Metrics())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	var m dto.Metric
	require.NoError(t, metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "unmatched", "404").Write(&m))
	assert.GreaterOrEqual(t, m.GetCounter().GetValue(), 1.0)
}
