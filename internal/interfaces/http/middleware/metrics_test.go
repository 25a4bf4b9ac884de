package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Yitzhakza/electic/internal/infrastructure/telemetry"
)

func TestHTTPMetrics_RecordsRoutePattern(t *testing.T) {
	reg := telemetry.NewPrometheusRegistry()
	r := gin.New()
	r.Use(HTTPMetrics(reg))
	r.GET("/api/v1/admin/sync/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	r.GET("/api/v1/products", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, path := range []string{"/api/v1/admin/sync/a", "/api/v1/admin/sync/b", "/api/v1/products", "/nowhere"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	expected := `
# HELP http_requests_total Total number of HTTP requests.
# TYPE http_requests_total counter
http_requests_total{method="GET",route="/api/v1/admin/sync/:id",status="4xx"} 2
http_requests_total{method="GET",route="/api/v1/products",status="2xx"} 1
http_requests_total{method="GET",route="unmatched",status="4xx"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg.Gatherer(), strings.NewReader(expected), telemetry.MetricHTTPRequestsTotal))
}

func TestHTTPMetrics_NilRecorder(t *testing.T) {
	w := httptest.NewRecorder()
	newTestEngine(HTTPMetrics(nil)).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/products", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
