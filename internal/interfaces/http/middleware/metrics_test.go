package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func findMetricByName(rm metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for _, sm := range rm.ScopeMetrics {
		for i := range sm.Metrics {
			if sm.Metrics[i].Name == name {
				return &sm.Metrics[i]
			}
		}
	}
	return nil
}

func TestHTTPMetrics(t *testing.T) {
	t.Run("counts requests by route and status", func(t *testing.T) {
		reader := sdkmetric.NewManualReader()
		mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
		t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

		router := gin.New()
		router.Use(HTTPMetrics(HTTPMetricsConfig{Meter: mp.Meter("http.server"), Enabled: true}))
		router.GET("/api/v1/products/:id", okHandler)

		for _, path := range []string{"/api/v1/products/1", "/api/v1/products/2", "/nowhere"} {
			router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
		}

		var rm metricdata.ResourceMetrics
		require.NoError(t, reader.Collect(t.Context(), &rm))

		total := findMetricByName(rm, "http_server_request_total")
		require.NotNil(t, total)
		sum, ok := total.Data.(metricdata.Sum[int64])
		require.True(t, ok)

		counts := map[string]int64{}
		for _, dp := range sum.DataPoints {
			route, _ := dp.Attributes.Value(attribute.Key("http.route"))
			status, _ := dp.Attributes.Value(attribute.Key("http.status_code"))
			counts[route.AsString()+" "+status.AsString()] = dp.Value
		}
		assert.Equal(t, int64(2), counts["/api/v1/products/:id 200"])
		assert.Equal(t, int64(1), counts["unmatched 404"])

		assert.NotNil(t, findMetricByName(rm, "http_server_request_duration_seconds"))
	})

	t.Run("no-op meter passes requests through", func(t *testing.T) {
		router := gin.New()
		router.Use(HTTPMetrics(HTTPMetricsConfig{Meter: noop.NewMeterProvider().Meter("test"), Enabled: true}))
		router.GET("/test", okHandler)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/test", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("disabled without a meter", func(t *testing.T) {
		router := gin.New()
		router.Use(HTTPMetrics(HTTPMetricsConfig{Enabled: true}))
		router.GET("/test", okHandler)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/test", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
