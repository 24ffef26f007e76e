package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("read counter: %v", err)
	}
	return m.GetCounter().GetValue()
}

func TestGinMiddlewareLabelsSection(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(GinMiddleware())
	r.GET("/api/admin/:section", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, target := range []string{"/api/admin/skills", "/api/admin/skills", "/api/admin/users", "/health", "/missing"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, target, nil))
	}

	count := func(path, section, status string) float64 {
		return counterValue(t, requestTotal.With(prometheus.Labels{
			"method": http.MethodGet, "path": path, "section": section, "status": status,
		}))
	}
	assert.Equal(t, 2.0, count("/api/admin/:section", "skills", "200"))
	assert.Equal(t, 1.0, count("/api/admin/:section", "invalid", "200"))
	assert.Equal(t, 1.0, count("/health", "none", "200"))
	assert.Equal(t, 1.0, count("unmatched", "none", "404"))
}

func TestObserveContentWrite(t *testing.T) {
	before := counterValue(t, contentWritesTotal.WithLabelValues("projects", "create", "ok"))
	ObserveContentWrite("projects", "create", nil)
	assert.Equal(t, before+1, counterValue(t, contentWritesTotal.WithLabelValues("projects", "create", "ok")))
}
