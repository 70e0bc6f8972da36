package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/campolink/campolink/internal/common/config"
)

func TestMetricsNilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ConnOpened()
		m.ConnClosed()
		m.Emitted("lote-liberado")
		m.Delivered("lote-liberado")
		m.Dropped("lote-liberado")
		m.Handshake("accepted")
	})
}

func TestMetricsEndpoint(t *testing.T) {
	gin.SetMode(gin.TestMode)

	m := New(config.MetricsConfig{})
	m.ConnOpened()
	m.Emitted("lote-estado-actualizado")

	r := gin.New()
	r.Use(m.GinMiddleware())
	r.GET("/metrics", m.Handler())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "campolink_ws_connections")
	assert.Contains(t, body, "campolink_events_emitted_total")
}

func TestStatusText(t *testing.T) {
	assert.Equal(t, "2xx", statusText(204))
	assert.Equal(t, "4xx", statusText(401))
	assert.Equal(t, "5xx", statusText(503))
}
