package router_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"mpin_backend/internal/blacklist"
	apphttp "mpin_backend/internal/http"
	"mpin_backend/internal/http/router"
	"mpin_backend/internal/mpin"
	"mpin_backend/platform/config"
	"mpin_backend/platform/httpkit"
	"mpin_backend/platform/logger"
	"mpin_backend/platform/metrics"
	"mpin_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newEngine(t *testing.T, cfg *config.Config) *gin.Engine {
	t.Helper()
	reg := prometheus.NewRegistry()
	log := logger.NewWithWriter("production", &bytes.Buffer{})

	module, err := mpin.NewModule(blacklist.Default(), cfg, metrics.New(reg), log, validator.New())
	require.NoError(t, err)

	return router.New(&apphttp.App{
		Config:   cfg,
		Logger:   log,
		Gatherer: reg,
		Modules:  []apphttp.Module{module},
	})
}

func baseConfig() *config.Config {
	return &config.Config{
		Env:              "production",
		CORSOrigins:      []string{"http://localhost:3000"},
		MetricsEnabled:   true,
		MatchMode:        "exact",
		MaxBatchSize:     10,
		BatchConcurrency: 2,
	}
}

func serve(engine *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func evaluateRequest() *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/mpin/evaluate", strings.NewReader(`{"mpin":"1234"}`))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestHealth(t *testing.T) {
	engine := newEngine(t, baseConfig())

	w := serve(engine, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get(httpkit.HeaderRequestID))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
}

func TestMetricsExposeEvaluations(t *testing.T) {
	engine := newEngine(t, baseConfig())

	require.Equal(t, http.StatusOK, serve(engine, evaluateRequest()).Code)

	w := serve(engine, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `mpin_evaluations_total{length="4",strength="WEAK"} 1`)
	assert.Contains(t, w.Body.String(), `mpin_weakness_reasons_total{reason="COMMONLY_USED"} 1`)
}

func TestMetricsDisabled(t *testing.T) {
	cfg := baseConfig()
	cfg.MetricsEnabled = false
	engine := newEngine(t, cfg)

	w := serve(engine, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUnknownRouteIsNotFound(t *testing.T) {
	engine := newEngine(t, baseConfig())

	w := serve(engine, httptest.NewRequest(http.MethodGet, "/api/v1/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"route not found"}`, w.Body.String())
}

func TestCORSPreflight(t *testing.T) {
	engine := newEngine(t, baseConfig())

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/mpin/evaluate", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := serve(engine, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestAuthGuardsModuleRoutes(t *testing.T) {
	cfg := baseConfig()
	cfg.JWTSecret = "test-secret"
	engine := newEngine(t, cfg)

	assert.Equal(t, http.StatusUnauthorized, serve(engine, evaluateRequest()).Code)
	assert.Equal(t, http.StatusOK, serve(engine, httptest.NewRequest(http.MethodGet, "/api/health", nil)).Code)
	assert.Equal(t, http.StatusOK, serve(engine, httptest.NewRequest(http.MethodGet, "/api/v1/mpin/blacklist", nil)).Code)

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "bank-gateway",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	req := evaluateRequest()
	req.Header.Set("Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusOK, serve(engine, req).Code)
}
