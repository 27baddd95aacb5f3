package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/kbukum/newsfeed/component"
	"github.com/kbukum/newsfeed/logger"
	"github.com/kbukum/newsfeed/server/middleware"
)

func newTestServer(t *testing.T, cfg Config) *Server {
	t.Helper()
	cfg.ApplyDefaults()
	return New(cfg, logger.Nop())
}

func do(t *testing.T, h http.Handler, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader = http.NoBody
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestConfig_Defaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()

	require.Equal(t, 8080, cfg.Port)
	require.Equal(t, 15*time.Second, cfg.ReadTimeout)
	require.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
	require.Equal(t, "1MB", cfg.MaxBodySize)
	require.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
	require.NoError(t, cfg.Validate())
	require.Equal(t, ":8080", cfg.Addr())
}

func TestConfig_Validate(t *testing.T) {
	cfg := Config{Port: 70000}
	err := cfg.Validate()
	require.Error(t, err)
	require.Contains(t, err.Error(), "port")
}

func TestDefaultEndpoints(t *testing.T) {
	s := newTestServer(t, Config{})
	s.ApplyDefaults("newsfeed", func(context.Context) []component.Health {
		return []component.Health{
			{Name: "newsapi", Status: component.StatusHealthy},
			{Name: "search", Status: component.StatusDegraded, Message: "last fetch failed: transport_or_decode"},
		}
	})

	rec := do(t, s.Handler(), http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var health struct {
		Status     string             `json:"status"`
		Service    string             `json:"service"`
		Components []component.Health `json:"components"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	require.Equal(t, "degraded", health.Status)
	require.Equal(t, "newsfeed", health.Service)
	require.Len(t, health.Components, 2)

	rec = do(t, s.Handler(), http.MethodGet, "/ready", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"ready"`)

	rec = do(t, s.Handler(), http.MethodGet, "/version", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"service":"newsfeed"`)
}

func TestHealth_UnhealthyIs503(t *testing.T) {
	s := newTestServer(t, Config{})
	s.ApplyDefaults("newsfeed", func(context.Context) []component.Health {
		return []component.Health{{Name: "search", Status: component.StatusUnhealthy}}
	})

	require.Equal(t, http.StatusServiceUnavailable, do(t, s.Handler(), http.MethodGet, "/health", "").Code)
	require.Equal(t, http.StatusServiceUnavailable, do(t, s.Handler(), http.MethodGet, "/ready", "").Code)
}

func TestMiddleware_RequestIDAndRecovery(t *testing.T) {
	s := newTestServer(t, Config{})
	s.ApplyMiddleware()
	var seen string
	s.GinEngine().GET("/echo", func(c *gin.Context) {
		seen = logger.RequestIDFromContext(c.Request.Context())
		c.Status(http.StatusNoContent)
	})
	s.GinEngine().GET("/boom", func(*gin.Context) { panic("boom") })

	rec := do(t, s.Handler(), http.MethodGet, "/echo", "", middleware.HeaderRequestID, "req-1")
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, "req-1", rec.Header().Get(middleware.HeaderRequestID))
	require.Equal(t, "req-1", seen)

	rec = do(t, s.Handler(), http.MethodGet, "/echo", "")
	require.NotEmpty(t, rec.Header().Get(middleware.HeaderRequestID))

	rec = do(t, s.Handler(), http.MethodGet, "/boom", "")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Contains(t, rec.Body.String(), "INTERNAL_ERROR")
}

func TestMiddleware_CORS(t *testing.T) {
	s := newTestServer(t, Config{})
	s.ApplyMiddleware()
	s.GinEngine().GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	rec := do(t, s.Handler(), http.MethodGet, "/x", "", "Origin", "https://reader.example")
	require.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestStartStop(t *testing.T) {
	s := newTestServer(t, Config{Host: "127.0.0.1", Port: 0})
	// ApplyDefaults turns port 0 into 8080; bind an ephemeral port instead.
	s.httpServer.Addr = "127.0.0.1:0"
	s.ApplyDefaults("newsfeed", nil)

	comp := NewComponent(s)
	require.Equal(t, component.StatusUnhealthy, comp.Health(context.Background()).Status)
	require.NoError(t, comp.Start(context.Background()))
	t.Cleanup(func() { _ = comp.Stop(context.Background()) })

	require.Equal(t, component.StatusHealthy, comp.Health(context.Background()).Status)
	resp, err := http.Get(fmt.Sprintf("http://%s/health", s.Addr()))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestStart_BindError(t *testing.T) {
	ln, err := (&net.ListenConfig{}).Listen(context.Background(), "tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	s := newTestServer(t, Config{})
	s.httpServer.Addr = ln.Addr().String()
	err = s.Start(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to bind")
}

func TestComponent_RoutesAndDescribe(t *testing.T) {
	s := newTestServer(t, Config{Port: 9090})
	s.RegisterDefaultEndpoints("newsfeed", nil)
	s.GinEngine().PUT("/api/v1/search", func(*gin.Context) {})
	s.GinEngine().GET("/api/v1/articles", func(*gin.Context) {})

	comp := NewComponent(s)
	routes := comp.Routes()
	require.Len(t, routes, 5)
	require.Equal(t, component.Route{Method: "GET", Path: "/api/v1/articles"}, routes[0])
	require.Equal(t, component.Route{Method: "PUT", Path: "/api/v1/search"}, routes[1])
	require.True(t, systemPaths[routes[4].Path])

	d := comp.Describe()
	require.Equal(t, 9090, d.Port)
	require.Equal(t, "server", d.Type)
}
