package metrics

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/geode-planner/internal/domain/production"
	"github.com/andrescamacho/geode-planner/internal/infrastructure/config"
)

func TestNewServer_RequiresRegistry(t *testing.T) {
	Registry = nil
	_, err := NewServer(config.MetricsConfig{Enabled: true, Host: "localhost", Port: 9091})
	assert.Error(t, err)
}

func TestServer_ExposesSearchMetrics(t *testing.T) {
	// Arrange
	InitRegistry()
	t.Cleanup(func() { Registry = nil })
	collector := NewSearchMetricsCollector()
	require.NoError(t, collector.Register())
	collector.RecordSearch("top_product", &production.SearchResult{BlueprintID: 1, Horizon: 32, MaxGeodes: 56}, time.Second)

	server, err := NewServer(config.MetricsConfig{Enabled: true, Host: "localhost", Port: 9091, Path: "/scrape"})
	require.NoError(t, err)

	// Act
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/scrape", nil))

	// Assert
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `geodes_planner_max_geodes{blueprint_id="1",eager="false",horizon="32"} 56`)
}

func TestServer_ServeStopsOnCancel(t *testing.T) {
	// Arrange
	InitRegistry()
	t.Cleanup(func() { Registry = nil })
	server, err := NewServer(config.MetricsConfig{Enabled: true, Host: "127.0.0.1", Port: 9091})
	require.NoError(t, err)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- server.Serve(ctx, listener) }()

	// Act
	resp, err := http.Get("http://" + listener.Addr().String() + "/metrics")
	require.NoError(t, err)
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	cancel()

	// Assert
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("metrics server did not stop")
	}
}
