package serve

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/showroom"
	"github.com/agentstation/showroom/internal/appcontext"
	"github.com/agentstation/showroom/internal/server"
	"github.com/agentstation/showroom/pkg/catalogs"
)

func TestConfigFromFlags(t *testing.T) {
	cmd := NewCommand(&appcontext.Mock{})
	require.NoError(t, cmd.ParseFlags([]string{
		"--port", "3000",
		"--host", "0.0.0.0",
		"--cors-origins", "https://a.example,https://b.example",
		"--api-key", "secret",
		"--rate-limit", "0",
		"--cache-ttl", "30s",
		"--watch",
	}))

	base := server.DefaultConfig()
	base.CORSEnabled = false
	cfg, err := configFromFlags(cmd, base)
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, "0.0.0.0", cfg.Host)
	assert.True(t, cfg.CORSEnabled)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, "secret", cfg.APIKey)
	assert.Equal(t, 0, cfg.RateLimit)
	assert.Equal(t, 30*time.Second, cfg.CacheTTL)
	assert.True(t, cfg.Watch)
	assert.Equal(t, "/api/v1", cfg.PathPrefix, "unchanged flags keep the base value")
}

func TestConfigFromFlags_KeepsBase(t *testing.T) {
	cmd := NewCommand(&appcontext.Mock{})
	require.NoError(t, cmd.ParseFlags(nil))

	base := server.DefaultConfig()
	base.Host = "10.0.0.1"
	base.Port = 9999
	cfg, err := configFromFlags(cmd, base)
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.1", cfg.Host)
	assert.Equal(t, 9999, cfg.Port)
	assert.False(t, cfg.Watch)
}

func TestConfigFromFlags_InvalidPort(t *testing.T) {
	cmd := NewCommand(&appcontext.Mock{})
	require.NoError(t, cmd.ParseFlags([]string{"--port", "70000"}))
	_, err := configFromFlags(cmd, server.DefaultConfig())
	assert.Error(t, err)
}

func TestServeWithGracefulShutdown(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.md"), []byte(catalogs.TestRecord(t, 5, "dacia")), 0o644))

	p, err := showroom.New(showroom.WithRecordDir(dir))
	require.NoError(t, err)

	logger := zerolog.Nop()
	cfg := server.DefaultConfig()
	cfg.RateLimit = 0
	srv, err := server.New(p, cfg, &logger)
	require.NoError(t, err)
	require.NoError(t, srv.Start())

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	httpServer := srv.HTTPServer()

	ctx, cancel := context.WithCancel(context.Background())
	var out bytes.Buffer
	done := make(chan error, 1)
	go func() {
		done <- serveWithGracefulShutdown(ctx, httpServer, srv, ln, &logger, &out)
	}()

	resp, err := http.Get("http://" + ln.Addr().String() + "/api/v1/vehicles")
	require.NoError(t, err)
	var body struct {
		Success  bool               `json:"success"`
		Vehicles []catalogs.Vehicle `json:"vehicles"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	resp.Body.Close()
	assert.True(t, body.Success)
	assert.Equal(t, []int{5}, catalogs.IDs(body.Vehicles))

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
	assert.Contains(t, out.String(), "stopped gracefully")
}
