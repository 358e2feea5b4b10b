// Package serve implements the serve command, which exposes the vehicle
// records over HTTP with WebSocket and SSE update streams.
package serve

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/agentstation/showroom"
	"github.com/agentstation/showroom/internal/appcontext"
	"github.com/agentstation/showroom/internal/server"
	"github.com/agentstation/showroom/pkg/constants"
	"github.com/agentstation/showroom/pkg/errors"
	"github.com/agentstation/showroom/pkg/logging"
)

// NewCommand creates the serve command.
func NewCommand(app appcontext.Interface) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "serve",
		GroupID: "core",
		Short:   "Serve the vehicle records over HTTP",
		Long: `Serve starts an HTTP API over the record files.

Features:
  - GET  /api/v1/vehicles            filtered vehicle list
  - GET  /api/v1/vehicles/{id}       one vehicle
  - POST /api/v1/vehicles/refresh    reload now (API key when configured)
  - GET  /api/v1/updates/ws          WebSocket change notifications
  - GET  /api/v1/updates/stream      Server-Sent Events change notifications
  - GET  /health, /api/v1/ready, /api/v1/stats

The dataset is cached in memory and reloaded when the cache expires, when
refresh is called, or with --watch whenever a record file changes. If a
reload fails the last good dataset keeps being served.

HTTP_HOST and HTTP_PORT override the configured address.`,
		Example: `  # Start on localhost:8080
  showroom serve

  # Listen on all interfaces and reload on change
  showroom serve --host 0.0.0.0 --port 3000 --watch

  # Restrict CORS and protect refresh
  showroom serve --cors-origins https://example.com --api-key secret`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, app)
		},
	}

	cmd.Flags().IntP("port", "p", constants.DefaultPort, "server port")
	cmd.Flags().String("host", constants.DefaultHost, "bind address")
	cmd.Flags().String("prefix", constants.DefaultPathPrefix, "API path prefix")
	cmd.Flags().String("records", "", "directory holding the record files (default "+constants.DefaultRecordDir+")")
	cmd.Flags().String("decoder", "", "metadata decoder: line or yaml")

	cmd.Flags().Bool("cors", true, "enable CORS")
	cmd.Flags().StringSlice("cors-origins", nil, "allowed CORS origins (default all)")

	cmd.Flags().String("api-key", "", "API key required by refresh (empty leaves it open)")
	cmd.Flags().String("auth-header", "X-API-Key", "API key header name")

	cmd.Flags().Int("rate-limit", constants.DefaultRateLimit, "requests per minute per IP (0 to disable)")
	cmd.Flags().Int("burst", constants.BurstSize, "rate limit burst size")
	cmd.Flags().Duration("cache-ttl", constants.CacheTTL, "how long a loaded dataset is served")

	cmd.Flags().Duration("read-timeout", constants.ReadTimeout, "HTTP read timeout")
	cmd.Flags().Duration("write-timeout", constants.WriteTimeout, "HTTP write timeout")
	cmd.Flags().Duration("idle-timeout", constants.IdleTimeout, "HTTP idle timeout")

	cmd.Flags().Bool("watch", false, "reload when record files change")

	return cmd
}

func run(cmd *cobra.Command, app appcontext.Interface) error {
	cfg, err := configFromFlags(cmd, app.ServerConfig())
	if err != nil {
		return err
	}

	var opts []showroom.Option
	if cmd.Flags().Changed("records") {
		opts = append(opts, showroom.WithRecordDir(cfg.WatchDir))
	}
	if cmd.Flags().Changed("decoder") {
		name, _ := cmd.Flags().GetString("decoder")
		opts = append(opts, showroom.WithDecoder(name))
	}
	p, err := app.PipelineWithOptions(opts...)
	if err != nil {
		return err
	}
	cfg.WatchDir = p.RecordDir()

	logger := app.Logger()
	logger.Info().
		Str("addr", net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))).
		Str("prefix", cfg.PathPrefix).
		Str("records", cfg.WatchDir).
		Bool("cors", cfg.CORSEnabled).
		Bool("auth", cfg.APIKey != "").
		Bool("watch", cfg.Watch).
		Int("rate_limit", cfg.RateLimit).
		Dur("cache_ttl", cfg.CacheTTL).
		Msg("Starting API server")

	srv, err := server.New(p, cfg, logger, server.WithVersion(app.Version()))
	if err != nil {
		return errors.WrapResource("create", "server", "", err)
	}
	if err := srv.Start(); err != nil {
		return errors.WrapResource("start", "server", "", err)
	}

	httpServer := srv.HTTPServer()
	httpServer.BaseContext = func(net.Listener) context.Context {
		return logging.WithLogger(context.Background(), logger)
	}

	ln, err := net.Listen("tcp", httpServer.Addr)
	if err != nil {
		_ = srv.Shutdown(context.Background())
		return errors.WrapIO("listen", httpServer.Addr, err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "🚀 Serving %s on http://%s%s\n", cfg.WatchDir, ln.Addr(), cfg.PathPrefix)
	fmt.Fprintln(out, "   Press Ctrl+C to stop")

	return serveWithGracefulShutdown(cmd.Context(), httpServer, srv, ln, logger, out)
}

// configFromFlags applies the flags that were set over cfg.
func configFromFlags(cmd *cobra.Command, cfg server.Config) (server.Config, error) {
	flags := cmd.Flags()
	var err error

	if flags.Changed("port") {
		if cfg.Port, err = flags.GetInt("port"); err != nil {
			return cfg, err
		}
		if cfg.Port < 1 || cfg.Port > 65535 {
			return cfg, errors.NewValidationError("port", cfg.Port, "port out of range")
		}
	}
	if flags.Changed("host") {
		if cfg.Host, err = flags.GetString("host"); err != nil {
			return cfg, err
		}
	}
	if flags.Changed("prefix") {
		if cfg.PathPrefix, err = flags.GetString("prefix"); err != nil {
			return cfg, err
		}
	}
	if flags.Changed("records") {
		if cfg.WatchDir, err = flags.GetString("records"); err != nil {
			return cfg, err
		}
	}
	if flags.Changed("cors") {
		if cfg.CORSEnabled, err = flags.GetBool("cors"); err != nil {
			return cfg, err
		}
	}
	if flags.Changed("cors-origins") {
		if cfg.CORSOrigins, err = flags.GetStringSlice("cors-origins"); err != nil {
			return cfg, err
		}
		cfg.CORSEnabled = true
	}
	if flags.Changed("api-key") {
		if cfg.APIKey, err = flags.GetString("api-key"); err != nil {
			return cfg, err
		}
	}
	if flags.Changed("auth-header") {
		if cfg.AuthHeader, err = flags.GetString("auth-header"); err != nil {
			return cfg, err
		}
	}
	if flags.Changed("rate-limit") {
		if cfg.RateLimit, err = flags.GetInt("rate-limit"); err != nil {
			return cfg, err
		}
	}
	if flags.Changed("burst") {
		if cfg.Burst, err = flags.GetInt("burst"); err != nil {
			return cfg, err
		}
	}
	if flags.Changed("cache-ttl") {
		if cfg.CacheTTL, err = flags.GetDuration("cache-ttl"); err != nil {
			return cfg, err
		}
	}
	if flags.Changed("read-timeout") {
		if cfg.ReadTimeout, err = flags.GetDuration("read-timeout"); err != nil {
			return cfg, err
		}
	}
	if flags.Changed("write-timeout") {
		if cfg.WriteTimeout, err = flags.GetDuration("write-timeout"); err != nil {
			return cfg, err
		}
	}
	if flags.Changed("idle-timeout") {
		if cfg.IdleTimeout, err = flags.GetDuration("idle-timeout"); err != nil {
			return cfg, err
		}
	}
	if cfg.Watch, err = flags.GetBool("watch"); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// serveWithGracefulShutdown serves on ln until ctx is cancelled, then
// drains connections and stops the background services.
func serveWithGracefulShutdown(ctx context.Context, httpServer *http.Server, srv *server.Server, ln net.Listener, logger *zerolog.Logger, out io.Writer) error {
	serverErr := make(chan error, 1)
	go func() {
		if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	var runErr error
	select {
	case err := <-serverErr:
		runErr = errors.WrapResource("serve", "server", httpServer.Addr, err)
	case <-ctx.Done():
		logger.Info().Msg("Shutdown signal received")
		fmt.Fprintln(out, "\n🛑 Shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		runErr = errors.Join(runErr, errors.WrapResource("shutdown", "server", httpServer.Addr, err))
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		runErr = errors.Join(runErr, err)
	}

	if runErr == nil {
		logger.Info().Msg("Server stopped gracefully")
		fmt.Fprintln(out, "✅ Server stopped gracefully")
	}
	return runErr
}
