package cli

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/funnelchart/pkg/api"
	"github.com/matzehuels/funnelchart/pkg/buildinfo"
)

const shutdownTimeout = 10 * time.Second

// serveCommand creates the serve command, which runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr       string
		noCache    bool
		noStore    bool
		reqTimeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the funnel API over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = c.cfg.Server.Addr
			}
			return c.runServe(cmd.Context(), addr, noCache, noStore, reqTimeout)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the render cache")
	cmd.Flags().BoolVar(&noStore, "no-settings", false, "disable document settings endpoints")
	cmd.Flags().DurationVar(&reqTimeout, "timeout", 30*time.Second, "per-request timeout")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string, noCache, noStore bool, timeout time.Duration) error {
	logger := loggerFromContext(ctx)

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	opts := []api.Option{api.WithLogger(logger), api.WithTimeout(timeout)}
	if !noStore {
		store, err := c.newSettingsStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close(context.Background())
		opts = append(opts, api.WithSettings(store))
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           api.NewServer(runner, opts...).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("serving", "addr", addr, "version", buildinfo.Get().Short(), "cache", c.cfg.Cache.Backend, "settings", !noStore)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
