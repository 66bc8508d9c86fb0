package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/mossworks/sprout/internal/api"
	"github.com/mossworks/sprout/pkg/cache"
	"github.com/mossworks/sprout/pkg/pipeline"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr      string // listen address
	redisAddr string // redis address, empty for the file cache
	noCache   bool   // disable caching entirely
}

// serveCommand creates the serve command, which exposes the growth
// pipeline over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the growth pipeline over HTTP",
		Long: `Serve starts an HTTP server exposing the growth pipeline.

POST an STL mesh to /v1/grow with growth parameters as query values to
receive the grown mesh back. With --redis, grown meshes are cached in a
shared redis instance so multiple server replicas reuse results.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), &opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&opts.redisAddr, "redis", "", "redis address for a shared cache (host:port)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the mesh cache")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts *serveOpts) error {
	logger := loggerFromContext(ctx)

	meshCache, err := c.serveCache(ctx, opts)
	if err != nil {
		return err
	}
	defer meshCache.Close()

	runner := pipeline.NewRunner(meshCache, nil, logger)
	server := &http.Server{
		Addr:    opts.addr,
		Handler: api.NewServer(runner, logger).Routes(),
	}

	errs := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", opts.addr)
		errs <- server.ListenAndServe()
	}()

	select {
	case err := <-errs:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		logger.Info("shutting down")
		return server.Shutdown(shutdownCtx)
	}
}

// serveCache builds the cache backend for serve: redis when requested,
// otherwise the local file cache.
func (c *CLI) serveCache(ctx context.Context, opts *serveOpts) (cache.Cache, error) {
	if opts.noCache {
		return cache.NewNullCache(), nil
	}
	if opts.redisAddr != "" {
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{Addr: opts.redisAddr})
		if err != nil {
			return nil, err
		}
		return rc, nil
	}
	return openCache(false), nil
}
