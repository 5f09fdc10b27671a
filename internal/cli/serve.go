package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/tessera/internal/server"
	"github.com/matzehuels/tessera/pkg/cache"
	"github.com/matzehuels/tessera/pkg/observability"
	"github.com/matzehuels/tessera/pkg/pipeline"
)

// defaultKeyPrefix keeps server cache entries apart from CLI entries in a
// shared backend.
const defaultKeyPrefix = "tessera:serve:"

// serveCommand creates the serve command, which exposes builds over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve builds over HTTP",
		Long: `Serve starts an HTTP server with the following routes:

  GET  /healthz             build information
  GET  /v1/stats            request, build and cache counters
  POST /v1/builds           JSON options in, JSON result with base64 artifacts out
  GET  /v1/builds/{format}  query parameters in, the artifact out

The server uses the configured cache backend; point several instances at the
same Redis to share results.`,
		Example: `  tessera serve --addr :8080
  curl -o grid.png 'localhost:8080/v1/builds/png?width=12&depth=20&seed=7'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if !cmd.Flags().Changed("addr") && c.config.Server.Addr != "" {
				addr = c.config.Server.Addr
			}
			prefix := c.config.Server.KeyPrefix
			if prefix == "" {
				prefix = defaultKeyPrefix
			}

			backend, err := c.newCache(ctx, noCache)
			if err != nil {
				return err
			}
			runner := pipeline.NewRunner(backend, cache.NewScopedKeyer(nil, prefix), c.Logger)
			defer runner.Close()

			counters := &observability.Counters{}
			logHooks := observability.NewLogHooks(c.Logger)
			observability.SetPipelineHooks(observability.Tee{counters, logHooks})
			observability.SetCacheHooks(counters)
			observability.SetHTTPHooks(logHooks)
			defer observability.Reset()

			printInfo("Serving on http://%s", addr)
			return server.New(runner, c.Logger, counters).ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", server.DefaultAddr, "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}
