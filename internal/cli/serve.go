package cli

import (
	"net"

	"github.com/spf13/cobra"

	"github.com/matzehuels/jigsaw/pkg/config"
	"github.com/matzehuels/jigsaw/pkg/server"
)

// serveCommand creates the serve command, which exposes solving over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		flags   solveFlags
		addr    string
		maxBody int64
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the solver over HTTP",
		Long: `Serve starts an HTTP API. POST tile text to /v1/solves to solve it; the
result is stored in the cache under a fresh id and can be fetched again
from /v1/solves/{id} until it expires.`,
		Example: `  jigsaw serve --addr :8080
  curl --data-binary @tiles.txt localhost:8080/v1/solves/`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			opts, err := c.options(&flags)
			if err != nil {
				return err
			}
			if addr == "" {
				addr = c.Config.Server.Addr
			}
			if maxBody <= 0 {
				maxBody = c.Config.Server.MaxBodyBytes
			}

			runner, err := c.newRunner(ctx, flags.noCache)
			if err != nil {
				return err
			}
			defer runner.Close()
			if flags.noCache || c.Config.Cache.Backend == config.BackendNone {
				printWarning("No cache backend: stored solves cannot be fetched again")
			}

			srv := server.New(runner, server.Options{
				Solve:        opts,
				MaxBodyBytes: maxBody,
				Logger:       c.Logger,
			})
			printInfo("Listening on %s", StyleLink.Render(listenURL(addr)))
			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().IntVarP(&flags.workers, "workers", "w", 0, "goroutines for adjacency and search (default from config)")
	cmd.Flags().StringVar(&flags.policy, "policy", "", "default orientation policy: first|most")
	cmd.Flags().StringVar(&flags.patternFile, "pattern", "", "file with the pattern to search for (default sea monster)")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable result caching")
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().Int64Var(&maxBody, "max-body", 0, "largest accepted request body in bytes (default from config)")

	return cmd
}

// listenURL turns a listen address into a URL a browser can open.
func listenURL(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	if host == "" {
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, port)
}
