// Package serve provides the HTTP API server command.
package serve

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/agentstation/instantbox/internal/appcontext"
	"github.com/agentstation/instantbox/internal/cmd/cmdutil"
	"github.com/agentstation/instantbox/internal/server"
)

// NewCommand creates the serve command using app context.
func NewCommand(app appcontext.Interface) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "serve",
		Aliases: []string{"server"},
		GroupID: "management",
		Short:   "Start the REST API server with WebSocket and SSE updates",
		Long: `Start the REST API server for the inventory.

Features:
  - REST endpoints for cameras, film packs, groups, catalog and sync
  - WebSocket (/api/v1/events/ws) and SSE (/api/v1/events/stream) change feeds
  - JWT bearer authentication (optional)
  - Per-IP rate limiting, CORS, response caching
  - Prometheus metrics (/metrics) and OpenAPI documentation

Settings come from INSTANTBOX_SERVER_* environment variables; flags override them.`,
		Example: `  instantbox serve
  instantbox serve --port 3000 --cors-origins "https://app.example.com"
  INSTANTBOX_SERVER_AUTH_SECRET=... instantbox serve --auth --print-token`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := server.LoadConfig()
			if err != nil {
				return err
			}
			applyFlags(cmd, &cfg)
			if err := cfg.Validate(); err != nil {
				return err
			}

			box, err := cmdutil.Client(cmd, app)
			if err != nil {
				return err
			}
			logger := app.Logger()
			srv, err := server.New(box, cfg, logger)
			if err != nil {
				return fmt.Errorf("creating server: %w", err)
			}

			if printToken, _ := cmd.Flags().GetBool("print-token"); printToken && cfg.AuthEnabled {
				token, err := srv.IssueToken("cli")
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), token)
			}

			logger.Info().
				Str("addr", cfg.Addr()).
				Str("prefix", cfg.PathPrefix).
				Bool("cors", cfg.CORSEnabled).
				Bool("auth", cfg.AuthEnabled).
				Int("rate_limit", cfg.RateLimit).
				Dur("cache_ttl", cfg.CacheTTL).
				Msg("Starting API server")

			return srv.ListenAndServe(cmd.Context())
		},
	}

	cmd.Flags().Int("port", 8080, "Server port")
	cmd.Flags().String("host", "localhost", "Bind address")
	cmd.Flags().String("prefix", "/api/v1", "API path prefix")
	cmd.Flags().Bool("cors", false, "Enable CORS for all origins")
	cmd.Flags().StringSlice("cors-origins", nil, "Allowed CORS origins (comma-separated)")
	cmd.Flags().Bool("auth", false, "Require a bearer token")
	cmd.Flags().Bool("print-token", false, "Print a token for the CLI subject at startup")
	cmd.Flags().Int("rate-limit", 100, "Requests per minute per IP (0 to disable)")
	cmd.Flags().Duration("cache-ttl", 5*time.Minute, "Response cache TTL")
	cmd.Flags().Bool("metrics", true, "Enable the /metrics endpoint")

	return cmd
}

// applyFlags copies explicitly set flags over the environment configuration.
func applyFlags(cmd *cobra.Command, cfg *server.Config) {
	flags := cmd.Flags()
	if flags.Changed("port") {
		cfg.Port, _ = flags.GetInt("port")
	}
	if flags.Changed("host") {
		cfg.Host, _ = flags.GetString("host")
	}
	if flags.Changed("prefix") {
		cfg.PathPrefix, _ = flags.GetString("prefix")
	}
	if flags.Changed("cors") {
		cfg.CORSEnabled, _ = flags.GetBool("cors")
	}
	if flags.Changed("cors-origins") {
		cfg.CORSOrigins, _ = flags.GetStringSlice("cors-origins")
		cfg.CORSEnabled = true
	}
	if flags.Changed("auth") {
		cfg.AuthEnabled, _ = flags.GetBool("auth")
	}
	if flags.Changed("rate-limit") {
		cfg.RateLimit, _ = flags.GetInt("rate-limit")
	}
	if flags.Changed("cache-ttl") {
		cfg.CacheTTL, _ = flags.GetDuration("cache-ttl")
	}
	if flags.Changed("metrics") {
		cfg.MetricsEnabled, _ = flags.GetBool("metrics")
	}
}
