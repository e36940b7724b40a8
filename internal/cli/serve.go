package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/regscope/regscope/internal/pipeline"
	"github.com/regscope/regscope/internal/server"
	"github.com/spf13/cobra"
)

var (
	serveAddr   string
	responseTTL time.Duration
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the analysis API and dashboard over HTTP",
	Long: `Serve exposes the persisted fixtures through a JSON API and an HTML
dashboard. Analysis responses are cached with a short TTL; the underlying
engine is stateless, so concurrent requests need no coordination.

Example:
  regscope serve
  regscope serve --addr :9090 --response-ttl 1m`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "listen address")
	serveCmd.Flags().DurationVar(&responseTTL, "response-ttl", 5*time.Minute, "analysis response cache TTL")
	serveCmd.Flags().StringVar(&dataDir, "data-dir", "", "fixture directory (default: $HOME/.regscope/data)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := buildConfig()
	cfg.Server.Addr = serveAddr
	cfg.Server.ResponseTTL = responseTTL

	p := pipeline.New(cfg)
	srv := server.New(cfg, p)

	fmt.Fprintf(os.Stderr, "Serving on %s (data: %s)\n", cfg.Server.Addr, cfg.Data.Dir)

	if err := srv.Listen(); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}
