package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/regscope/regscope/internal/model"
	"github.com/regscope/regscope/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	fetchTitles      string
	fetchConcurrency int
	fetchTimeout     time.Duration
	dataDir          string
	noCache          bool
	userAgent        string
	insecureTLS      bool
)

// fetchCmd represents the fetch command
var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download eCFR datasets into the local fixture store",
	Long: `Fetch downloads the CFR title registry, the agency hierarchy, and the
structure tree of every non-reserved title, persisting them as local JSON
fixtures. Subsequent analyze and serve commands work entirely offline.

Transient failures (HTTP 429/5xx, network errors) are retried with bounded
exponential backoff; per-title failures are reported but do not abort the
run.

Example:
  regscope fetch
  regscope fetch --titles 17,29,40 --concurrency 8
  regscope fetch --data-dir ./fixtures`,
	Args: cobra.NoArgs,
	RunE: runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)

	fetchCmd.Flags().StringVar(&fetchTitles, "titles", "", "comma-separated title numbers (default: all non-reserved)")
	fetchCmd.Flags().IntVar(&fetchConcurrency, "concurrency", 4, "number of concurrent structure downloads")
	fetchCmd.Flags().DurationVar(&fetchTimeout, "timeout", 60*time.Minute, "overall fetch timeout")
	fetchCmd.Flags().StringVar(&dataDir, "data-dir", "", "fixture directory (default: $HOME/.regscope/data)")
	fetchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the payload cache (force fresh fetches)")
	fetchCmd.Flags().StringVar(&userAgent, "ua", "", "override the HTTP User-Agent")
	fetchCmd.Flags().BoolVar(&insecureTLS, "insecure", false, "skip TLS certificate verification")
}

func runFetch(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	defer cancel()

	cfg := buildConfig()
	filter, err := parseTitleFilter(fetchTitles)
	if err != nil {
		return err
	}
	cfg.Concurrency.DownloadWorkers = fetchConcurrency

	if verbose {
		fmt.Fprintf(os.Stderr, "Fetching from: %s\n", cfg.HTTP.BaseURL)
		fmt.Fprintf(os.Stderr, "Data dir:      %s\n", cfg.Data.Dir)
		fmt.Fprintf(os.Stderr, "Workers:       %d\n\n", cfg.Concurrency.DownloadWorkers)
	}

	p := pipeline.New(cfg)
	result, err := p.Refresh(ctx, filter)
	if err != nil {
		return fmt.Errorf("fetch failed: %w", err)
	}

	fmt.Printf("✓ Title registry: %d titles\n", result.Titles)
	fmt.Printf("✓ Agencies: %d top-level\n", result.Agencies)
	fmt.Printf("✓ Structures: %d downloaded\n", result.Downloaded)
	if len(result.Failed) > 0 {
		fmt.Printf("⚠ Failed titles: %v\n", result.Failed)
	}

	return nil
}

// buildConfig merges defaults with the shared CLI flags
func buildConfig() *model.Config {
	cfg := model.DefaultConfig()
	if dataDir != "" {
		cfg.Data.Dir = dataDir
	}
	if userAgent != "" {
		cfg.HTTP.UserAgent = userAgent
	}
	cfg.HTTP.InsecureTLS = insecureTLS
	cfg.Cache.Enabled = !noCache
	cfg.Output.Verbose = verbose
	return cfg
}

// parseTitleFilter parses "17,29,40" into title numbers
func parseTitleFilter(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	var numbers []int
	for _, part := range strings.Split(s, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("invalid title number %q", part)
		}
		numbers = append(numbers, n)
	}
	return numbers, nil
}
