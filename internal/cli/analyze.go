package cli

import (
	"fmt"
	"strconv"

	"github.com/regscope/regscope/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	outJSON string
	outMD   string
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze [title-number|agencies|all]",
	Short: "Run structural analysis over the persisted fixtures",
	Long: `Analyze computes statistics over previously fetched fixtures:

  regscope analyze 17          word counts per element and hierarchy level
  regscope analyze agencies    agency-to-regulation reference statistics
  regscope analyze all         every fetched title plus the corpus rollup

Reports can be written as JSON or Markdown alongside the stdout summary.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVar(&outJSON, "json", "", "output JSON path (optional)")
	analyzeCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional, titles only)")
	analyzeCmd.Flags().StringVar(&dataDir, "data-dir", "", "fixture directory (default: $HOME/.regscope/data)")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	p := pipeline.New(buildConfig())
	renderer := pipeline.NewRenderer()

	switch args[0] {
	case "agencies":
		result, err := p.AnalyzeAgencies()
		if err != nil {
			return fmt.Errorf("analyze agencies: %w", err)
		}
		renderer.RenderAgencySummary(result)
		if outJSON != "" {
			if err := renderer.RenderJSON(result, outJSON); err != nil {
				return err
			}
		}
		return nil

	case "all":
		summary, results, err := p.SummarizeAll()
		if err != nil {
			return fmt.Errorf("analyze all: %w", err)
		}
		for _, r := range results {
			renderer.RenderTitleSummary(r)
		}
		renderer.RenderBatchSummary(summary)
		if outJSON != "" {
			if err := renderer.RenderJSON(summary, outJSON); err != nil {
				return err
			}
		}
		return nil

	default:
		number, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("expected a title number, %q, or %q; got %q", "agencies", "all", args[0])
		}
		result, err := p.AnalyzeTitle(number)
		if err != nil {
			return fmt.Errorf("analyze title %d: %w", number, err)
		}
		renderer.RenderTitleSummary(result)
		if outJSON != "" {
			if err := renderer.RenderJSON(result, outJSON); err != nil {
				return err
			}
		}
		if outMD != "" {
			if err := renderer.RenderTitleMarkdown(result, outMD); err != nil {
				return err
			}
		}
		return nil
	}
}
