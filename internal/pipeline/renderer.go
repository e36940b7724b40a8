package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/regscope/regscope/internal/model"
)

// Renderer writes analysis results to files and the terminal
type Renderer struct{}

// NewRenderer creates a renderer
func NewRenderer() *Renderer {
	return &Renderer{}
}

// RenderJSON writes any result as indented JSON
func (r *Renderer) RenderJSON(v interface{}, path string) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write JSON: %w", err)
	}
	return nil
}

// RenderTitleMarkdown writes a Markdown report for one title analysis
func (r *Renderer) RenderTitleMarkdown(result *model.WordCountResult, path string) error {
	var b strings.Builder

	fmt.Fprintf(&b, "# Title %d — Structural Analysis\n\n", result.TitleNumber)
	fmt.Fprintf(&b, "- Total words: %d\n", result.TotalWords)
	fmt.Fprintf(&b, "- Total characters: %d\n", result.TotalCharacters)
	fmt.Fprintf(&b, "- Elements: %d\n", result.TotalElements)
	fmt.Fprintf(&b, "- Sections: %d\n\n", len(result.Sections))

	b.WriteString("## By hierarchy level\n\n")
	b.WriteString("| Level | Count | Total words | Average words |\n")
	b.WriteString("|-------|-------|-------------|---------------|\n")
	for _, h := range result.ByHierarchy {
		fmt.Fprintf(&b, "| %s | %d | %d | %.1f |\n", h.Type, h.Count, h.TotalWords, h.AverageWords)
	}

	b.WriteString("\n## Largest elements\n\n")
	for i, el := range result.TopElements {
		label := el.Label
		if label == "" {
			label = el.Identifier
		}
		fmt.Fprintf(&b, "%d. %s (%s) — %d words\n", i+1, label, el.Type, el.WordCount)
	}

	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("write markdown: %w", err)
	}
	return nil
}

// RenderTitleSummary prints a short per-title summary to stdout
func (r *Renderer) RenderTitleSummary(result *model.WordCountResult) {
	fmt.Printf("Title %d: %d words across %d elements (%d sections)\n",
		result.TitleNumber, result.TotalWords, result.TotalElements, len(result.Sections))
}

// RenderAgencySummary prints a short agency analysis summary to stdout
func (r *Renderer) RenderAgencySummary(result *model.AgencyStatsResult) {
	fmt.Printf("Agencies: %d top-level, %d with CFR references (avg %.2f titles each)\n",
		result.TotalAgencies, result.AgenciesWithReferences, result.AverageTitlesPerAgency)
	for i, stat := range result.TopAgencies {
		if i >= 5 {
			break
		}
		fmt.Printf("  %d. %s — %d titles, %d chapters, %d parts\n",
			i+1, stat.Name, stat.TitleCount, stat.ChapterCount, stat.PartCount)
	}
}

// RenderBatchSummary prints the cross-title rollup to stdout
func (r *Renderer) RenderBatchSummary(summary *model.BatchSummary) {
	fmt.Printf("Analyzed %d titles: %d words total (avg %.0f per title)\n",
		summary.TitleCount, summary.TotalWords, summary.AverageWordsPerTitle)
	fmt.Printf("  Longest:  Title %d (%d words)\n", summary.LongestTitle.TitleNumber, summary.LongestTitle.TotalWords)
	fmt.Printf("  Shortest: Title %d (%d words)\n", summary.ShortestTitle.TitleNumber, summary.ShortestTitle.TotalWords)
}
