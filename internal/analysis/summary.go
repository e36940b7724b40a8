package analysis

import (
	"errors"

	"github.com/regscope/regscope/internal/model"
)

// ErrEmptyBatch is returned when Summarize is called with no results
var ErrEmptyBatch = errors.New("cannot summarize an empty batch of results")

// Summarize folds a batch of per-title analysis results into a cross-title
// rollup. The longest and shortest titles are chosen by total word count;
// on ties the first occurrence wins. An empty batch is caller misuse and
// fails loudly rather than producing a zeroed record.
func Summarize(results []*model.WordCountResult) (*model.BatchSummary, error) {
	if len(results) == 0 {
		return nil, ErrEmptyBatch
	}

	summary := &model.BatchSummary{
		TitleCount:    len(results),
		LongestTitle:  extreme(results[0]),
		ShortestTitle: extreme(results[0]),
	}

	for _, r := range results {
		summary.TotalWords += r.TotalWords
		summary.TotalElements += r.TotalElements
		if r.TotalWords > summary.LongestTitle.TotalWords {
			summary.LongestTitle = extreme(r)
		}
		if r.TotalWords < summary.ShortestTitle.TotalWords {
			summary.ShortestTitle = extreme(r)
		}
	}

	summary.AverageWordsPerTitle = float64(summary.TotalWords) / float64(summary.TitleCount)

	return summary, nil
}

func extreme(r *model.WordCountResult) model.TitleExtreme {
	return model.TitleExtreme{TitleNumber: r.TitleNumber, TotalWords: r.TotalWords}
}
