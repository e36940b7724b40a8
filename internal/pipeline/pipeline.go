// Package pipeline orchestrates the regscope workflow: refreshing the
// persisted eCFR datasets through the fetch client, and running the
// analysis engine over the persisted fixtures.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2/log"

	"github.com/regscope/regscope/internal/analysis"
	"github.com/regscope/regscope/internal/cache"
	"github.com/regscope/regscope/internal/ecfr"
	"github.com/regscope/regscope/internal/model"
	"github.com/regscope/regscope/internal/store"
	"github.com/regscope/regscope/internal/worker"
)

// Pipeline wires the fetch client, the fixture store, and the analysis
// engine together
type Pipeline struct {
	client *ecfr.Client
	store  *store.Store
	cfg    *model.Config
}

// New creates a pipeline from configuration
func New(cfg *model.Config) *Pipeline {
	limiter := worker.NewLimiter(cfg.HTTP.RequestsPerSecond, cfg.HTTP.Burst)

	var payloads cache.Cache
	if cfg.Cache.Enabled {
		payloads = cache.NewLayeredCache(cfg.Cache.MemoryTTL, cfg.Cache.Dir, cfg.Cache.DiskTTL)
	}

	return &Pipeline{
		client: ecfr.NewClient(cfg, limiter, payloads),
		store:  store.New(cfg.Data.Dir),
		cfg:    cfg,
	}
}

// RefreshResult summarizes one refresh run
type RefreshResult struct {
	Titles     int
	Agencies   int
	Downloaded int
	Failed     []int
}

// Refresh fetches the title registry and agency forest, persists both, then
// downloads the structure tree of every non-reserved title (or only the
// numbers in filter, when given) through the worker pool. Individual title
// failures are reported, not fatal; registry or agency failures are.
func (p *Pipeline) Refresh(ctx context.Context, filter []int) (*RefreshResult, error) {
	titles, err := p.client.Titles(ctx)
	if err != nil {
		return nil, fmt.Errorf("refresh titles: %w", err)
	}
	if err := p.store.SaveTitles(titles); err != nil {
		return nil, fmt.Errorf("persist titles: %w", err)
	}
	log.Infof("Fetched title registry: %d titles", len(titles))

	agencies, err := p.client.Agencies(ctx)
	if err != nil {
		return nil, fmt.Errorf("refresh agencies: %w", err)
	}
	if err := p.store.SaveAgencies(agencies); err != nil {
		return nil, fmt.Errorf("persist agencies: %w", err)
	}
	log.Infof("Fetched agency forest: %d top-level agencies", len(agencies))

	wanted := selectTitles(titles, filter)
	downloader := worker.NewDownloader(p.client, p.store, p.cfg.Concurrency.DownloadWorkers)
	results := downloader.Download(ctx, wanted)

	refresh := &RefreshResult{Titles: len(titles), Agencies: len(agencies)}
	for _, r := range results {
		if r.Err != nil {
			log.Warnf("Title %d download failed: %v", r.Number, r.Err)
			refresh.Failed = append(refresh.Failed, r.Number)
			continue
		}
		refresh.Downloaded++
	}
	log.Infof("Downloaded %d/%d title structures", refresh.Downloaded, len(wanted))

	return refresh, nil
}

// selectTitles filters the registry down to the titles worth downloading:
// reserved titles have no content, and an explicit filter wins over all
func selectTitles(titles []model.TitleEntry, filter []int) []model.TitleEntry {
	if len(filter) > 0 {
		byNumber := make(map[int]model.TitleEntry, len(titles))
		for _, t := range titles {
			byNumber[t.Number] = t
		}
		var selected []model.TitleEntry
		for _, n := range filter {
			if t, ok := byNumber[n]; ok {
				selected = append(selected, t)
			}
		}
		return selected
	}

	var selected []model.TitleEntry
	for _, t := range titles {
		if t.Reserved {
			continue
		}
		selected = append(selected, t)
	}
	return selected
}

// Titles loads the persisted title registry
func (p *Pipeline) Titles() ([]model.TitleEntry, error) {
	return p.store.LoadTitles()
}

// Metadata returns the fixture bookkeeping
func (p *Pipeline) Metadata() (*store.Metadata, error) {
	return p.store.Metadata()
}

// AnalyzeTitle runs the word-count analysis over one persisted title
func (p *Pipeline) AnalyzeTitle(number int) (*model.WordCountResult, error) {
	root, err := p.store.LoadStructure(number)
	if err != nil {
		return nil, fmt.Errorf("load structure for title %d: %w", number, err)
	}
	result := analysis.AnalyzeTree(root)
	if result.TitleNumber == 0 {
		result.TitleNumber = number
	}
	return result, nil
}

// AnalyzeAgencies runs the reference analysis over the persisted agency
// forest. The title registry is optional: without it the analysis falls
// back to the fixed title count and generated display names.
func (p *Pipeline) AnalyzeAgencies() (*model.AgencyStatsResult, error) {
	agencies, err := p.store.LoadAgencies()
	if err != nil {
		return nil, fmt.Errorf("load agencies: %w", err)
	}

	registry, err := p.store.LoadTitles()
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("load titles: %w", err)
		}
		registry = nil
	}

	return analysis.AnalyzeForest(agencies, registry), nil
}

// SummarizeAll analyzes every persisted title and folds the results into a
// batch summary. Fails with analysis.ErrEmptyBatch when nothing has been
// fetched yet.
func (p *Pipeline) SummarizeAll() (*model.BatchSummary, []*model.WordCountResult, error) {
	numbers, err := p.store.ListStructures()
	if err != nil {
		return nil, nil, fmt.Errorf("list structures: %w", err)
	}

	results := make([]*model.WordCountResult, 0, len(numbers))
	for _, n := range numbers {
		result, err := p.AnalyzeTitle(n)
		if err != nil {
			return nil, nil, err
		}
		results = append(results, result)
	}

	summary, err := analysis.Summarize(results)
	if err != nil {
		return nil, nil, err
	}
	return summary, results, nil
}
