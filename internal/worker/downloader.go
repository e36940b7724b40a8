package worker

import (
	"context"
	"fmt"

	"github.com/regscope/regscope/internal/model"
)

// StructureFetcher fetches one title's structure tree; satisfied by
// ecfr.Client
type StructureFetcher interface {
	TitleStructure(ctx context.Context, number int, date string) (*model.StructureNode, error)
}

// StructureSaver persists one title's structure tree; satisfied by
// store.Store
type StructureSaver interface {
	SaveStructure(number int, root *model.StructureNode) error
}

// DownloadJob fetches and persists the structure of one title
type DownloadJob struct {
	Title   model.TitleEntry
	Fetcher StructureFetcher
	Saver   StructureSaver
}

// DownloadResult reports the outcome for one title
type DownloadResult struct {
	Number int
	Err    error
}

// GetError returns the error from the download, if any
func (r *DownloadResult) GetError() error {
	return r.Err
}

// Execute fetches the title's structure at its latest issue date and
// persists it
func (j *DownloadJob) Execute(ctx context.Context) Result {
	date := j.Title.IssueDate()
	if date == "" {
		return &DownloadResult{
			Number: j.Title.Number,
			Err:    fmt.Errorf("title %d has no issue date", j.Title.Number),
		}
	}

	root, err := j.Fetcher.TitleStructure(ctx, j.Title.Number, date)
	if err != nil {
		return &DownloadResult{Number: j.Title.Number, Err: err}
	}
	if err := j.Saver.SaveStructure(j.Title.Number, root); err != nil {
		return &DownloadResult{
			Number: j.Title.Number,
			Err:    fmt.Errorf("persist title %d: %w", j.Title.Number, err),
		}
	}

	return &DownloadResult{Number: j.Title.Number}
}

// Downloader downloads title structures concurrently through a pool
type Downloader struct {
	fetcher     StructureFetcher
	saver       StructureSaver
	concurrency int
}

// NewDownloader creates a downloader with the given worker count
func NewDownloader(fetcher StructureFetcher, saver StructureSaver, concurrency int) *Downloader {
	return &Downloader{
		fetcher:     fetcher,
		saver:       saver,
		concurrency: concurrency,
	}
}

// Download fetches and persists every given title, returning one result per
// title in completion order
func (d *Downloader) Download(ctx context.Context, titles []model.TitleEntry) []*DownloadResult {
	if len(titles) == 0 {
		return []*DownloadResult{}
	}

	pool := NewPool(d.concurrency)
	pool.Start()

	go func() {
		<-ctx.Done()
		pool.Shutdown()
	}()

	for _, title := range titles {
		pool.Submit(&DownloadJob{Title: title, Fetcher: d.fetcher, Saver: d.saver})
	}

	raw := pool.Wait()
	results := make([]*DownloadResult, 0, len(raw))
	for _, r := range raw {
		if dr, ok := r.(*DownloadResult); ok {
			results = append(results, dr)
		}
	}
	return results
}
