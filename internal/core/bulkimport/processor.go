package bulkimport

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"Curio/internal/core/ingestion"
	"Curio/internal/core/posts"
	"Curio/internal/core/profiles"
	"Curio/internal/scrape"
)

// ItemState tracks an item through the import pipeline.
type ItemState string

const (
	StatePending         ItemState = "pending"
	StateFetching        ItemState = "fetching"
	StateFetched         ItemState = "fetched"
	StateTransforming    ItemState = "transforming"
	StateSaving          ItemState = "saving"
	StateSaved           ItemState = "saved"
	StateAlreadyExists   ItemState = "already_exists"
	StateFetchFailed     ItemState = "fetch_failed"
	StateTransformFailed ItemState = "transform_failed"
	StateSaveFailed      ItemState = "save_failed"
)

// ItemResult is the terminal record for one source URL.
type ItemResult struct {
	Index     int       `json:"index"`
	SourceURL string    `json:"sourceUrl"`
	State     ItemState `json:"state"`
	Error     string    `json:"error,omitempty"`
	PostID    int64     `json:"postId,omitempty"`
}

// Summary reports the outcome of a whole run. Skipped counts posts that
// were already on the target board; those are not errors.
type Summary struct {
	RunID   string       `json:"runId"`
	Total   int          `json:"total"`
	Success int          `json:"success"`
	Skipped int          `json:"skipped"`
	Errors  int          `json:"errors"`
	Items   []ItemResult `json:"items"`
}

// SuccessRate counts skipped items as handled: they reached the store
// in an earlier run.
func (s *Summary) SuccessRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Success+s.Skipped) / float64(s.Total)
}

// PostFetcher is the slice of the scrape client the processor needs.
type PostFetcher interface {
	FetchPost(ctx context.Context, sourceURL string) (*scrape.PostResult, error)
}

// Ingester is the slice of the ingestion service the processor needs.
type Ingester interface {
	Ingest(ctx context.Context, post *posts.Post, profile *profiles.Profile, boardID int64, callerID string) (*ingestion.SaveResult, error)
}

// Processor drives ingestion over a list of source URLs, strictly
// sequentially with a fixed inter-item delay to respect upstream rate
// limits. A single item's failure never aborts the run.
type Processor struct {
	fetcher  PostFetcher
	ingester Ingester
	delay    time.Duration
}

// ProcessorOption configures the processor
type ProcessorOption func(*Processor)

// WithDelay sets the pause between items
func WithDelay(d time.Duration) ProcessorOption {
	return func(p *Processor) {
		p.delay = d
	}
}

// NewProcessor creates a batch import processor.
func NewProcessor(fetcher PostFetcher, ingester Ingester, opts ...ProcessorOption) *Processor {
	if fetcher == nil || ingester == nil {
		panic("bulkimport: fetcher and ingester cannot be nil")
	}
	p := &Processor{
		fetcher:  fetcher,
		ingester: ingester,
		delay:    2 * time.Second,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run processes sources[startIndex:] in order. startIndex lets an
// interrupted run resume past already-handled items; callers derive it
// from the last logged index. Cancelling ctx stops the run after the
// current item and returns the partial summary with ctx.Err().
func (p *Processor) Run(ctx context.Context, sources []string, boardID int64, callerID string, startIndex int) (*Summary, error) {
	if startIndex < 0 || startIndex > len(sources) {
		return nil, fmt.Errorf("start index %d out of range [0,%d]", startIndex, len(sources))
	}

	remaining := sources[startIndex:]
	summary := &Summary{
		RunID: uuid.New().String(),
		Total: len(remaining),
		Items: make([]ItemResult, 0, len(remaining)),
	}

	log.Printf("[IMPORT] Run %s: %d items (offset %d), board %d, delay %s",
		summary.RunID, summary.Total, startIndex, boardID, p.delay)

	for i, sourceURL := range remaining {
		index := startIndex + i

		item := p.processItem(ctx, index, sourceURL, boardID, callerID)
		summary.Items = append(summary.Items, item)

		switch item.State {
		case StateSaved:
			summary.Success++
		case StateAlreadyExists:
			summary.Skipped++
		default:
			summary.Errors++
		}

		log.Printf("[IMPORT] Run %s item %d/%d: %s (%s)",
			summary.RunID, index, startIndex+summary.Total-1, item.State, sourceURL)

		if i < len(remaining)-1 {
			select {
			case <-ctx.Done():
				log.Printf("[IMPORT] Run %s cancelled at item %d", summary.RunID, index)
				return summary, ctx.Err()
			case <-time.After(p.delay):
			}
		}
	}

	log.Printf("[IMPORT] Run %s done: %d saved, %d skipped, %d errors (%.0f%% success)",
		summary.RunID, summary.Success, summary.Skipped, summary.Errors, summary.SuccessRate()*100)

	return summary, nil
}

func (p *Processor) processItem(ctx context.Context, index int, sourceURL string, boardID int64, callerID string) ItemResult {
	item := ItemResult{Index: index, SourceURL: sourceURL, State: StatePending}

	item.State = StateFetching
	result, err := p.fetcher.FetchPost(ctx, sourceURL)
	if err != nil {
		if scrape.IsTransformError(err) {
			item.State = StateTransformFailed
		} else {
			item.State = StateFetchFailed
		}
		item.Error = err.Error()
		return item
	}
	item.State = StateFetched

	// Normalization happened inside the fetch; a nil post here means the
	// upstream payload had no usable item.
	item.State = StateTransforming
	if result.Post == nil {
		item.State = StateTransformFailed
		item.Error = "upstream response contained no usable post"
		return item
	}

	item.State = StateSaving
	saved, err := p.ingester.Ingest(ctx, result.Post, result.Profile, boardID, callerID)
	if err != nil {
		item.State = StateSaveFailed
		item.Error = err.Error()
		return item
	}

	item.PostID = saved.Post.ID
	if saved.AlreadyOnBoard {
		item.State = StateAlreadyExists
	} else {
		item.State = StateSaved
	}
	return item
}
