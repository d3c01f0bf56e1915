package enrichment

import (
	"context"
	"log"
	"sync"
	"time"

	"Curio/internal/core/posts"
)

type taskKind string

const (
	kindEmbed      taskKind = "embed"
	kindTranscript taskKind = "transcript"
)

type task struct {
	postID    int64
	sourceURL string
	kind      taskKind
}

type taskKey struct {
	postID int64
	kind   taskKind
}

// EmbedFetcher resolves a post URL to renderable embed HTML.
type EmbedFetcher interface {
	FetchEmbedHTML(ctx context.Context, sourceURL string) (string, error)
}

// TranscriptFetcher resolves a post URL to its spoken-word transcript.
type TranscriptFetcher interface {
	FetchTranscript(ctx context.Context, sourceURL string) (string, error)
}

// Worker runs post enrichment off the save path. Tasks are enqueued
// fire-and-forget and applied as partial updates; a failed or dropped
// task leaves the post intact with the field unset.
type Worker struct {
	postRepo    posts.Repository
	embeds      EmbedFetcher
	transcripts TranscriptFetcher
	tasks       chan task
	taskTimeout time.Duration

	mu       sync.Mutex
	inflight map[taskKey]bool

	stop    chan struct{}
	stopped sync.WaitGroup
}

// WorkerOption configures the worker
type WorkerOption func(*Worker)

// WithQueueSize sets the task queue capacity
func WithQueueSize(n int) WorkerOption {
	return func(w *Worker) {
		w.tasks = make(chan task, n)
	}
}

// WithTaskTimeout sets the per-task fetch timeout
func WithTaskTimeout(d time.Duration) WorkerOption {
	return func(w *Worker) {
		w.taskTimeout = d
	}
}

// NewWorker creates an enrichment worker. Either fetcher may be nil;
// tasks of that kind are then dropped on enqueue.
func NewWorker(postRepo posts.Repository, embeds EmbedFetcher, transcripts TranscriptFetcher, opts ...WorkerOption) *Worker {
	if postRepo == nil {
		panic("enrichment: post repository cannot be nil")
	}
	w := &Worker{
		postRepo:    postRepo,
		embeds:      embeds,
		transcripts: transcripts,
		tasks:       make(chan task, 64),
		taskTimeout: 30 * time.Second,
		inflight:    make(map[taskKey]bool),
		stop:        make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Start launches the worker loop.
func (w *Worker) Start() {
	w.stopped.Add(1)
	go w.run()
}

// Stop shuts the worker down and waits for the in-progress task to
// finish. Queued tasks are discarded.
func (w *Worker) Stop() {
	close(w.stop)
	w.stopped.Wait()
}

// EnqueueEmbed queues an embed-HTML fetch for a post. Never blocks; the
// task is dropped when the queue is full or the same task is already
// queued.
func (w *Worker) EnqueueEmbed(postID int64, sourceURL string) {
	if w.embeds == nil {
		return
	}
	w.enqueue(task{postID: postID, sourceURL: sourceURL, kind: kindEmbed})
}

// EnqueueTranscript queues a transcript fetch for a post. Never blocks.
func (w *Worker) EnqueueTranscript(postID int64, sourceURL string) {
	if w.transcripts == nil {
		return
	}
	w.enqueue(task{postID: postID, sourceURL: sourceURL, kind: kindTranscript})
}

func (w *Worker) enqueue(t task) {
	key := taskKey{postID: t.postID, kind: t.kind}

	w.mu.Lock()
	if w.inflight[key] {
		w.mu.Unlock()
		return
	}
	w.inflight[key] = true
	w.mu.Unlock()

	select {
	case w.tasks <- t:
	default:
		w.clearInflight(key)
		log.Printf("[ENRICH] Queue full, dropping %s task for post %d", t.kind, t.postID)
	}
}

func (w *Worker) clearInflight(key taskKey) {
	w.mu.Lock()
	delete(w.inflight, key)
	w.mu.Unlock()
}

func (w *Worker) run() {
	defer w.stopped.Done()
	for {
		select {
		case <-w.stop:
			return
		case t := <-w.tasks:
			w.process(t)
			w.clearInflight(taskKey{postID: t.postID, kind: t.kind})
		}
	}
}

func (w *Worker) process(t task) {
	ctx, cancel := context.WithTimeout(context.Background(), w.taskTimeout)
	defer cancel()

	switch t.kind {
	case kindEmbed:
		html, err := w.embeds.FetchEmbedHTML(ctx, t.sourceURL)
		if err != nil {
			log.Printf("[ENRICH] Embed fetch failed for post %d: %v", t.postID, err)
			return
		}
		if err := w.postRepo.SetEmbedHTML(ctx, t.postID, html); err != nil {
			log.Printf("[ENRICH] Failed to store embed HTML for post %d: %v", t.postID, err)
			return
		}
		log.Printf("[ENRICH] Stored embed HTML for post %d", t.postID)

	case kindTranscript:
		transcript, err := w.transcripts.FetchTranscript(ctx, t.sourceURL)
		if err != nil {
			log.Printf("[ENRICH] Transcript fetch failed for post %d: %v", t.postID, err)
			return
		}
		if transcript == "" {
			log.Printf("[ENRICH] No transcript available for post %d", t.postID)
			return
		}
		if err := w.postRepo.SetTranscript(ctx, t.postID, transcript); err != nil {
			log.Printf("[ENRICH] Failed to store transcript for post %d: %v", t.postID, err)
		}
	}
}
