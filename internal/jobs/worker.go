// Package jobs runs periodic background work next to the API server.
package jobs

import (
	"context"
	"log/slog"
	"time"
)

// JobProcessor defines the interface for processing jobs
type JobProcessor interface {
	ProcessJobs(ctx context.Context) error
}

// Worker runs a JobProcessor once at start and then on every tick.
// Each run is bounded by the poll interval so runs never overlap.
type Worker struct {
	name         string
	processor    JobProcessor
	pollInterval time.Duration
	stopChan     chan struct{}
	doneChan     chan struct{}
}

// NewWorker creates a new Worker instance
func NewWorker(name string, processor JobProcessor, pollInterval time.Duration) *Worker {
	return &Worker{
		name:         name,
		processor:    processor,
		pollInterval: pollInterval,
		stopChan:     make(chan struct{}),
		doneChan:     make(chan struct{}),
	}
}

// Start blocks running the worker until ctx is done or Stop is called.
func (w *Worker) Start(ctx context.Context) {
	defer close(w.doneChan)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-w.stopChan:
			cancel()
		case <-ctx.Done():
		}
	}()

	slog.Info("worker started", "worker", w.name, "poll_interval", w.pollInterval)

	w.run(ctx)

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("worker stopped", "worker", w.name)
			return
		case <-ticker.C:
			w.run(ctx)
		}
	}
}

func (w *Worker) run(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	runCtx, cancel := context.WithTimeout(ctx, w.pollInterval)
	defer cancel()

	start := time.Now()
	if err := w.processor.ProcessJobs(runCtx); err != nil {
		slog.Error("error processing jobs", "worker", w.name, "error", err)
		return
	}
	slog.Debug("jobs processed", "worker", w.name, "duration_ms", time.Since(start).Milliseconds())
}

// Stop cancels an in-flight run and waits for Start to return.
// It must be called at most once, after Start.
func (w *Worker) Stop() {
	close(w.stopChan)
	<-w.doneChan
	slog.Info("worker shutdown complete", "worker", w.name)
}
