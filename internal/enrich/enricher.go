// Package enrich runs content analysis out-of-band from the request that
// created the content.
package enrich

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/content-api/internal/analysis"
	"github.com/sells-group/content-api/internal/store"
)

// Enricher schedules detached analysis tasks. Each task runs on its own
// context and store handle, independent of the originating request, which
// may be long gone by the time analysis completes. A failed task leaves
// the content row unenriched; that is a valid resting state and no retry
// is scheduled.
type Enricher struct {
	analyzer *analysis.Analyzer
	store    store.Store
	timeout  time.Duration

	sem chan struct{}
	wg  sync.WaitGroup
}

// New creates an Enricher with bounded concurrency.
func New(analyzer *analysis.Analyzer, st store.Store, maxConcurrent int, timeout time.Duration) *Enricher {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &Enricher{
		analyzer: analyzer,
		store:    st,
		timeout:  timeout,
		sem:      make(chan struct{}, maxConcurrent),
	}
}

// Dispatch schedules analysis for one content item and returns
// immediately. On success the content row is updated exactly once, with
// both enrichment fields written together.
func (e *Enricher) Dispatch(contentID, text string) {
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		e.sem <- struct{}{}
		defer func() { <-e.sem }()

		ctx, cancel := context.WithTimeout(context.Background(), e.timeout)
		defer cancel()

		result, err := e.analyzer.Analyze(ctx, text)
		if err != nil {
			// Includes ErrNoProvider. Never fatal to the service: the
			// item just stays unenriched.
			zap.L().Error("enrich: analysis failed",
				zap.String("content_id", contentID),
				zap.Error(err),
			)
			return
		}

		if err := e.store.UpdateContentAnalysis(ctx, contentID, result.Summary, result.Sentiment); err != nil {
			zap.L().Error("enrich: update failed",
				zap.String("content_id", contentID),
				zap.Error(err),
			)
			return
		}

		zap.L().Info("enrich: content enriched",
			zap.String("content_id", contentID),
			zap.String("provider", result.Provider),
			zap.String("sentiment", string(result.Sentiment)),
		)
	}()
}

// Wait blocks until all dispatched tasks have finished. Used for graceful
// shutdown and tests.
func (e *Enricher) Wait() {
	e.wg.Wait()
}
