package analysis

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/sells-group/content-api/internal/model"
	"github.com/sells-group/content-api/pkg/hfinference"
)

// HFProvider is the primary (free-tier) analysis backend: per-task model
// cascades over a hosted inference API, composed with local synthesis so
// that Analyze always returns a populated result.
type HFProvider struct {
	cascade         *Cascade
	summaryModels   []string
	sentimentModels []string
}

// NewHFProvider creates the primary provider with ordered candidate model
// lists per task.
func NewHFProvider(client hfinference.Client, summaryModels, sentimentModels []string) *HFProvider {
	return &HFProvider{
		cascade:         NewCascade(client),
		summaryModels:   summaryModels,
		sentimentModels: sentimentModels,
	}
}

func (p *HFProvider) Name() string { return "huggingface" }

// Analyze runs both cascades concurrently; they share no state and have no
// ordering dependency. Cascade exhaustion is absorbed by local synthesis,
// so the returned result is always fully populated and err is always nil.
func (p *HFProvider) Analyze(ctx context.Context, text string) (*Result, error) {
	var (
		summary      string
		summaryOut   Outcome
		sentiment    model.Sentiment
		sentimentOut Outcome
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		summary, summaryOut = p.cascade.Summary(gctx, text, p.summaryModels)
		return nil
	})
	g.Go(func() error {
		sentiment, sentimentOut = p.cascade.Sentiment(gctx, text, p.sentimentModels)
		return nil
	})
	_ = g.Wait()

	res := &Result{
		Provider:        p.Name(),
		SummarySource:   summaryOut.Model,
		SentimentSource: sentimentOut.Model,
	}

	if summary == "" {
		summary = ExtractiveSummary(text)
		res.SummarySource = "extractive"
	}
	if summary == "" {
		summary = SummaryUnavailable
		res.SummarySource = "none"
	}
	res.Summary = summary

	// Keyword scoring only pays off when the cascade gave no real signal
	// and the pipeline did not already fail outright.
	if sentiment == model.SentimentNeutral && summary != SummaryUnavailable {
		sentiment = KeywordSentiment(text)
		res.SentimentSource = "keywords"
	}
	if res.SentimentSource == "" {
		res.SentimentSource = "default"
	}
	res.Sentiment = sentiment

	return res, nil
}
