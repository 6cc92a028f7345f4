// Package analysis orchestrates content enrichment: it takes raw text,
// runs it through one or more external inference providers with per-model
// cascades, and guarantees a populated summary and sentiment through
// layered local fallbacks.
package analysis

import (
	"context"

	"github.com/sells-group/content-api/internal/model"
)

// Result is a fully populated analysis outcome. Summary is never empty and
// Sentiment is always one of the three known labels.
type Result struct {
	Summary   string
	Sentiment model.Sentiment

	// Provenance, for observability and tests.
	Provider        string // "huggingface", "openai", "local"
	SummarySource   string // winning model, "extractive", or "none"
	SentimentSource string // winning model, "keywords", or "default"
}

// Provider is one external analysis backend in the selection chain.
type Provider interface {
	Name() string
	Analyze(ctx context.Context, text string) (*Result, error)
}
