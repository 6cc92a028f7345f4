package analysis

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/sells-group/content-api/internal/model"
	"github.com/sells-group/content-api/pkg/hfinference"
)

// maxInputChars bounds the payload sent per inference call; free-tier
// backends reject or silently degrade longer inputs.
const maxInputChars = 512

// State tracks where a cascade run ended, for logging and tests.
type State string

const (
	StateTrying    State = "trying"
	StateSucceeded State = "succeeded"
	StateExhausted State = "exhausted"
)

// Outcome records how a cascade run finished and which candidate won.
type Outcome struct {
	State    State
	Model    string // winning model when Succeeded
	Attempts int
}

// Cascade tries candidate models in priority order against a single
// inference client, returning the first usable result. Per-model failures
// never escape: they are logged and the next candidate is attempted. There
// is no per-model retry; the breadth of the candidate list substitutes for
// depth-retry.
type Cascade struct {
	client hfinference.Client
}

// NewCascade creates a cascade over the given inference client.
func NewCascade(client hfinference.Client) *Cascade {
	return &Cascade{client: client}
}

// Summary runs the summarization cascade. An empty string with an
// Exhausted outcome means every candidate failed or returned unusable
// data; that is a signal to proceed to local fallback, not an error.
func (c *Cascade) Summary(ctx context.Context, text string, candidates []string) (string, Outcome) {
	out := Outcome{State: StateTrying}
	for _, candidate := range candidates {
		if out.State != StateTrying {
			break
		}
		out.Attempts++

		body, ok := c.attempt(ctx, "summarization", candidate, text)
		if !ok {
			continue
		}
		summary, ok := NormalizeSummary(body)
		if !ok {
			zap.L().Debug("analysis: summary response unusable, trying next",
				zap.String("model", candidate),
			)
			continue
		}

		out.State = StateSucceeded
		out.Model = candidate
		return summary, out
	}
	out.State = StateExhausted
	return "", out
}

// Sentiment runs the sentiment cascade. A candidate that normalizes to
// Neutral does not stop the cascade: Neutral is also the default label, so
// it is indistinguishable from "no real signal" and the next candidate may
// still produce one. Positive or Negative stops immediately.
func (c *Cascade) Sentiment(ctx context.Context, text string, candidates []string) (model.Sentiment, Outcome) {
	out := Outcome{State: StateTrying}
	sentiment := model.SentimentNeutral
	for _, candidate := range candidates {
		if out.State != StateTrying {
			break
		}
		out.Attempts++

		body, ok := c.attempt(ctx, "sentiment", candidate, text)
		if !ok {
			continue
		}
		label, ok := NormalizeSentiment(body)
		if !ok {
			zap.L().Debug("analysis: sentiment response unusable, trying next",
				zap.String("model", candidate),
			)
			continue
		}
		if label == model.SentimentNeutral {
			sentiment = model.SentimentNeutral
			continue
		}

		out.State = StateSucceeded
		out.Model = candidate
		return label, out
	}
	out.State = StateExhausted
	return sentiment, out
}

// attempt performs one model call and applies the per-status policy.
// Returns the body to normalize and whether it is worth parsing.
func (c *Cascade) attempt(ctx context.Context, task, candidate, text string) ([]byte, bool) {
	resp, err := c.client.Infer(ctx, candidate, clip(text, maxInputChars))
	if err != nil {
		zap.L().Warn("analysis: inference call failed, trying next",
			zap.String("task", task),
			zap.String("model", candidate),
			zap.Error(err),
		)
		return nil, false
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return resp.Body, true
	case http.StatusGone:
		// Deprecated endpoint; the body may still carry a usable payload.
		zap.L().Warn("analysis: endpoint deprecated, parsing body anyway",
			zap.String("task", task),
			zap.String("model", candidate),
		)
		return resp.Body, true
	case http.StatusServiceUnavailable:
		// Model cold-starting. Advance rather than wait it out.
		zap.L().Info("analysis: model loading, trying next",
			zap.String("task", task),
			zap.String("model", candidate),
		)
		return nil, false
	case http.StatusNotFound:
		zap.L().Warn("analysis: model not found, trying next",
			zap.String("task", task),
			zap.String("model", candidate),
		)
		return nil, false
	default:
		zap.L().Warn("analysis: unexpected inference status, trying next",
			zap.String("task", task),
			zap.String("model", candidate),
			zap.Int("status", resp.StatusCode),
		)
		return nil, false
	}
}

// clip bounds s to n characters, never splitting a rune.
func clip(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
