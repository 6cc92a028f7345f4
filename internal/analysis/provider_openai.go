package analysis

import (
	"context"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/content-api/internal/model"
	"github.com/sells-group/content-api/pkg/openai"
)

const analysisPrompt = `Analyze the following text and provide:
1. A concise summary (2-3 sentences)
2. Sentiment analysis (Positive, Negative, or Neutral)

Text: %s

Please respond in this format:
Summary: [your summary here]
Sentiment: [Positive/Negative/Neutral]`

// OpenAIProvider is the paid fallback backend: one chat completion returns
// both summary and sentiment in a line-oriented format.
type OpenAIProvider struct {
	client openai.Client
	model  string
}

// NewOpenAIProvider creates the fallback provider.
func NewOpenAIProvider(client openai.Client, modelID string) *OpenAIProvider {
	return &OpenAIProvider{client: client, model: modelID}
}

func (p *OpenAIProvider) Name() string { return "openai" }

func (p *OpenAIProvider) Analyze(ctx context.Context, text string) (*Result, error) {
	temperature := 0.7
	maxTokens := 200
	resp, err := p.client.ChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.Message{
			{Role: "user", Content: fmt.Sprintf(analysisPrompt, text)},
		},
		Temperature: &temperature,
		MaxTokens:   &maxTokens,
	})
	if err != nil {
		return nil, eris.Wrap(err, "analysis: openai completion")
	}
	if len(resp.Choices) == 0 {
		return nil, eris.New("analysis: openai returned no choices")
	}

	summary, sentiment := parseCompletion(resp.Choices[0].Message.Content)
	return &Result{
		Summary:         summary,
		Sentiment:       sentiment,
		Provider:        p.Name(),
		SummarySource:   p.model,
		SentimentSource: p.model,
	}, nil
}

// parseCompletion extracts the "Summary:" and "Sentiment:" lines from the
// model reply. Missing pieces degrade to the placeholder and Neutral.
func parseCompletion(content string) (string, model.Sentiment) {
	summary := ""
	sentiment := model.SentimentNeutral

	for _, line := range strings.Split(content, "\n") {
		switch {
		case strings.HasPrefix(line, "Summary:"):
			summary = strings.TrimSpace(strings.TrimPrefix(line, "Summary:"))
		case strings.HasPrefix(line, "Sentiment:"):
			label := strings.TrimSpace(strings.TrimPrefix(line, "Sentiment:"))
			switch {
			case strings.Contains(label, "Positive"):
				sentiment = model.SentimentPositive
			case strings.Contains(label, "Negative"):
				sentiment = model.SentimentNegative
			default:
				sentiment = model.SentimentNeutral
			}
		}
	}

	if summary == "" {
		summary = SummaryUnavailable
	}
	return summary, sentiment
}
