package analysis

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/sells-group/content-api/internal/model"
)

const (
	// NoTextSummary is returned for empty or whitespace-only input.
	NoTextSummary = "No text provided"

	// SummaryUnavailable is the last-resort placeholder when even
	// extractive synthesis produced nothing.
	SummaryUnavailable = "Summary not available"
)

var sentenceEnd = regexp.MustCompile(`[.!?]+`)

// ExtractiveSummary synthesizes a summary without any upstream model: the
// first sentence when it is substantial (over 15 characters), otherwise the
// first 30 words with an ellipsis marker when the input was longer.
func ExtractiveSummary(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return NoTextSummary
	}

	sentences := sentenceEnd.Split(text, -1)
	if len(sentences) > 0 {
		first := strings.TrimSpace(sentences[0])
		if utf8.RuneCountInString(first) > 15 {
			if !strings.HasSuffix(first, ".") && !strings.HasSuffix(first, "!") && !strings.HasSuffix(first, "?") {
				first += "."
			}
			return first
		}
	}

	words := strings.Fields(text)
	n := min(len(words), 30)
	summary := strings.Join(words[:n], " ")
	if len(words) > 30 {
		summary += "..."
	}
	return summary
}

// Keyword lists for local sentiment scoring. Whole-word matches only.
var (
	positiveTerms = []string{
		"love", "loved", "loving", "amazing", "amazed", "great", "excellent",
		"wonderful", "fantastic", "perfect", "best", "awesome", "outstanding",
		"good", "happy", "pleased", "delighted", "satisfied", "brilliant",
		"superb", "marvelous", "incredible", "beautiful", "gorgeous", "stunning",
		"fabulous", "terrific", "magnificent", "exceptional", "remarkable",
		"impressive", "delicious", "tasty", "yummy", "enjoy", "enjoyed", "enjoying",
	}

	negativeTerms = []string{
		"hate", "hated", "hating", "terrible", "awful", "bad", "worst",
		"disappointed", "horrible", "poor", "disgusting", "sad", "angry",
		"frustrated", "annoyed", "upset", "disgusted", "dreadful", "pathetic",
		"useless", "worthless", "garbage", "trash", "nasty",
		"unhappy", "miserable", "depressed", "furious", "rage", "annoying",
	}

	positiveSet = termSet(positiveTerms)
	negativeSet = termSet(negativeTerms)

	// Word tokens in the \w sense, so hyphens and punctuation act as
	// boundaries and "lovely" never counts as "love".
	wordToken = regexp.MustCompile(`[a-z0-9_]+`)
)

func termSet(terms []string) map[string]struct{} {
	set := make(map[string]struct{}, len(terms))
	for _, t := range terms {
		set[t] = struct{}{}
	}
	return set
}

// KeywordSentiment scores text by counting whole-word hits against fixed
// positive and negative term lists. Ties, including zero hits on both
// sides, are Neutral.
func KeywordSentiment(text string) model.Sentiment {
	var positive, negative int
	for _, tok := range wordToken.FindAllString(strings.ToLower(text), -1) {
		if _, ok := positiveSet[tok]; ok {
			positive++
		}
		if _, ok := negativeSet[tok]; ok {
			negative++
		}
	}

	switch {
	case positive > negative:
		return model.SentimentPositive
	case negative > positive:
		return model.SentimentNegative
	default:
		return model.SentimentNeutral
	}
}
