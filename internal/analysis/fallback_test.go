package analysis

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/content-api/internal/model"
)

func TestExtractiveSummary(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "empty",
			text: "",
			want: NoTextSummary,
		},
		{
			name: "whitespace_only",
			text: "   \n\t  ",
			want: NoTextSummary,
		},
		{
			name: "first_sentence_with_terminator",
			text: "The product arrived on time and works well. I would buy it again.",
			want: "The product arrived on time and works well.",
		},
		{
			name: "first_sentence_exclamation_preserved",
			text: "This is absolutely wonderful stuff! More detail follows here.",
			want: "This is absolutely wonderful stuff!",
		},
		{
			name: "unterminated_sentence_gets_period",
			text: "A reasonably long first clause without any terminal punctuation",
			want: "A reasonably long first clause without any terminal punctuation.",
		},
		{
			name: "sixteen_chars_is_substantial",
			text: "Sixteen chars ok. And there is a second sentence after it here.",
			want: "Sixteen chars ok.",
		},
		{
			name: "short_first_sentence_falls_to_words",
			text: "Too short. But the rest of the text keeps going with more words",
			want: "Too short. But the rest of the text keeps going with more words",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ExtractiveSummary(tt.text))
		})
	}
}

func TestExtractiveSummaryTruncatesLongWordFallback(t *testing.T) {
	t.Parallel()

	// Short first sentence forces the word path; 40 words in total force
	// the truncation marker.
	words := make([]string, 40)
	for i := range words {
		words[i] = "w"
	}
	text := "Hi. " + strings.Join(words, " ")

	got := ExtractiveSummary(text)
	assert.True(t, strings.HasSuffix(got, "..."))
	// "Hi." plus 29 more single-letter words.
	assert.Len(t, strings.Fields(got), 30)
}

func TestKeywordSentiment(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want model.Sentiment
	}{
		{
			name: "positive_majority",
			text: "I love this, it is great and the food was delicious",
			want: model.SentimentPositive,
		},
		{
			name: "negative_majority",
			text: "terrible service, awful food, I hated it",
			want: model.SentimentNegative,
		},
		{
			name: "tie_is_neutral",
			text: "great food but terrible service",
			want: model.SentimentNeutral,
		},
		{
			name: "no_hits_is_neutral",
			text: "the package contains twelve assorted widgets",
			want: model.SentimentNeutral,
		},
		{
			name: "case_insensitive",
			text: "LOVE IT, ABSOLUTELY AMAZING",
			want: model.SentimentPositive,
		},
		{
			name: "whole_word_only",
			text: "lovely hateful goodness",
			want: model.SentimentNeutral,
		},
		{
			name: "punctuation_is_boundary",
			text: "great! great, great.",
			want: model.SentimentPositive,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, KeywordSentiment(tt.text))
		})
	}
}
