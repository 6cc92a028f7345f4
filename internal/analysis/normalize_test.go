package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/content-api/internal/model"
)

func TestNormalizeSummary(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		body   string
		want   string
		wantOK bool
	}{
		{
			name:   "outputs_array_object",
			body:   `{"outputs": [{"summary_text": "From outputs."}]}`,
			want:   "From outputs.",
			wantOK: true,
		},
		{
			name:   "outputs_array_string",
			body:   `{"outputs": ["Bare string output."]}`,
			want:   "Bare string output.",
			wantOK: true,
		},
		{
			name:   "direct_object_summary_text",
			body:   `{"summary_text": "Direct object."}`,
			want:   "Direct object.",
			wantOK: true,
		},
		{
			name:   "direct_object_generated_text",
			body:   `{"generated_text": "Generated form."}`,
			want:   "Generated form.",
			wantOK: true,
		},
		{
			name:   "list_of_objects",
			body:   `[{"summary_text": "List element."}]`,
			want:   "List element.",
			wantOK: true,
		},
		{
			name:   "bare_string",
			body:   `"Just a string."`,
			want:   "Just a string.",
			wantOK: true,
		},
		{
			name:   "error_field_rejected",
			body:   `{"error": "model is loading", "summary_text": "should not be used"}`,
			wantOK: false,
		},
		{
			name:   "not_json",
			body:   `<html>Service Unavailable</html>`,
			wantOK: false,
		},
		{
			name:   "unknown_shape",
			body:   `{"something_else": 42}`,
			wantOK: false,
		},
		{
			name:   "empty_list",
			body:   `[]`,
			wantOK: false,
		},
		{
			name:   "empty_summary_text_skipped",
			body:   `{"summary_text": ""}`,
			wantOK: false,
		},
		{
			name:   "outputs_preferred_over_direct_keys",
			body:   `{"outputs": [{"summary_text": "outer"}], "summary_text": "inner"}`,
			want:   "outer",
			wantOK: true,
		},
		{
			name:   "unusable_outputs_blocks_sibling_keys",
			body:   `{"outputs": [{"bogus": 1}], "summary_text": "sibling"}`,
			wantOK: false,
		},
		{
			name:   "empty_outputs_blocks_sibling_keys",
			body:   `{"outputs": [], "summary_text": "sibling"}`,
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := NormalizeSummary([]byte(tt.body))
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeSentiment(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		body   string
		want   model.Sentiment
		wantOK bool
	}{
		{
			name:   "nested_list_top_score_positive",
			body:   `[[{"label": "POSITIVE", "score": 0.98}, {"label": "NEGATIVE", "score": 0.02}]]`,
			want:   model.SentimentPositive,
			wantOK: true,
		},
		{
			name:   "flat_list_negative",
			body:   `[{"label": "NEG", "score": 0.7}, {"label": "POS", "score": 0.3}]`,
			want:   model.SentimentNegative,
			wantOK: true,
		},
		{
			name:   "outputs_wrapped",
			body:   `{"outputs": [[{"label": "LABEL_2", "score": 0.9}, {"label": "LABEL_0", "score": 0.1}]]}`,
			want:   model.SentimentPositive,
			wantOK: true,
		},
		{
			name:   "label_0_negative",
			body:   `[[{"label": "LABEL_0", "score": 0.8}, {"label": "LABEL_2", "score": 0.2}]]`,
			want:   model.SentimentNegative,
			wantOK: true,
		},
		{
			name:   "label_1_positive",
			body:   `[[{"label": "LABEL_1", "score": 0.9}]]`,
			want:   model.SentimentPositive,
			wantOK: true,
		},
		{
			name:   "unknown_label_neutral",
			body:   `[[{"label": "MIXED", "score": 0.9}]]`,
			want:   model.SentimentNeutral,
			wantOK: true,
		},
		{
			name:   "tie_keeps_first",
			body:   `[[{"label": "NEGATIVE", "score": 0.5}, {"label": "POSITIVE", "score": 0.5}]]`,
			want:   model.SentimentNegative,
			wantOK: true,
		},
		{
			name:   "error_field_rejected",
			body:   `{"error": "model overloaded"}`,
			wantOK: false,
		},
		{
			name:   "not_json",
			body:   `oops`,
			wantOK: false,
		},
		{
			name:   "empty_list",
			body:   `[]`,
			wantOK: false,
		},
		{
			name:   "lowercase_label_matched",
			body:   `[[{"label": "positive", "score": 0.9}]]`,
			want:   model.SentimentPositive,
			wantOK: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := NormalizeSentiment([]byte(tt.body))
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}
