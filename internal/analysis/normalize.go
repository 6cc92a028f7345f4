package analysis

import (
	"encoding/json"
	"strings"

	"github.com/sells-group/content-api/internal/model"
)

// Upstream inference backends answer in several shapes depending on model
// family and API generation: an object with an "outputs" array, a direct
// object, a bare list, or a bare string. Each shape gets its own matcher;
// matchers are pure and tried in order, first match wins. No match is not
// an error, it just means the candidate produced nothing usable.

type summaryMatcher func(payload any) (string, bool)

var summaryMatchers = []summaryMatcher{
	matchSummaryOutputs,
	matchSummaryObject,
	matchSummaryList,
	matchSummaryString,
}

// NormalizeSummary maps a raw response body to a summary string. A body
// that is not JSON, carries an "error" field, or matches no known shape
// yields ok=false.
func NormalizeSummary(body []byte) (string, bool) {
	payload, ok := decodePayload(body)
	if !ok {
		return "", false
	}
	for _, match := range summaryMatchers {
		if s, ok := match(payload); ok && s != "" {
			return s, true
		}
	}
	return "", false
}

// NormalizeSentiment maps a raw response body to the top-scoring sentiment
// label. Scores arrive as a list of {label, score}; the max is stable, so
// ties keep the first occurrence.
func NormalizeSentiment(body []byte) (model.Sentiment, bool) {
	payload, ok := decodePayload(body)
	if !ok {
		return "", false
	}

	scores := sentimentScores(payload)
	if len(scores) == 0 {
		return "", false
	}

	top := scores[0]
	for _, s := range scores[1:] {
		if s.score > top.score {
			top = s
		}
	}
	return mapLabel(top.label), true
}

// decodePayload parses the body and rejects payloads carrying an "error"
// field regardless of HTTP status; a 200 with {"error": ...} is how these
// backends report a model still loading.
func decodePayload(body []byte) (any, bool) {
	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, false
	}
	if obj, ok := payload.(map[string]any); ok {
		if _, hasErr := obj["error"]; hasErr {
			return nil, false
		}
	}
	return payload, true
}

func matchSummaryOutputs(payload any) (string, bool) {
	obj, ok := payload.(map[string]any)
	if !ok {
		return "", false
	}
	outputs, ok := obj["outputs"].([]any)
	if !ok || len(outputs) == 0 {
		return "", false
	}
	return summaryFromElement(outputs[0])
}

func matchSummaryObject(payload any) (string, bool) {
	obj, ok := payload.(map[string]any)
	if !ok {
		return "", false
	}
	// An "outputs" key claims the payload for the outputs matcher: when
	// its element is unusable, sibling top-level keys must not win.
	if _, claimed := obj["outputs"]; claimed {
		return "", false
	}
	return summaryFromKeys(obj)
}

func matchSummaryList(payload any) (string, bool) {
	list, ok := payload.([]any)
	if !ok || len(list) == 0 {
		return "", false
	}
	return summaryFromElement(list[0])
}

func matchSummaryString(payload any) (string, bool) {
	s, ok := payload.(string)
	return s, ok && s != ""
}

func summaryFromElement(elem any) (string, bool) {
	switch v := elem.(type) {
	case map[string]any:
		return summaryFromKeys(v)
	case string:
		return v, v != ""
	}
	return "", false
}

func summaryFromKeys(obj map[string]any) (string, bool) {
	if s, ok := obj["summary_text"].(string); ok && s != "" {
		return s, true
	}
	if s, ok := obj["generated_text"].(string); ok && s != "" {
		return s, true
	}
	return "", false
}

type labelScore struct {
	label string
	score float64
}

// sentimentScores extracts the ranked label list from either the
// outputs-wrapped shape {"outputs": [[{...}]]} or the bare list shapes
// [[{...}]] and [{...}].
func sentimentScores(payload any) []labelScore {
	var list []any

	switch v := payload.(type) {
	case map[string]any:
		outputs, ok := v["outputs"].([]any)
		if !ok || len(outputs) == 0 {
			return nil
		}
		inner, ok := outputs[0].([]any)
		if !ok {
			return nil
		}
		list = inner
	case []any:
		if len(v) == 0 {
			return nil
		}
		if inner, ok := v[0].([]any); ok {
			list = inner
		} else {
			list = v
		}
	default:
		return nil
	}

	scores := make([]labelScore, 0, len(list))
	for _, elem := range list {
		entry, ok := elem.(map[string]any)
		if !ok {
			continue
		}
		label, _ := entry["label"].(string)
		score, _ := entry["score"].(float64)
		scores = append(scores, labelScore{label: label, score: score})
	}
	return scores
}

// Label conventions differ per model family (POSITIVE/NEGATIVE, POS/NEG,
// LABEL_0..LABEL_2); this mapping papers over that. Anything unrecognized
// is Neutral.
var (
	positiveLabelTokens = []string{"POSITIVE", "POS", "LABEL_2", "LABEL_1"}
	negativeLabelTokens = []string{"NEGATIVE", "NEG", "LABEL_0"}
)

func mapLabel(label string) model.Sentiment {
	upper := strings.ToUpper(label)
	for _, tok := range positiveLabelTokens {
		if strings.Contains(upper, tok) {
			return model.SentimentPositive
		}
	}
	for _, tok := range negativeLabelTokens {
		if strings.Contains(upper, tok) {
			return model.SentimentNegative
		}
	}
	return model.SentimentNeutral
}
