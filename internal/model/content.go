// Package model defines the core domain entities shared across the service.
package model

import "time"

// Sentiment is the detected emotional polarity of a piece of content.
type Sentiment string

const (
	SentimentPositive Sentiment = "Positive"
	SentimentNegative Sentiment = "Negative"
	SentimentNeutral  Sentiment = "Neutral"
)

// Valid reports whether s is one of the three known sentiment labels.
func (s Sentiment) Valid() bool {
	switch s {
	case SentimentPositive, SentimentNegative, SentimentNeutral:
		return true
	}
	return false
}

// Content is a user-submitted text item. Summary and Sentiment stay nil
// until the background enrichment task writes both in a single update; a
// row where they remain nil is a valid resting state, not an error.
type Content struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	Text      string     `json:"text"`
	Summary   *string    `json:"summary"`
	Sentiment *Sentiment `json:"sentiment"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}
