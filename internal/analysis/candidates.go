package analysis

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// ModelConfig holds the ordered candidate model lists per task. The lists
// are read-only after startup and safe for concurrent cascades.
type ModelConfig struct {
	Summary   []string `yaml:"summary"`
	Sentiment []string `yaml:"sentiment"`
}

// DefaultModelConfig returns the built-in candidate lists: a strong model
// first, a faster or more reliable alternative second.
func DefaultModelConfig() *ModelConfig {
	return &ModelConfig{
		Summary: []string{
			"facebook/bart-large-cnn",
			"sshleifer/distilbart-cnn-12-6",
		},
		Sentiment: []string{
			"cardiffnlp/twitter-roberta-base-sentiment-latest",
			"distilbert-base-uncased-finetuned-sst-2-english",
		},
	}
}

// LoadModelConfig reads candidate lists from a YAML file; tasks missing
// from the file keep the built-in defaults.
func LoadModelConfig(path string) (*ModelConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "analysis: read model config %s", path)
	}

	var wrapper struct {
		Models ModelConfig `yaml:"models"`
	}
	if err := yaml.Unmarshal(data, &wrapper); err != nil {
		return nil, eris.Wrap(err, "analysis: parse model config")
	}

	cfg := &wrapper.Models
	defaults := DefaultModelConfig()
	if len(cfg.Summary) == 0 {
		cfg.Summary = defaults.Summary
	}
	if len(cfg.Sentiment) == 0 {
		cfg.Sentiment = defaults.Sentiment
	}
	return cfg, nil
}
