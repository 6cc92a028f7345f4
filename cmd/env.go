package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/content-api/internal/analysis"
	"github.com/sells-group/content-api/internal/auth"
	"github.com/sells-group/content-api/internal/enrich"
	"github.com/sells-group/content-api/internal/store"
	"github.com/sells-group/content-api/pkg/hfinference"
	"github.com/sells-group/content-api/pkg/openai"
)

// appEnv bundles the wired subsystems for a command invocation.
type appEnv struct {
	Store    store.Store
	Tokens   *auth.TokenManager
	Analyzer *analysis.Analyzer
	Enricher *enrich.Enricher
}

func (e *appEnv) Close() {
	if e.Store != nil {
		_ = e.Store.Close()
	}
}

func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL, nil)
	case "sqlite":
		return store.NewSQLite(cfg.Store.DatabaseURL)
	default:
		return nil, eris.Errorf("unknown store driver: %s", cfg.Store.Driver)
	}
}

// initAnalyzer builds the provider chain from configured credentials.
// Providers without a key are simply absent from the chain.
func initAnalyzer() *analysis.Analyzer {
	var providers []analysis.Provider

	if cfg.HuggingFace.APIKey != "" {
		models := analysis.DefaultModelConfig()
		if cfg.HuggingFace.ModelsFile != "" {
			loaded, err := analysis.LoadModelConfig(cfg.HuggingFace.ModelsFile)
			if err != nil {
				zap.L().Warn("models file unreadable, using defaults", zap.Error(err))
			} else {
				models = loaded
			}
		}
		if len(cfg.HuggingFace.SummaryModels) > 0 {
			models.Summary = cfg.HuggingFace.SummaryModels
		}
		if len(cfg.HuggingFace.SentimentModels) > 0 {
			models.Sentiment = cfg.HuggingFace.SentimentModels
		}

		client := hfinference.NewClient(cfg.HuggingFace.APIKey,
			hfinference.WithBaseURL(cfg.HuggingFace.BaseURL),
			hfinference.WithRateLimiter(rate.NewLimiter(2, 4)),
		)
		providers = append(providers, analysis.NewHFProvider(client, models.Summary, models.Sentiment))
	}

	if cfg.OpenAI.APIKey != "" {
		client := openai.NewClient(cfg.OpenAI.APIKey,
			openai.WithBaseURL(cfg.OpenAI.BaseURL),
			openai.WithModel(cfg.OpenAI.Model),
		)
		providers = append(providers, analysis.NewOpenAIProvider(client, cfg.OpenAI.Model))
	}

	return analysis.New(providers...)
}

func initEnv(ctx context.Context) (*appEnv, error) {
	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}

	analyzer := initAnalyzer()
	env := &appEnv{
		Store:    st,
		Tokens:   auth.NewTokenManager(cfg.Auth.Secret, time.Duration(cfg.Auth.TokenTTLMinutes)*time.Minute),
		Analyzer: analyzer,
		Enricher: enrich.New(analyzer, st, cfg.Enrich.MaxConcurrent, time.Duration(cfg.Enrich.TimeoutSecs)*time.Second),
	}
	return env, nil
}
