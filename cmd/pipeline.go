package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/odudnyk/cvscout/internal/ai"
	"github.com/odudnyk/cvscout/internal/ai/gemini"
	"github.com/odudnyk/cvscout/internal/exchange"
	"github.com/odudnyk/cvscout/internal/filtering"
	"github.com/odudnyk/cvscout/internal/resume"
	"github.com/odudnyk/cvscout/internal/secrets"
	"github.com/odudnyk/cvscout/internal/source"

	// Site adapters register themselves, driver style.
	_ "github.com/odudnyk/cvscout/internal/source/robotaua"
	_ "github.com/odudnyk/cvscout/internal/source/workua"
)

// pipeline wires the shared machinery behind both the CLI and the bot: one
// exchange client, one optional AI matcher, one filter chain.
type pipeline struct {
	logger  *zap.Logger
	config  *Config
	deps    source.Deps
	filters *filtering.Config
	matcher ai.Matcher
	query   *ai.Query
}

func newPipeline(ctx context.Context, config *Config, logger *zap.Logger) (*pipeline, error) {
	if config == nil {
		return nil, errors.New("config is required")
	}
	if config.Search == nil || strings.TrimSpace(config.Search.Position) == "" {
		return nil, errors.New("search position is required under search.position")
	}

	apiKeyFile := ""
	if config.Exchange != nil {
		apiKeyFile = config.Exchange.APIKeyFile
	}
	exchangeKey, err := secrets.Load(secrets.Source{
		Name: "exchange api key",
		File: apiKeyFile,
		Env:  "EXCHANGE_API_KEY",
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set exchange.api-key-file or EXCHANGE_API_KEY)", err)
	}

	deps := source.Deps{
		Logger: logger,
		Rates:  exchange.New(exchangeKey, logger),
	}

	if config.Robota != nil {
		deps.LoginEmail = config.Robota.Email

		if config.Robota.PasswordFile != "" {
			password, err := secrets.Load(secrets.Source{
				Name: "robota.ua password",
				File: config.Robota.PasswordFile,
				Env:  "ROBOTA_PASSWORD",
			})
			if err != nil {
				return nil, err
			}
			deps.LoginPassword = password
		}
	}

	p := &pipeline{
		logger:  logger,
		config:  config,
		deps:    deps,
		filters: config.filterConfig(),
	}

	if config.AI != nil && config.AI.Enabled {
		matcher, err := newAIMatcher(ctx, config.AI, logger)
		if err != nil {
			return nil, err
		}
		p.matcher = matcher
		p.query = &ai.Query{
			Position: config.Search.Position,
			Location: p.filters.Location,
			Skills:   p.filters.Skills,
		}
	}

	return p, nil
}

// scrape runs the full pipeline for one site: adapter construction, scrape
// with scoring, then the filter chain when narrowing is requested.
func (p *pipeline) scrape(ctx context.Context, site string, narrow bool) (*resume.Resumes, error) {
	parser, err := source.Get(site, p.deps)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := parser.Close(); err != nil {
			p.logger.Warn("closing adapter", zap.String("site", site), zap.Error(err))
		}
	}()

	p.logger.Info("starting the search",
		zap.String("site", site),
		zap.String("position", p.config.Search.Position),
		zap.String("url", parser.BuildURL(*p.config.Search)),
	)

	found, err := source.Scrape(ctx, parser, *p.config.Search)
	if err != nil {
		return nil, err
	}

	if !narrow {
		return found, nil
	}

	filterDeps := filtering.Deps{
		Logger:  p.logger,
		Matcher: p.matcher,
		Query:   p.query,
	}

	filtered, assessments, err := filtering.Run(ctx, p.filters, filterDeps, filtering.Default(), found)
	if err != nil {
		return nil, err
	}

	if len(assessments) > 0 {
		p.logger.Info("AI assessments collected", zap.Int("count", len(assessments)))
	}

	return filtered, nil
}

func newAIMatcher(ctx context.Context, cfg *AIConfig, logger *zap.Logger) (ai.Matcher, error) {
	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}
	if cfg.Gemini == nil {
		return nil, errors.New("gemini configuration is required when ai is enabled")
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: cfg.Gemini.APIKeyFile,
		Env:  "GEMINI_API_KEY",
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY)", err)
	}

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model)
	if err != nil {
		return nil, err
	}

	logger.Info("ai matcher configured",
		zap.String("provider", "gemini"),
		zap.String("model", generator.Model()),
		zap.Int("ai_retry_attempts", cfg.Gemini.MaxRetries),
	)

	return gemini.NewMatcher(generator, logger, cfg.MinimumFitScore, cfg.Gemini.MaxLogLength), nil
}
