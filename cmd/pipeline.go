package cmd

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/cv-parser/internal/ai"
	"github.com/spigell/cv-parser/internal/ai/gemini"
	"github.com/spigell/cv-parser/internal/cache"
	"github.com/spigell/cv-parser/internal/cv"
	"github.com/spigell/cv-parser/internal/metrics"
	"github.com/spigell/cv-parser/internal/processor"
	"github.com/spigell/cv-parser/internal/secrets"
)

var apiKeyEnv = []string{"GOOGLE_API_KEY", "GEMINI_API_KEY"}

// newExtractor builds the Gemini extractor, wrapped by the Redis draft cache
// when one is configured. The returned func releases the cache connection.
func newExtractor(ctx context.Context, config *Config, logger *zap.Logger, m *metrics.Metrics) (ai.Extractor, func(), error) {
	noop := func() {}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		File:  config.Gemini.APIKeyFile,
		Env:   apiKeyEnv,
		Value: config.Gemini.APIKey,
	})
	if err != nil {
		return nil, noop, fmt.Errorf("%w (set gemini.api-key-file, GOOGLE_API_KEY or gemini.api-key)", err)
	}

	genLogger := logger.With(zap.Int("ai_retry_attempts", config.Gemini.MaxRetries))

	generator, err := gemini.NewGenerator(ctx, apiKey, gemini.GeneratorConfig{
		Model:           config.Gemini.Model,
		Temperature:     config.Gemini.Temperature,
		MaxOutputTokens: config.Gemini.MaxOutputTokens,
		MaxRetries:      config.Gemini.MaxRetries,
	}, genLogger)
	if err != nil {
		return nil, noop, err
	}

	extractor := gemini.NewExtractor(generator, logger, config.Gemini.MaxLogLength)

	if config.Cache.RedisAddr == "" {
		logger.Debug("draft cache disabled", zap.String("reason", "cache.redis-addr is not set"))
		return extractor, noop, nil
	}

	store := cache.NewRedis(config.Cache.RedisAddr, config.Cache.RedisPassword, config.Cache.RedisDB)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := store.Ping(pingCtx); err != nil {
		logger.Warn("draft cache is unreachable, requests will go to the model", zap.Error(err))
	}

	cached := ai.NewCachedExtractor(extractor, store, generator.Model(), config.Cache.TTL, logger)
	if m != nil {
		cached.WithObserver(m)
	}

	logger.Info("draft cache enabled",
		zap.String("redis_addr", config.Cache.RedisAddr),
		zap.Duration("ttl", config.Cache.TTL),
	)

	return cached, func() { _ = store.Close() }, nil
}

func newProcessor(config *Config, extractor ai.Extractor, logger *zap.Logger) *processor.Processor {
	return processor.New(processor.Config{
		MaxBytes: int64(config.Server.MaxUploadMB) << 20,
	}, extractor, cv.NewNormalizer(), logger)
}
