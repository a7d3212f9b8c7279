package ai

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/cv-parser/internal/cv"
)

const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"

	keyPrefix = "cv-parser:draft:"
)

// DraftStore persists serialized drafts between requests.
type DraftStore interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

type cacheObserver interface {
	CacheResult(result string)
}

// CachedExtractor reuses drafts for CV texts that were already extracted with
// the same model. Store failures are logged and never fail the extraction.
type CachedExtractor struct {
	next     Extractor
	store    DraftStore
	model    string
	ttl      time.Duration
	logger   *zap.Logger
	observer cacheObserver
}

func NewCachedExtractor(next Extractor, store DraftStore, model string, ttl time.Duration, logger *zap.Logger) *CachedExtractor {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &CachedExtractor{
		next:   next,
		store:  store,
		model:  model,
		ttl:    ttl,
		logger: logger,
	}
}

// WithObserver reports every lookup result to o.
func (c *CachedExtractor) WithObserver(o cacheObserver) *CachedExtractor {
	c.observer = o
	return c
}

func (c *CachedExtractor) Extract(ctx context.Context, cvText string) (*cv.EmployeeRecord, error) {
	key := DraftKey(c.model, cvText)

	if draft, ok := c.lookup(ctx, key); ok {
		return draft, nil
	}

	draft, err := c.next.Extract(ctx, cvText)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(draft)
	if err != nil {
		c.logger.Warn("encoding draft for cache", zap.Error(err))
		return draft, nil
	}

	if err := c.store.Set(ctx, key, payload, c.ttl); err != nil {
		c.logger.Warn("storing draft in cache", zap.String("key", key), zap.Error(err))
	}

	return draft, nil
}

func (c *CachedExtractor) lookup(ctx context.Context, key string) (*cv.EmployeeRecord, bool) {
	payload, found, err := c.store.Get(ctx, key)
	if err != nil {
		c.logger.Warn("reading draft from cache", zap.String("key", key), zap.Error(err))
		c.observe(CacheError)
		return nil, false
	}

	if !found {
		c.observe(CacheMiss)
		return nil, false
	}

	var draft cv.EmployeeRecord
	if err := json.Unmarshal(payload, &draft); err != nil {
		c.logger.Warn("decoding cached draft", zap.String("key", key), zap.Error(err))
		c.observe(CacheError)
		return nil, false
	}

	c.logger.Debug("draft served from cache", zap.String("key", key))
	c.observe(CacheHit)
	return &draft, true
}

func (c *CachedExtractor) observe(result string) {
	if c.observer != nil {
		c.observer.CacheResult(result)
	}
}

// DraftKey derives the cache key from the model and the exact CV text.
func DraftKey(model, cvText string) string {
	sum := sha256.Sum256([]byte(model + "\x00" + cvText))
	return fmt.Sprintf("%s%x", keyPrefix, sum[:])
}
