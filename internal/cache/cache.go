package cache

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"
)

// ErrNotFound is what backends return for an absent key, so the fail-open
// logic never has to know driver-specific sentinels.
var ErrNotFound = errors.New("cache: key not found")

// Result classifies the outcome of a cache read at the boundary, so callers
// branch on a typed value instead of inspecting backend errors.
type Result int

const (
	// Hit means the key was present and decoded.
	Hit Result = iota
	// Miss means the key was absent.
	Miss
	// Error means the backend failed; callers treat it exactly like a miss.
	Error
)

// Backend is the minimal key-value surface the cache layer needs.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Ping(ctx context.Context) error
}

// Cache is the fail-open cache-aside layer over a Backend. Reads that fail
// are logged and reported as Error, writes that fail are logged and dropped;
// neither ever propagates to the pipeline.
type Cache struct {
	backend     Backend
	analysisTTL time.Duration
	textTTL     time.Duration
	log         zerolog.Logger
}

// New creates a cache layer with the two TTL classes: analysisTTL for
// numeric results, textTTL for generated explanation text.
func New(backend Backend, analysisTTL, textTTL time.Duration, log zerolog.Logger) *Cache {
	return &Cache{
		backend:     backend,
		analysisTTL: analysisTTL,
		textTTL:     textTTL,
		log:         log.With().Str("component", "cache").Logger(),
	}
}

// Get reads and decodes a cached value into dest. A backend failure is
// reported as Error; the caller falls through to direct computation either
// way, so the distinction only matters for logging and metrics.
func (c *Cache) Get(ctx context.Context, key string, dest interface{}) Result {
	raw, err := c.backend.Get(ctx, key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Miss
		}
		c.log.Warn().Err(err).Str("key", key).Msg("Cache read failed, computing directly")
		return Error
	}
	if err := msgpack.Unmarshal(raw, dest); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("Cache entry undecodable, computing directly")
		return Error
	}
	return Hit
}

// SetAnalysis stores a numeric analysis result under the analysis TTL.
func (c *Cache) SetAnalysis(ctx context.Context, key string, value interface{}) {
	c.set(ctx, key, value, c.analysisTTL)
}

// SetText stores generated text under the longer text TTL.
func (c *Cache) SetText(ctx context.Context, key string, value interface{}) {
	c.set(ctx, key, value, c.textTTL)
}

func (c *Cache) set(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	raw, err := msgpack.Marshal(value)
	if err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("Cache encode failed, skipping write")
		return
	}
	if err := c.backend.Set(ctx, key, raw, ttl); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("Cache write failed, result not cached")
	}
}

// Ping reports backend reachability for the status endpoint.
func (c *Cache) Ping(ctx context.Context) error {
	return c.backend.Ping(ctx)
}
