package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/ppiankov/storybook/internal/model"
)

// Cache stores generated content by key
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

const keyPrefix = "storybook:v1:"

// GenerationKey derives the cache key of a generation request. Two requests
// share a key when they ask for the same section of the same book with the
// same stories in the same order.
func GenerationKey(genType model.GenerationType, meta model.BookMetadata, titles []string) string {
	h := sha256.New()
	for _, part := range []string{
		string(genType),
		meta.Title,
		meta.Author,
		meta.Language,
		strings.Join(titles, "\x1f"),
	} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return keyPrefix + hex.EncodeToString(h.Sum(nil))
}

// New builds the cache described by cfg. A disabled cache never stores anything.
func New(cfg model.CacheConfig) Cache {
	if !cfg.Enabled {
		return NopCache{}
	}
	if cfg.DiskDir == "" {
		return NewMemoryCache(cfg.MemoryTTL, 10*time.Minute)
	}
	return NewLayeredCache(cfg.MemoryTTL, cfg.DiskDir, cfg.DiskTTL)
}

// NopCache discards writes and never hits
type NopCache struct{}

func (NopCache) Get(string) ([]byte, bool) {
	return nil, false
}

func (NopCache) Set(string, []byte, time.Duration) error {
	return nil
}

func (NopCache) Delete(string) error {
	return nil
}

func (NopCache) Clear() error {
	return nil
}
