// Package cache stores rendered images keyed by request and render options.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strconv"
	"time"

	"barcodegen/internal/barcode"
)

const (
	BackendNone   = "none"
	BackendMemory = "memory"
	BackendRedis  = "redis"

	keyPrefix  = "barcodecache:"
	defaultTTL = 1 * time.Minute
)

// ErrMiss is returned by Get when the key is absent.
var ErrMiss = errors.New("cache miss")

// Store is a byte cache with per-entry expiry.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error
	Close() error
}

// Key derives a SHA256-based cache key from everything that affects the image.
func Key(symbology, data string, opts barcode.RenderOptions) string {
	h := sha256.New()
	h.Write([]byte(symbology))
	h.Write([]byte{0})
	h.Write([]byte(data))
	h.Write([]byte{0})
	for _, v := range []float64{opts.ModuleWidth, opts.ModuleHeight, opts.FontSize, opts.TextDistance, opts.QuietZone, opts.DPI} {
		h.Write([]byte(strconv.FormatFloat(v, 'f', 3, 64)))
		h.Write([]byte{';'})
	}
	return keyPrefix + hex.EncodeToString(h.Sum(nil))
}

func ttlOrDefault(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return defaultTTL
	}
	return ttl
}
