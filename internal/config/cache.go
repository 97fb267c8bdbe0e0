package config

import (
	"strings"
	"time"
)

// CacheConfig controls the Redis response cache in front of the catalog
// proxy.  Catalog pages are identical for every user and change slowly
// upstream, so a short shared TTL removes most upstream calls without
// serving stale search results for long.
type CacheConfig struct {
	Enabled      bool
	Methods      map[string]bool // HTTP methods eligible for caching
	TTL          time.Duration
	KeyStrategy  string // which request attributes form the cache key
	Prefix       string // Redis key namespace
	MaxBodyBytes int    // bodies larger than this are not cached
}

// LoadCacheConfig reads CACHE_* environment variables.  Only GET is
// cached by default; the key includes the query string because the
// catalog endpoints are driven entirely by query parameters.
func LoadCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled:      envBool("CACHE_ENABLED", true),
		Methods:      parseMethods(envStr("CACHE_METHODS", "GET")),
		TTL:          envDur("CACHE_TTL", 5*time.Minute),
		KeyStrategy:  envStr("CACHE_KEY_STRATEGY", "route_query"),
		Prefix:       envStr("CACHE_PREFIX", "cache"),
		MaxBodyBytes: envInt("CACHE_MAX_BODY_BYTES", 1<<20),
	}
}

func parseMethods(s string) map[string]bool {
	m := map[string]bool{}
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(strings.ToUpper(p)); p != "" {
			m[p] = true
		}
	}
	return m
}
