package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultAPIURL        = "https://pokeapi.co/api/v2"
	DefaultAPITimeout    = 30 * time.Second
	DefaultRateLimit     = 10
	DefaultCacheTTL      = time.Hour
	DefaultOutputFormat  = "table"
	DefaultFreeCacheSize = 100 * 1024 * 1024
	DefaultRedisPrefix   = "pokecli:"
	DefaultNatsBucket    = "pokecli-cache"
)

type Config struct {
	SERVICE_NAME   string
	TRACE_URL      string
	CACHE_TYPE     string
	OUTPUT_FORMAT  string
	OUTPUT_COLORED bool
}

type APIConfig struct {
	URL        string
	TIMEOUT    time.Duration
	RATE_LIMIT int
}

type CacheConfig struct {
	ENABLED bool
	TTL     time.Duration
}

type FreeCacheConfig struct {
	SIZE_BYTES int
}

type RedisConfig struct {
	URL            string
	ClientPassword string
	KEY_PREFIX     string
}

type NatsConfig struct {
	URL               string
	BUCKET_NAME       string
	BUCKET_SIZE_BYTES int
	TTL               time.Duration
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func convertStringToInt(s string, key string, def int) (int, error) {
	if s == "" {
		return def, nil
	}
	sInt, err := strconv.Atoi(s)
	if err != nil {
		return -1, fmt.Errorf("error initializing config with key: %s, err: %v", key, err)
	}
	return sInt, nil
}

func convertStringToBool(s string, key string, def bool) (bool, error) {
	if s == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("KEY: %s is invalid", key)
	}
	return b, nil
}

// convertStringToDuration accepts Go durations ("90s", "1h") and, like the
// other integer settings, a bare number of seconds.
func convertStringToDuration(s string, key string, def time.Duration) (time.Duration, error) {
	if s == "" {
		return def, nil
	}
	if secs, err := strconv.Atoi(s); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("error initializing config with key: %s, err: %v", key, err)
	}
	return d, nil
}

func GetConfig() (*Config, error) {
	sn := env("SERVICE_NAME")
	if sn == "" {
		sn = "pokecli"
	}
	ct := strings.ToLower(env("CACHE_TYPE"))
	switch ct {
	case "":
		ct = "memory"
	case "memory", "freecache", "redis", "jetstream", "none":
	default:
		return nil, fmt.Errorf("KEY: CACHE_TYPE is invalid: %q", ct)
	}
	of := strings.ToLower(env("OUTPUT_FORMAT"))
	if of == "" {
		of = DefaultOutputFormat
	}
	colored, err := convertStringToBool(env("OUTPUT_COLORED"), "OUTPUT_COLORED", true)
	if err != nil {
		return nil, err
	}
	return &Config{
		SERVICE_NAME:   sn,
		TRACE_URL:      env("TRACE_URL"),
		CACHE_TYPE:     ct,
		OUTPUT_FORMAT:  of,
		OUTPUT_COLORED: colored,
	}, nil
}

func GetAPIConfig() (*APIConfig, error) {
	url := strings.TrimRight(env("POKEAPI_URL"), "/")
	if url == "" {
		url = DefaultAPIURL
	}
	timeout, err := convertStringToDuration(env("POKEAPI_TIMEOUT"), "POKEAPI_TIMEOUT", DefaultAPITimeout)
	if err != nil {
		return nil, err
	}
	if timeout <= 0 {
		return nil, fmt.Errorf("KEY: POKEAPI_TIMEOUT is invalid")
	}
	rl, err := convertStringToInt(env("POKEAPI_RATE_LIMIT"), "POKEAPI_RATE_LIMIT", DefaultRateLimit)
	if err != nil {
		return nil, err
	}
	if rl <= 0 {
		return nil, fmt.Errorf("KEY: POKEAPI_RATE_LIMIT is invalid")
	}
	return &APIConfig{
		URL:        url,
		TIMEOUT:    timeout,
		RATE_LIMIT: rl,
	}, nil
}

func GetCacheConfig() (*CacheConfig, error) {
	enabled, err := convertStringToBool(env("CACHE_ENABLED"), "CACHE_ENABLED", true)
	if err != nil {
		return nil, err
	}
	ttl, err := convertStringToDuration(env("CACHE_TTL"), "CACHE_TTL", DefaultCacheTTL)
	if err != nil {
		return nil, err
	}
	if ttl < 0 {
		return nil, fmt.Errorf("KEY: CACHE_TTL is invalid")
	}
	return &CacheConfig{
		ENABLED: enabled,
		TTL:     ttl,
	}, nil
}

func GetFreeCacheConfig() (*FreeCacheConfig, error) {
	fs, err := convertStringToInt(env("FREECACHE_SIZE"), "FREECACHE_SIZE", DefaultFreeCacheSize)
	if err != nil {
		return nil, err
	}
	if fs <= 0 {
		return nil, fmt.Errorf("KEY: FREECACHE_SIZE is invalid")
	}
	return &FreeCacheConfig{
		SIZE_BYTES: fs,
	}, nil
}

func GetRedisConfig() (*RedisConfig, error) {
	url := env("REDIS_ENDPOINT")
	if url == "" {
		return nil, fmt.Errorf("KEY: REDIS_ENDPOINT is empty")
	}
	prefix := env("REDIS_KEY_PREFIX")
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisConfig{
		URL:            url,
		ClientPassword: env("REDIS_CLIENT_PASSWORD"),
		KEY_PREFIX:     prefix,
	}, nil
}

func GetNatsConfig() (*NatsConfig, error) {
	url := env("JETSTREAM_URL")
	if url == "" {
		return nil, fmt.Errorf("KEY: JETSTREAM_URL is empty")
	}
	bn := env("JETSTREAM_BUCKET_NAME")
	if bn == "" {
		bn = DefaultNatsBucket
	}
	bs, err := convertStringToInt(env("JETSTREAM_BUCKET_SIZE"), "JETSTREAM_BUCKET_SIZE", -1)
	if err != nil {
		return nil, err
	}
	ttl, err := convertStringToDuration(env("JETSTREAM_TTL"), "JETSTREAM_TTL", 24*time.Hour)
	if err != nil {
		return nil, err
	}
	return &NatsConfig{
		URL:               url,
		BUCKET_NAME:       bn,
		BUCKET_SIZE_BYTES: bs,
		TTL:               ttl,
	}, nil
}
