package storage

import (
	"encoding/json"
	"math"
)

// Default configuration values.
const (
	DefaultCacheControl        = "max-age=31536000"
	DefaultPresignedURLExpires = 60 * 60 // seconds
	DefaultRegion              = "auto"
)

// Config holds R2 (or any S3-compatible) storage configuration.
// Embed this in your app config for env parsing with caarlos0/env.
type Config struct {
	// Bucket is the bucket name (required).
	Bucket string `env:"R2_BUCKET,required"`

	// Endpoint is the S3 API endpoint, e.g. https://<account>.r2.cloudflarestorage.com (required).
	Endpoint string `env:"R2_ENDPOINT,required"`

	// AccessKey is the access key ID (required).
	AccessKey string `env:"R2_ACCESS_KEY,required"`

	// SecretKey is the secret access key (required).
	SecretKey string `env:"R2_SECRET_KEY,required"`

	// PublicURL is the public bucket or CDN URL prefix (required).
	PublicURL string `env:"R2_PUBLIC_URL,required"`

	// CacheControl is sent with every public and private upload.
	CacheControl string `env:"R2_CACHE_CONTROL" envDefault:"max-age=31536000"`

	// PresignedURLExpires is the presigned URL lifetime in seconds.
	PresignedURLExpires int `env:"R2_PRESIGNED_URL_EXPIRES" envDefault:"3600"`
}

// Configuration mapping keys accepted by ConfigFromMap.
const (
	KeyBucket              = "bucket"
	KeyEndpoint            = "endpoint"
	KeyAccessKey           = "access_key"
	KeySecretKey           = "secret_key"
	KeyPublicURL           = "public_url"
	KeyCacheControl        = "cache_control"
	KeyPresignedURLExpires = "presigned_url_expires"
)

// ConfigFromMap builds a Config from a loosely typed options mapping,
// as handed over by plugin hosts that decode options from JSON or YAML.
// Required keys must hold non-empty strings. Optional keys holding a value
// of the wrong type are ignored and the default applies.
func ConfigFromMap(m map[string]any) (Config, error) {
	var cfg Config

	required := []struct {
		key string
		dst *string
	}{
		{KeyBucket, &cfg.Bucket},
		{KeyEndpoint, &cfg.Endpoint},
		{KeyAccessKey, &cfg.AccessKey},
		{KeySecretKey, &cfg.SecretKey},
		{KeyPublicURL, &cfg.PublicURL},
	}
	for _, r := range required {
		s, ok := m[r.key].(string)
		if !ok || s == "" {
			return Config{}, &ConfigurationError{Field: r.key}
		}
		*r.dst = s
	}

	if s, ok := m[KeyCacheControl].(string); ok {
		cfg.CacheControl = s
	}
	if n, ok := toSeconds(m[KeyPresignedURLExpires]); ok {
		cfg.PresignedURLExpires = n
	}

	cfg.applyDefaults()
	return cfg, nil
}

// toSeconds converts numeric mapping values to whole seconds.
func toSeconds(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case uint:
		return int(n), true
	case uint32:
		return int(n), true
	case uint64:
		return int(n), true
	case float32:
		return int(math.Round(float64(n))), true
	case float64:
		return int(math.Round(n)), true
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return int(i), true
		}
		if f, err := n.Float64(); err == nil {
			return int(math.Round(f)), true
		}
	}
	return 0, false
}

// applyDefaults fills in default values for empty config fields.
func (c *Config) applyDefaults() {
	if c.CacheControl == "" {
		c.CacheControl = DefaultCacheControl
	}
	if c.PresignedURLExpires <= 0 {
		c.PresignedURLExpires = DefaultPresignedURLExpires
	}
}

// validate checks that required configuration fields are set.
// The first missing field is reported.
func (c *Config) validate() error {
	switch {
	case c.Bucket == "":
		return &ConfigurationError{Field: KeyBucket}
	case c.Endpoint == "":
		return &ConfigurationError{Field: KeyEndpoint}
	case c.AccessKey == "":
		return &ConfigurationError{Field: KeyAccessKey}
	case c.SecretKey == "":
		return &ConfigurationError{Field: KeySecretKey}
	case c.PublicURL == "":
		return &ConfigurationError{Field: KeyPublicURL}
	}
	return nil
}
