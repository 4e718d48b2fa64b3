package configs

import (
	"fmt"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/parlorchat/parlor/internal/infrastructure/env"
)

type Config struct {
	HTTP        HTTPConfig        `koanf:"http"`
	Auth        AuthConfig        `koanf:"auth"`
	Store       StoreConfig       `koanf:"store"`
	RateLimiter RateLimiterConfig `koanf:"rateLimiter"`
}

type HTTPConfig struct {
	Host         string        `koanf:"host"`
	Port         uint16        `koanf:"port"`
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
}

type AuthConfig struct {
	Secret   string        `koanf:"secret"`
	TokenTTL time.Duration `koanf:"token_ttl"`
	Issuer   string        `koanf:"issuer"`
}

type StoreConfig struct {
	Path string `koanf:"path"`
}

type RateLimiterConfig struct {
	RequestsPerTimeFrame int           `koanf:"requestsPerTimeFrame"`
	TimeFrame            time.Duration `koanf:"timeFrame"`
}

func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	applyDefaults(k)
	applyEnvOverrides(k)

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func applyDefaults(k *koanf.Koanf) {
	setDefault(k, "http.host", "0.0.0.0")
	setDefault(k, "http.port", 8080)
	setDefault(k, "http.read_timeout", 10*time.Second)
	setDefault(k, "http.write_timeout", 30*time.Second)

	setDefault(k, "auth.token_ttl", 7*24*time.Hour)
	setDefault(k, "auth.issuer", "parlor")

	setDefault(k, "store.path", "./data")

	setDefault(k, "rateLimiter.requestsPerTimeFrame", 20)
	setDefault(k, "rateLimiter.timeFrame", 5*time.Second)
}

func applyEnvOverrides(k *koanf.Koanf) {
	if host := env.GetString("HTTP_HOST", ""); host != "" {
		k.Set("http.host", host)
	}
	if port := env.GetInt("HTTP_PORT", 0); port > 0 {
		k.Set("http.port", port)
	}
	if readTimeout := env.GetDuration("HTTP_READ_TIMEOUT", 0); readTimeout > 0 {
		k.Set("http.read_timeout", readTimeout)
	}
	if writeTimeout := env.GetDuration("HTTP_WRITE_TIMEOUT", 0); writeTimeout > 0 {
		k.Set("http.write_timeout", writeTimeout)
	}

	if secret := env.GetString("AUTH_SECRET", ""); secret != "" {
		k.Set("auth.secret", secret)
	}
	if ttl := env.GetDuration("AUTH_TOKEN_TTL", 0); ttl > 0 {
		k.Set("auth.token_ttl", ttl)
	}

	if storePath := env.GetString("STORE_PATH", ""); storePath != "" {
		k.Set("store.path", storePath)
	}

	if limit := env.GetInt("RATE_LIMIT_REQUESTS", 0); limit > 0 {
		k.Set("rateLimiter.requestsPerTimeFrame", limit)
	}
	if frame := env.GetDuration("RATE_LIMIT_TIME_FRAME", 0); frame > 0 {
		k.Set("rateLimiter.timeFrame", frame)
	}
}

// setDefault only sets the value if the key doesn't already exist
func setDefault(k *koanf.Koanf, key string, value interface{}) {
	if !k.Exists(key) {
		k.Set(key, value)
	}
}
