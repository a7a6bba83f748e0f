package config

import (
	"encoding/base64"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config carries everything cmd/server needs to wire the service. Values come
// from the environment so main stays lean.
type Config struct {
	Addr     string `envconfig:"SAHAYAK_ADDR" default:":8080"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// StoreBackend selects the record store: memory, redis or postgres.
	StoreBackend string `envconfig:"STORE_BACKEND" default:"memory"`
	PostgresURL  string `envconfig:"POSTGRES_URL"`

	Redis RedisConfig

	// SealingKey protects full Aadhaar numbers at rest (base64, 32 bytes).
	// The default is for development only.
	SealingKey string `envconfig:"SEALING_KEY" default:"ZGV2LW9ubHktc2VhbGluZy1rZXktMzItYnl0ZXMhISE="`

	JWTSigningKey    string        `envconfig:"JWT_SIGNING_KEY" default:"dev-secret-key-change-in-production"`
	DeliveryTokenTTL time.Duration `envconfig:"DELIVERY_TOKEN_TTL" default:"10m"`

	// DemoOTP is the fixed code accepted by the mock authenticator. Real
	// deployments plug in an SMS-backed authenticator instead.
	DemoOTP string `envconfig:"DEMO_OTP" default:"123456"`

	// OTPRateLimit caps OTP verification attempts per client IP per window.
	OTPRateLimit  int           `envconfig:"OTP_RATE_LIMIT" default:"5"`
	OTPRateWindow time.Duration `envconfig:"OTP_RATE_WINDOW" default:"1m"`

	Sync  SyncConfig
	Fence FenceConfig
	Kafka KafkaConfig
}

// SyncConfig controls the reconciler's simulated upload and its abort path.
type SyncConfig struct {
	UploadDelay time.Duration `envconfig:"SYNC_UPLOAD_DELAY" default:"2s"`
	Timeout     time.Duration `envconfig:"SYNC_TIMEOUT" default:"10s"`
	PortalURL   string        `envconfig:"PORTAL_URL"`
}

// FenceConfig describes the delivery geo-fence around the village center.
type FenceConfig struct {
	CenterLat    float64 `envconfig:"VILLAGE_CENTER_LAT" default:"28.6139"`
	CenterLon    float64 `envconfig:"VILLAGE_CENTER_LON" default:"77.2090"`
	RadiusMeters float64 `envconfig:"GEOFENCE_RADIUS_METERS" default:"500"`
}

// KafkaConfig configures the optional audit-trail sink. Empty brokers means
// events stay on the local log only.
type KafkaConfig struct {
	Brokers []string `envconfig:"KAFKA_BROKERS"`
	Topic   string   `envconfig:"KAFKA_AUDIT_TOPIC" default:"sahayak.audit"`
}

// RedisConfig mirrors the go-redis options we allow operators to override.
type RedisConfig struct {
	URL          string        `envconfig:"REDIS_URL"`
	PoolSize     int           `envconfig:"REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"REDIS_READ_TIMEOUT" default:"3s"`
	WriteTimeout time.Duration `envconfig:"REDIS_WRITE_TIMEOUT" default:"3s"`
}

// Load processes the environment into a Config.
func Load() (*Config, error) {
	cfg := new(Config)
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("process environment config: %w", err)
	}

	switch cfg.StoreBackend {
	case "memory", "redis", "postgres":
	default:
		return nil, fmt.Errorf("unknown STORE_BACKEND %q", cfg.StoreBackend)
	}
	if cfg.StoreBackend == "redis" && cfg.Redis.URL == "" {
		return nil, fmt.Errorf("set REDIS_URL when STORE_BACKEND=redis")
	}
	if cfg.StoreBackend == "postgres" && cfg.PostgresURL == "" {
		return nil, fmt.Errorf("set POSTGRES_URL when STORE_BACKEND=postgres")
	}
	if _, err := cfg.SealingKeyBytes(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SealingKeyBytes decodes the configured sealing key.
func (c *Config) SealingKeyBytes() ([]byte, error) {
	key, err := base64.StdEncoding.DecodeString(c.SealingKey)
	if err != nil {
		return nil, fmt.Errorf("SEALING_KEY is not valid base64: %w", err)
	}
	return key, nil
}
