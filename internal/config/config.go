// Package config loads and validates the process configuration. Everything
// comes from the environment (optionally seeded from a .env file); the loaded
// Config value is passed explicitly to every component that needs it.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const minSecretLength = 32

// Config is the immutable configuration constructed once at process start.
type Config struct {
	Network    string
	Operator   OperatorConfig
	SaucerSwap SaucerSwapConfig
	Secrets    SecretConfig
	Audit      AuditStoreConfig
	Cache      CacheConfig
	Events     EventsConfig
	Metrics    MetricsConfig
	Log        LogConfig
	Networks   string
}

// OperatorConfig identifies the Hedera account that signs and pays for
// every transaction submitted by the server.
type OperatorConfig struct {
	AccountID  string
	PrivateKey string
}

// SaucerSwapConfig points at the quote API and the on-chain router.
type SaucerSwapConfig struct {
	APIBaseURL     string
	RouterContract string
}

// SecretConfig holds the two shared secrets reserved for session binding and
// webhook verification. No handler consumes them yet; startup still validates
// them so a misconfigured deployment fails fast.
type SecretConfig struct {
	SessionSecret string
	WebhookSecret string
}

// AuditStoreConfig selects the invocation history backend.
type AuditStoreConfig struct {
	Driver string // memory | mysql
	DSN    string
}

// CacheConfig selects the quote cache backend.
type CacheConfig struct {
	Driver        string // none | memory | redis
	RedisAddress  string
	RedisPassword string
	RedisDB       int
	TTLSeconds    int
}

// EventsConfig selects the transaction event publisher.
type EventsConfig struct {
	Driver string // none | rabbitmq
	URL    string
	Queue  string
}

// MetricsConfig controls the optional standalone metrics listener.
type MetricsConfig struct {
	Address string
}

// LogConfig mirrors pkg/logger.Config.
type LogConfig struct {
	Level        string
	Format       string
	AuditLogPath string
}

// Load reads the configuration from the environment. A .env file next to the
// working directory is honoured when present but never required.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Network: getenv("HEDERA_NETWORK", "testnet"),
		Operator: OperatorConfig{
			AccountID:  os.Getenv("HEDERA_ACCOUNT_ID"),
			PrivateKey: os.Getenv("HEDERA_PRIVATE_KEY"),
		},
		SaucerSwap: SaucerSwapConfig{
			APIBaseURL:     getenv("SAUCERSWAP_API_URL", "https://api.saucerswap.finance"),
			RouterContract: os.Getenv("SAUCERSWAP_ROUTER_CONTRACT"),
		},
		Secrets: SecretConfig{
			SessionSecret: os.Getenv("AYA_SESSION_SECRET"),
			WebhookSecret: os.Getenv("AYA_WEBHOOK_SECRET"),
		},
		Audit: AuditStoreConfig{
			Driver: getenv("AYA_AUDIT_DRIVER", "memory"),
			DSN:    os.Getenv("AYA_AUDIT_DSN"),
		},
		Cache: CacheConfig{
			Driver:        getenv("AYA_CACHE_DRIVER", "memory"),
			RedisAddress:  os.Getenv("AYA_REDIS_ADDR"),
			RedisPassword: os.Getenv("AYA_REDIS_PASSWORD"),
			RedisDB:       getenvInt("AYA_REDIS_DB", 0),
			TTLSeconds:    getenvInt("AYA_QUOTE_TTL_SECONDS", 15),
		},
		Events: EventsConfig{
			Driver: getenv("AYA_EVENTS_DRIVER", "none"),
			URL:    os.Getenv("AYA_AMQP_URL"),
			Queue:  getenv("AYA_AMQP_QUEUE", "aya.transactions"),
		},
		Metrics: MetricsConfig{
			Address: os.Getenv("AYA_METRICS_ADDR"),
		},
		Log: LogConfig{
			Level:        getenv("AYA_LOG_LEVEL", "info"),
			Format:       getenv("AYA_LOG_FORMAT", "json"),
			AuditLogPath: os.Getenv("AYA_AUDIT_LOG_PATH"),
		},
		Networks: os.Getenv("AYA_NETWORKS_FILE"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every field the server depends on. A validation failure is
// terminal: main exits non-zero without starting the transport.
func (c *Config) Validate() error {
	var errs []error

	switch c.Network {
	case "mainnet", "testnet", "previewnet":
	default:
		errs = append(errs, fmt.Errorf("HEDERA_NETWORK must be mainnet, testnet or previewnet, got %q", c.Network))
	}

	if strings.TrimSpace(c.Operator.AccountID) == "" {
		errs = append(errs, errors.New("HEDERA_ACCOUNT_ID is required"))
	}
	if strings.TrimSpace(c.Operator.PrivateKey) == "" {
		errs = append(errs, errors.New("HEDERA_PRIVATE_KEY is required"))
	}
	if strings.TrimSpace(c.SaucerSwap.RouterContract) == "" {
		errs = append(errs, errors.New("SAUCERSWAP_ROUTER_CONTRACT is required"))
	}

	if len(c.Secrets.SessionSecret) < minSecretLength {
		errs = append(errs, fmt.Errorf("AYA_SESSION_SECRET must be at least %d characters", minSecretLength))
	}
	if len(c.Secrets.WebhookSecret) < minSecretLength {
		errs = append(errs, fmt.Errorf("AYA_WEBHOOK_SECRET must be at least %d characters", minSecretLength))
	}

	switch c.Audit.Driver {
	case "memory":
	case "mysql":
		if strings.TrimSpace(c.Audit.DSN) == "" {
			errs = append(errs, errors.New("AYA_AUDIT_DSN is required when AYA_AUDIT_DRIVER=mysql"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown audit driver %q", c.Audit.Driver))
	}

	switch c.Cache.Driver {
	case "none", "memory":
	case "redis":
		if strings.TrimSpace(c.Cache.RedisAddress) == "" {
			errs = append(errs, errors.New("AYA_REDIS_ADDR is required when AYA_CACHE_DRIVER=redis"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown cache driver %q", c.Cache.Driver))
	}

	switch c.Events.Driver {
	case "none":
	case "rabbitmq":
		if strings.TrimSpace(c.Events.URL) == "" {
			errs = append(errs, errors.New("AYA_AMQP_URL is required when AYA_EVENTS_DRIVER=rabbitmq"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown events driver %q", c.Events.Driver))
	}

	return errors.Join(errs...)
}

func getenv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
