package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	AES       AESConfig       `mapstructure:"aes"`
	Log       LogConfig       `mapstructure:"log"`
	Risk      RiskConfig      `mapstructure:"risk"`
	Providers ProvidersConfig `mapstructure:"providers"`
	Ledger    LedgerConfig    `mapstructure:"ledger"`
	Finalizer FinalizerConfig `mapstructure:"finalizer"`
	NATS      NATSConfig      `mapstructure:"nats"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug, release, test
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Addr returns the Redis address string.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type JWTConfig struct {
	Secret string        `mapstructure:"secret"`
	Expiry time.Duration `mapstructure:"expiry"`
	Issuer string        `mapstructure:"issuer"`
}

type AESConfig struct {
	Key string `mapstructure:"key"` // 32-byte hex-encoded key for AES-256
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Pretty bool   `mapstructure:"pretty"` // human-readable output (dev only)
}

type RiskConfig struct {
	CounterBackend     string        `mapstructure:"counter_backend"` // postgres, redis
	VelocityMultiplier int64         `mapstructure:"velocity_multiplier"`
	FailClosedGates    []string      `mapstructure:"fail_closed_gates"`
	PolicyTimeout      time.Duration `mapstructure:"policy_timeout"`
}

// FailClosed reports whether an indeterminate result of gate must deny.
func (r RiskConfig) FailClosed(gate string) bool {
	for _, g := range r.FailClosedGates {
		if strings.EqualFold(strings.TrimSpace(g), gate) {
			return true
		}
	}
	return false
}

type ProvidersConfig struct {
	Simulated       bool          `mapstructure:"simulated"`
	SimulationDelay time.Duration `mapstructure:"simulation_delay"`
	WebhookSecret   string        `mapstructure:"webhook_secret"`
	DedupTTL        time.Duration `mapstructure:"dedup_ttl"`
	IdempotencyTTL  time.Duration `mapstructure:"idempotency_ttl"`
}

type LedgerConfig struct {
	BaseURL string        `mapstructure:"base_url"` // empty = log-only allocator
	APIKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type FinalizerConfig struct {
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
	ClaimTTL      time.Duration `mapstructure:"claim_ttl"`
	BatchSize     int           `mapstructure:"batch_size"`
}

type NATSConfig struct {
	URL           string `mapstructure:"url"` // empty = publishing disabled
	SubjectPrefix string `mapstructure:"subject_prefix"`
	ClientName    string `mapstructure:"client_name"`
}

// Load reads configuration from file and environment variables.
// Environment variables override file values. Prefix: MMG_ (Mobile Money Gateway).
// Nested keys use underscore: MMG_DATABASE_HOST, MMG_RISK_COUNTER_BACKEND, etc.
func Load(path string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.dbname", "mobile_money")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 20)
	v.SetDefault("database.min_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expiry", "24h")
	v.SetDefault("jwt.issuer", "mobile-money-gateway")
	v.SetDefault("aes.key", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)
	v.SetDefault("risk.counter_backend", "postgres")
	v.SetDefault("risk.velocity_multiplier", 2)
	v.SetDefault("risk.fail_closed_gates", []string{})
	v.SetDefault("risk.policy_timeout", "2s")
	v.SetDefault("providers.simulated", false)
	v.SetDefault("providers.simulation_delay", "10s")
	v.SetDefault("providers.webhook_secret", "")
	v.SetDefault("providers.dedup_ttl", "24h")
	v.SetDefault("providers.idempotency_ttl", "24h")
	v.SetDefault("ledger.base_url", "")
	v.SetDefault("ledger.api_key", "")
	v.SetDefault("ledger.timeout", "5s")
	v.SetDefault("finalizer.sweep_interval", "1m")
	v.SetDefault("finalizer.claim_ttl", "2m")
	v.SetDefault("finalizer.batch_size", 50)
	v.SetDefault("nats.url", "")
	v.SetDefault("nats.subject_prefix", "mmg")
	v.SetDefault("nats.client_name", "mobile-money-gateway")

	// File config
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables: MMG_DATABASE_HOST -> database.host
	v.SetEnvPrefix("MMG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (not required, env vars can suffice)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}
