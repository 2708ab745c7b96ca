// Package config loads runtime settings from the environment.
package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string        `env:"PORT,       default=8080"`
	Env       string        `env:"ENV,        default=development"`
	JWTSecret string        `env:"JWT_SECRET"`
	JWTTTL    time.Duration `env:"JWT_TTL,    default=24h"`
	LogLevel  string        `env:"LOG_LEVEL,  default=info"`
	LogPretty bool          `env:"LOG_PRETTY, default=false"`

	Mongo  MongoConfig
	Redis  RedisConfig
	SOS    SOSConfig
	Notify NotifyConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=safespace"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

// SOSConfig tunes the emergency fan-out.
type SOSConfig struct {
	Workers        int           `env:"SOS_WORKERS,         default=8"`
	AckTimeout     time.Duration `env:"SOS_ACK_TIMEOUT,     default=5s"`
	AttemptTimeout time.Duration `env:"SOS_ATTEMPT_TIMEOUT, default=10s"`
	LockTTL        time.Duration `env:"SOS_LOCK_TTL,        default=10s"`
	Stream         string        `env:"SOS_STREAM,          default=safespace:sos:events"`
}

// NotifyConfig selects and configures the outbound channels. Channels are
// tried in the listed order for every contact.
type NotifyConfig struct {
	Channels []string `env:"NOTIFY_CHANNELS, default=sms,email,push"`

	SMSGatewayURL string `env:"SMS_GATEWAY_URL"`
	SMSAPIKey     string `env:"SMS_API_KEY"`
	SMSSender     string `env:"SMS_SENDER, default=SafeSpace"`

	EmailAPIURL string `env:"EMAIL_API_URL"`
	EmailAPIKey string `env:"EMAIL_API_KEY"`
	EmailFrom   string `env:"EMAIL_FROM, default=alerts@safespace.local"`

	MQTTBroker      string `env:"MQTT_BROKER"`
	MQTTClientID    string `env:"MQTT_CLIENT_ID,    default=safespace-api"`
	MQTTUsername    string `env:"MQTT_USERNAME"`
	MQTTPassword    string `env:"MQTT_PASSWORD"`
	MQTTTopicPrefix string `env:"MQTT_TOPIC_PREFIX, default=safespace"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.JWTSecret) == "" {
		return errors.New("config: JWT_SECRET is required")
	}
	for i, name := range c.Notify.Channels {
		name = strings.ToLower(strings.TrimSpace(name))
		switch name {
		case "sms", "email", "push":
		default:
			return fmt.Errorf("config: unknown notification channel %q", name)
		}
		c.Notify.Channels[i] = name
	}
	return nil
}

// IsProduction reports whether ENV is production.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}
