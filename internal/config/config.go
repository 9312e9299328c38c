package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/url"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port       int    `mapstructure:"port"`
	CORSOrigin string `mapstructure:"cors_origin"`
	LogLevel   string `mapstructure:"log_level"`
	LogFormat  string `mapstructure:"log_format"`
	MaxRooms   int    `mapstructure:"max_rooms"`
	PublicURL  string `mapstructure:"public_url"`

	RateLimit float64 `mapstructure:"rate_limit"`
	RateBurst int     `mapstructure:"rate_burst"`

	Phrases  PhrasesConfig  `mapstructure:",squash"`
	Database DatabaseConfig `mapstructure:",squash"`
	Kafka    KafkaConfig    `mapstructure:",squash"`
}

type PhrasesConfig struct {
	// Source is one of embedded, file or postgres.
	Source   string `mapstructure:"phrases_source"`
	File     string `mapstructure:"phrases_file"`
	Category string `mapstructure:"phrases_category"`
}

// DatabaseConfig is disabled when Host is empty.
type DatabaseConfig struct {
	Host     string `mapstructure:"db_host"`
	Port     string `mapstructure:"db_port"`
	Database string `mapstructure:"db_database"`
	Username string `mapstructure:"db_username"`
	Password string `mapstructure:"db_password"`
	Schema   string `mapstructure:"db_schema"`
}

func (d DatabaseConfig) Enabled() bool {
	return d.Host != ""
}

// DSN is the pgx connection string.
func (d DatabaseConfig) DSN() string {
	q := url.Values{}
	q.Set("sslmode", "disable")
	q.Set("search_path", d.Schema)
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.Username, d.Password),
		Host:     net.JoinHostPort(d.Host, d.Port),
		Path:     "/" + d.Database,
		RawQuery: q.Encode(),
	}
	return u.String()
}

// KafkaConfig is disabled when Brokers is empty.
type KafkaConfig struct {
	Brokers string `mapstructure:"kafka_brokers"`
	Topic   string `mapstructure:"kafka_topic"`
}

func (k KafkaConfig) Enabled() bool {
	return len(k.BrokerList()) > 0
}

// BrokerList splits the comma separated broker list.
func (k KafkaConfig) BrokerList() []string {
	var out []string
	for _, b := range strings.Split(k.Brokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}

const (
	PhrasesEmbedded = "embedded"
	PhrasesFile     = "file"
	PhrasesPostgres = "postgres"
)

var defaults = map[string]any{
	"port":             3001,
	"cors_origin":      "http://localhost:3000",
	"log_level":        "info",
	"log_format":       "console",
	"max_rooms":        500,
	"public_url":       "http://localhost:3000",
	"rate_limit":       10,
	"rate_burst":       10,
	"phrases_source":   PhrasesEmbedded,
	"phrases_file":     "",
	"phrases_category": "Movies",
	"db_host":          "",
	"db_port":          "5432",
	"db_database":      "charades",
	"db_username":      "postgres",
	"db_password":      "",
	"db_schema":        "public",
	"kafka_brokers":    "",
	"kafka_topic":      "charades.events",
}

// Load reads .env files (if any) into the environment and builds the Config
// from environment variables over the defaults.
func Load(envFiles ...string) (Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load env file: %w", err)
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch {
	case c.Port <= 0 || c.Port > 65535:
		return fmt.Errorf("invalid PORT %d", c.Port)
	case c.MaxRooms <= 0:
		return fmt.Errorf("invalid MAX_ROOMS %d", c.MaxRooms)
	}
	switch c.Phrases.Source {
	case PhrasesEmbedded:
	case PhrasesFile:
		if c.Phrases.File == "" {
			return errors.New("PHRASES_SOURCE=file needs PHRASES_FILE")
		}
	case PhrasesPostgres:
		if !c.Database.Enabled() {
			return errors.New("PHRASES_SOURCE=postgres needs DB_HOST")
		}
	default:
		return fmt.Errorf("unknown PHRASES_SOURCE %q", c.Phrases.Source)
	}
	return nil
}
