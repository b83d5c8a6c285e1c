// Package config loads settings from defaults, an optional YAML file, a
// .env file and PHISHAID_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/selimozcann/phishaid/internal/model"
)

// DefaultEndpoint is the hosted scoring service.
const DefaultEndpoint = "https://phishaid-api-1013270519404.asia-south1.run.app/check"

const envPrefix = "PHISHAID_"

type Config struct {
	Endpoint   string            `yaml:"endpoint" validate:"required,url"`
	Timeout    time.Duration     `yaml:"timeout" validate:"gt=0"`
	Normalizer string            `yaml:"normalizer" validate:"oneof=permissive strict"`
	RuleTable  string            `yaml:"rule_table" validate:"oneof=catalog response"`
	Proxy      string            `yaml:"proxy" validate:"omitempty,url"`
	UserAgent  string            `yaml:"user_agent"`
	Headers    map[string]string `yaml:"headers"`
	Listen     string            `yaml:"listen" validate:"required"`

	Batch struct {
		Threads   int `yaml:"threads" validate:"gte=1,lte=256"`
		RateLimit int `yaml:"rate_limit" validate:"gte=0"` // requests per second, 0 = unlimited
	} `yaml:"batch"`

	Log LogConfig `yaml:"log"`

	// Rules replaces the built-in rule catalog when non-empty.
	Rules []model.Rule `yaml:"rules" validate:"dive"`
}

type LogConfig struct {
	Level      string `yaml:"level" validate:"oneof=debug info warn error"`
	Format     string `yaml:"format" validate:"oneof=text json"`
	Dir        string `yaml:"dir"`
	MaxSizeMB  int    `yaml:"max_size_mb" validate:"gte=0"`
	MaxBackups int    `yaml:"max_backups" validate:"gte=0"`
	MaxAgeDays int    `yaml:"max_age_days" validate:"gte=0"`
}

func Default() Config {
	var c Config
	c.Endpoint = DefaultEndpoint
	c.Timeout = 10 * time.Second
	c.Normalizer = "permissive"
	c.RuleTable = "catalog"
	c.UserAgent = "phishaid/1.0"
	c.Listen = ":8080"
	c.Batch.Threads = 4
	c.Log.Level = "info"
	c.Log.Format = "text"
	c.Log.MaxSizeMB = 50
	c.Log.MaxBackups = 3
	c.Log.MaxAgeDays = 7
	return c
}

// Load builds a Config. A missing file at path is an error only when path
// was given explicitly; .env files are optional.
func Load(path string, dotenv ...string) (Config, error) {
	c := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %q: %w", path, err)
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return Config{}, fmt.Errorf("parse config %q: %w", path, err)
		}
	}
	if err := LoadDotenvIfPresent(dotenv...); err != nil {
		return Config{}, err
	}
	if err := c.applyEnv(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// LoadDotenvIfPresent loads each existing file into the process
// environment. Variables already set win.
func LoadDotenvIfPresent(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return fmt.Errorf("stat dotenv file failed path=%s: %w", path, err)
		}
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("load dotenv file failed path=%s: %w", path, err)
		}
	}
	return nil
}

func (c *Config) applyEnv() error {
	setString(&c.Endpoint, "ENDPOINT")
	setString(&c.Normalizer, "NORMALIZER")
	setString(&c.RuleTable, "RULE_TABLE")
	setString(&c.Proxy, "PROXY")
	setString(&c.UserAgent, "USER_AGENT")
	setString(&c.Listen, "LISTEN")
	setString(&c.Log.Level, "LOG_LEVEL")
	setString(&c.Log.Format, "LOG_FORMAT")
	setString(&c.Log.Dir, "LOG_DIR")

	if v, ok := lookup("TIMEOUT"); ok {
		d, err := parseTimeout(v)
		if err != nil {
			return fmt.Errorf("read %sTIMEOUT failed: %w", envPrefix, err)
		}
		c.Timeout = d
	}
	if err := setInt(&c.Batch.Threads, "THREADS"); err != nil {
		return err
	}
	return setInt(&c.Batch.RateLimit, "RATE_LIMIT")
}

// parseTimeout accepts a Go duration ("15s") or a plain number of seconds.
func parseTimeout(v string) (time.Duration, error) {
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	return time.ParseDuration(v)
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(envPrefix + key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

func setString(dst *string, key string) {
	if v, ok := lookup(key); ok {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v, ok := lookup(key)
	if !ok {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("read %s%s failed: %w", envPrefix, key, err)
	}
	*dst = n
	return nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks c and reports every invalid field.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate config: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}
