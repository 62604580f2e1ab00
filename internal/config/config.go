package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

var configLogger zerolog.Logger

func SetLogger(l zerolog.Logger) {
	configLogger = l
}

// Config represents the complete configuration structure
type Config struct {
	Site     SiteConfig     `yaml:"site"`
	Server   ServerConfig   `yaml:"server"`
	Theme    ThemeConfig    `yaml:"theme"`
	Content  ContentConfig  `yaml:"content"`
	Composer ComposerConfig `yaml:"composer"`
	Store    StoreConfig    `yaml:"store"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type LoggingConfig struct {
	Level string `yaml:"level" default:"info"`
	// Format is "console" or "json".
	Format string `yaml:"format" default:"console"`
}

type SiteConfig struct {
	Name        string `yaml:"name" default:"Postcraft"`
	Description string `yaml:"description" default:"Compose, preview and organize LinkedIn posts"`
	Tagline     string `yaml:"tagline" default:"Create engaging LinkedIn posts with AI"`
}

type ServerConfig struct {
	Host            string        `yaml:"host" default:"0.0.0.0"`
	Port            string        `yaml:"port" default:"12600"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
}

type ThemeConfig struct {
	Default            string       `yaml:"default" default:"dark"`
	AllowSwitching     bool         `yaml:"allow_switching" default:"true"`
	SyntaxHighlighting SyntaxConfig `yaml:"syntax_highlighting"`
}

type SyntaxConfig struct {
	DefaultDark  string `yaml:"default_dark" default:"gruvbox"`
	DefaultLight string `yaml:"default_light" default:"catppuccin-latte"`
}

type ContentConfig struct {
	// Number of runes kept by a draft preview before it is ellipsized.
	PreviewLength int  `yaml:"preview_length" default:"100"`
	SeedExamples  bool `yaml:"seed_examples" default:"false"`
}

type ComposerConfig struct {
	ReplyDelay        time.Duration `yaml:"reply_delay" default:"1s"`
	GenerationTimeout time.Duration `yaml:"generation_timeout" default:"10s"`
	SessionTTL        time.Duration `yaml:"session_ttl" default:"1h"`
	SweepInterval     time.Duration `yaml:"sweep_interval" default:"1m"`
}

type StoreConfig struct {
	// Driver is either "memory" or "sqlite".
	Driver string `yaml:"driver" default:"memory"`
	// DSN is a sqlite DSN. Empty gives every process its own in-memory database.
	DSN string `yaml:"dsn"`
	// Compression applies to draft content blobs in the sqlite store: "zstd" or "gzip".
	Compression string `yaml:"compression" default:"zstd"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" default:"true"`
	Path    string `yaml:"path" default:"/metrics"`
}

var AppConfig *Config

// Default returns a configuration with every default tag applied.
func Default() *Config {
	config := &Config{}
	applyDefaults(config)
	return config
}

func LoadConfig(path string) error {
	config := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		// If file doesn't exist, just use defaults
		configLogger.Info().Str("path", path).Msg("Config file not found, using defaults")
		applyEnv(config)
		AppConfig = config
		return nil
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	applyEnv(config)
	if err := config.Validate(); err != nil {
		return err
	}

	AppConfig = config
	return nil
}

// Validate rejects values the application cannot run with.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case StoreDriverMemory, StoreDriverSQLite:
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}
	switch c.Store.Compression {
	case "zstd", "gzip":
	default:
		return fmt.Errorf("unknown compression %q", c.Store.Compression)
	}
	if c.Content.PreviewLength <= 0 {
		return fmt.Errorf("content.preview_length must be positive, got %d", c.Content.PreviewLength)
	}
	if c.Composer.ReplyDelay < 0 {
		return fmt.Errorf("composer.reply_delay must not be negative")
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("unknown logging.format %q", c.Logging.Format)
	}
	return nil
}

func (c *Config) Addr() string {
	return c.Server.Host + ":" + c.Server.Port
}

const (
	EnvConfigPath = "POSTCRAFT_CONFIG"
	EnvHost       = "POSTCRAFT_HOST"
	EnvPort       = "POSTCRAFT_PORT"
	EnvLogLevel   = "POSTCRAFT_LOG_LEVEL"
	EnvLogFormat  = "POSTCRAFT_LOG_FORMAT"
	EnvStoreDSN   = "POSTCRAFT_STORE_DSN"

	StoreDriverMemory = "memory"
	StoreDriverSQLite = "sqlite"
)

func applyEnv(config *Config) {
	if v := os.Getenv(EnvHost); v != "" {
		config.Server.Host = v
	}
	if v := os.Getenv(EnvPort); v != "" {
		config.Server.Port = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		config.Logging.Level = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		config.Logging.Format = v
	}
	if v := os.Getenv(EnvStoreDSN); v != "" {
		config.Store.DSN = v
	}
}

func ApplyDefaults(config interface{}) {
	applyDefaults(config)
}

var durationType = reflect.TypeOf(time.Duration(0))

func applyDefaults(config interface{}) {
	v := reflect.ValueOf(config)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}

	if v.Kind() != reflect.Struct {
		return
	}

	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		fieldType := t.Field(i)

		if !field.IsValid() || !field.CanSet() {
			continue
		}

		// Recursively apply defaults to nested structs
		if field.Kind() == reflect.Struct {
			applyDefaults(field.Addr().Interface())
			continue
		}

		defaultValue := fieldType.Tag.Get("default")
		if defaultValue == "" {
			continue
		}

		if field.Type() == durationType {
			if val, err := time.ParseDuration(defaultValue); err == nil {
				field.SetInt(int64(val))
			}
			continue
		}

		switch field.Kind() {
		case reflect.String:
			field.SetString(defaultValue)
		case reflect.Bool:
			if val, err := strconv.ParseBool(defaultValue); err == nil {
				field.SetBool(val)
			}
		case reflect.Int:
			if val, err := strconv.ParseInt(defaultValue, 10, 64); err == nil {
				field.SetInt(val)
			}
		case reflect.Float64:
			if val, err := strconv.ParseFloat(defaultValue, 64); err == nil {
				field.SetFloat(val)
			}
		case reflect.Slice:
			if field.Len() == 0 && field.Type().Elem().Kind() == reflect.String {
				parts := strings.Split(defaultValue, ",")
				slice := reflect.MakeSlice(field.Type(), len(parts), len(parts))
				for j, part := range parts {
					slice.Index(j).SetString(strings.TrimSpace(part))
				}
				field.Set(slice)
			}
		default:
			configLogger.Warn().
				Str("field_name", fieldType.Name).
				Str("field_type", field.Kind().String()).
				Msg("Unsupported field type for default value")
		}
	}
}
