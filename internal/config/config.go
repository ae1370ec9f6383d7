// Package config loads genpare's settings from defaults, an optional config
// file, GENPARE_ environment variables and bound command line flags, in
// increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	gostr "github.com/xhit/go-str2duration/v2"

	"github.com/genpare/genpare/internal/anonymize"
	"github.com/genpare/genpare/internal/logger"
	"github.com/genpare/genpare/internal/store"
)

// EnvPrefix prefixes every environment variable, e.g. GENPARE_DB_DSN.
const EnvPrefix = "GENPARE"

// DriverMemory selects the in-memory store.
const DriverMemory = "memory"

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Log           Log           `mapstructure:"log" yaml:"log" json:"log"`
	DB            DB            `mapstructure:"db" yaml:"db" json:"db"`
	HTTP          HTTP          `mapstructure:"http" yaml:"http" json:"http"`
	Anonymization Anonymization `mapstructure:"anonymization" yaml:"anonymization" json:"anonymization"`
}

type Log struct {
	Format string `mapstructure:"format" yaml:"format" json:"format,omitempty"`
	Level  string `mapstructure:"level" yaml:"level" json:"level,omitempty"`
}

type DB struct {
	Driver     string        `mapstructure:"driver" yaml:"driver" json:"driver"`
	DSN        string        `mapstructure:"dsn" yaml:"dsn" json:"dsn"`
	MaxRetries int           `mapstructure:"max_retries" yaml:"max_retries" json:"max_retries"`
	RetryWait  time.Duration `mapstructure:"retry_wait" yaml:"retry_wait" json:"retry_wait"`
}

// StoreOptions returns the connection retry settings for store.Open.
func (d DB) StoreOptions() store.Options {
	return store.Options{MaxRetries: d.MaxRetries, RetryWait: d.RetryWait}
}

type HTTP struct {
	Listen       string        `mapstructure:"listen" yaml:"listen" json:"listen"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout" yaml:"read_timeout" json:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout" yaml:"write_timeout" json:"write_timeout"`
}

type Anonymization struct {
	Bucketing   anonymize.Rule `mapstructure:"bucketing" yaml:"bucketing" json:"bucketing"`
	AgeWidth    int64          `mapstructure:"age_width" yaml:"age_width" json:"age_width"`
	SalaryWidth int64          `mapstructure:"salary_width" yaml:"salary_width" json:"salary_width"`
}

// Bucketer returns the configured list anonymization.
func (a Anonymization) Bucketer() (anonymize.Bucketer, error) {
	return anonymize.NewBucketer(a.Bucketing, a.AgeWidth, a.SalaryWidth)
}

// NewConfig returns the defaults.
func NewConfig() *Config {
	return &Config{
		Log: Log{
			Format: logger.LogFormatTextValue,
			Level:  zerolog.LevelInfoValue,
		},
		DB: DB{
			Driver:     store.DriverSQLite,
			DSN:        "genpare.db",
			MaxRetries: 10,
			RetryWait:  10 * time.Second,
		},
		HTTP: HTTP{
			Listen:       ":8080",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		Anonymization: Anonymization{
			Bucketing:   anonymize.RuleRemainder,
			AgeWidth:    anonymize.AgeWidth,
			SalaryWidth: anonymize.SalaryWidth,
		},
	}
}

// SetDefaults registers every key with its default, so that environment
// variables are seen by Unmarshal even when no file sets the key.
func SetDefaults(v *viper.Viper) {
	d := NewConfig()
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("db.driver", d.DB.Driver)
	v.SetDefault("db.dsn", d.DB.DSN)
	v.SetDefault("db.max_retries", d.DB.MaxRetries)
	v.SetDefault("db.retry_wait", d.DB.RetryWait)
	v.SetDefault("http.listen", d.HTTP.Listen)
	v.SetDefault("http.read_timeout", d.HTTP.ReadTimeout)
	v.SetDefault("http.write_timeout", d.HTTP.WriteTimeout)
	v.SetDefault("anonymization.bucketing", string(d.Anonymization.Bucketing))
	v.SetDefault("anonymization.age_width", d.Anonymization.AgeWidth)
	v.SetDefault("anonymization.salary_width", d.Anonymization.SalaryWidth)
}

// Load reads cfgFile (if not empty) and the environment into a validated
// Config. Flags must already be bound to v.
func Load(v *viper.Viper, cfgFile string) (*Config, error) {
	SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading from config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	decoderCfg := func(cfg *mapstructure.DecoderConfig) {
		cfg.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			RuleHookFunc(),
			DurationHookFunc(),
		)
	}

	cfg := NewConfig()
	if err := v.Unmarshal(cfg, decoderCfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// RuleHookFunc decodes a bucketing rule name, rejecting unknown names at
// decode time.
func RuleHookFunc() mapstructure.DecodeHookFunc {
	return func(
		f reflect.Type,
		t reflect.Type,
		data interface{},
	) (interface{}, error) {
		if t != reflect.TypeOf(anonymize.Rule("")) {
			return data, nil
		}
		s, ok := data.(string)
		if !ok {
			return data, nil
		}
		return anonymize.ParseRule(s)
	}
}

// DurationHookFunc decodes durations with day and week units, e.g. "1d12h".
func DurationHookFunc() mapstructure.DecodeHookFunc {
	return func(
		f reflect.Type,
		t reflect.Type,
		data interface{},
	) (interface{}, error) {
		if t != reflect.TypeOf(time.Duration(0)) {
			return data, nil
		}
		s, ok := data.(string)
		if !ok {
			return data, nil
		}
		return gostr.ParseDuration(s)
	}
}

// Validate checks the settings that the rest of the program would only
// reject later.
func (c *Config) Validate() error {
	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: log.level: %w", ErrInvalidConfig, err)
	}
	switch c.Log.Format {
	case logger.LogFormatJSONValue, logger.LogFormatTextValue:
	default:
		return fmt.Errorf("%w: log.format: unknown format %q", ErrInvalidConfig, c.Log.Format)
	}

	switch c.DB.Driver {
	case store.DriverSQLite, store.DriverMySQL:
		if c.DB.DSN == "" {
			return fmt.Errorf("%w: db.dsn is required for driver %s", ErrInvalidConfig, c.DB.Driver)
		}
	case DriverMemory:
	default:
		return fmt.Errorf("%w: db.driver: unknown driver %q", ErrInvalidConfig, c.DB.Driver)
	}
	if c.DB.MaxRetries < 0 {
		return fmt.Errorf("%w: db.max_retries must not be negative", ErrInvalidConfig)
	}
	if c.DB.RetryWait < 0 {
		return fmt.Errorf("%w: db.retry_wait must not be negative", ErrInvalidConfig)
	}

	if c.HTTP.ReadTimeout < 0 || c.HTTP.WriteTimeout < 0 {
		return fmt.Errorf("%w: http timeouts must not be negative", ErrInvalidConfig)
	}

	if _, err := c.Anonymization.Bucketer(); err != nil {
		return fmt.Errorf("%w: anonymization: %w", ErrInvalidConfig, err)
	}
	return nil
}
