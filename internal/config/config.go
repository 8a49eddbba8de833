package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/vytor/neurorecall/internal/logger"
)

// EnvPrefix namespaces every environment variable the server reads.
const EnvPrefix = "NEURORECALL_"

type Config struct {
	Addr            string        `koanf:"addr" validate:"required"`
	DBPath          string        `koanf:"db_path" validate:"required"`
	LogLevel        string        `koanf:"log_level" validate:"required,loglevel"`
	Timezone        string        `koanf:"timezone" validate:"required"`
	DueLimit        int           `koanf:"due_limit" validate:"min=1,max=500"`
	ImportWorkers   int           `koanf:"import_workers" validate:"min=1,max=64"`
	ImportQueueSize int           `koanf:"import_queue_size" validate:"min=1"`
	RequestTimeout  time.Duration `koanf:"request_timeout" validate:"min=1s"`
	// CORSOrigins enables CORS for the listed origins. Empty disables it.
	CORSOrigins []string `koanf:"cors_origins" validate:"dive,required"`
}

var defaults = map[string]any{
	"addr":              ":8080",
	"db_path":           "file:neurorecall.db",
	"log_level":         "INFO",
	"timezone":          "Local",
	"due_limit":         50,
	"import_workers":    2,
	"import_queue_size": 32,
	"request_timeout":   "15s",
}

// listKeys are read from the environment as comma-separated lists.
var listKeys = map[string]struct{}{
	"cors_origins": {},
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return strings.SplitN(f.Tag.Get("koanf"), ",", 2)[0]
	})
	_ = v.RegisterValidation("loglevel", func(fl validator.FieldLevel) bool {
		_, ok := logger.LookupLevel(fl.Field().String())
		return ok
	})
	return v
}

// Load layers configuration from, lowest to highest precedence: built-in
// defaults, an optional YAML file, NEURORECALL_* environment variables (a .env
// file is read first if present) and command-line flags in args.
func Load(args []string) (Config, error) {
	_ = godotenv.Load()

	fs := pflag.NewFlagSet("neurorecall", pflag.ContinueOnError)
	configPath := fs.String("config", os.Getenv(EnvPrefix+"CONFIG"), "path to a YAML config file")
	fs.String("addr", "", "HTTP listen address")
	fs.String("db-path", "", "SQLite database path or DSN")
	fs.String("log-level", "", "DEBUG, INFO, WARN or ERROR")
	fs.String("timezone", "", "IANA zone used to read review hours")
	fs.Int("due-limit", 0, "default number of due cards returned")
	fs.Int("import-workers", 0, "bulk import worker count")
	fs.Int("import-queue-size", 0, "bulk import queue size")
	fs.Duration("request-timeout", 0, "per-request timeout")
	fs.StringSlice("cors-origins", nil, "origins allowed to call the API from a browser")
	if err := fs.Parse(args); err != nil {
		return Config{}, fmt.Errorf("parse flags: %w", err)
	}

	k := koanf.New(".")
	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return Config{}, fmt.Errorf("load defaults: %w", err)
	}
	if *configPath != "" {
		if err := k.Load(file.Provider(*configPath), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("load config file %s: %w", *configPath, err)
		}
	}
	err := k.Load(env.ProviderWithValue(EnvPrefix, ".", envValue), nil)
	if err != nil {
		return Config{}, fmt.Errorf("load environment: %w", err)
	}
	err = k.Load(posflag.ProviderWithFlag(fs, ".", nil, func(f *pflag.Flag) (string, any) {
		if f.Name == "config" {
			return "", nil
		}
		return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(fs, f)
	}), nil)
	if err != nil {
		return Config{}, fmt.Errorf("load flags: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.LogLevel = strings.ToUpper(cfg.LogLevel)
	return cfg, nil
}

// envValue maps NEURORECALL_CORS_ORIGINS to cors_origins and splits list
// keys on commas.
func envValue(key, value string) (string, any) {
	key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
	if _, ok := listKeys[key]; !ok {
		return key, value
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return key, items
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error
	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return err
		}
		for _, fe := range fieldErrs {
			errs = append(errs, fieldError(fe))
		}
	}
	if c.Timezone != "" {
		if _, err := time.LoadLocation(c.Timezone); err != nil {
			errs = append(errs, fmt.Errorf("timezone: unknown zone %q", c.Timezone))
		}
	}
	return errors.Join(errs...)
}

// Location resolves Timezone. It falls back to UTC for an unknown zone.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func fieldError(fe validator.FieldError) error {
	key := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%s cannot be empty", key)
	case "loglevel":
		return fmt.Errorf("%s must be DEBUG, INFO, WARN or ERROR, got %q", key, fe.Value())
	case "min":
		return fmt.Errorf("%s must be at least %s, got %v", key, fe.Param(), fe.Value())
	case "max":
		return fmt.Errorf("%s must be at most %s, got %v", key, fe.Param(), fe.Value())
	default:
		return fmt.Errorf("%s failed %s validation", key, fe.Tag())
	}
}
