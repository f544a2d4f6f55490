// Package config holds the configuration of the erddl command.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/syssam/erddl/compiler/gen"
	"github.com/syssam/erddl/dialect"
)

// DefaultFile is read when no configuration file is named. It may be absent.
const DefaultFile = "erddl.yaml"

// Config holds the settings of the erddl command. Values come from an
// optional YAML file; environment variables override the file and command
// line flags override both.
type Config struct {
	// Dialect of the generated script: oracle, postgres, mysql or sqlite.
	Dialect string `yaml:"dialect" env:"ERDDL_DIALECT" env-default:"oracle"`
	// Output is the script path. Empty writes to stdout.
	Output string `yaml:"output" env:"ERDDL_OUTPUT"`
	// Header is written as a comment block at the top of the script.
	Header string `yaml:"header" env:"ERDDL_HEADER"`
	// ErrorBase is the first RAISE_APPLICATION_ERROR code.
	ErrorBase int `yaml:"error_base" env:"ERDDL_ERROR_BASE" env-default:"20000"`
	// NoTriggers drops the trigger statements from the script.
	NoTriggers bool `yaml:"no_triggers" env:"ERDDL_NO_TRIGGERS"`
	// Workers bounds the number of diagrams compiled in parallel. Zero uses
	// one per CPU.
	Workers int `yaml:"workers" env:"ERDDL_WORKERS"`

	Bindings BindingsConfig `yaml:"bindings"`
	Apply    ApplyConfig    `yaml:"apply"`
	Log      LogConfig      `yaml:"log"`
}

// BindingsConfig configures the Go bindings file.
type BindingsConfig struct {
	Output  string `yaml:"output" env:"ERDDL_GO_OUT"`
	Package string `yaml:"package" env:"ERDDL_GO_PACKAGE" env-default:"schema"`
}

// ApplyConfig configures the apply command.
type ApplyConfig struct {
	Driver string `yaml:"driver" env:"ERDDL_DRIVER" env-default:"postgres"`
	// DSN may carry credentials and is read from the environment only.
	DSN string `yaml:"-" env:"ERDDL_DSN"`
}

// LogConfig configures the command logger.
type LogConfig struct {
	Level  string `yaml:"level" env:"ERDDL_LOG_LEVEL" env-default:"info"`
	Format string `yaml:"format" env:"ERDDL_LOG_FORMAT" env-default:"console"`
}

// Load reads the configuration file at path with environment overrides. An
// empty path reads DefaultFile when it exists and the environment alone
// otherwise.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	switch {
	case path != "":
		if err := cleanenv.ReadConfig(path, cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	case exists(DefaultFile):
		if err := cleanenv.ReadConfig(DefaultFile, cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", DefaultFile, err)
		}
	default:
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("config: read environment: %w", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the values that the compiler does not check itself.
func (c *Config) Validate() error {
	var errs []error
	if _, err := dialect.Parse(c.Dialect); err != nil {
		errs = append(errs, fmt.Errorf("config: dialect: %w", err))
	}
	if d, err := dialect.Parse(c.Apply.Driver); err != nil || d == dialect.Oracle {
		errs = append(errs, fmt.Errorf("config: apply driver %q is not one of postgres, mysql, sqlite", c.Apply.Driver))
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("config: log level: %w", err))
	}
	switch strings.ToLower(c.Log.Format) {
	case "console", "json":
	default:
		errs = append(errs, fmt.Errorf("config: log format %q is not console or json", c.Log.Format))
	}
	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("config: workers must not be negative, got %d", c.Workers))
	}
	return errors.Join(errs...)
}

// Options returns the compiler options for the configuration.
func (c *Config) Options(logger *zap.Logger) []gen.Option {
	return []gen.Option{
		gen.WithLogger(logger),
		gen.WithDialect(c.Dialect),
		gen.WithErrorBase(c.ErrorBase),
		gen.WithTriggers(!c.NoTriggers),
		gen.WithHeader(c.Header),
	}
}

// Logger builds the command logger. It writes to stderr, so a script written
// to stdout stays clean.
func (c *Config) Logger() (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(c.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("config: log level: %w", err)
	}
	zc := zap.NewDevelopmentConfig()
	if strings.EqualFold(c.Log.Format, "json") {
		zc = zap.NewProductionConfig()
	}
	zc.Level = level
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}
	return zc.Build()
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
