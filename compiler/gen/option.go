package gen

import (
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/syssam/erddl/dialect"
)

// Error codes usable with RAISE_APPLICATION_ERROR are -20000 to -20999.
const (
	DefaultErrorBase = 20000
	MaxErrorCode     = 20999
)

// Config holds the compiler configuration.
type Config struct {
	// Logger receives one entry per phase and every warning.
	Logger *zap.Logger
	// ErrorBase is the first application error code.
	ErrorBase int
	// Triggers enables rule-enforcing triggers.
	Triggers bool
	// Dialect is the target of Result.Render.
	Dialect string
	// Header is emitted as a comment above the script.
	Header string
}

// Option configures the compiler.
type Option func(*Config) error

// WithLogger sets the logger. A nil logger discards output.
func WithLogger(l *zap.Logger) Option {
	return func(c *Config) error {
		if l == nil {
			l = zap.NewNop()
		}
		c.Logger = l
		return nil
	}
}

// WithErrorBase sets the first code handed out to RAISE_APPLICATION_ERROR.
// Codes are emitted negated, so a base of 20000 yields -20000, -20001, ...
func WithErrorBase(base int) Option {
	return func(c *Config) error {
		if base < DefaultErrorBase || base > MaxErrorCode {
			return NewConfigError("ErrorBase", base, "must be between 20000 and 20999")
		}
		c.ErrorBase = base
		return nil
	}
}

// WithTriggers enables or disables trigger generation. Tables, keys and
// views are emitted either way.
func WithTriggers(enabled bool) Option {
	return func(c *Config) error {
		c.Triggers = enabled
		return nil
	}
}

// WithDialect sets the dialect Result.Render targets.
// Supported dialects: "oracle", "postgres", "mysql", "sqlite".
func WithDialect(name string) Option {
	return func(c *Config) error {
		d, err := dialect.Parse(name)
		if err != nil {
			return NewConfigError("Dialect", name, "unsupported dialect; use oracle, postgres, mysql or sqlite")
		}
		c.Dialect = d
		return nil
	}
}

// WithHeader sets the header comment of the script.
func WithHeader(header string) Option {
	return func(c *Config) error {
		c.Header = strings.TrimSpace(header)
		return nil
	}
}

// Apply applies options to the config.
// It returns the first error encountered.
func (c *Config) Apply(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return err
		}
	}
	return nil
}

// ApplyAll applies options and collects all errors.
// Returns a joined error if any options failed.
func (c *Config) ApplyAll(opts ...Option) error {
	var errs []error
	for _, opt := range opts {
		if err := opt(c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewConfig returns the default configuration with the given options
// applied.
func NewConfig(opts ...Option) (*Config, error) {
	c := &Config{
		Logger:    zap.NewNop(),
		ErrorBase: DefaultErrorBase,
		Triggers:  true,
		Dialect:   dialect.Oracle,
	}
	if err := c.Apply(opts...); err != nil {
		return nil, err
	}
	return c, nil
}

// MustNewConfig is like NewConfig but panics if any option fails.
func MustNewConfig(opts ...Option) *Config {
	c, err := NewConfig(opts...)
	if err != nil {
		panic(err)
	}
	return c
}
