package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix prefixes every environment override, e.g.
// RESERVOIROPS_SOLVER_TOLERANCE or RESERVOIROPS_OUTPUT_FORMAT.
const EnvPrefix = "RESERVOIROPS"

// ConfigErrorType classifies configuration failures.
type ConfigErrorType string

const (
	ErrReading    ConfigErrorType = "READ_ERROR"
	ErrParsing    ConfigErrorType = "PARSE_ERROR"
	ErrEnv        ConfigErrorType = "ENV_ERROR"
	ErrValidation ConfigErrorType = "VALIDATION_ERROR"
)

// ConfigError wraps a configuration failure with its type.
type ConfigError struct {
	Type    ConfigErrorType
	Message string
	Err     error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// LoadOptions tunes Load.
type LoadOptions struct {
	// EnvFile is a dotenv file loaded before environment overrides are
	// applied. Variables already set in the process environment win.
	EnvFile string
	// SkipEnv disables environment overrides entirely.
	SkipEnv bool
}

// Load reads the configuration from the provider, applies environment
// overrides and validates the result.
func Load(provider ConfigProvider, opts LoadOptions) (*ConfigData, error) {
	cfg, err := provider.LoadConfig()
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
			return nil, &ConfigError{Type: ErrReading, Message: "could not read configuration", Err: err}
		}
		return nil, &ConfigError{Type: ErrParsing, Message: "could not parse configuration", Err: err}
	}

	if !opts.SkipEnv {
		if opts.EnvFile != "" {
			if err := godotenv.Load(opts.EnvFile); err != nil {
				return nil, &ConfigError{Type: ErrEnv, Message: "could not load env file " + opts.EnvFile, Err: err}
			}
		}
		if err := envconfig.Process(EnvPrefix, cfg); err != nil {
			return nil, &ConfigError{Type: ErrEnv, Message: "failed to process environment overrides", Err: err}
		}
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks struct constraints on the configuration.
func Validate(cfg *ConfigData) error {
	if err := validator.New().Struct(cfg); err != nil {
		return &ConfigError{Type: ErrValidation, Message: "configuration validation failed", Err: err}
	}
	return nil
}
