package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/nkiryanov/vollmed/internal/apperrors"
	"github.com/nkiryanov/vollmed/internal/handlers/routes"
	"github.com/nkiryanov/vollmed/internal/logger"
)

const (
	defaultListenAddr   = "localhost:8000"
	defaultLoggingLevel = logger.LevelInfo
	defaultEnvironment  = logger.EnvProduction
	defaultTokenTTL     = 2 * time.Hour
)

type Config struct {
	// Default logging level
	LogLevel string

	// Address on which the API will be run
	ListenAddr string

	// Address for prometheus metrics; not started if empty
	MetricsAddr string

	// Database to connect to
	DatabaseDSN string

	// Secret key
	// Used to sign and verify bearer tokens (HMAC), so keep it the same on every instance
	SecretKey string

	// Lifetime of issued tokens
	TokenTTL time.Duration

	// Route patterns reachable without token
	PublicPaths []string

	// Environment
	Environment string
}

func NewConfig() *Config {
	return &Config{
		LogLevel:    defaultLoggingLevel,
		ListenAddr:  defaultListenAddr,
		Environment: defaultEnvironment,
		TokenTTL:    defaultTokenTTL,
		PublicPaths: append([]string(nil), routes.DefaultPublic...),
	}
}

// Load variable from '.env' file (should be located at working directory)
func (c *Config) LoadDotEnv(getwd func() (string, error)) error {
	wd, err := getwd()
	if err != nil {
		return err
	}

	envMap, err := godotenv.Read(filepath.Join(wd, ".env"))

	switch {
	case err == nil:
		return c.LoadEnv(func(key string) string {
			return envMap[key]
		})
	case errors.Is(err, os.ErrNotExist):
		return nil
	default:
		return err
	}
}

func (c *Config) LoadEnv(getenv func(string) string) error {
	// Set option to value if it not empty
	setString := func(o *string) func(value string) error {
		return func(value string) error {
			if value != "" {
				*o = value
			}
			return nil
		}
	}
	setDuration := func(o *time.Duration) func(value string) error {
		return func(value string) error {
			if value == "" {
				return nil
			}
			d, err := time.ParseDuration(value)
			if err != nil {
				return err
			}
			*o = d
			return nil
		}
	}
	setList := func(o *[]string) func(value string) error {
		return func(value string) error {
			if value == "" {
				return nil
			}
			var list []string
			for _, item := range strings.Split(value, ",") {
				if item = strings.TrimSpace(item); item != "" {
					list = append(list, item)
				}
			}
			*o = list
			return nil
		}
	}

	envMap := map[string]func(string) error{
		"RUN_ADDRESS":     setString(&c.ListenAddr),
		"METRICS_ADDRESS": setString(&c.MetricsAddr),
		"DATABASE_URI":    setString(&c.DatabaseDSN),
		"SECRET_KEY":      setString(&c.SecretKey),
		"LOG_LEVEL":       setString(&c.LogLevel),
		"ENVIRONMENT":     setString(&c.Environment),
		"TOKEN_TTL":       setDuration(&c.TokenTTL),
		"PUBLIC_PATHS":    setList(&c.PublicPaths),
	}

	var errs []error
	for key, parseFn := range envMap {
		if err := parseFn(getenv(key)); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
		}
	}

	return errors.Join(errs...)
}

func (c *Config) ParseFlags(args []string) error {
	fs := pflag.NewFlagSet("vollmed", pflag.ContinueOnError)

	fs.StringVarP(&c.ListenAddr, "address", "a", c.ListenAddr, "Server listen address")
	fs.StringVarP(&c.MetricsAddr, "metrics-address", "m", c.MetricsAddr, "Metrics listen address, disabled if empty")
	fs.StringVarP(&c.DatabaseDSN, "database", "d", c.DatabaseDSN, "Database connection string")
	fs.StringVarP(&c.SecretKey, "secret-key", "s", c.SecretKey, "Token signing key")
	fs.StringVarP(&c.LogLevel, "log-level", "l", c.LogLevel, "Logging level (debug, info, warn, error)")
	fs.StringVarP(&c.Environment, "environment", "e", c.Environment, "Environment (dev, prod)")
	fs.DurationVarP(&c.TokenTTL, "token-ttl", "t", c.TokenTTL, "Issued token lifetime")
	fs.StringSliceVarP(&c.PublicPaths, "public", "p", c.PublicPaths, "Route patterns reachable without token")

	return fs.Parse(args)
}

// Validate checks config is enough to start serving
func (c *Config) Validate() error {
	var errs []error

	if c.SecretKey == "" {
		errs = append(errs, apperrors.ErrSigningKeyMissing)
	}
	if c.DatabaseDSN == "" {
		errs = append(errs, errors.New("database DSN is not set"))
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, fmt.Errorf("token ttl must be positive, got %s", c.TokenTTL))
	}

	return errors.Join(errs...)
}
