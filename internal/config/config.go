package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration required by the bridge process.
// All values must come from env (or env-file loaded by the process runner).
// No business logic should depend on raw environment variables.
type Config struct {
	App      AppConfig
	Account  AccountConfig
	Provider ProviderConfig
	Registry RegistryConfig
}

type AppConfig struct {
	Env  string
	Port int
}

// AccountConfig carries the compatibility-surface credentials. AuthToken
// signs capability tokens and verifies inbound event signatures.
type AccountConfig struct {
	AccountSID string
	AuthToken  string

	// VerifySignatures disables inbound signature checks when false.
	// Local-only escape hatch; production requires it on.
	VerifySignatures bool
}

type ProviderConfig struct {
	BaseURL string
	Timeout time.Duration
}

type RegistryConfig struct {
	TTL        time.Duration
	MaxEntries int
}

func Load() (Config, error) {
	c := Config{}
	var parseErrs []error

	c.App.Env = strings.TrimSpace(os.Getenv("APP_ENV"))
	{
		n, err := mustInt("APP_PORT")
		n, parseErrs = appendParseErr(parseErrs, n, err)
		c.App.Port = n
	}

	c.Account.AccountSID = strings.TrimSpace(os.Getenv("ACCOUNT_SID"))
	c.Account.AuthToken = os.Getenv("AUTH_TOKEN")
	c.Account.VerifySignatures = os.Getenv("VERIFY_SIGNATURES") != "false"

	c.Provider.BaseURL = strings.TrimSpace(os.Getenv("PROVIDER_BASE_URL"))
	// Duration env vars are optional; defaults applied in Validate() based on env.
	c.Provider.Timeout = mustDuration("PROVIDER_TIMEOUT")

	c.Registry.TTL = mustDuration("REGISTRY_TTL")
	{
		v := strings.TrimSpace(os.Getenv("REGISTRY_MAX_ENTRIES"))
		if v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				parseErrs = append(parseErrs, fmt.Errorf("REGISTRY_MAX_ENTRIES must be an integer, got %q", v))
			}
			c.Registry.MaxEntries = n
		}
	}

	if err := joinErrors(parseErrs); err != nil {
		return Config{}, err
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) Validate() error {
	var errs []error

	if c.App.Env == "" {
		errs = append(errs, errors.New("APP_ENV is required"))
	} else if !isValidEnv(c.App.Env) {
		errs = append(errs, fmt.Errorf("APP_ENV must be one of local, dev, staging, production, got %q", c.App.Env))
	}
	if c.App.Port <= 0 || c.App.Port > 65535 {
		errs = append(errs, fmt.Errorf("APP_PORT must be a valid port, got %d", c.App.Port))
	}

	if c.Account.AccountSID == "" {
		errs = append(errs, errors.New("ACCOUNT_SID is required"))
	}
	if c.Account.AuthToken == "" {
		errs = append(errs, errors.New("AUTH_TOKEN is required"))
	}
	if c.IsProduction() && !c.Account.VerifySignatures {
		errs = append(errs, errors.New("VERIFY_SIGNATURES cannot be disabled in production"))
	}

	if c.Provider.BaseURL != "" && !strings.HasPrefix(c.Provider.BaseURL, "http") {
		errs = append(errs, fmt.Errorf("PROVIDER_BASE_URL must be an http(s) URL, got %q", c.Provider.BaseURL))
	}

	if c.Registry.MaxEntries < 0 {
		errs = append(errs, fmt.Errorf("REGISTRY_MAX_ENTRIES must be non-negative, got %d", c.Registry.MaxEntries))
	}

	return joinErrors(errs)
}

func (c Config) IsProduction() bool {
	return c.App.Env == "production"
}

func (c Config) HTTPAddr() string {
	return fmt.Sprintf(":%d", c.App.Port)
}

func mustInt(key string) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return 0, fmt.Errorf("%s is required", key)
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, v)
	}
	return n, nil
}

func mustDuration(key string) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return 0
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0
	}
	return d
}

func appendParseErr(errs []error, n int, err error) (int, []error) {
	if err != nil {
		errs = append(errs, err)
	}
	return n, errs
}

func isValidEnv(v string) bool {
	switch v {
	case "local", "dev", "staging", "production":
		return true
	default:
		return false
	}
}

func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	if len(errs) == 1 {
		return errs[0]
	}
	var b strings.Builder
	b.WriteString("config errors:\n")
	for _, e := range errs {
		b.WriteString("- ")
		b.WriteString(e.Error())
		b.WriteString("\n")
	}
	return errors.New(strings.TrimSpace(b.String()))
}
