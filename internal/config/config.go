package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	env "github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// FileName is the project file at the ledger root.
const FileName = "buchhaltung.yaml"

// EnvPrefix prefixes every environment override, e.g. BUCHHALTUNG_LOG_LEVEL.
const EnvPrefix = "BUCHHALTUNG_"

// Config represents the top-level buchhaltung.yaml configuration.
type Config struct {
	Business BusinessConfig `yaml:"business" envPrefix:"BUSINESS_"`
	Ledger   LedgerConfig   `yaml:"ledger" envPrefix:"LEDGER_"`
	Logging  LoggingConfig  `yaml:"logging" envPrefix:"LOG_"`
	Git      GitConfig      `yaml:"git" envPrefix:"GIT_"`
}

// BusinessConfig identifies the business entity.
type BusinessConfig struct {
	Name       string `yaml:"name" env:"NAME"`
	EntityType string `yaml:"entity_type" env:"ENTITY_TYPE"` // "gmbh" adds corporate accounts to the default chart
}

// LedgerConfig holds the bookkeeping parameters.
type LedgerConfig struct {
	ClearingAccount  string          `yaml:"clearing_account" env:"CLEARING_ACCOUNT"`
	BalanceTolerance decimal.Decimal `yaml:"balance_tolerance" env:"BALANCE_TOLERANCE"`
	SheetTolerance   decimal.Decimal `yaml:"sheet_tolerance" env:"SHEET_TOLERANCE"`
}

// LoggingConfig controls the process logger.
type LoggingConfig struct {
	Level  string `yaml:"level" env:"LEVEL"`
	Format string `yaml:"format" env:"FORMAT"` // "console" or "json"
}

// GitConfig controls git integration.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit" env:"AUTO_COMMIT"`
	AuthorName  string `yaml:"author_name" env:"AUTHOR_NAME"`
	AuthorEmail string `yaml:"author_email" env:"AUTHOR_EMAIL"`
}

// Load reads a buchhaltung.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// LoadProject loads the configuration of the ledger at root: the optional
// root/.env first, then buchhaltung.yaml, then BUCHHALTUNG_* overrides from
// the environment. The result is validated.
func LoadProject(root string) (*Config, error) {
	if err := godotenv.Load(filepath.Join(root, ".env")); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}
	cfg, err := Load(filepath.Join(root, FileName))
	if err != nil {
		return nil, err
	}
	if err := ApplyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields of cfg from BUCHHALTUNG_* environment variables.
// Unset variables leave the field as it is.
func ApplyEnv(cfg *Config) error {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("reading environment: %w", err)
	}
	return nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.Ledger.ClearingAccount == "" {
		return errors.New("config: ledger.clearing_account is empty")
	}
	if c.Ledger.BalanceTolerance.IsNegative() {
		return fmt.Errorf("config: ledger.balance_tolerance %s is negative", c.Ledger.BalanceTolerance)
	}
	if c.Ledger.SheetTolerance.IsNegative() {
		return fmt.Errorf("config: ledger.sheet_tolerance %s is negative", c.Ledger.SheetTolerance)
	}
	switch c.Logging.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("config: logging.format %q is not console or json", c.Logging.Format)
	}
	if c.Git.AutoCommit && (c.Git.AuthorName == "" || c.Git.AuthorEmail == "") {
		return errors.New("config: git.auto_commit needs author_name and author_email")
	}
	return nil
}

// Default returns a Config with sensible defaults for a new ledger.
func Default(businessName, entityType string) *Config {
	return &Config{
		Business: BusinessConfig{
			Name:       businessName,
			EntityType: entityType,
		},
		Ledger: LedgerConfig{
			ClearingAccount:  "9000",
			BalanceTolerance: decimal.New(1, -2),
			SheetTolerance:   decimal.New(5, -2),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Git: GitConfig{
			AutoCommit:  true,
			AuthorName:  "Buchhaltung",
			AuthorEmail: "buchhaltung@localhost",
		},
	}
}
