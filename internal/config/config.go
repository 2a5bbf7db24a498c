package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/holerite-dev/holerite/internal/model"
	"github.com/holerite-dev/holerite/internal/money"
	"github.com/holerite-dev/holerite/internal/payslip"
)

// FileName is the project configuration file at the repository root.
const FileName = "holerite.yaml"

// EnvPrefix namespaces environment overrides, e.g. HOLERITE_PARSING_LOCALE.
const EnvPrefix = "HOLERITE"

// Config represents the top-level holerite.yaml configuration.
type Config struct {
	Owner      OwnerConfig      `yaml:"owner" mapstructure:"owner"`
	Parsing    ParsingConfig    `yaml:"parsing" mapstructure:"parsing"`
	Validation ValidationConfig `yaml:"validation" mapstructure:"validation"`
	Import     ImportConfig     `yaml:"import" mapstructure:"import"`
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Git        GitConfig        `yaml:"git" mapstructure:"git"`
}

// OwnerConfig identifies whose payslips the archive holds.
type OwnerConfig struct {
	Name string `yaml:"name" mapstructure:"name"`
}

// ParsingConfig selects the number format for extracted amounts.
type ParsingConfig struct {
	Locale string `yaml:"locale" mapstructure:"locale"`
}

// ValidationConfig controls reconciliation.
type ValidationConfig struct {
	Model       string  `yaml:"model" mapstructure:"model"`         // "gross" or "earnings"
	Tolerance   string  `yaml:"tolerance" mapstructure:"tolerance"` // decimal string, e.g. "0.01"
	ReviewBelow float64 `yaml:"review_below" mapstructure:"review_below"`
}

// ImportConfig controls batch processing of the inbox.
type ImportConfig struct {
	Format  string `yaml:"format" mapstructure:"format"` // "auto" or a registered importer format
	Workers int    `yaml:"workers" mapstructure:"workers"`
	Archive bool   `yaml:"archive" mapstructure:"archive"` // false analyzes and logs without storing
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr         string        `yaml:"addr" mapstructure:"addr"`
	ReadTimeout  time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
	MaxBodyBytes int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
}

// GitConfig controls commits of the archive repository.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit" mapstructure:"auto_commit"`
	AuthorName  string `yaml:"author_name" mapstructure:"author_name"`
	AuthorEmail string `yaml:"author_email" mapstructure:"author_email"`
}

// Default returns a Config with sensible defaults for a new project.
func Default(ownerName string) *Config {
	return &Config{
		Owner: OwnerConfig{Name: ownerName},
		Parsing: ParsingConfig{
			Locale: money.DefaultLocale,
		},
		Validation: ValidationConfig{
			Model:       string(model.ReconcileGross),
			Tolerance:   "0.01",
			ReviewBelow: 0.70,
		},
		Import: ImportConfig{
			Format:  "auto",
			Workers: 4,
			Archive: true,
		},
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			MaxBodyBytes: 1 << 20,
		},
		Git: GitConfig{
			AutoCommit:  true,
			AuthorName:  "Holerite",
			AuthorEmail: "holerite@localhost",
		},
	}
}

// Load reads a holerite.yaml file from disk. Environment variables prefixed
// with HOLERITE_ override file values (dots become underscores).
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	v := newViper()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// FromEnv returns defaults overlaid with HOLERITE_ environment variables, for
// commands that run outside a project directory.
func FromEnv() (*Config, error) {
	var cfg Config
	if err := newViper().Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	d := Default("")
	v.SetDefault("owner.name", d.Owner.Name)
	v.SetDefault("parsing.locale", d.Parsing.Locale)
	v.SetDefault("validation.model", d.Validation.Model)
	v.SetDefault("validation.tolerance", d.Validation.Tolerance)
	v.SetDefault("validation.review_below", d.Validation.ReviewBelow)
	v.SetDefault("import.format", d.Import.Format)
	v.SetDefault("import.workers", d.Import.Workers)
	v.SetDefault("import.archive", d.Import.Archive)
	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.read_timeout", d.Server.ReadTimeout.String())
	v.SetDefault("server.write_timeout", d.Server.WriteTimeout.String())
	v.SetDefault("server.max_body_bytes", d.Server.MaxBodyBytes)
	v.SetDefault("git.auto_commit", d.Git.AutoCommit)
	v.SetDefault("git.author_name", d.Git.AuthorName)
	v.SetDefault("git.author_email", d.Git.AuthorEmail)
	return v
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

// Validate checks that every setting can be used.
func (c *Config) Validate() error {
	if _, err := money.Lookup(c.Parsing.Locale); err != nil {
		return fmt.Errorf("parsing.locale: %w", err)
	}
	if _, err := c.ValidateOptions(); err != nil {
		return err
	}
	if c.Import.Workers < 1 {
		return fmt.Errorf("import.workers must be at least 1, got %d", c.Import.Workers)
	}
	return nil
}

// NumberFormat resolves the configured locale.
func (c *Config) NumberFormat() (money.NumberFormat, error) {
	return money.Lookup(c.Parsing.Locale)
}

// ValidateOptions converts the validation section for payslip.Validate.
func (c *Config) ValidateOptions() (payslip.ValidateOptions, error) {
	m, err := model.ParseReconciliationModel(c.Validation.Model)
	if err != nil {
		return payslip.ValidateOptions{}, fmt.Errorf("validation.model: %w", err)
	}
	tol := payslip.DefaultTolerance
	if c.Validation.Tolerance != "" {
		tol, err = decimal.NewFromString(c.Validation.Tolerance)
		if err != nil {
			return payslip.ValidateOptions{}, fmt.Errorf("validation.tolerance %q: %w", c.Validation.Tolerance, err)
		}
		if tol.IsNegative() {
			return payslip.ValidateOptions{}, fmt.Errorf("validation.tolerance must not be negative, got %s", tol)
		}
	}
	return payslip.ValidateOptions{Model: m, Tolerance: tol}, nil
}
