package internal

import (
	"fmt"
	"log/slog"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// Config represents the application configuration.
type Config struct {
	App      ApplicationConfig `yaml:"app"`
	Vault    VaultConfig       `yaml:"vault"`
	SQLite   SQLiteConfig      `yaml:"sqlite"`
	Settings SettingsConfig    `yaml:"settings"`
	Auth     AuthConfig        `yaml:"auth"`
	Catalog  CatalogConfig     `yaml:"catalog"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Vault.Validate(); err != nil {
		return err
	}
	if err := c.SQLite.Validate(); err != nil {
		return err
	}
	if err := c.Settings.Validate(); err != nil {
		return err
	}
	if err := c.Catalog.Validate(); err != nil {
		return err
	}
	return c.Auth.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// VaultConfig holds the path to the Markdown vault directory.
type VaultConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the vault configuration.
func (c *VaultConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// SQLiteConfig holds the metadata cache database configuration.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the SQLite configuration.
func (c *SQLiteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// SettingsConfig holds the directory where the mutable settings store lives.
type SettingsConfig struct {
	Dir string `yaml:"dir"`
}

// Validate validates the settings store configuration.
func (c *SettingsConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Dir, validation.Required),
	)
}

// CatalogConfig holds the catalog engine defaults. These seed the mutable
// settings store on first run; afterwards the persisted settings win.
type CatalogConfig struct {
	// SourceProperties is a comma-separated list of frontmatter property
	// names that mark a note as clipped (e.g. "source,url").
	SourceProperties string `yaml:"source_properties"`
	// ReadProperty is the frontmatter property holding the read flag.
	// Empty disables read-state tracking.
	ReadProperty string `yaml:"read_property"`
	// IncludeFrontmatterTags controls whether the frontmatter tags field
	// contributes to a record's tag set.
	IncludeFrontmatterTags bool `yaml:"include_frontmatter_tags"`
	// RefreshIntervalSeconds is the periodic full-refresh interval.
	RefreshIntervalSeconds int `yaml:"refresh_interval"`
}

// Validate validates the catalog configuration.
func (c *CatalogConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.SourceProperties, validation.Required),
		validation.Field(&c.RefreshIntervalSeconds, validation.Required, validation.Min(1)),
	); err != nil {
		return err
	}
	if strings.TrimSpace(strings.ReplaceAll(c.SourceProperties, ",", "")) == "" {
		return fmt.Errorf("catalog: source_properties contains no property names: %q", c.SourceProperties)
	}
	return nil
}

// AuthConfig holds authentication configuration.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): no authentication required, suitable for local dev.
//   - "token": Bearer token authentication; Token must be non-empty.
type AuthConfig struct {
	Mode  string `yaml:"mode"`
	Token string `yaml:"token"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	// Normalise empty mode to "disabled" for backward compatibility.
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeToken)),
	); err != nil {
		return err
	}
	if c.Mode == AuthModeToken && c.Token == "" {
		return fmt.Errorf("auth: mode is %q but token is empty", AuthModeToken)
	}
	return nil
}

// AuthEnabled returns true when authentication is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeToken
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Vault: VaultConfig{
			Path: "./vault",
		},
		SQLite: SQLiteConfig{
			Path: "./clipdex.db",
		},
		Settings: SettingsConfig{
			Dir: "./settings",
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
		Catalog: CatalogConfig{
			SourceProperties:       "source",
			ReadProperty:           "read",
			IncludeFrontmatterTags: true,
			RefreshIntervalSeconds: 60,
		},
	}
}
