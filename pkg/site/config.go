package site

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// ConfigFile is the site configuration file name expected at the
// site root.
const ConfigFile = "crumb.yaml"

// Config holds everything a build needs to know about a site.
// Values come from crumb.yaml, overridable through CRUMB_* environment
// variables (CRUMB_SERVER_PORT, CRUMB_BASE_URL, ...).
type Config struct {
	Title       string `mapstructure:"title" validate:"required"`
	BaseURL     string `mapstructure:"base_url" validate:"required,url"`
	Description string `mapstructure:"description"`
	Language    string `mapstructure:"language"`

	Author AuthorConfig `mapstructure:"author"`

	ContentDir   string `mapstructure:"content_dir" validate:"required"`
	StaticDir    string `mapstructure:"static_dir" validate:"required"`
	TemplatesDir string `mapstructure:"templates_dir"`
	OutputDir    string `mapstructure:"output_dir" validate:"required"`

	Ignore []string `mapstructure:"ignore"`

	Build  BuildConfig  `mapstructure:"build"`
	Feed   FeedConfig   `mapstructure:"feed"`
	Server ServerConfig `mapstructure:"server"`

	// Params is free-form data passed through to templates.
	Params map[string]string `mapstructure:"params"`
}

// AuthorConfig identifies the site author in feeds and templates.
type AuthorConfig struct {
	Name  string `mapstructure:"name"`
	Email string `mapstructure:"email" validate:"omitempty,email"`
}

// BuildConfig controls which posts a build includes.
type BuildConfig struct {
	Drafts bool `mapstructure:"drafts"`
	Future bool `mapstructure:"future"`
}

// FeedConfig controls atom/rss generation.
type FeedConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Limit   int  `mapstructure:"limit" validate:"omitempty,gt=0"`
}

// ServerConfig holds the serve command's listen address.
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
}

// LoadConfig reads the site configuration for the site rooted at
// root: defaults, then crumb.yaml, then CRUMB_* environment
// variables, validated as a whole. A missing file is fine as long as
// required values arrive from the environment.
func LoadConfig(root string) (*Config, error) {
	v := viper.New()

	v.SetDefault("language", "en")
	v.SetDefault("content_dir", "content")
	v.SetDefault("static_dir", "static")
	v.SetDefault("templates_dir", "templates")
	v.SetDefault("output_dir", "public")
	v.SetDefault("feed.enabled", true)
	v.SetDefault("feed.limit", 20)
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 1313)

	v.SetConfigFile(filepath.Join(root, ConfigFile))
	v.SetConfigType("yaml")

	v.SetEnvPrefix("CRUMB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	// Unmarshal only consults the environment for keys viper already
	// knows about, so every config key gets an explicit binding; this
	// is what lets CRUMB_TITLE and CRUMB_BASE_URL bootstrap a site
	// with no crumb.yaml at all.
	for _, key := range []string{
		"title", "base_url", "description", "language",
		"author.name", "author.email",
		"content_dir", "static_dir", "templates_dir", "output_dir",
		"build.drafts", "build.future",
		"feed.enabled", "feed.limit",
		"server.host", "server.port",
	} {
		v.MustBindEnv(key)
	}

	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("site: read %s: %w", ConfigFile, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("site: parse config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("site: invalid config: %w", err)
	}
	return &cfg, nil
}
