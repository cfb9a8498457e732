package site_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ovenbird/crumb/pkg/site"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, site.ConfigFile), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return root
}

func TestLoadConfig(t *testing.T) {
	root := writeConfig(t, `title: Oven Notes
base_url: https://example.com
description: essays and experiments
author:
  name: A. Baker
  email: baker@example.com
build:
  drafts: true
params:
  accent: "#b4532a"
`)

	cfg, err := site.LoadConfig(root)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Title != "Oven Notes" || cfg.BaseURL != "https://example.com" {
		t.Errorf("identity fields: %+v", cfg)
	}
	if cfg.Language != "en" || cfg.ContentDir != "content" || cfg.OutputDir != "public" {
		t.Errorf("defaults not applied: %+v", cfg)
	}
	if cfg.Server.Port != 1313 || cfg.Feed.Limit != 20 || !cfg.Feed.Enabled {
		t.Errorf("server/feed defaults: %+v", cfg)
	}
	if !cfg.Build.Drafts || cfg.Build.Future {
		t.Errorf("build flags: %+v", cfg.Build)
	}
	if cfg.Params["accent"] != "#b4532a" {
		t.Errorf("params: %v", cfg.Params)
	}
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	root := writeConfig(t, "title: Site\nbase_url: https://example.com\n")
	t.Setenv("CRUMB_SERVER_PORT", "8080")
	t.Setenv("CRUMB_LANGUAGE", "de")

	cfg, err := site.LoadConfig(root)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("port = %d", cfg.Server.Port)
	}
	if cfg.Language != "de" {
		t.Errorf("language = %q", cfg.Language)
	}
}

func TestLoadConfig_EnvOnly(t *testing.T) {
	// No crumb.yaml at all: the required fields arrive from the
	// environment and the rest falls back to defaults.
	t.Setenv("CRUMB_TITLE", "Env Site")
	t.Setenv("CRUMB_BASE_URL", "https://env.example.com")
	t.Setenv("CRUMB_AUTHOR_NAME", "A. Baker")

	cfg, err := site.LoadConfig(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Title != "Env Site" || cfg.BaseURL != "https://env.example.com" {
		t.Errorf("identity fields: %+v", cfg)
	}
	if cfg.Author.Name != "A. Baker" {
		t.Errorf("author = %+v", cfg.Author)
	}
	if cfg.ContentDir != "content" || cfg.Server.Port != 1313 {
		t.Errorf("defaults not applied: %+v", cfg)
	}
}

func TestLoadConfig_MissingRequired(t *testing.T) {
	if _, err := site.LoadConfig(t.TempDir()); err == nil {
		t.Fatal("config without title/base_url accepted")
	}
}

func TestLoadConfig_BadBaseURL(t *testing.T) {
	root := writeConfig(t, "title: Site\nbase_url: not a url\n")
	if _, err := site.LoadConfig(root); err == nil {
		t.Fatal("invalid base_url accepted")
	}
}
