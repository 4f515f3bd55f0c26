package bootstrap

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/goliatone/go-newsroom"
)

func TestBuildModuleEnablesGenerator(t *testing.T) {
	resources, err := BuildModule(Options{Root: t.TempDir()})
	if err != nil {
		t.Fatalf("build module: %v", err)
	}
	if resources.Module == nil {
		t.Fatal("expected module to be initialised")
	}
	container := resources.Module.Container()
	if container.GeneratorService() == nil {
		t.Fatal("expected generator service to be configured")
	}
	if resources.Module.Commands() == nil {
		t.Fatal("expected site command handlers")
	}
}

func TestBuildModuleAppliesConfigure(t *testing.T) {
	resources, err := BuildModule(Options{
		Root: t.TempDir(),
		Configure: func(cfg *newsroom.Config) {
			cfg.Generator.Incremental = true
		},
	})
	if err != nil {
		t.Fatalf("build module: %v", err)
	}
	if !resources.Config.Generator.Incremental {
		t.Fatal("expected configure hook to apply")
	}

	_, err = BuildModule(Options{
		Root: t.TempDir(),
		Configure: func(cfg *newsroom.Config) {
			cfg.Generator.Workers = -1
		},
	})
	if !errors.Is(err, newsroom.ErrGeneratorWorkersInvalid) {
		t.Fatalf("expected workers validation error, got %v", err)
	}
}

func TestLoadConfigReadsFileFromRoot(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "newsroom.yaml"), `
site:
  name: بيروت توك
  base_url: https://beirutalk.example
generator:
  output_dir: public_html
  workers: 3
preview:
  debounce: 750ms
`)

	cfg, err := LoadConfig("", root)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Site.Name != "بيروت توك" || cfg.Site.BaseURL != "https://beirutalk.example" {
		t.Fatalf("unexpected site config %#v", cfg.Site)
	}
	if cfg.Generator.OutputDir != "public_html" || cfg.Generator.Workers != 3 {
		t.Fatalf("unexpected generator config %#v", cfg.Generator)
	}
	if cfg.Preview.Debounce != 750*time.Millisecond {
		t.Fatalf("expected debounce 750ms, got %s", cfg.Preview.Debounce)
	}
	if cfg.Content.Root != root {
		t.Fatalf("expected content root %s, got %s", root, cfg.Content.Root)
	}
	if cfg.Site.Direction != "rtl" {
		t.Fatalf("expected untouched defaults to survive, got direction %q", cfg.Site.Direction)
	}
}

func TestLoadConfigEnvironmentOverrides(t *testing.T) {
	t.Setenv("NEWSROOM_SITE_BASE_URL", "https://env.example")
	t.Setenv("NEWSROOM_SEARCH_LIMIT", "7")

	cfg, err := LoadConfig("", t.TempDir())
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Site.BaseURL != "https://env.example" {
		t.Fatalf("expected env base url, got %s", cfg.Site.BaseURL)
	}
	if cfg.Search.Limit != 7 {
		t.Fatalf("expected env search limit, got %d", cfg.Search.Limit)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"), ""); err == nil {
		t.Fatal("expected error for an explicit missing config file")
	}

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "newsroom.yaml"), "site:\n  timezone: Mars/Olympus\n")
	if _, err := LoadConfig("", root); !errors.Is(err, newsroom.ErrSiteTimezoneInvalid) {
		t.Fatalf("expected timezone validation error, got %v", err)
	}
}

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
