package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config fixture: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("NOTION_PAGE_ID", "abc123")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Cache.TTL() != 60*time.Second {
		t.Errorf("Cache.TTL() = %v, want 60s", cfg.Cache.TTL())
	}
	if cfg.Notion.Timeout() != 30*time.Second {
		t.Errorf("Notion.Timeout() = %v, want 30s", cfg.Notion.Timeout())
	}
	if cfg.Notion.PageID != "abc123" {
		t.Errorf("PageID = %q, want %q", cfg.Notion.PageID, "abc123")
	}
}

func TestLoad_FromFile(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
notion:
  pageId: page-from-file
cache:
  ttlSec: 30
revalidate:
  token: hook-secret
  targetUrl: https://blog.example.com
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Notion.PageID != "page-from-file" {
		t.Errorf("PageID = %q, want %q", cfg.Notion.PageID, "page-from-file")
	}
	if cfg.Cache.TTL() != 30*time.Second {
		t.Errorf("Cache.TTL() = %v, want 30s", cfg.Cache.TTL())
	}
	if cfg.Revalidate.Token != "hook-secret" {
		t.Errorf("Revalidate.Token = %q, want %q", cfg.Revalidate.Token, "hook-secret")
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
notion:
  pageId: page-from-file
revalidate:
  token: file-secret
`)

	t.Setenv("NOTION_PAGE_ID", "page-from-env")
	t.Setenv("REVALIDATE_TOKEN", "env-secret")
	t.Setenv("PORT", "7070")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Notion.PageID != "page-from-env" {
		t.Errorf("PageID = %q, want env override", cfg.Notion.PageID)
	}
	if cfg.Revalidate.Token != "env-secret" {
		t.Errorf("Revalidate.Token = %q, want env override", cfg.Revalidate.Token)
	}
	if cfg.Server.Port != 7070 {
		t.Errorf("Port = %d, want 7070", cfg.Server.Port)
	}
}

func TestLoad_MissingPageID(t *testing.T) {
	t.Setenv("NOTION_PAGE_ID", "")

	if _, err := Load(""); err == nil {
		t.Fatal("Load() without a page id should fail")
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("NOTION_PAGE_ID", "abc123")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Server.Port)
	}
}

func TestLoad_MalformedFile(t *testing.T) {
	path := writeConfig(t, "server: [not a mapping")

	if _, err := Load(path); err == nil {
		t.Fatal("Load() with malformed YAML should fail")
	}
}
