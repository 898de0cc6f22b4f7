package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultPort       = 8080
	defaultCacheTTLs  = 60
	defaultTimeoutSec = 30
)

// Config is the full service configuration, loaded from an optional YAML
// file with environment overrides for deployment-specific values.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Notion     NotionConfig     `yaml:"notion"`
	Cache      CacheConfig      `yaml:"cache"`
	Revalidate RevalidateConfig `yaml:"revalidate"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

// NotionConfig locates the content collection. PageID is the root page whose
// graph holds the collection; Token is the token_v2 cookie value, empty for
// publicly shared pages.
type NotionConfig struct {
	PageID     string `yaml:"pageId"`
	BaseURL    string `yaml:"baseUrl"`
	Token      string `yaml:"token"`
	TimeoutSec int    `yaml:"timeoutSec"`
}

// Timeout returns the request timeout for calls against the content source.
func (c NotionConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSec) * time.Second
}

type CacheConfig struct {
	TTLSec int `yaml:"ttlSec"`
}

// TTL returns the freshness window for the assembled post list.
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSec) * time.Second
}

// RevalidateConfig configures the cache-invalidation webhook. Token is the
// shared secret callers must present; TargetURL is the rendering frontend
// whose per-path cache gets purged, empty to only log invalidations.
type RevalidateConfig struct {
	Token     string `yaml:"token"`
	TargetURL string `yaml:"targetUrl"`
}

// Load reads the configuration file at path (skipped when path is empty or
// the file does not exist), applies environment overrides, and validates the
// result.
func Load(path string) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{Port: defaultPort},
		Notion: NotionConfig{TimeoutSec: defaultTimeoutSec},
		Cache:  CacheConfig{TTLSec: defaultCacheTTLs},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("reading config file %s: %w", path, err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)

	if cfg.Notion.PageID == "" {
		return nil, fmt.Errorf("notion page id is required (set notion.pageId or NOTION_PAGE_ID)")
	}
	if cfg.Server.Port <= 0 {
		return nil, fmt.Errorf("invalid server port %d", cfg.Server.Port)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("NOTION_PAGE_ID"); v != "" {
		cfg.Notion.PageID = v
	}
	if v := os.Getenv("NOTION_TOKEN_V2"); v != "" {
		cfg.Notion.Token = v
	}
	if v := os.Getenv("REVALIDATE_TOKEN"); v != "" {
		cfg.Revalidate.Token = v
	}
	if v := os.Getenv("REVALIDATE_TARGET_URL"); v != "" {
		cfg.Revalidate.TargetURL = v
	}
}
