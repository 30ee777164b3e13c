package gateway

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the offline gateway's deploy-time configuration. CacheName is
// the cache generation identifier: bumping it on deploy supersedes every
// previously stored response.
type Config struct {
	Listen    string `yaml:"listen"`
	Upstream  string `yaml:"upstream"`
	CacheName string `yaml:"cache_name"`

	// Origins whose requests always go network-first (the data API).
	NetworkFirstOrigins []string `yaml:"network_first_origins"`

	// Static paths cached at install, served relative to the upstream.
	Precache    []string `yaml:"precache"`
	OfflinePath string   `yaml:"offline_path"`

	// Optional cap on a single network attempt; zero means no cap.
	NetworkTimeout time.Duration `yaml:"network_timeout"`

	Store struct {
		// "memory", "redis" or "leveldb".
		Backend string `yaml:"backend"`
		Path    string `yaml:"path"`
		Redis   struct {
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
	} `yaml:"store"`
}

func LoadConfig(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if cfg.Listen == "" {
		cfg.Listen = ":8090"
	}
	if cfg.Upstream == "" {
		return nil, fmt.Errorf("config: upstream is required")
	}
	if cfg.CacheName == "" {
		return nil, fmt.Errorf("config: cache_name is required")
	}
	if cfg.OfflinePath == "" {
		cfg.OfflinePath = "/offline.html"
	}
	if cfg.Store.Backend == "" {
		cfg.Store.Backend = "memory"
	}

	return &cfg, nil
}
