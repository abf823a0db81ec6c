package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/curbsignal/curbsignal/core/civiltime"
	"github.com/curbsignal/curbsignal/core/metrics"
	"github.com/curbsignal/curbsignal/infra/cache"
	"github.com/curbsignal/curbsignal/infra/calendar"
	"github.com/curbsignal/curbsignal/infra/scraper"
	"github.com/curbsignal/curbsignal/infra/slack"
)

// Config is the full service configuration. Values are loaded once per
// process and treated as immutable for a decision cycle.
type Config struct {
	Timezone string          `json:"timezone"`
	Schedule ScheduleConfig  `json:"schedule"`
	Slack    slack.Config    `json:"slack"`
	Calendar calendar.Config `json:"calendar"`
	Scraper  scraper.Config  `json:"scraper"`
	Cache    CacheConfig     `json:"cache"`
	Metrics  metrics.Config  `json:"metrics"`
	Triggers TriggersConfig  `json:"triggers"`
}

// CacheConfig selects the suspension-cache store backend.
type CacheConfig struct {
	// Backend is "memory" or "redis".
	Backend string            `json:"backend"`
	Redis   cache.RedisConfig `json:"redis"`
}

// SetDefaults applies sane defaults.
func (c *CacheConfig) SetDefaults() {
	if c.Backend == "" {
		c.Backend = "memory"
	}
}

// Validate checks mandatory fields.
func (c CacheConfig) Validate() error {
	switch c.Backend {
	case "memory":
	case "redis":
		if c.Redis.Addr == "" {
			return fmt.Errorf("cache.redis.addr is required for the redis backend")
		}
	default:
		return fmt.Errorf("unknown cache backend %s", c.Backend)
	}
	return nil
}

// Load reads the configuration file (YAML or JSON by extension) and applies
// CS_-prefixed environment overrides.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("CS_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "cs_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SetDefaults applies defaults across all sections.
func (c *Config) SetDefaults() {
	if c.Timezone == "" {
		c.Timezone = civiltime.DefaultZone
	}
	c.Schedule.SetDefaults()
	c.Slack.SetDefaults()
	c.Calendar.SetDefaults()
	c.Scraper.SetDefaults()
	c.Cache.SetDefaults()
	c.Metrics.SetDefaults()
	c.Triggers.SetDefaults()
}

// Validate checks all sections. A failure here is fatal to the cycle: no
// notification can even be composed without a valid configuration.
func (c *Config) Validate() error {
	if err := c.Schedule.Validate(); err != nil {
		return err
	}
	if err := c.Slack.Validate(); err != nil {
		return err
	}
	if err := c.Calendar.Validate(); err != nil {
		return err
	}
	if err := c.Cache.Validate(); err != nil {
		return err
	}
	return c.Triggers.Validate()
}
