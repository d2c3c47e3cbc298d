// Package config loads the effects engine, viewer and feed server settings
// from a YAML file with environment overrides.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"sort"
	"strconv"

	"gopkg.in/yaml.v3"

	"quietquadrant/internal/fx"
	"quietquadrant/internal/theme"
)

const (
	DefaultPath     = "quietquadrant.yaml"
	DefaultAddr     = ":8080"
	DefaultDataDir  = "data"
	DefaultTickRate = 20
)

// Feed is where a viewer takes its events from. An empty URL means the
// local demo generator.
type Feed struct {
	URL      string `yaml:"url"`
	APIBase  string `yaml:"api_base"`
	Password string `yaml:"-"`
}

type Server struct {
	Addr     string `yaml:"addr"`
	DataDir  string `yaml:"data_dir"`
	TickRate int    `yaml:"tick_rate"`
	Script   string `yaml:"script"` // JSON-lines event recording; empty means demo
}

type Config struct {
	Theme         string                       `yaml:"theme"`
	MaxParticles  int                          `yaml:"max_particles"`
	Pools         fx.Capacities                `yaml:"pools"`
	DamageNumbers bool                         `yaml:"damage_numbers"`
	Seed          int64                        `yaml:"seed"`
	Themes        map[string]map[string]string `yaml:"themes"`
	Feed          Feed                         `yaml:"feed"`
	Server        Server                       `yaml:"server"`
}

func Default() Config {
	return Config{
		Theme:        theme.Default,
		MaxParticles: fx.MaxParticles,
		Pools:        fx.DefaultCapacities(),
		Server: Server{
			Addr:     DefaultAddr,
			DataDir:  DefaultDataDir,
			TickRate: DefaultTickRate,
		},
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// FromEnv loads the file named by QQ_CONFIG, or quietquadrant.yaml.
func FromEnv() (Config, error) {
	return Load(getenv("QQ_CONFIG", DefaultPath))
}

// Load reads path over the defaults and applies env overrides. A missing
// file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			log.Printf("CFG: %s not found, using defaults", path)
		case err != nil:
			return Config{}, fmt.Errorf("read %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("yaml unmarshal %s: %w", path, err)
			}
		}
	}
	cfg.applyEnv()
	cfg.normalize()
	if _, err := cfg.Palette(cfg.Theme); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Theme = getenv("QQ_THEME", c.Theme)
	c.Feed.URL = getenv("QQ_FEED_URL", c.Feed.URL)
	c.Feed.APIBase = getenv("QQ_API_BASE", c.Feed.APIBase)
	c.Feed.Password = getenv("QQ_FEED_PASSWORD", c.Feed.Password)
	c.Server.Addr = getenv("QQ_ADDR", c.Server.Addr)
	c.Server.DataDir = getenv("QQ_DATA_DIR", c.Server.DataDir)
	if v := os.Getenv("QQ_SEED"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Seed = n
		} else {
			log.Printf("CFG: ignoring QQ_SEED=%q: %v", v, err)
		}
	}
}

// normalize replaces out-of-range values with defaults.
func (c *Config) normalize() {
	def := Default()
	if c.Theme == "" {
		c.Theme = def.Theme
	}
	if c.MaxParticles <= 0 {
		c.MaxParticles = def.MaxParticles
	}
	pos := func(v *int, d int) {
		if *v <= 0 {
			*v = d
		}
	}
	pos(&c.Pools.Points, def.Pools.Points)
	pos(&c.Pools.Lines, def.Pools.Lines)
	pos(&c.Pools.Rings, def.Pools.Rings)
	pos(&c.Pools.Shards, def.Pools.Shards)
	pos(&c.Pools.Labels, def.Pools.Labels)
	pos(&c.Pools.Phased, def.Pools.Phased)
	pos(&c.Server.TickRate, def.Server.TickRate)
	if c.Server.Addr == "" {
		c.Server.Addr = def.Server.Addr
	}
	if c.Server.DataDir == "" {
		c.Server.DataDir = def.Server.DataDir
	}
}

// FX is the engine configuration.
func (c Config) FX() fx.Config {
	return fx.Config{
		Capacities:   c.Pools,
		MaxParticles: c.MaxParticles,
		Settings:     fx.Settings{DamageNumbers: c.DamageNumbers},
		Seed:         c.Seed,
	}
}

// Palette resolves a theme name. Custom themes from the file win over
// built-ins; a custom theme's optional "base" key names the built-in it
// starts from.
func (c Config) Palette(name string) (theme.Theme, error) {
	if spec, ok := c.Themes[name]; ok {
		baseName := theme.Default
		roles := make(map[string]string, len(spec))
		for k, v := range spec {
			if k == "base" {
				baseName = v
				continue
			}
			roles[k] = v
		}
		base, ok := theme.Builtin(baseName)
		if !ok {
			return theme.Theme{}, fmt.Errorf("theme %q: unknown base %q", name, baseName)
		}
		return theme.FromHex(name, base, roles)
	}
	if t, ok := theme.Builtin(name); ok {
		return t, nil
	}
	return theme.Theme{}, fmt.Errorf("unknown theme %q", name)
}

// ThemeNames lists built-in and custom themes, sorted, without duplicates.
func (c Config) ThemeNames() []string {
	seen := map[string]bool{}
	var out []string
	for _, n := range theme.Names() {
		seen[n] = true
		out = append(out, n)
	}
	for n := range c.Themes {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	sort.Strings(out)
	return out
}
