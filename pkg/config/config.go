package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultURL is the Parlamento open-data export of the XVI legislature initiatives.
const DefaultURL = "https://app.parlamento.pt/webutils/docs/doc.txt?path=EGBbw1%2fntoc%2bpzwxllJ9%2bJGPE9LKERomtA0HsrfLArU6YGs%2b7rzIVqyzEJkv7B47bJVLun4Dqyalxamtz1H4OdxFpsONWLWreMporDuHdsGIzuaWf5vtHGEZj4zhW6OOZkijmbj%2fQQe7q7mx072d66QI%2fMeicVzyrHrkMWt3rsAjptydrm%2fWNGspsrVd%2fCNTascZjC7hMNx0bL9koztuga%2bB2dUfRc4FoRDfE%2fBo5SgcV%2ba1RIhvfF0XJSpACyB0tNK%2bWWXskm807oPzMbvLEx0ZLfGiVnLOYbcEx9VPLmtwY2QeAUQWW3HE9x9meY2iPAOTEPGwLFFYCG2SlKREAUPzcmI6kTLdXdknCAGxKC2Ru6RfR2ZR2dpHve4s1ipr&fich=IniciativasXVI_json.txt&Inline=true"

// DefaultCachePath is where the fetched export is kept.
const DefaultCachePath = "./data/parlamento_data.json"

type Source struct {
	URL          string        `yaml:"url"`
	UserAgent    string        `yaml:"user_agent"`
	Timeout      time.Duration `yaml:"timeout"`
	MaxRetries   int           `yaml:"max_retries"`
	Backoff      time.Duration `yaml:"backoff"`
	MaxBackoff   time.Duration `yaml:"max_backoff"`
	MaxBodyBytes int           `yaml:"max_body_bytes"` // 0 = unlimited
}

type Cache struct {
	Path string `yaml:"path"`
}

type Display struct {
	Color   *bool `yaml:"color"` // nil = default (true)
	Verbose bool  `yaml:"verbose"`
}

type Picker struct {
	Command string   `yaml:"command"`
	Args    []string `yaml:"args"`
}

type Metrics struct {
	Textfile string `yaml:"textfile"` // node_exporter textfile path, empty disables
}

type Config struct {
	Source  Source  `yaml:"source"`
	Cache   Cache   `yaml:"cache"`
	Display Display `yaml:"display"`
	Picker  Picker  `yaml:"picker"`
	Metrics Metrics `yaml:"metrics"`
}

// ColorEnabled reports whether colored output is configured.
func (c Config) ColorEnabled() bool {
	return c.Display.Color == nil || *c.Display.Color
}

// Default returns the configuration used when no file is given.
func Default() Config {
	var c Config
	c.applyDefaults()
	return c
}

// Load reads a YAML config. When required is false a missing file yields the defaults.
func Load(path string, required bool) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if !required && errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return Config{}, fmt.Errorf("parse yaml: %w", err)
	}
	if c.Source.MaxRetries < 0 {
		return Config{}, errors.New("source.max_retries must not be negative")
	}
	if c.Source.MaxBodyBytes < 0 {
		return Config{}, errors.New("source.max_body_bytes must not be negative")
	}
	c.applyDefaults()
	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Source.URL == "" {
		c.Source.URL = DefaultURL
	}
	if c.Source.Timeout == 0 {
		c.Source.Timeout = 60 * time.Second
	}
	if c.Source.MaxRetries == 0 {
		c.Source.MaxRetries = 3
	}
	if c.Source.Backoff == 0 {
		c.Source.Backoff = 500 * time.Millisecond
	}
	if c.Source.MaxBackoff == 0 {
		c.Source.MaxBackoff = 5 * time.Second
	}
	if c.Cache.Path == "" {
		c.Cache.Path = DefaultCachePath
	}
	if c.Picker.Command == "" {
		c.Picker.Command = "fzf"
	}
}
