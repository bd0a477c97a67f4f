// Package config loads the per-project svelte-doctor configuration.
package config

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/bmatcuk/doublestar/v4"

	"sveltedoctor/internal/trace"
)

// ErrNotFound is returned by Load when the project has no configuration.
var ErrNotFound = errors.New("no svelte-doctor configuration found")

const (
	JSONFile       = "svelte-doctor.config.json"
	TOMLFile       = "svelte-doctor.toml"
	PackageFile    = "package.json"
	PackageJSONKey = "svelteDoctor"
)

type Config struct {
	Ignore  Ignore `json:"ignore" toml:"ignore"`
	Verbose bool   `json:"verbose" toml:"verbose"`
	Diff    Diff   `json:"diff" toml:"diff"`

	// Path is the file the configuration was read from; empty for defaults.
	Path string `json:"-" toml:"-"`
}

type Ignore struct {
	Rules []string `json:"rules" toml:"rules"`
	Files []string `json:"files" toml:"files"`
}

// Diff is `diff: true` or `diff: "main"`. It is carried for compatibility
// and not used by the scan.
type Diff struct {
	Enabled bool
	Base    string
}

func (d *Diff) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*d = Diff{}
		return nil
	}
	var enabled bool
	if err := json.Unmarshal(b, &enabled); err == nil {
		*d = Diff{Enabled: enabled}
		return nil
	}
	var base string
	if err := json.Unmarshal(b, &base); err != nil {
		return fmt.Errorf("diff must be a boolean or a branch name")
	}
	*d = Diff{Enabled: true, Base: base}
	return nil
}

func (d Diff) MarshalJSON() ([]byte, error) {
	if d.Base != "" {
		return json.Marshal(d.Base)
	}
	return json.Marshal(d.Enabled)
}

// UnmarshalTOML implements toml.Unmarshaler.
func (d *Diff) UnmarshalTOML(v any) error {
	switch v := v.(type) {
	case bool:
		*d = Diff{Enabled: v}
	case string:
		*d = Diff{Enabled: true, Base: v}
	default:
		return fmt.Errorf("diff must be a boolean or a branch name, got %T", v)
	}
	return nil
}

// Load reads the configuration of the project at root. The first existing
// file wins: svelte-doctor.config.json, svelte-doctor.toml, then the
// svelteDoctor key of package.json. Warnings are non-fatal findings such as
// unknown TOML keys or invalid ignore patterns.
func Load(root string) (cfg *Config, warnings []string, err error) {
	candidates := []struct {
		name string
		load func(path string) (*Config, []string, bool, error)
	}{
		{JSONFile, loadJSON},
		{TOMLFile, loadTOML},
		{PackageFile, loadPackageJSON},
	}
	for _, c := range candidates {
		path := filepath.Join(root, c.name)
		if _, statErr := os.Stat(path); statErr != nil {
			if errors.Is(statErr, os.ErrNotExist) {
				continue
			}
			return nil, nil, fmt.Errorf("failed to stat %q: %w", path, statErr)
		}
		cfg, warnings, found, err := c.load(path)
		if err != nil {
			return nil, nil, err
		}
		if !found {
			continue
		}
		cfg.Path = path
		warnings = append(warnings, cfg.validatePatterns()...)
		return cfg, warnings, nil
	}
	return nil, nil, ErrNotFound
}

// LoadOrDefault is Load for the scan: a missing file yields the empty
// configuration silently, a malformed one yields it with a warning event.
// Load warnings are logged as well.
func LoadOrDefault(ctx context.Context, root string) *Config {
	cfg, warnings, err := Load(root)
	switch {
	case errors.Is(err, ErrNotFound):
		return &Config{}
	case err != nil:
		trace.Warn(ctx, "config ignored", err.Error())
		return &Config{}
	}
	for _, w := range warnings {
		trace.Warn(ctx, "config", w, "file", cfg.Path)
	}
	return cfg
}

func loadJSON(path string) (*Config, []string, bool, error) {
	// #nosec G304 -- path is built from the project root
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, false, err
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, nil, false, fmt.Errorf("%s: failed to parse JSON: %w", path, err)
	}
	return &cfg, nil, true, nil
}

func loadTOML(path string) (*Config, []string, bool, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, nil, false, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	var warnings []string
	for _, key := range meta.Undecoded() {
		warnings = append(warnings, fmt.Sprintf("unknown key %q", key.String()))
	}
	return &cfg, warnings, true, nil
}

func loadPackageJSON(path string) (*Config, []string, bool, error) {
	// #nosec G304 -- path is built from the project root
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, false, err
	}
	var pkg map[string]json.RawMessage
	if err := json.Unmarshal(data, &pkg); err != nil {
		return nil, nil, false, fmt.Errorf("%s: failed to parse JSON: %w", path, err)
	}
	raw, ok := pkg[PackageJSONKey]
	if !ok {
		return nil, nil, false, nil
	}
	var cfg Config
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, nil, false, fmt.Errorf("%s: invalid %q: %w", path, PackageJSONKey, err)
	}
	return &cfg, nil, true, nil
}

// validatePatterns drops ignore.files entries doublestar cannot parse.
func (c *Config) validatePatterns() []string {
	var warnings []string
	kept := c.Ignore.Files[:0]
	for _, p := range c.Ignore.Files {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if !doublestar.ValidatePattern(p) {
			warnings = append(warnings, fmt.Sprintf("invalid ignore pattern %q", p))
			continue
		}
		kept = append(kept, p)
	}
	c.Ignore.Files = kept
	return warnings
}

// UnknownRules returns the ignore.rules entries known does not accept.
func (c *Config) UnknownRules(known func(id string) bool) []string {
	var out []string
	for _, id := range c.Ignore.Rules {
		if !known(id) {
			out = append(out, id)
		}
	}
	return out
}
