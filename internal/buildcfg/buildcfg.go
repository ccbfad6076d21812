// Package buildcfg loads the build configuration file and resolves which
// profile a build invocation uses.
package buildcfg

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Mode selects which profile and compiler settings a build uses.
type Mode string

const (
	ModeProduction  Mode = "production"
	ModeDevelopment Mode = "development"
	ModeNone        Mode = "none"
)

// profileTest is the profile substituted for test builds, regardless of
// the resolved mode.
const profileTest = "test"

// Flags are the environment flags recognized by a build invocation.
type Flags struct {
	Development bool
	Production  bool
	Watch       bool
	Test        bool
}

// ResolveMode picks the build mode from the flag set. Production wins
// over development when both are set.
func ResolveMode(f Flags) Mode {
	switch {
	case f.Production:
		return ModeProduction
	case f.Development:
		return ModeDevelopment
	default:
		return ModeNone
	}
}

// Secrets holds the per-profile credentials substituted into the
// extension source and, for the signing fields, into the manifest.
type Secrets struct {
	ClientID     string `yaml:"clientId"`
	ClientSecret string `yaml:"clientSecret"`
	RollbarToken string `yaml:"rollbarToken"`
	TMDBAPIKey   string `yaml:"tmdbApiKey"`

	// ChromeExtensionKey pins the extension ID for unpacked Chrome
	// builds. Optional.
	ChromeExtensionKey string `yaml:"chromeExtensionKey"`
	// FirefoxExtensionID is the gecko add-on ID required for signed
	// Firefox builds. Optional.
	FirefoxExtensionID string `yaml:"firefoxExtensionId"`
}

// Meta is the static product metadata stamped into every manifest.
type Meta struct {
	Name        string `yaml:"name"`
	Version     string `yaml:"version"`
	Description string `yaml:"description"`
}

// Config is the parsed build configuration file. Loaded once per
// invocation and never mutated afterwards.
type Config struct {
	Meta     Meta               `yaml:"meta"`
	Profiles map[string]Secrets `yaml:"profiles"`
}

// Load reads and parses the configuration file at path. A missing or
// malformed file aborts the build.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read build config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse build config %s: %w", path, err)
	}

	return &cfg, nil
}

// Profile returns the secrets for the resolved mode. Test builds always
// use the dedicated test profile so real credentials never leak into
// test output.
func (c *Config) Profile(mode Mode, test bool) (Secrets, error) {
	key := string(mode)
	if test {
		key = profileTest
	}

	secrets, ok := c.Profiles[key]
	if !ok {
		return Secrets{}, fmt.Errorf("build config has no %q profile", key)
	}

	return secrets, nil
}
