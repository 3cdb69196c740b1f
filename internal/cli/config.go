package cli

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// configName is the per-project and per-user config file name.
const configName = ".swiftadd.toml"

// Config holds the optional settings read from .swiftadd.toml. All
// fields have working defaults so the file never needs to exist.
type Config struct {
	// Toolchain is the swift binary to invoke. Defaults to "swift".
	Toolchain string `toml:"toolchain"`

	// Exact pins new dependencies to the exact resolved version
	// instead of a from: range requirement.
	Exact bool `toml:"exact"`

	// CacheTTLHours is the catalog cache lifetime. Zero means the
	// default of 24 hours.
	CacheTTLHours int `toml:"cache_ttl_hours"`

	// Targets names the targets to wire without prompting. Empty
	// means ask interactively.
	Targets []string `toml:"targets"`

	// SkipBuild disables the verification build after resolution.
	SkipBuild bool `toml:"skip_build"`

	// GitHubToken authenticates catalog lookups. The GITHUB_TOKEN
	// environment variable takes precedence.
	GitHubToken string `toml:"github_token"`

	// BaseURL overrides the catalog API endpoint, for GitHub
	// Enterprise hosts.
	BaseURL string `toml:"base_url"`
}

// CacheTTL returns the configured catalog cache lifetime.
func (c *Config) CacheTTL() time.Duration {
	if c.CacheTTLHours <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(c.CacheTTLHours) * time.Hour
}

// Token returns the GitHub token, preferring the environment.
func (c *Config) Token() string {
	if tok := os.Getenv("GITHUB_TOKEN"); tok != "" {
		return tok
	}
	return c.GitHubToken
}

// LoadConfig reads .swiftadd.toml from dir, falling back to the user
// config directory. A missing file yields the zero config.
func LoadConfig(dir string) (*Config, error) {
	cfg := &Config{}

	path := filepath.Join(dir, configName)
	if _, err := os.Stat(path); err != nil {
		userDir, uerr := os.UserConfigDir()
		if uerr != nil {
			return cfg, nil
		}
		path = filepath.Join(userDir, "swiftadd", configName)
		if _, err := os.Stat(path); err != nil {
			return cfg, nil
		}
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
