package entities

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	logger "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Settings is the top-level configuration for the repository read layer.
type Settings struct {
	// MirrorsRoot is the directory holding all bare mirrors. Defaults to
	// <user cache dir>/gitread/mirrors.
	MirrorsRoot string `yaml:"mirrors_root"`
	// GitBinary is the executable used for every protocol operation.
	GitBinary string `yaml:"git_binary"`
	// CommandTimeout bounds a single external invocation.
	CommandTimeoutSeconds int `yaml:"command_timeout_seconds"`
	// FetchRetries is the attempt budget for network-classified fetch
	// failures (total attempts, not extra retries).
	FetchRetries int `yaml:"fetch_retries"`
	BackoffMinMS int `yaml:"backoff_min_ms"`
	BackoffMaxMS int `yaml:"backoff_max_ms"`
	// ListingTTLSeconds and ContentTTLSeconds control cache expiry.
	// Content lives longer than listings: file bodies change less often
	// than directory shape in this domain.
	ListingTTLSeconds int `yaml:"listing_ttl_seconds"`
	ContentTTLSeconds int `yaml:"content_ttl_seconds"`

	Redis RedisSettings `yaml:"redis"`
	Auth  AuthSettings  `yaml:"auth"`
}

// RedisSettings selects the shared response cache. An empty Addr falls back
// to the in-process cache.
type RedisSettings struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// AuthSettings supplies default credentials when the caller provides none.
// Secret accepts an inline value, a ${ENV_VAR} reference or a file path.
type AuthSettings struct {
	Username string `yaml:"username"`
	Secret   string `yaml:"secret"`
}

// envVarPattern matches ${VAR_NAME} placeholders.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)}`)

// NewSettings reads and parses a configuration file, expanding environment
// variables and resolving secret file paths.
func NewSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}

	var settings Settings
	if unmarshalErr := yaml.Unmarshal(data, &settings); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", unmarshalErr)
	}

	settings.Auth.Username = expandEnv(settings.Auth.Username)
	settings.Auth.Secret = resolveSecret(settings.Auth.Secret)
	settings.applyDefaults()

	if validateErr := settings.validate(); validateErr != nil {
		return nil, validateErr
	}

	return &settings, nil
}

// ConfigPath is the explicit config file location given on the command
// line; empty means auto-detect.
type ConfigPath string

// LoadSettings resolves settings from an explicit config path, or falls
// back to the standard locations when none is given. An explicit path that
// fails to load is an error, not a silent fallback.
func LoadSettings(path ConfigPath) (*Settings, error) {
	if path == "" {
		return DefaultSettings(), nil
	}
	return NewSettings(string(path))
}

// DefaultSettings returns settings from the first config file found in the
// standard locations, or pure defaults when there is none.
func DefaultSettings() *Settings {
	if path, err := FindConfigFile(); err == nil {
		if settings, loadErr := NewSettings(path); loadErr == nil {
			logger.Debugf("Using config file: %s", path)
			return settings
		}
	}
	settings := &Settings{}
	settings.applyDefaults()
	return settings
}

// FindConfigFile searches for a configuration file in standard locations.
// Returns the path of the first file found or an error if none is found.
func FindConfigFile() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = ""
	}

	locations := []string{
		".",
		".config",
		"configs",
	}
	if homeDir != "" {
		locations = append(
			locations,
			homeDir,
			filepath.Join(homeDir, ".config"),
		)
	}

	patterns := []string{
		".gitread.yaml",
		".gitread.yml",
		"gitread.yaml",
		"gitread.yml",
	}

	for _, loc := range locations {
		for _, pat := range patterns {
			p := filepath.Join(loc, pat)
			if _, statErr := os.Stat(p); statErr == nil {
				return p, nil
			}
		}
	}

	return "", errors.New("config file not found in default locations")
}

func (s *Settings) applyDefaults() {
	if s.MirrorsRoot == "" {
		cacheDir, err := os.UserCacheDir()
		if err != nil {
			cacheDir = os.TempDir()
		}
		s.MirrorsRoot = filepath.Join(cacheDir, "gitread", "mirrors")
	}
	if s.GitBinary == "" {
		s.GitBinary = "git"
	}
	if s.CommandTimeoutSeconds <= 0 {
		s.CommandTimeoutSeconds = 30
	}
	if s.FetchRetries <= 0 {
		s.FetchRetries = 3
	}
	if s.BackoffMinMS <= 0 {
		s.BackoffMinMS = 200
	}
	if s.BackoffMaxMS <= 0 {
		s.BackoffMaxMS = 5000
	}
	if s.ListingTTLSeconds <= 0 {
		s.ListingTTLSeconds = 60
	}
	if s.ContentTTLSeconds <= 0 {
		s.ContentTTLSeconds = 300
	}
}

func (s *Settings) validate() error {
	if s.ContentTTLSeconds < s.ListingTTLSeconds {
		return fmt.Errorf(
			"content_ttl_seconds (%d) must not be shorter than listing_ttl_seconds (%d)",
			s.ContentTTLSeconds, s.ListingTTLSeconds,
		)
	}
	if s.BackoffMaxMS < s.BackoffMinMS {
		return fmt.Errorf(
			"backoff_max_ms (%d) must not be shorter than backoff_min_ms (%d)",
			s.BackoffMaxMS, s.BackoffMinMS,
		)
	}
	return nil
}

// CommandTimeout returns the per-invocation deadline.
func (s *Settings) CommandTimeout() time.Duration {
	return time.Duration(s.CommandTimeoutSeconds) * time.Second
}

// ListingTTL returns the cache expiry for directory listings.
func (s *Settings) ListingTTL() time.Duration {
	return time.Duration(s.ListingTTLSeconds) * time.Second
}

// ContentTTL returns the cache expiry for file bodies.
func (s *Settings) ContentTTL() time.Duration {
	return time.Duration(s.ContentTTLSeconds) * time.Second
}

// BackoffMin returns the initial retry delay.
func (s *Settings) BackoffMin() time.Duration {
	return time.Duration(s.BackoffMinMS) * time.Millisecond
}

// BackoffMax returns the retry delay ceiling.
func (s *Settings) BackoffMax() time.Duration {
	return time.Duration(s.BackoffMaxMS) * time.Millisecond
}

// expandEnv expands ${ENV_VAR} references.
func expandEnv(raw string) string {
	if raw == "" {
		return raw
	}
	return envVarPattern.ReplaceAllStringFunc(raw, func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		logger.Warnf("Environment variable %q is not set", varName)
		return ""
	})
}

// resolveSecret expands environment variable references and, if the
// resulting string is a path to an existing file, reads the secret from the
// file. The secret value itself is never logged.
func resolveSecret(raw string) string {
	resolved := expandEnv(raw)
	if resolved == "" {
		return resolved
	}

	if _, statErr := os.Stat(resolved); statErr == nil {
		data, readErr := os.ReadFile(resolved)
		if readErr != nil {
			logger.Warnf("Failed to read secret file %q: %v", resolved, readErr)
			return resolved
		}
		logger.Debugf("Read secret from file %q", resolved)
		return strings.TrimSpace(string(data))
	}

	return resolved
}
