// Package config handles TOML configuration loading with environment variable substitution.
package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the root configuration structure.
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Database  DatabaseConfig  `toml:"database"`
	Extractor ExtractorConfig `toml:"extractor"`
}

type ServerConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	LogLevel string `toml:"log_level"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

// ExtractorConfig controls how jobs drive the extraction engine.
type ExtractorConfig struct {
	Binary              string   `toml:"binary"`
	AutoInstall         bool     `toml:"auto_install"`
	UserAgent           string   `toml:"user_agent"`
	MaxAttempts         int      `toml:"max_attempts"`
	EngineRetries       int      `toml:"engine_retries"`
	ConcurrentFragments int      `toml:"concurrent_fragments"`
	AudioQuality        string   `toml:"audio_quality"`
	ScratchDir          string   `toml:"scratch_dir"`
	MaxConcurrentJobs   int      `toml:"max_concurrent_jobs"`
	StaleAfter          Duration `toml:"stale_after"`
}

// Duration is a time.Duration that decodes from TOML strings like "90m".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Defaults.
const (
	DefaultHost                = "0.0.0.0"
	DefaultPort                = 5000
	DefaultLogLevel            = "info"
	DefaultDatabasePath        = "./data/justpaste.db"
	DefaultBinary              = "yt-dlp"
	DefaultMaxAttempts         = 2
	DefaultEngineRetries       = 2
	DefaultConcurrentFragments = 5
	DefaultAudioQuality        = "192"
	DefaultMaxConcurrentJobs   = 4
	DefaultStaleAfter          = time.Hour
)

// Load reads and parses the configuration file.
// Unresolved environment variables and validation failures are reported
// together as a *ConfigError.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	content, missing := substituteEnvVars(string(data))
	if len(missing) > 0 {
		return nil, &ConfigError{Path: path, Missing: missing}
	}

	var cfg Config
	if _, err := toml.Decode(content, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.applyDefaults()

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, &ConfigError{Path: path, Errors: errs}
	}

	return &cfg, nil
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = DefaultHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = DefaultLogLevel
	}
	if c.Database.Path == "" {
		c.Database.Path = DefaultDatabasePath
	}
	if c.Extractor.Binary == "" {
		c.Extractor.Binary = DefaultBinary
	}
	if c.Extractor.MaxAttempts == 0 {
		c.Extractor.MaxAttempts = DefaultMaxAttempts
	}
	if c.Extractor.EngineRetries == 0 {
		c.Extractor.EngineRetries = DefaultEngineRetries
	}
	if c.Extractor.ConcurrentFragments == 0 {
		c.Extractor.ConcurrentFragments = DefaultConcurrentFragments
	}
	if c.Extractor.AudioQuality == "" {
		c.Extractor.AudioQuality = DefaultAudioQuality
	}
	if c.Extractor.MaxConcurrentJobs == 0 {
		c.Extractor.MaxConcurrentJobs = DefaultMaxConcurrentJobs
	}
	if c.Extractor.StaleAfter.Duration == 0 {
		c.Extractor.StaleAfter.Duration = DefaultStaleAfter
	}
}

// envVarPattern matches ${VAR}, ${VAR:-default} and ${VAR:?message}.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?:(:-|:\?)([^}]*))?\}`)

// substituteEnvVars replaces environment references in content.
// Full-line comments are copied through untouched. Unresolvable
// references are left unchanged and reported in missing.
func substituteEnvVars(content string) (string, []string) {
	var missing []string
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		lines[i] = envVarPattern.ReplaceAllStringFunc(line, func(match string) string {
			parts := envVarPattern.FindStringSubmatch(match)
			name, op, arg := parts[1], parts[2], parts[3]
			value, ok := os.LookupEnv(name)

			switch op {
			case ":-":
				if !ok || value == "" {
					return arg
				}
				return value
			case ":?":
				if !ok || value == "" {
					missing = append(missing, fmt.Sprintf("%s: %s", name, strings.TrimSpace(arg)))
					return match
				}
				return value
			default:
				if !ok {
					missing = append(missing, name)
					return match
				}
				return value
			}
		})
	}
	return strings.Join(lines, "\n"), missing
}
