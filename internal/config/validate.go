// internal/config/validate.go
package config

import (
	"fmt"
	"os"
	"strings"
)

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true, "": true,
}

// Validate checks the configuration for errors.
// Returns a slice of error messages (empty if valid).
func (c *Config) Validate() []string {
	var errs []string

	// Server validation
	if c.Server.Port != 0 && (c.Server.Port < 1 || c.Server.Port > 65535) {
		errs = append(errs, fmt.Sprintf("server.port: must be between 1 and 65535, got %d", c.Server.Port))
	}
	if !validLogLevels[strings.ToLower(c.Server.LogLevel)] {
		errs = append(errs, fmt.Sprintf("server.log_level: must be one of debug, info, warn, error; got %q", c.Server.LogLevel))
	}

	// Extractor validation
	x := c.Extractor
	if x.MaxAttempts < 0 {
		errs = append(errs, fmt.Sprintf("extractor.max_attempts: must be at least 1, got %d", x.MaxAttempts))
	}
	if x.EngineRetries < 0 {
		errs = append(errs, fmt.Sprintf("extractor.engine_retries: must not be negative, got %d", x.EngineRetries))
	}
	if x.ConcurrentFragments < 0 {
		errs = append(errs, fmt.Sprintf("extractor.concurrent_fragments: must not be negative, got %d", x.ConcurrentFragments))
	}
	if x.MaxConcurrentJobs < 0 {
		errs = append(errs, fmt.Sprintf("extractor.max_concurrent_jobs: must be at least 1, got %d", x.MaxConcurrentJobs))
	}
	if x.StaleAfter.Duration < 0 {
		errs = append(errs, fmt.Sprintf("extractor.stale_after: must not be negative, got %s", x.StaleAfter))
	}
	if x.AudioQuality != "" && !isDigits(x.AudioQuality) {
		errs = append(errs, fmt.Sprintf("extractor.audio_quality: must be a bitrate in kbps, got %q", x.AudioQuality))
	}

	// Scratch dir must be a directory if it already exists
	if x.ScratchDir != "" {
		if info, err := os.Stat(x.ScratchDir); err == nil && !info.IsDir() {
			errs = append(errs, fmt.Sprintf("extractor.scratch_dir: %q is not a directory", x.ScratchDir))
		}
	}

	return errs
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
