package config

import (
	"fmt"
	"net/url"
	"os"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/hay-kot/criterio"
	"github.com/robfig/cron/v3"
)

// ValidationWarning represents a non-fatal configuration issue.
type ValidationWarning struct {
	Category string `json:"category"`
	Item     string `json:"item,omitempty"`
	Message  string `json:"message"`
}

// ValidateDeep performs comprehensive validation of the configuration including
// the lookup endpoint, fixture patterns, the refresh schedule and file
// accessibility. The configPath argument specifies the config file location to
// validate (empty string skips config file check).
// This calls Validate() first for basic structural validation, then adds I/O checks.
func (c *Config) ValidateDeep(configPath string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	return criterio.ValidateStruct(
		c.validateFileAccess(configPath),
		c.validateLookups(),
	)
}

// Warnings returns non-fatal configuration issues.
func (c *Config) Warnings() []ValidationWarning {
	var warnings []ValidationWarning

	if c.Lookups.URL == "" && !c.Lookups.UsesFixtures() {
		warnings = append(warnings, ValidationWarning{
			Category: "Lookups",
			Message:  "neither url nor fixtures is set, lookup pickers will be empty",
		})
	}

	if c.Lookups.URL != "" && c.Lookups.UsesFixtures() {
		warnings = append(warnings, ValidationWarning{
			Category: "Lookups",
			Item:     "fixtures",
			Message:  "fixtures take precedence over url",
		})
	}

	if c.Lookups.RefreshSchedule != "" && c.Lookups.CacheTTL == 0 {
		warnings = append(warnings, ValidationWarning{
			Category: "Lookups",
			Item:     "refresh_schedule",
			Message:  "refresh schedule has no effect while cache_ttl is 0",
		})
	}

	for i, pattern := range c.Lookups.Fixtures {
		matches, err := doublestar.FilepathGlob(pattern)
		if err == nil && len(matches) == 0 {
			warnings = append(warnings, ValidationWarning{
				Category: "Lookups",
				Item:     fmt.Sprintf("fixtures[%d]", i),
				Message:  fmt.Sprintf("pattern %q matches no files", pattern),
			})
		}
	}

	return warnings
}

// validateFileAccess checks the config file and data directory.
func (c *Config) validateFileAccess(configPath string) error {
	return criterio.ValidateStruct(
		validateConfigFile(configPath),
		criterio.Run("data_dir", c.DataDir, isDirectoryOrNotExist),
	)
}

func validateConfigFile(configPath string) error {
	if configPath == "" {
		return nil
	}

	info, err := os.Stat(configPath)
	if os.IsNotExist(err) {
		return nil // not found is fine, using defaults
	}
	if err != nil {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("cannot access: %w", err))
	}
	if info.IsDir() {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("%s is a directory, not a file", configPath))
	}
	return nil
}

// isDirectoryOrNotExist validates that a path is a directory or doesn't exist.
func isDirectoryOrNotExist(path string) error {
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil // will be created
	}
	if err != nil {
		return fmt.Errorf("cannot access: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("exists but is not a directory")
	}
	return nil
}

// validateLookups checks the endpoint URL, fixture glob syntax and the cron schedule.
func (c *Config) validateLookups() error {
	var errs criterio.FieldErrorsBuilder

	if c.Lookups.URL != "" {
		if err := validateEndpoint(c.Lookups.URL); err != nil {
			errs = errs.Append("lookups.url", err)
		}
	}

	for i, pattern := range c.Lookups.Fixtures {
		if !doublestar.ValidatePathPattern(pattern) {
			errs = errs.Append(fmt.Sprintf("lookups.fixtures[%d]", i), fmt.Errorf("invalid glob pattern %q", pattern))
		}
	}

	if c.Lookups.RefreshSchedule != "" {
		if _, err := cron.ParseStandard(c.Lookups.RefreshSchedule); err != nil {
			errs = errs.Append("lookups.refresh_schedule", fmt.Errorf("invalid cron expression: %w", err))
		}
	}

	return errs.ToError()
}

func validateEndpoint(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("url scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("url must include a host")
	}
	return nil
}
