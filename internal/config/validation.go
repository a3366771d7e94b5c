package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

// validate performs basic sanity checks after defaults are applied.
func validate(c *Config) error {
	if err := c.Spectra.validate(); err != nil {
		return err
	}
	return nil
}

func (s *SpectraConfig) validate() error {
	if strings.TrimSpace(s.FilesystemPath) == "" {
		return fmt.Errorf("spectra.filesystem_path is required")
	}
	if strings.TrimSpace(s.JobsPath) == "" {
		return fmt.Errorf("spectra.jobs_path is required")
	}
	if !filepath.IsAbs(s.FilesystemPath) {
		return fmt.Errorf("spectra.filesystem_path must be absolute (got %q)", s.FilesystemPath)
	}
	if !filepath.IsAbs(s.JobsPath) {
		return fmt.Errorf("spectra.jobs_path must be absolute (got %q)", s.JobsPath)
	}
	return nil
}
