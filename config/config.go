// Package config reads an optional file of default settings for a test run. The file can be
// JSON or YAML; its properties have the same names as the command-line flags, and any flag
// that is given on the command line takes precedence over the file.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/afero"
)

// RunConfig is the content of a configuration file. Absent properties are left at their zero
// value, meaning "not specified".
type RunConfig struct {
	URL            string   `json:"url"`
	Run            []string `json:"run"`
	Skip           []string `json:"skip"`
	Timeout        string   `json:"timeout"`
	Debug          *bool    `json:"debug"`
	DebugAll       *bool    `json:"debugAll"`
	JUnit          string   `json:"junit"`
	SkipFile       string   `json:"skipFile"`
	RecordFailures string   `json:"recordFailures"`
	LogLevel       string   `json:"logLevel"`
	Mock           *bool    `json:"mock"`
}

// Load reads and validates a configuration file.
func Load(fs afero.Fs, path string) (RunConfig, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return RunConfig{}, fmt.Errorf("cannot read configuration file: %w", err)
	}
	var c RunConfig
	if err := ParseJSONOrYAML(data, &c); err != nil {
		return RunConfig{}, fmt.Errorf("malformed configuration file %s: %w", path, err)
	}
	if c.Timeout != "" {
		if _, err := c.TimeoutDuration(); err != nil {
			return RunConfig{}, err
		}
	}
	return c, nil
}

// TimeoutDuration parses the Timeout property, which uses Go duration syntax such as "30s".
func (c RunConfig) TimeoutDuration() (time.Duration, error) {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q in configuration file: %w", c.Timeout, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("timeout in configuration file must be positive, was %q", c.Timeout)
	}
	return d, nil
}
