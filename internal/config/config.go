package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/vvka-141/datahub/pkg/datahub"
	"gopkg.in/yaml.v3"
)

// ErrConfigNotFound is returned when the config file does not exist.
// Callers can check for this with errors.Is(err, config.ErrConfigNotFound).
var ErrConfigNotFound = errors.New("config file not found")

// FetchSection holds fetch settings. Zero values mean "use the default".
type FetchSection struct {
	Endpoint  string `yaml:"endpoint,omitempty"`
	PageSize  int    `yaml:"page_size,omitempty"`
	MaxOffset int    `yaml:"max_offset,omitempty"`
	Delay     string `yaml:"delay,omitempty"`
	Timeout   string `yaml:"timeout,omitempty"`
	QueryFile string `yaml:"query_file,omitempty"`
	Output    string `yaml:"output,omitempty"`
}

// LoadSection holds load settings. CommitEvery is a pointer because 0 is a
// meaningful value (commit only at the end).
type LoadSection struct {
	CommitEvery *int     `yaml:"commit_every,omitempty"`
	Languages   []string `yaml:"languages,omitempty"`
}

type ProjectConfig struct {
	Fetch FetchSection `yaml:"fetch"`
	Load  LoadSection  `yaml:"load"`
}

// Load reads and validates the project file at path.
func Load(path string) (*ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &cfg, nil
}

func (c *ProjectConfig) validate() error {
	var errs []error
	if _, err := c.Fetch.DelayDuration(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.Fetch.TimeoutDuration(); err != nil {
		errs = append(errs, err)
	}
	if c.Fetch.PageSize < 0 {
		errs = append(errs, fmt.Errorf("fetch.page_size cannot be negative"))
	}
	if c.Fetch.MaxOffset < 0 {
		errs = append(errs, fmt.Errorf("fetch.max_offset cannot be negative"))
	}
	if c.Load.CommitEvery != nil && *c.Load.CommitEvery < 0 {
		errs = append(errs, fmt.Errorf("load.commit_every cannot be negative"))
	}
	return datahub.JoinErrors(errs...)
}

// DelayDuration parses fetch.delay. An empty value returns 0 and no error.
func (f FetchSection) DelayDuration() (time.Duration, error) {
	return parseDuration("fetch.delay", f.Delay)
}

// TimeoutDuration parses fetch.timeout. An empty value returns 0 and no error.
func (f FetchSection) TimeoutDuration() (time.Duration, error) {
	return parseDuration("fetch.timeout", f.Timeout)
}

func parseDuration(key, value string) (time.Duration, error) {
	if value == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s cannot be negative", key)
	}
	return d, nil
}
