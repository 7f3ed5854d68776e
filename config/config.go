// Package config loads the settings for a test run: where the system under test lives, how
// long to wait for it, and which of its known defects the suites should expect.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

const (
	DefaultAPIBaseURL = "http://localhost:9966/petclinic/api"
	DefaultUIBaseURL  = "http://localhost:4200"
)

// Config is the complete configuration of a test run. Values are resolved with the priority
// command line > environment > config file > defaults.
type Config struct {
	API     APIConfig     `toml:"api"`
	UI      UIConfig      `toml:"ui"`
	Defects DefectsConfig `toml:"defects"`
}

type APIConfig struct {
	BaseURL string `toml:"base_url" validate:"required,url"`

	// StatusPath is requested at startup to find out whether the backend is up.
	StatusPath        string   `toml:"status_path" validate:"required,startswith=/"`
	StatusTimeout     Duration `toml:"status_timeout" validate:"gt=0"`
	RequestTimeout    Duration `toml:"request_timeout" validate:"gt=0"`
	RequestsPerSecond float64  `toml:"requests_per_second" validate:"gte=0"`
}

type UIConfig struct {
	Enabled bool   `toml:"enabled"`
	BaseURL string `toml:"base_url" validate:"required_if=Enabled true,omitempty,url"`

	Headless     bool     `toml:"headless"`
	NoSandbox    bool     `toml:"no_sandbox"`
	ChromePath   string   `toml:"chrome_path"`
	WindowWidth  int      `toml:"window_width" validate:"gte=0"`
	WindowHeight int      `toml:"window_height" validate:"gte=0"`
	WaitTimeout  Duration `toml:"wait_timeout" validate:"gt=0"`

	// SettleDelay is how long to pause after each browser test before starting the next one.
	SettleDelay Duration `toml:"settle_delay" validate:"gte=0"`

	// ScreenshotDir, if set, receives a screenshot of the page whenever a browser test fails.
	ScreenshotDir string `toml:"screenshot_dir"`
}

// DefectsConfig controls how the suites treat behaviors of the backend that are known to be
// wrong. By default a known defect is expected, so that the rest of the suite stays green.
type DefectsConfig struct {
	// Strict makes every suite expect correct behavior everywhere.
	Strict bool `toml:"strict"`

	// AssumeFixed lists individual defects that should no longer be expected.
	AssumeFixed []string `toml:"assume_fixed"`
}

// Expected reports whether the suites should expect the defective behavior.
func (d DefectsConfig) Expected(defectID string) bool {
	if d.Strict {
		return false
	}
	for _, id := range d.AssumeFixed {
		if id == defectID {
			return false
		}
	}
	return true
}

// Duration is a time.Duration that is written as a string such as "2.5s" in the config file.
type Duration time.Duration

func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func NewDefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:        DefaultAPIBaseURL,
			StatusPath:     "/pettypes",
			StatusTimeout:  Duration(10 * time.Second),
			RequestTimeout: Duration(10 * time.Second),
		},
		UI: UIConfig{
			Enabled:      true,
			BaseURL:      DefaultUIBaseURL,
			Headless:     true,
			WindowWidth:  1280,
			WindowHeight: 1024,
			WaitTimeout:  Duration(10 * time.Second),
			SettleDelay:  Duration(2500 * time.Millisecond),
		},
	}
}

// Load builds a Config from the defaults, the optional TOML file at path, and environment
// variables. The result is not validated yet, since command-line overrides may still apply.
func Load(path string) (*Config, error) {
	config := NewDefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := applyEnvOverrides(config); err != nil {
		return nil, err
	}
	return config, nil
}

func applyEnvOverrides(config *Config) error {
	if v := os.Getenv("PETCLINIC_API_URL"); v != "" {
		config.API.BaseURL = v
	}
	if v := os.Getenv("PETCLINIC_UI_URL"); v != "" {
		config.UI.BaseURL = v
	}
	if err := envBool("PETCLINIC_UI_ENABLED", &config.UI.Enabled); err != nil {
		return err
	}
	if err := envBool("PETCLINIC_HEADLESS", &config.UI.Headless); err != nil {
		return err
	}
	if v := os.Getenv("PETCLINIC_CHROME_PATH"); v != "" {
		config.UI.ChromePath = v
	}
	if v := os.Getenv("PETCLINIC_SCREENSHOT_DIR"); v != "" {
		config.UI.ScreenshotDir = v
	}
	if err := envBool("PETCLINIC_STRICT", &config.Defects.Strict); err != nil {
		return err
	}
	if v := os.Getenv("PETCLINIC_DEFECTS_FIXED"); v != "" {
		for _, id := range strings.Split(v, ",") {
			if id = strings.TrimSpace(id); id != "" {
				config.Defects.AssumeFixed = append(config.Defects.AssumeFixed, id)
			}
		}
	}
	return nil
}

// envBool sets *target from a boolean environment variable, if the variable is set.
func envBool(name string, target *bool) error {
	v := os.Getenv(name)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("invalid value %q for %s: expected true or false", v, name)
	}
	*target = b
	return nil
}

// Validate checks the final configuration.
func (c *Config) Validate() error {
	c.API.BaseURL = strings.TrimSuffix(c.API.BaseURL, "/")
	c.UI.BaseURL = strings.TrimSuffix(c.UI.BaseURL, "/")
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
