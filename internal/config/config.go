// Package config loads service and CLI settings from an optional YAML file,
// a .env file and the environment, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"dcf-engine/internal/logging"
	"dcf-engine/internal/ode"
	"dcf-engine/internal/series"
)

// FileEnv names the environment variable pointing at a YAML config file.
const FileEnv = "DCF_CONFIG"

type Config struct {
	Server ServerConfig   `yaml:"server"`
	Log    logging.Config `yaml:"log"`
	ODE    ODEConfig      `yaml:"ode"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
}

// ODEConfig holds the solver settings that are not part of a model.
type ODEConfig struct {
	Method            string  `yaml:"method"`
	MaxSteps          uint    `yaml:"max_steps"`
	AbsoluteTolerance float64 `yaml:"absolute_tolerance"`
	RelativeTolerance float64 `yaml:"relative_tolerance"`
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{Port: "8080"},
		Log:    logging.DefaultConfig(),
		ODE: ODEConfig{
			Method:            ode.MethodRK4,
			MaxSteps:          ode.DefaultMaxStepCount,
			AbsoluteTolerance: ode.DefaultTolerance,
			RelativeTolerance: ode.DefaultTolerance,
		},
	}
}

// Load reads envFiles (".env" when none are given; missing files are
// ignored), then the YAML file named by DCF_CONFIG, then the environment.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	cfg := Default()
	if path := os.Getenv(FileEnv); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

// LoadFile reads a YAML config file over the defaults, without consulting
// the environment.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if err := cfg.loadFile(path); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("PORT"); v != "" {
		c.Server.Port = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		c.Log.Format = v
	}
	if v := os.Getenv("LOG_OUTPUT"); v != "" {
		c.Log.Output = v
	}
	if v := os.Getenv("ODE_METHOD"); v != "" {
		c.ODE.Method = v
	}
	if v := os.Getenv("ODE_MAX_STEPS"); v != "" {
		n, err := strconv.ParseUint(v, 10, 0)
		if err != nil {
			return fmt.Errorf("ODE_MAX_STEPS: %w", err)
		}
		c.ODE.MaxSteps = uint(n)
	}
	return nil
}

// Validate checks the solver settings with a placeholder step size.
func (c *Config) Validate() error {
	cfg := c.SeriesOptions().ODE
	cfg.InitialStepSize = 1
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid ode settings: %w", err)
	}
	return nil
}

// SeriesOptions converts the solver settings for series.Generate.
func (c *Config) SeriesOptions() series.Options {
	cfg := ode.DefaultConfig(0)
	cfg.Method = c.ODE.Method
	cfg.MaxStepCount = c.ODE.MaxSteps
	cfg.AbsoluteTolerance = c.ODE.AbsoluteTolerance
	cfg.RelativeTolerance = c.ODE.RelativeTolerance
	return series.Options{ODE: cfg}
}
