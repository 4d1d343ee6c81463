// Package config loads the optional slots.yaml of a project and resolves
// defaults for the slots CLI.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap/zapcore"
	"golang.org/x/mod/modfile"
	"golang.org/x/mod/module"
	"gopkg.in/yaml.v3"

	"github.com/go-drift/slots/pkg/core"
	"github.com/go-drift/slots/pkg/errors"
)

// FileName is the name of the optional project configuration file.
const FileName = "slots.yaml"

// Config represents the optional slots.yaml configuration.
type Config struct {
	App    AppConfig    `yaml:"app"`
	Log    LogConfig    `yaml:"log"`
	Render RenderConfig `yaml:"render"`
	Todo   TodoConfig   `yaml:"todo"`
}

// AppConfig contains application metadata.
type AppConfig struct {
	Name string `yaml:"name,omitempty"`
}

// LogConfig selects the CLI logger.
type LogConfig struct {
	Level       string `yaml:"level,omitempty"`
	Development bool   `yaml:"development,omitempty"`
}

// RenderConfig contains scheduler settings.
type RenderConfig struct {
	MaxPasses *int `yaml:"max_passes,omitempty"`
	Strict    bool `yaml:"strict,omitempty"`
}

// TodoConfig seeds the todo demo.
type TodoConfig struct {
	Items []string `yaml:"items,omitempty"`
}

// Resolved contains resolved configuration values.
type Resolved struct {
	Root       string
	ModulePath string
	AppName    string

	LogLevel       zapcore.Level
	LogDevelopment bool

	MaxPasses int
	Strict    bool

	TodoItems []string
}

// SchedulerOptions returns the scheduler options selected by the config.
func (r *Resolved) SchedulerOptions() []core.SchedulerOption {
	return []core.SchedulerOption{
		core.WithMaxPasses(r.MaxPasses),
		core.WithStrict(r.Strict),
	}
}

// LoadOptional reads slots.yaml from dir if present.
func LoadOptional(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, FileName), true)
}

// LoadFile reads a config file. When optional is set a missing file yields
// an empty config.
func LoadFile(path string, optional bool) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if optional && errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}

	return &cfg, nil
}

// Resolve loads slots.yaml (if present) from dir and resolves defaults.
// A directory without go.mod is allowed; the app name then falls back to the
// directory name.
func Resolve(dir string) (*Resolved, error) {
	cfg, err := LoadOptional(dir)
	if err != nil {
		return nil, err
	}
	return cfg.Resolve(dir)
}

// Resolve fills in defaults for cfg as if it had been loaded from dir.
func (cfg *Config) Resolve(dir string) (*Resolved, error) {
	modulePath, err := modulePath(dir)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	appName := strings.TrimSpace(cfg.App.Name)
	if appName == "" {
		appName = defaultAppName(modulePath, dir)
	}

	if err := cfg.validate(); err != nil {
		errors.Report(err)
		return nil, err
	}

	level := zapcore.InfoLevel
	if s := strings.TrimSpace(cfg.Log.Level); s != "" {
		level, _ = zapcore.ParseLevel(s)
	}

	maxPasses := core.DefaultMaxPasses
	if cfg.Render.MaxPasses != nil {
		maxPasses = *cfg.Render.MaxPasses
	}

	var items []string
	for _, item := range cfg.Todo.Items {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}

	return &Resolved{
		Root:           dir,
		ModulePath:     modulePath,
		AppName:        appName,
		LogLevel:       level,
		LogDevelopment: cfg.Log.Development,
		MaxPasses:      maxPasses,
		Strict:         cfg.Render.Strict,
		TodoItems:      items,
	}, nil
}

// Validate reports every invalid field. A non-nil result is a
// *errors.SlotsError of kind KindConfig wrapping one error per field.
func (cfg *Config) Validate() error {
	if err := cfg.validate(); err != nil {
		return err
	}
	return nil
}

func (cfg *Config) validate() *errors.SlotsError {
	var err error
	if s := strings.TrimSpace(cfg.Log.Level); s != "" {
		if _, perr := zapcore.ParseLevel(s); perr != nil {
			err = multierr.Append(err, fmt.Errorf("log.level: unknown level %q", s))
		}
	}
	if cfg.Render.MaxPasses != nil && *cfg.Render.MaxPasses <= 0 {
		err = multierr.Append(err, fmt.Errorf("render.max_passes must be positive (got %d)", *cfg.Render.MaxPasses))
	}
	if err == nil {
		return nil
	}
	return &errors.SlotsError{Op: "config.Validate", Kind: errors.KindConfig, Err: err}
}

// FindProjectRoot walks up from the current directory to find go.mod.
func FindProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return findRoot(dir)
}

func findRoot(dir string) (string, error) {
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("not in a Go module (no go.mod found)")
		}
		dir = parent
	}
}

func modulePath(dir string) (string, error) {
	data, err := os.ReadFile(filepath.Join(dir, "go.mod"))
	if err != nil {
		return "", fmt.Errorf("failed to read go.mod: %w", err)
	}
	path := modfile.ModulePath(data)
	if path == "" {
		return "", fmt.Errorf("could not determine module path from go.mod")
	}
	return path, nil
}

func defaultAppName(modulePath, dir string) string {
	base := filepath.Base(dir)
	if modulePath != "" {
		modName, _, ok := module.SplitPathVersion(modulePath)
		if ok {
			parts := strings.Split(modName, "/")
			base = parts[len(parts)-1]
		}
	}
	if base == "" || base == "." || base == string(filepath.Separator) {
		return "slots"
	}
	return base
}
