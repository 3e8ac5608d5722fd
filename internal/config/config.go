// Package config loads extstub settings from defaults, an optional YAML
// file, EXTSTUB_* environment variables and command-line flags, in that
// order of increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/example/extstub/internal/generator"
	"github.com/example/extstub/internal/validator"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// EnvPrefix prefixes environment overrides, e.g. EXTSTUB_OUTPUT_DIR.
	EnvPrefix = "EXTSTUB"
	// FileName is looked up in the project directory when --config is unset.
	FileName = ".extstub.yml"
	// DefaultOutputDir is relative to the project directory.
	DefaultOutputDir = ".ide-stubs"
)

// Config holds every setting of a run.
type Config struct {
	ProjectDir      string   `mapstructure:"project_dir" validate:"required"`
	OutputDir       string   `mapstructure:"output_dir" validate:"required"`
	DeclarationFile string   `mapstructure:"declaration_file" validate:"required"`
	Extension       string   `mapstructure:"extension" validate:"required,alphanum"`
	IncludeRoot     bool     `mapstructure:"include_root"`
	Clean           bool     `mapstructure:"clean"`
	LogLevel        string   `mapstructure:"log_level" validate:"oneof=debug info warn error"`
	Packages        []string `mapstructure:"packages"`

	// File is the config file that was read, empty when none was.
	File string `mapstructure:"-"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		ProjectDir:      ".",
		OutputDir:       DefaultOutputDir,
		DeclarationFile: generator.DefaultDeclarationFile,
		Extension:       generator.DefaultExtension,
		IncludeRoot:     true,
		LogLevel:        "info",
	}
}

// Load resolves the configuration. configPath forces a specific file; flags
// may be nil and only flags that were explicitly set override other sources.
func Load(configPath string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	defaults := Default()
	v.SetDefault("project_dir", defaults.ProjectDir)
	v.SetDefault("output_dir", defaults.OutputDir)
	v.SetDefault("declaration_file", defaults.DeclarationFile)
	v.SetDefault("extension", defaults.Extension)
	v.SetDefault("include_root", defaults.IncludeRoot)
	v.SetDefault("clean", defaults.Clean)
	v.SetDefault("log_level", defaults.LogLevel)
	v.SetDefault("packages", []string{})

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if flags != nil {
		if err := bindFlags(v, flags); err != nil {
			return nil, err
		}
	}

	file := configPath
	if file == "" {
		candidate := filepath.Join(v.GetString("project_dir"), FileName)
		if _, err := os.Stat(candidate); err == nil {
			file = candidate
		}
	}
	if file != "" {
		v.SetConfigFile(file)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("config file not found: %s", file)
			}
			return nil, fmt.Errorf("failed to read config %s: %w", file, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.File = file

	// viper splits string arrays on commas, which would break paths
	if flags != nil && flags.Changed("package") {
		packages, err := flags.GetStringArray("package")
		if err != nil {
			return nil, fmt.Errorf("failed to read --package: %w", err)
		}
		cfg.Packages = packages
	}

	if err := validator.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	cfg.resolvePaths()
	return &cfg, nil
}

// resolvePaths makes OutputDir relative to ProjectDir.
func (c *Config) resolvePaths() {
	if !filepath.IsAbs(c.OutputDir) {
		c.OutputDir = filepath.Join(c.ProjectDir, c.OutputDir)
	}
}

// flagKeys maps flag names to config keys.
var flagKeys = map[string]string{
	"project":          "project_dir",
	"output":           "output_dir",
	"declaration-file": "declaration_file",
	"extension":        "extension",
	"include-root":     "include_root",
	"clean":            "clean",
	"log-level":        "log_level",
	"package":          "packages",
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := flags.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("failed to bind flag %s: %w", name, err)
		}
	}
	return nil
}

// GeneratorOptions converts the configuration for the generator.
func (c *Config) GeneratorOptions() generator.Options {
	return generator.Options{
		DeclarationFile: c.DeclarationFile,
		OutputDir:       c.OutputDir,
		Extension:       c.Extension,
		Clean:           c.Clean,
		ProjectDir:      c.ProjectDir,
	}
}
