package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Config captures all options required for one extraction run. It is
// fixed for the whole run and threaded explicitly into the runner.
type Config struct {
	Patterns    []string
	Organize    bool
	Keep        bool
	OutputDir   string
	LogLevel    string
	IncludeType []string
	ExcludeType []string
}

// RegisterFlags attaches the shared CLI flags to the provided command.
func RegisterFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.BoolP("organize", "o", false, "Organize attachments into subfolders named after each input file")
	flags.BoolP("keep", "k", false, "Keep existing files by writing new ones under a random unique suffix")
	flags.String("output-dir", "attachments", "Directory attachments are written to")
	flags.String("log-level", "warn", "Logging level: debug, info, warn, error")
	flags.String("config", "", "Optional YAML file with flag defaults")
	flags.StringArray("include-type", nil, "Regex allow-list applied to attachment content types and filenames (mutually exclusive with --exclude-type)")
	flags.StringArray("exclude-type", nil, "Regex block-list applied to attachment content types and filenames (mutually exclusive with --include-type)")
}

// fileConfig is the shape of the optional YAML defaults file. Values
// only apply to flags the user did not set explicitly.
type fileConfig struct {
	Organize  bool   `yaml:"organize"`
	Keep      bool   `yaml:"keep"`
	OutputDir string `yaml:"output_dir"`
	LogLevel  string `yaml:"log_level"`
}

// Load converts the parsed Cobra flags into a Config with validation.
// The positional args are the input path patterns.
func Load(cmd *cobra.Command, args []string) (Config, error) {
	flags := cmd.Flags()

	organize, err := flags.GetBool("organize")
	if err != nil {
		return Config{}, err
	}
	keep, err := flags.GetBool("keep")
	if err != nil {
		return Config{}, err
	}
	outputDir, err := flags.GetString("output-dir")
	if err != nil {
		return Config{}, err
	}
	logLevel, err := flags.GetString("log-level")
	if err != nil {
		return Config{}, err
	}
	configPath, err := flags.GetString("config")
	if err != nil {
		return Config{}, err
	}
	includeType, err := flags.GetStringArray("include-type")
	if err != nil {
		return Config{}, err
	}
	excludeType, err := flags.GetStringArray("exclude-type")
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Patterns:    args,
		Organize:    organize,
		Keep:        keep,
		OutputDir:   outputDir,
		LogLevel:    logLevel,
		IncludeType: includeType,
		ExcludeType: excludeType,
	}

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		var fc fileConfig
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return Config{}, fmt.Errorf("parse config file: %w", err)
		}
		if !flags.Changed("organize") {
			cfg.Organize = fc.Organize
		}
		if !flags.Changed("keep") {
			cfg.Keep = fc.Keep
		}
		if !flags.Changed("output-dir") && fc.OutputDir != "" {
			cfg.OutputDir = fc.OutputDir
		}
		if !flags.Changed("log-level") && fc.LogLevel != "" {
			cfg.LogLevel = fc.LogLevel
		}
	}

	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	if cfg.LogLevel == "warning" {
		cfg.LogLevel = "warn"
	}

	if err := validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func validate(cfg Config) error {
	if cfg.OutputDir == "" {
		return fmt.Errorf("--output-dir must not be empty")
	}
	if len(cfg.IncludeType) > 0 && len(cfg.ExcludeType) > 0 {
		return fmt.Errorf("--include-type and --exclude-type are mutually exclusive")
	}

	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid --log-level: %s", cfg.LogLevel)
	}

	return nil
}
