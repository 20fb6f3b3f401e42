// Package config loads and validates the CLI configuration from its four
// sources in precedence order: defaults, config file (with optional profile),
// HAMLET_* environment, then flags.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pmclSF/hamlet/pkg/migrate"
)

const (
	EnvPrefix         = "HAMLET"
	DefaultConfigName = ".hamlet"
)

// Config is the merged CLI configuration.
type Config struct {
	Source   string `mapstructure:"source"`
	Target   string `mapstructure:"target"`
	Language string `mapstructure:"language"`
	Emitter  string `mapstructure:"emitter"`

	InputPath  string `mapstructure:"input"`
	OutputPath string `mapstructure:"output"`

	Ignore      []string `mapstructure:"ignore"`
	MaxFileSize int64    `mapstructure:"maxFileSize"`

	Concurrency    int    `mapstructure:"concurrency"`
	OnError        string `mapstructure:"onError"`
	SkipValidation bool   `mapstructure:"skipValidation"`
	Encoding       string `mapstructure:"encoding"`

	ReportFormat string `mapstructure:"reportFormat"`
	FrontMatter  string `mapstructure:"frontMatter"`

	ConfigFilePath string `mapstructure:"-"`
	ProfileName    string `mapstructure:"-"`
	Verbose        bool   `mapstructure:"-"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("emitter", string(migrate.EmitterIRPatch))
	v.SetDefault("onError", string(migrate.OnErrorContinue))
	v.SetDefault("concurrency", 0)
	v.SetDefault("maxFileSize", int64(2*1024*1024))
	v.SetDefault("encoding", "")
	v.SetDefault("reportFormat", "text")
	v.SetDefault("frontMatter", "")
	v.SetDefault("ignore", []string{})
}

// LoadAndValidate merges configuration from every source, validates it, and
// returns the merged Config, the engine options derived from it, and the
// application logger.
func LoadAndValidate(cfgFile, profileName string, verbose bool, flags *pflag.FlagSet) (Config, migrate.Options, *slog.Logger, error) {
	var cfg Config
	v := viper.New()
	setDefaults(v)

	bootLogger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return cfg, migrate.Options{}, bootLogger, fmt.Errorf("resolve home directory: %w", err)
		}
		v.SetConfigName(DefaultConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(filepath.Join(home, ".config", "hamlet"))
		v.AddConfigPath(home)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) && cfgFile == "" {
			bootLogger.Debug("no configuration file found, using defaults")
		} else {
			return cfg, migrate.Options{}, bootLogger, fmt.Errorf("read config file: %w", err)
		}
	} else {
		cfg.ConfigFilePath = v.ConfigFileUsed()
	}

	cfg.ProfileName = profileName
	if profileName != "" {
		profileKey := "profiles." + profileName
		if !v.IsSet(profileKey) {
			return cfg, migrate.Options{}, bootLogger,
				fmt.Errorf("%w: profile %q not found in %s", migrate.ErrConfigValidation, profileName, v.ConfigFileUsed())
		}
		sub := v.Sub(profileKey)
		if sub == nil {
			return cfg, migrate.Options{}, bootLogger,
				fmt.Errorf("%w: profile %q is not a map", migrate.ErrConfigValidation, profileName)
		}
		if err := v.MergeConfigMap(sub.AllSettings()); err != nil {
			return cfg, migrate.Options{}, bootLogger, fmt.Errorf("merge profile %q: %w", profileName, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	for flagName, key := range flagKeys {
		if flags == nil {
			break
		}
		if fl := flags.Lookup(flagName); fl != nil {
			if err := v.BindPFlag(key, fl); err != nil {
				return cfg, migrate.Options{}, bootLogger, fmt.Errorf("bind flag %s: %w", flagName, err)
			}
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, migrate.Options{}, bootLogger, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.Verbose = verbose

	if err := validate(&cfg); err != nil {
		return cfg, migrate.Options{}, bootLogger, err
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	logger := slog.New(handler).With(slog.String("component", "cli"))

	opts := migrate.Options{
		Language:        cfg.Language,
		Emitter:         migrate.EmitterMode(cfg.Emitter),
		DefaultEncoding: cfg.Encoding,
		SkipValidation:  cfg.SkipValidation,
		Logger:          handler,
	}
	return cfg, opts, logger, nil
}

// flagKeys maps CLI flag spellings to config keys.
var flagKeys = map[string]string{
	"from":            "source",
	"to":              "target",
	"language":        "language",
	"emitter":         "emitter",
	"output":          "output",
	"ignore":          "ignore",
	"max-file-size":   "maxFileSize",
	"concurrency":     "concurrency",
	"on-error":        "onError",
	"skip-validation": "skipValidation",
	"encoding":        "encoding",
	"report":          "reportFormat",
	"front-matter":    "frontMatter",
}

var (
	validEmitters      = []string{string(migrate.EmitterLegacy), string(migrate.EmitterIRPatch), string(migrate.EmitterIRFull)}
	validOnError       = []string{string(migrate.OnErrorContinue), string(migrate.OnErrorStop)}
	validReportFormats = []string{"text", "json", "markdown", "html"}
	validFrontMatter   = []string{"", "yaml", "toml"}
)

func validate(cfg *Config) error {
	var problems []string
	if cfg.Source == "" {
		problems = append(problems, "source framework is required")
	}
	if cfg.Target == "" {
		problems = append(problems, "target framework is required")
	}
	if cfg.OutputPath == "" {
		problems = append(problems, "output path is required")
	}
	if !slices.Contains(validEmitters, cfg.Emitter) {
		problems = append(problems, fmt.Sprintf("emitter must be one of %v, got %q", validEmitters, cfg.Emitter))
	}
	if !slices.Contains(validOnError, cfg.OnError) {
		problems = append(problems, fmt.Sprintf("onError must be one of %v, got %q", validOnError, cfg.OnError))
	}
	if !slices.Contains(validReportFormats, cfg.ReportFormat) {
		problems = append(problems, fmt.Sprintf("reportFormat must be one of %v, got %q", validReportFormats, cfg.ReportFormat))
	}
	if !slices.Contains(validFrontMatter, cfg.FrontMatter) {
		problems = append(problems, fmt.Sprintf("frontMatter must be yaml, toml or empty, got %q", cfg.FrontMatter))
	}
	if cfg.Concurrency < 0 {
		problems = append(problems, fmt.Sprintf("concurrency must be >= 0, got %d", cfg.Concurrency))
	}
	if cfg.MaxFileSize < 0 {
		problems = append(problems, fmt.Sprintf("maxFileSize must be >= 0, got %d", cfg.MaxFileSize))
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", migrate.ErrConfigValidation, strings.Join(problems, "; "))
	}
	if cfg.Concurrency == 0 {
		cfg.Concurrency = runtime.GOMAXPROCS(0)
	}
	return nil
}
