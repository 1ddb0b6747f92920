package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// configName is the config file name without extension.
const configName = ".rangeflow"

// configType is the config file format.
const configType = "yaml"

// envPrefix is the environment variable prefix for rangeflow settings.
const envPrefix = "RANGEFLOW"

// envKeySeparator is the nested key separator in environment variable names.
const envKeySeparator = "_"

// DefaultEnvFile is read, if present, before environment variables are bound.
const DefaultEnvFile = ".env"

// Options tell Load where to look.
type Options struct {
	// ConfigPath is an explicit config file. When empty, .rangeflow.yaml is
	// searched in the working directory.
	ConfigPath string
	// EnvFile is a dotenv file; variables already set in the environment win.
	// A missing file is ignored.
	EnvFile string
	// Flags are bound over every other source. Flag names use '-' where
	// config keys use '_' or '.'; see FlagKeys.
	Flags *pflag.FlagSet
	// FlagKeys maps flag names to config keys when they differ. A flag
	// mapped to "" is not bound.
	FlagKeys map[string]string
}

// Load loads configuration from defaults, file, env vars and flags.
// A missing config file is not an error.
func Load(opts Options) (*Config, error) {
	if opts.EnvFile != "" {
		if err := godotenv.Load(opts.EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load env file: %w", err)
		}
	}

	v := viper.New()
	applyDefaults(v)

	v.SetConfigType(configType)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", envKeySeparator))
	v.AutomaticEnv()

	if opts.ConfigPath != "" {
		v.SetConfigFile(opts.ConfigPath)
	} else {
		v.SetConfigName(configName)
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	if opts.Flags != nil {
		var bindErr error
		opts.Flags.VisitAll(func(f *pflag.Flag) {
			key, ok := opts.FlagKeys[f.Name]
			if !ok {
				key = f.Name
			}
			if key == "" {
				return
			}
			bindErr = errors.Join(bindErr, v.BindPFlag(key, f))
		})
		if bindErr != nil {
			return nil, fmt.Errorf("bind flags: %w", bindErr)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.Log.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &cfg, nil
}

func applyDefaults(v *viper.Viper) {
	v.SetDefault("first", "")
	v.SetDefault("last", "")
	v.SetDefault("mode", ModeLazy)
	v.SetDefault("format", FormatText)
	v.SetDefault("separator", "")
	v.SetDefault("color", false)
	v.SetDefault("discard_skipped", false)
	v.SetDefault("stats", false)
	v.SetDefault("output", "")

	v.SetDefault("fields.print", []int{})
	v.SetDefault("fields.separator", "")
	v.SetDefault("fields.pattern", "")
	v.SetDefault("fields.widths", []int{})
	v.SetDefault("fields.join", " ")

	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "stderr")
	v.SetDefault("log.no_color", false)
	v.SetDefault("log.timestamp", false)
	v.SetDefault("log.caller", false)

	v.SetDefault("metrics.addr", "")

	v.SetDefault("sqlite.path", "")
	v.SetDefault("sqlite.table", "ranges")
	v.SetDefault("sqlite.query", "")
	v.SetDefault("sqlite.store", false)
}
