package main

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/gopherjs/sourcemap"
)

// config is the merged view of flags, SMGEN_* environment variables and the
// config file. Keys match flag names.
type config struct {
	File           string `mapstructure:"file"`
	SourceRoot     string `mapstructure:"source-root"`
	SkipValidation bool   `mapstructure:"skip-validation"`
	Verbose        bool   `mapstructure:"verbose"`

	OutDir       string `mapstructure:"out-dir"`
	Out          string `mapstructure:"out"`
	EmbedSources bool   `mapstructure:"embed-sources"`
	Workers      int    `mapstructure:"workers"`
	Watch        bool   `mapstructure:"watch"`
}

// generatorOptions returns generator options for a map of the given generated
// file. The configured file name takes precedence.
func (c config) generatorOptions(file string) sourcemap.Options {
	if c.File != "" {
		file = c.File
	}
	return sourcemap.Options{
		File:           file,
		SourceRoot:     c.SourceRoot,
		SkipValidation: c.SkipValidation,
	}
}

const configName = ".smgen"

// loadConfig reads the configuration into a.cfg. Flags explicitly set on the
// command line win over the environment, which wins over the config file.
func (a *app) loadConfig(flags *pflag.FlagSet) error {
	v := a.v
	v.SetFs(a.fs)
	v.SetDefault("workers", runtime.NumCPU())
	v.SetConfigType("yaml")
	v.SetEnvPrefix("SMGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if a.cfgFile != "" {
		v.SetConfigFile(a.cfgFile)
	} else {
		v.SetConfigName(configName)
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	if err := v.BindPFlags(flags); err != nil {
		return fmt.Errorf("failed to bind flags: %w", err)
	}
	if err := v.Unmarshal(&a.cfg); err != nil {
		return fmt.Errorf("failed to decode config: %w", err)
	}

	if a.cfg.Workers < 1 {
		return fmt.Errorf("workers must be positive, got %d", a.cfg.Workers)
	}
	return nil
}
