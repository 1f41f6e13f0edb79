// Package config provides Viper-based configuration loading for wizardsim.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable override, so
// WIZARDSIM_SCENARIO_BOSS_HP overrides scenario.boss_hp.
const EnvPrefix = "WIZARDSIM"

// Mode names accepted in search.modes.
const (
	ModeNormal = "normal"
	ModeHard   = "hard"
)

// ScenarioConfig holds the fight being solved.
type ScenarioConfig struct {
	BossHP     int `mapstructure:"boss_hp"`
	BossDamage int `mapstructure:"boss_damage"`
	PlayerHP   int `mapstructure:"player_hp"`
	Mana       int `mapstructure:"mana"`
}

// SearchConfig holds solver settings.
type SearchConfig struct {
	// Objective is "min_win" or "max_loss".
	Objective string `mapstructure:"objective"`
	// Workers is the number of goroutines exploring first spell choices.
	Workers int  `mapstructure:"workers"`
	Prune   bool `mapstructure:"prune"`
	// Memo must stay true for max_loss, which is intractable without it.
	Memo bool `mapstructure:"memo"`
	// Modes lists the difficulty modes to solve, in order.
	Modes []string `mapstructure:"modes"`
}

// SpellsConfig locates the spell catalog.
type SpellsConfig struct {
	// Dir is a directory of spell YAML files; empty selects the built-in catalog.
	Dir string `mapstructure:"dir"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// Config is the top-level application configuration.
type Config struct {
	Scenario ScenarioConfig `mapstructure:"scenario"`
	Search   SearchConfig   `mapstructure:"search"`
	Spells   SpellsConfig   `mapstructure:"spells"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateScenario(c.Scenario); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateSearch(c.Search); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateScenario(s ScenarioConfig) error {
	var errs []string
	if s.BossHP < 1 {
		errs = append(errs, fmt.Sprintf("scenario.boss_hp must be >= 1, got %d", s.BossHP))
	}
	if s.BossDamage < 0 {
		errs = append(errs, fmt.Sprintf("scenario.boss_damage must be >= 0, got %d", s.BossDamage))
	}
	if s.PlayerHP < 1 {
		errs = append(errs, fmt.Sprintf("scenario.player_hp must be >= 1, got %d", s.PlayerHP))
	}
	if s.Mana < 0 {
		errs = append(errs, fmt.Sprintf("scenario.mana must be >= 0, got %d", s.Mana))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateSearch(s SearchConfig) error {
	var errs []string
	validObjectives := map[string]bool{"min_win": true, "max_loss": true}
	if !validObjectives[s.Objective] {
		errs = append(errs, fmt.Sprintf("search.objective must be one of [min_win, max_loss], got %q", s.Objective))
	}
	if s.Objective == "max_loss" && !s.Memo {
		errs = append(errs, "search.memo must be true when search.objective is max_loss")
	}
	if s.Workers < 1 {
		errs = append(errs, fmt.Sprintf("search.workers must be >= 1, got %d", s.Workers))
	}
	if len(s.Modes) == 0 {
		errs = append(errs, "search.modes must not be empty")
	}
	seen := make(map[string]bool, len(s.Modes))
	for _, m := range s.Modes {
		switch {
		case m != ModeNormal && m != ModeHard:
			errs = append(errs, fmt.Sprintf("search.modes entries must be one of [normal, hard], got %q", m))
		case seen[m]:
			errs = append(errs, fmt.Sprintf("search.modes lists %q twice", m))
		}
		seen[m] = true
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := newViper()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	return LoadFromViper(v)
}

// Default returns the built-in configuration with environment variable
// overrides applied.
//
// Postcondition: Returns a valid Config or a non-nil error caused by an override.
func Default() (Config, error) {
	return LoadFromViper(newViper())
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func newViper() *viper.Viper {
	v := viper.New()

	// Environment variable overrides with WIZARDSIM_ prefix
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("scenario.boss_hp", 55)
	v.SetDefault("scenario.boss_damage", 8)
	v.SetDefault("scenario.player_hp", 50)
	v.SetDefault("scenario.mana", 500)

	v.SetDefault("search.objective", "min_win")
	v.SetDefault("search.workers", 1)
	v.SetDefault("search.prune", true)
	v.SetDefault("search.memo", true)
	v.SetDefault("search.modes", []string{ModeNormal, ModeHard})

	v.SetDefault("spells.dir", "")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}
