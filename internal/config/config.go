// Package config provides Viper-based configuration loading for the tworld engine.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// WorldConfig locates the world definition file.
type WorldConfig struct {
	// Path is a .yaml, .yml or .lua world file.
	Path string `mapstructure:"path"`
}

// GameConfig holds player and session settings.
type GameConfig struct {
	// AdminName is the player name that unlocks admin commands. Empty disables them.
	AdminName string `mapstructure:"admin_name"`
	// PlayerName names the player character.
	PlayerName string `mapstructure:"player_name"`
	// PlayerHealth is the starting health.
	PlayerHealth int `mapstructure:"player_health"`
	// MaxHealth caps player health; 0 means no cap.
	MaxHealth int `mapstructure:"max_health"`
	// PlayerAttack is the base attack.
	PlayerAttack int `mapstructure:"player_attack"`
	// PlayerResistance is the base resistance.
	PlayerResistance int `mapstructure:"player_resistance"`
	// Seed selects a deterministic random source when non-zero.
	Seed int64 `mapstructure:"seed"`
	// SaveDir holds save files.
	SaveDir string `mapstructure:"save_dir"`
}

// DisplayConfig holds terminal output settings.
type DisplayConfig struct {
	// Width is the column at which output is wrapped; 0 disables wrapping.
	Width int `mapstructure:"width"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
	// Output is "stderr", "stdout" or a file path.
	Output string `mapstructure:"output"`
}

// Config is the top-level application configuration.
type Config struct {
	World   WorldConfig   `mapstructure:"world"`
	Game    GameConfig    `mapstructure:"game"`
	Display DisplayConfig `mapstructure:"display"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateWorld(c.World); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateGame(c.Game); err != nil {
		errs = append(errs, err.Error())
	}
	if c.Display.Width < 0 {
		errs = append(errs, fmt.Sprintf("display.width must be >= 0, got %d", c.Display.Width))
	}
	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateWorld(w WorldConfig) error {
	if w.Path == "" {
		return errors.New("world.path must not be empty")
	}
	switch ext := strings.ToLower(filepath.Ext(w.Path)); ext {
	case ".yaml", ".yml", ".lua":
		return nil
	default:
		return fmt.Errorf("world.path must end in .yaml, .yml or .lua, got %q", w.Path)
	}
}

func validateGame(g GameConfig) error {
	var errs []string
	if strings.TrimSpace(g.PlayerName) == "" {
		errs = append(errs, "game.player_name must not be empty")
	}
	if g.PlayerHealth < 1 {
		errs = append(errs, fmt.Sprintf("game.player_health must be >= 1, got %d", g.PlayerHealth))
	}
	if g.MaxHealth < 0 {
		errs = append(errs, fmt.Sprintf("game.max_health must be >= 0, got %d", g.MaxHealth))
	}
	if g.MaxHealth > 0 && g.PlayerHealth > g.MaxHealth {
		errs = append(errs, "game.player_health must not exceed game.max_health")
	}
	if g.PlayerAttack < 0 {
		errs = append(errs, fmt.Sprintf("game.player_attack must be >= 0, got %d", g.PlayerAttack))
	}
	if g.PlayerResistance < 0 {
		errs = append(errs, fmt.Sprintf("game.player_resistance must be >= 0, got %d", g.PlayerResistance))
	}
	if g.SaveDir == "" {
		errs = append(errs, "game.save_dir must not be empty")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
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
	if l.Output == "" {
		return errors.New("logging.output must not be empty")
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result. An empty path uses defaults and the
// environment only.
//
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := New()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}
	return LoadFromViper(v)
}

// New returns a Viper instance with defaults and TWORLD_ environment overrides.
func New() *viper.Viper {
	v := viper.New()

	// Environment variable overrides with TWORLD_ prefix
	v.SetEnvPrefix("TWORLD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	return v
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

func setDefaults(v *viper.Viper) {
	v.SetDefault("world.path", "content/world.yaml")

	v.SetDefault("game.admin_name", "admin")
	v.SetDefault("game.player_name", "Player")
	v.SetDefault("game.player_health", 100)
	v.SetDefault("game.max_health", 0)
	v.SetDefault("game.player_attack", 10)
	v.SetDefault("game.player_resistance", 0)
	v.SetDefault("game.seed", 0)
	v.SetDefault("game.save_dir", "saves")

	v.SetDefault("display.width", 80)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.output", "stderr")
}
