package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func validConfig() Config {
	return Config{
		World: WorldConfig{Path: "content/world.yaml"},
		Game: GameConfig{
			AdminName:    "admin",
			PlayerName:   "Player",
			PlayerHealth: 100,
			PlayerAttack: 10,
			SaveDir:      "saves",
		},
		Display: DisplayConfig{Width: 80},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
			Output: "stderr",
		},
	}
}

func TestValidConfig(t *testing.T) {
	cfg := validConfig()
	assert.NoError(t, cfg.Validate())
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, validConfig(), cfg)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yaml")
	err := os.WriteFile(path, []byte(`
world:
  path: worlds/keep.lua
game:
  player_name: Ada
  player_health: 40
  max_health: 50
  seed: 42
display:
  width: 0
logging:
  level: debug
  output: tworld.log
`), 0644)
	require.NoError(t, err)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "worlds/keep.lua", cfg.World.Path)
	assert.Equal(t, "Ada", cfg.Game.PlayerName)
	assert.Equal(t, 40, cfg.Game.PlayerHealth)
	assert.Equal(t, 50, cfg.Game.MaxHealth)
	assert.Equal(t, int64(42), cfg.Game.Seed)
	assert.Equal(t, "admin", cfg.Game.AdminName)
	assert.Equal(t, 0, cfg.Display.Width)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, "tworld.log", cfg.Logging.Output)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("TWORLD_GAME_PLAYER_NAME", "Env")
	t.Setenv("TWORLD_LOGGING_LEVEL", "warn")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "Env", cfg.Game.PlayerName)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoadInvalidPath(t *testing.T) {
	_, err := Load("/nonexistent/path.yaml")
	assert.Error(t, err)
}

func TestLoadInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("game:\n  player_health: 0\n"), 0644))
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "game.player_health")
}

func TestValidateWorldPath(t *testing.T) {
	for _, p := range []string{"w.yaml", "w.YML", "dir/w.lua"} {
		cfg := validConfig()
		cfg.World.Path = p
		assert.NoError(t, cfg.Validate(), "path %q should be valid", p)
	}
	for _, p := range []string{"", "w.json", "w"} {
		cfg := validConfig()
		cfg.World.Path = p
		assert.Error(t, cfg.Validate(), "path %q should be rejected", p)
	}
}

func TestValidateGame(t *testing.T) {
	cases := map[string]func(*GameConfig){
		"empty name":          func(g *GameConfig) { g.PlayerName = "  " },
		"zero health":         func(g *GameConfig) { g.PlayerHealth = 0 },
		"negative max":        func(g *GameConfig) { g.MaxHealth = -1 },
		"health above max":    func(g *GameConfig) { g.MaxHealth = 50 },
		"negative attack":     func(g *GameConfig) { g.PlayerAttack = -1 },
		"negative resistance": func(g *GameConfig) { g.PlayerResistance = -1 },
		"no save dir":         func(g *GameConfig) { g.SaveDir = "" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := validConfig()
			mutate(&cfg.Game)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestValidateEmptyAdminAllowed(t *testing.T) {
	cfg := validConfig()
	cfg.Game.AdminName = ""
	assert.NoError(t, cfg.Validate())
}

func TestValidateCollectsAllViolations(t *testing.T) {
	cfg := validConfig()
	cfg.World.Path = ""
	cfg.Display.Width = -1
	cfg.Logging.Level = "trace"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "world.path")
	assert.Contains(t, err.Error(), "display.width")
	assert.Contains(t, err.Error(), "logging.level")
}

func TestValidateLoggingLevel(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		cfg := validConfig()
		cfg.Logging.Level = level
		assert.NoError(t, cfg.Validate(), "level %q should be valid", level)
	}
	cfg := validConfig()
	cfg.Logging.Level = "trace"
	assert.Error(t, cfg.Validate())
}

func TestValidateLoggingFormat(t *testing.T) {
	for _, format := range []string{"json", "console"} {
		cfg := validConfig()
		cfg.Logging.Format = format
		assert.NoError(t, cfg.Validate(), "format %q should be valid", format)
	}
	cfg := validConfig()
	cfg.Logging.Format = "xml"
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Logging.Output = ""
	assert.Error(t, cfg.Validate())
}

// Property-based tests

func TestPropertyHealthWithinMaxAccepted(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		maxHealth := rapid.IntRange(1, 1000).Draw(t, "max_health")
		health := rapid.IntRange(1, maxHealth).Draw(t, "player_health")
		cfg := validConfig()
		cfg.Game.MaxHealth = maxHealth
		cfg.Game.PlayerHealth = health
		if err := cfg.Validate(); err != nil {
			t.Fatalf("health=%d max=%d rejected: %v", health, maxHealth, err)
		}
	})
}

func TestPropertyHealthAboveMaxRejected(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		maxHealth := rapid.IntRange(1, 100).Draw(t, "max_health")
		health := rapid.IntRange(maxHealth+1, maxHealth+100).Draw(t, "player_health")
		cfg := validConfig()
		cfg.Game.MaxHealth = maxHealth
		cfg.Game.PlayerHealth = health
		if cfg.Validate() == nil {
			t.Fatalf("health=%d > max=%d accepted", health, maxHealth)
		}
	})
}

func TestPropertyNegativeWidthRejected(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		cfg := validConfig()
		cfg.Display.Width = rapid.IntRange(-1000, -1).Draw(t, "width")
		if cfg.Validate() == nil {
			t.Fatalf("width %d accepted", cfg.Display.Width)
		}
	})
}
