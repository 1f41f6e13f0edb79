package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func validConfig() Config {
	return Config{
		Scenario: ScenarioConfig{
			BossHP:     55,
			BossDamage: 8,
			PlayerHP:   50,
			Mana:       500,
		},
		Search: SearchConfig{
			Objective: "min_win",
			Workers:   1,
			Prune:     true,
			Memo:      true,
			Modes:     []string{ModeNormal, ModeHard},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "wizardsim.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestValidConfig(t *testing.T) {
	cfg := validConfig()
	assert.NoError(t, cfg.Validate())
}

func TestDefault(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)
	assert.Equal(t, ScenarioConfig{BossHP: 55, BossDamage: 8, PlayerHP: 50, Mana: 500}, cfg.Scenario)
	assert.Equal(t, "min_win", cfg.Search.Objective)
	assert.Equal(t, 1, cfg.Search.Workers)
	assert.True(t, cfg.Search.Prune)
	assert.True(t, cfg.Search.Memo)
	assert.Equal(t, []string{ModeNormal, ModeHard}, cfg.Search.Modes)
	assert.Empty(t, cfg.Spells.Dir)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, `
scenario:
  boss_hp: 71
  boss_damage: 10
  player_hp: 50
  mana: 500
search:
  objective: max_loss
  workers: 4
  prune: false
  modes: [hard]
spells:
  dir: content/spells
logging:
  level: debug
  format: console
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 71, cfg.Scenario.BossHP)
	assert.Equal(t, 10, cfg.Scenario.BossDamage)
	assert.Equal(t, "max_loss", cfg.Search.Objective)
	assert.Equal(t, 4, cfg.Search.Workers)
	assert.False(t, cfg.Search.Prune)
	assert.True(t, cfg.Search.Memo, "unset keys keep their defaults")
	assert.Equal(t, []string{ModeHard}, cfg.Search.Modes)
	assert.Equal(t, "content/spells", cfg.Spells.Dir)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadEnvOverride(t *testing.T) {
	path := writeConfig(t, "scenario:\n  boss_hp: 13\n")
	t.Setenv("WIZARDSIM_SCENARIO_BOSS_HP", "14")
	t.Setenv("WIZARDSIM_SEARCH_WORKERS", "3")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 14, cfg.Scenario.BossHP)
	assert.Equal(t, 3, cfg.Search.Workers)
}

func TestLoadInvalidPath(t *testing.T) {
	_, err := Load("/nonexistent/path.yaml")
	assert.Error(t, err)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	path := writeConfig(t, "scenario:\n  boss_hp: 0\n  mana: -5\n")
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scenario.boss_hp")
	assert.Contains(t, err.Error(), "scenario.mana")
}

func TestLoadFromViper(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("scenario.player_hp", 10)
	v.Set("scenario.mana", 250)
	cfg, err := LoadFromViper(v)
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Scenario.PlayerHP)
	assert.Equal(t, 250, cfg.Scenario.Mana)
}

func TestValidateCollectsAllViolations(t *testing.T) {
	cfg := validConfig()
	cfg.Scenario.PlayerHP = 0
	cfg.Search.Workers = 0
	cfg.Logging.Format = "xml"
	err := cfg.Validate()
	require.Error(t, err)
	for _, want := range []string{"scenario.player_hp", "search.workers", "logging.format"} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestValidateObjective(t *testing.T) {
	for _, obj := range []string{"min_win", "max_loss"} {
		cfg := validConfig()
		cfg.Search.Objective = obj
		assert.NoError(t, cfg.Validate(), "objective %q should be valid", obj)
	}
	cfg := validConfig()
	cfg.Search.Objective = "max_win"
	assert.Error(t, cfg.Validate())
}

func TestValidateModes(t *testing.T) {
	cfg := validConfig()
	cfg.Search.Modes = nil
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Search.Modes = []string{ModeHard, "nightmare"}
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Search.Modes = []string{ModeHard, ModeHard}
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Search.Modes = []string{ModeHard}
	assert.NoError(t, cfg.Validate())
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
}

func TestValidateBossDamageZero(t *testing.T) {
	cfg := validConfig()
	cfg.Scenario.BossDamage = 0
	assert.NoError(t, cfg.Validate(), "a harmless boss still hits for 1")
}

// Property-based tests

func TestPropertyValidScenario(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		cfg := validConfig()
		cfg.Scenario = ScenarioConfig{
			BossHP:     rapid.IntRange(1, 1000).Draw(t, "boss_hp"),
			BossDamage: rapid.IntRange(0, 100).Draw(t, "boss_damage"),
			PlayerHP:   rapid.IntRange(1, 1000).Draw(t, "player_hp"),
			Mana:       rapid.IntRange(0, 10000).Draw(t, "mana"),
		}
		if err := cfg.Validate(); err != nil {
			t.Fatalf("valid scenario %+v rejected: %v", cfg.Scenario, err)
		}
	})
}

func TestPropertyInvalidWorkers(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		cfg := validConfig()
		cfg.Search.Workers = rapid.IntRange(-1000, 0).Draw(t, "workers")
		if err := cfg.Validate(); err == nil {
			t.Fatalf("workers=%d accepted", cfg.Search.Workers)
		}
	})
}

func TestValidateMaximizeRequiresMemo(t *testing.T) {
	cfg := validConfig()
	cfg.Search.Objective = "max_loss"
	cfg.Search.Memo = false
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "search.memo")

	cfg.Search.Objective = "min_win"
	assert.NoError(t, cfg.Validate(), "memo is irrelevant when minimizing")
}
