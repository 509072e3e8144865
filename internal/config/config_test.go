package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrewedunn/battlefield-first-edition/internal/game"
)

func TestLoad_DefaultValues(t *testing.T) {
	s, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "battlefield", s.Level)
	assert.False(t, s.ChaosMode)
	assert.Equal(t, int64(0), s.Seed)
	assert.Equal(t, "blue", s.HumanTeam)
	assert.Equal(t, []string{"red"}, s.AITeams)
	assert.Equal(t, "info", s.LogLevel)
	assert.Equal(t, "console", s.LogFormat)
	assert.Equal(t, "battlefield_first_edition", s.SaveApp)
	assert.Equal(t, int64(16), s.FrameMs)
}

func TestLoad_WithValidConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfg := `
level: citylife
chaosMode: true
seed: 42
aiTeams: [blue, red]
humanTeam: none
logLevel: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "battlefield.yaml"), []byte(cfg), 0o644))

	s, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "citylife", s.Level)
	assert.True(t, s.ChaosMode)
	assert.Equal(t, int64(42), s.Seed)
	assert.Equal(t, []string{"blue", "red"}, s.AITeams)
	assert.Equal(t, "debug", s.LogLevel)
	assert.Equal(t, "console", s.LogFormat, "unset keys keep defaults")
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("BATTLEFIELD_LEVEL", "citylife")
	t.Setenv("BATTLEFIELD_SEED", "7")

	s, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "citylife", s.Level)
	assert.Equal(t, int64(7), s.Seed)
}

func TestLoad_MalformedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "battlefield.yaml"), []byte("level: [unclosed"), 0o644))

	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestLoad_RejectsZeroFrame(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "battlefield.yaml"), []byte("frameMs: 0"), 0o644))

	_, err := Load(dir)
	require.Error(t, err)
}

func TestGameConfig(t *testing.T) {
	s := Settings{HumanTeam: "blue", AITeams: []string{"red"}, Seed: 5, ChaosMode: true}
	cfg, err := s.GameConfig()
	require.NoError(t, err)
	assert.Equal(t, game.TeamBlue, cfg.HumanTeam)
	assert.Equal(t, []game.Team{game.TeamRed}, cfg.AITeams)
	assert.Equal(t, int64(5), cfg.Seed)
	assert.True(t, cfg.ChaosMode)

	spectate := Settings{HumanTeam: "none", AITeams: []string{"blue", "red"}}
	cfg, err = spectate.GameConfig()
	require.NoError(t, err)
	assert.Equal(t, game.TeamNone, cfg.HumanTeam)
	assert.Len(t, cfg.AITeams, 2)
}

func TestGameConfig_Errors(t *testing.T) {
	_, err := Settings{HumanTeam: "green"}.GameConfig()
	assert.Error(t, err)

	_, err = Settings{HumanTeam: "blue", AITeams: []string{"blue"}}.GameConfig()
	assert.ErrorContains(t, err, "already human-controlled")
}
