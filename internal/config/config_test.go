package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestArcadeConfig_ApplyDefaults(t *testing.T) {
	var cfg ArcadeConfig
	cfg.ApplyDefaults()

	assert.Equal(t, 60, cfg.RoundSeconds)
	assert.Equal(t, 15, cfg.VotingSeconds)
	assert.Equal(t, 5, cfg.ResultsSeconds)
	assert.Equal(t, 90, cfg.IntermissionSeconds)
	assert.Equal(t, 2, cfg.MinPlayers)
	assert.Equal(t, 6, cfg.MaxPlayers)
	assert.Equal(t, 5, cfg.RoundsPerGame)
	assert.Equal(t, 1000, cfg.SchedulerTickMs)
	assert.Equal(t, 5, cfg.StuckThresholdMin)
	assert.Equal(t, 0, cfg.SpeedWindowSeconds)
}

func TestArcadeConfig_ApplyDefaultsKeepsExplicitValues(t *testing.T) {
	cfg := ArcadeConfig{RoundSeconds: 30, MaxPlayers: 4, SpeedWindowSeconds: 10}
	cfg.ApplyDefaults()

	assert.Equal(t, 30, cfg.RoundSeconds)
	assert.Equal(t, 4, cfg.MaxPlayers)
	assert.Equal(t, 10, cfg.SpeedWindowSeconds)
	assert.Equal(t, 15, cfg.VotingSeconds)
}
