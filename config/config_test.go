package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	assert.NoError(t, err)
	assert.Equal(t, DefaultKDFRounds, cfg.KDFRounds)
	assert.Equal(t, defaultLogLevel, cfg.LogLevel)
	assert.Equal(t, DefaultSessionTTLSeconds, cfg.SessionTTLSeconds)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("WALLET_KDF_ROUNDS", "4096")
	cfg, err := Load()
	assert.NoError(t, err)
	assert.Equal(t, 4096, cfg.KDFRounds)
}

func TestLoadRoundsFloor(t *testing.T) {
	t.Setenv("WALLET_KDF_ROUNDS", "16")
	cfg, err := Load()
	assert.NoError(t, err)
	assert.Equal(t, MinKDFRounds, cfg.KDFRounds)
}
