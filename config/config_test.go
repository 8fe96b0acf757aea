package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ENVIRONMENT", "development")

	cfg, err := load()
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.StartingDice)
	assert.Equal(t, 60*time.Second, cfg.DecisionTimeout)
	assert.Equal(t, 3, cfg.MaxInvalidActions)
	assert.Equal(t, "gpt-4o-mini", cfg.LLMModel)
	assert.Equal(t, "development", cfg.Environment)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STARTING_DICE", "3")
	t.Setenv("DECISION_TIMEOUT", "15s")
	t.Setenv("LLM_API_KEY", "sk-test")
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost:5432")
	t.Setenv("DATABASE_NAME", "liarsdice")

	cfg, err := load()
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.StartingDice)
	assert.Equal(t, 15*time.Second, cfg.DecisionTimeout)
	assert.True(t, cfg.HasLLM())
	assert.True(t, cfg.HasDatabase())
	assert.Equal(t, "postgres://u:p@localhost:5432/liarsdice?sslmode=disable", cfg.GetDatabaseURL())
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"zero starting dice", "STARTING_DICE", "0"},
		{"negative timeout", "DECISION_TIMEOUT", "-1s"},
		{"zero invalid actions", "MAX_INVALID_ACTIONS", "0"},
		{"unparseable dice", "STARTING_DICE", "five"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			_, err := load()
			assert.Error(t, err)
		})
	}
}

func TestValidateForBot(t *testing.T) {
	cfg := NewTestConfig()
	assert.Error(t, cfg.ValidateForBot())

	cfg.DiscordToken = "token"
	assert.Error(t, cfg.ValidateForBot())

	cfg.DatabaseURL = "postgres://localhost"
	assert.NoError(t, cfg.ValidateForBot())
}

func TestSetTestConfig(t *testing.T) {
	defer ResetConfig()

	testCfg := NewTestConfig()
	testCfg.StartingDice = 2
	SetTestConfig(testCfg)

	assert.Same(t, testCfg, Get())
}
