package main

import (
	"testing"

	"github.com/localfeat/backend/internal/seed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandTree(t *testing.T) {
	for _, args := range [][]string{
		{"migrate"},
		{"sweep"},
		{"bots", "create"},
		{"bots", "status"},
		{"seed-activity"},
	} {
		cmd, rest, err := rootCmd.Find(args)
		require.NoError(t, err, args)
		assert.Empty(t, rest)
		assert.Equal(t, args[len(args)-1], cmd.Name())
	}
}

func TestBotsCreateFlagDefaults(t *testing.T) {
	count := botsCreateCmd.Flags().Lookup("count")
	require.NotNil(t, count)
	assert.Equal(t, "5000", count.DefValue)
	assert.Equal(t, seed.DefaultBotCount, 5000)

	batch := botsCreateCmd.Flags().Lookup("batch-size")
	require.NotNil(t, batch)
	assert.Equal(t, "50", batch.DefValue)
}

func TestSeedActivityFlags(t *testing.T) {
	require.NotNil(t, seedActivityCmd.Flags().Lookup("lat"))
	require.NotNil(t, seedActivityCmd.Flags().Lookup("lng"))
}
