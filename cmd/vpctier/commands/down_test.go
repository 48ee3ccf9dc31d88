package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDown(t *testing.T) {
	cmd := Down()

	require.NotNil(t, cmd)
	assert.Equal(t, "down", cmd.Use)
	assert.NotNil(t, cmd.RunE)
	assert.Contains(t, cmd.Long, "WARNING")
	assert.Contains(t, cmd.Long, "confirmation")
}

func TestDown_Flags(t *testing.T) {
	cmd := Down()

	config := cmd.Flags().Lookup("config")
	require.NotNil(t, config)
	assert.Equal(t, "c", config.Shorthand)

	tier := cmd.Flags().Lookup("tier")
	require.NotNil(t, tier)
	assert.Equal(t, "network", tier.DefValue, "down defaults to full teardown")

	purge := cmd.Flags().Lookup("purge")
	require.NotNil(t, purge)
	assert.Equal(t, "false", purge.DefValue, "reusable leftovers survive by default")
}
