package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUp(t *testing.T) {
	cmd := Up()

	require.NotNil(t, cmd)
	assert.Equal(t, "up", cmd.Use)
	assert.NotNil(t, cmd.RunE)
	assert.Contains(t, cmd.Long, "cumulative")
}

func TestUp_Flags(t *testing.T) {
	cmd := Up()

	config := cmd.Flags().Lookup("config")
	require.NotNil(t, config)
	assert.Equal(t, "c", config.Shorthand)
	assert.Equal(t, "", config.DefValue)

	tier := cmd.Flags().Lookup("tier")
	require.NotNil(t, tier)
	assert.Equal(t, "t", tier.Shorthand)
	assert.Equal(t, "compute", tier.DefValue, "up defaults to the full stack")
}
