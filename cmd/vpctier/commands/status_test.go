package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus(t *testing.T) {
	cmd := Status()

	require.NotNil(t, cmd)
	assert.Equal(t, "status", cmd.Use)
	assert.NotNil(t, cmd.RunE)
}

func TestStatus_Flags(t *testing.T) {
	cmd := Status()

	watch := cmd.Flags().Lookup("watch")
	require.NotNil(t, watch)
	assert.Equal(t, "w", watch.Shorthand)
	assert.Equal(t, "false", watch.DefValue)

	interval := cmd.Flags().Lookup("interval")
	require.NotNil(t, interval)
	assert.Equal(t, "5s", interval.DefValue)
}
