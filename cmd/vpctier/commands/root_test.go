package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoot(t *testing.T) {
	cmd := Root()

	require.NotNil(t, cmd)
	assert.Equal(t, "vpctier", cmd.Use)
	assert.Equal(t, "Provision a tiered VPC lab environment on AWS", cmd.Short)
}

func TestRoot_HasSubcommands(t *testing.T) {
	cmd := Root()

	expected := []string{"up", "down", "status", "version", "completion"}

	subcommands := make(map[string]bool)
	for _, sub := range cmd.Commands() {
		subcommands[sub.Name()] = true
	}

	for _, name := range expected {
		assert.True(t, subcommands[name], "Expected subcommand %s not found", name)
	}
}

func TestRoot_SubcommandCount(t *testing.T) {
	cmd := Root()
	assert.Len(t, cmd.Commands(), 5, "Expected 5 subcommands")
}
