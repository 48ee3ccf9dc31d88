package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResourceName(t *testing.T) {
	t.Parallel()
	n := Naming{Prefix: "alice", Suffix: "_hw3"}

	tests := []struct {
		resource string
		want     string
	}{
		{"vpc", "alice-vpc_hw3"},
		{"subnet-outside", "alice-subnet-outside_hw3"},
		{" igw ", "alice-igw_hw3"},
		{"rt/private", "alice-rt-private_hw3"},
	}
	for _, tt := range tests {
		t.Run(tt.resource, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, n.ResourceName(tt.resource))
		})
	}
}

func TestTags(t *testing.T) {
	t.Parallel()
	n := Naming{Prefix: "alice"}
	tags := n.Tags("alice-vpc")
	assert.Equal(t, "alice-vpc", tags["Name"])
	assert.Equal(t, "alice-stack", tags["Stack"])
	assert.Equal(t, "vpctier", tags["ManagedBy"])
}
