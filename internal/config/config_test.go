package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	t.Parallel()
	cfg := Default()
	assert.Equal(t, "us-west-1", cfg.Region)
	assert.Equal(t, "10.0.0.0/16", cfg.VPCCIDR)
	assert.Equal(t, "10.0.0.0/24", cfg.PublicSubnetCIDR)
	assert.Equal(t, "10.0.1.0/24", cfg.PrivateSubnetCIDR)
	assert.Equal(t, "t3.micro", cfg.InstanceType)
	require.NoError(t, cfg.Validate())
}

func TestLoadFile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "vpctier.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
profile: lab
region: eu-west-1
account: "123456789012"
name_prefix: demo
name_suffix: _cc
vpc_cidr: 10.10.0.0/16
public_subnet_cidr: 10.10.0.0/24
private_subnet_cidr: 10.10.1.0/24
instance_type: t3.small
`), 0o600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "lab", cfg.Profile)
	assert.Equal(t, "eu-west-1", cfg.Region)
	assert.Equal(t, "123456789012", cfg.Account)
	assert.Equal(t, "demo", cfg.NamePrefix)
	assert.Equal(t, "10.10.0.0/16", cfg.VPCCIDR)
	assert.Equal(t, "t3.small", cfg.InstanceType)
}

func TestLoadFile_Defaults(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "vpctier.yaml")
	require.NoError(t, os.WriteFile(path, []byte("profile: lab\n"), 0o600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.0/16", cfg.VPCCIDR)
	assert.Equal(t, "vpctier", cfg.NamePrefix)
}

func TestLoadFile_Missing(t *testing.T) {
	t.Parallel()
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestValidate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"bad vpc cidr", func(c *Config) { c.VPCCIDR = "not-a-cidr" }, "invalid vpc_cidr"},
		{"subnet outside vpc", func(c *Config) { c.PublicSubnetCIDR = "192.168.0.0/24" }, "not inside vpc_cidr"},
		{"subnets collide", func(c *Config) { c.PrivateSubnetCIDR = c.PublicSubnetCIDR }, "must not share"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
