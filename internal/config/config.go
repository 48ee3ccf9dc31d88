package config

import (
	"errors"
	"fmt"
	"net"
	"os"
)

// DefaultConfigFile is looked for in the current directory when no --config
// flag is given.
const DefaultConfigFile = "vpctier.yaml"

// Config describes one vpctier deployment: where it lives (AWS profile,
// region, expected account), how resources are named, and the network layout.
type Config struct {
	// AWS session binding. Account, when set, is verified against the STS
	// caller identity before any mutating call.
	Profile string `mapstructure:"profile"`
	Region  string `mapstructure:"region"`
	Account string `mapstructure:"account"`

	// Naming convention for every resource Name tag.
	NamePrefix string `mapstructure:"name_prefix"`
	NameSuffix string `mapstructure:"name_suffix"`

	// Network layout.
	VPCCIDR           string `mapstructure:"vpc_cidr"`
	PublicSubnetCIDR  string `mapstructure:"public_subnet_cidr"`
	PrivateSubnetCIDR string `mapstructure:"private_subnet_cidr"`

	// Compute tier.
	InstanceType string `mapstructure:"instance_type"`
	KeyDir       string `mapstructure:"key_dir"`
}

// Naming returns the naming convention for this deployment.
func (c *Config) Naming() Naming {
	return Naming{Prefix: c.NamePrefix, Suffix: c.NameSuffix}
}

// Default returns a configuration with every field at its default value.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Region == "" {
		c.Region = "us-west-1"
	}
	if c.NamePrefix == "" {
		c.NamePrefix = "vpctier"
	}
	if c.VPCCIDR == "" {
		c.VPCCIDR = "10.0.0.0/16"
	}
	if c.PublicSubnetCIDR == "" {
		c.PublicSubnetCIDR = "10.0.0.0/24"
	}
	if c.PrivateSubnetCIDR == "" {
		c.PrivateSubnetCIDR = "10.0.1.0/24"
	}
	if c.InstanceType == "" {
		c.InstanceType = "t3.micro"
	}
	if c.KeyDir == "" {
		c.KeyDir = ".keys"
	}
}

// Validate checks the configuration for internal consistency.
func (c *Config) Validate() error {
	for name, cidr := range map[string]string{
		"vpc_cidr":            c.VPCCIDR,
		"public_subnet_cidr":  c.PublicSubnetCIDR,
		"private_subnet_cidr": c.PrivateSubnetCIDR,
	} {
		ip, _, err := net.ParseCIDR(cidr)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", name, cidr, err)
		}
		if ip.To4() == nil {
			return fmt.Errorf("invalid %s %q: must be IPv4", name, cidr)
		}
	}
	for _, sub := range []string{c.PublicSubnetCIDR, c.PrivateSubnetCIDR} {
		if !cidrContains(c.VPCCIDR, sub) {
			return fmt.Errorf("subnet %s is not inside vpc_cidr %s", sub, c.VPCCIDR)
		}
	}
	if c.PublicSubnetCIDR == c.PrivateSubnetCIDR {
		return fmt.Errorf("public and private subnets must not share CIDR %s", c.PublicSubnetCIDR)
	}
	return nil
}

func cidrContains(outer, inner string) bool {
	_, outerNet, err := net.ParseCIDR(outer)
	if err != nil {
		return false
	}
	innerIP, innerNet, err := net.ParseCIDR(inner)
	if err != nil {
		return false
	}
	outerOnes, _ := outerNet.Mask.Size()
	innerOnes, _ := innerNet.Mask.Size()
	return outerNet.Contains(innerIP) && innerOnes >= outerOnes
}

// Load reads the configuration from path, or from DefaultConfigFile when path
// is empty, falling back to pure defaults when no file exists. Environment
// variables AWS_PROFILE and AWS_REGION override the file values.
func Load(path string) (*Config, error) {
	var cfg *Config
	if path != "" {
		c, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		cfg = c
	} else {
		c, err := LoadFile(DefaultConfigFile)
		switch {
		case err == nil:
			cfg = c
		case errors.Is(err, os.ErrNotExist):
			cfg = Default()
		default:
			return nil, err
		}
	}

	if v := os.Getenv("AWS_PROFILE"); v != "" {
		cfg.Profile = v
	}
	if v := os.Getenv("AWS_REGION"); v != "" {
		cfg.Region = v
	}
	return cfg, nil
}
