// Package config holds the tool configuration: AWS session binding, network
// layout, the resource naming convention, and environment-tunable timeouts.
package config
