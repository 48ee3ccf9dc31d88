package config

import (
	"os"
	"strconv"
	"time"
)

// Timeouts holds all configurable timeout values.
// These values can be customized via environment variables.
type Timeouts struct {
	VPCWait           time.Duration // Budget for waiting on VPC availability/deletion
	NATWait           time.Duration // Budget for NAT gateway state transitions
	InstanceWait      time.Duration // Budget for instance running/terminated waits
	Poll              time.Duration // Interval between state polls
	SealThreshold     time.Duration // Steps at least this long get a permanent summary line
	Countdown         time.Duration // Final countdown before gated deletions
	RetryMaxAttempts  int           // Maximum number of retry attempts
	RetryInitialDelay time.Duration // Initial delay between retries
}

// LoadTimeouts loads timeout configuration from environment variables.
// If an environment variable is not set or invalid, a default value is used.
//
// Environment Variables:
//   - VPCTIER_TIMEOUT_VPC_WAIT (default: 10m)
//   - VPCTIER_TIMEOUT_NAT_WAIT (default: 15m)
//   - VPCTIER_TIMEOUT_INSTANCE_WAIT (default: 20m)
//   - VPCTIER_POLL_INTERVAL (default: 2s)
//   - VPCTIER_SEAL_THRESHOLD (default: 5m)
//   - VPCTIER_COUNTDOWN (default: 60s)
//   - VPCTIER_RETRY_MAX_ATTEMPTS (default: 5)
//   - VPCTIER_RETRY_INITIAL_DELAY (default: 1s)
func LoadTimeouts() *Timeouts {
	return &Timeouts{
		VPCWait:           parseDuration("VPCTIER_TIMEOUT_VPC_WAIT", 10*time.Minute),
		NATWait:           parseDuration("VPCTIER_TIMEOUT_NAT_WAIT", 15*time.Minute),
		InstanceWait:      parseDuration("VPCTIER_TIMEOUT_INSTANCE_WAIT", 20*time.Minute),
		Poll:              parseDuration("VPCTIER_POLL_INTERVAL", 2*time.Second),
		SealThreshold:     parseDuration("VPCTIER_SEAL_THRESHOLD", 5*time.Minute),
		Countdown:         parseDuration("VPCTIER_COUNTDOWN", 60*time.Second),
		RetryMaxAttempts:  parseInt("VPCTIER_RETRY_MAX_ATTEMPTS", 5),
		RetryInitialDelay: parseDuration("VPCTIER_RETRY_INITIAL_DELAY", 1*time.Second),
	}
}

// parseDuration parses a duration from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseDuration(envVar string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}

	return d
}

// parseInt parses an integer from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseInt(envVar string, defaultVal int) int {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}

	return i
}
