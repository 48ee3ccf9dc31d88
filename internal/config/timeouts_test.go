package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadTimeouts_Defaults(t *testing.T) {
	tt := LoadTimeouts()
	assert.Equal(t, 15*time.Minute, tt.NATWait)
	assert.Equal(t, 2*time.Second, tt.Poll)
	assert.Equal(t, 5*time.Minute, tt.SealThreshold)
	assert.Equal(t, 60*time.Second, tt.Countdown)
	assert.Equal(t, 5, tt.RetryMaxAttempts)
}

func TestLoadTimeouts_EnvOverride(t *testing.T) {
	t.Setenv("VPCTIER_TIMEOUT_NAT_WAIT", "90s")
	t.Setenv("VPCTIER_RETRY_MAX_ATTEMPTS", "2")
	tt := LoadTimeouts()
	assert.Equal(t, 90*time.Second, tt.NATWait)
	assert.Equal(t, 2, tt.RetryMaxAttempts)
}

func TestLoadTimeouts_InvalidEnvFallsBack(t *testing.T) {
	t.Setenv("VPCTIER_POLL_INTERVAL", "soon")
	t.Setenv("VPCTIER_RETRY_MAX_ATTEMPTS", "many")
	tt := LoadTimeouts()
	assert.Equal(t, 2*time.Second, tt.Poll)
	assert.Equal(t, 5, tt.RetryMaxAttempts)
}
