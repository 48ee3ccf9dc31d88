package handlers

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vpctier/internal/config"
	"vpctier/internal/platform/awsec2"
	"vpctier/internal/progress"
	"vpctier/internal/tiers"
	"vpctier/internal/ui/tui"
)

// swapFactories points the handler factories at a mock client and a quiet
// reporter, restoring the real ones when the test finishes.
func swapFactories(t *testing.T, client awsec2.Client) {
	t.Helper()
	prevLoad, prevClient, prevRun := loadConfig, newClient, runProgress
	t.Cleanup(func() {
		loadConfig, newClient, runProgress = prevLoad, prevClient, prevRun
	})

	loadConfig = func(string) (*config.Config, error) {
		cfg := config.Default()
		cfg.NamePrefix = "demo"
		cfg.KeyDir = t.TempDir()
		return cfg, nil
	}
	newClient = func(context.Context, *config.Config) (awsec2.Client, error) {
		return client, nil
	}
	runProgress = func(fn func(*progress.Reporter) error, _ ...progress.Option) error {
		r := progress.New(io.Discard, progress.WithAnimation(false))
		r.Start()
		defer r.Stop()
		return fn(r)
	}
}

// standingNetwork is a mock where the network tier already exists, so Up to
// the network tier is a pure no-op walk.
func standingNetwork() *awsec2.MockClient {
	return &awsec2.MockClient{
		FindVPCFunc: func(_ context.Context, name, cidr string) (*awsec2.VPC, error) {
			return &awsec2.VPC{ID: "vpc-1", Name: name, CIDR: cidr}, nil
		},
		FindSubnetFunc: func(_ context.Context, _, name, cidr string) (*awsec2.Subnet, error) {
			return &awsec2.Subnet{ID: "subnet-" + name, Name: name, CIDR: cidr}, nil
		},
		FindInternetGatewayFunc: func(_ context.Context, name string) (*awsec2.InternetGateway, error) {
			return &awsec2.InternetGateway{ID: "igw-1", Name: name, AttachedVPC: "vpc-1"}, nil
		},
		FirstAvailabilityZoneFunc: func(context.Context) (string, error) {
			return "us-west-1a", nil
		},
	}
}

func TestUp_UnknownTier(t *testing.T) {
	swapFactories(t, &awsec2.MockClient{})
	err := Up(context.Background(), "", "database")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown tier")
}

func TestUp_NetworkTier(t *testing.T) {
	t.Setenv("VPCTIER_POLL_INTERVAL", "1ms")
	swapFactories(t, standingNetwork())
	require.NoError(t, Up(context.Background(), "", "network"))
}

func TestUp_ConfigErrorPropagates(t *testing.T) {
	swapFactories(t, &awsec2.MockClient{})
	boom := errors.New("no such file")
	loadConfig = func(string) (*config.Config, error) { return nil, boom }
	assert.ErrorIs(t, Up(context.Background(), "bad.yaml", "network"), boom)
}

func TestUp_ClientErrorPropagates(t *testing.T) {
	swapFactories(t, &awsec2.MockClient{})
	boom := errors.New("expired token")
	newClient = func(context.Context, *config.Config) (awsec2.Client, error) { return nil, boom }
	assert.ErrorIs(t, Up(context.Background(), "", "network"), boom)
}

func TestDown_DeclinedGateIsNotAnError(t *testing.T) {
	t.Setenv("VPCTIER_POLL_INTERVAL", "1ms")
	t.Setenv("VPCTIER_COUNTDOWN", "5ms")
	mock := standingNetwork()
	mock.FindNATGatewayFunc = func(_ context.Context, name string) (*awsec2.NATGateway, error) {
		return &awsec2.NATGateway{ID: "nat-1", Name: name, State: "available"}, nil
	}
	mock.DeleteNATGatewayFunc = func(context.Context, string) error {
		t.Fatal("nothing must be deleted after a declined prompt")
		return nil
	}
	swapFactories(t, mock)

	// The gate reads from stdin, which yields EOF under test; EOF declines.
	require.NoError(t, Down(context.Background(), "", "routing", false))
}

func TestDown_UnknownTier(t *testing.T) {
	swapFactories(t, &awsec2.MockClient{})
	require.Error(t, Down(context.Background(), "", "everything", false))
}

func TestStatus_PrintsSnapshot(t *testing.T) {
	t.Setenv("VPCTIER_POLL_INTERVAL", "1ms")
	swapFactories(t, standingNetwork())
	var buf bytes.Buffer
	prevOut := statusOut
	statusOut = &buf
	t.Cleanup(func() { statusOut = prevOut })

	require.NoError(t, Status(context.Background(), "", false, time.Second))
	out := buf.String()
	assert.Contains(t, out, "stack demo-stack")
	assert.Contains(t, out, "demo-vpc")
}

func TestStatus_EmptyStack(t *testing.T) {
	t.Setenv("VPCTIER_POLL_INTERVAL", "1ms")
	swapFactories(t, &awsec2.MockClient{})
	var buf bytes.Buffer
	prevOut := statusOut
	statusOut = &buf
	t.Cleanup(func() { statusOut = prevOut })

	require.NoError(t, Status(context.Background(), "", false, time.Second))
	assert.Contains(t, buf.String(), "no tier is up")
	assert.Contains(t, buf.String(), "no resources")
}

func TestStatus_WatchUsesDashboard(t *testing.T) {
	t.Setenv("VPCTIER_POLL_INTERVAL", "1ms")
	swapFactories(t, standingNetwork())
	prevDash := runDashboard
	t.Cleanup(func() { runDashboard = prevDash })

	var gotStack string
	runDashboard = func(ctx context.Context, stack, region string, interval time.Duration, fetch tui.FetchFunc) error {
		gotStack = stack
		st, err := fetch(ctx)
		require.NoError(t, err)
		assert.IsType(t, &tiers.StackStatus{}, st)
		return nil
	}

	require.NoError(t, Status(context.Background(), "", true, time.Second))
	assert.Equal(t, "demo-stack", gotStack)
}
