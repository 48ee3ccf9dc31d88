package awsec2

import (
	"errors"
	"fmt"
	"testing"

	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
)

func apiError(code string) error {
	return &smithy.GenericAPIError{Code: code, Message: "test"}
}

func TestIsNotFound(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"vpc not found", apiError("InvalidVpcID.NotFound"), true},
		{"subnet not found", apiError("InvalidSubnetID.NotFound"), true},
		{"allocation not found", apiError("InvalidAllocationID.NotFound"), true},
		{"nat legacy code", apiError("NatGatewayNotFound"), true},
		{"wrapped", fmt.Errorf("deleting: %w", apiError("InvalidRouteTableID.NotFound")), true},
		{"dependency violation", apiError("DependencyViolation"), false},
		{"plain error", errors.New("boom"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, IsNotFound(tt.err))
		})
	}
}

func TestIsDependencyViolation(t *testing.T) {
	t.Parallel()
	assert.True(t, IsDependencyViolation(apiError("DependencyViolation")))
	assert.False(t, IsDependencyViolation(apiError("InvalidVpcID.NotFound")))
	assert.False(t, IsDependencyViolation(errors.New("boom")))
}

func TestIsDuplicate(t *testing.T) {
	t.Parallel()
	assert.True(t, IsDuplicate(apiError("InvalidGroup.Duplicate")))
	assert.True(t, IsDuplicate(apiError("RouteAlreadyExists")))
	assert.True(t, IsDuplicate(apiError("InvalidPermission.Duplicate")))
	assert.False(t, IsDuplicate(apiError("InvalidGroup.NotFound")))
}

func TestAmbiguousMatchError(t *testing.T) {
	t.Parallel()
	err := &AmbiguousMatchError{Kind: "vpc", Name: "demo-vpc", IDs: []string{"vpc-1", "vpc-2"}}
	assert.Contains(t, err.Error(), "demo-vpc")
	assert.Contains(t, err.Error(), "vpc-1, vpc-2")
	assert.Contains(t, err.Error(), "refusing to guess")

	var amb *AmbiguousMatchError
	wrapped := fmt.Errorf("checking: %w", err)
	assert.True(t, errors.As(wrapped, &amb))
}
