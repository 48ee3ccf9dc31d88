package awsec2

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aws/smithy-go"
)

// AmbiguousMatchError is returned when a tag lookup that must identify
// exactly one resource matches several. Proceeding would risk mutating a
// resource the operator did not mean; callers treat this as a hard stop.
type AmbiguousMatchError struct {
	Kind string
	Name string
	IDs  []string
}

func (e *AmbiguousMatchError) Error() string {
	return fmt.Sprintf("ambiguous %s match for %q: %s (refusing to guess)",
		e.Kind, e.Name, strings.Join(e.IDs, ", "))
}

// IsNotFound reports whether err is an EC2 not-found error. The EC2 API
// encodes these as per-resource codes ending in ".NotFound" plus a handful
// of legacy spellings.
func IsNotFound(err error) bool {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	code := apiErr.ErrorCode()
	if strings.HasSuffix(code, ".NotFound") {
		return true
	}
	// NAT gateway errors predate the dotted convention.
	return code == "NatGatewayNotFound"
}

// IsDependencyViolation reports whether err means the resource still has
// dependents and cannot be deleted yet. These are retryable while the
// dependents drain.
func IsDependencyViolation(err error) bool {
	return hasErrorCode(err, "DependencyViolation")
}

// IsDuplicate reports whether err means the resource already exists.
func IsDuplicate(err error) bool {
	return hasErrorCode(err,
		"InvalidGroup.Duplicate",
		"InvalidKeyPair.Duplicate",
		"InvalidPermission.Duplicate",
		"RouteAlreadyExists",
	)
}

func hasErrorCode(err error, codes ...string) bool {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	for _, code := range codes {
		if apiErr.ErrorCode() == code {
			return true
		}
	}
	return false
}
