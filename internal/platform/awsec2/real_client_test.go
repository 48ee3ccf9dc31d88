package awsec2

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vpctier/internal/config"
)

// stubEC2 satisfies EC2API through the embedded interface; only the methods
// a test assigns are callable.
type stubEC2 struct {
	EC2API
	describeVpcs   func(ctx context.Context, in *ec2.DescribeVpcsInput, opts ...func(*ec2.Options)) (*ec2.DescribeVpcsOutput, error)
	deleteVpc      func(ctx context.Context, in *ec2.DeleteVpcInput, opts ...func(*ec2.Options)) (*ec2.DeleteVpcOutput, error)
	createRoute    func(ctx context.Context, in *ec2.CreateRouteInput, opts ...func(*ec2.Options)) (*ec2.CreateRouteOutput, error)
	replaceRoute   func(ctx context.Context, in *ec2.ReplaceRouteInput, opts ...func(*ec2.Options)) (*ec2.ReplaceRouteOutput, error)
	createSG       func(ctx context.Context, in *ec2.CreateSecurityGroupInput, opts ...func(*ec2.Options)) (*ec2.CreateSecurityGroupOutput, error)
	describeSGs    func(ctx context.Context, in *ec2.DescribeSecurityGroupsInput, opts ...func(*ec2.Options)) (*ec2.DescribeSecurityGroupsOutput, error)
	describeImages func(ctx context.Context, in *ec2.DescribeImagesInput, opts ...func(*ec2.Options)) (*ec2.DescribeImagesOutput, error)
	deleteSG       func(ctx context.Context, in *ec2.DeleteSecurityGroupInput, opts ...func(*ec2.Options)) (*ec2.DeleteSecurityGroupOutput, error)
}

func (s *stubEC2) DescribeVpcs(ctx context.Context, in *ec2.DescribeVpcsInput, opts ...func(*ec2.Options)) (*ec2.DescribeVpcsOutput, error) {
	return s.describeVpcs(ctx, in, opts...)
}

func (s *stubEC2) DeleteVpc(ctx context.Context, in *ec2.DeleteVpcInput, opts ...func(*ec2.Options)) (*ec2.DeleteVpcOutput, error) {
	return s.deleteVpc(ctx, in, opts...)
}

func (s *stubEC2) CreateRoute(ctx context.Context, in *ec2.CreateRouteInput, opts ...func(*ec2.Options)) (*ec2.CreateRouteOutput, error) {
	return s.createRoute(ctx, in, opts...)
}

func (s *stubEC2) ReplaceRoute(ctx context.Context, in *ec2.ReplaceRouteInput, opts ...func(*ec2.Options)) (*ec2.ReplaceRouteOutput, error) {
	return s.replaceRoute(ctx, in, opts...)
}

func (s *stubEC2) CreateSecurityGroup(ctx context.Context, in *ec2.CreateSecurityGroupInput, opts ...func(*ec2.Options)) (*ec2.CreateSecurityGroupOutput, error) {
	return s.createSG(ctx, in, opts...)
}

func (s *stubEC2) DescribeSecurityGroups(ctx context.Context, in *ec2.DescribeSecurityGroupsInput, opts ...func(*ec2.Options)) (*ec2.DescribeSecurityGroupsOutput, error) {
	return s.describeSGs(ctx, in, opts...)
}

func (s *stubEC2) DescribeImages(ctx context.Context, in *ec2.DescribeImagesInput, opts ...func(*ec2.Options)) (*ec2.DescribeImagesOutput, error) {
	return s.describeImages(ctx, in, opts...)
}

func (s *stubEC2) DeleteSecurityGroup(ctx context.Context, in *ec2.DeleteSecurityGroupInput, opts ...func(*ec2.Options)) (*ec2.DeleteSecurityGroupOutput, error) {
	return s.deleteSG(ctx, in, opts...)
}

func newStubClient(api EC2API) *RealClient {
	return &RealClient{ec2: api, region: "us-west-1", timeouts: config.LoadTimeouts()}
}

func availableVpc(id string) ec2types.Vpc {
	return ec2types.Vpc{
		VpcId:     aws.String(id),
		CidrBlock: aws.String("10.0.0.0/16"),
		State:     ec2types.VpcStateAvailable,
		Tags:      []ec2types.Tag{{Key: aws.String("Name"), Value: aws.String("demo-vpc")}},
	}
}

func TestFindVPC_SingleMatch(t *testing.T) {
	t.Parallel()
	c := newStubClient(&stubEC2{
		describeVpcs: func(_ context.Context, _ *ec2.DescribeVpcsInput, _ ...func(*ec2.Options)) (*ec2.DescribeVpcsOutput, error) {
			return &ec2.DescribeVpcsOutput{Vpcs: []ec2types.Vpc{availableVpc("vpc-1")}}, nil
		},
	})

	vpc, err := c.FindVPC(context.Background(), "demo-vpc", "10.0.0.0/16")
	require.NoError(t, err)
	require.NotNil(t, vpc)
	assert.Equal(t, "vpc-1", vpc.ID)
	assert.Equal(t, "demo-vpc", vpc.Name)
}

func TestFindVPC_NoMatch(t *testing.T) {
	t.Parallel()
	c := newStubClient(&stubEC2{
		describeVpcs: func(_ context.Context, _ *ec2.DescribeVpcsInput, _ ...func(*ec2.Options)) (*ec2.DescribeVpcsOutput, error) {
			return &ec2.DescribeVpcsOutput{}, nil
		},
	})

	vpc, err := c.FindVPC(context.Background(), "demo-vpc", "10.0.0.0/16")
	require.NoError(t, err)
	assert.Nil(t, vpc)
}

func TestFindVPC_AmbiguousAborts(t *testing.T) {
	t.Parallel()
	c := newStubClient(&stubEC2{
		describeVpcs: func(_ context.Context, _ *ec2.DescribeVpcsInput, _ ...func(*ec2.Options)) (*ec2.DescribeVpcsOutput, error) {
			return &ec2.DescribeVpcsOutput{Vpcs: []ec2types.Vpc{availableVpc("vpc-1"), availableVpc("vpc-2")}}, nil
		},
	})

	_, err := c.FindVPC(context.Background(), "demo-vpc", "10.0.0.0/16")
	var amb *AmbiguousMatchError
	require.ErrorAs(t, err, &amb)
	assert.Equal(t, []string{"vpc-1", "vpc-2"}, amb.IDs)
}

func TestFindVPC_IgnoresDeletingState(t *testing.T) {
	t.Parallel()
	gone := availableVpc("vpc-old")
	gone.State = ec2types.VpcState("deleting")
	c := newStubClient(&stubEC2{
		describeVpcs: func(_ context.Context, _ *ec2.DescribeVpcsInput, _ ...func(*ec2.Options)) (*ec2.DescribeVpcsOutput, error) {
			return &ec2.DescribeVpcsOutput{Vpcs: []ec2types.Vpc{gone, availableVpc("vpc-new")}}, nil
		},
	})

	vpc, err := c.FindVPC(context.Background(), "demo-vpc", "10.0.0.0/16")
	require.NoError(t, err)
	require.NotNil(t, vpc)
	assert.Equal(t, "vpc-new", vpc.ID)
}

func TestDeleteVPC_ToleratesAlreadyGone(t *testing.T) {
	t.Parallel()
	c := newStubClient(&stubEC2{
		deleteVpc: func(_ context.Context, _ *ec2.DeleteVpcInput, _ ...func(*ec2.Options)) (*ec2.DeleteVpcOutput, error) {
			return nil, apiError("InvalidVpcID.NotFound")
		},
	})
	assert.NoError(t, c.DeleteVPC(context.Background(), "vpc-gone"))
}

func TestUpsertRoute_ReplacesExisting(t *testing.T) {
	t.Parallel()
	replaced := false
	c := newStubClient(&stubEC2{
		createRoute: func(_ context.Context, _ *ec2.CreateRouteInput, _ ...func(*ec2.Options)) (*ec2.CreateRouteOutput, error) {
			return nil, apiError("RouteAlreadyExists")
		},
		replaceRoute: func(_ context.Context, in *ec2.ReplaceRouteInput, _ ...func(*ec2.Options)) (*ec2.ReplaceRouteOutput, error) {
			replaced = true
			assert.Equal(t, "nat-123", aws.ToString(in.NatGatewayId))
			return &ec2.ReplaceRouteOutput{}, nil
		},
	})

	require.NoError(t, c.UpsertRoute(context.Background(), "rtb-1", "0.0.0.0/0", "", "nat-123"))
	assert.True(t, replaced)
}

func TestEnsureSecurityGroup_Duplicate(t *testing.T) {
	t.Parallel()
	c := newStubClient(&stubEC2{
		createSG: func(_ context.Context, _ *ec2.CreateSecurityGroupInput, _ ...func(*ec2.Options)) (*ec2.CreateSecurityGroupOutput, error) {
			return nil, apiError("InvalidGroup.Duplicate")
		},
		describeSGs: func(_ context.Context, _ *ec2.DescribeSecurityGroupsInput, _ ...func(*ec2.Options)) (*ec2.DescribeSecurityGroupsOutput, error) {
			return &ec2.DescribeSecurityGroupsOutput{SecurityGroups: []ec2types.SecurityGroup{{
				GroupId:   aws.String("sg-1"),
				GroupName: aws.String("demo-sg"),
			}}}, nil
		},
	})

	sg, err := c.EnsureSecurityGroup(context.Background(), "vpc-1", "demo-sg", "nodes", nil)
	require.NoError(t, err)
	assert.Equal(t, "sg-1", sg.ID)
}

func TestDeleteSecurityGroup_RetriesDependencyViolation(t *testing.T) {
	t.Parallel()
	calls := 0
	timeouts := config.LoadTimeouts()
	timeouts.RetryMaxAttempts = 3
	timeouts.RetryInitialDelay = 0
	c := &RealClient{timeouts: timeouts, ec2: &stubEC2{
		deleteSG: func(_ context.Context, _ *ec2.DeleteSecurityGroupInput, _ ...func(*ec2.Options)) (*ec2.DeleteSecurityGroupOutput, error) {
			calls++
			if calls < 3 {
				return nil, apiError("DependencyViolation")
			}
			return &ec2.DeleteSecurityGroupOutput{}, nil
		},
	}}

	require.NoError(t, c.DeleteSecurityGroup(context.Background(), "sg-1"))
	assert.Equal(t, 3, calls)
}

func TestLatestAL2023AMI_PicksNewest(t *testing.T) {
	t.Parallel()
	c := newStubClient(&stubEC2{
		describeImages: func(_ context.Context, _ *ec2.DescribeImagesInput, _ ...func(*ec2.Options)) (*ec2.DescribeImagesOutput, error) {
			return &ec2.DescribeImagesOutput{Images: []ec2types.Image{
				{ImageId: aws.String("ami-old"), CreationDate: aws.String("2025-01-01T00:00:00.000Z")},
				{ImageId: aws.String("ami-new"), CreationDate: aws.String("2025-06-01T00:00:00.000Z")},
			}}, nil
		},
	})

	id, err := c.LatestAL2023AMI(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ami-new", id)
}

func TestLatestAL2023AMI_NoneFound(t *testing.T) {
	t.Parallel()
	c := newStubClient(&stubEC2{
		describeImages: func(_ context.Context, _ *ec2.DescribeImagesInput, _ ...func(*ec2.Options)) (*ec2.DescribeImagesOutput, error) {
			return &ec2.DescribeImagesOutput{}, nil
		},
	})

	_, err := c.LatestAL2023AMI(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no AL2023 image")
}

func TestFindVPC_DescribeError(t *testing.T) {
	t.Parallel()
	boom := errors.New("throttled")
	c := newStubClient(&stubEC2{
		describeVpcs: func(_ context.Context, _ *ec2.DescribeVpcsInput, _ ...func(*ec2.Options)) (*ec2.DescribeVpcsOutput, error) {
			return nil, boom
		},
	})

	_, err := c.FindVPC(context.Background(), "demo-vpc", "10.0.0.0/16")
	assert.ErrorIs(t, err, boom)
}
