package awsec2

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
)

// FindVPC returns the live VPC tagged name with the given CIDR, or nil when
// none exists. Terminated ("deleted") VPCs never match. More than one match
// is an AmbiguousMatchError: two stacks sharing a name means something is
// wrong and nothing here should touch either.
func (c *RealClient) FindVPC(ctx context.Context, name, cidr string) (*VPC, error) {
	out, err := c.ec2.DescribeVpcs(ctx, &ec2.DescribeVpcsInput{
		Filters: []ec2types.Filter{
			nameFilter(name),
			{Name: aws.String("cidr-block-association.cidr-block"), Values: []string{cidr}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to describe VPCs named %s: %w", name, err)
	}

	var live []ec2types.Vpc
	for _, v := range out.Vpcs {
		if v.State != ec2types.VpcStateAvailable && v.State != ec2types.VpcStatePending {
			continue
		}
		live = append(live, v)
	}
	switch len(live) {
	case 0:
		return nil, nil
	case 1:
		return vpcFromSDK(live[0]), nil
	default:
		ids := make([]string, len(live))
		for i, v := range live {
			ids[i] = aws.ToString(v.VpcId)
		}
		return nil, &AmbiguousMatchError{Kind: "vpc", Name: name, IDs: ids}
	}
}

// CreateVPC creates a VPC with DNS support and hostnames enabled, tagged at
// creation time.
func (c *RealClient) CreateVPC(ctx context.Context, name, cidr string, tags map[string]string) (*VPC, error) {
	out, err := c.ec2.CreateVpc(ctx, &ec2.CreateVpcInput{
		CidrBlock:         aws.String(cidr),
		TagSpecifications: tagSpec(ec2types.ResourceTypeVpc, tags),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create VPC %s: %w", name, err)
	}
	id := aws.ToString(out.Vpc.VpcId)

	// Hostname resolution must be on before instances launch, otherwise
	// the public nodes come up without resolvable names.
	for _, attr := range []ec2.ModifyVpcAttributeInput{
		{VpcId: aws.String(id), EnableDnsSupport: &ec2types.AttributeBooleanValue{Value: aws.Bool(true)}},
		{VpcId: aws.String(id), EnableDnsHostnames: &ec2types.AttributeBooleanValue{Value: aws.Bool(true)}},
	} {
		if _, err := c.ec2.ModifyVpcAttribute(ctx, &attr); err != nil {
			return nil, fmt.Errorf("failed to set DNS attributes on %s: %w", id, err)
		}
	}

	return vpcFromSDK(*out.Vpc), nil
}

// DeleteVPC deletes the VPC. An already-deleted VPC is not an error.
func (c *RealClient) DeleteVPC(ctx context.Context, id string) error {
	_, err := c.ec2.DeleteVpc(ctx, &ec2.DeleteVpcInput{VpcId: aws.String(id)})
	if err != nil && !IsNotFound(err) {
		return fmt.Errorf("failed to delete VPC %s: %w", id, err)
	}
	return nil
}

func vpcFromSDK(v ec2types.Vpc) *VPC {
	return &VPC{
		ID:    aws.ToString(v.VpcId),
		CIDR:  aws.ToString(v.CidrBlock),
		Name:  tagValue(v.Tags, "Name"),
		State: string(v.State),
	}
}
