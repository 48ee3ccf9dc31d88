package awsec2

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
)

// FindSubnet returns the subnet tagged name with the given CIDR inside
// vpcID, or nil when none exists.
func (c *RealClient) FindSubnet(ctx context.Context, vpcID, name, cidr string) (*Subnet, error) {
	out, err := c.ec2.DescribeSubnets(ctx, &ec2.DescribeSubnetsInput{
		Filters: []ec2types.Filter{
			nameFilter(name),
			{Name: aws.String("vpc-id"), Values: []string{vpcID}},
			{Name: aws.String("cidr-block"), Values: []string{cidr}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to describe subnets named %s: %w", name, err)
	}
	switch len(out.Subnets) {
	case 0:
		return nil, nil
	case 1:
		return subnetFromSDK(out.Subnets[0]), nil
	default:
		ids := make([]string, len(out.Subnets))
		for i, s := range out.Subnets {
			ids[i] = aws.ToString(s.SubnetId)
		}
		return nil, &AmbiguousMatchError{Kind: "subnet", Name: name, IDs: ids}
	}
}

// CreateSubnet creates a subnet in az. autoPublicIP makes instances launched
// into it receive a public address by default, which is what distinguishes
// the public subnet from the private one.
func (c *RealClient) CreateSubnet(ctx context.Context, vpcID, name, cidr, az string, autoPublicIP bool, tags map[string]string) (*Subnet, error) {
	out, err := c.ec2.CreateSubnet(ctx, &ec2.CreateSubnetInput{
		VpcId:             aws.String(vpcID),
		CidrBlock:         aws.String(cidr),
		AvailabilityZone:  aws.String(az),
		TagSpecifications: tagSpec(ec2types.ResourceTypeSubnet, tags),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create subnet %s: %w", name, err)
	}
	id := aws.ToString(out.Subnet.SubnetId)

	if autoPublicIP {
		_, err := c.ec2.ModifySubnetAttribute(ctx, &ec2.ModifySubnetAttributeInput{
			SubnetId:            aws.String(id),
			MapPublicIpOnLaunch: &ec2types.AttributeBooleanValue{Value: aws.Bool(true)},
		})
		if err != nil {
			return nil, fmt.Errorf("failed to enable auto public IP on %s: %w", id, err)
		}
	}

	return subnetFromSDK(*out.Subnet), nil
}

// DeleteSubnet deletes the subnet. An already-deleted subnet is not an error.
func (c *RealClient) DeleteSubnet(ctx context.Context, id string) error {
	_, err := c.ec2.DeleteSubnet(ctx, &ec2.DeleteSubnetInput{SubnetId: aws.String(id)})
	if err != nil && !IsNotFound(err) {
		return fmt.Errorf("failed to delete subnet %s: %w", id, err)
	}
	return nil
}

// ListSubnets returns every subnet in the VPC.
func (c *RealClient) ListSubnets(ctx context.Context, vpcID string) ([]Subnet, error) {
	out, err := c.ec2.DescribeSubnets(ctx, &ec2.DescribeSubnetsInput{
		Filters: []ec2types.Filter{
			{Name: aws.String("vpc-id"), Values: []string{vpcID}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list subnets in %s: %w", vpcID, err)
	}
	subnets := make([]Subnet, 0, len(out.Subnets))
	for _, s := range out.Subnets {
		subnets = append(subnets, *subnetFromSDK(s))
	}
	return subnets, nil
}

// ListNetworkInterfaces returns the interfaces parked in a subnet. A subnet
// cannot be deleted while any remain; NAT gateways hold theirs for minutes
// after deletion is requested.
func (c *RealClient) ListNetworkInterfaces(ctx context.Context, subnetID string) ([]NetworkInterface, error) {
	out, err := c.ec2.DescribeNetworkInterfaces(ctx, &ec2.DescribeNetworkInterfacesInput{
		Filters: []ec2types.Filter{
			{Name: aws.String("subnet-id"), Values: []string{subnetID}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list network interfaces in %s: %w", subnetID, err)
	}
	enis := make([]NetworkInterface, 0, len(out.NetworkInterfaces))
	for _, ni := range out.NetworkInterfaces {
		eni := NetworkInterface{
			ID:          aws.ToString(ni.NetworkInterfaceId),
			SubnetID:    aws.ToString(ni.SubnetId),
			Description: aws.ToString(ni.Description),
			Status:      string(ni.Status),
		}
		if ni.Attachment != nil {
			eni.InstanceID = aws.ToString(ni.Attachment.InstanceId)
		}
		enis = append(enis, eni)
	}
	return enis, nil
}

func subnetFromSDK(s ec2types.Subnet) *Subnet {
	return &Subnet{
		ID:               aws.ToString(s.SubnetId),
		VPCID:            aws.ToString(s.VpcId),
		CIDR:             aws.ToString(s.CidrBlock),
		Name:             tagValue(s.Tags, "Name"),
		AvailabilityZone: aws.ToString(s.AvailabilityZone),
	}
}
