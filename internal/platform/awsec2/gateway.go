package awsec2

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"

	"vpctier/internal/util/retry"
)

// FindInternetGateway returns the internet gateway tagged name, or nil.
func (c *RealClient) FindInternetGateway(ctx context.Context, name string) (*InternetGateway, error) {
	out, err := c.ec2.DescribeInternetGateways(ctx, &ec2.DescribeInternetGatewaysInput{
		Filters: []ec2types.Filter{nameFilter(name)},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to describe internet gateways named %s: %w", name, err)
	}
	switch len(out.InternetGateways) {
	case 0:
		return nil, nil
	case 1:
		return igwFromSDK(out.InternetGateways[0]), nil
	default:
		ids := make([]string, len(out.InternetGateways))
		for i, g := range out.InternetGateways {
			ids[i] = aws.ToString(g.InternetGatewayId)
		}
		return nil, &AmbiguousMatchError{Kind: "internet gateway", Name: name, IDs: ids}
	}
}

// CreateInternetGateway creates an internet gateway. Attachment is separate
// so an interrupted run can resume at the attach step.
func (c *RealClient) CreateInternetGateway(ctx context.Context, name string, tags map[string]string) (*InternetGateway, error) {
	out, err := c.ec2.CreateInternetGateway(ctx, &ec2.CreateInternetGatewayInput{
		TagSpecifications: tagSpec(ec2types.ResourceTypeInternetGateway, tags),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create internet gateway %s: %w", name, err)
	}
	return igwFromSDK(*out.InternetGateway), nil
}

// AttachInternetGateway attaches igwID to vpcID. An already-attached gateway
// is not an error.
func (c *RealClient) AttachInternetGateway(ctx context.Context, igwID, vpcID string) error {
	_, err := c.ec2.AttachInternetGateway(ctx, &ec2.AttachInternetGatewayInput{
		InternetGatewayId: aws.String(igwID),
		VpcId:             aws.String(vpcID),
	})
	if err != nil && !hasErrorCode(err, "Resource.AlreadyAssociated") {
		return fmt.Errorf("failed to attach %s to %s: %w", igwID, vpcID, err)
	}
	return nil
}

// DetachInternetGateway detaches igwID from vpcID, retrying while public
// addresses are still mapped through it.
func (c *RealClient) DetachInternetGateway(ctx context.Context, igwID, vpcID string) error {
	err := retry.WithExponentialBackoff(ctx, func() error {
		_, err := c.ec2.DetachInternetGateway(ctx, &ec2.DetachInternetGatewayInput{
			InternetGatewayId: aws.String(igwID),
			VpcId:             aws.String(vpcID),
		})
		if err != nil {
			if IsNotFound(err) || hasErrorCode(err, "Gateway.NotAttached") {
				return nil
			}
			if IsDependencyViolation(err) {
				return err
			}
			return retry.Fatal(err)
		}
		return nil
	},
		retry.WithMaxRetries(c.timeouts.RetryMaxAttempts),
		retry.WithInitialDelay(c.timeouts.RetryInitialDelay),
	)
	if err != nil {
		return fmt.Errorf("failed to detach %s from %s: %w", igwID, vpcID, err)
	}
	return nil
}

// DeleteInternetGateway deletes the gateway. Already gone is not an error.
func (c *RealClient) DeleteInternetGateway(ctx context.Context, id string) error {
	_, err := c.ec2.DeleteInternetGateway(ctx, &ec2.DeleteInternetGatewayInput{
		InternetGatewayId: aws.String(id),
	})
	if err != nil && !IsNotFound(err) {
		return fmt.Errorf("failed to delete internet gateway %s: %w", id, err)
	}
	return nil
}

// FindAddress returns the Elastic IP tagged name, or nil.
func (c *RealClient) FindAddress(ctx context.Context, name string) (*Address, error) {
	out, err := c.ec2.DescribeAddresses(ctx, &ec2.DescribeAddressesInput{
		Filters: []ec2types.Filter{nameFilter(name)},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to describe addresses named %s: %w", name, err)
	}
	switch len(out.Addresses) {
	case 0:
		return nil, nil
	case 1:
		return addressFromSDK(out.Addresses[0]), nil
	default:
		ids := make([]string, len(out.Addresses))
		for i, a := range out.Addresses {
			ids[i] = aws.ToString(a.AllocationId)
		}
		return nil, &AmbiguousMatchError{Kind: "elastic IP", Name: name, IDs: ids}
	}
}

// AllocateAddress allocates an Elastic IP for the NAT gateway.
func (c *RealClient) AllocateAddress(ctx context.Context, name string, tags map[string]string) (*Address, error) {
	out, err := c.ec2.AllocateAddress(ctx, &ec2.AllocateAddressInput{
		Domain:            ec2types.DomainTypeVpc,
		TagSpecifications: tagSpec(ec2types.ResourceTypeElasticIp, tags),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to allocate elastic IP %s: %w", name, err)
	}
	return &Address{
		AllocationID: aws.ToString(out.AllocationId),
		PublicIP:     aws.ToString(out.PublicIp),
		Name:         name,
	}, nil
}

// ReleaseAddress releases an Elastic IP, retrying while its NAT gateway
// still holds the association. Releasing an unknown allocation is fine;
// billing for an orphaned address is the failure mode this guards against.
func (c *RealClient) ReleaseAddress(ctx context.Context, allocationID string) error {
	err := retry.WithExponentialBackoff(ctx, func() error {
		_, err := c.ec2.ReleaseAddress(ctx, &ec2.ReleaseAddressInput{
			AllocationId: aws.String(allocationID),
		})
		if err != nil {
			if IsNotFound(err) {
				return nil
			}
			if hasErrorCode(err, "InvalidIPAddress.InUse", "AuthFailure") || IsDependencyViolation(err) {
				return err
			}
			return retry.Fatal(err)
		}
		return nil
	},
		retry.WithMaxRetries(c.timeouts.RetryMaxAttempts),
		retry.WithInitialDelay(c.timeouts.RetryInitialDelay),
	)
	if err != nil {
		return fmt.Errorf("failed to release elastic IP %s: %w", allocationID, err)
	}
	return nil
}

// FindNATGateway returns the NAT gateway tagged name, skipping gateways in
// the deleted or deleting state, or nil when none is live.
func (c *RealClient) FindNATGateway(ctx context.Context, name string) (*NATGateway, error) {
	out, err := c.ec2.DescribeNatGateways(ctx, &ec2.DescribeNatGatewaysInput{
		Filter: []ec2types.Filter{
			nameFilter(name),
			{Name: aws.String("state"), Values: []string{"pending", "available", "failed"}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to describe NAT gateways named %s: %w", name, err)
	}
	switch len(out.NatGateways) {
	case 0:
		return nil, nil
	case 1:
		return natFromSDK(out.NatGateways[0]), nil
	default:
		ids := make([]string, len(out.NatGateways))
		for i, n := range out.NatGateways {
			ids[i] = aws.ToString(n.NatGatewayId)
		}
		return nil, &AmbiguousMatchError{Kind: "NAT gateway", Name: name, IDs: ids}
	}
}

// CreateNATGateway creates a NAT gateway in subnetID backed by the given
// Elastic IP allocation. The gateway takes minutes to become available;
// callers poll GetNATGateway.
func (c *RealClient) CreateNATGateway(ctx context.Context, subnetID, allocationID, name string, tags map[string]string) (*NATGateway, error) {
	out, err := c.ec2.CreateNatGateway(ctx, &ec2.CreateNatGatewayInput{
		SubnetId:          aws.String(subnetID),
		AllocationId:      aws.String(allocationID),
		TagSpecifications: tagSpec(ec2types.ResourceTypeNatgateway, tags),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create NAT gateway %s: %w", name, err)
	}
	return natFromSDK(*out.NatGateway), nil
}

// GetNATGateway returns the gateway by ID, or nil when it no longer exists.
func (c *RealClient) GetNATGateway(ctx context.Context, id string) (*NATGateway, error) {
	out, err := c.ec2.DescribeNatGateways(ctx, &ec2.DescribeNatGatewaysInput{
		NatGatewayIds: []string{id},
	})
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to describe NAT gateway %s: %w", id, err)
	}
	if len(out.NatGateways) == 0 {
		return nil, nil
	}
	return natFromSDK(out.NatGateways[0]), nil
}

// DeleteNATGateway requests deletion. The API returns immediately; the
// gateway drains to the deleted state over several minutes.
func (c *RealClient) DeleteNATGateway(ctx context.Context, id string) error {
	_, err := c.ec2.DeleteNatGateway(ctx, &ec2.DeleteNatGatewayInput{
		NatGatewayId: aws.String(id),
	})
	if err != nil && !IsNotFound(err) {
		return fmt.Errorf("failed to delete NAT gateway %s: %w", id, err)
	}
	return nil
}

func igwFromSDK(g ec2types.InternetGateway) *InternetGateway {
	igw := &InternetGateway{
		ID:   aws.ToString(g.InternetGatewayId),
		Name: tagValue(g.Tags, "Name"),
	}
	if len(g.Attachments) > 0 {
		igw.AttachedVPC = aws.ToString(g.Attachments[0].VpcId)
	}
	return igw
}

func addressFromSDK(a ec2types.Address) *Address {
	return &Address{
		AllocationID:  aws.ToString(a.AllocationId),
		AssociationID: aws.ToString(a.AssociationId),
		PublicIP:      aws.ToString(a.PublicIp),
		Name:          tagValue(a.Tags, "Name"),
	}
}

func natFromSDK(n ec2types.NatGateway) *NATGateway {
	nat := &NATGateway{
		ID:       aws.ToString(n.NatGatewayId),
		SubnetID: aws.ToString(n.SubnetId),
		VPCID:    aws.ToString(n.VpcId),
		State:    string(n.State),
		Name:     tagValue(n.Tags, "Name"),
	}
	if len(n.NatGatewayAddresses) > 0 {
		nat.AllocationID = aws.ToString(n.NatGatewayAddresses[0].AllocationId)
	}
	return nat
}
