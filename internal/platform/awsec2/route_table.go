package awsec2

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
)

// FindRouteTable returns the route table tagged name in vpcID, or nil.
func (c *RealClient) FindRouteTable(ctx context.Context, vpcID, name string) (*RouteTable, error) {
	out, err := c.ec2.DescribeRouteTables(ctx, &ec2.DescribeRouteTablesInput{
		Filters: []ec2types.Filter{
			nameFilter(name),
			{Name: aws.String("vpc-id"), Values: []string{vpcID}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to describe route tables named %s: %w", name, err)
	}
	switch len(out.RouteTables) {
	case 0:
		return nil, nil
	case 1:
		return routeTableFromSDK(out.RouteTables[0]), nil
	default:
		ids := make([]string, len(out.RouteTables))
		for i, rt := range out.RouteTables {
			ids[i] = aws.ToString(rt.RouteTableId)
		}
		return nil, &AmbiguousMatchError{Kind: "route table", Name: name, IDs: ids}
	}
}

// CreateRouteTable creates a route table in vpcID.
func (c *RealClient) CreateRouteTable(ctx context.Context, vpcID, name string, tags map[string]string) (*RouteTable, error) {
	out, err := c.ec2.CreateRouteTable(ctx, &ec2.CreateRouteTableInput{
		VpcId:             aws.String(vpcID),
		TagSpecifications: tagSpec(ec2types.ResourceTypeRouteTable, tags),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create route table %s: %w", name, err)
	}
	return routeTableFromSDK(*out.RouteTable), nil
}

// UpsertRoute installs destCIDR -> target in rtID. An existing route for
// the same destination is replaced, so pointing the private default route
// at a rebuilt NAT gateway is a plain re-run of the same step.
func (c *RealClient) UpsertRoute(ctx context.Context, rtID, destCIDR, gatewayID, natID string) error {
	in := &ec2.CreateRouteInput{
		RouteTableId:         aws.String(rtID),
		DestinationCidrBlock: aws.String(destCIDR),
	}
	if gatewayID != "" {
		in.GatewayId = aws.String(gatewayID)
	}
	if natID != "" {
		in.NatGatewayId = aws.String(natID)
	}

	_, err := c.ec2.CreateRoute(ctx, in)
	if err == nil {
		return nil
	}
	if !IsDuplicate(err) {
		return fmt.Errorf("failed to create route %s in %s: %w", destCIDR, rtID, err)
	}

	rin := &ec2.ReplaceRouteInput{
		RouteTableId:         in.RouteTableId,
		DestinationCidrBlock: in.DestinationCidrBlock,
		GatewayId:            in.GatewayId,
		NatGatewayId:         in.NatGatewayId,
	}
	if _, err := c.ec2.ReplaceRoute(ctx, rin); err != nil {
		return fmt.Errorf("failed to replace route %s in %s: %w", destCIDR, rtID, err)
	}
	return nil
}

// AssociateRouteTable associates rtID with subnetID. A subnet already
// associated with this table is not an error.
func (c *RealClient) AssociateRouteTable(ctx context.Context, rtID, subnetID string) error {
	_, err := c.ec2.AssociateRouteTable(ctx, &ec2.AssociateRouteTableInput{
		RouteTableId: aws.String(rtID),
		SubnetId:     aws.String(subnetID),
	})
	if err != nil && !hasErrorCode(err, "Resource.AlreadyAssociated") {
		return fmt.Errorf("failed to associate %s with %s: %w", rtID, subnetID, err)
	}
	return nil
}

// ListRouteTables returns every route table in the VPC, including the main
// table, which cannot be deleted and is identified by its Main flag.
func (c *RealClient) ListRouteTables(ctx context.Context, vpcID string) ([]RouteTable, error) {
	out, err := c.ec2.DescribeRouteTables(ctx, &ec2.DescribeRouteTablesInput{
		Filters: []ec2types.Filter{
			{Name: aws.String("vpc-id"), Values: []string{vpcID}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list route tables in %s: %w", vpcID, err)
	}
	tables := make([]RouteTable, 0, len(out.RouteTables))
	for _, rt := range out.RouteTables {
		tables = append(tables, *routeTableFromSDK(rt))
	}
	return tables, nil
}

// DeleteRouteTable removes the table's non-main subnet associations and
// deletes it. Already gone is not an error.
func (c *RealClient) DeleteRouteTable(ctx context.Context, id string) error {
	out, err := c.ec2.DescribeRouteTables(ctx, &ec2.DescribeRouteTablesInput{
		RouteTableIds: []string{id},
	})
	if err != nil {
		if IsNotFound(err) {
			return nil
		}
		return fmt.Errorf("failed to describe route table %s: %w", id, err)
	}
	for _, rt := range out.RouteTables {
		for _, assoc := range rt.Associations {
			if aws.ToBool(assoc.Main) {
				continue
			}
			_, err := c.ec2.DisassociateRouteTable(ctx, &ec2.DisassociateRouteTableInput{
				AssociationId: assoc.RouteTableAssociationId,
			})
			if err != nil && !IsNotFound(err) {
				return fmt.Errorf("failed to disassociate route table %s: %w", id, err)
			}
		}
	}

	_, err = c.ec2.DeleteRouteTable(ctx, &ec2.DeleteRouteTableInput{
		RouteTableId: aws.String(id),
	})
	if err != nil && !IsNotFound(err) {
		return fmt.Errorf("failed to delete route table %s: %w", id, err)
	}
	return nil
}

func routeTableFromSDK(rt ec2types.RouteTable) *RouteTable {
	table := &RouteTable{
		ID:    aws.ToString(rt.RouteTableId),
		VPCID: aws.ToString(rt.VpcId),
		Name:  tagValue(rt.Tags, "Name"),
	}
	for _, assoc := range rt.Associations {
		if aws.ToBool(assoc.Main) {
			table.Main = true
			continue
		}
		if id := aws.ToString(assoc.SubnetId); id != "" {
			table.SubnetAssociations = append(table.SubnetAssociations, id)
		}
	}
	return table
}
