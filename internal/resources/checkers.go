package resources

import (
	"context"
	"fmt"
	"strings"

	"vpctier/internal/deps"
)

// natENIPrefix is how EC2 describes the interface a NAT gateway parks in
// its subnet; the gateway ID follows the prefix.
const natENIPrefix = "Interface for NAT Gateway "

// vpcBlockers reports everything that must go before the VPC can: subnets,
// the attached internet gateway, non-main route tables and non-default
// security groups. Instances surface under their subnet, not here.
func (c *Catalog) vpcBlockers(ctx context.Context, id string) ([]*deps.Blocker, error) {
	var blockers []*deps.Blocker

	subnets, err := c.client.ListSubnets(ctx, id)
	if err != nil {
		return nil, err
	}
	for _, s := range subnets {
		blockers = append(blockers, &deps.Blocker{
			Kind:   KindSubnet,
			ID:     s.ID,
			Name:   s.Name,
			Reason: fmt.Sprintf("subnet %s in vpc", s.CIDR),
		})
	}

	igw, err := c.client.FindInternetGateway(ctx, c.naming.ResourceName("igw"))
	if err != nil {
		return nil, err
	}
	if igw != nil && igw.AttachedVPC == id {
		blockers = append(blockers, &deps.Blocker{
			Kind:   KindIGW,
			ID:     igw.ID,
			Name:   igw.Name,
			Reason: "internet gateway attached to vpc",
		})
	}

	tables, err := c.client.ListRouteTables(ctx, id)
	if err != nil {
		return nil, err
	}
	for _, rt := range tables {
		if rt.Main {
			// The main table belongs to the VPC and dies with it.
			continue
		}
		blockers = append(blockers, &deps.Blocker{
			Kind:   KindRouteTable,
			ID:     rt.ID,
			Name:   rt.Name,
			Reason: "route table in vpc",
		})
	}

	groups, err := c.client.ListSecurityGroups(ctx, id)
	if err != nil {
		return nil, err
	}
	for _, sg := range groups {
		blockers = append(blockers, &deps.Blocker{
			Kind:   KindSecurityGroup,
			ID:     sg.ID,
			Name:   sg.Name,
			Reason: "security group in vpc",
		})
	}

	return blockers, nil
}

// subnetBlockers attributes every interface in the subnet to its owner.
// NAT gateway interfaces become natgw blockers, instance interfaces become
// instance blockers, and anything else stays an eni blocker, which has no
// deleter and therefore vetoes the teardown.
func (c *Catalog) subnetBlockers(ctx context.Context, id string) ([]*deps.Blocker, error) {
	enis, err := c.client.ListNetworkInterfaces(ctx, id)
	if err != nil {
		return nil, err
	}

	var blockers []*deps.Blocker
	seen := map[string]bool{}
	for _, eni := range enis {
		switch {
		case strings.HasPrefix(eni.Description, natENIPrefix):
			natID := strings.TrimSpace(strings.TrimPrefix(eni.Description, natENIPrefix))
			if seen[natID] {
				continue
			}
			seen[natID] = true
			blockers = append(blockers, &deps.Blocker{
				Kind:   KindNATGateway,
				ID:     natID,
				Reason: fmt.Sprintf("holds interface %s in subnet", eni.ID),
			})
		case eni.InstanceID != "":
			if seen[eni.InstanceID] {
				continue
			}
			seen[eni.InstanceID] = true
			blockers = append(blockers, &deps.Blocker{
				Kind:   KindInstance,
				ID:     eni.InstanceID,
				Reason: fmt.Sprintf("holds interface %s in subnet", eni.ID),
			})
		default:
			blockers = append(blockers, &deps.Blocker{
				Kind:   KindENI,
				ID:     eni.ID,
				Reason: fmt.Sprintf("unattributed interface (%s) in subnet", eni.Description),
			})
		}
	}
	return blockers, nil
}
