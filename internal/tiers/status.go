package tiers

import (
	"context"
	"fmt"

	"vpctier/internal/resources"
)

// StatusRow is one resource line in the status report.
type StatusRow struct {
	Kind   string
	Name   string
	ID     string
	Detail string
}

// StackStatus is a point-in-time view of the stack.
type StackStatus struct {
	Tier Tier // highest tier that is fully up, or "" when nothing exists
	Rows []StatusRow
}

// Status inspects the stack without mutating it. The rows come back in
// bring-up order so the report reads like the plan.
func (o *Orchestrator) Status(ctx context.Context) (*StackStatus, error) {
	st := &StackStatus{}

	vpc, err := o.findVPC(ctx)
	if err != nil {
		return nil, err
	}
	if vpc == nil {
		return st, nil
	}
	st.Rows = append(st.Rows, StatusRow{resources.KindVPC, vpc.Name, vpc.ID, vpc.CIDR})

	subnets, err := o.client.ListSubnets(ctx, vpc.ID)
	if err != nil {
		return nil, err
	}
	for _, s := range subnets {
		st.Rows = append(st.Rows, StatusRow{resources.KindSubnet, s.Name, s.ID,
			fmt.Sprintf("%s %s", s.CIDR, s.AvailabilityZone)})
	}

	igw, err := o.client.FindInternetGateway(ctx, o.naming.ResourceName("igw"))
	if err != nil {
		return nil, err
	}
	networkUp := len(subnets) >= 2
	if igw != nil {
		detail := "detached"
		if igw.AttachedVPC == vpc.ID {
			detail = "attached"
		}
		st.Rows = append(st.Rows, StatusRow{resources.KindIGW, igw.Name, igw.ID, detail})
		networkUp = networkUp && igw.AttachedVPC == vpc.ID
	} else {
		networkUp = false
	}
	if networkUp {
		st.Tier = TierNetwork
	}

	eip, err := o.client.FindAddress(ctx, o.naming.ResourceName("nat-eip"))
	if err != nil {
		return nil, err
	}
	if eip != nil {
		st.Rows = append(st.Rows, StatusRow{resources.KindEIP, eip.Name, eip.AllocationID, eip.PublicIP})
	}

	nat, err := o.client.FindNATGateway(ctx, o.naming.ResourceName("natgw"))
	if err != nil {
		return nil, err
	}
	if nat != nil {
		st.Rows = append(st.Rows, StatusRow{resources.KindNATGateway, nat.Name, nat.ID, nat.State})
	}

	tables, err := o.client.ListRouteTables(ctx, vpc.ID)
	if err != nil {
		return nil, err
	}
	named := 0
	for _, rt := range tables {
		if rt.Main {
			continue
		}
		named++
		st.Rows = append(st.Rows, StatusRow{resources.KindRouteTable, rt.Name, rt.ID,
			fmt.Sprintf("%d associations", len(rt.SubnetAssociations))})
	}
	if networkUp && nat != nil && nat.State == "available" && named >= 2 {
		st.Tier = TierRouting
	}

	groups, err := o.client.ListSecurityGroups(ctx, vpc.ID)
	if err != nil {
		return nil, err
	}
	for _, sg := range groups {
		st.Rows = append(st.Rows, StatusRow{resources.KindSecurityGroup, sg.Name, sg.ID, ""})
	}

	instances, err := o.client.ListInstances(ctx, vpc.ID)
	if err != nil {
		return nil, err
	}
	running := 0
	for _, inst := range instances {
		detail := inst.State
		if inst.PublicIP != "" {
			detail += " public " + inst.PublicIP
		}
		if inst.PrivateIP != "" {
			detail += " private " + inst.PrivateIP
		}
		if inst.State == "running" {
			running++
		}
		st.Rows = append(st.Rows, StatusRow{resources.KindInstance, inst.Name, inst.ID, detail})
	}
	if st.Tier == TierRouting && running >= 2 {
		st.Tier = TierCompute
	}

	return st, nil
}
