package tiers

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"vpctier/internal/platform/awsec2"
)

// UpNetwork ensures the VPC, both subnets and an attached internet gateway.
func (o *Orchestrator) UpNetwork(ctx context.Context) error {
	vpc, err := o.ensureVPC(ctx)
	if err != nil {
		return err
	}

	az, err := o.client.FirstAvailabilityZone(ctx)
	if err != nil {
		return err
	}

	if _, err := o.ensureSubnet(ctx, vpc.ID, "subnet-public", o.cfg.PublicSubnetCIDR, az, true); err != nil {
		return err
	}
	if _, err := o.ensureSubnet(ctx, vpc.ID, "subnet-private", o.cfg.PrivateSubnetCIDR, az, false); err != nil {
		return err
	}

	return o.ensureInternetGateway(ctx, vpc.ID)
}

// UpRouting ensures the NAT gateway with its Elastic IP and both route
// tables. The NAT gateway step blocks until the gateway is available; that
// is routinely the longest step of the whole bring-up.
func (o *Orchestrator) UpRouting(ctx context.Context) error {
	vpc, err := o.requireVPC(ctx)
	if err != nil {
		return err
	}
	public, err := o.requireSubnet(ctx, vpc.ID, "subnet-public", o.cfg.PublicSubnetCIDR)
	if err != nil {
		return err
	}
	private, err := o.requireSubnet(ctx, vpc.ID, "subnet-private", o.cfg.PrivateSubnetCIDR)
	if err != nil {
		return err
	}
	igw, err := o.client.FindInternetGateway(ctx, o.naming.ResourceName("igw"))
	if err != nil {
		return err
	}
	if igw == nil {
		return fmt.Errorf("internet gateway %s not found; run up --tier network first", o.naming.ResourceName("igw"))
	}

	nat, err := o.ensureNATGateway(ctx, public.ID)
	if err != nil {
		return err
	}

	if err := o.ensureRouteTable(ctx, vpc.ID, "rt-public", public.ID, igw.ID, ""); err != nil {
		return err
	}
	return o.ensureRouteTable(ctx, vpc.ID, "rt-private", private.ID, "", nat.ID)
}

// UpCompute ensures the security group, key pair and both nodes, then waits
// for the nodes to reach the running state.
func (o *Orchestrator) UpCompute(ctx context.Context) error {
	vpc, err := o.requireVPC(ctx)
	if err != nil {
		return err
	}
	public, err := o.requireSubnet(ctx, vpc.ID, "subnet-public", o.cfg.PublicSubnetCIDR)
	if err != nil {
		return err
	}
	private, err := o.requireSubnet(ctx, vpc.ID, "subnet-private", o.cfg.PrivateSubnetCIDR)
	if err != nil {
		return err
	}

	sg, err := o.ensureSecurityGroup(ctx, vpc.ID)
	if err != nil {
		return err
	}
	keyName, err := o.ensureKeyPair(ctx)
	if err != nil {
		return err
	}

	ami, err := o.client.LatestAL2023AMI(ctx)
	if err != nil {
		return err
	}
	log.Printf("[ok] using image %s", ami)

	nodes := []struct {
		resource string
		subnetID string
		publicIP bool
	}{
		{"node-public", public.ID, true},
		{"node-private", private.ID, false},
	}
	for _, node := range nodes {
		if err := o.ensureInstance(ctx, vpc.ID, node.resource, ami, node.subnetID, sg.ID, keyName, node.publicIP); err != nil {
			return err
		}
	}
	return nil
}

func (o *Orchestrator) ensureVPC(ctx context.Context) (*awsec2.VPC, error) {
	name := o.naming.ResourceName("vpc")
	vpc, err := o.findVPC(ctx)
	if err != nil {
		return nil, err
	}
	if vpc != nil {
		o.logExists("vpc", name, vpc.ID)
		return vpc, nil
	}

	err = o.rep.Step(fmt.Sprintf("creating vpc %s", name), func() error {
		vpc, err = o.client.CreateVPC(ctx, name, o.cfg.VPCCIDR, o.naming.Tags(name))
		return err
	})
	return vpc, err
}

func (o *Orchestrator) ensureSubnet(ctx context.Context, vpcID, resource, cidr, az string, public bool) (*awsec2.Subnet, error) {
	name := o.naming.ResourceName(resource)
	subnet, err := o.client.FindSubnet(ctx, vpcID, name, cidr)
	if err != nil {
		return nil, err
	}
	if subnet != nil {
		o.logExists("subnet", name, subnet.ID)
		return subnet, nil
	}

	err = o.rep.Step(fmt.Sprintf("creating subnet %s", name), func() error {
		subnet, err = o.client.CreateSubnet(ctx, vpcID, name, cidr, az, public, o.naming.Tags(name))
		return err
	})
	return subnet, err
}

func (o *Orchestrator) requireSubnet(ctx context.Context, vpcID, resource, cidr string) (*awsec2.Subnet, error) {
	name := o.naming.ResourceName(resource)
	subnet, err := o.client.FindSubnet(ctx, vpcID, name, cidr)
	if err != nil {
		return nil, err
	}
	if subnet == nil {
		return nil, fmt.Errorf("subnet %s not found; run up --tier network first", name)
	}
	return subnet, nil
}

func (o *Orchestrator) ensureInternetGateway(ctx context.Context, vpcID string) error {
	name := o.naming.ResourceName("igw")
	igw, err := o.client.FindInternetGateway(ctx, name)
	if err != nil {
		return err
	}
	if igw == nil {
		err = o.rep.Step(fmt.Sprintf("creating internet gateway %s", name), func() error {
			igw, err = o.client.CreateInternetGateway(ctx, name, o.naming.Tags(name))
			return err
		})
		if err != nil {
			return err
		}
	} else {
		o.logExists("internet gateway", name, igw.ID)
	}

	if igw.AttachedVPC == vpcID {
		return nil
	}
	return o.rep.Step(fmt.Sprintf("attaching %s to vpc", name), func() error {
		return o.client.AttachInternetGateway(ctx, igw.ID, vpcID)
	})
}

func (o *Orchestrator) ensureNATGateway(ctx context.Context, publicSubnetID string) (*awsec2.NATGateway, error) {
	name := o.naming.ResourceName("natgw")
	nat, err := o.client.FindNATGateway(ctx, name)
	if err != nil {
		return nil, err
	}
	if nat == nil {
		eip, err := o.ensureAddress(ctx)
		if err != nil {
			return nil, err
		}
		err = o.rep.Step(fmt.Sprintf("creating nat gateway %s", name), func() error {
			nat, err = o.client.CreateNATGateway(ctx, publicSubnetID, eip.AllocationID, name, o.naming.Tags(name))
			return err
		})
		if err != nil {
			return nil, err
		}
	} else {
		o.logExists("nat gateway", name, nat.ID)
	}

	if nat.State == "available" {
		return nat, nil
	}
	ok, err := o.rep.SpinUntil(ctx, fmt.Sprintf("waiting for nat gateway %s", nat.ID),
		func(ctx context.Context) (bool, error) {
			g, err := o.client.GetNATGateway(ctx, nat.ID)
			if err != nil {
				return false, err
			}
			if g == nil || g.State == "failed" {
				return false, fmt.Errorf("nat gateway %s failed to provision", nat.ID)
			}
			return g.State == "available", nil
		}, o.timeouts.NATWait, o.timeouts.Poll)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("nat gateway %s not available after %s", nat.ID, o.timeouts.NATWait)
	}
	return nat, nil
}

func (o *Orchestrator) ensureAddress(ctx context.Context) (*awsec2.Address, error) {
	name := o.naming.ResourceName("nat-eip")
	eip, err := o.client.FindAddress(ctx, name)
	if err != nil {
		return nil, err
	}
	if eip != nil {
		if eip.AssociationID == "" {
			o.logExists("elastic ip", name, eip.AllocationID)
			return eip, nil
		}
		// The tagged address is attached to something else; a fresh
		// allocation is cheaper than guessing whose it is.
		log.Printf("[warn] elastic ip %s is already associated (%s), allocating a new one", name, eip.AssociationID)
	}

	err = o.rep.Step(fmt.Sprintf("allocating elastic ip %s", name), func() error {
		eip, err = o.client.AllocateAddress(ctx, name, o.naming.Tags(name))
		return err
	})
	return eip, err
}

// ensureRouteTable ensures the table, its default route and its subnet
// association. Exactly one of igwID and natID targets the default route.
func (o *Orchestrator) ensureRouteTable(ctx context.Context, vpcID, resource, subnetID, igwID, natID string) error {
	name := o.naming.ResourceName(resource)
	rt, err := o.client.FindRouteTable(ctx, vpcID, name)
	if err != nil {
		return err
	}
	if rt == nil {
		err = o.rep.Step(fmt.Sprintf("creating route table %s", name), func() error {
			rt, err = o.client.CreateRouteTable(ctx, vpcID, name, o.naming.Tags(name))
			return err
		})
		if err != nil {
			return err
		}
	} else {
		o.logExists("route table", name, rt.ID)
	}

	if err := o.client.UpsertRoute(ctx, rt.ID, "0.0.0.0/0", igwID, natID); err != nil {
		return err
	}
	for _, assoc := range rt.SubnetAssociations {
		if assoc == subnetID {
			return nil
		}
	}
	return o.client.AssociateRouteTable(ctx, rt.ID, subnetID)
}

func (o *Orchestrator) ensureSecurityGroup(ctx context.Context, vpcID string) (*awsec2.SecurityGroup, error) {
	name := o.naming.ResourceName("sg-nodes")
	var sg *awsec2.SecurityGroup
	err := o.rep.Step(fmt.Sprintf("ensuring security group %s", name), func() error {
		var err error
		sg, err = o.client.EnsureSecurityGroup(ctx, vpcID, name, "ssh access to nodes", o.naming.Tags(name))
		if err != nil {
			return err
		}
		return o.client.AuthorizeSSHIngress(ctx, sg.ID)
	})
	return sg, err
}

// ensureKeyPair ensures the key pair and, when freshly created, writes the
// private key under the key directory with owner-only permissions.
func (o *Orchestrator) ensureKeyPair(ctx context.Context) (string, error) {
	name := o.naming.ResourceName("key")
	kp, err := o.client.FindKeyPair(ctx, name)
	if err != nil {
		return "", err
	}
	if kp != nil {
		o.logExists("key pair", name, kp.ID)
		return kp.Name, nil
	}

	err = o.rep.Step(fmt.Sprintf("creating key pair %s", name), func() error {
		_, material, err := o.client.CreateKeyPair(ctx, name, o.naming.Tags(name))
		if err != nil {
			return err
		}
		if err := os.MkdirAll(o.cfg.KeyDir, 0o700); err != nil {
			return fmt.Errorf("failed to create key directory: %w", err)
		}
		path := filepath.Join(o.cfg.KeyDir, name+".pem")
		if err := os.WriteFile(path, []byte(material), 0o600); err != nil {
			return fmt.Errorf("failed to write private key: %w", err)
		}
		log.Printf("[ok] private key written to %s", path)
		return nil
	})
	if err != nil {
		return "", err
	}
	return name, nil
}

func (o *Orchestrator) ensureInstance(ctx context.Context, vpcID, resource, ami, subnetID, sgID, keyName string, publicIP bool) error {
	name := o.naming.ResourceName(resource)

	instances, err := o.client.ListInstances(ctx, vpcID)
	if err != nil {
		return err
	}
	var inst *awsec2.Instance
	for i, existing := range instances {
		if existing.Name == name {
			inst = &instances[i]
			break
		}
	}
	if inst != nil {
		if inst.State != "stopped" {
			o.logExists("instance", name, inst.ID)
			return nil
		}
		if err := o.rep.Step(fmt.Sprintf("starting instance %s", name), func() error {
			return o.client.StartInstance(ctx, inst.ID)
		}); err != nil {
			return err
		}
		return o.waitForRunning(ctx, name, inst.ID)
	}

	err = o.rep.Step(fmt.Sprintf("launching instance %s", name), func() error {
		inst, err = o.client.RunInstance(ctx, awsec2.RunInstanceOpts{
			Name:            name,
			ImageID:         ami,
			InstanceType:    o.cfg.InstanceType,
			SubnetID:        subnetID,
			SecurityGroupID: sgID,
			KeyName:         keyName,
			PublicIP:        publicIP,
			Tags:            o.naming.Tags(name),
		})
		return err
	})
	if err != nil {
		return err
	}
	return o.waitForRunning(ctx, name, inst.ID)
}

func (o *Orchestrator) waitForRunning(ctx context.Context, name, id string) error {
	ok, err := o.rep.SpinUntil(ctx, fmt.Sprintf("waiting for %s to run", name),
		func(ctx context.Context) (bool, error) {
			got, err := o.client.GetInstance(ctx, id)
			if err != nil {
				return false, err
			}
			return got != nil && got.State == "running", nil
		}, o.timeouts.InstanceWait, o.timeouts.Poll)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("instance %s not running after %s", name, o.timeouts.InstanceWait)
	}
	return nil
}
