package tiers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"vpctier/internal/deps"
	"vpctier/internal/progress"
	"vpctier/internal/resources"
)

// DownCompute terminates the nodes. With purge it also removes the security
// group, the key pair and the local PEM, which are otherwise kept so the
// next bring-up reuses them. A stack without a VPC has no compute tier,
// which is fine.
func (o *Orchestrator) DownCompute(ctx context.Context, purge bool) error {
	vpc, err := o.findVPC(ctx)
	if err != nil {
		return err
	}
	if vpc == nil {
		log.Printf("[ok] nothing to do, vpc %s does not exist", o.naming.ResourceName("vpc"))
		return nil
	}

	reg, err := o.catalog.Registry()
	if err != nil {
		return err
	}

	instances, err := o.client.ListInstances(ctx, vpc.ID)
	if err != nil {
		return err
	}
	for _, inst := range instances {
		err := o.rep.Step(fmt.Sprintf("terminating instance %s", inst.Name), func() error {
			return reg.Delete(ctx, resources.KindInstance, inst.ID)
		})
		if err != nil {
			return err
		}
	}

	if !purge {
		return nil
	}

	groups, err := o.client.ListSecurityGroups(ctx, vpc.ID)
	if err != nil {
		return err
	}
	for _, sg := range groups {
		err := o.rep.Step(fmt.Sprintf("deleting security group %s", sg.Name), func() error {
			return reg.Delete(ctx, resources.KindSecurityGroup, sg.ID)
		})
		if err != nil {
			return err
		}
	}

	return o.deleteKeyPair(ctx, reg)
}

// DownRouting removes the route tables, the NAT gateway and its Elastic IP.
// The NAT gateway deletion is gated: it is the step that breaks private
// egress and takes the longest to rebuild.
func (o *Orchestrator) DownRouting(ctx context.Context) error {
	vpc, err := o.findVPC(ctx)
	if err != nil {
		return err
	}
	if vpc == nil {
		log.Printf("[ok] nothing to do, vpc %s does not exist", o.naming.ResourceName("vpc"))
		return nil
	}

	reg, err := o.catalog.Registry()
	if err != nil {
		return err
	}

	tables, err := o.client.ListRouteTables(ctx, vpc.ID)
	if err != nil {
		return err
	}
	for _, rt := range tables {
		if rt.Main {
			continue
		}
		err := o.rep.Step(fmt.Sprintf("deleting route table %s", rt.Name), func() error {
			return reg.Delete(ctx, resources.KindRouteTable, rt.ID)
		})
		if err != nil {
			return err
		}
	}

	nat, err := o.client.FindNATGateway(ctx, o.naming.ResourceName("natgw"))
	if err != nil {
		return err
	}
	if nat == nil {
		return nil
	}

	if o.gate != nil {
		err := o.gate.Confirm(ctx,
			fmt.Sprintf("nat gateway %s (%s)", nat.Name, nat.ID),
			"private subnet egress stops and the elastic ip is released",
			o.timeouts.Countdown)
		if err != nil {
			if errors.Is(err, progress.ErrCancelled) {
				log.Printf("[abort] nat gateway %s left in place", nat.ID)
			}
			return err
		}
	}

	return o.rep.Step(fmt.Sprintf("deleting nat gateway %s", nat.ID), func() error {
		return reg.Delete(ctx, resources.KindNATGateway, nat.ID)
	})
}

// DownNetwork removes everything. It builds the full blocker tree, shows it
// to the operator, confirms through the gate and only then hands the tree
// to the teardown engine. Anything in the tree the engine cannot delete
// aborts the run before the first deletion. The key pair is not VPC-scoped,
// so it only goes with purge.
func (o *Orchestrator) DownNetwork(ctx context.Context, purge bool) error {
	vpc, err := o.findVPC(ctx)
	if err != nil {
		return err
	}
	if vpc == nil {
		log.Printf("[ok] nothing to do, vpc %s does not exist", o.naming.ResourceName("vpc"))
		return nil
	}

	reg, err := o.catalog.Registry()
	if err != nil {
		return err
	}

	var root *deps.Blocker
	err = o.rep.Step("mapping resources blocking the vpc", func() error {
		root, err = reg.BuildTree(ctx, resources.KindVPC, vpc.ID, vpc.Name, "stack root")
		return err
	})
	if err != nil {
		return err
	}

	log.Printf("the following resources will be deleted, leaves first:")
	deps.PrintTree(log.Writer(), root)

	if o.gate != nil {
		err := o.gate.Confirm(ctx,
			fmt.Sprintf("vpc %s (%s) and everything inside it", vpc.Name, vpc.ID),
			"the whole stack including instances and the nat gateway goes away",
			o.timeouts.Countdown)
		if err != nil {
			if errors.Is(err, progress.ErrCancelled) {
				log.Printf("[abort] stack %s left in place", vpc.Name)
			}
			return err
		}
	}

	if err := reg.Teardown(ctx, root, true); err != nil {
		var missing *deps.MissingDeletersError
		if errors.As(err, &missing) {
			log.Printf("[abort] cannot tear down: no deleter for %v; nothing was deleted", missing.Kinds)
		}
		return err
	}

	if !purge {
		return nil
	}
	return o.deleteKeyPair(ctx, reg)
}

// deleteKeyPair removes the key pair and the local private key file.
func (o *Orchestrator) deleteKeyPair(ctx context.Context, reg *deps.Registry) error {
	name := o.naming.ResourceName("key")
	kp, err := o.client.FindKeyPair(ctx, name)
	if err != nil {
		return err
	}
	if kp == nil {
		return nil
	}
	err = o.rep.Step(fmt.Sprintf("deleting key pair %s", name), func() error {
		return reg.Delete(ctx, resources.KindKeyPair, name)
	})
	if err != nil {
		return err
	}
	path := filepath.Join(o.cfg.KeyDir, name+".pem")
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("[warn] could not remove %s: %v", path, err)
	}
	return nil
}
