package resources

import (
	"context"
	"fmt"
	"log"
	"time"

	"vpctier/internal/util/retry"
)

func (c *Catalog) deleteVPC(ctx context.Context, id string) error {
	if err := c.client.DeleteVPC(ctx, id); err != nil {
		return err
	}
	log.Printf("[done] deleted vpc %s", id)
	return nil
}

// deleteSubnet retries while interfaces from a draining NAT gateway still
// pin the subnet.
func (c *Catalog) deleteSubnet(ctx context.Context, id string) error {
	err := retry.WithExponentialBackoff(ctx, func() error {
		return c.client.DeleteSubnet(ctx, id)
	},
		retry.WithMaxRetries(c.timeouts.RetryMaxAttempts),
		retry.WithInitialDelay(c.timeouts.RetryInitialDelay),
	)
	if err != nil {
		return err
	}
	log.Printf("[done] deleted subnet %s", id)
	return nil
}

func (c *Catalog) deleteIGW(ctx context.Context, id string) error {
	igw, err := c.client.FindInternetGateway(ctx, c.naming.ResourceName("igw"))
	if err != nil {
		return err
	}
	if igw != nil && igw.AttachedVPC != "" {
		if err := c.client.DetachInternetGateway(ctx, igw.ID, igw.AttachedVPC); err != nil {
			return err
		}
	}
	if err := c.client.DeleteInternetGateway(ctx, id); err != nil {
		return err
	}
	log.Printf("[done] deleted internet gateway %s", id)
	return nil
}

// deleteNATGateway requests deletion, waits for the gateway to drain out of
// the subnet, then releases its Elastic IP. Skipping the wait leaves the
// gateway's interface pinning the subnet; skipping the release leaks a
// billable address.
func (c *Catalog) deleteNATGateway(ctx context.Context, id string) error {
	nat, err := c.client.GetNATGateway(ctx, id)
	if err != nil {
		return err
	}
	if nat == nil {
		return nil
	}
	allocationID := nat.AllocationID

	if err := c.client.DeleteNATGateway(ctx, id); err != nil {
		return err
	}

	drained, err := c.waitUntil(ctx, c.timeouts.NATWait, func(ctx context.Context) (bool, error) {
		g, err := c.client.GetNATGateway(ctx, id)
		if err != nil {
			return false, err
		}
		return g == nil || g.State == "deleted", nil
	})
	if err != nil {
		return err
	}
	if !drained {
		return fmt.Errorf("nat gateway %s still draining after %s", id, c.timeouts.NATWait)
	}
	log.Printf("[done] deleted nat gateway %s", id)

	if allocationID != "" {
		if err := c.client.ReleaseAddress(ctx, allocationID); err != nil {
			return err
		}
		log.Printf("[done] released elastic ip %s", allocationID)
	}
	return nil
}

func (c *Catalog) deleteEIP(ctx context.Context, id string) error {
	if err := c.client.ReleaseAddress(ctx, id); err != nil {
		return err
	}
	log.Printf("[done] released elastic ip %s", id)
	return nil
}

func (c *Catalog) deleteRouteTable(ctx context.Context, id string) error {
	if err := c.client.DeleteRouteTable(ctx, id); err != nil {
		return err
	}
	log.Printf("[done] deleted route table %s", id)
	return nil
}

func (c *Catalog) deleteSecurityGroup(ctx context.Context, id string) error {
	if err := c.client.DeleteSecurityGroup(ctx, id); err != nil {
		return err
	}
	log.Printf("[done] deleted security group %s", id)
	return nil
}

// deleteInstance terminates and waits until the instance is gone, so the
// parent subnet's deletion does not race the released interfaces.
func (c *Catalog) deleteInstance(ctx context.Context, id string) error {
	if err := c.client.TerminateInstances(ctx, []string{id}); err != nil {
		return err
	}
	gone, err := c.waitUntil(ctx, c.timeouts.InstanceWait, func(ctx context.Context) (bool, error) {
		inst, err := c.client.GetInstance(ctx, id)
		if err != nil {
			return false, err
		}
		return inst == nil || inst.State == "terminated", nil
	})
	if err != nil {
		return err
	}
	if !gone {
		return fmt.Errorf("instance %s still terminating after %s", id, c.timeouts.InstanceWait)
	}
	log.Printf("[done] terminated instance %s", id)
	return nil
}

// deleteKeyPair removes the key pair; the id is the key name.
func (c *Catalog) deleteKeyPair(ctx context.Context, id string) error {
	if err := c.client.DeleteKeyPair(ctx, id); err != nil {
		return err
	}
	log.Printf("[done] deleted key pair %s", id)
	return nil
}

// waitUntil polls pred at the configured interval until it reports true or
// the budget runs out. Returning false with a nil error means timeout.
func (c *Catalog) waitUntil(ctx context.Context, budget time.Duration, pred func(context.Context) (bool, error)) (bool, error) {
	deadline := time.Now().Add(budget)
	for {
		ok, err := pred(ctx)
		if err != nil || ok {
			return ok, err
		}
		if time.Now().After(deadline) {
			return false, nil
		}
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-time.After(c.timeouts.Poll):
		}
	}
}
