package awsec2

import (
	"context"
	"fmt"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"

	"vpctier/internal/util/retry"
)

// al2023NamePattern matches Amazon Linux 2023 x86_64 AMIs published by AWS.
const al2023NamePattern = "al2023-ami-2023*-x86_64"

// EnsureSecurityGroup creates the security group, or returns the existing
// one when the name is already taken in this VPC.
func (c *RealClient) EnsureSecurityGroup(ctx context.Context, vpcID, name, description string, tags map[string]string) (*SecurityGroup, error) {
	out, err := c.ec2.CreateSecurityGroup(ctx, &ec2.CreateSecurityGroupInput{
		GroupName:         aws.String(name),
		Description:       aws.String(description),
		VpcId:             aws.String(vpcID),
		TagSpecifications: tagSpec(ec2types.ResourceTypeSecurityGroup, tags),
	})
	if err == nil {
		return &SecurityGroup{ID: aws.ToString(out.GroupId), Name: name, VPCID: vpcID}, nil
	}
	if !IsDuplicate(err) {
		return nil, fmt.Errorf("failed to create security group %s: %w", name, err)
	}

	desc, err := c.ec2.DescribeSecurityGroups(ctx, &ec2.DescribeSecurityGroupsInput{
		Filters: []ec2types.Filter{
			{Name: aws.String("group-name"), Values: []string{name}},
			{Name: aws.String("vpc-id"), Values: []string{vpcID}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to look up existing security group %s: %w", name, err)
	}
	if len(desc.SecurityGroups) == 0 {
		return nil, fmt.Errorf("security group %s reported duplicate but not found", name)
	}
	sg := desc.SecurityGroups[0]
	return &SecurityGroup{ID: aws.ToString(sg.GroupId), Name: name, VPCID: vpcID}, nil
}

// AuthorizeSSHIngress opens TCP 22 from anywhere on the group. A rule that
// already exists is not an error.
func (c *RealClient) AuthorizeSSHIngress(ctx context.Context, sgID string) error {
	_, err := c.ec2.AuthorizeSecurityGroupIngress(ctx, &ec2.AuthorizeSecurityGroupIngressInput{
		GroupId: aws.String(sgID),
		IpPermissions: []ec2types.IpPermission{{
			IpProtocol: aws.String("tcp"),
			FromPort:   aws.Int32(22),
			ToPort:     aws.Int32(22),
			IpRanges: []ec2types.IpRange{{
				CidrIp:      aws.String("0.0.0.0/0"),
				Description: aws.String("ssh"),
			}},
		}},
	})
	if err != nil && !IsDuplicate(err) {
		return fmt.Errorf("failed to authorize ssh ingress on %s: %w", sgID, err)
	}
	return nil
}

// ListSecurityGroups returns the non-default security groups in the VPC.
// The default group belongs to the VPC itself and is removed with it.
func (c *RealClient) ListSecurityGroups(ctx context.Context, vpcID string) ([]SecurityGroup, error) {
	out, err := c.ec2.DescribeSecurityGroups(ctx, &ec2.DescribeSecurityGroupsInput{
		Filters: []ec2types.Filter{
			{Name: aws.String("vpc-id"), Values: []string{vpcID}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list security groups in %s: %w", vpcID, err)
	}
	groups := make([]SecurityGroup, 0, len(out.SecurityGroups))
	for _, sg := range out.SecurityGroups {
		if aws.ToString(sg.GroupName) == "default" {
			continue
		}
		groups = append(groups, SecurityGroup{
			ID:    aws.ToString(sg.GroupId),
			Name:  aws.ToString(sg.GroupName),
			VPCID: vpcID,
		})
	}
	return groups, nil
}

// DeleteSecurityGroup deletes the group, retrying while terminating
// instances still reference it.
func (c *RealClient) DeleteSecurityGroup(ctx context.Context, id string) error {
	err := retry.WithExponentialBackoff(ctx, func() error {
		_, err := c.ec2.DeleteSecurityGroup(ctx, &ec2.DeleteSecurityGroupInput{
			GroupId: aws.String(id),
		})
		if err != nil {
			if IsNotFound(err) {
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
		return fmt.Errorf("failed to delete security group %s: %w", id, err)
	}
	return nil
}

// FindKeyPair returns the key pair by name, or nil.
func (c *RealClient) FindKeyPair(ctx context.Context, name string) (*KeyPair, error) {
	out, err := c.ec2.DescribeKeyPairs(ctx, &ec2.DescribeKeyPairsInput{
		KeyNames: []string{name},
	})
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to describe key pair %s: %w", name, err)
	}
	if len(out.KeyPairs) == 0 {
		return nil, nil
	}
	kp := out.KeyPairs[0]
	return &KeyPair{
		ID:          aws.ToString(kp.KeyPairId),
		Name:        aws.ToString(kp.KeyName),
		Fingerprint: aws.ToString(kp.KeyFingerprint),
	}, nil
}

// CreateKeyPair creates an ED25519 key pair and returns the private key
// material. AWS only hands the material out once, at creation.
func (c *RealClient) CreateKeyPair(ctx context.Context, name string, tags map[string]string) (*KeyPair, string, error) {
	out, err := c.ec2.CreateKeyPair(ctx, &ec2.CreateKeyPairInput{
		KeyName:           aws.String(name),
		KeyType:           ec2types.KeyTypeEd25519,
		TagSpecifications: tagSpec(ec2types.ResourceTypeKeyPair, tags),
	})
	if err != nil {
		return nil, "", fmt.Errorf("failed to create key pair %s: %w", name, err)
	}
	kp := &KeyPair{
		ID:          aws.ToString(out.KeyPairId),
		Name:        aws.ToString(out.KeyName),
		Fingerprint: aws.ToString(out.KeyFingerprint),
	}
	return kp, aws.ToString(out.KeyMaterial), nil
}

// DeleteKeyPair deletes the key pair by name. Already gone is not an error.
func (c *RealClient) DeleteKeyPair(ctx context.Context, name string) error {
	_, err := c.ec2.DeleteKeyPair(ctx, &ec2.DeleteKeyPairInput{
		KeyName: aws.String(name),
	})
	if err != nil && !IsNotFound(err) {
		return fmt.Errorf("failed to delete key pair %s: %w", name, err)
	}
	return nil
}

// RunInstance launches a single instance per opts and returns it in its
// initial (pending) state.
func (c *RealClient) RunInstance(ctx context.Context, opts RunInstanceOpts) (*Instance, error) {
	in := &ec2.RunInstancesInput{
		ImageId:      aws.String(opts.ImageID),
		InstanceType: ec2types.InstanceType(opts.InstanceType),
		MinCount:     aws.Int32(1),
		MaxCount:     aws.Int32(1),
		NetworkInterfaces: []ec2types.InstanceNetworkInterfaceSpecification{{
			DeviceIndex:              aws.Int32(0),
			SubnetId:                 aws.String(opts.SubnetID),
			Groups:                   []string{opts.SecurityGroupID},
			AssociatePublicIpAddress: aws.Bool(opts.PublicIP),
		}},
		TagSpecifications: tagSpec(ec2types.ResourceTypeInstance, opts.Tags),
	}
	if opts.KeyName != "" {
		in.KeyName = aws.String(opts.KeyName)
	}

	out, err := c.ec2.RunInstances(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("failed to launch instance %s: %w", opts.Name, err)
	}
	if len(out.Instances) == 0 {
		return nil, fmt.Errorf("launch of %s returned no instances", opts.Name)
	}
	return instanceFromSDK(out.Instances[0]), nil
}

// ListInstances returns the instances in the VPC that are not terminated,
// sorted by name for stable output.
func (c *RealClient) ListInstances(ctx context.Context, vpcID string) ([]Instance, error) {
	out, err := c.ec2.DescribeInstances(ctx, &ec2.DescribeInstancesInput{
		Filters: []ec2types.Filter{
			{Name: aws.String("vpc-id"), Values: []string{vpcID}},
			{Name: aws.String("instance-state-name"), Values: []string{
				"pending", "running", "stopping", "stopped", "shutting-down",
			}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list instances in %s: %w", vpcID, err)
	}
	var instances []Instance
	for _, res := range out.Reservations {
		for _, inst := range res.Instances {
			instances = append(instances, *instanceFromSDK(inst))
		}
	}
	sort.Slice(instances, func(i, j int) bool { return instances[i].Name < instances[j].Name })
	return instances, nil
}

// GetInstance returns the instance by ID, or nil when it no longer exists.
func (c *RealClient) GetInstance(ctx context.Context, id string) (*Instance, error) {
	out, err := c.ec2.DescribeInstances(ctx, &ec2.DescribeInstancesInput{
		InstanceIds: []string{id},
	})
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to describe instance %s: %w", id, err)
	}
	for _, res := range out.Reservations {
		for _, inst := range res.Instances {
			return instanceFromSDK(inst), nil
		}
	}
	return nil, nil
}

// StartInstance starts a stopped instance. Starting an already running
// instance is a no-op on the AWS side.
func (c *RealClient) StartInstance(ctx context.Context, id string) error {
	_, err := c.ec2.StartInstances(ctx, &ec2.StartInstancesInput{
		InstanceIds: []string{id},
	})
	if err != nil {
		return fmt.Errorf("failed to start instance %s: %w", id, err)
	}
	return nil
}

// TerminateInstances requests termination of the given instances. Unknown
// IDs are not an error.
func (c *RealClient) TerminateInstances(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := c.ec2.TerminateInstances(ctx, &ec2.TerminateInstancesInput{
		InstanceIds: ids,
	})
	if err != nil && !IsNotFound(err) {
		return fmt.Errorf("failed to terminate instances %v: %w", ids, err)
	}
	return nil
}

// LatestAL2023AMI returns the newest Amazon-published AL2023 x86_64 image
// in the region.
func (c *RealClient) LatestAL2023AMI(ctx context.Context) (string, error) {
	out, err := c.ec2.DescribeImages(ctx, &ec2.DescribeImagesInput{
		Owners: []string{"amazon"},
		Filters: []ec2types.Filter{
			{Name: aws.String("name"), Values: []string{al2023NamePattern}},
			{Name: aws.String("architecture"), Values: []string{"x86_64"}},
			{Name: aws.String("state"), Values: []string{"available"}},
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to describe AL2023 images: %w", err)
	}
	if len(out.Images) == 0 {
		return "", fmt.Errorf("no AL2023 image found in %s", c.region)
	}
	images := out.Images
	sort.Slice(images, func(i, j int) bool {
		return aws.ToString(images[i].CreationDate) > aws.ToString(images[j].CreationDate)
	})
	return aws.ToString(images[0].ImageId), nil
}

// FirstAvailabilityZone returns the alphabetically first available zone in
// the region, keeping both subnets in one zone.
func (c *RealClient) FirstAvailabilityZone(ctx context.Context) (string, error) {
	out, err := c.ec2.DescribeAvailabilityZones(ctx, &ec2.DescribeAvailabilityZonesInput{
		Filters: []ec2types.Filter{
			{Name: aws.String("state"), Values: []string{"available"}},
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to describe availability zones: %w", err)
	}
	if len(out.AvailabilityZones) == 0 {
		return "", fmt.Errorf("no availability zones in %s", c.region)
	}
	zones := make([]string, len(out.AvailabilityZones))
	for i, az := range out.AvailabilityZones {
		zones[i] = aws.ToString(az.ZoneName)
	}
	sort.Strings(zones)
	return zones[0], nil
}

func instanceFromSDK(i ec2types.Instance) *Instance {
	inst := &Instance{
		ID:        aws.ToString(i.InstanceId),
		Name:      tagValue(i.Tags, "Name"),
		Type:      string(i.InstanceType),
		SubnetID:  aws.ToString(i.SubnetId),
		PrivateIP: aws.ToString(i.PrivateIpAddress),
		PublicIP:  aws.ToString(i.PublicIpAddress),
	}
	if i.State != nil {
		inst.State = string(i.State.Name)
	}
	return inst
}
