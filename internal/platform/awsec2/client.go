package awsec2

import (
	"context"
)

// VPC describes a virtual private cloud.
type VPC struct {
	ID    string
	CIDR  string
	Name  string
	State string
}

// Subnet describes a subnet inside a VPC.
type Subnet struct {
	ID               string
	VPCID            string
	CIDR             string
	Name             string
	AvailabilityZone string
}

// InternetGateway describes an internet gateway and its attachment, if any.
type InternetGateway struct {
	ID          string
	Name        string
	AttachedVPC string
}

// Address describes an Elastic IP allocation.
type Address struct {
	AllocationID  string
	AssociationID string
	PublicIP      string
	Name          string
}

// NATGateway describes a NAT gateway.
type NATGateway struct {
	ID           string
	SubnetID     string
	VPCID        string
	State        string
	AllocationID string
	Name         string
}

// RouteTable describes a route table and its subnet associations.
type RouteTable struct {
	ID                 string
	VPCID              string
	Name               string
	Main               bool
	SubnetAssociations []string
}

// SecurityGroup describes a security group.
type SecurityGroup struct {
	ID    string
	Name  string
	VPCID string
}

// KeyPair describes an EC2 key pair.
type KeyPair struct {
	ID          string
	Name        string
	Fingerprint string
}

// NetworkInterface describes an elastic network interface. Interfaces held
// by managed services (NAT gateways, load balancers) show up here and block
// subnet deletion until their owner is gone.
type NetworkInterface struct {
	ID          string
	SubnetID    string
	Description string
	Status      string
	InstanceID  string
}

// Instance describes an EC2 instance.
type Instance struct {
	ID        string
	Name      string
	State     string
	Type      string
	SubnetID  string
	PrivateIP string
	PublicIP  string
}

// RunInstanceOpts holds all parameters for launching an instance.
type RunInstanceOpts struct {
	Name            string
	ImageID         string
	InstanceType    string
	SubnetID        string
	SecurityGroupID string
	KeyName         string
	PublicIP        bool
	Tags            map[string]string
}

// VPCManager manages VPC lifecycle.
type VPCManager interface {
	// FindVPC returns the live VPC tagged name with the given CIDR, or nil
	// when none exists. Multiple matches return an AmbiguousMatchError.
	FindVPC(ctx context.Context, name, cidr string) (*VPC, error)
	CreateVPC(ctx context.Context, name, cidr string, tags map[string]string) (*VPC, error)
	DeleteVPC(ctx context.Context, id string) error
}

// SubnetManager manages subnets and the interfaces parked in them.
type SubnetManager interface {
	FindSubnet(ctx context.Context, vpcID, name, cidr string) (*Subnet, error)
	CreateSubnet(ctx context.Context, vpcID, name, cidr, az string, autoPublicIP bool, tags map[string]string) (*Subnet, error)
	DeleteSubnet(ctx context.Context, id string) error
	ListSubnets(ctx context.Context, vpcID string) ([]Subnet, error)
	ListNetworkInterfaces(ctx context.Context, subnetID string) ([]NetworkInterface, error)
}

// GatewayManager manages internet gateways, Elastic IPs and NAT gateways.
type GatewayManager interface {
	FindInternetGateway(ctx context.Context, name string) (*InternetGateway, error)
	CreateInternetGateway(ctx context.Context, name string, tags map[string]string) (*InternetGateway, error)
	AttachInternetGateway(ctx context.Context, igwID, vpcID string) error
	DetachInternetGateway(ctx context.Context, igwID, vpcID string) error
	DeleteInternetGateway(ctx context.Context, id string) error

	FindAddress(ctx context.Context, name string) (*Address, error)
	AllocateAddress(ctx context.Context, name string, tags map[string]string) (*Address, error)
	ReleaseAddress(ctx context.Context, allocationID string) error

	// FindNATGateway ignores gateways in the deleted state so a fresh
	// gateway can reuse the name of a torn-down one.
	FindNATGateway(ctx context.Context, name string) (*NATGateway, error)
	CreateNATGateway(ctx context.Context, subnetID, allocationID, name string, tags map[string]string) (*NATGateway, error)
	GetNATGateway(ctx context.Context, id string) (*NATGateway, error)
	DeleteNATGateway(ctx context.Context, id string) error
}

// RouteManager manages route tables, routes and associations.
type RouteManager interface {
	FindRouteTable(ctx context.Context, vpcID, name string) (*RouteTable, error)
	CreateRouteTable(ctx context.Context, vpcID, name string, tags map[string]string) (*RouteTable, error)
	// UpsertRoute installs destCIDR -> target, replacing an existing route
	// for the same destination. Exactly one of gatewayID and natID is set.
	UpsertRoute(ctx context.Context, rtID, destCIDR, gatewayID, natID string) error
	AssociateRouteTable(ctx context.Context, rtID, subnetID string) error
	ListRouteTables(ctx context.Context, vpcID string) ([]RouteTable, error)
	DeleteRouteTable(ctx context.Context, id string) error
}

// ComputeManager manages instances and their launch dependencies.
type ComputeManager interface {
	EnsureSecurityGroup(ctx context.Context, vpcID, name, description string, tags map[string]string) (*SecurityGroup, error)
	AuthorizeSSHIngress(ctx context.Context, sgID string) error
	ListSecurityGroups(ctx context.Context, vpcID string) ([]SecurityGroup, error)
	DeleteSecurityGroup(ctx context.Context, id string) error

	FindKeyPair(ctx context.Context, name string) (*KeyPair, error)
	// CreateKeyPair returns the private key material; it is only available
	// at creation time.
	CreateKeyPair(ctx context.Context, name string, tags map[string]string) (*KeyPair, string, error)
	DeleteKeyPair(ctx context.Context, name string) error

	RunInstance(ctx context.Context, opts RunInstanceOpts) (*Instance, error)
	// ListInstances returns instances in the VPC that are not terminated.
	ListInstances(ctx context.Context, vpcID string) ([]Instance, error)
	GetInstance(ctx context.Context, id string) (*Instance, error)
	StartInstance(ctx context.Context, id string) error
	TerminateInstances(ctx context.Context, ids []string) error

	LatestAL2023AMI(ctx context.Context) (string, error)
	FirstAvailabilityZone(ctx context.Context) (string, error)
}

// Client combines every EC2 concern the provisioner needs.
type Client interface {
	VPCManager
	SubnetManager
	GatewayManager
	RouteManager
	ComputeManager
}
