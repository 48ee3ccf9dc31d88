package awsec2

import "context"

// MockClient is a mock implementation of Client. Each method delegates to
// the corresponding function field; a nil field returns zero values, so
// tests only wire the calls they care about.
type MockClient struct {
	FindVPCFunc   func(ctx context.Context, name, cidr string) (*VPC, error)
	CreateVPCFunc func(ctx context.Context, name, cidr string, tags map[string]string) (*VPC, error)
	DeleteVPCFunc func(ctx context.Context, id string) error

	FindSubnetFunc            func(ctx context.Context, vpcID, name, cidr string) (*Subnet, error)
	CreateSubnetFunc          func(ctx context.Context, vpcID, name, cidr, az string, autoPublicIP bool, tags map[string]string) (*Subnet, error)
	DeleteSubnetFunc          func(ctx context.Context, id string) error
	ListSubnetsFunc           func(ctx context.Context, vpcID string) ([]Subnet, error)
	ListNetworkInterfacesFunc func(ctx context.Context, subnetID string) ([]NetworkInterface, error)

	FindInternetGatewayFunc   func(ctx context.Context, name string) (*InternetGateway, error)
	CreateInternetGatewayFunc func(ctx context.Context, name string, tags map[string]string) (*InternetGateway, error)
	AttachInternetGatewayFunc func(ctx context.Context, igwID, vpcID string) error
	DetachInternetGatewayFunc func(ctx context.Context, igwID, vpcID string) error
	DeleteInternetGatewayFunc func(ctx context.Context, id string) error

	FindAddressFunc     func(ctx context.Context, name string) (*Address, error)
	AllocateAddressFunc func(ctx context.Context, name string, tags map[string]string) (*Address, error)
	ReleaseAddressFunc  func(ctx context.Context, allocationID string) error

	FindNATGatewayFunc   func(ctx context.Context, name string) (*NATGateway, error)
	CreateNATGatewayFunc func(ctx context.Context, subnetID, allocationID, name string, tags map[string]string) (*NATGateway, error)
	GetNATGatewayFunc    func(ctx context.Context, id string) (*NATGateway, error)
	DeleteNATGatewayFunc func(ctx context.Context, id string) error

	FindRouteTableFunc      func(ctx context.Context, vpcID, name string) (*RouteTable, error)
	CreateRouteTableFunc    func(ctx context.Context, vpcID, name string, tags map[string]string) (*RouteTable, error)
	UpsertRouteFunc         func(ctx context.Context, rtID, destCIDR, gatewayID, natID string) error
	AssociateRouteTableFunc func(ctx context.Context, rtID, subnetID string) error
	ListRouteTablesFunc     func(ctx context.Context, vpcID string) ([]RouteTable, error)
	DeleteRouteTableFunc    func(ctx context.Context, id string) error

	EnsureSecurityGroupFunc func(ctx context.Context, vpcID, name, description string, tags map[string]string) (*SecurityGroup, error)
	AuthorizeSSHIngressFunc func(ctx context.Context, sgID string) error
	ListSecurityGroupsFunc  func(ctx context.Context, vpcID string) ([]SecurityGroup, error)
	DeleteSecurityGroupFunc func(ctx context.Context, id string) error

	FindKeyPairFunc   func(ctx context.Context, name string) (*KeyPair, error)
	CreateKeyPairFunc func(ctx context.Context, name string, tags map[string]string) (*KeyPair, string, error)
	DeleteKeyPairFunc func(ctx context.Context, name string) error

	RunInstanceFunc        func(ctx context.Context, opts RunInstanceOpts) (*Instance, error)
	ListInstancesFunc      func(ctx context.Context, vpcID string) ([]Instance, error)
	GetInstanceFunc        func(ctx context.Context, id string) (*Instance, error)
	StartInstanceFunc      func(ctx context.Context, id string) error
	TerminateInstancesFunc func(ctx context.Context, ids []string) error

	LatestAL2023AMIFunc       func(ctx context.Context) (string, error)
	FirstAvailabilityZoneFunc func(ctx context.Context) (string, error)
}

var _ Client = (*MockClient)(nil)

func (m *MockClient) FindVPC(ctx context.Context, name, cidr string) (*VPC, error) {
	if m.FindVPCFunc == nil {
		return nil, nil
	}
	return m.FindVPCFunc(ctx, name, cidr)
}

func (m *MockClient) CreateVPC(ctx context.Context, name, cidr string, tags map[string]string) (*VPC, error) {
	if m.CreateVPCFunc == nil {
		return nil, nil
	}
	return m.CreateVPCFunc(ctx, name, cidr, tags)
}

func (m *MockClient) DeleteVPC(ctx context.Context, id string) error {
	if m.DeleteVPCFunc == nil {
		return nil
	}
	return m.DeleteVPCFunc(ctx, id)
}

func (m *MockClient) FindSubnet(ctx context.Context, vpcID, name, cidr string) (*Subnet, error) {
	if m.FindSubnetFunc == nil {
		return nil, nil
	}
	return m.FindSubnetFunc(ctx, vpcID, name, cidr)
}

func (m *MockClient) CreateSubnet(ctx context.Context, vpcID, name, cidr, az string, autoPublicIP bool, tags map[string]string) (*Subnet, error) {
	if m.CreateSubnetFunc == nil {
		return nil, nil
	}
	return m.CreateSubnetFunc(ctx, vpcID, name, cidr, az, autoPublicIP, tags)
}

func (m *MockClient) DeleteSubnet(ctx context.Context, id string) error {
	if m.DeleteSubnetFunc == nil {
		return nil
	}
	return m.DeleteSubnetFunc(ctx, id)
}

func (m *MockClient) ListSubnets(ctx context.Context, vpcID string) ([]Subnet, error) {
	if m.ListSubnetsFunc == nil {
		return nil, nil
	}
	return m.ListSubnetsFunc(ctx, vpcID)
}

func (m *MockClient) ListNetworkInterfaces(ctx context.Context, subnetID string) ([]NetworkInterface, error) {
	if m.ListNetworkInterfacesFunc == nil {
		return nil, nil
	}
	return m.ListNetworkInterfacesFunc(ctx, subnetID)
}

func (m *MockClient) FindInternetGateway(ctx context.Context, name string) (*InternetGateway, error) {
	if m.FindInternetGatewayFunc == nil {
		return nil, nil
	}
	return m.FindInternetGatewayFunc(ctx, name)
}

func (m *MockClient) CreateInternetGateway(ctx context.Context, name string, tags map[string]string) (*InternetGateway, error) {
	if m.CreateInternetGatewayFunc == nil {
		return nil, nil
	}
	return m.CreateInternetGatewayFunc(ctx, name, tags)
}

func (m *MockClient) AttachInternetGateway(ctx context.Context, igwID, vpcID string) error {
	if m.AttachInternetGatewayFunc == nil {
		return nil
	}
	return m.AttachInternetGatewayFunc(ctx, igwID, vpcID)
}

func (m *MockClient) DetachInternetGateway(ctx context.Context, igwID, vpcID string) error {
	if m.DetachInternetGatewayFunc == nil {
		return nil
	}
	return m.DetachInternetGatewayFunc(ctx, igwID, vpcID)
}

func (m *MockClient) DeleteInternetGateway(ctx context.Context, id string) error {
	if m.DeleteInternetGatewayFunc == nil {
		return nil
	}
	return m.DeleteInternetGatewayFunc(ctx, id)
}

func (m *MockClient) FindAddress(ctx context.Context, name string) (*Address, error) {
	if m.FindAddressFunc == nil {
		return nil, nil
	}
	return m.FindAddressFunc(ctx, name)
}

func (m *MockClient) AllocateAddress(ctx context.Context, name string, tags map[string]string) (*Address, error) {
	if m.AllocateAddressFunc == nil {
		return nil, nil
	}
	return m.AllocateAddressFunc(ctx, name, tags)
}

func (m *MockClient) ReleaseAddress(ctx context.Context, allocationID string) error {
	if m.ReleaseAddressFunc == nil {
		return nil
	}
	return m.ReleaseAddressFunc(ctx, allocationID)
}

func (m *MockClient) FindNATGateway(ctx context.Context, name string) (*NATGateway, error) {
	if m.FindNATGatewayFunc == nil {
		return nil, nil
	}
	return m.FindNATGatewayFunc(ctx, name)
}

func (m *MockClient) CreateNATGateway(ctx context.Context, subnetID, allocationID, name string, tags map[string]string) (*NATGateway, error) {
	if m.CreateNATGatewayFunc == nil {
		return nil, nil
	}
	return m.CreateNATGatewayFunc(ctx, subnetID, allocationID, name, tags)
}

func (m *MockClient) GetNATGateway(ctx context.Context, id string) (*NATGateway, error) {
	if m.GetNATGatewayFunc == nil {
		return nil, nil
	}
	return m.GetNATGatewayFunc(ctx, id)
}

func (m *MockClient) DeleteNATGateway(ctx context.Context, id string) error {
	if m.DeleteNATGatewayFunc == nil {
		return nil
	}
	return m.DeleteNATGatewayFunc(ctx, id)
}

func (m *MockClient) FindRouteTable(ctx context.Context, vpcID, name string) (*RouteTable, error) {
	if m.FindRouteTableFunc == nil {
		return nil, nil
	}
	return m.FindRouteTableFunc(ctx, vpcID, name)
}

func (m *MockClient) CreateRouteTable(ctx context.Context, vpcID, name string, tags map[string]string) (*RouteTable, error) {
	if m.CreateRouteTableFunc == nil {
		return nil, nil
	}
	return m.CreateRouteTableFunc(ctx, vpcID, name, tags)
}

func (m *MockClient) UpsertRoute(ctx context.Context, rtID, destCIDR, gatewayID, natID string) error {
	if m.UpsertRouteFunc == nil {
		return nil
	}
	return m.UpsertRouteFunc(ctx, rtID, destCIDR, gatewayID, natID)
}

func (m *MockClient) AssociateRouteTable(ctx context.Context, rtID, subnetID string) error {
	if m.AssociateRouteTableFunc == nil {
		return nil
	}
	return m.AssociateRouteTableFunc(ctx, rtID, subnetID)
}

func (m *MockClient) ListRouteTables(ctx context.Context, vpcID string) ([]RouteTable, error) {
	if m.ListRouteTablesFunc == nil {
		return nil, nil
	}
	return m.ListRouteTablesFunc(ctx, vpcID)
}

func (m *MockClient) DeleteRouteTable(ctx context.Context, id string) error {
	if m.DeleteRouteTableFunc == nil {
		return nil
	}
	return m.DeleteRouteTableFunc(ctx, id)
}

func (m *MockClient) EnsureSecurityGroup(ctx context.Context, vpcID, name, description string, tags map[string]string) (*SecurityGroup, error) {
	if m.EnsureSecurityGroupFunc == nil {
		return nil, nil
	}
	return m.EnsureSecurityGroupFunc(ctx, vpcID, name, description, tags)
}

func (m *MockClient) AuthorizeSSHIngress(ctx context.Context, sgID string) error {
	if m.AuthorizeSSHIngressFunc == nil {
		return nil
	}
	return m.AuthorizeSSHIngressFunc(ctx, sgID)
}

func (m *MockClient) ListSecurityGroups(ctx context.Context, vpcID string) ([]SecurityGroup, error) {
	if m.ListSecurityGroupsFunc == nil {
		return nil, nil
	}
	return m.ListSecurityGroupsFunc(ctx, vpcID)
}

func (m *MockClient) DeleteSecurityGroup(ctx context.Context, id string) error {
	if m.DeleteSecurityGroupFunc == nil {
		return nil
	}
	return m.DeleteSecurityGroupFunc(ctx, id)
}

func (m *MockClient) FindKeyPair(ctx context.Context, name string) (*KeyPair, error) {
	if m.FindKeyPairFunc == nil {
		return nil, nil
	}
	return m.FindKeyPairFunc(ctx, name)
}

func (m *MockClient) CreateKeyPair(ctx context.Context, name string, tags map[string]string) (*KeyPair, string, error) {
	if m.CreateKeyPairFunc == nil {
		return nil, "", nil
	}
	return m.CreateKeyPairFunc(ctx, name, tags)
}

func (m *MockClient) DeleteKeyPair(ctx context.Context, name string) error {
	if m.DeleteKeyPairFunc == nil {
		return nil
	}
	return m.DeleteKeyPairFunc(ctx, name)
}

func (m *MockClient) RunInstance(ctx context.Context, opts RunInstanceOpts) (*Instance, error) {
	if m.RunInstanceFunc == nil {
		return nil, nil
	}
	return m.RunInstanceFunc(ctx, opts)
}

func (m *MockClient) ListInstances(ctx context.Context, vpcID string) ([]Instance, error) {
	if m.ListInstancesFunc == nil {
		return nil, nil
	}
	return m.ListInstancesFunc(ctx, vpcID)
}

func (m *MockClient) GetInstance(ctx context.Context, id string) (*Instance, error) {
	if m.GetInstanceFunc == nil {
		return nil, nil
	}
	return m.GetInstanceFunc(ctx, id)
}

func (m *MockClient) StartInstance(ctx context.Context, id string) error {
	if m.StartInstanceFunc == nil {
		return nil
	}
	return m.StartInstanceFunc(ctx, id)
}

func (m *MockClient) TerminateInstances(ctx context.Context, ids []string) error {
	if m.TerminateInstancesFunc == nil {
		return nil
	}
	return m.TerminateInstancesFunc(ctx, ids)
}

func (m *MockClient) LatestAL2023AMI(ctx context.Context) (string, error) {
	if m.LatestAL2023AMIFunc == nil {
		return "", nil
	}
	return m.LatestAL2023AMIFunc(ctx)
}

func (m *MockClient) FirstAvailabilityZone(ctx context.Context) (string, error) {
	if m.FirstAvailabilityZoneFunc == nil {
		return "", nil
	}
	return m.FirstAvailabilityZoneFunc(ctx)
}
