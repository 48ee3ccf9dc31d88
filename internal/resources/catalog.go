package resources

import (
	"sync"

	"vpctier/internal/config"
	"vpctier/internal/deps"
	"vpctier/internal/platform/awsec2"
)

// Resource kind names as registered with the dependency registry.
const (
	KindVPC           = "vpc"
	KindSubnet        = "subnet"
	KindIGW           = "igw"
	KindNATGateway    = "natgw"
	KindEIP           = "eip"
	KindRouteTable    = "route-table"
	KindSecurityGroup = "security-group"
	KindInstance      = "instance"
	KindKeyPair       = "key-pair"
	// KindENI deliberately gets no deleter. See the package comment.
	KindENI = "eni"
)

// Catalog owns the dependency registry for one stack and the client the
// checkers and deleters run against.
type Catalog struct {
	client   awsec2.Client
	cfg      *config.Config
	naming   config.Naming
	timeouts *config.Timeouts

	reg      *deps.Registry
	loadOnce sync.Once
	loadErr  error
}

// NewCatalog builds an unloaded catalog. Registration happens on first use.
func NewCatalog(client awsec2.Client, cfg *config.Config) *Catalog {
	return &Catalog{
		client:   client,
		cfg:      cfg,
		naming:   cfg.Naming(),
		timeouts: config.LoadTimeouts(),
		reg:      deps.NewRegistry(),
	}
}

// Registry returns the loaded registry. Loading is idempotent: the catalog
// registers each kind exactly once no matter how many callers ask.
func (c *Catalog) Registry() (*deps.Registry, error) {
	c.loadOnce.Do(func() {
		c.loadErr = c.register()
	})
	if c.loadErr != nil {
		return nil, c.loadErr
	}
	return c.reg, nil
}

func (c *Catalog) register() error {
	checkers := map[string]deps.CheckFunc{
		KindVPC:    c.vpcBlockers,
		KindSubnet: c.subnetBlockers,
	}
	for kind, fn := range checkers {
		if err := c.reg.RegisterChecker(kind, fn); err != nil {
			return err
		}
	}

	deleters := map[string]deps.DeleteFunc{
		KindVPC:           c.deleteVPC,
		KindSubnet:        c.deleteSubnet,
		KindIGW:           c.deleteIGW,
		KindNATGateway:    c.deleteNATGateway,
		KindEIP:           c.deleteEIP,
		KindRouteTable:    c.deleteRouteTable,
		KindSecurityGroup: c.deleteSecurityGroup,
		KindInstance:      c.deleteInstance,
		KindKeyPair:       c.deleteKeyPair,
	}
	for kind, fn := range deleters {
		if err := c.reg.RegisterDeleter(kind, fn); err != nil {
			return err
		}
	}
	return nil
}
