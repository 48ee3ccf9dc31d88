package config

import "strings"

// Naming centralizes the resource naming convention and the common tag set so
// every resource this tool touches is consistently labeled and can be found
// (and torn down) by tag filters.
type Naming struct {
	Prefix string
	Suffix string
}

// ResourceName composes the canonical Name tag for a resource type, e.g.
// ResourceName("vpc") -> "<prefix>-vpc<suffix>".
func (n Naming) ResourceName(resource string) string {
	clean := strings.ReplaceAll(strings.TrimSpace(resource), "/", "-")
	return n.Prefix + "-" + clean + n.Suffix
}

// StackName is the shared Stack tag value grouping every resource of one
// deployment, handy for console filters and bulk teardown.
func (n Naming) StackName() string {
	return n.ResourceName("stack")
}

// Tags returns the standard tag set applied to every resource. The Name tag
// is what the AWS console shows as the display name.
func (n Naming) Tags(name string) map[string]string {
	return map[string]string{
		"Name":        name,
		"Stack":       n.StackName(),
		"ManagedBy":   "vpctier",
		"Environment": "dev",
	}
}
