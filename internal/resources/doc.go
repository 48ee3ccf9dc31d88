// Package resources binds each EC2 resource kind to its blocker checker and
// deleter. The catalog registers every kind exactly once; teardown then
// walks whatever blocker tree the checkers discover.
//
// Network interfaces that cannot be attributed to a known owner are
// registered as a kind with no deleter on purpose: an unattributable
// interface means some service outside this tool still has a foothold in
// the subnet, and the only safe move is to refuse the whole teardown.
package resources
