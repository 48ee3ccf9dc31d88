// Package tiers orchestrates the stack as three cumulative tiers: network
// (VPC, subnets, internet gateway), routing (Elastic IP, NAT gateway, route
// tables) and compute (security group, key pair, instances). Bringing a
// tier up implies the tiers below it; tearing one down implies the tiers
// above it. Every step is idempotent, so re-running after a partial failure
// continues where the last run stopped.
package tiers
