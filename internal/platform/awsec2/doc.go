// Package awsec2 wraps the AWS EC2 API behind a narrow, domain-shaped
// client. Resources are addressed by their Name tag (plus CIDR where names
// alone are ambiguous), lookups that match more than one live resource fail
// hard instead of guessing, and deleters tolerate already-gone resources so
// teardown stays idempotent.
package awsec2
