// Package retry provides exponential backoff retry logic for transient
// failures.
//
// EC2 deletions are eventually consistent: detaching a gateway or releasing
// an address can fail with a dependency violation for a short while after the
// dependent resource is gone. [WithExponentialBackoff] retries such calls with
// a growing delay; errors wrapped with [Fatal] stop the retry loop at once.
package retry
