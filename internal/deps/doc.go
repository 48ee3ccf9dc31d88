// Package deps implements the generic dependency-resolution and safe-teardown
// engine used for destructive operations.
//
// Resource kinds register a checker (report the immediate blockers of a
// resource) and a deleter (remove one resource) with a [Registry]. A delete
// request builds a fresh [Blocker] tree from the registered checkers, then
// tears it down in strict post-order so that a resource is never deleted
// before everything that references it.
//
// The engine is deliberately ignorant of resource semantics: kinds are opaque
// tags, and all provider interaction happens inside the registered functions.
package deps
