package deps

import (
	"errors"
	"fmt"
	"strings"
)

// ErrDuplicateRegistration indicates a second checker or deleter registration
// for a kind that already has one.
var ErrDuplicateRegistration = errors.New("duplicate registration")

// MissingDeletersError reports every kind present in a tree that has no
// registered deleter. It is returned before any deletion takes place.
type MissingDeletersError struct {
	Kinds []string
}

func (e *MissingDeletersError) Error() string {
	return fmt.Sprintf("missing deleter(s) for kind(s): %s", strings.Join(e.Kinds, ", "))
}

// DeletionError reports a deleter invocation that failed. Descendants of the
// node deleted before the failure stay deleted; untouched siblings and
// ancestors remain.
type DeletionError struct {
	Node *Blocker
	Err  error
}

func (e *DeletionError) Error() string {
	return fmt.Sprintf("deleting %s %s: %v", e.Node.Kind, e.Node.ID, e.Err)
}

func (e *DeletionError) Unwrap() error { return e.Err }

// CycleError reports a checker graph that revisited a node already on the
// current expansion path.
type CycleError struct {
	Kind string
	ID   string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("dependency cycle detected at %s %s", e.Kind, e.ID)
}
