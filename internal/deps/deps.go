package deps

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
)

// Blocker represents one resource discovered during dependency expansion.
// Its children are everything that must be removed before the resource
// itself can be removed, as reported by the checker for its kind.
type Blocker struct {
	Kind     string
	ID       string
	Name     string
	Reason   string
	Children []*Blocker
}

// CheckFunc reports the immediate blockers of the resource with the given ID.
// It must be read-only.
type CheckFunc func(ctx context.Context, id string) ([]*Blocker, error)

// DeleteFunc removes one resource instance. It is called only after all of
// the resource's blockers have been deleted, and must be idempotent when the
// resource is already gone.
type DeleteFunc func(ctx context.Context, id string) error

// Registry associates resource kinds with their checker and deleter.
// A kind may have either, both, or neither; a kind with no checker is
// assumed to have no blockers. Registries are safe for concurrent use.
type Registry struct {
	mu       sync.Mutex
	checkers map[string]CheckFunc
	deleters map[string]DeleteFunc
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		checkers: make(map[string]CheckFunc),
		deleters: make(map[string]DeleteFunc),
	}
}

// RegisterChecker records the checker for a kind. Registering a kind twice is
// a programming error and fails loudly rather than silently overriding.
func (r *Registry) RegisterChecker(kind string, fn CheckFunc) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.checkers[kind]; ok {
		return fmt.Errorf("checker for kind %q: %w", kind, ErrDuplicateRegistration)
	}
	r.checkers[kind] = fn
	return nil
}

// RegisterDeleter records the deleter for a kind. Registering a kind twice is
// a programming error and fails loudly rather than silently overriding.
func (r *Registry) RegisterDeleter(kind string, fn DeleteFunc) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.deleters[kind]; ok {
		return fmt.Errorf("deleter for kind %q: %w", kind, ErrDuplicateRegistration)
	}
	r.deleters[kind] = fn
	return nil
}

func (r *Registry) checker(kind string) CheckFunc {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.checkers[kind]
}

func (r *Registry) deleter(kind string) DeleteFunc {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.deleters[kind]
}

// Delete runs the registered deleter for a single resource, outside any
// tree walk. Callers that already know a resource is unblocked use this to
// share the per-kind deletion behavior.
func (r *Registry) Delete(ctx context.Context, kind, id string) error {
	fn := r.deleter(kind)
	if fn == nil {
		return &MissingDeletersError{Kinds: []string{kind}}
	}
	if err := fn(ctx, id); err != nil {
		return &DeletionError{Node: &Blocker{Kind: kind, ID: id}, Err: err}
	}
	return nil
}

type nodeKey struct {
	kind, id string
}

// BuildTree constructs a Blocker for the given resource and recursively
// expands it through the registered checkers. Kinds with no checker are
// treated as leaves. A tree is built fresh for every call; resource state is
// never cached across delete requests.
//
// A checker graph that revisits a (kind, id) pair already on the current
// expansion path is cyclic and yields a *CycleError instead of recursing
// forever.
func (r *Registry) BuildTree(ctx context.Context, kind, id, name, reason string) (*Blocker, error) {
	root := &Blocker{Kind: kind, ID: id, Name: name, Reason: reason}
	path := map[nodeKey]bool{}
	if err := r.expand(ctx, root, path); err != nil {
		return nil, err
	}
	return root, nil
}

func (r *Registry) expand(ctx context.Context, node *Blocker, path map[nodeKey]bool) error {
	key := nodeKey{node.Kind, node.ID}
	if path[key] {
		return &CycleError{Kind: node.Kind, ID: node.ID}
	}
	path[key] = true
	defer delete(path, key)

	fn := r.checker(node.Kind)
	if fn == nil {
		return nil
	}
	children, err := fn(ctx, node.ID)
	if err != nil {
		return fmt.Errorf("checking blockers of %s %s: %w", node.Kind, node.ID, err)
	}
	node.Children = children
	for _, ch := range children {
		if err := r.expand(ctx, ch, path); err != nil {
			return err
		}
	}
	return nil
}

// Teardown deletes the tree rooted at root in strict post-order: every node's
// children are deleted before the node itself, siblings in checker order,
// strictly sequentially. With deleteRoot false only descendants are deleted
// and the root survives.
//
// Before anything is deleted the whole tree is validated: if any visited kind
// has no registered deleter (the root's kind is exempt when deleteRoot is
// false), Teardown returns a *MissingDeletersError naming every offending
// kind and performs zero deletions. A deleter failure aborts the remaining
// walk with a *DeletionError; already-deleted descendants stay deleted.
func (r *Registry) Teardown(ctx context.Context, root *Blocker, deleteRoot bool) error {
	missing := map[string]bool{}
	r.collectMissingDeleters(root, missing)
	if !deleteRoot {
		delete(missing, root.Kind)
	}
	if len(missing) > 0 {
		kinds := make([]string, 0, len(missing))
		for k := range missing {
			kinds = append(kinds, k)
		}
		sort.Strings(kinds)
		return &MissingDeletersError{Kinds: kinds}
	}

	if deleteRoot {
		return r.deleteTree(ctx, root)
	}
	for _, ch := range root.Children {
		if err := r.deleteTree(ctx, ch); err != nil {
			return err
		}
	}
	return nil
}

func (r *Registry) collectMissingDeleters(node *Blocker, missing map[string]bool) {
	if r.deleter(node.Kind) == nil {
		missing[node.Kind] = true
	}
	for _, ch := range node.Children {
		r.collectMissingDeleters(ch, missing)
	}
}

func (r *Registry) deleteTree(ctx context.Context, node *Blocker) error {
	for _, ch := range node.Children {
		if err := r.deleteTree(ctx, ch); err != nil {
			return err
		}
	}
	fn := r.deleter(node.Kind)
	if fn == nil {
		// Teardown validates up front; reaching this means the tree was
		// mutated between validation and execution.
		return &MissingDeletersError{Kinds: []string{node.Kind}}
	}
	if err := fn(ctx, node.ID); err != nil {
		return &DeletionError{Node: node, Err: err}
	}
	return nil
}

// PrintTree writes an indented rendering of the tree to w, one node per line.
func PrintTree(w io.Writer, root *Blocker) {
	printNode(w, root, 0)
}

func printNode(w io.Writer, node *Blocker, depth int) {
	var meta []string
	if node.Name != "" {
		meta = append(meta, "name="+node.Name)
	}
	if node.Reason != "" {
		meta = append(meta, "reason="+node.Reason)
	}
	extra := ""
	if len(meta) > 0 {
		extra = "  " + strings.Join(meta, "  ")
	}
	fmt.Fprintf(w, "%s- %s: %s%s\n", strings.Repeat("  ", depth), node.Kind, node.ID, extra)
	for _, ch := range node.Children {
		printNode(w, ch, depth+1)
	}
}
