// Package tree implements the in-memory concurrent folder tree: a
// path-walk-with-lock-coupling protocol and the four public operations
// List/Create/Remove/Move built on top of the per-node synchronizer in
// package node.
package tree

import (
	"sort"
	"strings"

	"github.com/mielnikk/foldertree/fspath"
	"github.com/mielnikk/foldertree/internal/ftreelog"
	"github.com/mielnikk/foldertree/internal/metrics"
	"github.com/mielnikk/foldertree/lib/childmap"
	"github.com/mielnikk/foldertree/node"
)

// treeNode is a single folder: its synchronizer and its children. It
// carries no name or parent pointer - a node is anonymous, reachable only
// through whichever parent's children map currently holds it. This follows
// the later revision of original_source/Node.h over the earlier
// original_source/Tree.c (which stored name/parent on the node): move is
// simpler to reason about when a re-parented node needs no backlink
// update (see DESIGN.md).
type treeNode struct {
	sync     *node.Node
	children *childmap.Map[*treeNode]
}

func newTreeNode() *treeNode {
	return &treeNode{sync: node.New(), children: childmap.New[*treeNode]()}
}

// Tree owns a single root node, which always exists and is never created
// or removed directly.
type Tree struct {
	root *treeNode
}

// New returns a Tree containing only the root folder "/".
func New() *Tree {
	return &Tree{root: newTreeNode()}
}

// descendToRead walks from the root down components, hand-over-hand read
// locking, and returns the terminal node still read-locked.
func (t *Tree) descendToRead(components []string) (*treeNode, error) {
	t.root.sync.AcquireRead()
	cursor := t.root
	for _, comp := range components {
		next, ok := cursor.children.Get(comp)
		if !ok {
			cursor.sync.ReleaseRead()
			return nil, ErrNotExist
		}
		next.sync.AcquireRead()
		cursor.sync.ReleaseRead()
		cursor = next
	}
	return cursor, nil
}

// descendToModify walks from start down components, hand-over-hand
// locking (read while passing through, write on the terminal node), and
// returns the terminal node write-locked with every intermediate lock
// released. If alreadyLocked is true the caller already holds start
// write-locked and descendToModify must not acquire or release that lock
// itself.
func (t *Tree) descendToModify(start *treeNode, components []string, alreadyLocked bool) (*treeNode, error) {
	if len(components) == 0 {
		if !alreadyLocked {
			start.sync.AcquireWrite()
		}
		return start, nil
	}

	if !alreadyLocked {
		start.sync.AcquireRead()
	}

	cursor := start
	// cursorOwnedByCaller is true only while cursor is still start and
	// start's lock belongs to the caller (already_locked), in which case
	// this function must never release it.
	cursorOwnedByCaller := alreadyLocked

	for i, comp := range components {
		next, ok := cursor.children.Get(comp)
		if !ok {
			if !cursorOwnedByCaller {
				cursor.sync.ReleaseRead()
			}
			return nil, ErrNotExist
		}

		if i == len(components)-1 {
			next.sync.AcquireWrite()
		} else {
			next.sync.AcquireRead()
		}

		if !cursorOwnedByCaller {
			cursor.sync.ReleaseRead()
		}
		cursor = next
		cursorOwnedByCaller = false
	}
	return cursor, nil
}

// List returns a comma-separated, order-unspecified listing of the
// immediate children of path.
func (t *Tree) List(path string) (string, error) {
	if !fspath.Valid(path) {
		metrics.ObserveOperation("list", "einval")
		return "", ErrInvalidPath
	}

	target, err := t.descendToRead(fspath.Split(path))
	if err != nil {
		metrics.ObserveOperation("list", "enoent")
		return "", err
	}

	names := target.children.Names()
	sort.Strings(names)
	target.sync.ReleaseRead()

	metrics.ObserveOperation("list", "ok")
	return strings.Join(names, ","), nil
}

// Create inserts a new, empty folder at path.
func (t *Tree) Create(path string) error {
	if !fspath.Valid(path) {
		metrics.ObserveOperation("create", "einval")
		return ErrInvalidPath
	}

	parentPath, name, ok := fspath.Parent(path)
	if !ok {
		// path is the root.
		metrics.ObserveOperation("create", "eexist")
		return ErrExists
	}

	parent, err := t.descendToModify(t.root, fspath.Split(parentPath), false)
	if err != nil {
		metrics.ObserveOperation("create", "enoent")
		return err
	}

	if _, exists := parent.children.Get(name); exists {
		parent.sync.ReleaseWrite()
		metrics.ObserveOperation("create", "eexist")
		return ErrExists
	}

	parent.children.Insert(name, newTreeNode())
	parent.sync.ReleaseWrite()

	ftreelog.Debugf(path, "created")
	metrics.ObserveOperation("create", "ok")
	return nil
}

// Remove deletes the empty folder at path.
func (t *Tree) Remove(path string) error {
	if path == fspath.Root {
		metrics.ObserveOperation("remove", "ebusy")
		return ErrBusy
	}
	if !fspath.Valid(path) {
		metrics.ObserveOperation("remove", "einval")
		return ErrInvalidPath
	}

	parentPath, name, _ := fspath.Parent(path)

	parent, err := t.descendToModify(t.root, fspath.Split(parentPath), false)
	if err != nil {
		metrics.ObserveOperation("remove", "enoent")
		return err
	}

	target, ok := parent.children.Get(name)
	if !ok {
		parent.sync.ReleaseWrite()
		metrics.ObserveOperation("remove", "enoent")
		return ErrNotExist
	}
	if target.children.Len() > 0 {
		parent.sync.ReleaseWrite()
		metrics.ObserveOperation("remove", "enotempty")
		return ErrNotEmpty
	}

	// Drains any reader/writer that reached target just before we locked
	// parent; bounded and finite because parent's write lock now prevents
	// any new arrival at target.
	target.sync.AcquireMove()

	parent.children.Remove(name)
	parent.sync.ReleaseWrite()

	ftreelog.Debugf(path, "removed")
	metrics.ObserveOperation("remove", "ok")
	return nil
}
