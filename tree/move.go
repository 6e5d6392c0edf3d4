package tree

import (
	"github.com/mielnikk/foldertree/fspath"
	"github.com/mielnikk/foldertree/internal/ftreelog"
	"github.com/mielnikk/foldertree/internal/metrics"
)

// heldWrites tracks which nodes this call currently holds write-locked, so
// error paths can release exactly what was acquired, exactly once, even
// when two of lca/sourceParent/targetParent turn out to be the same node.
type heldWrites struct {
	nodes []*treeNode
}

func (h *heldWrites) add(n *treeNode) {
	for _, existing := range h.nodes {
		if existing == n {
			return
		}
	}
	h.nodes = append(h.nodes, n)
}

func (h *heldWrites) releaseAll() {
	for _, n := range h.nodes {
		n.sync.ReleaseWrite()
	}
	h.nodes = nil
}

// drainSubtree acquires move mode on n, then recursively on every
// descendant: because n is unreachable from any other concurrent descent
// once its parent is write-locked, the recursion terminates in finite time
// and leaves the entire subtree idle.
func drainSubtree(n *treeNode) {
	n.sync.AcquireMove()
	n.children.Each(func(_ string, child *treeNode) {
		drainSubtree(child)
	})
}

// Move relocates the subtree rooted at source to be a new child named per
// target's final component, under target's parent. It locks the longest
// common ancestor of source and target first to establish a total order
// between concurrent moves that touch overlapping subtrees, then resolves
// both parents from there, then drains and relocates the source subtree.
func (t *Tree) Move(source, target string) error {
	if !fspath.Valid(source) || !fspath.Valid(target) {
		metrics.ObserveOperation("move", "einval")
		return ErrInvalidPath
	}
	if source == fspath.Root {
		metrics.ObserveOperation("move", "ebusy")
		return ErrBusy
	}
	if target == source || fspath.HasPrefix(target, source) {
		metrics.ObserveOperation("move", "eissub")
		return ErrSubtree
	}

	sourceComponents := fspath.Split(source)
	targetComponents := fspath.Split(target)
	lcaComponents := fspath.Split(fspath.LCA(source, target))

	// Step 1-2: lock the LCA. Any concurrent move whose LCA is this node
	// or a descendant must wait; a move rooted elsewhere cannot touch this
	// subtree until we release.
	lca, err := t.descendToModify(t.root, lcaComponents, false)
	if err != nil {
		metrics.ObserveOperation("move", "enoent")
		return err
	}
	held := &heldWrites{}
	held.add(lca)

	// Step 3: resolve target's parent from the LCA.
	if len(targetComponents) == len(lcaComponents) {
		// target equals the LCA itself.
		held.releaseAll()
		metrics.ObserveOperation("move", "eexist")
		return ErrExists
	}
	targetSuffix := targetComponents[len(lcaComponents):]
	targetParentComponents := targetSuffix[:len(targetSuffix)-1]
	targetName := targetSuffix[len(targetSuffix)-1]

	targetParent, err := t.descendToModify(lca, targetParentComponents, true)
	if err != nil {
		held.releaseAll()
		metrics.ObserveOperation("move", "enoent")
		return err
	}
	held.add(targetParent)

	if _, exists := targetParent.children.Get(targetName); exists {
		held.releaseAll()
		metrics.ObserveOperation("move", "eexist")
		return ErrExists
	}

	// Step 4: resolve source's parent from the LCA.
	if len(sourceComponents) == len(lcaComponents) {
		// source reduces to the LCA itself: cannot move the LCA out from
		// under a lock it is currently held by.
		held.releaseAll()
		metrics.ObserveOperation("move", "ebusy")
		return ErrBusy
	}
	sourceSuffix := sourceComponents[len(lcaComponents):]
	sourceParentComponents := sourceSuffix[:len(sourceSuffix)-1]
	sourceName := sourceSuffix[len(sourceSuffix)-1]

	sourceParent, err := t.descendToModify(lca, sourceParentComponents, true)
	if err != nil {
		held.releaseAll()
		metrics.ObserveOperation("move", "enoent")
		return err
	}
	held.add(sourceParent)

	// Step 5: release the LCA now unless it is identical to either parent
	// already held (avoid double release).
	if lca != targetParent && lca != sourceParent {
		lca.sync.ReleaseWrite()
		held.nodes = removeNode(held.nodes, lca)
	}

	// Step 6: look up the source node itself.
	sourceNode, ok := sourceParent.children.Get(sourceName)
	if !ok {
		held.releaseAll()
		metrics.ObserveOperation("move", "enoent")
		return ErrNotExist
	}

	// Step 7: drain the source subtree so nothing is mid-access when it is
	// detached.
	drainSubtree(sourceNode)

	// Step 8: atomically (under both parent write locks) relocate.
	sourceParent.children.Remove(sourceName)
	targetParent.children.Insert(targetName, sourceNode)

	// Step 9: release target_parent, then source_parent if distinct. The
	// moved node has no observable lock state to other threads: it was
	// drained in step 7 and is reachable only via its new parent now.
	targetParent.sync.ReleaseWrite()
	if sourceParent != targetParent {
		sourceParent.sync.ReleaseWrite()
	}

	ftreelog.Debugf(source, "moved to %s", target)
	metrics.ObserveOperation("move", "ok")
	return nil
}

func removeNode(nodes []*treeNode, n *treeNode) []*treeNode {
	out := nodes[:0]
	for _, existing := range nodes {
		if existing != n {
			out = append(out, existing)
		}
	}
	return out
}
