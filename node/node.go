// Package node implements the per-node readers/writers/mover synchronizer
// that coordinates access to a single folder tree node. Each Node supports
// three access modes:
//
//	Read  - compatible with other readers; for inspecting a node's children.
//	Write - exclusive; for mutating a node's children.
//	Move  - exclusive, and additionally waits until no reader or writer is
//	        active or waiting, so the caller can be sure nothing is still
//	        in flight against the node before detaching or destroying it.
//
// A single mutex protects each node's counters and its relay token
// (change); three condition variables let each class of waiter wake
// without thundering the others. The relay token exists to defeat the
// "stolen wakeup" race inherent to a plain two-condvar readers/writers
// lock: a classic implementation can signal a specific waiter and still
// lose its slot to a new arrival that sneaks in before the signalled
// goroutine reacquires the mutex. change records which class of waiter (if
// any) has been handed the baton and is entitled to enter next:
//
//	change == 0           no baton in flight
//	change == writeToken  a writer has been signalled and owns entry next
//	change == k, k > 0    k readers have been signalled and collectively
//	                      own entry next; each consumes one slot and
//	                      re-signals cv_read if any remain
//
// This is ported directly from the relay-token algorithm (see DESIGN.md),
// condvar for condvar, generalized from two access modes to three.
package node

import (
	"sync"

	"github.com/google/uuid"

	"github.com/mielnikk/foldertree/internal/ftreelog"
	"github.com/mielnikk/foldertree/internal/metrics"
)

// writeToken is the sentinel value of change indicating a writer has been
// signalled and is entitled to enter next.
const writeToken = -1

// Node is a per-folder synchronization object. The zero value is not
// usable; use New. A Node carries no application data - callers embed it
// alongside whatever children container they use.
type Node struct {
	id string

	mu      sync.Mutex
	cvRead  *sync.Cond
	cvWrite *sync.Cond
	cvMove  *sync.Cond

	readersActive  int
	writersActive  int
	readersWaiting int
	writersWaiting int
	change         int
}

// New returns a freshly initialized Node, idle in all three modes.
func New() *Node {
	n := &Node{id: uuid.New().String()[:8]}
	n.cvRead = sync.NewCond(&n.mu)
	n.cvWrite = sync.NewCond(&n.mu)
	n.cvMove = sync.NewCond(&n.mu)
	return n
}

// ID returns a short, process-local identifier used only for log
// correlation; it plays no role in synchronization or identity (a Node's
// identity is its pointer).
func (n *Node) ID() string {
	return n.id
}

// AcquireRead blocks until the caller may access the node's children for
// reading, then returns.
func (n *Node) AcquireRead() {
	n.mu.Lock()
	n.readersWaiting++
	waited := false
	for n.writersActive+n.writersWaiting > 0 && n.change <= 0 {
		waited = true
		n.cvRead.Wait()
	}
	n.readersWaiting--

	if n.change > 0 {
		n.change--
	}
	n.readersActive++
	if n.change > 0 {
		// Chain-relay: more readers in this batch remain entitled to enter.
		n.cvRead.Signal()
	}
	n.mu.Unlock()

	metrics.ReadersActive.Inc()
	if waited {
		ftreelog.Debugf(n.id, "read access granted after waiting")
	}
}

// ReleaseRead releases a previously acquired read lock.
func (n *Node) ReleaseRead() {
	n.mu.Lock()
	n.readersActive--
	switch {
	case n.readersActive == 0 && n.writersWaiting > 0:
		n.change = writeToken
		n.cvWrite.Signal()
	case n.readersActive == 0 && n.writersWaiting == 0:
		n.cvMove.Signal()
	}
	n.mu.Unlock()

	metrics.ReadersActive.Dec()
}

// AcquireWrite blocks until the caller may access the node's children for
// writing, then returns.
func (n *Node) AcquireWrite() {
	n.mu.Lock()
	n.writersWaiting++
	waited := false
	for n.writersActive+n.readersActive > 0 && n.change != writeToken {
		waited = true
		n.cvWrite.Wait()
	}
	n.writersWaiting--

	n.change = 0
	n.writersActive++
	n.mu.Unlock()

	metrics.WritersActive.Inc()
	if waited {
		ftreelog.Debugf(n.id, "write access granted after waiting")
	}
}

// ReleaseWrite releases a previously acquired write lock. The next class
// dispatched is, in order, a signalled batch of waiting readers, then a
// waiting writer, then a parked mover - readers are preferred so a writer
// never starves a batch of readers that arrived while it ran.
func (n *Node) ReleaseWrite() {
	n.mu.Lock()
	n.writersActive--
	switch {
	case n.readersWaiting > 0:
		n.change = n.readersWaiting
		n.cvRead.Signal()
	case n.writersWaiting > 0:
		n.change = writeToken
		n.cvWrite.Signal()
	default:
		n.cvMove.Signal()
	}
	n.mu.Unlock()

	metrics.WritersActive.Dec()
}

// AcquireMove blocks until the node has no reader or writer active or
// waiting, then marks it idle. The caller is guaranteed that, from this
// point on, no other goroutine can begin a new access on the node -
// because a node is only reachable via its parent's children container,
// and the caller holds the parent write-locked while the node itself is
// unreachable from anywhere else.
//
// There is no ReleaseMove: a node drained into move mode is about to be
// destroyed or re-attached elsewhere, and by construction nothing can
// contend for it again before that happens (see DESIGN.md, "Open Question
// decisions"). Calling any Acquire* on a Node after AcquireMove has
// returned, without first making it reachable again under a new parent,
// is a programming error.
func (n *Node) AcquireMove() {
	n.mu.Lock()
	for n.readersActive+n.readersWaiting+n.writersActive+n.writersWaiting > 0 {
		n.cvMove.Wait()
	}
	n.change = 0
	n.mu.Unlock()

	ftreelog.Debugf(n.id, "drained for move/destroy")
}
