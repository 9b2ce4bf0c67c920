// Package bptree implements the dynamic balanced-parenthesis succinct
// ordinal tree of spec.md §4.4: parent, i-th child, subtree-size,
// node-deletion and node-insertion-with-adoption, all expressed as
// forward_search/backward_search/insert/delete calls against an
// excess-augmented instance of the shared backbone
// (internal/core.Tree with excess tracking enabled).
package bptree

import "github.com/mathefuchs/advanced-datastructures-st22/internal/core"

const (
	left  = false // opening parenthesis
	right = true  // closing parenthesis
)

// BPTree is the public handle of spec.md §3 ("BPTree"): it owns a single
// ExcessTree initialised with the two-bit sequence [LEFT, RIGHT]
// representing one root node. A node v is identified by the 0-based
// position of its opening parenthesis (spec.md §4.4).
type BPTree struct {
	tree *core.Tree
}

// New returns a BPTree containing a single root node: "()".
func New() *BPTree {
	t := core.NewTree(core.DefaultLeafSizeConfig(), core.DefaultChunkConfig(), true)
	t.Insert(0, left)
	t.Insert(1, right)
	return &BPTree{tree: t}
}

// NewWithConfig is New with explicit leaf/chunk sizing, for tests
// exercising small-leaf boundary conditions.
func NewWithConfig(leafCfg core.LeafSizeConfig, chunkCfg core.ChunkConfig) *BPTree {
	t := core.NewTree(leafCfg, chunkCfg, true)
	t.Insert(0, left)
	t.Insert(1, right)
	return &BPTree{tree: t}
}

// Len returns the length of the underlying bit sequence (2 * node count).
func (bp *BPTree) Len() uint64 { return bp.tree.Len() }

// matchingClose returns the position of v's matching closing parenthesis.
func (bp *BPTree) matchingClose(v uint64) uint64 {
	q, ok := bp.tree.ForwardSearch(v, 0)
	if !ok {
		panic("bptree: unmatched opening parenthesis, invariant H violated")
	}
	return q
}

// Parent returns the position of v's parent's opening parenthesis
// (spec.md §4.4: backward_search(v, -2)). For v == 0 (the root) the
// contract is implementation-defined; this returns 0.
func (bp *BPTree) Parent(v uint64) uint64 {
	if v == 0 {
		return 0
	}
	p, ok := bp.tree.BackwardSearch(v, -2)
	if !ok {
		return 0
	}
	return p
}

// childStart returns the start position c_i of the i-th (1-based) existing
// child of v, by the recurrence c_1 = v+1, c_{j+1} = forward_search(c_j, 0)+1.
func (bp *BPTree) childStart(v uint64, i uint64) uint64 {
	c := v + 1
	for j := uint64(1); j < i; j++ {
		c = bp.matchingClose(c) + 1
	}
	return c
}

// IthChild returns the position of the i-th (1-based) child of v.
// Precondition: v has at least i children.
func (bp *BPTree) IthChild(v uint64, i uint64) uint64 {
	return bp.childStart(v, i)
}

// NumChildren counts v's direct children by walking childStart's recurrence
// until it reaches v's matching close.
func (bp *BPTree) NumChildren(v uint64) uint64 {
	q := bp.matchingClose(v)
	var n uint64
	c := v + 1
	for c != q {
		c = bp.matchingClose(c) + 1
		n++
	}
	return n
}

// SubtreeSize returns the number of nodes in the subtree rooted at v,
// spec.md §4.4: (q - v + 1) / 2.
func (bp *BPTree) SubtreeSize(v uint64) uint64 {
	q := bp.matchingClose(v)
	return (q - v + 1) / 2
}

// DeleteNode removes node v, whose children become direct children of v's
// old parent (spec.md §4.4). Precondition: v != 0 (cannot delete the root).
func (bp *BPTree) DeleteNode(v uint64) {
	if v == 0 {
		panic("bptree: cannot delete the root node")
	}
	q := bp.matchingClose(v)
	bp.tree.Delete(q)
	bp.tree.Delete(v)
}

// InsertNode inserts a new child under v at (1-based) position i, adopting
// the next k existing children starting from i (spec.md §4.4). If i exceeds
// the current child count, the new node is appended as the last child
// (k must be 0 in that case). If k == 0, an empty node "()" is inserted
// adjacent at the insertion point.
func (bp *BPTree) InsertNode(v uint64, i uint64, k uint64) {
	nc := bp.NumChildren(v)

	var a uint64
	if i > nc {
		a = bp.matchingClose(v)
	} else {
		a = bp.childStart(v, i)
	}

	var b uint64
	hasB := k > 0
	if hasB {
		lastAdopted := bp.childStart(v, i+k-1)
		b = bp.matchingClose(lastAdopted)
	}

	if hasB {
		bp.tree.Insert(b+1, right)
	} else {
		bp.tree.Insert(a, right)
	}
	bp.tree.Insert(a, left)
}

// PreOrderChildCounts streams, in pre-order, the number of direct children
// of every node (spec.md §4.4 "Pre-order traversal output"): a stack of
// open nodes' running child counts, incremented on LEFT, emitted on RIGHT.
func (bp *BPTree) PreOrderChildCounts() []uint64 {
	n := bp.tree.Len()
	var stack []uint64
	var out []uint64
	for p := uint64(0); p < n; p++ {
		if bp.tree.Access(p) == left {
			if len(stack) > 0 {
				stack[len(stack)-1]++
			}
			stack = append(stack, 0)
		} else {
			count := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			out = append(out, count)
		}
	}
	return out
}

// SpaceBits accounts for the bits held by the structure (spec.md §6.5
// "space=<bits>").
func (bp *BPTree) SpaceBits() uint64 { return bp.tree.SpaceBits() }
