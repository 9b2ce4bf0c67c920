package core

import "fmt"

// debugString renders the backbone as a parenthesized tree dump, one leaf's
// size/popcount/excess per container and the colour of every internal
// node. Grounded on original_source/.../dynamic_bitvector.hpp's
// get_tree_structure() debug dump (spec.md §6/SPEC_FULL.md §6
// "Supplemented features"); used only by tests asserting invariant D/P6/P7
// after rotations and splits, never by production code or the CLI.
func (t *Tree) debugString() string {
	return debugNode(t.root)
}

func debugNode(n *node) string {
	if n == nil {
		return "."
	}
	if n.isLeaf() {
		return fmt.Sprintf("leaf(size=%d,ones=%d,excess=%d)", n.leaf.Size(), n.leaf.PopCount(), n.leaf.Excess())
	}
	colour := "B"
	if n.color == Red {
		colour = "R"
	} else if n.color == DoubleBlack {
		colour = "BB"
	}
	return fmt.Sprintf("(%s %s %s)", colour, debugNode(n.left), debugNode(n.right))
}

// checkInvariants walks the whole backbone and returns an error describing
// the first violation found: a red node with a red child, unequal black-heights on
// the two root-to-leaf paths through any node, or a cached aggregate that
// disagrees with a fresh recompute from its children. Used only from
// tests, mirroring the teacher-style "debug assertion helper" invoked
// after mutating operations rather than shipped as a runtime check.
func (t *Tree) checkInvariants() error {
	if colorOf(t.root) == Red {
		return fmt.Errorf("root must be black")
	}
	_, err := checkNode(t.root)
	return err
}

func checkNode(n *node) (blackHeight int, err error) {
	if n == nil {
		return 1, nil
	}
	if n.isLeaf() {
		return 1, nil
	}
	if n.color == Red {
		if colorOf(n.left) == Red || colorOf(n.right) == Red {
			return 0, fmt.Errorf("red node has a red child")
		}
	}
	lh, err := checkNode(n.left)
	if err != nil {
		return 0, err
	}
	rh, err := checkNode(n.right)
	if err != nil {
		return 0, err
	}
	if lh != rh {
		return 0, fmt.Errorf("unequal black-heights: left=%d right=%d", lh, rh)
	}

	want := *n
	recomputeNode(&want)
	if want.numBitsLeft != n.numBitsLeft || want.onesInLeft != n.onesInLeft ||
		want.leftExcess != n.leftExcess || want.leftMinExcess != n.leftMinExcess ||
		want.totalBits != n.totalBits || want.totalOnes != n.totalOnes ||
		want.totalExcess != n.totalExcess || want.totalMinExcess != n.totalMinExcess ||
		want.totalSuffixMinExcess != n.totalSuffixMinExcess {
		return 0, fmt.Errorf("stale cached aggregate at node")
	}

	h := lh
	if n.color == Black {
		h++
	}
	return h, nil
}
