// Package bitvector implements the dynamic indexed bit vector of spec.md
// §2.1-§2.4/§4.2: point access, update, flip, insert, delete, rank and
// select, all running in O(log n) worst case over an augmented red-black
// backbone (internal/core.Tree) with excess tracking disabled.
package bitvector

import "github.com/mathefuchs/advanced-datastructures-st22/internal/core"

// BitVector is the public handle described by spec.md §3 ("BitVector (root
// handle)"): it owns a core.Tree and exposes the dynamic bit-vector API.
// Grounded on original_source/.../bv/dynamic_bitvector.hpp's public surface.
type BitVector struct {
	tree *core.Tree
}

// New returns an empty bit vector using the default leaf/chunk sizing
// (spec.md §9's W=64/C=8/B=(16,32,64) defaults).
func New() *BitVector {
	return &BitVector{tree: core.NewTree(core.DefaultLeafSizeConfig(), core.DefaultChunkConfig(), false)}
}

// NewWithConfig returns an empty bit vector using the supplied leaf/chunk
// sizing, used by tests to exercise small-leaf boundary conditions (spec.md
// §9: "test boundary conditions by injecting small-leaf configurations").
func NewWithConfig(leafCfg core.LeafSizeConfig, chunkCfg core.ChunkConfig) *BitVector {
	return &BitVector{tree: core.NewTree(leafCfg, chunkCfg, false)}
}

// NewFromBits bulk-loads a bit vector from an existing sequence (spec.md §3
// Lifecycle: "bulk-loaded from a provided raw bit sequence").
func NewFromBits(bits []bool) *BitVector {
	return &BitVector{tree: core.NewTreeFromBits(bits, core.DefaultLeafSizeConfig(), core.DefaultChunkConfig(), false)}
}

// NewFromBitsWithConfig is NewFromBits with explicit leaf/chunk sizing.
func NewFromBitsWithConfig(bits []bool, leafCfg core.LeafSizeConfig, chunkCfg core.ChunkConfig) *BitVector {
	return &BitVector{tree: core.NewTreeFromBits(bits, leafCfg, chunkCfg, false)}
}

// Len returns the total number of bits N (spec.md §3 Invariant G).
func (bv *BitVector) Len() uint64 { return bv.tree.Len() }

// NumOnes returns the total number of 1-bits T (spec.md §3 Invariant G).
func (bv *BitVector) NumOnes() uint64 { return bv.tree.NumOnes() }

// Access returns the bit at position i. Precondition: 0 <= i < Len().
func (bv *BitVector) Access(i uint64) bool { return bv.tree.Access(i) }

// Set overwrites the bit at position i to true.
func (bv *BitVector) Set(i uint64) { bv.tree.SetBit(i, true) }

// Reset overwrites the bit at position i to false.
func (bv *BitVector) Reset(i uint64) { bv.tree.SetBit(i, false) }

// SetBit overwrites the bit at position i to v.
func (bv *BitVector) SetBit(i uint64, v bool) { bv.tree.SetBit(i, v) }

// Flip XORs the bit at position i.
func (bv *BitVector) Flip(i uint64) { bv.tree.FlipBit(i) }

// Insert grows the sequence by one bit at position i, shifting everything at
// or after i right by one. Precondition: 0 <= i <= Len().
func (bv *BitVector) Insert(i uint64, v bool) { bv.tree.Insert(i, v) }

// Delete removes the bit at position i, shifting everything after i left by
// one, and returns the removed value. Precondition: 0 <= i < Len().
func (bv *BitVector) Delete(i uint64) bool { return bv.tree.Delete(i) }

// PushBack appends v at the end of the sequence.
func (bv *BitVector) PushBack(v bool) { bv.tree.Insert(bv.tree.Len(), v) }

// PopBack removes and returns the final bit.
func (bv *BitVector) PopBack() bool { return bv.tree.Delete(bv.tree.Len() - 1) }

// RankOne returns the number of 1-bits in positions [0, i).
func (bv *BitVector) RankOne(i uint64) uint64 { return bv.tree.RankOne(i) }

// RankZero returns the number of 0-bits in positions [0, i).
func (bv *BitVector) RankZero(i uint64) uint64 { return bv.tree.RankZero(i) }

// Rank returns the number of bits equal to b in positions [0, i).
func (bv *BitVector) Rank(b bool, i uint64) uint64 {
	if b {
		return bv.RankOne(i)
	}
	return bv.RankZero(i)
}

// SelectOne returns the 0-based position of the k-th (1-based) 1-bit.
func (bv *BitVector) SelectOne(k uint64) uint64 { return bv.tree.SelectOne(k) }

// SelectZero returns the 0-based position of the k-th (1-based) 0-bit.
func (bv *BitVector) SelectZero(k uint64) uint64 { return bv.tree.SelectZero(k) }

// Select returns the 0-based position of the k-th (1-based) bit equal to b.
func (bv *BitVector) Select(b bool, k uint64) uint64 {
	if b {
		return bv.SelectOne(k)
	}
	return bv.SelectZero(k)
}

// SpaceBits accounts for the bits held by the structure (spec.md §6.5
// "space=<bits>"), grounded on the original's space_used_at_node walk.
func (bv *BitVector) SpaceBits() uint64 { return bv.tree.SpaceBits() }
