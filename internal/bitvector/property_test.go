package bitvector

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mathefuchs/advanced-datastructures-st22/internal/core"
)

// oracle is a plain []bool reference used to check the dynamic bit vector
// against the properties of spec.md §8 (P1-P5) after random interleavings
// of the supported mutations.
type oracle struct {
	bits []bool
}

func (o *oracle) access(i uint64) bool { return o.bits[i] }

func (o *oracle) rankOne(i uint64) uint64 {
	var r uint64
	for j := uint64(0); j < i; j++ {
		if o.bits[j] {
			r++
		}
	}
	return r
}

func (o *oracle) selectOne(k uint64) uint64 {
	var seen uint64
	for i, b := range o.bits {
		if b {
			seen++
			if seen == k {
				return uint64(i)
			}
		}
	}
	panic("oracle.selectOne: rank out of range")
}

func (o *oracle) selectZero(k uint64) uint64 {
	var seen uint64
	for i, b := range o.bits {
		if !b {
			seen++
			if seen == k {
				return uint64(i)
			}
		}
	}
	panic("oracle.selectZero: rank out of range")
}

func (o *oracle) insert(i uint64, v bool) {
	o.bits = append(o.bits, false)
	copy(o.bits[i+1:], o.bits[i:])
	o.bits[i] = v
}

func (o *oracle) delete(i uint64) bool {
	v := o.bits[i]
	o.bits = append(o.bits[:i], o.bits[i+1:]...)
	return v
}

func (o *oracle) flip(i uint64) { o.bits[i] = !o.bits[i] }

// smallConfig exercises the small-leaf boundary conditions spec.md §9 calls
// for ("injecting small-leaf configurations").
func smallConfig() (core.LeafSizeConfig, core.ChunkConfig) {
	return core.LeafSizeConfig{BMin: 2, BInit: 4, BMax: 6}, core.DefaultChunkConfig()
}

func checkAgainstOracle(t *testing.T, bv *BitVector, o *oracle) {
	t.Helper()
	n := uint64(len(o.bits))
	require.Equal(t, n, bv.Len(), "P1/Invariant G: length mismatch")
	var ones uint64
	for i := uint64(0); i < n; i++ {
		require.Equal(t, o.access(i), bv.Access(i), "P1: access(%d) mismatch", i)
		if o.bits[i] {
			ones++
		}
	}
	require.Equal(t, ones, bv.NumOnes(), "Invariant G: popcount mismatch")
	for i := uint64(0); i <= n; i++ {
		require.Equal(t, o.rankOne(i), bv.RankOne(i), "P2: rank_one(%d) mismatch", i)
	}
	for k := uint64(1); k <= ones; k++ {
		require.Equal(t, o.selectOne(k), bv.SelectOne(k), "P3: select_one(%d) mismatch", k)
	}
	zeros := n - ones
	for k := uint64(1); k <= zeros; k++ {
		require.Equal(t, o.selectZero(k), bv.SelectZero(k), "P3: select_zero(%d) mismatch", k)
	}
}

func TestPropertyRandomMutations(t *testing.T) {
	leafCfg, chunkCfg := smallConfig()
	bv := NewWithConfig(leafCfg, chunkCfg)
	o := &oracle{}

	rng := rand.New(rand.NewSource(42))
	const ops = 4000
	for step := 0; step < ops; step++ {
		n := uint64(len(o.bits))
		switch {
		case n == 0 || rng.Intn(3) == 0:
			i := uint64(0)
			if n > 0 {
				i = uint64(rng.Intn(int(n) + 1))
			}
			v := rng.Intn(2) == 1
			bv.Insert(i, v)
			o.insert(i, v)
		case rng.Intn(4) == 0:
			i := uint64(rng.Intn(int(n)))
			bv.Delete(i)
			o.delete(i)
		case rng.Intn(3) == 0:
			i := uint64(rng.Intn(int(n)))
			bv.Flip(i)
			o.flip(i)
		default:
			i := uint64(rng.Intn(int(n)))
			v := rng.Intn(2) == 1
			bv.SetBit(i, v)
			o.bits[i] = v
		}
		if step%97 == 0 {
			checkAgainstOracle(t, bv, o)
		}
	}
	checkAgainstOracle(t, bv, o)
}

// TestP4InsertThenDelete is spec.md §8 P4: insert(i, b); delete(i) restores
// the prior state exactly.
func TestP4InsertThenDelete(t *testing.T) {
	leafCfg, chunkCfg := smallConfig()
	bv := NewWithConfig(leafCfg, chunkCfg)
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 50; i++ {
		bv.PushBack(rng.Intn(2) == 1)
	}
	before := make([]bool, bv.Len())
	for i := range before {
		before[i] = bv.Access(uint64(i))
	}

	pos := uint64(13)
	bv.Insert(pos, true)
	bv.Delete(pos)

	require.Equal(t, uint64(len(before)), bv.Len())
	for i, b := range before {
		require.Equal(t, b, bv.Access(uint64(i)))
	}
}

// TestP5DoubleFlip is spec.md §8 P5: flip(i); flip(i) is a no-op.
func TestP5DoubleFlip(t *testing.T) {
	bv := New()
	for i := 0; i < 10; i++ {
		bv.PushBack(i%2 == 0)
	}
	before := make([]bool, bv.Len())
	for i := range before {
		before[i] = bv.Access(uint64(i))
	}
	bv.Flip(4)
	bv.Flip(4)
	for i, b := range before {
		require.Equal(t, b, bv.Access(uint64(i)))
	}
}

// TestScenarioS1BVBasic is spec.md §8 Scenario S1.
func TestScenarioS1BVBasic(t *testing.T) {
	bv := NewFromBits([]bool{true, false, true, true, false})

	require.Equal(t, uint64(3), bv.RankOne(5))
	require.Equal(t, uint64(1), bv.RankZero(4))
	require.Equal(t, uint64(2), bv.SelectOne(2))

	bv.Insert(2, false)
	bv.Flip(0)
	bv.Delete(4)

	require.Equal(t, uint64(2), bv.SelectZero(3))
}

// TestScenarioS2BVSplitting is spec.md §8 Scenario S2, which specifies
// B_min=8, B_init=16, B_max=32 at W=16. This repository fixes W=64
// (spec.md §9's "implementer may choose a single fixed configuration"
// allowance), so the leaf block counts are scaled down by 4x to preserve
// the scenario's bit capacities (B_max*W = 32*16 = 512 bits either way),
// which is what actually forces the split the scenario exercises.
func TestScenarioS2BVSplitting(t *testing.T) {
	leafCfg := core.LeafSizeConfig{BMin: 2, BInit: 4, BMax: 8}
	chunkCfg := core.DefaultChunkConfig()
	bv := NewWithConfig(leafCfg, chunkCfg)

	for i := 0; i < 1200; i++ {
		bv.PushBack(i%3 == 1)
	}

	require.Equal(t, uint64(1200), bv.Len())
	require.Equal(t, uint64(400), bv.NumOnes())
	require.Equal(t, uint64(200), bv.RankOne(600))
	require.False(t, bv.tree.IsSingleLeaf(), "S2: 1200 bits at B_max=8 blocks (512 bits) must have split into multiple leaves")
}
