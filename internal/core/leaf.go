package core

// Leaf is a RawBitBlock store plus an optional ChunkIndex, the unit of
// storage at each external node of the backbone (spec.md §3 "Leaf",
// §4.1). Grounded on original_source/.../bv/simple_bitvector.hpp for the
// raw operations; the ChunkIndex wiring and forward/backward search are
// this repository's own composition per spec.md §4.1's bullet list.
type Leaf struct {
	raw        *RawBitBlock
	chunks     *ChunkIndex // nil unless this leaf belongs to an excess-enabled tree
	leafCfg    LeafSizeConfig
	chunkCfg   ChunkConfig
	hasExcess  bool
}

// NewLeaf creates an empty leaf. withExcess enables the ChunkIndex
// sidecar for BP-tree use.
func NewLeaf(leafCfg LeafSizeConfig, chunkCfg ChunkConfig, withExcess bool) *Leaf {
	l := &Leaf{
		raw:       NewRawBitBlock(),
		leafCfg:   leafCfg,
		chunkCfg:  chunkCfg,
		hasExcess: withExcess,
	}
	if withExcess {
		l.chunks = NewChunkIndex(chunkCfg, l.raw)
	}
	return l
}

// Size returns the leaf's bit length.
func (l *Leaf) Size() uint64 { return l.raw.Len() }

// Blocks returns the number of blocks currently backing the leaf.
func (l *Leaf) Blocks() int { return l.raw.Blocks() }

// PopCount returns the number of 1-bits in the leaf.
func (l *Leaf) PopCount() uint64 {
	if l.raw.Len() == 0 {
		return 0
	}
	return l.raw.RankOne(l.raw.Len())
}

// Excess returns the signed excess of the whole leaf (0 -> +1, 1 -> -1).
func (l *Leaf) Excess() int64 {
	if !l.hasExcess {
		return totalExcessFromPopcount(l)
	}
	return l.chunks.TotalExcess()
}

func totalExcessFromPopcount(l *Leaf) int64 {
	ones := int64(l.PopCount())
	zeros := int64(l.raw.Len()) - ones
	return zeros - ones
}

// MinPrefixExcess returns the minimum prefix excess within the leaf,
// relative to the leaf's own start. Requires hasExcess.
func (l *Leaf) MinPrefixExcess() int64 {
	if !l.hasExcess {
		panic("Leaf.MinPrefixExcess: excess tracking disabled for this leaf")
	}
	return l.chunks.MinPrefixExcess()
}

// MinSuffixExcess returns the minimum suffix excess within the leaf,
// relative to the leaf's own end. Requires hasExcess.
func (l *Leaf) MinSuffixExcess() int64 {
	if !l.hasExcess {
		panic("Leaf.MinSuffixExcess: excess tracking disabled for this leaf")
	}
	return l.chunks.MinSuffixExcess()
}

// Get, Set, Reset, Flip delegate to the raw block store and keep the
// chunk index consistent (Invariant B).
func (l *Leaf) Get(i uint64) bool { return l.raw.Get(i) }

func (l *Leaf) Set(i uint64, v bool) {
	l.raw.Set(i, v)
	if l.hasExcess {
		l.chunks.RebuildChunkContaining(l.raw, i)
	}
}

func (l *Leaf) Reset(i uint64) { l.Set(i, false) }

func (l *Leaf) Flip(i uint64) {
	l.raw.Flip(i)
	if l.hasExcess {
		l.chunks.RebuildChunkContaining(l.raw, i)
	}
}

// Insert grows the leaf by one bit at position i. Edge case: i == Size()
// appends.
func (l *Leaf) Insert(i uint64, v bool) {
	l.raw.Insert(i, v)
	if l.hasExcess {
		l.chunks.Rebuild(l.raw)
	}
}

// Delete shrinks the leaf by one bit at position i.
func (l *Leaf) Delete(i uint64) {
	l.raw.Delete(i)
	if l.hasExcess {
		l.chunks.Rebuild(l.raw)
	}
}

func (l *Leaf) RankOne(i uint64) uint64  { return l.raw.RankOne(i) }
func (l *Leaf) RankZero(i uint64) uint64 { return l.raw.RankZero(i) }
func (l *Leaf) SelectOne(k uint64) uint64 {
	return l.raw.SelectOne(k)
}
func (l *Leaf) SelectZero(k uint64) uint64 {
	return l.raw.SelectZero(k)
}

// NeedsSplit reports whether the leaf has grown past B_max.
func (l *Leaf) NeedsSplit() bool { return l.raw.Blocks() > l.leafCfg.BMax }

// Underflowed reports whether the leaf has shrunk below B_min.
func (l *Leaf) Underflowed() bool { return l.raw.Blocks() < l.leafCfg.BMin }

// CanDonate reports whether stealing a single bit would still leave the
// leaf at or above B_min blocks.
func (l *Leaf) CanDonate() bool { return l.raw.Blocks() > l.leafCfg.BMin }

// Split moves blocks from B_init onward into a freshly constructed Leaf,
// leaving this leaf at exactly B_init blocks rather than an even half
// (spec.md §3 Leaf: "initial split size is B_init"), chunk-aligning the
// split point when a ChunkIndex is present (precondition of spec.md §4.1's
// split bullet). Falls back to an even, chunk-aligned half when B_init
// isn't a valid interior split point for the leaf's current size.
func (l *Leaf) Split() *Leaf {
	nb := l.raw.Blocks()
	at := l.leafCfg.BInit
	if l.hasExcess {
		c := l.chunkCfg.BlocksPerChunk
		at = (at / c) * c
		if at == 0 {
			at = c
		}
	}
	if at <= 0 || at >= nb {
		at = nb / 2
		if l.hasExcess {
			c := l.chunkCfg.BlocksPerChunk
			at = (at / c) * c
			if at == 0 {
				at = c
			}
			if at >= nb {
				at = nb - c
			}
		}
		if at <= 0 || at >= nb {
			// Chunk size doesn't fit this leaf's current block count at
			// all (only possible with a chunk size close to B_max, never
			// the case with spec.md §9's defaults); fall back to an
			// unaligned midpoint rather than produce an empty half.
			at = nb / 2
			if at <= 0 {
				at = 1
			}
		}
	}
	movedRaw := l.raw.SplitOffBlocks(at)
	other := &Leaf{raw: movedRaw, leafCfg: l.leafCfg, chunkCfg: l.chunkCfg, hasExcess: l.hasExcess}
	if l.hasExcess {
		l.chunks.Rebuild(l.raw)
		other.chunks = NewChunkIndex(l.chunkCfg, other.raw)
	}
	return other
}

// CopyToBack appends other's contents to this leaf's tail, bulk-copying
// whole blocks when the tail is word-aligned and falling back to a
// bit-by-bit copy otherwise (the common case for a merge into an
// underflowed, not-necessarily-block-aligned receiver). Either way the
// ChunkIndex, if present, is rebuilt from scratch afterward.
func (l *Leaf) CopyToBack(other *Leaf) {
	if l.raw.Len()%blockBits == 0 {
		l.raw.AppendBlockAligned(other.raw)
	} else {
		l.raw.AppendBitByBit(other.raw)
	}
	if l.hasExcess {
		l.chunks.Rebuild(l.raw)
	}
}

// StealFront removes and returns the leaf's first bit, shifting the rest
// left. Used when donating to a left-of deficient leaf.
func (l *Leaf) StealFront() bool {
	v := l.Get(0)
	l.Delete(0)
	return v
}

// StealBack removes and returns the leaf's last bit. Used when donating to
// a right-of deficient leaf.
func (l *Leaf) StealBack() bool {
	v := l.Get(l.Size() - 1)
	l.Delete(l.Size() - 1)
	return v
}

// scanForward bit-scans [from, to) accumulating running excess starting at
// the caller's current total, returning as soon as it hits d.
func (l *Leaf) scanForward(from, to uint64, running, d int64) (position uint64, excess int64, found bool) {
	for p := from; p < to; p++ {
		running += excessOfBit(l.Get(p))
		if running == d {
			return p, running, true
		}
	}
	return 0, running, false
}

// ForwardSearch returns the smallest position p >= pos (within this leaf)
// such that the running excess from pos through p equals d, measured from
// 0 at pos (i.e. not counting pos's own bit until it is included). If no
// such position exists within the leaf, found is false and excessDelta is
// the total excess contributed by positions [pos, Size()).
//
// Implements spec.md §4.1's bullet algorithm: bit-scan to the end of pos's
// own chunk, then walk chunk summaries (skipping chunks whose
// min_prefix_excess can't reach d), then bit-scan the chunk that can.
func (l *Leaf) ForwardSearch(pos uint64, d int64) (position uint64, excessDelta int64, found bool) {
	if !l.hasExcess {
		panic("Leaf.ForwardSearch: excess tracking disabled for this leaf")
	}
	size := l.Size()
	if pos >= size {
		return 0, 0, false
	}

	blocksPerChunk := l.chunkCfg.BlocksPerChunk
	startChunk := blockOf(pos) / blocksPerChunk
	_, chunkEnd := l.chunks.ChunkBitRange(startChunk, size)

	p, runningTotal, ok := l.scanForward(pos, chunkEnd, 0, d)
	if ok {
		return p, runningTotal, true
	}

	for c := startChunk + 1; c < l.chunks.NumChunks(); c++ {
		if runningTotal+l.chunks.ChunkMinPrefixExcess(c) <= d {
			lo, hi := l.chunks.ChunkBitRange(c, size)
			if p, r, ok := l.scanForward(lo, hi, runningTotal, d); ok {
				return p, r, true
			}
			// The chunk summary guaranteed a hit; unreachable in a
			// consistent index, but fall through defensively.
		}
		runningTotal += l.chunks.ChunkBlockExcess(c)
	}
	return 0, runningTotal, false
}

// scanBackward bit-scans down from `from` to `downTo` (inclusive)
// accumulating running excess starting at the caller's current total,
// returning as soon as it hits d.
func (l *Leaf) scanBackward(from, downTo uint64, running, d int64) (position uint64, excess int64, found bool) {
	for p := from; ; p-- {
		running += backwardExcessOfBit(l.Get(p))
		if running == d {
			return p, running, true
		}
		if p == downTo {
			break
		}
	}
	return 0, running, false
}

func backwardExcessOfBit(bit bool) int64 {
	if bit {
		return 1
	}
	return -1
}

// BackwardSearch returns the largest position p <= pos (within this leaf)
// such that the running excess scanning backward from pos through p
// equals d. If no such position exists, found is false and excessDelta is
// the total excess contributed by positions [0, pos].
//
// Mirrors ForwardSearch: bit-scan back to the start of pos's own chunk,
// then walk preceding chunk summaries via min_suffix_excess, then
// bit-scan the chunk that can reach d.
func (l *Leaf) BackwardSearch(pos uint64, d int64) (position uint64, excessDelta int64, found bool) {
	if !l.hasExcess {
		panic("Leaf.BackwardSearch: excess tracking disabled for this leaf")
	}
	size := l.Size()

	blocksPerChunk := l.chunkCfg.BlocksPerChunk
	startChunk := blockOf(pos) / blocksPerChunk
	chunkStart, _ := l.chunks.ChunkBitRange(startChunk, size)

	p, runningTotal, ok := l.scanBackward(pos, chunkStart, 0, d)
	if ok {
		return p, runningTotal, true
	}

	for c := startChunk - 1; c >= 0; c-- {
		if runningTotal+l.chunks.ChunkMinSuffixExcess(c) <= d {
			lo, hi := l.chunks.ChunkBitRange(c, size)
			if p, r, ok := l.scanBackward(hi-1, lo, runningTotal, d); ok {
				return p, r, true
			}
			// The chunk summary guaranteed a hit; unreachable in a
			// consistent index, but fall through defensively.
		}
		runningTotal += l.chunks.ChunkBlockExcess(c)
	}
	return 0, runningTotal, false
}

// SpaceBits accounts for the bits occupied by this leaf's storage,
// grounded on the original's space_used_at_node.
func (l *Leaf) SpaceBits() uint64 {
	s := uint64(len(l.raw.Words())) * blockBits
	if l.chunks != nil {
		s += l.chunks.SpaceBits()
	}
	return s
}
