package core

// ChunkIndex is the optional excess sidecar attached to a Leaf's
// RawBitBlock, grounded on spec.md §3/§4.1. It partitions the leaf's
// blocks into fixed-size chunks of `BlocksPerChunk` blocks each and caches,
// per chunk, the signed excess (0 -> +1, 1 -> -1) summed over the chunk and
// the minimum running prefix excess within the chunk (relative to the
// chunk's own start). `num_occ_min_excess` (spec.md §9 Open Question 1) is
// intentionally omitted.
type ChunkIndex struct {
	cfg             ChunkConfig
	blockExcess     []int64
	minPrefixExcess []int64
	minSuffixExcess []int64
}

// NewChunkIndex builds a ChunkIndex for the given raw block store.
func NewChunkIndex(cfg ChunkConfig, raw *RawBitBlock) *ChunkIndex {
	ci := &ChunkIndex{cfg: cfg}
	ci.Rebuild(raw)
	return ci
}

func (ci *ChunkIndex) numChunks(raw *RawBitBlock) int {
	nb := raw.Blocks()
	c := ci.cfg.BlocksPerChunk
	if nb == 0 {
		return 0
	}
	return (nb + c - 1) / c
}

// Rebuild recomputes every chunk summary from scratch against raw. Called
// whenever a mutation could have touched more than one chunk (insert,
// delete, split, merge); single-bit set/flip use RebuildChunkContaining.
func (ci *ChunkIndex) Rebuild(raw *RawBitBlock) {
	n := ci.numChunks(raw)
	ci.blockExcess = make([]int64, n)
	ci.minPrefixExcess = make([]int64, n)
	ci.minSuffixExcess = make([]int64, n)
	for c := 0; c < n; c++ {
		ci.rebuildChunk(raw, c)
	}
}

func excessOfBit(bit bool) int64 {
	if bit {
		return -1
	}
	return 1
}

func (ci *ChunkIndex) chunkBitRange(raw *RawBitBlock, chunk int) (lo, hi uint64) {
	return ci.ChunkBitRange(chunk, raw.Len())
}

// ChunkBitRange returns the [lo, hi) bit range covered by chunk within a
// leaf of the given total size, letting callers (Leaf.ForwardSearch/
// BackwardSearch) localise a bit scan to a single chunk without going
// through a RawBitBlock.
func (ci *ChunkIndex) ChunkBitRange(chunk int, size uint64) (lo, hi uint64) {
	blocksPerChunk := uint64(ci.cfg.BlocksPerChunk)
	lo = uint64(chunk) * blocksPerChunk * blockBits
	hi = lo + blocksPerChunk*blockBits
	if hi > size {
		hi = size
	}
	return lo, hi
}

// NumChunks returns the number of chunk summaries currently indexed.
func (ci *ChunkIndex) NumChunks() int { return len(ci.blockExcess) }

// ChunkBlockExcess returns chunk c's total signed excess.
func (ci *ChunkIndex) ChunkBlockExcess(c int) int64 { return ci.blockExcess[c] }

// ChunkMinPrefixExcess returns chunk c's minimum running prefix excess,
// relative to the chunk's own start.
func (ci *ChunkIndex) ChunkMinPrefixExcess(c int) int64 { return ci.minPrefixExcess[c] }

// ChunkMinSuffixExcess returns chunk c's minimum running suffix excess,
// relative to the chunk's own end.
func (ci *ChunkIndex) ChunkMinSuffixExcess(c int) int64 { return ci.minSuffixExcess[c] }

func (ci *ChunkIndex) rebuildChunk(raw *RawBitBlock, chunk int) {
	lo, hi := ci.chunkBitRange(raw, chunk)
	var running, minPrefix int64
	minPrefix = excessInfinity
	for p := lo; p < hi; p++ {
		running += excessOfBit(raw.Get(p))
		if running < minPrefix {
			minPrefix = running
		}
	}
	if hi == lo {
		minPrefix = excessInfinity
	}
	ci.blockExcess[chunk] = running
	ci.minPrefixExcess[chunk] = minPrefix

	var runningSuf, minSuf int64
	minSuf = excessInfinity
	for p := hi; p > lo; p-- {
		runningSuf += excessOfBit(raw.Get(p - 1))
		if runningSuf < minSuf {
			minSuf = runningSuf
		}
	}
	if hi == lo {
		minSuf = excessInfinity
	}
	ci.minSuffixExcess[chunk] = minSuf
}

// RebuildChunkContaining recomputes only the chunk that covers bit
// position i, for the common single-bit set/flip case.
func (ci *ChunkIndex) RebuildChunkContaining(raw *RawBitBlock, i uint64) {
	chunk := blockOf(i) / ci.cfg.BlocksPerChunk
	if chunk >= len(ci.blockExcess) {
		ci.Rebuild(raw)
		return
	}
	ci.rebuildChunk(raw, chunk)
}

// TotalExcess sums block_excess over every chunk.
func (ci *ChunkIndex) TotalExcess() int64 {
	var s int64
	for _, e := range ci.blockExcess {
		s += e
	}
	return s
}

// MinPrefixExcess returns the minimum prefix excess across the whole
// indexed range, relative to position 0.
func (ci *ChunkIndex) MinPrefixExcess() int64 {
	if len(ci.blockExcess) == 0 {
		return excessInfinity
	}
	running := int64(0)
	best := excessInfinity
	for c := range ci.blockExcess {
		cand := running + ci.minPrefixExcess[c]
		if cand < best {
			best = cand
		}
		running += ci.blockExcess[c]
	}
	return best
}

// MinSuffixExcess returns the minimum suffix excess across the whole
// indexed range, relative to the range's end.
func (ci *ChunkIndex) MinSuffixExcess() int64 {
	n := len(ci.blockExcess)
	if n == 0 {
		return excessInfinity
	}
	running := int64(0)
	best := excessInfinity
	for c := n - 1; c >= 0; c-- {
		cand := running + ci.minSuffixExcess[c]
		if cand < best {
			best = cand
		}
		running += ci.blockExcess[c]
	}
	return best
}

// SpaceBits accounts for the bits occupied by this sidecar's arrays,
// grounded on the original's space_used_at_node.
func (ci *ChunkIndex) SpaceBits() uint64 {
	perChunk := uint64(64 * 3) // blockExcess + minPrefixExcess + minSuffixExcess, int64 each
	return uint64(len(ci.blockExcess)) * perChunk
}
