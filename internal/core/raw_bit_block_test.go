package core

import (
	"math/rand"
	"testing"
)

func TestRawBitBlockInsertDeleteAgainstOracle(t *testing.T) {
	b := NewRawBitBlock()
	var oracle []bool

	rng := rand.New(rand.NewSource(1))
	for step := 0; step < 3000; step++ {
		n := uint64(len(oracle))
		if n == 0 || rng.Intn(2) == 0 {
			i := uint64(0)
			if n > 0 {
				i = uint64(rng.Intn(int(n) + 1))
			}
			v := rng.Intn(2) == 1
			b.Insert(i, v)
			oracle = append(oracle, false)
			copy(oracle[i+1:], oracle[i:])
			oracle[i] = v
		} else {
			i := uint64(rng.Intn(int(n)))
			b.Delete(i)
			oracle = append(oracle[:i], oracle[i+1:]...)
		}

		if b.Len() != uint64(len(oracle)) {
			t.Fatalf("step %d: length mismatch: got %d want %d", step, b.Len(), len(oracle))
		}
		for i, want := range oracle {
			if got := b.Get(uint64(i)); got != want {
				t.Fatalf("step %d: bit %d mismatch: got %v want %v", step, i, got, want)
			}
		}
	}
}

func TestRawBitBlockRankSelect(t *testing.T) {
	b := NewRawBitBlock()
	bits := []bool{true, false, true, true, false, false, true}
	for i, v := range bits {
		b.Insert(uint64(i), v)
	}

	if got := b.RankOne(7); got != 4 {
		t.Errorf("RankOne(7) = %d, want 4", got)
	}
	if got := b.RankZero(7); got != 3 {
		t.Errorf("RankZero(7) = %d, want 3", got)
	}
	if got := b.SelectOne(1); got != 0 {
		t.Errorf("SelectOne(1) = %d, want 0", got)
	}
	if got := b.SelectOne(3); got != 3 {
		t.Errorf("SelectOne(3) = %d, want 3", got)
	}
	if got := b.SelectZero(2); got != 4 {
		t.Errorf("SelectZero(2) = %d, want 4", got)
	}
}

func TestRawBitBlockInsertAppendFastPath(t *testing.T) {
	b := NewRawBitBlock()
	for i := 0; i < 130; i++ {
		b.Insert(b.Len(), i%2 == 0)
	}
	if b.Len() != 130 {
		t.Fatalf("Len() = %d, want 130", b.Len())
	}
	for i := 0; i < 130; i++ {
		if got := b.Get(uint64(i)); got != (i%2 == 0) {
			t.Fatalf("bit %d mismatch: got %v", i, got)
		}
	}
}

func TestRawBitBlockSplitOffBlocks(t *testing.T) {
	b := NewRawBitBlock()
	for i := 0; i < 192; i++ { // 3 blocks of 64
		b.Insert(b.Len(), i%7 == 0)
	}
	moved := b.SplitOffBlocks(2)
	if b.Blocks() != 2 || b.Len() != 128 {
		t.Fatalf("receiver after split: blocks=%d len=%d", b.Blocks(), b.Len())
	}
	if moved.Blocks() != 1 || moved.Len() != 64 {
		t.Fatalf("moved after split: blocks=%d len=%d", moved.Blocks(), moved.Len())
	}
	for i := 0; i < 128; i++ {
		want := i%7 == 0
		if got := b.Get(uint64(i)); got != want {
			t.Fatalf("receiver bit %d: got %v want %v", i, got, want)
		}
	}
	for i := 0; i < 64; i++ {
		want := (i+128)%7 == 0
		if got := moved.Get(uint64(i)); got != want {
			t.Fatalf("moved bit %d: got %v want %v", i, got, want)
		}
	}
}
