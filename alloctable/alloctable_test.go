package alloctable

import (
	"testing"

	"ensoniqfs/block"
	"ensoniqfs/storage"
)

func TestDirectGetPut(t *testing.T) {
	backend := storage.NewMemoryBackend(20)
	at := NewDirect(backend, 20)

	if err := at.Put(10, Entry(11)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := at.Put(11, End); err != nil {
		t.Fatalf("Put: %v", err)
	}

	e, err := at.Get(10)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if e.Next() != 11 {
		t.Errorf("entry 10 = %d, want next=11", e)
	}

	e, err = at.Get(11)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !e.IsEnd() {
		t.Errorf("entry 11 should be End")
	}

	e, err = at.Get(5)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !e.IsFree() {
		t.Errorf("untouched entry 5 should be Free")
	}
}

func TestCachedRoundTrip(t *testing.T) {
	total := uint32(200)
	backend := storage.NewMemoryBackend(block.ATBlockFirst + block.ATBlockCount(total))

	c := NewCachedEmpty(backend, total)
	if err := c.Put(0, End); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := c.Put(1, Entry(2)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := c.Put(2, End); err != nil {
		t.Fatalf("Put: %v", err)
	}
	osBuf := block.New()
	dirBuf := make([]byte, 2*block.Size)
	if err := c.Flush(osBuf, dirBuf); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	loaded, err := LoadCached(backend, total)
	if err != nil {
		t.Fatalf("LoadCached: %v", err)
	}

	e, err := loaded.Get(1)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if e.Next() != 2 {
		t.Errorf("entry 1 after reload = %d, want next=2", e)
	}
}

func TestWalkAndRuns(t *testing.T) {
	backend := storage.NewMemoryBackend(30)
	at := NewDirect(backend, 30)

	// chain: 5 -> 6 -> 7 -> 10 -> End (10 is non-adjacent to 7)
	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatalf("Put: %v", err)
		}
	}
	must(at.Put(5, Entry(6)))
	must(at.Put(6, Entry(7)))
	must(at.Put(7, Entry(10)))
	must(at.Put(10, End))

	chain, err := Walk(at, 5)
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	want := []uint32{5, 6, 7, 10}
	if len(chain) != len(want) {
		t.Fatalf("chain = %v, want %v", chain, want)
	}
	for i := range want {
		if chain[i] != want[i] {
			t.Fatalf("chain = %v, want %v", chain, want)
		}
	}

	runs := Runs(chain)
	if len(runs) != 2 {
		t.Fatalf("Runs() = %v, want 2 runs", runs)
	}
	if runs[0].Start != 5 || runs[0].Length != 3 {
		t.Errorf("first run = %+v, want start=5 length=3", runs[0])
	}
	if runs[1].Start != 10 || runs[1].Length != 1 {
		t.Errorf("second run = %+v, want start=10 length=1", runs[1])
	}
}

func TestWalkDetectsCorruptChain(t *testing.T) {
	backend := storage.NewMemoryBackend(10)
	at := NewDirect(backend, 10)

	// Block 3 is never linked, so its entry is still Free: walking from
	// it hits a free block immediately, which Walk reports as corrupt.
	if _, err := Walk(at, 3); err == nil {
		t.Fatalf("expected an error walking an unlinked free block")
	}
}

func TestCounts(t *testing.T) {
	backend := storage.NewMemoryBackend(10)
	at := NewDirect(backend, 10)
	if err := at.Put(0, End); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := at.Put(1, End); err != nil {
		t.Fatalf("Put: %v", err)
	}

	allocated, free, err := Counts(at)
	if err != nil {
		t.Fatalf("Counts: %v", err)
	}
	if allocated != 2 || free != 8 {
		t.Errorf("Counts() = (%d, %d), want (2, 8)", allocated, free)
	}
}
