package placement

import (
	"bytes"
	"testing"

	"ensoniqfs/alloctable"
	"ensoniqfs/block"
	"ensoniqfs/directory"
	"ensoniqfs/storage"
)

func newTestVolume(t *testing.T, totalBlocks uint32) (storage.Backend, alloctable.AT) {
	t.Helper()
	backend := storage.NewMemoryBackend(totalBlocks)
	at := alloctable.NewDirect(backend, totalBlocks)
	first := alloctable.FirstDataBlock(totalBlocks)
	for b := uint32(0); b < first; b++ {
		if err := at.Put(b, alloctable.End); err != nil {
			t.Fatalf("Put: %v", err)
		}
	}
	return backend, at
}

func TestInsertContiguous(t *testing.T) {
	backend, at := newTestVolume(t, 40)
	dir := &directory.Directory{}

	data := bytes.Repeat([]byte{0xAB}, 3*block.Size)
	res, newFree, err := Insert(backend, at, dir, 1, data, 3, 30, Meta{Name: "KIT1", Type: directory.TypeInstrument})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if res.ContiguousCount != 3 {
		t.Errorf("ContiguousCount = %d, want 3 (contiguous volume should need one run)", res.ContiguousCount)
	}
	if newFree != 27 {
		t.Errorf("newFree = %d, want 27", newFree)
	}
	if dir.Entries[1].Type != directory.TypeInstrument || dir.Entries[1].NameString() != "KIT1" {
		t.Errorf("directory entry = %+v, want type instrument name KIT1", dir.Entries[1])
	}

	chain, err := alloctable.Walk(at, res.Start)
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if len(chain) != 3 {
		t.Fatalf("chain length = %d, want 3", len(chain))
	}

	readBack := make([]byte, 3*block.Size)
	if err := backend.ReadBlocks(res.Start, 3, readBack); err != nil {
		t.Fatalf("ReadBlocks: %v", err)
	}
	if !bytes.Equal(readBack, data) {
		t.Errorf("data written does not match source")
	}
}

func TestInsertLengthMismatch(t *testing.T) {
	backend, at := newTestVolume(t, 40)
	dir := &directory.Directory{}

	data := make([]byte, block.Size) // declares 2 blocks but supplies 1
	if _, _, err := Insert(backend, at, dir, 1, data, 2, 30, Meta{Name: "X", Type: directory.TypeInstrument}); err == nil {
		t.Fatalf("expected FileLengthMismatch")
	}
}

func TestInsertInsufficientSpace(t *testing.T) {
	backend, at := newTestVolume(t, 40)
	dir := &directory.Directory{}

	data := make([]byte, 5*block.Size)
	if _, _, err := Insert(backend, at, dir, 1, data, 5, 2, Meta{Name: "X", Type: directory.TypeInstrument}); err == nil {
		t.Fatalf("expected InsufficientSpace")
	}
}

func TestInsertFragmented(t *testing.T) {
	backend, at := newTestVolume(t, 20)
	dir := &directory.Directory{}

	first := alloctable.FirstDataBlock(20)
	// Occupy every third block so the longest free run is 2 blocks,
	// forcing the fragmented allocation path for a 3-block request.
	for b := first; b < 20; b += 3 {
		if err := at.Put(b, alloctable.End); err != nil {
			t.Fatalf("Put: %v", err)
		}
	}

	data := bytes.Repeat([]byte{0xCD}, 3*block.Size)
	res, _, err := Insert(backend, at, dir, 1, data, 3, 10, Meta{Name: "FRAG", Type: directory.TypeInstrument})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if res.ContiguousCount >= 3 {
		t.Errorf("ContiguousCount = %d, want less than 3 for a fragmented allocation", res.ContiguousCount)
	}

	chain, err := alloctable.Walk(at, res.Start)
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if len(chain) != 3 {
		t.Fatalf("chain length = %d, want 3", len(chain))
	}
}

func TestEraseFreesChainAndSlot(t *testing.T) {
	backend, at := newTestVolume(t, 40)
	dir := &directory.Directory{}

	data := bytes.Repeat([]byte{0x11}, 2*block.Size)
	res, _, err := Insert(backend, at, dir, 1, data, 2, 30, Meta{Name: "ERS", Type: directory.TypeInstrument})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}

	erRes, err := Erase(at, dir, res.Slot)
	if err != nil {
		t.Fatalf("Erase: %v", err)
	}
	if erRes.BlocksFreed != 2 {
		t.Errorf("BlocksFreed = %d, want 2", erRes.BlocksFreed)
	}
	if !dir.Entries[res.Slot].Empty() {
		t.Errorf("slot %d should be empty after Erase", res.Slot)
	}

	e, err := at.Get(res.Start)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !e.IsFree() {
		t.Errorf("first block of erased chain should be Free")
	}
}

func TestEraseRejectsNonEmptySubDirectory(t *testing.T) {
	backend, at := newTestVolume(t, 10)
	dir := &directory.Directory{}
	dir.Entries[2] = directory.Entry{Type: directory.TypeSubDirectory, Size: 1, Start: 5}
	if err := at.Put(5, alloctable.End); err != nil {
		t.Fatalf("Put: %v", err)
	}

	if _, err := Erase(at, dir, 2); err == nil {
		t.Fatalf("expected an error erasing a non-empty sub-directory")
	}
}

func TestMkdirLinksParentPointer(t *testing.T) {
	backend, at := newTestVolume(t, 40)
	parent := &directory.Directory{}

	slot, err := Mkdir(backend, at, parent, block.DirectoryBlockFirst, 1, "KITS")
	if err != nil {
		t.Fatalf("Mkdir: %v", err)
	}
	entry := parent.Entries[slot]
	if entry.Type != directory.TypeSubDirectory || entry.NameString() != "KITS" {
		t.Fatalf("parent entry = %+v, want sub-directory named KITS", entry)
	}

	sub, err := directory.LoadSub(backend, at, entry.Start)
	if err != nil {
		t.Fatalf("LoadSub: %v", err)
	}
	if sub.Entries[0].Type != directory.TypeParentPtr || sub.Entries[0].Start != block.DirectoryBlockFirst {
		t.Fatalf("sub-directory parent pointer = %+v", sub.Entries[0])
	}
}
