package session

import (
	"bytes"
	"testing"

	"ensoniqfs/directory"
	"ensoniqfs/formatter"
	"ensoniqfs/placement"
	"ensoniqfs/storage"
)

func freshSession(t *testing.T) *Session {
	t.Helper()
	backend := storage.NewMemoryBackend(formatter.PresetEPS.TotalBlocks())

	var label [7]byte
	copy(label[:], "DRUMKIT")
	opts := formatter.Options{Preset: formatter.PresetEPS, DeviceType: formatter.DeviceTypeEPS, Label: label}
	if err := formatter.Format(backend, opts); err != nil {
		t.Fatalf("Format: %v", err)
	}

	sess, err := Open(backend, SubstrateFile)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return sess
}

func TestInsertThenEraseRestoresFreeBlocks(t *testing.T) {
	sess := freshSession(t)
	startFree := sess.FreeBlocks()

	root := []directory.Frame{{Dir: sess.Root, ParentIdx: -1}}
	data := bytes.Repeat([]byte{0x11}, 3*512)

	res, err := sess.Insert(root, 1, data, 3, placement.Meta{Name: "KIT1", Type: directory.TypeInstrument})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if sess.FreeBlocks() != startFree-3 {
		t.Errorf("FreeBlocks after insert = %d, want %d", sess.FreeBlocks(), startFree-3)
	}

	if _, err := sess.Erase(root, res.Slot); err != nil {
		t.Fatalf("Erase: %v", err)
	}
	if sess.FreeBlocks() != startFree {
		t.Errorf("FreeBlocks after erase = %d, want %d (back to start)", sess.FreeBlocks(), startFree)
	}
	if !sess.Root.Entries[res.Slot].Empty() {
		t.Errorf("slot %d should be empty after erase", res.Slot)
	}
}

func TestMkdirThenChildInsertUpdatesParentChildCount(t *testing.T) {
	sess := freshSession(t)
	root := []directory.Frame{{Dir: sess.Root, ParentIdx: -1}}

	slot, err := sess.Mkdir(root, 1, "SUBDIR1")
	if err != nil {
		t.Fatalf("Mkdir: %v", err)
	}
	if sess.Root.Entries[slot].Size != 0 {
		t.Errorf("fresh sub-directory child count = %d, want 0", sess.Root.Entries[slot].Size)
	}

	frames, err := directory.Resolve(sess.Backend, sess.AT, sess.Root, []int{slot})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	data := bytes.Repeat([]byte{0x22}, 2*512)
	if _, err := sess.Insert(frames, 1, data, 2, placement.Meta{Name: "SND1", Type: directory.TypeInstrument}); err != nil {
		t.Fatalf("Insert into sub-directory: %v", err)
	}

	reloadedRoot, err := directory.LoadRoot(sess.Backend)
	if err != nil {
		t.Fatalf("LoadRoot: %v", err)
	}
	if reloadedRoot.Entries[slot].Size != 1 {
		t.Errorf("parent child count after one insert = %d, want 1", reloadedRoot.Entries[slot].Size)
	}
}

func TestEraseNonEmptySubDirectoryFails(t *testing.T) {
	sess := freshSession(t)
	root := []directory.Frame{{Dir: sess.Root, ParentIdx: -1}}

	slot, err := sess.Mkdir(root, 1, "SUBDIR1")
	if err != nil {
		t.Fatalf("Mkdir: %v", err)
	}

	frames, err := directory.Resolve(sess.Backend, sess.AT, sess.Root, []int{slot})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	data := bytes.Repeat([]byte{0x33}, 1*512)
	if _, err := sess.Insert(frames, 1, data, 1, placement.Meta{Name: "SND1", Type: directory.TypeInstrument}); err != nil {
		t.Fatalf("Insert into sub-directory: %v", err)
	}

	if _, err := sess.Erase(root, slot); err == nil {
		t.Fatal("Erase of a non-empty sub-directory succeeded, want an error")
	}
}
