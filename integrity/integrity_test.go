package integrity

import (
	"testing"

	"ensoniqfs/alloctable"
	"ensoniqfs/block"
	"ensoniqfs/directory"
	"ensoniqfs/formatter"
	"ensoniqfs/storage"
)

func freshVolume(t *testing.T) (storage.Backend, alloctable.AT) {
	t.Helper()
	backend := storage.NewMemoryBackend(formatter.PresetEPS.TotalBlocks())

	var label [7]byte
	copy(label[:], "DRUMKIT")
	opts := formatter.Options{Preset: formatter.PresetEPS, DeviceType: formatter.DeviceTypeEPS, Label: label}
	if err := formatter.Format(backend, opts); err != nil {
		t.Fatalf("Format: %v", err)
	}

	at := alloctable.NewDirect(backend, formatter.PresetEPS.TotalBlocks())
	return backend, at
}

func TestCheckOnFreshVolumeMatches(t *testing.T) {
	backend, at := freshVolume(t)

	rep, err := Check(backend, at, false)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if !rep.HasDRSignature {
		t.Error(`report says "DR" signature missing on a freshly formatted volume`)
	}
	if !rep.HasFBSignature {
		t.Error(`report says "FB" signature missing on a freshly formatted volume`)
	}
	if !rep.FreeBlocksMatch {
		t.Errorf("FreeBlocksMatch = false: declared %d, actual %d", rep.DeclaredFreeBlocks, rep.ActualFreeBlocks)
	}
}

func TestCheckDetectsFreeBlockMismatch(t *testing.T) {
	backend, at := freshVolume(t)

	// Corrupt the OS block's free-block counter without touching the AT,
	// the way spec.md §8's free-block-mismatch boundary is triggered.
	osBuf := block.New()
	if err := backend.ReadBlocks(block.OSBlockIndex, 1, osBuf); err != nil {
		t.Fatalf("ReadBlocks: %v", err)
	}
	osBuf[3] = osBuf[3] ^ 0x01 // flip the low bit of the free-block count
	if err := backend.WriteBlocks(block.OSBlockIndex, 1, osBuf); err != nil {
		t.Fatalf("WriteBlocks: %v", err)
	}

	rep, err := Check(backend, at, false)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if rep.FreeBlocksMatch {
		t.Error("FreeBlocksMatch = true, want false after corrupting the declared counter")
	}
}

func TestCheckVerboseDumpsOccupiedSlots(t *testing.T) {
	backend, at := freshVolume(t)

	root, err := directory.LoadRoot(backend)
	if err != nil {
		t.Fatalf("LoadRoot: %v", err)
	}
	root.Entries[1] = directory.Entry{Type: directory.TypeInstrument, Size: 3, Start: 20}
	root.Entries[1].SetName("KIT1")
	if err := directory.SaveRoot(backend, root); err != nil {
		t.Fatalf("SaveRoot: %v", err)
	}

	rep, err := Check(backend, at, true)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if len(rep.Slots) != 1 {
		t.Fatalf("len(Slots) = %d, want 1 (only slot 1 is occupied)", len(rep.Slots))
	}
	if rep.Slots[0].Index != 1 {
		t.Errorf("Slots[0].Index = %d, want 1", rep.Slots[0].Index)
	}
}
