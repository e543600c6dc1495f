package instrument

import (
	"bytes"
	"testing"

	"ensoniqfs/block"
	"ensoniqfs/directory"
	"ensoniqfs/extraction"
)

func buildArchive(t *testing.T, totalBlocks int) []byte {
	t.Helper()
	header := make([]byte, block.Size)
	header[extraction.OffsetType] = byte(directory.TypeInstrument)
	setBlockCount(header, uint16(totalBlocks))

	payload := bytes.Repeat([]byte{0x5A}, totalBlocks*block.Size)

	data := make([]byte, 0, len(header)+len(payload))
	data = append(data, header...)
	data = append(data, payload...)
	return data
}

func TestSplitProducesExpectedSliceSizes(t *testing.T) {
	// spec.md §8 scenario 5: a 4000-block instrument split as ASR produces
	// two slices of 3176 and 824 blocks.
	data := buildArchive(t, 4000)

	slices, err := Split(data, SliceBlocksASR, "KIT1", "/volumes")
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	if len(slices) != 2 {
		t.Fatalf("len(slices) = %d, want 2", len(slices))
	}

	if got := blockCount(slices[0].Data[:block.Size]); got != 3176 {
		t.Errorf("slice 1 block count = %d, want 3176", got)
	}
	if got := blockCount(slices[1].Data[:block.Size]); got != 824 {
		t.Errorf("slice 2 block count = %d, want 824", got)
	}

	if got := slices[0].Data[extraction.OffsetPartIndex]; got != 1 {
		t.Errorf("slice 1 part index = %d, want 1", got)
	}
	if got := slices[1].Data[extraction.OffsetPartIndex]; got != 2 {
		t.Errorf("slice 2 part index = %d, want 2", got)
	}

	wantName1 := "/volumes/KIT1.1"
	if slices[0].Name != wantName1 {
		t.Errorf("slice 1 name = %q, want %q", slices[0].Name, wantName1)
	}
}

func TestSplitJoinRoundTrip(t *testing.T) {
	data := buildArchive(t, 4000)

	slices, err := Split(data, SliceBlocksASR, "KIT1", "/volumes")
	if err != nil {
		t.Fatalf("Split: %v", err)
	}

	raw := make([][]byte, len(slices))
	for i, s := range slices {
		raw[i] = s.Data
	}

	joined, err := Join(raw)
	if err != nil {
		t.Fatalf("Join: %v", err)
	}

	if !bytes.Equal(joined, data) {
		t.Fatalf("joined archive does not match original byte-for-byte")
	}

	if got := blockCount(joined[:block.Size]); got != 4000 {
		t.Errorf("joined block count = %d, want 4000", got)
	}
	if got := joined[extraction.OffsetPartIndex]; got != 0 {
		t.Errorf("joined part index = %d, want 0", got)
	}
}

func TestSplitSmallerThanOneSliceProducesSingleSlice(t *testing.T) {
	data := buildArchive(t, 100)

	slices, err := Split(data, SliceBlocksEPS, "SND", "")
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	if len(slices) != 1 {
		t.Fatalf("len(slices) = %d, want 1", len(slices))
	}
	if got := blockCount(slices[0].Data[:block.Size]); got != 100 {
		t.Errorf("slice block count = %d, want 100", got)
	}
}

func TestSplitRejectsNonInstrument(t *testing.T) {
	data := buildArchive(t, 10)
	data[extraction.OffsetType] = byte(directory.TypeBankEPS)

	if _, err := Split(data, SliceBlocksEPS, "SND", ""); err == nil {
		t.Fatal("Split on a non-instrument archive succeeded, want error")
	}
}

func TestSplitRejectsLengthMismatch(t *testing.T) {
	data := buildArchive(t, 10)
	setBlockCount(data[:block.Size], 11)

	if _, err := Split(data, SliceBlocksEPS, "SND", ""); err == nil {
		t.Fatal("Split with mismatched declared block count succeeded, want error")
	}
}

func TestBaseNameStripsPartSuffix(t *testing.T) {
	if got := BaseName("/volumes/KIT1.2"); got != "/volumes/KIT1" {
		t.Errorf("BaseName = %q, want /volumes/KIT1", got)
	}
}
