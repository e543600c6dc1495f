package archive

import (
	"bytes"
	"testing"

	"ensoniqfs/alloctable"
	"ensoniqfs/block"
	"ensoniqfs/storage"
)

func buildTestVolume(t *testing.T, totalBlocks uint32) (storage.Backend, alloctable.AT) {
	t.Helper()
	backend := storage.NewMemoryBackend(totalBlocks)
	at := alloctable.NewDirect(backend, totalBlocks)

	// Mark every third block allocated and give it recognizable content;
	// leave the rest free.
	for b := uint32(0); b < totalBlocks; b++ {
		if b%3 == 0 {
			if err := at.Put(b, alloctable.End); err != nil {
				t.Fatalf("Put: %v", err)
			}
			buf := bytes.Repeat([]byte{byte(b)}, block.Size)
			if err := backend.WriteBlocks(b, 1, buf); err != nil {
				t.Fatalf("WriteBlocks: %v", err)
			}
		}
	}
	return backend, at
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	const total = 40
	backend, at := buildTestVolume(t, total)

	encoded, err := Encode(backend, at, EPS, 0x00)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	if encoded[0] != 0x0D || encoded[1] != 0x0A {
		t.Errorf("missing container header sentinel")
	}
	if string(encoded[offLabel:offLabel+len(EPS.Label)]) != EPS.Label {
		t.Errorf("container label mismatch")
	}

	decoded, err := Decode(encoded, EPS, total)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	for b := uint32(0); b < total; b++ {
		e, _ := at.Get(b)
		got := decoded[int(b)*block.Size : int(b+1)*block.Size]
		if e.IsFree() {
			want := block.Filler()
			if !bytes.Equal(got, want) {
				t.Errorf("block %d (free) decoded as non-filler", b)
			}
		} else {
			var orig [block.Size]byte
			if err := backend.ReadBlocks(b, 1, orig[:]); err != nil {
				t.Fatalf("ReadBlocks: %v", err)
			}
			if !bytes.Equal(got, orig[:]) {
				t.Errorf("block %d (allocated) round-trip mismatch", b)
			}
		}
	}
}

func TestDetectFlavor(t *testing.T) {
	backend, at := buildTestVolume(t, 40)
	encoded, err := Encode(backend, at, ASR, 0x01)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	got, err := DetectFlavor(encoded)
	if err != nil {
		t.Fatalf("DetectFlavor: %v", err)
	}
	if got.Name != ASR.Name {
		t.Errorf("DetectFlavor = %s, want %s", got.Name, ASR.Name)
	}
}

func TestRepairMacLineEndings(t *testing.T) {
	clean := []byte{0x0D, 0x0A, 'x', 'y'}
	corrupted := []byte{0x0A, 0x0D, 0x0D, 0x0A, 'x', 'y'}

	if got := RepairMacLineEndings(clean); !bytes.Equal(got, clean) {
		t.Errorf("uncorrupted data should be returned unchanged")
	}

	// bytes.ReplaceAll scans left to right for non-overlapping 0x0D,0x0A
	// pairs: {0x0A,0x0D,0x0D,0x0A,x,y} has its only pair at index 2-3,
	// collapsing to {0x0A,0x0D,0x0A,x,y}.
	repaired := RepairMacLineEndings(corrupted)
	want := []byte{0x0A, 0x0D, 0x0A, 'x', 'y'}
	if !bytes.Equal(repaired, want) {
		t.Errorf("RepairMacLineEndings(corrupted) = %v, want %v", repaired, want)
	}
}

func TestDecodeTaggedContainer(t *testing.T) {
	image := bytes.Repeat([]byte{0x55}, 4*block.Size)

	var buf bytes.Buffer
	buf.Write(taggedMagic[:])
	buf.Write([]byte{2, 0}) // 2 tags, little-endian

	geomRec := make([]byte, taggedTagRecordLen)
	geomRec[0], geomRec[1] = 1, 0 // kind = geometry
	geomRec[2], geomRec[3] = 10, 0
	geomRec[4], geomRec[5] = 2, 0
	geomRec[6], geomRec[7] = 4, 0
	buf.Write(geomRec)

	offsetRec := make([]byte, taggedTagRecordLen)
	offsetRec[0], offsetRec[1] = 2, 0 // kind = image offset
	imageOffset := uint32(buf.Len() + taggedTagRecordLen)
	imageLength := uint32(len(image))
	putLE32(offsetRec[2:6], imageLength)
	putLE32(offsetRec[6:10], imageOffset)
	buf.Write(offsetRec)

	buf.Write(image)

	tagged, err := DecodeTagged(buf.Bytes())
	if err != nil {
		t.Fatalf("DecodeTagged: %v", err)
	}
	if !bytes.Equal(tagged.Image, image) {
		t.Errorf("decoded image does not match source")
	}
	if len(tagged.Tags) != 2 {
		t.Fatalf("len(Tags) = %d, want 2", len(tagged.Tags))
	}
	if tagged.Tags[0].Sectors != 10 || tagged.Tags[0].Heads != 2 || tagged.Tags[0].Tracks != 4 {
		t.Errorf("geometry tag = %+v", tagged.Tags[0])
	}
}

func TestEncodeTaggedUnsupported(t *testing.T) {
	if _, err := EncodeTagged(Tagged{}); err == nil {
		t.Fatalf("expected ErrUnsupportedConversion encoding a tagged container")
	}
}

func putLE32(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}
