package header

import "testing"

func TestIdentifierRoundTrip(t *testing.T) {
	id := Identifier{
		DeviceType:  0x01,
		SectorCount: 20,
		HeadCount:   2,
		TrackCount:  80,
		TotalBlocks: 3200,
		MediumCode:  0x1E,
		DensityCode: 0x02,
	}
	copy(id.Label[:], "ASRDISK")

	buf := Build(id)
	got, err := ParseIdentifier(buf)
	if err != nil {
		t.Fatalf("ParseIdentifier: %v", err)
	}
	if got != id {
		t.Fatalf("ParseIdentifier(Build(id)) = %+v, want %+v", got, id)
	}
}

func TestParseIdentifierRejectsMissingSignature(t *testing.T) {
	buf := make([]byte, 512)
	if _, err := ParseIdentifier(buf); err == nil {
		t.Fatalf("expected an error when the ID signature is missing")
	}
}

func TestOSBlockRoundTrip(t *testing.T) {
	os := OSBlock{FreeBlocks: 1585}
	copy(os.OSVersion[:], []byte{1, 2, 3, 4})

	buf := BuildOSBlock(os)
	got, err := ParseOSBlock(buf)
	if err != nil {
		t.Fatalf("ParseOSBlock: %v", err)
	}
	if got != os {
		t.Fatalf("ParseOSBlock(BuildOSBlock(os)) = %+v, want %+v", got, os)
	}
}

func TestSetFreeBlocksPreservesSignature(t *testing.T) {
	buf := BuildOSBlock(OSBlock{FreeBlocks: 100})
	SetFreeBlocks(buf, 50)

	got, err := ParseOSBlock(buf)
	if err != nil {
		t.Fatalf("ParseOSBlock: %v", err)
	}
	if got.FreeBlocks != 50 {
		t.Errorf("FreeBlocks after SetFreeBlocks = %d, want 50", got.FreeBlocks)
	}
}

func TestClearOSVersion(t *testing.T) {
	buf := BuildOSBlock(OSBlock{OSVersion: [4]byte{9, 9, 9, 9}})
	ClearOSVersion(buf)

	got, err := ParseOSBlock(buf)
	if err != nil {
		t.Fatalf("ParseOSBlock: %v", err)
	}
	if got.OSVersion != [4]byte{0, 0, 0, 0} {
		t.Errorf("OSVersion after ClearOSVersion = %v, want zero", got.OSVersion)
	}
}
