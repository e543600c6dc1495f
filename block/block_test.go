package block

import "testing"

func TestFiller(t *testing.T) {
	b := Filler()
	if len(b) != Size {
		t.Fatalf("Filler() length = %d, want %d", len(b), Size)
	}
	for i, v := range b {
		want := byte(0x6D)
		if i%2 != 0 {
			want = 0xB6
		}
		if v != want {
			t.Fatalf("Filler()[%d] = 0x%02X, want 0x%02X", i, v, want)
		}
	}
}

func TestATBlockCount(t *testing.T) {
	tests := []struct {
		total uint32
		want  uint32
	}{
		{0, 0},
		{1, 1},
		{170, 1},
		{171, 2},
		{1600, 10},
		{3200, 19},
	}
	for _, tt := range tests {
		if got := ATBlockCount(tt.total); got != tt.want {
			t.Errorf("ATBlockCount(%d) = %d, want %d", tt.total, got, tt.want)
		}
	}
}

func TestFirstDataBlock(t *testing.T) {
	got := FirstDataBlock(1600)
	want := ATBlockFirst + ATBlockCount(1600)
	if got != want {
		t.Errorf("FirstDataBlock(1600) = %d, want %d", got, want)
	}
}
