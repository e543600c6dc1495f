package geometry

import "testing"

func TestLocateBlockIndexRoundTrip(t *testing.T) {
	const n = SectorsPerTrackHD
	for b := uint32(0); b < 400; b++ {
		c := Locate(b, n)
		if c.Head < 0 || c.Head >= HeadsPerDisk {
			t.Fatalf("Locate(%d) head = %d, out of range", b, c.Head)
		}
		if c.Sector < 0 || c.Sector >= n {
			t.Fatalf("Locate(%d) sector = %d, out of range", b, c.Sector)
		}
		if got := BlockIndex(c, n); got != b {
			t.Fatalf("BlockIndex(Locate(%d)) = %d, want %d", b, got, b)
		}
	}
}

func TestTrackStart(t *testing.T) {
	const n = SectorsPerTrackDD
	tests := []struct {
		track, head int
		want        uint32
	}{
		{0, 0, 0},
		{0, 1, uint32(n)},
		{1, 0, uint32(2 * n)},
		{1, 1, uint32(3 * n)},
	}
	for _, tt := range tests {
		if got := TrackStart(tt.track, tt.head, n); got != tt.want {
			t.Errorf("TrackStart(%d, %d, %d) = %d, want %d", tt.track, tt.head, n, got, tt.want)
		}
	}
}

func TestBlocksPerTrack(t *testing.T) {
	if got := BlocksPerTrack(SectorsPerTrackHD); got != SectorsPerTrackHD {
		t.Errorf("BlocksPerTrack(%d) = %d, want %d", SectorsPerTrackHD, got, SectorsPerTrackHD)
	}
}
