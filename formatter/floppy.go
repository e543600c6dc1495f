package formatter

import (
	"github.com/pkg/errors"

	"ensoniqfs/storage"
)

// FormatFloppy low-level formats every track/head of a floppy medium
// before laying down the logical volume. Per spec.md §4.H, sectors are
// interleaved per track to reduce rotational latency for sequential
// reads, with a track skew of n-2 and a head skew of n-1 (n = sectors
// per track).
func FormatFloppy(fb *storage.FloppyBackend, preset Preset) error {
	n := preset.SectorsPerTrack
	trackSkew := n - 2
	headSkew := n - 1

	for track := 0; track < int(preset.Tracks); track++ {
		for head := 0; head < 2; head++ {
			interleave := (track*trackSkew + head*headSkew) % n
			if interleave < 0 {
				interleave += n
			}
			if err := fb.FormatTrack(track, head, interleave); err != nil {
				return errors.Wrapf(err, "formatting track %d head %d", track, head)
			}
		}
	}

	return nil
}
