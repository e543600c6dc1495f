// Package formatter implements the formatter (component H): computing
// the allocation-table size, marking overhead blocks allocated, and
// writing the header blocks and an empty allocation table for a fresh
// volume.
package formatter

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"ensoniqfs/block"
	"ensoniqfs/ensoniqerr"
	"ensoniqfs/geometry"
)

// Preset is a named target geometry.
type Preset struct {
	Name            string
	TotalBytes      uint32
	SectorsPerTrack int
	Tracks          uint8
}

// TotalBlocks returns the preset's block count.
func (p Preset) TotalBlocks() uint32 {
	return p.TotalBytes / block.Size
}

// Named presets, per spec.md §4.H.
var (
	PresetEPS       = Preset{Name: "EPS", TotalBytes: 819200, SectorsPerTrack: geometry.SectorsPerTrackDD, Tracks: 80}
	PresetASR       = Preset{Name: "ASR", TotalBytes: 1638400, SectorsPerTrack: geometry.SectorsPerTrackHD, Tracks: 80}
	PresetEPS16Super = Preset{Name: "EPS-16 super", TotalBytes: 2611200, SectorsPerTrack: geometry.SectorsPerTrackDD, Tracks: 255}
	PresetASRSuper  = Preset{Name: "ASR super", TotalBytes: 5222400, SectorsPerTrack: geometry.SectorsPerTrackHD, Tracks: 255}
)

// ParseSize parses a numeric size with an optional K or M suffix into a
// byte count, validating it's a multiple of block.Size.
func ParseSize(s string) (uint32, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.Wrap(ensoniqerr.ErrInvalidArgument, "empty size")
	}

	multiplier := uint64(1)
	suffix := s[len(s)-1]
	switch suffix {
	case 'k', 'K':
		multiplier = 1024
		s = s[:len(s)-1]
	case 'm', 'M':
		multiplier = 1024 * 1024
		s = s[:len(s)-1]
	}

	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, errors.Wrapf(ensoniqerr.ErrInvalidArgument, "invalid size %q: %v", s, err)
	}

	total := n * multiplier
	if total%block.Size != 0 {
		return 0, errors.Wrapf(ensoniqerr.ErrInvalidArgument, "size %d is not a multiple of %d", total, block.Size)
	}

	return uint32(total), nil
}

// Generic builds an ad hoc preset for a numeric size, choosing a density
// by size (anything at or above an ASR-sized image uses high-density
// geometry) and a track count that divides evenly, the way EpsLin's
// generic-size path infers geometry instead of rejecting it outright.
func Generic(totalBytes uint32) (Preset, error) {
	if totalBytes%block.Size != 0 {
		return Preset{}, errors.Wrapf(ensoniqerr.ErrInvalidArgument, "size %d is not a multiple of %d", totalBytes, block.Size)
	}
	totalBlocks := totalBytes / block.Size

	sectorsPerTrack := geometry.SectorsPerTrackDD
	if totalBytes >= PresetASR.TotalBytes {
		sectorsPerTrack = geometry.SectorsPerTrackHD
	}

	blocksPerTrack := uint32(sectorsPerTrack * geometry.HeadsPerDisk)
	if totalBlocks%blocksPerTrack != 0 {
		return Preset{}, errors.Wrapf(ensoniqerr.ErrInvalidArgument,
			"size %d blocks does not divide evenly into tracks of %d blocks", totalBlocks, blocksPerTrack)
	}
	tracks := totalBlocks / blocksPerTrack
	if tracks > 255 {
		return Preset{}, errors.Wrap(ensoniqerr.ErrInvalidArgument, "size implies more than 255 tracks")
	}

	return Preset{Name: "generic", TotalBytes: totalBytes, SectorsPerTrack: sectorsPerTrack, Tracks: uint8(tracks)}, nil
}
