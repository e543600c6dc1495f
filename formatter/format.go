package formatter

import (
	"github.com/pkg/errors"

	"ensoniqfs/block"
	"ensoniqfs/directory"
	"ensoniqfs/header"
	"ensoniqfs/storage"
)

// Device-type byte values written to the identifier block, one per
// family. The exact numeric encoding is left to this implementation
// (spec.md names the field but not its value space); these are kept
// distinct and stable so `check` can report a family name back.
const (
	DeviceTypeEPS   byte = 0x00
	DeviceTypeASR   byte = 0x01
	DeviceTypeEPS16 byte = 0x02
)

// Medium/density codes, per spec.md §4.C's concrete example.
const (
	MediumCode  byte = 0x1E
	DensityCode byte = 0x02
)

// Options configures a single Format call.
type Options struct {
	Preset     Preset
	DeviceType byte
	Label      [7]byte
}

// Format writes a complete, empty volume to backend: the filler block,
// identifier block, OS block, empty root directory, and an all-free
// allocation table with its overhead entries marked allocated.
func Format(backend storage.Backend, opts Options) error {
	totalBlocks := opts.Preset.TotalBlocks()
	atBlocks := block.ATBlockCount(totalBlocks)
	overhead := block.ATBlockFirst + atBlocks // 5 fixed blocks + AT blocks
	freeBlocks := totalBlocks - overhead

	if err := writeFillerBlock(backend); err != nil {
		return err
	}

	id := header.Identifier{
		DeviceType:  opts.DeviceType,
		SectorCount: uint8(opts.Preset.SectorsPerTrack),
		HeadCount:   2,
		TrackCount:  opts.Preset.Tracks,
		TotalBlocks: totalBlocks,
		MediumCode:  MediumCode,
		DensityCode: DensityCode,
		Label:       opts.Label,
	}
	if err := backend.WriteBlocks(block.IdentifierBlock, 1, header.Build(id)); err != nil {
		return errors.Wrap(err, "writing identifier block")
	}

	osBlock := header.BuildOSBlock(header.OSBlock{FreeBlocks: freeBlocks})
	if err := backend.WriteBlocks(block.OSBlockIndex, 1, osBlock); err != nil {
		return errors.Wrap(err, "writing OS block")
	}

	var blank [block.DirectoryEntryCount]directory.Entry
	if err := backend.WriteBlocks(block.DirectoryBlockFirst, 2, directory.EncodeBlank(blank)); err != nil {
		return errors.Wrap(err, "writing root directory")
	}

	if err := writeEmptyAT(backend, totalBlocks, overhead); err != nil {
		return err
	}

	return nil
}

func writeFillerBlock(backend storage.Backend) error {
	return errors.Wrap(backend.WriteBlocks(block.NullBlock, 1, block.Filler()), "writing filler block")
}

// writeEmptyAT writes an all-free allocation table, except the first
// `overhead` entries (blocks 0-4 and the AT blocks themselves), which are
// each marked allocated-and-terminal (alloctable.End), per spec.md §4.H.
func writeEmptyAT(backend storage.Backend, totalBlocks, overhead uint32) error {
	atBlocks := block.ATBlockCount(totalBlocks)
	buf := make([]byte, int(atBlocks)*block.Size)

	for b := uint32(0); b < overhead; b++ {
		off := int(b) * 3
		buf[off], buf[off+1], buf[off+2] = 0x00, 0x00, 0x01
	}

	for i := uint32(0); i < atBlocks; i++ {
		base := int(i) * block.Size
		copy(buf[base+510:base+512], "FB")
	}

	return errors.Wrap(backend.WriteBlocks(block.ATBlockFirst, atBlocks, buf), "writing allocation table")
}
