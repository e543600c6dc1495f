// Package integrity implements the integrity checker (component K):
// reading back the identifier and OS blocks, verifying the directory and
// allocation-table signatures, cross-checking the free-block counter
// against an actual allocation-table walk, and at higher verbosity
// dumping the root directory slot by slot.
package integrity

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"ensoniqfs/alloctable"
	"ensoniqfs/block"
	"ensoniqfs/directory"
	"ensoniqfs/header"
	"ensoniqfs/storage"
)

// SlotDump is one root-directory slot's report line, produced only at
// the verbose level.
type SlotDump struct {
	Index int
	Raw   [block.DirectoryEntrySize]byte
	Line  string
}

// Report is the full result of a Check run.
type Report struct {
	Identifier header.Identifier

	OS header.OSBlock

	// DeclaredFreeBlocks is header.OSBlock.FreeBlocks; ActualFreeBlocks and
	// ActualAllocated come from an independent AT walk.
	DeclaredFreeBlocks uint32
	ActualFreeBlocks   uint32
	ActualAllocated    uint32
	FreeBlocksMatch    bool

	HasDRSignature bool
	HasFBSignature bool

	Slots []SlotDump // populated only when Check is called with verbose=true
}

// Check reads back a volume's header blocks and allocation table, and
// reports their content alongside a consistency check between the
// declared and actual free-block counts.
func Check(backend storage.Backend, at alloctable.AT, verbose bool) (Report, error) {
	var rep Report

	idBuf := block.New()
	if err := backend.ReadBlocks(block.IdentifierBlock, 1, idBuf); err != nil {
		return rep, errors.Wrap(err, "reading identifier block")
	}
	id, err := header.ParseIdentifier(idBuf)
	if err != nil {
		return rep, err
	}
	rep.Identifier = id

	osBuf := block.New()
	if err := backend.ReadBlocks(block.OSBlockIndex, 1, osBuf); err != nil {
		return rep, errors.Wrap(err, "reading OS block")
	}
	os, err := header.ParseOSBlock(osBuf)
	if err != nil {
		return rep, err
	}
	rep.OS = os
	rep.DeclaredFreeBlocks = os.FreeBlocks

	dirBuf := make([]byte, 2*block.Size)
	if err := backend.ReadBlocks(block.DirectoryBlockFirst, 2, dirBuf); err != nil {
		return rep, errors.Wrap(err, "reading root directory")
	}
	rep.HasDRSignature = string(dirBuf[len(dirBuf)-2:]) == "DR"

	atBlocks := block.ATBlockCount(at.TotalBlocks())
	rep.HasFBSignature = true
	for i := uint32(0); i < atBlocks; i++ {
		buf := block.New()
		if err := backend.ReadBlocks(block.ATBlockFirst+i, 1, buf); err != nil {
			return rep, errors.Wrapf(err, "reading AT block %d", i)
		}
		if string(buf[block.Size-2:]) != "FB" {
			rep.HasFBSignature = false
		}
	}

	allocated, free, err := alloctable.Counts(at)
	if err != nil {
		return rep, errors.Wrap(err, "walking allocation table")
	}
	rep.ActualAllocated = allocated
	rep.ActualFreeBlocks = free
	rep.FreeBlocksMatch = free == os.FreeBlocks

	if verbose {
		d, err := directory.LoadRoot(backend)
		if err != nil {
			return rep, err
		}
		rep.Slots = dumpSlots(d, dirBuf)
	}

	return rep, nil
}

func dumpSlots(d *directory.Directory, dirBuf []byte) []SlotDump {
	dumps := make([]SlotDump, 0, block.DirectoryEntryCount)
	for i, e := range d.Entries {
		if e.Empty() {
			continue
		}
		var raw [block.DirectoryEntrySize]byte
		off := i * block.DirectoryEntrySize
		copy(raw[:], dirBuf[off:off+block.DirectoryEntrySize])
		line := fmt.Sprintf("%2d: type=%-7s name=%-12s size=%-6d contig=%-6d start=%-8d",
			i, e.Type.ShortName(), e.NameString(), e.Size, e.ContiguousCount, e.Start)
		dumps = append(dumps, SlotDump{Index: i, Raw: raw, Line: line})
	}
	return dumps
}

// String renders a Report as multi-line plain text, in the register of a
// command-line summary rather than a structured dump.
func (r Report) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "device type: 0x%02X  sectors/track: %d  heads: %d  tracks: %d  total blocks: %d\n",
		r.Identifier.DeviceType, r.Identifier.SectorCount, r.Identifier.HeadCount, r.Identifier.TrackCount, r.Identifier.TotalBlocks)
	fmt.Fprintf(&b, "medium: 0x%02X  density: 0x%02X  label: %q\n", r.Identifier.MediumCode, r.Identifier.DensityCode, strings.TrimRight(string(r.Identifier.Label[:]), " "))
	fmt.Fprintf(&b, "declared free blocks: %d  OS version: % X\n", r.OS.FreeBlocks, r.OS.OSVersion)
	fmt.Fprintf(&b, `"DR" signature: %v  "FB" signature: %v`+"\n", r.HasDRSignature, r.HasFBSignature)
	fmt.Fprintf(&b, "AT walk: %d allocated, %d free (declared free: %d, match: %v)\n",
		r.ActualAllocated, r.ActualFreeBlocks, r.DeclaredFreeBlocks, r.FreeBlocksMatch)
	for _, s := range r.Slots {
		fmt.Fprintln(&b, s.Line)
	}
	return b.String()
}
