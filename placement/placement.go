// Package placement implements the file placement engine (component F):
// allocating block runs for a new file (contiguous-preferred, fragmented
// fallback), writing its data, and updating the allocation table and the
// in-memory directory entry. Callers (the session orchestrator) persist
// the AT, directory, and OS-block free-block counter afterward, in that
// order, per spec.md §5.
package placement

import (
	"github.com/pkg/errors"

	"ensoniqfs/alloctable"
	"ensoniqfs/block"
	"ensoniqfs/directory"
	"ensoniqfs/ensoniqerr"
	"ensoniqfs/storage"
)

// Meta is the per-file header metadata copied into the directory entry.
type Meta struct {
	Name      string
	Type      directory.TypeCode
	PartIndex uint8
}

// Result reports what Insert actually did, for the caller's persistence
// and reporting steps.
type Result struct {
	Slot            int
	Start           uint32
	ContiguousCount uint16
	BlocksUsed      uint32
	OSVersion       [4]byte
	IsOSFile        bool
}

// osVersionOffset maps an OS file's type code to the byte offset, within
// the archival source data, of its 4-byte OS-version field.
func osVersionOffset(t directory.TypeCode) (int, bool) {
	switch t {
	case directory.TypeOSEPS:
		return 0x3A8, true
	case directory.TypeOSEPS16:
		return 0x390, true
	case directory.TypeOSASR:
		return 0x6F2, true
	}
	return 0, false
}

// Insert allocates space for data (declaredBlocks*block.Size bytes),
// writes it, links the allocation-table chain, and fills in the
// directory slot found starting at startSlot. freeBlocks is the volume's
// current free-block count; Insert does not mutate the caller's copy,
// it returns the post-insert count.
func Insert(
	backend storage.Backend,
	at alloctable.AT,
	dir *directory.Directory,
	startSlot int,
	data []byte,
	declaredBlocks uint16,
	freeBlocks uint32,
	meta Meta,
) (Result, uint32, error) {
	wantLen := int64(declaredBlocks) * block.Size
	if int64(len(data)) != wantLen {
		return Result{}, freeBlocks, errors.Wrapf(ensoniqerr.ErrFileLengthMismatch,
			"declared %d blocks (%d bytes), got %d bytes", declaredBlocks, wantLen, len(data))
	}
	blocksNeeded := uint32(declaredBlocks)

	slot, err := directory.AllocateSlot(dir, startSlot)
	if err != nil {
		return Result{}, freeBlocks, err
	}

	if blocksNeeded > freeBlocks {
		return Result{}, freeBlocks, errors.Wrapf(ensoniqerr.ErrInsufficientSpace,
			"need %d blocks, have %d free", blocksNeeded, freeBlocks)
	}

	start, contiguousCount, err := allocate(backend, at, blocksNeeded, data)
	if err != nil {
		return Result{}, freeBlocks, err
	}

	entry := directory.Entry{
		Type:            meta.Type,
		Size:            uint16(blocksNeeded),
		ContiguousCount: contiguousCount,
		Start:           start,
		PartIndex:       meta.PartIndex,
	}
	entry.SetName(meta.Name)
	dir.Entries[slot] = entry

	res := Result{
		Slot:            slot,
		Start:           start,
		ContiguousCount: contiguousCount,
		BlocksUsed:      blocksNeeded,
	}

	if off, ok := osVersionOffset(meta.Type); ok && off+4 <= len(data) {
		res.IsOSFile = true
		copy(res.OSVersion[:], data[off:off+4])
	}

	return res, freeBlocks - blocksNeeded, nil
}

// allocate runs the contiguous-first pass, falling back to the fragmented
// pass, and writes the file's data as it goes. It returns the entry's
// start block and contiguous-count.
func allocate(backend storage.Backend, at alloctable.AT, blocksNeeded uint32, data []byte) (start uint32, contiguousCount uint16, err error) {
	total := at.TotalBlocks()
	first := alloctable.FirstDataBlock(total)

	runStart, _, found, err := findContiguousRun(at, first, total, blocksNeeded)
	if err != nil {
		return 0, 0, err
	}
	if found {
		if err := writeContiguousRun(backend, at, runStart, blocksNeeded, data); err != nil {
			return 0, 0, err
		}
		return runStart, uint16(blocksNeeded), nil
	}

	return allocateFragmented(backend, at, first, total, blocksNeeded, data)
}

// findContiguousRun scans the AT from `from` through `total` looking for
// a run of free entries at least blocksNeeded long.
func findContiguousRun(at alloctable.AT, from, total, blocksNeeded uint32) (start uint32, length uint32, found bool, err error) {
	runStart := uint32(0)
	runLen := uint32(0)

	for b := from; b < total; b++ {
		e, getErr := at.Get(b)
		if getErr != nil {
			return 0, 0, false, getErr
		}
		if e.IsFree() {
			if runLen == 0 {
				runStart = b
			}
			runLen++
			if runLen >= blocksNeeded {
				return runStart, runLen, true, nil
			}
		} else {
			runLen = 0
		}
	}
	return 0, 0, false, nil
}

// writeContiguousRun links blocksNeeded free entries starting at
// runStart into one chain and writes the data in a single I/O call.
func writeContiguousRun(backend storage.Backend, at alloctable.AT, runStart, blocksNeeded uint32, data []byte) error {
	if err := backend.WriteBlocks(runStart, blocksNeeded, data); err != nil {
		return err
	}
	for i := uint32(0); i < blocksNeeded; i++ {
		b := runStart + i
		var e alloctable.Entry
		if i == blocksNeeded-1 {
			e = alloctable.End
		} else {
			e = alloctable.Entry(b + 1)
		}
		if err := at.Put(b, e); err != nil {
			return err
		}
	}
	return nil
}

// allocateFragmented implements spec.md §4.F's fragmented pass: it walks
// free blocks in scan order, linking each to the next, flushing data in
// maximal contiguous runs as it goes (the only way fragmented inserts
// stay tolerable on floppy and coarse-grained substrates).
func allocateFragmented(backend storage.Backend, at alloctable.AT, from, total, blocksNeeded uint32, data []byte) (uint32, uint16, error) {
	var (
		start           uint32
		contiguousCount uint32
		inInitialRun    = true
		prev            uint32
		consumed        uint32
		dataOffset      int

		runStart uint32
		runLen   uint32
		haveRun  bool
	)

	flushRun := func() error {
		if !haveRun {
			return nil
		}
		nbytes := int(runLen) * block.Size
		if err := backend.WriteBlocks(runStart, runLen, data[dataOffset:dataOffset+nbytes]); err != nil {
			return err
		}
		dataOffset += nbytes
		haveRun = false
		runLen = 0
		return nil
	}

	for b := from; b < total && consumed < blocksNeeded; b++ {
		e, err := at.Get(b)
		if err != nil {
			return 0, 0, err
		}
		if !e.IsFree() {
			if haveRun {
				if err := flushRun(); err != nil {
					return 0, 0, err
				}
			}
			continue
		}

		if consumed == 0 {
			start = b
		} else if err := at.Put(prev, alloctable.Entry(b)); err != nil {
			return 0, 0, err
		}

		if haveRun && b == runStart+runLen {
			runLen++
		} else {
			if err := flushRun(); err != nil {
				return 0, 0, err
			}
			runStart = b
			runLen = 1
			haveRun = true
		}

		// contiguousCount tracks the length of the initial contiguous
		// stretch from the first free block; it stops growing the first
		// time a visited block isn't adjacent to the previous one.
		if inInitialRun && b == start+contiguousCount {
			contiguousCount++
		} else {
			inInitialRun = false
		}

		prev = b
		consumed++
	}

	if consumed < blocksNeeded {
		return 0, 0, errors.Wrap(ensoniqerr.ErrFilesystemCorrupt, "free-block count does not match actual free entries")
	}

	if err := flushRun(); err != nil {
		return 0, 0, err
	}
	if err := at.Put(prev, alloctable.End); err != nil {
		return 0, 0, err
	}

	return start, uint16(contiguousCount), nil
}
