// Package session bundles the per-invocation state every CLI mode shares
// (spec.md §9 "Global state"): the open substrate, the volume's geometry,
// an allocation-table instance appropriate to that substrate, the root
// directory, and the free-block counter. It orchestrates the
// data-then-AT-then-directory-then-OS-block persistence order spec.md §5
// requires, committing the root directory, OS block, and allocation
// table through one AT.Flush call so a cached AT's combined writeback
// (spec.md §5) sees them together, and keeps
// placement/extraction/formatter/archive/instrument operations decoupled
// from when and how their results hit disk.
package session

import (
	"github.com/pkg/errors"

	"ensoniqfs/alloctable"
	"ensoniqfs/block"
	"ensoniqfs/directory"
	"ensoniqfs/header"
	"ensoniqfs/placement"
	"ensoniqfs/storage"
)

// Substrate names the I/O granularity of the open backend, which decides
// whether the session uses a Direct (cheap per-entry seek) or Cached
// (whole-table-in-memory) allocation table.
type Substrate int

const (
	// SubstrateFile is the byte-granular file/block-device case.
	SubstrateFile Substrate = iota
	// SubstrateCoarse is the 2048-byte-aligned optical-media case.
	SubstrateCoarse
	// SubstrateFloppy is the physical floppy-diskette case.
	SubstrateFloppy
)

// Session holds one invocation's open volume.
type Session struct {
	Backend storage.Backend
	AT      alloctable.AT

	Identifier header.Identifier
	Root       *directory.Directory

	freeBlocks uint32
}

// usesCachedAT reports whether substrate warrants a Cached AT: any medium
// where an individual seek is expensive relative to reading the whole
// table up front.
func usesCachedAT(s Substrate) bool {
	return s == SubstrateCoarse || s == SubstrateFloppy
}

// Open reads the identifier block, OS block, and root directory from
// backend, and constructs the allocation-table instance appropriate to
// substrate.
func Open(backend storage.Backend, substrate Substrate) (*Session, error) {
	idBuf := block.New()
	if err := backend.ReadBlocks(block.IdentifierBlock, 1, idBuf); err != nil {
		return nil, errors.Wrap(err, "reading identifier block")
	}
	id, err := header.ParseIdentifier(idBuf)
	if err != nil {
		return nil, err
	}

	osBuf := block.New()
	if err := backend.ReadBlocks(block.OSBlockIndex, 1, osBuf); err != nil {
		return nil, errors.Wrap(err, "reading OS block")
	}
	os, err := header.ParseOSBlock(osBuf)
	if err != nil {
		return nil, err
	}

	var at alloctable.AT
	if usesCachedAT(substrate) {
		at, err = alloctable.LoadCached(backend, id.TotalBlocks)
	} else {
		at = alloctable.NewDirect(backend, id.TotalBlocks)
	}
	if err != nil {
		return nil, errors.Wrap(err, "loading allocation table")
	}

	root, err := directory.LoadRoot(backend)
	if err != nil {
		return nil, err
	}

	return &Session{
		Backend:    backend,
		AT:         at,
		Identifier: id,
		Root:       root,
		freeBlocks: os.FreeBlocks,
	}, nil
}

// FreeBlocks returns the session's current free-block count.
func (s *Session) FreeBlocks() uint32 {
	return s.freeBlocks
}

// Insert places a new file's data under frames' target directory,
// starting the slot search at startSlot. Data and AT entries land inside
// placement.Insert; the directory chain's non-root ancestors are saved
// next; the root directory, OS-block free-block counter, and AT are then
// committed together through AT.Flush, so a cached AT issues them as one
// combined write (spec.md §5).
func (s *Session) Insert(frames []directory.Frame, startSlot int, data []byte, declaredBlocks uint16, meta placement.Meta) (placement.Result, error) {
	target := frames[len(frames)-1].Dir

	res, newFree, err := placement.Insert(s.Backend, s.AT, target, startSlot, data, declaredBlocks, s.freeBlocks, meta)
	if err != nil {
		return placement.Result{}, err
	}

	rootBuf, err := directory.SaveChain(s.Backend, frames)
	if err != nil {
		return placement.Result{}, err
	}

	osBuf, err := s.buildOSBlock(newFree)
	if err != nil {
		return placement.Result{}, err
	}
	if res.IsOSFile {
		header.SetOSVersion(osBuf, res.OSVersion)
	}

	if err := s.AT.Flush(osBuf, rootBuf); err != nil {
		return placement.Result{}, err
	}
	s.freeBlocks = newFree

	return res, nil
}

// Erase frees slot's chain under frames' target directory and commits
// the result in the same combined-flush order as Insert.
func (s *Session) Erase(frames []directory.Frame, slot int) (placement.EraseResult, error) {
	target := frames[len(frames)-1].Dir

	res, err := placement.Erase(s.AT, target, slot)
	if err != nil {
		return placement.EraseResult{}, err
	}

	rootBuf, err := directory.SaveChain(s.Backend, frames)
	if err != nil {
		return placement.EraseResult{}, err
	}

	newFree := s.freeBlocks + res.BlocksFreed
	osBuf, err := s.buildOSBlock(newFree)
	if err != nil {
		return placement.EraseResult{}, err
	}
	if res.ClearOSField {
		header.ClearOSVersion(osBuf)
	}

	if err := s.AT.Flush(osBuf, rootBuf); err != nil {
		return placement.EraseResult{}, err
	}
	s.freeBlocks = newFree

	return res, nil
}

// Mkdir allocates a fresh sub-directory under frames' target directory
// and commits the result in the same combined-flush order as Insert.
func (s *Session) Mkdir(frames []directory.Frame, startSlot int, name string) (int, error) {
	target := frames[len(frames)-1].Dir
	parentStart := target.FirstBlock()

	slot, err := placement.Mkdir(s.Backend, s.AT, target, parentStart, startSlot, name)
	if err != nil {
		return 0, err
	}

	rootBuf, err := directory.SaveChain(s.Backend, frames)
	if err != nil {
		return 0, err
	}

	newFree := s.freeBlocks - 2
	osBuf, err := s.buildOSBlock(newFree)
	if err != nil {
		return 0, err
	}

	if err := s.AT.Flush(osBuf, rootBuf); err != nil {
		return 0, err
	}
	s.freeBlocks = newFree

	return slot, nil
}

// buildOSBlock reads the current OS block and rewrites its free-block
// counter in memory, leaving the write itself to the caller so it can be
// folded into AT.Flush's combined header-region write.
func (s *Session) buildOSBlock(newFree uint32) ([]byte, error) {
	osBuf := block.New()
	if err := s.Backend.ReadBlocks(block.OSBlockIndex, 1, osBuf); err != nil {
		return nil, errors.Wrap(err, "reading OS block")
	}
	if _, err := header.ParseOSBlock(osBuf); err != nil {
		return nil, err
	}
	header.SetFreeBlocks(osBuf, newFree)
	return osBuf, nil
}

// Close releases the backend.
func (s *Session) Close() error {
	return s.Backend.Close()
}
