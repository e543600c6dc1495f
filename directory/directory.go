// Package directory implements the directory model (component E): the
// fixed 39-slot x 26-byte directory, sub-directory traversal by
// path-of-indices, slot allocation, and parent-count maintenance.
package directory

import (
	"github.com/pkg/errors"

	"ensoniqfs/alloctable"
	"ensoniqfs/block"
	"ensoniqfs/ensoniqerr"
	"ensoniqfs/storage"
)

const combinedSize = 2 * block.Size // the 1024-byte directory region

// Directory is one 39-slot directory (the root directory, or a
// sub-directory reached via a type-2 entry).
type Directory struct {
	Entries [block.DirectoryEntryCount]Entry

	firstBlock  uint32
	secondBlock uint32
}

// FirstBlock returns the starting block of this directory's 2-block region.
func (d *Directory) FirstBlock() uint32 {
	return d.firstBlock
}

// LoadRoot reads the fixed root-directory block pair (blocks 3-4), which
// is always physically contiguous.
func LoadRoot(backend storage.Backend) (*Directory, error) {
	buf := make([]byte, combinedSize)
	if err := backend.ReadBlocks(block.DirectoryBlockFirst, 2, buf); err != nil {
		return nil, errors.Wrap(err, "reading root directory")
	}
	d, err := decodeDirectory(buf)
	if err != nil {
		return nil, err
	}
	d.firstBlock = block.DirectoryBlockFirst
	d.secondBlock = block.DirectoryBlockSecond
	return d, nil
}

// SaveRoot writes the root directory back to blocks 3-4.
func SaveRoot(backend storage.Backend, d *Directory) error {
	buf := encodeDirectory(d)
	return errors.Wrap(backend.WriteBlocks(block.DirectoryBlockFirst, 2, buf), "writing root directory")
}

// LoadSub reads a sub-directory's 2-block chain starting at start. The
// common case is that the two blocks are physically contiguous, enabling
// one read; otherwise the second block is located via the allocation
// table and read separately.
func LoadSub(backend storage.Backend, at alloctable.AT, start uint32) (*Directory, error) {
	next, err := at.Get(start)
	if err != nil {
		return nil, errors.Wrap(err, "reading sub-directory chain")
	}
	if next.IsFree() || next.IsEnd() {
		return nil, errors.Wrap(ensoniqerr.ErrFilesystemCorrupt, "sub-directory chain has fewer than two blocks")
	}
	second := next.Next()

	buf := make([]byte, combinedSize)
	if second == start+1 {
		if err := backend.ReadBlocks(start, 2, buf); err != nil {
			return nil, errors.Wrap(err, "reading sub-directory")
		}
	} else {
		if err := backend.ReadBlocks(start, 1, buf[:block.Size]); err != nil {
			return nil, errors.Wrap(err, "reading sub-directory first block")
		}
		if err := backend.ReadBlocks(second, 1, buf[block.Size:]); err != nil {
			return nil, errors.Wrap(err, "reading sub-directory second block")
		}
	}

	d, err := decodeDirectory(buf)
	if err != nil {
		return nil, err
	}
	d.firstBlock = start
	d.secondBlock = second
	return d, nil
}

// Save writes a sub-directory back to its original two blocks (which may
// be non-contiguous, per how it was loaded).
func Save(backend storage.Backend, d *Directory) error {
	buf := encodeDirectory(d)
	if d.secondBlock == d.firstBlock+1 {
		return errors.Wrap(backend.WriteBlocks(d.firstBlock, 2, buf), "writing sub-directory")
	}
	if err := backend.WriteBlocks(d.firstBlock, 1, buf[:block.Size]); err != nil {
		return errors.Wrap(err, "writing sub-directory first block")
	}
	return errors.Wrap(backend.WriteBlocks(d.secondBlock, 1, buf[block.Size:]), "writing sub-directory second block")
}

func decodeDirectory(buf []byte) (*Directory, error) {
	if string(buf[combinedSize-2:combinedSize]) != "DR" {
		return nil, errors.Wrap(ensoniqerr.ErrFilesystemCorrupt, `missing "DR" signature`)
	}

	d := &Directory{}
	for i := 0; i < block.DirectoryEntryCount; i++ {
		off := i * block.DirectoryEntrySize
		d.Entries[i] = decodeEntry(buf[off : off+block.DirectoryEntrySize])
	}
	return d, nil
}

// encodeDirectory serializes the 39 entries, zero-pads the remainder of
// the combined 1024-byte region, and writes the "DR" signature at its
// final two bytes (spec.md §9's resolved open question).
func encodeDirectory(d *Directory) []byte {
	return EncodeBlank(d.Entries)
}

// EncodeBlank serializes a bare 39-entry array into the 1024-byte
// directory-region layout (entries, zero padding, "DR" signature),
// without any backing Directory/block bookkeeping. Mkdir uses this to
// build a fresh sub-directory's initial content before it has blocks
// allocated to hold it.
func EncodeBlank(entries [block.DirectoryEntryCount]Entry) []byte {
	buf := make([]byte, combinedSize)
	for i := 0; i < block.DirectoryEntryCount; i++ {
		off := i * block.DirectoryEntrySize
		encodeEntry(entries[i], buf[off:off+block.DirectoryEntrySize])
	}
	// buf[block.DirectoryEntryCount*block.DirectoryEntrySize : combinedSize-2] is
	// already zero from make(); write the signature over its final two bytes.
	copy(buf[combinedSize-2:], "DR")
	return buf
}
