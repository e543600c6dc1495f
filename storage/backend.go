// Package storage implements the block I/O backend (component A): a
// uniform read/write-blocks surface over three substrates (byte-granular
// file/device, coarse-granularity block device, floppy diskette) plus an
// in-memory test double. Engines above this package request block runs
// and never know which substrate is active.
package storage

import (
	"github.com/pkg/errors"

	"ensoniqfs/block"
	"ensoniqfs/ensoniqerr"
)

// Backend is the uniform surface every substrate implementation exposes.
// All offsets and counts are in blocks, not bytes.
type Backend interface {
	// ReadBlocks fills buf (which must be count*block.Size bytes) starting
	// at block index start.
	ReadBlocks(start, count uint32, buf []byte) error

	// WriteBlocks writes buf (count*block.Size bytes) starting at block
	// index start.
	WriteBlocks(start, count uint32, buf []byte) error

	// Close releases any resources (open file handles, scratch buffers)
	// held by the backend.
	Close() error
}

// checkBuf validates that buf is exactly count blocks long, wrapping
// ensoniqerr.ErrInvalidArgument on mismatch.
func checkBuf(buf []byte, count uint32) error {
	want := int(count) * block.Size
	if len(buf) != want {
		return errors.Wrapf(ensoniqerr.ErrInvalidArgument, "buffer is %d bytes, want %d for %d blocks", len(buf), want, count)
	}
	return nil
}
