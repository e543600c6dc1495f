package storage

import (
	"github.com/pkg/errors"

	"ensoniqfs/block"
	"ensoniqfs/ensoniqerr"
)

// MemoryBackend is an in-memory test double implementing Backend directly
// over a []byte buffer. Engines above the storage package must not be
// able to tell it apart from a real substrate.
type MemoryBackend struct {
	data []byte
}

// NewMemoryBackend allocates a backend holding totalBlocks blocks, all
// zeroed.
func NewMemoryBackend(totalBlocks uint32) *MemoryBackend {
	return &MemoryBackend{data: make([]byte, int(totalBlocks)*block.Size)}
}

// NewMemoryBackendFromBytes wraps an existing byte slice (its length must
// be a multiple of block.Size).
func NewMemoryBackendFromBytes(data []byte) *MemoryBackend {
	return &MemoryBackend{data: data}
}

// Bytes exposes the whole backing buffer, for tests and for whole-image
// serialization (archival-format encode).
func (mb *MemoryBackend) Bytes() []byte {
	return mb.data
}

// TotalBlocks returns the number of blocks this backend holds.
func (mb *MemoryBackend) TotalBlocks() uint32 {
	return uint32(len(mb.data)) / block.Size
}

func (mb *MemoryBackend) ReadBlocks(start, count uint32, buf []byte) error {
	if err := checkBuf(buf, count); err != nil {
		return err
	}
	lo := int(start) * block.Size
	hi := lo + int(count)*block.Size
	if hi > len(mb.data) {
		return errors.Wrapf(ensoniqerr.ErrMediumIOError, "read past end of memory backend: block %d+%d", start, count)
	}
	copy(buf, mb.data[lo:hi])
	return nil
}

func (mb *MemoryBackend) WriteBlocks(start, count uint32, buf []byte) error {
	if err := checkBuf(buf, count); err != nil {
		return err
	}
	lo := int(start) * block.Size
	hi := lo + int(count)*block.Size
	if hi > len(mb.data) {
		return errors.Wrapf(ensoniqerr.ErrMediumIOError, "write past end of memory backend: block %d+%d", start, count)
	}
	copy(mb.data[lo:hi], buf)
	return nil
}

func (mb *MemoryBackend) Close() error {
	return nil
}
