package alloctable

import (
	"github.com/pkg/errors"

	"ensoniqfs/block"
	"ensoniqfs/storage"
)

// Cached is the whole-table-in-memory AT implementation, used whenever
// the substrate is a floppy, a coarse-grained block device, or any other
// medium where per-entry seeks dominate runtime. It loads the entire
// table on construction and, on Flush, combines it with the caller's OS
// block and root directory into a single header-region write.
type Cached struct {
	backend     storage.Backend
	totalBlocks uint32
	atBlocks    uint32
	entries     []Entry
	dirty       bool
}

// LoadCached reads the whole allocation table from backend into memory.
func LoadCached(backend storage.Backend, totalBlocks uint32) (*Cached, error) {
	atBlocks := block.ATBlockCount(totalBlocks)

	c := &Cached{
		backend:     backend,
		totalBlocks: totalBlocks,
		atBlocks:    atBlocks,
		entries:     make([]Entry, atBlocks*block.EntriesPerATBlock),
	}

	buf := make([]byte, int(atBlocks)*block.Size)
	if err := backend.ReadBlocks(block.ATBlockFirst, atBlocks, buf); err != nil {
		return nil, errors.Wrap(err, "loading allocation table")
	}

	for i := uint32(0); i < atBlocks; i++ {
		base := i * block.Size
		for pos := 0; pos < block.EntriesPerATBlock; pos++ {
			off := base + uint32(pos*3)
			v := uint32(buf[off])<<16 | uint32(buf[off+1])<<8 | uint32(buf[off+2])
			c.entries[i*block.EntriesPerATBlock+uint32(pos)] = Entry(v)
		}
	}

	return c, nil
}

// NewCachedEmpty builds an all-free in-memory AT, for use by the
// formatter before any entries have been written to the backend.
func NewCachedEmpty(backend storage.Backend, totalBlocks uint32) *Cached {
	atBlocks := block.ATBlockCount(totalBlocks)
	return &Cached{
		backend:     backend,
		totalBlocks: totalBlocks,
		atBlocks:    atBlocks,
		entries:     make([]Entry, atBlocks*block.EntriesPerATBlock),
		dirty:       true,
	}
}

func (c *Cached) Get(b uint32) (Entry, error) {
	if b >= uint32(len(c.entries)) {
		return 0, errors.Errorf("AT entry %d out of range", b)
	}
	return c.entries[b], nil
}

func (c *Cached) Put(b uint32, e Entry) error {
	if b >= uint32(len(c.entries)) {
		return errors.Errorf("AT entry %d out of range", b)
	}
	c.entries[b] = e
	c.dirty = true
	return nil
}

func (c *Cached) TotalBlocks() uint32 {
	return c.totalBlocks
}

// Flush writes back the caller's OS block and root directory together
// with the whole AT in one combined call spanning blocks 0 through
// 4+atBlocks (filler, identifier, OS block, root directory, AT), the
// single-writer writeback described in spec.md §5. The filler and
// identifier blocks are re-read from the backend rather than cached,
// since Insert/Erase/Mkdir never mutate them.
func (c *Cached) Flush(osBlock, dirBlocks []byte) error {
	if !c.dirty {
		return nil
	}
	if len(osBlock) != block.Size {
		return errors.Errorf("OS block must be %d bytes, got %d", block.Size, len(osBlock))
	}
	if len(dirBlocks) != 2*block.Size {
		return errors.Errorf("root directory must be %d bytes, got %d", 2*block.Size, len(dirBlocks))
	}

	overhead := block.ATBlockFirst + c.atBlocks
	buf := make([]byte, int(overhead)*block.Size)

	if err := c.backend.ReadBlocks(block.NullBlock, 2, buf[:2*block.Size]); err != nil {
		return errors.Wrap(err, "reading filler/identifier blocks for combined flush")
	}
	copy(buf[2*block.Size:3*block.Size], osBlock)
	copy(buf[3*block.Size:5*block.Size], dirBlocks)

	atBuf := buf[5*block.Size:]
	for i := uint32(0); i < c.atBlocks; i++ {
		base := i * block.Size
		for pos := 0; pos < block.EntriesPerATBlock; pos++ {
			off := base + uint32(pos*3)
			v := uint32(c.entries[i*block.EntriesPerATBlock+uint32(pos)])
			atBuf[off] = byte(v >> 16)
			atBuf[off+1] = byte(v >> 8)
			atBuf[off+2] = byte(v)
		}
		copy(atBuf[base+510:base+512], "FB")
	}

	if err := c.backend.WriteBlocks(block.NullBlock, overhead, buf); err != nil {
		return errors.Wrap(err, "flushing header region and allocation table")
	}
	c.dirty = false
	return nil
}
