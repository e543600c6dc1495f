package alloctable

import (
	"github.com/pkg/errors"

	"ensoniqfs/block"
	"ensoniqfs/storage"
)

// Direct is the per-entry-seek AT implementation, used for ordinary files
// where a one-block read/write per Get/Put call is cheap.
type Direct struct {
	backend     storage.Backend
	totalBlocks uint32
	atBlocks    uint32
}

// NewDirect returns a Direct AT over backend for a volume with the given
// total block count.
func NewDirect(backend storage.Backend, totalBlocks uint32) *Direct {
	return &Direct{
		backend:     backend,
		totalBlocks: totalBlocks,
		atBlocks:    block.ATBlockCount(totalBlocks),
	}
}

func (d *Direct) locate(b uint32) (atBlock uint32, pos uint32) {
	sect := b / block.EntriesPerATBlock
	pos = b % block.EntriesPerATBlock
	return block.ATBlockFirst + sect, pos
}

func (d *Direct) Get(b uint32) (Entry, error) {
	atBlock, pos := d.locate(b)
	buf := block.New()
	if err := d.backend.ReadBlocks(atBlock, 1, buf); err != nil {
		return 0, errors.Wrapf(err, "reading AT block for entry %d", b)
	}
	off := pos * 3
	v := uint32(buf[off])<<16 | uint32(buf[off+1])<<8 | uint32(buf[off+2])
	return Entry(v), nil
}

func (d *Direct) Put(b uint32, e Entry) error {
	atBlock, pos := d.locate(b)
	buf := block.New()
	if err := d.backend.ReadBlocks(atBlock, 1, buf); err != nil {
		return errors.Wrapf(err, "reading AT block for entry %d", b)
	}
	off := pos * 3
	v := uint32(e)
	buf[off] = byte(v >> 16)
	buf[off+1] = byte(v >> 8)
	buf[off+2] = byte(v)
	copy(buf[510:512], "FB")
	return errors.Wrapf(d.backend.WriteBlocks(atBlock, 1, buf), "writing AT block for entry %d", b)
}

func (d *Direct) TotalBlocks() uint32 {
	return d.totalBlocks
}

// Flush writes the OS block and root directory each with their own
// call: on an ordinary file the per-call seek overhead Cached exists to
// avoid is cheap, so there is no combined-write contract to honor here.
func (d *Direct) Flush(osBlock, dirBlocks []byte) error {
	if err := d.backend.WriteBlocks(block.OSBlockIndex, 1, osBlock); err != nil {
		return errors.Wrap(err, "writing OS block")
	}
	return errors.Wrap(d.backend.WriteBlocks(block.DirectoryBlockFirst, 2, dirBlocks), "writing root directory")
}
