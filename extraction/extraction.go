// Package extraction implements the file extraction engine (component
// G): walking a directory entry's chain, reconstructing contiguous runs
// where possible, and emitting the synthetic archival preamble ahead of
// the file's data.
package extraction

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"

	"ensoniqfs/alloctable"
	"ensoniqfs/block"
	"ensoniqfs/directory"
	"ensoniqfs/storage"
)

const (
	preambleTag = "Eps File:       " // 16 bytes
)

// Archival-header field offsets, shared with the instrument splitter/
// joiner. The type byte sits at offset 50 (0x32); spec.md 4.J's "0x34-0x35"
// shorthand for the block-count field is one byte off from the detailed
// byte-by-byte layout in 4.G, which is authoritative here since it lays
// out every field rather than abbreviating.
const (
	OffsetType            = 50
	OffsetSize             = 51 // 2 bytes, big-endian block count
	OffsetContiguousCount  = 53 // 2 bytes
	OffsetStartLow16       = 55 // 2 bytes
	OffsetPartIndex        = 57 // 1 byte
)

// Preamble builds the 512-byte synthetic archival header written ahead
// of every extracted file's data.
func Preamble(e directory.Entry) []byte {
	b := block.New()

	b[0], b[1] = 0x0D, 0x0A
	copy(b[2:18], preambleTag)
	copy(b[18:30], e.Name[:])
	copy(b[30:37], e.Type.ShortName())
	// b[37:47] is left as space-padding to match the surrounding text fields.
	for i := 37; i < 47; i++ {
		b[i] = ' '
	}
	b[47], b[48], b[49] = 0x0D, 0x0A, 0x1A
	b[OffsetType] = byte(e.Type)
	binary.BigEndian.PutUint16(b[OffsetSize:OffsetSize+2], e.Size)
	binary.BigEndian.PutUint16(b[OffsetContiguousCount:OffsetContiguousCount+2], e.ContiguousCount)
	binary.BigEndian.PutUint16(b[OffsetStartLow16:OffsetStartLow16+2], uint16(e.Start))
	b[OffsetPartIndex] = e.PartIndex

	return b
}

// Extract walks entry's chain and writes the archival preamble followed
// by the file's data blocks into sink, coalescing contiguous runs of the
// walked chain into batched reads. The entry's ContiguousCount is not
// consulted.
func Extract(backend storage.Backend, at alloctable.AT, entry directory.Entry, sink io.Writer) error {
	if _, err := sink.Write(Preamble(entry)); err != nil {
		return errors.Wrap(err, "writing archival preamble")
	}

	chain, err := alloctable.Walk(at, entry.Start)
	if err != nil {
		return errors.Wrap(err, "walking file chain")
	}

	runs := alloctable.Runs(chain)
	for _, run := range runs {
		buf := make([]byte, int(run.Length)*block.Size)
		if err := backend.ReadBlocks(run.Start, run.Length, buf); err != nil {
			return errors.Wrapf(err, "reading run at block %d", run.Start)
		}
		if _, err := sink.Write(buf); err != nil {
			return errors.Wrap(err, "writing file data")
		}
	}

	return nil
}

// RunCount reports how many I/O calls Extract would need for entry's
// chain, a testable property from spec.md §8.
func RunCount(at alloctable.AT, entry directory.Entry) (int, error) {
	chain, err := alloctable.Walk(at, entry.Start)
	if err != nil {
		return 0, err
	}
	return len(alloctable.Runs(chain)), nil
}
