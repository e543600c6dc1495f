// Package instrument implements the instrument splitter/joiner (component
// J): partitioning an oversized archival-wrapped instrument into
// disk-sized slices with corrected per-slice headers, and the inverse
// join back into a single file.
package instrument

import (
	"encoding/binary"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"ensoniqfs/block"
	"ensoniqfs/directory"
	"ensoniqfs/ensoniqerr"
	"ensoniqfs/extraction"
)

// Slice sizes, per spec.md §4.J. The ASR-super slice is deliberately the
// same 3176 blocks as plain ASR rather than the larger theoretical size
// the bigger medium would allow, because the hardware rejects bigger
// loads regardless of how much room the target disk has.
const (
	SliceBlocksEPS = 1585
	SliceBlocksASR = 3176
)

// Slice is one output file from Split: its rewritten header followed by
// its share of the original payload.
type Slice struct {
	Name string
	Data []byte
}

// blockCount reads the 2-byte block-count field out of an archival
// header; setBlockCount writes it back.
func blockCount(header []byte) uint16 {
	return binary.BigEndian.Uint16(header[extraction.OffsetSize : extraction.OffsetSize+2])
}

func setBlockCount(header []byte, n uint16) {
	binary.BigEndian.PutUint16(header[extraction.OffsetSize:extraction.OffsetSize+2], n)
}

func setPartIndex(header []byte, idx uint8) {
	header[extraction.OffsetPartIndex] = idx
}

// Split divides an archival-wrapped instrument file into slices of
// sliceBlocks blocks each, rewriting each slice's header with its own
// block count and a 1-based multi-part index. baseName (without
// extension) and dir seed the output names; dir is preserved verbatim.
func Split(data []byte, sliceBlocks int, baseName, dir string) ([]Slice, error) {
	if len(data) < block.Size {
		return nil, errors.Wrap(ensoniqerr.ErrNotAnInstrument, "archive shorter than one header block")
	}

	header := data[:block.Size]
	payload := data[block.Size:]

	if directory.TypeCode(header[extraction.OffsetType]) != directory.TypeInstrument {
		return nil, errors.Wrap(ensoniqerr.ErrNotAnInstrument, "archival header type byte is not instrument")
	}

	declared := blockCount(header)
	if int(declared)*block.Size != len(payload) {
		return nil, errors.Wrapf(ensoniqerr.ErrFileLengthMismatch,
			"header declares %d blocks, payload is %d bytes", declared, len(payload))
	}

	totalBlocks := len(payload) / block.Size
	if sliceBlocks <= 0 {
		return nil, errors.Wrap(ensoniqerr.ErrInvalidArgument, "slice size must be positive")
	}

	var slices []Slice
	part := uint8(1)
	for offset := 0; offset < totalBlocks; offset += sliceBlocks {
		n := sliceBlocks
		if offset+n > totalBlocks {
			n = totalBlocks - offset
		}

		sliceHeader := make([]byte, block.Size)
		copy(sliceHeader, header)
		setBlockCount(sliceHeader, uint16(n))
		setPartIndex(sliceHeader, part)

		sliceData := make([]byte, 0, block.Size+n*block.Size)
		sliceData = append(sliceData, sliceHeader...)
		sliceData = append(sliceData, payload[offset*block.Size:(offset+n)*block.Size]...)

		slices = append(slices, Slice{
			Name: filepath.Join(dir, fmt.Sprintf("%s.%d", baseName, part)),
			Data: sliceData,
		})
		part++
	}

	return slices, nil
}

// Join reconstructs a single archival instrument file from slices,
// stripping every header but the first and rewriting it with the summed
// block count and a multi-part index of zero. Slices must be supplied in
// part order.
func Join(slices [][]byte) ([]byte, error) {
	if len(slices) == 0 {
		return nil, errors.Wrap(ensoniqerr.ErrInvalidArgument, "no slices to join")
	}

	var totalBlocks int
	var payload []byte

	for i, s := range slices {
		if len(s) < block.Size {
			return nil, errors.Wrapf(ensoniqerr.ErrNotAnInstrument, "slice %d shorter than one header block", i)
		}
		header := s[:block.Size]
		body := s[block.Size:]

		if directory.TypeCode(header[extraction.OffsetType]) != directory.TypeInstrument {
			return nil, errors.Wrapf(ensoniqerr.ErrNotAnInstrument, "slice %d header type byte is not instrument", i)
		}

		declared := blockCount(header)
		if int(declared)*block.Size != len(body) {
			return nil, errors.Wrapf(ensoniqerr.ErrFileLengthMismatch,
				"slice %d declares %d blocks, payload is %d bytes", i, declared, len(body))
		}

		if i == 0 {
			payload = append(payload, header...)
		}
		payload = append(payload, body...)
		totalBlocks += int(declared)
	}

	setBlockCount(payload, uint16(totalBlocks))
	setPartIndex(payload, 0)

	return payload, nil
}

// BaseName strips a trailing ".N" part suffix (as produced by Split) from
// a slice file name, returning the name Join's output should use.
func BaseName(sliceName string) string {
	return strings.TrimSuffix(sliceName, filepath.Ext(sliceName))
}
