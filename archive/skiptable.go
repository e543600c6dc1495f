package archive

import (
	"bytes"

	"github.com/pkg/errors"

	"ensoniqfs/alloctable"
	"ensoniqfs/block"
	"ensoniqfs/ensoniqerr"
	"ensoniqfs/storage"
)

// Encode translates a raw volume into a skip-table container of the
// given flavor. A block is marked skipped in the table exactly when the
// allocation table reports it free; every other block is copied into the
// stream. The stream is terminated with the 0x1A sentinel.
func Encode(backend storage.Backend, at alloctable.AT, flavor Flavor, diskType byte) ([]byte, error) {
	total := at.TotalBlocks()
	if total > flavor.MaxBlocks {
		return nil, errors.Wrapf(ensoniqerr.ErrInvalidArgument,
			"%s container holds at most %d blocks, volume has %d", flavor.Name, flavor.MaxBlocks, total)
	}

	header := block.New()
	header[0], header[1] = headerSentinelByte1, headerSentinelByte2
	copy(header[offLabel:], flavor.Label)
	header[offDiskType] = diskType

	skip := header[flavor.SkipStart : flavor.SkipStart+flavor.SkipLen]

	var out bytes.Buffer
	out.Write(header)

	for b := uint32(0); b < total; b++ {
		e, err := at.Get(b)
		if err != nil {
			return nil, err
		}

		byteIdx := b / 8
		bitIdx := uint(7 - b%8)

		if e.IsFree() {
			skip[byteIdx] |= 1 << bitIdx
			continue
		}

		buf := block.New()
		if err := backend.ReadBlocks(b, 1, buf); err != nil {
			return nil, errors.Wrapf(err, "reading block %d", b)
		}
		out.Write(buf)
	}

	out.WriteByte(streamSentinel)

	// The header's skip-table bits were set after it was already written
	// to out; patch the copy in out's backing buffer.
	result := out.Bytes()
	copy(result[flavor.SkipStart:flavor.SkipStart+flavor.SkipLen], skip)

	return result, nil
}

// Decode translates a skip-table container of the given flavor back into
// a raw image of totalBlocks blocks. Skipped blocks are reconstructed as
// filler blocks. Mac-line-ending-corrupted input (every 0x0A byte doubled
// to 0x0D 0x0A) is detected and repaired before decoding.
func Decode(data []byte, flavor Flavor, totalBlocks uint32) ([]byte, error) {
	data = RepairMacLineEndings(data)

	if len(data) < block.Size {
		return nil, errors.Wrap(ensoniqerr.ErrNotEnsoniqVolume, "container shorter than one header block")
	}
	if data[0] != headerSentinelByte1 || data[1] != headerSentinelByte2 {
		return nil, errors.Wrap(ensoniqerr.ErrNotEnsoniqVolume, "missing container header sentinel")
	}

	labelBytes := data[offLabel : offLabel+len(flavor.Label)]
	if string(labelBytes) != flavor.Label {
		return nil, errors.Wrap(ensoniqerr.ErrWrongMedium, "container label does not match expected flavor")
	}

	skip := data[flavor.SkipStart : flavor.SkipStart+flavor.SkipLen]

	out := make([]byte, int(totalBlocks)*block.Size)
	pos := block.Size // past the header block

	for b := uint32(0); b < totalBlocks; b++ {
		byteIdx := b / 8
		bitIdx := uint(7 - b%8)
		skipped := int(byteIdx) < len(skip) && skip[byteIdx]&(1<<bitIdx) != 0

		dst := out[int(b)*block.Size : int(b+1)*block.Size]
		if skipped {
			block.FillInPlace(dst)
			continue
		}

		if pos+block.Size > len(data) {
			return nil, errors.Wrap(ensoniqerr.ErrFilesystemCorrupt, "container truncated before declared block count")
		}
		copy(dst, data[pos:pos+block.Size])
		pos += block.Size
	}

	return out, nil
}

// DetectFlavor identifies which skip-table flavor a container's header
// claims to be.
func DetectFlavor(header []byte) (Flavor, error) {
	if len(header) < block.Size {
		return Flavor{}, errors.Wrap(ensoniqerr.ErrNotEnsoniqVolume, "container shorter than one header block")
	}
	for _, f := range []Flavor{EPS, ASR} {
		labelBytes := header[offLabel : offLabel+len(f.Label)]
		if string(labelBytes) == f.Label {
			return f, nil
		}
	}
	return Flavor{}, errors.Wrap(ensoniqerr.ErrNotEnsoniqVolume, "unrecognized container label")
}

// RepairMacLineEndings detects the "Mac-line-ending corruption" (a
// producer having doubled every 0x0A byte to 0x0D 0x0A across the whole
// file) and, if present, returns a repaired copy substituting 0x0A for
// every 0x0D 0x0A occurrence. If the corruption isn't detected, data is
// returned unchanged.
func RepairMacLineEndings(data []byte) []byte {
	if len(data) < 3 || data[0] != 0x0A || data[1] != 0x0D || data[2] != 0x0D {
		return data
	}
	return bytes.ReplaceAll(data, []byte{0x0D, 0x0A}, []byte{0x0A})
}
