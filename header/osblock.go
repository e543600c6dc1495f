package header

import (
	"encoding/binary"

	"github.com/pkg/errors"

	"ensoniqfs/block"
	"ensoniqfs/ensoniqerr"
)

// Fixed byte offsets within the OS block (block.OSBlockIndex).
const (
	offFreeBlocks = 0 // 4-byte BE
	offOSVersion  = 4 // 4-byte, optional
	offOSSig      = 28
)

// OSBlock is the decoded content of the OS block: the free-block counter
// and the optional OS-version bytes written when an operating-system file
// is inserted.
type OSBlock struct {
	FreeBlocks uint32
	OSVersion  [4]byte
}

// BuildOSBlock encodes an OSBlock into a fresh 512-byte OS block.
func BuildOSBlock(os OSBlock) []byte {
	b := block.New()
	binary.BigEndian.PutUint32(b[offFreeBlocks:], os.FreeBlocks)
	copy(b[offOSVersion:offOSVersion+4], os.OSVersion[:])
	copy(b[offOSSig:offOSSig+2], "OS")
	return b
}

// ParseOSBlock decodes the OS block and validates its "OS" signature.
func ParseOSBlock(b []byte) (OSBlock, error) {
	if len(b) < block.Size {
		return OSBlock{}, errors.Wrap(ensoniqerr.ErrNotEnsoniqVolume, "OS block too short")
	}
	if string(b[offOSSig:offOSSig+2]) != "OS" {
		return OSBlock{}, errors.Wrap(ensoniqerr.ErrNotEnsoniqVolume, `missing "OS" signature`)
	}

	var os OSBlock
	os.FreeBlocks = binary.BigEndian.Uint32(b[offFreeBlocks:])
	copy(os.OSVersion[:], b[offOSVersion:offOSVersion+4])
	return os, nil
}

// SetFreeBlocks rewrites just the free-block counter in an already-built
// OS block buffer, leaving the rest (OS-version bytes, signature) intact.
func SetFreeBlocks(b []byte, freeBlocks uint32) {
	binary.BigEndian.PutUint32(b[offFreeBlocks:], freeBlocks)
}

// SetOSVersion rewrites the OS-version bytes in an already-built OS block
// buffer.
func SetOSVersion(b []byte, version [4]byte) {
	copy(b[offOSVersion:offOSVersion+4], version[:])
}

// ClearOSVersion zeroes the OS-version bytes, used when erasing an
// OS-type file (spec.md's resolved open question: only OS-type erasures
// clear this field).
func ClearOSVersion(b []byte) {
	for i := offOSVersion; i < offOSVersion+4; i++ {
		b[i] = 0
	}
}
