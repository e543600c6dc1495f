// Package archive implements the archival-format codec (component I):
// bidirectional translation between raw-sector images and the two
// skip-table container flavours, and decode-only support for the tagged
// container.
package archive

import "ensoniqfs/block"

// Flavor distinguishes the two skip-table container layouts.
type Flavor struct {
	Name       string
	Label      string // the ASCII label placed at header offset 2
	SkipStart  int    // byte offset of the skip table within the header block
	SkipLen    int    // length of the skip table, in bytes (one bit per block)
	MaxBlocks  uint32 // SkipLen * 8
}

// EPS and ASR are the two recognized skip-table flavours.
var (
	EPS = Flavor{Name: "EPS", Label: "EPS DISK IMAGE", SkipStart: 0xA0, SkipLen: 200, MaxBlocks: 200 * 8}
	ASR = Flavor{Name: "ASR", Label: "ASR DISK IMAGE", SkipStart: 0x60, SkipLen: 400, MaxBlocks: 400 * 8}
)

const (
	headerSentinelByte1 = 0x0D
	headerSentinelByte2 = 0x0A
	streamSentinel      = 0x1A

	offDiskType = block.Size - 1
	offLabel    = 2
)
