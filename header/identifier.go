// Package header implements the volume header codec (component C): the
// identifier block, the OS block, and the signature checks that tell an
// Ensoniq volume apart from arbitrary media.
package header

import (
	"encoding/binary"

	"github.com/pkg/errors"

	"ensoniqfs/block"
	"ensoniqfs/ensoniqerr"
)

// Fixed byte offsets within the identifier block (block.IdentifierBlock).
const (
	offDeviceType    = 0
	offRemovable     = 1
	offVersion       = 2
	offSectorCount   = 5
	offHeadCount     = 6 // 2-byte field
	offTrackCount    = 9
	offBytesPerBlock = 10 // 4-byte BE
	offTotalBlocks   = 14 // 4-byte BE
	offMediumCode    = 18
	offDensityCode   = 19
	offLabelLeader   = 30
	offLabel         = 31
	labelLen         = 7
	offIDSignature   = 38
)

const (
	removableFlag = 0x80
	formatVersion = 0x01
	labelLeader   = 0xFF
)

// Identifier is the decoded content of the identifier block.
type Identifier struct {
	DeviceType  byte
	SectorCount uint8
	HeadCount   uint16
	TrackCount  uint8
	TotalBlocks uint32
	MediumCode  byte
	DensityCode byte
	Label       [labelLen]byte
}

// Build encodes an Identifier into a fresh 512-byte identifier block.
func Build(id Identifier) []byte {
	b := block.New()

	b[offDeviceType] = id.DeviceType
	b[offRemovable] = removableFlag
	b[offVersion] = formatVersion
	b[offSectorCount] = id.SectorCount
	binary.BigEndian.PutUint16(b[offHeadCount:], id.HeadCount)
	b[offTrackCount] = id.TrackCount
	binary.BigEndian.PutUint32(b[offBytesPerBlock:], block.Size)
	binary.BigEndian.PutUint32(b[offTotalBlocks:], id.TotalBlocks)
	b[offMediumCode] = id.MediumCode
	b[offDensityCode] = id.DensityCode
	b[offLabelLeader] = labelLeader
	copy(b[offLabel:offLabel+labelLen], id.Label[:])
	copy(b[offIDSignature:offIDSignature+2], "ID")

	return b
}

// ParseIdentifier decodes the identifier block and validates its "ID"
// signature.
func ParseIdentifier(b []byte) (Identifier, error) {
	if len(b) < block.Size {
		return Identifier{}, errors.Wrap(ensoniqerr.ErrNotEnsoniqVolume, "identifier block too short")
	}
	if string(b[offIDSignature:offIDSignature+2]) != "ID" {
		return Identifier{}, errors.Wrap(ensoniqerr.ErrNotEnsoniqVolume, `missing "ID" signature`)
	}

	var id Identifier
	id.DeviceType = b[offDeviceType]
	id.SectorCount = b[offSectorCount]
	id.HeadCount = binary.BigEndian.Uint16(b[offHeadCount:])
	id.TrackCount = b[offTrackCount]
	id.TotalBlocks = binary.BigEndian.Uint32(b[offTotalBlocks:])
	id.MediumCode = b[offMediumCode]
	id.DensityCode = b[offDensityCode]
	copy(id.Label[:], b[offLabel:offLabel+labelLen])

	return id, nil
}
