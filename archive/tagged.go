package archive

import (
	"encoding/binary"

	"github.com/pkg/errors"

	"ensoniqfs/block"
	"ensoniqfs/ensoniqerr"
)

// taggedMagic is the 8-byte prelude identifying a tagged container.
var taggedMagic = [8]byte{'E', 'N', 'S', 'T', 'A', 'G', 'G', 0x00}

const (
	taggedMagicLen      = 8
	taggedTagCountLen    = 2
	taggedTagRecordLen   = 10
	taggedTagGeometry    = 1
	taggedTagImageOffset = 2
)

// TagRecord is one decoded tag record from a tagged container.
type TagRecord struct {
	Kind uint16

	// Geometry fields, valid when Kind == taggedTagGeometry.
	Sectors uint16
	Heads   uint16
	Tracks  uint16

	// Image location fields, valid when Kind == taggedTagImageOffset.
	ImageLength uint32
	ImageOffset uint32
}

// Tagged is a decoded tagged container: its tag records plus the raw
// image bytes that follow them.
type Tagged struct {
	Tags  []TagRecord
	Image []byte
}

// DecodeTagged parses the decode-only tagged container format: an 8-byte
// magic prelude, a 16-bit little-endian tag count, that many 10-byte tag
// records, then raw blocks, with an optional trailing annotation ignored.
func DecodeTagged(data []byte) (Tagged, error) {
	if len(data) < taggedMagicLen+taggedTagCountLen {
		return Tagged{}, errors.Wrap(ensoniqerr.ErrNotEnsoniqVolume, "tagged container shorter than its own header")
	}
	for i, b := range taggedMagic {
		if data[i] != b {
			return Tagged{}, errors.Wrap(ensoniqerr.ErrNotEnsoniqVolume, "missing tagged container magic")
		}
	}

	pos := taggedMagicLen
	count := binary.LittleEndian.Uint16(data[pos : pos+taggedTagCountLen])
	pos += taggedTagCountLen

	need := pos + int(count)*taggedTagRecordLen
	if len(data) < need {
		return Tagged{}, errors.Wrap(ensoniqerr.ErrFilesystemCorrupt, "tagged container truncated before tag records")
	}

	var imageOffset, imageLength uint32
	haveOffset := false

	tags := make([]TagRecord, 0, count)
	for i := uint16(0); i < count; i++ {
		rec := data[pos : pos+taggedTagRecordLen]
		pos += taggedTagRecordLen

		kind := binary.LittleEndian.Uint16(rec[0:2])
		tr := TagRecord{Kind: kind}

		switch kind {
		case taggedTagGeometry:
			tr.Sectors = binary.LittleEndian.Uint16(rec[2:4])
			tr.Heads = binary.LittleEndian.Uint16(rec[4:6])
			tr.Tracks = binary.LittleEndian.Uint16(rec[6:8])
		case taggedTagImageOffset:
			tr.ImageLength = binary.LittleEndian.Uint32(rec[2:6])
			tr.ImageOffset = binary.LittleEndian.Uint32(rec[6:10])
			imageLength, imageOffset = tr.ImageLength, tr.ImageOffset
			haveOffset = true
		}

		tags = append(tags, tr)
	}

	if !haveOffset {
		return Tagged{}, errors.Wrap(ensoniqerr.ErrFilesystemCorrupt, "tagged container missing image-offset tag")
	}

	end := int(imageOffset) + int(imageLength)
	if end > len(data) {
		return Tagged{}, errors.Wrap(ensoniqerr.ErrFilesystemCorrupt, "tagged container image extends past end of file")
	}
	if imageLength%block.Size != 0 {
		return Tagged{}, errors.Wrap(ensoniqerr.ErrFilesystemCorrupt, "tagged container image length is not block-aligned")
	}

	image := make([]byte, imageLength)
	copy(image, data[imageOffset:end])

	return Tagged{Tags: tags, Image: image}, nil
}

// EncodeTagged is unsupported: the tagged container is decode-only, since
// its annotation fields carry information this implementation has no
// source for.
func EncodeTagged(Tagged) ([]byte, error) {
	return nil, errors.Wrap(ensoniqerr.ErrUnsupportedConversion, "tagged container encoding is not supported")
}
