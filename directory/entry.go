package directory

import (
	"bytes"
	"encoding/binary"
)

// Entry is one 26-byte directory slot (spec.md §3).
//
// For sub-directory entries (Type == TypeSubDirectory), Size holds the
// child count rather than a block size, and for parent-pointer entries
// (Type == TypeParentPtr) ContiguousCount holds the parent's slot index
// instead of a contiguous-run length.
type Entry struct {
	Reserved        uint8
	Type            TypeCode
	Name            [12]byte
	Size            uint16
	ContiguousCount uint16
	Start           uint32
	PartIndex       uint8
	Reserved2       [3]byte
}

// Empty reports whether this slot is unused.
func (e Entry) Empty() bool {
	return e.Type == TypeUnused
}

// NameString returns the space-padded 12-byte name as a trimmed string.
func (e Entry) NameString() string {
	return string(bytes.TrimRight(e.Name[:], " "))
}

// SetName copies s into the fixed-width name field, space-padding or
// truncating to 12 bytes.
func (e *Entry) SetName(s string) {
	for i := range e.Name {
		e.Name[i] = ' '
	}
	copy(e.Name[:], s)
}

// decodeEntry reads one 26-byte slot.
func decodeEntry(b []byte) Entry {
	var e Entry
	e.Reserved = b[0]
	e.Type = TypeCode(b[1])
	copy(e.Name[:], b[2:14])
	e.Size = binary.BigEndian.Uint16(b[14:16])
	e.ContiguousCount = binary.BigEndian.Uint16(b[16:18])
	e.Start = binary.BigEndian.Uint32(b[18:22])
	e.PartIndex = b[22]
	copy(e.Reserved2[:], b[23:26])
	return e
}

// encodeEntry writes one 26-byte slot.
func encodeEntry(e Entry, b []byte) {
	b[0] = e.Reserved
	b[1] = byte(e.Type)
	copy(b[2:14], e.Name[:])
	binary.BigEndian.PutUint16(b[14:16], e.Size)
	binary.BigEndian.PutUint16(b[16:18], e.ContiguousCount)
	binary.BigEndian.PutUint32(b[18:22], e.Start)
	b[22] = e.PartIndex
	copy(b[23:26], e.Reserved2[:])
}

// parentPointerEntry builds the type-8 slot-0 entry a non-root directory
// carries: Start is the parent directory's start block, ContiguousCount
// is the parent's slot index referring to this directory.
func parentPointerEntry(parentStart uint32, parentSlot int) Entry {
	return Entry{
		Type:            TypeParentPtr,
		Start:           parentStart,
		ContiguousCount: uint16(parentSlot),
	}
}
