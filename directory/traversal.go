package directory

import (
	"github.com/pkg/errors"

	"ensoniqfs/alloctable"
	"ensoniqfs/ensoniqerr"
	"ensoniqfs/storage"
)

// Frame is one directory along a resolved path, paired with the slot
// index in its parent that refers to it (-1 for the root).
type Frame struct {
	Dir       *Directory
	ParentIdx int // slot index in Dir's parent that points to Dir; -1 for root
}

// Resolve walks a path of slot indices, each taken in the frame of
// reference of the directory reached so far, starting at the root.
// It returns the full chain of frames from root to the target directory
// (inclusive), which the caller uses both to reach the target and to
// maintain ancestor child-counts after a mutation.
func Resolve(backend storage.Backend, at alloctable.AT, root *Directory, path []int) ([]Frame, error) {
	frames := []Frame{{Dir: root, ParentIdx: -1}}

	current := root
	for _, idx := range path {
		if idx < 0 || idx >= len(current.Entries) {
			return nil, errors.Wrap(ensoniqerr.ErrInvalidArgument, "slot index out of range")
		}
		entry := current.Entries[idx]
		if !entry.Type.IsSubDirectory() {
			return nil, errors.Wrapf(ensoniqerr.ErrInvalidArgument, "slot %d is not a sub-directory", idx)
		}

		sub, err := LoadSub(backend, at, entry.Start)
		if err != nil {
			return nil, err
		}

		frames = append(frames, Frame{Dir: sub, ParentIdx: idx})
		current = sub
	}

	return frames, nil
}

// AllocateSlot finds the first unused slot searching from startAt
// (inclusive). Slot 0 is only ever returned when startAt is 0, matching
// the source's convention of slot 0 being reserved for deliberate use
// (typically an operating-system file entry, or the parent-pointer slot
// in a non-root directory).
func AllocateSlot(d *Directory, startAt int) (int, error) {
	for i := startAt; i < len(d.Entries); i++ {
		if d.Entries[i].Empty() {
			return i, nil
		}
	}
	return 0, ensoniqerr.ErrDirectoryFull
}

// ChildCount returns the number of non-empty slots in d, excluding the
// parent-pointer slot 0 if present. For a root directory (no parent
// pointer) slot 0 is included in the count if occupied.
func ChildCount(d *Directory) uint16 {
	var n uint16
	start := 0
	if len(d.Entries) > 0 && d.Entries[0].Type == TypeParentPtr {
		start = 1
	}
	for i := start; i < len(d.Entries); i++ {
		if !d.Entries[i].Empty() {
			n++
		}
	}
	return n
}

// SaveChain persists every non-root frame from the target back toward
// the root, updating each ancestor's child-count entry for the
// directory beneath it. Order: child directory first, then each
// ancestor in turn (spec.md §9 "Parent-count maintenance"). It returns
// the root directory's encoded bytes without writing them: blocks 3-4
// fall inside the fixed header region, so the caller combines them with
// the OS block and allocation table into one write (spec.md §5's cache
// writeback contract) rather than writing them here as a separate call.
func SaveChain(backend storage.Backend, frames []Frame) ([]byte, error) {
	for i := len(frames) - 1; i >= 1; i-- {
		f := frames[i]
		parent := frames[i-1].Dir
		parent.Entries[f.ParentIdx].Size = ChildCount(f.Dir)

		if err := Save(backend, f.Dir); err != nil {
			return nil, err
		}
	}
	return EncodeBlank(frames[0].Dir.Entries), nil
}
