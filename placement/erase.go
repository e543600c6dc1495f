package placement

import (
	"github.com/pkg/errors"

	"ensoniqfs/alloctable"
	"ensoniqfs/directory"
	"ensoniqfs/ensoniqerr"
)

// EraseResult reports what Erase freed, for the caller's free-block and
// OS-version bookkeeping.
type EraseResult struct {
	BlocksFreed  uint32
	WasOSFile    bool
	ClearOSField bool
}

// Erase frees slot's entire chain and clears its directory entry. A
// non-empty sub-directory cannot be erased: the check happens before any
// mutation (spec.md §8's boundary behavior).
func Erase(at alloctable.AT, dir *directory.Directory, slot int) (EraseResult, error) {
	if slot < 0 || slot >= len(dir.Entries) {
		return EraseResult{}, errors.Wrap(ensoniqerr.ErrInvalidArgument, "slot index out of range")
	}
	entry := dir.Entries[slot]
	if entry.Empty() {
		return EraseResult{}, errors.Wrap(ensoniqerr.ErrInvalidArgument, "slot is already empty")
	}
	if entry.Type.IsSubDirectory() && entry.Size > 0 {
		return EraseResult{}, errors.Wrap(ensoniqerr.ErrInvalidArgument, "sub-directory is not empty")
	}

	chain, err := alloctable.Walk(at, entry.Start)
	if err != nil {
		return EraseResult{}, errors.Wrap(err, "walking chain to erase")
	}

	for _, b := range chain {
		if err := at.Put(b, alloctable.Free); err != nil {
			return EraseResult{}, err
		}
	}

	dir.Entries[slot] = directory.Entry{}

	return EraseResult{
		BlocksFreed:  uint32(len(chain)),
		WasOSFile:    entry.Type.IsOSFile(),
		ClearOSField: entry.Type.IsOSFile(),
	}, nil
}
