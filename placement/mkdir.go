package placement

import (
	"ensoniqfs/alloctable"
	"ensoniqfs/block"
	"ensoniqfs/directory"
	"ensoniqfs/storage"
)

// Mkdir allocates a fresh, empty 2-block sub-directory, links its
// parent-pointer slot 0, and fills in the parent's directory entry for
// it (type 2, zero child count). The parent's child-count bookkeeping for
// its own ancestors is the caller's responsibility (directory.SaveChain).
func Mkdir(backend storage.Backend, at alloctable.AT, parent *directory.Directory, parentStartBlock uint32, startSlot int, name string) (int, error) {
	slot, err := directory.AllocateSlot(parent, startSlot)
	if err != nil {
		return 0, err
	}

	sub := &directory.Directory{}
	sub.Entries[0] = directory.Entry{
		Type:            directory.TypeParentPtr,
		Start:           parentStartBlock,
		ContiguousCount: uint16(slot),
	}

	data := directory.EncodeBlank(sub.Entries)

	start, contiguousCount, err := allocate(backend, at, 2, data)
	if err != nil {
		return 0, err
	}

	entry := directory.Entry{
		Type:            directory.TypeSubDirectory,
		Start:           start,
		ContiguousCount: contiguousCount,
		Size:            0,
	}
	entry.SetName(name)
	parent.Entries[slot] = entry

	return slot, nil
}
