package alloctable

import "ensoniqfs/block"

// Counts walks every entry in the table and reports how many are free vs.
// allocated. Used by the integrity checker, and by the formatter's tests
// to verify a freshly written table.
func Counts(at AT) (allocated, free uint32, err error) {
	total := at.TotalBlocks()
	for b := uint32(0); b < total; b++ {
		e, getErr := at.Get(b)
		if getErr != nil {
			return 0, 0, getErr
		}
		if e.IsFree() {
			free++
		} else {
			allocated++
		}
	}
	return allocated, free, nil
}

// FirstDataBlock returns the first block index available for file data on
// a volume with the given total block count (the allocation table itself,
// plus the five fixed header blocks, precede it).
func FirstDataBlock(total uint32) uint32 {
	return block.FirstDataBlock(total)
}
