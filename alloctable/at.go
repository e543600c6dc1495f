package alloctable

// AT is the allocation-table trait the placement and extraction engines
// call indifferently, regardless of whether the backend is direct
// (ordinary file) or cached (floppy, coarse-grained device, or any other
// non-byte-seekable medium).
type AT interface {
	// Get returns the decoded entry for block b.
	Get(b uint32) (Entry, error)

	// Put stores the entry for block b.
	Put(b uint32, e Entry) error

	// TotalBlocks returns the volume's total block count (used by the
	// chain walker to bound corrupt-chain detection).
	TotalBlocks() uint32

	// Flush commits any buffered AT state together with the caller's
	// already-built OS block (osBlock, 512 bytes) and root directory
	// (dirBlocks, 1024 bytes). A direct AT just writes each region with
	// its own call, since per-call overhead is cheap on an ordinary
	// file. A cached AT combines osBlock, dirBlocks, and the whole
	// table into one WriteBlocks call spanning blocks 0 through
	// 4+AT-block-count, the single-writer writeback spec.md §5
	// describes.
	Flush(osBlock, dirBlocks []byte) error
}
