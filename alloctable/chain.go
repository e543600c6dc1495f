package alloctable

import (
	"github.com/pkg/errors"

	"ensoniqfs/ensoniqerr"
)

// Run is a maximal contiguous range of blocks within a chain, i.e. a
// stretch where each visited block is exactly one more than the last.
type Run struct {
	Start  uint32
	Length uint32
}

// Walk follows the chain starting at s, emitting each visited block
// (including the terminal one whose entry is End). It fails with
// ErrCorruptChain if it would visit more blocks than the volume holds,
// which means the chain loops or never terminates.
func Walk(at AT, s uint32) ([]uint32, error) {
	total := at.TotalBlocks()
	var chain []uint32

	cur := s
	for {
		if uint32(len(chain)) > total {
			return nil, errors.Wrapf(ensoniqerr.ErrCorruptChain, "chain from block %d exceeds %d blocks", s, total)
		}
		chain = append(chain, cur)

		e, err := at.Get(cur)
		if err != nil {
			return nil, err
		}
		if e.IsEnd() {
			return chain, nil
		}
		if e.IsFree() {
			return nil, errors.Wrapf(ensoniqerr.ErrCorruptChain, "chain from block %d hits a free block at %d", s, cur)
		}
		cur = e.Next()
	}
}

// Runs groups a chain (as produced by Walk) into maximal contiguous runs,
// the only abstraction the extraction engine needs to batch reads and the
// fragmented-insert path needs to batch writes.
func Runs(chain []uint32) []Run {
	if len(chain) == 0 {
		return nil
	}

	var runs []Run
	runStart := chain[0]
	runLen := uint32(1)

	for i := 1; i < len(chain); i++ {
		if chain[i] == chain[i-1]+1 {
			runLen++
			continue
		}
		runs = append(runs, Run{Start: runStart, Length: runLen})
		runStart = chain[i]
		runLen = 1
	}
	runs = append(runs, Run{Start: runStart, Length: runLen})

	return runs
}
