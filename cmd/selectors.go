package cmd

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"ensoniqfs/block"
	"ensoniqfs/ensoniqerr"
)

// ParseSlotSelector parses the mode-table's slot-selector grammar: a
// single integer, an inclusive range "a-b" (open upper "a-" meaning "to
// 38"), a comma-separated list combining both, or the literal "a"/"all"
// meaning every slot from 1 upward. Slot 0 is never returned by the bulk
// forms; a literal "0" is honored only when given explicitly.
func ParseSlotSelector(sel string) ([]int, error) {
	sel = strings.TrimSpace(sel)
	if sel == "a" || sel == "all" {
		slots := make([]int, 0, block.DirectoryEntryCount-1)
		for i := 1; i < block.DirectoryEntryCount; i++ {
			slots = append(slots, i)
		}
		return slots, nil
	}

	seen := make(map[int]bool)
	var slots []int
	for _, part := range strings.Split(sel, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			return nil, errors.Wrap(ensoniqerr.ErrInvalidArgument, "empty slot selector term")
		}

		if dash := strings.IndexByte(part, '-'); dash > 0 {
			lo, err := strconv.Atoi(part[:dash])
			if err != nil {
				return nil, errors.Wrapf(ensoniqerr.ErrInvalidArgument, "invalid range start %q", part[:dash])
			}
			hiStr := part[dash+1:]
			hi := block.DirectoryEntryCount - 1
			if hiStr != "" {
				hi, err = strconv.Atoi(hiStr)
				if err != nil {
					return nil, errors.Wrapf(ensoniqerr.ErrInvalidArgument, "invalid range end %q", hiStr)
				}
			}
			if lo > hi {
				return nil, errors.Wrapf(ensoniqerr.ErrInvalidArgument, "range %q is backwards", part)
			}
			for i := lo; i <= hi; i++ {
				if !seen[i] {
					seen[i] = true
					slots = append(slots, i)
				}
			}
			continue
		}

		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, errors.Wrapf(ensoniqerr.ErrInvalidArgument, "invalid slot %q", part)
		}
		if !seen[n] {
			seen[n] = true
			slots = append(slots, n)
		}
	}

	return slots, nil
}

// ParsePathSelector parses a "/"-joined sequence of integer slot indices,
// resolved relative to the root directory.
func ParsePathSelector(sel string) ([]int, error) {
	sel = strings.Trim(strings.TrimSpace(sel), "/")
	if sel == "" {
		return nil, nil
	}
	parts := strings.Split(sel, "/")
	path := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, errors.Wrapf(ensoniqerr.ErrInvalidArgument, "invalid path component %q", p)
		}
		path = append(path, n)
	}
	return path, nil
}
