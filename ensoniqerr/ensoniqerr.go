// Package ensoniqerr defines the sentinel error kinds reported by every
// layer of the volume engine. Callers identify a kind with errors.Cause,
// since every raising site wraps the sentinel with operation-specific
// context via github.com/pkg/errors.
package ensoniqerr

import (
	"strconv"

	"github.com/pkg/errors"
)

var (
	// ErrInvalidArgument marks a malformed selector, mode combination, or size.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotEnsoniqVolume marks a substrate missing the "ID"/"OS" header
	// signatures, or data that is not a recognised archival container.
	ErrNotEnsoniqVolume = errors.New("not an Ensoniq volume")

	// ErrWrongMedium marks an EPS-flavoured archive applied to an ASR volume, or vice versa.
	ErrWrongMedium = errors.New("archive flavour does not match volume medium")

	// ErrDirectoryFull marks a slot allocation that found no free directory entry.
	ErrDirectoryFull = errors.New("directory full")

	// ErrInsufficientSpace marks a free-block shortfall during insertion.
	ErrInsufficientSpace = errors.New("insufficient space")

	// ErrFilesystemCorrupt marks a free-block mismatch, stray chain, missing
	// signature, or out-of-range allocation table entry.
	ErrFilesystemCorrupt = errors.New("filesystem corrupt")

	// ErrNotAnInstrument marks a split or join requested on a non-instrument archive.
	ErrNotAnInstrument = errors.New("not an instrument archive")

	// ErrFileLengthMismatch marks a declared block count that disagrees with actual length.
	ErrFileLengthMismatch = errors.New("file length mismatch")

	// ErrUnsupportedConversion marks a container conversion direction that isn't implemented.
	ErrUnsupportedConversion = errors.New("unsupported conversion")

	// ErrMediumIOError marks a substrate-level read or write failure.
	ErrMediumIOError = errors.New("medium I/O error")

	// ErrWriteProtected marks a persistent write failure during floppy formatting.
	ErrWriteProtected = errors.New("medium is write protected")

	// ErrCancelled marks a user declining a confirmation prompt.
	ErrCancelled = errors.New("cancelled")

	// ErrCorruptChain marks an allocation-table walk that outran the volume's
	// block count or reached a free block.
	ErrCorruptChain = errors.New("corrupt chain")
)

// TrackError records a single floppy track that failed to read after retries.
type TrackError struct {
	Track int
	Head  int
	Err   error
}

// MediumIOError is the aggregate reported when one or more floppy tracks
// fail to read; the operation continues and collects these until completion.
type MediumIOError struct {
	Tracks []TrackError
}

func (e *MediumIOError) Error() string {
	if len(e.Tracks) == 1 {
		return "medium I/O error: 1 track failed"
	}
	return "medium I/O error: " + strconv.Itoa(len(e.Tracks)) + " tracks failed"
}

func (e *MediumIOError) Unwrap() error {
	return ErrMediumIOError
}

// Cause lets errors.Cause resolve a *MediumIOError to ErrMediumIOError.
func (e *MediumIOError) Cause() error {
	return ErrMediumIOError
}
