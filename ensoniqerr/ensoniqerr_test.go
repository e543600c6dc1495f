package ensoniqerr

import (
	"testing"

	"github.com/pkg/errors"
)

func TestWrappedSentinelCause(t *testing.T) {
	wrapped := errors.Wrap(ErrFilesystemCorrupt, "walking chain from block 12")
	if errors.Cause(wrapped) != ErrFilesystemCorrupt {
		t.Errorf("errors.Cause(wrapped) did not return the original sentinel")
	}
	if wrapped.Error() != "walking chain from block 12: filesystem corrupt" {
		t.Errorf("unexpected wrapped message: %q", wrapped.Error())
	}
}

func TestMediumIOErrorMessage(t *testing.T) {
	one := &MediumIOError{Tracks: []TrackError{{Track: 3, Head: 0, Err: errors.New("timeout")}}}
	if one.Error() != "medium I/O error: 1 track failed" {
		t.Errorf("Error() = %q", one.Error())
	}

	many := &MediumIOError{Tracks: []TrackError{
		{Track: 3, Head: 0, Err: errors.New("timeout")},
		{Track: 4, Head: 1, Err: errors.New("timeout")},
	}}
	if many.Error() != "medium I/O error: 2 tracks failed" {
		t.Errorf("Error() = %q", many.Error())
	}
}

func TestMediumIOErrorUnwrapsToSentinel(t *testing.T) {
	err := &MediumIOError{}
	if errors.Cause(err) != ErrMediumIOError {
		t.Errorf("errors.Cause on *MediumIOError should resolve to ErrMediumIOError via its Cause method")
	}
}
