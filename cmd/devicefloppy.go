package cmd

import (
	"io"
	"os"

	"github.com/pkg/errors"

	"ensoniqfs/block"
	"ensoniqfs/ensoniqerr"
	"ensoniqfs/geometry"
)

// deviceFloppyController implements storage.FloppyController over an
// ordinary device file (e.g. /dev/fd0), one of the contract
// implementations spec.md names as equally valid to direct controller
// commands or an emulator. Calibrate is a no-op: a device file has no
// separate seek-to-reference-track step.
type deviceFloppyController struct {
	f               *os.File
	sectorsPerTrack int
}

func newDeviceFloppyController(f *os.File, sectorsPerTrack int) *deviceFloppyController {
	return &deviceFloppyController{f: f, sectorsPerTrack: sectorsPerTrack}
}

func (d *deviceFloppyController) Calibrate() error {
	return nil
}

func (d *deviceFloppyController) ReadTrack(track, head int) ([]byte, error) {
	start := geometry.TrackStart(track, head, d.sectorsPerTrack)
	buf := make([]byte, d.sectorsPerTrack*block.Size)
	if _, err := d.f.Seek(int64(start)*block.Size, io.SeekStart); err != nil {
		return nil, errors.Wrapf(ensoniqerr.ErrMediumIOError, "seeking to track %d head %d: %v", track, head, err)
	}
	if _, err := io.ReadFull(d.f, buf); err != nil {
		return nil, errors.Wrapf(ensoniqerr.ErrMediumIOError, "reading track %d head %d: %v", track, head, err)
	}
	return buf, nil
}

func (d *deviceFloppyController) WriteSectors(track, head, startSector int, data []byte) error {
	start := geometry.TrackStart(track, head, d.sectorsPerTrack) + uint32(startSector)
	if _, err := d.f.Seek(int64(start)*block.Size, io.SeekStart); err != nil {
		return errors.Wrapf(ensoniqerr.ErrMediumIOError, "seeking to track %d head %d sector %d: %v", track, head, startSector, err)
	}
	if _, err := d.f.Write(data); err != nil {
		return errors.Wrapf(ensoniqerr.ErrMediumIOError, "writing track %d head %d sector %d: %v", track, head, startSector, err)
	}
	return nil
}

func (d *deviceFloppyController) FormatTrack(track, head int, interleave int) error {
	// A device file has no separate low-level format command; writing the
	// filler pattern across the track is the closest equivalent.
	buf := make([]byte, d.sectorsPerTrack*block.Size)
	block.FillInPlace(buf)
	return d.WriteSectors(track, head, 0, buf)
}
