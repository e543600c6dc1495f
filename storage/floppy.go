package storage

import (
	"github.com/pkg/errors"

	"ensoniqfs/block"
	"ensoniqfs/ensoniqerr"
	"ensoniqfs/geometry"
)

// floppyReadRetries is how many times a track read is retried before the
// enclosing track is reported as failed.
const floppyReadRetries = 10

// FloppyController is the effective contract exposed by the physical
// floppy-controller driver layer: whole-track read, contiguous
// sector-range write, whole-track format, and a calibration step. The
// driver layer itself (direct controller commands, a device file, or an
// emulator) is an external collaborator and out of scope here.
type FloppyController interface {
	// Calibrate seeks the drive head to a known reference track.
	Calibrate() error

	// ReadTrack returns the whole track (sectorsPerTrack*block.Size bytes).
	ReadTrack(track, head int) ([]byte, error)

	// WriteSectors writes a contiguous run of sectors, starting at
	// startSector, within one track/head.
	WriteSectors(track, head, startSector int, data []byte) error

	// FormatTrack low-level formats one track/head with the given
	// sector-interleave factor.
	FormatTrack(track, head int, interleave int) error
}

// FloppyBackend is the floppy-diskette substrate. Arbitrary-range reads
// fetch the enclosing track(s) into a scratch buffer and copy out the
// requested blocks; writes are coalesced per track/head into a single
// contiguous sector-range write.
type FloppyBackend struct {
	ctrl            FloppyController
	sectorsPerTrack int
	calibrated      bool
}

// NewFloppyBackend wraps a floppy controller driven at the given density
// (geometry.SectorsPerTrackDD or geometry.SectorsPerTrackHD).
func NewFloppyBackend(ctrl FloppyController, sectorsPerTrack int) *FloppyBackend {
	return &FloppyBackend{ctrl: ctrl, sectorsPerTrack: sectorsPerTrack}
}

func (fb *FloppyBackend) ensureCalibrated() error {
	if fb.calibrated {
		return nil
	}
	if err := fb.ctrl.Calibrate(); err != nil {
		return errors.Wrap(ensoniqerr.ErrMediumIOError, err.Error())
	}
	fb.calibrated = true
	return nil
}

func (fb *FloppyBackend) readTrackRetried(track, head int) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt < floppyReadRetries; attempt++ {
		data, err := fb.ctrl.ReadTrack(track, head)
		if err == nil {
			return data, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

func (fb *FloppyBackend) ReadBlocks(start, count uint32, buf []byte) error {
	if err := checkBuf(buf, count); err != nil {
		return err
	}
	if err := fb.ensureCalibrated(); err != nil {
		return err
	}

	var failed []ensoniqerr.TrackError
	out := 0
	b := start
	end := start + count
	for b < end {
		loc := geometry.Locate(b, fb.sectorsPerTrack)
		trackStart := geometry.TrackStart(loc.Track, loc.Head, fb.sectorsPerTrack)
		trackEnd := trackStart + uint32(fb.sectorsPerTrack)

		trackData, err := fb.readTrackRetried(loc.Track, loc.Head)
		if err != nil {
			failed = append(failed, ensoniqerr.TrackError{Track: loc.Track, Head: loc.Head, Err: err})
			// Leave the corresponding buffer region as-is (zeroed); the
			// aggregate error below signals the caller to abort.
			advance := trackEnd - b
			if b+advance > end {
				advance = end - b
			}
			out += int(advance) * block.Size
			b += advance
			continue
		}

		for b < end && b < trackEnd {
			sectorOffset := int(b-trackStart) * block.Size
			copy(buf[out:out+block.Size], trackData[sectorOffset:sectorOffset+block.Size])
			out += block.Size
			b++
		}
	}

	if len(failed) > 0 {
		return &ensoniqerr.MediumIOError{Tracks: failed}
	}
	return nil
}

func (fb *FloppyBackend) WriteBlocks(start, count uint32, buf []byte) error {
	if err := checkBuf(buf, count); err != nil {
		return err
	}
	if err := fb.ensureCalibrated(); err != nil {
		return err
	}

	in := 0
	b := start
	end := start + count
	for b < end {
		loc := geometry.Locate(b, fb.sectorsPerTrack)
		trackStart := geometry.TrackStart(loc.Track, loc.Head, fb.sectorsPerTrack)
		trackEnd := trackStart + uint32(fb.sectorsPerTrack)

		runEnd := end
		if runEnd > trackEnd {
			runEnd = trackEnd
		}
		runBlocks := runEnd - b
		runBytes := int(runBlocks) * block.Size

		startSector := int(b - trackStart)
		if err := fb.ctrl.WriteSectors(loc.Track, loc.Head, startSector, buf[in:in+runBytes]); err != nil {
			// Floppy write failures are fatal: likely a write-protected medium.
			return errors.Wrap(ensoniqerr.ErrWriteProtected, err.Error())
		}

		in += runBytes
		b = runEnd
	}
	return nil
}

// FormatTrack low-level formats one track/head of the volume with the
// given sector-interleave factor (component H uses this to lay down
// fresh geometry before writing header/AT blocks).
func (fb *FloppyBackend) FormatTrack(track, head, interleave int) error {
	if err := fb.ensureCalibrated(); err != nil {
		return err
	}
	if err := fb.ctrl.FormatTrack(track, head, interleave); err != nil {
		return errors.Wrap(ensoniqerr.ErrWriteProtected, err.Error())
	}
	return nil
}

func (fb *FloppyBackend) Close() error {
	return nil
}
