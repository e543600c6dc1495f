package storage

import (
	"io"

	"github.com/pkg/errors"

	"ensoniqfs/block"
	"ensoniqfs/ensoniqerr"
)

// FileBackend is the byte-granularity substrate: an ordinary image file or
// a block device that supports arbitrary-offset seeks. No caching is
// needed since every read or write is a direct seek-and-transfer.
type FileBackend struct {
	f io.ReadWriteSeeker
	c io.Closer
}

// NewFileBackend wraps an already-open, seekable file or device handle.
func NewFileBackend(f io.ReadWriteSeeker) *FileBackend {
	fb := &FileBackend{f: f}
	if c, ok := f.(io.Closer); ok {
		fb.c = c
	}
	return fb
}

func (fb *FileBackend) ReadBlocks(start, count uint32, buf []byte) error {
	if err := checkBuf(buf, count); err != nil {
		return err
	}
	if _, err := fb.f.Seek(int64(start)*block.Size, io.SeekStart); err != nil {
		return errors.Wrapf(ensoniqerr.ErrMediumIOError, "seek to block %d: %v", start, err)
	}
	if _, err := io.ReadFull(fb.f, buf); err != nil {
		return errors.Wrapf(ensoniqerr.ErrMediumIOError, "read %d blocks from %d: %v", count, start, err)
	}
	return nil
}

func (fb *FileBackend) WriteBlocks(start, count uint32, buf []byte) error {
	if err := checkBuf(buf, count); err != nil {
		return err
	}
	if _, err := fb.f.Seek(int64(start)*block.Size, io.SeekStart); err != nil {
		return errors.Wrapf(ensoniqerr.ErrMediumIOError, "seek to block %d: %v", start, err)
	}
	if _, err := fb.f.Write(buf); err != nil {
		return errors.Wrapf(ensoniqerr.ErrMediumIOError, "write %d blocks at %d: %v", count, start, err)
	}
	return nil
}

func (fb *FileBackend) Close() error {
	if fb.c == nil {
		return nil
	}
	return fb.c.Close()
}
