package storage

import (
	"io"

	"github.com/pkg/errors"

	"ensoniqfs/block"
	"ensoniqfs/ensoniqerr"
)

// coarseChunkBlocks is the 2048-byte alignment granularity (4 blocks)
// required by coarse-grained block devices such as optical media.
const coarseChunkBlocks = 2048 / block.Size

// CoarseBackend is the coarse-granularity substrate: reads and writes must
// be aligned to 2048-byte (4-block) boundaries. A write is split into a
// prefix partial chunk, a contiguous run of whole aligned chunks, and a
// suffix partial chunk; only the partial chunks need a read-modify-write
// round trip. A read fetches each covering chunk in turn and copies out
// the requested blocks.
type CoarseBackend struct {
	raw io.ReadWriteSeeker
	c   io.Closer
}

// NewCoarseBackend wraps a raw handle that only supports 2048-byte-aligned
// transfers in multiples of 2048 bytes.
func NewCoarseBackend(raw io.ReadWriteSeeker) *CoarseBackend {
	cb := &CoarseBackend{raw: raw}
	if c, ok := raw.(io.Closer); ok {
		cb.c = c
	}
	return cb
}

func (cb *CoarseBackend) chunkOf(b uint32) uint32 {
	return b / coarseChunkBlocks
}

func (cb *CoarseBackend) readChunk(chunk uint32) ([]byte, error) {
	buf := make([]byte, coarseChunkBlocks*block.Size)
	if _, err := cb.raw.Seek(int64(chunk)*coarseChunkBlocks*block.Size, io.SeekStart); err != nil {
		return nil, errors.Wrapf(ensoniqerr.ErrMediumIOError, "seek to chunk %d: %v", chunk, err)
	}
	if _, err := io.ReadFull(cb.raw, buf); err != nil {
		return nil, errors.Wrapf(ensoniqerr.ErrMediumIOError, "read chunk %d: %v", chunk, err)
	}
	return buf, nil
}

func (cb *CoarseBackend) writeChunk(chunk uint32, buf []byte) error {
	if _, err := cb.raw.Seek(int64(chunk)*coarseChunkBlocks*block.Size, io.SeekStart); err != nil {
		return errors.Wrapf(ensoniqerr.ErrMediumIOError, "seek to chunk %d: %v", chunk, err)
	}
	if _, err := cb.raw.Write(buf); err != nil {
		return errors.Wrapf(ensoniqerr.ErrMediumIOError, "write chunk %d: %v", chunk, err)
	}
	return nil
}

func (cb *CoarseBackend) ReadBlocks(start, count uint32, buf []byte) error {
	if err := checkBuf(buf, count); err != nil {
		return err
	}

	firstChunk := cb.chunkOf(start)
	lastChunk := cb.chunkOf(start + count - 1)

	out := 0
	for chunk := firstChunk; chunk <= lastChunk; chunk++ {
		chunkBuf, err := cb.readChunk(chunk)
		if err != nil {
			return err
		}

		chunkFirstBlock := chunk * coarseChunkBlocks
		for i := 0; i < coarseChunkBlocks; i++ {
			b := chunkFirstBlock + uint32(i)
			if b < start || b >= start+count {
				continue
			}
			copy(buf[out:out+block.Size], chunkBuf[i*block.Size:(i+1)*block.Size])
			out += block.Size
		}
	}
	return nil
}

func (cb *CoarseBackend) WriteBlocks(start, count uint32, buf []byte) error {
	if err := checkBuf(buf, count); err != nil {
		return err
	}

	prefixCount := uint32(0)
	if rem := start % coarseChunkBlocks; rem != 0 {
		prefixCount = coarseChunkBlocks - rem
		if prefixCount > count {
			prefixCount = count
		}
	}

	start2 := start + prefixCount
	count2 := count - prefixCount
	middleCount := (count2 / coarseChunkBlocks) * coarseChunkBlocks
	suffixStart := start2 + middleCount
	suffixCount := count2 - middleCount

	in := 0

	if prefixCount > 0 {
		if err := cb.writePartial(start, buf[in:in+int(prefixCount)*block.Size]); err != nil {
			return err
		}
		in += int(prefixCount) * block.Size
	}

	if middleCount > 0 {
		chunk := cb.chunkOf(start2)
		nChunks := middleCount / coarseChunkBlocks
		if err := cb.writeChunksDirect(chunk, nChunks, buf[in:in+int(middleCount)*block.Size]); err != nil {
			return err
		}
		in += int(middleCount) * block.Size
	}

	if suffixCount > 0 {
		if err := cb.writePartial(suffixStart, buf[in:in+int(suffixCount)*block.Size]); err != nil {
			return err
		}
	}

	return nil
}

// writeChunksDirect writes n whole, already-aligned chunks in one transfer.
func (cb *CoarseBackend) writeChunksDirect(firstChunk, n uint32, data []byte) error {
	if _, err := cb.raw.Seek(int64(firstChunk)*coarseChunkBlocks*block.Size, io.SeekStart); err != nil {
		return errors.Wrapf(ensoniqerr.ErrMediumIOError, "seek to chunk %d: %v", firstChunk, err)
	}
	if _, err := cb.raw.Write(data); err != nil {
		return errors.Wrapf(ensoniqerr.ErrMediumIOError, "write %d chunks at %d: %v", n, firstChunk, err)
	}
	return nil
}

// writePartial read-modify-writes the single aligned chunk containing the
// given block range (which must fit within one chunk).
func (cb *CoarseBackend) writePartial(start uint32, data []byte) error {
	chunk := cb.chunkOf(start)
	chunkBuf, err := cb.readChunk(chunk)
	if err != nil {
		return err
	}

	offsetInChunk := (start - chunk*coarseChunkBlocks) * block.Size
	copy(chunkBuf[offsetInChunk:], data)

	return cb.writeChunk(chunk, chunkBuf)
}

func (cb *CoarseBackend) Close() error {
	if cb.c == nil {
		return nil
	}
	return cb.c.Close()
}
