package rks

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/pkg/errors"
)

// Reader is a cursor over a plaintext record. Byte-aligned reads are
// little-endian and always close an open bit window first; bit reads
// consume a byte LSB first, advancing the position once all 8 bits are
// taken or a byte-aligned read follows.
//
// Errors are sticky: after the first failure every read returns a zero
// value and Err reports the cause.
type Reader struct {
	buf []byte
	pos int

	bitActive bool
	bitByte   byte
	bitPos    uint8

	err   error
	diags []string
}

// NewReader wraps a plaintext buffer.
func NewReader(b []byte) *Reader {
	return &Reader{buf: b}
}

// Err returns the first error encountered.
func (r *Reader) Err() error { return r.err }

// Pos returns the byte position. A byte whose bits are partially read
// is counted as consumed.
func (r *Reader) Pos() int {
	if r.bitActive {
		return r.pos + 1
	}
	return r.pos
}

// Len returns the size of the underlying buffer.
func (r *Reader) Len() int { return len(r.buf) }

// Remaining returns the number of unconsumed bytes.
func (r *Reader) Remaining() int { return len(r.buf) - r.Pos() }

// SetPos closes any open bit window and moves the cursor to pos.
func (r *Reader) SetPos(pos int) {
	if r.err != nil {
		return
	}
	r.align()
	if pos < 0 || pos > len(r.buf) {
		r.fail(errors.Wrapf(ErrOutOfBounds, "seek to %d, len=%d", pos, len(r.buf)))
		return
	}
	r.pos = pos
}

// Diagnostics returns non-fatal observations made by decoders.
func (r *Reader) Diagnostics() []string { return r.diags }

func (r *Reader) warnf(format string, args ...interface{}) {
	r.diags = append(r.diags, fmt.Sprintf(format, args...))
}

func (r *Reader) fail(err error) {
	if r.err == nil {
		r.err = err
	}
}

func (r *Reader) align() {
	if r.bitActive {
		r.bitActive = false
		r.bitPos = 0
		r.pos++
	}
}

// next closes the bit window and returns the next n bytes.
func (r *Reader) next(n int) []byte {
	if r.err != nil {
		return nil
	}
	r.align()
	if n < 0 || n > len(r.buf)-r.pos {
		r.fail(errors.Wrapf(ErrOutOfBounds, "read %d bytes at %d, len=%d", n, r.pos, len(r.buf)))
		return nil
	}
	p := r.buf[r.pos : r.pos+n]
	r.pos += n
	return p
}

// ReadUint8 reads a single byte.
func (r *Reader) ReadUint8() uint8 {
	if p := r.next(1); p != nil {
		return p[0]
	}
	return 0
}

// ReadUint16 reads a little-endian uint16.
func (r *Reader) ReadUint16() uint16 {
	if p := r.next(2); p != nil {
		return binary.LittleEndian.Uint16(p)
	}
	return 0
}

// ReadUint32 reads a little-endian uint32.
func (r *Reader) ReadUint32() uint32 {
	if p := r.next(4); p != nil {
		return binary.LittleEndian.Uint32(p)
	}
	return 0
}

// ReadFloat32 reads a little-endian IEEE 754 float.
func (r *Reader) ReadFloat32() float32 {
	return math.Float32frombits(r.ReadUint32())
}

// ReadBit reads the next bit of the current bit window, opening a window
// on the next byte if none is active.
func (r *Reader) ReadBit() bool {
	if r.err != nil {
		return false
	}
	if !r.bitActive {
		if r.pos >= len(r.buf) {
			r.fail(errors.Wrapf(ErrOutOfBounds, "read bit at %d, len=%d", r.pos, len(r.buf)))
			return false
		}
		r.bitByte = r.buf[r.pos]
		r.bitActive = true
		r.bitPos = 0
	}

	bit := r.bitByte>>r.bitPos&1 == 1
	if r.bitPos++; r.bitPos == 8 {
		r.align()
	}
	return bit
}

// ReadFlags reads one whole byte and unpacks its low len(dst) bits into
// dst, LSB first. Remaining high bits are discarded.
func (r *Reader) ReadFlags(dst []bool) {
	b := r.ReadUint8()
	for i := range dst {
		dst[i] = b>>uint(i)&1 == 1
	}
}

// ReadVarInt reads a one or two byte varint.
func (r *Reader) ReadVarInt() int {
	if r.err != nil {
		return 0
	}
	r.align()
	v, n, err := ParseVarInt(r.buf[r.pos:])
	if err != nil {
		r.fail(errors.Wrapf(err, "at %d", r.pos))
		return 0
	}
	r.pos += n
	return v
}

// ReadString reads a varint length-prefixed UTF-8 string.
func (r *Reader) ReadString() string {
	n := r.ReadVarInt()
	return string(r.next(n))
}

// ReadBytes reads n bytes into a newly allocated slice.
func (r *Reader) ReadBytes(n int) []byte {
	p := r.next(n)
	if p == nil {
		return nil
	}
	return append(make([]byte, 0, n), p...)
}
