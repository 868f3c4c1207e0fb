package rks

import (
	"encoding/binary"
	"math"

	"github.com/pkg/errors"
)

// Writer builds a plaintext record. It mirrors Reader: byte-aligned writes
// flush a pending bit window into its own byte first, bit writes fill a
// byte LSB first and flush it after the 8th bit.
//
// Errors are sticky and reported by Err and Seal.
type Writer struct {
	buf []byte

	bitActive bool
	bitByte   byte
	bitPos    uint8

	err error
}

// NewWriter returns an empty writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Err returns the first error encountered.
func (w *Writer) Err() error { return w.err }

// Len returns the number of bytes written, including a pending bit window.
func (w *Writer) Len() int {
	if w.bitActive {
		return len(w.buf) + 1
	}
	return len(w.buf)
}

// Seal flushes any pending bits and returns the written bytes.
func (w *Writer) Seal() ([]byte, error) {
	w.flush()
	if w.err != nil {
		return nil, w.err
	}
	return w.buf, nil
}

func (w *Writer) fail(err error) {
	if w.err == nil {
		w.err = err
	}
}

func (w *Writer) flush() {
	if w.bitActive {
		w.buf = append(w.buf, w.bitByte)
		w.bitActive = false
		w.bitByte = 0
		w.bitPos = 0
	}
}

// WriteUint8 writes a single byte.
func (w *Writer) WriteUint8(v uint8) {
	w.flush()
	w.buf = append(w.buf, v)
}

// WriteUint16 writes a little-endian uint16.
func (w *Writer) WriteUint16(v uint16) {
	w.flush()
	w.buf = binary.LittleEndian.AppendUint16(w.buf, v)
}

// WriteUint32 writes a little-endian uint32.
func (w *Writer) WriteUint32(v uint32) {
	w.flush()
	w.buf = binary.LittleEndian.AppendUint32(w.buf, v)
}

// WriteFloat32 writes a little-endian IEEE 754 float.
func (w *Writer) WriteFloat32(v float32) {
	w.WriteUint32(math.Float32bits(v))
}

// WriteBit appends a bit to the current bit window.
func (w *Writer) WriteBit(v bool) {
	w.bitActive = true
	if v {
		w.bitByte |= 1 << w.bitPos
	}
	if w.bitPos++; w.bitPos == 8 {
		w.flush()
	}
}

// WriteFlags packs src into a single byte, LSB first.
func (w *Writer) WriteFlags(src []bool) {
	if len(src) > 8 {
		w.fail(errors.Errorf("rks: %d flags do not fit into a byte", len(src)))
		return
	}
	var b byte
	for i, v := range src {
		if v {
			b |= 1 << uint(i)
		}
	}
	w.WriteUint8(b)
}

// WriteVarInt writes a one or two byte varint. Values above MaxVarInt
// fail with ErrMalformedVarInt.
func (w *Writer) WriteVarInt(v int) {
	w.flush()
	buf, err := AppendVarInt(w.buf, v)
	if err != nil {
		w.fail(err)
		return
	}
	w.buf = buf
}

// WriteString writes a varint length-prefixed UTF-8 string.
func (w *Writer) WriteString(s string) {
	w.WriteVarInt(len(s))
	if w.err == nil {
		w.buf = append(w.buf, s...)
	}
}

// WriteBytes appends raw bytes.
func (w *Writer) WriteBytes(p []byte) {
	w.flush()
	w.buf = append(w.buf, p...)
}
