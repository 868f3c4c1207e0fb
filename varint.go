package rks

import "github.com/pkg/errors"

// MaxVarInt is the largest value representable by the two-byte varint.
const MaxVarInt = 1<<15 - 1

// VarIntLen returns the encoded size of v, or 0 when v is out of range.
func VarIntLen(v int) int {
	switch {
	case v < 0 || v > MaxVarInt:
		return 0
	case v > 0x7f:
		return 2
	default:
		return 1
	}
}

// AppendVarInt appends the encoded form of v to dst.
//
// Values up to 127 take one byte. Larger values store their low 7 bits
// with the 0x80 continuation flag, followed by bits 7..14 in a full second
// byte.
// There is no third byte: values above MaxVarInt are rejected.
func AppendVarInt(dst []byte, v int) ([]byte, error) {
	switch {
	case v < 0 || v > MaxVarInt:
		return dst, errors.Wrapf(ErrMalformedVarInt, "value %d outside [0, %d]", v, MaxVarInt)
	case v > 0x7f:
		return append(dst, byte(v&0x7f)|0x80, byte(v>>7)), nil
	default:
		return append(dst, byte(v)), nil
	}
}

// ParseVarInt decodes a varint from the start of b and returns the value
// and the number of bytes consumed.
func ParseVarInt(b []byte) (int, int, error) {
	if len(b) < 1 {
		return 0, 0, errors.Wrap(ErrOutOfBounds, "varint")
	}
	if b[0] < 0x80 {
		return int(b[0]), 1, nil
	}
	if len(b) < 2 {
		return 0, 0, errors.Wrap(ErrOutOfBounds, "varint continuation byte")
	}
	return int(b[0]&0x7f) | int(b[1])<<7, 2, nil
}
