package rks

import (
	"strconv"

	"github.com/pkg/errors"
)

// Sentinel errors. Wrapped errors returned by this package can be tested
// with errors.Is.
var (
	// ErrOutOfBounds is returned when a read would cross the end of the input.
	ErrOutOfBounds = errors.New("rks: read out of bounds")
	// ErrInvalidPadding is returned when PKCS#7 padding is absent or inconsistent.
	ErrInvalidPadding = errors.New("rks: invalid padding")
	// ErrCiphertextLength is returned when a ciphertext is not block aligned.
	ErrCiphertextLength = errors.New("rks: ciphertext is not a multiple of the block size")
	// ErrUnknownSchema is returned when no codec is registered for a record
	// name and format byte.
	ErrUnknownSchema = errors.New("rks: unknown schema")
	// ErrMalformedVarInt is returned for values outside the two-byte varint range.
	ErrMalformedVarInt = errors.New("rks: malformed varint")
	// ErrIncompleteSummary is returned together with a partially decoded
	// summary when the level counter tail is truncated.
	ErrIncompleteSummary = errors.New("rks: incomplete summary")
	// ErrRecordType is returned when a record value is handed to a codec
	// of a different schema.
	ErrRecordType = errors.New("rks: record type mismatch")
)

// Record names, as they appear in the archive container.
const (
	NameUser         = "user"
	NameSettings     = "settings"
	NameGameProgress = "gameProgress"
	NameGameKey      = "gameKey"
	NameGameRecord   = "gameRecord"
)

// canonical archive member order
var memberOrder = []string{NameUser, NameSettings, NameGameProgress, NameGameKey, NameGameRecord}

// --------------------------------------------------------------------

// Level is a chart difficulty tier.
type Level uint8

// Difficulty tiers, in bit order of the gameRecord masks.
const (
	EZ Level = iota
	HD
	IN
	AT
	Legacy

	// NumLevels is the number of tiers that carry scores in practice.
	NumLevels = 4
)

var levelNames = [...]string{"EZ", "HD", "IN", "AT", "Legacy"}

func (l Level) String() string {
	if l.isValid() {
		return levelNames[l]
	}
	return "Level(" + strconv.Itoa(int(l)) + ")"
}

func (l Level) isValid() bool { return l <= Legacy }

// MarshalText implements encoding.TextMarshaler.
func (l Level) MarshalText() ([]byte, error) {
	if !l.isValid() {
		return nil, errors.Errorf("rks: invalid level %d", uint8(l))
	}
	return []byte(levelNames[l]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Level) UnmarshalText(b []byte) error {
	for i, name := range levelNames {
		if name == string(b) {
			*l = Level(i)
			return nil
		}
	}
	return errors.Errorf("rks: unknown level %q", b)
}
