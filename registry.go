package rks

import (
	"sort"

	"github.com/pkg/errors"
)

// Record is a decoded archive entry. Implementations are the pointer types
// of User, Settings, GameKeyV2, GameKeyV3, GameProgressV3, GameProgressV4
// and GameRecord.
type Record interface {
	// Name returns the archive member name.
	Name() string
	// Version returns the format byte that precedes the ciphertext.
	Version() byte

	decode(r *Reader)
	encode(w *Writer)
}

type schemaKey struct {
	name    string
	version byte
}

var registry = map[schemaKey]func() Record{
	{NameUser, 0x01}:         func() Record { return new(User) },
	{NameSettings, 0x01}:     func() Record { return new(Settings) },
	{NameGameKey, 0x02}:      func() Record { return new(GameKeyV2) },
	{NameGameKey, 0x03}:      func() Record { return new(GameKeyV3) },
	{NameGameProgress, 0x03}: func() Record { return new(GameProgressV3) },
	{NameGameProgress, 0x04}: func() Record { return new(GameProgressV4) },
	{NameGameRecord, 0x01}:   func() Record { return new(GameRecord) },
}

// Schema is the codec of one record layout.
type Schema struct {
	Name    string
	Version byte

	newRecord func() Record
}

// Resolve looks up the schema of a record name and format byte. It returns
// ErrUnknownSchema when no layout is registered.
func Resolve(name string, version byte) (Schema, error) {
	fn, ok := registry[schemaKey{name, version}]
	if !ok {
		return Schema{}, errors.Wrapf(ErrUnknownSchema, "%s@0x%02x", name, version)
	}
	return Schema{Name: name, Version: version, newRecord: fn}, nil
}

// Schemas lists all registered schemas ordered by name and version.
func Schemas() []Schema {
	schemas := make([]Schema, 0, len(registry))
	for key, fn := range registry {
		schemas = append(schemas, Schema{Name: key.name, Version: key.version, newRecord: fn})
	}
	sort.Slice(schemas, func(i, j int) bool {
		if schemas[i].Name != schemas[j].Name {
			return schemas[i].Name < schemas[j].Name
		}
		return schemas[i].Version < schemas[j].Version
	})
	return schemas
}

// New returns an empty record of the schema.
func (s Schema) New() Record { return s.newRecord() }

// Decode reads a record from r. Unread trailing bytes are left for the
// caller to inspect.
func (s Schema) Decode(r *Reader) (Record, error) {
	rec := s.newRecord()
	rec.decode(r)
	if err := r.Err(); err != nil {
		return nil, errors.Wrapf(err, "decode %s@0x%02x", s.Name, s.Version)
	}
	return rec, nil
}

// Encode writes rec to w. The record must belong to the schema.
func (s Schema) Encode(w *Writer, rec Record) error {
	if rec == nil || rec.Name() != s.Name || rec.Version() != s.Version {
		return errors.Wrapf(ErrRecordType, "%T for %s@0x%02x", rec, s.Name, s.Version)
	}
	rec.encode(w)
	if err := w.Err(); err != nil {
		return errors.Wrapf(err, "encode %s@0x%02x", s.Name, s.Version)
	}
	return nil
}

// Marshal encodes rec into a plaintext using its own schema.
func Marshal(rec Record) ([]byte, error) {
	if rec == nil {
		return nil, errors.Wrap(ErrRecordType, "nil record")
	}
	s, err := Resolve(rec.Name(), rec.Version())
	if err != nil {
		return nil, err
	}
	w := NewWriter()
	if err := s.Encode(w, rec); err != nil {
		return nil, err
	}
	return w.Seal()
}

// Unmarshal decodes a plaintext with the schema of name and version.
// Trailing bytes are tolerated.
func Unmarshal(name string, version byte, plaintext []byte) (Record, error) {
	s, err := Resolve(name, version)
	if err != nil {
		return nil, err
	}
	return s.Decode(NewReader(plaintext))
}
