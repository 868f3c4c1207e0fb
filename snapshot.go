package rks

import (
	"bytes"
	"io"

	"github.com/golang/snappy"
	"github.com/pkg/errors"
)

var snapshotMagic = []byte{'R', 'K', 'S', 0x01}

var errBadSnapshotMagic = errors.New("rks: bad snapshot magic byte sequence")

// RawEntry is a decrypted archive member.
type RawEntry struct {
	Name       string
	FormatByte byte
	Plaintext  []byte
}

// WriteSnapshot stores the decrypted entries of save as a snappy framed
// stream. Records without a plaintext are encoded first; entries that could
// not be decrypted are left out.
//
//	+-----------+---------+-----+---------+
//	| magic (4) | entry 1 | ... | entry n |
//	+-----------+---------+-----+---------+
//
//	Entry:
//	+---------------+-----------------+------------+-----------+
//	| name (string) | format byte (1) | length (4) | plaintext |
//	+---------------+-----------------+------------+-----------+
func WriteSnapshot(w io.Writer, save *Save) error {
	enc := NewWriter()
	enc.WriteBytes(snapshotMagic)
	for _, e := range save.Entries {
		head, plain := e.FormatByte, e.Plaintext
		if e.Record != nil && plain == nil {
			b, err := Marshal(e.Record)
			if err != nil {
				return err
			}
			head, plain = e.Record.Version(), b
		}
		if plain == nil {
			continue
		}

		enc.WriteString(e.Name)
		enc.WriteUint8(head)
		enc.WriteUint32(uint32(len(plain)))
		enc.WriteBytes(plain)
	}
	b, err := enc.Seal()
	if err != nil {
		return err
	}

	sw := snappy.NewBufferedWriter(w)
	if _, err := sw.Write(b); err != nil {
		return err
	}
	return sw.Close()
}

// ReadSnapshot reads the entries written by WriteSnapshot.
func ReadSnapshot(r io.Reader) ([]RawEntry, error) {
	b, err := io.ReadAll(snappy.NewReader(r))
	if err != nil {
		return nil, errors.Wrap(err, "rks: read snapshot")
	}
	if !bytes.HasPrefix(b, snapshotMagic) {
		return nil, errBadSnapshotMagic
	}

	dec := NewReader(b[len(snapshotMagic):])
	var entries []RawEntry
	for dec.Remaining() > 0 {
		e := RawEntry{
			Name:       dec.ReadString(),
			FormatByte: dec.ReadUint8(),
		}
		e.Plaintext = dec.ReadBytes(int(dec.ReadUint32()))
		if err := dec.Err(); err != nil {
			return nil, errors.Wrap(err, "rks: decode snapshot")
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// DecodeSnapshot reads a snapshot and decodes its entries like
// DecodeEntry, minus the decryption step.
func (c *Codec) DecodeSnapshot(r io.Reader) (*Save, error) {
	raw, err := ReadSnapshot(r)
	if err != nil {
		return nil, err
	}

	save := &Save{Entries: make([]*Entry, 0, len(raw))}
	for _, re := range raw {
		e := &Entry{Name: re.Name, FormatByte: re.FormatByte, Plaintext: re.Plaintext}
		c.decodePlaintext(e)
		c.finish(e)
		save.Entries = append(save.Entries, e)
	}
	return save, nil
}
