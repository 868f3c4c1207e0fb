package rks

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/Dehou23333-awa/RKS/internal/metrics"
	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zip"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Options configure a Codec.
type Options struct {
	// Key is the AES-256 key.
	// Default: DefaultKey.
	Key []byte

	// IV is the CBC initialisation vector.
	// Default: DefaultIV.
	IV []byte

	// CompressionLevel is the DEFLATE level of written archive members.
	// Default: flate.BestCompression.
	CompressionLevel int

	// Logger receives warnings about tolerated anomalies.
	// Default: logrus.StandardLogger().
	Logger logrus.FieldLogger
}

func (o *Options) norm() *Options {
	var oo Options
	if o != nil {
		oo = *o
	}

	if oo.Key == nil {
		oo.Key = DefaultKey
	}
	if oo.IV == nil {
		oo.IV = DefaultIV
	}
	if oo.CompressionLevel < flate.BestSpeed || oo.CompressionLevel > flate.BestCompression {
		oo.CompressionLevel = flate.BestCompression
	}
	if oo.Logger == nil {
		oo.Logger = logrus.StandardLogger()
	}

	return &oo
}

// Codec converts between save archives and decoded records.
// A Codec is safe for concurrent use.
type Codec struct {
	cipher *Cipher
	level  int
	log    logrus.FieldLogger
}

// NewCodec creates a codec.
func NewCodec(o *Options) (*Codec, error) {
	o = o.norm()
	c, err := NewCipher(o.Key, o.IV)
	if err != nil {
		return nil, err
	}
	return &Codec{cipher: c, level: o.CompressionLevel, log: o.Logger}, nil
}

// Cipher returns the cipher frames are encrypted with.
func (c *Codec) Cipher() *Cipher { return c.cipher }

// --------------------------------------------------------------------

// Entry is one archive member.
//
// A decoded entry has Record set. An entry whose schema is unknown or
// whose decoding failed keeps the decrypted Plaintext for passthrough.
// An entry that could not be decrypted keeps the Raw ciphertext.
type Entry struct {
	Name       string
	FormatByte byte
	Record     Record
	Plaintext  []byte
	Raw        []byte
	Err        error

	// Diagnostics lists tolerated anomalies, such as unread trailing bytes.
	Diagnostics []string
}

// Outcome classifies the entry.
func (e *Entry) Outcome() string {
	switch {
	case e.Record != nil:
		return metrics.OutcomeDecoded
	case e.Plaintext != nil && (e.Err == nil || errors.Is(e.Err, ErrUnknownSchema)):
		return metrics.OutcomePassthrough
	case e.Raw != nil:
		return metrics.OutcomeCipherError
	default:
		return metrics.OutcomeDecodeError
	}
}

func (e *Entry) empty() bool {
	return e.Record == nil && e.Plaintext == nil && e.Raw == nil
}

type entryJSON struct {
	Name        string          `json:"name"`
	FormatByte  byte            `json:"formatByte"`
	Record      json.RawMessage `json:"record,omitempty"`
	Plaintext   []byte          `json:"plaintext,omitempty"`
	Raw         []byte          `json:"raw,omitempty"`
	Error       string          `json:"error,omitempty"`
	Diagnostics []string        `json:"diagnostics,omitempty"`
}

// MarshalJSON implements json.Marshaler. Decoded entries omit the plaintext.
func (e *Entry) MarshalJSON() ([]byte, error) {
	v := entryJSON{
		Name:        e.Name,
		FormatByte:  e.FormatByte,
		Raw:         e.Raw,
		Diagnostics: e.Diagnostics,
	}
	if e.Record != nil {
		b, err := json.Marshal(e.Record)
		if err != nil {
			return nil, err
		}
		v.Record = b
	} else {
		v.Plaintext = e.Plaintext
	}
	if e.Err != nil {
		v.Error = e.Err.Error()
	}
	return json.Marshal(v)
}

// UnmarshalJSON implements json.Unmarshaler. The record type is resolved
// from the name and format byte.
func (e *Entry) UnmarshalJSON(b []byte) error {
	var v entryJSON
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	*e = Entry{
		Name:        v.Name,
		FormatByte:  v.FormatByte,
		Plaintext:   v.Plaintext,
		Raw:         v.Raw,
		Diagnostics: v.Diagnostics,
	}
	if v.Error != "" {
		e.Err = restoreError(v.Error)
	}
	if len(v.Record) == 0 || string(v.Record) == "null" {
		return nil
	}

	s, err := Resolve(v.Name, v.FormatByte)
	if err != nil {
		return err
	}
	rec := s.New()
	if err := json.Unmarshal(v.Record, rec); err != nil {
		return errors.Wrapf(err, "rks: decode %s record", v.Name)
	}
	e.Record = rec
	return nil
}

// storedError is an entry error read back from JSON. It keeps the message
// and unwraps to the sentinel named in it.
type storedError struct {
	msg   string
	cause error
}

func (e *storedError) Error() string { return e.msg }
func (e *storedError) Unwrap() error { return e.cause }

var sentinels = []error{
	ErrOutOfBounds,
	ErrInvalidPadding,
	ErrCiphertextLength,
	ErrUnknownSchema,
	ErrMalformedVarInt,
	ErrIncompleteSummary,
	ErrRecordType,
}

func restoreError(msg string) error {
	for _, err := range sentinels {
		if strings.Contains(msg, err.Error()) {
			return &storedError{msg: msg, cause: err}
		}
	}
	return errors.New(msg)
}

// Save is a decoded archive.
type Save struct {
	Entries []*Entry `json:"entries"`
}

// Entry returns the named entry, or nil.
func (s *Save) Entry(name string) *Entry {
	for _, e := range s.Entries {
		if e.Name == name {
			return e
		}
	}
	return nil
}

// Record returns the decoded record of the named entry, or nil.
func (s *Save) Record(name string) Record {
	if e := s.Entry(name); e != nil {
		return e.Record
	}
	return nil
}

// GameRecord returns the decoded score history, if present.
func (s *Save) GameRecord() (*GameRecord, bool) {
	rec, ok := s.Record(NameGameRecord).(*GameRecord)
	return rec, ok
}

// Put replaces the entry of the record's name, or appends a new one.
func (s *Save) Put(rec Record) {
	e := &Entry{Name: rec.Name(), FormatByte: rec.Version(), Record: rec}
	for i, old := range s.Entries {
		if old.Name == e.Name {
			s.Entries[i] = e
			return
		}
	}
	s.Entries = append(s.Entries, e)
}

// --------------------------------------------------------------------

// ReadArchive opens a zip container and decodes every member. Failures
// of single members are recorded on their entries.
func (c *Codec) ReadArchive(r io.ReaderAt, size int64) (*Save, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, errors.Wrap(err, "rks: open archive")
	}

	save := new(Save)
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}

		raw, err := readMember(f)
		if err != nil {
			c.log.WithField("entry", f.Name).WithError(err).Warn("unreadable archive member")
			save.Entries = append(save.Entries, &Entry{Name: f.Name, Err: err})
			continue
		}
		save.Entries = append(save.Entries, c.DecodeEntry(f.Name, raw))
	}
	return save, nil
}

func readMember(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, errors.Wrapf(err, "rks: open member %s", f.Name)
	}
	defer rc.Close()

	b, err := io.ReadAll(rc)
	if err != nil {
		return nil, errors.Wrapf(err, "rks: read member %s", f.Name)
	}
	return b, nil
}

// DecodeEntry decodes one archive member stored as a format byte followed
// by the ciphertext.
func (c *Codec) DecodeEntry(name string, raw []byte) *Entry {
	e := &Entry{Name: name}
	if len(raw) == 0 {
		e.Err = errors.Wrapf(ErrOutOfBounds, "rks: entry %s has no format byte", name)
		c.finish(e)
		return e
	}
	e.FormatByte = raw[0]

	plain, err := c.cipher.Decrypt(raw[1:])
	if err != nil {
		e.Raw = append([]byte{}, raw[1:]...)
		e.Err = err
		c.finish(e)
		return e
	}
	e.Plaintext = plain

	c.decodePlaintext(e)
	c.finish(e)
	return e
}

func (c *Codec) decodePlaintext(e *Entry) {
	s, err := Resolve(e.Name, e.FormatByte)
	if err != nil {
		e.Err = err
		return
	}

	r := NewReader(e.Plaintext)
	rec, err := s.Decode(r)
	e.Diagnostics = append(e.Diagnostics, r.Diagnostics()...)
	if err != nil {
		e.Err = err
		return
	}
	if n := r.Remaining(); n > 0 {
		e.Diagnostics = append(e.Diagnostics, fmt.Sprintf("%d unread bytes", n))
	}
	e.Record = rec
}

func (c *Codec) finish(e *Entry) {
	log := c.log.WithFields(logrus.Fields{
		"entry": e.Name,
		"head":  fmt.Sprintf("0x%02x", e.FormatByte),
	})
	for _, msg := range e.Diagnostics {
		log.Warn(msg)
	}

	outcome := e.Outcome()
	switch outcome {
	case metrics.OutcomeDecoded:
	case metrics.OutcomePassthrough:
		log.Info("no schema available, keeping raw plaintext")
	default:
		log.WithError(e.Err).Warn("entry not decoded")
	}
	metrics.DecodedEntry(e.Name, outcome)
}

// --------------------------------------------------------------------

// EncodeEntry produces the stored form of an entry: its format byte
// followed by the ciphertext. Records are encoded with the schema of their
// own version, passthrough plaintexts are re-encrypted, and undecryptable
// entries are written back unchanged.
func (c *Codec) EncodeEntry(e *Entry) ([]byte, error) {
	var (
		head  = e.FormatByte
		plain = e.Plaintext
	)

	switch {
	case e.Record != nil:
		if e.Record.Name() != e.Name {
			return nil, errors.Wrapf(ErrRecordType, "%s record stored as %s", e.Record.Name(), e.Name)
		}
		b, err := Marshal(e.Record)
		if err != nil {
			return nil, err
		}
		head, plain = e.Record.Version(), b
	case plain != nil:
	case e.Raw != nil:
		return append([]byte{head}, e.Raw...), nil
	default:
		return nil, errors.Errorf("rks: entry %s has no content", e.Name)
	}

	return append([]byte{head}, c.cipher.Encrypt(plain)...), nil
}

// WriteArchive encodes all entries into a zip container. Known members are
// written in the game's order, the rest follow in save order. Entries
// without any content, such as members that could not be read, are
// skipped with a warning.
func (c *Codec) WriteArchive(w io.Writer, save *Save) error {
	zw := zip.NewWriter(w)
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, c.level)
	})

	for _, e := range orderEntries(save.Entries) {
		if e.empty() {
			c.log.WithField("entry", e.Name).WithError(e.Err).Warn("entry has no content, leaving it out")
			continue
		}

		b, err := c.EncodeEntry(e)
		if err != nil {
			return errors.Wrapf(err, "rks: encode entry %s", e.Name)
		}

		fw, err := zw.CreateHeader(&zip.FileHeader{Name: e.Name, Method: zip.Deflate})
		if err != nil {
			return err
		}
		if _, err := fw.Write(b); err != nil {
			return err
		}
	}
	return zw.Close()
}

func orderEntries(entries []*Entry) []*Entry {
	ordered := make([]*Entry, 0, len(entries))
	known := make(map[string]bool, len(memberOrder))
	for _, name := range memberOrder {
		known[name] = true
		for _, e := range entries {
			if e.Name == name {
				ordered = append(ordered, e)
			}
		}
	}
	for _, e := range entries {
		if !known[e.Name] {
			ordered = append(ordered, e)
		}
	}
	return ordered
}
