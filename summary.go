package rks

import (
	"encoding/base64"

	"github.com/pkg/errors"
)

// SummaryCounters is the number of level counters in a complete summary:
// cleared, full combo and phi counts for each of the four tiers.
const SummaryCounters = 3 * NumLevels

// Summary is the fixed-layout save summary published next to the archive.
//
//	+-------------+----------------+-------------+-------------+------------+------------+--------+-----------------+
//	| version (1) | challenge (2)  | rks (f32)   | game ver(1) | reserved 1 | avatar len | avatar | 12 counters (2) |
//	+-------------+----------------+-------------+-------------+------------+------------+--------+-----------------+
type Summary struct {
	SaveVersion uint8   `json:"saveVersion"`
	Challenge   uint16  `json:"challenge"`
	RKS         float32 `json:"rks"`
	GameVersion uint8   `json:"gameVersion"`
	Avatar      string  `json:"avatar"`

	// Counters holds up to SummaryCounters values, grouped per tier.
	Counters []uint16 `json:"counters"`
}

// LevelProgress holds the counters of one tier.
type LevelProgress struct {
	Cleared   uint16 `json:"cleared"`
	FullCombo uint16 `json:"fc"`
	Phi       uint16 `json:"phi"`
}

// Progress returns the counters of a tier. Missing counters read as zero.
func (s *Summary) Progress(l Level) LevelProgress {
	var c [3]uint16
	for i := range c {
		if n := int(l)*3 + i; n < len(s.Counters) {
			c[i] = s.Counters[n]
		}
	}
	return LevelProgress{Cleared: c[0], FullCombo: c[1], Phi: c[2]}
}

// Len returns the encoded size of the summary.
func (s *Summary) Len() int {
	return 10 + len(s.Avatar) + 2*SummaryCounters
}

// DecodeSummary parses a summary. When the counter tail is truncated the
// decoded prefix is returned together with ErrIncompleteSummary.
func DecodeSummary(b []byte) (*Summary, error) {
	r := NewReader(b)
	s := &Summary{
		SaveVersion: r.ReadUint8(),
		Challenge:   r.ReadUint16(),
		RKS:         r.ReadFloat32(),
		GameVersion: r.ReadUint8(),
	}
	_ = r.ReadUint8() // reserved
	s.Avatar = string(r.ReadBytes(int(r.ReadUint8())))
	if err := r.Err(); err != nil {
		return nil, errors.Wrap(err, "rks: decode summary header")
	}

	s.Counters = make([]uint16, 0, SummaryCounters)
	for len(s.Counters) < SummaryCounters && r.Remaining() >= 2 {
		s.Counters = append(s.Counters, r.ReadUint16())
	}
	if len(s.Counters) < SummaryCounters {
		return s, errors.Wrapf(ErrIncompleteSummary, "%d of %d counters", len(s.Counters), SummaryCounters)
	}
	return s, nil
}

// DecodeSummaryBase64 parses a base64 encoded summary.
func DecodeSummaryBase64(s string) (*Summary, error) {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, errors.Wrap(err, "rks: decode summary base64")
	}
	return DecodeSummary(b)
}

// Encode serialises the summary. It requires all counters to be present.
func (s *Summary) Encode() ([]byte, error) {
	if len(s.Counters) != SummaryCounters {
		return nil, errors.Errorf("rks: summary needs %d counters, has %d", SummaryCounters, len(s.Counters))
	}
	if len(s.Avatar) > 0xff {
		return nil, errors.Errorf("rks: summary avatar is %d bytes, max 255", len(s.Avatar))
	}

	w := NewWriter()
	w.WriteUint8(s.SaveVersion)
	w.WriteUint16(s.Challenge)
	w.WriteFloat32(s.RKS)
	w.WriteUint8(s.GameVersion)
	w.WriteUint8(1)
	w.WriteUint8(uint8(len(s.Avatar)))
	w.WriteBytes([]byte(s.Avatar))
	for _, c := range s.Counters {
		w.WriteUint16(c)
	}
	return w.Seal()
}

// EncodeBase64 serialises the summary as base64.
func (s *Summary) EncodeBase64() (string, error) {
	b, err := s.Encode()
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(b), nil
}
