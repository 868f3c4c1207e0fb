package rks

import (
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// songIDSuffix is appended to every song identifier on the wire.
const songIDSuffix = ".0"

// LevelRecord is the best result on one tier of a song.
type LevelRecord struct {
	Level     Level   `json:"level"`
	Score     uint32  `json:"score"`
	Accuracy  float32 `json:"acc"`
	FullCombo bool    `json:"fc"`
}

// SongRecord holds the unlocked tiers of a song.
type SongRecord struct {
	ID     string        `json:"id"`
	Levels []LevelRecord `json:"levels"`
}

// GameRecord is the score history (gameRecord@0x01).
//
//	+-----------------+--------+--------+-----+--------+
//	| count (varint)  | song 1 | song 2 | ... | song n |
//	+-----------------+--------+--------+-----+--------+
//
//	Song:
//	+-------------+--------------+--------------+----------+-------------------------------+
//	| id (string) | len (varint) | unlock (1 B) | fc (1 B) | (score u32, acc f32) per tier |
//	+-------------+--------------+--------------+----------+-------------------------------+
//
// Bit i of the unlock and fc masks refers to Level i. Scores follow in
// ascending tier order, one pair per unlocked tier.
type GameRecord struct {
	Songs []SongRecord `json:"songs"`
}

func (*GameRecord) Name() string  { return NameGameRecord }
func (*GameRecord) Version() byte { return 0x01 }

// Song returns the record of a song, or nil.
func (g *GameRecord) Song(id string) *SongRecord {
	for i := range g.Songs {
		if g.Songs[i].ID == id {
			return &g.Songs[i]
		}
	}
	return nil
}

func (g *GameRecord) decode(r *Reader) {
	g.Songs = nil
	for i, n := 0, r.ReadVarInt(); i < n && r.Err() == nil; i++ {
		var song SongRecord

		raw := r.ReadString()
		if !strings.HasSuffix(raw, songIDSuffix) {
			r.warnf("song %q lacks the %q suffix", raw, songIDSuffix)
		}
		song.ID = strings.TrimSuffix(raw, songIDSuffix)

		size := r.ReadVarInt()
		end := r.Pos() + size

		unlock := r.ReadUint8()
		fc := r.ReadUint8()
		if unlock>>(Legacy+1) != 0 {
			r.warnf("song %q sets unknown unlock bits 0x%02x", song.ID, unlock)
		}
		for lv := EZ; lv <= Legacy; lv++ {
			if unlock>>lv&1 == 0 {
				continue
			}
			song.Levels = append(song.Levels, LevelRecord{
				Level:     lv,
				Score:     r.ReadUint32(),
				Accuracy:  r.ReadFloat32(),
				FullCombo: fc>>lv&1 == 1,
			})
		}
		if r.Err() != nil {
			return
		}

		if pos := r.Pos(); pos != end {
			r.warnf("song %q consumed %d bytes, declared %d", song.ID, pos-(end-size), size)
			r.SetPos(end)
		}
		g.Songs = append(g.Songs, song)
	}
}

func (g *GameRecord) encode(w *Writer) {
	w.WriteVarInt(len(g.Songs))
	for _, song := range g.Songs {
		sub, err := encodeSong(song)
		if err != nil {
			w.fail(err)
			return
		}
		w.WriteString(song.ID + songIDSuffix)
		w.WriteVarInt(len(sub))
		w.WriteBytes(sub)
	}
}

func encodeSong(song SongRecord) ([]byte, error) {
	levels := append([]LevelRecord(nil), song.Levels...)
	sort.SliceStable(levels, func(i, j int) bool { return levels[i].Level < levels[j].Level })

	var unlock, fc uint8
	for i, lv := range levels {
		if !lv.Level.isValid() {
			return nil, errors.Errorf("rks: song %q has invalid level %d", song.ID, lv.Level)
		}
		if i > 0 && levels[i-1].Level == lv.Level {
			return nil, errors.Errorf("rks: song %q repeats level %s", song.ID, lv.Level)
		}
		unlock |= 1 << lv.Level
		if lv.FullCombo {
			fc |= 1 << lv.Level
		}
	}

	w := NewWriter()
	w.WriteUint8(unlock)
	w.WriteUint8(fc)
	for _, lv := range levels {
		w.WriteUint32(lv.Score)
		w.WriteFloat32(lv.Accuracy)
	}
	return w.Seal()
}
