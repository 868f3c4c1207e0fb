package rks

import (
	"fmt"
	"strings"
)

// Money holds the data currency, smallest denomination (KB) first.
type Money [5]int

var moneyUnits = [...]string{"KB", "MB", "GB", "TB", "PB"}

// String formats non-zero denominations from the largest unit down,
// e.g. "2 GB 512 KB".
func (m Money) String() string {
	parts := make([]string, 0, len(m))
	for i := len(m) - 1; i >= 0; i-- {
		if m[i] != 0 {
			parts = append(parts, fmt.Sprintf("%d %s", m[i], moneyUnits[i]))
		}
	}
	return strings.Join(parts, " ")
}

// GameProgressV3 is the progress record (gameProgress@0x03). Field order
// is fixed by the wire layout.
type GameProgressV3 struct {
	IsFirstRun                 bool `json:"isFirstRun"`
	LegacyChapterFinished      bool `json:"legacyChapterFinished"`
	AlreadyShowCollectionTip   bool `json:"alreadyShowCollectionTip"`
	AlreadyShowAutoUnlockINTip bool `json:"alreadyShowAutoUnlockINTip"`

	Completed         string `json:"completed"`
	SongUpdateInfo    int    `json:"songUpdateInfo"`
	ChallengeModeRank uint16 `json:"challengeModeRank"`
	Money             Money  `json:"money"`

	UnlockFlagOfSpasmodic [4]bool `json:"unlockFlagOfSpasmodic"`
	UnlockFlagOfIgallta   [4]bool `json:"unlockFlagOfIgallta"`
	UnlockFlagOfRrharil   [4]bool `json:"unlockFlagOfRrharil"`
	FlagOfSongRecordKey   [8]bool `json:"flagOfSongRecordKey"`
	RandomVersionUnlocked [6]bool `json:"randomVersionUnlocked"`

	Chapter8UnlockBegin       bool    `json:"chapter8UnlockBegin"`
	Chapter8UnlockSecondPhase bool    `json:"chapter8UnlockSecondPhase"`
	Chapter8Passed            bool    `json:"chapter8Passed"`
	Chapter8SongUnlocked      [6]bool `json:"chapter8SongUnlocked"`
}

func (*GameProgressV3) Name() string  { return NameGameProgress }
func (*GameProgressV3) Version() byte { return 0x03 }

func (p *GameProgressV3) decode(r *Reader) {
	p.IsFirstRun = r.ReadBit()
	p.LegacyChapterFinished = r.ReadBit()
	p.AlreadyShowCollectionTip = r.ReadBit()
	p.AlreadyShowAutoUnlockINTip = r.ReadBit()

	p.Completed = r.ReadString()
	p.SongUpdateInfo = r.ReadVarInt()
	p.ChallengeModeRank = r.ReadUint16()
	for i := range p.Money {
		p.Money[i] = r.ReadVarInt()
	}

	r.ReadFlags(p.UnlockFlagOfSpasmodic[:])
	r.ReadFlags(p.UnlockFlagOfIgallta[:])
	r.ReadFlags(p.UnlockFlagOfRrharil[:])
	r.ReadFlags(p.FlagOfSongRecordKey[:])
	r.ReadFlags(p.RandomVersionUnlocked[:])

	p.Chapter8UnlockBegin = r.ReadBit()
	p.Chapter8UnlockSecondPhase = r.ReadBit()
	p.Chapter8Passed = r.ReadBit()
	r.ReadFlags(p.Chapter8SongUnlocked[:])
}

func (p *GameProgressV3) encode(w *Writer) {
	w.WriteBit(p.IsFirstRun)
	w.WriteBit(p.LegacyChapterFinished)
	w.WriteBit(p.AlreadyShowCollectionTip)
	w.WriteBit(p.AlreadyShowAutoUnlockINTip)

	w.WriteString(p.Completed)
	w.WriteVarInt(p.SongUpdateInfo)
	w.WriteUint16(p.ChallengeModeRank)
	for _, v := range p.Money {
		w.WriteVarInt(v)
	}

	w.WriteFlags(p.UnlockFlagOfSpasmodic[:])
	w.WriteFlags(p.UnlockFlagOfIgallta[:])
	w.WriteFlags(p.UnlockFlagOfRrharil[:])
	w.WriteFlags(p.FlagOfSongRecordKey[:])
	w.WriteFlags(p.RandomVersionUnlocked[:])

	w.WriteBit(p.Chapter8UnlockBegin)
	w.WriteBit(p.Chapter8UnlockSecondPhase)
	w.WriteBit(p.Chapter8Passed)
	w.WriteFlags(p.Chapter8SongUnlocked[:])
}

// GameProgressV4 extends GameProgressV3 with a trailing 3-bit run
// (gameProgress@0x04).
type GameProgressV4 struct {
	GameProgressV3
	FlagOfSongRecordKeyTakumi [3]bool `json:"flagOfSongRecordKeyTakumi"`
}

func (*GameProgressV4) Version() byte { return 0x04 }

func (p *GameProgressV4) decode(r *Reader) {
	p.GameProgressV3.decode(r)
	r.ReadFlags(p.FlagOfSongRecordKeyTakumi[:])
}

func (p *GameProgressV4) encode(w *Writer) {
	p.GameProgressV3.encode(w)
	w.WriteFlags(p.FlagOfSongRecordKeyTakumi[:])
}
