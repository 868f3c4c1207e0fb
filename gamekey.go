package rks

import "github.com/pkg/errors"

// Key is one entry of the collected key list.
type Key struct {
	Name string `json:"name"`
	// Type is a 5-bit run stored in its own byte.
	Type [5]bool `json:"type"`
	// Flags are the raw bytes following the type byte. The stored length
	// byte counts the type byte, so at most 254 flags fit.
	Flags []byte `json:"flag"`
}

// GameKeyV2 is the unlocked key record (gameKey@0x02).
type GameKeyV2 struct {
	Keys            []Key   `json:"keyList"`
	LanotaReadKeys  [6]bool `json:"lanotaReadKeys"`
	CamelliaReadKey [8]bool `json:"camelliaReadKey"`
}

func (*GameKeyV2) Name() string  { return NameGameKey }
func (*GameKeyV2) Version() byte { return 0x02 }

func (k *GameKeyV2) decode(r *Reader) {
	k.Keys = nil
	for i, n := 0, r.ReadVarInt(); i < n && r.Err() == nil; i++ {
		var key Key
		key.Name = r.ReadString()
		length := int(r.ReadUint8())
		r.ReadFlags(key.Type[:])
		switch {
		case length == 0:
			r.warnf("key %q declares zero length", key.Name)
		case length > 1:
			key.Flags = r.ReadBytes(length - 1)
		}
		k.Keys = append(k.Keys, key)
	}
	r.ReadFlags(k.LanotaReadKeys[:])
	r.ReadFlags(k.CamelliaReadKey[:])
}

func (k *GameKeyV2) encode(w *Writer) {
	w.WriteVarInt(len(k.Keys))
	for _, key := range k.Keys {
		if len(key.Flags) > 254 {
			w.fail(errors.Errorf("rks: key %q has %d flags, max 254", key.Name, len(key.Flags)))
			return
		}
		w.WriteString(key.Name)
		w.WriteUint8(uint8(len(key.Flags) + 1))
		w.WriteFlags(key.Type[:])
		w.WriteBytes(key.Flags)
	}
	w.WriteFlags(k.LanotaReadKeys[:])
	w.WriteFlags(k.CamelliaReadKey[:])
}

// GameKeyV3 extends GameKeyV2 with two trailing bytes (gameKey@0x03).
type GameKeyV3 struct {
	GameKeyV2
	SideStory4BeginReadKey uint8 `json:"sideStory4BeginReadKey"`
	OldScoreClearedV390    uint8 `json:"oldScoreClearedV390"`
}

func (*GameKeyV3) Version() byte { return 0x03 }

func (k *GameKeyV3) decode(r *Reader) {
	k.GameKeyV2.decode(r)
	k.SideStory4BeginReadKey = r.ReadUint8()
	k.OldScoreClearedV390 = r.ReadUint8()
}

func (k *GameKeyV3) encode(w *Writer) {
	k.GameKeyV2.encode(w)
	w.WriteUint8(k.SideStory4BeginReadKey)
	w.WriteUint8(k.OldScoreClearedV390)
}
