package rks

// Settings holds device preferences (settings@0x01). The four switches
// share one bit window that the device name closes.
type Settings struct {
	ChordSupport      bool `json:"chordSupport"`
	FCAPIndicator     bool `json:"fcAPIndicator"`
	EnableHitSound    bool `json:"enableHitSound"`
	LowResolutionMode bool `json:"lowResolutionMode"`

	DeviceName     string  `json:"deviceName"`
	Bright         float32 `json:"bright"`
	MusicVolume    float32 `json:"musicVolume"`
	EffectVolume   float32 `json:"effectVolume"`
	HitSoundVolume float32 `json:"hitSoundVolume"`
	SoundOffset    float32 `json:"soundOffset"`
	NoteScale      float32 `json:"noteScale"`
}

func (*Settings) Name() string  { return NameSettings }
func (*Settings) Version() byte { return 0x01 }

func (s *Settings) decode(r *Reader) {
	s.ChordSupport = r.ReadBit()
	s.FCAPIndicator = r.ReadBit()
	s.EnableHitSound = r.ReadBit()
	s.LowResolutionMode = r.ReadBit()

	s.DeviceName = r.ReadString()
	s.Bright = r.ReadFloat32()
	s.MusicVolume = r.ReadFloat32()
	s.EffectVolume = r.ReadFloat32()
	s.HitSoundVolume = r.ReadFloat32()
	s.SoundOffset = r.ReadFloat32()
	s.NoteScale = r.ReadFloat32()
}

func (s *Settings) encode(w *Writer) {
	w.WriteBit(s.ChordSupport)
	w.WriteBit(s.FCAPIndicator)
	w.WriteBit(s.EnableHitSound)
	w.WriteBit(s.LowResolutionMode)

	w.WriteString(s.DeviceName)
	w.WriteFloat32(s.Bright)
	w.WriteFloat32(s.MusicVolume)
	w.WriteFloat32(s.EffectVolume)
	w.WriteFloat32(s.HitSoundVolume)
	w.WriteFloat32(s.SoundOffset)
	w.WriteFloat32(s.NoteScale)
}
