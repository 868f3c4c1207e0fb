package rks

// User is the player profile record (user@0x01).
type User struct {
	ShowPlayerID uint8  `json:"showPlayerId"`
	SelfIntro    string `json:"selfIntro"`
	Avatar       string `json:"avatar"`
	Background   string `json:"background"`
}

func (*User) Name() string  { return NameUser }
func (*User) Version() byte { return 0x01 }

func (u *User) decode(r *Reader) {
	u.ShowPlayerID = r.ReadUint8()
	u.SelfIntro = r.ReadString()
	u.Avatar = r.ReadString()
	u.Background = r.ReadString()
}

func (u *User) encode(w *Writer) {
	w.WriteUint8(u.ShowPlayerID)
	w.WriteString(u.SelfIntro)
	w.WriteString(u.Avatar)
	w.WriteString(u.Background)
}
