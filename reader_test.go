package rks_test

import (
	rks "github.com/Dehou23333-awa/RKS"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/types"
)

var _ = Describe("Reader", func() {
	HavePos := func(n int) types.GomegaMatcher {
		return WithTransform(func(x interface{ Pos() int }) int {
			return x.Pos()
		}, Equal(n))
	}

	It("should read little-endian numbers", func() {
		subject := rks.NewReader([]byte{
			0x01,
			0x34, 0x12,
			0x78, 0x56, 0x34, 0x12,
			0x00, 0x00, 0xc0, 0x3f,
		})
		Expect(subject.ReadUint8()).To(Equal(uint8(0x01)))
		Expect(subject.ReadUint16()).To(Equal(uint16(0x1234)))
		Expect(subject.ReadUint32()).To(Equal(uint32(0x12345678)))
		Expect(subject.ReadFloat32()).To(Equal(float32(1.5)))
		Expect(subject.Err()).NotTo(HaveOccurred())
		Expect(subject.Remaining()).To(Equal(0))
	})

	It("should close bit windows before byte reads", func() {
		subject := rks.NewReader([]byte{0x05, 0xaa, 0x1f, 0xbb})

		Expect(subject.ReadBit()).To(BeTrue())
		Expect(subject.ReadBit()).To(BeFalse())
		Expect(subject).To(HavePos(1))
		Expect(subject.ReadBit()).To(BeTrue())
		Expect(subject.ReadUint8()).To(Equal(uint8(0xaa)))
		Expect(subject).To(HavePos(2))

		for i := 0; i < 5; i++ {
			Expect(subject.ReadBit()).To(BeTrue(), "bit %d", i)
		}
		Expect(subject.ReadUint8()).To(Equal(uint8(0xbb)))
		Expect(subject).To(HavePos(4))
		Expect(subject.Err()).NotTo(HaveOccurred())
	})

	It("should advance after 8 bits", func() {
		subject := rks.NewReader([]byte{0xff, 0x02})
		for i := 0; i < 8; i++ {
			Expect(subject.ReadBit()).To(BeTrue())
		}
		Expect(subject).To(HavePos(1))
		Expect(subject.ReadBit()).To(BeFalse())
		Expect(subject.ReadBit()).To(BeTrue())
		Expect(subject).To(HavePos(2))
		Expect(subject.Remaining()).To(Equal(0))
	})

	It("should read flag bytes", func() {
		subject := rks.NewReader([]byte{0xe6})
		flags := make([]bool, 6)
		subject.ReadFlags(flags)
		Expect(flags).To(Equal([]bool{false, true, true, false, false, true}))
		Expect(subject).To(HavePos(1))
	})

	It("should read varints and strings", func() {
		subject := rks.NewReader([]byte{0x7f, 0x80, 0x01, 0x03, 'a', 'b', 'c', 0x00})
		Expect(subject.ReadVarInt()).To(Equal(127))
		Expect(subject.ReadVarInt()).To(Equal(128))
		Expect(subject.ReadString()).To(Equal("abc"))
		Expect(subject.ReadString()).To(Equal(""))
		Expect(subject.Err()).NotTo(HaveOccurred())
	})

	It("should copy bytes", func() {
		buf := []byte{1, 2, 3}
		subject := rks.NewReader(buf)
		p := subject.ReadBytes(2)
		Expect(p).To(Equal([]byte{1, 2}))

		p[0] = 9
		Expect(buf[0]).To(Equal(byte(1)))
	})

	It("should fail out of bounds", func() {
		subject := rks.NewReader([]byte{0x01})
		Expect(subject.ReadUint16()).To(BeZero())
		Expect(subject.Err()).To(MatchError(rks.ErrOutOfBounds))

		// errors are sticky
		Expect(subject.ReadUint8()).To(BeZero())
		Expect(subject).To(HavePos(0))
	})

	It("should fail on truncated strings", func() {
		subject := rks.NewReader([]byte{0x05, 'a'})
		Expect(subject.ReadString()).To(Equal(""))
		Expect(subject.Err()).To(MatchError(rks.ErrOutOfBounds))
	})

	It("should fail reading bits past the end", func() {
		subject := rks.NewReader([]byte{0x00})
		subject.ReadUint8()
		Expect(subject.ReadBit()).To(BeFalse())
		Expect(subject.Err()).To(MatchError(rks.ErrOutOfBounds))
	})

	It("should set positions", func() {
		subject := rks.NewReader([]byte{0x01, 0x02, 0x03})
		subject.ReadBit()
		subject.SetPos(2)
		Expect(subject.ReadUint8()).To(Equal(uint8(0x03)))

		subject.SetPos(4)
		Expect(subject.Err()).To(MatchError(rks.ErrOutOfBounds))
	})
})
