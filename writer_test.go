package rks_test

import (
	rks "github.com/Dehou23333-awa/RKS"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("Writer", func() {
	var subject *rks.Writer

	BeforeEach(func() {
		subject = rks.NewWriter()
	})

	It("should write little-endian numbers", func() {
		subject.WriteUint8(0x01)
		subject.WriteUint16(0x1234)
		subject.WriteUint32(0x12345678)
		subject.WriteFloat32(1.5)
		Expect(subject.Seal()).To(Equal([]byte{
			0x01,
			0x34, 0x12,
			0x78, 0x56, 0x34, 0x12,
			0x00, 0x00, 0xc0, 0x3f,
		}))
	})

	It("should flush bit windows before byte writes", func() {
		subject.WriteBit(true)
		subject.WriteBit(false)
		subject.WriteBit(true)
		Expect(subject.Len()).To(Equal(1))
		subject.WriteUint8(0xaa)
		for i := 0; i < 5; i++ {
			subject.WriteBit(true)
		}
		subject.WriteUint8(0xbb)

		Expect(subject.Seal()).To(Equal([]byte{0x05, 0xaa, 0x1f, 0xbb}))
	})

	It("should flush after 8 bits", func() {
		for i := 0; i < 9; i++ {
			subject.WriteBit(true)
		}
		Expect(subject.Len()).To(Equal(2))
		Expect(subject.Seal()).To(Equal([]byte{0xff, 0x01}))
	})

	It("should flush pending bits on seal", func() {
		subject.WriteBit(false)
		subject.WriteBit(true)
		Expect(subject.Seal()).To(Equal([]byte{0x02}))
	})

	It("should write flag bytes", func() {
		subject.WriteFlags([]bool{false, true, true, false, false, true})
		subject.WriteFlags(nil)
		Expect(subject.Seal()).To(Equal([]byte{0x26, 0x00}))
	})

	It("should reject more than 8 flags", func() {
		subject.WriteFlags(make([]bool, 9))
		_, err := subject.Seal()
		Expect(err).To(HaveOccurred())
	})

	It("should write varints and strings", func() {
		subject.WriteVarInt(127)
		subject.WriteVarInt(128)
		subject.WriteString("abc")
		Expect(subject.Seal()).To(Equal([]byte{0x7f, 0x80, 0x01, 0x03, 'a', 'b', 'c'}))
	})

	It("should reject oversized varints", func() {
		subject.WriteVarInt(rks.MaxVarInt + 1)
		subject.WriteUint8(1)
		_, err := subject.Seal()
		Expect(err).To(MatchError(rks.ErrMalformedVarInt))
	})

	It("should mirror the reader", func() {
		subject.WriteBit(true)
		subject.WriteBit(true)
		subject.WriteString("pixel")
		subject.WriteFloat32(-0.125)
		subject.WriteFlags([]bool{true, false, true})
		subject.WriteVarInt(rks.MaxVarInt)
		subject.WriteBytes([]byte{7, 8})

		b, err := subject.Seal()
		Expect(err).NotTo(HaveOccurred())

		r := rks.NewReader(b)
		Expect(r.ReadBit()).To(BeTrue())
		Expect(r.ReadBit()).To(BeTrue())
		Expect(r.ReadString()).To(Equal("pixel"))
		Expect(r.ReadFloat32()).To(Equal(float32(-0.125)))
		flags := make([]bool, 3)
		r.ReadFlags(flags)
		Expect(flags).To(Equal([]bool{true, false, true}))
		Expect(r.ReadVarInt()).To(Equal(rks.MaxVarInt))
		Expect(r.ReadBytes(2)).To(Equal([]byte{7, 8}))
		Expect(r.Err()).NotTo(HaveOccurred())
		Expect(r.Remaining()).To(Equal(0))
	})
})
