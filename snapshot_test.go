package rks_test

import (
	"bytes"

	rks "github.com/Dehou23333-awa/RKS"
	"github.com/golang/snappy"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("Snapshot", func() {
	var subject *rks.Codec

	BeforeEach(func() {
		subject = newCodec()
	})

	It("should round-trip", func() {
		save := seedSave()
		save.Entries = append(save.Entries, &rks.Entry{Name: "extra", FormatByte: 0x07, Plaintext: []byte("opaque")})

		var buf bytes.Buffer
		Expect(rks.WriteSnapshot(&buf, save)).To(Succeed())

		raw, err := rks.ReadSnapshot(bytes.NewReader(buf.Bytes()))
		Expect(err).NotTo(HaveOccurred())
		Expect(raw).To(HaveLen(6))
		Expect(raw[0].Name).To(Equal(rks.NameGameRecord))
		Expect(raw[0].FormatByte).To(Equal(byte(0x01)))
		Expect(raw[5]).To(Equal(rks.RawEntry{Name: "extra", FormatByte: 0x07, Plaintext: []byte("opaque")}))

		got, err := subject.DecodeSnapshot(bytes.NewReader(buf.Bytes()))
		Expect(err).NotTo(HaveOccurred())
		Expect(got.Entries).To(HaveLen(6))
		Expect(got.Record(rks.NameUser)).To(Equal(seedUser()))
		Expect(got.Record(rks.NameGameKey)).To(Equal(seedGameKey()))
		Expect(got.Record(rks.NameGameRecord)).To(Equal(seedGameRecord()))
		Expect(got.Entry("extra").Outcome()).To(Equal("passthrough"))
	})

	It("should snapshot decoded archives", func() {
		b := seedArchive(subject, seedSave())
		save, err := subject.ReadArchive(bytes.NewReader(b), int64(len(b)))
		Expect(err).NotTo(HaveOccurred())

		ct := subject.Cipher().Encrypt(bytes.Repeat([]byte{'x'}, 20))
		ct[15] ^= 0xff
		save.Entries = append(save.Entries, subject.DecodeEntry("broken", append([]byte{0x01}, ct...)))
		Expect(save.Entry("broken").Outcome()).To(Equal("cipher_error"))

		var buf bytes.Buffer
		Expect(rks.WriteSnapshot(&buf, save)).To(Succeed())

		got, err := subject.DecodeSnapshot(&buf)
		Expect(err).NotTo(HaveOccurred())
		Expect(got.Entries).To(HaveLen(5))
		Expect(got.Entry("broken")).To(BeNil())
		Expect(got.Record(rks.NameSettings)).To(Equal(seedSettings()))
		Expect(got.Record(rks.NameGameProgress)).To(Equal(seedGameProgress()))
	})

	It("should reject foreign streams", func() {
		var buf bytes.Buffer
		sw := snappy.NewBufferedWriter(&buf)
		_, err := sw.Write([]byte("PK\x03\x04"))
		Expect(err).NotTo(HaveOccurred())
		Expect(sw.Close()).To(Succeed())

		_, err = rks.ReadSnapshot(&buf)
		Expect(err).To(MatchError(ContainSubstring("magic")))

		_, err = rks.ReadSnapshot(bytes.NewReader([]byte("plain text")))
		Expect(err).To(HaveOccurred())
	})

	It("should reject truncated entries", func() {
		var buf bytes.Buffer
		Expect(rks.WriteSnapshot(&buf, seedSave())).To(Succeed())

		raw, err := rks.ReadSnapshot(&buf)
		Expect(err).NotTo(HaveOccurred())

		var cut bytes.Buffer
		sw := snappy.NewBufferedWriter(&cut)
		_, err = sw.Write(append([]byte("RKS\x01\x04user\x01\x10\x00\x00\x00"), raw[4].Plaintext[:2]...))
		Expect(err).NotTo(HaveOccurred())
		Expect(sw.Close()).To(Succeed())

		_, err = rks.ReadSnapshot(&cut)
		Expect(err).To(MatchError(rks.ErrOutOfBounds))
	})
})
