package rks_test

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"

	rks "github.com/Dehou23333-awa/RKS"
	. "github.com/onsi/ginkgo"
	"github.com/onsi/ginkgo/extensions/table"
	. "github.com/onsi/gomega"
)

var _ = Describe("Cipher", func() {
	var subject *rks.Cipher

	BeforeEach(func() {
		var err error
		subject, err = rks.NewCipher(rks.DefaultKey, rks.DefaultIV)
		Expect(err).NotTo(HaveOccurred())
	})

	table.DescribeTable("round-trip",
		func(n int) {
			plain := bytes.Repeat([]byte{'x'}, n)
			ct := subject.Encrypt(plain)
			Expect(len(ct) % aes.BlockSize).To(Equal(0))
			Expect(len(ct)).To(Equal((n/aes.BlockSize + 1) * aes.BlockSize))

			got, err := subject.Decrypt(ct)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(HaveLen(n))
			Expect(bytes.Equal(got, plain)).To(BeTrue())
		},
		table.Entry("empty", 0),
		table.Entry("1 byte", 1),
		table.Entry("15 bytes", 15),
		table.Entry("16 bytes", 16),
		table.Entry("33 bytes", 33),
	)

	It("should not modify the plaintext", func() {
		plain := []byte("abc")
		subject.Encrypt(plain)
		Expect(plain).To(Equal([]byte("abc")))
	})

	It("should reject unaligned ciphertexts", func() {
		_, err := subject.Decrypt(make([]byte, 17))
		Expect(err).To(MatchError(rks.ErrCiphertextLength))
	})

	It("should reject empty ciphertexts", func() {
		_, err := subject.Decrypt(nil)
		Expect(err).To(MatchError(rks.ErrInvalidPadding))
	})

	It("should reject bad padding", func() {
		block := []byte("fifteen bytes!!")
		block = append(block, 0x03)
		block[13] = 0x03
		block[14] = 0x02

		ct := make([]byte, len(block))
		c, err := aes.NewCipher(rks.DefaultKey)
		Expect(err).NotTo(HaveOccurred())
		cipher.NewCBCEncrypter(c, rks.DefaultIV).CryptBlocks(ct, block)

		_, err = subject.Decrypt(ct)
		Expect(err).To(MatchError(rks.ErrInvalidPadding))
	})

	It("should validate key sizes", func() {
		_, err := rks.NewCipher(make([]byte, 16), rks.DefaultIV)
		Expect(err).To(HaveOccurred())
		_, err = rks.NewCipher(rks.DefaultKey, make([]byte, 8))
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("PKCS7", func() {
	It("should pad", func() {
		Expect(rks.PadPKCS7([]byte{1, 2, 3}, 4)).To(Equal([]byte{1, 2, 3, 1}))
		Expect(rks.PadPKCS7([]byte{1, 2, 3, 4}, 4)).To(Equal([]byte{1, 2, 3, 4, 4, 4, 4, 4}))
		Expect(rks.PadPKCS7(nil, 4)).To(Equal([]byte{4, 4, 4, 4}))
	})

	table.DescribeTable("unpad",
		func(in, exp []byte) {
			got, err := rks.UnpadPKCS7(in)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(exp))
		},
		table.Entry("one byte", []byte{7, 1}, []byte{7}),
		table.Entry("two bytes", []byte{7, 2, 2}, []byte{7}),
		table.Entry("whole input", []byte{3, 3, 3}, []byte{}),
	)

	table.DescribeTable("reject",
		func(in []byte) {
			_, err := rks.UnpadPKCS7(in)
			Expect(err).To(MatchError(rks.ErrInvalidPadding))
		},
		table.Entry("empty", []byte{}),
		table.Entry("zero pad", []byte{1, 2, 0}),
		table.Entry("pad longer than input", []byte{5, 5}),
		table.Entry("inconsistent pad", []byte{1, 3, 2, 3}),
	)
})
