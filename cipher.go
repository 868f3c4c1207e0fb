package rks

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/base64"

	"github.com/pkg/errors"
)

// Fixed key material shared by every archive entry.
var (
	DefaultKey = mustDecodeBase64("6Jaa0qVAJZuXkZCLiOa/Ax5tIZVu+taKUN1V1nqwkks=")
	DefaultIV  = mustDecodeBase64("Kk/wisgNYwcAV8WVGMgyUw==")
)

func mustDecodeBase64(s string) []byte {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		panic(err)
	}
	return b
}

// Cipher frames record plaintexts with AES-256-CBC. PKCS#7 padding is
// applied and checked by hand; a wrong key or corrupted ciphertext almost
// always fails with ErrInvalidPadding.
type Cipher struct {
	block cipher.Block
	iv    []byte
}

// NewCipher creates a cipher from a 32-byte key and a 16-byte IV.
func NewCipher(key, iv []byte) (*Cipher, error) {
	if len(key) != 32 {
		return nil, errors.Errorf("rks: invalid key size %d, must be 32", len(key))
	}
	if len(iv) != aes.BlockSize {
		return nil, errors.Errorf("rks: invalid IV size %d, must be %d", len(iv), aes.BlockSize)
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, errors.Wrap(err, "rks: create AES cipher")
	}
	return &Cipher{block: block, iv: append([]byte(nil), iv...)}, nil
}

// Decrypt decrypts ciphertext and strips its PKCS#7 padding.
func (c *Cipher) Decrypt(ciphertext []byte) ([]byte, error) {
	if len(ciphertext)%aes.BlockSize != 0 {
		return nil, errors.Wrapf(ErrCiphertextLength, "length %d", len(ciphertext))
	}
	plain := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(c.block, c.iv).CryptBlocks(plain, ciphertext)
	return UnpadPKCS7(plain)
}

// Encrypt pads plaintext with PKCS#7 and encrypts it.
func (c *Cipher) Encrypt(plaintext []byte) []byte {
	buf := PadPKCS7(plaintext, aes.BlockSize)
	cipher.NewCBCEncrypter(c.block, c.iv).CryptBlocks(buf, buf)
	return buf
}

// PadPKCS7 returns a copy of b padded to a multiple of blockSize. A full
// block of padding is added when b is already aligned.
func PadPKCS7(b []byte, blockSize int) []byte {
	n := blockSize - len(b)%blockSize
	out := make([]byte, len(b), len(b)+n)
	copy(out, b)
	for i := 0; i < n; i++ {
		out = append(out, byte(n))
	}
	return out
}

// UnpadPKCS7 validates and strips PKCS#7 padding. The returned slice
// shares memory with b.
func UnpadPKCS7(b []byte) ([]byte, error) {
	if len(b) == 0 {
		return nil, errors.Wrap(ErrInvalidPadding, "empty input")
	}
	n := int(b[len(b)-1])
	if n == 0 || n > len(b) {
		return nil, errors.Wrapf(ErrInvalidPadding, "pad length %d, input length %d", n, len(b))
	}
	for _, c := range b[len(b)-n:] {
		if int(c) != n {
			return nil, errors.Wrapf(ErrInvalidPadding, "pad byte 0x%02x, want 0x%02x", c, n)
		}
	}
	return b[:len(b)-n], nil
}
