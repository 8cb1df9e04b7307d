// Package encryption implements the payload cipher used by the training
// registry for encrypted request and response bodies.
//
// The registry fixes the scheme: AES-256 in CBC mode, PKCS7 padding, the
// constant initialization vector "SSGAPIInitVector" and standard base64 for
// the ciphertext. There is no authentication tag.
//
// WARNING: a fixed IV leaks equality of message prefixes and CBC without a
// MAC is malleable. Both are requirements of the remote API and must not be
// changed here, or encrypted requests will stop decrypting on the server.
package encryption

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// IV is the initialization vector shared by every encrypt and decrypt call.
const IV = "SSGAPIInitVector"

const keySize = 32

var (
	ErrNoKey          = errors.New("encryption key is not configured")
	ErrKeySize        = errors.New("encryption key must be 32 bytes")
	ErrInvalidPadding = errors.New("invalid PKCS7 padding")
	ErrBlockSize      = errors.New("ciphertext is not a multiple of the block size")
)

// Cipher encrypts and decrypts registry payloads with a single AES-256 key.
// A nil *Cipher is valid and fails every call with ErrNoKey.
type Cipher struct {
	block cipher.Block
}

// New returns a Cipher for the raw 32-byte key.
func New(key []byte) (*Cipher, error) {
	if len(key) == 0 {
		return nil, ErrNoKey
	}
	if len(key) != keySize {
		return nil, fmt.Errorf("%w: got %d", ErrKeySize, len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create aes cipher: %w", err)
	}

	return &Cipher{block: block}, nil
}

// FromBase64 decodes a base64 key as issued by the registry portal and
// returns a Cipher for it.
func FromBase64(key string) (*Cipher, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, ErrNoKey
	}

	raw, err := base64.StdEncoding.DecodeString(key)
	if err != nil {
		return nil, fmt.Errorf("decode encryption key: %w", err)
	}

	return New(raw)
}

// Configured reports whether c holds a key.
func (c *Cipher) Configured() bool {
	return c != nil && c.block != nil
}

// Encrypt pads and encrypts plaintext and returns the base64 ciphertext.
func (c *Cipher) Encrypt(plaintext []byte) (string, error) {
	if !c.Configured() {
		return "", ErrNoKey
	}

	padded := pad(plaintext, aes.BlockSize)
	out := make([]byte, len(padded))

	cipher.NewCBCEncrypter(c.block, []byte(IV)).CryptBlocks(out, padded)

	return base64.StdEncoding.EncodeToString(out), nil
}

// EncryptString encrypts the UTF-8 bytes of plaintext.
func (c *Cipher) EncryptString(plaintext string) (string, error) {
	return c.Encrypt([]byte(plaintext))
}

// Decrypt base64-decodes ciphertext, decrypts it and strips the padding.
func (c *Cipher) Decrypt(ciphertext []byte) ([]byte, error) {
	if !c.Configured() {
		return nil, ErrNoKey
	}

	raw := make([]byte, base64.StdEncoding.DecodedLen(len(ciphertext)))
	n, err := base64.StdEncoding.Decode(raw, bytes.TrimSpace(ciphertext))
	if err != nil {
		return nil, fmt.Errorf("decode ciphertext: %w", err)
	}
	raw = raw[:n]

	if len(raw) == 0 || len(raw)%aes.BlockSize != 0 {
		return nil, ErrBlockSize
	}

	out := make([]byte, len(raw))
	cipher.NewCBCDecrypter(c.block, []byte(IV)).CryptBlocks(out, raw)

	return unpad(out, aes.BlockSize)
}

// DecryptString decrypts a base64 ciphertext held in a string.
func (c *Cipher) DecryptString(ciphertext string) ([]byte, error) {
	return c.Decrypt([]byte(ciphertext))
}

func pad(b []byte, blockSize int) []byte {
	n := blockSize - len(b)%blockSize
	return append(bytes.Clone(b), bytes.Repeat([]byte{byte(n)}, n)...)
}

func unpad(b []byte, blockSize int) ([]byte, error) {
	if len(b) == 0 {
		return nil, ErrInvalidPadding
	}

	n := int(b[len(b)-1])
	if n == 0 || n > blockSize || n > len(b) {
		return nil, ErrInvalidPadding
	}
	for _, p := range b[len(b)-n:] {
		if int(p) != n {
			return nil, ErrInvalidPadding
		}
	}

	return b[:len(b)-n], nil
}
