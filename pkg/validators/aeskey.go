package validators

import "strings"

// AESKeyBytes is the raw length of an AES-256 key.
const AESKeyBytes = 32

// Base64DecodedLen returns the number of bytes encoded by the standard
// base64 string s without decoding it.
func Base64DecodedLen(s string) int {
	n := len(s) * 3 / 4
	switch {
	case strings.HasSuffix(s, "=="):
		n -= 2
	case strings.HasSuffix(s, "="):
		n--
	}
	return n
}

// AESKeyLength reports whether the base64 key decodes to exactly 256 bits.
func AESKeyLength(key string) bool {
	return Base64DecodedLen(strings.TrimSpace(key)) == AESKeyBytes
}
