package validators

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNRIC(t *testing.T) {
	tests := []struct {
		description string
		id          string
		expected    bool
	}{
		{"citizen S series", "S1234567D", true},
		{"citizen T series", "T1234567J", true},
		{"foreigner F series", "F1234567N", true},
		{"foreigner G series", "G1234567X", true},
		{"M series", "M1234567K", true},
		{"lower case is normalised", "s1234567d", true},
		{"wrong check character", "S1234567A", false},
		{"non numeric body", "S12345A7D", false},
		{"unknown prefix", "A1234567D", false},
		{"too short", "S123456D", false},
		{"too long", "S12345678D", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			assert.Equalf(t, tt.expected, NRIC(tt.id), "NRIC(%q)", tt.id)
		})
	}
}

func TestNRIC_FlippingCheckCharacterFails(t *testing.T) {
	valid := "S1234567D"
	for c := 'A'; c <= 'Z'; c++ {
		if c == 'D' {
			continue
		}
		id := valid[:8] + string(c)
		assert.Falsef(t, NRIC(id), "NRIC(%q) should be false", id)
	}
}

func TestUEN(t *testing.T) {
	tests := []struct {
		description string
		uen         string
		expected    bool
	}{
		{"business 9 char", "12345678A", true},
		{"business leading letter", "A1234567A", false},
		{"local company 10 char", "123456789Z", true},
		{"entity code form", "T99CC1234A", true},
		{"entity code form with LP", "T08LP0001B", true},
		{"unknown entity code", "T99SGABCD1", false},
		{"unknown entity code digits", "T99ZZ1234A", false},
		{"lower case tail", "12345678a", false},
		{"wrong length", "1234567A", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			assert.Equalf(t, tt.expected, UEN(tt.uen), "UEN(%q)", tt.uen)
		})
	}
}

func TestAESKeyLength(t *testing.T) {
	key32 := base64.StdEncoding.EncodeToString([]byte(strings.Repeat("k", 32)))
	key16 := base64.StdEncoding.EncodeToString([]byte(strings.Repeat("k", 16)))
	key33 := base64.StdEncoding.EncodeToString([]byte(strings.Repeat("k", 33)))
	key31 := base64.StdEncoding.EncodeToString([]byte(strings.Repeat("k", 31)))

	assert.True(t, AESKeyLength(key32))
	assert.False(t, AESKeyLength(key16))
	assert.False(t, AESKeyLength(key33))
	assert.False(t, AESKeyLength(key31))
	assert.False(t, AESKeyLength(""))
}

func TestBase64DecodedLen(t *testing.T) {
	for n := 0; n < 40; n++ {
		encoded := base64.StdEncoding.EncodeToString(make([]byte, n))
		assert.Equalf(t, n, Base64DecodedLen(encoded), "length of %d bytes", n)
	}
}

func TestEmail(t *testing.T) {
	assert.True(t, Email("admin@example.com"))
	assert.True(t, Email("first.last+tag@sub.example.org"))
	assert.False(t, Email("not-an-email"))
	assert.False(t, Email("missing@"))
	assert.False(t, Email(""))
}
