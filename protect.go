package oxcel

import (
	"crypto/rand"
	"crypto/sha512"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"strings"
	"unicode/utf16"
)

// PasswordHash stores a protection password in hashed form. Both the legacy
// 16-bit scheme and the ISO salt+spin SHA-512 scheme are kept so a written
// package opens in old and current Excel alike. Plaintext is never stored.
type PasswordHash struct {
	Legacy    string // 4 hex digits, legacy XOR-rotate hash
	Algorithm string // "SHA-512" when the ISO fields are populated
	Salt      string // base64
	Hash      string // base64
	SpinCount int
}

// IsZero reports whether no password was supplied.
func (h PasswordHash) IsZero() bool { return h.Legacy == "" && h.Hash == "" }

const protectionSpinCount = 100000

// hashPassword derives both protection hashes from a plaintext password.
func hashPassword(password string) PasswordHash {
	salt := make([]byte, 16)
	_, _ = rand.Read(salt)
	return PasswordHash{
		Legacy:    legacyPasswordHash(password),
		Algorithm: "SHA-512",
		Salt:      base64.StdEncoding.EncodeToString(salt),
		Hash:      base64.StdEncoding.EncodeToString(isoPasswordHash(password, salt, protectionSpinCount)),
		SpinCount: protectionSpinCount,
	}
}

// legacyPasswordHash implements the 16-bit rotating XOR hash Excel has used
// since the binary formats, rendered as 4 uppercase hex digits.
func legacyPasswordHash(password string) string {
	hash := 0
	for i := len(password) - 1; i >= 0; i-- {
		hash ^= int(password[i])
		hash = ((hash << 1) & 0x7fff) | (hash >> 14)
	}
	hash ^= len(password)
	hash ^= 0xCE4B
	return fmt.Sprintf("%04X", hash)
}

// isoPasswordHash implements the ECMA-376 ISO scheme: the UTF-16LE password
// is hashed with the salt, then re-hashed spinCount times with a 32-bit
// little-endian iterator appended.
func isoPasswordHash(password string, salt []byte, spinCount int) []byte {
	utf := utf16.Encode([]rune(password))
	pw := make([]byte, 0, len(utf)*2)
	for _, u := range utf {
		pw = binary.LittleEndian.AppendUint16(pw, u)
	}
	h := sha512.Sum512(append(append([]byte{}, salt...), pw...))
	digest := h[:]
	var iter [4]byte
	for i := 0; i < spinCount; i++ {
		binary.LittleEndian.PutUint32(iter[:], uint32(i))
		h = sha512.Sum512(append(digest, iter[:]...))
		digest = h[:]
	}
	return digest
}

// VerifyPassword checks a plaintext password against a stored hash,
// preferring the ISO hash when present.
func (h PasswordHash) VerifyPassword(password string) bool {
	if h.Hash != "" {
		salt, err := base64.StdEncoding.DecodeString(h.Salt)
		if err != nil {
			return false
		}
		spin := h.SpinCount
		if spin == 0 {
			spin = protectionSpinCount
		}
		want := base64.StdEncoding.EncodeToString(isoPasswordHash(password, salt, spin))
		return want == h.Hash
	}
	if h.Legacy != "" {
		return strings.EqualFold(legacyPasswordHash(password), h.Legacy)
	}
	return false
}
