package naming

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"time"
)

const (
	compactIDTimeLen = 7
	compactIDRandLen = 5
	base36Digits     = "0123456789abcdefghijklmnopqrstuvwxyz"
)

// 36^7, the first second not representable in the timestamp part.
const compactIDTimeLimit int64 = 78364164096

// 36^5, the random suffix space.
const compactIDRandSpace uint64 = 60466176

// NewCompactID returns a 12-character lowercase base36 identifier whose
// first 7 characters encode the current Unix second and whose last 5 are
// random. Lexicographic order therefore follows creation order at second
// granularity, which keeps store listings naturally chronological.
func NewCompactID() (string, error) {
	now := time.Now().UTC().Unix()
	if now < 0 || now >= compactIDTimeLimit {
		return "", fmt.Errorf("timestamp %d outside compact ID range", now)
	}

	var buf [4]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", fmt.Errorf("generate random suffix: %w", err)
	}
	suffix := uint64(binary.BigEndian.Uint32(buf[:])) % compactIDRandSpace

	var id [compactIDTimeLen + compactIDRandLen]byte
	encodeBase36(id[:compactIDTimeLen], uint64(now))
	encodeBase36(id[compactIDTimeLen:], suffix)
	return string(id[:]), nil
}

// encodeBase36 writes v into dst right-aligned, zero-padded.
func encodeBase36(dst []byte, v uint64) {
	for i := len(dst) - 1; i >= 0; i-- {
		dst[i] = base36Digits[v%36]
		v /= 36
	}
}
