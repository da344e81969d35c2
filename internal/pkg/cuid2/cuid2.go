// Package cuid2 generates short, URL-safe, collision-resistant identifiers
// used to tag HTTP requests in logs and response headers.
package cuid2

import (
	crypto_rand "crypto/rand"
	"strings"
	"time"
)

const base62Alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// randomLength is the random tail appended after the timestamp prefix.
const randomLength = 12

// GeneratePrefixedId returns "<prefix>_<timestamp><random>": a 6-char base62
// encoding of the current Unix second followed by a random base62 tail. The
// timestamp prefix keeps IDs roughly sortable by creation time.
func GeneratePrefixedId(prefix string) string {
	return prefix + "_" + encodeTimestamp(time.Now().Unix()) + randomBase62(randomLength)
}

// encodeTimestamp encodes a Unix timestamp (seconds) as a fixed-width
// 6-character base62 string, lexicographically sortable.
func encodeTimestamp(seconds int64) string {
	n := seconds
	result := make([]byte, 6)
	for i := 5; i >= 0; i-- {
		result[i] = base62Alphabet[n%62]
		n /= 62
	}
	return string(result)
}

// randomBase62 draws length characters uniformly from the base62 alphabet.
// Six bits are taken per draw; values 62 and 63 are rejected so the
// distribution stays uniform.
func randomBase62(length int) string {
	bytes := make([]byte, length+8)
	if _, err := crypto_rand.Read(bytes); err != nil {
		panic("failed to read random bytes: " + err.Error())
	}

	var result strings.Builder
	bitBuffer := uint64(0)
	bitsInBuffer := uint(0)
	byteIndex := 0

	for result.Len() < length {
		for bitsInBuffer < 6 && byteIndex < len(bytes) {
			bitBuffer = (bitBuffer << 8) | uint64(bytes[byteIndex])
			bitsInBuffer += 8
			byteIndex++
		}

		value := (bitBuffer >> (bitsInBuffer - 6)) & 0x3f
		bitsInBuffer -= 6

		if value < 62 {
			result.WriteByte(base62Alphabet[value])
		}

		if byteIndex >= len(bytes) && result.Len() < length {
			if _, err := crypto_rand.Read(bytes); err != nil {
				panic("failed to read random bytes: " + err.Error())
			}
			byteIndex = 0
			bitBuffer = 0
			bitsInBuffer = 0
		}
	}

	return result.String()
}
