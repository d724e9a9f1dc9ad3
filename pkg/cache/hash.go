package cache

import (
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// Hash computes the BLAKE3-256 digest of data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}
