package catalog

import (
	"crypto/sha512"
	"encoding/hex"
)

// CalculateHash returns the SHA-512 digest of data as lowercase hex.
// This is the sole duplicate-detection key for the whole catalog, so the
// digest must be collision-resistant; 512 bits leaves real-world collision
// probability negligible.
func CalculateHash(data []byte) string {
	sum := sha512.Sum512(data)
	return hex.EncodeToString(sum[:])
}
