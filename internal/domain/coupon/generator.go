package coupon

import (
	"crypto/rand"
	"math/big"
)

const (
	codeAlphabet      = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	DefaultCodeLength = 8
)

// GenerateCode returns a random human-readable code of the requested length,
// drawn uniformly from A-Z0-9. A non-positive length falls back to the
// default of 8. Uniqueness against the store is the caller's responsibility.
func GenerateCode(length int) string {
	if length <= 0 {
		length = DefaultCodeLength
	}

	result := make([]byte, length)
	alphabetLen := big.NewInt(int64(len(codeAlphabet)))
	for i := range result {
		n, _ := rand.Int(rand.Reader, alphabetLen)
		result[i] = codeAlphabet[n.Int64()]
	}
	return string(result)
}
