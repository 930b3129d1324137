// Package hash provides the hashing helpers used for privacy-preserving
// identifiers in audit records and logs.
package hash

import (
	"crypto/sha256"
	"encoding/hex"
)

// tokenHashLen is how many hex characters of a token digest the audit trail
// keeps. Long enough to correlate one token's votes, too short to reverse.
const tokenHashLen = 12

// SHA256Hex returns the hex-encoded SHA256 hash of the input string.
func SHA256Hex(input string) string {
	h := sha256.Sum256([]byte(input))
	return hex.EncodeToString(h[:])
}

// TokenHashPrefix returns the truncated digest of a voter token. Raw tokens
// appear only inside ledger and rate-counter keys, never in stored values.
func TokenHashPrefix(token string) string {
	return SHA256Hex(token)[:tokenHashLen]
}
