package crypto

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
)

var nonDigits = regexp.MustCompile(`[^0-9]`)

// NormalizeNISS strips everything that is not a digit from a Belgian
// national number (11 digits, e.g. "85.07.30-033.61" -> "85073003361").
func NormalizeNISS(niss string) string {
	return nonDigits.ReplaceAllString(niss, "")
}

// NISSHash returns the hex SHA-256 of the normalized NISS, used for
// duplicate lookups without decrypting.
func NISSHash(nissNormalized string) string {
	h := sha256.Sum256([]byte(nissNormalized))
	return hex.EncodeToString(h[:])
}
