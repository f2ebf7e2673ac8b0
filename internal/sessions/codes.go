package sessions

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// Alphabet excludes ambiguous characters: 0, O, 1, I, L
const alphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

const (
	codeLength   = 5
	codeAttempts = 10
)

// newCode returns a short player-facing session code for which taken
// reports false.
func newCode(taken func(string) bool) (string, error) {
	limit := big.NewInt(int64(len(alphabet)))
	for attempt := 0; attempt < codeAttempts; attempt++ {
		code := make([]byte, codeLength)
		for i := range code {
			n, err := rand.Int(rand.Reader, limit)
			if err != nil {
				return "", fmt.Errorf("reading random: %w", err)
			}
			code[i] = alphabet[n.Int64()]
		}
		if !taken(string(code)) {
			return string(code), nil
		}
	}
	return "", fmt.Errorf("no free session code after %d attempts", codeAttempts)
}
