package credentials

import "golang.org/x/crypto/bcrypt"

// DefaultCost is the bcrypt work factor used when no cost is configured.
// 12 rounds keeps a single hash above ~50ms on current commodity hardware.
const DefaultCost = 12

// Hash hashes the plain text password using bcrypt with the given cost.
// A cost outside bcrypt's supported range falls back to DefaultCost.
func Hash(plain string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Verify compares a bcrypt hash with a plain password. A malformed hash
// fails closed: it reports false rather than returning an error.
func Verify(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
