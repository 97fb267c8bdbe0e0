package auth

import "golang.org/x/crypto/bcrypt"

// dummyHash is compared against when no user record exists so the
// unknown-email and wrong-password paths take the same amount of work.
// It is the bcrypt hash of an unguessable throwaway string.
var dummyHash = []byte("$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy")

// HashPassword returns bcrypt hash using the given cost.
func HashPassword(plain string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword safely compares bcrypt hash and plain password.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// burnPassword runs a bcrypt comparison that always fails.  Called on the
// unknown-email path so account existence does not leak through timing.
func burnPassword(plain string) {
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(plain))
}
