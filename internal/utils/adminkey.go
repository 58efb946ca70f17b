package utils

import "golang.org/x/crypto/bcrypt"

// HashAdminKey returns the bcrypt hash of a plaintext admin key using the
// given cost.  Operators run this once (see cmd docs) and put the hash in
// ADMIN_KEY_HASH; the plaintext key is never stored server-side.
func HashAdminKey(plain string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyAdminKey safely compares a bcrypt hash and a plaintext key.
func VerifyAdminKey(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
