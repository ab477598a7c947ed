package auth

import "golang.org/x/crypto/bcrypt"

// BcryptVerifier implements usecase.CredentialVerifier for bcrypt hashed
// account passwords.
type BcryptVerifier struct{}

// NewBcryptVerifier creates a new BcryptVerifier.
func NewBcryptVerifier() *BcryptVerifier {
	return &BcryptVerifier{}
}

// Verify reports whether credential matches hash. A malformed hash never matches.
func (BcryptVerifier) Verify(credential, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(credential)) == nil
}

// HashCredential hashes an account password for storage.
func HashCredential(credential string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(credential), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
