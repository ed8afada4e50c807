package ports

// PasswordHasher turns plaintext passwords into storable hashes and checks
// guesses against them. Verify reports a mismatch as (false, nil) and only
// errors on a malformed hash.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) (bool, error)
}
