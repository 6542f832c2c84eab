package hash

// Hash hashes secrets and verifies plaintext against stored hashes.
type Hash interface {
	// Hash returns the hash of the plaintext.
	Hash(str string) ([]byte, error)
	// Verify reports whether the plaintext matches the stored hash.
	Verify(hashed, str string) bool
}
