package uid

// NumberID generates int64 identifiers suitable for database primary keys.
type NumberID interface {
	// Generate returns a new int64 identifier.
	Generate() int64
}

// StringID generates string identifiers (UUIDs, opaque tokens, etc).
type StringID interface {
	// Generate returns a new string identifier.
	Generate() string
}
