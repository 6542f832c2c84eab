package validator

// Validator validates a struct based on its field tags.
type Validator interface {
	// Validate returns an error describing every failed constraint, or nil.
	Validate(data any) error
}
