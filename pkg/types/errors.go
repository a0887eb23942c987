package types

// ValidationError reports a malformed or incomplete declared resource
// or connection configuration. It is raised before any network I/O.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + e.Reason
}
