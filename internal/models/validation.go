package models

// ValidationError is returned by request validators so handlers can map
// field problems to a 400 VALIDATION_ERROR envelope without string matching.
type ValidationError struct {
	Details string
}

func (e *ValidationError) Error() string {
	return e.Details
}
