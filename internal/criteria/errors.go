package criteria

import "fmt"

// ValidationError reports malformed input at a construction boundary.
// It names the offending field and the violated constraint so a bad record
// can be pinpointed without inspecting a stack.
type ValidationError struct {
	Field      string
	Constraint string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Constraint)
}
