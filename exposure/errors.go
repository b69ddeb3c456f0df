package exposure

import "fmt"

// ColumnError attributes a failure to one sample column of M.
type ColumnError struct {
	Column int
	Err    error
}

func (e *ColumnError) Error() string {
	return fmt.Sprintf("exposure: column %d: %v", e.Column, e.Err)
}

func (e *ColumnError) Unwrap() error { return e.Err }
