package storage

import "fmt"

// PersistenceError wraps a failure of the key-value collaborator. The
// store surfaces it to the caller without retrying; in-memory state is
// left as it was before the attempted mutation.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failed during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
