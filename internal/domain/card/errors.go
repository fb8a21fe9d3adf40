package card

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates an operation referenced a card id that does not
// exist in the collection.
var ErrNotFound = errors.New("card not found")

// DuplicateError is returned when creating a card that matches an
// existing one under the duplicate rule. It carries the conflicting
// card's identity so a UI can show which card already exists.
type DuplicateError struct {
	ExistingID string
	Front      string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("duplicate card: %q already exists (id %s)", e.Front, e.ExistingID)
}

// IsDuplicate reports whether err is a DuplicateError and returns it.
func IsDuplicate(err error) (*DuplicateError, bool) {
	var dup *DuplicateError
	if errors.As(err, &dup) {
		return dup, true
	}
	return nil, false
}
