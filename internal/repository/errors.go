package repository

import "errors"

var (
	// ErrNotFound is returned when a row does not exist.
	ErrNotFound = errors.New("not found")
)

// DuplicateError reports a unique-constraint violation and which logical
// fields collided. It is the storage-level backstop for races the service
// layer's explicit uniqueness checks cannot close.
type DuplicateError struct {
	Fields []string
}

func (e *DuplicateError) Error() string {
	return "duplicate value for " + joinFields(e.Fields)
}

func joinFields(fields []string) string {
	switch len(fields) {
	case 0:
		return "unique field"
	case 1:
		return fields[0]
	default:
		out := fields[0]
		for _, f := range fields[1:] {
			out += ", " + f
		}
		return out
	}
}
