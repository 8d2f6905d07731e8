package corpus

import "fmt"

// NotFoundError reports a corpus path that does not exist on disk.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("corpus path not found: %s", e.Path)
}

// FormatError reports a patient document that could not be parsed into the
// expected challenge structure.
type FormatError struct {
	Path   string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("malformed patient document %s: %s", e.Path, e.Reason)
}
