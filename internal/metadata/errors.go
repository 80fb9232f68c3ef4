package metadata

import (
	"errors"
	"fmt"
)

// MissingError is returned when a commit message has no blank line, and
// therefore no trailer.
type MissingError struct {
	CommitID string
	Message  string
}

func (e *MissingError) Error() string {
	return fmt.Sprintf("commit %s is missing a metadata trailer:\n%s", e.CommitID, e.Message)
}

// DeserializeError is returned when the trailer of a commit message does not
// decode into Metadata. Err carries the parser diagnostic.
type DeserializeError struct {
	CommitID string
	Message  string
	Err      error
}

func (e *DeserializeError) Error() string {
	return fmt.Sprintf("commit %s has a malformed metadata trailer: %v\n%s", e.CommitID, e.Err, e.Message)
}

func (e *DeserializeError) Unwrap() error {
	return e.Err
}

// IsMissing returns true if err is, or wraps, a MissingError.
func IsMissing(err error) bool {
	var me *MissingError
	return errors.As(err, &me)
}

// IsDeserialize returns true if err is, or wraps, a DeserializeError.
func IsDeserialize(err error) bool {
	var de *DeserializeError
	return errors.As(err, &de)
}
