package serialization

import (
	"fmt"
)

// RemoteError reports that the remote side of an exchange recorded a
// failure in content.error. It is returned by DecodeContent regardless of
// whether the content also carries data.
type RemoteError struct {
	// Value is the error payload as it appeared on the wire.
	Value interface{}
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("remote reported error: %v", e.Value)
}

// UnsupportedFormatError reports a mime_type with no registered codec.
type UnsupportedFormatError struct {
	MimeType string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported content format: %s", e.MimeType)
}
