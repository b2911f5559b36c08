package schema

import (
	"fmt"
	"strings"

	"github.com/plugrid/plugmsg-go/contracts"
)

// SchemaValidationError reports that an envelope failed structural
// validation: a missing required field, a wrong type, or an unrecognized
// enum value.
type SchemaValidationError struct {
	// Schema names the schema the envelope was checked against, either
	// "base_message" or a message type tag.
	Schema string

	// MsgType is the declared type of the offending envelope, when known.
	MsgType contracts.MessageType

	// Causes lists the individual field-level failures.
	Causes []string
}

func (e *SchemaValidationError) Error() string {
	if len(e.Causes) == 0 {
		return fmt.Sprintf("schema validation failed against %s", e.Schema)
	}
	return fmt.Sprintf("schema validation failed against %s: %s",
		e.Schema, strings.Join(e.Causes, "; "))
}

// UnknownMessageTypeError reports a msg_type tag with no registered schema.
type UnknownMessageTypeError struct {
	MsgType contracts.MessageType
}

func (e *UnknownMessageTypeError) Error() string {
	return fmt.Sprintf("unknown message type: %s", e.MsgType)
}
