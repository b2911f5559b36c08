package contracts

import (
	"time"

	"github.com/google/uuid"
)

// MessageType tags an envelope with its protocol message type.
type MessageType string

// Recognized message types. The set is closed but extensible: adding a new
// type requires registering a schema fragment for it with schema.Registry.
const (
	ConnectRequest MessageType = "connect_request"
	ConnectReply   MessageType = "connect_reply"
	ExecuteRequest MessageType = "execute_request"
	ExecuteReply   MessageType = "execute_reply"
)

// CurrentVersion is the protocol version stamped on newly built headers.
const CurrentVersion = "0.3"

// SupportedVersions returns the protocol version tags accepted by the
// envelope schema, oldest first.
func SupportedVersions() []string {
	return []string{"0.2", CurrentVersion}
}

// Status reports the outcome of an execute request in its reply.
type Status string

const (
	StatusOK    Status = "ok"
	StatusError Status = "error"
	StatusAbort Status = "abort"
)

// Header identifies a single protocol message. All fields are required and
// non-empty on the wire. Headers are value types and are never mutated after
// construction.
type Header struct {
	// MsgID is unique per message, typically a UUID.
	MsgID string `json:"msg_id"`

	// Session is shared by all messages in one logical exchange.
	Session string `json:"session"`

	// Date is the message creation instant. Marshals to an RFC 3339
	// timestamp string on the wire.
	Date time.Time `json:"date"`

	// Source identifies the sending endpoint, unique across all plugins.
	Source string `json:"source"`

	// Target identifies the receiving endpoint, unique across all plugins.
	Target string `json:"target"`

	// MsgType is one of the recognized message type tags.
	MsgType MessageType `json:"msg_type"`

	// Version is the protocol version tag, e.g. "0.3".
	Version string `json:"version"`
}

// NewID returns a fresh unique identifier suitable for MsgID or Session.
func NewID() string {
	return uuid.NewString()
}
