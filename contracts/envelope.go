package contracts

// Content is the type-specific payload section of an envelope. Which keys
// are required depends on the envelope's message type; the schema package
// enforces the structure.
type Content map[string]interface{}

// Envelope is the full message unit exchanged between plugins.
type Envelope struct {
	// Header is required on every envelope.
	Header Header `json:"header"`

	// ParentHeader is present on replies and equals the header of the
	// message being replied to, so clients can track where messages
	// come from.
	ParentHeader *Header `json:"parent_header,omitempty"`

	// Metadata holds envelope-level annotations.
	Metadata map[string]interface{} `json:"metadata,omitempty"`

	// Content holds the message payload. Its structure depends on the
	// message type.
	Content Content `json:"content,omitempty"`
}

// IsReply reports whether the envelope carries a parent header.
func (e *Envelope) IsReply() bool {
	return e.ParentHeader != nil
}

// Command returns content.command as a string, if present.
func (c Content) Command() (string, bool) {
	cmd, ok := c["command"].(string)
	return cmd, ok
}
