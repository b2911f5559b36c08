package messaging

import (
	"encoding/json"
	"fmt"

	"github.com/plugrid/plugmsg-go/contracts"
)

// EnvelopeSerializer translates envelopes to and from their wire form. The
// base schema is defined independently of the wire encoding; any encoding
// preserving the nested mapping structure works.
type EnvelopeSerializer interface {
	Serialize(env *contracts.Envelope) ([]byte, error)
	Deserialize(data []byte) (*contracts.Envelope, error)
}

// JSONEnvelopeSerializer carries envelopes as JSON text.
type JSONEnvelopeSerializer struct {
	prettyPrint bool
}

// NewJSONEnvelopeSerializer creates a JSON envelope serializer.
func NewJSONEnvelopeSerializer() *JSONEnvelopeSerializer {
	return &JSONEnvelopeSerializer{}
}

// NewPrettyJSONEnvelopeSerializer creates a serializer that indents output,
// useful for logs and debugging tools.
func NewPrettyJSONEnvelopeSerializer() *JSONEnvelopeSerializer {
	return &JSONEnvelopeSerializer{prettyPrint: true}
}

// Serialize serializes an envelope to JSON.
func (s *JSONEnvelopeSerializer) Serialize(env *contracts.Envelope) ([]byte, error) {
	if env == nil {
		return nil, fmt.Errorf("envelope cannot be nil")
	}

	if s.prettyPrint {
		return json.MarshalIndent(env, "", "  ")
	}
	return json.Marshal(env)
}

// Deserialize deserializes JSON data to an envelope. Callers validate the
// result before dispatching it.
func (s *JSONEnvelopeSerializer) Deserialize(data []byte) (*contracts.Envelope, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("data cannot be empty")
	}

	var env contracts.Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("failed to unmarshal envelope: %w", err)
	}
	return &env, nil
}
