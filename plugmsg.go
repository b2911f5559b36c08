// Copyright 2024 Plugmsg Contributors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package plugmsg is the entry point for the plugin request/reply message
// protocol: envelope construction, structural validation and payload
// encoding over a shared default builder, validator and codec registry.
//
// Transports hand this package raw envelope data and call it for envelope
// construction, validation and codec services; the package itself performs
// no I/O.
package plugmsg

import (
	"fmt"
	"sync"

	"github.com/plugrid/plugmsg-go/contracts"
	"github.com/plugrid/plugmsg-go/messaging"
	"github.com/plugrid/plugmsg-go/schema"
	"github.com/plugrid/plugmsg-go/serialization"
)

var (
	builderOnce sync.Once
	builder     *messaging.Builder
	builderErr  error
)

func defaultBuilder() (*messaging.Builder, error) {
	builderOnce.Do(func() {
		builder, builderErr = messaging.NewBuilder()
	})
	if builderErr != nil {
		return nil, fmt.Errorf("failed to initialize default builder: %w", builderErr)
	}
	return builder, nil
}

// Validate checks an envelope against the base schema and the schema of its
// declared message type. Idempotent, safe to call multiple times.
func Validate(env *contracts.Envelope) error {
	validator, err := schema.Default()
	if err != nil {
		return err
	}
	return validator.Validate(env)
}

// EncodeContent serializes a payload value into a content fragment using
// the given format identifier; empty selects the default format.
func EncodeContent(data interface{}, mimeType string) (contracts.Content, error) {
	return serialization.EncodeContent(data, mimeType)
}

// DecodeContent recovers the payload value from a content fragment.
func DecodeContent(content contracts.Content) (interface{}, error) {
	return serialization.DecodeContent(content)
}

// NewConnectRequest builds a connect_request envelope.
func NewConnectRequest(source, target string) (*contracts.Envelope, error) {
	b, err := defaultBuilder()
	if err != nil {
		return nil, err
	}
	return b.ConnectRequest(source, target)
}

// NewConnectReply builds a connect_reply to the given request.
func NewConnectReply(request *contracts.Envelope, content contracts.Content) (*contracts.Envelope, error) {
	b, err := defaultBuilder()
	if err != nil {
		return nil, err
	}
	return b.ConnectReply(request, content)
}

// NewExecuteRequest builds an execute_request envelope for a command.
func NewExecuteRequest(source, target, command string, opts ...messaging.ExecuteOption) (*contracts.Envelope, error) {
	b, err := defaultBuilder()
	if err != nil {
		return nil, err
	}
	return b.ExecuteRequest(source, target, command, opts...)
}

// NewExecuteReply builds an execute_reply to the given request.
func NewExecuteReply(request *contracts.Envelope, executionCount int, opts ...messaging.ReplyOption) (*contracts.Envelope, error) {
	b, err := defaultBuilder()
	if err != nil {
		return nil, err
	}
	return b.ExecuteReply(request, executionCount, opts...)
}

// Marshal serializes an envelope to its JSON wire form.
func Marshal(env *contracts.Envelope) ([]byte, error) {
	return messaging.NewJSONEnvelopeSerializer().Serialize(env)
}

// Unmarshal deserializes an envelope from its JSON wire form. Callers
// validate the result before dispatching it.
func Unmarshal(data []byte) (*contracts.Envelope, error) {
	return messaging.NewJSONEnvelopeSerializer().Deserialize(data)
}
