package schema

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	"github.com/plugrid/plugmsg-go/contracts"
)

// Validator checks envelopes for structural conformance. Schemas are
// compiled once at construction; a built Validator is read-only and safe
// for unsynchronized concurrent use.
type Validator struct {
	base  *gojsonschema.Schema
	typed map[contracts.MessageType]*gojsonschema.Schema
}

// NewValidator compiles one schema per message type registered with the
// given registry, plus the base envelope schema.
func NewValidator(registry *Registry) (*Validator, error) {
	if registry == nil {
		return nil, fmt.Errorf("registry cannot be nil")
	}

	base, err := compile(registry.BaseSchema())
	if err != nil {
		return nil, fmt.Errorf("failed to compile base schema: %w", err)
	}

	typed := make(map[contracts.MessageType]*gojsonschema.Schema)
	for _, tag := range registry.MessageTypes() {
		tree, err := registry.Schema(tag)
		if err != nil {
			return nil, err
		}
		compiled, err := compile(tree)
		if err != nil {
			return nil, fmt.Errorf("failed to compile schema for %s: %w", tag, err)
		}
		typed[tag] = compiled
	}

	return &Validator{base: base, typed: typed}, nil
}

// Validate checks the envelope against the base schema first, so malformed
// envelopes are rejected before any type lookup, then against the schema of
// its declared message type. The envelope is returned to the caller
// unchanged; a nil error means it may be handed to a dispatcher.
func (v *Validator) Validate(env *contracts.Envelope) error {
	if env == nil {
		return fmt.Errorf("envelope cannot be nil")
	}

	doc, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("failed to marshal envelope for validation: %w", err)
	}
	loader := gojsonschema.NewBytesLoader(doc)

	if err := check(v.base, loader, "base_message", env.Header.MsgType); err != nil {
		return err
	}

	typed, ok := v.typed[env.Header.MsgType]
	if !ok {
		return &UnknownMessageTypeError{MsgType: env.Header.MsgType}
	}
	return check(typed, loader, string(env.Header.MsgType), env.Header.MsgType)
}

// MessageTypes returns the tags this validator recognizes.
func (v *Validator) MessageTypes() []contracts.MessageType {
	tags := make([]contracts.MessageType, 0, len(v.typed))
	for tag := range v.typed {
		tags = append(tags, tag)
	}
	return tags
}

func compile(tree map[string]interface{}) (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewGoLoader(tree))
}

func check(schema *gojsonschema.Schema, doc gojsonschema.JSONLoader, name string, msgType contracts.MessageType) error {
	result, err := schema.Validate(doc)
	if err != nil {
		return fmt.Errorf("failed to validate against %s: %w", name, err)
	}
	if result.Valid() {
		return nil
	}

	causes := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		causes = append(causes, desc.String())
	}
	return &SchemaValidationError{Schema: name, MsgType: msgType, Causes: causes}
}

// Process-wide validator over the default registry, built at most once.
var (
	defaultOnce      sync.Once
	defaultValidator *Validator
	defaultErr       error
)

// Default returns the process-wide validator covering the built-in message
// types. It is built lazily on first use and read-only afterward.
func Default() (*Validator, error) {
	defaultOnce.Do(func() {
		defaultValidator, defaultErr = NewValidator(NewRegistry())
	})
	return defaultValidator, defaultErr
}
