package schema

import (
	"fmt"
	"sort"
	"sync"

	"github.com/plugrid/plugmsg-go/contracts"
)

// TypeDefinition holds the constraints a message type adds on top of the
// base envelope schema.
type TypeDefinition struct {
	// Description documents the message type.
	Description string

	// Content is a JSON Schema fragment constraining the content section
	// for this type. Nil means the type adds no content constraints.
	Content map[string]interface{}

	// RequireContent marks the content section as required at the
	// envelope level.
	RequireContent bool

	// RequireParentHeader marks parent_header as required at the
	// envelope level. Set on reply types.
	RequireParentHeader bool
}

// Registry holds the structural definitions for the envelope and every
// known message type. Each type schema is composed as "base envelope schema
// AND type-specific constraints"; the base requirements always apply.
type Registry struct {
	mu    sync.RWMutex
	types map[contracts.MessageType]TypeDefinition
}

// NewRegistry creates a registry with the four built-in message types
// registered.
func NewRegistry() *Registry {
	r := &Registry{
		types: make(map[contracts.MessageType]TypeDefinition),
	}
	for tag, def := range builtinTypes() {
		r.types[tag] = def
	}
	return r
}

// RegisterMessageType registers an additional message type. Registration
// must happen before a Validator is built from this registry; the closed
// type list and the msg_type enum are derived from the registered set.
func (r *Registry) RegisterMessageType(tag contracts.MessageType, def TypeDefinition) error {
	if tag == "" {
		return fmt.Errorf("message type tag cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.types[tag]; exists {
		return fmt.Errorf("message type %s already registered", tag)
	}
	r.types[tag] = def
	return nil
}

// MessageTypes returns the closed list of recognized message type tags,
// sorted for determinism.
func (r *Registry) MessageTypes() []contracts.MessageType {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tags := make([]contracts.MessageType, 0, len(r.types))
	for tag := range r.types {
		tags = append(tags, tag)
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i] < tags[j] })
	return tags
}

// Schema returns the full schema for the named message type: conformance to
// the base envelope definition plus the type's additional constraints. The
// returned tree is deep-copied so callers cannot corrupt shared state.
func (r *Registry) Schema(tag contracts.MessageType) (map[string]interface{}, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, exists := r.types[tag]; !exists {
		return nil, &UnknownMessageTypeError{MsgType: tag}
	}
	return r.compose(string(tag)), nil
}

// BaseSchema returns the schema every envelope must satisfy regardless of
// its message type.
func (r *Registry) BaseSchema() map[string]interface{} {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.compose("base_message")
}

// compose builds a self-contained schema selecting one definition. Callers
// must hold at least the read lock.
func (r *Registry) compose(definition string) map[string]interface{} {
	schema := map[string]interface{}{
		"definitions": r.definitions(),
		"allOf": []interface{}{
			map[string]interface{}{"$ref": "#/definitions/" + definition},
		},
	}
	return deepCopy(schema).(map[string]interface{})
}

// definitions builds the shared definition tree. The msg_type enum is
// derived from the registered type set so extending the registry extends
// the enum without touching existing definitions.
func (r *Registry) definitions() map[string]interface{} {
	msgTypes := make([]interface{}, 0, len(r.types))
	tags := make([]string, 0, len(r.types))
	for tag := range r.types {
		tags = append(tags, string(tag))
	}
	sort.Strings(tags)
	for _, tag := range tags {
		msgTypes = append(msgTypes, tag)
	}

	versions := make([]interface{}, 0, 2)
	for _, v := range contracts.SupportedVersions() {
		versions = append(versions, v)
	}

	defs := map[string]interface{}{
		"unique_id": map[string]interface{}{
			"type":        "string",
			"description": "Typically UUID, unique within its scope",
		},
		"header": map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"msg_id": map[string]interface{}{
					"$ref":        "#/definitions/unique_id",
					"description": "Unique per message",
				},
				"session": map[string]interface{}{
					"$ref":        "#/definitions/unique_id",
					"description": "Shared by all messages in one exchange",
				},
				"date": map[string]interface{}{
					"type":        "string",
					"description": "RFC 3339 timestamp for when the message is created",
				},
				"source": map[string]interface{}{
					"type":        "string",
					"description": "Identifier of the sending endpoint, unique across all plugins",
				},
				"target": map[string]interface{}{
					"type":        "string",
					"description": "Identifier of the receiving endpoint, unique across all plugins",
				},
				"msg_type": map[string]interface{}{
					"type":        "string",
					"enum":        msgTypes,
					"description": "All recognized message type tags",
				},
				"version": map[string]interface{}{
					"type":        "string",
					"enum":        versions,
					"default":     contracts.CurrentVersion,
					"description": "The message protocol version",
				},
			},
			"required": []interface{}{
				"msg_id", "session", "date", "source", "target", "msg_type", "version",
			},
		},
		"error": map[string]interface{}{
			"properties": map[string]interface{}{
				"ename": map[string]interface{}{
					"type":        "string",
					"description": "Error class name",
				},
				"evalue": map[string]interface{}{
					"type":        "string",
					"description": "Error message text",
				},
				"traceback": map[string]interface{}{
					"type":        "array",
					"description": "Ordered list of stack frames, each a string",
				},
			},
			"required": []interface{}{"ename"},
		},
		"base_message": map[string]interface{}{
			"description": "Plugin request/reply message envelope",
			"type":        "object",
			"properties": map[string]interface{}{
				"header": map[string]interface{}{"$ref": "#/definitions/header"},
				"parent_header": map[string]interface{}{
					"$ref": "#/definitions/header",
					"description": "In a chain of messages, the header of the message " +
						"being replied to, copied so clients can track where messages come from",
				},
				"metadata": map[string]interface{}{
					"type":        "object",
					"description": "Envelope-level annotations",
				},
				"content": map[string]interface{}{
					"type":        "object",
					"description": "Message payload, structure depends on msg_type",
				},
			},
			"required": []interface{}{"header"},
		},
	}

	for tag, def := range r.types {
		defs[string(tag)] = typeDefinition(def)
	}
	return defs
}

// typeDefinition renders a registered type as "base_message AND extra
// constraints".
func typeDefinition(def TypeDefinition) map[string]interface{} {
	allOf := []interface{}{
		map[string]interface{}{"$ref": "#/definitions/base_message"},
	}
	if def.Content != nil {
		allOf = append(allOf, map[string]interface{}{
			"properties": map[string]interface{}{
				"content": def.Content,
			},
		})
	}

	node := map[string]interface{}{"allOf": allOf}
	if def.Description != "" {
		node["description"] = def.Description
	}

	var required []interface{}
	if def.RequireContent {
		required = append(required, "content")
	}
	if def.RequireParentHeader {
		required = append(required, "parent_header")
	}
	if len(required) > 0 {
		node["required"] = required
	}
	return node
}

// builtinTypes returns the four built-in message type definitions.
func builtinTypes() map[contracts.MessageType]TypeDefinition {
	return map[contracts.MessageType]TypeDefinition{
		contracts.ConnectRequest: {
			Description: "Request for basic information about the plugin hub",
		},
		contracts.ConnectReply: {
			Description:         "Basic information about the plugin hub",
			RequireContent:      true,
			RequireParentHeader: true,
			Content: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"command": map[string]interface{}{
						"type": "object",
						"properties": map[string]interface{}{
							"uri":  map[string]interface{}{"type": "string"},
							"port": map[string]interface{}{"type": "number"},
							"name": map[string]interface{}{"type": "string"},
						},
						"required": []interface{}{"uri", "port", "name"},
					},
					"publish": map[string]interface{}{
						"type": "object",
						"properties": map[string]interface{}{
							"uri":  map[string]interface{}{"type": "string"},
							"port": map[string]interface{}{"type": "number"},
						},
						"required": []interface{}{"uri", "port"},
					},
				},
				"required": []interface{}{"command", "publish"},
			},
		},
		contracts.ExecuteRequest: {
			Description: "Request to execute a command on the target plugin",
			Content: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"command": map[string]interface{}{
						"type":        "string",
						"description": "Command to be executed by the target",
					},
					"data": map[string]interface{}{
						"description": "The execution arguments",
					},
					"metadata": map[string]interface{}{
						"type":        "object",
						"description": "Metadata describing the data encoding",
					},
					"silent": map[string]interface{}{
						"type":        "boolean",
						"default":     false,
						"description": "Execute as quietly as possible, without broadcasting output",
					},
					"stop_on_error": map[string]interface{}{
						"type":        "boolean",
						"default":     false,
						"description": "Abort the remaining execution queue if this request fails",
					},
				},
				"required": []interface{}{"command"},
			},
		},
		contracts.ExecuteReply: {
			Description:         "Response to an execute request",
			RequireContent:      true,
			RequireParentHeader: true,
			Content: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"command": map[string]interface{}{
						"type":        "string",
						"description": "Command executed",
					},
					"status": map[string]interface{}{
						"type": "string",
						"enum": []interface{}{"ok", "error", "abort"},
					},
					"execution_count": map[string]interface{}{
						"type":        "number",
						"minimum":     0,
						"description": "Execution counter, increases by one with each request",
					},
					"data": map[string]interface{}{
						"description": "The execution result",
					},
					"metadata": map[string]interface{}{
						"type":        "object",
						"description": "Metadata describing the data encoding",
					},
					"error": map[string]interface{}{"$ref": "#/definitions/error"},
				},
				"required": []interface{}{"command", "status", "execution_count"},
			},
		},
	}
}

// deepCopy clones a schema tree of maps, slices and scalars.
func deepCopy(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, val := range t {
			out[k] = deepCopy(val)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, val := range t {
			out[i] = deepCopy(val)
		}
		return out
	default:
		return v
	}
}
