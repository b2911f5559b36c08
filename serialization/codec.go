package serialization

import (
	"fmt"
	"sort"
	"sync"
)

// Format identifiers for the built-in content codecs.
const (
	// MimeCBOR is the native-object serialization format and the default
	// when no format is specified.
	MimeCBOR = "application/cbor"

	// MimeYAML is the human-readable structured-text format.
	MimeYAML = "application/x-yaml"

	// MimeJSON is the JSON text format.
	MimeJSON = "application/json"

	// MimeMsgpack is a compact binary format, registered alongside the
	// built-ins to the same registry.
	MimeMsgpack = "application/msgpack"

	// MimeOctetStream passes raw byte sequences through untransformed.
	MimeOctetStream = "application/octet-stream"

	// MimeTextPlain passes plain text through untransformed.
	MimeTextPlain = "text/plain"

	// MimeNone places data in the content verbatim without stamping
	// metadata.mime_type. Valid for encoding only.
	MimeNone = "none"
)

// DefaultMime is used when a content fragment carries no mime_type tag.
const DefaultMime = MimeCBOR

// ContentCodec encodes and decodes payload values for one format.
type ContentCodec interface {
	// MimeType returns the format identifier this codec is keyed by.
	MimeType() string

	// Encode serializes a payload value into its content.data form.
	Encode(v interface{}) (interface{}, error)

	// Decode deserializes a content.data value back into a payload value.
	Decode(raw interface{}) (interface{}, error)
}

// CodecRegistry maps format identifiers to content codecs.
type CodecRegistry struct {
	mu     sync.RWMutex
	codecs map[string]ContentCodec
}

// NewCodecRegistry creates a registry with all built-in formats registered.
func NewCodecRegistry() *CodecRegistry {
	r := &CodecRegistry{
		codecs: make(map[string]ContentCodec),
	}
	for _, codec := range builtinCodecs() {
		r.codecs[codec.MimeType()] = codec
	}
	return r
}

// Register adds a codec for a new format identifier.
func (r *CodecRegistry) Register(codec ContentCodec) error {
	if codec == nil {
		return fmt.Errorf("codec cannot be nil")
	}
	mime := codec.MimeType()
	if mime == "" {
		return fmt.Errorf("codec mime type cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.codecs[mime]; exists {
		return fmt.Errorf("format %s already registered", mime)
	}
	r.codecs[mime] = codec
	return nil
}

// Get returns the codec for a format identifier, or an
// UnsupportedFormatError if none is registered.
func (r *CodecRegistry) Get(mimeType string) (ContentCodec, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	codec, exists := r.codecs[mimeType]
	if !exists {
		return nil, &UnsupportedFormatError{MimeType: mimeType}
	}
	return codec, nil
}

// MimeTypes returns the registered format identifiers, sorted.
func (r *CodecRegistry) MimeTypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	mimes := make([]string, 0, len(r.codecs))
	for mime := range r.codecs {
		mimes = append(mimes, mime)
	}
	sort.Strings(mimes)
	return mimes
}

// Global codec registry instance
var globalCodecs = NewCodecRegistry()

// GetGlobalRegistry returns the global codec registry.
func GetGlobalRegistry() *CodecRegistry {
	return globalCodecs
}
