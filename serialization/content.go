package serialization

import (
	"github.com/plugrid/plugmsg-go/contracts"
)

// EncodeContent serializes a payload value into a content fragment. Absent
// data produces an empty fragment with no data or metadata keys. Otherwise
// the encoded value lands in content.data and, unless mimeType is MimeNone,
// content.metadata.mime_type is stamped with the format identifier. An
// empty mimeType selects the default format.
func (r *CodecRegistry) EncodeContent(data interface{}, mimeType string) (contracts.Content, error) {
	content := contracts.Content{}
	if data == nil {
		return content, nil
	}

	if mimeType == MimeNone {
		content["data"] = data
		return content, nil
	}
	if mimeType == "" {
		mimeType = DefaultMime
	}

	codec, err := r.Get(mimeType)
	if err != nil {
		return nil, err
	}
	encoded, err := codec.Encode(data)
	if err != nil {
		return nil, err
	}

	content["data"] = encoded
	content["metadata"] = map[string]interface{}{"mime_type": mimeType}
	return content, nil
}

// DecodeContent recovers the payload value from a content fragment. A set
// content.error fails with a RemoteError carrying the reported value,
// regardless of whether data is present. An unrecognized mime_type fails
// with an UnsupportedFormatError; absent data decodes to nil.
func (r *CodecRegistry) DecodeContent(content contracts.Content) (interface{}, error) {
	if errValue, ok := content["error"]; ok && errValue != nil {
		return nil, &RemoteError{Value: errValue}
	}

	mimeType := DefaultMime
	if metadata, ok := content["metadata"].(map[string]interface{}); ok {
		if tag, ok := metadata["mime_type"].(string); ok && tag != "" {
			mimeType = tag
		}
	}

	codec, err := r.Get(mimeType)
	if err != nil {
		return nil, err
	}

	data, ok := content["data"]
	if !ok || data == nil {
		return nil, nil
	}
	return codec.Decode(data)
}

// EncodeContent serializes data using the global codec registry.
func EncodeContent(data interface{}, mimeType string) (contracts.Content, error) {
	return globalCodecs.EncodeContent(data, mimeType)
}

// DecodeContent decodes a content fragment using the global codec registry.
func DecodeContent(content contracts.Content) (interface{}, error) {
	return globalCodecs.DecodeContent(content)
}
