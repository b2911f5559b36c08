package serialization

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/fxamacker/cbor/v2"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"
)

func builtinCodecs() []ContentCodec {
	return []ContentCodec{
		newCBORCodec(),
		jsonCodec{},
		yamlCodec{},
		msgpackCodec{},
		passthroughCodec{mime: MimeOctetStream},
		passthroughCodec{mime: MimeTextPlain},
	}
}

// cborCodec is the native-object format. Integers decode as int64 and maps
// as string-keyed maps so values round-trip deterministically.
type cborCodec struct {
	dec cbor.DecMode
}

func newCBORCodec() cborCodec {
	dec, err := cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]interface{}(nil)),
		IntDec:         cbor.IntDecConvertSigned,
	}.DecMode()
	if err != nil {
		// The options above are static and valid.
		panic(fmt.Sprintf("cbor decode mode: %v", err))
	}
	return cborCodec{dec: dec}
}

func (cborCodec) MimeType() string { return MimeCBOR }

func (cborCodec) Encode(v interface{}) (interface{}, error) {
	data, err := cbor.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("cbor encode failed: %w", err)
	}
	return data, nil
}

func (c cborCodec) Decode(raw interface{}) (interface{}, error) {
	data, err := binaryData(raw)
	if err != nil {
		return nil, err
	}
	var out interface{}
	if err := c.dec.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("cbor decode failed: %w", err)
	}
	return out, nil
}

// jsonCodec stores the serialized form as a string so envelopes stay
// readable on a text wire.
type jsonCodec struct{}

func (jsonCodec) MimeType() string { return MimeJSON }

func (jsonCodec) Encode(v interface{}) (interface{}, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("json encode failed: %w", err)
	}
	return string(data), nil
}

func (jsonCodec) Decode(raw interface{}) (interface{}, error) {
	data, err := textData(raw)
	if err != nil {
		return nil, err
	}
	var out interface{}
	if err := json.Unmarshal([]byte(data), &out); err != nil {
		return nil, fmt.Errorf("json decode failed: %w", err)
	}
	return out, nil
}

type yamlCodec struct{}

func (yamlCodec) MimeType() string { return MimeYAML }

func (yamlCodec) Encode(v interface{}) (interface{}, error) {
	data, err := yaml.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("yaml encode failed: %w", err)
	}
	return string(data), nil
}

func (yamlCodec) Decode(raw interface{}) (interface{}, error) {
	data, err := textData(raw)
	if err != nil {
		return nil, err
	}
	var out interface{}
	if err := yaml.Unmarshal([]byte(data), &out); err != nil {
		return nil, fmt.Errorf("yaml decode failed: %w", err)
	}
	return out, nil
}

type msgpackCodec struct{}

func (msgpackCodec) MimeType() string { return MimeMsgpack }

func (msgpackCodec) Encode(v interface{}) (interface{}, error) {
	data, err := msgpack.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("msgpack encode failed: %w", err)
	}
	return data, nil
}

func (msgpackCodec) Decode(raw interface{}) (interface{}, error) {
	data, err := binaryData(raw)
	if err != nil {
		return nil, err
	}
	var out interface{}
	if err := msgpack.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("msgpack decode failed: %w", err)
	}
	return out, nil
}

// passthroughCodec performs no transformation in either direction.
type passthroughCodec struct {
	mime string
}

func (c passthroughCodec) MimeType() string { return c.mime }

func (passthroughCodec) Encode(v interface{}) (interface{}, error) { return v, nil }

func (passthroughCodec) Decode(raw interface{}) (interface{}, error) { return raw, nil }

// binaryData recovers the byte form of a binary payload. A JSON wire hop
// turns []byte into a base64 string, so both forms are accepted.
func binaryData(raw interface{}) ([]byte, error) {
	switch t := raw.(type) {
	case []byte:
		return t, nil
	case string:
		decoded, err := base64.StdEncoding.DecodeString(t)
		if err != nil {
			return []byte(t), nil
		}
		return decoded, nil
	default:
		return nil, fmt.Errorf("expected binary content data, got %T", raw)
	}
}

func textData(raw interface{}) (string, error) {
	switch t := raw.(type) {
	case string:
		return t, nil
	case []byte:
		return string(t), nil
	default:
		return "", fmt.Errorf("expected text content data, got %T", raw)
	}
}
