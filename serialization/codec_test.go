package serialization

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plugrid/plugmsg-go/contracts"
)

func TestRoundTrips(t *testing.T) {
	registry := NewCodecRegistry()

	cases := []struct {
		name     string
		mimeType string
		payload  interface{}
		want     interface{}
	}{
		{
			name:     "cbor map",
			mimeType: MimeCBOR,
			payload:  map[string]interface{}{"op": "add", "count": int64(3)},
			want:     map[string]interface{}{"op": "add", "count": int64(3)},
		},
		{
			name:     "cbor list",
			mimeType: MimeCBOR,
			payload:  []interface{}{int64(1), int64(2)},
			want:     []interface{}{int64(1), int64(2)},
		},
		{
			name:     "json map",
			mimeType: MimeJSON,
			payload:  map[string]interface{}{"op": "add", "count": float64(3)},
			want:     map[string]interface{}{"op": "add", "count": float64(3)},
		},
		{
			name:     "yaml map",
			mimeType: MimeYAML,
			payload:  map[string]interface{}{"uri": "tcp://x", "port": 5555},
			want:     map[string]interface{}{"uri": "tcp://x", "port": 5555},
		},
		{
			name:     "msgpack map",
			mimeType: MimeMsgpack,
			payload:  map[string]interface{}{"op": "add"},
			want:     map[string]interface{}{"op": "add"},
		},
		{
			name:     "octet-stream passthrough",
			mimeType: MimeOctetStream,
			payload:  []byte{0x01, 0x02, 0xff},
			want:     []byte{0x01, 0x02, 0xff},
		},
		{
			name:     "text passthrough",
			mimeType: MimeTextPlain,
			payload:  "hello plugin",
			want:     "hello plugin",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			content, err := registry.EncodeContent(tc.payload, tc.mimeType)
			require.NoError(t, err)
			assert.Equal(t,
				map[string]interface{}{"mime_type": tc.mimeType},
				content["metadata"])

			decoded, err := registry.DecodeContent(content)
			require.NoError(t, err)
			assert.Equal(t, tc.want, decoded)
		})
	}
}

func TestEncodeContent(t *testing.T) {
	registry := NewCodecRegistry()

	t.Run("nil data produces an empty fragment", func(t *testing.T) {
		content, err := registry.EncodeContent(nil, MimeCBOR)
		require.NoError(t, err)
		assert.NotContains(t, content, "data")
		assert.NotContains(t, content, "metadata")
	})

	t.Run("empty format selects the default", func(t *testing.T) {
		content, err := registry.EncodeContent("x", "")
		require.NoError(t, err)
		assert.Equal(t,
			map[string]interface{}{"mime_type": DefaultMime},
			content["metadata"])
	})

	t.Run("MimeNone passes data through without a metadata stamp", func(t *testing.T) {
		content, err := registry.EncodeContent("raw value", MimeNone)
		require.NoError(t, err)
		assert.Equal(t, "raw value", content["data"])
		assert.NotContains(t, content, "metadata")
	})

	t.Run("unknown format fails", func(t *testing.T) {
		_, err := registry.EncodeContent("x", "application/x-unknown")

		var formatErr *UnsupportedFormatError
		require.ErrorAs(t, err, &formatErr)
		assert.Equal(t, "application/x-unknown", formatErr.MimeType)
	})
}

func TestDecodeContent(t *testing.T) {
	registry := NewCodecRegistry()

	t.Run("set error fails with RemoteError regardless of data", func(t *testing.T) {
		content, err := registry.EncodeContent("partial result", MimeTextPlain)
		require.NoError(t, err)
		content["error"] = "ValueError: bad input"

		_, err = registry.DecodeContent(content)

		var remoteErr *RemoteError
		require.ErrorAs(t, err, &remoteErr)
		assert.Equal(t, "ValueError: bad input", remoteErr.Value)
	})

	t.Run("missing metadata selects the default format", func(t *testing.T) {
		encoded, err := registry.EncodeContent([]interface{}{int64(7)}, MimeCBOR)
		require.NoError(t, err)

		decoded, err := registry.DecodeContent(contracts.Content{"data": encoded["data"]})
		require.NoError(t, err)
		assert.Equal(t, []interface{}{int64(7)}, decoded)
	})

	t.Run("absent data decodes to nil", func(t *testing.T) {
		decoded, err := registry.DecodeContent(contracts.Content{})
		require.NoError(t, err)
		assert.Nil(t, decoded)
	})

	t.Run("unrecognized mime_type fails hard", func(t *testing.T) {
		content := contracts.Content{
			"data":     "payload",
			"metadata": map[string]interface{}{"mime_type": "application/x-unknown"},
		}

		_, err := registry.DecodeContent(content)

		var formatErr *UnsupportedFormatError
		require.ErrorAs(t, err, &formatErr)
		assert.Equal(t, "application/x-unknown", formatErr.MimeType)
	})

	t.Run("binary data survives a JSON wire hop", func(t *testing.T) {
		content, err := registry.EncodeContent(map[string]interface{}{"k": "v"}, MimeCBOR)
		require.NoError(t, err)

		wire, err := json.Marshal(content)
		require.NoError(t, err)

		var hopped map[string]interface{}
		require.NoError(t, json.Unmarshal(wire, &hopped))

		decoded, err := registry.DecodeContent(contracts.Content(hopped))
		require.NoError(t, err)
		assert.Equal(t, map[string]interface{}{"k": "v"}, decoded)
	})
}

// reverseCodec is a toy format used to exercise registry extension.
type reverseCodec struct{}

func (reverseCodec) MimeType() string { return "application/x-reverse" }

func (reverseCodec) Encode(v interface{}) (interface{}, error) {
	s := v.(string)
	return reverse(s), nil
}

func (reverseCodec) Decode(raw interface{}) (interface{}, error) {
	s := raw.(string)
	return reverse(s), nil
}

func reverse(s string) string {
	runes := []rune(s)
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}
	return string(runes)
}

func TestCodecRegistryExtension(t *testing.T) {
	t.Run("registered format becomes en- and decodable", func(t *testing.T) {
		registry := NewCodecRegistry()
		require.NoError(t, registry.Register(reverseCodec{}))

		content, err := registry.EncodeContent("abc", "application/x-reverse")
		require.NoError(t, err)
		assert.Equal(t, "cba", content["data"])

		decoded, err := registry.DecodeContent(content)
		require.NoError(t, err)
		assert.Equal(t, "abc", decoded)
	})

	t.Run("duplicate registration fails", func(t *testing.T) {
		registry := NewCodecRegistry()
		require.NoError(t, registry.Register(reverseCodec{}))
		assert.Error(t, registry.Register(reverseCodec{}))
	})

	t.Run("nil codec fails", func(t *testing.T) {
		assert.Error(t, NewCodecRegistry().Register(nil))
	})
}

func TestMimeTypes(t *testing.T) {
	t.Run("lists built-in formats sorted", func(t *testing.T) {
		assert.Equal(t, []string{
			MimeCBOR,
			MimeJSON,
			MimeMsgpack,
			MimeOctetStream,
			MimeYAML,
			MimeTextPlain,
		}, NewCodecRegistry().MimeTypes())
	})
}
