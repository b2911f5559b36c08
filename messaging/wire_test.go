package messaging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plugrid/plugmsg-go/schema"
	"github.com/plugrid/plugmsg-go/serialization"
)

func TestJSONEnvelopeSerializer(t *testing.T) {
	serializer := NewJSONEnvelopeSerializer()
	b := testBuilder(t)

	t.Run("envelope survives the wire and still validates", func(t *testing.T) {
		env, err := b.ExecuteRequest("clientA", "pluginB", "add",
			WithData([]interface{}{int64(1), int64(2)}))
		require.NoError(t, err)

		wire, err := serializer.Serialize(env)
		require.NoError(t, err)

		received, err := serializer.Deserialize(wire)
		require.NoError(t, err)

		validator, err := schema.Default()
		require.NoError(t, err)
		require.NoError(t, validator.Validate(received))

		assert.Equal(t, env.Header.MsgID, received.Header.MsgID)
		assert.Equal(t, env.Header.MsgType, received.Header.MsgType)
		assert.Equal(t, "add", received.Content["command"])

		decoded, err := serialization.DecodeContent(received.Content)
		require.NoError(t, err)
		assert.Equal(t, []interface{}{int64(1), int64(2)}, decoded)
	})

	t.Run("nil envelope fails", func(t *testing.T) {
		_, err := serializer.Serialize(nil)
		assert.Error(t, err)
	})

	t.Run("empty data fails", func(t *testing.T) {
		_, err := serializer.Deserialize(nil)
		assert.Error(t, err)
	})

	t.Run("malformed data fails", func(t *testing.T) {
		_, err := serializer.Deserialize([]byte("{not json"))
		assert.Error(t, err)
	})

	t.Run("pretty serializer emits indented output", func(t *testing.T) {
		env, err := b.ConnectRequest("a", "b")
		require.NoError(t, err)

		wire, err := NewPrettyJSONEnvelopeSerializer().Serialize(env)
		require.NoError(t, err)
		assert.Contains(t, string(wire), "\n  ")
	})
}
