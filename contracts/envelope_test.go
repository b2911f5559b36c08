package contracts

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeaderWireShape(t *testing.T) {
	t.Run("marshals with protocol field names", func(t *testing.T) {
		h := Header{
			MsgID:   "m-1",
			Session: "s-1",
			Date:    time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
			Source:  "clientA",
			Target:  "pluginB",
			MsgType: ExecuteRequest,
			Version: CurrentVersion,
		}

		data, err := json.Marshal(h)
		require.NoError(t, err)

		var raw map[string]interface{}
		require.NoError(t, json.Unmarshal(data, &raw))

		assert.Equal(t, "m-1", raw["msg_id"])
		assert.Equal(t, "s-1", raw["session"])
		assert.Equal(t, "clientA", raw["source"])
		assert.Equal(t, "pluginB", raw["target"])
		assert.Equal(t, "execute_request", raw["msg_type"])
		assert.Equal(t, "0.3", raw["version"])
		assert.Equal(t, "2024-06-01T12:00:00Z", raw["date"])
	})

	t.Run("date survives a wire round trip", func(t *testing.T) {
		h := Header{Date: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}

		data, err := json.Marshal(h)
		require.NoError(t, err)

		var decoded Header
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.True(t, h.Date.Equal(decoded.Date))
	})
}

func TestEnvelope(t *testing.T) {
	t.Run("optional sections are omitted when empty", func(t *testing.T) {
		env := Envelope{Header: Header{MsgID: "m-1", MsgType: ConnectRequest}}

		data, err := json.Marshal(env)
		require.NoError(t, err)

		var raw map[string]interface{}
		require.NoError(t, json.Unmarshal(data, &raw))

		assert.Contains(t, raw, "header")
		assert.NotContains(t, raw, "parent_header")
		assert.NotContains(t, raw, "metadata")
		assert.NotContains(t, raw, "content")
	})

	t.Run("IsReply follows parent header presence", func(t *testing.T) {
		env := Envelope{Header: Header{MsgType: ExecuteRequest}}
		assert.False(t, env.IsReply())

		parent := Header{MsgID: "m-0"}
		env.ParentHeader = &parent
		assert.True(t, env.IsReply())
	})

	t.Run("Command reads content.command", func(t *testing.T) {
		cmd, ok := Content{"command": "add"}.Command()
		assert.True(t, ok)
		assert.Equal(t, "add", cmd)

		_, ok = Content{}.Command()
		assert.False(t, ok)

		_, ok = Content{"command": 42}.Command()
		assert.False(t, ok)
	})
}

func TestErrorInfo(t *testing.T) {
	t.Run("captures a Go error", func(t *testing.T) {
		info := NewErrorInfo(errors.New("boom"))

		assert.Equal(t, "*errors.errorString", info.Ename)
		assert.Equal(t, "boom", info.Evalue)
		assert.Empty(t, info.Traceback)
	})

	t.Run("nil error produces empty info", func(t *testing.T) {
		assert.Equal(t, ErrorInfo{}, NewErrorInfo(nil))
	})

	t.Run("String joins name and value", func(t *testing.T) {
		info := ErrorInfo{Ename: "ValueError", Evalue: "bad input"}
		assert.Equal(t, "ValueError: bad input", info.String())

		assert.Equal(t, "ValueError", ErrorInfo{Ename: "ValueError"}.String())
	})

	t.Run("WithTraceback copies frames", func(t *testing.T) {
		frames := []string{"frame 1", "frame 2"}
		info := ErrorInfo{Ename: "E"}.WithTraceback(frames)

		frames[0] = "mutated"
		assert.Equal(t, []string{"frame 1", "frame 2"}, info.Traceback)
	})
}
