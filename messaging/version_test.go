package messaging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plugrid/plugmsg-go/contracts"
)

func TestIsSupportedVersion(t *testing.T) {
	t.Run("accepts both supported tags", func(t *testing.T) {
		assert.True(t, IsSupportedVersion("0.2"))
		assert.True(t, IsSupportedVersion("0.3"))
	})

	t.Run("rejects unknown and malformed tags", func(t *testing.T) {
		assert.False(t, IsSupportedVersion("0.1"))
		assert.False(t, IsSupportedVersion("1.0"))
		assert.False(t, IsSupportedVersion("latest"))
		assert.False(t, IsSupportedVersion(""))
	})
}

func TestNewestSupportedVersion(t *testing.T) {
	t.Run("matches the current version", func(t *testing.T) {
		assert.Equal(t, contracts.CurrentVersion, NewestSupportedVersion())
	})
}

func TestCompareVersions(t *testing.T) {
	t.Run("orders protocol tags", func(t *testing.T) {
		cmp, err := CompareVersions("0.2", "0.3")
		require.NoError(t, err)
		assert.Negative(t, cmp)

		cmp, err = CompareVersions("0.3", "0.3")
		require.NoError(t, err)
		assert.Zero(t, cmp)

		cmp, err = CompareVersions("0.3", "0.2")
		require.NoError(t, err)
		assert.Positive(t, cmp)
	})

	t.Run("malformed tags fail", func(t *testing.T) {
		_, err := CompareVersions("abc", "0.3")
		assert.Error(t, err)
	})
}
