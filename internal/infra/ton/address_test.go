package ton

import (
	"strings"
	"testing"

	"github.com/gabapcia/depositwatch/internal/depositwatch"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeAddress(t *testing.T) {
	n := NewNormalizer()

	t.Run("encodes a basechain address", func(t *testing.T) {
		got, err := n.NormalizeAddress("0:ed44bd55f0ef6e28f2ad0a29d2a4a7ac33e3b7bcb2df4b3d15e4dae0cd04ed44")

		require.NoError(t, err)
		assert.Equal(t, "0QDtRL1V8O9uKPKtCinSpKesM-O3vLLfSz0V5NrgzQTtRKYu", got)
	})

	t.Run("encodes the zero account", func(t *testing.T) {
		got, err := n.NormalizeAddress("0:" + strings.Repeat("00", 32))

		require.NoError(t, err)
		assert.Equal(t, "0QAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAACkT", got)
	})

	t.Run("encodes a masterchain address", func(t *testing.T) {
		got, err := n.NormalizeAddress("-1:" + strings.Repeat("11", 32))

		require.NoError(t, err)
		assert.Equal(t, "0f8REREREREREREREREREREREREREREREREREREREREREf8U", got)
	})

	t.Run("rejects input without a workchain separator", func(t *testing.T) {
		_, err := n.NormalizeAddress("ed44bd55f0ef6e28")

		assert.ErrorIs(t, err, depositwatch.ErrMalformedAddress)
	})

	t.Run("rejects a non-numeric workchain", func(t *testing.T) {
		_, err := n.NormalizeAddress("zero:" + strings.Repeat("00", 32))

		assert.ErrorIs(t, err, depositwatch.ErrMalformedAddress)
	})

	t.Run("rejects an account id of the wrong length", func(t *testing.T) {
		_, err := n.NormalizeAddress("0:abcd")

		assert.ErrorIs(t, err, depositwatch.ErrMalformedAddress)
	})

	t.Run("rejects non-hex account bytes", func(t *testing.T) {
		_, err := n.NormalizeAddress("0:" + strings.Repeat("zz", 32))

		assert.ErrorIs(t, err, depositwatch.ErrMalformedAddress)
	})

	t.Run("rejects an empty address", func(t *testing.T) {
		_, err := n.NormalizeAddress("")

		assert.ErrorIs(t, err, depositwatch.ErrMalformedAddress)
	})
}
