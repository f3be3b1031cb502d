package util

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

func TestCipher(t *testing.T) {
	t.Run("seal then open returns plaintext", func(t *testing.T) {
		c, err := NewCipher(testKey)
		require.NoError(t, err)

		sealed, err := c.Seal("bearer-credential")
		require.NoError(t, err)
		assert.NotContains(t, sealed, "bearer-credential")

		opened, err := c.Open(sealed)
		require.NoError(t, err)
		assert.Equal(t, "bearer-credential", opened)
	})

	t.Run("sealing twice uses fresh nonces", func(t *testing.T) {
		c, _ := NewCipher(testKey)
		a, _ := c.Seal("x")
		b, _ := c.Seal("x")
		assert.NotEqual(t, a, b)
	})

	t.Run("rejects short keys", func(t *testing.T) {
		_, err := NewCipher("abcd")
		assert.Error(t, err)
	})

	t.Run("rejects non hex keys", func(t *testing.T) {
		_, err := NewCipher(strings.Repeat("z", 64))
		assert.Error(t, err)
	})

	t.Run("open fails with another key", func(t *testing.T) {
		c1, _ := NewCipher(testKey)
		c2, _ := NewCipher(strings.Repeat("ab", 32))
		sealed, _ := c1.Seal("secret")

		_, err := c2.Open(sealed)
		assert.Error(t, err)
	})

	t.Run("open fails on garbage", func(t *testing.T) {
		c, _ := NewCipher(testKey)
		_, err := c.Open("!!!")
		assert.Error(t, err)
		_, err = c.Open("YQ==")
		assert.Error(t, err)
	})
}
