package verification

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tech-arch1tect/verifycode/config"
)

func TestRandomGenerator(t *testing.T) {
	t.Run("length and alphabet", func(t *testing.T) {
		generator, err := NewRandomGenerator("0123456789abcdef", 4)
		require.NoError(t, err)

		for i := 0; i < 200; i++ {
			code, err := generator.Generate()
			require.NoError(t, err)
			assert.Regexp(t, codePattern, code)
		}
	})

	t.Run("every symbol is reachable", func(t *testing.T) {
		generator, err := NewRandomGenerator("xyz", 1)
		require.NoError(t, err)

		seen := make(map[string]int)
		for i := 0; i < 600; i++ {
			code, err := generator.Generate()
			require.NoError(t, err)
			seen[code]++
		}
		assert.Len(t, seen, 3)
	})

	t.Run("multibyte alphabet", func(t *testing.T) {
		generator, err := NewRandomGenerator("αβγδ", 6)
		require.NoError(t, err)

		code, err := generator.Generate()
		require.NoError(t, err)
		assert.Len(t, []rune(code), 6)
		for _, r := range code {
			assert.True(t, strings.ContainsRune("αβγδ", r))
		}
	})

	t.Run("invalid arguments", func(t *testing.T) {
		_, err := NewRandomGenerator("a", 4)
		assert.Error(t, err)

		_, err = NewRandomGenerator("ab", 0)
		assert.Error(t, err)
	})
}

func TestUUIDGenerator(t *testing.T) {
	generator, err := NewUUIDGenerator(4)
	require.NoError(t, err)

	code, err := generator.Generate()
	require.NoError(t, err)
	assert.Regexp(t, codePattern, code)

	full, err := NewUUIDGenerator(36)
	require.NoError(t, err)
	code, err = full.Generate()
	require.NoError(t, err)
	assert.Len(t, code, 36)
	assert.Equal(t, byte('4'), code[14])

	_, err = NewUUIDGenerator(0)
	assert.Error(t, err)
	_, err = NewUUIDGenerator(37)
	assert.Error(t, err)
}

func TestNewGenerator(t *testing.T) {
	cfg := config.VerificationConfig{
		TTL:        10 * time.Minute,
		CodeLength: 4,
		Alphabet:   "0123456789abcdef",
	}

	cfg.Generator = config.GeneratorRandom
	generator, err := NewGenerator(cfg)
	require.NoError(t, err)
	assert.IsType(t, &RandomGenerator{}, generator)

	cfg.Generator = config.GeneratorUUID
	generator, err = NewGenerator(cfg)
	require.NoError(t, err)
	assert.IsType(t, &UUIDGenerator{}, generator)

	cfg.Generator = "sequential"
	_, err = NewGenerator(cfg)
	assert.Error(t, err)
}

func TestRenderBody(t *testing.T) {
	body, err := renderBody("7f3a")
	require.NoError(t, err)

	assert.Contains(t, body, "Your verification code is 7f3a.")
	assert.Contains(t, body, "valid for the next few minutes")
	assert.Equal(t, "7f3a", extractCode(body))
}
