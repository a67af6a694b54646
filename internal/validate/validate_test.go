package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStruct(t *testing.T) {
	type request struct {
		Email string `validate:"required,email"`
	}

	assert.NoError(t, Struct(&request{Email: "a@b.com"}))

	err := Struct(&request{Email: "nope"})
	require.Error(t, err)
	assert.Equal(t, "field 'Email' failed 'email'", err.Error())

	err = Struct(&request{})
	require.Error(t, err)
	assert.Equal(t, "field 'Email' failed 'required'", err.Error())
}

func TestEmail(t *testing.T) {
	assert.True(t, Email("a@b.com"))
	assert.True(t, Email("first.last+tag@example.co.uk"))
	assert.False(t, Email(""))
	assert.False(t, Email("not an email"))
	assert.False(t, Email("a@"))
}
