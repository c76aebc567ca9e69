package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError(t *testing.T) {
	e1 := New("cause1")
	e2 := New("cause2").Wrap(e1)
	e := New("dummy").Wrap(e2)
	e3 := e.Unwrap()
	assert.True(t, Is(e, e1))
	assert.True(t, Is(e, e2))
	assert.True(t, e3 == e2)
}

func TestErrorSentinel(t *testing.T) {
	sentinel := New("boom")
	wrapped := sentinel.Wrap(New("cause"))

	// wrapping must not mutate the sentinel
	assert.Nil(t, sentinel.Unwrap())
	assert.True(t, Is(wrapped, sentinel))
	assert.Equal(t, "boom: cause", wrapped.Error())
}

func TestErrorWrapMessage(t *testing.T) {
	sentinel := New("io failure")
	e := sentinel.WrapMessage("reading %q", "some/path")
	assert.True(t, Is(e, sentinel))
	assert.Contains(t, e.Error(), `"some/path"`)
}
