package common

import (
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCombine(t *testing.T) {
	assert.NoError(t, Combine(nil, nil))

	a := errors.New("a")
	b := errors.New("b")
	err := Combine(a, nil, b)
	assert.ErrorIs(t, err, a)
	assert.ErrorIs(t, err, b)
}

func TestIsClosedConnError(t *testing.T) {
	assert.True(t, IsClosedConnError(fmt.Errorf("close: %w", net.ErrClosed)))
	assert.False(t, IsClosedConnError(errors.New("refused")))
	assert.False(t, IsClosedConnError(nil))
}

func TestNewErrorf(t *testing.T) {
	assert.EqualError(t, NewErrorf("port %d invalid", 0), "port 0 invalid")
	assert.EqualError(t, NewError("bad ", "input"), "bad input")
}

func TestRecover(t *testing.T) {
	var got any
	func() {
		defer func() { got = recover() }()
		func() {
			defer Recover("job")
			panic("boom")
		}()
	}()
	assert.Nil(t, got)
}
