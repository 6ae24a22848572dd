//go:build !windows

package cryptui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlatformUnsupported(t *testing.T) {
	f := Platform()
	arena, err := f.NewArena()
	assert.ErrorIs(t, err, ErrUnsupported)
	assert.Nil(t, arena)
	ok, err := f.DigitalSign(0)
	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrUnsupported)
}
