package closeonce

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClose(t *testing.T) {
	var c Closed
	assert.False(t, c.Closed())
	calls := 0
	boom := errors.New("boom")
	release := func() error {
		calls++
		return boom
	}
	assert.Equal(t, boom, c.Close(release))
	assert.Equal(t, boom, c.Close(release))
	assert.True(t, c.Closed())
	assert.Equal(t, 1, calls)
}

func TestCloseNil(t *testing.T) {
	var c Closed
	assert.NoError(t, c.Close(nil))
	assert.True(t, c.Closed())
}
