package logrotate

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReopenAfterRotate(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("open files can't be renamed on windows")
	}
	path := filepath.Join(t.TempDir(), "sign.log")
	w, err := NewWriter(path)
	require.NoError(t, err)
	defer w.Close()

	_, err = w.Write([]byte("one\n"))
	require.NoError(t, err)
	require.NoError(t, os.Rename(path, path+".1"))
	_, err = w.Write([]byte("two\n"))
	require.NoError(t, err)

	rotated, err := os.ReadFile(path + ".1")
	require.NoError(t, err)
	assert.Equal(t, "one\n", string(rotated))
	current, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "two\n", string(current))

	require.NoError(t, w.Close())
	require.NoError(t, w.Close())
}
