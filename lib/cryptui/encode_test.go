package cryptui_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vnetdev/signhelpers/lib/cryptui"
	"github.com/vnetdev/signhelpers/lib/cryptui/cryptuitest"
)

func TestLayout64(t *testing.T) {
	l, err := cryptui.NewLayout(8)
	require.NoError(t, err)
	assert.Equal(t, 56, l.InfoSize)
	assert.Equal(t, []int{4, 8, 16, 24, 32, 40, 48}, []int{
		l.InfoSubjectChoice, l.InfoFileName, l.InfoSigningChoice, l.InfoSigningCert,
		l.InfoTimestampURL, l.InfoAdditionalChoice, l.InfoExtInfo,
	})
	assert.Equal(t, 64, l.ExtSize)
	assert.Equal(t, []int{4, 8, 16, 24, 32, 40, 48, 56}, []int{
		l.ExtAttrFlags, l.ExtDescription, l.ExtMoreInfo, l.ExtHashAlg,
		l.ExtDisplayString, l.ExtAdditionalStore, l.ExtAuthenticated, l.ExtUnauthenticated,
	})
}

func TestLayout32(t *testing.T) {
	l, err := cryptui.NewLayout(4)
	require.NoError(t, err)
	assert.Equal(t, 32, l.InfoSize)
	assert.Equal(t, []int{4, 8, 12, 16, 20, 24, 28}, []int{
		l.InfoSubjectChoice, l.InfoFileName, l.InfoSigningChoice, l.InfoSigningCert,
		l.InfoTimestampURL, l.InfoAdditionalChoice, l.InfoExtInfo,
	})
	assert.Equal(t, 36, l.ExtSize)
	assert.Equal(t, 32, l.ExtUnauthenticated)

	_, err = cryptui.NewLayout(2)
	assert.Error(t, err)
}

func TestEncode(t *testing.T) {
	tsURL := "http://timestamp.example.com/rfc3161"
	for _, ptr := range []int{4, 8} {
		arena := &cryptuitest.MemArena{Pointer: ptr}
		info := cryptui.NewSignInfo(`C:\build\setup.exe`, 0xC0FFEE, &tsURL, cryptui.AddCertChain)
		enc, err := cryptui.Encode(info, arena)
		require.NoError(t, err)
		// four strings plus both records
		assert.Equal(t, 6, arena.Allocs)
		assert.Len(t, arena.Bytes(enc.Addr), map[int]int{4: 32, 8: 56}[ptr])
		assert.Len(t, arena.Bytes(enc.ExtAddr), map[int]int{4: 36, 8: 64}[ptr])

		decoded, err := arena.Decode(enc.Addr)
		require.NoError(t, err)
		assert.Equal(t, info, decoded)
		assert.Equal(t, uint32(cryptui.SubjectFile), decoded.SubjectChoice)
		assert.Equal(t, uint32(cryptui.SigningCertContext), decoded.SigningCertChoice)
		assert.Equal(t, "", decoded.Ext.Description)
		assert.Nil(t, decoded.Ext.HashAlg)

		extAddr, addr := enc.ExtAddr, enc.Addr
		require.NoError(t, enc.Release())
		assert.Equal(t, 0, arena.Outstanding())
		assert.Equal(t, arena.Allocs, arena.Frees)
		require.GreaterOrEqual(t, len(arena.FreeOrder), 2)
		assert.Equal(t, []uintptr{extAddr, addr}, arena.FreeOrder[:2])
		// second release is a no-op
		require.NoError(t, enc.Release())
		assert.Equal(t, 6, arena.Frees)
	}
}

func TestEncodeOptionalStrings(t *testing.T) {
	arena := cryptuitest.NewMemArena()
	info := cryptui.NewSignInfo("setup.exe", 1, nil, cryptui.AddCertChainNoRoot)
	alg := "SHA256"
	info.Ext.HashAlg = &alg
	enc, err := cryptui.Encode(info, arena)
	require.NoError(t, err)
	defer enc.Release()
	// no timestamp string, but a hash algorithm string
	assert.Equal(t, 6, arena.Allocs)
	decoded, err := arena.Decode(enc.Addr)
	require.NoError(t, err)
	assert.Nil(t, decoded.TimestampURL)
	require.NotNil(t, decoded.Ext.HashAlg)
	assert.Equal(t, "SHA256", *decoded.Ext.HashAlg)
}

func TestEncodeAllocFailure(t *testing.T) {
	tsURL := "http://ts.example.com"
	info := cryptui.NewSignInfo("setup.exe", 1, &tsURL, cryptui.AddCertNone)
	for failAt := 1; failAt <= 6; failAt++ {
		arena := &cryptuitest.MemArena{FailAt: failAt}
		enc, err := cryptui.Encode(info, arena)
		require.ErrorIs(t, err, cryptuitest.ErrAllocFailed, "failAt=%d", failAt)
		assert.Nil(t, enc)
		assert.Equal(t, failAt-1, arena.Allocs)
		assert.Equal(t, arena.Allocs, arena.Frees, "failAt=%d", failAt)
		assert.Equal(t, 0, arena.Outstanding())
	}
}

func TestEncodeBadStrings(t *testing.T) {
	arena := cryptuitest.NewMemArena()
	_, err := cryptui.Encode(cryptui.NewSignInfo("bad\x00name", 1, nil, 0), arena)
	require.Error(t, err)
	assert.Equal(t, 0, arena.Allocs)

	bad := "http://ts.example.com/\x00"
	_, err = cryptui.Encode(cryptui.NewSignInfo("setup.exe", 1, &bad, 0), arena)
	require.Error(t, err)
	assert.Equal(t, 0, arena.Outstanding())
	assert.Equal(t, arena.Allocs, arena.Frees)

	_, err = cryptui.Encode(cryptui.NewSignInfo("set\xffup.exe", 1, nil, 0), arena)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "UTF-8")
	assert.Equal(t, 0, arena.Outstanding())

	info := cryptui.NewSignInfo("setup.exe", 1, nil, 0)
	alg := "SHA256™"
	info.Ext.HashAlg = &alg
	_, err = cryptui.Encode(info, arena)
	require.Error(t, err)
	assert.Equal(t, 0, arena.Outstanding())
}
