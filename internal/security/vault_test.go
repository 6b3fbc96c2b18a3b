package security

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/studydesk/internal/common"
	"github.com/ternarybob/studydesk/internal/storage/badger"
)

const testRounds = 1000

func newTestManager(t *testing.T) *badger.Manager {
	t.Helper()
	manager, err := badger.NewManager(arbor.NewLogger(), &common.BadgerConfig{Path: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { manager.Close() })
	return manager
}

func TestVault_DisabledPassesThrough(t *testing.T) {
	v := NewVault(newTestManager(t).KeyValueStorage(), testRounds, arbor.NewLogger())

	sealed, err := v.Seal([]byte("plain"))
	require.NoError(t, err)
	assert.Equal(t, []byte("plain"), sealed)

	opened, err := v.Open([]byte("plain"))
	require.NoError(t, err)
	assert.Equal(t, []byte("plain"), opened)
}

func TestVault_EnableSealOpen(t *testing.T) {
	ctx := context.Background()
	v := NewVault(newTestManager(t).KeyValueStorage(), testRounds, arbor.NewLogger())
	require.NoError(t, v.Enable(ctx, "correct horse"))
	assert.True(t, v.Enabled())
	assert.True(t, v.Unlocked())

	sealed, err := v.Seal([]byte("secret notes"))
	require.NoError(t, err)
	assert.True(t, IsSealed(sealed))
	assert.NotContains(t, string(sealed), "secret notes")

	again, err := v.Seal([]byte("secret notes"))
	require.NoError(t, err)
	assert.NotEqual(t, sealed, again, "nonce must differ per seal")

	opened, err := v.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, []byte("secret notes"), opened)

	legacy, err := v.Open([]byte("written before encryption"))
	require.NoError(t, err)
	assert.Equal(t, []byte("written before encryption"), legacy)
}

func TestVault_LockedAndResume(t *testing.T) {
	ctx := context.Background()
	kv := newTestManager(t).KeyValueStorage()

	first := NewVault(kv, testRounds, arbor.NewLogger())
	require.NoError(t, first.Enable(ctx, "pass"))
	sealed, err := first.Seal([]byte("blob"))
	require.NoError(t, err)

	// a fresh process loads the config but not the key
	second := NewVault(kv, testRounds, arbor.NewLogger())
	require.NoError(t, second.Load(ctx))
	assert.True(t, second.Enabled())
	assert.False(t, second.Unlocked())

	_, err = second.Open(sealed)
	assert.ErrorIs(t, err, ErrLocked)
	_, err = second.Seal([]byte("new"))
	assert.ErrorIs(t, err, ErrLocked)

	assert.ErrorIs(t, second.Resume(ctx, "wrong"), ErrWrongPassphrase)
	require.NoError(t, second.Resume(ctx, "pass"))

	opened, err := second.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, []byte("blob"), opened)
}

func TestVault_ResumeWhenNotEnabled(t *testing.T) {
	v := NewVault(newTestManager(t).KeyValueStorage(), testRounds, arbor.NewLogger())
	assert.ErrorIs(t, v.Resume(context.Background(), "pass"), ErrNotEnabled)
}

func TestVault_EnableRequiresPassphrase(t *testing.T) {
	v := NewVault(newTestManager(t).KeyValueStorage(), testRounds, arbor.NewLogger())
	assert.Error(t, v.Enable(context.Background(), ""))
}

func TestVault_TamperedValue(t *testing.T) {
	ctx := context.Background()
	v := NewVault(newTestManager(t).KeyValueStorage(), testRounds, arbor.NewLogger())
	require.NoError(t, v.Enable(ctx, "pass"))

	sealed, err := v.Seal([]byte("blob"))
	require.NoError(t, err)
	sealed[len(sealed)-1] ^= 0xff

	_, err = v.Open(sealed)
	assert.Error(t, err)

	_, err = v.Open(append([]byte{}, marker...))
	assert.Error(t, err)
}

func TestReseal_EnableThenDisable(t *testing.T) {
	ctx := context.Background()
	manager := newTestManager(t)
	files := manager.FileStorage()
	v := NewVault(manager.KeyValueStorage(), testRounds, arbor.NewLogger())
	manager.SetSealer(v)

	require.NoError(t, files.SaveFile(ctx, "orig:doc_1", []byte("first")))
	require.NoError(t, files.SaveFile(ctx, "orig:doc_2", []byte("second")))

	n, err := Reseal(ctx, files, func() error { return v.Enable(ctx, "pass") })
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	// raw view through a locked vault shows sealed data
	v.Lock()
	_, err = files.GetFile(ctx, "orig:doc_1")
	assert.ErrorIs(t, err, ErrLocked)
	require.NoError(t, v.Resume(ctx, "pass"))

	data, err := files.GetFile(ctx, "orig:doc_1")
	require.NoError(t, err)
	assert.Equal(t, []byte("first"), data)

	_, err = Reseal(ctx, files, func() error { return v.Disable(ctx) })
	require.NoError(t, err)
	assert.False(t, v.Enabled())

	data, err = files.GetFile(ctx, "orig:doc_2")
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), data)
}
