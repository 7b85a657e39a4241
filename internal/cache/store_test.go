package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sgleason/bizatlas/internal/infra/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	l, err := logger.New(filepath.Join(t.TempDir(), "test.log"), logger.LevelError, false)
	require.NoError(t, err)
	return l
}

func TestStoreMissingFileStartsEmpty(t *testing.T) {
	s := Load(filepath.Join(t.TempDir(), "cache.json"), testLogger(t))
	require.Equal(t, 0, s.Len())

	_, ok := s.Get("anything")
	require.False(t, ok)
}

func TestStoreCorruptFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	s := Load(path, testLogger(t))
	require.Equal(t, 0, s.Len())

	// The store must stay usable after recovery.
	require.NoError(t, s.Put("key", json.RawMessage(`"value"`)))
	got, ok := s.Get("key")
	require.True(t, ok)
	require.JSONEq(t, `"value"`, string(got))
}

func TestStorePutFlushesToDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	log := testLogger(t)

	s := Load(path, log)
	require.NoError(t, s.Put("sig1", json.RawMessage(`{"businesses":[]}`)))
	require.NoError(t, s.Put("sig2", json.RawMessage(`"raw text body"`)))

	// Every Put rewrites the whole file, so a fresh Load sees everything.
	reloaded := Load(path, log)
	require.Equal(t, 2, reloaded.Len())

	got, ok := reloaded.Get("sig1")
	require.True(t, ok)
	require.JSONEq(t, `{"businesses":[]}`, string(got))

	got, ok = reloaded.Get("sig2")
	require.True(t, ok)
	require.JSONEq(t, `"raw text body"`, string(got))
}

func TestStorePutFailsOnUnwritablePath(t *testing.T) {
	s := Load(filepath.Join(t.TempDir(), "missing-dir", "cache.json"), testLogger(t))
	err := s.Put("key", json.RawMessage(`1`))
	require.Error(t, err)
}
