package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	"excesoluz/pkg/config"
)

// backends returns a fresh instance of every backend for contract tests
func backends(t *testing.T) map[string]Storage {
	t.Helper()

	keyring.MockInit()

	fileStore, err := NewFileStore(filepath.Join(t.TempDir(), "kv"))
	require.NoError(t, err)

	sqliteStore, err := NewSQLiteStore(filepath.Join(t.TempDir(), "kv.db"))
	require.NoError(t, err)
	t.Cleanup(func() { sqliteStore.Close() })

	keyringStore, err := NewKeyringStore("excesoluz-test")
	require.NoError(t, err)

	return map[string]Storage{
		"memory":    NewMemoryStore(),
		"file":      fileStore,
		"sqlite":    sqliteStore,
		"keyring":   keyringStore,
		"encrypted": NewEncryptedStore(NewMemoryStore(), "contraseña"),
	}
}

func TestStorageContract(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Get("exceso_luz_progreso")
			assert.ErrorIs(t, err, ErrNotFound)

			payload := []byte(`{"completados":{},"historial":[]}`)
			require.NoError(t, s.Set("exceso_luz_progreso", payload))

			got, err := s.Get("exceso_luz_progreso")
			require.NoError(t, err)
			assert.Equal(t, payload, got)

			// overwrite is last-write-wins
			require.NoError(t, s.Set("exceso_luz_progreso", []byte(`{}`)))
			got, err = s.Get("exceso_luz_progreso")
			require.NoError(t, err)
			assert.Equal(t, []byte(`{}`), got)

			require.NoError(t, s.Remove("exceso_luz_progreso"))
			_, err = s.Get("exceso_luz_progreso")
			assert.ErrorIs(t, err, ErrNotFound)

			// removing a missing key is not an error
			assert.NoError(t, s.Remove("exceso_luz_progreso"))
		})
	}
}

func TestStorageRejectsInvalidKeys(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			for _, key := range []string{"", "..", "a/b", `a\b`} {
				assert.ErrorIs(t, s.Set(key, []byte("x")), ErrInvalidKey, "key %q", key)
			}
		})
	}
}

func TestMemoryStoreCopiesValues(t *testing.T) {
	s := NewMemoryStore()
	value := []byte("original")
	require.NoError(t, s.Set("k", value))

	value[0] = 'X'
	got, err := s.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "original", string(got))

	got[0] = 'Y'
	again, _ := s.Get("k")
	assert.Equal(t, "original", string(again))
	assert.Equal(t, 1, s.Len())
}

func TestFileStoreLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		require.NoError(t, s.Set("exceso_luz_conteos", []byte(`{"libros":12}`)))
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "exceso_luz_conteos.json", entries[0].Name())
}

func TestSQLiteStorePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "excesoluz.db")

	s, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, s.Set("exceso_luz_conteos", []byte(`{"musica":4}`)))
	require.NoError(t, s.Close())

	reopened, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Get("exceso_luz_conteos")
	require.NoError(t, err)
	assert.Equal(t, `{"musica":4}`, string(got))
}

func TestEncryptedStore(t *testing.T) {
	inner := NewMemoryStore()
	s := NewEncryptedStore(inner, "contraseña")

	require.NoError(t, s.Set("secret", []byte("libro-1 completado")))

	raw, err := inner.Get("secret")
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "libro-1")

	got, err := s.Get("secret")
	require.NoError(t, err)
	assert.Equal(t, "libro-1 completado", string(got))

	t.Run("wrong passphrase", func(t *testing.T) {
		_, err := NewEncryptedStore(inner, "otra").Get("secret")
		assert.ErrorIs(t, err, ErrDecrypt)
	})

	t.Run("plaintext payload", func(t *testing.T) {
		require.NoError(t, inner.Set("plain", []byte(`not an envelope`)))
		_, err := s.Get("plain")
		assert.ErrorIs(t, err, ErrDecrypt)
	})

	t.Run("missing key passes through", func(t *testing.T) {
		_, err := s.Get("nothing")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		cfg     config.StorageConfig
		check   func(t *testing.T, s Storage)
		wantErr bool
	}{
		{
			name: "memory",
			cfg:  config.StorageConfig{Backend: config.BackendMemory},
			check: func(t *testing.T, s Storage) {
				assert.IsType(t, &MemoryStore{}, s)
			},
		},
		{
			name: "file in configured directory",
			cfg:  config.StorageConfig{Backend: config.BackendFile, Directory: filepath.Join(dir, "files")},
			check: func(t *testing.T, s Storage) {
				fs, ok := s.(*FileStore)
				require.True(t, ok)
				assert.Equal(t, filepath.Join(dir, "files"), fs.Dir())
			},
		},
		{
			name: "sqlite under directory",
			cfg:  config.StorageConfig{Backend: config.BackendSQLite, Directory: dir},
			check: func(t *testing.T, s Storage) {
				assert.IsType(t, &SQLiteStore{}, s)
				assert.FileExists(t, filepath.Join(dir, "excesoluz.db"))
			},
		},
		{
			name: "encrypted memory",
			cfg:  config.StorageConfig{Backend: config.BackendMemory, Encrypt: true, Passphrase: "x"},
			check: func(t *testing.T, s Storage) {
				assert.IsType(t, &EncryptedStore{}, s)
			},
		},
		{
			name:    "encrypted without passphrase",
			cfg:     config.StorageConfig{Backend: config.BackendMemory, Encrypt: true},
			wantErr: true,
		},
		{
			name:    "unknown backend",
			cfg:     config.StorageConfig{Backend: "cookies"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Open(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			defer Close(s)
			tt.check(t, s)
		})
	}
}

func TestDataDirectory(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	dir, err := DataDirectory()
	require.NoError(t, err)
	assert.NotEmpty(t, dir)
	assert.DirExists(t, dir)
}
