// Package storage provides the key-value capability the progress tracker
// persists through.
//
// Storage is small: get, set and remove a value by key. Values
// are opaque bytes (the tracker stores JSON documents). Backends:
//   - MemoryStore: in-process map, used by tests and the "memory" backend
//   - FileStore: one file per key, written atomically (temp file + rename)
//   - SQLiteStore: a single kv table in a pure-Go SQLite database
//   - KeyringStore: the system keychain, one entry per key
//   - EncryptedStore: AES-GCM wrapper around any other Storage
//
// Every backend returns ErrNotFound for a missing key. None of them lock
// across processes: two writers sharing a backend are last-write-wins.
package storage
