// Package repositories implements SQLite persistence for the local key-value store.
//
// Key Implementations:
//   - [KVRepository] : string values addressed by key in the kv table
//   - [SessionRepository] : the JSON-encoded [models.Session] stored under [SessionKey]
//
// Absence of a key is reported as a nil value rather than an error so callers can treat "logged out" as ordinary state.
package repositories
