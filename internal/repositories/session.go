package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/desertthunder/vox/internal/models"
)

// SessionKey is the store key holding the persisted session.
const SessionKey = "user"

// ErrCorruptSession is returned by [SessionRepository.Load] when the stored value cannot be used.
var ErrCorruptSession = errors.New("corrupt session record")

// KeyValueStore is the storage abstraction behind [SessionRepository].
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

var _ KeyValueStore = (*KVRepository)(nil)

// SessionRepository persists the single [models.Session] as JSON under [SessionKey].
type SessionRepository struct {
	store KeyValueStore
}

// NewSessionRepository creates a new [SessionRepository] backed by store
func NewSessionRepository(store KeyValueStore) *SessionRepository {
	return &SessionRepository{store: store}
}

// Load returns the stored session, or nil when none is stored.
func (r *SessionRepository) Load(ctx context.Context) (*models.Session, error) {
	raw, ok, err := r.store.Get(ctx, SessionKey)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	var session models.Session
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptSession, err)
	}

	if err := session.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptSession, err)
	}

	return &session, nil
}

// Save replaces the stored session.
func (r *SessionRepository) Save(ctx context.Context, session *models.Session) error {
	if err := session.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	return r.store.Set(ctx, SessionKey, string(data))
}

// Clear removes the stored session.
func (r *SessionRepository) Clear(ctx context.Context) error {
	return r.store.Delete(ctx, SessionKey)
}
