// Package session implements the local login gate: a session persisted in the key-value store means "logged in".
//
// Credentials are not verified against any authority; any non-empty combination succeeds.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/vox/internal/models"
	"github.com/desertthunder/vox/internal/repositories"
	"github.com/desertthunder/vox/internal/shared"
)

// Gate tracks the logged-in state and persists it through a [repositories.SessionRepository].
//
// Methods may be called from any goroutine; the TUI runs them inside tea.Cmds.
type Gate struct {
	repo   *repositories.SessionRepository
	logger *log.Logger

	mu      sync.Mutex
	current *models.Session
}

// NewGate creates a [Gate] over store.
func NewGate(store repositories.KeyValueStore, logger *log.Logger) *Gate {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Gate{
		repo:   repositories.NewSessionRepository(store),
		logger: shared.WithLogger(logger, "component", "session"),
	}
}

// Restore loads a persisted session at startup. A corrupt record reads as logged out.
func (g *Gate) Restore(ctx context.Context) (*models.Session, error) {
	s, err := g.repo.Load(ctx)
	if err != nil {
		if errors.Is(err, repositories.ErrCorruptSession) {
			g.logger.Warn("ignoring unreadable stored session", "error", err)
			g.setCurrent(nil)
			return nil, nil
		}
		g.logger.Error("failed to restore session", "error", err)
		return nil, fmt.Errorf("%w: %v", shared.ErrStorage, err)
	}

	g.setCurrent(s)
	if s != nil {
		g.logger.Info("session restored", "email", s.Email)
	}
	return s, nil
}

// Login persists {email} exactly as typed when both fields are non-empty.
// Whitespace counts as input.
func (g *Gate) Login(ctx context.Context, email, password string) (*models.Session, error) {
	if email == "" || password == "" {
		g.logger.Warn("login rejected: email and password are required")
		return nil, fmt.Errorf("%w: email and password are required", shared.ErrInvalidInput)
	}

	return g.persist(ctx, &models.Session{Email: email})
}

// Signup persists {name, email} when all three fields are non-empty.
func (g *Gate) Signup(ctx context.Context, name, email, password string) (*models.Session, error) {
	if name == "" || email == "" || password == "" {
		g.logger.Warn("signup rejected: name, email and password are required")
		return nil, fmt.Errorf("%w: name, email and password are required", shared.ErrInvalidInput)
	}

	return g.persist(ctx, &models.Session{Name: name, Email: email})
}

// Logout clears the persisted session. Logging out while logged out succeeds.
func (g *Gate) Logout(ctx context.Context) error {
	if err := g.repo.Clear(ctx); err != nil {
		g.logger.Error("failed to clear session", "error", err)
		return fmt.Errorf("%w: %v", shared.ErrStorage, err)
	}

	g.setCurrent(nil)
	g.logger.Info("logged out")
	return nil
}

// Current returns the active session, or nil when logged out.
func (g *Gate) Current() *models.Session {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.current
}

// LoggedIn reports whether a session is active.
func (g *Gate) LoggedIn() bool {
	return g.Current() != nil
}

func (g *Gate) setCurrent(s *models.Session) {
	g.mu.Lock()
	g.current = s
	g.mu.Unlock()
}

func (g *Gate) persist(ctx context.Context, s *models.Session) (*models.Session, error) {
	if err := g.repo.Save(ctx, s); err != nil {
		g.logger.Error("failed to persist session", "error", err)
		return nil, fmt.Errorf("%w: %v", shared.ErrStorage, err)
	}

	g.setCurrent(s)
	g.logger.Info("logged in", "email", s.Email)
	return s, nil
}
