package main

import (
	"context"

	"github.com/desertthunder/vox/internal/formatter"
	"github.com/desertthunder/vox/internal/models"
	"github.com/urfave/cli/v3"
)

// sessionStatus is the JSON shape written by `auth status --json`.
type sessionStatus struct {
	LoggedIn bool            `json:"logged_in"`
	Session  *models.Session `json:"session,omitempty"`
}

// AuthLogin stores a session for the given email. Credentials are not verified.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	gate, err := r.gate()
	if err != nil {
		return err
	}

	s, err := gate.Login(ctx, cmd.String("email"), cmd.String("password"))
	if err != nil {
		return err
	}

	r.logger.Info("logged in", "email", s.Email)
	return r.writePlain("✓ %s\n", formatter.SessionSummary(s))
}

// AuthSignup stores a session with a display name.
func (r *Runner) AuthSignup(ctx context.Context, cmd *cli.Command) error {
	gate, err := r.gate()
	if err != nil {
		return err
	}

	s, err := gate.Signup(ctx, cmd.String("name"), cmd.String("email"), cmd.String("password"))
	if err != nil {
		return err
	}

	r.logger.Info("signed up", "email", s.Email)
	return r.writePlain("✓ %s\n", formatter.SessionSummary(s))
}

// AuthLogout removes the stored session. Logging out twice is not an error.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	gate, err := r.gate()
	if err != nil {
		return err
	}

	if err := gate.Logout(ctx); err != nil {
		return err
	}
	return r.writePlain("✓ Logged out\n")
}

// AuthStatus reports the stored session.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	gate, err := r.gate()
	if err != nil {
		return err
	}

	s, err := gate.Restore(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(sessionStatus{LoggedIn: s != nil, Session: s}, true)
	}
	return r.writePlain("%s\n", formatter.SessionSummary(s))
}
