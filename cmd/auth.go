package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/skillstream/internal/admin"
	"github.com/desertthunder/skillstream/internal/guard"
	"github.com/desertthunder/skillstream/internal/services"
	"github.com/urfave/cli/v3"
)

// AuthLogin exchanges credentials for a token and stores it.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	res, err := r.catalog.Login(ctx, cmd.String("email"), cmd.String("password"))
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	return r.startSession(res, "Logged in")
}

// AuthRegister creates an account and stores its token.
func (r *Runner) AuthRegister(ctx context.Context, cmd *cli.Command) error {
	res, err := r.catalog.Register(ctx, cmd.String("name"), cmd.String("email"), cmd.String("password"))
	if err != nil {
		return fmt.Errorf("registration failed: %w", err)
	}
	return r.startSession(res, "Registered")
}

func (r *Runner) startSession(res *services.AuthResult, verb string) error {
	if err := r.session.Login(res.Token); err != nil {
		return err
	}
	r.logger.Info("session stored")

	if res.User != nil && res.User.Name != "" {
		return r.writePlain("✓ %s as %s (%s)\n", verb, res.User.Name, res.User.Role)
	}
	return r.writePlain("✓ %s\n", verb)
}

// AuthLogout clears the stored token.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	if !r.session.Current().Authenticated() {
		return r.writePlain("Not logged in\n")
	}
	if err := r.session.Logout(); err != nil {
		return err
	}
	return r.writePlain("✓ Logged out\n")
}

// AuthStatus prints the session and what its claims allow.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	cur := r.session.Current()
	r.writePlain("API: %s\n", r.api.BaseURL())
	if !cur.Authenticated() {
		return r.writePlain("Session: ✗ Not logged in\n")
	}

	r.writePlain("Session: ✓ Logged in\n")
	claims, err := guard.DecodeClaims(cur.Token, r.config.Auth.JWTSecret)
	if err != nil {
		r.logger.Warn("token claims unreadable", "error", err)
		return r.writePlain("Claims: unreadable\n")
	}

	r.writePlain("User: %s\n", admin.ActiveUser(claims))
	if claims.Role != "" {
		r.writePlain("Role: %s\n", claims.Role)
	}
	if claims.ExpiresAt != nil {
		r.writePlain("Expires: %s\n", claims.ExpiresAt.Format("2006-01-02 15:04"))
	}
	if r.guard.Check(guard.Admin, cur.Token).Allowed() {
		r.writePlain("Admin: ✓\n")
	} else {
		r.writePlain("Admin: ✗\n")
	}
	return nil
}
