// Package guard decides whether a route may be shown for the current session.
//
// Role checks read claims from a credential held by the client. That is a display hint only:
// the API enforces roles itself and answers 403 when the hint is wrong. Claims are verified
// when a signing secret is configured and read unverified otherwise.
package guard

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/skillstream/internal/notify"
	"github.com/desertthunder/skillstream/internal/shared"
	"github.com/golang-jwt/jwt/v5"
)

type Route string

const (
	Catalog   Route = "catalog"
	About     Route = "about"
	Favorites Route = "favorites"
	Admin     Route = "admin"
	Login     Route = "login"
	Register  Route = "register"
)

var Routes = []Route{Catalog, About, Favorites, Admin, Login, Register}

// ParseRoute accepts a route name case-insensitively.
func ParseRoute(s string) (Route, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, r := range Routes {
		if string(r) == s {
			return r, nil
		}
	}
	return "", fmt.Errorf("%w: unknown route %q", shared.ErrInvalidArgument, s)
}

// Protected routes need a session token.
func (r Route) Protected() bool {
	return r == Favorites || r == Admin
}

// AdminOnly routes additionally need the admin role claim.
func (r Route) AdminOnly() bool {
	return r == Admin
}

const (
	AdminRole          = "ADMIN"
	AccessDeniedText   = "Access denied. Admin privileges required."
	AccessDeniedDelay  = 2 * time.Second
	SessionExpiredText = "Please login to continue"
)

type Outcome int

const (
	Allow Outcome = iota
	RedirectLogin
	Deny
)

// Decision is the result of a route check. For Deny the notice is shown first and the
// redirect happens after Delay.
type Decision struct {
	Outcome  Outcome
	Redirect Route
	Replace  bool
	Notice   notify.Notice
	Delay    time.Duration
}

func (d Decision) Allowed() bool {
	return d.Outcome == Allow
}

// Claims are the fields the API puts in its tokens.
type Claims struct {
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// IsAdmin reports whether the role claim is the admin role.
func (c *Claims) IsAdmin() bool {
	return c != nil && c.Role == AdminRole
}

// Guard checks routes against a token. Secret is optional.
type Guard struct {
	Secret string
}

func New(secret string) *Guard {
	return &Guard{Secret: secret}
}

// Check decides whether route may be shown for token.
func (g *Guard) Check(route Route, token string) Decision {
	if !route.Protected() {
		return Decision{Outcome: Allow}
	}
	if strings.TrimSpace(token) == "" {
		return Decision{Outcome: RedirectLogin, Redirect: Login, Replace: true}
	}
	if route.AdminOnly() {
		claims, err := DecodeClaims(token, g.Secret)
		if err != nil || !claims.IsAdmin() {
			return accessDenied()
		}
	}
	return Decision{Outcome: Allow}
}

// OnError maps a failed request made from route onto navigation. Errors that do not call for
// navigation return Allow.
func (g *Guard) OnError(route Route, err error) Decision {
	switch {
	case err == nil:
		return Decision{Outcome: Allow}
	case route.Protected() && errors.Is(err, shared.ErrNotAuthenticated):
		return Decision{
			Outcome:  RedirectLogin,
			Redirect: Login,
			Replace:  true,
			Notice:   notify.New(notify.Error, SessionExpiredText, notify.ErrorTTL),
		}
	case route.AdminOnly() && errors.Is(err, shared.ErrForbidden):
		return accessDenied()
	default:
		return Decision{Outcome: Allow}
	}
}

func accessDenied() Decision {
	return Decision{
		Outcome:  Deny,
		Redirect: Catalog,
		Replace:  true,
		Notice:   notify.New(notify.Error, AccessDeniedText, AccessDeniedDelay),
		Delay:    AccessDeniedDelay,
	}
}

// SigningKey derives the HS256 key the API signs with: SHA-256 of the configured secret.
func SigningKey(secret string) []byte {
	sum := sha256.Sum256([]byte(secret))
	return sum[:]
}

// DecodeClaims reads the claims of token. With an empty secret the signature is not checked;
// otherwise it must be a valid HS256 signature under [SigningKey].
func DecodeClaims(token, secret string) (*Claims, error) {
	token = strings.TrimSpace(strings.TrimPrefix(token, "Bearer "))
	claims := &Claims{}

	if secret == "" {
		if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
			return nil, fmt.Errorf("%w: %w", shared.ErrInvalidToken, err)
		}
		return claims, nil
	}

	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return SigningKey(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrInvalidToken, err)
	}
	return claims, nil
}

// Subject returns the token subject, or "" when the token is unreadable.
func Subject(token, secret string) string {
	claims, err := DecodeClaims(token, secret)
	if err != nil {
		return ""
	}
	return claims.Subject
}

// IssueToken signs a token the way the API does. Used by the local dev server and tests.
func IssueToken(secret, subject, role string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(SigningKey(secret))
}

// History is a back stack of routes. Replace swaps the top entry so the replaced route cannot
// be reached with Back.
type History struct {
	stack []Route
}

func NewHistory(start Route) *History {
	return &History{stack: []Route{start}}
}

func (h *History) Current() Route {
	if len(h.stack) == 0 {
		return Catalog
	}
	return h.stack[len(h.stack)-1]
}

func (h *History) Push(r Route) {
	h.stack = append(h.stack, r)
}

func (h *History) Replace(r Route) {
	if len(h.stack) == 0 {
		h.stack = append(h.stack, r)
		return
	}
	h.stack[len(h.stack)-1] = r
}

// Back pops the current route and reports whether there was one to go back to.
func (h *History) Back() (Route, bool) {
	if len(h.stack) <= 1 {
		return h.Current(), false
	}
	h.stack = h.stack[:len(h.stack)-1]
	return h.Current(), true
}

// Navigate applies d: Replace or Push of the redirect target.
func (h *History) Navigate(d Decision) {
	if d.Redirect == "" {
		return
	}
	if d.Replace {
		h.Replace(d.Redirect)
	} else {
		h.Push(d.Redirect)
	}
}

func (h *History) Len() int {
	return len(h.stack)
}
