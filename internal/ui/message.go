package ui

import (
	"github.com/desertthunder/skillstream/internal/favorites"
	"github.com/desertthunder/skillstream/internal/guard"
	"github.com/desertthunder/skillstream/internal/models"
	"github.com/desertthunder/skillstream/internal/services"
)

// coursesLoadedMsg carries the result of a full catalog fetch. There is no cancellation:
// a late response replaces a newer one.
type coursesLoadedMsg struct {
	courses []models.Course
	err     error
}

// favoritesLoadedMsg carries the favorites fetched for the session holding token.
type favoritesLoadedMsg struct {
	token   string
	courses []models.Course
	err     error
}

type favoriteResultMsg struct {
	result favorites.Result
}

type adminLoadedMsg struct {
	courses []models.Course
	err     error
}

type adminOp int

const (
	adminCreate adminOp = iota
	adminUpdate
	adminDelete
)

type adminDoneMsg struct {
	op     adminOp
	course *models.Course
	err    error
}

type authDoneMsg struct {
	route  guard.Route
	result *services.AuthResult
	err    error
}

// dismissMsg clears notice id if it is still on display.
type dismissMsg struct {
	id uint64
}

// redirectMsg applies a delayed navigation decision made while from was current.
type redirectMsg struct {
	from     guard.Route
	decision guard.Decision
}

type openedMsg struct {
	err error
}
