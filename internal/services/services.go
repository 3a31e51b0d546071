// package services defines the interfaces for talking to the SkillStream REST API
package services

import (
	"context"

	"github.com/desertthunder/skillstream/internal/models"
)

// Authenticator exchanges credentials for a bearer token.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Register(ctx context.Context, name, email, password string) (*AuthResult, error)
}

// CourseReader reads the public catalog.
type CourseReader interface {
	Courses(ctx context.Context) ([]models.Course, error)
	Search(ctx context.Context, query string) ([]models.Course, error)
}

// FavoritesAPI manages the favorites of the session user.
type FavoritesAPI interface {
	Favourites(ctx context.Context) ([]models.Course, error)
	AddFavourite(ctx context.Context, course models.Course) error
	RemoveFavourite(ctx context.Context, code int) error
}

// AdminAPI manages course records. Every call requires an admin credential.
type AdminAPI interface {
	AdminCourses(ctx context.Context) ([]models.Course, error)
	CreateCourse(ctx context.Context, in models.CourseInput) (*models.Course, error)
	UpdateCourse(ctx context.Context, id int64, patch models.CoursePatch) (*models.Course, error)
	DeleteCourse(ctx context.Context, id int64) error
}

// Catalog is the full API surface used by the CLI and TUI.
type Catalog interface {
	Authenticator
	CourseReader
	FavoritesAPI
	AdminAPI
}

// AuthResult is the body of a successful login or register.
type AuthResult struct {
	Token string    `json:"token"`
	User  *UserInfo `json:"user,omitempty"`
}

type UserInfo struct {
	Name string `json:"name"`
	Role string `json:"role"`
}
