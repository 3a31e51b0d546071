package server

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/desertthunder/skillstream/internal/models"
	"github.com/desertthunder/skillstream/internal/shared"
	"golang.org/x/crypto/bcrypt"
)

// UserRole is the default role of registered users.
const UserRole = "USER"

// User is an account of the fixture API.
type User struct {
	Name         string
	Email        string
	Role         string
	PasswordHash []byte
}

// Store holds the fixture API state in memory. Safe for concurrent use.
type Store struct {
	mu         sync.RWMutex
	users      map[string]*User
	courses    []models.Course
	favourites map[string][]int
	nextID     int64
	cost       int
}

// NewStore seeds a store from fixtures. cost is the bcrypt cost; 0 selects [bcrypt.DefaultCost].
func NewStore(f *Fixtures, cost int) (*Store, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	s := &Store{
		users:      map[string]*User{},
		favourites: map[string][]int{},
		nextID:     1,
		cost:       cost,
	}
	if f == nil {
		return s, nil
	}

	for _, u := range f.Users {
		role := u.Role
		if role == "" {
			role = UserRole
		}
		if _, err := s.addUser(u.Name, u.Email, u.Password, role); err != nil {
			return nil, fmt.Errorf("failed to seed user %s: %w", u.Email, err)
		}
	}
	for _, c := range f.Courses {
		if _, err := s.CreateCourse(c); err != nil {
			return nil, fmt.Errorf("failed to seed course %d: %w", c.Code, err)
		}
	}
	for email, codes := range f.Favourites {
		for _, code := range codes {
			if err := s.AddFavourite(normalizeEmail(email), code); err != nil && !errors.Is(err, shared.ErrConflict) {
				return nil, fmt.Errorf("failed to seed favourite %d for %s: %w", code, email, err)
			}
		}
	}
	return s, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a user with [UserRole]. An existing email fails with [shared.ErrConflict].
func (s *Store) Register(name, email, password string) (*User, error) {
	return s.addUser(name, email, password, UserRole)
}

func (s *Store) addUser(name, email, password, role string) (*User, error) {
	email = normalizeEmail(email)
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[email]; ok {
		return nil, fmt.Errorf("%w: email %s", shared.ErrConflict, email)
	}
	u := &User{Name: name, Email: email, Role: role, PasswordHash: hash}
	s.users[email] = u
	return u, nil
}

// Authenticate checks credentials. Unknown users and wrong passwords both fail with
// [shared.ErrNotAuthenticated].
func (s *Store) Authenticate(email, password string) (*User, error) {
	u, ok := s.User(email)
	if !ok || len(u.PasswordHash) == 0 {
		return nil, shared.ErrNotAuthenticated
	}
	if err := bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(password)); err != nil {
		return nil, shared.ErrNotAuthenticated
	}
	return u, nil
}

func (s *Store) User(email string) (*User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[normalizeEmail(email)]
	if !ok {
		return nil, false
	}
	out := *u
	return &out, true
}

// Courses returns copies of every course in insertion order.
func (s *Store) Courses() []models.Course {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Course, len(s.courses))
	for i, c := range s.courses {
		out[i] = c.Clone()
	}
	return out
}

// Search matches the lowercased, trimmed query. "#x" matches x as a substring of any tag;
// anything else matches title, description or provider.
func (s *Store) Search(query string) []models.Course {
	needle := strings.ToLower(strings.TrimSpace(query))
	courses := s.Courses()
	if needle == "" {
		return courses
	}

	out := []models.Course{}
	for _, c := range courses {
		if matches(c, needle) {
			out = append(out, c)
		}
	}
	return out
}

func matches(c models.Course, needle string) bool {
	if tag, ok := strings.CutPrefix(needle, "#"); ok {
		return slices.ContainsFunc(c.Tags, func(t string) bool {
			return strings.Contains(strings.ToLower(t), tag)
		})
	}
	for _, field := range []string{c.Title, c.Description, c.Provider} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

// Course returns the course with row id.
func (s *Store) Course(id int64) (models.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexOf(id)
	if i < 0 {
		return models.Course{}, fmt.Errorf("%w: course %d", shared.ErrNotFound, id)
	}
	return s.courses[i].Clone(), nil
}

// CreateCourse stores c under a new row id. A repeated code fails with [shared.ErrConflict].
func (s *Store) CreateCourse(c models.Course) (models.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if slices.ContainsFunc(s.courses, func(e models.Course) bool { return e.Code == c.Code }) {
		return models.Course{}, fmt.Errorf("%w: Course code %d already exists", shared.ErrConflict, c.Code)
	}

	c = c.Clone()
	c.ID = s.nextID
	s.nextID++
	if c.Instructor == "" {
		c.Instructor = c.Provider
	}
	s.courses = append(s.courses, c)
	return c.Clone(), nil
}

// UpdateCourse applies patch to the course with row id.
func (s *Store) UpdateCourse(id int64, patch models.CoursePatch) (models.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return models.Course{}, fmt.Errorf("%w: course %d", shared.ErrNotFound, id)
	}
	s.courses[i] = patch.Apply(s.courses[i])
	return s.courses[i].Clone(), nil
}

func (s *Store) DeleteCourse(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return fmt.Errorf("%w: course %d", shared.ErrNotFound, id)
	}
	s.courses = slices.Delete(s.courses, i, i+1)
	return nil
}

func (s *Store) indexOf(id int64) int {
	return slices.IndexFunc(s.courses, func(c models.Course) bool { return c.ID == id })
}

// Favourites returns the courses favourited by email in the order they were added.
// Codes whose course no longer exists are skipped.
func (s *Store) Favourites(email string) []models.Course {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []models.Course{}
	for _, code := range s.favourites[normalizeEmail(email)] {
		i := slices.IndexFunc(s.courses, func(c models.Course) bool { return c.Code == code })
		if i >= 0 {
			out = append(out, s.courses[i].Clone())
		}
	}
	return out
}

// AddFavourite fails with [shared.ErrConflict] when code is already a favourite.
func (s *Store) AddFavourite(email string, code int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	email = normalizeEmail(email)
	if slices.Contains(s.favourites[email], code) {
		return fmt.Errorf("%w: favourite %d", shared.ErrConflict, code)
	}
	s.favourites[email] = append(s.favourites[email], code)
	return nil
}

// RemoveFavourite fails with [shared.ErrNotFound] when code is not a favourite.
func (s *Store) RemoveFavourite(email string, code int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	email = normalizeEmail(email)
	i := slices.Index(s.favourites[email], code)
	if i < 0 {
		return fmt.Errorf("%w: favourite %d", shared.ErrNotFound, code)
	}
	s.favourites[email] = slices.Delete(s.favourites[email], i, i+1)
	return nil
}
