package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/desertthunder/skillstream/internal/models"
	"github.com/desertthunder/skillstream/internal/shared"
)

// CatalogService implements [Catalog] on top of [APIService].
type CatalogService struct {
	api *APIService
}

var _ Catalog = (*CatalogService)(nil)

func NewCatalogService(api *APIService) *CatalogService {
	return &CatalogService{api: api}
}

// API exposes the underlying raw client.
func (s *CatalogService) API() *APIService {
	return s.api
}

// Login normalizes email (trimmed, lower case) and returns the issued token.
func (s *CatalogService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	body := map[string]string{
		"email":    normalizeEmail(email),
		"password": password,
	}
	return s.authenticate(ctx, "/auth/login", body)
}

func (s *CatalogService) Register(ctx context.Context, name, email, password string) (*AuthResult, error) {
	body := map[string]string{
		"name":     strings.TrimSpace(name),
		"email":    normalizeEmail(email),
		"password": password,
	}
	return s.authenticate(ctx, "/auth/register", body)
}

func (s *CatalogService) authenticate(ctx context.Context, path string, body map[string]string) (*AuthResult, error) {
	var result AuthResult
	if err := s.call(ctx, http.MethodPost, path, body, &result); err != nil {
		return nil, err
	}
	if result.Token == "" {
		return nil, fmt.Errorf("%w: %s returned no token", shared.ErrAPIRequest, path)
	}
	return &result, nil
}

// Courses returns the catalog in server order.
func (s *CatalogService) Courses(ctx context.Context) ([]models.Course, error) {
	return s.list(ctx, "/courses")
}

// Search runs the server side query; "#tag" matches tags.
func (s *CatalogService) Search(ctx context.Context, query string) ([]models.Course, error) {
	return s.list(ctx, "/courses/search?query="+url.QueryEscape(query))
}

func (s *CatalogService) Favourites(ctx context.Context) ([]models.Course, error) {
	return s.list(ctx, "/favourites")
}

// AddFavourite posts the course snapshot. A duplicate is reported as [shared.ErrConflict].
func (s *CatalogService) AddFavourite(ctx context.Context, course models.Course) error {
	return s.call(ctx, http.MethodPost, "/favourites", course, nil)
}

func (s *CatalogService) RemoveFavourite(ctx context.Context, code int) error {
	return s.call(ctx, http.MethodDelete, "/favourites/"+strconv.Itoa(code), nil, nil)
}

func (s *CatalogService) AdminCourses(ctx context.Context) ([]models.Course, error) {
	return s.list(ctx, "/admin/courses")
}

func (s *CatalogService) CreateCourse(ctx context.Context, in models.CourseInput) (*models.Course, error) {
	var created models.Course
	if err := s.call(ctx, http.MethodPost, "/admin/courses", in, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateCourse sends a partial update addressed by server row id.
func (s *CatalogService) UpdateCourse(ctx context.Context, id int64, patch models.CoursePatch) (*models.Course, error) {
	var updated models.Course
	path := "/admin/courses/" + strconv.FormatInt(id, 10)
	if err := s.call(ctx, http.MethodPut, path, patch, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *CatalogService) DeleteCourse(ctx context.Context, id int64) error {
	return s.call(ctx, http.MethodDelete, "/admin/courses/"+strconv.FormatInt(id, 10), nil, nil)
}

func (s *CatalogService) list(ctx context.Context, path string) ([]models.Course, error) {
	resp, err := s.api.Get(ctx, path)
	if err != nil {
		return nil, err
	}
	if err := resp.Err(http.MethodGet, path); err != nil {
		return nil, err
	}

	courses, err := models.DecodeCourseList(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrAPIRequest, err)
	}
	return courses, nil
}

// call encodes in (when non-nil), checks the status and decodes into out (when non-nil).
func (s *CatalogService) call(ctx context.Context, method, path string, in, out any) error {
	var data []byte
	if in != nil {
		var err error
		if data, err = json.Marshal(in); err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
	}

	resp, err := s.api.Do(ctx, method, path, data)
	if err != nil {
		return err
	}
	if err := resp.Err(method, path); err != nil {
		return err
	}

	if out == nil || len(resp.Body) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return fmt.Errorf("%w: failed to decode %s response: %w", shared.ErrAPIRequest, path, err)
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
