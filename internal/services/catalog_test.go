package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/desertthunder/skillstream/internal/models"
	"github.com/desertthunder/skillstream/internal/shared"
)

func newTestCatalog(t *testing.T, handler http.HandlerFunc) *CatalogService {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewCatalogService(NewAPIService(server.URL+"/api/v1", nil))
}

func TestCatalogService(t *testing.T) {
	ctx := context.Background()

	t.Run("Login", func(t *testing.T) {
		t.Run("Normalizes Email", func(t *testing.T) {
			svc := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/api/v1/auth/login" {
					t.Errorf("unexpected path %s", r.URL.Path)
				}
				var body map[string]string
				json.NewDecoder(r.Body).Decode(&body)
				if body["email"] != "ada@example.com" {
					t.Errorf("expected normalized email, got %q", body["email"])
				}
				json.NewEncoder(w).Encode(map[string]any{"token": "tok", "user": map[string]string{"name": "Ada", "role": "USER"}})
			})

			res, err := svc.Login(ctx, "  Ada@Example.COM ", "pw")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if res.Token != "tok" || res.User == nil || res.User.Role != "USER" {
				t.Errorf("unexpected result %+v", res)
			}
		})

		t.Run("Invalid Credentials", func(t *testing.T) {
			svc := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"msg":"Invalid credentials"}`))
			})

			_, err := svc.Login(ctx, "a@b.c", "bad")
			if !errors.Is(err, shared.ErrNotAuthenticated) {
				t.Errorf("expected ErrNotAuthenticated, got %v", err)
			}
			if MessageOf(err) != "Invalid credentials" {
				t.Errorf("unexpected message %q", MessageOf(err))
			}
		})

		t.Run("Missing Token", func(t *testing.T) {
			svc := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusCreated)
				w.Write([]byte(`{"user":{"name":"x"}}`))
			})

			if _, err := svc.Register(ctx, "x", "x@y.z", "pw"); !errors.Is(err, shared.ErrAPIRequest) {
				t.Errorf("expected ErrAPIRequest, got %v", err)
			}
		})
	})

	t.Run("Courses Accepts Wrapped And Bare Lists", func(t *testing.T) {
		bodies := map[string]string{
			"/api/v1/courses":        `[{"code":1,"title":"A","provider":"P"}]`,
			"/api/v1/favourites":     `{"favourites":[{"code":2}]}`,
			"/api/v1/admin/courses":  `{"courses":[{"code":3},{"code":4}]}`,
			"/api/v1/courses/search": `{"courses":[]}`,
		}
		svc := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(bodies[r.URL.Path]))
		})

		courses, err := svc.Courses(ctx)
		if err != nil || len(courses) != 1 || courses[0].Instructor != "P" {
			t.Errorf("unexpected courses %+v, %v", courses, err)
		}

		favs, err := svc.Favourites(ctx)
		if err != nil || len(favs) != 1 || favs[0].Code != 2 {
			t.Errorf("unexpected favourites %+v, %v", favs, err)
		}

		admin, err := svc.AdminCourses(ctx)
		if err != nil || len(admin) != 2 {
			t.Errorf("unexpected admin courses %+v, %v", admin, err)
		}

		found, err := svc.Search(ctx, "#go")
		if err != nil || found == nil || len(found) != 0 {
			t.Errorf("unexpected search result %+v, %v", found, err)
		}
	})

	t.Run("Search Escapes Query", func(t *testing.T) {
		svc := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("query"); got != "#go lang" {
				t.Errorf("expected decoded query '#go lang', got %q", got)
			}
			w.Write([]byte(`[]`))
		})
		svc.Search(ctx, "#go lang")
	})

	t.Run("Favourites", func(t *testing.T) {
		t.Run("Add Posts Snapshot", func(t *testing.T) {
			svc := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost || r.URL.Path != "/api/v1/favourites" {
					t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
				}
				var c models.Course
				json.NewDecoder(r.Body).Decode(&c)
				if c.Code != 7 || c.Title != "Seven" {
					t.Errorf("unexpected snapshot %+v", c)
				}
				w.WriteHeader(http.StatusCreated)
			})

			if err := svc.AddFavourite(ctx, models.Course{Code: 7, Title: "Seven"}); err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		})

		t.Run("Duplicate Is Conflict", func(t *testing.T) {
			svc := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(`{"msg":"Already favourited"}`))
			})

			if err := svc.AddFavourite(ctx, models.Course{Code: 1}); !errors.Is(err, shared.ErrConflict) {
				t.Errorf("expected ErrConflict, got %v", err)
			}
		})

		t.Run("Remove By Code", func(t *testing.T) {
			svc := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodDelete || r.URL.Path != "/api/v1/favourites/5" {
					t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
				}
				w.Write([]byte(`{"success":"true"}`))
			})

			if err := svc.RemoveFavourite(ctx, 5); err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		})
	})

	t.Run("Admin", func(t *testing.T) {
		t.Run("Create", func(t *testing.T) {
			svc := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
				body, _ := io.ReadAll(r.Body)
				var in map[string]any
				json.Unmarshal(body, &in)
				if in["code"] != float64(12) || in["title"] != "T" {
					t.Errorf("unexpected body %s", body)
				}
				w.WriteHeader(http.StatusCreated)
				w.Write([]byte(`{"id":40,"code":12,"title":"T","description":"D","tags":["a"]}`))
			})

			c, err := svc.CreateCourse(ctx, models.CourseInput{Code: 12, Title: "T", Description: "D", Tags: []string{"a"}})
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if c.ID != 40 {
				t.Errorf("expected server id 40, got %d", c.ID)
			}
		})

		t.Run("Update Uses Row ID And Omits Nil Fields As Null", func(t *testing.T) {
			svc := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPut || r.URL.Path != "/api/v1/admin/courses/40" {
					t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
				}
				var in map[string]any
				json.NewDecoder(r.Body).Decode(&in)
				if _, ok := in["code"]; ok {
					t.Error("code must not be sent on update")
				}
				if in["description"] != nil {
					t.Errorf("expected null description, got %v", in["description"])
				}
				w.Write([]byte(`{"id":40,"code":12,"title":"New"}`))
			})

			title := "New"
			c, err := svc.UpdateCourse(ctx, 40, models.CoursePatch{Title: &title})
			if err != nil || c.Title != "New" {
				t.Errorf("unexpected result %+v, %v", c, err)
			}
		})

		t.Run("Forbidden", func(t *testing.T) {
			svc := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusForbidden)
				w.Write([]byte(`{"msg":"Admin access required"}`))
			})

			if err := svc.DeleteCourse(ctx, 1); !errors.Is(err, shared.ErrForbidden) {
				t.Errorf("expected ErrForbidden, got %v", err)
			}
		})
	})

	t.Run("Malformed List Body", func(t *testing.T) {
		svc := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`"nope"`))
		})

		if _, err := svc.Courses(ctx); !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", err)
		}
	})
}
