package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/skillstream/internal/guard"
	"github.com/desertthunder/skillstream/internal/models"
	"github.com/desertthunder/skillstream/internal/shared"
	"github.com/go-playground/validator/v10"
)

const (
	// APIPrefix is the path every route is mounted under.
	APIPrefix = "/api/v1"
	// TokenTTL is the lifetime of issued tokens.
	TokenTTL = 24 * time.Hour
	// DefaultSecret signs tokens when no secret is configured.
	DefaultSecret = "change_this_secret_for_prod"
)

// courseRecord is the wire shape of a course.
type courseRecord struct {
	ID          int64    `json:"id"`
	Code        int      `json:"code"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Provider    string   `json:"provider"`
	Image       string   `json:"image"`
	Duration    *int     `json:"duration"`
	CourseURL   string   `json:"courseurl"`
	Tags        []string `json:"tags"`
}

func toRecord(c models.Course) courseRecord {
	tags := c.Tags
	if tags == nil {
		tags = []string{}
	}
	return courseRecord{
		ID:          c.ID,
		Code:        c.Code,
		Title:       c.Title,
		Description: c.Description,
		Provider:    c.Provider,
		Image:       c.ImageURL,
		Duration:    c.DurationHours,
		CourseURL:   c.CourseURL,
		Tags:        tags,
	}
}

func toRecords(courses []models.Course) []courseRecord {
	out := make([]courseRecord, len(courses))
	for i, c := range courses {
		out[i] = toRecord(c)
	}
	return out
}

type credentials struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	User  userResponse `json:"user"`
	Token string       `json:"token"`
}

type userResponse struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

// API serves the catalog REST endpoints from a [Store].
type API struct {
	store    *Store
	secret   string
	logger   *log.Logger
	validate *validator.Validate
}

// NewAPI creates the handlers. An empty secret selects [DefaultSecret].
func NewAPI(store *Store, secret string, logger *log.Logger) *API {
	if secret == "" {
		secret = DefaultSecret
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &API{
		store:    store,
		secret:   secret,
		logger:   logger,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Register mounts every route on r.
func (a *API) Register(r Router) {
	r.Handle(http.MethodPost, APIPrefix+"/auth/register", http.HandlerFunc(a.register))
	r.Handle(http.MethodPost, APIPrefix+"/auth/login", http.HandlerFunc(a.login))

	r.Handle(http.MethodGet, APIPrefix+"/courses", http.HandlerFunc(a.courses))
	r.Handle(http.MethodGet, APIPrefix+"/courses/search", http.HandlerFunc(a.search))

	r.Handle(http.MethodGet, APIPrefix+"/favourites", http.HandlerFunc(a.favourites))
	r.Handle(http.MethodPost, APIPrefix+"/favourites", http.HandlerFunc(a.addFavourite))
	r.Handle(http.MethodDelete, APIPrefix+"/favourites/{code}", http.HandlerFunc(a.removeFavourite))

	r.Handle(http.MethodGet, APIPrefix+"/admin/courses", a.adminOnly(a.adminCourses))
	r.Handle(http.MethodPost, APIPrefix+"/admin/courses", a.adminOnly(a.createCourse))
	r.Handle(http.MethodPut, APIPrefix+"/admin/courses/{id}", a.adminOnly(a.updateCourse))
	r.Handle(http.MethodDelete, APIPrefix+"/admin/courses/{id}", a.adminOnly(a.deleteCourse))
}

func (a *API) register(w http.ResponseWriter, r *http.Request) {
	var body credentials
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeMsg(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	body.Email = normalizeEmail(body.Email)
	if strings.TrimSpace(body.Name) == "" || body.Email == "" || strings.TrimSpace(body.Password) == "" {
		writeMsg(w, http.StatusBadRequest, "Invalid payload")
		return
	}

	u, err := a.store.Register(body.Name, body.Email, body.Password)
	if errors.Is(err, shared.ErrConflict) {
		writeMsg(w, http.StatusBadRequest, "Email already exists")
		return
	} else if err != nil {
		a.internalError(w, err)
		return
	}
	a.writeAuth(w, http.StatusCreated, u)
}

func (a *API) login(w http.ResponseWriter, r *http.Request) {
	var body credentials
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeMsg(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if strings.TrimSpace(body.Password) == "" {
		writeMsg(w, http.StatusBadRequest, "Password required")
		return
	}

	u, err := a.store.Authenticate(body.Email, body.Password)
	if err != nil {
		writeMsg(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	a.writeAuth(w, http.StatusOK, u)
}

func (a *API) writeAuth(w http.ResponseWriter, status int, u *User) {
	token, err := guard.IssueToken(a.secret, u.Email, u.Role, TokenTTL)
	if err != nil {
		a.internalError(w, err)
		return
	}
	writeJSON(w, status, authResponse{User: userResponse{Name: u.Name, Role: u.Role}, Token: token})
}

func (a *API) courses(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toRecords(a.store.Courses()))
}

func (a *API) search(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toRecords(a.store.Search(r.URL.Query().Get("query"))))
}

// user resolves the token subject to a known user.
func (a *API) user(r *http.Request) (*User, bool) {
	email := guard.Subject(r.Header.Get("Authorization"), a.secret)
	if email == "" {
		return nil, false
	}
	return a.store.User(email)
}

func (a *API) favourites(w http.ResponseWriter, r *http.Request) {
	u, ok := a.user(r)
	if !ok {
		writeMsg(w, http.StatusUnauthorized, "User not found")
		return
	}
	writeJSON(w, http.StatusOK, toRecords(a.store.Favourites(u.Email)))
}

func (a *API) addFavourite(w http.ResponseWriter, r *http.Request) {
	u, ok := a.user(r)
	if !ok {
		writeMsg(w, http.StatusUnauthorized, "User not found")
		return
	}
	var body struct {
		Code *int `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Code == nil {
		writeMsg(w, http.StatusBadRequest, "Course code is required")
		return
	}

	if err := a.store.AddFavourite(u.Email, *body.Code); errors.Is(err, shared.ErrConflict) {
		writeMsg(w, http.StatusBadRequest, "Already favourited")
		return
	} else if err != nil {
		a.internalError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"success": "true", "message": "created"})
}

func (a *API) removeFavourite(w http.ResponseWriter, r *http.Request) {
	u, ok := a.user(r)
	if !ok {
		writeMsg(w, http.StatusUnauthorized, "User not found")
		return
	}
	code, err := strconv.Atoi(r.PathValue("code"))
	if err != nil {
		writeMsg(w, http.StatusBadRequest, "Invalid course code")
		return
	}

	if err := a.store.RemoveFavourite(u.Email, code); errors.Is(err, shared.ErrNotFound) {
		writeMsg(w, http.StatusNotFound, "Not found")
		return
	} else if err != nil {
		a.internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"success": "true", "message": "delete successful"})
}

// adminOnly rejects requests whose subject is not a stored user with the admin role. The role is
// read from the store, not the token.
func (a *API) adminOnly(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := a.user(r)
		if !ok || u.Role != guard.AdminRole {
			writeMsg(w, http.StatusForbidden, "Admin access required")
			return
		}
		next(w, r)
	})
}

func (a *API) adminCourses(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toRecords(a.store.Courses()))
}

func (a *API) createCourse(w http.ResponseWriter, r *http.Request) {
	var in models.CourseInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeMsg(w, http.StatusBadRequest, "Error adding course: "+err.Error())
		return
	}
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	if err := a.validate.Struct(in); err != nil {
		writeMsg(w, http.StatusBadRequest, courseValidationMessage(err))
		return
	}

	c, err := a.store.CreateCourse(in.Course())
	if errors.Is(err, shared.ErrConflict) {
		writeMsg(w, http.StatusBadRequest, "Course code "+strconv.Itoa(in.Code)+" already exists")
		return
	} else if err != nil {
		a.internalError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toRecord(c))
}

func (a *API) updateCourse(w http.ResponseWriter, r *http.Request) {
	id, ok := courseID(w, r)
	if !ok {
		return
	}
	var patch models.CoursePatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeMsg(w, http.StatusBadRequest, "Invalid payload")
		return
	}

	c, err := a.store.UpdateCourse(id, patch)
	if errors.Is(err, shared.ErrNotFound) {
		writeMsg(w, http.StatusNotFound, "Course not found")
		return
	} else if err != nil {
		a.internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRecord(c))
}

func (a *API) deleteCourse(w http.ResponseWriter, r *http.Request) {
	id, ok := courseID(w, r)
	if !ok {
		return
	}
	if err := a.store.DeleteCourse(id); errors.Is(err, shared.ErrNotFound) {
		writeMsg(w, http.StatusNotFound, "Course not found")
		return
	} else if err != nil {
		a.internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Course deleted successfully"})
}

func courseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeMsg(w, http.StatusNotFound, "Course not found")
		return 0, false
	}
	return id, true
}

func courseValidationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Invalid payload"
	}
	switch verrs[0].Field() {
	case "Code":
		return "Course code is required"
	case "Title":
		return "Course title is required"
	case "Description":
		return "Course description is required"
	case "Duration":
		return "Course duration must be at least 0"
	default:
		return "Invalid course field " + strings.ToLower(verrs[0].Field())
	}
}

func (a *API) internalError(w http.ResponseWriter, err error) {
	a.logger.Error("request failed", "error", err)
	writeMsg(w, http.StatusInternalServerError, "Internal server error")
}

func writeMsg(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"msg": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
