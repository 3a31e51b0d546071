// Package admin implements course create/update/delete for administrators.
package admin

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/skillstream/internal/guard"
	"github.com/desertthunder/skillstream/internal/models"
	"github.com/desertthunder/skillstream/internal/shared"
	"github.com/go-playground/validator/v10"
)

// Form holds course fields as typed by the user.
type Form struct {
	Code        string
	Title       string
	Description string
	Provider    string
	Image       string
	Duration    string
	CourseURL   string
	Tags        string
}

// FormFromCourse fills a form for editing c.
func FormFromCourse(c models.Course) Form {
	f := Form{
		Code:        strconv.Itoa(c.Code),
		Title:       c.Title,
		Description: c.Description,
		Provider:    c.Provider,
		Image:       c.ImageURL,
		CourseURL:   c.CourseURL,
		Tags:        shared.JoinTags(c.Tags),
	}
	if c.DurationHours != nil {
		f.Duration = strconv.Itoa(*c.DurationHours)
	}
	return f
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Input validates the form for a create request.
func (f Form) Input() (models.CourseInput, error) {
	code, err := parseInt("code", f.Code)
	if err != nil {
		return models.CourseInput{}, err
	}
	if code == nil {
		return models.CourseInput{}, fmt.Errorf("%w: code is required", shared.ErrValidation)
	}
	duration, err := parseInt("duration", f.Duration)
	if err != nil {
		return models.CourseInput{}, err
	}

	in := models.CourseInput{
		Code:        *code,
		Title:       strings.TrimSpace(f.Title),
		Description: strings.TrimSpace(f.Description),
		Provider:    strings.TrimSpace(f.Provider),
		Image:       strings.TrimSpace(f.Image),
		Duration:    duration,
		CourseURL:   strings.TrimSpace(f.CourseURL),
		Tags:        normalizeTags(f.Tags),
	}
	if err := validate.Struct(in); err != nil {
		return models.CourseInput{}, validationError(err)
	}
	return in, nil
}

// Patch builds a partial update. Code is never sent; blank fields are left unchanged.
func (f Form) Patch() (models.CoursePatch, error) {
	duration, err := parseInt("duration", f.Duration)
	if err != nil {
		return models.CoursePatch{}, err
	}
	if duration != nil && *duration < 0 {
		return models.CoursePatch{}, fmt.Errorf("%w: duration must not be negative", shared.ErrValidation)
	}

	return models.CoursePatch{
		Title:       optional(f.Title),
		Description: optional(f.Description),
		Provider:    optional(f.Provider),
		Image:       optional(f.Image),
		Duration:    duration,
		CourseURL:   optional(f.CourseURL),
		Tags:        normalizeTags(f.Tags),
	}, nil
}

// normalizeTags splits on commas and drops blanks. No tags is nil so it encodes as null.
func normalizeTags(s string) []string {
	tags := shared.SplitTags(s)
	if len(tags) == 0 {
		return nil
	}
	return tags
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func parseInt(field, s string) (*int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be a whole number, got %q", shared.ErrValidation, field, s)
	}
	return &n, nil
}

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %w", shared.ErrValidation, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, field+" is required")
		case "gt":
			msgs = append(msgs, fmt.Sprintf("%s must be greater than %s", field, fe.Param()))
		case "gte":
			msgs = append(msgs, fmt.Sprintf("%s must be at least %s", field, fe.Param()))
		default:
			msgs = append(msgs, field+" is invalid")
		}
	}
	return fmt.Errorf("%w: %s", shared.ErrValidation, strings.Join(msgs, ", "))
}

// API is the admin part of the catalog client.
type API interface {
	AdminCourses(ctx context.Context) ([]models.Course, error)
	CreateCourse(ctx context.Context, in models.CourseInput) (*models.Course, error)
	UpdateCourse(ctx context.Context, id int64, patch models.CoursePatch) (*models.Course, error)
	DeleteCourse(ctx context.Context, id int64) error
}

// Confirmer asks the user to approve a destructive action.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// ConfirmFunc adapts a function to [Confirmer].
type ConfirmFunc func(ctx context.Context, prompt string) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) (bool, error) {
	return f(ctx, prompt)
}

// AlwaysConfirm approves every prompt; used for --yes.
var AlwaysConfirm = ConfirmFunc(func(context.Context, string) (bool, error) { return true, nil })

// Workflow runs admin operations against the API.
type Workflow struct {
	api     API
	confirm Confirmer
	logger  *log.Logger
}

func NewWorkflow(api API, confirm Confirmer, logger *log.Logger) *Workflow {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Workflow{api: api, confirm: confirm, logger: logger}
}

func (w *Workflow) List(ctx context.Context) ([]models.Course, error) {
	return w.api.AdminCourses(ctx)
}

// Create validates the form before anything is sent.
func (w *Workflow) Create(ctx context.Context, f Form) (*models.Course, error) {
	in, err := f.Input()
	if err != nil {
		return nil, err
	}
	c, err := w.api.CreateCourse(ctx, in)
	if err != nil {
		return nil, err
	}
	w.logger.Info("course created", "id", c.ID, "code", c.Code)
	return c, nil
}

// Update sends the non-blank fields of f for the course with row id.
func (w *Workflow) Update(ctx context.Context, id int64, f Form) (*models.Course, error) {
	patch, err := f.Patch()
	if err != nil {
		return nil, err
	}
	if patch.Empty() {
		return nil, fmt.Errorf("%w: nothing to update", shared.ErrValidation)
	}
	c, err := w.api.UpdateCourse(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	w.logger.Info("course updated", "id", id)
	return c, nil
}

// Delete asks for confirmation and returns [shared.ErrCanceled] without a request when declined.
func (w *Workflow) Delete(ctx context.Context, c models.Course) error {
	prompt := fmt.Sprintf("Delete course %d %q?", c.Code, c.Title)
	if w.confirm == nil {
		return fmt.Errorf("%w: no confirmation available", shared.ErrCanceled)
	}

	ok, err := w.confirm.Confirm(ctx, prompt)
	if err != nil {
		return err
	}
	if !ok {
		return shared.ErrCanceled
	}

	if err := w.api.DeleteCourse(ctx, c.ID); err != nil {
		return err
	}
	w.logger.Info("course deleted", "id", c.ID, "code", c.Code)
	return nil
}

// Stats summarizes the catalog for the admin dashboard.
type Stats struct {
	Courses    int
	UniqueTags int
	TotalHours int
}

func ComputeStats(courses []models.Course) Stats {
	tags := map[string]struct{}{}
	s := Stats{Courses: len(courses)}
	for _, c := range courses {
		for _, t := range c.Tags {
			tags[t] = struct{}{}
		}
		if c.DurationHours != nil && *c.DurationHours > 0 {
			s.TotalHours += *c.DurationHours
		}
	}
	s.UniqueTags = len(tags)
	return s
}

// ActiveUser is the local part of the token subject, or "Admin" when there is none.
func ActiveUser(claims *guard.Claims) string {
	if claims == nil || claims.Subject == "" {
		return "Admin"
	}
	local, _, _ := strings.Cut(claims.Subject, "@")
	if local == "" {
		return "Admin"
	}
	return local
}
