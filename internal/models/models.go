package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
)

// Course is a single catalog entry. Code is the stable public identifier; ID is the server row
// id used by admin update and delete.
type Course struct {
	ID            int64    `json:"id,omitempty" yaml:"id,omitempty"`
	Code          int      `json:"code" yaml:"code"`
	Title         string   `json:"title" yaml:"title"`
	Description   string   `json:"description" yaml:"description"`
	Provider      string   `json:"provider,omitempty" yaml:"provider,omitempty"`
	Instructor    string   `json:"instructor,omitempty" yaml:"instructor,omitempty"`
	ImageURL      string   `json:"imageurl,omitempty" yaml:"image,omitempty"`
	CourseURL     string   `json:"courseurl,omitempty" yaml:"courseurl,omitempty"`
	DurationHours *int     `json:"duration,omitempty" yaml:"duration,omitempty"`
	Tags          []string `json:"tags" yaml:"tags"`
}

// wireCourse accepts every field spelling the API has used.
type wireCourse struct {
	ID            int64    `json:"id"`
	Code          int      `json:"code"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Provider      string   `json:"provider"`
	Instructor    string   `json:"instructor"`
	Image         string   `json:"image"`
	ImageURL      string   `json:"imageurl"`
	ImageURLCamel string   `json:"imageUrl"`
	CourseURL     string   `json:"courseurl"`
	CourseURLAlt  string   `json:"courseUrl"`
	Duration      *int     `json:"duration"`
	DurationHours *int     `json:"durationHours"`
	Tags          []string `json:"tags"`
}

// UnmarshalJSON normalizes the wire format: instructor falls back to provider, image fields are
// merged and missing tags become an empty slice.
func (c *Course) UnmarshalJSON(data []byte) error {
	var w wireCourse
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	*c = Course{
		ID:            w.ID,
		Code:          w.Code,
		Title:         w.Title,
		Description:   w.Description,
		Provider:      w.Provider,
		Instructor:    firstNonEmpty(w.Instructor, w.Provider),
		ImageURL:      firstNonEmpty(w.ImageURL, w.ImageURLCamel, w.Image),
		CourseURL:     firstNonEmpty(w.CourseURL, w.CourseURLAlt),
		DurationHours: w.Duration,
		Tags:          w.Tags,
	}
	if c.DurationHours == nil {
		c.DurationHours = w.DurationHours
	}
	if c.Tags == nil {
		c.Tags = []string{}
	}
	return nil
}

// InstructorName is the display name used for matching and sorting.
func (c Course) InstructorName() string {
	return firstNonEmpty(c.Instructor, c.Provider)
}

// HasTag reports whether tag is one of the course tags, compared exactly.
func (c Course) HasTag(tag string) bool {
	return slices.Contains(c.Tags, tag)
}

// Clone returns a deep copy so snapshots never alias the source list.
func (c Course) Clone() Course {
	out := c
	out.Tags = slices.Clone(c.Tags)
	if out.Tags == nil {
		out.Tags = []string{}
	}
	if c.DurationHours != nil {
		h := *c.DurationHours
		out.DurationHours = &h
	}
	return out
}

func (c Course) String() string {
	return fmt.Sprintf("[%d] %s", c.Code, c.Title)
}

// CourseInput is the body of an admin create request.
type CourseInput struct {
	Code        int      `json:"code" validate:"required,gt=0"`
	Title       string   `json:"title" validate:"required"`
	Description string   `json:"description" validate:"required"`
	Provider    string   `json:"provider,omitempty"`
	Image       string   `json:"image,omitempty"`
	Duration    *int     `json:"duration,omitempty" validate:"omitempty,gte=0"`
	CourseURL   string   `json:"courseurl,omitempty"`
	Tags        []string `json:"tags"`
}

// CoursePatch is a partial admin update. Code is immutable and therefore absent.
type CoursePatch struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Provider    *string  `json:"provider"`
	Image       *string  `json:"image"`
	Duration    *int     `json:"duration"`
	CourseURL   *string  `json:"courseurl"`
	Tags        []string `json:"tags"`
}

// Empty reports whether the patch would change nothing.
func (p CoursePatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Provider == nil && p.Image == nil &&
		p.Duration == nil && p.CourseURL == nil && p.Tags == nil
}

// Apply returns a copy of c with the non-nil patch fields set.
func (p CoursePatch) Apply(c Course) Course {
	out := c.Clone()
	if p.Title != nil {
		out.Title = *p.Title
	}
	if p.Description != nil {
		out.Description = *p.Description
	}
	if p.Provider != nil {
		out.Provider = *p.Provider
		if c.Instructor == "" || c.Instructor == c.Provider {
			out.Instructor = *p.Provider
		}
	}
	if p.Image != nil {
		out.ImageURL = *p.Image
	}
	if p.Duration != nil {
		h := *p.Duration
		out.DurationHours = &h
	}
	if p.CourseURL != nil {
		out.CourseURL = *p.CourseURL
	}
	if p.Tags != nil {
		out.Tags = slices.Clone(p.Tags)
	}
	return out
}

// Course converts a create request into the record the server will store.
func (in CourseInput) Course() Course {
	c := Course{
		Code:        in.Code,
		Title:       in.Title,
		Description: in.Description,
		Provider:    in.Provider,
		Instructor:  in.Provider,
		ImageURL:    in.Image,
		CourseURL:   in.CourseURL,
		Tags:        slices.Clone(in.Tags),
	}
	if in.Duration != nil {
		h := *in.Duration
		c.DurationHours = &h
	}
	if c.Tags == nil {
		c.Tags = []string{}
	}
	return c
}

// DefaultListKeys are the wrapper keys the API uses around course arrays.
var DefaultListKeys = []string{"courses", "favourites", "favorites", "data"}

// DecodeCourseList accepts either a JSON array of courses or an object holding the array under
// one of keys (DefaultListKeys when none are given). A null or empty body yields an empty list.
func DecodeCourseList(body []byte, keys ...string) ([]Course, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return []Course{}, nil
	}

	if len(keys) == 0 {
		keys = DefaultListKeys
	}

	switch body[0] {
	case '[':
		var courses []Course
		if err := json.Unmarshal(body, &courses); err != nil {
			return nil, fmt.Errorf("failed to decode course list: %w", err)
		}
		if courses == nil {
			courses = []Course{}
		}
		return courses, nil
	case '{':
		var wrapper map[string]json.RawMessage
		if err := json.Unmarshal(body, &wrapper); err != nil {
			return nil, fmt.Errorf("failed to decode course list: %w", err)
		}
		for _, key := range keys {
			if raw, ok := wrapper[key]; ok {
				return DecodeCourseList(raw)
			}
		}
		return nil, fmt.Errorf("course list object has none of the keys %v", keys)
	default:
		return nil, fmt.Errorf("unexpected course list payload starting with %q", body[0])
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
