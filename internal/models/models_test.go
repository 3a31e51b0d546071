package models

import (
	"encoding/json"
	"testing"
)

func TestCourse(t *testing.T) {
	t.Run("UnmarshalJSON normalizes wire fields", func(t *testing.T) {
		body := `{"id":7,"code":101,"title":"Intro to Go","description":"basics","provider":"Gopher U",
			"image":"https://img/1.png","duration":12,"courseurl":"go.dev/learn"}`

		var c Course
		if err := json.Unmarshal([]byte(body), &c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if c.ID != 7 || c.Code != 101 {
			t.Errorf("unexpected ids: %+v", c)
		}
		if c.Instructor != "Gopher U" {
			t.Errorf("expected instructor to fall back to provider, got %q", c.Instructor)
		}
		if c.ImageURL != "https://img/1.png" {
			t.Errorf("expected image url from image field, got %q", c.ImageURL)
		}
		if c.DurationHours == nil || *c.DurationHours != 12 {
			t.Errorf("expected duration 12, got %v", c.DurationHours)
		}
		if c.Tags == nil || len(c.Tags) != 0 {
			t.Errorf("expected empty non-nil tags, got %#v", c.Tags)
		}
	})

	t.Run("explicit instructor wins", func(t *testing.T) {
		var c Course
		if err := json.Unmarshal([]byte(`{"code":1,"provider":"P","instructor":"I","imageUrl":"x","tags":["go"]}`), &c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if c.InstructorName() != "I" || c.ImageURL != "x" {
			t.Errorf("unexpected course: %+v", c)
		}
		if !c.HasTag("go") || c.HasTag("Go") {
			t.Error("HasTag should match exactly")
		}
	})

	t.Run("Clone is deep", func(t *testing.T) {
		h := 3
		c := Course{Code: 1, Tags: []string{"a"}, DurationHours: &h}
		cp := c.Clone()
		cp.Tags[0] = "b"
		*cp.DurationHours = 9

		if c.Tags[0] != "a" || *c.DurationHours != 3 {
			t.Errorf("clone aliases source: %+v", c)
		}
	})
}

func TestDecodeCourseList(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    []int
		wantErr bool
	}{
		{name: "array", body: `[{"code":1},{"code":2}]`, want: []int{1, 2}},
		{name: "wrapped courses", body: `{"courses":[{"code":3}]}`, want: []int{3}},
		{name: "wrapped favourites", body: `{"favourites":[{"code":4}]}`, want: []int{4}},
		{name: "wrapped favorites", body: `{"favorites":[{"code":5}]}`, want: []int{5}},
		{name: "null", body: `null`, want: []int{}},
		{name: "empty body", body: ``, want: []int{}},
		{name: "unknown wrapper", body: `{"items":[]}`, wantErr: true},
		{name: "scalar", body: `42`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeCourseList([]byte(tt.body))
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got == nil {
				t.Fatal("expected non-nil slice")
			}
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d courses, got %d", len(tt.want), len(got))
			}
			for i, code := range tt.want {
				if got[i].Code != code {
					t.Errorf("course %d: expected code %d, got %d", i, code, got[i].Code)
				}
			}
		})
	}

	t.Run("custom keys", func(t *testing.T) {
		got, err := DecodeCourseList([]byte(`{"items":[{"code":9}]}`), "items")
		if err != nil || len(got) != 1 || got[0].Code != 9 {
			t.Errorf("unexpected result %v, %v", got, err)
		}
	})
}

func TestCoursePatch(t *testing.T) {
	title := "New"
	c := Course{Code: 1, Title: "Old", Description: "d", Provider: "P", Instructor: "P", Tags: []string{"x"}}

	t.Run("Empty", func(t *testing.T) {
		if !(CoursePatch{}).Empty() {
			t.Error("zero patch should be empty")
		}
		if (CoursePatch{Title: &title}).Empty() {
			t.Error("patch with title should not be empty")
		}
	})

	t.Run("Apply leaves nil fields", func(t *testing.T) {
		provider := "Q"
		got := CoursePatch{Title: &title, Provider: &provider}.Apply(c)
		if got.Title != "New" || got.Description != "d" {
			t.Errorf("unexpected fields: %+v", got)
		}
		if got.Instructor != "Q" {
			t.Errorf("expected derived instructor to follow provider, got %q", got.Instructor)
		}
		if got.Tags[0] != "x" || c.Title != "Old" {
			t.Errorf("apply mutated source or dropped tags: %+v / %+v", got, c)
		}
	})
}

func TestFavoriteSet(t *testing.T) {
	t.Run("Add rejects duplicates", func(t *testing.T) {
		var s FavoriteSet
		if !s.Add(Course{Code: 1, Title: "a"}) {
			t.Fatal("first add should succeed")
		}
		if s.Add(Course{Code: 1, Title: "b"}) {
			t.Error("second add of same code should report existing")
		}
		if s.Len() != 1 || s.Courses()[0].Title != "a" {
			t.Errorf("set changed on duplicate add: %+v", s.Courses())
		}
	})

	t.Run("snapshots are copies", func(t *testing.T) {
		src := Course{Code: 2, Tags: []string{"go"}}
		s := NewFavoriteSet(nil)
		s.Add(src)
		src.Tags[0] = "rust"

		got := s.Courses()
		if got[0].Tags[0] != "go" {
			t.Errorf("snapshot aliases caller data: %v", got[0].Tags)
		}
		got[0].Tags[0] = "zig"
		if s.Courses()[0].Tags[0] != "go" {
			t.Error("Courses should return copies")
		}
	})

	t.Run("Remove by code keeps order", func(t *testing.T) {
		s := NewFavoriteSet([]Course{{Code: 1}, {Code: 2}, {Code: 3}, {Code: 2}})
		if s.Len() != 3 {
			t.Fatalf("expected dedup on construction, got %v", s.Codes())
		}
		if !s.Remove(2) {
			t.Fatal("expected remove to report presence")
		}
		if s.Remove(2) {
			t.Error("second remove should report absence")
		}
		codes := s.Codes()
		if len(codes) != 2 || codes[0] != 1 || codes[1] != 3 {
			t.Errorf("unexpected codes %v", codes)
		}
	})
}
