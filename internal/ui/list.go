package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/skillstream/internal/models"
	"github.com/desertthunder/skillstream/internal/shared"
)

var _ list.Item = courseItem{}

// courseItem wraps [models.Course] to implement [list.Item] for the admin table.
type courseItem struct {
	course models.Course
}

func (i courseItem) FilterValue() string { return i.course.Title }
func (i courseItem) Title() string       { return fmt.Sprintf("#%d %s", i.course.Code, i.course.Title) }
func (i courseItem) Description() string {
	desc := fmt.Sprintf("id %d • %s • %s", i.course.ID, i.course.InstructorName(), shared.FormatHours(i.course.DurationHours))
	if len(i.course.Tags) > 0 {
		desc = fmt.Sprintf("%s • %s", desc, strings.Join(i.course.Tags, ", "))
	}
	return desc
}

func courseItems(courses []models.Course) []list.Item {
	items := make([]list.Item, len(courses))
	for i, c := range courses {
		items[i] = courseItem{course: c}
	}
	return items
}

// courseCard renders one course of the catalog or favorites list.
func (p *Palette) courseCard(c models.Course, selected, favorite, pending bool) string {
	star := "☆"
	if favorite {
		star = "★"
	}
	if pending {
		star = "…"
	}

	title := fmt.Sprintf("%s %s", star, c.Title)
	meta := fmt.Sprintf("%s • %s", c.InstructorName(), shared.FormatHours(c.DurationHours))
	if len(c.Tags) > 0 {
		meta = fmt.Sprintf("%s • #%s", meta, strings.Join(c.Tags, " #"))
	}

	if selected {
		return p.selected.Render(title + "\n" + meta)
	}
	return "  " + p.text.Render(title) + "\n  " + p.muted.Render(meta)
}
