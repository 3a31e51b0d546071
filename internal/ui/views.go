package ui

import (
	"fmt"
	"strings"

	"github.com/desertthunder/skillstream/internal/admin"
	"github.com/desertthunder/skillstream/internal/catalog"
	"github.com/desertthunder/skillstream/internal/guard"
	"github.com/desertthunder/skillstream/internal/models"
)

var navRoutes = []struct {
	route guard.Route
	label string
}{
	{guard.Catalog, "1 Catalog"},
	{guard.Favorites, "2 Favorites"},
	{guard.Admin, "3 Admin"},
	{guard.About, "4 About"},
}

func (m *Model) renderNav() string {
	parts := make([]string, 0, len(navRoutes)+1)
	for _, r := range navRoutes {
		if r.route == m.Route() {
			parts = append(parts, m.palette.active.Render(r.label))
		} else {
			parts = append(parts, m.palette.chip.Render(r.label))
		}
	}

	status := m.palette.muted.Render("guest • L login • R register")
	if m.deps.Session.Current().Authenticated() {
		status = m.palette.ok.Render("signed in • X logout")
	}
	parts = append(parts, status)
	return m.palette.title.Render("SkillStream") + "\n" + strings.Join(parts, " ")
}

func (m *Model) renderCatalog() string {
	var b strings.Builder

	if m.searching || m.filter.Query != "" {
		b.WriteString(m.search.View())
		b.WriteString("\n")
	}

	chips := make([]string, len(m.tags))
	for i, tag := range m.tags {
		if tag == m.filter.ActiveTag {
			chips[i] = m.palette.active.Render(tag)
		} else {
			chips[i] = m.palette.chip.Render(tag)
		}
	}
	b.WriteString(strings.Join(chips, ""))
	b.WriteString("\n")
	b.WriteString(m.palette.muted.Render(fmt.Sprintf("sort: %s • %d of %d courses", m.filter.Sort, len(m.visible), len(m.courses))))
	b.WriteString("\n\n")

	switch {
	case m.loading:
		b.WriteString(m.palette.info.Render("Loading courses..."))
	case m.loadErr != nil && m.courses == nil:
		b.WriteString(m.palette.err.Render("Could not load courses. Press r to retry."))
	case len(m.visible) == 0 && m.filter.IsActive():
		b.WriteString(m.palette.muted.Render("No courses match the current filters. Press c to clear."))
	case len(m.visible) == 0:
		b.WriteString(m.palette.muted.Render("No courses available."))
	default:
		for i, c := range m.window(m.visible, m.cursor) {
			idx := i + m.offset(len(m.visible), m.cursor)
			fav, pending := m.favs.Set().Has(c.Code), m.favs.IsSubmitting(c.Code)
			b.WriteString(m.palette.courseCard(c, idx == m.cursor, fav, pending))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m *Model) renderFavorites() string {
	courses := m.favs.Set().Courses()
	var b strings.Builder
	b.WriteString(m.palette.title.Render(fmt.Sprintf("My favorites (%d)", len(courses))))
	b.WriteString("\n")

	if len(courses) == 0 {
		b.WriteString(m.palette.muted.Render("No favorites yet. Press f on a course in the catalog."))
		return b.String()
	}
	for i, c := range m.window(courses, m.favCursor) {
		idx := i + m.offset(len(courses), m.favCursor)
		b.WriteString(m.palette.courseCard(c, idx == m.favCursor, true, m.favs.IsSubmitting(c.Code)))
		b.WriteString("\n")
	}
	return b.String()
}

func (m *Model) renderAdmin() string {
	if m.denied {
		return m.palette.err.Render("Redirecting to the catalog...")
	}

	var b strings.Builder
	claims, _ := guard.DecodeClaims(m.token(), m.deps.Guard.Secret)
	stats := admin.ComputeStats(m.adminCourses)
	b.WriteString(m.palette.title.Render("Admin dashboard"))
	b.WriteString("\n")
	b.WriteString(m.palette.muted.Render(fmt.Sprintf(
		"signed in as %s • %d courses • %d tags • %d hours",
		admin.ActiveUser(claims), stats.Courses, stats.UniqueTags, stats.TotalHours,
	)))
	b.WriteString("\n\n")

	switch m.adminMode {
	case adminEditing:
		if m.adminForm != nil {
			b.WriteString(m.adminForm.View(m.palette))
		}
	case adminConfirming:
		if m.deleting != nil {
			b.WriteString(m.palette.warn.Render(fmt.Sprintf("Delete %q? (y/n)", m.deleting.Title)))
		}
	default:
		b.WriteString(m.adminList.View())
		b.WriteString("\n")
		b.WriteString(m.palette.help.Render("n new • e edit • d delete • r reload"))
	}
	return b.String()
}

func (m *Model) renderAbout() string {
	lines := []string{
		m.palette.title.Render("About SkillStream"),
		"Browse the course catalog, keep a list of favorites and manage courses.",
		"",
		"Filter with / or by cycling tag chips with tab. #tag in the search matches tags.",
		fmt.Sprintf("Sort keys: %s, %s, %s.", catalog.SortRelevance, catalog.SortTitle, catalog.SortInstructor),
		"Favorites and the admin dashboard require a session.",
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderHelp() string {
	return m.palette.help.Render(m.help.FullHelpView(m.keys.FullHelp()))
}

// pageSize is how many course cards fit on screen.
func (m *Model) pageSize() int {
	if m.height <= 0 {
		return 10
	}
	return max((m.height-14)/2, 3)
}

func (m *Model) offset(n, cursor int) int {
	size := m.pageSize()
	if n <= size || cursor < size {
		return 0
	}
	return min(cursor-size+1, n-size)
}

func (m *Model) window(courses []models.Course, cursor int) []models.Course {
	start := m.offset(len(courses), cursor)
	end := min(start+m.pageSize(), len(courses))
	return courses[start:end]
}
