package ui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/skillstream/internal/admin"
	"github.com/desertthunder/skillstream/internal/favorites"
	"github.com/desertthunder/skillstream/internal/guard"
	"github.com/desertthunder/skillstream/internal/models"
	"github.com/desertthunder/skillstream/internal/notify"
	"github.com/desertthunder/skillstream/internal/services"
	"github.com/desertthunder/skillstream/internal/session"
	"github.com/desertthunder/skillstream/internal/shared"
	tu "github.com/desertthunder/skillstream/internal/testing"
)

// fakeAPI adds the auth endpoints to the shared catalog double.
type fakeAPI struct {
	*tu.FakeCatalog
	token   string
	authErr error
}

func (f *fakeAPI) Login(ctx context.Context, email, password string) (*services.AuthResult, error) {
	if f.authErr != nil {
		return nil, f.authErr
	}
	return &services.AuthResult{Token: f.token, User: &services.UserInfo{Name: "Ada", Role: "USER"}}, nil
}

func (f *fakeAPI) Register(ctx context.Context, name, email, password string) (*services.AuthResult, error) {
	if f.authErr != nil {
		return nil, f.authErr
	}
	return &services.AuthResult{Token: f.token, User: &services.UserInfo{Name: name, Role: "USER"}}, nil
}

func newTestModel(t *testing.T, token string) (*Model, *fakeAPI, *session.Store) {
	t.Helper()
	store, err := session.NewStore(nil)
	if err != nil {
		t.Fatalf("failed to create session store: %v", err)
	}
	if token != "" {
		if err := store.Login(token); err != nil {
			t.Fatalf("failed to login: %v", err)
		}
	}
	api := &fakeAPI{FakeCatalog: tu.NewFakeCatalog(tu.Courses()), token: "issued-token"}
	m := NewModel(context.Background(), Deps{
		Catalog: api,
		Session: store,
		Guard:   guard.New(""),
		Logger:  shared.NewLogger(nil),
		Open:    func(string) error { return nil },
		Theme:   DarkTheme,
	})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 60})
	m.Update(coursesLoadedMsg{courses: tu.Courses()})
	return m, api, store
}

func issue(t *testing.T, role string) string {
	t.Helper()
	token, err := guard.IssueToken("", "ada@example.com", role, time.Hour)
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}
	return token
}

func press(m *Model, keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = m.Update(keyMsg(k))
	}
	return cmd
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
}

// exec runs a command that is known to return a single message and feeds it back.
func exec(t *testing.T, m *Model, cmd tea.Cmd) tea.Cmd {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	_, next := m.Update(cmd())
	return next
}

func codes(courses []models.Course) []int {
	out := make([]int, len(courses))
	for i, c := range courses {
		out[i] = c.Code
	}
	return out
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestCatalog(t *testing.T) {
	t.Run("loads courses and tags", func(t *testing.T) {
		m, _, _ := newTestModel(t, "")
		if got := len(m.Visible()); got != 5 {
			t.Fatalf("expected 5 visible courses, got %d", got)
		}
		if m.tags[0] != "All" || m.tags[1] != "go" {
			t.Errorf("unexpected tag vocabulary %v", m.tags)
		}
	})

	t.Run("tab selects the next tag chip", func(t *testing.T) {
		m, _, _ := newTestModel(t, "")
		press(m, "tab")
		if m.filter.ActiveTag != "go" || m.search.Value() != "#go" {
			t.Errorf("expected go chip with #go query, got %q / %q", m.filter.ActiveTag, m.search.Value())
		}
		if got := codes(m.Visible()); !equalInts(got, []int{1, 4}) {
			t.Errorf("expected [1 4], got %v", got)
		}

		press(m, "c")
		if len(m.Visible()) != 5 || m.filter.IsActive() {
			t.Errorf("expected filters cleared, got %+v", m.filter)
		}
	})

	t.Run("sort cycles to title", func(t *testing.T) {
		m, _, _ := newTestModel(t, "")
		press(m, "s")
		if got := codes(m.Visible()); !equalInts(got, []int{2, 5, 4, 1, 3}) {
			t.Errorf("expected title order, got %v", got)
		}
	})

	t.Run("search filters as the user types", func(t *testing.T) {
		m, api, _ := newTestModel(t, "")
		press(m, "/")
		if !m.searching {
			t.Fatal("expected search mode")
		}
		press(m, "rust")
		if got := codes(m.Visible()); !equalInts(got, []int{2}) {
			t.Errorf("expected [2], got %v", got)
		}

		cmd := press(m, "enter")
		if m.searching {
			t.Error("expected enter to leave search mode")
		}
		if !m.loading {
			t.Error("expected enter to start a search request")
		}
		exec(t, m, cmd)
		if api.CallCount("Search") != 1 {
			t.Errorf("expected one search request, got %d", api.CallCount("Search"))
		}
		if got := codes(m.Visible()); !equalInts(got, []int{2}) {
			t.Errorf("expected [2] after search, got %v", got)
		}
	})

	t.Run("enter on a tag query stays local", func(t *testing.T) {
		m, api, _ := newTestModel(t, "")
		press(m, "/", "#go")
		if cmd := press(m, "enter"); cmd != nil {
			t.Error("expected no request for a tag query")
		}
		if api.CallCount("Search") != 0 {
			t.Errorf("expected no search request, got %d", api.CallCount("Search"))
		}
		if got := codes(m.Visible()); !equalInts(got, []int{1, 4}) {
			t.Errorf("expected [1 4], got %v", got)
		}
	})

	t.Run("enter on a blank query reloads the catalog", func(t *testing.T) {
		m, api, _ := newTestModel(t, "")
		press(m, "/")
		exec(t, m, press(m, "enter"))
		if api.CallCount("Courses") != 1 || api.CallCount("Search") != 0 {
			t.Errorf("expected a full reload, got courses=%d search=%d", api.CallCount("Courses"), api.CallCount("Search"))
		}
	})

	t.Run("failed load shows an error notice", func(t *testing.T) {
		m, _, _ := newTestModel(t, "")
		m.Update(coursesLoadedMsg{err: shared.ErrNetwork})
		if n := m.Notice(); n.Kind != notify.Error || !strings.HasPrefix(n.Text, "Failed to load courses") {
			t.Errorf("unexpected notice %+v", n)
		}
	})

	t.Run("fetch command reads the catalog", func(t *testing.T) {
		m, api, _ := newTestModel(t, "")
		msg, ok := m.fetchCourses()().(coursesLoadedMsg)
		if !ok || msg.err != nil || len(msg.courses) != 5 {
			t.Fatalf("unexpected message %+v", msg)
		}
		if api.CallCount("Courses") != 1 {
			t.Errorf("expected one request, got %d", api.CallCount("Courses"))
		}
	})
}

func TestFavoriteToggle(t *testing.T) {
	t.Run("add then remove", func(t *testing.T) {
		m, _, _ := newTestModel(t, "token")
		cmd := press(m, "f")
		if !m.favs.IsSubmitting(1) {
			t.Fatal("expected course 1 to be submitting")
		}
		if again := press(m, "f"); again != nil {
			t.Error("expected a second press while submitting to be dropped")
		}

		exec(t, m, cmd)
		if n := m.Notice(); n.Text != favorites.AddedText {
			t.Errorf("expected %q, got %q", favorites.AddedText, n.Text)
		}
		if !m.favs.Set().Has(1) {
			t.Error("expected course 1 in favorites")
		}

		exec(t, m, press(m, "f"))
		if n := m.Notice(); n.Text != favorites.RemovedText {
			t.Errorf("expected %q, got %q", favorites.RemovedText, n.Text)
		}
		if m.favs.Set().Has(1) {
			t.Error("expected course 1 removed")
		}
	})

	t.Run("without a session", func(t *testing.T) {
		m, api, _ := newTestModel(t, "")
		exec(t, m, press(m, "f"))
		if n := m.Notice(); n.Text != favorites.LoginText || n.Kind != notify.Error {
			t.Errorf("unexpected notice %+v", n)
		}
		if api.CallCount("AddFavourite") != 0 {
			t.Error("expected no request without a session")
		}
	})

	t.Run("duplicate is informational", func(t *testing.T) {
		m, api, _ := newTestModel(t, "token")
		if err := api.AddFavourite(context.Background(), tu.Courses()[0]); err != nil {
			t.Fatalf("failed to seed favorite: %v", err)
		}
		exec(t, m, press(m, "f"))
		if n := m.Notice(); n.Text != favorites.DuplicateText || n.Kind != notify.Info {
			t.Errorf("unexpected notice %+v", n)
		}
		if m.favs.Set().Len() != 0 {
			t.Error("expected local set unchanged")
		}
	})
}

func TestFavoritesOwnership(t *testing.T) {
	t.Run("load applies on the update goroutine", func(t *testing.T) {
		m, api, _ := newTestModel(t, "token")
		if err := api.AddFavourite(context.Background(), tu.Courses()[1]); err != nil {
			t.Fatalf("failed to seed favorite: %v", err)
		}
		cmd := press(m, "2")
		if m.Route() != guard.Favorites || cmd == nil {
			t.Fatalf("expected favorites load, got %s", m.Route())
		}

		done := make(chan tea.Msg, 1)
		go func() { done <- cmd() }()

		var msg tea.Msg
		for msg == nil {
			select {
			case msg = <-done:
			default:
				_ = m.View()
				press(m, "j")
			}
		}
		if m.favs.Set().Len() != 0 {
			t.Fatal("expected the set untouched until the message is handled")
		}

		m.Update(msg)
		if !m.favs.Set().Has(2) {
			t.Errorf("expected course 2 loaded, got %v", m.favs.Set().Codes())
		}
	})

	t.Run("load arriving after logout is dropped", func(t *testing.T) {
		m, api, store := newTestModel(t, "token")
		if err := api.AddFavourite(context.Background(), tu.Courses()[0]); err != nil {
			t.Fatalf("failed to seed favorite: %v", err)
		}
		msg := m.fetchFavorites()()
		press(m, "X")
		if store.Current().Authenticated() {
			t.Fatal("expected session cleared")
		}

		m.Update(msg)
		if m.favs.Set().Len() != 0 {
			t.Errorf("expected empty favorites after logout, got %v", m.favs.Set().Codes())
		}
	})

	t.Run("load for a previous session is dropped", func(t *testing.T) {
		m, api, store := newTestModel(t, "first")
		if err := api.AddFavourite(context.Background(), tu.Courses()[0]); err != nil {
			t.Fatalf("failed to seed favorite: %v", err)
		}
		msg := m.fetchFavorites()()
		if err := store.Login("second"); err != nil {
			t.Fatalf("failed to login: %v", err)
		}

		m.Update(msg)
		if m.favs.Set().Len() != 0 {
			t.Errorf("expected stale load ignored, got %v", m.favs.Set().Codes())
		}
	})

	t.Run("session change clears user lists", func(t *testing.T) {
		m, _, store := newTestModel(t, "token")
		m.favs.Load([]models.Course{tu.Courses()[0]})
		m.setAdminCourses(tu.Courses())

		if err := store.Logout(); err != nil {
			t.Fatalf("failed to logout: %v", err)
		}
		if m.favs.Set().Len() != 0 || len(m.adminCourses) != 0 {
			t.Errorf("expected lists cleared, got %d favorites and %d admin courses", m.favs.Set().Len(), len(m.adminCourses))
		}
	})

	t.Run("toggle completing after logout leaves the set empty", func(t *testing.T) {
		m, _, _ := newTestModel(t, "token")
		cmd := press(m, "f")
		msg := cmd()
		press(m, "X")

		m.Update(msg)
		if m.favs.IsSubmitting(1) {
			t.Error("expected the card back to idle")
		}
		if m.favs.Set().Len() != 0 {
			t.Errorf("expected empty favorites after logout, got %v", m.favs.Set().Codes())
		}
	})
}

func TestNotices(t *testing.T) {
	m, _, _ := newTestModel(t, "")
	if cmd := m.notice(notify.New(notify.Info, "first", notify.InfoTTL)); cmd == nil {
		t.Fatal("expected a dismissal command")
	}
	first := m.Notice()
	m.notice(notify.New(notify.Success, "second", notify.SuccessTTL))
	second := m.Notice()

	m.Update(dismissMsg{id: first.ID})
	if m.Notice().Text != "second" {
		t.Errorf("expected stale dismissal to be ignored, got %+v", m.Notice())
	}
	m.Update(dismissMsg{id: second.ID})
	if !m.Notice().IsZero() {
		t.Errorf("expected board cleared, got %+v", m.Notice())
	}
}

func TestNavigation(t *testing.T) {
	t.Run("protected route without a session goes to login", func(t *testing.T) {
		m, _, _ := newTestModel(t, "")
		press(m, "2")
		if m.Route() != guard.Login {
			t.Fatalf("expected login, got %s", m.Route())
		}
		if m.history.Len() != 2 {
			t.Errorf("expected favorites replaced by login, history has %d entries", m.history.Len())
		}
		if m.authForm == nil {
			t.Error("expected login form")
		}

		press(m, "esc")
		if m.Route() != guard.Catalog {
			t.Errorf("expected back to catalog, got %s", m.Route())
		}
	})

	t.Run("non-admin is denied then redirected", func(t *testing.T) {
		m, _, _ := newTestModel(t, issue(t, "USER"))
		if cmd := press(m, "3"); cmd == nil {
			t.Fatal("expected a delayed redirect")
		}
		if m.Route() != guard.Admin || !m.denied {
			t.Fatalf("expected denied admin view, got %s", m.Route())
		}
		if n := m.Notice(); n.Text != guard.AccessDeniedText {
			t.Errorf("expected access denied notice, got %q", n.Text)
		}
		if !strings.Contains(m.View(), "Redirecting") {
			t.Error("expected redirect message in view")
		}

		d := m.deps.Guard.Check(guard.Admin, m.token())
		m.Update(redirectMsg{from: guard.Admin, decision: d})
		if m.Route() != guard.Catalog || m.denied {
			t.Errorf("expected catalog after redirect, got %s", m.Route())
		}
		if m.history.Len() != 2 {
			t.Errorf("expected admin entry replaced, history has %d entries", m.history.Len())
		}
	})

	t.Run("token without role claim is denied", func(t *testing.T) {
		m, _, _ := newTestModel(t, issue(t, ""))
		press(m, "3")
		if !m.denied {
			t.Error("expected denial without role claim")
		}
	})

	t.Run("stale redirect is ignored", func(t *testing.T) {
		m, _, _ := newTestModel(t, issue(t, "USER"))
		press(m, "3")
		d := m.deps.Guard.Check(guard.Admin, m.token())
		press(m, "4")
		m.Update(redirectMsg{from: guard.Admin, decision: d})
		if m.Route() != guard.About {
			t.Errorf("expected about to stay, got %s", m.Route())
		}
	})

	t.Run("expired session on favorites redirects to login", func(t *testing.T) {
		m, _, _ := newTestModel(t, "token")
		press(m, "2")
		m.Update(favoritesLoadedMsg{token: "token", err: shared.ErrNotAuthenticated})
		if m.Route() != guard.Login {
			t.Errorf("expected login, got %s", m.Route())
		}
	})
}

func TestAuth(t *testing.T) {
	t.Run("login replaces the form with the catalog", func(t *testing.T) {
		m, api, store := newTestModel(t, "")
		press(m, "L")
		cmd := press(m, "ada@example.com", "enter", "secret", "enter")
		exec(t, m, cmd)

		if store.Current().Token != api.token {
			t.Errorf("expected session token %q, got %q", api.token, store.Current().Token)
		}
		if m.Route() != guard.Catalog {
			t.Errorf("expected catalog, got %s", m.Route())
		}
		if n := m.Notice(); n.Text != "Welcome back, Ada" {
			t.Errorf("unexpected notice %q", n.Text)
		}
	})

	t.Run("failed login keeps the form", func(t *testing.T) {
		m, api, store := newTestModel(t, "")
		api.authErr = &services.APIError{Status: 401, Msg: "Invalid credentials"}
		press(m, "L")
		exec(t, m, press(m, "ada@example.com", "enter", "wrong", "ctrl+s"))

		if store.Current().Authenticated() {
			t.Error("expected no session")
		}
		if m.Route() != guard.Login {
			t.Errorf("expected login, got %s", m.Route())
		}
		if n := m.Notice(); n.Text != "Invalid credentials" {
			t.Errorf("unexpected notice %q", n.Text)
		}
	})

	t.Run("logout leaves protected routes", func(t *testing.T) {
		m, _, store := newTestModel(t, "token")
		press(m, "2")
		press(m, "X")
		if store.Current().Authenticated() {
			t.Error("expected session cleared")
		}
		if m.Route() != guard.Catalog {
			t.Errorf("expected catalog, got %s", m.Route())
		}
	})
}

func TestAdmin(t *testing.T) {
	setup := func(t *testing.T) (*Model, *fakeAPI) {
		m, api, _ := newTestModel(t, issue(t, guard.AdminRole))
		api.Admin = true
		cmd := press(m, "3")
		if m.denied {
			t.Fatal("expected admin to be allowed")
		}
		exec(t, m, cmd)
		if len(m.adminCourses) != 5 {
			t.Fatalf("expected 5 admin courses, got %d", len(m.adminCourses))
		}
		return m, api
	}

	t.Run("create", func(t *testing.T) {
		m, api := setup(t)
		press(m, "n")
		if m.adminMode != adminEditing {
			t.Fatal("expected form")
		}
		m.adminForm = courseForm("New course", admin.Form{Code: "9", Title: "Elixir", Description: "OTP"})
		exec(t, m, press(m, "ctrl+s"))

		if n := m.Notice(); n.Text != "Course 9 created" {
			t.Errorf("unexpected notice %q", n.Text)
		}
		if api.CallCount("CreateCourse") != 1 || m.adminMode != adminBrowse {
			t.Error("expected course created and form closed")
		}
	})

	t.Run("invalid form stays open", func(t *testing.T) {
		m, api := setup(t)
		press(m, "n")
		exec(t, m, press(m, "ctrl+s"))
		if m.adminMode != adminEditing {
			t.Error("expected form to stay open")
		}
		if api.CallCount("CreateCourse") != 0 {
			t.Error("expected no request for an invalid form")
		}
		if m.Notice().Kind != notify.Error {
			t.Errorf("expected error notice, got %+v", m.Notice())
		}
	})

	t.Run("delete asks first", func(t *testing.T) {
		m, api := setup(t)
		press(m, "d")
		if m.adminMode != adminConfirming {
			t.Fatal("expected confirmation")
		}
		press(m, "n")
		if api.CallCount("DeleteCourse") != 0 {
			t.Error("expected no request when declined")
		}

		press(m, "d")
		exec(t, m, press(m, "y"))
		if n := m.Notice(); n.Text != "Course 1 deleted" {
			t.Errorf("unexpected notice %q", n.Text)
		}
	})

	t.Run("forbidden response denies the view", func(t *testing.T) {
		m, api, _ := newTestModel(t, issue(t, guard.AdminRole))
		exec(t, m, press(m, "3"))
		if !m.denied || api.CallCount("AdminCourses") != 1 {
			t.Errorf("expected denial after forbidden response")
		}
	})
}

func TestTheme(t *testing.T) {
	m, _, store := newTestModel(t, "")
	press(m, "T")
	if got := store.Theme(DarkTheme); got != LightTheme {
		t.Errorf("expected light theme stored, got %q", got)
	}
	if m.palette != lightPalette {
		t.Error("expected light palette")
	}
	press(m, "T")
	if m.palette != darkPalette {
		t.Error("expected dark palette")
	}
}

func TestView(t *testing.T) {
	m, _, _ := newTestModel(t, "")
	out := m.View()
	for _, want := range []string{"SkillStream", "Intro to Go", "Advanced Rust"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected view to contain %q", want)
		}
	}

	m.Update(coursesLoadedMsg{courses: []models.Course{}})
	if !strings.Contains(m.View(), "No courses available") {
		t.Error("expected empty state")
	}
}
