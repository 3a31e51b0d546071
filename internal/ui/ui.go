package ui

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/skillstream/internal/admin"
	"github.com/desertthunder/skillstream/internal/catalog"
	"github.com/desertthunder/skillstream/internal/favorites"
	"github.com/desertthunder/skillstream/internal/guard"
	"github.com/desertthunder/skillstream/internal/models"
	"github.com/desertthunder/skillstream/internal/notify"
	"github.com/desertthunder/skillstream/internal/services"
	"github.com/desertthunder/skillstream/internal/session"
	"github.com/desertthunder/skillstream/internal/shared"
)

// Deps are the collaborators of the TUI.
type Deps struct {
	Catalog services.Catalog
	Session *session.Store
	Guard   *guard.Guard
	Logger  *log.Logger
	// Open launches a course link; defaults to [shared.OpenBrowser].
	Open func(url string) error
	// Theme is used when no theme preference is stored.
	Theme string
}

type adminMode int

const (
	adminBrowse adminMode = iota
	adminEditing
	adminConfirming
)

// Model represents the TUI application state.
type Model struct {
	ctx     context.Context
	deps    Deps
	history *guard.History
	board   notify.Board
	keys    keyMap
	help    help.Model
	palette *Palette
	width   int
	height  int

	courses   []models.Course
	filter    catalog.FilterState
	visible   []models.Course
	tags      []string
	cursor    int
	search    textinput.Model
	searching bool
	loading   bool
	loadErr   error

	favs      *favorites.Workflow
	favCursor int

	admin        *admin.Workflow
	adminList    list.Model
	adminCourses []models.Course
	adminMode    adminMode
	adminForm    *form
	editing      *models.Course
	deleting     *models.Course
	denied       bool

	authForm *form
}

// NewModel creates a TUI model starting at the catalog.
func NewModel(ctx context.Context, deps Deps) *Model {
	if deps.Logger == nil {
		deps.Logger = shared.NewLogger(nil)
	}
	if deps.Guard == nil {
		deps.Guard = guard.New("")
	}
	if deps.Session == nil {
		deps.Session, _ = session.NewStore(nil)
	}
	if deps.Open == nil {
		deps.Open = shared.OpenBrowser
	}

	search := textinput.New()
	search.Placeholder = "Search title, description, instructor or #tag"
	search.Prompt = "/ "

	m := &Model{
		ctx:     ctx,
		deps:    deps,
		history: guard.NewHistory(guard.Catalog),
		keys:    newKeyMap(),
		help:    help.New(),
		palette: PaletteFor(deps.Session.Theme(deps.Theme)),
		filter:  catalog.NewFilterState(),
		search:  search,
		favs:    favorites.New(nil),
		admin:   newAdminWorkflow(deps),
	}
	m.favs.Authenticated = func() bool { return m.deps.Session.Current().Authenticated() }
	deps.Session.Subscribe(m.sessionChanged)
	m.adminList = list.New(nil, list.NewDefaultDelegate(), 0, 0)
	m.adminList.Title = "Courses"
	m.adminList.SetFilteringEnabled(false)
	m.adminList.SetShowHelp(false)
	return m
}

// sessionChanged drops user-scoped lists. The session only changes inside Update, so this runs
// on the goroutine that owns the model.
func (m *Model) sessionChanged(session.Session) {
	m.favs.Load(nil)
	m.favCursor = 0
	m.setAdminCourses(nil)
}

// newAdminWorkflow confirms every delete; the TUI asks y/n before calling Delete.
func newAdminWorkflow(deps Deps) *admin.Workflow {
	return admin.NewWorkflow(deps.Catalog, admin.AlwaysConfirm, deps.Logger)
}

// Route is the route on display.
func (m *Model) Route() guard.Route {
	return m.history.Current()
}

// Init fetches the catalog and, with a session, the favorites.
func (m *Model) Init() tea.Cmd {
	m.loading = true
	return tea.Batch(m.fetchCourses(), m.fetchFavorites())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.adminList.SetSize(msg.Width-4, max(msg.Height-12, 5))
		return m, nil

	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case coursesLoadedMsg:
		m.loading = false
		m.loadErr = msg.err
		if msg.err != nil {
			m.deps.Logger.Error("failed to load courses", "error", msg.err)
			return m, m.notice(notify.New(notify.Error, "Failed to load courses: "+services.MessageOf(msg.err), notify.ErrorTTL))
		}
		m.courses = msg.courses
		m.tags = catalog.TagVocabulary(m.courses)
		m.refilter()
		return m, nil

	case favoritesLoadedMsg:
		if cur := m.deps.Session.Current(); !cur.Authenticated() || cur.Token != msg.token {
			return m, nil
		}
		if msg.err != nil {
			m.deps.Logger.Warn("failed to load favorites", "error", msg.err)
			if m.Route() == guard.Favorites {
				return m, m.apply(m.deps.Guard.OnError(guard.Favorites, msg.err))
			}
			return m, nil
		}
		m.favs.Load(msg.courses)
		m.favCursor = clamp(m.favCursor, m.favs.Set().Len())
		return m, nil

	case favoriteResultMsg:
		n := m.favs.Complete(msg.result)
		if !m.deps.Session.Current().Authenticated() {
			m.favs.Load(nil)
		}
		m.favCursor = clamp(m.favCursor, m.favs.Set().Len())
		return m, m.notice(n)

	case adminLoadedMsg:
		if msg.err != nil {
			return m, m.adminFailed(msg.err)
		}
		m.setAdminCourses(msg.courses)
		return m, nil

	case adminDoneMsg:
		return m, m.adminDone(msg)

	case authDoneMsg:
		return m, m.authDone(msg)

	case dismissMsg:
		m.board.Dismiss(msg.id)
		return m, nil

	case redirectMsg:
		if m.Route() != msg.from {
			return m, nil
		}
		m.denied = false
		m.history.Navigate(msg.decision)
		return m, m.enter(m.Route())

	case openedMsg:
		if msg.err != nil {
			return m, m.notice(notify.New(notify.Error, "Failed to open link: "+msg.err.Error(), notify.ErrorTTL))
		}
		return m, nil
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.Type == tea.KeyCtrlC {
		return tea.Quit
	}

	switch {
	case m.searching:
		return m.handleSearchKey(msg)
	case m.authForm != nil && (m.Route() == guard.Login || m.Route() == guard.Register):
		return m.handleAuthKey(msg)
	case m.Route() == guard.Admin && m.adminMode == adminEditing:
		return m.handleAdminFormKey(msg)
	case m.Route() == guard.Admin && m.adminMode == adminConfirming:
		return m.handleConfirmKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return tea.Quit
	case key.Matches(msg, m.keys.back):
		return m.back()
	case key.Matches(msg, m.keys.catalog):
		return m.navigate(guard.Catalog)
	case key.Matches(msg, m.keys.favorites):
		return m.navigate(guard.Favorites)
	case key.Matches(msg, m.keys.admin):
		return m.navigate(guard.Admin)
	case key.Matches(msg, m.keys.about):
		return m.navigate(guard.About)
	case key.Matches(msg, m.keys.login):
		return m.navigate(guard.Login)
	case key.Matches(msg, m.keys.register):
		return m.navigate(guard.Register)
	case key.Matches(msg, m.keys.logout):
		return m.logout()
	case key.Matches(msg, m.keys.theme):
		return m.toggleTheme()
	}

	switch m.Route() {
	case guard.Catalog:
		return m.handleCatalogKey(msg)
	case guard.Favorites:
		return m.handleFavoritesKey(msg)
	case guard.Admin:
		return m.handleAdminKey(msg)
	}
	return nil
}

// navigate pushes route when the guard allows it. A login redirect replaces the pushed entry;
// a denial shows the route with a notice until the delayed redirect replaces it.
func (m *Model) navigate(route guard.Route) tea.Cmd {
	if route == m.Route() && !m.denied {
		return m.enter(route)
	}
	m.history.Push(route)
	return m.apply(m.deps.Guard.Check(route, m.token()))
}

// apply performs a guard decision for the current route.
func (m *Model) apply(d guard.Decision) tea.Cmd {
	switch d.Outcome {
	case guard.RedirectLogin:
		m.history.Navigate(d)
		var cmds []tea.Cmd
		if !d.Notice.IsZero() {
			cmds = append(cmds, m.notice(d.Notice))
		}
		return tea.Batch(append(cmds, m.enter(m.Route()))...)
	case guard.Deny:
		m.denied = true
		from := m.Route()
		return tea.Batch(
			m.notice(d.Notice),
			tea.Tick(d.Delay, func(time.Time) tea.Msg { return redirectMsg{from: from, decision: d} }),
		)
	default:
		m.denied = false
		return m.enter(m.Route())
	}
}

func (m *Model) back() tea.Cmd {
	if _, ok := m.history.Back(); !ok {
		return nil
	}
	return m.apply(m.deps.Guard.Check(m.Route(), m.token()))
}

// enter prepares the view for route.
func (m *Model) enter(route guard.Route) tea.Cmd {
	m.searching = false
	m.search.Blur()
	switch route {
	case guard.Catalog:
		if m.courses == nil && !m.loading {
			m.loading = true
			return m.fetchCourses()
		}
	case guard.Favorites:
		return m.fetchFavorites()
	case guard.Admin:
		m.adminMode = adminBrowse
		return m.fetchAdmin()
	case guard.Login:
		m.authForm = loginForm()
	case guard.Register:
		m.authForm = registerForm()
	}
	return nil
}

func (m *Model) token() string {
	return m.deps.Session.Current().Token
}

// notice shows n and schedules its dismissal.
func (m *Model) notice(n notify.Notice) tea.Cmd {
	shown := m.board.Show(n)
	if shown.TTL <= 0 {
		return nil
	}
	return tea.Tick(shown.TTL, func(time.Time) tea.Msg { return dismissMsg{id: shown.ID} })
}

// Notice returns the notice on display.
func (m *Model) Notice() notify.Notice {
	return m.board.Current()
}

func (m *Model) refilter() {
	m.visible = catalog.ComputeVisible(m.courses, m.filter)
	m.cursor = clamp(m.cursor, len(m.visible))
}

// Visible returns the catalog as currently filtered.
func (m *Model) Visible() []models.Course {
	return m.visible
}

func (m *Model) handleSearchKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEnter:
		m.searching = false
		m.search.Blur()
		return m.searchCourses(m.search.Value())
	case tea.KeyEsc:
		m.searching = false
		m.search.Blur()
		return nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.filter.Query = m.search.Value()
	m.refilter()
	return cmd
}

func (m *Model) handleCatalogKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.up):
		m.cursor = clamp(m.cursor-1, len(m.visible))
	case key.Matches(msg, m.keys.down):
		m.cursor = clamp(m.cursor+1, len(m.visible))
	case key.Matches(msg, m.keys.search):
		m.searching = true
		return m.search.Focus()
	case key.Matches(msg, m.keys.nextTag):
		m.selectTag(m.nextTag())
	case key.Matches(msg, m.keys.sort):
		m.filter.Sort = m.filter.Sort.Next()
		m.refilter()
	case key.Matches(msg, m.keys.clear):
		m.filter.Clear()
		m.search.SetValue("")
		m.refilter()
	case key.Matches(msg, m.keys.reload):
		m.loading = true
		return m.fetchCourses()
	case key.Matches(msg, m.keys.favorite):
		if c, ok := m.selected(); ok {
			return m.toggleFavorite(c)
		}
	case key.Matches(msg, m.keys.open), key.Matches(msg, m.keys.enter):
		if c, ok := m.selected(); ok {
			return m.openCourse(c)
		}
	}
	return nil
}

func (m *Model) nextTag() string {
	if len(m.tags) == 0 {
		return catalog.AllTag
	}
	i := slices.Index(m.tags, m.filter.ActiveTag)
	return m.tags[(i+1)%len(m.tags)]
}

// selectTag mirrors a chip click: the tag filter is set and the query becomes "#tag".
func (m *Model) selectTag(tag string) {
	m.filter.SelectTag(tag)
	m.search.SetValue(m.filter.Query)
	m.refilter()
}

func (m *Model) selected() (models.Course, bool) {
	if m.cursor < 0 || m.cursor >= len(m.visible) {
		return models.Course{}, false
	}
	return m.visible[m.cursor], true
}

// toggleFavorite starts an add or remove for c. A press while c is submitting is dropped.
func (m *Model) toggleFavorite(c models.Course) tea.Cmd {
	op := m.favs.Toggle(c.Code)
	if !m.favs.Begin(c.Code, op) {
		return nil
	}
	ctx, api, favs := m.ctx, m.deps.Catalog, m.favs
	return func() tea.Msg {
		return favoriteResultMsg{result: favs.Send(ctx, api, op, c)}
	}
}

func (m *Model) openCourse(c models.Course) tea.Cmd {
	link := shared.CourseLink(c.CourseURL, c.Title)
	open := m.deps.Open
	return func() tea.Msg { return openedMsg{err: open(link)} }
}

func (m *Model) handleFavoritesKey(msg tea.KeyMsg) tea.Cmd {
	courses := m.favs.Set().Courses()
	switch {
	case key.Matches(msg, m.keys.up):
		m.favCursor = clamp(m.favCursor-1, len(courses))
	case key.Matches(msg, m.keys.down):
		m.favCursor = clamp(m.favCursor+1, len(courses))
	case key.Matches(msg, m.keys.reload):
		return m.fetchFavorites()
	case key.Matches(msg, m.keys.favorite), key.Matches(msg, m.keys.remove):
		if m.favCursor < len(courses) {
			return m.toggleFavorite(courses[m.favCursor])
		}
	case key.Matches(msg, m.keys.open), key.Matches(msg, m.keys.enter):
		if m.favCursor < len(courses) {
			return m.openCourse(courses[m.favCursor])
		}
	}
	return nil
}

func (m *Model) logout() tea.Cmd {
	if !m.deps.Session.Current().Authenticated() {
		return nil
	}
	if err := m.deps.Session.Logout(); err != nil {
		m.deps.Logger.Error("failed to clear session", "error", err)
	}
	cmd := m.notice(notify.New(notify.Info, "Logged out", notify.InfoTTL))
	if m.Route().Protected() {
		m.history.Replace(guard.Catalog)
		return tea.Batch(cmd, m.enter(guard.Catalog))
	}
	return cmd
}

func (m *Model) toggleTheme() tea.Cmd {
	next := LightTheme
	if m.deps.Session.Theme(m.deps.Theme) == LightTheme {
		next = DarkTheme
	}
	if err := m.deps.Session.SetTheme(next); err != nil {
		return m.notice(notify.New(notify.Error, err.Error(), notify.ErrorTTL))
	}
	m.palette = PaletteFor(next)
	return nil
}

func (m *Model) handleAuthKey(msg tea.KeyMsg) tea.Cmd {
	if msg.Type == tea.KeyEsc {
		m.authForm = nil
		return m.back()
	}
	submitted, cmd := m.authForm.Update(msg)
	if !submitted {
		return cmd
	}

	route, f := m.Route(), m.authForm
	ctx, api := m.ctx, m.deps.Catalog
	return func() tea.Msg {
		var (
			res *services.AuthResult
			err error
		)
		if route == guard.Register {
			res, err = api.Register(ctx, f.Value(0), f.Value(1), f.Value(2))
		} else {
			res, err = api.Login(ctx, f.Value(0), f.Value(1))
		}
		return authDoneMsg{route: route, result: res, err: err}
	}
}

func (m *Model) authDone(msg authDoneMsg) tea.Cmd {
	if msg.err != nil {
		return m.notice(notify.New(notify.Error, services.MessageOf(msg.err), notify.ErrorTTL))
	}
	if err := m.deps.Session.Login(msg.result.Token); err != nil {
		return m.notice(notify.New(notify.Error, err.Error(), notify.ErrorTTL))
	}

	name := "you"
	if msg.result.User != nil && msg.result.User.Name != "" {
		name = msg.result.User.Name
	}
	text := "Welcome back, " + name
	if msg.route == guard.Register {
		text = "Account created for " + name
	}

	m.authForm = nil
	m.history.Replace(guard.Catalog)
	return tea.Batch(
		m.notice(notify.New(notify.Success, text, notify.SuccessTTL)),
		m.fetchFavorites(),
		m.enter(guard.Catalog),
	)
}

func (m *Model) handleAdminKey(msg tea.KeyMsg) tea.Cmd {
	if m.denied {
		return nil
	}
	switch {
	case key.Matches(msg, m.keys.create):
		m.editing = nil
		m.adminForm = courseForm("New course", admin.Form{})
		m.adminMode = adminEditing
		return nil
	case key.Matches(msg, m.keys.edit):
		if c, ok := m.adminSelected(); ok {
			m.editing = &c
			m.adminForm = courseForm(fmt.Sprintf("Edit course %d", c.Code), admin.FormFromCourse(c))
			m.adminMode = adminEditing
		}
		return nil
	case key.Matches(msg, m.keys.remove):
		if c, ok := m.adminSelected(); ok {
			m.deleting = &c
			m.adminMode = adminConfirming
		}
		return nil
	case key.Matches(msg, m.keys.reload):
		return m.fetchAdmin()
	}

	var cmd tea.Cmd
	m.adminList, cmd = m.adminList.Update(msg)
	return cmd
}

func (m *Model) adminSelected() (models.Course, bool) {
	item, ok := m.adminList.SelectedItem().(courseItem)
	if !ok {
		return models.Course{}, false
	}
	return item.course, true
}

func (m *Model) handleAdminFormKey(msg tea.KeyMsg) tea.Cmd {
	if msg.Type == tea.KeyEsc {
		m.adminMode = adminBrowse
		m.adminForm = nil
		return nil
	}
	submitted, cmd := m.adminForm.Update(msg)
	if !submitted {
		return cmd
	}

	ctx, wf, f, editing := m.ctx, m.admin, m.adminForm.CourseForm(), m.editing
	return func() tea.Msg {
		if editing != nil {
			c, err := wf.Update(ctx, editing.ID, f)
			return adminDoneMsg{op: adminUpdate, course: c, err: err}
		}
		c, err := wf.Create(ctx, f)
		return adminDoneMsg{op: adminCreate, course: c, err: err}
	}
}

func (m *Model) handleConfirmKey(msg tea.KeyMsg) tea.Cmd {
	c := m.deleting
	switch {
	case key.Matches(msg, m.keys.yes) && c != nil:
		m.adminMode = adminBrowse
		m.deleting = nil
		ctx, wf := m.ctx, m.admin
		return func() tea.Msg {
			return adminDoneMsg{op: adminDelete, course: c, err: wf.Delete(ctx, *c)}
		}
	case key.Matches(msg, m.keys.no):
		m.adminMode = adminBrowse
		m.deleting = nil
		return m.notice(notify.New(notify.Info, "Delete canceled", notify.InfoTTL))
	}
	return nil
}

func (m *Model) adminDone(msg adminDoneMsg) tea.Cmd {
	if msg.err != nil {
		if errors.Is(msg.err, shared.ErrValidation) {
			return m.notice(notify.New(notify.Error, msg.err.Error(), notify.ErrorTTL))
		}
		return m.adminFailed(msg.err)
	}

	var text string
	switch msg.op {
	case adminCreate:
		text = fmt.Sprintf("Course %d created", msg.course.Code)
	case adminUpdate:
		text = fmt.Sprintf("Course %d updated", msg.course.Code)
	case adminDelete:
		text = fmt.Sprintf("Course %d deleted", msg.course.Code)
	}
	m.adminMode = adminBrowse
	m.adminForm = nil
	m.editing = nil
	// Catalog changed; the next visit refetches it.
	m.courses = nil
	return tea.Batch(m.notice(notify.New(notify.Success, text, notify.SuccessTTL)), m.fetchAdmin())
}

// adminFailed maps an admin API error to navigation, or a notice when it calls for none.
func (m *Model) adminFailed(err error) tea.Cmd {
	d := m.deps.Guard.OnError(guard.Admin, err)
	if d.Outcome != guard.Allow {
		return m.apply(d)
	}
	return m.notice(notify.New(notify.Error, services.MessageOf(err), notify.ErrorTTL))
}

func (m *Model) setAdminCourses(courses []models.Course) {
	m.adminCourses = courses
	m.adminList.SetItems(courseItems(courses))
}

func (m *Model) fetchCourses() tea.Cmd {
	ctx, api := m.ctx, m.deps.Catalog
	return func() tea.Msg {
		courses, err := api.Courses(ctx)
		return coursesLoadedMsg{courses: courses, err: err}
	}
}

// searchCourses refetches the catalog from the search endpoint. A blank query reloads the full
// list; #tag queries match locally.
func (m *Model) searchCourses(query string) tea.Cmd {
	q := strings.TrimSpace(query)
	if strings.HasPrefix(q, "#") {
		return nil
	}
	m.loading = true
	if q == "" {
		return m.fetchCourses()
	}
	ctx, api := m.ctx, m.deps.Catalog
	return func() tea.Msg {
		courses, err := api.Search(ctx, q)
		return coursesLoadedMsg{courses: courses, err: err}
	}
}

// fetchFavorites loads the server favorites. The set itself is replaced in Update.
func (m *Model) fetchFavorites() tea.Cmd {
	cur := m.deps.Session.Current()
	if !cur.Authenticated() {
		return nil
	}
	ctx, api, token := m.ctx, m.deps.Catalog, cur.Token
	return func() tea.Msg {
		courses, err := api.Favourites(ctx)
		return favoritesLoadedMsg{token: token, courses: courses, err: err}
	}
}

func (m *Model) fetchAdmin() tea.Cmd {
	ctx, wf := m.ctx, m.admin
	return func() tea.Msg {
		courses, err := wf.List(ctx)
		return adminLoadedMsg{courses: courses, err: err}
	}
}

func clamp(i, n int) int {
	if n <= 0 || i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// View renders the UI based on the current route.
func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(m.renderNav())
	b.WriteString("\n\n")

	if n := m.board.Current(); !n.IsZero() {
		b.WriteString(m.palette.Notice(n))
		b.WriteString("\n\n")
	}

	switch m.Route() {
	case guard.Catalog:
		b.WriteString(m.renderCatalog())
	case guard.Favorites:
		b.WriteString(m.renderFavorites())
	case guard.Admin:
		b.WriteString(m.renderAdmin())
	case guard.About:
		b.WriteString(m.renderAbout())
	case guard.Login, guard.Register:
		if m.authForm != nil {
			b.WriteString(m.authForm.View(m.palette))
		}
	}

	b.WriteString("\n")
	b.WriteString(m.renderHelp())
	return b.String()
}
