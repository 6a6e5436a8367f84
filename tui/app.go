package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"venuespace-cli/booking"
	"venuespace-cli/model"
	"venuespace-cli/service"
	"venuespace-cli/session"
)

type route int

const (
	routeHome route = iota
	routeCatalog
	routeVenue
	routeAuth
	routeBooking
	routeBookingStatus
	routeHostDashboard
	routeFormHost
	routeNotFound
)

func (r route) String() string {
	switch r {
	case routeHome:
		return "Home"
	case routeCatalog:
		return "Catalog"
	case routeVenue:
		return "Venue"
	case routeAuth:
		return "Sign in"
	case routeBooking:
		return "Booking"
	case routeBookingStatus:
		return "Booking status"
	case routeHostDashboard:
		return "Host dashboard"
	case routeFormHost:
		return "List your venue"
	default:
		return "Not found"
	}
}

// Deps are the services the app shell hands to its screens.
type Deps struct {
	Client    *service.Client
	Session   *session.Manager
	Log       *logrus.Logger
	Windows   booking.Windows
	Gateways  booking.Gateways
	Audit     booking.AuditSink
	Scheduler booking.Scheduler
	City      string
	Now       func() time.Time
}

type appModel struct {
	deps Deps

	route   route
	path    string
	venueID int
	err     error

	width  int
	height int

	home     homeState
	catalog  catalogState
	detail   detailState
	form     bookingState
	status   statusState
	host     hostState
	hostForm hostFormState
	auth     authState

	startPath string
	spinner   spinner.Model
}

type errMsg struct {
	err error
}

type featuredMsg struct {
	venues []model.Venue
	err    error
}

type venuesMsg struct {
	venues []model.Venue
	err    error
}

type venueMsg struct {
	id    int
	venue model.Venue
	err   error
}

type dashboardMsg struct {
	dashboard service.Dashboard
	err       error
}

// New builds the app shell. startPath is the route opened first; empty
// means home.
func New(deps Deps, startPath string) tea.Model {
	if deps.Client == nil {
		deps.Client = service.NewClient()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Log == nil {
		deps.Log = logrus.New()
		deps.Log.SetLevel(logrus.PanicLevel)
	}
	if strings.TrimSpace(startPath) == "" {
		startPath = "/"
	}

	m := appModel{
		deps:      deps,
		route:     routeHome,
		path:      "/",
		startPath: startPath,
	}
	m.home = newHomeState()
	m.catalog = newCatalogState(deps.City)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
	m.spinner = sp

	return m
}

func (m appModel) Init() tea.Cmd {
	return func() tea.Msg {
		return navigateMsg{path: m.startPath}
	}
}

type navigateMsg struct {
	path    string
	payload any
}

func navigateCmd(path string, payload any) tea.Cmd {
	return func() tea.Msg {
		return navigateMsg{path: path, payload: payload}
	}
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeLists()
		return m, nil

	case navigateMsg:
		return m.navigate(msg.path, msg.payload)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.stopRunner()
			return m, tea.Quit
		}
		if msg.String() == "esc" {
			if m.err != nil {
				m.err = nil
				return m, nil
			}
			return m.goBack()
		}
		next, cmd, handled := m.handleKey(msg)
		if handled {
			return next, cmd
		}
		m = next.(appModel)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.isLoading() {
			return m, cmd
		}
		return m, nil

	case errMsg:
		m.err = msg.err
		return m, nil

	case featuredMsg:
		if msg.err != nil {
			return m, errCmd(msg.err)
		}
		m.home.setFeatured(msg.venues)
		return m, nil

	case venuesMsg:
		m.catalog.loading = false
		if msg.err != nil {
			return m, errCmd(msg.err)
		}
		m.catalog.setVenues(msg.venues)
		return m, nil

	case venueMsg:
		// the user may have left the page before the fetch returned
		if m.route != routeVenue || m.venueID != msg.id {
			return m, nil
		}
		if msg.err != nil {
			if service.IsNotFound(msg.err) {
				m.route = routeNotFound
				return m, nil
			}
			return m, errCmd(msg.err)
		}
		m.detail = newDetailState(msg.venue, m.deps.Now())
		if err := rememberVenue(msg.venue); err != nil {
			m.deps.Log.WithError(err).Debug("could not remember venue")
		}
		return m, nil

	case dashboardMsg:
		if msg.err != nil {
			return m, errCmd(msg.err)
		}
		m.host.dashboard = msg.dashboard
		m.host.loaded = true
		return m, nil

	case recordMsg:
		return m.handleRecord(msg)

	case payMsg:
		return m.handlePay(msg)
	}

	var cmd tea.Cmd
	switch m.route {
	case routeHome:
		m.home.list, cmd = m.home.list.Update(msg)
	case routeCatalog:
		m.catalog.list, cmd = m.catalog.list.Update(msg)
	case routeBooking:
		cmd = m.form.updateInputs(msg)
	case routeFormHost:
		cmd = m.hostForm.updateInputs(msg)
	case routeAuth:
		cmd = m.auth.updateInputs(msg)
	}
	return m, cmd
}

func (m appModel) View() string {
	header := m.headerView()
	var body string
	switch m.route {
	case routeHome:
		body = m.homeView()
	case routeCatalog:
		body = m.catalogView()
	case routeVenue:
		body = m.detailView()
	case routeBooking:
		body = m.bookingView()
	case routeBookingStatus:
		body = m.statusView()
	case routeHostDashboard:
		body = m.hostView()
	case routeFormHost:
		body = m.hostFormView()
	case routeAuth:
		body = m.authView()
	default:
		body = m.notFoundView()
	}
	view := header + "\n\n" + body
	if m.err != nil {
		view += "\n\n" + errorStyle.Render(m.err.Error()) + "\n" + hint("esc dismiss")
	}
	return view
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	accentStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	chipStyle   = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("63")).
			Padding(0, 1)
	panelStyle = lipgloss.NewStyle().
			Padding(1, 3).
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("63"))
)

func (m appModel) headerView() string {
	title := titleStyle.Render("VenueSpace")
	sub := []string{m.route.String()}
	if m.path != "" && m.path != "/" {
		sub = append(sub, m.path)
	}
	if user, ok := m.currentUser(); ok {
		sub = append(sub, fmt.Sprintf("%s (%s)", user.Name, user.Role))
	} else {
		sub = append(sub, "not signed in")
	}
	meta := lipgloss.NewStyle().Faint(true).Render(strings.Join(sub, " • "))
	return title + "  " + meta + "\n" + hint(m.hints())
}

func (m appModel) hints() string {
	switch m.route {
	case routeHome:
		return "ctrl+c quit • enter open venue • c catalog • a sign in • h host dashboard"
	case routeCatalog:
		return "ctrl+c quit • esc back • type to search • ctrl+t city • ctrl+g capacity • ctrl+p price • ctrl+s sort • ctrl+r reset • enter open"
	case routeVenue:
		return "ctrl+c quit • esc back • tab field • ←/→ choose • [ ] photos • enter continue"
	case routeBooking:
		if m.form.form != nil && m.form.form.Step == booking.LastStep {
			return "ctrl+c quit • esc back • ↑/↓ move • ctrl+b previous • ctrl+s submit"
		}
		return "ctrl+c quit • esc back • ↑/↓ move • space pick • ctrl+n next • ctrl+b previous"
	case routeBookingStatus:
		return "ctrl+c quit • esc leave • r resubmit • c cancel • p pay"
	case routeHostDashboard:
		return "ctrl+c quit • esc back • tab switch tab • p period • n new venue"
	case routeFormHost:
		return "ctrl+c quit • esc back • tab next field • ctrl+s save"
	case routeAuth:
		return "ctrl+c quit • esc back • tab next field • ←/→ role • enter sign in • ctrl+l sign out"
	default:
		return "ctrl+c quit • enter home"
	}
}

func (m appModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	switch m.route {
	case routeHome:
		return m.handleHomeKey(msg)
	case routeCatalog:
		return m.handleCatalogKey(msg)
	case routeVenue:
		return m.handleDetailKey(msg)
	case routeBooking:
		return m.handleBookingKey(msg)
	case routeBookingStatus:
		return m.handleStatusKey(msg)
	case routeHostDashboard:
		return m.handleHostKey(msg)
	case routeFormHost:
		return m.handleHostFormKey(msg)
	case routeAuth:
		return m.handleAuthKey(msg)
	case routeNotFound:
		switch msg.String() {
		case "enter":
			return m, navigateCmd("/", nil), true
		case "q":
			return m, tea.Quit, true
		}
	}
	return m, nil, false
}

// resolveRoute maps a path and its payload to the screen that renders it.
// /booking and /booking-status without their payload fall back to the
// catalog.
func resolveRoute(path string, payload any) (route, string, int) {
	path = strings.TrimSpace(path)
	if path == "" {
		path = "/"
	}
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}

	switch {
	case path == "/":
		return routeHome, path, 0
	case path == "/catalog":
		return routeCatalog, path, 0
	case strings.HasPrefix(path, "/venue/"):
		id, err := strconv.Atoi(strings.TrimPrefix(path, "/venue/"))
		if err != nil || id <= 0 {
			return routeNotFound, path, 0
		}
		return routeVenue, path, id
	case path == "/auth":
		return routeAuth, path, 0
	case path == "/booking":
		sel, ok := payload.(model.Selection)
		if !ok || !sel.Complete() {
			return routeCatalog, "/catalog", 0
		}
		return routeBooking, path, 0
	case path == "/booking-status":
		sub, ok := payload.(model.Submission)
		if !ok || sub.BookingId == "" {
			return routeCatalog, "/catalog", 0
		}
		return routeBookingStatus, path, 0
	case path == "/host-dashboard":
		return routeHostDashboard, path, 0
	case path == "/form-host":
		return routeFormHost, path, 0
	default:
		return routeNotFound, path, 0
	}
}

func (m appModel) navigate(path string, payload any) (tea.Model, tea.Cmd) {
	target, canonical, venueID := resolveRoute(path, payload)

	if m.route == routeBookingStatus && target != routeBookingStatus {
		m.stopRunner()
	}
	m.err = nil
	m.route = target
	m.path = canonical
	m.venueID = venueID

	switch target {
	case routeHome:
		return m, m.fetchFeaturedCmd()
	case routeCatalog:
		m.catalog.loading = true
		m.catalog.loadRecent()
		return m, tea.Batch(m.fetchVenuesCmd(), m.spinner.Tick)
	case routeVenue:
		m.detail = detailState{loading: true}
		return m, tea.Batch(m.fetchVenueCmd(venueID), m.spinner.Tick)
	case routeBooking:
		sel := payload.(model.Selection)
		form := booking.NewForm(sel, m.deps.Client.HostQuestions(), m.deps.Client.AddOns())
		m.form = newBookingState(form, m.deps.Client.EventTypes())
		return m, nil
	case routeBookingStatus:
		m.stopRunner()
		return m.startStatus(payload.(model.Submission))
	case routeHostDashboard:
		m.host.loaded = false
		return m, tea.Batch(m.fetchDashboardCmd(), m.spinner.Tick)
	case routeFormHost:
		m.hostForm = newHostFormState()
		return m, m.hostForm.focusCmd()
	case routeAuth:
		user, _ := m.currentUser()
		m.auth = newAuthState(user)
		return m, m.auth.focusCmd()
	}
	return m, nil
}

func (m appModel) goBack() (tea.Model, tea.Cmd) {
	switch m.route {
	case routeCatalog, routeAuth, routeHostDashboard, routeNotFound:
		return m.navigate("/", nil)
	case routeVenue, routeBookingStatus:
		return m.navigate("/catalog", nil)
	case routeBooking:
		if m.form.form != nil {
			return m.navigate(fmt.Sprintf("/venue/%d", m.form.form.Selection.Venue.Id), nil)
		}
		return m.navigate("/catalog", nil)
	case routeFormHost:
		return m.navigate("/host-dashboard", nil)
	}
	return m, nil
}

func (m appModel) currentUser() (model.User, bool) {
	if m.deps.Session == nil {
		return model.User{}, false
	}
	return m.deps.Session.CurrentUser()
}

func (m appModel) isLoading() bool {
	switch m.route {
	case routeCatalog:
		return m.catalog.loading
	case routeVenue:
		return m.detail.loading
	case routeHostDashboard:
		return !m.host.loaded
	}
	return false
}

func (m appModel) loadingView(title string) string {
	return fmt.Sprintf("%s %s\n\n%s", m.spinner.View(), title, hint("Fetching data..."))
}

func (m appModel) notFoundView() string {
	content := strings.Join([]string{
		chipStyle.Render("404"),
		"",
		accentStyle.Render("Page not found"),
		"",
		hint(fmt.Sprintf("Nothing lives at %s.", m.path)),
		"",
		hint("Press ENTER to go home."),
	}, "\n")
	return m.centered(panelStyle.Render(content))
}

func (m appModel) centered(panel string) string {
	if m.width > 0 {
		return lipgloss.PlaceHorizontal(m.width, lipgloss.Center, panel)
	}
	return panel
}

func (m *appModel) resizeLists() {
	if m.width == 0 || m.height == 0 {
		return
	}
	h := m.height - 10
	if h < 6 {
		h = 6
	}
	m.home.list.SetSize(m.width, h)
	m.catalog.list.SetSize(m.width, h)
}

func (m appModel) fetchFeaturedCmd() tea.Cmd {
	return func() tea.Msg {
		venues, err := m.deps.Client.Featured(context.Background(), 3)
		return featuredMsg{venues: venues, err: err}
	}
}

func (m appModel) fetchVenuesCmd() tea.Cmd {
	return func() tea.Msg {
		venues, err := m.deps.Client.GetVenues(context.Background())
		return venuesMsg{venues: venues, err: err}
	}
}

func (m appModel) fetchVenueCmd(id int) tea.Cmd {
	return func() tea.Msg {
		venue, err := m.deps.Client.GetVenue(context.Background(), id)
		return venueMsg{id: id, venue: venue, err: err}
	}
}

func (m appModel) fetchDashboardCmd() tea.Cmd {
	return func() tea.Msg {
		dash, err := m.deps.Client.GetDashboard(context.Background())
		return dashboardMsg{dashboard: dash, err: err}
	}
}

func newList(title string) list.Model {
	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = true
	l := list.New([]list.Item{}, delegate, 0, 0)
	l.Title = title
	l.SetFilteringEnabled(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	return l
}

func hint(text string) string {
	return lipgloss.NewStyle().Faint(true).Render(text)
}

func errCmd(err error) tea.Cmd {
	return func() tea.Msg {
		return errMsg{err: err}
	}
}

func trimLastRune(value string) string {
	runes := []rune(value)
	if len(runes) <= 1 {
		return ""
	}
	return string(runes[:len(runes)-1])
}
