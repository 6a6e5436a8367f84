package tui

import (
	"io"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"venuespace-cli/booking"
	"venuespace-cli/model"
	"venuespace-cli/service"
	"venuespace-cli/session"
	"venuespace-cli/store"
)

var testNow = time.Date(2026, time.January, 5, 9, 0, 0, 0, time.UTC)

func setTestDirs(t *testing.T) {
	t.Helper()
	root := t.TempDir()
	t.Setenv("HOME", root)
	t.Setenv("XDG_CONFIG_HOME", root)
	t.Setenv("XDG_CACHE_HOME", root)
}

func newTestModel(t *testing.T) appModel {
	t.Helper()
	setTestDirs(t)
	log := logrus.New()
	log.SetOutput(io.Discard)
	m := New(Deps{
		Client:  service.NewClient(),
		Session: session.NewManager(nil, log),
		Log:     log,
		Windows: booking.Windows{Confirmation: time.Minute, Handoff: time.Second, Payment: time.Minute, Tick: time.Second},
		Gateways: booking.Gateways{
			Host: booking.NewSimulatedHost(time.Hour),
		},
		Now: func() time.Time { return testNow },
	}, "").(appModel)
	return m
}

func update(t *testing.T, m appModel, msg tea.Msg) (appModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	am, ok := next.(appModel)
	if !ok {
		t.Fatalf("expected appModel, got %T", next)
	}
	return am, cmd
}

func key(k tea.KeyType) tea.KeyMsg { return tea.KeyMsg{Type: k} }

func typed(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

// follow runs cmd and feeds its message back into the model.
func follow(t *testing.T, m appModel, cmd tea.Cmd) appModel {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	m, _ = update(t, m, cmd())
	return m
}

func navigated(t *testing.T, m appModel, path string, payload any) appModel {
	t.Helper()
	next, _ := m.navigate(path, payload)
	return next.(appModel)
}

func TestHandleSearchInput_AppendsRunes(t *testing.T) {
	c := newCatalogState("")

	if !c.handleSearchInput(typed("s")) {
		t.Fatal("expected search input to be handled")
	}
	if !c.handleSearchInput(typed("k")) {
		t.Fatal("expected search input to be handled")
	}
	if c.filter.Search != "sk" {
		t.Fatalf("expected search to be %q, got %q", "sk", c.filter.Search)
	}
}

func TestHandleSearchInput_Backspace(t *testing.T) {
	c := newCatalogState("")
	_ = c.handleSearchInput(typed("s"))
	_ = c.handleSearchInput(typed("k"))

	if !c.handleSearchInput(key(tea.KeyBackspace)) {
		t.Fatal("expected backspace to be handled")
	}
	if c.filter.Search != "s" {
		t.Fatalf("expected search to be %q, got %q", "s", c.filter.Search)
	}

	_ = c.handleSearchInput(key(tea.KeyBackspace))
	if c.handleSearchInput(key(tea.KeyBackspace)) {
		t.Fatal("expected backspace on empty search to fall through")
	}
}

func TestHandleSearchInput_Space(t *testing.T) {
	c := newCatalogState("")
	_ = c.handleSearchInput(typed("sky"))
	if !c.handleSearchInput(key(tea.KeySpace)) {
		t.Fatal("expected space to be handled")
	}
	_ = c.handleSearchInput(typed("lounge"))
	if c.filter.Search != "sky lounge" {
		t.Fatalf("expected search to be %q, got %q", "sky lounge", c.filter.Search)
	}
}

func TestNewCatalogState_PresetCity(t *testing.T) {
	if got := newCatalogState("bandung").filter.City; got != "Bandung" {
		t.Fatalf("expected city Bandung, got %q", got)
	}
	if got := newCatalogState("Atlantis").filter.City; got != "" {
		t.Fatalf("expected unknown city to be ignored, got %q", got)
	}
}

func TestResolveRoute(t *testing.T) {
	venue := model.Venue{Id: 1}
	complete := model.Selection{Venue: venue, Date: testNow, Time: "09:00", Duration: model.DurationOption{Hours: 2}}

	cases := []struct {
		name    string
		path    string
		payload any
		want    route
		path2   string
		venueID int
	}{
		{"empty is home", "", nil, routeHome, "/", 0},
		{"home", "/", nil, routeHome, "/", 0},
		{"catalog trailing slash", "/catalog/", nil, routeCatalog, "/catalog", 0},
		{"venue", "/venue/3", nil, routeVenue, "/venue/3", 3},
		{"venue bad id", "/venue/abc", nil, routeNotFound, "/venue/abc", 0},
		{"venue zero id", "/venue/0", nil, routeNotFound, "/venue/0", 0},
		{"auth", "/auth", nil, routeAuth, "/auth", 0},
		{"booking", "/booking", complete, routeBooking, "/booking", 0},
		{"booking no payload", "/booking", nil, routeCatalog, "/catalog", 0},
		{"booking partial", "/booking", model.Selection{Venue: venue, Time: "09:00"}, routeCatalog, "/catalog", 0},
		{"status", "/booking-status", model.Submission{BookingId: "BK000001"}, routeBookingStatus, "/booking-status", 0},
		{"status no payload", "/booking-status", complete, routeCatalog, "/catalog", 0},
		{"dashboard", "/host-dashboard", nil, routeHostDashboard, "/host-dashboard", 0},
		{"form host", "/form-host", nil, routeFormHost, "/form-host", 0},
		{"unknown", "/nowhere", nil, routeNotFound, "/nowhere", 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, path, id := resolveRoute(tc.path, tc.payload)
			if got != tc.want || path != tc.path2 || id != tc.venueID {
				t.Fatalf("resolveRoute(%q) = %v %q %d, want %v %q %d", tc.path, got, path, id, tc.want, tc.path2, tc.venueID)
			}
		})
	}
}

func TestNavigate_BookingWithoutSelectionRedirects(t *testing.T) {
	m := newTestModel(t)
	m = navigated(t, m, "/booking", nil)
	if m.route != routeCatalog {
		t.Fatalf("expected catalog, got %v", m.route)
	}
	if m.err != nil {
		t.Fatalf("expected silent redirect, got %v", m.err)
	}
}

func TestNavigate_UnknownVenueShowsNotFound(t *testing.T) {
	m := newTestModel(t)
	m = navigated(t, m, "/venue/999", nil)
	if m.route != routeVenue {
		t.Fatalf("expected venue route while loading, got %v", m.route)
	}
	m, _ = update(t, m, m.fetchVenueCmd(999)())
	if m.route != routeNotFound {
		t.Fatalf("expected not found, got %v", m.route)
	}

	m, cmd := update(t, m, key(tea.KeyEnter))
	m = follow(t, m, cmd)
	if m.route != routeHome {
		t.Fatalf("expected enter to go home, got %v", m.route)
	}
}

func TestVenueDetail_IgnoresFetchAfterLeaving(t *testing.T) {
	m := newTestModel(t)
	m = navigated(t, m, "/venue/999", nil)
	stale := m.fetchVenueCmd(999)()

	m = navigated(t, m, "/catalog", nil)
	m, cmd := update(t, m, stale)
	if m.route != routeCatalog || cmd != nil {
		t.Fatalf("expected catalog to stay put, got %v", m.route)
	}

	m = navigated(t, m, "/venue/2", nil)
	m, _ = update(t, m, m.fetchVenueCmd(1)())
	if !m.detail.loading {
		t.Fatal("expected a result for another venue to be ignored")
	}
	recent, err := store.LoadRecentVenues()
	if err != nil {
		t.Fatalf("load recent: %v", err)
	}
	if len(recent) != 0 {
		t.Fatalf("expected nothing remembered, got %+v", recent)
	}
}

func TestVenueDetail_RemembersVenue(t *testing.T) {
	m := newTestModel(t)
	m = navigated(t, m, "/venue/1", nil)
	m, _ = update(t, m, m.fetchVenueCmd(1)())
	if m.detail.venue.Id != 1 || m.detail.loading {
		t.Fatalf("expected venue 1 loaded, got %+v", m.detail.venue.Id)
	}

	recent, err := store.LoadRecentVenues()
	if err != nil {
		t.Fatalf("load recent: %v", err)
	}
	if len(recent) != 1 || recent[0].ID != 1 {
		t.Fatalf("expected venue 1 in recent venues, got %+v", recent)
	}
}

func TestVenueDetail_ContinueNeedsAllPickers(t *testing.T) {
	m := newTestModel(t)
	m.route = routeVenue
	v, err := m.deps.Client.GetVenue(t.Context(), 1)
	if err != nil {
		t.Fatalf("get venue: %v", err)
	}
	m.detail = newDetailState(v, testNow)

	m, cmd := update(t, m, key(tea.KeyEnter))
	if cmd != nil || m.detail.notice == "" {
		t.Fatal("expected enter to be blocked with no picks")
	}

	// date and time only
	m, _ = update(t, m, key(tea.KeyRight))
	m, _ = update(t, m, key(tea.KeyTab))
	m, _ = update(t, m, key(tea.KeyRight))
	m, cmd = update(t, m, key(tea.KeyEnter))
	if cmd != nil {
		t.Fatal("expected enter to be blocked without a duration")
	}

	m, _ = update(t, m, key(tea.KeyTab))
	m, _ = update(t, m, key(tea.KeyRight))
	if !m.detail.canContinue() {
		t.Fatal("expected all pickers set")
	}
	m, cmd = update(t, m, key(tea.KeyEnter))
	m = follow(t, m, cmd)
	if m.route != routeBooking {
		t.Fatalf("expected booking route, got %v", m.route)
	}
	sel := m.form.form.Selection
	if !service.IsSameDay(sel.Date, testNow) || sel.Time != v.AvailableTimes[0] || sel.Duration != v.Durations[0] {
		t.Fatalf("unexpected selection %+v", sel)
	}
}

func TestVenueDetail_GalleryWraps(t *testing.T) {
	d := newDetailState(model.Venue{Id: 1, Images: []string{"a", "b"}}, testNow)
	m := newTestModel(t)
	m.route = routeVenue
	m.detail = d

	m, _ = update(t, m, typed("["))
	if m.detail.image != 1 {
		t.Fatalf("expected to wrap to last image, got %d", m.detail.image)
	}
	m, _ = update(t, m, typed("]"))
	if m.detail.image != 0 {
		t.Fatalf("expected to wrap to first image, got %d", m.detail.image)
	}
}

func TestCatalog_FiltersAndReset(t *testing.T) {
	m := newTestModel(t)
	m = navigated(t, m, "/catalog", nil)
	m, _ = update(t, m, m.fetchVenuesCmd()())
	total := len(m.catalog.list.Items())
	if total == 0 {
		t.Fatal("expected venues in the catalog")
	}

	for _, r := range "garden" {
		m, _ = update(t, m, typed(string(r)))
	}
	if got := len(m.catalog.list.Items()); got != 1 {
		t.Fatalf("expected 1 match for garden, got %d", got)
	}

	for _, r := range "zzz" {
		m, _ = update(t, m, typed(string(r)))
	}
	if got := len(m.catalog.list.Items()); got != 0 {
		t.Fatalf("expected empty state, got %d items", got)
	}

	m, _ = update(t, m, key(tea.KeyCtrlT))
	if m.catalog.filter.City != service.Cities[0] {
		t.Fatalf("expected city %q, got %q", service.Cities[0], m.catalog.filter.City)
	}
	m, _ = update(t, m, key(tea.KeyCtrlS))
	if m.catalog.filter.Sort != service.SortPriceAsc {
		t.Fatalf("expected sort to advance, got %q", m.catalog.filter.Sort)
	}

	m, _ = update(t, m, key(tea.KeyCtrlR))
	if m.catalog.filter.Active() {
		t.Fatalf("expected filters cleared, got %+v", m.catalog.filter)
	}
	if m.catalog.filter.Sort != service.SortPriceAsc {
		t.Fatal("expected reset to keep the sort label")
	}
	if got := len(m.catalog.list.Items()); got != total {
		t.Fatalf("expected %d venues after reset, got %d", total, got)
	}
}

func bookingSelection(t *testing.T, m appModel) model.Selection {
	t.Helper()
	v, err := m.deps.Client.GetVenue(t.Context(), 1)
	if err != nil {
		t.Fatalf("get venue: %v", err)
	}
	return model.Selection{Venue: v, Date: testNow, Time: "09:00", Duration: v.Durations[0]}
}

func TestBooking_SubmitStartsStatus(t *testing.T) {
	m := newTestModel(t)
	m = navigated(t, m, "/booking", bookingSelection(t, m))
	if m.route != routeBooking {
		t.Fatalf("expected booking route, got %v", m.route)
	}

	m, cmd := update(t, m, key(tea.KeyCtrlS))
	if cmd != nil || m.route != routeBooking || m.form.err != nil {
		t.Fatal("expected submit to be unavailable before the last step")
	}

	f := m.form.form
	f.SetAnswer("purpose", "Seminar")
	f.SetAnswer("catering", "Tidak")
	f.SetAnswer("setup", "Theatre")

	m, _ = update(t, m, key(tea.KeyCtrlN))
	m, _ = update(t, m, key(tea.KeySpace))
	if !f.HasAddOn("projector") {
		t.Fatal("expected projector add-on toggled")
	}

	m, _ = update(t, m, key(tea.KeyCtrlN))
	m, cmd = update(t, m, key(tea.KeyCtrlS))
	if m.form.err == nil {
		t.Fatal("expected validation error without contact details")
	}
	if cmd != nil || m.route != routeBooking {
		t.Fatal("expected no navigation on a validation error")
	}

	for _, r := range "Sari" {
		m, _ = update(t, m, typed(string(r)))
	}
	m, _ = update(t, m, key(tea.KeyDown))
	m, _ = update(t, m, key(tea.KeyRight))
	m, _ = update(t, m, key(tea.KeyDown))
	m, _ = update(t, m, typed("25"))

	m, cmd = update(t, m, key(tea.KeyCtrlS))
	if m.form.err != nil {
		t.Fatalf("unexpected validation error: %v", m.form.err)
	}
	m = follow(t, m, cmd)
	if m.route != routeBookingStatus {
		t.Fatalf("expected status route, got %v", m.route)
	}
	t.Cleanup(m.status.runner.Stop)
	sub := m.status.sub
	if sub.Draft.Name != "Sari" || sub.Draft.Attendees != 25 || sub.Draft.EventType != m.deps.Client.EventTypes()[0] {
		t.Fatalf("unexpected draft %+v", sub.Draft)
	}
	if m.status.record.Status != booking.StatusPending {
		t.Fatalf("expected pending, got %s", m.status.record.Status)
	}
}

func TestBooking_SubmitOnlyFromLastStep(t *testing.T) {
	m := newTestModel(t)
	m = navigated(t, m, "/booking", bookingSelection(t, m))
	f := m.form.form
	f.SetAnswer("purpose", "Seminar")
	f.SetAnswer("catering", "Tidak")
	f.SetAnswer("setup", "Theatre")
	m.form.name.SetValue("Sari")
	m.form.attendees.SetValue("20")
	m.form.eventType = 0

	m, _ = update(t, m, key(tea.KeyCtrlN))
	m, _ = update(t, m, key(tea.KeyCtrlN))
	m, _ = update(t, m, key(tea.KeyCtrlB))
	m, _ = update(t, m, key(tea.KeyCtrlB))
	if m.form.form.Step != booking.FirstStep {
		t.Fatalf("expected step 1, got %d", m.form.form.Step)
	}

	m, cmd := update(t, m, key(tea.KeyCtrlS))
	if cmd != nil || m.route != routeBooking {
		t.Fatal("expected ctrl+s on step 1 to do nothing")
	}
}

func TestBookingStatus_LeavingStopsRunner(t *testing.T) {
	m := newTestModel(t)
	sub := model.Submission{BookingId: "BK00000A", Selection: bookingSelection(t, m)}
	m = navigated(t, m, "/booking-status", sub)
	runner := m.status.runner
	if runner == nil {
		t.Fatal("expected a runner")
	}

	m, _ = update(t, m, typed("c"))
	if m.status.err != nil {
		t.Fatalf("cancel: %v", m.status.err)
	}
	if got := runner.Snapshot().Status; got != booking.StatusCancelled {
		t.Fatalf("expected cancelled, got %s", got)
	}

	m, cmd := update(t, m, key(tea.KeyEsc))
	_ = follow(t, m, cmd)

	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-runner.Updates():
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("expected updates channel to close after leaving")
		}
	}
}

func TestBookingStatus_IgnoresRecordsFromOldRunner(t *testing.T) {
	m := newTestModel(t)
	sub := model.Submission{BookingId: "BK00000B", Selection: bookingSelection(t, m)}
	m = navigated(t, m, "/booking-status", sub)
	t.Cleanup(m.status.runner.Stop)

	stale := booking.NewRunner(sub, booking.Options{})
	m, cmd := update(t, m, recordMsg{runner: stale, record: booking.Record{Status: booking.StatusExpired}})
	if cmd != nil || m.status.record.Status != booking.StatusPending {
		t.Fatalf("expected stale record to be dropped, got %s", m.status.record.Status)
	}
}

func TestHostForm_SavesVenue(t *testing.T) {
	m := newTestModel(t)
	m = navigated(t, m, "/form-host", nil)
	values := []string{"Rooftop 9", "Bandung", "20-50 orang", "Rp 1.250.000"}
	for i, v := range values {
		m, _ = update(t, m, typed(v))
		if i < len(values)-1 {
			m, _ = update(t, m, key(tea.KeyTab))
		}
	}
	m, cmd := update(t, m, key(tea.KeyEnter))
	if m.hostForm.err != nil {
		t.Fatalf("save: %v", m.hostForm.err)
	}
	m = follow(t, m, cmd)
	if m.route != routeHostDashboard {
		t.Fatalf("expected dashboard, got %v", m.route)
	}

	saved, err := store.LoadHostVenues()
	if err != nil {
		t.Fatalf("load host venues: %v", err)
	}
	if len(saved) != 1 || saved[0].Name != "Rooftop 9" {
		t.Fatalf("expected saved venue, got %+v", saved)
	}
	if saved[0].Price != 1250000 || saved[0].Capacity != "20-50 orang" {
		t.Fatalf("expected price and capacity kept, got %+v", saved[0])
	}
}

func TestParsePrice(t *testing.T) {
	cases := map[string]int64{
		"1500000":      1500000,
		"1.500.000":    1500000,
		"Rp 2.000.000": 2000000,
		"  750000 ":    750000,
		"free":         0,
		"-5":           0,
		"":             0,
	}
	for in, want := range cases {
		if got := parsePrice(in); got != want {
			t.Fatalf("parsePrice(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestAuth_LoginAndLogout(t *testing.T) {
	m := newTestModel(t)
	m = navigated(t, m, "/auth", nil)

	m, _ = update(t, m, typed("Sari"))
	m, _ = update(t, m, key(tea.KeyTab))
	m, _ = update(t, m, typed("sari@example.com"))
	m, _ = update(t, m, key(tea.KeyTab))
	m, _ = update(t, m, key(tea.KeyRight))
	m, cmd := update(t, m, key(tea.KeyEnter))
	if m.auth.err != nil {
		t.Fatalf("login: %v", m.auth.err)
	}
	m = follow(t, m, cmd)
	if m.route != routeHostDashboard {
		t.Fatalf("expected hosts to land on the dashboard, got %v", m.route)
	}
	user, ok := m.currentUser()
	if !ok || user.Role != model.RoleHost {
		t.Fatalf("expected signed-in host, got %+v", user)
	}

	m = navigated(t, m, "/auth", nil)
	m, _ = update(t, m, key(tea.KeyCtrlL))
	if _, ok := m.currentUser(); ok {
		t.Fatal("expected to be signed out")
	}
}

func TestAuth_InvalidEmail(t *testing.T) {
	m := newTestModel(t)
	m = navigated(t, m, "/auth", nil)
	m, _ = update(t, m, typed("Sari"))
	m, _ = update(t, m, key(tea.KeyTab))
	m, _ = update(t, m, typed("nope"))
	m, _ = update(t, m, key(tea.KeyCtrlS))
	if m.auth.err == nil || m.auth.err.Error() != "email must be a valid email address" {
		t.Fatalf("expected email validation error, got %v", m.auth.err)
	}
}
