package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"venuespace-cli/model"
	"venuespace-cli/service"
	"venuespace-cli/store"
)

type venueItem struct {
	venue  model.Venue
	recent bool
}

func (i venueItem) Title() string {
	return fmt.Sprintf("%s  ★ %.1f (%d)", i.venue.Name, i.venue.Rating, i.venue.Reviews)
}

func (i venueItem) Description() string {
	parts := []string{
		i.venue.ShortLocation,
		i.venue.Capacity,
		i.venue.Price + "/jam",
		i.venue.Type,
	}
	if i.recent {
		parts = append(parts, "viewed recently")
	}
	return strings.Join(parts, " • ")
}

func (i venueItem) FilterValue() string { return strings.ToLower(i.venue.Name) }

func venueItems(venues []model.Venue, recent map[int]bool) []list.Item {
	items := make([]list.Item, 0, len(venues))
	for _, v := range venues {
		items = append(items, venueItem{venue: v, recent: recent[v.Id]})
	}
	return items
}

func selectedVenue(l list.Model) (model.Venue, bool) {
	item, ok := l.SelectedItem().(venueItem)
	if !ok {
		return model.Venue{}, false
	}
	return item.venue, true
}

func rememberVenue(v model.Venue) error {
	return store.RememberVenue(v)
}

type homeState struct {
	list list.Model
}

func newHomeState() homeState {
	return homeState{list: newList("Featured venues")}
}

func (h *homeState) setFeatured(venues []model.Venue) {
	h.list.SetItems(venueItems(venues, nil))
}

func (m appModel) handleHomeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	switch msg.String() {
	case "q":
		return m, tea.Quit, true
	case "c", "/":
		return m, navigateCmd("/catalog", nil), true
	case "a":
		return m, navigateCmd("/auth", nil), true
	case "h":
		return m, navigateCmd("/host-dashboard", nil), true
	case "enter":
		if v, ok := selectedVenue(m.home.list); ok {
			return m, navigateCmd(fmt.Sprintf("/venue/%d", v.Id), nil), true
		}
		return m, navigateCmd("/catalog", nil), true
	}
	return m, nil, false
}

func (m appModel) homeView() string {
	hero := lipgloss.JoinVertical(lipgloss.Left,
		accentStyle.Render("Find the right room for your next event"),
		hint("Meeting rooms, studios and halls you can book by the hour."),
	)
	return hero + "\n\n" + m.home.list.View()
}

type catalogState struct {
	venues   []model.Venue
	filter   service.Filter
	list     list.Model
	recent   map[int]bool
	searches []string
	loading  bool
}

func newCatalogState(city string) catalogState {
	c := catalogState{
		list:   newList("Venues"),
		recent: map[int]bool{},
	}
	for _, known := range service.Cities {
		if strings.EqualFold(known, strings.TrimSpace(city)) {
			c.filter.City = known
		}
	}
	c.filter.Sort = service.SortRecommended
	return c
}

func (c *catalogState) loadRecent() {
	c.recent = map[int]bool{}
	if venues, err := store.LoadRecentVenues(); err == nil {
		for _, v := range venues {
			c.recent[v.ID] = true
		}
	}
	if searches, err := store.LoadRecentSearches(); err == nil {
		c.searches = searches
	}
}

func (c *catalogState) setVenues(venues []model.Venue) {
	c.venues = venues
	c.refresh()
}

func (c *catalogState) refresh() {
	filtered := service.FilterVenues(c.venues, c.filter)
	c.list.SetItems(venueItems(filtered, c.recent))
	c.list.Title = fmt.Sprintf("Venues (%d)", len(filtered))
	c.list.ResetSelected()
}

// handleSearchInput feeds typed characters into the search term. It
// reports whether the key was consumed.
func (c *catalogState) handleSearchInput(msg tea.KeyMsg) bool {
	switch msg.Type {
	case tea.KeyRunes:
		if len(msg.Runes) == 0 {
			return false
		}
		c.filter.Search += string(msg.Runes)
		return true
	case tea.KeySpace:
		c.filter.Search += " "
		return true
	case tea.KeyBackspace, tea.KeyDelete:
		if c.filter.Search == "" {
			return false
		}
		c.filter.Search = trimLastRune(c.filter.Search)
		return true
	}
	return false
}

func (m appModel) handleCatalogKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	if m.catalog.loading {
		return m, nil, true
	}
	switch msg.String() {
	case "ctrl+t":
		m.catalog.filter.City = service.Cycle(service.Cities, m.catalog.filter.City)
	case "ctrl+g":
		m.catalog.filter.Capacity = service.Cycle(service.CapacityRanges, m.catalog.filter.Capacity)
	case "ctrl+p":
		m.catalog.filter.Price = service.Cycle(service.PriceRanges, m.catalog.filter.Price)
	case "ctrl+s":
		m.catalog.filter.Sort = service.NextSort(m.catalog.filter.Sort)
		return m, nil, true
	case "ctrl+r":
		m.catalog.filter = m.catalog.filter.Reset()
	case "enter":
		v, ok := selectedVenue(m.catalog.list)
		if !ok {
			return m, nil, true
		}
		if term := strings.TrimSpace(m.catalog.filter.Search); term != "" {
			if err := store.RememberSearch(term); err != nil {
				m.deps.Log.WithError(err).Debug("could not remember search")
			}
		}
		return m, navigateCmd(fmt.Sprintf("/venue/%d", v.Id), nil), true
	default:
		if !m.catalog.handleSearchInput(msg) {
			return m, nil, false
		}
	}
	m.catalog.refresh()
	return m, nil, true
}

func (m appModel) catalogView() string {
	if m.catalog.loading {
		return m.loadingView("Loading venues")
	}

	f := m.catalog.filter
	search := f.Search
	if search == "" {
		search = hint("type a name, city or venue type")
	}
	lines := []string{
		"Search: " + search,
		filterChips(f),
	}
	if len(m.catalog.searches) > 0 {
		lines = append(lines, hint("Recent: "+strings.Join(m.catalog.searches, ", ")))
	}
	head := strings.Join(lines, "\n")

	if len(m.catalog.list.Items()) == 0 {
		empty := strings.Join([]string{
			accentStyle.Render("No venues match"),
			"",
			hint("Try a different search or press ctrl+r to reset the filters."),
		}, "\n")
		return head + "\n\n" + m.centered(panelStyle.Render(empty))
	}
	return head + "\n\n" + m.catalog.list.View()
}

func filterChips(f service.Filter) string {
	value := func(v string) string {
		if v == "" {
			return "any"
		}
		return v
	}
	chips := []string{
		"City: " + value(f.City),
		"Capacity: " + value(f.Capacity),
		"Price: " + value(string(f.Price)),
		"Sort: " + string(f.Sort),
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("63")).Render(strings.Join(chips, "  │  "))
}
