package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"venuespace-cli/model"
)

// Client serves the venue catalog and the host dashboard datasets.
type Client struct {
	mu           sync.RWMutex
	venues       []model.Venue
	questions    []model.HostQuestion
	addOns       []model.AddOn
	hostVenues   []model.HostVenueSummary
	hostBookings []model.BookingListing
	transactions []model.TransactionRecord

	// registered holds venues added through AddHostVenue or restored from
	// disk.
	registered []model.HostVenueSummary
}

// NotFoundError is returned when a venue id is not in the catalog.
type NotFoundError struct {
	Kind string
	Id   string
}

func (e *NotFoundError) Error() string {
	if e == nil {
		return "not found"
	}
	return fmt.Sprintf("%s %s not found", e.Kind, e.Id)
}

// IsNotFound reports whether the error represents a missing catalog entry.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// NewClient creates a client over the built-in datasets.
func NewClient() *Client {
	return &Client{
		venues:       defaultVenues(),
		questions:    defaultHostQuestions(),
		addOns:       defaultAddOns(),
		hostVenues:   defaultHostVenues(),
		hostBookings: defaultHostBookings(),
		transactions: defaultTransactions(),
	}
}

// GetVenues returns every venue in catalog order.
func (c *Client) GetVenues(ctx context.Context) ([]model.Venue, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]model.Venue, len(c.venues))
	copy(out, c.venues)
	return out, nil
}

// GetVenue looks a venue up by id.
func (c *Client) GetVenue(ctx context.Context, id int) (model.Venue, error) {
	if err := ctx.Err(); err != nil {
		return model.Venue{}, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, v := range c.venues {
		if v.Id == id {
			return v, nil
		}
	}
	return model.Venue{}, &NotFoundError{Kind: "venue", Id: fmt.Sprint(id)}
}

func (c *Client) HostQuestions() []model.HostQuestion {
	return c.questions
}

func (c *Client) AddOns() []model.AddOn {
	return c.addOns
}

func (c *Client) EventTypes() []string {
	return eventTypes
}

// Featured returns the n best rated venues, ties broken by review count.
func (c *Client) Featured(ctx context.Context, n int) ([]model.Venue, error) {
	venues, err := c.GetVenues(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(venues, func(i, j int) bool {
		if venues[i].Rating != venues[j].Rating {
			return venues[i].Rating > venues[j].Rating
		}
		return venues[i].Reviews > venues[j].Reviews
	})
	if n < len(venues) {
		venues = venues[:n]
	}
	return venues, nil
}

type PriceRange string

const (
	PriceAny   PriceRange = ""
	PriceUnder PriceRange = "< Rp 1.500.000"
	PriceMid   PriceRange = "Rp 1.500.000 - Rp 3.000.000"
	PriceOver  PriceRange = "> Rp 3.000.000"
)

var (
	Cities         = []string{"Jakarta Selatan", "Jakarta Pusat", "Jakarta Barat", "Bandung", "Surabaya"}
	CapacityRanges = []string{"5-20 orang", "20-50 orang", "50+ orang"}
	PriceRanges    = []PriceRange{PriceUnder, PriceMid, PriceOver}
)

func (p PriceRange) matches(price int64) bool {
	switch p {
	case PriceAny:
		return true
	case PriceUnder:
		return price < 1500000
	case PriceMid:
		return price >= 1500000 && price <= 3000000
	case PriceOver:
		return price > 3000000
	default:
		return false
	}
}

type SortOption string

const (
	SortRecommended SortOption = "recommended"
	SortPriceAsc    SortOption = "price-asc"
	SortPriceDesc   SortOption = "price-desc"
	SortRating      SortOption = "rating"
)

var SortOptions = []SortOption{SortRecommended, SortPriceAsc, SortPriceDesc, SortRating}

// Filter holds the catalog predicates. The zero value matches every venue.
// Sort is a display label only; results keep catalog order.
type Filter struct {
	Search   string
	City     string
	Capacity string
	Price    PriceRange
	Sort     SortOption
}

func (f Filter) Active() bool {
	return f.Search != "" || f.City != "" || f.Capacity != "" || f.Price != PriceAny
}

// Reset clears all four predicates.
func (f Filter) Reset() Filter {
	return Filter{Sort: f.Sort}
}

func (f Filter) Matches(v model.Venue) bool {
	term := strings.ToLower(f.Search)
	matchesSearch := strings.Contains(strings.ToLower(v.Name), term) ||
		strings.Contains(strings.ToLower(v.ShortLocation), term) ||
		strings.Contains(strings.ToLower(v.Type), term)
	matchesCity := f.City == "" || v.ShortLocation == f.City
	matchesCapacity := f.Capacity == "" || v.Capacity == f.Capacity
	return matchesSearch && matchesCity && matchesCapacity && f.Price.matches(v.PriceNum)
}

// FilterVenues returns the venues matching every predicate, in input order.
func FilterVenues(venues []model.Venue, f Filter) []model.Venue {
	out := make([]model.Venue, 0, len(venues))
	for _, v := range venues {
		if f.Matches(v) {
			out = append(out, v)
		}
	}
	return out
}

// NextSort cycles to the next sort label.
func NextSort(current SortOption) SortOption {
	for i, s := range SortOptions {
		if s == current {
			return SortOptions[(i+1)%len(SortOptions)]
		}
	}
	return SortOptions[0]
}

// Cycle returns the option after current in options, wrapping to "" (inactive)
// after the last one.
func Cycle[T ~string](options []T, current T) T {
	var zero T
	if current == zero {
		if len(options) == 0 {
			return zero
		}
		return options[0]
	}
	for i, o := range options {
		if o == current {
			if i+1 < len(options) {
				return options[i+1]
			}
			return zero
		}
	}
	return zero
}
