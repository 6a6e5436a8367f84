package service

import (
	"context"
	"strings"

	"venuespace-cli/model"
)

type DashboardPeriod string

const (
	PeriodThisMonth DashboardPeriod = "thisMonth"
	PeriodLastMonth DashboardPeriod = "lastMonth"
	PeriodThisYear  DashboardPeriod = "thisYear"
)

var DashboardPeriods = []DashboardPeriod{PeriodThisMonth, PeriodLastMonth, PeriodThisYear}

type DashboardStats struct {
	TotalRevenue  int64
	TotalBookings int
	ActiveVenues  int
	DraftVenues   int
	AverageRating float64
	Pending       int
	Ongoing       int
	Completed     int
	Refunded      int
}

type Dashboard struct {
	Venues       []model.HostVenueSummary
	Bookings     []model.BookingListing
	Transactions []model.TransactionRecord
	Stats        DashboardStats
}

// Summarize computes the dashboard header figures.
func Summarize(venues []model.HostVenueSummary, bookings []model.BookingListing) DashboardStats {
	var stats DashboardStats
	var ratingSum float64
	for _, v := range venues {
		stats.TotalRevenue += v.Revenue
		stats.TotalBookings += v.TotalBookings
		ratingSum += v.Rating
		switch v.Status {
		case "active":
			stats.ActiveVenues++
		case "draft":
			stats.DraftVenues++
		}
	}
	if len(venues) > 0 {
		stats.AverageRating = ratingSum / float64(len(venues))
	}
	for _, b := range bookings {
		switch b.Status {
		case "pending":
			stats.Pending++
		case "confirmed":
			stats.Ongoing++
		case "completed":
			stats.Completed++
		case "cancelled":
			stats.Refunded++
		}
	}
	return stats
}

// GetDashboard returns the host dashboard datasets with their summary.
func (c *Client) GetDashboard(ctx context.Context) (Dashboard, error) {
	if err := ctx.Err(); err != nil {
		return Dashboard{}, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	d := Dashboard{
		Venues:       append([]model.HostVenueSummary(nil), c.hostVenues...),
		Bookings:     append([]model.BookingListing(nil), c.hostBookings...),
		Transactions: append([]model.TransactionRecord(nil), c.transactions...),
	}
	d.Stats = Summarize(d.Venues, d.Bookings)
	return d, nil
}

// HostVenueForm is the /form-host listing request.
type HostVenueForm struct {
	Name     string `json:"name" validate:"required"`
	City     string `json:"city" validate:"required"`
	Capacity string `json:"capacity" validate:"required"`
	Price    int64  `json:"price" validate:"required,gt=0"`
}

// AddHostVenue registers a new draft venue on the host dashboard.
func (c *Client) AddHostVenue(ctx context.Context, form HostVenueForm) (model.HostVenueSummary, error) {
	if err := ctx.Err(); err != nil {
		return model.HostVenueSummary{}, err
	}
	form.Name = strings.TrimSpace(form.Name)
	form.City = strings.TrimSpace(form.City)
	form.Capacity = strings.TrimSpace(form.Capacity)
	if err := ValidateStruct(form); err != nil {
		return model.HostVenueSummary{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	nextID := 1
	for _, v := range c.hostVenues {
		if v.Id >= nextID {
			nextID = v.Id + 1
		}
	}
	summary := model.HostVenueSummary{
		Id:       nextID,
		Name:     form.Name,
		Location: form.City,
		Capacity: form.Capacity,
		Price:    form.Price,
		Status:   "draft",
	}
	c.hostVenues = append(c.hostVenues, summary)
	c.registered = append(c.registered, summary)
	return summary, nil
}

// RegisteredVenues returns the venues added through AddHostVenue, for
// persisting between runs.
func (c *Client) RegisteredVenues() []model.HostVenueSummary {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]model.HostVenueSummary(nil), c.registered...)
}

// RestoreHostVenues puts previously registered venues back on the
// dashboard. Entries whose id is already taken are skipped.
func (c *Client) RestoreHostVenues(venues []model.HostVenueSummary) {
	c.mu.Lock()
	defer c.mu.Unlock()
	taken := make(map[int]bool, len(c.hostVenues))
	for _, v := range c.hostVenues {
		taken[v.Id] = true
	}
	for _, v := range venues {
		if v.Id <= 0 || taken[v.Id] {
			continue
		}
		taken[v.Id] = true
		c.hostVenues = append(c.hostVenues, v)
		c.registered = append(c.registered, v)
	}
}
