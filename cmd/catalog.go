package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"venuespace-cli/model"
	"venuespace-cli/service"
)

func newCatalogCmd() *cobra.Command {
	var (
		search   string
		city     string
		capacity string
		price    string
	)
	c := &cobra.Command{
		Use:   "catalog",
		Short: "List venues",
		Long:  `List venues matching a search term, city, capacity range and price range.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(false)
			if err != nil {
				return err
			}
			defer a.Close()

			f := service.Filter{Search: strings.TrimSpace(search)}
			if !cmd.Flags().Changed("city") {
				city = a.cfg.City
			}
			if f.City, err = pick("city", city, service.Cities); err != nil {
				return err
			}
			if f.Capacity, err = pick("capacity", capacity, service.CapacityRanges); err != nil {
				return err
			}
			priceRange, err := parsePriceRange(price)
			if err != nil {
				return err
			}
			f.Price = priceRange

			venues, err := a.client.GetVenues(cmd.Context())
			if err != nil {
				return err
			}
			venues = service.FilterVenues(venues, f)
			if len(venues) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No venues match. Try a different search or fewer filters.")
				return nil
			}
			renderVenues(cmd.OutOrStdout(), venues)
			return nil
		},
	}
	c.Flags().StringVarP(&search, "search", "s", "", "match name, city or venue type")
	c.Flags().StringVar(&city, "city", "", "one of: "+strings.Join(service.Cities, ", "))
	c.Flags().StringVar(&capacity, "capacity", "", "one of: "+strings.Join(service.CapacityRanges, ", "))
	c.Flags().StringVar(&price, "price", "", "under, mid or over")
	return c
}

// pick matches value case-insensitively against options. Empty means any.
func pick(name, value string, options []string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", nil
	}
	for _, o := range options {
		if strings.EqualFold(o, value) {
			return o, nil
		}
	}
	return "", fmt.Errorf("%w: unknown %s %q (want one of: %s)", errUsage, name, value, strings.Join(options, ", "))
}

func parsePriceRange(value string) (service.PriceRange, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "any":
		return service.PriceAny, nil
	case "under", "low":
		return service.PriceUnder, nil
	case "mid", "medium":
		return service.PriceMid, nil
	case "over", "high":
		return service.PriceOver, nil
	}
	return service.PriceAny, fmt.Errorf("%w: unknown price range %q (want under, mid or over)", errUsage, value)
}

func renderVenues(out io.Writer, venues []model.Venue) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.AppendHeader(table.Row{"#", "Venue", "City", "Type", "Capacity", "Price/hour", "Rating"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, WidthMax: 28},
	})
	for _, v := range venues {
		t.AppendRow(table.Row{v.Id, v.Name, v.ShortLocation, v.Type, v.Capacity, v.Price, fmt.Sprintf("%.1f (%d)", v.Rating, v.Reviews)})
	}
	t.Render()
}

func newQuoteCmd() *cobra.Command {
	var (
		hours  int
		addOns []string
	)
	c := &cobra.Command{
		Use:   "quote VENUE_ID",
		Short: "Price a booking",
		Long:  `Show the venue price for a duration plus any add-ons.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("%w: venue id must be a number", errUsage)
			}
			a, err := openApp(false)
			if err != nil {
				return err
			}
			defer a.Close()

			venue, err := a.client.GetVenue(cmd.Context(), id)
			if err != nil {
				return err
			}
			duration, ok := venue.Duration(hours)
			if !ok {
				return fmt.Errorf("%w: %s cannot be booked for %d hours", errUsage, venue.Name, hours)
			}
			catalog := a.client.AddOns()
			for _, id := range addOns {
				if !knownAddOn(catalog, id) {
					return fmt.Errorf("%w: unknown add-on %q", errUsage, id)
				}
			}
			renderQuote(cmd.OutOrStdout(), venue, duration, service.Quote(venue, hours, addOns, catalog), addOns, catalog)
			return nil
		},
	}
	c.Flags().IntVar(&hours, "hours", 2, "booking duration in hours")
	c.Flags().StringSliceVar(&addOns, "add-on", nil, "add-on id, repeatable")
	return c
}

func knownAddOn(catalog []model.AddOn, id string) bool {
	for _, a := range catalog {
		if a.Id == id {
			return true
		}
	}
	return false
}

func renderQuote(out io.Writer, venue model.Venue, duration model.DurationOption, q model.Quote, addOns []string, catalog []model.AddOn) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetTitle(venue.Name)
	t.AppendRow(table.Row{fmt.Sprintf("%s × %.1f (%s)", service.FormatRupiah(q.Base), q.Multiplier, duration.Label), service.FormatRupiah(q.Subtotal)})
	for _, a := range catalog {
		for _, id := range addOns {
			if a.Id == id {
				t.AppendRow(table.Row{a.Name, service.FormatRupiah(a.Price)})
			}
		}
	}
	t.AppendFooter(table.Row{"Total", service.FormatRupiah(q.Total)})
	t.Render()
}
