package service

import (
	"math"

	"venuespace-cli/model"
)

// DurationTotal is the venue price scaled by a duration multiplier, rounded
// to the nearest Rupiah.
func DurationTotal(base int64, multiplier float64) int64 {
	return int64(math.Round(float64(base) * multiplier))
}

// Quote prices a venue for a duration plus add-ons. An unknown duration uses
// the plain venue price and unknown add-on ids cost nothing.
func Quote(venue model.Venue, hours int, addOnIDs []string, catalog []model.AddOn) model.Quote {
	multiplier := 1.0
	if d, ok := venue.Duration(hours); ok {
		multiplier = d.PriceMultiplier
	}
	q := model.Quote{
		Base:       venue.PriceNum,
		Multiplier: multiplier,
		Subtotal:   DurationTotal(venue.PriceNum, multiplier),
	}
	for _, id := range addOnIDs {
		for _, item := range catalog {
			if item.Id == id {
				q.AddOns += item.Price
				break
			}
		}
	}
	q.Total = q.Subtotal + q.AddOns
	return q
}
