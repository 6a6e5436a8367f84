package model

type Venue struct {
	Id             int              `json:"id"`
	Name           string           `json:"name"`
	Location       string           `json:"location"`
	ShortLocation  string           `json:"shortLocation"`
	Capacity       string           `json:"capacity"`
	Price          string           `json:"price"`
	PriceNum       int64            `json:"priceNum"`
	Rating         float64          `json:"rating"`
	Reviews        int              `json:"reviews"`
	Images         []string         `json:"images"`
	Facilities     []string         `json:"facilities"`
	Type           string           `json:"type"`
	Description    string           `json:"description"`
	Rules          []string         `json:"rules"`
	AvailableTimes []string         `json:"availableTimes"`
	Durations      []DurationOption `json:"durations"`
	Host           HostContact      `json:"host"`
	RefundPolicy   string           `json:"refundPolicy"`
}

type DurationOption struct {
	Hours           int     `json:"hours"`
	Label           string  `json:"label"`
	PriceMultiplier float64 `json:"priceMultiplier"`
}

type HostContact struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	ResponseTime string `json:"responseTime"`
}

// Duration returns the option for the given number of hours.
func (v Venue) Duration(hours int) (DurationOption, bool) {
	for _, d := range v.Durations {
		if d.Hours == hours {
			return d, true
		}
	}
	return DurationOption{}, false
}
