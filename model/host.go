package model

type HostVenueSummary struct {
	Id            int     `json:"id"`
	Name          string  `json:"name"`
	Location      string  `json:"location"`
	Capacity      string  `json:"capacity,omitempty"`
	Price         int64   `json:"price,omitempty"`
	Image         string  `json:"image"`
	Rating        float64 `json:"rating"`
	TotalBookings int     `json:"totalBookings"`
	Revenue       int64   `json:"revenue"`
	Status        string  `json:"status"`
}

type BookingListing struct {
	Id           string `json:"id"`
	VenueName    string `json:"venueName"`
	CustomerName string `json:"customerName"`
	Date         string `json:"date"`
	Time         string `json:"time"`
	Attendees    int    `json:"attendees"`
	Amount       int64  `json:"amount"`
	Status       string `json:"status"`
	EventType    string `json:"eventType"`
}

type TransactionRecord struct {
	Id         string `json:"id"`
	BookingId  string `json:"bookingId"`
	Amount     int64  `json:"amount"`
	Commission int64  `json:"commission"`
	NetAmount  int64  `json:"netAmount"`
	Date       string `json:"date"`
	Status     string `json:"status"`
}
