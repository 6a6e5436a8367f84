package service

import "venuespace-cli/model"

var defaultDurations = []model.DurationOption{
	{Hours: 2, Label: "2 jam", PriceMultiplier: 0.5},
	{Hours: 4, Label: "4 jam", PriceMultiplier: 0.8},
	{Hours: 6, Label: "6 jam", PriceMultiplier: 1},
	{Hours: 8, Label: "8 jam", PriceMultiplier: 1.3},
	{Hours: 12, Label: "12 jam", PriceMultiplier: 1.8},
	{Hours: 24, Label: "1 hari penuh", PriceMultiplier: 2.5},
}

var defaultTimes = []string{"09:00", "10:00", "11:00", "13:00", "14:00", "15:00", "16:00", "17:00", "19:00", "20:00"}

var defaultRules = []string{
	"Dilarang merokok di dalam ruangan",
	"Wajib menggunakan alas kaki yang sopan",
	"Tidak diperbolehkan membawa makanan dari luar",
	"Harap menjaga kebersihan venue",
	"Maximum volume musik hingga pukul 22.00",
}

const defaultRefundPolicy = "80% refund (minus booking fee) on cancellations up until 7 days before your booking. After that, cancel and get a 50% refund."

var premiumHost = model.HostContact{
	Name:         "PT. Premium Venues",
	Email:        "booking@premiumvenues.com",
	Phone:        "+62 21 5555 1234",
	ResponseTime: "Dalam 2 jam",
}

var communityHost = model.HostContact{
	Name:         "Ruang Bersama Indonesia",
	Email:        "halo@ruangbersama.id",
	Phone:        "+62 22 4444 9876",
	ResponseTime: "Dalam 4 jam",
}

func defaultVenues() []model.Venue {
	return []model.Venue{
		{
			Id:            1,
			Name:          "Sky Lounge Premium",
			Location:      "Jl. Sudirman No. 123, Jakarta Selatan",
			ShortLocation: "Jakarta Selatan",
			Capacity:      "20-50 orang",
			Price:         "Rp 2.500.000",
			PriceNum:      2500000,
			Rating:        4.8,
			Reviews:       124,
			Images: []string{
				"https://images.unsplash.com/photo-1556909114-f6e7ad7d3136?w=800&h=500&fit=crop",
				"https://images.unsplash.com/photo-1497366216548-37526070297c?w=800&h=500&fit=crop",
				"https://images.unsplash.com/photo-1582719478250-c89cae4dc85b?w=800&h=500&fit=crop",
				"https://images.unsplash.com/photo-1519167758481-83f550bb49b3?w=800&h=500&fit=crop",
			},
			Facilities:     []string{"WiFi", "AC", "Projector", "Catering", "Sound System"},
			Type:           "Meeting Room",
			Description:    "Venue meeting eksklusif dengan pemandangan kota. Dilengkapi teknologi modern dan pelayanan premium untuk corporate meeting, seminar, dan workshop.",
			Rules:          defaultRules,
			AvailableTimes: defaultTimes,
			Durations:      defaultDurations,
			Host:           premiumHost,
			RefundPolicy:   defaultRefundPolicy,
		},
		{
			Id:            2,
			Name:          "Garden Space",
			Location:      "Jl. Dago No. 45, Bandung",
			ShortLocation: "Bandung",
			Capacity:      "10-30 orang",
			Price:         "Rp 1.800.000",
			PriceNum:      1800000,
			Rating:        4.6,
			Reviews:       89,
			Images: []string{
				"https://images.unsplash.com/photo-1582719478250-c89cae4dc85b?w=800&h=500&fit=crop",
			},
			Facilities:     []string{"Outdoor", "WiFi", "Sound System", "Parking"},
			Type:           "Outdoor Space",
			Description:    "Taman terbuka yang asri untuk gathering kecil dan acara santai.",
			Rules:          defaultRules,
			AvailableTimes: defaultTimes,
			Durations:      defaultDurations,
			Host:           communityHost,
			RefundPolicy:   defaultRefundPolicy,
		},
		{
			Id:            3,
			Name:          "Modern Co-Space",
			Location:      "Jl. Thamrin No. 8, Jakarta Pusat",
			ShortLocation: "Jakarta Pusat",
			Capacity:      "5-20 orang",
			Price:         "Rp 1.200.000",
			PriceNum:      1200000,
			Rating:        4.9,
			Reviews:       156,
			Images: []string{
				"https://images.unsplash.com/photo-1497366216548-37526070297c?w=800&h=500&fit=crop",
			},
			Facilities:     []string{"WiFi", "AC", "Meeting Room", "Kitchen", "Workspace"},
			Type:           "Co-working",
			Description:    "Ruang kerja bersama dengan meeting room privat dan dapur.",
			Rules:          defaultRules,
			AvailableTimes: defaultTimes,
			Durations:      defaultDurations,
			Host:           premiumHost,
			RefundPolicy:   defaultRefundPolicy,
		},
		{
			Id:            4,
			Name:          "Executive Hall",
			Location:      "Jl. Pemuda No. 17, Surabaya",
			ShortLocation: "Surabaya",
			Capacity:      "50-100 orang",
			Price:         "Rp 4.200.000",
			PriceNum:      4200000,
			Rating:        4.7,
			Reviews:       92,
			Images: []string{
				"https://images.unsplash.com/photo-1561501900-3701fa6a0864?w=800&h=500&fit=crop",
			},
			Facilities:     []string{"AC", "Projector", "Sound System", "Stage", "Catering"},
			Type:           "Event Hall",
			Description:    "Aula besar dengan panggung untuk seminar dan product launch.",
			Rules:          defaultRules,
			AvailableTimes: defaultTimes,
			Durations:      defaultDurations,
			Host:           premiumHost,
			RefundPolicy:   defaultRefundPolicy,
		},
		{
			Id:            5,
			Name:          "Creative Studio",
			Location:      "Jl. Panjang No. 2, Jakarta Barat",
			ShortLocation: "Jakarta Barat",
			Capacity:      "15-40 orang",
			Price:         "Rp 1.900.000",
			PriceNum:      1900000,
			Rating:        4.5,
			Reviews:       67,
			Images: []string{
				"https://images.unsplash.com/photo-1497366754035-f200968a6e72?w=800&h=500&fit=crop",
			},
			Facilities:     []string{"WiFi", "AC", "Photography Equipment", "Green Screen"},
			Type:           "Studio",
			Description:    "Studio kreatif untuk photoshoot, produksi konten, dan workshop.",
			Rules:          defaultRules,
			AvailableTimes: defaultTimes,
			Durations:      defaultDurations,
			Host:           communityHost,
			RefundPolicy:   defaultRefundPolicy,
		},
		{
			Id:            6,
			Name:          "Rooftop Terrace",
			Location:      "Jl. Senopati No. 99, Jakarta Selatan",
			ShortLocation: "Jakarta Selatan",
			Capacity:      "30-80 orang",
			Price:         "Rp 3.500.000",
			PriceNum:      3500000,
			Rating:        4.8,
			Reviews:       203,
			Images: []string{
				"https://images.unsplash.com/photo-1519167758481-83f550bb49b3?w=800&h=500&fit=crop",
			},
			Facilities:     []string{"Outdoor", "City View", "Bar Setup", "Sound System"},
			Type:           "Rooftop",
			Description:    "Teras rooftop dengan city view untuk cocktail party dan gathering.",
			Rules:          defaultRules,
			AvailableTimes: defaultTimes,
			Durations:      defaultDurations,
			Host:           communityHost,
			RefundPolicy:   defaultRefundPolicy,
		},
	}
}

func defaultHostQuestions() []model.HostQuestion {
	return []model.HostQuestion{
		{
			Id:       "purpose",
			Question: "Apa tujuan acara yang akan dilaksanakan?",
			Kind:     model.QuestionSingle,
			Options:  []string{"Meeting/Rapat", "Workshop/Training", "Seminar", "Gathering", "Lainnya"},
			Required: true,
		},
		{
			Id:       "equipment",
			Question: "Apakah Anda membutuhkan peralatan tambahan?",
			Kind:     model.QuestionMulti,
			Options:  []string{"Microphone", "Speaker tambahan", "Flip chart", "Marker", "Tidak ada"},
			Required: false,
		},
		{
			Id:       "catering",
			Question: "Apakah Anda memerlukan layanan catering?",
			Kind:     model.QuestionSingle,
			Options:  []string{"Ya, coffee break", "Ya, lunch", "Ya, keduanya", "Tidak"},
			Required: true,
		},
		{
			Id:       "setup",
			Question: "Bagaimana setup ruangan yang Anda inginkan?",
			Kind:     model.QuestionSingle,
			Options:  []string{"Classroom", "U-Shape", "Theatre", "Boardroom", "Custom"},
			Required: true,
		},
	}
}

func defaultAddOns() []model.AddOn {
	return []model.AddOn{
		{Id: "projector", Name: "Projector tambahan", Price: 200000},
		{Id: "sound", Name: "Sound system premium", Price: 300000},
		{Id: "decoration", Name: "Dekorasi sederhana", Price: 500000},
		{Id: "photography", Name: "Dokumentasi foto", Price: 800000},
		{Id: "live-streaming", Name: "Live streaming setup", Price: 1000000},
	}
}

var eventTypes = []string{
	"Meeting/Rapat",
	"Workshop/Training",
	"Seminar",
	"Product Launch",
	"Gathering/Team Building",
	"Birthday Party",
	"Wedding Event",
	"Corporate Event",
	"Lainnya",
}

func defaultHostVenues() []model.HostVenueSummary {
	return []model.HostVenueSummary{
		{Id: 1, Name: "Sky Lounge Premium", Location: "Jakarta Selatan", Capacity: "20-50 orang", Price: 2500000, Image: "https://images.unsplash.com/photo-1556909114-f6e7ad7d3136?w=300&h=200&fit=crop", Rating: 4.8, TotalBookings: 45, Revenue: 112500000, Status: "active"},
		{Id: 2, Name: "Garden Space", Location: "Bandung", Capacity: "10-30 orang", Price: 1800000, Image: "https://images.unsplash.com/photo-1582719478250-c89cae4dc85b?w=300&h=200&fit=crop", Rating: 4.6, TotalBookings: 32, Revenue: 57600000, Status: "active"},
		{Id: 3, Name: "Modern Co-Space", Location: "Jakarta Pusat", Capacity: "5-20 orang", Price: 1200000, Image: "https://images.unsplash.com/photo-1497366216548-37526070297c?w=300&h=200&fit=crop", Rating: 4.9, TotalBookings: 28, Revenue: 33600000, Status: "draft"},
	}
}

func defaultHostBookings() []model.BookingListing {
	return []model.BookingListing{
		{Id: "BK001234", VenueName: "Sky Lounge Premium", CustomerName: "John Doe", Date: "2024-01-15", Time: "09:00", Attendees: 25, Amount: 2500000, Status: "pending", EventType: "Meeting"},
		{Id: "BK001235", VenueName: "Garden Space", CustomerName: "Jane Smith", Date: "2024-01-16", Time: "14:00", Attendees: 15, Amount: 1800000, Status: "confirmed", EventType: "Workshop"},
		{Id: "BK001236", VenueName: "Sky Lounge Premium", CustomerName: "Robert Johnson", Date: "2024-01-14", Time: "10:00", Attendees: 30, Amount: 2500000, Status: "completed", EventType: "Seminar"},
		{Id: "BK001237", VenueName: "Modern Co-Space", CustomerName: "Alice Brown", Date: "2024-01-13", Time: "16:00", Attendees: 12, Amount: 1200000, Status: "cancelled", EventType: "Meeting"},
	}
}

func defaultTransactions() []model.TransactionRecord {
	return []model.TransactionRecord{
		{Id: "TRX001", BookingId: "BK001236", Amount: 2500000, Commission: 250000, NetAmount: 2250000, Date: "2024-01-14", Status: "completed"},
		{Id: "TRX002", BookingId: "BK001235", Amount: 1800000, Commission: 180000, NetAmount: 1620000, Date: "2024-01-16", Status: "pending"},
	}
}
