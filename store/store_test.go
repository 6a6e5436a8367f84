package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"venuespace-cli/booking"
	"venuespace-cli/model"
)

func setTestConfigDir(t *testing.T) {
	t.Helper()
	root := t.TempDir()
	t.Setenv("HOME", root)
	t.Setenv("XDG_CONFIG_HOME", root)
	t.Setenv("XDG_CACHE_HOME", filepath.Join(root, "cache"))
}

func TestRememberVenue_MostRecentFirst(t *testing.T) {
	setTestConfigDir(t)

	recent, err := LoadRecentVenues()
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(recent) != 0 {
		t.Fatalf("expected empty history, got %+v", recent)
	}

	venues := []model.Venue{
		{Id: 1, Name: "Sky Lounge Premium", ShortLocation: "Jakarta Selatan"},
		{Id: 2, Name: "Garden Space", ShortLocation: "Bandung"},
		{Id: 1, Name: "Sky Lounge Premium", ShortLocation: "Jakarta Selatan"},
	}
	for _, v := range venues {
		if err := RememberVenue(v); err != nil {
			t.Fatalf("expected nil error, got %v", err)
		}
	}

	recent, err = LoadRecentVenues()
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("expected 2 venues, got %+v", recent)
	}
	if recent[0].ID != 1 || recent[1].ID != 2 {
		t.Fatalf("expected order [1 2], got %+v", recent)
	}
	if recent[1].City != "Bandung" {
		t.Fatalf("expected city to be kept, got %+v", recent[1])
	}
}

func TestRememberVenue_Capped(t *testing.T) {
	setTestConfigDir(t)

	for i := 1; i <= maxRecentVenues+3; i++ {
		if err := RememberVenue(model.Venue{Id: i, Name: "v"}); err != nil {
			t.Fatalf("expected nil error, got %v", err)
		}
	}
	recent, err := LoadRecentVenues()
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(recent) != maxRecentVenues {
		t.Fatalf("expected %d venues, got %d", maxRecentVenues, len(recent))
	}
	if recent[0].ID != maxRecentVenues+3 {
		t.Fatalf("expected newest first, got %+v", recent[0])
	}
}

func TestRememberSearch(t *testing.T) {
	setTestConfigDir(t)

	for _, term := range []string{"rooftop", "  ", "Garden", "ROOFTOP"} {
		if err := RememberSearch(term); err != nil {
			t.Fatalf("expected nil error, got %v", err)
		}
	}
	terms, err := LoadRecentSearches()
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(terms) != 2 || terms[0] != "ROOFTOP" || terms[1] != "Garden" {
		t.Fatalf("unexpected terms: %+v", terms)
	}
}

func TestLoadRecentSearches_RejectsUnknownFormat(t *testing.T) {
	setTestConfigDir(t)

	path, err := configPath("searches.json")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(`["studio","hall"]`), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadRecentSearches(); err == nil {
		t.Fatal("expected an error for a bare list")
	}
}

func TestSession_RoundTrip(t *testing.T) {
	setTestConfigDir(t)

	if _, ok, err := LoadSession(); err != nil || ok {
		t.Fatalf("expected no session, got ok=%v err=%v", ok, err)
	}

	user := model.User{Name: "Sari", Email: "sari@example.com", Role: model.RoleHost}
	if err := SaveSession(user); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	got, ok, err := LoadSession()
	if err != nil || !ok {
		t.Fatalf("expected session, got ok=%v err=%v", ok, err)
	}
	if got != user {
		t.Fatalf("expected %+v, got %+v", user, got)
	}

	if err := ClearSession(); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if err := ClearSession(); err != nil {
		t.Fatalf("expected clearing twice to succeed, got %v", err)
	}
	if _, ok, _ := LoadSession(); ok {
		t.Fatal("expected session to be cleared")
	}
}

func TestSession_Expired(t *testing.T) {
	setTestConfigDir(t)

	path, err := configPath("session.json")
	if err != nil {
		t.Fatal(err)
	}
	stale := cacheEnvelope[model.User]{
		UpdatedAt: time.Now().Add(-sessionTTL - time.Hour),
		Data:      model.User{Name: "Sari", Email: "sari@example.com"},
	}
	if err := writeJSON(path, stale); err != nil {
		t.Fatal(err)
	}
	if _, ok, err := LoadSession(); err != nil || ok {
		t.Fatalf("expected expired session to be ignored, got ok=%v err=%v", ok, err)
	}
}

func TestHostVenues_RoundTrip(t *testing.T) {
	setTestConfigDir(t)

	venues := []model.HostVenueSummary{{Id: 4, Name: "Loft", Location: "Bandung", Status: "draft"}}
	if err := SaveHostVenues(venues); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	got, err := LoadHostVenues()
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(got) != 1 || got[0].Name != "Loft" {
		t.Fatalf("unexpected host venues: %+v", got)
	}
}

func TestAuditLog_RecordAndList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "audit.db")
	audit, err := OpenAudit(path)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	defer audit.Close()

	ctx := context.Background()
	at := time.Date(2026, time.January, 5, 9, 0, 0, 0, time.UTC)
	changes := []booking.Change{
		{From: "", To: booking.StatusPending, Event: booking.EventSubmit, At: at},
		{From: booking.StatusPending, To: booking.StatusConfirmed, Event: booking.EventHostConfirmed, At: at.Add(10 * time.Second)},
	}
	for _, c := range changes {
		if err := audit.RecordTransition(ctx, "BK000001", c); err != nil {
			t.Fatalf("expected nil error, got %v", err)
		}
	}
	if err := audit.RecordTransition(ctx, "BK000002", changes[0]); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	entries, err := audit.List(ctx, "BK000001")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[1].From != booking.StatusPending || entries[1].To != booking.StatusConfirmed {
		t.Fatalf("unexpected entry: %+v", entries[1])
	}
	if !entries[1].At.Equal(at.Add(10 * time.Second)) {
		t.Fatalf("unexpected time: %v", entries[1].At)
	}
	if entries[0].Seq >= entries[1].Seq {
		t.Fatalf("expected increasing seq, got %d then %d", entries[0].Seq, entries[1].Seq)
	}

	all, err := audit.List(ctx, "")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(all))
	}
}

func TestAuditLog_ReceivesRunnerTransitions(t *testing.T) {
	audit, err := OpenAudit(filepath.Join(t.TempDir(), "audit.db"))
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	defer audit.Close()

	runner := booking.NewRunner(model.Submission{BookingId: "BK0000AA"}, booking.Options{
		Windows: booking.Windows{Confirmation: time.Hour, Tick: time.Hour},
		Audit:   audit,
		Gateways: booking.Gateways{
			Host: booking.NewSimulatedHost(time.Hour),
		},
	})
	runner.Start()
	if err := runner.Cancel(); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	runner.Stop()

	entries, err := audit.List(context.Background(), "BK0000AA")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(entries) != 2 || entries[1].To != booking.StatusCancelled {
		t.Fatalf("unexpected entries: %+v", entries)
	}
}
