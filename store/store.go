package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"venuespace-cli/model"
)

const (
	appDir          = "venuespace"
	sessionTTL      = 30 * 24 * time.Hour
	maxRecentVenues = 8
	maxRecentSearch = 6
)

type cacheEnvelope[T any] struct {
	UpdatedAt time.Time `json:"updated_at"`
	Data      T         `json:"data"`
}

type RecentVenue struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	City string `json:"city"`
}

type venueHistory struct {
	Venues []RecentVenue `json:"venues"`
}

type searchHistory struct {
	Terms []string `json:"terms"`
}

// LoadSession returns the persisted user. ok is false when nobody is signed
// in or the session is older than the session TTL.
func LoadSession() (model.User, bool, error) {
	path, err := configPath("session.json")
	if err != nil {
		return model.User{}, false, err
	}
	cache, err := loadCache[model.User](path)
	if err != nil {
		return model.User{}, false, err
	}
	if cache.Data.Email == "" || time.Since(cache.UpdatedAt) > sessionTTL {
		return model.User{}, false, nil
	}
	return cache.Data, true, nil
}

func SaveSession(user model.User) error {
	path, err := configPath("session.json")
	if err != nil {
		return err
	}
	return saveCache(path, user)
}

func ClearSession() error {
	path, err := configPath("session.json")
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// LoadHostVenues returns draft venues registered from the host form.
func LoadHostVenues() ([]model.HostVenueSummary, error) {
	path, err := configPath("host_venues.json")
	if err != nil {
		return nil, err
	}
	cache, err := loadCache[[]model.HostVenueSummary](path)
	if err != nil {
		return nil, err
	}
	return cache.Data, nil
}

func SaveHostVenues(venues []model.HostVenueSummary) error {
	path, err := configPath("host_venues.json")
	if err != nil {
		return err
	}
	return saveCache(path, venues)
}

func LoadRecentVenues() ([]RecentVenue, error) {
	path, err := configPath("recent_venues.json")
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var history venueHistory
	if err := json.Unmarshal(data, &history); err != nil {
		return nil, errors.New("invalid venue history format")
	}
	return history.Venues, nil
}

// RememberVenue moves venue to the front of the recently viewed list.
func RememberVenue(venue model.Venue) error {
	history, _ := LoadRecentVenues()
	next := []RecentVenue{{ID: venue.Id, Name: venue.Name, City: venue.ShortLocation}}

	for _, existing := range history {
		if existing.ID == venue.Id {
			continue
		}
		next = append(next, existing)
		if len(next) >= maxRecentVenues {
			break
		}
	}

	path, err := configPath("recent_venues.json")
	if err != nil {
		return err
	}
	return writeJSON(path, venueHistory{Venues: next})
}

func LoadRecentSearches() ([]string, error) {
	path, err := configPath("searches.json")
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var history searchHistory
	if err := json.Unmarshal(data, &history); err != nil {
		return nil, errors.New("invalid search history format")
	}
	return history.Terms, nil
}

// RememberSearch records a catalog search term, most recent first. Blank
// terms are ignored and duplicates compare case-insensitively.
func RememberSearch(term string) error {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil
	}
	history, _ := LoadRecentSearches()
	next := []string{term}
	for _, existing := range history {
		if stringsEqualFold(existing, term) {
			continue
		}
		next = append(next, existing)
		if len(next) >= maxRecentSearch {
			break
		}
	}

	path, err := configPath("searches.json")
	if err != nil {
		return err
	}
	return writeJSON(path, searchHistory{Terms: next})
}

func loadCache[T any](path string) (cacheEnvelope[T], error) {
	var cache cacheEnvelope[T]
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cache, nil
		}
		return cache, err
	}
	if err := json.Unmarshal(data, &cache); err != nil {
		return cache, err
	}
	return cache, nil
}

func saveCache[T any](path string, data T) error {
	return writeJSON(path, cacheEnvelope[T]{
		UpdatedAt: time.Now(),
		Data:      data,
	})
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	payload, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, payload, 0o644)
}

// ConfigDir is where config.yaml and the JSON state files live.
func ConfigDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appDir), nil
}

// CacheDir holds the log file and the audit database.
func CacheDir() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appDir), nil
}

func configPath(name string) (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

func stringsEqualFold(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return strings.EqualFold(a, b)
}
