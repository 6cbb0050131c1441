// Package catalog manages the flat JSON festival catalog.
//
// The catalog is read fresh from disk on every Load so admin appends become
// visible to the next request without any in-process state. Concurrent
// approvals can therefore race on the read-modify-write; that is accepted
// for a low-traffic admin workflow.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/desertthunder/festmatch/internal/shared"
)

// Lineup statuses a festival can carry in the catalog.
const (
	LineupConfirmed   = "confirmed"
	LineupPartial     = "partial"
	LineupUnannounced = "unannounced"
	LineupHiatus      = "hiatus"
)

// Festival is one catalog record. Dates stays free text ("3-7 Junio 2026");
// the dates package turns it into concrete ranges for the calendar view.
type Festival struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Country      string   `json:"country"`
	Location     string   `json:"location"`
	Dates        string   `json:"dates"`
	Website      string   `json:"website,omitempty"`
	LineupStatus string   `json:"lineupStatus"`
	Lineup       []string `json:"lineup"`
}

// Store reads and appends festival records in a JSON file.
type Store struct {
	path string
}

// NewStore creates a Store backed by the JSON file at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the whole catalog from disk.
//
// Every caller gets a fresh slice; nothing is cached between calls.
func (s *Store) Load() ([]Festival, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrCatalogUnreadable, err)
	}

	var festivals []Festival
	if err := json.Unmarshal(data, &festivals); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrCatalogUnreadable, err)
	}

	return festivals, nil
}

// Append adds a festival to the catalog file.
//
// Read-modify-write without locking; last write wins under concurrency.
func (s *Store) Append(f Festival) error {
	festivals, err := s.Load()
	if err != nil {
		return err
	}

	festivals = append(festivals, f)
	return s.write(festivals)
}

// FindByName returns the first festival whose name matches case-insensitively.
func FindByName(festivals []Festival, name string) (Festival, bool) {
	needle := foldName(name)
	for _, f := range festivals {
		if foldName(f.Name) == needle {
			return f, true
		}
	}
	return Festival{}, false
}

func (s *Store) write(festivals []Festival) error {
	data, err := json.MarshalIndent(festivals, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode catalog: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write catalog: %w", err)
	}

	return nil
}
