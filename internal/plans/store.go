// Package plans persists generated shopping plans to a JSON file.
package plans

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Record is one persisted plan. The payload is the caller's serialized plan
// document; the store never interprets it.
type Record struct {
	PlanID      string          `json:"plan_id"`
	GeneratedAt time.Time       `json:"generated_at"`
	Payload     json.RawMessage `json:"payload"`
}

// Stats summarizes the store contents.
type Stats struct {
	Count  int       `json:"count"`
	Oldest time.Time `json:"oldest,omitempty"`
	Newest time.Time `json:"newest,omitempty"`
}

type fileDoc struct {
	Plans []Record `json:"plans"`
}

// Store is a mutex-guarded plan archive backed by a single JSON file.
// Writes rewrite the whole file through a temp-file rename, so a crash never
// leaves a half-written archive.
type Store struct {
	path   string
	logger zerolog.Logger

	mu      sync.Mutex
	records []Record
	nextSeq int
}

// NewStore opens (or initializes) the plan archive at path.
func NewStore(path string, logger zerolog.Logger) (*Store, error) {
	s := &Store{
		path:    path,
		logger:  logger.With().Str("component", "plan_store").Logger(),
		nextSeq: 1,
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read plan archive %s: %w", path, err)
		}
		return s, nil
	}

	var doc fileDoc
	if err := json.Unmarshal(content, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse plan archive %s: %w", path, err)
	}
	s.records = doc.Plans
	for _, r := range doc.Plans {
		if seq := sequenceOf(r.PlanID); seq >= s.nextSeq {
			s.nextSeq = seq + 1
		}
	}

	s.logger.Info().Str("path", path).Int("plans", len(s.records)).Msg("Plan archive loaded")
	return s, nil
}

// Save assigns the next sequential plan ID, appends the record and persists
// the archive. Returns the assigned ID.
func (s *Store) Save(payload json.RawMessage, generatedAt time.Time) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := fmt.Sprintf("plan_%06d", s.nextSeq)
	record := Record{PlanID: id, GeneratedAt: generatedAt, Payload: payload}
	s.records = append(s.records, record)

	if err := s.persist(); err != nil {
		s.records = s.records[:len(s.records)-1]
		return "", err
	}
	s.nextSeq++

	s.logger.Debug().Str("plan_id", id).Msg("Plan saved")
	return id, nil
}

// Get returns the record for a plan ID.
func (s *Store) Get(planID string) (Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.records {
		if r.PlanID == planID {
			return r, true
		}
	}
	return Record{}, false
}

// List returns all records, newest first.
func (s *Store) List() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]Record(nil), s.records...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].GeneratedAt.After(out[j].GeneratedAt)
	})
	return out
}

// Recent returns up to n records, newest first.
func (s *Store) Recent(n int) []Record {
	all := s.List()
	if n < len(all) {
		return all[:n]
	}
	return all
}

// Delete removes a plan from the archive. Returns false when the ID is
// unknown.
func (s *Store) Delete(planID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, r := range s.records {
		if r.PlanID != planID {
			continue
		}
		backup := s.records
		s.records = append(append([]Record(nil), s.records[:i]...), s.records[i+1:]...)
		if err := s.persist(); err != nil {
			s.records = backup
			return false, err
		}
		s.logger.Debug().Str("plan_id", planID).Msg("Plan deleted")
		return true, nil
	}
	return false, nil
}

// Stats returns archive summary counters.
func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := Stats{Count: len(s.records)}
	for _, r := range s.records {
		if st.Oldest.IsZero() || r.GeneratedAt.Before(st.Oldest) {
			st.Oldest = r.GeneratedAt
		}
		if r.GeneratedAt.After(st.Newest) {
			st.Newest = r.GeneratedAt
		}
	}
	return st
}

// persist writes the archive. Caller must hold the mutex.
func (s *Store) persist() error {
	doc := fileDoc{Plans: s.records}
	if doc.Plans == nil {
		doc.Plans = []Record{}
	}
	content, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode plan archive: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create plan archive directory: %w", err)
	}
	if err := os.WriteFile(tmp, content, 0o644); err != nil {
		return fmt.Errorf("failed to write plan archive: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace plan archive: %w", err)
	}
	return nil
}

func sequenceOf(planID string) int {
	rest, ok := strings.CutPrefix(planID, "plan_")
	if !ok {
		return 0
	}
	var seq int
	if _, err := fmt.Sscanf(rest, "%d", &seq); err != nil {
		return 0
	}
	return seq
}
