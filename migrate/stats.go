package migrate

import (
	"fmt"
	"log/slog"
	"sync"
)

// Stats holds statistics about one migration run. Counters are guarded so
// concurrently processed records can report into the same run.
type Stats struct {
	mu           sync.Mutex
	Processed    int
	Created      int
	Failed       int
	NotesCreated int
	Failures     map[string]string
}

// NewStats creates and initializes a new Stats object.
func NewStats() *Stats {
	return &Stats{
		Failures: make(map[string]string),
	}
}

// AddCreated records one successfully migrated record.
func (s *Stats) AddCreated() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Processed++
	s.Created++
}

// AddFailure records a failed record and its reason.
func (s *Stats) AddFailure(oppID, reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Processed++
	s.Failed++
	s.Failures[oppID] = reason
}

// AddNotes records successfully replicated notes.
func (s *Stats) AddNotes(count int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.NotesCreated += count
}

// Log prints the final statistics to the provided logger.
func (s *Stats) Log(logger *slog.Logger) {
	s.mu.Lock()
	defer s.mu.Unlock()

	logger.Info("--- Migration Stats ---")
	logger.Info(fmt.Sprintf("Records processed: %d", s.Processed))
	logger.Info(fmt.Sprintf("Opportunities created: %d", s.Created))
	logger.Info(fmt.Sprintf("Records failed: %d", s.Failed))
	logger.Info(fmt.Sprintf("Notes created: %d", s.NotesCreated))
	if s.Failed > 0 {
		logger.Info("Failed records:")
		for oppID, reason := range s.Failures {
			logger.Info(fmt.Sprintf("- %s: %s", oppID, reason))
		}
	}
	logger.Info("-----------------------")
}
