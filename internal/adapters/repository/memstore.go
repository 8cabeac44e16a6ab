package repository

import (
	"context"
	"sync"

	"github.com/okian/classmatch/internal/domain/model"
	"github.com/okian/classmatch/pkg/metrics"
)

// Default retention for stored match runs.
const defaultMaxRuns = 50

// MemStore implements Store with in-memory maps guarded by a RWMutex.
// Profiles keep insertion order so a matching run over "all stored profiles"
// is deterministic across calls.
type MemStore struct {
	mu sync.RWMutex

	teacherOrder []string // digests, insertion order
	teachers     map[string]model.TeacherProfile

	studentOrder []string
	students     map[string]model.StudentProfile

	runs    []MatchRun // newest last
	runByID map[string]int
	maxRuns int
}

// NewMemStore creates an empty in-memory store with configuration options.
func NewMemStore(opts ...Option) *MemStore {
	s := &MemStore{
		teachers: make(map[string]model.TeacherProfile),
		students: make(map[string]model.StudentProfile),
		runByID:  make(map[string]int),
		maxRuns:  defaultMaxRuns,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SaveTeacher stores a teacher profile under its document digest.
func (s *MemStore) SaveTeacher(_ context.Context, digest string, p model.TeacherProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.teachers[digest]; !exists {
		s.teacherOrder = append(s.teacherOrder, digest)
	}
	s.teachers[digest] = p
	metrics.UpdateProfileCount("teacher", len(s.teachers))
	return nil
}

// SaveStudent stores a student profile under its document digest.
func (s *MemStore) SaveStudent(_ context.Context, digest string, p model.StudentProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.students[digest]; !exists {
		s.studentOrder = append(s.studentOrder, digest)
	}
	s.students[digest] = p
	metrics.UpdateProfileCount("student", len(s.students))
	return nil
}

// TeacherByDigest returns the profile stored under digest.
func (s *MemStore) TeacherByDigest(_ context.Context, digest string) (model.TeacherProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.teachers[digest]
	if !ok {
		return model.TeacherProfile{}, ErrNotFound
	}
	return p, nil
}

// StudentByDigest returns the profile stored under digest.
func (s *MemStore) StudentByDigest(_ context.Context, digest string) (model.StudentProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.students[digest]
	if !ok {
		return model.StudentProfile{}, ErrNotFound
	}
	return p, nil
}

// Teachers returns all stored teacher profiles in insertion order.
func (s *MemStore) Teachers(_ context.Context) ([]model.TeacherProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.TeacherProfile, 0, len(s.teacherOrder))
	for _, digest := range s.teacherOrder {
		out = append(out, s.teachers[digest])
	}
	return out, nil
}

// Students returns all stored student profiles in insertion order.
func (s *MemStore) Students(_ context.Context) ([]model.StudentProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.StudentProfile, 0, len(s.studentOrder))
	for _, digest := range s.studentOrder {
		out = append(out, s.students[digest])
	}
	return out, nil
}

// SaveRun stores a match run, evicting the oldest beyond retention.
func (s *MemStore) SaveRun(_ context.Context, run MatchRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.runs = append(s.runs, run)
	if len(s.runs) > s.maxRuns {
		evicted := s.runs[0]
		s.runs = s.runs[1:]
		delete(s.runByID, evicted.RunID)
	}
	// Rebuild indices after the slice shifted.
	s.runByID = make(map[string]int, len(s.runs))
	for i, r := range s.runs {
		s.runByID[r.RunID] = i
	}
	metrics.UpdateRunsStored(len(s.runs))
	return nil
}

// Runs returns stored runs newest first.
func (s *MemStore) Runs(_ context.Context) ([]MatchRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]MatchRun, 0, len(s.runs))
	for i := len(s.runs) - 1; i >= 0; i-- {
		out = append(out, s.runs[i])
	}
	return out, nil
}

// Run returns a single run by ID.
func (s *MemStore) Run(_ context.Context, runID string) (MatchRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.runByID[runID]
	if !ok {
		return MatchRun{}, ErrRunNotFound
	}
	return s.runs[i], nil
}

// Counts returns the number of stored teacher and student profiles.
func (s *MemStore) Counts(_ context.Context) (teachers, students int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.teachers), len(s.students)
}
