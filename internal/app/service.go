// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/okian/classmatch/internal/adapters/extract"
	jobqueue "github.com/okian/classmatch/internal/adapters/mq/queue"
	workerpool "github.com/okian/classmatch/internal/adapters/mq/worker"
	"github.com/okian/classmatch/internal/adapters/repository"
	"github.com/okian/classmatch/internal/chat"
	"github.com/okian/classmatch/internal/domain/dedupe"
	"github.com/okian/classmatch/internal/domain/engine"
	"github.com/okian/classmatch/internal/domain/model"
	"github.com/okian/classmatch/pkg/logger"
	"github.com/okian/classmatch/pkg/metrics"
)

// Service wires the extraction pipeline, the matching engine and the chat
// assistant behind the HTTP API.
type Service struct {
	mu sync.RWMutex

	// Core components
	store     repository.Store
	deduper   dedupe.Deduper
	jobQueue  jobqueue.Queue
	pool      *workerpool.Pool
	engine    *engine.Engine
	assistant *chat.Assistant

	// Configuration
	workerCount      int
	queueSize        int
	dedupeSize       int
	maxRuns          int
	chatTopK         int
	snapshotDir      string
	engineOpts       []engine.Option
	extractCompleter extract.Completer
	chatCompleter    chat.Completer

	// State
	started bool

	// Logging
	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount: runtime.NumCPU() * 2,
		queueSize:   1024,
		dedupeSize:  10_000,
		maxRuns:     50,
		logger:      nil, // set on Start when not configured
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	s.logger.Info(ctx, "starting matching service...")

	s.store = repository.NewMemStore(
		repository.WithMaxRuns(s.maxRuns),
	)
	s.deduper = dedupe.NewInMemoryDeduper(
		dedupe.WithMaxSize(s.dedupeSize),
	)
	s.jobQueue = jobqueue.NewInMemoryQueue(
		jobqueue.WithCapacity(s.queueSize),
		jobqueue.WithBufferSize(s.queueSize),
	)
	s.engine = engine.New(s.engineOpts...)

	extractor := extract.New(
		extract.WithCompleter(s.extractCompleter),
		extract.WithLogger(s.logger.Named("extract")),
	)
	s.pool = workerpool.NewPool(
		s.workerCount,
		s.jobQueue,
		extractor,
		s.store,
		workerpool.WithUnrecorder(s.deduper),
	)
	s.pool.Start(ctx)

	chatOpts := []chat.Option{
		chat.WithLogger(s.logger.Named("chat")),
	}
	if s.chatCompleter != nil {
		chatOpts = append(chatOpts, chat.WithCompleter(s.chatCompleter))
	}
	if s.chatTopK > 0 {
		chatOpts = append(chatOpts, chat.WithTopK(s.chatTopK))
	}
	if s.snapshotDir != "" {
		chatOpts = append(chatOpts, chat.WithSnapshotDir(s.snapshotDir))
	}
	s.assistant = chat.New(chatOpts...)
	if restored, err := s.assistant.RestoreSnapshot(); err == nil {
		s.logger.Info(ctx, "restored chat index snapshot", logger.Int("documents", restored))
	} else if !errors.Is(err, chat.ErrNoSnapshot) {
		s.logger.Warn(ctx, "failed to restore chat index snapshot", logger.Error(err))
	}

	s.started = true
	s.logger.Info(ctx, "matching service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping matching service...")

	// Shutting down the pool closes the queue with it.
	if s.pool != nil {
		_ = s.pool.Shutdown(ctx)
	}

	s.started = false
	s.logger.Info(ctx, "matching service stopped")
}

// SeenAndRecord atomically checks if a document digest was seen and records
// it if not.
func (s *Service) SeenAndRecord(ctx context.Context, digest string) bool {
	return s.deduper.SeenAndRecord(ctx, digest)
}

// Unrecord removes a document digest from the seen list, allowing the
// document to be processed again.
func (s *Service) Unrecord(ctx context.Context, digest string) {
	s.deduper.Unrecord(ctx, digest)
}

// Enqueue submits an extraction job for asynchronous processing.
func (s *Service) Enqueue(ctx context.Context, j jobqueue.Job) bool {
	return s.jobQueue.Enqueue(ctx, j)
}

// TeacherByDigest returns the teacher profile extracted from the document
// with the given digest.
func (s *Service) TeacherByDigest(ctx context.Context, digest string) (model.TeacherProfile, error) {
	return s.store.TeacherByDigest(ctx, digest)
}

// StudentByDigest returns the student profile extracted from the document
// with the given digest.
func (s *Service) StudentByDigest(ctx context.Context, digest string) (model.StudentProfile, error) {
	return s.store.StudentByDigest(ctx, digest)
}

// Teachers returns all stored teacher profiles.
func (s *Service) Teachers(ctx context.Context) ([]model.TeacherProfile, error) {
	return s.store.Teachers(ctx)
}

// Students returns all stored student profiles.
func (s *Service) Students(ctx context.Context) ([]model.StudentProfile, error) {
	return s.store.Students(ctx)
}

// Runs returns stored match runs, newest first.
func (s *Service) Runs(ctx context.Context) ([]repository.MatchRun, error) {
	return s.store.Runs(ctx)
}

// Run returns a stored match run by ID.
func (s *Service) Run(ctx context.Context, runID string) (repository.MatchRun, error) {
	return s.store.Run(ctx, runID)
}

// Match runs the full pipeline over the given profiles and stores the result.
func (s *Service) Match(ctx context.Context, teachers []model.TeacherProfile, students []model.StudentProfile, constraints model.Constraints) (repository.MatchRun, error) {
	start := time.Now()

	roster, err := s.engine.Match(ctx, teachers, students, constraints)
	if err != nil {
		metrics.RecordMatchError()
		return repository.MatchRun{}, fmt.Errorf("match pipeline: %w", err)
	}
	metrics.RecordPairsScored(len(teachers) * len(students))

	run := repository.MatchRun{
		RunID:        uuid.New().String(),
		CreatedAt:    time.Now().UTC(),
		Roster:       roster,
		TeacherCount: len(teachers),
		StudentCount: len(students),
		AverageScore: s.averageScore(roster, teachers, students),
	}

	for _, teacherID := range roster.TeacherIDs() {
		metrics.ObserveClassSize(len(roster.Class(teacherID)))
	}
	metrics.RecordMatchRun(
		float64(time.Since(start).Milliseconds()),
		roster.Len(),
		roster.TotalStudents(),
	)

	if err := s.store.SaveRun(ctx, run); err != nil {
		return repository.MatchRun{}, fmt.Errorf("store match run: %w", err)
	}

	s.logger.Info(ctx, "match run completed",
		logger.String("runID", run.RunID),
		logger.Int("classes", roster.Len()),
		logger.Int("students", roster.TotalStudents()),
		logger.Float64("averageScore", run.AverageScore),
	)

	return run, nil
}

// averageScore is the mean compatibility of the matched pairs in the roster.
func (s *Service) averageScore(roster *model.Roster, teachers []model.TeacherProfile, students []model.StudentProfile) float64 {
	teacherByID := make(map[string]model.TeacherProfile, len(teachers))
	for _, t := range teachers {
		teacherByID[t.TeacherID] = t
	}
	studentByID := make(map[string]model.StudentProfile, len(students))
	for _, st := range students {
		studentByID[st.StudentID] = st
	}

	var sum float64
	var pairs int
	for _, teacherID := range roster.TeacherIDs() {
		teacher, ok := teacherByID[teacherID]
		if !ok {
			continue
		}
		for _, studentID := range roster.Class(teacherID) {
			student, ok := studentByID[studentID]
			if !ok {
				continue
			}
			sum += s.engine.ScorePair(teacher, student)
			pairs++
		}
	}
	if pairs == 0 {
		return 0
	}
	return sum / float64(pairs)
}

// IndexProfiles rebuilds the chat assistant's vector index.
func (s *Service) IndexProfiles(ctx context.Context, teachers []model.TeacherProfile, students []model.StudentProfile) (int, int, error) {
	return s.assistant.Index(ctx, teachers, students)
}

// Ask answers a question about the indexed profiles.
func (s *Service) Ask(ctx context.Context, question string, history []chat.Message) (chat.Answer, error) {
	return s.assistant.Ask(ctx, question, history)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"dedupeSize":  s.dedupeSize,
	}

	if s.started {
		teacherCount, studentCount := s.store.Counts(ctx)
		runs, _ := s.store.Runs(ctx)

		stats["queueLength"] = s.jobQueue.Len(ctx)
		stats["teachers"] = teacherCount
		stats["students"] = studentCount
		stats["storedRuns"] = len(runs)
		stats["indexedDocuments"] = s.assistant.IndexedCount()
		stats["dedupeEntries"] = s.deduper.Size()
	}

	return stats
}

// Size returns the current number of entries in the deduper.
func (s *Service) Size() int64 {
	if s.deduper == nil {
		return 0
	}
	return s.deduper.Size()
}
