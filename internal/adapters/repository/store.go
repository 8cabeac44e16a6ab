// Package repository defines the profile and match-run store interface and errors.
package repository

import (
	"context"
	"time"

	"github.com/okian/classmatch/internal/domain/model"
)

// MatchRun is one stored matching result.
type MatchRun struct {
	RunID        string        `json:"run_id"`
	CreatedAt    time.Time     `json:"created_at"`
	Roster       *model.Roster `json:"roster"`
	TeacherCount int           `json:"teacher_count"`
	StudentCount int           `json:"student_count"`
	AverageScore float64       `json:"average_score"`
}

// Store provides read/write access to extracted profiles and recent match runs.
//
// Profiles are keyed by the content digest of the document they were
// extracted from, so re-uploading the same document overwrites in place
// instead of duplicating a teacher or student.
type Store interface {
	// SaveTeacher stores a teacher profile under its document digest.
	SaveTeacher(ctx context.Context, digest string, p model.TeacherProfile) error
	// SaveStudent stores a student profile under its document digest.
	SaveStudent(ctx context.Context, digest string, p model.StudentProfile) error

	// TeacherByDigest returns the profile extracted from the document with
	// the given digest. Returns ErrNotFound if the digest is unknown.
	TeacherByDigest(ctx context.Context, digest string) (model.TeacherProfile, error)
	// StudentByDigest is the student counterpart of TeacherByDigest.
	StudentByDigest(ctx context.Context, digest string) (model.StudentProfile, error)

	// Teachers returns all stored teacher profiles in insertion order.
	Teachers(ctx context.Context) ([]model.TeacherProfile, error)
	// Students returns all stored student profiles in insertion order.
	Students(ctx context.Context) ([]model.StudentProfile, error)

	// SaveRun stores a match run, evicting the oldest run beyond the
	// configured retention.
	SaveRun(ctx context.Context, run MatchRun) error
	// Runs returns stored runs newest first.
	Runs(ctx context.Context) ([]MatchRun, error)
	// Run returns a single run by ID. Returns ErrRunNotFound if unknown.
	Run(ctx context.Context, runID string) (MatchRun, error)

	// Counts returns the number of stored teacher and student profiles.
	Counts(ctx context.Context) (teachers, students int)
}
