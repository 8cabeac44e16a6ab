// Package engine wires the scorer, assigner and balancer into the sequential
// matching pipeline. A single Match call is a pure function of its inputs:
// no state survives between invocations and concurrent calls with disjoint
// inputs need no coordination.
package engine

import (
	"context"
	"fmt"

	"github.com/okian/classmatch/internal/domain/assign"
	"github.com/okian/classmatch/internal/domain/balance"
	"github.com/okian/classmatch/internal/domain/model"
	"github.com/okian/classmatch/internal/domain/scoring"
)

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithScorer replaces the default compatibility scorer.
func WithScorer(s *scoring.Scorer) Option {
	return func(e *Engine) {
		if s != nil {
			e.scorer = s
		}
	}
}

// Engine runs the three-stage matching pipeline.
type Engine struct {
	scorer *scoring.Scorer
}

// New creates an Engine with a default scorer.
func New(opts ...Option) *Engine {
	e := &Engine{scorer: scoring.New()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Match produces the final class rosters for the given populations.
//
// Constraints are validated up front; empty teacher or student lists
// short-circuit to an empty roster without error. Every input student ends
// up in exactly one class of the result; a teacher appears only if its
// class is non-empty.
func (e *Engine) Match(
	ctx context.Context,
	teachers []model.TeacherProfile,
	students []model.StudentProfile,
	constraints model.Constraints,
) (*model.Roster, error) {
	if err := constraints.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("match aborted: %w", err)
	}
	if len(teachers) == 0 || len(students) == 0 {
		return model.NewRoster(), nil
	}

	matrix := e.scorer.Score(teachers, students)

	assigned, err := assign.Students(matrix, teachers, students)
	if err != nil {
		return nil, fmt.Errorf("assignment failed: %w", err)
	}

	balanced, err := balance.Classes(assigned, constraints)
	if err != nil {
		return nil, err
	}
	return balanced, nil
}

// ScoreMatrix exposes the raw compatibility matrix for reporting layers.
func (e *Engine) ScoreMatrix(teachers []model.TeacherProfile, students []model.StudentProfile) scoring.Matrix {
	return e.scorer.Score(teachers, students)
}

// ScorePair exposes a single pairwise score for reporting layers.
func (e *Engine) ScorePair(teacher model.TeacherProfile, student model.StudentProfile) float64 {
	return e.scorer.ScorePair(teacher, student)
}
