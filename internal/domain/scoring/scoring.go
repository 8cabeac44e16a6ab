// Package scoring computes pairwise compatibility between teacher capability
// vectors and student need vectors.
//
// Convention: capability and need are compared directly on every dimension,
// including subject expertise, so a high capability paired with a high need
// is a good match. Earlier iterations of the formula inverted the subject
// axis; that variant is intentionally not supported.
package scoring

import (
	"math"

	"github.com/okian/classmatch/internal/domain/model"
)

// Default scoring configuration constants.
const (
	defaultHighNeedThreshold = 7.0  // need above this boosts the dimension weight
	defaultHighNeedBoost     = 1.25 // boost factor for acute needs
	defaultTextBlendWeight   = 0.2  // share of the final score taken from text overlap
	maxPairScore             = model.ScaleMax
)

// defaultWeights is the fixed per-dimension importance table. Special-needs
// support dominates; innovation and structure matter least.
func defaultWeights() map[model.Dimension]float64 {
	return map[model.Dimension]float64{
		model.DimSubject:       1.2,
		model.DimPatience:      1.1,
		model.DimInnovation:    0.8,
		model.DimStructure:     0.9,
		model.DimCommunication: 1.1,
		model.DimSpecialNeeds:  1.5,
		model.DimEngagement:    1.0,
		model.DimBehavior:      1.0,
	}
}

// Matrix is a dense score matrix, rows indexed by student position and
// columns by teacher position. Built fresh per invocation, never persisted.
type Matrix [][]float64

// Rows returns the number of students covered by the matrix.
func (m Matrix) Rows() int { return len(m) }

// Cols returns the number of teachers covered by the matrix.
func (m Matrix) Cols() int {
	if len(m) == 0 {
		return 0
	}
	return len(m[0])
}

// At returns the compatibility of student i with teacher j.
func (m Matrix) At(i, j int) float64 { return m[i][j] }

// Finite reports whether every entry is a finite number. A non-finite entry
// indicates corrupted upstream data and must abort the pipeline.
func (m Matrix) Finite() bool {
	for _, row := range m {
		for _, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return false
			}
		}
	}
	return true
}

// Option applies a configuration option to the Scorer.
type Option func(*Scorer)

// WithDimensionWeights overrides individual dimension weights. Unknown or
// non-positive entries are ignored.
func WithDimensionWeights(weights map[model.Dimension]float64) Option {
	return func(s *Scorer) {
		for d, w := range weights {
			if _, ok := s.weights[d]; ok && w > 0 {
				s.weights[d] = w
			}
		}
	}
}

// WithHighNeedBoost sets the acute-need threshold and boost factor.
func WithHighNeedBoost(threshold, boost float64) Option {
	return func(s *Scorer) {
		if threshold > 0 && boost > 0 {
			s.highNeedThreshold = threshold
			s.highNeedBoost = boost
		}
	}
}

// WithTextBlendWeight sets the share of the pair score taken from the
// archetype/ideal-teacher text overlap. Zero disables the blend.
func WithTextBlendWeight(weight float64) Option {
	return func(s *Scorer) {
		if weight >= 0 && weight <= 1 {
			s.textBlendWeight = weight
		}
	}
}

// Scorer computes compatibility matrices. It is stateless across calls and
// safe for concurrent use once constructed.
type Scorer struct {
	weights           map[model.Dimension]float64
	highNeedThreshold float64
	highNeedBoost     float64
	textBlendWeight   float64
}

// New creates a Scorer with the fixed default weight table.
func New(opts ...Option) *Scorer {
	s := &Scorer{
		weights:           defaultWeights(),
		highNeedThreshold: defaultHighNeedThreshold,
		highNeedBoost:     defaultHighNeedBoost,
		textBlendWeight:   defaultTextBlendWeight,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Score builds the dense compatibility matrix for every student/teacher pair.
// Either list may be empty; the result is then a zero-row or zero-column
// matrix and the caller short-circuits to an empty roster.
func (s *Scorer) Score(teachers []model.TeacherProfile, students []model.StudentProfile) Matrix {
	matrix := make(Matrix, len(students))
	for i := range students {
		matrix[i] = make([]float64, len(teachers))
		for j := range teachers {
			matrix[i][j] = s.ScorePair(teachers[j], students[i])
		}
	}
	return matrix
}

// ScorePair combines the eight paired dimensions into one [0,10] scalar.
//
// Each dimension contributes (capability*need)/10, so two mid-scale values
// of 5 contribute 2.5 before weighting. The pair score is the weighted mean
// of those contributions; when a student's need exceeds the high-need
// threshold, that dimension's weight is boosted for this pair only.
func (s *Scorer) ScorePair(teacher model.TeacherProfile, student model.StudentProfile) float64 {
	var sum, weightSum float64
	for _, d := range model.Dimensions() {
		capability := teacher.Capability(d)
		need := student.Need(d)

		w := s.weights[d]
		if need > s.highNeedThreshold {
			w *= s.highNeedBoost
		}

		sum += w * (capability * need / model.ScaleMax)
		weightSum += w
	}
	if weightSum == 0 {
		return 0
	}
	score := sum / weightSum

	if s.textBlendWeight > 0 && teacher.Archetype != "" && student.IdealTeacher != "" {
		overlap := tokenOverlap(teacher.Archetype, student.IdealTeacher) * maxPairScore
		score = (1-s.textBlendWeight)*score + s.textBlendWeight*overlap
	}
	return score
}
