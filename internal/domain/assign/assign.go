// Package assign turns a compatibility matrix into a one-to-one student to
// teacher assignment that maximizes total compatibility.
package assign

import (
	"fmt"

	"github.com/okian/classmatch/internal/domain/model"
	"github.com/okian/classmatch/internal/domain/scoring"
)

// Students solves the assignment problem over the score matrix and returns
// the pre-balancing roster.
//
// The solver pairs min(|students|, |teachers|) entities optimally. Students
// it leaves unpaired (when students outnumber teachers) are distributed by
// the round-robin tie-break policy: cycling through the already-assigned
// teacher identifiers in first-seen order, ignoring compatibility. This
// guarantees full student coverage and is deterministic given input order.
func Students(matrix scoring.Matrix, teachers []model.TeacherProfile, students []model.StudentProfile) (*model.Roster, error) {
	roster := model.NewRoster()
	if len(teachers) == 0 || len(students) == 0 {
		return roster, nil
	}
	if !matrix.Finite() {
		return nil, ErrNonFiniteScore
	}
	if matrix.Rows() != len(students) || matrix.Cols() != len(teachers) {
		return nil, fmt.Errorf("%w: matrix is %dx%d, want %dx%d",
			ErrShapeMismatch, matrix.Rows(), matrix.Cols(), len(students), len(teachers))
	}

	// Maximize total compatibility by minimizing the negated matrix.
	cost := make([][]float64, matrix.Rows())
	for i := range cost {
		cost[i] = make([]float64, matrix.Cols())
		for j := range cost[i] {
			cost[i][j] = -matrix.At(i, j)
		}
	}

	pairing := solveRectangular(cost)

	var unassigned []string
	for i, s := range students {
		j := pairing[i]
		if j < 0 {
			unassigned = append(unassigned, s.StudentID)
			continue
		}
		roster.Append(teachers[j].TeacherID, s.StudentID)
	}

	// Round-robin overflow over first-seen teacher order.
	teacherIDs := roster.TeacherIDs()
	if len(teacherIDs) == 0 {
		// Cannot happen for a dense finite matrix, but guard the modulo.
		return nil, ErrInfeasible
	}
	for i, sid := range unassigned {
		roster.Append(teacherIDs[i%len(teacherIDs)], sid)
	}

	return roster, nil
}
