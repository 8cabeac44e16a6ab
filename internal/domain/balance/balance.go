// Package balance redistributes a one-to-one assignment into final class
// rosters that honor min/max class size bounds while conserving the total
// student count exactly.
package balance

import (
	"fmt"

	"github.com/okian/classmatch/internal/domain/model"
)

// Classes rebalances the pre-balancing roster against the size constraints.
//
// Algorithm: flatten all students into one ordered pool (teacher first-seen
// order, then per-class order), take avg = total/teachers with integer
// division, and hand each teacher clamp(avg, min, max) students off the
// front of the pool. Leftovers are appended round-robin over the original
// teacher order; a leftover recipient may therefore exceed max_class_size.
// That overflow is the documented coverage-over-cap policy, not a bug.
// Teachers whose final class is empty are dropped.
//
// The operation is idempotent up to membership shuffling between
// identically-sized classes: rebalancing an already-balanced roster with the
// same constraints yields the same multiset of class sizes and the same
// total coverage.
func Classes(roster *model.Roster, constraints model.Constraints) (*model.Roster, error) {
	if err := constraints.Validate(); err != nil {
		return nil, fmt.Errorf("balance: %w", err)
	}

	teacherIDs := roster.TeacherIDs()
	balanced := model.NewRoster()
	if len(teacherIDs) == 0 {
		return balanced, nil
	}

	pool := make([]string, 0, roster.TotalStudents())
	for _, tid := range teacherIDs {
		pool = append(pool, roster.Class(tid)...)
	}

	avg := len(pool) / len(teacherIDs)
	size := constraints.Clamp(avg)

	idx := 0
	for _, tid := range teacherIDs {
		end := idx + size
		if end > len(pool) {
			end = len(pool)
		}
		if idx < end {
			balanced.SetClass(tid, pool[idx:end])
		}
		idx = end
	}

	// Leftovers: clamped sizes summed to less than the pool.
	for i, sid := range pool[idx:] {
		balanced.Append(teacherIDs[i%len(teacherIDs)], sid)
	}

	return balanced, nil
}
