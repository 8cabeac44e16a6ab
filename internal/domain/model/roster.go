package model

import (
	"encoding/json"
	"sort"
)

// Roster maps each teacher to the ordered list of students assigned to them.
// Teacher order is first-append order; it drives the deterministic round-robin
// tie-break and the balancer's pooling order, so it is preserved explicitly
// rather than relying on map iteration.
type Roster struct {
	order   []string
	classes map[string][]string
}

// NewRoster returns an empty roster.
func NewRoster() *Roster {
	return &Roster{classes: make(map[string][]string)}
}

// Append adds a student to a teacher's class, registering the teacher on
// first sight.
func (r *Roster) Append(teacherID, studentID string) {
	if _, ok := r.classes[teacherID]; !ok {
		r.order = append(r.order, teacherID)
	}
	r.classes[teacherID] = append(r.classes[teacherID], studentID)
}

// SetClass replaces a teacher's class wholesale, registering the teacher on
// first sight. The slice is copied.
func (r *Roster) SetClass(teacherID string, studentIDs []string) {
	if _, ok := r.classes[teacherID]; !ok {
		r.order = append(r.order, teacherID)
	}
	r.classes[teacherID] = append([]string(nil), studentIDs...)
}

// TeacherIDs returns teacher identifiers in first-seen order.
func (r *Roster) TeacherIDs() []string {
	return append([]string(nil), r.order...)
}

// Class returns a copy of the student list for a teacher.
func (r *Roster) Class(teacherID string) []string {
	return append([]string(nil), r.classes[teacherID]...)
}

// Len returns the number of teachers with a class.
func (r *Roster) Len() int {
	return len(r.order)
}

// TotalStudents returns the number of students across all classes.
func (r *Roster) TotalStudents() int {
	total := 0
	for _, tid := range r.order {
		total += len(r.classes[tid])
	}
	return total
}

// Classes returns a copy of the full mapping.
func (r *Roster) Classes() map[string][]string {
	out := make(map[string][]string, len(r.classes))
	for tid, students := range r.classes {
		out[tid] = append([]string(nil), students...)
	}
	return out
}

// MarshalJSON renders the roster as {"teacher_id": ["student_id", ...], ...}.
func (r *Roster) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.classes) //nolint:wrapcheck // thin passthrough
}

// UnmarshalJSON rebuilds the roster from a plain mapping. Teacher order is
// not encoded in JSON, so it is reconstructed sorted for determinism.
func (r *Roster) UnmarshalJSON(data []byte) error {
	var m map[string][]string
	if err := json.Unmarshal(data, &m); err != nil {
		return err //nolint:wrapcheck // thin passthrough
	}
	*r = *FromClasses(m)
	return nil
}

// FromClasses builds a roster from a plain mapping with sorted teacher order.
func FromClasses(m map[string][]string) *Roster {
	r := NewRoster()
	ids := make([]string, 0, len(m))
	for tid := range m {
		ids = append(ids, tid)
	}
	sort.Strings(ids)
	for _, tid := range ids {
		r.SetClass(tid, m[tid])
	}
	return r
}
