package chat

import (
	"fmt"
	"strings"

	"github.com/okian/classmatch/internal/domain/model"
)

// FormatTeacherDoc summarizes a teacher profile into the sentence indexed by
// the assistant.
func FormatTeacherDoc(p model.TeacherProfile) string {
	strengths := joinCapped(p.Strengths, 4)
	if strengths == "" {
		strengths = "general instructional support"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Teacher %s focuses on %s.", orUnknown(p.TeacherID), strengths)
	if weaknesses := joinCapped(p.Weaknesses, 3); weaknesses != "" {
		fmt.Fprintf(&b, " Growth areas include %s.", weaknesses)
	}
	fmt.Fprintf(&b,
		" Key scores: subject expertise %g, patience %g, innovation %g, structure %g, communication %g, special needs support %g, engagement %g, classroom management %g",
		p.SubjectExpertise, p.PatienceLevel, p.Innovation, p.Structure,
		p.Communication, p.SpecialNeedsSupport, p.StudentEngagement, p.ClassroomManagement,
	)
	return b.String()
}

// FormatStudentDoc summarizes a student profile into the sentence indexed by
// the assistant.
func FormatStudentDoc(p model.StudentProfile) string {
	style := p.LearningStyle
	if style == "" {
		style = "blended"
	}
	return fmt.Sprintf(
		"Student %s learns best via %s approaches with confidence level %g. Needs snapshot: subject support need %g, patience need %g, innovation need %g, structure need %g, communication need %g, special needs support %g, engagement need %g, behavior support need %g",
		orUnknown(p.StudentID), style, p.ConfidenceLevel,
		p.SubjectSupportNeeded, p.PatienceNeeded, p.InnovationNeeded, p.StructureNeeded,
		p.CommunicationNeeded, p.SpecialNeedsSupport, p.EngagementNeeded, p.BehaviorSupportNeed,
	)
}

func joinCapped(items []string, max int) string {
	if len(items) > max {
		items = items[:max]
	}
	return strings.Join(items, ", ")
}

func orUnknown(id string) string {
	if id == "" {
		return "Unknown"
	}
	return id
}
