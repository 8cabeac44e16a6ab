// Package model contains domain models passed between layers.
package model

// Dimension names the paired axes a teacher capability vector and a student
// need vector are compared on. The order below is the canonical vector order
// used everywhere in the engine.
type Dimension string

// Canonical dimensions, teacher side / student side.
const (
	DimSubject       Dimension = "subject"        // subject_expertise / subject_support_needed
	DimPatience      Dimension = "patience"       // patience_level / patience_needed
	DimInnovation    Dimension = "innovation"     // innovation / innovation_needed
	DimStructure     Dimension = "structure"      // structure / structure_needed
	DimCommunication Dimension = "communication"  // communication / communication_needed
	DimSpecialNeeds  Dimension = "special_needs"  // special_needs_support on both sides
	DimEngagement    Dimension = "engagement"     // student_engagement / engagement_needed
	DimBehavior      Dimension = "behavior"       // classroom_management / behavior_support_needed
)

// Dimensions returns the canonical dimension order.
func Dimensions() []Dimension {
	return []Dimension{
		DimSubject,
		DimPatience,
		DimInnovation,
		DimStructure,
		DimCommunication,
		DimSpecialNeeds,
		DimEngagement,
		DimBehavior,
	}
}

// ScaleMax is the upper bound of every profile value; the lower bound is 0.
const ScaleMax = 10.0

// TeacherProfile is a teacher's capability vector on the [0,10] scale.
// Field names mirror the extraction schema; absent values stay 0 and are
// treated as "no signal", never as an error.
type TeacherProfile struct {
	TeacherID           string   `json:"teacher_id" yaml:"teacher_id"`
	SubjectExpertise    float64  `json:"subject_expertise" yaml:"subject_expertise"`
	PatienceLevel       float64  `json:"patience_level" yaml:"patience_level"`
	Innovation          float64  `json:"innovation" yaml:"innovation"`
	Structure           float64  `json:"structure" yaml:"structure"`
	Communication       float64  `json:"communication" yaml:"communication"`
	SpecialNeedsSupport float64  `json:"special_needs_support" yaml:"special_needs_support"`
	StudentEngagement   float64  `json:"student_engagement" yaml:"student_engagement"`
	ClassroomManagement float64  `json:"classroom_management" yaml:"classroom_management"`
	Archetype           string   `json:"archetype,omitempty" yaml:"archetype,omitempty"`
	Strengths           []string `json:"raw_strengths,omitempty" yaml:"raw_strengths,omitempty"`
	Weaknesses          []string `json:"raw_weaknesses,omitempty" yaml:"raw_weaknesses,omitempty"`
}

// Capability returns the teacher-side value for a dimension.
func (p TeacherProfile) Capability(d Dimension) float64 {
	switch d {
	case DimSubject:
		return p.SubjectExpertise
	case DimPatience:
		return p.PatienceLevel
	case DimInnovation:
		return p.Innovation
	case DimStructure:
		return p.Structure
	case DimCommunication:
		return p.Communication
	case DimSpecialNeeds:
		return p.SpecialNeedsSupport
	case DimEngagement:
		return p.StudentEngagement
	case DimBehavior:
		return p.ClassroomManagement
	}
	return 0
}

// Vector returns the capability vector in canonical dimension order.
func (p TeacherProfile) Vector() []float64 {
	dims := Dimensions()
	v := make([]float64, len(dims))
	for i, d := range dims {
		v[i] = p.Capability(d)
	}
	return v
}

// StudentProfile is a student's need vector on the same [0,10] scale,
// interpreted as "how much support is required" on each axis.
type StudentProfile struct {
	StudentID            string  `json:"student_id" yaml:"student_id"`
	SubjectSupportNeeded float64 `json:"subject_support_needed" yaml:"subject_support_needed"`
	PatienceNeeded       float64 `json:"patience_needed" yaml:"patience_needed"`
	InnovationNeeded     float64 `json:"innovation_needed" yaml:"innovation_needed"`
	StructureNeeded      float64 `json:"structure_needed" yaml:"structure_needed"`
	CommunicationNeeded  float64 `json:"communication_needed" yaml:"communication_needed"`
	SpecialNeedsSupport  float64 `json:"special_needs_support" yaml:"special_needs_support"`
	EngagementNeeded     float64 `json:"engagement_needed" yaml:"engagement_needed"`
	BehaviorSupportNeed  float64 `json:"behavior_support_needed" yaml:"behavior_support_needed"`
	LearningStyle        string  `json:"learning_style,omitempty" yaml:"learning_style,omitempty"`
	ConfidenceLevel      float64 `json:"confidence_level,omitempty" yaml:"confidence_level,omitempty"`
	IdealTeacher         string  `json:"ideal_teacher,omitempty" yaml:"ideal_teacher,omitempty"`
}

// Need returns the student-side value for a dimension.
func (p StudentProfile) Need(d Dimension) float64 {
	switch d {
	case DimSubject:
		return p.SubjectSupportNeeded
	case DimPatience:
		return p.PatienceNeeded
	case DimInnovation:
		return p.InnovationNeeded
	case DimStructure:
		return p.StructureNeeded
	case DimCommunication:
		return p.CommunicationNeeded
	case DimSpecialNeeds:
		return p.SpecialNeedsSupport
	case DimEngagement:
		return p.EngagementNeeded
	case DimBehavior:
		return p.BehaviorSupportNeed
	}
	return 0
}

// Vector returns the need vector in canonical dimension order.
func (p StudentProfile) Vector() []float64 {
	dims := Dimensions()
	v := make([]float64, len(dims))
	for i, d := range dims {
		v[i] = p.Need(d)
	}
	return v
}
