// Package samples generates synthetic teacher and student profiles for
// fixtures, demos and load tests.
package samples

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"
	"github.com/okian/classmatch/internal/domain/model"
)

// Profile value bounds on the shared scale.
const (
	valueMin = 1.0
	valueMax = 10.0
	jitter   = 2.0
)

// teacherPersona seeds one archetypal capability shape.
type teacherPersona struct {
	archetype string
	base      model.TeacherProfile
	strengths []string
	weakness  string
}

var teacherPersonas = []teacherPersona{
	{
		archetype: "structured mentor",
		base: model.TeacherProfile{
			SubjectExpertise: 8, PatienceLevel: 6, Innovation: 4, Structure: 9,
			Communication: 7, SpecialNeedsSupport: 4, StudentEngagement: 6, ClassroomManagement: 9,
		},
		strengths: []string{"Clear lesson plans", "Consistent routines"},
		weakness:  "Slow to improvise",
	},
	{
		archetype: "creative facilitator",
		base: model.TeacherProfile{
			SubjectExpertise: 6, PatienceLevel: 7, Innovation: 9, Structure: 4,
			Communication: 8, SpecialNeedsSupport: 5, StudentEngagement: 9, ClassroomManagement: 5,
		},
		strengths: []string{"Project-based learning", "Technology integration"},
		weakness:  "Loose structure",
	},
	{
		archetype: "patient coach",
		base: model.TeacherProfile{
			SubjectExpertise: 6, PatienceLevel: 9, Innovation: 5, Structure: 6,
			Communication: 8, SpecialNeedsSupport: 9, StudentEngagement: 7, ClassroomManagement: 6,
		},
		strengths: []string{"Empathetic", "Special needs experience"},
		weakness:  "Covers material slowly",
	},
	{
		archetype: "subject specialist",
		base: model.TeacherProfile{
			SubjectExpertise: 10, PatienceLevel: 5, Innovation: 6, Structure: 7,
			Communication: 6, SpecialNeedsSupport: 3, StudentEngagement: 5, ClassroomManagement: 7,
		},
		strengths: []string{"Deep content knowledge", "Competition prep"},
		weakness:  "Impatient with basics",
	},
}

// studentPersona seeds one archetypal need shape.
type studentPersona struct {
	ideal string
	base  model.StudentProfile
}

var studentPersonas = []studentPersona{
	{
		ideal: "a patient teacher who explains things step by step",
		base: model.StudentProfile{
			SubjectSupportNeeded: 8, PatienceNeeded: 9, InnovationNeeded: 4, StructureNeeded: 8,
			CommunicationNeeded: 7, SpecialNeedsSupport: 3, EngagementNeeded: 6, BehaviorSupportNeed: 4,
			ConfidenceLevel: 3,
		},
	},
	{
		ideal: "an expert who challenges me with hard problems",
		base: model.StudentProfile{
			SubjectSupportNeeded: 3, PatienceNeeded: 3, InnovationNeeded: 7, StructureNeeded: 4,
			CommunicationNeeded: 5, SpecialNeedsSupport: 1, EngagementNeeded: 5, BehaviorSupportNeed: 2,
			ConfidenceLevel: 8,
		},
	},
	{
		ideal: "a creative teacher who makes lessons fun and hands-on",
		base: model.StudentProfile{
			SubjectSupportNeeded: 5, PatienceNeeded: 5, InnovationNeeded: 9, StructureNeeded: 3,
			CommunicationNeeded: 6, SpecialNeedsSupport: 2, EngagementNeeded: 9, BehaviorSupportNeed: 5,
			ConfidenceLevel: 6,
		},
	},
	{
		ideal: "someone experienced with learning differences who keeps class calm",
		base: model.StudentProfile{
			SubjectSupportNeeded: 7, PatienceNeeded: 8, InnovationNeeded: 5, StructureNeeded: 7,
			CommunicationNeeded: 8, SpecialNeedsSupport: 9, EngagementNeeded: 7, BehaviorSupportNeed: 8,
			ConfidenceLevel: 4,
		},
	},
}

var learningStyles = []string{"visual", "auditory", "kinesthetic"}

// Generator produces reproducible synthetic profiles for a given seed.
type Generator struct {
	rng *rand.Rand
}

// New creates a generator. The same seed yields the same profiles.
func New(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

// Teachers generates n teacher profiles cycling through the personas.
func (g *Generator) Teachers(n int) []model.TeacherProfile {
	out := make([]model.TeacherProfile, n)
	for i := range out {
		persona := teacherPersonas[i%len(teacherPersonas)]
		p := persona.base
		p.TeacherID = fmt.Sprintf("T-%s", g.shortID())
		p.Archetype = persona.archetype
		p.Strengths = append([]string(nil), persona.strengths...)
		p.Weaknesses = []string{persona.weakness}

		p.SubjectExpertise = g.perturb(p.SubjectExpertise)
		p.PatienceLevel = g.perturb(p.PatienceLevel)
		p.Innovation = g.perturb(p.Innovation)
		p.Structure = g.perturb(p.Structure)
		p.Communication = g.perturb(p.Communication)
		p.SpecialNeedsSupport = g.perturb(p.SpecialNeedsSupport)
		p.StudentEngagement = g.perturb(p.StudentEngagement)
		p.ClassroomManagement = g.perturb(p.ClassroomManagement)
		out[i] = p
	}
	return out
}

// Students generates n student profiles cycling through the personas.
func (g *Generator) Students(n int) []model.StudentProfile {
	out := make([]model.StudentProfile, n)
	for i := range out {
		persona := studentPersonas[i%len(studentPersonas)]
		p := persona.base
		p.StudentID = fmt.Sprintf("S-%s", g.shortID())
		p.LearningStyle = learningStyles[g.rng.Intn(len(learningStyles))]
		p.IdealTeacher = persona.ideal

		p.SubjectSupportNeeded = g.perturb(p.SubjectSupportNeeded)
		p.PatienceNeeded = g.perturb(p.PatienceNeeded)
		p.InnovationNeeded = g.perturb(p.InnovationNeeded)
		p.StructureNeeded = g.perturb(p.StructureNeeded)
		p.CommunicationNeeded = g.perturb(p.CommunicationNeeded)
		p.SpecialNeedsSupport = g.perturb(p.SpecialNeedsSupport)
		p.EngagementNeeded = g.perturb(p.EngagementNeeded)
		p.BehaviorSupportNeed = g.perturb(p.BehaviorSupportNeed)
		p.ConfidenceLevel = g.perturb(p.ConfidenceLevel)
		out[i] = p
	}
	return out
}

// perturb jitters a base value while keeping it on the scale.
func (g *Generator) perturb(base float64) float64 {
	v := base + (g.rng.Float64()*2-1)*jitter
	if v < valueMin {
		v = valueMin
	}
	if v > valueMax {
		v = valueMax
	}
	// One decimal place keeps fixtures readable.
	return float64(int(v*10)) / 10
}

// shortID derives a compact unique suffix from a UUID, with the random bytes
// drawn from the seeded source so fixtures are reproducible.
func (g *Generator) shortID() string {
	var b [16]byte
	g.rng.Read(b[:]) //nolint:errcheck // rand.Rand.Read never fails
	id, err := uuid.FromBytes(b[:])
	if err != nil {
		return uuid.New().String()[:8]
	}
	return id.String()[:8]
}
