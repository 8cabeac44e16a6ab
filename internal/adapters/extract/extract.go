package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/okian/classmatch/internal/domain/model"
	"github.com/okian/classmatch/pkg/logger"
)

const teacherPromptFormat = `Analyze this teacher profile and rate them on a scale of 1-10 for each dimension.

Teacher Profile:
%s

Please provide scores for:
- subject_expertise: Deep knowledge in subject area
- patience_level: Ability to work with struggling students
- innovation: Use of creative teaching methods
- structure: Preference for organized, systematic approach
- communication: Clear explanation and feedback skills
- special_needs_support: Experience with learning disabilities
- student_engagement: Ability to motivate and connect
- classroom_management: Maintaining productive environment

Return ONLY valid JSON in this format:
{
    "teacher_id": %q,
    "subject_expertise": 8,
    "patience_level": 7,
    "innovation": 6,
    "structure": 9,
    "communication": 8,
    "special_needs_support": 5,
    "student_engagement": 7,
    "classroom_management": 8,
    "raw_strengths": ["strength1", "strength2"],
    "raw_weaknesses": ["weakness1", "weakness2"]
}`

const studentPromptFormat = `You are an educational data analyst. Based on the student's grades and
feedback, assign numerical scores (1-10) for how much support this student
needs in each area.

The higher the score, the more support they need from teachers.

Academic Data:
%s

Return ONLY valid JSON in this format:
{
    "student_id": %q,
    "subject_support_needed": 0,
    "patience_needed": 0,
    "innovation_needed": 0,
    "structure_needed": 0,
    "communication_needed": 0,
    "special_needs_support": 0,
    "engagement_needed": 0,
    "behavior_support_needed": 0,
    "learning_style": "visual/auditory/kinesthetic",
    "confidence_level": 0
}`

// Completer abstracts the chat-completions call so the extractor can run
// offline in tests and in deployments without an API key.
type Completer interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}

// Extractor produces profiles from document text. Without a completer it
// returns deterministic fallback profiles so the rest of the pipeline keeps
// working in demos and tests.
type Extractor struct {
	completer Completer
	logger    logger.Logger
}

// New creates an extractor with configuration options.
func New(opts ...Option) *Extractor {
	e := &Extractor{
		logger: logger.Get().Named("extract"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ExtractTeacher rates a teacher document on every dimension. A failed or
// unparseable model response degrades to the fallback profile rather than
// failing the upload.
func (e *Extractor) ExtractTeacher(ctx context.Context, name, text string) (*model.TeacherProfile, error) {
	if e.completer == nil {
		e.logger.Warn(ctx, "no completion client configured, using fallback profile",
			logger.String("teacher", name))
		return fallbackTeacher(name), nil
	}

	prompt := fmt.Sprintf(teacherPromptFormat, text, name)
	raw, err := e.completer.Complete(ctx, []Message{{Role: "user", Content: prompt}})
	if err != nil {
		e.logger.Warn(ctx, "completion failed, using fallback profile",
			logger.String("teacher", name), logger.Error(err))
		return fallbackTeacher(name), nil
	}

	var profile model.TeacherProfile
	if err := json.Unmarshal([]byte(extractJSONText(raw)), &profile); err != nil {
		e.logger.Warn(ctx, "invalid JSON from model, using fallback profile",
			logger.String("teacher", name), logger.Error(err))
		return fallbackTeacher(name), nil
	}

	profile.TeacherID = name
	return &profile, nil
}

// ExtractStudent rates how much support a student needs on every dimension,
// from the academic block assembled out of their CSV row.
func (e *Extractor) ExtractStudent(ctx context.Context, name, text string) (*model.StudentProfile, error) {
	if e.completer == nil {
		e.logger.Warn(ctx, "no completion client configured, using fallback profile",
			logger.String("student", name))
		return fallbackStudent(name), nil
	}

	prompt := fmt.Sprintf(studentPromptFormat, text, name)
	raw, err := e.completer.Complete(ctx, []Message{{Role: "user", Content: prompt}})
	if err != nil {
		e.logger.Warn(ctx, "completion failed, using fallback profile",
			logger.String("student", name), logger.Error(err))
		return fallbackStudent(name), nil
	}

	var profile model.StudentProfile
	if err := json.Unmarshal([]byte(extractJSONText(raw)), &profile); err != nil {
		e.logger.Warn(ctx, "invalid JSON from model, using fallback profile",
			logger.String("student", name), logger.Error(err))
		return fallbackStudent(name), nil
	}

	profile.StudentID = name
	return &profile, nil
}

var (
	fencedJSONRe = regexp.MustCompile("(?s)```(?:json)?(.*?)```")
	braceJSONRe  = regexp.MustCompile(`(?s)\{.*\}`)
)

// extractJSONText pulls the JSON payload out of a model response that may
// wrap it in markdown fences or surround it with commentary.
func extractJSONText(text string) string {
	if m := fencedJSONRe.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := braceJSONRe.FindString(text); m != "" {
		return strings.TrimSpace(m)
	}
	return strings.TrimSpace(text)
}

func fallbackTeacher(name string) *model.TeacherProfile {
	return &model.TeacherProfile{
		TeacherID:           name,
		SubjectExpertise:    8,
		PatienceLevel:       7,
		Innovation:          6,
		Structure:           9,
		Communication:       8,
		SpecialNeedsSupport: 5,
		StudentEngagement:   7,
		ClassroomManagement: 8,
		Strengths:           []string{"Empathetic", "Organized"},
		Weaknesses:          []string{"Needs tech training"},
	}
}

func fallbackStudent(name string) *model.StudentProfile {
	return &model.StudentProfile{
		StudentID:            name,
		SubjectSupportNeeded: 6,
		PatienceNeeded:       8,
		InnovationNeeded:     5,
		StructureNeeded:      7,
		CommunicationNeeded:  6,
		SpecialNeedsSupport:  3,
		EngagementNeeded:     8,
		BehaviorSupportNeed:  4,
		LearningStyle:        "visual",
		ConfidenceLevel:      6,
	}
}
