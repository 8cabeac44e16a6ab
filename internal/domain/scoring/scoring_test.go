package scoring_test

import (
	"math"
	"testing"

	"github.com/okian/classmatch/internal/domain/model"
	"github.com/okian/classmatch/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func TestScorer_ScorePair(t *testing.T) {
	Convey("Given a scorer with default weights", t, func() {
		scorer := scoring.New()

		Convey("When a strong capability meets a strong need", func() {
			teacher := model.TeacherProfile{TeacherID: "T1", SubjectExpertise: 10}
			student := model.StudentProfile{StudentID: "S1", SubjectSupportNeeded: 10}
			score := scorer.ScorePair(teacher, student)

			Convey("Then the pair scores strictly above an all-zero pair", func() {
				zero := scorer.ScorePair(model.TeacherProfile{TeacherID: "T2"}, model.StudentProfile{StudentID: "S2"})
				So(score, ShouldBeGreaterThan, zero)
				So(zero, ShouldEqual, 0)
			})

			Convey("And the score stays within the [0,10] scale", func() {
				So(score, ShouldBeGreaterThanOrEqualTo, 0)
				So(score, ShouldBeLessThanOrEqualTo, 10)
			})
		})

		Convey("When every dimension is a perfect 10/10 match", func() {
			teacher := fullTeacher("T1", 10)
			student := fullStudent("S1", 10)

			Convey("Then the weighted mean reaches the top of the scale", func() {
				So(scorer.ScorePair(teacher, student), ShouldAlmostEqual, 10, 1e-9)
			})
		})

		Convey("When a profile is only partially extracted", func() {
			teacher := model.TeacherProfile{TeacherID: "T1", PatienceLevel: 8}
			student := model.StudentProfile{StudentID: "S1", PatienceNeeded: 8, CommunicationNeeded: 9}

			Convey("Then missing fields count as zero instead of failing", func() {
				score := scorer.ScorePair(teacher, student)
				So(score, ShouldBeGreaterThan, 0)
				So(math.IsNaN(score), ShouldBeFalse)
			})
		})

		Convey("When a student's need is acute", func() {
			teacher := model.TeacherProfile{TeacherID: "T1", SpecialNeedsSupport: 10}
			student := model.StudentProfile{StudentID: "S1", SpecialNeedsSupport: 8}

			Convey("Then the boosted dimension dominates the pair more", func() {
				flat := scoring.New(scoring.WithHighNeedBoost(model.ScaleMax+1, 1))
				So(scorer.ScorePair(teacher, student), ShouldBeGreaterThan, flat.ScorePair(teacher, student))
			})
		})
	})
}

func TestScorer_TextBlend(t *testing.T) {
	Convey("Given a teacher archetype and a student ideal-teacher text", t, func() {
		scorer := scoring.New()
		teacher := model.TeacherProfile{
			TeacherID:     "T1",
			PatienceLevel: 5,
			Archetype:     "patient structured mentor",
		}
		student := model.StudentProfile{
			StudentID:      "S1",
			PatienceNeeded: 5,
			IdealTeacher:   "patient structured mentor",
		}

		Convey("When the texts overlap fully", func() {
			blended := scorer.ScorePair(teacher, student)

			Convey("Then the blend lifts the score above the numeric-only value", func() {
				plain := scoring.New(scoring.WithTextBlendWeight(0))
				So(blended, ShouldBeGreaterThan, plain.ScorePair(teacher, student))
			})
		})

		Convey("When either side has no text", func() {
			teacher.Archetype = ""

			Convey("Then the blend is skipped entirely", func() {
				plain := scoring.New(scoring.WithTextBlendWeight(0))
				So(scorer.ScorePair(teacher, student), ShouldEqual, plain.ScorePair(teacher, student))
			})
		})
	})
}

func TestScorer_Score(t *testing.T) {
	Convey("Given teacher and student populations", t, func() {
		scorer := scoring.New()
		teachers := []model.TeacherProfile{fullTeacher("T1", 8), fullTeacher("T2", 5)}
		students := []model.StudentProfile{fullStudent("S1", 7), fullStudent("S2", 3), fullStudent("S3", 9)}

		Convey("When scoring the full cross product", func() {
			matrix := scorer.Score(teachers, students)

			Convey("Then the matrix is students x teachers", func() {
				So(matrix.Rows(), ShouldEqual, 3)
				So(matrix.Cols(), ShouldEqual, 2)
				So(matrix.Finite(), ShouldBeTrue)
			})

			Convey("And scoring is deterministic", func() {
				again := scorer.Score(teachers, students)
				So(again, ShouldResemble, matrix)
			})
		})

		Convey("When either population is empty", func() {
			Convey("Then the matrix degenerates without error", func() {
				So(scorer.Score(nil, students).Cols(), ShouldEqual, 0)
				So(scorer.Score(teachers, nil).Rows(), ShouldEqual, 0)
			})
		})
	})
}

func TestScorer_WeightOverrides(t *testing.T) {
	Convey("Given a weight override from configuration", t, func() {
		heavy := scoring.New(scoring.WithDimensionWeights(map[model.Dimension]float64{
			model.DimInnovation: 3.0,
		}))
		teacher := model.TeacherProfile{TeacherID: "T1", Innovation: 10}
		student := model.StudentProfile{StudentID: "S1", InnovationNeeded: 6}

		Convey("Then the overridden dimension weighs more than by default", func() {
			So(heavy.ScorePair(teacher, student), ShouldBeGreaterThan, scoring.New().ScorePair(teacher, student))
		})

		Convey("And non-positive overrides are ignored", func() {
			ignored := scoring.New(scoring.WithDimensionWeights(map[model.Dimension]float64{
				model.DimInnovation: -1,
			}))
			So(ignored.ScorePair(teacher, student), ShouldEqual, scoring.New().ScorePair(teacher, student))
		})
	})
}

func fullTeacher(id string, v float64) model.TeacherProfile {
	return model.TeacherProfile{
		TeacherID:           id,
		SubjectExpertise:    v,
		PatienceLevel:       v,
		Innovation:          v,
		Structure:           v,
		Communication:       v,
		SpecialNeedsSupport: v,
		StudentEngagement:   v,
		ClassroomManagement: v,
	}
}

func fullStudent(id string, v float64) model.StudentProfile {
	return model.StudentProfile{
		StudentID:            id,
		SubjectSupportNeeded: v,
		PatienceNeeded:       v,
		InnovationNeeded:     v,
		StructureNeeded:      v,
		CommunicationNeeded:  v,
		SpecialNeedsSupport:  v,
		EngagementNeeded:     v,
		BehaviorSupportNeed:  v,
	}
}
