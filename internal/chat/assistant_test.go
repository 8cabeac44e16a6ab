package chat_test

import (
	"context"
	"strings"
	"testing"

	"github.com/okian/classmatch/internal/chat"
	"github.com/okian/classmatch/internal/domain/model"
	"github.com/okian/classmatch/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

type scriptedCompleter struct {
	reply    string
	err      error
	messages []chat.Message
}

func (s *scriptedCompleter) Complete(_ context.Context, messages []chat.Message) (string, error) {
	s.messages = messages
	return s.reply, s.err
}

func sampleTeacher() model.TeacherProfile {
	return model.TeacherProfile{
		TeacherID:           "Mr. Chen",
		SubjectExpertise:    9,
		PatienceLevel:       8,
		SpecialNeedsSupport: 7,
		Strengths:           []string{"Patient mentoring", "Special needs experience"},
		Weaknesses:          []string{"Rigid pacing"},
	}
}

func sampleStudent() model.StudentProfile {
	return model.StudentProfile{
		StudentID:           "Ana",
		PatienceNeeded:      9,
		SpecialNeedsSupport: 8,
		LearningStyle:       "visual",
		ConfidenceLevel:     4,
	}
}

func TestFormatDocs(t *testing.T) {
	Convey("Given profiles to summarize", t, func() {
		Convey("A teacher summary names strengths, growth areas and scores", func() {
			doc := chat.FormatTeacherDoc(sampleTeacher())
			So(doc, ShouldContainSubstring, "Teacher Mr. Chen focuses on Patient mentoring, Special needs experience.")
			So(doc, ShouldContainSubstring, "Growth areas include Rigid pacing.")
			So(doc, ShouldContainSubstring, "subject expertise 9")
		})

		Convey("A teacher with no strengths gets the generic focus", func() {
			doc := chat.FormatTeacherDoc(model.TeacherProfile{TeacherID: "T"})
			So(doc, ShouldContainSubstring, "focuses on general instructional support")
		})

		Convey("A student summary names style, confidence and needs", func() {
			doc := chat.FormatStudentDoc(sampleStudent())
			So(doc, ShouldContainSubstring, "Student Ana learns best via visual approaches")
			So(doc, ShouldContainSubstring, "confidence level 4")
			So(doc, ShouldContainSubstring, "patience need 9")
		})
	})
}

func TestIndexAndRetrieve(t *testing.T) {
	Convey("Given an assistant with indexed profiles", t, func() {
		a := chat.New()
		teachers := []model.TeacherProfile{
			sampleTeacher(),
			{TeacherID: "Ms. Rivera", Innovation: 9, Strengths: []string{"Creative projects", "Technology integration"}},
		}
		tc, sc, err := a.Index(context.Background(), teachers, []model.StudentProfile{sampleStudent()})
		So(err, ShouldBeNil)
		So(tc, ShouldEqual, 2)
		So(sc, ShouldEqual, 1)
		So(a.IndexedCount(), ShouldEqual, 3)

		Convey("When querying about special needs experience", func() {
			docs := a.Retrieve("which teacher has special needs experience", 2)

			Convey("Then the matching teacher ranks first", func() {
				So(docs, ShouldNotBeEmpty)
				So(docs[0], ShouldContainSubstring, "Mr. Chen")
			})
		})

		Convey("When querying about creative technology teaching", func() {
			docs := a.Retrieve("creative technology projects", 1)
			So(docs, ShouldHaveLength, 1)
			So(docs[0], ShouldContainSubstring, "Ms. Rivera")
		})

		Convey("When the query shares no vocabulary with the corpus", func() {
			So(a.Retrieve("zyzzyva quux", 3), ShouldBeEmpty)
		})
	})

	Convey("Given nothing to index", t, func() {
		a := chat.New()
		_, _, err := a.Index(context.Background(), nil, nil)
		So(err, ShouldEqual, chat.ErrNothingToIndex)
	})
}

func TestAsk(t *testing.T) {
	ctx := context.Background()

	Convey("Given an assistant without a completion client", t, func() {
		a := chat.New()
		_, _, err := a.Index(ctx, []model.TeacherProfile{sampleTeacher()}, nil)
		So(err, ShouldBeNil)

		Convey("When asked about the indexed teacher", func() {
			answer, err := a.Ask(ctx, "who should mentor a patient student", nil)

			Convey("Then the local answer surfaces the summary", func() {
				So(err, ShouldBeNil)
				So(answer.Text, ShouldContainSubstring, "Mr. Chen")
				So(answer.ContextUsed, ShouldBeGreaterThan, 0)
			})
		})

		Convey("When asked an empty question", func() {
			_, err := a.Ask(ctx, "   ", nil)
			So(err, ShouldEqual, chat.ErrEmptyQuestion)
		})
	})

	Convey("Given an assistant with a completion client", t, func() {
		completer := &scriptedCompleter{reply: "Pair Ana with Mr. Chen."}
		a := chat.New(chat.WithCompleter(completer))
		_, _, err := a.Index(ctx, []model.TeacherProfile{sampleTeacher()}, []model.StudentProfile{sampleStudent()})
		So(err, ShouldBeNil)

		Convey("When a question is asked with history", func() {
			history := []chat.Message{
				{Role: "user", Content: "hello"},
				{Role: "assistant", Content: "hi"},
				{Role: "weird", Content: "   "},
			}
			answer, err := a.Ask(ctx, "who fits Ana best", history)

			Convey("Then the model answer comes back", func() {
				So(err, ShouldBeNil)
				So(answer.Text, ShouldEqual, "Pair Ana with Mr. Chen.")
			})

			Convey("And the prompt carries system, history and grounded question", func() {
				So(completer.messages[0].Role, ShouldEqual, "system")
				last := completer.messages[len(completer.messages)-1]
				So(last.Role, ShouldEqual, "user")
				So(last.Content, ShouldContainSubstring, "Context:")
				So(last.Content, ShouldContainSubstring, "who fits Ana best")

				var roles []string
				for _, m := range completer.messages[1 : len(completer.messages)-1] {
					roles = append(roles, m.Role)
				}
				So(roles, ShouldResemble, []string{"user", "assistant"})
			})
		})

		Convey("When the model returns a blank answer", func() {
			completer.reply = "   "
			answer, err := a.Ask(ctx, "anything", nil)
			So(err, ShouldBeNil)
			So(answer.Text, ShouldContainSubstring, "could not generate a response")
		})
	})
}

func TestSnapshot(t *testing.T) {
	Convey("Given an assistant persisting to a directory", t, func() {
		dir := t.TempDir()
		a := chat.New(chat.WithSnapshotDir(dir))
		_, _, err := a.Index(context.Background(),
			[]model.TeacherProfile{sampleTeacher()},
			[]model.StudentProfile{sampleStudent()})
		So(err, ShouldBeNil)

		Convey("When a fresh assistant restores from the same directory", func() {
			restored := chat.New(chat.WithSnapshotDir(dir))
			n, err := restored.RestoreSnapshot()

			Convey("Then the index is searchable again", func() {
				So(err, ShouldBeNil)
				So(n, ShouldEqual, 2)
				docs := restored.Retrieve("special needs experience", 1)
				So(docs, ShouldHaveLength, 1)
				So(strings.Contains(docs[0], "Mr. Chen"), ShouldBeTrue)
			})
		})
	})

	Convey("Given an empty snapshot directory", t, func() {
		a := chat.New(chat.WithSnapshotDir(t.TempDir()))
		_, err := a.RestoreSnapshot()
		So(err, ShouldEqual, chat.ErrNoSnapshot)
	})

	Convey("Given persistence disabled", t, func() {
		a := chat.New()
		_, err := a.RestoreSnapshot()
		So(err, ShouldEqual, chat.ErrNoSnapshot)
	})
}
