package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	jobqueue "github.com/okian/classmatch/internal/adapters/mq/queue"
	service "github.com/okian/classmatch/internal/app"
	"github.com/okian/classmatch/internal/domain/model"
	"github.com/okian/classmatch/internal/samples"
	"github.com/okian/classmatch/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func startedService(t *testing.T, opts ...service.Option) *service.Service {
	t.Helper()
	s := service.New(append([]service.Option{
		service.WithWorkerCount(2),
		service.WithQueueSize(16),
	}, opts...)...)
	So(s.Start(context.Background()), ShouldBeNil)
	t.Cleanup(s.Stop)
	return s
}

func extractDoc(t *testing.T, s *service.Service, kind jobqueue.Kind, name, text, digest string) jobqueue.Result {
	t.Helper()
	ctx := context.Background()
	So(s.SeenAndRecord(ctx, digest), ShouldBeFalse)
	reply := make(chan jobqueue.Result, 1)
	So(s.Enqueue(ctx, jobqueue.Job{
		ID: name, Kind: kind, Name: name, Text: text, Digest: digest, Reply: reply,
	}), ShouldBeTrue)
	select {
	case r := <-reply:
		return r
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for extraction")
		return jobqueue.Result{}
	}
}

func TestExtractionPipeline(t *testing.T) {
	Convey("Given a started service without an API key", t, func() {
		s := startedService(t)
		ctx := context.Background()

		Convey("When a teacher document flows through the queue", func() {
			result := extractDoc(t, s, jobqueue.KindTeacher, "Mr. Chen", "bio", "digest-1")

			Convey("Then the fallback profile is extracted and stored", func() {
				So(result.Err, ShouldBeNil)
				So(result.Teacher.TeacherID, ShouldEqual, "Mr. Chen")

				stored, err := s.TeacherByDigest(ctx, "digest-1")
				So(err, ShouldBeNil)
				So(stored.TeacherID, ShouldEqual, "Mr. Chen")

				teachers, err := s.Teachers(ctx)
				So(err, ShouldBeNil)
				So(teachers, ShouldHaveLength, 1)
			})

			Convey("And the digest is now marked as seen", func() {
				So(s.SeenAndRecord(ctx, "digest-1"), ShouldBeTrue)
			})
		})

		Convey("When a student document flows through the queue", func() {
			result := extractDoc(t, s, jobqueue.KindStudent, "Ana", "rows", "digest-2")

			So(result.Err, ShouldBeNil)
			So(result.Student.StudentID, ShouldEqual, "Ana")
			students, err := s.Students(ctx)
			So(err, ShouldBeNil)
			So(students, ShouldHaveLength, 1)
		})
	})
}

func TestMatchAndRuns(t *testing.T) {
	Convey("Given a started service with profiles", t, func() {
		s := startedService(t, service.WithMaxRuns(2))
		ctx := context.Background()
		gen := samples.New(11)
		teachers := gen.Teachers(3)
		students := gen.Students(8)

		Convey("When a match runs", func() {
			run, err := s.Match(ctx, teachers, students, model.Constraints{MaxClassSize: 4, MinClassSize: 1})

			Convey("Then the run is stored with every student placed", func() {
				So(err, ShouldBeNil)
				So(run.RunID, ShouldNotBeEmpty)
				So(run.Roster.TotalStudents(), ShouldEqual, 8)
				So(run.TeacherCount, ShouldEqual, 3)
				So(run.StudentCount, ShouldEqual, 8)
				So(run.AverageScore, ShouldBeGreaterThan, 0)

				got, err := s.Run(ctx, run.RunID)
				So(err, ShouldBeNil)
				So(got.RunID, ShouldEqual, run.RunID)
			})

			Convey("And run retention keeps only the newest", func() {
				run2, err := s.Match(ctx, teachers, students, model.Constraints{MaxClassSize: 4, MinClassSize: 1})
				So(err, ShouldBeNil)
				run3, err := s.Match(ctx, teachers, students, model.Constraints{MaxClassSize: 4, MinClassSize: 1})
				So(err, ShouldBeNil)

				runs, err := s.Runs(ctx)
				So(err, ShouldBeNil)
				So(runs, ShouldHaveLength, 2)
				So(runs[0].RunID, ShouldEqual, run3.RunID)
				So(runs[1].RunID, ShouldEqual, run2.RunID)
			})
		})

		Convey("When constraints are malformed", func() {
			_, err := s.Match(ctx, teachers, students, model.Constraints{MaxClassSize: 1, MinClassSize: 5})

			So(err, ShouldNotBeNil)
			So(errors.Is(err, model.ErrInvalidConstraints), ShouldBeTrue)
		})

		Convey("When there are no profiles at all", func() {
			run, err := s.Match(ctx, nil, nil, model.DefaultConstraints())

			So(err, ShouldBeNil)
			So(run.Roster.Len(), ShouldEqual, 0)
			So(run.AverageScore, ShouldEqual, 0)
		})
	})
}

func TestChatThroughService(t *testing.T) {
	Convey("Given a started service with a snapshot directory", t, func() {
		dir := t.TempDir()
		s := startedService(t, service.WithSnapshotDir(dir), service.WithChatTopK(3))
		ctx := context.Background()
		gen := samples.New(5)

		Convey("When profiles are indexed and queried", func() {
			tc, sc, err := s.IndexProfiles(ctx, gen.Teachers(2), gen.Students(2))
			So(err, ShouldBeNil)
			So(tc, ShouldEqual, 2)
			So(sc, ShouldEqual, 2)

			answer, err := s.Ask(ctx, "which teacher suits a student needing structure?", nil)
			So(err, ShouldBeNil)
			So(answer.Text, ShouldNotBeEmpty)
		})
	})
}

func TestGetStats(t *testing.T) {
	Convey("Given a started service", t, func() {
		s := startedService(t)

		Convey("Then stats expose the pipeline state", func() {
			stats := s.GetStats()
			So(stats["started"], ShouldBeTrue)
			So(stats["workerCount"], ShouldEqual, 2)
			So(stats["queueLength"], ShouldEqual, 0)
			So(stats["teachers"], ShouldEqual, 0)
			So(stats["storedRuns"], ShouldEqual, 0)
		})
	})
}
