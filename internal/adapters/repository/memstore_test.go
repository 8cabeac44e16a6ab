package repository_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/okian/classmatch/internal/adapters/repository"
	"github.com/okian/classmatch/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestProfileStorage(t *testing.T) {
	Convey("Given an empty store", t, func() {
		store := repository.NewMemStore()
		ctx := context.Background()

		Convey("When a teacher profile is saved", func() {
			p := model.TeacherProfile{TeacherID: "Mr. Chen", PatienceLevel: 8}
			So(store.SaveTeacher(ctx, "d1", p), ShouldBeNil)

			Convey("Then it is retrievable by digest", func() {
				got, err := store.TeacherByDigest(ctx, "d1")
				So(err, ShouldBeNil)
				So(got.TeacherID, ShouldEqual, "Mr. Chen")
			})

			Convey("And an unknown digest reports ErrNotFound", func() {
				_, err := store.TeacherByDigest(ctx, "nope")
				So(err, ShouldEqual, repository.ErrNotFound)
			})

			Convey("And saving the same digest again overwrites in place", func() {
				So(store.SaveTeacher(ctx, "d1", model.TeacherProfile{TeacherID: "Mr. Chen", PatienceLevel: 9}), ShouldBeNil)
				teachers, err := store.Teachers(ctx)
				So(err, ShouldBeNil)
				So(teachers, ShouldHaveLength, 1)
				So(teachers[0].PatienceLevel, ShouldEqual, 9)
			})
		})

		Convey("When several students are saved", func() {
			for i, name := range []string{"Ana", "Ben", "Cleo"} {
				p := model.StudentProfile{StudentID: name}
				So(store.SaveStudent(ctx, fmt.Sprintf("s%d", i), p), ShouldBeNil)
			}

			Convey("Then insertion order is preserved", func() {
				students, err := store.Students(ctx)
				So(err, ShouldBeNil)
				ids := make([]string, len(students))
				for i, s := range students {
					ids[i] = s.StudentID
				}
				So(ids, ShouldResemble, []string{"Ana", "Ben", "Cleo"})
			})

			Convey("And counts reflect both kinds", func() {
				So(store.SaveTeacher(ctx, "t1", model.TeacherProfile{TeacherID: "T"}), ShouldBeNil)
				teachers, students := store.Counts(ctx)
				So(teachers, ShouldEqual, 1)
				So(students, ShouldEqual, 3)
			})
		})
	})
}

func TestRunStorage(t *testing.T) {
	Convey("Given a store retaining two runs", t, func() {
		store := repository.NewMemStore(repository.WithMaxRuns(2))
		ctx := context.Background()

		save := func(id string) {
			roster := model.NewRoster()
			roster.Append("T1", "s1")
			So(store.SaveRun(ctx, repository.MatchRun{
				RunID:     id,
				CreatedAt: time.Now(),
				Roster:    roster,
			}), ShouldBeNil)
		}

		Convey("When three runs are saved", func() {
			save("r1")
			save("r2")
			save("r3")

			Convey("Then only the newest two remain, newest first", func() {
				runs, err := store.Runs(ctx)
				So(err, ShouldBeNil)
				So(runs, ShouldHaveLength, 2)
				So(runs[0].RunID, ShouldEqual, "r3")
				So(runs[1].RunID, ShouldEqual, "r2")
			})

			Convey("And the evicted run is gone", func() {
				_, err := store.Run(ctx, "r1")
				So(err, ShouldEqual, repository.ErrRunNotFound)

				got, err := store.Run(ctx, "r3")
				So(err, ShouldBeNil)
				So(got.Roster.Class("T1"), ShouldResemble, []string{"s1"})
			})
		})
	})
}
