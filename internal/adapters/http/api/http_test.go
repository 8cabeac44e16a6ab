package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/okian/classmatch/internal/adapters/http/api"
	"github.com/okian/classmatch/internal/adapters/mq/queue"
	"github.com/okian/classmatch/internal/adapters/repository"
	"github.com/okian/classmatch/internal/chat"
	"github.com/okian/classmatch/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

// fakeDeps implements api.Dependencies with a synchronous in-memory pipeline.
type fakeDeps struct {
	seen          map[string]bool
	teachers      []model.TeacherProfile
	students      []model.StudentProfile
	teacherDigest map[string]model.TeacherProfile
	studentDigest map[string]model.StudentProfile
	runs          map[string]repository.MatchRun
	enqueueOK     bool
	indexed       [2]int
}

func newFakeDeps() *fakeDeps {
	return &fakeDeps{
		seen:          make(map[string]bool),
		teacherDigest: make(map[string]model.TeacherProfile),
		studentDigest: make(map[string]model.StudentProfile),
		runs:          make(map[string]repository.MatchRun),
		enqueueOK:     true,
	}
}

func (f *fakeDeps) SeenAndRecord(_ context.Context, digest string) bool {
	if f.seen[digest] {
		return true
	}
	f.seen[digest] = true
	return false
}

func (f *fakeDeps) Unrecord(_ context.Context, digest string) { delete(f.seen, digest) }

func (f *fakeDeps) Enqueue(_ context.Context, j queue.Job) bool {
	if !f.enqueueOK {
		return false
	}
	// Answer synchronously the way a worker would.
	var result queue.Result
	switch j.Kind {
	case queue.KindTeacher:
		p := model.TeacherProfile{TeacherID: j.Name, PatienceLevel: 7}
		f.teacherDigest[j.Digest] = p
		f.teachers = append(f.teachers, p)
		result.Teacher = &p
	case queue.KindStudent:
		p := model.StudentProfile{StudentID: j.Name, PatienceNeeded: 6}
		f.studentDigest[j.Digest] = p
		f.students = append(f.students, p)
		result.Student = &p
	}
	j.Reply <- result
	return true
}

func (f *fakeDeps) TeacherByDigest(_ context.Context, digest string) (model.TeacherProfile, error) {
	if p, ok := f.teacherDigest[digest]; ok {
		return p, nil
	}
	return model.TeacherProfile{}, repository.ErrNotFound
}

func (f *fakeDeps) StudentByDigest(_ context.Context, digest string) (model.StudentProfile, error) {
	if p, ok := f.studentDigest[digest]; ok {
		return p, nil
	}
	return model.StudentProfile{}, repository.ErrNotFound
}

func (f *fakeDeps) Teachers(_ context.Context) ([]model.TeacherProfile, error) {
	return f.teachers, nil
}

func (f *fakeDeps) Students(_ context.Context) ([]model.StudentProfile, error) {
	return f.students, nil
}

func (f *fakeDeps) Runs(_ context.Context) ([]repository.MatchRun, error) {
	out := make([]repository.MatchRun, 0, len(f.runs))
	for _, r := range f.runs {
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeDeps) Run(_ context.Context, runID string) (repository.MatchRun, error) {
	if r, ok := f.runs[runID]; ok {
		return r, nil
	}
	return repository.MatchRun{}, repository.ErrRunNotFound
}

func (f *fakeDeps) Match(_ context.Context, teachers []model.TeacherProfile, students []model.StudentProfile, constraints model.Constraints) (repository.MatchRun, error) {
	if err := constraints.Validate(); err != nil {
		return repository.MatchRun{}, err
	}
	roster := model.NewRoster()
	for i, s := range students {
		roster.Append(teachers[i%len(teachers)].TeacherID, s.StudentID)
	}
	run := repository.MatchRun{
		RunID:        "run-1",
		CreatedAt:    time.Now(),
		Roster:       roster,
		TeacherCount: len(teachers),
		StudentCount: len(students),
	}
	f.runs[run.RunID] = run
	return run, nil
}

func (f *fakeDeps) IndexProfiles(_ context.Context, teachers []model.TeacherProfile, students []model.StudentProfile) (int, int, error) {
	if len(teachers) == 0 && len(students) == 0 {
		return 0, 0, chat.ErrNothingToIndex
	}
	f.indexed = [2]int{len(teachers), len(students)}
	return len(teachers), len(students), nil
}

func (f *fakeDeps) Ask(_ context.Context, question string, _ []chat.Message) (chat.Answer, error) {
	if strings.TrimSpace(question) == "" {
		return chat.Answer{}, chat.ErrEmptyQuestion
	}
	return chat.Answer{Text: "pair Ana with Mr. Chen", ContextUsed: 2}, nil
}

type fakeStats struct{}

func (fakeStats) GetStats() map[string]interface{} {
	return map[string]interface{}{"service": "classmatch"}
}

func newTestMux(deps *fakeDeps) *http.ServeMux {
	mux := http.NewServeMux()
	api.NewServer(deps, fakeStats{}).Register(context.Background(), mux)
	return mux
}

func multipartBody(t *testing.T, field string, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for name, content := range files {
		part, err := mw.CreateFormFile(field, name)
		So(err, ShouldBeNil)
		_, err = part.Write([]byte(content))
		So(err, ShouldBeNil)
	}
	So(mw.Close(), ShouldBeNil)
	return &buf, mw.FormDataContentType()
}

func TestHealthAndStats(t *testing.T) {
	Convey("Given the API server", t, func() {
		mux := newTestMux(newFakeDeps())

		Convey("GET /api/health reports ok", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Body.String(), ShouldContainSubstring, `"ok":true`)
		})

		Convey("GET /stats returns service statistics", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stats", nil))
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Body.String(), ShouldContainSubstring, "classmatch")
		})

		Convey("GET /healthz serves Prometheus metrics", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Body.String(), ShouldContainSubstring, "classmatch_")
		})
	})
}

func TestProcessTeachers(t *testing.T) {
	Convey("Given the API server", t, func() {
		deps := newFakeDeps()
		mux := newTestMux(deps)

		Convey("When teacher documents are uploaded", func() {
			body, contentType := multipartBody(t, "files", map[string]string{
				"chen.txt": "Teacher: Mr. Chen\nVeteran math teacher with patient style.",
			})
			req := httptest.NewRequest(http.MethodPost, "/api/teachers/process", body)
			req.Header.Set("Content-Type", contentType)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			Convey("Then profiles come back with the extracted name", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				var profiles []model.TeacherProfile
				So(json.Unmarshal(rec.Body.Bytes(), &profiles), ShouldBeNil)
				So(profiles, ShouldHaveLength, 1)
				So(profiles[0].TeacherID, ShouldEqual, "Mr. Chen")
			})

			Convey("And re-uploading the same document reuses the stored profile", func() {
				body2, ct2 := multipartBody(t, "files", map[string]string{
					"chen-copy.txt": "Teacher: Mr. Chen\nVeteran math teacher with patient style.",
				})
				req2 := httptest.NewRequest(http.MethodPost, "/api/teachers/process", body2)
				req2.Header.Set("Content-Type", ct2)
				rec2 := httptest.NewRecorder()
				mux.ServeHTTP(rec2, req2)

				So(rec2.Code, ShouldEqual, http.StatusOK)
				// Still one stored profile: no second extraction happened.
				So(deps.teachers, ShouldHaveLength, 1)
			})
		})

		Convey("When no files are attached", func() {
			body, contentType := multipartBody(t, "other", map[string]string{"x.txt": "y"})
			req := httptest.NewRequest(http.MethodPost, "/api/teachers/process", body)
			req.Header.Set("Content-Type", contentType)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the queue is full", func() {
			deps.enqueueOK = false
			body, contentType := multipartBody(t, "files", map[string]string{"a.txt": "Name: A\ntext"})
			req := httptest.NewRequest(http.MethodPost, "/api/teachers/process", body)
			req.Header.Set("Content-Type", contentType)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			Convey("Then backpressure surfaces as 429 and the digest is released", func() {
				So(rec.Code, ShouldEqual, http.StatusTooManyRequests)
				So(deps.seen, ShouldBeEmpty)
			})
		})
	})
}

func TestProcessStudents(t *testing.T) {
	Convey("Given the API server", t, func() {
		deps := newFakeDeps()
		mux := newTestMux(deps)

		Convey("When a student CSV is uploaded", func() {
			csv := "Name,Sem 1 Score,Sem 1 Feedback,Sem 2 Score,Sem 2 Feedback\nAna,70,quiet,80,improving\nBen,85,strong,88,steady\n"
			body, contentType := multipartBody(t, "file", map[string]string{"students.csv": csv})
			req := httptest.NewRequest(http.MethodPost, "/api/students/process", body)
			req.Header.Set("Content-Type", contentType)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			Convey("Then one profile per row comes back in order", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				var profiles []model.StudentProfile
				So(json.Unmarshal(rec.Body.Bytes(), &profiles), ShouldBeNil)
				So(profiles, ShouldHaveLength, 2)
				So(profiles[0].StudentID, ShouldEqual, "Ana")
				So(profiles[1].StudentID, ShouldEqual, "Ben")
			})
		})

		Convey("When the CSV has no Name column", func() {
			body, contentType := multipartBody(t, "file", map[string]string{"students.csv": "Score\n70\n"})
			req := httptest.NewRequest(http.MethodPost, "/api/students/process", body)
			req.Header.Set("Content-Type", contentType)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestMatchEndpoints(t *testing.T) {
	Convey("Given stored profiles", t, func() {
		deps := newFakeDeps()
		deps.teachers = []model.TeacherProfile{{TeacherID: "T1"}, {TeacherID: "T2"}}
		deps.students = []model.StudentProfile{{StudentID: "s1"}, {StudentID: "s2"}, {StudentID: "s3"}}
		mux := newTestMux(deps)

		Convey("When POST /api/match runs with an empty body object", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/match", strings.NewReader(`{}`)))

			Convey("Then the stored profiles are matched and the run returned", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				var run repository.MatchRun
				So(json.Unmarshal(rec.Body.Bytes(), &run), ShouldBeNil)
				So(run.RunID, ShouldEqual, "run-1")
				So(run.TeacherCount, ShouldEqual, 2)
				So(run.StudentCount, ShouldEqual, 3)
			})

			Convey("And the run is retrievable afterwards", func() {
				rec2 := httptest.NewRecorder()
				mux.ServeHTTP(rec2, httptest.NewRequest(http.MethodGet, "/api/matches/run-1", nil))
				So(rec2.Code, ShouldEqual, http.StatusOK)

				rec3 := httptest.NewRecorder()
				mux.ServeHTTP(rec3, httptest.NewRequest(http.MethodGet, "/api/matches", nil))
				So(rec3.Code, ShouldEqual, http.StatusOK)
				So(rec3.Body.String(), ShouldContainSubstring, "run-1")
			})
		})

		Convey("When constraints are inverted", func() {
			payload := `{"constraints":{"max_class_size":1,"min_class_size":5}}`
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/match", strings.NewReader(payload)))

			So(rec.Code, ShouldEqual, http.StatusBadRequest)
			So(rec.Body.String(), ShouldContainSubstring, "invalid_constraints")
		})

		Convey("When an unknown run is requested", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/matches/nope", nil))
			So(rec.Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestChatEndpoints(t *testing.T) {
	Convey("Given stored profiles", t, func() {
		deps := newFakeDeps()
		deps.teachers = []model.TeacherProfile{{TeacherID: "T1"}}
		mux := newTestMux(deps)

		Convey("When POST /api/chat/index runs with an empty body object", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/chat/index", strings.NewReader(`{}`)))

			Convey("Then the stored profiles are indexed", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(rec.Body.String(), ShouldContainSubstring, `"teachers":1`)
				So(deps.indexed, ShouldResemble, [2]int{1, 0})
			})
		})

		Convey("When there is nothing to index", func() {
			deps.teachers = nil
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/chat/index", strings.NewReader(`{}`)))
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When a question is asked", func() {
			payload := `{"question":"who fits Ana?","history":[{"role":"user","content":"hi"}]}`
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/chat/query", strings.NewReader(payload)))

			So(rec.Code, ShouldEqual, http.StatusOK)
			var answer chat.Answer
			So(json.Unmarshal(rec.Body.Bytes(), &answer), ShouldBeNil)
			So(answer.Text, ShouldContainSubstring, "Mr. Chen")
			So(answer.ContextUsed, ShouldEqual, 2)
		})

		Convey("When the question is blank", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/chat/query", strings.NewReader(`{"question":"  "}`)))
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestRadarEndpoints(t *testing.T) {
	Convey("Given stored profiles", t, func() {
		deps := newFakeDeps()
		deps.teachers = []model.TeacherProfile{{TeacherID: "T1", SubjectExpertise: 9, PatienceLevel: 4}}
		deps.students = []model.StudentProfile{{StudentID: "Ana", SubjectSupportNeeded: 7}}
		mux := newTestMux(deps)

		Convey("GET /api/radar/teachers returns axes and per-teacher values", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/radar/teachers", nil))

			So(rec.Code, ShouldEqual, http.StatusOK)
			var resp struct {
				Axes   []string `json:"axes"`
				Scale  float64  `json:"scale"`
				Series []struct {
					ID     string    `json:"id"`
					Values []float64 `json:"values"`
				} `json:"series"`
			}
			So(json.Unmarshal(rec.Body.Bytes(), &resp), ShouldBeNil)
			So(resp.Axes, ShouldHaveLength, 8)
			So(resp.Axes[0], ShouldEqual, "subject")
			So(resp.Scale, ShouldEqual, 10)
			So(resp.Series, ShouldHaveLength, 1)
			So(resp.Series[0].ID, ShouldEqual, "T1")
			So(resp.Series[0].Values[0], ShouldEqual, 9)
			So(resp.Series[0].Values[1], ShouldEqual, 4)
		})

		Convey("GET /api/radar/students returns the need series", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/radar/students", nil))

			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Body.String(), ShouldContainSubstring, "Ana")
		})
	})
}
