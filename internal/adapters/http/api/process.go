package api

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/okian/classmatch/internal/adapters/extract"
	"github.com/okian/classmatch/internal/adapters/mq/queue"
	"github.com/okian/classmatch/internal/adapters/repository"
	"github.com/okian/classmatch/pkg/metrics"
)

// processDocument runs one document through the idempotency check and, when
// it is new, the extraction queue. A duplicate digest short-circuits to the
// stored profile without another model call.
func processDocument(ctx context.Context, deps Dependencies, kind queue.Kind, doc extract.Document) (result queue.Result, duplicate bool, err error) {
	metrics.RecordExtractionRequest()

	if deps.SeenAndRecord(ctx, doc.Digest) {
		metrics.RecordExtractionDuplicate()
		switch kind {
		case queue.KindTeacher:
			if p, err := deps.TeacherByDigest(ctx, doc.Digest); err == nil {
				return queue.Result{Teacher: &p}, true, nil
			}
		case queue.KindStudent:
			if p, err := deps.StudentByDigest(ctx, doc.Digest); err == nil {
				return queue.Result{Student: &p}, true, nil
			}
		}
		// Seen but never stored; the earlier attempt must have failed
		// between record and save. Treat it as fresh.
		deps.Unrecord(ctx, doc.Digest)
		if deps.SeenAndRecord(ctx, doc.Digest) {
			return queue.Result{}, false, errors.New("digest contention, retry the upload")
		}
	}

	reply := make(chan queue.Result, 1)
	job := queue.Job{
		ID:     uuid.New().String(),
		Kind:   kind,
		Name:   doc.Name,
		Text:   doc.Text,
		Digest: doc.Digest,
		Reply:  reply,
	}
	if ok := deps.Enqueue(ctx, job); !ok {
		deps.Unrecord(ctx, doc.Digest)
		return queue.Result{}, false, ErrBackpressure
	}

	select {
	case result = <-reply:
		return result, false, result.Err
	case <-ctx.Done():
		return queue.Result{}, false, ctx.Err()
	}
}

var teacherNameRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^\s*(?:teacher\s*name|teacher|name)\s*[:\-]\s*(.+)$`),
}

const teacherNameScanLines = 10

// teacherName pulls a display name out of the document head, falling back
// to the provided default when nothing looks like one.
func teacherName(text, fallback string) string {
	lines := strings.Split(text, "\n")
	if len(lines) > teacherNameScanLines {
		lines = lines[:teacherNameScanLines]
	}
	for _, line := range lines {
		for _, re := range teacherNameRes {
			if m := re.FindStringSubmatch(line); m != nil {
				if name := strings.TrimSpace(m[1]); name != "" {
					return name
				}
			}
		}
	}

	// A short first line is usually a heading with the name.
	first := strings.TrimSpace(lines[0])
	if first != "" && len(strings.Fields(first)) <= 5 && !strings.ContainsAny(first, ".!?") {
		return first
	}
	return fallback
}

// isNotFound translates store lookups to 404s.
func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound) || errors.Is(err, repository.ErrRunNotFound)
}
