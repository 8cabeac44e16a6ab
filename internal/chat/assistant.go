package chat

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/okian/classmatch/internal/domain/model"
	"github.com/okian/classmatch/pkg/logger"
	"github.com/okian/classmatch/pkg/metrics"
)

// Default assistant configuration.
const (
	defaultTopK        = 5
	maxHistoryMessages = 10 // roughly 5 question/answer exchanges
)

const systemPrompt = "You are an education strategist that connects teacher strengths with student needs. " +
	"Ground every insight in the provided context, cite teacher or student names when possible, " +
	"and highlight concrete next steps or matches. " +
	"If no context is available, kindly ask the user to upload teacher and student data first."

// Message is one chat turn sent to or received from the assistant.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Completer abstracts the chat-completions call. Without one the assistant
// answers locally from the retrieved summaries.
type Completer interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}

// Answer is the assistant's reply plus how much context grounded it.
type Answer struct {
	Text        string `json:"answer"`
	ContextUsed int    `json:"contextUsed"`
}

// Assistant indexes profile summaries and answers questions about them.
type Assistant struct {
	mu        sync.Mutex
	embedder  *tfidfEmbedder
	store     *vectorStore
	completer Completer
	topK      int
	dir       string // snapshot directory, empty disables persistence
	logger    logger.Logger
}

// New creates an assistant with configuration options.
func New(opts ...Option) *Assistant {
	a := &Assistant{
		store:  newVectorStore(),
		topK:   defaultTopK,
		logger: logger.Get().Named("chat"),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Index rebuilds the vector store from the given profiles. The previous
// index is discarded wholesale. Returns how many teacher and student
// summaries were indexed.
func (a *Assistant) Index(ctx context.Context, teachers []model.TeacherProfile, students []model.StudentProfile) (teacherCount, studentCount int, err error) {
	if len(teachers) == 0 && len(students) == 0 {
		return 0, 0, ErrNothingToIndex
	}

	docs := make([]IndexedDoc, 0, len(teachers)+len(students))
	for _, t := range teachers {
		docs = append(docs, IndexedDoc{
			ID:   "teacher_" + t.TeacherID,
			Kind: "teacher",
			Text: FormatTeacherDoc(t),
		})
	}
	for _, s := range students {
		docs = append(docs, IndexedDoc{
			ID:   "student_" + s.StudentID,
			Kind: "student",
			Text: FormatStudentDoc(s),
		})
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.rebuild(docs)
	metrics.UpdateChatIndexedDocs(len(docs))

	if a.dir != "" {
		if err := a.saveSnapshot(docs); err != nil {
			// The in-memory index is live either way.
			a.logger.Warn(ctx, "failed to persist index snapshot", logger.Error(err))
		}
	}

	return len(teachers), len(students), nil
}

// rebuild fits the embedder on the document corpus and replaces the store.
// Callers must hold a.mu.
func (a *Assistant) rebuild(docs []IndexedDoc) {
	corpus := make([]string, len(docs))
	for i, d := range docs {
		corpus[i] = d.Text
	}
	a.embedder = fitEmbedder(corpus)

	vectors := make([][]float64, len(docs))
	for i, d := range docs {
		vectors[i] = a.embedder.embed(d.Text)
	}
	a.store.replace(docs, vectors)
}

// IndexedCount returns how many summaries are currently searchable.
func (a *Assistant) IndexedCount() int {
	return a.store.count()
}

// Retrieve returns the summaries most relevant to the query, best first.
func (a *Assistant) Retrieve(query string, topK int) []string {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	a.mu.Lock()
	embedder := a.embedder
	a.mu.Unlock()
	if embedder == nil {
		return nil
	}
	if topK <= 0 {
		topK = a.topK
	}

	scored := a.store.search(embedder.embed(query), topK)
	out := make([]string, len(scored))
	for i, s := range scored {
		out[i] = s.doc.Text
	}
	return out
}

// Ask answers a question grounded in the indexed summaries. History is the
// caller's recent conversation; only the last few turns are kept.
func (a *Assistant) Ask(ctx context.Context, question string, history []Message) (Answer, error) {
	start := time.Now()
	defer func() {
		metrics.RecordChatLatency(float64(time.Since(start).Milliseconds()))
	}()
	metrics.RecordChatQuery()

	question = strings.TrimSpace(question)
	if question == "" {
		return Answer{}, ErrEmptyQuestion
	}

	contexts := a.Retrieve(question, a.topK)

	if a.completer == nil {
		return Answer{Text: localAnswer(contexts), ContextUsed: len(contexts)}, nil
	}

	contextSection := "No context."
	if len(contexts) > 0 {
		var b strings.Builder
		for i, doc := range contexts {
			fmt.Fprintf(&b, "%d. %s\n", i+1, doc)
		}
		contextSection = strings.TrimRight(b.String(), "\n")
	}

	messages := make([]Message, 0, len(history)+2)
	messages = append(messages, Message{Role: "system", Content: systemPrompt})
	messages = append(messages, sanitizeHistory(history)...)
	messages = append(messages, Message{
		Role: "user",
		Content: fmt.Sprintf(
			"Context:\n%s\n\nQuestion:\n%s\n\nAnswer with actionable insights only using the context above.",
			contextSection, question),
	})

	answer, err := a.completer.Complete(ctx, messages)
	if err != nil {
		a.logger.Warn(ctx, "completion failed, answering locally", logger.Error(err))
		return Answer{Text: localAnswer(contexts), ContextUsed: len(contexts)}, nil
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		answer = "I could not generate a response. Please try again after re-indexing the data."
	}
	return Answer{Text: answer, ContextUsed: len(contexts)}, nil
}

// sanitizeHistory keeps the most recent turns, normalizes roles, and drops
// blank messages.
func sanitizeHistory(history []Message) []Message {
	if len(history) > maxHistoryMessages {
		history = history[len(history)-maxHistoryMessages:]
	}
	cleaned := make([]Message, 0, len(history))
	for _, m := range history {
		role := "user"
		if m.Role == "assistant" {
			role = "assistant"
		}
		content := strings.TrimSpace(m.Content)
		if content != "" {
			cleaned = append(cleaned, Message{Role: role, Content: content})
		}
	}
	return cleaned
}

// localAnswer is used when no completion client is configured or the call
// failed. It surfaces the retrieved summaries directly.
func localAnswer(contexts []string) string {
	if len(contexts) == 0 {
		return "No indexed profiles matched that question. Upload teacher and student data, index it, and ask again."
	}
	var b strings.Builder
	b.WriteString("Most relevant profiles:\n")
	for i, doc := range contexts {
		fmt.Fprintf(&b, "%d. %s\n", i+1, doc)
	}
	return strings.TrimRight(b.String(), "\n")
}
