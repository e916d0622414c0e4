package session

import (
	"sync"

	"github.com/akhaled/eduterm/internal/api"
)

// AnswerStore holds the learner's current, possibly incomplete answer set
// for one session. It is created empty at session start and discarded at
// submission; it has no life outside its session.
//
// Values are strings for every question type: option text for multiple
// choice, the literals "True"/"False" for true/false, free text for short
// answer.
type AnswerStore struct {
	mu     sync.Mutex
	values map[string]string
}

// NewAnswerStore creates an empty store.
func NewAnswerStore() *AnswerStore {
	return &AnswerStore{values: make(map[string]string)}
}

// Record upserts the answer for a question. Last write wins; at most one
// entry exists per question. Never fails.
func (a *AnswerStore) Record(questionID, value string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.values[questionID] = value
}

// Get returns the current answer and whether one was recorded.
func (a *AnswerStore) Get(questionID string) (string, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	v, ok := a.values[questionID]
	return v, ok
}

// Len returns the number of answered questions.
func (a *AnswerStore) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.values)
}

// Payload builds the submission body in the exam's question order.
// Unanswered questions are omitted entirely rather than sent as empty
// strings; the server grades absent entries as wrong either way.
func (a *AnswerStore) Payload(order []string) []api.AnswerPayload {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]api.AnswerPayload, 0, len(a.values))
	for _, qid := range order {
		if v, ok := a.values[qid]; ok {
			out = append(out, api.AnswerPayload{QuestionID: qid, SelectedAnswer: v})
		}
	}
	return out
}
