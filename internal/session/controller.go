package session

import (
	"context"
	"errors"
	"sync"

	"github.com/akhaled/eduterm/internal/api"
)

// State is the submission lifecycle of one session.
type State int

const (
	StateIdle State = iota
	StateInProgress
	StateSubmitting
	StateSubmitted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateInProgress:
		return "in-progress"
	case StateSubmitting:
		return "submitting"
	case StateSubmitted:
		return "submitted"
	default:
		return "unknown"
	}
}

// Controller owns one exam session from start to submission and
// guarantees at most one real submission ever leaves it, no matter how
// many triggers fire (explicit submit, timer expiry, impatient retries).
//
// The guard is the synchronous in-progress → submitting transition taken
// under the mutex before the network call is dispatched. Two concurrent
// Submit calls therefore cannot both pass it; the loser sees submitting
// or submitted and returns without touching the network.
type Controller struct {
	svc api.Service

	mu        sync.Mutex
	state     State
	session   *api.Session
	questions []api.Question
	answers   *AnswerStore
	result    *api.Result
}

// NewController creates a Controller bound to an Exam Service.
func NewController(svc api.Service) *Controller {
	return &Controller{svc: svc, state: StateIdle}
}

// ErrNoSession is returned by Submit when no session has been started.
var ErrNoSession = errors.New("no active exam session")

// Start creates or resumes a session for the exam and loads its question
// bodies. On success the controller holds the session, its questions and
// a fresh empty answer store, and the state is in-progress.
//
// api.ErrAlreadySubmitted passes through untouched so the caller can
// treat it as the terminal condition it is; any other failure leaves the
// controller idle and retryable.
func (c *Controller) Start(ctx context.Context, examID string) error {
	c.mu.Lock()
	if c.state != StateIdle {
		c.mu.Unlock()
		return errors.New("session already started")
	}
	c.mu.Unlock()

	sess, err := c.svc.StartExam(ctx, examID)
	if err != nil {
		return err
	}

	questions := c.loadQuestions(ctx, sess.Exam.Questions)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = sess
	c.questions = questions
	c.answers = NewAnswerStore()
	c.state = StateInProgress
	return nil
}

// loadQuestions resolves question refs to bodies, fetching missing ones
// in parallel. A failed fetch drops that question rather than failing
// the whole session load.
func (c *Controller) loadQuestions(ctx context.Context, refs []api.QuestionRef) []api.Question {
	slots := make([]*api.Question, len(refs))
	var wg sync.WaitGroup

	for i, ref := range refs {
		if ref.Question != nil {
			slots[i] = ref.Question
			continue
		}
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			q, err := c.svc.Question(ctx, id)
			if err != nil {
				return // degrade: question absent, session still loads
			}
			slots[i] = q
		}(i, ref.ID)
	}
	wg.Wait()

	questions := make([]api.Question, 0, len(slots))
	for _, q := range slots {
		if q != nil {
			questions = append(questions, *q)
		}
	}
	return questions
}

// Record stores an answer for a question. Ignored unless the session is
// in progress; answers cannot change once a submission has begun.
func (c *Controller) Record(questionID, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateInProgress {
		return
	}
	c.answers.Record(questionID, value)
}

// Answer returns the recorded answer for a question, if any.
func (c *Controller) Answer(questionID string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.answers == nil {
		return "", false
	}
	return c.answers.Get(questionID)
}

// Submit sends the accumulated answers exactly once. Safe to call from
// both the explicit submit path and the timer-expiry path, concurrently.
//
// If a submission has already begun or completed, Submit is a no-op: it
// returns the existing result (nil while the first attempt is still in
// flight) without any network call. On failure the session reverts to
// in-progress so the learner can retry manually; no automatic retry.
func (c *Controller) Submit(ctx context.Context) (*api.Result, error) {
	c.mu.Lock()
	if c.state == StateIdle {
		c.mu.Unlock()
		return nil, ErrNoSession
	}
	if c.state != StateInProgress {
		// Already submitting or submitted: keep the prior outcome.
		res := c.result
		c.mu.Unlock()
		return res, nil
	}
	// The guard: flip to submitting before any network activity.
	c.state = StateSubmitting
	sessionID := c.session.ID
	payload := c.answers.Payload(c.questionOrderLocked())
	c.mu.Unlock()

	res, err := c.svc.SubmitAnswers(ctx, sessionID, payload)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.state = StateInProgress
		return nil, err
	}
	c.state = StateSubmitted
	c.result = res
	return res, nil
}

// questionOrderLocked returns question ids in exam order. Caller holds mu.
func (c *Controller) questionOrderLocked() []string {
	order := make([]string, len(c.questions))
	for i, q := range c.questions {
		order[i] = q.ID
	}
	return order
}

// State returns the current submission state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Session returns the active session, or nil before Start succeeds.
func (c *Controller) Session() *api.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// Questions returns the loaded question bodies in exam order.
func (c *Controller) Questions() []api.Question {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.questions
}

// Result returns the grading outcome, or nil before a successful submit.
func (c *Controller) Result() *api.Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.result
}

// Answered returns how many questions have recorded answers.
func (c *Controller) Answered() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.answers == nil {
		return 0
	}
	return c.answers.Len()
}
