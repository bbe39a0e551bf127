package questionnaire

import (
	"errors"
	"time"
)

// ContinueMarker is the reserved answer key a client sends to confirm it
// wants more questions after a continuation prompt. It is never stored.
const ContinueMarker = "continue_questionnaire"

var ErrNoPreviousQuestion = errors.New("no previous question")

// State is one user's resumable questionnaire progress.
//
// CurrentQuestionID, when set, equals the head of Queue. An ID is in
// AnsweredQuestions at most once.
type State struct {
	Queue             Queue             `json:"queue"`
	Answers           map[string]Answer `json:"answers"`
	AnsweredQuestions []string          `json:"answered_questions"`
	SkippedQuestions  []string          `json:"skipped_questions,omitempty"`
	CurrentQuestionID string            `json:"current_question_id,omitempty"`
	// ContinuedAt is the answered count at which the user last confirmed a
	// continuation prompt.
	ContinuedAt int       `json:"continued_at,omitempty"`
	Version     int       `json:"version"`
	StartTime   time.Time `json:"start_time"`
	// Completed marks a state replayed from a completed questionnaire.
	Completed bool `json:"completed,omitempty"`
}

// NewState seeds the queue with the basic question IDs in order.
func NewState(basicIDs []string, version int, now time.Time) *State {
	q := make(Queue, len(basicIDs))
	copy(q, basicIDs)
	return &State{
		Queue:     q,
		Answers:   make(map[string]Answer),
		Version:   version,
		StartTime: now,
	}
}

// ReplayState rebuilds a read-only view of a completed questionnaire for
// the edit-responses flow.
func ReplayState(answers map[string]Answer, answered []string, version int, startedAt time.Time) *State {
	s := &State{
		Answers:   make(map[string]Answer, len(answers)),
		Version:   version,
		StartTime: startedAt,
		Completed: true,
	}
	for id, a := range answers {
		s.Answers[id] = a
	}
	seen := make(map[string]struct{}, len(answered))
	for _, id := range answered {
		if _, ok := s.Answers[id]; !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		s.AnsweredQuestions = append(s.AnsweredQuestions, id)
	}
	// answers missing from the order list still count as answered
	for _, id := range sortedKeys(s.Answers) {
		if _, ok := seen[id]; !ok {
			s.AnsweredQuestions = append(s.AnsweredQuestions, id)
		}
	}
	return s
}

func (s *State) IsAnswered(id string) bool {
	for _, v := range s.AnsweredQuestions {
		if v == id {
			return true
		}
	}
	return false
}

func (s *State) IsSkipped(id string) bool {
	for _, v := range s.SkippedQuestions {
		if v == id {
			return true
		}
	}
	return false
}

func (s *State) AnsweredCount() int { return len(s.AnsweredQuestions) }

// RecordAnswer stores the answer (last write wins) and appends id to the
// answered history the first time. It reports whether id was new.
func (s *State) RecordAnswer(id string, a Answer) bool {
	if s.Answers == nil {
		s.Answers = make(map[string]Answer)
	}
	s.Answers[id] = a
	s.unskip(id)
	if s.IsAnswered(id) {
		return false
	}
	s.AnsweredQuestions = append(s.AnsweredQuestions, id)
	return true
}

// PopIfHead removes id from the queue when it is the head and clears the
// current question.
func (s *State) PopIfHead(id string) bool {
	head, ok := s.Queue.Front()
	if !ok || head != id {
		return false
	}
	s.Queue.PopFront()
	if s.CurrentQuestionID == id {
		s.CurrentQuestionID = ""
	}
	return true
}

// Skip removes the head of the queue without answering it.
func (s *State) Skip() (string, bool) {
	head, ok := s.Queue.PopFront()
	if !ok {
		s.CurrentQuestionID = ""
		return "", false
	}
	s.CurrentQuestionID = ""
	if !s.IsAnswered(head) && !s.IsSkipped(head) {
		s.SkippedQuestions = append(s.SkippedQuestions, head)
	}
	return head, true
}

// StepBack moves the last answered question back to the front of the queue
// and makes it current. Its stored answer is kept so it can be edited. It
// never clears Completed.
func (s *State) StepBack() (string, error) {
	n := len(s.AnsweredQuestions)
	if n == 0 {
		return "", ErrNoPreviousQuestion
	}
	id := s.AnsweredQuestions[n-1]
	s.AnsweredQuestions = s.AnsweredQuestions[:n-1]
	s.Queue.Remove(id)
	s.Queue.PushFront(id)
	s.CurrentQuestionID = id
	return id, nil
}

func (s *State) unskip(id string) {
	out := s.SkippedQuestions[:0]
	for _, v := range s.SkippedQuestions {
		if v != id {
			out = append(out, v)
		}
	}
	s.SkippedQuestions = out
}

// Clone returns a deep copy.
func (s *State) Clone() *State {
	c := *s
	c.Queue = s.Queue.Items()
	c.AnsweredQuestions = append([]string(nil), s.AnsweredQuestions...)
	c.SkippedQuestions = append([]string(nil), s.SkippedQuestions...)
	c.Answers = make(map[string]Answer, len(s.Answers))
	for k, v := range s.Answers {
		c.Answers[k] = v
	}
	return &c
}
