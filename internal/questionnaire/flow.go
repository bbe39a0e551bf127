package questionnaire

import "sort"

// Shuffler randomizes candidate order; rand.Shuffle fits.
type Shuffler func(n int, swap func(i, j int))

// Phase is the externally visible position of a session in the flow.
type Phase string

const (
	PhaseAwaitingAnswer     Phase = "awaiting-answer"
	PhaseBetweenBatches     Phase = "between-batches"
	PhaseContinuationPrompt Phase = "continuation-prompt"
	PhaseComplete           Phase = "complete"
)

// Step is the outcome of one flow transition.
type Step struct {
	Question            *Question
	Complete            bool
	UserChoseToContinue bool
	ContinuationPrompt  bool
	FollowUp            string
	Branched            []string
	Repopulated         []string
}

// Flow applies answers to a State and decides what to ask next. It holds no
// per-user data and is safe to share.
type Flow struct {
	bank    *Bank
	shuffle Shuffler
}

func NewFlow(bank *Bank, shuffle Shuffler) *Flow {
	if shuffle == nil {
		shuffle = func(int, func(i, j int)) {}
	}
	return &Flow{bank: bank, shuffle: shuffle}
}

func (f *Flow) Bank() *Bank { return f.bank }

// Advance records answers, applies branching and follow-ups, then resolves
// the next question. The continuation marker only flags that the user chose
// to continue. The current question's answer is applied last so follow-up
// injection keys off it.
func (f *Flow) Advance(s *State, answers map[string]Answer) Step {
	g := f.bank.Graph()
	chose := false
	var branched []string
	var last string
	var lastAnswer Answer

	for _, id := range answerOrder(answers, s.CurrentQuestionID) {
		if id == ContinueMarker {
			chose = true
			continue
		}
		a := answers[id]
		s.RecordAnswer(id, a)
		branched = append(branched, s.ApplyBranches(g, id, a)...)
		if !s.PopIfHead(id) && s.Queue.Remove(id) && s.CurrentQuestionID == id {
			s.CurrentQuestionID = ""
		}
		last, lastAnswer = id, a
	}

	var followUp string
	if last != "" {
		if id, ok := s.InjectFollowUp(g, last, lastAnswer); ok {
			followUp = id
			s.CurrentQuestionID = ""
		}
	}

	if chose {
		s.ContinuedAt = s.AnsweredCount()
	}

	step := f.Resolve(s)
	step.UserChoseToContinue = chose
	step.FollowUp = followUp
	step.Branched = branched
	return step
}

// Resolve returns the head of the queue as the current question, refilling
// the queue once if it is empty. Repeated calls without answers return the
// same question.
func (f *Flow) Resolve(s *State) Step {
	var repopulated []string
	for i := 0; i < 2; i++ {
		if head, ok := s.Queue.Front(); ok {
			s.CurrentQuestionID = head
			q := f.question(head)
			return Step{
				Question:           &q,
				ContinuationPrompt: f.ContinuationDue(s),
				Repopulated:        repopulated,
			}
		}
		repopulated = f.Repopulate(s)
		if len(repopulated) == 0 {
			break
		}
	}
	s.CurrentQuestionID = ""
	return Step{Complete: true}
}

// Skip drops the current question without answering it and advances.
func (f *Flow) Skip(s *State) Step {
	s.Skip()
	return f.Resolve(s)
}

// Back reopens the most recently answered question.
func (f *Flow) Back(s *State) (Step, error) {
	if _, err := s.StepBack(); err != nil {
		return Step{}, err
	}
	return f.Resolve(s), nil
}

// Repopulate refills an empty queue following the batch schedule: below
// InitialBatchSize answers, unanswered basic questions first and dynamic
// ones up to InitialBatchSize answered+queued; afterwards BatchIncrement
// more at a time. Dynamic picks prefer CategoryLocationAndConvenience and are
// shuffled. Skipped questions come back only when nothing else is left.
func (f *Flow) Repopulate(s *State) []string {
	n := s.AnsweredCount()
	slots := BatchIncrement
	var added []string

	if n < InitialBatchSize {
		slots = InitialBatchSize - n - s.Queue.Len()
		for _, id := range f.bank.BasicIDs() {
			if f.available(s, id) {
				s.Queue.PushBack(id)
				added = append(added, id)
			}
		}
	}

	if remaining := slots - len(added); remaining > 0 {
		for _, id := range f.pickDynamic(s, remaining) {
			s.Queue.PushBack(id)
			added = append(added, id)
		}
	}

	if len(added) == 0 && slots > 0 {
		added = f.reviveSkipped(s, slots)
	}
	return added
}

// IsComplete holds when nothing is queued and every basic and dynamic
// question has been answered.
func (f *Flow) IsComplete(s *State) bool {
	if !s.Queue.Empty() {
		return false
	}
	for _, id := range f.bank.KnownIDs() {
		if !s.IsAnswered(id) {
			return false
		}
	}
	return true
}

// ContinuationDue reports whether the continuation prompt should be shown:
// the answered count sits on a batch boundary the user has not yet
// confirmed.
func (f *Flow) ContinuationDue(s *State) bool {
	n := s.AnsweredCount()
	return IsContinuationPoint(n) && s.ContinuedAt != n
}

func (f *Flow) Phase(s *State) Phase {
	switch {
	case f.IsComplete(s):
		return PhaseComplete
	case s.Queue.Empty():
		return PhaseBetweenBatches
	case f.ContinuationDue(s):
		return PhaseContinuationPrompt
	default:
		return PhaseAwaitingAnswer
	}
}

// Question resolves id against the bank; unknown IDs render as bare text
// questions.
func (f *Flow) Question(id string) Question {
	return f.question(id)
}

func (f *Flow) question(id string) Question {
	if q, ok := f.bank.Question(id); ok {
		return q
	}
	return Question{ID: id, Type: TypeText}
}

func (f *Flow) available(s *State, id string) bool {
	return !s.IsAnswered(id) && !s.Queue.Contains(id) && !s.IsSkipped(id)
}

func (f *Flow) pickDynamic(s *State, limit int) []string {
	var preferred, others []string
	for _, q := range f.bank.Dynamic() {
		if !f.available(s, q.ID) {
			continue
		}
		if q.Category == CategoryLocationAndConvenience {
			preferred = append(preferred, q.ID)
		} else {
			others = append(others, q.ID)
		}
	}
	f.shuffle(len(preferred), func(i, j int) { preferred[i], preferred[j] = preferred[j], preferred[i] })
	f.shuffle(len(others), func(i, j int) { others[i], others[j] = others[j], others[i] })

	picked := append(preferred, others...)
	if len(picked) > limit {
		picked = picked[:limit]
	}
	return picked
}

func (f *Flow) reviveSkipped(s *State, limit int) []string {
	var revived []string
	for _, id := range append([]string(nil), s.SkippedQuestions...) {
		if len(revived) >= limit {
			break
		}
		if !f.bank.IsKnown(id) || s.IsAnswered(id) || s.Queue.Contains(id) {
			continue
		}
		s.unskip(id)
		s.Queue.PushBack(id)
		revived = append(revived, id)
	}
	return revived
}

func answerOrder(answers map[string]Answer, current string) []string {
	ids := make([]string, 0, len(answers))
	hasCurrent := false
	for id := range answers {
		if id == current && current != "" {
			hasCurrent = true
			continue
		}
		ids = append(ids, id)
	}
	sort.Strings(ids)
	if hasCurrent {
		ids = append(ids, current)
	}
	return ids
}
