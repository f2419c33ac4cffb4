package domain

// ChoiceCount is the number of choices every question carries.
const ChoiceCount = 5

// Question is a single multiple-choice item of a round.
type Question struct {
	Number  int                 `json:"number"`
	Text    string              `json:"text"`
	Choices [ChoiceCount]string `json:"choices"`
}

// Choice returns the text of choice c (1-based) or "" when c is out of range.
func (q Question) Choice(c int) string {
	if !ValidChoice(c) {
		return ""
	}
	return q.Choices[c-1]
}

// Round is one mock exam: its questions and the ordered answer key.
// AnswerKey[i] is the correct choice for question i+1.
type Round struct {
	ID        int              `json:"id"`
	AnswerKey []int            `json:"answerKey"`
	Questions map[int]Question `json:"questions"`
}

// Question looks up question n. ok is false when the content is absent.
func (r Round) Question(n int) (Question, bool) {
	q, ok := r.Questions[n]
	if ok && q.Number == 0 {
		q.Number = n
	}
	return q, ok
}

// HasAnswerKey reports whether the round can be examined with total questions:
// one key entry per question, each a valid choice.
func (r Round) HasAnswerKey(total int) bool {
	if total <= 0 || len(r.AnswerKey) != total {
		return false
	}
	for _, c := range r.AnswerKey {
		if !ValidChoice(c) {
			return false
		}
	}
	return true
}

// Correct returns the key for question n, or 0 when n is outside the key.
func (r Round) Correct(n int) int {
	if n < 1 || n > len(r.AnswerKey) {
		return 0
	}
	return r.AnswerKey[n-1]
}

// Catalog is the on-disk/JSONB shape of a content source.
type Catalog struct {
	Rounds []Round `json:"rounds"`
}

// AnswerRecord maps question number to the selected choice. Absence means unanswered.
type AnswerRecord map[int]int

// Clone copies the record so callers can't mutate session state.
func (a AnswerRecord) Clone() AnswerRecord {
	out := make(AnswerRecord, len(a))
	for q, c := range a {
		out[q] = c
	}
	return out
}

// ValidChoice reports whether c is a selectable choice index.
func ValidChoice(c int) bool {
	return c >= 1 && c <= ChoiceCount
}

// RoundSummary describes a round for the exam selector.
type RoundSummary struct {
	ID        int  `json:"id"`
	Questions int  `json:"questions"`
	Ready     bool `json:"ready"`
}
