package domain

// Phase is the coarse session state.
type Phase string

const (
	PhaseStart      Phase = "start"
	PhaseInProgress Phase = "in_progress"
	PhaseReview     Phase = "review"
)

// Completion records how an exam left InProgress.
type Completion string

const (
	CompletionNone      Completion = ""
	CompletionSubmitted Completion = "submitted"
	CompletionExpired   Completion = "expired"
)

// MarkStatus is the review classification of one question.
type MarkStatus string

const (
	MarkNone       MarkStatus = ""
	MarkAnswered   MarkStatus = "answered"
	MarkCorrect    MarkStatus = "correct"
	MarkWrong      MarkStatus = "wrong"
	MarkUnanswered MarkStatus = "unanswered"
)

// SubjectScore is the scorer output for one subject.
type SubjectScore struct {
	Name     string  `json:"name"`
	Correct  int     `json:"correct"`
	Total    int     `json:"total"`
	PassRate float64 `json:"passRate"`
	Passed   bool    `json:"passed"`
}

// Result is the scorer output for a finished session.
type Result struct {
	Subjects      []SubjectScore `json:"subjects"`
	Correct       int            `json:"correct"`
	Total         int            `json:"total"`
	Answered      int            `json:"answered"`
	Unanswered    int            `json:"unanswered"`
	OverallPassed bool           `json:"overallPassed"`
	Passed        bool           `json:"passed"`
	Marks         []MarkStatus   `json:"marks"` // Marks[i] is question i+1
}

// Mark returns the review status of question n.
func (r Result) Mark(n int) MarkStatus {
	if n < 1 || n > len(r.Marks) {
		return MarkNone
	}
	return r.Marks[n-1]
}

// ChoiceView is one rendered choice of a question card.
type ChoiceView struct {
	Index    int    `json:"index"`
	Text     string `json:"text"`
	Selected bool   `json:"selected"`
	Correct  bool   `json:"correct,omitempty"`
	Wrong    bool   `json:"wrong,omitempty"`
}

// QuestionView is a question card on the current page.
type QuestionView struct {
	Number  int          `json:"number"`
	Subject string       `json:"subject"`
	Text    string       `json:"text"`
	Missing bool         `json:"missing,omitempty"`
	Choices []ChoiceView `json:"choices"`
	Status  MarkStatus   `json:"status,omitempty"`
	// Answer is the correct choice, set in review only when the recorded choice differs.
	Answer int `json:"answer,omitempty"`
}

// SheetRow is one row of the answer sheet panel.
type SheetRow struct {
	Number       int        `json:"number"`
	Subject      string     `json:"subject"`
	SectionStart bool       `json:"sectionStart,omitempty"`
	Selected     int        `json:"selected,omitempty"`
	Correct      int        `json:"correct,omitempty"`
	Status       MarkStatus `json:"status,omitempty"`
	Current      bool       `json:"current,omitempty"`
}

// Snapshot is the render model handed to the presentation layer.
type Snapshot struct {
	SessionID   string         `json:"sessionId"`
	Version     uint64         `json:"version"`
	Phase       Phase          `json:"phase"`
	Completion  Completion     `json:"completion,omitempty"`
	Round       int            `json:"round,omitempty"`
	Remaining   int            `json:"remaining"`
	Clock       string         `json:"clock"`
	TimeWarning bool           `json:"timeWarning"`
	PageSize    int            `json:"pageSize"`
	Pointer     int            `json:"pointer"`
	Page        int            `json:"page"`
	TotalPages  int            `json:"totalPages"`
	HasPrev     bool           `json:"hasPrev"`
	HasNext     bool           `json:"hasNext"`
	Answered    int            `json:"answered"`
	Unanswered  int            `json:"unanswered"`
	Questions   []QuestionView `json:"questions,omitempty"`
	Sheet       []SheetRow     `json:"sheet,omitempty"`
	Result      *Result        `json:"result,omitempty"`
}
