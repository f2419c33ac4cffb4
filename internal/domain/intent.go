package domain

// IntentType names a user action sent from the presentation layer.
type IntentType string

const (
	IntentStart         IntentType = "start"
	IntentSelect        IntentType = "select"
	IntentSelectCurrent IntentType = "key"
	IntentNavigate      IntentType = "navigate"
	IntentPageSize      IntentType = "layout"
	IntentJump          IntentType = "jump"
	IntentJumpSubject   IntentType = "subject"
	IntentSubmit        IntentType = "submit"
	IntentRetry         IntentType = "retry"
)

// Intent is a single command against a session. Only the fields relevant to
// Type are read.
type Intent struct {
	Type      IntentType `json:"type"`
	Round     int        `json:"round,omitempty"`
	Question  int        `json:"question,omitempty"`
	Choice    int        `json:"choice,omitempty"`
	Direction int        `json:"direction,omitempty"`
	PageSize  int        `json:"pageSize,omitempty"`
	Subject   string     `json:"subject,omitempty"`
}
