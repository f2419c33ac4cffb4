package domain

import (
	"fmt"
	"time"
)

// Subject is a contiguous, inclusive range of question numbers with its own pass rate.
type Subject struct {
	Name     string  `json:"name" yaml:"name"`
	Start    int     `json:"start" yaml:"start"`
	End      int     `json:"end" yaml:"end"`
	PassRate float64 `json:"passRate" yaml:"pass_rate"`
}

// Total is the number of questions in the subject.
func (s Subject) Total() int {
	return s.End - s.Start + 1
}

// Contains reports whether question q belongs to the subject.
func (s Subject) Contains(q int) bool {
	return q >= s.Start && q <= s.End
}

// ExamRules is the per-deployment exam configuration.
type ExamRules struct {
	TotalQuestions int
	Duration       time.Duration
	Subjects       []Subject
	TotalPassRate  float64
}

// DefaultRules mirrors the nursing assistant mock exam layout.
func DefaultRules() ExamRules {
	return ExamRules{
		TotalQuestions: 105,
		Duration:       100 * time.Minute,
		Subjects: []Subject{
			{Name: "Basic Nursing", Start: 1, End: 35, PassRate: 0.4},
			{Name: "Health Nursing", Start: 36, End: 50, PassRate: 0.4},
			{Name: "Public Health", Start: 51, End: 70, PassRate: 0.4},
			{Name: "Practical Nursing", Start: 71, End: 105, PassRate: 0.4},
		},
		TotalPassRate: 0.6,
	}
}

// DurationSeconds is the countdown a fresh exam starts from.
func (r ExamRules) DurationSeconds() int {
	return int(r.Duration / time.Second)
}

// SubjectFor returns the subject containing question q. Linear scan; the list is tiny.
func (r ExamRules) SubjectFor(q int) (Subject, bool) {
	for _, s := range r.Subjects {
		if s.Contains(q) {
			return s, true
		}
	}
	return Subject{}, false
}

// SubjectByName finds a subject by its configured name.
func (r ExamRules) SubjectByName(name string) (Subject, bool) {
	for _, s := range r.Subjects {
		if s.Name == name {
			return s, true
		}
	}
	return Subject{}, false
}

// Validate checks that subjects partition [1, TotalQuestions] in order and that
// every rate is a ratio.
func (r ExamRules) Validate() error {
	if r.TotalQuestions <= 0 {
		return fmt.Errorf("%w: total questions must be positive, got %d", ErrInvalidRules, r.TotalQuestions)
	}
	if r.DurationSeconds() <= 0 {
		return fmt.Errorf("%w: exam duration must be at least one second", ErrInvalidRules)
	}
	if r.TotalPassRate < 0 || r.TotalPassRate > 1 {
		return fmt.Errorf("%w: total pass rate %.2f outside [0,1]", ErrInvalidRules, r.TotalPassRate)
	}
	if len(r.Subjects) == 0 {
		return fmt.Errorf("%w: at least one subject is required", ErrInvalidRules)
	}

	seen := make(map[string]bool, len(r.Subjects))
	next := 1
	for _, s := range r.Subjects {
		if s.Name == "" {
			return fmt.Errorf("%w: subject starting at %d has no name", ErrInvalidRules, s.Start)
		}
		if seen[s.Name] {
			return fmt.Errorf("%w: duplicate subject %q", ErrInvalidRules, s.Name)
		}
		seen[s.Name] = true
		if s.Start != next {
			return fmt.Errorf("%w: subject %q starts at %d, expected %d", ErrInvalidRules, s.Name, s.Start, next)
		}
		if s.End < s.Start {
			return fmt.Errorf("%w: subject %q ends before it starts", ErrInvalidRules, s.Name)
		}
		if s.PassRate < 0 || s.PassRate > 1 {
			return fmt.Errorf("%w: subject %q pass rate %.2f outside [0,1]", ErrInvalidRules, s.Name, s.PassRate)
		}
		next = s.End + 1
	}
	if next != r.TotalQuestions+1 {
		return fmt.Errorf("%w: subjects cover 1..%d, expected 1..%d", ErrInvalidRules, next-1, r.TotalQuestions)
	}
	return nil
}
