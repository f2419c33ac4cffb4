package domain

import (
	"errors"
	"testing"
	"time"
)

func TestDefaultRulesValid(t *testing.T) {
	if err := DefaultRules().Validate(); err != nil {
		t.Fatalf("default rules invalid: %v", err)
	}
}

func TestValidateRejectsBrokenPartitions(t *testing.T) {
	base := func() ExamRules {
		return ExamRules{
			TotalQuestions: 10,
			Duration:       time.Minute,
			TotalPassRate:  0.6,
			Subjects: []Subject{
				{Name: "A", Start: 1, End: 5, PassRate: 0.4},
				{Name: "B", Start: 6, End: 10, PassRate: 0.4},
			},
		}
	}

	cases := map[string]func(r *ExamRules){
		"gap":            func(r *ExamRules) { r.Subjects[1].Start = 7 },
		"overlap":        func(r *ExamRules) { r.Subjects[1].Start = 5 },
		"short":          func(r *ExamRules) { r.Subjects[1].End = 9 },
		"reversed":       func(r *ExamRules) { r.Subjects[0].End = 0 },
		"duplicate name": func(r *ExamRules) { r.Subjects[1].Name = "A" },
		"subject rate":   func(r *ExamRules) { r.Subjects[0].PassRate = 1.5 },
		"total rate":     func(r *ExamRules) { r.TotalPassRate = -0.1 },
		"no questions":   func(r *ExamRules) { r.TotalQuestions = 0 },
		"no time":        func(r *ExamRules) { r.Duration = 0 },
		"no subjects":    func(r *ExamRules) { r.Subjects = nil },
	}
	for name, mutate := range cases {
		rules := base()
		mutate(&rules)
		if err := rules.Validate(); !errors.Is(err, ErrInvalidRules) {
			t.Fatalf("%s: expected ErrInvalidRules, got %v", name, err)
		}
	}

	if err := base().Validate(); err != nil {
		t.Fatalf("base rules should be valid: %v", err)
	}
}

func TestSubjectLookup(t *testing.T) {
	rules := DefaultRules()

	s, ok := rules.SubjectFor(36)
	if !ok || s.Name != "Health Nursing" {
		t.Fatalf("expected Health Nursing for q36, got %+v ok=%v", s, ok)
	}
	if _, ok := rules.SubjectFor(106); ok {
		t.Fatalf("expected no subject past the last question")
	}
	if s, ok := rules.SubjectByName("Practical Nursing"); !ok || s.Start != 71 || s.Total() != 35 {
		t.Fatalf("unexpected subject %+v ok=%v", s, ok)
	}
}

func TestRoundAnswerKey(t *testing.T) {
	r := Round{ID: 1, AnswerKey: []int{1, 2, 3}}
	if !r.HasAnswerKey(3) {
		t.Fatalf("expected key usable for 3 questions")
	}
	if r.HasAnswerKey(4) {
		t.Fatalf("short key must not be usable")
	}
	r.AnswerKey[1] = 6
	if r.HasAnswerKey(3) {
		t.Fatalf("key with choice 6 must not be usable")
	}
	if r.Correct(0) != 0 || r.Correct(3) != 3 {
		t.Fatalf("unexpected Correct lookups")
	}
}
