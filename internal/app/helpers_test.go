package app

import (
	"sync"
	"time"

	"mock-exam-service/internal/domain"
)

// testRules is a ten-question exam split into two subjects.
func testRules() domain.ExamRules {
	return domain.ExamRules{
		TotalQuestions: 10,
		Duration:       2 * time.Minute,
		TotalPassRate:  0.6,
		Subjects: []domain.Subject{
			{Name: "Anatomy", Start: 1, End: 5, PassRate: 0.4},
			{Name: "Practice", Start: 6, End: 10, PassRate: 0.4},
		},
	}
}

func testKey() []int {
	return []int{1, 2, 3, 4, 3, 1, 2, 3, 4, 5}
}

func testRound() domain.Round {
	questions := make(map[int]domain.Question)
	for q := 1; q <= 9; q++ { // question 10 is deliberately missing
		questions[q] = domain.Question{
			Number:  q,
			Text:    "Question text",
			Choices: [5]string{"a", "b", "c", "d", "e"},
		}
	}
	return domain.Round{ID: 1, AnswerKey: testKey(), Questions: questions}
}

// manualTicker records every timer the session starts so tests can fire ticks.
type manualTicker struct {
	mu      sync.Mutex
	fns     []func()
	stopped []bool
}

func (m *manualTicker) start(_ time.Duration, fn func()) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	idx := len(m.fns)
	m.fns = append(m.fns, fn)
	m.stopped = append(m.stopped, false)
	return func() {
		m.mu.Lock()
		m.stopped[idx] = true
		m.mu.Unlock()
	}
}

// fire invokes timer i once, the way a late tick from a goroutine would.
func (m *manualTicker) fire(i int) {
	m.mu.Lock()
	fn := m.fns[i]
	m.mu.Unlock()
	fn()
}

func (m *manualTicker) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.fns)
}

func (m *manualTicker) isStopped(i int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stopped[i]
}
