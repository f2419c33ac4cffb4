package app

import (
	"fmt"
	"sync"
	"time"

	"mock-exam-service/internal/domain"
)

// warnSeconds is the remaining time at which the clock is flagged.
const warnSeconds = 600

// Session is one candidate's exam attempt. It is created at exam open and
// discarded when the connection goes away; nothing in it is persisted.
type Session struct {
	id     string
	rules  domain.ExamRules
	ticker TickerFunc

	mu          sync.RWMutex
	phase       domain.Phase
	completion  domain.Completion
	round       *domain.Round
	answers     domain.AnswerRecord
	pager       Pager
	remaining   int
	finished    bool
	review      bool
	result      *domain.Result
	timerGen    uint64
	stopTimer   func()
	version     uint64
	closed      bool
	subscribers map[chan domain.Snapshot]struct{}
}

// NewSession is exported for infrastructure layers that need to seed sessions.
// A nil ticker leaves the countdown to explicit Tick calls.
func NewSession(id string, rules domain.ExamRules, ticker TickerFunc) *Session {
	return &Session{
		id:          id,
		rules:       rules,
		ticker:      ticker,
		phase:       domain.PhaseStart,
		answers:     domain.AnswerRecord{},
		pager:       newPager(rules.TotalQuestions),
		subscribers: make(map[chan domain.Snapshot]struct{}),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Phase returns the current state machine phase.
func (s *Session) Phase() domain.Phase {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.phase
}

// Answers returns a copy of the answer record.
func (s *Session) Answers() domain.AnswerRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.answers.Clone()
}

// Start begins an exam over round. It is only accepted on the start screen and
// is rejected when the round has no usable answer key.
func (s *Session) Start(round domain.Round) bool {
	return s.mutate(func() bool {
		if s.closed || s.phase != domain.PhaseStart || !round.HasAnswerKey(s.rules.TotalQuestions) {
			return false
		}
		s.stopTimerLocked()
		s.round = &round
		s.answers = domain.AnswerRecord{}
		s.pager = newPager(s.rules.TotalQuestions)
		s.remaining = s.rules.DurationSeconds()
		s.finished = false
		s.review = false
		s.result = nil
		s.completion = domain.CompletionNone
		s.phase = domain.PhaseInProgress
		s.startTimerLocked()
		return true
	})
}

// Toggle records choice for question q, or clears it when the same choice is
// already recorded.
func (s *Session) Toggle(q, choice int) bool {
	return s.mutate(func() bool {
		return s.toggleLocked(q, choice)
	})
}

// SelectCurrent toggles choice on the question being shown. It only applies
// in the one-question layout.
func (s *Session) SelectCurrent(choice int) bool {
	return s.mutate(func() bool {
		if s.pager.PageSize != 1 {
			return false
		}
		return s.toggleLocked(s.pager.Pointer+1, choice)
	})
}

func (s *Session) toggleLocked(q, choice int) bool {
	if s.phase != domain.PhaseInProgress || s.finished {
		return false
	}
	if q < 1 || q > s.rules.TotalQuestions || !domain.ValidChoice(choice) {
		return false
	}
	if s.answers[q] == choice {
		delete(s.answers, q)
	} else {
		s.answers[q] = choice
	}
	return true
}

// Navigate moves one page forward (dir 1) or backward (dir -1).
func (s *Session) Navigate(dir int) bool {
	return s.mutate(func() bool {
		if !s.navigableLocked() {
			return false
		}
		next, ok := s.pager.Move(dir)
		s.pager = next
		return ok
	})
}

// SetPageSize switches between one and two questions per page.
func (s *Session) SetPageSize(n int) bool {
	return s.mutate(func() bool {
		if !s.navigableLocked() {
			return false
		}
		next, ok := s.pager.WithPageSize(n)
		s.pager = next
		return ok
	})
}

// JumpTo shows the page containing question q.
func (s *Session) JumpTo(q int) bool {
	return s.mutate(func() bool {
		return s.jumpLocked(q)
	})
}

// JumpToSubject shows the page containing the first question of the named subject.
func (s *Session) JumpToSubject(name string) bool {
	return s.mutate(func() bool {
		subject, ok := s.rules.SubjectByName(name)
		if !ok {
			return false
		}
		return s.jumpLocked(subject.Start)
	})
}

func (s *Session) jumpLocked(q int) bool {
	if !s.navigableLocked() {
		return false
	}
	next, ok := s.pager.JumpTo(q)
	s.pager = next
	return ok
}

func (s *Session) navigableLocked() bool {
	return s.phase == domain.PhaseInProgress || s.phase == domain.PhaseReview
}

// Submit finishes the exam and scores it. Calling it again is a no-op.
func (s *Session) Submit() bool {
	return s.mutate(func() bool {
		if s.phase != domain.PhaseInProgress {
			return false
		}
		s.finishLocked(domain.CompletionSubmitted)
		return true
	})
}

// Tick advances the countdown by one second; reaching zero forces submission.
func (s *Session) Tick() bool {
	return s.mutate(s.tickLocked)
}

// tickFrom ignores ticks from a timer that has since been stopped or replaced.
func (s *Session) tickFrom(gen uint64) {
	s.mutate(func() bool {
		if gen != s.timerGen {
			return false
		}
		return s.tickLocked()
	})
}

func (s *Session) tickLocked() bool {
	if s.phase != domain.PhaseInProgress {
		return false
	}
	if s.remaining > 0 {
		s.remaining--
	}
	if s.remaining == 0 {
		s.finishLocked(domain.CompletionExpired)
	}
	return true
}

func (s *Session) finishLocked(completion domain.Completion) {
	s.stopTimerLocked()
	s.finished = true
	s.review = true
	s.phase = domain.PhaseReview
	s.completion = completion
	result := Score(s.rules, s.round.AnswerKey, s.answers)
	s.result = &result
	s.pager.Pointer = 0
}

// Reset returns to the start screen, dropping the round, answers and timer.
func (s *Session) Reset() bool {
	return s.mutate(func() bool {
		if s.phase == domain.PhaseStart {
			return false
		}
		s.stopTimerLocked()
		s.round = nil
		s.answers = domain.AnswerRecord{}
		s.pager = newPager(s.rules.TotalQuestions)
		s.remaining = 0
		s.finished = false
		s.review = false
		s.result = nil
		s.completion = domain.CompletionNone
		s.phase = domain.PhaseStart
		return true
	})
}

// Close stops the timer and releases subscribers. The session rejects every
// later start.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.stopTimerLocked()
	for ch := range s.subscribers {
		delete(s.subscribers, ch)
		close(ch)
	}
}

func (s *Session) startTimerLocked() {
	s.timerGen++
	if s.ticker == nil {
		return
	}
	gen := s.timerGen
	s.stopTimer = s.ticker(time.Second, func() { s.tickFrom(gen) })
}

func (s *Session) stopTimerLocked() {
	// Bumping the generation invalidates a tick already in flight.
	s.timerGen++
	if s.stopTimer != nil {
		s.stopTimer()
		s.stopTimer = nil
	}
}

// mutate applies fn under the write lock and, if it changed anything, bumps
// the version and notifies subscribers.
func (s *Session) mutate(fn func() bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !fn() {
		return false
	}
	s.version++
	s.broadcastLocked()
	return true
}

// Snapshot renders the current state.
func (s *Session) Snapshot() domain.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Session) subscribe() (<-chan domain.Snapshot, func()) {
	ch := make(chan domain.Snapshot, 8)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	s.subscribers[ch] = struct{}{}
	// The channel is fresh and buffered, so this cannot block under the lock.
	ch <- s.snapshotLocked()
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

func (s *Session) broadcastLocked() {
	if len(s.subscribers) == 0 {
		return
	}
	snap := s.snapshotLocked()
	for ch := range s.subscribers {
		select {
		case ch <- snap:
		default:
			// Slow reader: replace the stale snapshot with the newest one.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snap:
			default:
			}
		}
	}
}

func (s *Session) snapshotLocked() domain.Snapshot {
	first, last := s.pager.Visible()
	answered := len(s.answers)

	snap := domain.Snapshot{
		SessionID:   s.id,
		Version:     s.version,
		Phase:       s.phase,
		Completion:  s.completion,
		Remaining:   s.remaining,
		Clock:       formatClock(s.remaining),
		TimeWarning: s.phase == domain.PhaseInProgress && s.remaining <= warnSeconds,
		PageSize:    s.pager.PageSize,
		Pointer:     s.pager.Pointer,
		Page:        s.pager.Page(),
		TotalPages:  s.pager.TotalPages(),
		HasPrev:     s.pager.HasPrev(),
		HasNext:     s.pager.HasNext(),
		Answered:    answered,
		Unanswered:  s.rules.TotalQuestions - answered,
	}
	if s.round == nil {
		return snap
	}

	snap.Round = s.round.ID
	snap.Questions = make([]domain.QuestionView, 0, last-first+1)
	for q := first; q <= last; q++ {
		snap.Questions = append(snap.Questions, s.questionViewLocked(q))
	}
	snap.Sheet = s.sheetLocked(first, last)
	if s.result != nil {
		result := *s.result
		snap.Result = &result
	}
	return snap
}

func (s *Session) questionViewLocked(q int) domain.QuestionView {
	question, ok := s.round.Question(q)
	selected := s.answers[q]
	correct := s.round.Correct(q)

	view := domain.QuestionView{
		Number:  q,
		Subject: s.subjectName(q),
		Text:    question.Text,
		Choices: make([]domain.ChoiceView, 0, domain.ChoiceCount),
	}
	if !ok || question.Text == "" {
		view.Text = fmt.Sprintf("Question %d", q)
		view.Missing = true
	}

	for c := 1; c <= domain.ChoiceCount; c++ {
		choice := domain.ChoiceView{
			Index:    c,
			Text:     question.Choice(c),
			Selected: selected == c,
		}
		if s.review {
			choice.Correct = c == correct
			choice.Wrong = c == selected && c != correct
		}
		view.Choices = append(view.Choices, choice)
	}

	if s.review && s.result != nil {
		view.Status = s.result.Mark(q)
		if selected != correct {
			view.Answer = correct
		}
	}
	return view
}

func (s *Session) sheetLocked(first, last int) []domain.SheetRow {
	rows := make([]domain.SheetRow, 0, s.rules.TotalQuestions)
	prev := ""
	for q := 1; q <= s.rules.TotalQuestions; q++ {
		subject := s.subjectName(q)
		row := domain.SheetRow{
			Number:       q,
			Subject:      subject,
			SectionStart: q == 1 || subject != prev,
			Selected:     s.answers[q],
			Current:      q >= first && q <= last,
		}
		switch {
		case s.review && s.result != nil:
			row.Correct = s.round.Correct(q)
			row.Status = s.result.Mark(q)
		case row.Selected != 0:
			row.Status = domain.MarkAnswered
		}
		rows = append(rows, row)
		prev = subject
	}
	return rows
}

func (s *Session) subjectName(q int) string {
	subject, _ := s.rules.SubjectFor(q)
	return subject.Name
}

func formatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
