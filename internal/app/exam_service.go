package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"mock-exam-service/internal/domain"
)

// SessionRepository abstracts where live sessions are kept (in-memory, Redis-marked, etc).
type SessionRepository interface {
	Put(session *Session)
	Get(id string) (*Session, bool)
	Delete(id string)
}

// RoundRepository loads round content (from cache/backing store).
type RoundRepository interface {
	GetRound(ctx context.Context, id int) (domain.Round, error)
	ListRounds(ctx context.Context) ([]int, error)
}

// ExamService contains the exam use cases. It turns presentation intents into
// session transitions.
type ExamService struct {
	sessions SessionRepository
	rounds   RoundRepository
	rules    domain.ExamRules
	ticker   TickerFunc
	newID    func() string
	logger   *slog.Logger
}

func NewExamService(store SessionRepository, rounds RoundRepository, rules domain.ExamRules) *ExamService {
	return NewExamServiceWithTicker(store, rounds, rules, RealTicker)
}

// NewExamServiceWithTicker lets tests drive the countdown by hand.
func NewExamServiceWithTicker(store SessionRepository, rounds RoundRepository, rules domain.ExamRules, ticker TickerFunc) *ExamService {
	return &ExamService{
		sessions: store,
		rounds:   rounds,
		rules:    rules,
		ticker:   ticker,
		newID:    uuid.NewString,
		logger:   slog.Default().With("component", "exam"),
	}
}

// Rules returns the exam configuration sessions are created with.
func (s *ExamService) Rules() domain.ExamRules {
	return s.rules
}

// Open creates a fresh session on the start screen.
func (s *ExamService) Open(_ context.Context) (domain.Snapshot, error) {
	session := NewSession(s.newID(), s.rules, s.ticker)
	s.sessions.Put(session)
	s.logger.Info("session opened", "session", session.ID())
	return session.Snapshot(), nil
}

// Apply executes one intent. changed reports whether the session state moved;
// rejected intents (unconfigured round, out-of-range navigation, edits after
// submission) return changed=false with a nil error.
func (s *ExamService) Apply(ctx context.Context, sessionID string, intent domain.Intent) (domain.Snapshot, bool, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.Snapshot{}, false, domain.ErrSessionNotFound
	}

	var changed bool
	switch intent.Type {
	case domain.IntentStart:
		started, err := s.start(ctx, session, intent.Round)
		if err != nil {
			return session.Snapshot(), false, err
		}
		changed = started
	case domain.IntentSelect:
		changed = session.Toggle(intent.Question, intent.Choice)
	case domain.IntentSelectCurrent:
		changed = session.SelectCurrent(intent.Choice)
	case domain.IntentNavigate:
		changed = session.Navigate(intent.Direction)
	case domain.IntentPageSize:
		changed = session.SetPageSize(intent.PageSize)
	case domain.IntentJump:
		changed = session.JumpTo(intent.Question)
	case domain.IntentJumpSubject:
		changed = session.JumpToSubject(intent.Subject)
	case domain.IntentSubmit:
		changed = session.Submit()
		if changed {
			s.logSubmission(session)
		}
	case domain.IntentRetry:
		changed = session.Reset()
	default:
		return session.Snapshot(), false, fmt.Errorf("%w: %q", domain.ErrUnknownIntent, intent.Type)
	}
	return session.Snapshot(), changed, nil
}

func (s *ExamService) start(ctx context.Context, session *Session, roundID int) (bool, error) {
	if phase := session.Phase(); phase != domain.PhaseStart {
		s.logger.Info("start rejected: exam already running", "session", session.ID(), "phase", phase)
		return false, nil
	}
	round, err := s.rounds.GetRound(ctx, roundID)
	if errors.Is(err, domain.ErrRoundNotFound) {
		s.logger.Info("start rejected: round not configured", "session", session.ID(), "round", roundID)
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("load round %d: %w", roundID, err)
	}
	if !session.Start(round) {
		s.logger.Info("start rejected: no usable answer key", "session", session.ID(), "round", roundID)
		return false, nil
	}

	missing := 0
	for q := 1; q <= s.rules.TotalQuestions; q++ {
		if question, ok := round.Question(q); !ok || question.Text == "" {
			missing++
		}
	}
	if missing > 0 {
		s.logger.Warn("round has missing question content", "round", roundID, "missing", missing)
	}
	s.logger.Info("exam started", "session", session.ID(), "round", roundID)
	return true, nil
}

func (s *ExamService) logSubmission(session *Session) {
	snap := session.Snapshot()
	if snap.Result == nil {
		return
	}
	s.logger.Info("exam finished",
		"session", session.ID(),
		"round", snap.Round,
		"completion", snap.Completion,
		"correct", snap.Result.Correct,
		"passed", snap.Result.Passed,
	)
}

// Snapshot returns the current render model of a session.
func (s *ExamService) Snapshot(_ context.Context, sessionID string) (domain.Snapshot, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.Snapshot{}, domain.ErrSessionNotFound
	}
	return session.Snapshot(), nil
}

// Subscribe returns a channel that receives a snapshot after every state change,
// timer ticks included. The caller must invoke the returned cancel function to avoid leaks.
func (s *ExamService) Subscribe(_ context.Context, sessionID string) (<-chan domain.Snapshot, func(), error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, nil, domain.ErrSessionNotFound
	}
	ch, cancel := session.subscribe()
	return ch, cancel, nil
}

// Close stops the session timer and drops the session.
func (s *ExamService) Close(_ context.Context, sessionID string) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return
	}
	session.Close()
	s.sessions.Delete(sessionID)
	s.logger.Info("session closed", "session", sessionID)
}

// Rounds lists the rounds the content store knows about and whether each can be examined.
func (s *ExamService) Rounds(ctx context.Context) ([]domain.RoundSummary, error) {
	ids, err := s.rounds.ListRounds(ctx)
	if err != nil {
		return nil, fmt.Errorf("list rounds: %w", err)
	}
	out := make([]domain.RoundSummary, 0, len(ids))
	for _, id := range ids {
		round, err := s.rounds.GetRound(ctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrRoundNotFound) {
				continue
			}
			return nil, err
		}
		out = append(out, domain.RoundSummary{
			ID:        id,
			Questions: len(round.Questions),
			Ready:     round.HasAnswerKey(s.rules.TotalQuestions),
		})
	}
	return out, nil
}

// LookupQuestion returns question n of a round; ok is false when the content is missing.
func (s *ExamService) LookupQuestion(ctx context.Context, roundID, n int) (domain.Question, bool) {
	round, err := s.rounds.GetRound(ctx, roundID)
	if err != nil {
		return domain.Question{}, false
	}
	return round.Question(n)
}

// AnswerKey returns the round's key; ok is false when the round is unconfigured.
func (s *ExamService) AnswerKey(ctx context.Context, roundID int) ([]int, bool) {
	round, err := s.rounds.GetRound(ctx, roundID)
	if err != nil || !round.HasAnswerKey(s.rules.TotalQuestions) {
		return nil, false
	}
	key := make([]int, len(round.AnswerKey))
	copy(key, round.AnswerKey)
	return key, true
}
