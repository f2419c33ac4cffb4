package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"mock-exam-service/internal/app"
	"mock-exam-service/internal/domain"
	"mock-exam-service/internal/infra/memory"
)

func TestApplyStartAndAnswer(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService()

	opened, err := service.Open(ctx)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	if opened.Phase != domain.PhaseStart {
		t.Fatalf("expected start phase, got %s", opened.Phase)
	}

	snap, changed, err := service.Apply(ctx, opened.SessionID, domain.Intent{Type: domain.IntentStart, Round: 1})
	if err != nil || !changed {
		t.Fatalf("start failed: changed=%v err=%v", changed, err)
	}
	if snap.Remaining != 180 || snap.Round != 1 {
		t.Fatalf("unexpected start snapshot %+v", snap)
	}

	snap, changed, err = service.Apply(ctx, opened.SessionID, domain.Intent{Type: domain.IntentSelect, Question: 2, Choice: 4})
	if err != nil || !changed || snap.Answered != 1 {
		t.Fatalf("select failed: changed=%v err=%v answered=%d", changed, err, snap.Answered)
	}

	snap, changed, _ = service.Apply(ctx, opened.SessionID, domain.Intent{Type: domain.IntentSubmit})
	if !changed || snap.Result == nil || snap.Result.Correct != 1 {
		t.Fatalf("submit failed: %+v", snap.Result)
	}
	if snap.Result.Passed {
		t.Fatalf("expected 1/3 to fail")
	}

	snap, changed, _ = service.Apply(ctx, opened.SessionID, domain.Intent{Type: domain.IntentRetry})
	if !changed || snap.Phase != domain.PhaseStart {
		t.Fatalf("expected retry to return to start, got %s", snap.Phase)
	}
}

func TestApplyStartRejectsUnconfiguredRound(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService()
	opened, _ := service.Open(ctx)

	for _, round := range []int{2, 42} { // 2 has no key, 42 does not exist
		snap, changed, err := service.Apply(ctx, opened.SessionID, domain.Intent{Type: domain.IntentStart, Round: round})
		if err != nil {
			t.Fatalf("round %d: expected silent rejection, got %v", round, err)
		}
		if changed || snap.Phase != domain.PhaseStart {
			t.Fatalf("round %d: expected no session, got %+v", round, snap)
		}
	}
}

func TestApplyErrors(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService()

	_, _, err := service.Apply(ctx, "missing", domain.Intent{Type: domain.IntentSubmit})
	if !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected session error, got %v", err)
	}

	opened, _ := service.Open(ctx)
	_, _, err = service.Apply(ctx, opened.SessionID, domain.Intent{Type: "dance"})
	if !errors.Is(err, domain.ErrUnknownIntent) {
		t.Fatalf("expected unknown intent error, got %v", err)
	}
}

func TestSubscribeReceivesUpdates(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService()
	opened, _ := service.Open(ctx)

	ch, cancel, err := service.Subscribe(ctx, opened.SessionID)
	if err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}
	defer cancel()

	<-ch // initial snapshot

	if _, _, err := service.Apply(ctx, opened.SessionID, domain.Intent{Type: domain.IntentStart, Round: 1}); err != nil {
		t.Fatalf("start failed: %v", err)
	}

	update := <-ch
	if update.Phase != domain.PhaseInProgress {
		t.Fatalf("expected in-progress update, got %s", update.Phase)
	}
}

func TestCloseDropsSession(t *testing.T) {
	ctx := context.Background()
	service, store := newTestService()
	opened, _ := service.Open(ctx)

	service.Close(ctx, opened.SessionID)
	if store.Len() != 0 {
		t.Fatalf("expected session dropped")
	}
	if _, err := service.Snapshot(ctx, opened.SessionID); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected session error, got %v", err)
	}
}

func TestContentLookups(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService()

	rounds, err := service.Rounds(ctx)
	if err != nil {
		t.Fatalf("rounds: %v", err)
	}
	if len(rounds) != 2 || !rounds[0].Ready || rounds[1].Ready {
		t.Fatalf("unexpected round summaries %+v", rounds)
	}

	q, ok := service.LookupQuestion(ctx, 1, 2)
	if !ok || q.Text != "Pick four" || q.Choice(4) != "four" {
		t.Fatalf("unexpected question %+v ok=%v", q, ok)
	}
	if _, ok := service.LookupQuestion(ctx, 1, 3); ok {
		t.Fatalf("expected missing sentinel for absent question")
	}

	key, ok := service.AnswerKey(ctx, 1)
	if !ok || len(key) != 3 || key[1] != 4 {
		t.Fatalf("unexpected key %v ok=%v", key, ok)
	}
	if _, ok := service.AnswerKey(ctx, 2); ok {
		t.Fatalf("expected absent key for round 2")
	}
}

func newTestService() (*app.ExamService, *memory.SessionStore) {
	rules := domain.ExamRules{
		TotalQuestions: 3,
		Duration:       3 * time.Minute,
		TotalPassRate:  0.6,
		Subjects:       []domain.Subject{{Name: "All", Start: 1, End: 3, PassRate: 0.4}},
	}
	store := memory.NewSessionStore()
	rounds := memory.NewRoundRepository(memory.NewStaticRoundLoader(map[int]domain.Round{
		1: {
			ID:        1,
			AnswerKey: []int{1, 4, 2},
			Questions: map[int]domain.Question{
				1: {Number: 1, Text: "Pick one", Choices: [5]string{"one", "two", "three", "four", "five"}},
				2: {Number: 2, Text: "Pick four", Choices: [5]string{"one", "two", "three", "four", "five"}},
			},
		},
		2: {ID: 2},
	}), 5*time.Minute)
	return app.NewExamServiceWithTicker(store, rounds, rules, nil), store
}
