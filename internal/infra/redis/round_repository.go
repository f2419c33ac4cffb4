package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
	"mock-exam-service/internal/domain"
)

// RoundLoader fetches round content from a backing store (catalog file, Postgres).
type RoundLoader interface {
	LoadRound(ctx context.Context, id int) (domain.Round, error)
	LoadRoundIDs(ctx context.Context) ([]int, error)
}

// RoundRepository caches rounds in Redis (two hashes per round) and falls back to a loader on cache miss.
// Answer keys are stored as: HSET exam:round:{id}:answers   {question} {choice}
// Questions are stored as:   HSET exam:round:{id}:questions {question} {json}
type RoundRepository struct {
	client *redis.Client
	loader RoundLoader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
	rndMu  sync.Mutex
}

func NewRoundRepository(client *redis.Client, loader RoundLoader, ttl time.Duration) *RoundRepository {
	return &RoundRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *RoundRepository) GetRound(ctx context.Context, id int) (domain.Round, error) {
	if round, ok := r.fromCache(ctx, id); ok {
		return round, nil
	}

	result, err, _ := r.sf.Do(strconv.Itoa(id), func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if round, ok := r.fromCache(ctx, id); ok {
			return round, nil
		}

		round, err := r.loader.LoadRound(ctx, id)
		if err != nil {
			return domain.Round{}, err
		}
		r.store(ctx, round)
		return round, nil
	})
	if err != nil {
		return domain.Round{}, err
	}
	return result.(domain.Round), nil
}

func (r *RoundRepository) ListRounds(ctx context.Context) ([]int, error) {
	return r.loader.LoadRoundIDs(ctx)
}

func (r *RoundRepository) fromCache(ctx context.Context, id int) (domain.Round, bool) {
	answers, err := r.client.HGetAll(ctx, r.answersKey(id)).Result()
	if err != nil || len(answers) == 0 {
		return domain.Round{}, false
	}
	questions, _ := r.client.HGetAll(ctx, r.questionsKey(id)).Result()
	return buildRoundFromCache(id, answers, questions), true
}

// store writes the round best-effort; a failed write only costs a reload.
func (r *RoundRepository) store(ctx context.Context, round domain.Round) {
	if len(round.AnswerKey) == 0 {
		return
	}
	answersKey := r.answersKey(round.ID)
	questionsKey := r.questionsKey(round.ID)
	ttl := r.ttlWithJitter()

	pipe := r.client.Pipeline()
	pipe.Del(ctx, answersKey, questionsKey)
	for i, choice := range round.AnswerKey {
		pipe.HSet(ctx, answersKey, strconv.Itoa(i+1), choice)
	}
	for n, q := range round.Questions {
		raw, err := json.Marshal(q)
		if err != nil {
			continue
		}
		pipe.HSet(ctx, questionsKey, strconv.Itoa(n), raw)
	}
	if ttl > 0 {
		pipe.Expire(ctx, answersKey, ttl)
		pipe.Expire(ctx, questionsKey, ttl)
	}
	_, _ = pipe.Exec(ctx)
}

func (r *RoundRepository) answersKey(id int) string {
	return "exam:round:" + strconv.Itoa(id) + ":answers"
}

func (r *RoundRepository) questionsKey(id int) string {
	return "exam:round:" + strconv.Itoa(id) + ":questions"
}

func buildRoundFromCache(id int, answers map[string]string, questions map[string]string) domain.Round {
	size := 0
	parsed := make(map[int]int, len(answers))
	for field, value := range answers {
		n, err := strconv.Atoi(field)
		if err != nil || n < 1 {
			continue
		}
		choice, err := strconv.Atoi(value)
		if err != nil {
			continue
		}
		parsed[n] = choice
		if n > size {
			size = n
		}
	}
	key := make([]int, size)
	for n, choice := range parsed {
		key[n-1] = choice
	}

	round := domain.Round{ID: id, AnswerKey: key, Questions: make(map[int]domain.Question, len(questions))}
	for field, raw := range questions {
		n, err := strconv.Atoi(field)
		if err != nil {
			continue
		}
		var q domain.Question
		if err := json.Unmarshal([]byte(raw), &q); err != nil {
			continue
		}
		round.Questions[n] = q
	}
	return round
}

func (r *RoundRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
