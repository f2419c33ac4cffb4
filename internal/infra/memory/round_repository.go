package memory

import (
	"context"
	"math/rand"
	"sort"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
	"mock-exam-service/internal/domain"
)

// RoundLoader fetches round content from a backing store (catalog file, Postgres).
type RoundLoader interface {
	LoadRound(ctx context.Context, id int) (domain.Round, error)
	LoadRoundIDs(ctx context.Context) ([]int, error)
}

// RoundRepository caches rounds with TTL to avoid repeated loads.
type RoundRepository struct {
	loader RoundLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand
	rndMu  sync.Mutex

	mu    sync.RWMutex
	cache map[int]cachedRound
}

type cachedRound struct {
	round     domain.Round
	expiresAt time.Time
}

func NewRoundRepository(loader RoundLoader, ttl time.Duration) *RoundRepository {
	return &RoundRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[int]cachedRound),
	}
}

func (r *RoundRepository) GetRound(ctx context.Context, id int) (domain.Round, error) {
	if round, ok := r.cached(id); ok {
		return round, nil
	}

	result, err, _ := r.sf.Do(strconv.Itoa(id), func() (interface{}, error) {
		if round, ok := r.cached(id); ok {
			return round, nil
		}

		round, err := r.loader.LoadRound(ctx, id)
		if err != nil {
			return domain.Round{}, err
		}

		r.mu.Lock()
		r.cache[id] = cachedRound{
			round:     round,
			expiresAt: r.clock().Add(r.ttlWithJitter()),
		}
		r.mu.Unlock()
		return round, nil
	})
	if err != nil {
		return domain.Round{}, err
	}
	return result.(domain.Round), nil
}

// ListRounds is not cached; the selector is only read when a session starts.
func (r *RoundRepository) ListRounds(ctx context.Context) ([]int, error) {
	return r.loader.LoadRoundIDs(ctx)
}

func (r *RoundRepository) cached(id int) (domain.Round, bool) {
	now := r.clock()
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.cache[id]
	if !ok || !entry.expiresAt.After(now) {
		return domain.Round{}, false
	}
	return entry.round, true
}

func (r *RoundRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}

// StaticRoundLoader is a simple loader backed by an in-memory map (useful for tests/demos).
type StaticRoundLoader struct {
	rounds map[int]domain.Round
}

func NewStaticRoundLoader(rounds map[int]domain.Round) *StaticRoundLoader {
	return &StaticRoundLoader{rounds: rounds}
}

func (l *StaticRoundLoader) LoadRound(_ context.Context, id int) (domain.Round, error) {
	if round, ok := l.rounds[id]; ok {
		return round, nil
	}
	return domain.Round{}, domain.ErrRoundNotFound
}

func (l *StaticRoundLoader) LoadRoundIDs(_ context.Context) ([]int, error) {
	ids := make([]int, 0, len(l.rounds))
	for id := range l.rounds {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids, nil
}
