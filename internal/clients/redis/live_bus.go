package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/shotlist-app/shotlist-backend/internal/logger"
)

// Snapshot is what the bus carries: the latest state of a list, pushed to
// every subscriber of the owning project's channel after a mutation.
type Snapshot struct {
	ProjectID uuid.UUID       `json:"project_id"`
	ListID    uuid.UUID       `json:"list_id"`
	ListType  string          `json:"list_type"`
	Version   int             `json:"version"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// Subscribable is the explicit capability interface for a live backend. A
// backend either implements all of it or is not wired at all; there is no
// per-call "does it support subscribe" probing.
type Subscribable interface {
	Publish(ctx context.Context, snap Snapshot) error
	Subscribe(ctx context.Context, projectID uuid.UUID, onSnap func(Snapshot)) (*Subscription, error)
	Close() error
}

// Subscription guards against late delivery after the caller has torn down:
// Cancel flips a liveness flag and messages arriving afterwards are dropped.
// The backend itself is not cancelled; this is teardown hygiene, not true
// cancellation.
type Subscription struct {
	cancel context.CancelFunc
	live   atomic.Bool
	done   chan struct{}
}

func (s *Subscription) Cancel() {
	if s == nil {
		return
	}
	if s.live.CompareAndSwap(true, false) {
		s.cancel()
	}
}

func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

type LiveBus struct {
	log     *logger.Logger
	rdb     *goredis.Client
	prefix  string
	mu      sync.Mutex
	subs    []*Subscription
	closing bool
}

func NewLiveBus(log *logger.Logger) (*LiveBus, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	prefix := strings.TrimSpace(os.Getenv("REDIS_CHANNEL_PREFIX"))
	if prefix == "" {
		prefix = "lists"
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &LiveBus{
		log:    log.With("component", "LiveBus"),
		rdb:    rdb,
		prefix: prefix,
	}, nil
}

func (b *LiveBus) channel(projectID uuid.UUID) string {
	return fmt.Sprintf("%s:%s", b.prefix, projectID)
}

func (b *LiveBus) Publish(ctx context.Context, snap Snapshot) error {
	if b == nil || b.rdb == nil {
		return fmt.Errorf("live bus not initialized")
	}
	raw, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return b.rdb.Publish(ctx, b.channel(snap.ProjectID), raw).Err()
}

func (b *LiveBus) Subscribe(ctx context.Context, projectID uuid.UUID, onSnap func(Snapshot)) (*Subscription, error) {
	if b == nil || b.rdb == nil {
		return nil, fmt.Errorf("live bus not initialized")
	}
	if onSnap == nil {
		return nil, fmt.Errorf("onSnap callback required")
	}

	subCtx, cancel := context.WithCancel(ctx)
	pubsub := b.rdb.Subscribe(subCtx, b.channel(projectID))
	if _, err := pubsub.Receive(subCtx); err != nil {
		cancel()
		_ = pubsub.Close()
		return nil, fmt.Errorf("redis subscribe: %w", err)
	}

	sub := &Subscription{cancel: cancel, done: make(chan struct{})}
	sub.live.Store(true)

	b.mu.Lock()
	b.subs = append(b.subs, sub)
	b.mu.Unlock()

	go func() {
		defer close(sub.done)
		defer pubsub.Close()
		ch := pubsub.Channel()
		for {
			select {
			case <-subCtx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				if !sub.live.Load() {
					// late delivery after teardown
					continue
				}
				var snap Snapshot
				if err := json.Unmarshal([]byte(msg.Payload), &snap); err != nil {
					b.log.Warn("dropping undecodable snapshot", "error", err)
					continue
				}
				onSnap(snap)
			}
		}
	}()

	return sub, nil
}

func (b *LiveBus) Close() error {
	if b == nil || b.rdb == nil {
		return nil
	}
	b.mu.Lock()
	b.closing = true
	subs := b.subs
	b.subs = nil
	b.mu.Unlock()
	for _, s := range subs {
		s.Cancel()
	}
	return b.rdb.Close()
}
