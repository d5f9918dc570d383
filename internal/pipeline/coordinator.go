package pipeline

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

const (
	lockKey     = "content:regenerate:lock"
	lockTTL     = 2 * time.Minute
	lockPoll    = 100 * time.Millisecond
	lockWaitMax = 30 * time.Second
)

var ErrLockTimeout = errors.New("regeneration lock not acquired")

// releaseScript deletes the lock only if it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Notifier is told about every run that wrote the index.
type Notifier interface {
	Regenerated(ctx context.Context, report Report)
}

// Coordinator makes sure at most one regeneration is in flight. The mutex covers
// this process, the Redis lock covers other processes sharing the content tree.
type Coordinator struct {
	pipeline *Pipeline
	redis    *redis.Client
	notifier Notifier
	mu       sync.Mutex

	lockWait time.Duration
}

func NewCoordinator(p *Pipeline, redisClient *redis.Client, notifier Notifier) *Coordinator {
	return &Coordinator{
		pipeline: p,
		redis:    redisClient,
		notifier: notifier,
		lockWait: lockWaitMax,
	}
}

// Regenerate runs the pipeline under the lock. It returns the fatal error if the run
// aborted, otherwise the report's partial failure (if any).
func (c *Coordinator) Regenerate(ctx context.Context) (Report, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	release, err := c.acquire(ctx)
	if err != nil {
		return Report{}, err
	}
	defer release()

	report, err := c.pipeline.Run(ctx)
	if err != nil {
		return report, errors.Wrap(err, "regenerate")
	}
	if c.notifier != nil {
		c.notifier.Regenerated(ctx, report)
	}
	return report, report.Err()
}

func (c *Coordinator) acquire(ctx context.Context) (func(), error) {
	if c.redis == nil {
		return func() {}, nil
	}

	token := uuid.NewString()
	deadline := time.Now().Add(c.lockWait)
	for {
		ok, err := c.redis.SetNX(ctx, lockKey, token, lockTTL).Result()
		if err != nil {
			return nil, errors.Wrap(err, "acquire regeneration lock")
		}
		if ok {
			break
		}
		if time.Now().After(deadline) {
			return nil, ErrLockTimeout
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(lockPoll):
		}
	}

	return func() {
		if err := releaseScript.Run(context.Background(), c.redis, []string{lockKey}, token).Err(); err != nil {
			log.Printf("release regeneration lock: %v", err)
		}
	}, nil
}
