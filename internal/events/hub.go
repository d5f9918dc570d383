// Package events fans out content regeneration notices to this process and,
// through Redis pub/sub, to every other process serving the same content.
package events

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"backend-tripgallery/internal/pipeline"
)

const Channel = "content:regenerated"

type Event struct {
	Origin  string    `json:"origin"`
	Trips   int       `json:"trips"`
	Members int       `json:"members"`
	Failed  []string  `json:"failed,omitempty"`
	At      time.Time `json:"at"`
}

type Hub struct {
	id          string
	redis       *redis.Client
	subscribers map[*Subscriber]struct{}
	mu          sync.RWMutex
}

type Subscriber struct {
	Events chan Event
}

// NewHub subscribes to the Redis channel before returning, so no event published
// afterwards is missed. The subscription lives until ctx is cancelled.
func NewHub(ctx context.Context, redisClient *redis.Client) (*Hub, error) {
	h := &Hub{
		id:          uuid.NewString(),
		redis:       redisClient,
		subscribers: map[*Subscriber]struct{}{},
	}
	if redisClient == nil {
		return h, nil
	}

	pubsub := redisClient.Subscribe(ctx, Channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, err
	}
	go h.subscribeRedis(ctx, pubsub)
	return h, nil
}

func (h *Hub) Subscribe() *Subscriber {
	s := &Subscriber{Events: make(chan Event, 16)}
	h.mu.Lock()
	h.subscribers[s] = struct{}{}
	h.mu.Unlock()
	return s
}

func (h *Hub) Unsubscribe(s *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subscribers[s]; ok {
		delete(h.subscribers, s)
		close(s.Events)
	}
}

// Listen subscribes right away and calls fn for every event, from its own
// goroutine, until ctx is done.
func (h *Hub) Listen(ctx context.Context, fn func(Event)) {
	s := h.Subscribe()
	go func() {
		defer h.Unsubscribe(s)
		for {
			select {
			case <-ctx.Done():
				return
			case e, ok := <-s.Events:
				if !ok {
					return
				}
				fn(e)
			}
		}
	}()
}

// Publish delivers e to local subscribers and to the Redis channel.
func (h *Hub) Publish(ctx context.Context, e Event) {
	e.Origin = h.id
	if e.At.IsZero() {
		e.At = time.Now().UTC()
	}
	h.deliver(e)

	if h.redis == nil {
		return
	}
	payload, err := json.Marshal(e)
	if err != nil {
		log.Printf("encode event: %v", err)
		return
	}
	if err := h.redis.Publish(ctx, Channel, payload).Err(); err != nil {
		log.Printf("redis publish error: %v", err)
	}
}

// Regenerated publishes the outcome of a pipeline run.
func (h *Hub) Regenerated(ctx context.Context, report pipeline.Report) {
	e := Event{Trips: report.Trips, Members: report.Members}
	for _, f := range report.Failures {
		e.Failed = append(e.Failed, f.Slug)
	}
	h.Publish(ctx, e)
}

func (h *Hub) deliver(e Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for s := range h.subscribers {
		select {
		case s.Events <- e:
		default:
		}
	}
}

func (h *Hub) subscribeRedis(ctx context.Context, pubsub *redis.PubSub) {
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var e Event
			if err := json.Unmarshal([]byte(msg.Payload), &e); err != nil {
				log.Printf("drop malformed event: %v", err)
				continue
			}
			// already delivered locally by Publish
			if e.Origin == h.id {
				continue
			}
			h.deliver(e)
		}
	}
}
