// Package pubsub fans building events out to presentation layers.
package pubsub

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/dd0wney/cluso-habitat/pkg/logging"
	"github.com/google/uuid"
)

// Topics published by the habitat engine.
const (
	TopicBuildingUpdated = "building.updated"
	TopicEvaluated       = "building.evaluated"
)

// DefaultBuffer is the per-subscription channel capacity.
const DefaultBuffer = 64

// ErrShutdown is returned when subscribing to a closed broker.
var ErrShutdown = errors.New("pubsub: broker shut down")

// Broker provides publish/subscribe of T values. Publishing never blocks:
// a subscriber whose buffer is full misses the message.
type Broker[T any] struct {
	subscribers map[string]map[*Subscription[T]]bool
	mu          sync.RWMutex
	shutdown    chan struct{}
	shutdownMu  sync.Mutex
	isShutdown  bool

	buffer  int
	dropped atomic.Uint64
	onDrop  func(topic string)
	logger  logging.Logger
}

// Option configures a Broker.
type Option func(*options)

type options struct {
	buffer int
	onDrop func(topic string)
	logger logging.Logger
}

// WithBuffer sets the per-subscription channel capacity.
func WithBuffer(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.buffer = n
		}
	}
}

// WithDropHook is called for every message a slow subscriber misses.
func WithDropHook(fn func(topic string)) Option {
	return func(o *options) { o.onDrop = fn }
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(o *options) { o.logger = l }
}

// Subscription represents a subscription to a topic
type Subscription[T any] struct {
	ID        string
	topic     string
	channel   chan T
	broker    *Broker[T]
	cancel    context.CancelFunc
	closeOnce sync.Once
}

// New creates a broker.
func New[T any](opts ...Option) *Broker[T] {
	o := options{buffer: DefaultBuffer}
	for _, opt := range opts {
		opt(&o)
	}
	return &Broker[T]{
		subscribers: make(map[string]map[*Subscription[T]]bool),
		shutdown:    make(chan struct{}),
		buffer:      o.buffer,
		onDrop:      o.onDrop,
		logger:      logging.OrNop(o.logger).With(logging.Component("pubsub")),
	}
}

// Subscribe creates a subscription to topic. It ends when ctx is done,
// Unsubscribe is called or the broker shuts down; its channel is then closed.
func (b *Broker[T]) Subscribe(ctx context.Context, topic string) (*Subscription[T], error) {
	b.shutdownMu.Lock()
	if b.isShutdown {
		b.shutdownMu.Unlock()
		return nil, ErrShutdown
	}
	b.shutdownMu.Unlock()

	subCtx, cancel := context.WithCancel(ctx)
	sub := &Subscription[T]{
		ID:      uuid.New().String(),
		topic:   topic,
		channel: make(chan T, b.buffer),
		broker:  b,
		cancel:  cancel,
	}

	b.mu.Lock()
	if b.subscribers[topic] == nil {
		b.subscribers[topic] = make(map[*Subscription[T]]bool)
	}
	b.subscribers[topic][sub] = true
	b.mu.Unlock()

	b.logger.Debug("subscribed", logging.String("topic", topic), logging.String("subscription", sub.ID))

	go func() {
		select {
		case <-subCtx.Done():
			sub.Unsubscribe()
		case <-b.shutdown:
			// Publish sends under the read lock.
			b.mu.Lock()
			sub.close()
			b.mu.Unlock()
		}
	}()

	return sub, nil
}

// Publish sends message to every subscriber of topic and returns how many
// received it.
func (b *Broker[T]) Publish(topic string, message T) int {
	b.shutdownMu.Lock()
	if b.isShutdown {
		b.shutdownMu.Unlock()
		return 0
	}
	b.shutdownMu.Unlock()

	// Send under the read lock so a concurrent Unsubscribe cannot close a
	// channel mid-send.
	b.mu.RLock()
	defer b.mu.RUnlock()

	delivered := 0
	for sub := range b.subscribers[topic] {
		select {
		case sub.channel <- message:
			delivered++
		default:
			b.dropped.Add(1)
			if b.onDrop != nil {
				b.onDrop(topic)
			}
			b.logger.Debug("subscriber too slow, message dropped",
				logging.String("topic", topic), logging.String("subscription", sub.ID))
		}
	}
	return delivered
}

// SubscriberCount returns the number of subscribers for a topic
func (b *Broker[T]) SubscriberCount(topic string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers[topic])
}

// Dropped returns how many messages were skipped for slow subscribers.
func (b *Broker[T]) Dropped() uint64 {
	return b.dropped.Load()
}

// Shutdown closes all subscriptions and shuts down the broker
func (b *Broker[T]) Shutdown() {
	b.shutdownMu.Lock()
	if b.isShutdown {
		b.shutdownMu.Unlock()
		return
	}
	b.isShutdown = true
	b.shutdownMu.Unlock()

	close(b.shutdown)

	b.mu.Lock()
	for topic, subs := range b.subscribers {
		for sub := range subs {
			sub.close()
		}
		delete(b.subscribers, topic)
	}
	b.mu.Unlock()
}

// Topic returns the subscribed topic.
func (s *Subscription[T]) Topic() string {
	return s.topic
}

// Channel returns the subscription's message channel
func (s *Subscription[T]) Channel() <-chan T {
	return s.channel
}

// Unsubscribe removes the subscription
func (s *Subscription[T]) Unsubscribe() {
	s.cancel()

	s.broker.mu.Lock()
	defer s.broker.mu.Unlock()

	if subs := s.broker.subscribers[s.topic]; subs != nil {
		delete(subs, s)
		if len(subs) == 0 {
			delete(s.broker.subscribers, s.topic)
		}
	}

	s.close()
}

func (s *Subscription[T]) close() {
	s.closeOnce.Do(func() {
		close(s.channel)
	})
}
