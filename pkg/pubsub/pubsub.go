// Package pubsub fans typed messages out to topic subscribers. Publishing
// never blocks: a subscriber whose buffer is full misses the message.
package pubsub

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
)

// ErrClosed is returned when subscribing to a broker that has shut down
var ErrClosed = errors.New("broker is shut down")

// DefaultBuffer is the per-subscription channel capacity
const DefaultBuffer = 16

// Topic names a stream of messages
type Topic string

// Message is one delivery
type Message[T any] struct {
	Topic   Topic
	Payload T
}

// Broker delivers messages of type T to the subscribers of each topic
type Broker[T any] struct {
	subscribers map[Topic]map[*Subscription[T]]struct{}
	mu          sync.RWMutex
	buffer      int
	dropped     atomic.Int64
	shutdown    chan struct{}
	shutdownMu  sync.Mutex
	isShutdown  bool
}

// Subscription receives the messages of one or more topics on one channel
type Subscription[T any] struct {
	topics    []Topic
	channel   chan Message[T]
	broker    *Broker[T]
	cancel    context.CancelFunc
	closeOnce sync.Once
}

// NewBroker creates a broker; buffer <= 0 uses DefaultBuffer
func NewBroker[T any](buffer int) *Broker[T] {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &Broker[T]{
		subscribers: make(map[Topic]map[*Subscription[T]]struct{}),
		buffer:      buffer,
		shutdown:    make(chan struct{}),
	}
}

// Subscribe registers for topics until ctx is done or Unsubscribe is called.
// The channel is closed when the subscription ends.
func (b *Broker[T]) Subscribe(ctx context.Context, topics ...Topic) (*Subscription[T], error) {
	b.shutdownMu.Lock()
	defer b.shutdownMu.Unlock()
	if b.isShutdown {
		return nil, ErrClosed
	}

	subCtx, cancel := context.WithCancel(ctx)
	sub := &Subscription[T]{
		topics:  topics,
		channel: make(chan Message[T], b.buffer),
		broker:  b,
		cancel:  cancel,
	}

	b.mu.Lock()
	for _, topic := range topics {
		if b.subscribers[topic] == nil {
			b.subscribers[topic] = make(map[*Subscription[T]]struct{})
		}
		b.subscribers[topic][sub] = struct{}{}
	}
	b.mu.Unlock()

	go func() {
		select {
		case <-subCtx.Done():
			sub.Unsubscribe()
		case <-b.shutdown:
		}
	}()

	return sub, nil
}

// Publish sends payload to every subscriber of topic
func (b *Broker[T]) Publish(topic Topic, payload T) {
	// Sends happen under the read lock so Unsubscribe cannot close a
	// channel mid-send
	b.mu.RLock()
	defer b.mu.RUnlock()

	msg := Message[T]{Topic: topic, Payload: payload}
	for sub := range b.subscribers[topic] {
		select {
		case sub.channel <- msg:
		default:
			b.dropped.Add(1)
		}
	}
}

// SubscriberCount returns the number of subscribers for a topic
func (b *Broker[T]) SubscriberCount(topic Topic) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers[topic])
}

// Dropped counts deliveries skipped because a subscriber was full
func (b *Broker[T]) Dropped() int64 {
	return b.dropped.Load()
}

// Shutdown closes every subscription. Later publishes are discarded and
// later subscribes fail with ErrClosed.
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
	defer b.mu.Unlock()
	for topic, subs := range b.subscribers {
		for sub := range subs {
			sub.cancel()
			sub.close()
		}
		delete(b.subscribers, topic)
	}
}

// C returns the subscription's message channel
func (s *Subscription[T]) C() <-chan Message[T] {
	return s.channel
}

// Unsubscribe ends the subscription and closes its channel
func (s *Subscription[T]) Unsubscribe() {
	s.cancel()

	s.broker.mu.Lock()
	defer s.broker.mu.Unlock()
	for _, topic := range s.topics {
		if subs := s.broker.subscribers[topic]; subs != nil {
			delete(subs, s)
			if len(subs) == 0 {
				delete(s.broker.subscribers, topic)
			}
		}
	}
	s.close()
}

func (s *Subscription[T]) close() {
	s.closeOnce.Do(func() {
		close(s.channel)
	})
}
