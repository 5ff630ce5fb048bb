// Package presence tracks the live chat channels keyed by identity and fans
// every inbound message out to all of them.
package presence

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jeffreyotan/fsdfinal/internal/logger"
	"github.com/jeffreyotan/fsdfinal/internal/metrics"

	"github.com/samber/lo"
)

var ErrChannelClosed = errors.New("presence: channel closed")

// Channel is the duplex connection owned by one participant.
// Send and Close must be safe for concurrent use.
type Channel interface {
	Send(payload []byte) error
	Close() error
}

// Envelope is the wire form of a broadcast message.
type Envelope struct {
	From      string    `json:"from"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

type participant struct {
	identity string
	channel  Channel
}

type Registry struct {
	mu           sync.Mutex
	participants map[string]Channel

	now     func() time.Time
	metrics *metrics.Metrics
}

type Option func(*Registry)

func WithClock(now func() time.Time) Option {
	return func(r *Registry) {
		r.now = now
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Registry) {
		r.metrics = m
	}
}

func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		participants: make(map[string]Channel),
		now:          time.Now,
		metrics:      metrics.Discard(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register records ch as the channel for identity. A channel previously
// registered under the same identity is superseded and closed.
func (r *Registry) Register(identity string, ch Channel) {
	r.mu.Lock()
	prior, existed := r.participants[identity]
	r.participants[identity] = ch
	r.metrics.Participants.Set(float64(len(r.participants)))
	r.mu.Unlock()

	if existed && prior != ch {
		logger.Info("superseding chat channel", map[string]any{
			"identity": identity,
		})
		if err := prior.Close(); err != nil {
			logger.Debug("closing superseded channel failed", map[string]any{
				"identity": identity,
				"error":    err.Error(),
			})
		}
	}
}

// Unregister drops the entry for identity. Unknown identities are ignored.
func (r *Registry) Unregister(identity string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.participants, identity)
	r.metrics.Participants.Set(float64(len(r.participants)))
}

// Release drops the entry for identity only while it still points at ch.
// It reports whether an entry was removed.
func (r *Registry) Release(identity string, ch Channel) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.participants[identity]
	if !ok || current != ch {
		return false
	}

	delete(r.participants, identity)
	r.metrics.Participants.Set(float64(len(r.participants)))
	return true
}

// CloseAll closes and drops every registered channel.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	targets := lo.MapToSlice(r.participants, func(identity string, ch Channel) participant {
		return participant{identity: identity, channel: ch}
	})
	clear(r.participants)
	r.metrics.Participants.Set(0)
	r.mu.Unlock()

	for _, p := range targets {
		_ = p.channel.Close()
	}
}

// Identities returns the registered identities in sorted order.
func (r *Registry) Identities() []string {
	r.mu.Lock()
	ids := lo.Keys(r.participants)
	r.mu.Unlock()

	sort.Strings(ids)
	return ids
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.participants)
}

// Broadcast wraps payload in an Envelope from the given identity and sends it
// to every registered channel, the sender's included. A failed send is logged
// and skipped. It returns the number of channels the envelope reached.
func (r *Registry) Broadcast(from string, payload string) (int, error) {
	data, err := json.Marshal(Envelope{
		From:      from,
		Message:   payload,
		Timestamp: r.now(),
	})
	if err != nil {
		return 0, fmt.Errorf("presence: encode envelope: %w", err)
	}

	r.mu.Lock()
	targets := lo.MapToSlice(r.participants, func(identity string, ch Channel) participant {
		return participant{identity: identity, channel: ch}
	})
	r.mu.Unlock()

	r.metrics.Broadcasts.Inc()

	delivered := 0
	for _, p := range targets {
		if err := p.channel.Send(data); err != nil {
			r.metrics.SendFailures.Inc()
			logger.Warn("chat send failed", map[string]any{
				"from":  from,
				"to":    p.identity,
				"error": err.Error(),
			})
			continue
		}
		delivered++
	}

	return delivered, nil
}
