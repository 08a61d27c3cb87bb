// Package delivery implements the blocking send loop that turns extracted
// mutations into durably-offset-advanced bus messages: publish, wait for
// the result, and on failure retry forever rather than drop the mutation or
// give up on the segment.
package delivery

import (
	"fmt"
	"time"

	"github.com/datastax/cassandra-source-connector/mutation"
	"github.com/datastax/cassandra-source-connector/offset"
	"github.com/jizhuozhi/go-future"
	"github.com/rs/zerolog"
)

// retryCooldown is how long the loop sleeps between a failed publish and
// the next attempt at the same mutation. Fixed rather than exponential:
// the bottleneck is almost always the bus being unreachable, and a fixed
// interval keeps behavior easy to reason about under sustained outages.
const retryCooldown = 10 * time.Second

// Sender publishes a single mutation. Implementations return promptly;
// the async/future plumbing lives in Loop, not in the sender.
type Sender func(m mutation.Mutation) error

// Metrics receives delivery-loop counters. All fields are optional.
type Metrics struct {
	SentMutations func()
	SentErrors    func()
}

// Loop drives one segment's mutations through send, wait, mark-offset,
// retry-forever-on-failure.
type Loop struct {
	Store   offset.Store
	Send    Sender
	Log     zerolog.Logger
	Metrics Metrics

	sleep func(time.Duration) // overridable for tests
}

// NewLoop builds a Loop. When Deliver is called with a nil stopCh, cooldown
// sleeps use time.Sleep unless overridden by tests via WithSleep; with a
// non-nil stopCh the cooldown is a timer that closing stopCh interrupts.
func NewLoop(store offset.Store, send Sender, log zerolog.Logger, metrics Metrics) *Loop {
	return &Loop{Store: store, Send: send, Log: log, Metrics: metrics, sleep: time.Sleep}
}

// WithSleep overrides the cooldown sleep function, letting tests exercise
// the retry path without a real 10 second wait. The override only applies
// to Deliver calls with a nil stopCh.
func (l *Loop) WithSleep(fn func(time.Duration)) *Loop {
	l.sleep = fn
	return l
}

// Deliver blocks until m has been sent and the offset store durably
// records m's position. stopCh, if non-nil and closed, aborts the retry
// wait early and returns context.Canceled-shaped behavior via a false
// return instead of an error, so callers can distinguish "gave up because
// we're shutting down" from "mutation was delivered".
func (l *Loop) Deliver(m mutation.Mutation, stopCh <-chan struct{}) bool {
	current, err := l.Store.Load()
	if err != nil {
		l.Log.Error().Err(err).Msg("failed to load offset cursor for pre-assert")
	} else if m.Source.Position.Compare(current) < 0 {
		panic(fmt.Sprintf("delivery: mutation position %s regressed behind current offset cursor %s", m.Source.Position, current))
	}

	for {
		p := future.NewPromise[error]()
		go func() { p.Set(nil, l.Send(m)) }()

		fut := p.Future()
		_, err := fut.Get()
		if err == nil {
			if markErr := l.Store.Mark(m.Source.Position); markErr != nil {
				l.Log.Error().Err(markErr).Str("position", m.Source.Position.String()).Msg("failed to advance offset after send")
				err = markErr
			} else {
				if l.Metrics.SentMutations != nil {
					l.Metrics.SentMutations()
				}
				l.Log.Debug().Str("keyspace", m.Keyspace).Str("table", m.Table).Str("position", m.Source.Position.String()).Msg("mutation sent")
				return true
			}
		}

		if l.Metrics.SentErrors != nil {
			l.Metrics.SentErrors()
		}
		l.Log.Warn().Err(err).Str("keyspace", m.Keyspace).Str("table", m.Table).Msg("failed to send mutation, will retry")

		if !l.waitCooldown(stopCh) {
			return false
		}
	}
}

func (l *Loop) waitCooldown(stopCh <-chan struct{}) bool {
	if stopCh == nil {
		l.sleep(retryCooldown)
		return true
	}

	timer := time.NewTimer(retryCooldown)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-stopCh:
		return false
	}
}
