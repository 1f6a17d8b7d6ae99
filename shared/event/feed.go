// Package event implements a one-to-many subscription fan-out, the same
// role go-ethereum's event.Feed plays for the teacher's p2p message
// dispatch (shared/p2p/feed.go's Feed(msg) *event.Feed) and its later
// beacon-chain/core/statefeed state-change notifications. Reimplemented
// from scratch here since go-ethereum is not part of this repository's
// dependency surface; the Subscribe/Send/Unsubscribe contract and the
// reflection-checked element type match go-ethereum's event.Feed, but the
// delivery loop is a plain synchronous fan-out rather than go-ethereum's
// select-based non-blocking dispatch.
package event

import (
	"reflect"
	"sync"

	"github.com/pkg/errors"
)

var errBadChannel = errors.New("event: Subscribe argument does not have sendable channel type")

// Subscription represents a subscription to a Feed.
type Subscription interface {
	// Unsubscribe cancels the subscription. It can be called any number
	// of times.
	Unsubscribe()
	// Err returns a channel closed when the subscription is
	// unsubscribed, never sending a value — kept for interface parity
	// with go-ethereum's Subscription, which a real async dispatch loop
	// would use to report delivery errors.
	Err() <-chan error
}

// Feed implements one-to-many subscription fan-out of a single value
// type, fixed by whichever channel is subscribed first.
type Feed struct {
	mu   sync.Mutex
	typ  reflect.Type
	subs map[*feedSub]struct{}
}

type feedSub struct {
	feed    *Feed
	channel reflect.Value
	once    sync.Once
	err     chan error
}

// Subscribe registers channel (of type chan T) to receive every value
// later passed to Send. The first Subscribe call on a Feed fixes T; a
// later call with a channel of a different element type panics.
func (f *Feed) Subscribe(channel interface{}) Subscription {
	chanval := reflect.ValueOf(channel)
	chantyp := chanval.Type()
	if chantyp.Kind() != reflect.Chan || chantyp.ChanDir()&reflect.SendDir == 0 {
		panic(errBadChannel)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.typ == nil {
		f.typ = chantyp.Elem()
	} else if f.typ != chantyp.Elem() {
		panic(errors.Errorf("event: subscribe channel of type %v, feed type is %v", chantyp.Elem(), f.typ))
	}
	if f.subs == nil {
		f.subs = make(map[*feedSub]struct{})
	}
	sub := &feedSub{feed: f, channel: chanval, err: make(chan error)}
	f.subs[sub] = struct{}{}
	return sub
}

func (s *feedSub) Unsubscribe() {
	s.once.Do(func() {
		s.feed.mu.Lock()
		delete(s.feed.subs, s)
		s.feed.mu.Unlock()
		close(s.err)
	})
}

func (s *feedSub) Err() <-chan error { return s.err }

// Send delivers value to every current subscriber in turn, blocking on
// each channel send. It returns the number of subscribers value was
// delivered to.
func (f *Feed) Send(value interface{}) int {
	rvalue := reflect.ValueOf(value)

	f.mu.Lock()
	if f.typ != nil && rvalue.Type() != f.typ {
		f.mu.Unlock()
		panic(errors.Errorf("event: send value of type %v, feed type is %v", rvalue.Type(), f.typ))
	}
	subs := make([]*feedSub, 0, len(f.subs))
	for sub := range f.subs {
		subs = append(subs, sub)
	}
	f.mu.Unlock()

	for _, sub := range subs {
		sub.channel.Send(rvalue)
	}
	return len(subs)
}
