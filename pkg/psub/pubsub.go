package psub

import (
	"errors"
	"sync"
)

// Service is a tiny in-process pubsub used to push fresh feed snapshots to
// display collaborators. Notifications are fire-and-forget: a subscriber
// that is not draining its channel loses intermediate snapshots, which is
// fine because every snapshot is a wholesale replacement of the previous one.
type Service struct {
	subs *sync.Map
}

type Subscription struct {
	Key  string
	subs *sync.Map
	Ch   <-chan interface{}
}

func New() *Service {
	return &Service{
		subs: &sync.Map{},
	}
}

func (p *Service) Notify(key string, payload interface{}) {
	c, ok := p.subs.Load(key)
	if !ok {
		return
	}
	ch := c.(chan interface{})
	select {
	case ch <- payload:
	default:
	}
}

func (p *Service) NewSubscribe(key string) (*Subscription, error) {
	if _, ok := p.subs.Load(key); ok {
		return nil, errors.New("key already exists")
	}
	ch := make(chan interface{}, 1)
	p.subs.Store(key, ch)
	return &Subscription{
		Key:  key,
		subs: p.subs,
		Ch:   ch,
	}, nil
}

func (s *Subscription) Cancel() {
	val, ok := s.subs.LoadAndDelete(s.Key)
	if ok {
		close(val.(chan interface{}))
	}
}
