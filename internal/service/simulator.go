package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// simulatedActionTimeout bounds one deferred completion.
const simulatedActionTimeout = 10 * time.Second

// simulator completes intents of simulated providers after a delay.
type simulator struct {
	delay  time.Duration
	action func(ctx context.Context, id uuid.UUID)

	mu      sync.Mutex
	timers  map[uuid.UUID]*time.Timer
	stopped bool
	running sync.WaitGroup
}

func newSimulator(delay time.Duration, action func(ctx context.Context, id uuid.UUID)) *simulator {
	if delay <= 0 {
		delay = 10 * time.Second
	}
	return &simulator{
		delay:  delay,
		action: action,
		timers: make(map[uuid.UUID]*time.Timer),
	}
}

func (s *simulator) schedule(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	if _, ok := s.timers[id]; ok {
		return
	}
	s.timers[id] = time.AfterFunc(s.delay, func() { s.fire(id) })
}

func (s *simulator) fire(id uuid.UUID) {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	delete(s.timers, id)
	s.running.Add(1)
	s.mu.Unlock()
	defer s.running.Done()

	ctx, cancel := context.WithTimeout(context.Background(), simulatedActionTimeout)
	defer cancel()
	s.action(ctx, id)
}

// pending returns the number of scheduled completions.
func (s *simulator) pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

func (s *simulator) stop() {
	s.mu.Lock()
	s.stopped = true
	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
	s.mu.Unlock()
	s.running.Wait()
}
