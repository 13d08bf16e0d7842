// Package sched is a single-threaded timer queue driven by simulated time.
//
// Timers only fire from inside Advance, so callbacks always run between
// frames on the caller's goroutine. A cancelled handle never fires, but a
// callback that was captured elsewhere must still compare its handle against
// the one its owner currently holds before acting.
package sched

import (
	"sort"
	"time"
)

// Handle identifies a scheduled timer. The zero Handle is never issued.
type Handle uint64

type timer struct {
	id  Handle
	due time.Duration
	fn  func()
}

type Scheduler struct {
	now    time.Duration
	nextID Handle
	timers []timer // ordered by due, then id
}

func New() *Scheduler {
	return &Scheduler{}
}

func (s *Scheduler) Now() time.Duration { return s.now }

// Len is the number of pending timers.
func (s *Scheduler) Len() int { return len(s.timers) }

// After schedules fn to run once d has elapsed.
func (s *Scheduler) After(d time.Duration, fn func()) Handle {
	if d < 0 {
		d = 0
	}
	s.nextID++
	t := timer{id: s.nextID, due: s.now + d, fn: fn}
	i := sort.Search(len(s.timers), func(i int) bool { return s.timers[i].due > t.due })
	s.timers = append(s.timers, timer{})
	copy(s.timers[i+1:], s.timers[i:])
	s.timers[i] = t
	return t.id
}

// Cancel removes a pending timer; it reports false if h already fired or was
// never scheduled.
func (s *Scheduler) Cancel(h Handle) bool {
	for i, t := range s.timers {
		if t.id == h {
			s.timers = append(s.timers[:i], s.timers[i+1:]...)
			return true
		}
	}
	return false
}

func (s *Scheduler) Pending(h Handle) bool {
	for _, t := range s.timers {
		if t.id == h {
			return true
		}
	}
	return false
}

// Advance moves the clock forward and runs every timer that became due, in
// due order. Timers scheduled by a callback fire in the same call if they are
// already due. It returns the number of callbacks run.
func (s *Scheduler) Advance(d time.Duration) int {
	if d > 0 {
		s.now += d
	}
	fired := 0
	for len(s.timers) > 0 && s.timers[0].due <= s.now {
		t := s.timers[0]
		s.timers = s.timers[1:]
		t.fn()
		fired++
	}
	return fired
}
