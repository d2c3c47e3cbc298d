package fx

import "sort"

// Action is one beat of a sequence. It receives the engine when it fires and
// should capture only plain values (coordinates, colors, radii).
type Action func(e *Engine)

// Step fires Do once elapsed time reaches At seconds.
type Step struct {
	At float64
	Do Action
}

type sequence struct {
	steps    []Step
	elapsed  float64
	duration float64
	next     int
}

func (s *sequence) done() bool {
	return s.elapsed >= s.duration && s.next == len(s.steps)
}

// Scheduler runs timed multi-step effects off the frame clock. Sequences are
// independent; one never observes another's progress.
type Scheduler struct {
	live      []sequence
	pending   []sequence
	advancing bool
}

// Add registers steps. They are ordered by offset (stable for ties). A
// duration <= 0 means the last offset plus half a second.
func (s *Scheduler) Add(steps []Step, duration float64) {
	st := make([]Step, len(steps))
	copy(st, steps)
	sort.SliceStable(st, func(i, j int) bool { return st[i].At < st[j].At })
	if duration <= 0 {
		last := 0.0
		if n := len(st); n > 0 && st[n-1].At > 0 {
			last = st[n-1].At
		}
		duration = last + 0.5
	}
	seq := sequence{steps: st, duration: duration}
	// Sequences added by a firing action join after this tick.
	if s.advancing {
		s.pending = append(s.pending, seq)
		return
	}
	s.live = append(s.live, seq)
}

// Advance moves every live sequence forward by dt, fires due steps in order
// and drops finished sequences.
func (s *Scheduler) Advance(dt float64, e *Engine) {
	s.advancing = true
	for i := range s.live {
		q := &s.live[i]
		q.elapsed += dt
		for q.next < len(q.steps) && q.steps[q.next].At <= q.elapsed {
			step := q.steps[q.next]
			q.next++
			if step.Do != nil {
				step.Do(e)
			}
		}
	}
	s.advancing = false

	kept := s.live[:0]
	for _, q := range s.live {
		if !q.done() {
			kept = append(kept, q)
		}
	}
	clear(s.live[len(kept):])
	s.live = append(kept, s.pending...)
	clear(s.pending)
	s.pending = s.pending[:0]
}

// Len is the number of live sequences.
func (s *Scheduler) Len() int { return len(s.live) + len(s.pending) }

// Reset drops every sequence without firing anything.
func (s *Scheduler) Reset() {
	clear(s.live)
	clear(s.pending)
	s.live = s.live[:0]
	s.pending = s.pending[:0]
}
