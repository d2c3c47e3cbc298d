package fx

// Slot indexes a primitive inside its pool.
type Slot int32

// Pool is a fixed set of primitives of one kind. It never grows: when every
// slot is active Allocate reports false and the caller drops the spawn.
type Pool[T Primitive] struct {
	items  []T
	active []bool
	free   []Slot // stack; lowest index on top when fresh
	used   int
}

// NewPool creates capacity primitives up front, all hidden.
func NewPool[T Primitive](capacity int, create func() T) *Pool[T] {
	if capacity < 0 {
		capacity = 0
	}
	p := &Pool[T]{
		items:  make([]T, capacity),
		active: make([]bool, capacity),
		free:   make([]Slot, capacity),
	}
	for i := range p.items {
		it := create()
		it.SetVisible(false)
		p.items[i] = it
		p.free[capacity-1-i] = Slot(i)
	}
	return p
}

// Allocate marks a free slot active and returns its primitive.
func (p *Pool[T]) Allocate() (Slot, T, bool) {
	n := len(p.free)
	if n == 0 {
		var zero T
		return -1, zero, false
	}
	s := p.free[n-1]
	p.free = p.free[:n-1]
	p.active[s] = true
	p.used++
	return s, p.items[s], true
}

// Release hides the slot's primitive, clears anything drawn into it and
// returns the slot to the free stack. Releasing a free slot does nothing.
func (p *Pool[T]) Release(s Slot) {
	if s < 0 || int(s) >= len(p.items) || !p.active[s] {
		return
	}
	p.active[s] = false
	p.used--
	it := p.items[s]
	it.SetVisible(false)
	if c, ok := any(it).(interface{ Clear() }); ok {
		c.Clear()
	}
	p.free = append(p.free, s)
}

// Active is the number of slots currently handed out.
func (p *Pool[T]) Active() int { return p.used }

// Cap is the fixed number of slots.
func (p *Pool[T]) Cap() int { return len(p.items) }

// Destroy destroys every primitive once and empties the pool. Any later
// Allocate reports false.
func (p *Pool[T]) Destroy() {
	for _, it := range p.items {
		it.Destroy()
	}
	p.items, p.active, p.free = nil, nil, nil
	p.used = 0
}
