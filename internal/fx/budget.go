package fx

// MaxParticles is the default logical cap on live point particles. It sits
// below the point pool capacity so secondary effects keep some headroom.
const MaxParticles = 300

// Budget counts live point particles against a soft cap. Rings, arcs,
// shards and labels are only limited by their pools.
type Budget struct {
	max    int
	active int
}

func NewBudget(max int) Budget {
	if max < 0 {
		max = 0
	}
	return Budget{max: max}
}

// Available is how many more particles may be spawned right now.
func (b *Budget) Available() int {
	if b.active >= b.max {
		return 0
	}
	return b.max - b.active
}

func (b *Budget) Active() int { return b.active }
func (b *Budget) Max() int    { return b.max }

func (b *Budget) take() { b.active++ }

func (b *Budget) give() {
	if b.active > 0 {
		b.active--
	}
}

func (b *Budget) reset() { b.active = 0 }
