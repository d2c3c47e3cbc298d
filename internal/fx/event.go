package fx

// Kind is a gameplay event type. The wire form is the kebab-case name; it is
// parsed once on decode so dispatch is a plain switch.
type Kind uint8

const (
	KindUnknown Kind = iota
	EnemyDeath
	PlayerHit
	EnemyHit
	Dash
	BossDeath
	CritHit
	Shrapnel
	DashSparks
	Explosion
	ChainReaction
	ChainArc
	Singularity
	SynergyUnlocked
	BossSpawn
	PlayerDown
	ShieldActivate
	ShieldBreak
	Heal
	Ricochet
	NeutronBlock
	Defeat
	DamageNumber
	PhantomTelegraph
	LevelUp
	XPPickup
	WaveStart
	CritFlash
	kindCount
)

var kindNames = [kindCount]string{
	KindUnknown:      "unknown",
	EnemyDeath:       "enemy-death",
	PlayerHit:        "player-hit",
	EnemyHit:         "enemy-hit",
	Dash:             "dash",
	BossDeath:        "boss-death",
	CritHit:          "crit-hit",
	Shrapnel:         "shrapnel",
	DashSparks:       "dash-sparks",
	Explosion:        "explosion",
	ChainReaction:    "chain-reaction",
	ChainArc:         "chain-arc",
	Singularity:      "singularity",
	SynergyUnlocked:  "synergy-unlocked",
	BossSpawn:        "boss-spawn",
	PlayerDown:       "player-down",
	ShieldActivate:   "shield-activate",
	ShieldBreak:      "shield-break",
	Heal:             "heal",
	Ricochet:         "ricochet",
	NeutronBlock:     "neutron-block",
	Defeat:           "defeat",
	DamageNumber:     "damage-number",
	PhantomTelegraph: "phantom-telegraph",
	LevelUp:          "level-up",
	XPPickup:         "xp-pickup",
	WaveStart:        "wave-start",
	CritFlash:        "crit-flash",
}

var kindByName = func() map[string]Kind {
	m := make(map[string]Kind, kindCount)
	for k, n := range kindNames {
		m[n] = Kind(k)
	}
	return m
}()

// ParseKind maps a wire name to its Kind; unknown names map to KindUnknown.
func ParseKind(s string) Kind {
	return kindByName[s]
}

func (k Kind) String() string {
	if k >= kindCount {
		return kindNames[KindUnknown]
	}
	return kindNames[k]
}

// Kinds lists every known kind except KindUnknown.
func Kinds() []Kind {
	out := make([]Kind, 0, kindCount-1)
	for k := EnemyDeath; k < kindCount; k++ {
		out = append(out, k)
	}
	return out
}

func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *Kind) UnmarshalText(b []byte) error {
	*k = ParseKind(string(b))
	return nil
}

// Event is one gameplay event record. Every field but Type is optional;
// absent fields are nil and routines fall back to defaults.
type Event struct {
	Type   Kind     `json:"type"`
	X      *float64 `json:"x,omitempty"`
	Y      *float64 `json:"y,omitempty"`
	X1     *float64 `json:"x1,omitempty"`
	Y1     *float64 `json:"y1,omitempty"`
	X2     *float64 `json:"x2,omitempty"`
	Y2     *float64 `json:"y2,omitempty"`
	Radius *float64 `json:"radius,omitempty"`
	Amount *float64 `json:"amount,omitempty"`
	IsCrit bool     `json:"isCrit,omitempty"`
}

func ptr(v float64) *float64 { return &v }

// At builds a positioned event.
func At(k Kind, x, y float64) Event {
	return Event{Type: k, X: ptr(x), Y: ptr(y)}
}

// Between builds a chain-arc event.
func Between(x1, y1, x2, y2 float64) Event {
	return Event{Type: ChainArc, X1: ptr(x1), Y1: ptr(y1), X2: ptr(x2), Y2: ptr(y2)}
}

// WithRadius returns a copy of e carrying radius r.
func (e Event) WithRadius(r float64) Event {
	e.Radius = ptr(r)
	return e
}

// WithDamage returns a copy of e carrying a damage amount.
func (e Event) WithDamage(amount float64, crit bool) Event {
	e.Amount = ptr(amount)
	e.IsCrit = crit
	return e
}

// Pos returns the event position; ok is false unless both x and y are set.
func (e Event) Pos() (x, y float64, ok bool) {
	if e.X != nil {
		x = *e.X
	}
	if e.Y != nil {
		y = *e.Y
	}
	return x, y, e.X != nil && e.Y != nil
}

// Ends returns the arc endpoints; ok is false unless all four are set.
func (e Event) Ends() (x1, y1, x2, y2 float64, ok bool) {
	if e.X1 == nil || e.Y1 == nil || e.X2 == nil || e.Y2 == nil {
		return 0, 0, 0, 0, false
	}
	return *e.X1, *e.Y1, *e.X2, *e.Y2, true
}

// RadiusOr returns the event radius, or def when absent or not positive.
func (e Event) RadiusOr(def float64) float64 {
	if e.Radius == nil || *e.Radius <= 0 {
		return def
	}
	return *e.Radius
}
