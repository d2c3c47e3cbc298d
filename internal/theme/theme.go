package theme

import (
	"fmt"
	"image/color"
	"sort"
	"strconv"
	"strings"
)

// Role names a palette slot. Effects ask for roles, never for raw colors,
// so a theme swap recolors every effect at once.
type Role string

const (
	Background Role = "background"
	Player     Role = "player"
	White      Role = "white"
	Cyan       Role = "cyan"
	Safe       Role = "safe"
	Danger     Role = "danger"
	Enemy      Role = "enemy"
	Boss       Role = "boss"
	Elite      Role = "elite"
	Health     Role = "health"
	XP         Role = "xp"
	Gold       Role = "gold"
	Rare       Role = "rare"
	Legendary  Role = "legendary"
	Synergy    Role = "synergy"
)

// Roles lists every role a complete theme defines.
var Roles = []Role{
	Background, Player, White, Cyan, Safe, Danger, Enemy, Boss,
	Elite, Health, XP, Gold, Rare, Legendary, Synergy,
}

// Theme is an immutable role -> color table.
type Theme struct {
	name   string
	colors map[Role]color.NRGBA
}

func (t Theme) Name() string { return t.name }

// Color returns the color for r. Unknown roles resolve to opaque white.
func (t Theme) Color(r Role) color.NRGBA {
	if c, ok := t.colors[r]; ok {
		return c
	}
	return color.NRGBA{255, 255, 255, 255}
}

var builtin = map[string]map[Role]string{
	"vectrex": {
		Background: "#000000",
		Player:     "#00FFFF",
		White:      "#00FFFF",
		Cyan:       "#00FFFF",
		Safe:       "#00FF00",
		Danger:     "#FF00FF",
		Enemy:      "#00FFFF",
		Boss:       "#FF00FF",
		Elite:      "#FFFF00",
		Health:     "#FF0000",
		XP:         "#00FF00",
		Gold:       "#FFFF00",
		Rare:       "#FFFF00",
		Legendary:  "#FF00FF",
		Synergy:    "#00FFFF",
	},
	"christmas": {
		Background: "#000000",
		Player:     "#228B22",
		White:      "#FFFFFF",
		Cyan:       "#228B22",
		Safe:       "#228B22",
		Danger:     "#FF0000",
		Enemy:      "#FF0000",
		Boss:       "#FF0000",
		Elite:      "#FFD700",
		Health:     "#FF0000",
		XP:         "#228B22",
		Gold:       "#FFD700",
		Rare:       "#FFD700",
		Legendary:  "#FF0000",
		Synergy:    "#228B22",
	},
}

// Default is the theme used when nothing else is configured.
const Default = "vectrex"

// Builtin returns a built-in theme by name.
func Builtin(name string) (Theme, bool) {
	spec, ok := builtin[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Theme{}, false
	}
	t := Theme{name: strings.ToLower(strings.TrimSpace(name)), colors: make(map[Role]color.NRGBA, len(spec))}
	for r, hex := range spec {
		t.colors[r], _ = ParseHex(hex)
	}
	return t, true
}

// Names returns the built-in theme names in a stable order.
func Names() []string {
	out := make([]string, 0, len(builtin))
	for n := range builtin {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// FromHex builds a theme from a role -> "#RRGGBB" table. Roles missing from
// spec are taken from base, so config files only need to list overrides.
func FromHex(name string, base Theme, spec map[string]string) (Theme, error) {
	t := Theme{name: name, colors: make(map[Role]color.NRGBA, len(Roles))}
	for r, c := range base.colors {
		t.colors[r] = c
	}
	for k, v := range spec {
		c, err := ParseHex(v)
		if err != nil {
			return Theme{}, fmt.Errorf("theme %q role %q: %w", name, k, err)
		}
		t.colors[Role(strings.ToLower(k))] = c
	}
	return t, nil
}

// ParseHex parses "#RRGGBB", "RRGGBB" or "0xRRGGBB" into an opaque color.
func ParseHex(s string) (color.NRGBA, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "#")
	s = strings.TrimPrefix(strings.ToLower(s), "0x")
	if len(s) != 6 {
		return color.NRGBA{}, fmt.Errorf("bad color %q", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("bad color %q: %w", s, err)
	}
	return RGB(uint32(v)), nil
}

// RGB converts a 0xRRGGBB literal into an opaque color.
func RGB(v uint32) color.NRGBA {
	return color.NRGBA{uint8(v >> 16), uint8(v >> 8), uint8(v), 255}
}
