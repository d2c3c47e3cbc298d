package theme

import (
	"image/color"
	"testing"
)

func TestBuiltinThemesDefineEveryRole(t *testing.T) {
	for _, name := range Names() {
		th, ok := Builtin(name)
		if !ok {
			t.Fatalf("builtin %q missing", name)
		}
		for _, r := range Roles {
			if _, ok := th.colors[r]; !ok {
				t.Fatalf("theme %q has no color for %q", name, r)
			}
		}
	}
}

func TestParseHex(t *testing.T) {
	cases := map[string]color.NRGBA{
		"#FF00FF":  {255, 0, 255, 255},
		"228b22":   {0x22, 0x8b, 0x22, 255},
		"0xffd700": {0xff, 0xd7, 0x00, 255},
	}
	for in, want := range cases {
		got, err := ParseHex(in)
		if err != nil || got != want {
			t.Fatalf("ParseHex(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseHex("#12345"); err == nil {
		t.Fatalf("short hex should fail")
	}
	if _, err := ParseHex("#zzzzzz"); err == nil {
		t.Fatalf("non-hex should fail")
	}
}

func TestFromHexOverridesBase(t *testing.T) {
	base, _ := Builtin("vectrex")
	th, err := FromHex("neon", base, map[string]string{"Boss": "#123456"})
	if err != nil {
		t.Fatalf("FromHex: %v", err)
	}
	if got := th.Color(Boss); got != (color.NRGBA{0x12, 0x34, 0x56, 255}) {
		t.Fatalf("boss override not applied: %v", got)
	}
	if th.Color(Cyan) != base.Color(Cyan) {
		t.Fatalf("unlisted roles should come from base")
	}
	if _, err := FromHex("bad", base, map[string]string{"gold": "nope"}); err == nil {
		t.Fatalf("invalid color should fail")
	}
}

func TestUnknownRoleIsWhite(t *testing.T) {
	th, _ := Builtin("christmas")
	if got := th.Color(Role("nope")); got != (color.NRGBA{255, 255, 255, 255}) {
		t.Fatalf("unknown role = %v", got)
	}
}
