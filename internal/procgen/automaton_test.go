package procgen

import (
	"slices"
	"testing"

	"tileforge/internal/core"
)

func TestBlinkerOscillation(t *testing.T) {
	a, err := NewAutomaton(core.GridDimensions2d{NColumns: 5, NRows: 5}, Conway)
	if err != nil {
		t.Fatal(err)
	}
	for _, j := range []int{1, 2, 3} {
		a.Set(core.Index2d{I: 2, J: j}, true)
	}

	check := func(step string, live map[core.Index2d]bool) {
		t.Helper()
		for j := 0; j < 5; j++ {
			for i := 0; i < 5; i++ {
				idx := core.Index2d{I: i, J: j}
				if a.Alive(idx) != live[idx] {
					t.Fatalf("%s: cell %s alive=%v, expected %v", step, idx, a.Alive(idx), live[idx])
				}
			}
		}
	}

	a.Step()
	check("first step", map[core.Index2d]bool{{I: 1, J: 2}: true, {I: 2, J: 2}: true, {I: 3, J: 2}: true})
	a.Step()
	check("second step", map[core.Index2d]bool{{I: 2, J: 1}: true, {I: 2, J: 2}: true, {I: 2, J: 3}: true})
}

func TestParseRule(t *testing.T) {
	r, err := ParseRule("b5678/s45678")
	if err != nil {
		t.Fatal(err)
	}
	for n := 0; n <= 8; n++ {
		if r.Birth[n] != (n >= 5) || r.Survive[n] != (n >= 4) {
			t.Fatalf("neighbour count %d: birth=%v survive=%v", n, r.Birth[n], r.Survive[n])
		}
	}
	for _, bad := range []string{"", "B3", "S23/B3", "B9/S23", "B3/Sx"} {
		if _, err := ParseRule(bad); err == nil {
			t.Fatalf("ParseRule(%q) succeeded", bad)
		}
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	dims := core.GridDimensions2d{NColumns: 16, NRows: 12}
	p := Params{Seed: 7, Density: 0.45, Steps: 4, Rule: MustParseRule("B5678/S45678")}
	generate := func(p Params) *Automaton {
		t.Helper()
		a, err := Generate(dims, p)
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		return a
	}
	a, b := generate(p), generate(p)
	if !slices.Equal(a.Cells(), b.Cells()) {
		t.Fatalf("same seed produced different grids")
	}
	p.Seed = 8
	if slices.Equal(a.Cells(), generate(p).Cells()) {
		t.Fatalf("different seeds produced identical grids")
	}
	if empty := generate(Params{Density: 0, Rule: Conway}); slices.Contains(empty.Cells(), 1) {
		t.Fatalf("zero density produced live cells")
	}
}

func TestGenerateRejectsNegativeDimensions(t *testing.T) {
	for _, dims := range []core.GridDimensions2d{{NColumns: -1, NRows: 2}, {NColumns: 3, NRows: -4}} {
		_, err := Generate(dims, Params{Seed: 1, Density: 0.5, Steps: 1, Rule: Conway})
		if kind, _ := core.KindOf(err); kind != core.KindPrecondition {
			t.Fatalf("%s: err = %v, kind %v", dims, err, kind)
		}
	}
}

// A 3x3 torus wraps every neighbour lookup, so each cell of a full grid sees
// eight live neighbours.
func TestStepWrapsAtEdges(t *testing.T) {
	dims := core.GridDimensions2d{NColumns: 3, NRows: 3}
	a, err := NewAutomaton(dims, MustParseRule("B/S8"))
	if err != nil {
		t.Fatal(err)
	}
	for j := 0; j < 3; j++ {
		for i := 0; i < 3; i++ {
			a.Set(core.Index2d{I: i, J: j}, true)
		}
	}
	a.Step()
	for j := 0; j < 3; j++ {
		for i := 0; i < 3; i++ {
			if !a.Alive(core.Index2d{I: i, J: j}) {
				t.Fatalf("cell (%d,%d) died; wrapped neighbour count is wrong", i, j)
			}
		}
	}
	a.Set(core.Index2d{I: 0, J: 0}, false)
	a.Step()
	if a.Alive(core.Index2d{I: 0, J: 0}) {
		t.Fatalf("cell (0,0) was born under a rule without births")
	}
	if a.Alive(core.Index2d{I: 2, J: 2}) {
		t.Fatalf("cell (2,2) survived with a dead wrapped neighbour at (0,0)")
	}
}
