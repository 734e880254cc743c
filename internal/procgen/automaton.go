// Package procgen grows tile patterns with life-like cellular automata.
package procgen

import (
	"strings"

	"tileforge/internal/core"
)

// Rule is a life-like birth/survival rule indexed by live neighbour count.
type Rule struct {
	Birth   [9]bool
	Survive [9]bool
}

// Conway is B3/S23.
var Conway = MustParseRule("B3/S23")

// ParseRule reads rules in B/S notation, e.g. "B3/S23" or "B5678/S45678".
func ParseRule(s string) (Rule, error) {
	var r Rule
	parts := strings.Split(strings.ToUpper(strings.TrimSpace(s)), "/")
	if len(parts) != 2 || !strings.HasPrefix(parts[0], "B") || !strings.HasPrefix(parts[1], "S") {
		return Rule{}, core.Errorf(core.KindConfig, "procgen.rule", "rule %q is not in B/S notation", s)
	}
	for i, part := range parts {
		set := &r.Birth
		if i == 1 {
			set = &r.Survive
		}
		for _, c := range part[1:] {
			if c < '0' || c > '8' {
				return Rule{}, core.Errorf(core.KindConfig, "procgen.rule", "rule %q has invalid neighbour count %q", s, c)
			}
			set[c-'0'] = true
		}
	}
	return r, nil
}

// MustParseRule is ParseRule for known-good constants.
func MustParseRule(s string) Rule {
	r, err := ParseRule(s)
	if err != nil {
		panic(err)
	}
	return r
}

// Automaton steps a binary grid under a Rule with toroidal wrapping. Cells are
// stored row-major.
type Automaton struct {
	dims core.GridDimensions2d
	rule Rule
	cur  []uint8
	nxt  []uint8
}

// NewAutomaton returns an empty automaton over dims.
func NewAutomaton(dims core.GridDimensions2d, rule Rule) (*Automaton, error) {
	if dims.NColumns < 0 || dims.NRows < 0 {
		return nil, core.Errorf(core.KindPrecondition, "procgen.automaton", "grid dimensions must not be negative, got %s", dims)
	}
	cells := make([]uint8, dims.Area())
	return &Automaton{dims: dims, rule: rule, cur: cells, nxt: make([]uint8, len(cells))}, nil
}

// Dimensions returns the grid size.
func (a *Automaton) Dimensions() core.GridDimensions2d { return a.dims }

// Cells exposes the current grid values.
func (a *Automaton) Cells() []uint8 { return a.cur }

// Alive reports whether the cell at idx is set.
func (a *Automaton) Alive(idx core.Index2d) bool {
	return a.cur[core.Index1d(idx, a.dims)] == 1
}

// Set changes the cell at idx.
func (a *Automaton) Set(idx core.Index2d, alive bool) {
	var v uint8
	if alive {
		v = 1
	}
	a.cur[core.Index1d(idx, a.dims)] = v
}

// Seed sets each cell alive with the given probability.
func (a *Automaton) Seed(rng *RNG, density float64) {
	for i := range a.cur {
		a.cur[i] = 0
		if rng.Chance(density) {
			a.cur[i] = 1
		}
	}
}

// Step advances the grid by one generation.
func (a *Automaton) Step() {
	w, h := a.dims.NColumns, a.dims.NRows
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			neighbors := 0
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					if dx == 0 && dy == 0 {
						continue
					}
					n := core.Index2d{I: (x + dx + w) % w, J: (y + dy + h) % h}
					neighbors += int(a.cur[core.Index1d(n, a.dims)])
				}
			}
			idx := core.Index1d(core.Index2d{I: x, J: y}, a.dims)
			alive := a.cur[idx] == 1
			a.nxt[idx] = 0
			if (alive && a.rule.Survive[neighbors]) || (!alive && a.rule.Birth[neighbors]) {
				a.nxt[idx] = 1
			}
		}
	}
	a.cur, a.nxt = a.nxt, a.cur
}

// Params configure Generate.
type Params struct {
	Seed    int64
	Density float64
	Steps   int
	Rule    Rule
}

// Generate seeds an automaton over dims and runs it for p.Steps generations.
func Generate(dims core.GridDimensions2d, p Params) (*Automaton, error) {
	a, err := NewAutomaton(dims, p.Rule)
	if err != nil {
		return nil, err
	}
	a.Seed(NewRNG(p.Seed), p.Density)
	for i := 0; i < p.Steps; i++ {
		a.Step()
	}
	return a, nil
}
