// Package style resolves the visual settings the layout engines consume.
//
// Settings can be given at three levels: on a single point (a data row),
// on a state factory (hover or select settings of a series), and on the
// series itself. Which value wins is decided by small pure functions in
// this package so the precedence can be tested without running a layout.
package style

import "strings"

// State is the interaction state of a point.
type State int

const (
	Normal State = iota
	Hover
	Select
)

var stateNames = [...]string{"normal", "hover", "select"}

func (s State) String() string {
	if s < Normal || s > Select {
		return "normal"
	}
	return stateNames[s]
}

// ParseState maps "normal", "hover" and "select" (any case) to a State.
// Unknown names return Normal and false.
func ParseState(s string) (State, bool) {
	for i, n := range stateNames {
		if strings.EqualFold(s, n) {
			return State(i), true
		}
	}
	return Normal, false
}

// EffectiveState folds interaction flags into one state: select wins over
// hover, hover over normal.
func EffectiveState(hovered, selected bool) State {
	switch {
	case selected:
		return Select
	case hovered:
		return Hover
	}
	return Normal
}

// Toggles holds an optional boolean per state, e.g. the "enabled" flag of
// a label at normal, hover and select. A nil entry means "not set here".
type Toggles [3]*bool

// Get returns the entry for s.
func (t Toggles) Get(s State) *bool {
	if s < Normal || s > Select {
		return nil
	}
	return t[s]
}

// ResolveEnabled returns the first defined value of
//
//	point[state], series[state], point[normal], series[normal]
//
// falling back to def when none is set.
func ResolveEnabled(state State, point, series Toggles, def bool) bool {
	for _, v := range []*bool{
		point.Get(state),
		series.Get(state),
		point.Get(Normal),
		series.Get(Normal),
	} {
		if v != nil {
			return *v
		}
	}
	return def
}

// Bool returns a pointer to b for building Toggles literals.
func Bool(b bool) *bool { return &b }
