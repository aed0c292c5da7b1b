package grammar

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/mgershovitz/MCFGParser/internal/mcfgerrors"
)

// placeholderPattern matches the syntactic shape Name(i) used to reference
// component i of the argument named Name.
var placeholderPattern = regexp.MustCompile(`^([^()]+)\((\d+)\)$`)

// Atom is a single element of a function's result vector component. It is
// either a literal terminal or a reference to a component of one of the
// function's formal arguments.
//
// Atom is the tagged-variant representation called for in the redesign
// notes: a realized placeholder is represented by rebinding to a Terminal
// atom rather than by mutating a separate "resolved" field.
type Atom struct {
	// Placeholder is true if this atom references Component of the
	// argument named ArgName, rather than being a literal terminal.
	Placeholder bool

	// Terminal holds the literal terminal text when Placeholder is false.
	Terminal string

	// ArgName is the formal argument name referenced, when Placeholder is
	// true.
	ArgName string

	// Component is the component index of ArgName referenced, when
	// Placeholder is true.
	Component int
}

// Term returns a literal-terminal atom.
func Term(terminal string) Atom {
	return Atom{Terminal: terminal}
}

// Ref returns a placeholder atom referencing component i of argument name.
func Ref(name string, i int) Atom {
	return Atom{Placeholder: true, ArgName: name, Component: i}
}

// ParseAtom parses a single atom from its external textual shape: either a
// bare terminal or a placeholder of the form Name(i). Any string matching
// the Name(i) shape is treated as a placeholder, even if a terminal of that
// exact text exists. An atom that is empty, or that contains parentheses
// without matching the Name(i) shape, fails with a
// mcfgerrors.KindMalformedPlaceholder error.
func ParseAtom(s string) (Atom, error) {
	if m := placeholderPattern.FindStringSubmatch(s); m != nil {
		idx, err := strconv.Atoi(m[2])
		if err != nil {
			return Atom{}, mcfgerrors.Wrap(err, mcfgerrors.KindMalformedPlaceholder, "placeholder %q: %v", s, err)
		}
		return Ref(m[1], idx), nil
	}
	if s == "" || strings.ContainsAny(s, "()") {
		return Atom{}, mcfgerrors.New(mcfgerrors.KindMalformedPlaceholder, "atom %q is neither a terminal nor a valid Name(i) placeholder", s)
	}
	return Term(s), nil
}

// String renders the atom in its external textual shape.
func (a Atom) String() string {
	if a.Placeholder {
		return fmt.Sprintf("%s(%d)", a.ArgName, a.Component)
	}
	return a.Terminal
}

// Equal reports whether a and o represent the same atom.
func (a Atom) Equal(o Atom) bool {
	return a.Placeholder == o.Placeholder &&
		a.Terminal == o.Terminal &&
		a.ArgName == o.ArgName &&
		a.Component == o.Component
}

// Component is an ordered sequence of atoms: one piece of a function's
// result vector.
type Component []Atom

// Copy returns a duplicate of the component, safe to mutate independently.
func (c Component) Copy() Component {
	c2 := make(Component, len(c))
	copy(c2, c)
	return c2
}

// String renders the component as its atoms joined by spaces.
func (c Component) String() string {
	parts := make([]string, len(c))
	for i, a := range c {
		parts[i] = a.String()
	}
	return strings.Join(parts, " ")
}
