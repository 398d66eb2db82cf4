// Package formula parses, validates, normalizes and inverts Rubik's Cube
// move sequences. A sequence is an ordered list of Beats; a Beat is one or
// more Moves executed simultaneously, written joined by '+'. All moves in
// one Beat must rotate around the same axis.
package formula

import "strings"

// Axis is the rotation axis a move acts on.
type Axis string

const (
	AxisX Axis = "x"
	AxisY Axis = "y"
	AxisZ Axis = "z"
)

// axisByBase maps every canonical move base to its rotation axis.
var axisByBase = map[string]Axis{
	"F": AxisX, "B": AxisX, "S": AxisX, "f": AxisX, "b": AxisX, "z": AxisX,
	"U": AxisZ, "D": AxisZ, "E": AxisZ, "u": AxisZ, "d": AxisZ, "y": AxisZ,
	"L": AxisY, "R": AxisY, "M": AxisY, "l": AxisY, "r": AxisY, "x": AxisY,
}

// Move is a single face, slice, wide-layer or whole-cube rotation.
// Base is canonical: faces URFDLB, slices MES, wide layers urfdlb,
// rotations xyz. Prime marks counter-clockwise; Double marks a 180 turn.
// Prime and Double are mutually exclusive.
type Move struct {
	Base   string
	Prime  bool
	Double bool
}

// Axis returns the rotation axis of the move.
func (m Move) Axis() Axis {
	return axisByBase[m.Base]
}

// Invert flips the move direction. Double turns are self-inverse.
func (m Move) Invert() Move {
	if m.Double {
		return m
	}
	return Move{Base: m.Base, Prime: !m.Prime}
}

// String renders the canonical text form, e.g. "R", "U'", "F2".
func (m Move) String() string {
	switch {
	case m.Double:
		return m.Base + "2"
	case m.Prime:
		return m.Base + "'"
	default:
		return m.Base
	}
}

// Beat is one or more moves played as a single animation step.
type Beat []Move

// String joins the beat's moves with '+'.
func (b Beat) String() string {
	parts := make([]string, len(b))
	for i, m := range b {
		parts[i] = m.String()
	}
	return strings.Join(parts, "+")
}

// Invert flips the direction of every move in the beat. Intra-beat order
// is preserved: the moves are simultaneous, so order carries no meaning.
func (b Beat) Invert() Beat {
	out := make(Beat, len(b))
	for i, m := range b {
		out[i] = m.Invert()
	}
	return out
}

// Sequence is an ordered list of beats.
type Sequence []Beat

// Normalize returns the canonical text form of the sequence: beats joined
// by single spaces, moves within a beat joined by '+', groups and repeats
// already flattened by Parse. The result is pure and deterministic and is
// used as the artifact dedup key.
func Normalize(seq Sequence) string {
	parts := make([]string, len(seq))
	for i, b := range seq {
		parts[i] = b.String()
	}
	return strings.Join(parts, " ")
}

// Invert reverses the beat order and inverts each move's direction.
// Applying the inverse of a formula to a solved cube yields the starting
// state from which forward playback reaches solved again.
func Invert(seq Sequence) Sequence {
	out := make(Sequence, len(seq))
	for i, b := range seq {
		out[len(seq)-1-i] = b.Invert()
	}
	return out
}

// NormalizeText parses text and returns its canonical form.
func NormalizeText(text string) (string, error) {
	seq, err := Parse(text)
	if err != nil {
		return "", err
	}
	return Normalize(seq), nil
}
