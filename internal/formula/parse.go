package formula

import (
	"strconv"
	"strings"
)

type tokenKind int

const (
	tokMove tokenKind = iota
	tokPlus
	tokLParen
	tokRParen
	tokCaret
	tokInt
)

type token struct {
	kind  tokenKind
	value string
	start int
}

var (
	faceBases     = "URFDLB"
	sliceBases    = "MES"
	wideBases     = "urfdlb"
	rotationBases = "xyz"
)

func isFaceBase(c byte) bool     { return strings.IndexByte(faceBases, c) >= 0 }
func isSliceBase(c byte) bool    { return strings.IndexByte(sliceBases, c) >= 0 }
func isWideBase(c byte) bool     { return strings.IndexByte(wideBases, c) >= 0 }
func isRotationBase(c byte) bool { return strings.IndexByte(rotationBases, lower(c)) >= 0 }

func lower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func tokenize(text string) ([]token, error) {
	var tokens []token
	i := 0
	for i < len(text) {
		c := text[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c == '+':
			tokens = append(tokens, token{kind: tokPlus, value: "+", start: i})
			i++
		case c == '(':
			tokens = append(tokens, token{kind: tokLParen, value: "(", start: i})
			i++
		case c == ')':
			tokens = append(tokens, token{kind: tokRParen, value: ")", start: i})
			i++
		case c == '^':
			tokens = append(tokens, token{kind: tokCaret, value: "^", start: i})
			i++
		case isDigit(c):
			start := i
			for i < len(text) && isDigit(text[i]) {
				i++
			}
			tokens = append(tokens, token{kind: tokInt, value: text[start:i], start: start})
		case isLetter(c):
			start := i
			i++
			// Wide-move suffix form: Rw, Uw', Fw2.
			if i < len(text) && (text[i] == 'w' || text[i] == 'W') && isFaceBase(text[start]) {
				i++
			}
			if i < len(text) && (text[i] == '\'' || text[i] == '2') {
				i++
			}
			tokens = append(tokens, token{kind: tokMove, value: text[start:i], start: start})
		default:
			return nil, parseErrorf(i, "unsupported character %q", string(c))
		}
	}
	return tokens, nil
}

// canonicalMove resolves a raw move token into its canonical Move form.
func canonicalMove(t token) (Move, error) {
	raw := t.value
	var mv Move
	base := raw
	if strings.HasSuffix(base, "2") {
		mv.Double = true
		base = base[:len(base)-1]
	} else if strings.HasSuffix(base, "'") {
		mv.Prime = true
		base = base[:len(base)-1]
	}

	switch {
	case len(base) == 1 && isWideBase(base[0]):
		mv.Base = base
	case len(base) == 2 && (base[1] == 'w' || base[1] == 'W') && isWideBase(lower(base[0])):
		mv.Base = string(lower(base[0]))
	case len(base) == 1 && isFaceBase(base[0]):
		mv.Base = base
	case len(base) == 1 && isSliceBase(base[0]):
		mv.Base = base
	case len(base) == 1 && isRotationBase(base[0]):
		mv.Base = string(lower(base[0]))
	default:
		return Move{}, parseErrorf(t.start, "unknown move token %q", raw)
	}
	return mv, nil
}

type parser struct {
	tokens []token
	text   string
	index  int
}

func (p *parser) hasMore() bool  { return p.index < len(p.tokens) }
func (p *parser) peek() token    { return p.tokens[p.index] }
func (p *parser) consume() token { t := p.tokens[p.index]; p.index++; return t }

// Parse converts formula text into a flattened sequence of beats.
// Group repeats ("(R U)2", "(R U)^3") and move repeats ("M^2") are
// expanded in place so the result depends only on the token stream.
func Parse(text string) (Sequence, error) {
	tokens, err := tokenize(text)
	if err != nil {
		return nil, err
	}
	if len(tokens) == 0 {
		return nil, parseErrorf(0, "empty formula")
	}

	p := &parser{tokens: tokens, text: text}
	seq, err := p.parseSequence(false)
	if err != nil {
		return nil, err
	}
	if p.hasMore() {
		t := p.peek()
		return nil, parseErrorf(t.start, "unexpected token %q", t.value)
	}
	return seq, nil
}

func (p *parser) parseSequence(stopAtRParen bool) (Sequence, error) {
	var seq Sequence
	for p.hasMore() {
		t := p.peek()
		if t.kind == tokRParen {
			if stopAtRParen {
				break
			}
			return nil, parseErrorf(t.start, "unexpected ')'")
		}

		atom, isGroup, err := p.parseAtom()
		if err != nil {
			return nil, err
		}
		repeat, err := p.parseRepeat(isGroup)
		if err != nil {
			return nil, err
		}
		for i := 0; i < repeat; i++ {
			seq = append(seq, atom...)
		}
	}

	if stopAtRParen {
		if !p.hasMore() || p.peek().kind != tokRParen {
			return nil, parseErrorf(len(p.text), "missing closing ')'")
		}
		p.consume()
	}
	return seq, nil
}

func (p *parser) parseAtom() (Sequence, bool, error) {
	t := p.consume()

	if t.kind == tokLParen {
		inner, err := p.parseSequence(true)
		if err != nil {
			return nil, false, err
		}
		return inner, true, nil
	}

	if t.kind == tokMove {
		beat, err := p.parseBeat(t)
		if err != nil {
			return nil, false, err
		}
		return Sequence{beat}, false, nil
	}

	return nil, false, parseErrorf(t.start, "expected move or '(' but got %q", t.value)
}

// parseBeat collects '+'-joined moves starting from the first move token
// and enforces that every move shares one rotation axis.
func (p *parser) parseBeat(first token) (Beat, error) {
	mv, err := canonicalMove(first)
	if err != nil {
		return nil, err
	}
	beat := Beat{mv}

	for p.hasMore() && p.peek().kind == tokPlus {
		plus := p.consume()
		if !p.hasMore() || p.peek().kind != tokMove {
			return nil, parseErrorf(plus.start, "expected move after '+'")
		}
		next, err := canonicalMove(p.consume())
		if err != nil {
			return nil, err
		}
		beat = append(beat, next)
	}

	if len(beat) > 1 {
		axes := map[Axis]bool{}
		for _, m := range beat {
			axes[m.Axis()] = true
		}
		if len(axes) > 1 {
			names := make([]string, 0, len(axes))
			for _, a := range []Axis{AxisX, AxisY, AxisZ} {
				if axes[a] {
					names = append(names, string(a))
				}
			}
			return nil, parseErrorf(first.start,
				"simultaneous moves in beat %q must share one rotation axis (got axes %s)",
				beat.String(), strings.Join(names, ", "))
		}
	}
	return beat, nil
}

func (p *parser) parseRepeat(isGroup bool) (int, error) {
	if !p.hasMore() {
		return 1, nil
	}
	t := p.peek()

	if t.kind == tokCaret {
		p.consume()
		if !p.hasMore() || p.peek().kind != tokInt {
			return 0, parseErrorf(t.start, "expected integer after '^'")
		}
		return p.repeatValue(p.consume())
	}

	// A bare integer repeat only binds to a parenthesized group: "(R U)2".
	if isGroup && t.kind == tokInt {
		return p.repeatValue(p.consume())
	}
	return 1, nil
}

func (p *parser) repeatValue(t token) (int, error) {
	n, err := strconv.Atoi(t.value)
	if err != nil || n < 1 {
		return 0, parseErrorf(t.start, "repeat must be >= 1")
	}
	return n, nil
}
