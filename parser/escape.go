package parser

import (
	"strconv"

	"github.com/corvidae/rex2/charset"
)

// parseEscape handles a '\' already peeked (not yet consumed) at the
// current position, per spec.md §4.1 "Escapes".
func (p *parser) parseEscape() (bool, error) {
	start := p.pos
	p.advance() // consume '\'
	c := p.peekRune()
	if c == -1 {
		return false, p.errorf(ErrBadEscape, start)
	}

	switch c {
	case 'n':
		p.advance()
		p.emitChar('\n')
		return true, nil
	case 'r':
		p.advance()
		p.emitChar('\r')
		return true, nil
	case 't':
		p.advance()
		p.emitChar('\t')
		return true, nil
	case 'f':
		p.advance()
		p.emitChar('\f')
		return true, nil
	case 'v':
		p.advance()
		p.emitChar('\v')
		return true, nil
	case 'a':
		p.advance()
		p.emitChar('\a')
		return true, nil
	case 'A':
		p.advance()
		p.emit(Inst{Op: OpAnchorStart})
		return true, nil
	case 'z':
		p.advance()
		p.emit(Inst{Op: OpAnchorEnd})
		return true, nil
	case 'b':
		p.advance()
		p.emit(Inst{Op: OpWordBoundary})
		return true, nil
	case 'B':
		p.advance()
		p.emit(Inst{Op: OpNotWordBoundary})
		return true, nil
	case 'Q':
		p.advance()
		p.inQuote = true
		return p.parseAtom()
	case 'x':
		return p.parseHexEscape(start)
	case 'u':
		return p.parseUnicodeEscape(start, 4)
	case 'U':
		return p.parseUnicodeEscape(start, 8)
	case 'd', 'D', 'w', 'W', 's', 'S':
		p.advance()
		set, _ := charset.Predefined(byte(c))
		ci := p.flags.CaseInsensitive
		if ci {
			p.hasCI = true
		}
		p.emit(Inst{Op: OpSet, Set: set, CaseInsensitive: ci})
		return true, nil
	case '0':
		return p.parseOctalEscape(start)
	case '1', '2', '3', '4', '5', '6', '7', '8', '9':
		// Three octal digits (e.g. \101) form an octal escape.
		if isOctalDigit(c) && isOctalDigit(p.peekAt(1)) && isOctalDigit(p.peekAt(2)) {
			return p.parseOctalEscape(start)
		}
		// Backreferences are an explicit non-goal (spec.md §1).
		return false, p.errorf(ErrUnsupportedFeature, start)
	default:
		// Any other escaped char (punctuation, etc.) is itself.
		p.advance()
		p.emitChar(c)
		return true, nil
	}
}

func (p *parser) parseHexEscape(start int) (bool, error) {
	p.advance() // consume 'x'
	if p.peekRune() == '{' {
		p.advance()
		digStart := p.pos
		for isHexDigit(p.peekRune()) {
			p.advance()
		}
		if p.peekRune() != '}' || p.pos == digStart {
			return false, p.errorf(ErrBadEscape, start)
		}
		digits := string(p.src[digStart:p.pos])
		p.advance() // consume '}'
		v, err := strconv.ParseInt(digits, 16, 64)
		if err != nil || v > 0x10FFFF {
			return false, p.errorf(ErrBadEscape, start)
		}
		p.emitChar(rune(v))
		return true, nil
	}
	if !isHexDigit(p.peekAt(0)) || !isHexDigit(p.peekAt(1)) {
		return false, p.errorf(ErrBadEscape, start)
	}
	digits := string([]rune{p.peekAt(0), p.peekAt(1)})
	p.advance()
	p.advance()
	v, err := strconv.ParseInt(digits, 16, 32)
	if err != nil {
		return false, p.errorf(ErrBadEscape, start)
	}
	p.emitChar(rune(v))
	return true, nil
}

// parseUnicodeEscape handles \uHHHH / \UHHHHHHHH by reading exactly 4 or
// 8 hex digits, per spec.md §4.1 (marked optional there).
func (p *parser) parseUnicodeEscape(start, width int) (bool, error) {
	p.advance() // consume 'u' or 'U'
	digStart := p.pos
	for i := 0; i < width; i++ {
		if !isHexDigit(p.peekRune()) {
			return false, p.errorf(ErrBadEscape, start)
		}
		p.advance()
	}
	digits := string(p.src[digStart:p.pos])
	v, err := strconv.ParseInt(digits, 16, 64)
	if err != nil || v > 0x10FFFF {
		return false, p.errorf(ErrBadEscape, start)
	}
	p.emitChar(rune(v))
	return true, nil
}

func (p *parser) parseOctalEscape(start int) (bool, error) {
	digStart := p.pos
	for n := 0; n < 3 && isOctalDigit(p.peekRune()); n++ {
		p.advance()
	}
	digits := string(p.src[digStart:p.pos])
	v, err := strconv.ParseInt(digits, 8, 32)
	if err != nil || v > 0377 {
		return false, p.errorf(ErrBadEscape, start)
	}
	p.emitChar(rune(v))
	return true, nil
}

func isHexDigit(c rune) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isOctalDigit(c rune) bool {
	return c >= '0' && c <= '7'
}
