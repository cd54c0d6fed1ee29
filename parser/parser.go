package parser

import (
	"strconv"
	"unicode"
)

const (
	defaultMaxRecursionDepth = 100
	defaultMaxPatternLength  = 64 * 1024
	maxGroupNameLen          = 32
)

// Options configures compilation. The zero value reproduces spec.md's
// single-argument Compile(pattern) behavior exactly; it mirrors the
// teacher's CompilerConfig/DefaultCompilerConfig pair (nfa/compile.go).
type Options struct {
	MaxRecursionDepth int
	MaxPatternLength  int
}

// DefaultOptions returns the options used by Compile.
func DefaultOptions() Options {
	return Options{
		MaxRecursionDepth: defaultMaxRecursionDepth,
		MaxPatternLength:  defaultMaxPatternLength,
	}
}

type parser struct {
	src         []rune
	pos         int
	insts       []Inst
	groupCount  int
	namedGroups map[string]int
	hasCI       bool
	flags       flagState
	depth       int
	opts        Options
	inQuote     bool // inside \Q ... \E
}

// Compile parses pattern and emits a Program, per spec.md §4.1.
func Compile(pattern string) (*Program, error) {
	return CompileWithOptions(pattern, DefaultOptions())
}

// CompileWithOptions is Compile with explicit recursion/length limits.
func CompileWithOptions(pattern string, opts Options) (*Program, error) {
	if opts.MaxRecursionDepth == 0 {
		opts.MaxRecursionDepth = defaultMaxRecursionDepth
	}
	if opts.MaxPatternLength == 0 {
		opts.MaxPatternLength = defaultMaxPatternLength
	}
	if len(pattern) > opts.MaxPatternLength {
		return nil, &SyntaxError{Pattern: pattern, Pos: 0, Err: ErrTooComplex}
	}
	p := &parser{
		src:         []rune(pattern),
		namedGroups: make(map[string]int),
		opts:        opts,
	}
	p.emit(Inst{Op: OpSave, Slot: 0})
	if _, _, _, err := p.parseAlternation(); err != nil {
		return nil, err
	}
	if p.pos != len(p.src) {
		// A stray ')' with no matching '(' stops parseAlternation early.
		return nil, p.errorf(ErrUnsupportedFeature, p.pos)
	}
	p.emit(Inst{Op: OpSave, Slot: 1})
	p.emit(Inst{Op: OpMatch})
	return &Program{
		Insts:              p.insts,
		NamedGroups:        p.namedGroups,
		GroupCount:         p.groupCount,
		HasCaseInsensitive: p.hasCI,
		Source:             pattern,
	}, nil
}

// ---- low-level scanning helpers ----

func (p *parser) peekRune() rune {
	if p.pos >= len(p.src) {
		return -1
	}
	return p.src[p.pos]
}

func (p *parser) peekAt(off int) rune {
	if p.pos+off >= len(p.src) {
		return -1
	}
	return p.src[p.pos+off]
}

func (p *parser) advance() {
	p.pos++
}

func (p *parser) emit(inst Inst) int {
	pc := len(p.insts)
	p.insts = append(p.insts, inst)
	return pc
}

func (p *parser) nextGroupID() int {
	p.groupCount++
	return p.groupCount
}

// relocate copies insts[lo:hi) to the end of the program, patching any
// jump/split/greedy-loop target that falls within [lo,hi) by the write
// offset. This is the "copying the atom's instruction template" technique
// spec.md §4.1 specifies for quantifier expansion and alternation
// relocation; it never mutates [lo,hi) itself.
func (p *parser) relocate(lo, hi int) (newLo, newHi int) {
	offset := len(p.insts) - lo
	patch := func(t int) int {
		if t >= lo && t < hi {
			return t + offset
		}
		return t
	}
	for i := lo; i < hi; i++ {
		inst := p.insts[i]
		switch inst.Op {
		case OpSplit:
			inst.X = patch(inst.X)
			inst.Y = patch(inst.Y)
		case OpJump:
			inst.X = patch(inst.X)
		case OpGreedyLoop:
			inst.ExitPC = patch(inst.ExitPC)
		}
		p.insts = append(p.insts, inst)
	}
	return lo + offset, hi + offset
}

func (p *parser) redirect(lo, target int) {
	p.insts[lo] = Inst{Op: OpJump, X: target}
}

// ---- quantifier construction ----

// buildOptional relocates [lo,hi) to the end, guarded by a Split that can
// skip the body entirely (X?). Returns the Split's pc (the entry point).
func (p *parser) buildOptional(lo, hi int, greedy bool) int {
	splitPC := p.emit(Inst{})
	nlo, nhi := p.relocate(lo, hi)
	exit := nhi
	if greedy {
		p.insts[splitPC] = Inst{Op: OpSplit, X: nlo, Y: exit}
	} else {
		p.insts[splitPC] = Inst{Op: OpSplit, X: exit, Y: nlo}
	}
	return splitPC
}

// buildStar is buildOptional plus a trailing Jump back to the Split,
// implementing X* (spec.md §4.1).
func (p *parser) buildStar(lo, hi int, greedy bool) int {
	splitPC := p.emit(Inst{})
	nlo, _ := p.relocate(lo, hi)
	p.emit(Inst{Op: OpJump, X: splitPC})
	exit := len(p.insts)
	if greedy {
		p.insts[splitPC] = Inst{Op: OpSplit, X: nlo, Y: exit}
	} else {
		p.insts[splitPC] = Inst{Op: OpSplit, X: exit, Y: nlo}
	}
	return splitPC
}

func (p *parser) applyOptional(lo, hi int, greedy bool) {
	p.redirect(lo, p.buildOptional(lo, hi, greedy))
}

func (p *parser) applyStar(lo, hi int, greedy bool) {
	p.redirect(lo, p.buildStar(lo, hi, greedy))
}

// applyPlus needs no relocation: the body is already in place (it must
// execute once unconditionally), so only a trailing Split is appended.
func (p *parser) applyPlus(lo, hi int, greedy bool) {
	splitPC := len(p.insts)
	exit := splitPC + 1
	if greedy {
		p.emit(Inst{Op: OpSplit, X: lo, Y: exit})
	} else {
		p.emit(Inst{Op: OpSplit, X: exit, Y: lo})
	}
}

// applyBraces implements X{n}, X{n,m}, and X{n,} per spec.md §4.1: n
// required copies, then either (m-n) X? copies or one trailing X*.
func (p *parser) applyBraces(lo, hi, n, m int, unbounded, greedy bool) {
	if !unbounded && m == 0 {
		p.redirect(lo, len(p.insts)) // {0} / {0,0}: consumes nothing
		return
	}
	if n == 0 {
		if unbounded {
			p.applyStar(lo, hi, greedy) // {0,} == *
			return
		}
		first := p.buildOptional(lo, hi, greedy)
		for i := 1; i < m; i++ {
			p.buildOptional(lo, hi, greedy)
		}
		p.redirect(lo, first)
		return
	}
	for i := 1; i < n; i++ {
		p.relocate(lo, hi)
	}
	if unbounded {
		flo, fhi := p.relocate(lo, hi)
		p.applyStar(flo, fhi, greedy)
		return
	}
	for i := n; i < m; i++ {
		flo, fhi := p.relocate(lo, hi)
		p.applyOptional(flo, fhi, greedy)
	}
}

// ---- grammar: alternation / concat / quantified / atom ----

type branchRange struct{ lo, hi int }

// parseAlternation parses concat ('|' concat)*, stopping at ')' or EOF,
// and builds the priority-ordered Split tree of spec.md §4.1 when there
// is more than one branch. Returns the [lo,hi) range of the whole
// construct.
func (p *parser) parseAlternation() (lo, hi int, multi bool, err error) {
	lo = len(p.insts)
	var branches []branchRange
	var jumpPCs []int
	for {
		blo := len(p.insts)
		if err := p.parseConcat(); err != nil {
			return 0, 0, false, err
		}
		bhi := len(p.insts)
		if p.peekRune() == '|' {
			p.advance()
			jpc := p.emit(Inst{Op: OpJump, X: -1})
			branches = append(branches, branchRange{blo, jpc + 1})
			jumpPCs = append(jumpPCs, jpc)
			continue
		}
		if len(branches) > 0 {
			// Not the only branch: give it a jump to exit too, or it
			// falls through into whatever physically follows it (the
			// relocated first branch, below) instead of leaving the
			// alternation.
			jpc := p.emit(Inst{Op: OpJump, X: -1})
			branches = append(branches, branchRange{blo, jpc + 1})
			jumpPCs = append(jumpPCs, jpc)
		} else {
			branches = append(branches, branchRange{blo, bhi})
		}
		break
	}
	if len(branches) == 1 {
		return branches[0].lo, branches[0].hi, false, nil
	}

	first := branches[0]
	newLo, _ := p.relocate(first.lo, first.hi)
	relocatedJumpPC := jumpPCs[0] + (newLo - first.lo)

	splitTreeStart := len(p.insts)
	n := len(branches)
	for k := 0; k < n-1; k++ {
		high := branches[k].lo
		if k == 0 {
			high = newLo
		}
		low := len(p.insts) + 1
		if k == n-2 {
			low = branches[n-1].lo
		}
		p.emit(Inst{Op: OpSplit, X: high, Y: low})
	}
	exit := len(p.insts)
	p.insts[relocatedJumpPC].X = exit
	// jumpPCs[1:] now covers every branch but the relocated first one
	// (including the last), each of which needs its own exit jump: the
	// relocated first branch is the only one physically followed by
	// exit's Save/Match pair, so every other branch falls through into
	// it unless patched here.
	for k := 1; k < n; k++ {
		p.insts[jumpPCs[k]].X = exit
	}
	p.insts[first.lo] = Inst{Op: OpJump, X: splitTreeStart}
	return first.lo, exit, true, nil
}

func (p *parser) atTerminator() bool {
	c := p.peekRune()
	return c == -1 || c == '|' || c == ')'
}

func (p *parser) skipVerbose() {
	if !p.flags.Verbose || p.inQuote {
		return
	}
	for {
		c := p.peekRune()
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v':
			p.advance()
		case c == '#':
			for p.peekRune() != '\n' && p.peekRune() != -1 {
				p.advance()
			}
		default:
			return
		}
	}
}

func (p *parser) parseConcat() error {
	for {
		p.skipVerbose()
		if p.atTerminator() {
			return nil
		}
		lo := len(p.insts)
		matched, err := p.parseAtom()
		if err != nil {
			return err
		}
		if !matched {
			continue // bare (?flags) directive: nothing to quantify
		}
		hi := len(p.insts)
		if err := p.parseQuantifier(lo, hi); err != nil {
			return err
		}
	}
}

func (p *parser) parseQuantifier(lo, hi int) error {
	if p.inQuote {
		return nil // quantifier chars inside \Q...\E are literals
	}
	p.skipVerbose()
	switch p.peekRune() {
	case '*':
		p.advance()
		p.applyStar(lo, hi, p.consumeLazyMark())
	case '+':
		p.advance()
		p.applyPlus(lo, hi, p.consumeLazyMark())
	case '?':
		p.advance()
		p.applyOptional(lo, hi, p.consumeLazyMark())
	case '{':
		save := p.pos
		n, m, unbounded, ok := p.tryParseBraces()
		if !ok {
			p.pos = save
			return nil // literal '{', not a quantifier
		}
		if !unbounded && m < n {
			return p.errorf(ErrBadRepetition, save)
		}
		p.applyBraces(lo, hi, n, m, unbounded, p.consumeLazyMark())
	}
	return nil
}

// consumeLazyMark consumes a trailing '?' (lazy marker) if present and
// returns the effective greedy-ness, honoring the U (ungreedy) flag per
// spec.md §4.1.
func (p *parser) consumeLazyMark() bool {
	writtenLazy := false
	if p.peekRune() == '?' {
		p.advance()
		writtenLazy = true
	}
	return writtenLazy == p.flags.Ungreedy
}

// tryParseBraces parses "n", "n,", "n,m", or "," -less single "n" forms
// after an already-consumed '{'. Returns ok=false (and must not have
// consumed input usefully) if this isn't a well-formed {...} quantifier,
// in which case '{' is a literal character.
func (p *parser) tryParseBraces() (n, m int, unbounded, ok bool) {
	p.advance() // consume '{'
	start := p.pos
	digits1 := p.scanDigits()
	if digits1 == "" {
		return 0, 0, false, false
	}
	n64, _ := strconv.Atoi(digits1)
	if p.peekRune() == '}' {
		p.advance()
		return n64, n64, false, true
	}
	if p.peekRune() != ',' {
		p.pos = start - 1
		return 0, 0, false, false
	}
	p.advance() // consume ','
	digits2 := p.scanDigits()
	if digits2 == "" {
		if p.peekRune() != '}' {
			p.pos = start - 1
			return 0, 0, false, false
		}
		p.advance()
		return n64, 0, true, true
	}
	m64, _ := strconv.Atoi(digits2)
	if p.peekRune() != '}' {
		p.pos = start - 1
		return 0, 0, false, false
	}
	p.advance()
	return n64, m64, false, true
}

func (p *parser) scanDigits() string {
	start := p.pos
	for p.peekRune() >= '0' && p.peekRune() <= '9' {
		p.advance()
	}
	return string(p.src[start:p.pos])
}

// parseAtom parses one atom (literal, class, group, anchor, escape) and
// emits its instructions. matched is false for directives that consume
// input but produce no quantifiable atom (bare "(?flags)").
func (p *parser) parseAtom() (matched bool, err error) {
	if p.inQuote {
		if p.peekRune() == '\\' && p.peekAt(1) == 'E' {
			p.advance()
			p.advance()
			p.inQuote = false
			return p.parseAtom()
		}
		if p.peekRune() == -1 {
			p.inQuote = false
			return false, nil
		}
		ch := p.peekRune()
		p.advance()
		p.emitChar(ch)
		return true, nil
	}

	c := p.peekRune()
	switch c {
	case '(':
		return p.parseGroup()
	case '[':
		return true, p.parseClass()
	case '.':
		p.advance()
		if p.flags.DotAll {
			p.emit(Inst{Op: OpAnyWithNewline})
		} else {
			p.emit(Inst{Op: OpAnyExceptNewline})
		}
		return true, nil
	case '^':
		p.advance()
		if p.flags.Multiline {
			p.emit(Inst{Op: OpAnchorLineStart})
		} else {
			p.emit(Inst{Op: OpAnchorStart})
		}
		return true, nil
	case '$':
		p.advance()
		if p.flags.Multiline {
			p.emit(Inst{Op: OpAnchorLineEnd})
		} else {
			p.emit(Inst{Op: OpAnchorEnd})
		}
		return true, nil
	case '\\':
		return p.parseEscape()
	case '*', '+', '?':
		return false, p.errorf(ErrUnsupportedFeature, p.pos) // nothing to repeat
	default:
		p.advance()
		p.emitChar(c)
		return true, nil
	}
}

func (p *parser) emitChar(ch rune) {
	ci := p.flags.CaseInsensitive
	if ci {
		p.hasCI = true
		ch = unicode.ToLower(ch)
	}
	p.emit(Inst{Op: OpChar, Rune: ch, CaseInsensitive: ci})
}

func (p *parser) parseGroup() (bool, error) {
	p.advance() // consume '('
	savedFlags := p.flags
	capturing := true
	flagsOnly := false
	groupID := 0

	if p.peekRune() == '?' {
		p.advance()
		switch p.peekRune() {
		case ':':
			p.advance()
			capturing = false
		case '=', '!':
			return false, p.errorf(ErrUnsupportedFeature, p.pos)
		case '<':
			if p.peekAt(1) == '=' || p.peekAt(1) == '!' {
				return false, p.errorf(ErrUnsupportedFeature, p.pos)
			}
			p.advance()
			name, err := p.parseGroupName()
			if err != nil {
				return false, err
			}
			groupID = p.nextGroupID()
			if _, dup := p.namedGroups[name]; dup {
				return false, p.errorf(ErrBadGroupName, p.pos)
			}
			p.namedGroups[name] = groupID
			capturing = true
		case 'P':
			p.advance()
			if p.peekRune() != '<' {
				return false, p.errorf(ErrBadGroupName, p.pos)
			}
			p.advance()
			name, err := p.parseGroupName()
			if err != nil {
				return false, err
			}
			groupID = p.nextGroupID()
			if _, dup := p.namedGroups[name]; dup {
				return false, p.errorf(ErrBadGroupName, p.pos)
			}
			p.namedGroups[name] = groupID
			capturing = true
		default:
			neg := false
			for {
				c := p.peekRune()
				if c == ':' || c == ')' {
					break
				}
				if c == -1 {
					return false, p.errorf(ErrBadEscape, p.pos)
				}
				if c == '-' {
					neg = true
					p.advance()
					continue
				}
				if !p.flags.applyLetter(byte(c), neg) {
					return false, p.errorf(ErrBadEscape, p.pos)
				}
				p.advance()
			}
			if p.flags.CaseInsensitive {
				p.hasCI = true
			}
			if p.peekRune() == ')' {
				p.advance()
				flagsOnly = true
			} else {
				p.advance() // consume ':'
				capturing = false
			}
		}
	} else {
		groupID = p.nextGroupID()
	}

	if flagsOnly {
		// (?flags) mutates the remainder of the enclosing scope; the
		// caller's flag scope (parseConcat's eventual enclosing group
		// or the root pattern) restores it at its own close, so do not
		// restore savedFlags here.
		return false, nil
	}

	if p.flags.CaseInsensitive {
		p.hasCI = true
	}

	var bodyStart int
	if capturing {
		bodyStart = p.emit(Inst{Op: OpSave, Slot: 2 * groupID})
	} else {
		bodyStart = len(p.insts)
	}

	p.depth++
	if p.depth > p.opts.MaxRecursionDepth {
		return false, p.errorf(ErrTooComplex, p.pos)
	}
	_, _, _, err := p.parseAlternation()
	p.depth--
	if err != nil {
		return false, err
	}
	if p.peekRune() != ')' {
		return false, p.errorf(ErrUnsupportedFeature, p.pos)
	}
	p.advance()
	if capturing {
		p.emit(Inst{Op: OpSave, Slot: 2*groupID + 1})
	}
	p.flags = savedFlags
	_ = bodyStart
	return true, nil
}

func (p *parser) parseGroupName() (string, error) {
	start := p.pos
	for p.peekRune() != '>' && p.peekRune() != -1 {
		p.advance()
	}
	if p.peekRune() != '>' {
		return "", p.errorf(ErrBadGroupName, start)
	}
	name := string(p.src[start:p.pos])
	p.advance() // consume '>'
	if len(name) == 0 || len(name) > maxGroupNameLen {
		return "", p.errorf(ErrBadGroupName, start)
	}
	return name, nil
}
