// Package charset implements the character-set builder used by the
// parser to compile bracket expressions ([...]) and predefined classes
// (\d \w \s and their negations) into a searchable set.
//
// A Set is a product of a small membership map for individual chars, a
// list of (lo,hi) ranges too large to expand, a list of POSIX ranges to
// be interpreted as "not in this set", a 256-entry ASCII bitmap for O(1)
// ASCII tests, and a flat string of every member (for lstrip/rstrip/find
// fast paths). IsSimple reports whether the bitmap/flat string alone
// fully represent the set (true for anything that never needs a range
// above the ASCII bitmap or a POSIX negation).
package charset

import (
	"sort"
	"unicode"
)

// maxExpandRange bounds how large a single (lo,hi) range may be before it
// is stored unexpanded instead of being flattened into the membership map.
const maxExpandRange = 512

// Range is an inclusive code-unit range.
type Range struct {
	Lo, Hi rune
}

// Set is an immutable, searchable character set.
type Set struct {
	members  map[rune]bool // small individual members
	ranges   []Range       // ranges too large to expand into members
	posixNeg []string      // POSIX classes applied as negation (spec §9 open question 2)
	ascii    [256]bool     // O(1) ASCII membership test
	flat     string        // every member, ascending, for IndexByte/strip fast paths
	isSimple bool          // fully represented by ascii+flat, no wide ranges/posix-neg
}

// Builder accumulates literal chars, ranges, and POSIX classes into a Set.
type Builder struct {
	members map[rune]bool
	ranges  []Range
	posix   []string
	fold    bool
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{members: make(map[rune]bool)}
}

// CaseFold marks the builder as case-insensitive: every char or range
// endpoint added afterward is lowercased before being stored, so the
// built Set only ever needs to be probed with an already-lowercased rune
// (the vm folds the input the same way before calling Set.Contains).
// Call this immediately after NewBuilder, before any Add*, so every
// member added under a case-insensitive class is folded consistently.
func (b *Builder) CaseFold() *Builder {
	b.fold = true
	return b
}

// AddChar adds a single code unit to the set being built.
func (b *Builder) AddChar(ch rune) {
	if b.fold {
		ch = unicode.ToLower(ch)
	}
	b.members[ch] = true
}

// AddRange adds an inclusive range. Small ranges are expanded eagerly into
// individual members (keeps the ASCII bitmap and flat string simple);
// ranges wider than maxExpandRange are kept unexpanded.
func (b *Builder) AddRange(lo, hi rune) {
	if b.fold {
		lo, hi = unicode.ToLower(lo), unicode.ToLower(hi)
	}
	if lo > hi {
		lo, hi = hi, lo
	}
	if hi-lo+1 > maxExpandRange {
		b.ranges = append(b.ranges, Range{Lo: lo, Hi: hi})
		return
	}
	for r := lo; r <= hi; r++ {
		b.members[r] = true
	}
}

// AddPosixClass adds a named POSIX class (e.g. "alpha", "digit") by
// expanding its ASCII members directly.
func (b *Builder) AddPosixClass(name string) bool {
	members, ok := posixClasses[name]
	if !ok {
		return false
	}
	for _, r := range members {
		b.AddRange(r.Lo, r.Hi)
	}
	return true
}

// AddNegatedPosixClass records a POSIX class to be treated as "anything
// not in this class" when the Set is queried. Per spec.md §9 open
// question 2, this module's policy is to support top-level negated POSIX
// classes ([[:^alpha:]]) but reject \D \W \S used *inside* a bracket
// expression (see parser.ErrUnsupportedFeature), rather than silently
// contribute an empty set.
func (b *Builder) AddNegatedPosixClass(name string) bool {
	if _, ok := posixClasses[name]; !ok {
		return false
	}
	b.posix = append(b.posix, name)
	return true
}

// Build finalizes the Set: sorts ranges, computes the ASCII bitmap, the
// flat member string, and the IsSimple flag.
func (b *Builder) Build() *Set {
	s := &Set{
		members:  b.members,
		ranges:   append([]Range(nil), b.ranges...),
		posixNeg: append([]string(nil), b.posix...),
	}
	sort.Slice(s.ranges, func(i, j int) bool { return s.ranges[i].Lo < s.ranges[j].Lo })

	var flatRunes []rune
	for ch := range s.members {
		flatRunes = append(flatRunes, ch)
	}
	for _, r := range s.ranges {
		for ch := r.Lo; ch <= r.Hi && ch-r.Lo < maxExpandRange*4; ch++ {
			if ch >= 0 && ch < 0x80 {
				flatRunes = append(flatRunes, ch)
			}
		}
	}
	sort.Slice(flatRunes, func(i, j int) bool { return flatRunes[i] < flatRunes[j] })
	buf := make([]byte, 0, len(flatRunes))
	for _, r := range flatRunes {
		if r >= 0 && r < 0x80 {
			s.ascii[r] = true
		}
		buf = append(buf, string(r)...)
	}
	s.flat = string(buf)

	// Simple means: no unbounded/wide ranges beyond ASCII, no POSIX
	// negation, and everything fits the bitmap+flat representation.
	s.isSimple = len(s.posixNeg) == 0
	for _, r := range s.ranges {
		if r.Hi >= 0x80 {
			s.isSimple = false
		}
	}
	for ch := range s.members {
		if ch >= 0x80 {
			s.isSimple = false
		}
	}
	return s
}

// Contains reports whether ch is a member of the set, honoring POSIX
// negation entries (ch is a member if it is NOT in any negated POSIX
// class, in addition to direct membership).
func (s *Set) Contains(ch rune) bool {
	if ch >= 0 && ch < 0x80 && s.ascii[ch] {
		return true
	}
	if s.members[ch] {
		return true
	}
	for _, r := range s.ranges {
		if ch >= r.Lo && ch <= r.Hi {
			return true
		}
	}
	for _, name := range s.posixNeg {
		if !inPosixClass(name, ch) {
			return true
		}
	}
	return false
}

// IsSimple reports whether the set is fully represented by the ASCII
// bitmap and flat string (no wide ranges, no POSIX negation). Callers use
// this to decide whether a native strip/find fast path is safe.
func (s *Set) IsSimple() bool { return s.isSimple }

// Flat returns, in ascending order, every individual member plus the ASCII
// part of any unexpanded range, for lstrip/rstrip/find style fast paths.
// Only meaningful when IsSimple.
func (s *Set) Flat() string { return s.flat }

// ASCIIBitmap returns the 256-entry ASCII membership bitmap.
func (s *Set) ASCIIBitmap() *[256]bool { return &s.ascii }

// Negate returns a new Set containing everything not in s, restricted to
// the ASCII range plus a synthetic wide range for non-ASCII code points
// (matching the spec's code-unit-indexed treatment of the input).
func (s *Set) Negate() *Set {
	b := NewBuilder()
	for ch := rune(0); ch < 0x80; ch++ {
		if !s.Contains(ch) {
			b.AddChar(ch)
		}
	}
	// Everything above ASCII is a member of the negation unless the
	// source set already claims the whole non-ASCII range via a wide
	// range (best-effort: the engine treats input as code units, so a
	// single large "non-ASCII" range suffices for the common cases like
	// \D, \W, \S negations).
	claimsAllNonASCII := false
	for _, r := range s.ranges {
		if r.Lo <= 0x80 && r.Hi >= 0x10FFFF {
			claimsAllNonASCII = true
		}
	}
	if !claimsAllNonASCII {
		b.AddRange(0x80, 0x10FFFF)
	}
	return b.Build()
}

var posixClasses = map[string][]Range{
	"alpha":  {{'A', 'Z'}, {'a', 'z'}},
	"digit":  {{'0', '9'}},
	"alnum":  {{'0', '9'}, {'A', 'Z'}, {'a', 'z'}},
	"upper":  {{'A', 'Z'}},
	"lower":  {{'a', 'z'}},
	"space":  {{' ', ' '}, {'\t', '\t'}, {'\n', '\n'}, {'\r', '\r'}, {'\f', '\f'}, {'\v', '\v'}},
	"punct":  {{'!', '/'}, {':', '@'}, {'[', '`'}, {'{', '~'}},
	"cntrl":  {{0, 0x1f}, {0x7f, 0x7f}},
	"print":  {{0x20, 0x7e}},
	"graph":  {{0x21, 0x7e}},
	"blank":  {{' ', ' '}, {'\t', '\t'}},
	"xdigit": {{'0', '9'}, {'A', 'F'}, {'a', 'f'}},
}

func inPosixClass(name string, ch rune) bool {
	for _, r := range posixClasses[name] {
		if ch >= r.Lo && ch <= r.Hi {
			return true
		}
	}
	return false
}

// Predefined returns the Set for a predefined class: d/D (digit/non-digit),
// w/W (word/non-word), s/S (space/non-space). ok is false for unknown
// letters.
func Predefined(letter byte) (set *Set, ok bool) {
	b := NewBuilder()
	switch letter {
	case 'd':
		b.AddRange('0', '9')
		return b.Build(), true
	case 'D':
		b.AddRange('0', '9')
		return b.Build().Negate(), true
	case 'w':
		b.AddRange('a', 'z')
		b.AddRange('A', 'Z')
		b.AddRange('0', '9')
		b.AddChar('_')
		return b.Build(), true
	case 'W':
		b.AddRange('a', 'z')
		b.AddRange('A', 'Z')
		b.AddRange('0', '9')
		b.AddChar('_')
		return b.Build().Negate(), true
	case 's':
		b.AddChar(' ')
		b.AddChar('\t')
		b.AddChar('\n')
		b.AddChar('\r')
		b.AddChar('\f')
		b.AddChar('\v')
		return b.Build(), true
	case 'S':
		b.AddChar(' ')
		b.AddChar('\t')
		b.AddChar('\n')
		b.AddChar('\r')
		b.AddChar('\f')
		b.AddChar('\v')
		return b.Build().Negate(), true
	default:
		return nil, false
	}
}
