// Package rex2 is a linear-time, Python-`re`-compatible regular
// expression engine: a parser/compiler, a peephole bytecode optimizer,
// and a Thompson-NFA (Pike's-VM) simulator, wrapped in a convenience
// façade modeled on the teacher's root package (`regex.go`) and Go's own
// stdlib `regexp`.
//
// Unlike stdlib `regexp`, every index this package hands out or accepts
// through Search/Match/FullMatch is a Unicode code-point (rune) index,
// matching Python `re`'s str semantics. The convenience methods
// (FindString, ReplaceAllString, Split, and a Match's Span/Start/End)
// work in ordinary Go byte offsets, so callers slicing Go strings never
// need to think about the distinction — only a caller resuming a search
// manually via Search's start parameter needs to know it is a rune
// index (Match.RuneSpan reports one without recomputing it).
//
// Basic usage:
//
//	re, err := rex2.Compile(`(?P<year>\d{4})-(?P<month>\d{2})`)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	m, ok := re.Search("filed 2024-03", 0)
//	if ok {
//	    fmt.Println(m.String()) // "2024-03"
//	}
package rex2

import (
	"unicode/utf8"

	"github.com/corvidae/rex2/optimize"
	"github.com/corvidae/rex2/parser"
	"github.com/corvidae/rex2/prefix"
	"github.com/corvidae/rex2/vm"
)

// Regexp is a compiled pattern (spec.md §3's "CompiledPattern" record):
// immutable once returned by Compile, safe to share and use concurrently
// from multiple goroutines (spec.md §5).
type Regexp struct {
	prog    *parser.Program
	opt     *prefix.Analysis
	alt     *vm.AltLiteralSet
	pattern string
}

// CompileOptions configures Compile beyond spec.md's single-argument
// contract (spec.md §6 "compile(pattern) -> CompiledPattern"), mirroring
// the teacher's Compile/CompileWithConfig pair. The zero value reproduces
// Compile's behavior exactly.
type CompileOptions struct {
	MaxRecursionDepth int
	MaxPatternLength  int
}

// DefaultCompileOptions returns the limits Compile uses.
func DefaultCompileOptions() CompileOptions {
	d := parser.DefaultOptions()
	return CompileOptions{MaxRecursionDepth: d.MaxRecursionDepth, MaxPatternLength: d.MaxPatternLength}
}

// Compile parses and compiles pattern, per spec.md §4.1's RE2-style
// subset (no backreferences, lookaround, or Unicode properties).
func Compile(pattern string) (*Regexp, error) {
	return CompileWithOptions(pattern, DefaultCompileOptions())
}

// MustCompile is Compile, but panics instead of returning an error. For
// patterns that are known-valid at compile time (e.g. constants).
func MustCompile(pattern string) *Regexp {
	re, err := Compile(pattern)
	if err != nil {
		panic("rex2: Compile(" + pattern + "): " + err.Error())
	}
	return re
}

// CompileWithOptions is Compile with explicit recursion/length limits.
func CompileWithOptions(pattern string, opts CompileOptions) (*Regexp, error) {
	prog, err := parser.CompileWithOptions(pattern, parser.Options{
		MaxRecursionDepth: opts.MaxRecursionDepth,
		MaxPatternLength:  opts.MaxPatternLength,
	})
	if err != nil {
		return nil, err
	}
	prog = optimize.Optimize(prog)
	return &Regexp{
		prog:    prog,
		opt:     prefix.Analyze(prog.Insts),
		alt:     vm.PrepareAltLiteral(prog),
		pattern: pattern,
	}, nil
}

// String returns the source pattern text Compile was given.
func (re *Regexp) String() string { return re.pattern }

// NumSubexp returns the number of capturing groups (not counting group 0,
// the whole match), matching stdlib regexp.Regexp.NumSubexp.
func (re *Regexp) NumSubexp() int { return re.prog.GroupCount }

// SubexpNames returns each group's name, indexed by group number; group
// 0 and any unnamed group report "". Matches stdlib
// regexp.Regexp.SubexpNames.
func (re *Regexp) SubexpNames() []string {
	names := make([]string, re.prog.GroupCount+1)
	for name, n := range re.prog.NamedGroups {
		if n >= 0 && n < len(names) {
			names[n] = name
		}
	}
	return names
}

// Search performs an unanchored scan of s starting at rune index start
// and returns the leftmost-first match, or ok=false if none exists
// (spec.md §6 "search").
func (re *Regexp) Search(s string, start int) (*Match, bool) {
	res, ok := vm.SearchWithAltLiteral(re.prog, re.opt, re.alt, s, start)
	if !ok {
		return nil, false
	}
	return newMatch(re, res, s, start, utf8.RuneCountInString(s)), true
}

// Match requires a match beginning exactly at rune index start, but lets
// it end anywhere (spec.md §6 "match", Python `re.match` semantics).
func (re *Regexp) Match(s string, start int) (*Match, bool) {
	res, ok := vm.Match(re.prog, s, start)
	if !ok {
		return nil, false
	}
	return newMatch(re, res, s, start, utf8.RuneCountInString(s)), true
}

// FullMatch requires the match to begin at start and consume every
// remaining rune (spec.md §6 "fullmatch", Python `re.fullmatch`
// semantics).
func (re *Regexp) FullMatch(s string, start int) (*Match, bool) {
	res, ok := vm.FullMatch(re.prog, s, start)
	if !ok {
		return nil, false
	}
	return newMatch(re, res, s, start, utf8.RuneCountInString(s)), true
}

// MatchString reports whether s contains any match of re, per the
// teacher's Regex.MatchString convenience method.
func (re *Regexp) MatchString(s string) bool {
	_, ok := re.Search(s, 0)
	return ok
}
