// Package rmatch implements the match-result object of spec.md §4.5: the
// read-only view over a successful vm.Result that a caller inspects for
// captured groups, spans, and names. Grounded on the teacher's
// meta/match.go (Match holds the haystack by reference; Start/End/String
// accessors), generalized from a start/end-only match to one carrying a
// full capture-group vector and named groups.
package rmatch

import "github.com/corvidae/rex2/vm"

// Group is one capturing group's result: its text and whether the group
// participated in the match at all (spec.md §4.5 "failure semantics" —
// an unmatched optional group is distinct from one that matched empty).
type Group struct {
	Text    string
	Matched bool
}

// Match is a successful match: the capture vector from vm.Result plus the
// bookkeeping (named groups, search bounds) spec.md §4.5 exposes.
type Match struct {
	result      *vm.Result
	namedGroups map[string]int
	groupCount  int
	input       string
	pos, endpos int
}

// New wraps a vm.Result into a Match. namedGroups maps a group name to its
// 1-based group number, mirroring parser.Program.NamedGroups. pos/endpos
// are the bounds the search was restricted to (Python `re`'s pos/endpos).
func New(result *vm.Result, namedGroups map[string]int, groupCount int, input string, pos, endpos int) *Match {
	return &Match{
		result:      result,
		namedGroups: namedGroups,
		groupCount:  groupCount,
		input:       input,
		pos:         pos,
		endpos:      endpos,
	}
}

// Group returns the text of the n-th capturing group (0 is the whole
// match). ok is false if n is out of range or the group did not
// participate in the match.
func (m *Match) Group(n int) (text string, ok bool) {
	if n < 0 || n > m.groupCount {
		return "", false
	}
	return m.result.Text(n)
}

// GroupByName returns the text of the group registered under name. ok is
// false if no such named group exists or it did not participate.
func (m *Match) GroupByName(name string) (text string, ok bool) {
	n, exists := m.namedGroups[name]
	if !exists {
		return "", false
	}
	return m.Group(n)
}

// Groups returns every capturing group (1..N, group 0 excluded, matching
// Python `re.Match.groups()`).
func (m *Match) Groups() []Group {
	out := make([]Group, m.groupCount)
	for i := 1; i <= m.groupCount; i++ {
		text, ok := m.result.Text(i)
		out[i-1] = Group{Text: text, Matched: ok}
	}
	return out
}

// GroupDict returns every named group keyed by its name (Python
// `re.Match.groupdict()`).
func (m *Match) GroupDict() map[string]Group {
	out := make(map[string]Group, len(m.namedGroups))
	for name, n := range m.namedGroups {
		text, ok := m.result.Text(n)
		out[name] = Group{Text: text, Matched: ok}
	}
	return out
}

// Span returns the [start, end) byte-offset pair for group n, or (-1, -1)
// if n is out of range or unmatched.
func (m *Match) Span(n int) (start, end int) {
	if n < 0 || n > m.groupCount {
		return -1, -1
	}
	return m.result.ByteStart(n), m.result.ByteEnd(n)
}

// RuneSpan returns the [start, end) rune-index pair for group n, or
// (-1, -1) if n is out of range or unmatched. Useful for resuming a
// search after this match without re-decoding the subject (pos/endpos
// and Search's start parameter are rune indices throughout this module,
// matching Python `re`'s code-point semantics).
func (m *Match) RuneSpan(n int) (start, end int) {
	if n < 0 || n > m.groupCount {
		return -1, -1
	}
	return m.result.RuneStart(n), m.result.RuneEnd(n)
}

// Start returns the byte offset where group n begins, or -1 if unmatched.
func (m *Match) Start(n int) int {
	s, _ := m.Span(n)
	return s
}

// End returns the byte offset where group n ends, or -1 if unmatched.
func (m *Match) End(n int) int {
	_, e := m.Span(n)
	return e
}

// String returns the text of the whole match (group 0).
func (m *Match) String() string {
	text, _ := m.result.Text(0)
	return text
}

// Input returns the original subject the search ran against.
func (m *Match) Input() string { return m.input }

// Pos returns the index the search was told to start from.
func (m *Match) Pos() int { return m.pos }

// Endpos returns the rune index the search was told not to go past (or
// the rune count of Input() if the search had no such bound).
func (m *Match) Endpos() int { return m.endpos }

// LastIndex returns the 1-based number of the last capturing group to
// close, or -1 if no group closed (spec.md §4.5 "lastindex").
func (m *Match) LastIndex() int { return m.result.LastIndex() }

// LastGroup returns the name of the last capturing group to close. ok is
// false if no group closed, or the last closed group was unnamed.
func (m *Match) LastGroup() (name string, ok bool) {
	idx := m.LastIndex()
	if idx < 0 {
		return "", false
	}
	for groupName, n := range m.namedGroups {
		if n == idx {
			return groupName, true
		}
	}
	return "", false
}
