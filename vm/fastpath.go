package vm

import (
	"github.com/corvidae/rex2/prefix"
)

// literalPrefixSearch accelerates Search when the program's prefix
// analysis reports a plain unanchored literal prefix with no leading set:
// rather than injecting a fresh unanchored thread at every rune index,
// it repeatedly finds the next occurrence of the literal natively and
// hands each candidate start to an anchored attempt. This produces
// exactly the same answer as the general unanchored simulation: leftmost-
// first semantics guarantee the overall winner is always the anchored
// match at the smallest valid start, so scanning candidate starts in
// increasing order and returning the first one that matches is sound, not
// merely a heuristic approximation (spec.md §4.4 fast paths).
//
// Any shape the analysis doesn't cover (anchored start, a leading
// character set, no prefix at all) makes this return ok=false and the
// caller falls back to the general simulator.
func literalPrefixSearch(m *Machine, a *prefix.Analysis, start int) ([]int, bool) {
	if a == nil || a.Prefix == "" || a.IsAnchoredStart || a.PrefixSetChars != nil {
		return nil, false
	}
	needle := []rune(a.Prefix)
	from := start
	for {
		idx := m.indexOfRunes(needle, from, a.CaseInsensitivePrefix)
		if idx < 0 {
			return nil, false
		}
		if regs, ok := m.run(idx, false, false); ok {
			return regs, true
		}
		from = idx + 1
	}
}

func (m *Machine) indexOfRunes(needle []rune, from int, ci bool) int {
	if len(needle) == 0 {
		return from
	}
	haystack := m.runes
	for i := from; i+len(needle) <= len(haystack); i++ {
		match := true
		for k, want := range needle {
			got := haystack[i+k]
			if ci {
				got = m.fold(got)
			}
			if got != want {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}
