package rex2

import "unicode/utf8"

// FindString returns the text of the leftmost match in s, or "" if none
// is found (spec.md §6's `search` collaborator, specialized to strings).
func (re *Regexp) FindString(s string) string {
	m, ok := re.Search(s, 0)
	if !ok {
		return ""
	}
	return m.String()
}

// FindStringIndex returns the [start, end) byte offsets of the leftmost
// match in s, or nil if none is found.
func (re *Regexp) FindStringIndex(s string) []int {
	m, ok := re.Search(s, 0)
	if !ok {
		return nil
	}
	start, end := m.Span(0)
	return []int{start, end}
}

// FindStringSubmatch returns the leftmost match and its capture groups
// as strings; result[0] is the whole match, result[i] the i-th group
// (empty if that group didn't participate). Returns nil if there is no
// match.
func (re *Regexp) FindStringSubmatch(s string) []string {
	m, ok := re.Search(s, 0)
	if !ok {
		return nil
	}
	return submatchStrings(m, re.prog.GroupCount)
}

func submatchStrings(m *Match, groupCount int) []string {
	out := make([]string, groupCount+1)
	out[0] = m.String()
	for i := 1; i <= groupCount; i++ {
		if text, matched := m.Group(i); matched {
			out[i] = text
		}
	}
	return out
}

// FindAllString is spec.md §6's `findall` collaborator: it repeats
// Search, each time advancing past the previous match (or by one rune on
// a zero-width match), exactly as Python `re.findall` does. If n >= 0 it
// returns at most n matches; n < 0 means unlimited.
func (re *Regexp) FindAllString(s string, n int) []string {
	if n == 0 {
		return nil
	}
	nRunes := utf8.RuneCountInString(s)
	var out []string
	pos := 0
	for {
		m, ok := re.Search(s, pos)
		if !ok {
			break
		}
		out = append(out, m.String())
		_, end := m.RuneSpan(0)
		if end > pos {
			pos = end
		} else {
			pos = end + 1
		}
		if pos > nRunes {
			break
		}
		if n > 0 && len(out) >= n {
			break
		}
	}
	return out
}

// FindAllStringIndex is FindAllString, reporting each match's
// [start, end) byte offsets instead of its text.
func (re *Regexp) FindAllStringIndex(s string, n int) [][]int {
	if n == 0 {
		return nil
	}
	nRunes := utf8.RuneCountInString(s)
	var out [][]int
	pos := 0
	for {
		m, ok := re.Search(s, pos)
		if !ok {
			break
		}
		start, end := m.Span(0)
		out = append(out, []int{start, end})
		_, rend := m.RuneSpan(0)
		if rend > pos {
			pos = rend
		} else {
			pos = rend + 1
		}
		if pos > nRunes {
			break
		}
		if n > 0 && len(out) >= n {
			break
		}
	}
	return out
}

// FindAllStringSubmatch is FindAllString, reporting each match's full
// capture-group vector (as FindStringSubmatch does) instead of just its
// text.
func (re *Regexp) FindAllStringSubmatch(s string, n int) [][]string {
	if n == 0 {
		return nil
	}
	nRunes := utf8.RuneCountInString(s)
	var out [][]string
	pos := 0
	for {
		m, ok := re.Search(s, pos)
		if !ok {
			break
		}
		out = append(out, submatchStrings(m, re.prog.GroupCount))
		_, end := m.RuneSpan(0)
		if end > pos {
			pos = end
		} else {
			pos = end + 1
		}
		if pos > nRunes {
			break
		}
		if n > 0 && len(out) >= n {
			break
		}
	}
	return out
}
