package rex2

import (
	"strings"
	"unicode/utf8"

	"github.com/corvidae/rex2/parser"
)

// ReplaceAllString replaces every non-overlapping match of re in src
// with repl, expanding `\0`-`\9` and `\g<name>` references against each
// match's capture groups (spec.md §6's `sub` collaborator, via
// parser.ParseReplacementTemplate). An unmatched group reference expands
// to "", matching Python `re.sub`.
func (re *Regexp) ReplaceAllString(src, repl string) (string, error) {
	parts, err := parser.ParseReplacementTemplate(repl, re.prog.NamedGroups)
	if err != nil {
		return "", err
	}

	var out strings.Builder
	pos := 0
	nRunes := utf8.RuneCountInString(src)
	lastByteEnd := 0
	for {
		m, ok := re.Search(src, pos)
		if !ok {
			break
		}
		start, end := m.Span(0)
		out.WriteString(src[lastByteEnd:start])
		expandReplacement(&out, parts, m)
		lastByteEnd = end

		_, rend := m.RuneSpan(0)
		if rend > pos {
			pos = rend
		} else {
			pos = rend + 1
		}
		if pos > nRunes {
			break
		}
	}
	out.WriteString(src[lastByteEnd:])
	return out.String(), nil
}

func expandReplacement(out *strings.Builder, parts []parser.ReplacementPart, m *Match) {
	for _, p := range parts {
		if p.GroupRef < 0 {
			out.WriteString(p.Literal)
			continue
		}
		if text, matched := m.Group(p.GroupRef); matched {
			out.WriteString(text)
		}
	}
}
