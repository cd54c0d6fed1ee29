package rex2

// Split slices s into the substrings separated by matches of re, per
// stdlib regexp.Regexp.Split's well-established semantics (spec.md §6
// lists Split as an external collaborator like findall/sub without
// pinning an exact algorithm; rex2 reuses stdlib's, since it is the
// convention Go callers already expect). If n > 0, at most n substrings
// are returned, with the last one holding the remainder of s unsplit. If
// n == 0, Split returns nil. If n < 0, every match is used as a
// separator.
func (re *Regexp) Split(s string, n int) []string {
	if n == 0 {
		return nil
	}
	if re.pattern != "" && len(s) == 0 {
		return []string{""}
	}

	matches := re.FindAllStringIndex(s, n)
	out := make([]string, 0, len(matches))
	beg, end := 0, 0
	for _, m := range matches {
		if n > 0 && len(out) >= n-1 {
			break
		}
		end = m[0]
		if m[1] != 0 {
			out = append(out, s[beg:end])
		}
		beg = m[1]
	}
	if end != len(s) {
		out = append(out, s[beg:])
	}
	return out
}
