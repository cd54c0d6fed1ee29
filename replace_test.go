package rex2

import "testing"

func TestReplaceAllStringLiteral(t *testing.T) {
	re := MustCompile(`\d+`)
	got, err := re.ReplaceAllString("a1b22c333", "#")
	if err != nil {
		t.Fatalf("ReplaceAllString: %v", err)
	}
	if got != "a#b#c#" {
		t.Fatalf("ReplaceAllString = %q, want a#b#c#", got)
	}
}

func TestReplaceAllStringNumericBackref(t *testing.T) {
	re := MustCompile(`(\w+)@(\w+)`)
	got, err := re.ReplaceAllString("user@host", `\2@\1`)
	if err != nil {
		t.Fatalf("ReplaceAllString: %v", err)
	}
	if got != "host@user" {
		t.Fatalf("ReplaceAllString = %q, want host@user", got)
	}
}

func TestReplaceAllStringNamedBackref(t *testing.T) {
	re := MustCompile(`(?P<year>\d{4})-(?P<month>\d{2})`)
	got, err := re.ReplaceAllString("2024-03", `\g<month>/\g<year>`)
	if err != nil {
		t.Fatalf("ReplaceAllString: %v", err)
	}
	if got != "03/2024" {
		t.Fatalf("ReplaceAllString = %q, want 03/2024", got)
	}
}

func TestReplaceAllStringUnmatchedGroupExpandsEmpty(t *testing.T) {
	re := MustCompile(`(a)(b)?`)
	got, err := re.ReplaceAllString("a", `[\1][\2]`)
	if err != nil {
		t.Fatalf("ReplaceAllString: %v", err)
	}
	if got != "[a][]" {
		t.Fatalf("ReplaceAllString = %q, want [a][]", got)
	}
}

func TestReplaceAllStringNoMatchReturnsSrc(t *testing.T) {
	re := MustCompile(`\d+`)
	got, err := re.ReplaceAllString("no digits", "#")
	if err != nil {
		t.Fatalf("ReplaceAllString: %v", err)
	}
	if got != "no digits" {
		t.Fatalf("ReplaceAllString on no-match input = %q, want unchanged", got)
	}
}

func TestReplaceAllStringZeroWidthMatch(t *testing.T) {
	re := MustCompile(`a*`)
	got, err := re.ReplaceAllString("abaa", "-")
	if err != nil {
		t.Fatalf("ReplaceAllString: %v", err)
	}
	if got != "--b--" {
		t.Fatalf("ReplaceAllString(a* -> -) = %q, want --b--", got)
	}
}

func TestReplaceAllStringBadTemplateErrors(t *testing.T) {
	re := MustCompile(`\d+`)
	if _, err := re.ReplaceAllString("42", `\g<nope>`); err == nil {
		t.Fatal("ReplaceAllString with unknown named group: want error")
	}
}
