package charset

import "testing"

func TestBuilderCharsAndRanges(t *testing.T) {
	b := NewBuilder()
	b.AddChar('x')
	b.AddRange('a', 'e')
	s := b.Build()

	for _, ch := range []rune{'x', 'a', 'b', 'c', 'd', 'e'} {
		if !s.Contains(ch) {
			t.Errorf("expected %q to be a member", ch)
		}
	}
	if s.Contains('z') {
		t.Errorf("did not expect %q to be a member", 'z')
	}
	if !s.IsSimple() {
		t.Errorf("expected ASCII-only set to be simple")
	}
}

func TestBuilderWideRangeNotSimple(t *testing.T) {
	b := NewBuilder()
	b.AddRange(0x4E00, 0x9FFF) // CJK block, far larger than maxExpandRange
	s := b.Build()
	if s.IsSimple() {
		t.Errorf("expected wide range to disable the simple fast path")
	}
	if !s.Contains(0x4E01) {
		t.Errorf("expected member of unexpanded range to be contained")
	}
}

func TestPosixClass(t *testing.T) {
	b := NewBuilder()
	if !b.AddPosixClass("digit") {
		t.Fatal("expected digit class to be recognized")
	}
	s := b.Build()
	if !s.Contains('5') || s.Contains('a') {
		t.Errorf("digit class membership incorrect")
	}
}

func TestNegatedPosixClass(t *testing.T) {
	b := NewBuilder()
	if !b.AddNegatedPosixClass("alpha") {
		t.Fatal("expected alpha class to be recognized")
	}
	s := b.Build()
	if s.Contains('a') {
		t.Errorf("negated alpha should not contain 'a'")
	}
	if !s.Contains('5') {
		t.Errorf("negated alpha should contain '5'")
	}
	if s.IsSimple() {
		t.Errorf("POSIX-negated sets are never simple")
	}
}

func TestPredefinedClasses(t *testing.T) {
	d, _ := Predefined('d')
	if !d.Contains('3') || d.Contains('x') {
		t.Errorf("\\d membership incorrect")
	}
	bigD, _ := Predefined('D')
	if bigD.Contains('3') || !bigD.Contains('x') {
		t.Errorf("\\D membership incorrect")
	}
	w, _ := Predefined('w')
	if !w.Contains('_') || !w.Contains('9') || w.Contains(' ') {
		t.Errorf("\\w membership incorrect")
	}
	s, _ := Predefined('s')
	if !s.Contains(' ') || s.Contains('x') {
		t.Errorf("\\s membership incorrect")
	}
	if _, ok := Predefined('q'); ok {
		t.Errorf("expected unknown class letter to report !ok")
	}
}

func TestCaseFoldLowersAddedRange(t *testing.T) {
	b := NewBuilder()
	b.CaseFold()
	b.AddRange('A', 'Z')
	s := b.Build()
	if !s.Contains('a') || !s.Contains('z') {
		t.Errorf("expected folded [A-Z] to contain lowercase members")
	}
	if s.Contains('A') || s.Contains('Z') {
		t.Errorf("folded set should store lowercase only, since probes are folded to lowercase too")
	}
}

func TestCaseFoldLowersAddedChar(t *testing.T) {
	b := NewBuilder()
	b.CaseFold()
	b.AddChar('Q')
	s := b.Build()
	if !s.Contains('q') {
		t.Errorf("expected folded 'Q' to contain 'q'")
	}
}

func TestFlatAndASCIIBitmap(t *testing.T) {
	b := NewBuilder()
	b.AddChar('c')
	b.AddChar('a')
	b.AddChar('b')
	s := b.Build()
	if s.Flat() != "abc" {
		t.Errorf("expected flat member string sorted ascending, got %q", s.Flat())
	}
	bm := s.ASCIIBitmap()
	if !bm['a'] || !bm['b'] || !bm['c'] || bm['d'] {
		t.Errorf("ASCII bitmap incorrect")
	}
}
