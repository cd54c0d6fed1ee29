package rex2

import (
	"reflect"
	"testing"
)

func TestFindString(t *testing.T) {
	re := MustCompile(`\d+`)
	if got := re.FindString("age: 42 years"); got != "42" {
		t.Fatalf("FindString = %q, want 42", got)
	}
	if got := re.FindString("no digits here"); got != "" {
		t.Fatalf("FindString on no-match input = %q, want empty", got)
	}
}

func TestFindStringIndex(t *testing.T) {
	re := MustCompile(`\d+`)
	if got := re.FindStringIndex("age: 42"); !reflect.DeepEqual(got, []int{5, 7}) {
		t.Fatalf("FindStringIndex = %v, want [5 7]", got)
	}
	if got := re.FindStringIndex("no digits"); got != nil {
		t.Fatalf("FindStringIndex on no-match input = %v, want nil", got)
	}
}

func TestFindStringSubmatch(t *testing.T) {
	re := MustCompile(`(?P<year>\d{4})-(\d{2})`)
	got := re.FindStringSubmatch("filed 2024-03 late")
	want := []string{"2024-03", "2024", "03"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("FindStringSubmatch = %#v, want %#v", got, want)
	}
}

func TestFindStringSubmatchUnmatchedGroup(t *testing.T) {
	re := MustCompile(`(a)(b)?`)
	got := re.FindStringSubmatch("a")
	want := []string{"a", "a", ""}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("FindStringSubmatch = %#v, want %#v", got, want)
	}
}

func TestFindAllString(t *testing.T) {
	re := MustCompile(`\d`)
	got := re.FindAllString("a1b2c3", -1)
	want := []string{"1", "2", "3"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("FindAllString = %#v, want %#v", got, want)
	}
}

func TestFindAllStringLimit(t *testing.T) {
	re := MustCompile(`\d`)
	got := re.FindAllString("a1b2c3", 2)
	want := []string{"1", "2"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("FindAllString(n=2) = %#v, want %#v", got, want)
	}
}

func TestFindAllStringNoMatchReturnsNil(t *testing.T) {
	re := MustCompile(`\d`)
	if got := re.FindAllString("abc", -1); got != nil {
		t.Fatalf("FindAllString on no-match input = %#v, want nil", got)
	}
}

func TestFindAllStringZeroN(t *testing.T) {
	re := MustCompile(`\d`)
	if got := re.FindAllString("123", 0); got != nil {
		t.Fatalf("FindAllString(n=0) = %#v, want nil", got)
	}
}

func TestFindAllStringZeroWidthAdvances(t *testing.T) {
	re := MustCompile(`a*`)
	got := re.FindAllString("abaa", -1)
	want := []string{"a", "", "aa", ""}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("FindAllString(a*) = %#v, want %#v", got, want)
	}
}

func TestFindAllStringIndex(t *testing.T) {
	re := MustCompile(`\d`)
	got := re.FindAllStringIndex("a1b2", -1)
	want := [][]int{{1, 2}, {3, 4}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("FindAllStringIndex = %#v, want %#v", got, want)
	}
}

func TestFindAllStringSubmatch(t *testing.T) {
	re := MustCompile(`(\w)=(\d)`)
	got := re.FindAllStringSubmatch("a=1 b=2", -1)
	want := [][]string{{"a=1", "a", "1"}, {"b=2", "b", "2"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("FindAllStringSubmatch = %#v, want %#v", got, want)
	}
}
