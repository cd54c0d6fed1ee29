package rex2

import (
	"github.com/corvidae/rex2/rmatch"
	"github.com/corvidae/rex2/vm"
)

// Match is a successful match against a Regexp. It embeds rmatch.Match
// (Group/Groups/GroupDict/Span/Start/End/LastIndex/LastGroup/String/
// Pos/Endpos) and adds Re, per spec.md §4.5's full Python `re.Match`
// surface. rmatch.Match itself cannot hold a *Regexp — that would make
// package rmatch import package rex2, and rex2 already imports rmatch.
type Match struct {
	*rmatch.Match
	re *Regexp
}

func newMatch(re *Regexp, res *vm.Result, input string, pos, endpos int) *Match {
	return &Match{
		Match: rmatch.New(res, re.prog.NamedGroups, re.prog.GroupCount, input, pos, endpos),
		re:    re,
	}
}

// Re returns the Regexp that produced this Match.
func (m *Match) Re() *Regexp { return m.re }
