package optimize

import (
	"github.com/corvidae/rex2/charset"
	"github.com/corvidae/rex2/parser"
)

// collapseGreedyLoops implements spec.md §4.2 pass 1: a Split(body, exit)
// immediately followed by a single-instruction body and a loop-back Jump
// to the split, where body is disjoint from whatever follows exit,
// becomes one GreedyLoop instruction.
func collapseGreedyLoops(insts []parser.Inst) []parser.Inst {
	keep, oldToNew := identityKeep(len(insts))
	changed := false

	for splitPC := 0; splitPC < len(insts); splitPC++ {
		inst := insts[splitPC]
		if inst.Op != parser.OpSplit {
			continue
		}
		bodyPC := inst.X // the preferred (greedy) branch
		exitPC := inst.Y
		loopbackPC := bodyPC + 1
		if bodyPC != splitPC+1 || loopbackPC >= len(insts) {
			continue
		}
		body := insts[bodyPC]
		if body.Op != parser.OpChar && body.Op != parser.OpSet {
			continue
		}
		loopback := insts[loopbackPC]
		if loopback.Op != parser.OpJump || loopback.X != splitPC {
			continue
		}
		cont, ok := firstConsumingOrTerminal(insts, exitPC)
		if !ok || !disjoint(body, cont) {
			continue
		}

		insts[splitPC] = parser.Inst{
			Op:              parser.OpGreedyLoop,
			Set:             setForBody(body),
			Negated:         body.Op == parser.OpSet && body.Negated,
			CaseInsensitive: body.CaseInsensitive,
			ExitPC:          exitPC,
		}
		keep[bodyPC] = false
		keep[loopbackPC] = false
		oldToNew[bodyPC] = splitPC
		oldToNew[loopbackPC] = splitPC
		changed = true
	}

	if !changed {
		return insts
	}
	compact(keep, oldToNew)
	return remap(insts, keep, oldToNew)
}

// setForBody normalizes a Char or Set body instruction into the charset
// GreedyLoop strips against.
func setForBody(body parser.Inst) *charset.Set {
	if body.Op == parser.OpSet {
		return body.Set
	}
	b := charset.NewBuilder()
	b.AddChar(body.Rune)
	return b.Build()
}

// firstConsumingOrTerminal resolves pc through zero-width Save/Jump links
// to the instruction that will actually test input (or Match), bounded to
// guard against cycles in malformed bytecode.
func firstConsumingOrTerminal(insts []parser.Inst, pc int) (parser.Inst, bool) {
	seen := make(map[int]bool)
	for steps := 0; steps < maxJumpThreadHops; steps++ {
		if pc < 0 || pc >= len(insts) {
			return parser.Inst{}, false
		}
		if seen[pc] {
			return parser.Inst{}, false
		}
		seen[pc] = true
		inst := insts[pc]
		switch inst.Op {
		case parser.OpSave:
			pc = pc + 1
			continue
		case parser.OpJump:
			pc = inst.X
			continue
		default:
			return inst, true
		}
	}
	return parser.Inst{}, false
}

// disjoint implements the three cases spec.md §4.2 defines: continuation
// is Match, an end anchor, or a Char whose value the body cannot match.
func disjoint(body, cont parser.Inst) bool {
	switch cont.Op {
	case parser.OpMatch, parser.OpAnchorEnd, parser.OpAnchorLineEnd:
		return true
	case parser.OpChar:
		return !bodyContains(body, cont.Rune)
	default:
		return false
	}
}

func bodyContains(body parser.Inst, ch rune) bool {
	probe := ch
	if body.CaseInsensitive {
		probe = foldToLower(ch)
	}
	if body.Op == parser.OpChar {
		return body.Rune == probe
	}
	member := body.Set.Contains(probe)
	if body.Negated {
		member = !member
	}
	return member
}

func foldToLower(ch rune) rune {
	if ch >= 'A' && ch <= 'Z' {
		return ch + ('a' - 'A')
	}
	return ch
}
