// Package optimize implements the peephole bytecode optimizer described in
// spec.md §4.2: greedy-loop collapse, string folding, and jump threading.
// Each pass preserves program semantics; the two passes that remove
// instructions renumber PCs via an old→new mapping applied to every
// jump-bearing instruction, mirroring the teacher's pattern-analysis
// rewrite passes in nfa/compile.go.
package optimize

import "github.com/corvidae/rex2/parser"

// maxJumpThreadHops bounds jump-chain following so malformed/cyclic
// bytecode cannot hang the optimizer (spec.md §4.2 "pass limit ~100").
const maxJumpThreadHops = 100

// Optimize runs all three peephole passes over prog and returns a new
// Program. prog itself is left untouched (it may still be referenced
// elsewhere, e.g. for diagnostics).
func Optimize(prog *parser.Program) *parser.Program {
	// The passes rewrite their input slice in place, so work on a copy.
	insts := collapseGreedyLoops(append([]parser.Inst(nil), prog.Insts...))
	insts = foldStrings(insts)
	insts = threadJumps(insts)
	return &parser.Program{
		Insts:              insts,
		NamedGroups:        prog.NamedGroups,
		GroupCount:         prog.GroupCount,
		HasCaseInsensitive: prog.HasCaseInsensitive,
		Source:             prog.Source,
	}
}

// remap produces a new instruction slice from insts, keeping only the
// entries where keep[i] is true (in order), and patches every
// jump-bearing field (Split.X/Y, Jump.X, GreedyLoop.ExitPC) through
// oldToNew. Entries with keep[i] false must still have a valid oldToNew[i]
// (pointing wherever control now lands if something targeted them). A
// target outside the program (e.g. the parser's never-reached Jump(-1)
// placeholder) is left as it is.
func remap(insts []parser.Inst, keep []bool, oldToNew []int) []parser.Inst {
	mapPC := func(pc int) int {
		if pc < 0 || pc >= len(oldToNew) {
			return pc
		}
		return oldToNew[pc]
	}
	out := make([]parser.Inst, 0, len(insts))
	for i, inst := range insts {
		if !keep[i] {
			continue
		}
		switch inst.Op {
		case parser.OpSplit:
			inst.X = mapPC(inst.X)
			inst.Y = mapPC(inst.Y)
		case parser.OpJump:
			inst.X = mapPC(inst.X)
		case parser.OpGreedyLoop:
			inst.ExitPC = mapPC(inst.ExitPC)
		}
		out = append(out, inst)
	}
	return out
}

// identityKeep returns an all-true keep slice and the identity oldToNew
// map, the base case callers start from before marking removals.
func identityKeep(n int) (keep []bool, oldToNew []int) {
	keep = make([]bool, n)
	oldToNew = make([]int, n)
	for i := range keep {
		keep[i] = true
	}
	for i := range oldToNew {
		oldToNew[i] = i
	}
	return keep, oldToNew
}

// compact assigns final post-removal PCs to oldToNew given keep, so that
// oldToNew[i] is the new index of the (kept) instruction that now stands
// in for old index i. For an index where keep[i] is false, oldToNew[i]
// must already have been set by the caller to the old index of the kept
// instruction that now represents that removed instruction (e.g. the
// collapsed GreedyLoop's old PC), BEFORE calling compact.
func compact(keep []bool, oldToNew []int) {
	next := 0
	newIndexOf := make([]int, len(keep))
	for i, k := range keep {
		if k {
			newIndexOf[i] = next
			next++
		}
	}
	for i, k := range keep {
		if k {
			oldToNew[i] = newIndexOf[i]
		} else {
			oldToNew[i] = newIndexOf[oldToNew[i]]
		}
	}
}
