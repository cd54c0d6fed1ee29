package optimize

import "github.com/corvidae/rex2/parser"

// foldStrings implements spec.md §4.2 pass 2: a run of Char instructions
// sharing case-sensitivity, with no other instruction targeting its
// interior, becomes one String instruction.
func foldStrings(insts []parser.Inst) []parser.Inst {
	targeted := targetedPCs(insts)
	keep, oldToNew := identityKeep(len(insts))
	changed := false

	i := 0
	for i < len(insts) {
		if insts[i].Op != parser.OpChar {
			i++
			continue
		}
		ci := insts[i].CaseInsensitive
		runEnd := i + 1
		for runEnd < len(insts) &&
			insts[runEnd].Op == parser.OpChar &&
			insts[runEnd].CaseInsensitive == ci &&
			!targeted[runEnd] {
			runEnd++
		}
		if runEnd-i < 2 {
			i = runEnd
			continue
		}
		var buf []rune
		for k := i; k < runEnd; k++ {
			buf = append(buf, insts[k].Rune)
		}
		insts[i] = parser.Inst{Op: parser.OpString, Str: string(buf), CaseInsensitive: ci}
		for k := i + 1; k < runEnd; k++ {
			keep[k] = false
			oldToNew[k] = i
		}
		changed = true
		i = runEnd
	}

	if !changed {
		return insts
	}
	compact(keep, oldToNew)
	return remap(insts, keep, oldToNew)
}

// targetedPCs reports, for every pc, whether some Split/Jump/GreedyLoop
// targets it — a run cannot be folded past such a pc since a thread may
// need to resume execution exactly there.
func targetedPCs(insts []parser.Inst) []bool {
	targeted := make([]bool, len(insts))
	for _, inst := range insts {
		switch inst.Op {
		case parser.OpSplit:
			markTarget(targeted, inst.X)
			markTarget(targeted, inst.Y)
		case parser.OpJump:
			markTarget(targeted, inst.X)
		case parser.OpGreedyLoop:
			markTarget(targeted, inst.ExitPC)
		}
	}
	return targeted
}

func markTarget(targeted []bool, pc int) {
	if pc >= 0 && pc < len(targeted) {
		targeted[pc] = true
	}
}
