package optimize

import "github.com/corvidae/rex2/parser"

// threadJumps implements spec.md §4.2 pass 3: Jump→Jump chains are
// collapsed transitively, bounded by maxJumpThreadHops against cycles in
// malformed bytecode. No instruction is removed by this pass, so no PC
// renumbering is needed — only the X/Y/ExitPC fields that land on a pure
// Jump are rewritten to its final destination.
func threadJumps(insts []parser.Inst) []parser.Inst {
	for i, inst := range insts {
		switch inst.Op {
		case parser.OpJump:
			insts[i].X = resolveJumpChain(insts, inst.X)
		case parser.OpSplit:
			insts[i].X = resolveJumpChain(insts, inst.X)
			insts[i].Y = resolveJumpChain(insts, inst.Y)
		case parser.OpGreedyLoop:
			insts[i].ExitPC = resolveJumpChain(insts, inst.ExitPC)
		}
	}
	return insts
}

// resolveJumpChain follows a chain of pure Jump instructions starting at
// pc and returns the final non-Jump destination, or pc itself if a cycle
// or the hop limit is hit.
func resolveJumpChain(insts []parser.Inst, pc int) int {
	seen := make(map[int]bool)
	cur := pc
	for hops := 0; hops < maxJumpThreadHops; hops++ {
		if cur < 0 || cur >= len(insts) {
			return cur
		}
		if insts[cur].Op != parser.OpJump {
			return cur
		}
		if seen[cur] {
			return pc
		}
		seen[cur] = true
		cur = insts[cur].X
	}
	return pc
}
