// Package simdscan provides CPU-feature-gated byte classification used to
// pick cheap ASCII-only fast paths over full Unicode handling. The actual
// vectorized kernels a production build would dispatch to are hand-written
// assembly (as in the teacher's simd/ascii_amd64.go); without an assembler
// available this package keeps only the portable half of that dispatch: a
// pure-Go SWAR (SIMD Within A Register) scan, gated by golang.org/x/sys/cpu
// feature detection the same way the teacher gates its AVX2 path, so the
// dispatch point the real kernel would plug into already exists.
package simdscan

import (
	"encoding/binary"

	"golang.org/x/sys/cpu"
)

// hasWideWordOps reports whether the host CPU is one golang.org/x/sys/cpu
// actually profiles (x86 or arm64) and reports a baseline vector feature
// for. On those, the chunked SWAR loop below is worth its setup cost; on
// anything else (cpu.X86 and cpu.ARM64 both read their zero value), fall
// back to the byte-at-a-time scan rather than assume a 64-bit-friendly ALU.
var hasWideWordOps = cpu.X86.HasSSE2 || cpu.ARM64.HasASIMD

// IsASCII reports whether every byte in data has its high bit clear.
// Grounded on the teacher's isASCIIGeneric: 8 bytes at a time via a uint64
// AND mask, falling back to a byte loop for the tail and for inputs too
// short to amortize the chunk setup.
func IsASCII(data []byte) bool {
	if !hasWideWordOps || len(data) < 8 {
		return scanASCII(data)
	}

	const hi8 = uint64(0x8080808080808080)
	i := 0
	for i+8 <= len(data) {
		chunk := binary.LittleEndian.Uint64(data[i:])
		if chunk&hi8 != 0 {
			return false
		}
		i += 8
	}
	for ; i < len(data); i++ {
		if data[i] >= 0x80 {
			return false
		}
	}
	return true
}

func scanASCII(data []byte) bool {
	for _, b := range data {
		if b >= 0x80 {
			return false
		}
	}
	return true
}
