// dsp_arena.go - Bump allocator backing delay lines and reverb networks

/*
 ██▓ ███▄    █ ▄▄▄█████▓ █    ██  ██▓▄▄▄█████▓ ██▓ ▒█████   ███▄    █    ▓█████  ███▄    █   ▄████  ██▓ ███▄    █ ▓█████
▓██▒ ██ ▀█   █ ▓  ██▒ ▓▒ ██  ▓██▒▓██▒▓  ██▒ ▓▒▓██▒▒██▒  ██▒ ██ ▀█   █    ▓█   ▀  ██ ▀█   █  ██▒ ▀█▒▓██▒ ██ ▀█   █ ▓█   ▀
▒██▒▓██  ▀█ ██▒▒ ▓██░ ▒░▓██  ▒██░▒██▒▒ ▓██░ ▒░▒██▒▒██░  ██▒▓██  ▀█ ██▒   ▒███   ▓██  ▀█ ██▒▒██░▄▄▄░▒██▒▓██  ▀█ ██▒▒███
░██░▓██▒  ▐▌██▒░ ▓██▓ ░ ▓▓█  ░██░░██░░ ▓██▓ ░ ░██░▒██   ██░▓██▒  ▐▌██▒   ▒▓█  ▄ ▓██▒  ▐▌██▒░▓█  ██▓░██░▓██▒  ▐▌██▒▒▓█  ▄
░██░▒██░   ▓██░  ▒██▒ ░ ▒▒█████▓ ░██░  ▒██▒ ░ ░██░░ ████▓▒░▒██░   ▓██░   ░▒████▒▒██░   ▓██░░▒▓███▀▒░██░▒██░   ▓██░░▒████▒
░▓  ░ ▒░   ▒ ▒   ▒ ░░   ░▒▓▒ ▒ ▒ ░▓    ▒ ░░   ░▓  ░ ▒░▒░▒░ ░ ▒░   ▒ ▒    ░░ ▒░ ░░ ▒░   ▒ ▒  ░▒   ▒ ░▓  ░ ▒░   ▒ ▒ ░░ ▒░ ░
 ▒ ░░ ░░   ░ ▒░    ░    ░░▒░ ░ ░  ▒ ░    ░     ▒ ░  ░ ▒ ▒░ ░ ░░   ░ ▒░    ░ ░  ░░ ░░   ░ ▒░  ░   ░  ▒ ░░ ░░   ░ ▒░ ░ ░  ░
 ▒ ░   ░   ░ ░   ░       ░░░ ░ ░  ▒ ░  ░       ▒ ░░ ░ ░ ▒     ░   ░ ░       ░      ░   ░ ░ ░ ░   ░  ▒ ░   ░   ░ ░    ░
 ░           ░             ░      ░            ░      ░ ░           ░       ░  ░         ░       ░  ░           ░    ░  ░

(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionEngine
License: GPLv3 or later
*/

package main

// ArenaBuffer is an offset/length handle into the arena. The zero value
// means "no storage", which callers treat as the effect being unavailable.
type ArenaBuffer struct {
	Offset int
	Len    int
}

// Valid reports whether the handle refers to storage.
func (b ArenaBuffer) Valid() bool {
	return b.Len > 0
}

// AudioArena hands out zeroed regions of one backing slice. Allocation only
// happens from the block-processing path, so no locking is done.
type AudioArena struct {
	memory      []float32
	offset      int
	allocations int // Total successful allocations, for warm-up accounting
}

// NewAudioArena creates an arena holding the given number of samples.
func NewAudioArena(samples int) *AudioArena {
	if samples < ARENA_ALIGN_FLOATS {
		samples = ARENA_ALIGN_FLOATS
	}
	samples = alignFloats(samples)
	return &AudioArena{memory: make([]float32, samples)}
}

// NewAudioArenaMiB sizes the arena in mebibytes of float32 storage.
func NewAudioArenaMiB(mib int) *AudioArena {
	return NewAudioArena(mib * 1024 * 1024 / 4)
}

func alignFloats(n int) int {
	return (n + ARENA_ALIGN_FLOATS - 1) &^ (ARENA_ALIGN_FLOATS - 1)
}

// Allocate reserves n zeroed samples. Exhaustion returns the zero handle.
func (a *AudioArena) Allocate(n int) ArenaBuffer {
	if n <= 0 {
		return ArenaBuffer{}
	}
	size := alignFloats(n)
	if a.offset+size > len(a.memory) {
		return ArenaBuffer{}
	}
	buf := ArenaBuffer{Offset: a.offset, Len: n}
	a.offset += size
	a.allocations++
	return buf
}

// Slice resolves a handle. Handles from before the last Reset must not be used.
func (a *AudioArena) Slice(b ArenaBuffer) []float32 {
	if !b.Valid() || b.Offset+b.Len > len(a.memory) {
		return nil
	}
	return a.memory[b.Offset : b.Offset+b.Len : b.Offset+b.Len]
}

// Reset rewinds the arena and re-zeroes the region that was handed out.
func (a *AudioArena) Reset() {
	clear(a.memory[:a.offset])
	a.offset = 0
	a.allocations = 0
}

func (a *AudioArena) Used() int        { return a.offset }
func (a *AudioArena) Capacity() int    { return len(a.memory) }
func (a *AudioArena) Available() int   { return len(a.memory) - a.offset }
func (a *AudioArena) Allocations() int { return a.allocations }
