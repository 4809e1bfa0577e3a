// dsp_program_slot.go - Program containers and the triple-buffered swap controller

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

import (
	"sync/atomic"
)

// Seed kinds
const (
	SEED_STEP_SEQUENCE = 1
	SEED_TIMELINE      = 2
	SEED_PATTERN       = 3
)

// StepSequenceSeed holds the events of a SEQ_STEP instruction.
type StepSequenceSeed struct {
	Times      []float32 `cbor:"1,keyasint"`
	Values     []float32 `cbor:"2,keyasint"`
	Velocities []float32 `cbor:"3,keyasint,omitempty"`
	Cycle      float32   `cbor:"4,keyasint"`
}

// TimelineSeed holds the breakpoints of a TIMELINE instruction.
type TimelineSeed struct {
	Points     []Breakpoint `cbor:"1,keyasint"`
	Loop       bool         `cbor:"2,keyasint"`
	LoopLength float32      `cbor:"3,keyasint"`
}

// SeedRecord initialises sequencer state before the program first runs.
type SeedRecord struct {
	StateID  uint32            `cbor:"1,keyasint"`
	Kind     int               `cbor:"2,keyasint"`
	StepSeq  *StepSequenceSeed `cbor:"3,keyasint,omitempty"`
	Timeline *TimelineSeed     `cbor:"4,keyasint,omitempty"`
	Pattern  *SequenceState    `cbor:"5,keyasint,omitempty"`
}

// Program is a complete unit handed to the VM.
type Program struct {
	Name         string        `cbor:"1,keyasint,omitempty"`
	Instructions []Instruction `cbor:"2,keyasint"`
	Seeds        []SeedRecord  `cbor:"3,keyasint,omitempty"`
	SampleNames  []string      `cbor:"4,keyasint,omitempty"`
	Params       []ParamSeed   `cbor:"5,keyasint,omitempty"` // Applied by the host on load
	BPM          float32       `cbor:"6,keyasint,omitempty"` // Zero keeps the current tempo
}

// ParamSeed is an initial live parameter value.
type ParamSeed struct {
	Name  string  `cbor:"1,keyasint"`
	Value float32 `cbor:"2,keyasint"`
}

// ProgramSignature summarises a program's state layout. Two programs with
// equal signatures can be swapped without a crossfade.
type ProgramSignature struct {
	DAGHash          uint32
	InstructionCount int
	StateIDCount     int
}

// Slot lifecycle
const (
	SLOT_EMPTY int32 = iota
	SLOT_LOADING
	SLOT_READY
	SLOT_ACTIVE
	SLOT_FADING
)

// ProgramSlot owns one loaded program.
type ProgramSlot struct {
	state      atomic.Int32
	generation atomic.Uint64

	instructions []Instruction
	seeds        []SeedRecord
	stateIDs     []uint32 // Unique state ids referenced, capped at MAX_STATES
	signature    ProgramSignature
}

func (s *ProgramSlot) State() int32 { return s.state.Load() }

func (s *ProgramSlot) Generation() uint64 { return s.generation.Load() }

func (s *ProgramSlot) Instructions() []Instruction { return s.instructions }

func (s *ProgramSlot) Signature() ProgramSignature { return s.signature }

func (s *ProgramSlot) Empty() bool { return len(s.instructions) == 0 }

// load copies prog into the slot, reusing storage from earlier loads.
func (s *ProgramSlot) load(prog *Program) {
	s.instructions = append(s.instructions[:0], prog.Instructions...)
	s.seeds = append(s.seeds[:0], prog.Seeds...)
	s.stateIDs = s.stateIDs[:0]

	seen := make(map[uint32]struct{}, len(prog.Instructions))
	hash := uint32(2166136261)
	for i := range s.instructions {
		inst := &s.instructions[i]
		if inst.StateID == 0 || !inst.Opcode.Info().Stateful {
			continue
		}
		if _, dup := seen[inst.StateID]; dup || len(seen) >= MAX_STATES {
			continue
		}
		seen[inst.StateID] = struct{}{}
		s.stateIDs = append(s.stateIDs, inst.StateID)
		hash ^= inst.StateID
		hash *= 16777619
	}
	s.signature = ProgramSignature{
		DAGHash:          hash,
		InstructionCount: len(s.instructions),
		StateIDCount:     len(s.stateIDs),
	}
	s.generation.Add(1)
}

func (s *ProgramSlot) clear() {
	s.instructions = s.instructions[:0]
	s.seeds = s.seeds[:0]
	s.stateIDs = s.stateIDs[:0]
	s.signature = ProgramSignature{}
	s.state.Store(SLOT_EMPTY)
}

// SwapController rotates three program slots between the control thread
// (which fills one) and the audio thread (which runs one and may fade
// out another).
type SwapController struct {
	slots     [SWAP_SLOT_COUNT]ProgramSlot
	current   atomic.Int32
	previous  atomic.Int32
	pending   atomic.Int32 // Ready slot index, -1 when none
	swapCount atomic.Uint64
}

func NewSwapController() *SwapController {
	sc := &SwapController{}
	sc.Reset()
	return sc
}

// Reset returns every slot to empty with slot 0 active.
func (sc *SwapController) Reset() {
	for i := range sc.slots {
		sc.slots[i].clear()
	}
	sc.slots[0].state.Store(SLOT_ACTIVE)
	sc.current.Store(0)
	sc.previous.Store(1)
	sc.pending.Store(-1)
	sc.swapCount.Store(0)
}

// AcquireWriteSlot claims an empty slot for loading, or returns nil.
func (sc *SwapController) AcquireWriteSlot() *ProgramSlot {
	for i := range sc.slots {
		if sc.slots[i].state.CompareAndSwap(SLOT_EMPTY, SLOT_LOADING) {
			return &sc.slots[i]
		}
	}
	return nil
}

// AbortWrite returns a claimed slot to empty.
func (sc *SwapController) AbortWrite(slot *ProgramSlot) {
	slot.clear()
}

// SubmitReady publishes a loaded slot as the next program. An earlier
// pending program that never ran is discarded.
func (sc *SwapController) SubmitReady(slot *ProgramSlot) bool {
	if !slot.state.CompareAndSwap(SLOT_LOADING, SLOT_READY) {
		return false
	}
	idx := sc.indexOf(slot)
	if old := sc.pending.Swap(int32(idx)); old >= 0 && int(old) != idx {
		sc.slots[old].clear()
	}
	return true
}

func (sc *SwapController) indexOf(slot *ProgramSlot) int {
	for i := range sc.slots {
		if &sc.slots[i] == slot {
			return i
		}
	}
	return -1
}

func (sc *SwapController) HasPendingSwap() bool {
	return sc.pending.Load() >= 0
}

// ExecuteSwap makes the pending slot current. The old current slot is left
// fading until ReleasePrevious. Runs on the audio thread.
func (sc *SwapController) ExecuteSwap() bool {
	next := sc.pending.Swap(-1)
	if next < 0 {
		return false
	}
	if !sc.slots[next].state.CompareAndSwap(SLOT_READY, SLOT_ACTIVE) {
		return false
	}
	// A program still fading from an earlier swap is dropped.
	if prev := sc.previous.Load(); sc.slots[prev].state.Load() == SLOT_FADING {
		sc.slots[prev].clear()
	}
	cur := sc.current.Load()
	sc.slots[cur].state.Store(SLOT_FADING)
	sc.previous.Store(cur)
	sc.current.Store(next)
	sc.swapCount.Add(1)
	return true
}

func (sc *SwapController) CurrentSlot() *ProgramSlot {
	return &sc.slots[sc.current.Load()]
}

// PreviousSlot returns the fading slot, or nil.
func (sc *SwapController) PreviousSlot() *ProgramSlot {
	s := &sc.slots[sc.previous.Load()]
	if s.state.Load() != SLOT_FADING {
		return nil
	}
	return s
}

func (sc *SwapController) ReleasePrevious() {
	if s := sc.PreviousSlot(); s != nil {
		s.clear()
	}
}

func (sc *SwapController) SwapCount() uint64 {
	return sc.swapCount.Load()
}
