// dsp_state_pool.go - Keyed store of per-instruction state with frame GC

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
	"fmt"
	"sync"
)

type stateEntry struct {
	id       uint32
	state    dspState
	occupied bool
	touched  bool
}

type spillEntry struct {
	id    uint32
	state dspState
}

type fadingEntry struct {
	id        uint32
	state     dspState
	gain      float32
	decrement float32
	remaining int
}

// StatePool maps state ids to state records using open addressing with
// linear probing. Records are created on first request and survive program
// swaps as long as some instruction keeps touching them.
type StatePool struct {
	entries [MAX_STATES]stateEntry
	count   int

	fading      [MAX_FADING]fadingEntry
	fadingCount int
	fadeBlocks  int

	strict     bool // Panic on a type mismatch instead of replacing
	mismatches int
	overflows  int

	spill     [OVERFLOW_STATES]spillEntry // Records for ids that found no slot
	spillNext int

	mismatchOnce sync.Once
	overflowOnce sync.Once
}

func NewStatePool() *StatePool {
	return &StatePool{fadeBlocks: DEFAULT_FADE_BLOCKS}
}

// SetStrict makes a state id type mismatch panic.
func (p *StatePool) SetStrict(strict bool) { p.strict = strict }

func (p *StatePool) SetFadeBlocks(blocks int) {
	if blocks < 1 {
		blocks = 1
	}
	p.fadeBlocks = blocks
}

// find returns the slot holding id, or the first free slot on its search
// sequence, or -1 if the table is full.
func (p *StatePool) find(id uint32) (int, bool) {
	start := int(id % MAX_STATES)
	for n := 0; n < MAX_STATES; n++ {
		i := (start + n) % MAX_STATES
		e := &p.entries[i]
		if !e.occupied {
			return i, false
		}
		if e.id == id {
			return i, true
		}
	}
	return -1, false
}

// getOrCreate returns the record of type T for id, creating it on first use.
func getOrCreate[T any, PT interface {
	*T
	dspState
}](p *StatePool, id uint32) PT {
	slot, found := p.find(id)
	if found {
		e := &p.entries[slot]
		e.touched = true
		if s, ok := e.state.(PT); ok {
			return s
		}
		p.typeMismatch(id, e.state, PT(new(T)))
		fresh := PT(new(T))
		e.state = fresh
		return fresh
	}
	if slot < 0 {
		return overflowState[T, PT](p, id)
	}

	var created PT
	if s, ok := p.takeFading(id).(PT); ok {
		created = s
	} else {
		created = PT(new(T))
	}
	p.entries[slot] = stateEntry{id: id, state: created, occupied: true, touched: true}
	p.count++
	return created
}

func (p *StatePool) typeMismatch(id uint32, have, want dspState) {
	p.mismatches++
	if p.strict {
		panic(fmt.Sprintf("state id %08x holds %T, requested %T", id, have, want))
	}
	p.mismatchOnce.Do(func() {
		logWarn(LOG_STATE, "state id reused with a different type", "id", fmt.Sprintf("%08x", id),
			"have", fmt.Sprintf("%T", have), "want", fmt.Sprintf("%T", want))
	})
}

// overflowState serves ids that found no pool slot from a small fixed ring.
// An id that keeps overflowing gets the same record every block; only the
// first request for it allocates.
func overflowState[T any, PT interface {
	*T
	dspState
}](p *StatePool, id uint32) PT {
	for i := range p.spill {
		e := &p.spill[i]
		if e.state != nil && e.id == id {
			if s, ok := e.state.(PT); ok {
				return s
			}
		}
	}
	p.overflow(id)
	fresh := PT(new(T))
	p.spill[p.spillNext] = spillEntry{id: id, state: fresh}
	p.spillNext = (p.spillNext + 1) % OVERFLOW_STATES
	return fresh
}

func (p *StatePool) overflow(id uint32) {
	p.overflows++
	p.overflowOnce.Do(func() {
		logWarn(LOG_STATE, "state pool full, using transient state", "id", fmt.Sprintf("%08x", id),
			"capacity", MAX_STATES)
	})
}

// takeFading removes id from the fading pool, returning its record if any.
func (p *StatePool) takeFading(id uint32) dspState {
	for i := 0; i < p.fadingCount; i++ {
		if p.fading[i].id == id {
			s := p.fading[i].state
			p.fadingCount--
			p.fading[i] = p.fading[p.fadingCount]
			p.fading[p.fadingCount] = fadingEntry{}
			return s
		}
	}
	return nil
}

// BeginFrame clears touched flags ahead of a program pass.
func (p *StatePool) BeginFrame() {
	for i := range p.entries {
		p.entries[i].touched = false
	}
}

// Touch marks id as in use, e.g. when a new program references it.
func (p *StatePool) Touch(id uint32) {
	if slot, found := p.find(id); found {
		p.entries[slot].touched = true
	}
}

func (p *StatePool) Exists(id uint32) bool {
	_, found := p.find(id)
	return found
}

func (p *StatePool) Size() int        { return p.count }
func (p *StatePool) FadingCount() int { return p.fadingCount }
func (p *StatePool) Mismatches() int  { return p.mismatches }
func (p *StatePool) Overflows() int   { return p.overflows }

// GCSweep moves untouched states into the fading pool and compacts the table.
// When the fading pool is full the state is dropped outright.
func (p *StatePool) GCSweep() {
	var keep [MAX_STATES]stateEntry
	kept := 0
	for i := range p.entries {
		e := p.entries[i]
		if !e.occupied {
			continue
		}
		if e.touched {
			keep[kept] = e
			kept++
			continue
		}
		if p.fadingCount < MAX_FADING {
			p.fading[p.fadingCount] = fadingEntry{
				id:        e.id,
				state:     e.state,
				gain:      1,
				decrement: 1 / float32(p.fadeBlocks),
				remaining: p.fadeBlocks,
			}
			p.fadingCount++
		}
	}

	p.entries = [MAX_STATES]stateEntry{}
	p.count = 0
	for i := 0; i < kept; i++ {
		slot, _ := p.find(keep[i].id)
		p.entries[slot] = keep[i]
		p.count++
	}
}

// AdvanceFading steps every fading state one block toward silence.
func (p *StatePool) AdvanceFading() {
	for i := 0; i < p.fadingCount; i++ {
		f := &p.fading[i]
		f.gain -= f.decrement
		if f.gain < 0 {
			f.gain = 0
		}
		f.remaining--
	}
}

// GCFading drops states whose fade has finished.
func (p *StatePool) GCFading() {
	for i := 0; i < p.fadingCount; {
		if p.fading[i].remaining <= 0 {
			p.fadingCount--
			p.fading[i] = p.fading[p.fadingCount]
			p.fading[p.fadingCount] = fadingEntry{}
			continue
		}
		i++
	}
}

// FadeGain is 1 for a live state, the remaining gain for a fading one and 0 otherwise.
func (p *StatePool) FadeGain(id uint32) float32 {
	if p.Exists(id) {
		return 1
	}
	for i := 0; i < p.fadingCount; i++ {
		if p.fading[i].id == id {
			return p.fading[i].gain
		}
	}
	return 0
}

// ResetHistory clears signal memory in every record. Arena handles are
// dropped too, so this must accompany an arena reset.
func (p *StatePool) ResetHistory() {
	for i := range p.entries {
		if p.entries[i].occupied {
			p.entries[i].state.resetHistory()
		}
	}
	for i := 0; i < p.fadingCount; i++ {
		p.fading[i].state.resetHistory()
	}
	for i := range p.spill {
		if p.spill[i].state != nil {
			p.spill[i].state.resetHistory()
		}
	}
}

// Reset forgets every state.
func (p *StatePool) Reset() {
	p.entries = [MAX_STATES]stateEntry{}
	p.count = 0
	p.fading = [MAX_FADING]fadingEntry{}
	p.fadingCount = 0
	p.spill = [OVERFLOW_STATES]spillEntry{}
	p.spillNext = 0
}

// InitSeqStep seeds a step sequencer. Events beyond capacity are dropped.
func (p *StatePool) InitSeqStep(id uint32, times, values, velocities []float32, cycle float32) {
	s := getOrCreate[SeqStepState](p, id)
	n := min(len(times), len(values), SEQ_STEP_MAX_EVENTS)
	s.count = n
	for i := 0; i < n; i++ {
		s.times[i] = times[i]
		s.values[i] = values[i]
		s.velocities[i] = 1
		if i < len(velocities) {
			s.velocities[i] = velocities[i]
		}
	}
	if cycle <= 0 {
		cycle = BEATS_PER_BAR
	}
	s.cycle = cycle
	s.resetHistory()
}

// InitTimeline seeds a breakpoint automation lane.
func (p *StatePool) InitTimeline(id uint32, points []Breakpoint, loop bool, loopLength float32) {
	s := getOrCreate[TimelineState](p, id)
	s.count = copy(s.points[:], points)
	s.loop = loop
	s.loopLength = loopLength
}

// InitPattern seeds a sequence pattern. A zero seed derives one from the id.
func (p *StatePool) InitPattern(id uint32, seq *SequenceState) {
	s := getOrCreate[PatternState](p, id)
	s.seq = *seq
	if s.seq.Seed == 0 {
		s.seq.Seed = splitmix64(uint64(id))
	}
	s.resetHistory()
}
