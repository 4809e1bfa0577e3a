// seq_pattern.go - Sequence pattern model and deterministic query

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

// A pattern is a small tree of sequences. Sequence 0 is the root; SUB_SEQ
// events descend into other sequences of the same state, rescaled into the
// parent event's span. Everything is fixed-size so queries never allocate.

type EventType uint8

const (
	EVENT_DATA EventType = iota
	EVENT_SUB_SEQ
)

type SequenceMode uint8

const (
	SEQ_MODE_NORMAL    SequenceMode = iota // Every event
	SEQ_MODE_ALTERNATE                     // One event per query, advancing Step
	SEQ_MODE_RANDOM                        // One event per query, hashed from seed and time
)

type Event struct {
	Type      EventType              `cbor:"1,keyasint"`
	Time      float32                `cbor:"2,keyasint"` // Within the sequence's Duration
	Duration  float32                `cbor:"3,keyasint"`
	Degrade   float32                `cbor:"4,keyasint"` // Drop probability; 0 always plays
	Values    [SEQ_MAX_VALUES]float32 `cbor:"5,keyasint"`
	NumValues uint8                  `cbor:"6,keyasint"`
	SeqID     uint16                 `cbor:"7,keyasint"`
}

// DataEvent builds a DATA event that always plays. Values past
// SEQ_MAX_VALUES are dropped.
func DataEvent(time, duration float32, values ...float32) Event {
	e := Event{Type: EVENT_DATA, Time: time, Duration: duration}
	e.NumValues = uint8(copy(e.Values[:], values))
	return e
}

// SubSeqEvent builds an event that plays sequence id over its span.
func SubSeqEvent(time, duration float32, id uint16) Event {
	return Event{Type: EVENT_SUB_SEQ, Time: time, Duration: duration, SeqID: id}
}

type Sequence struct {
	Events    [SEQ_MAX_EVENTS]Event `cbor:"1,keyasint"`
	NumEvents int                   `cbor:"2,keyasint"`
	Duration  float32               `cbor:"3,keyasint"` // Beats; 4 when unset
	Mode      SequenceMode          `cbor:"4,keyasint"`
	Step      uint32                `cbor:"5,keyasint"`
}

// AddEvent appends e, reporting false when the sequence is full.
func (s *Sequence) AddEvent(e Event) bool {
	if s.NumEvents >= SEQ_MAX_EVENTS {
		return false
	}
	s.Events[s.NumEvents] = e
	s.NumEvents++
	return true
}

func (s *Sequence) duration() float32 {
	if s.Duration <= 0 {
		return 4
	}
	return s.Duration
}

type OutputEvent struct {
	Time      float32
	Duration  float32
	Values    [SEQ_MAX_VALUES]float32
	NumValues uint8
}

// Value returns voice v, falling back to the first value.
func (e *OutputEvent) Value(v int) float32 {
	if v < int(e.NumValues) {
		return e.Values[v]
	}
	if e.NumValues > 0 {
		return e.Values[0]
	}
	return 0
}

type OutputEvents struct {
	Events [SEQ_MAX_OUTPUT]OutputEvent
	Count  int
}

func (o *OutputEvents) add(time, duration float32, values *[SEQ_MAX_VALUES]float32, n uint8) {
	if o.Count >= SEQ_MAX_OUTPUT {
		return
	}
	e := &o.Events[o.Count]
	o.Count++
	e.Time = time
	e.Duration = duration
	e.Values = *values
	e.NumValues = min(n, SEQ_MAX_VALUES)
}

func (o *OutputEvents) clear() { o.Count = 0 }

// sortByTime is an insertion sort; Count is at most SEQ_MAX_OUTPUT.
func (o *OutputEvents) sortByTime() {
	for i := 1; i < o.Count; i++ {
		key := o.Events[i]
		j := i - 1
		for j >= 0 && o.Events[j].Time > key.Time {
			o.Events[j+1] = o.Events[j]
			j--
		}
		o.Events[j+1] = key
	}
}

type SequenceState struct {
	Sequences    [SEQ_MAX_SEQUENCES]Sequence `cbor:"1,keyasint"`
	NumSequences int                         `cbor:"2,keyasint"`
	CycleLength  float32                     `cbor:"3,keyasint"` // Beats; 4 when unset
	Seed         uint64                      `cbor:"4,keyasint"`

	output    OutputEvents
	lastCycle int64
}

// NewSequenceState returns an empty pattern that has not been queried.
func NewSequenceState(cycleLength float32, seed uint64) *SequenceState {
	return &SequenceState{CycleLength: cycleLength, Seed: seed, lastCycle: -1}
}

// AddSequence appends seq and returns its id. A full state keeps its
// sequences and returns the root id with ok false.
func (s *SequenceState) AddSequence(seq Sequence) (uint16, bool) {
	if s.NumSequences >= SEQ_MAX_SEQUENCES {
		return 0, false
	}
	s.Sequences[s.NumSequences] = seq
	s.NumSequences++
	return uint16(s.NumSequences - 1), true
}

func (s *SequenceState) cycleLength() float32 {
	if s.CycleLength <= 0 {
		return 4
	}
	return s.CycleLength
}

// Output is the result of the most recent query, sorted by time.
func (s *SequenceState) Output() *OutputEvents { return &s.output }

// Invalidate forces the next QueryPattern to re-run.
func (s *SequenceState) Invalidate() { s.lastCycle = -1 }

// hashTime is the deterministic draw in [0, 1) for a seed at a time in beats.
func hashTime(seed uint64, time float32) float32 {
	q := uint64(int64(time * TIME_QUANTUM_PER_BEAT))
	return hashToUnit(splitmix64(seed ^ q))
}

// QuerySequence appends the events of sequence seqIdx laid over
// [cycleStart, cycleStart+cycleDuration) to out, using the state's seed.
func QuerySequence(state *SequenceState, seqIdx uint16, cycleStart, cycleDuration float32, out *OutputEvents) {
	querySequence(state, seqIdx, state.Seed, cycleStart, cycleDuration, out, 0)
}

// querySequence lays sequence seqIdx over span beats starting at offset.
// ALTERNATE and RANDOM pick one event, which fills the whole span.
func querySequence(state *SequenceState, seqIdx uint16, seed uint64, offset, span float32, out *OutputEvents, depth int) {
	if int(seqIdx) >= state.NumSequences || depth >= SEQ_MAX_DEPTH {
		return
	}
	seq := &state.Sequences[seqIdx]
	n := seq.NumEvents
	if n <= 0 {
		return
	}

	switch seq.Mode {
	case SEQ_MODE_ALTERNATE:
		idx := seq.Step % uint32(n)
		seq.Step++
		processEvent(state, &seq.Events[idx], seed, offset, span, out, depth)
	case SEQ_MODE_RANDOM:
		pick := int(hashTime(seed, offset)*float32(n)) % n
		processEvent(state, &seq.Events[pick], seed^uint64(pick+1), offset, span, out, depth)
	default:
		k := span / seq.duration()
		for i := 0; i < n; i++ {
			e := &seq.Events[i]
			processEvent(state, e, seed^uint64(i), offset+e.Time*k, e.Duration*k, out, depth)
		}
	}
}

func processEvent(state *SequenceState, e *Event, seed uint64, at, length float32, out *OutputEvents, depth int) {
	if e.Degrade > 0 && hashTime(seed, at) < e.Degrade {
		return
	}
	if e.Type == EVENT_DATA {
		out.add(at, length, &e.Values, e.NumValues)
		return
	}
	querySequence(state, e.SeqID, seed^uint64(e.SeqID), at, length, out, depth+1)
}

// QueryPattern fills the state's output for one cycle. It re-queries only
// when cycle differs from the last one queried and reports whether it did.
func QueryPattern(state *SequenceState, cycle int64) bool {
	if cycle == state.lastCycle {
		return false
	}
	state.lastCycle = cycle
	state.output.clear()
	querySequence(state, 0, state.Seed+uint64(cycle), 0, state.cycleLength(), &state.output, 0)
	state.output.sortByTime()
	return true
}
