// dsp_state_types.go - Per-opcode persistent state records

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

// dspState is implemented by every state record the pool can hold.
// resetHistory drops signal memory (filter integrators, delay lines) while
// keeping configuration, and is used when the transport jumps.
type dspState interface {
	resetHistory()
}

// --- Oscillators ---

type OscState struct {
	phase       float32
	prevPhase   float32
	prevTrigger float32
	initialized bool
}

func (s *OscState) resetHistory() { *s = OscState{} }

// MinBLEPOscState carries a ring of pending step residuals.
type MinBLEPOscState struct {
	OscState
	buffer   [MINBLEP_RING]float32
	writePos int
}

func (s *MinBLEPOscState) resetHistory() {
	s.OscState.resetHistory()
	s.clearResidual()
}

func (s *MinBLEPOscState) clearResidual() {
	s.buffer = [MINBLEP_RING]float32{}
	s.writePos = 0
}

// addStep mixes a scaled residual starting at the current output position.
func (s *MinBLEPOscState) addStep(amplitude, frac float32) {
	phase := int(frac * MINBLEP_PHASES)
	if phase >= MINBLEP_PHASES {
		phase = MINBLEP_PHASES - 1
	}
	if phase < 0 {
		phase = 0
	}
	row := minblepTable[phase*MINBLEP_SAMPLES : (phase+1)*MINBLEP_SAMPLES]
	for i, r := range row {
		s.buffer[(s.writePos+i)%MINBLEP_RING] += amplitude * r
	}
}

// nextResidual pops the correction for the current sample.
func (s *MinBLEPOscState) nextResidual() float32 {
	v := s.buffer[s.writePos]
	s.buffer[s.writePos] = 0
	s.writePos = (s.writePos + 1) % MINBLEP_RING
	return v
}

type OscOversampleState struct {
	OscState
}

// --- Filters ---

type SVFState struct {
	ic1eq, ic2eq float32
	g, k         float32
	a1, a2, a3   float32
	lastFreq     float32
	lastQ        float32
}

func (s *SVFState) resetHistory() { s.ic1eq, s.ic2eq = 0, 0 }

type LadderState struct {
	stage    [4]float32
	delay    [4]float32
	g        float32
	res      float32
	lastFreq float32
	lastRes  float32
}

func (s *LadderState) resetHistory() {
	s.stage = [4]float32{}
	s.delay = [4]float32{}
}

type DiodeState struct {
	stage    [4]float32
	g        float32
	res      float32
	lastFreq float32
	lastRes  float32
}

func (s *DiodeState) resetHistory() { s.stage = [4]float32{} }

type SallenKeyState struct {
	ic1eq, ic2eq float32
	g, k         float32
	lastFreq     float32
	lastRes      float32
}

func (s *SallenKeyState) resetHistory() { s.ic1eq, s.ic2eq = 0, 0 }

type FormantState struct {
	bands     [3]SVFState
	lastVowel float32
	lastQ     float32
	gains     [3]float32
}

func (s *FormantState) resetHistory() {
	for i := range s.bands {
		s.bands[i].resetHistory()
	}
}

// --- Utility ---

type NoiseState struct {
	seed        uint32
	initialized bool
}

// resetHistory reseeds the generator on its next use.
func (s *NoiseState) resetHistory() { *s = NoiseState{} }

type SlewState struct {
	current float32
}

func (s *SlewState) resetHistory() { *s = SlewState{} }

type SAHState struct {
	held        float32
	prevTrigger float32
}

func (s *SAHState) resetHistory() { *s = SAHState{} }

// --- Envelopes ---

const (
	ENV_STAGE_IDLE = iota
	ENV_STAGE_ATTACK
	ENV_STAGE_DECAY
	ENV_STAGE_SUSTAIN
	ENV_STAGE_RELEASE
)

type EnvState struct {
	stage          int
	level          float32
	prevGate       float32
	releasePending bool
	attackCoeff    float32
	decayCoeff     float32
	releaseCoeff   float32
	lastAttack     float32
	lastDecay      float32
	lastRelease    float32
}

func (s *EnvState) resetHistory() {
	s.stage = ENV_STAGE_IDLE
	s.level = 0
	s.prevGate = 0
	s.releasePending = false
}

type FollowerState struct {
	envelope     float32
	attackCoeff  float32
	releaseCoeff float32
	lastAttack   float32
	lastRelease  float32
}

func (s *FollowerState) resetHistory() { s.envelope = 0 }

// --- Delays ---

type DelayState struct {
	buffer   ArenaBuffer
	writePos int
}

func (s *DelayState) resetHistory() {
	s.buffer = ArenaBuffer{}
	s.writePos = 0
}

// ensureBuffer allocates the line on first use. It reports false when the
// arena cannot serve the request.
func (s *DelayState) ensureBuffer(arena *AudioArena, samples int) bool {
	if s.buffer.Valid() {
		return true
	}
	s.buffer = arena.Allocate(samples)
	s.writePos = 0
	return s.buffer.Valid()
}

// --- Sequencing ---

type LFOState struct {
	prevPhase float32
	shValue   float32
}

func (s *LFOState) resetHistory() { *s = LFOState{} }

type SeqStepState struct {
	times      [SEQ_STEP_MAX_EVENTS]float32
	values     [SEQ_STEP_MAX_EVENTS]float32
	velocities [SEQ_STEP_MAX_EVENTS]float32
	count      int
	cycle      float32 // Cycle length in beats
	index      int
	lastBeat   float32
}

func (s *SeqStepState) resetHistory() {
	s.index = 0
	s.lastBeat = -1
}

type EuclidState struct {
	pattern  uint32
	hits     int
	steps    int
	rotation int
	prevStep uint32
	valid    bool
}

func (s *EuclidState) resetHistory() { *s = EuclidState{} }

type TriggerState struct {
	prevPhase float32
}

func (s *TriggerState) resetHistory() { *s = TriggerState{} }

// Timeline curve shapes
const (
	CURVE_LINEAR = 0
	CURVE_EXP    = 1
	CURVE_HOLD   = 2
)

type Breakpoint struct {
	Time  float32 // Beats
	Value float32
	Curve uint8
}

type TimelineState struct {
	points     [TIMELINE_MAX_POINTS]Breakpoint
	count      int
	loop       bool
	loopLength float32
}

func (s *TimelineState) resetHistory() {}

// PatternState drives SEQPAT opcodes from a compiled sequence tree.
type PatternState struct {
	seq          SequenceState
	prevActive   bool
	stepIndex    int
	lastStepBeat int64
	stepValue    float32
}

func (s *PatternState) resetHistory() {
	s.seq.lastCycle = -1
	s.seq.output.clear()
	s.prevActive = false
	s.stepIndex = 0
	s.lastStepBeat = -1
	for i := range s.seq.Sequences {
		s.seq.Sequences[i].Step = 0
	}
}

// --- Modulation ---

type CombState struct {
	buffer   ArenaBuffer
	writePos int
	filtered float32
}

func (s *CombState) resetHistory() { *s = CombState{} }

type FlangerState struct {
	buffer   ArenaBuffer
	writePos int
	lfoPhase float32
}

func (s *FlangerState) resetHistory() { *s = FlangerState{} }

type ChorusState struct {
	buffer   ArenaBuffer
	writePos int
	lfoPhase float32
}

func (s *ChorusState) resetHistory() { *s = ChorusState{} }

type PhaserState struct {
	xPrev    [PHASER_MAX_STAGES]float32
	yPrev    [PHASER_MAX_STAGES]float32
	lfoPhase float32
	lastOut  float32
}

func (s *PhaserState) resetHistory() { *s = PhaserState{} }

// --- Reverbs ---

// delayLine is one arena-backed circular line with a damping filter memory.
type delayLine struct {
	buffer ArenaBuffer
	pos    int
	filter float32
}

func (d *delayLine) ensure(arena *AudioArena, samples int) bool {
	if !d.buffer.Valid() {
		d.buffer = arena.Allocate(samples)
		d.pos = 0
	}
	return d.buffer.Valid()
}

type FreeverbState struct {
	combs     [8]delayLine
	allpasses [4]delayLine
	ready     bool
}

func (s *FreeverbState) resetHistory() { *s = FreeverbState{} }

type DattorroState struct {
	predelay delayLine
	inputAP  [4]delayLine
	decayAP  [2]delayLine
	tank     [2]delayLine
	damp     [2]float32
	feedback [2]float32
	lfoPhase float32
	ready    bool
}

func (s *DattorroState) resetHistory() { *s = DattorroState{} }

type FDNState struct {
	lines [4]delayLine
	ready bool
}

func (s *FDNState) resetHistory() { *s = FDNState{} }

// --- Distortion ---

type BitcrushState struct {
	phase float32
	held  float32
}

func (s *BitcrushState) resetHistory() { *s = BitcrushState{} }

type WaveshaperState struct {
	os Oversampler
}

func (s *WaveshaperState) resetHistory() { *s = WaveshaperState{} }

// --- Dynamics ---

type CompState struct {
	envelope     float32
	attackCoeff  float32
	releaseCoeff float32
	lastAttack   float32
	lastRelease  float32
	gain         float32 // Last applied gain, for metering
}

func (s *CompState) resetHistory() { s.envelope, s.gain = 0, 0 }

type LimiterState struct {
	lookahead [LIMITER_LOOKAHEAD]float32
	pos       int
	gain      float32
	ready     bool
}

func (s *LimiterState) resetHistory() { *s = LimiterState{} }

type GateState struct {
	envelope     float32
	gain         float32
	holdCounter  float32
	open         bool
	attackCoeff  float32
	releaseCoeff float32
	lastAttack   float32
	lastRelease  float32
}

func (s *GateState) resetHistory() {
	s.envelope, s.gain, s.holdCounter, s.open = 0, 0, 0, false
}

// --- Samplers ---

type SamplerVoice struct {
	sampleID  uint32
	position  float32
	speed     float32
	attack    int
	fadeCount int
	fadingOut bool
	active    bool
}

type SamplerState struct {
	voices      [SAMPLER_VOICES]SamplerVoice
	nextVoice   int
	prevTrigger float32
}

func (s *SamplerState) resetHistory() { *s = SamplerState{} }

// allocateVoice returns a free voice, stealing round-robin when all are busy.
func (s *SamplerState) allocateVoice() *SamplerVoice {
	for i := range s.voices {
		if !s.voices[i].active {
			return &s.voices[i]
		}
	}
	v := &s.voices[s.nextVoice]
	s.nextVoice = (s.nextVoice + 1) % SAMPLER_VOICES
	return v
}
