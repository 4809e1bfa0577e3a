// dsp_vm.go - Block-stepping virtual machine with hot program swap

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
	"errors"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
)

// LoadResult reports the outcome of LoadProgram.
type LoadResult int

const (
	LOAD_SUCCESS LoadResult = iota
	LOAD_SLOT_BUSY
	LOAD_INVALID_PROGRAM
	LOAD_TOO_LARGE
)

var (
	ErrSlotBusy        = errors.New("no free program slot")
	ErrInvalidProgram  = errors.New("invalid program")
	ErrProgramTooLarge = errors.New("program too large")
)

func (r LoadResult) String() string {
	switch r {
	case LOAD_SUCCESS:
		return "success"
	case LOAD_SLOT_BUSY:
		return "slot busy"
	case LOAD_INVALID_PROGRAM:
		return "invalid program"
	case LOAD_TOO_LARGE:
		return "too large"
	}
	return fmt.Sprintf("LoadResult(%d)", int(r))
}

// Err maps a result to a sentinel error, nil on success.
func (r LoadResult) Err() error {
	switch r {
	case LOAD_SUCCESS:
		return nil
	case LOAD_SLOT_BUSY:
		return ErrSlotBusy
	case LOAD_TOO_LARGE:
		return ErrProgramTooLarge
	default:
		return ErrInvalidProgram
	}
}

// VMConfig holds construction-time settings.
type VMConfig struct {
	SampleRate      float32
	BPM             float32
	CrossfadeBlocks int
	FadeBlocks      int
	ArenaMiB        int
	DefaultSlewMs   float32
	StrictStates    bool
	Samples         *SampleBank // Shared bank; nil gives the VM its own
}

// DefaultVMConfig returns the stock engine settings.
func DefaultVMConfig() VMConfig {
	return VMConfig{
		SampleRate:      DEFAULT_SAMPLE_RATE,
		BPM:             DEFAULT_BPM,
		CrossfadeBlocks: DEFAULT_XFADE_BLOCKS,
		FadeBlocks:      DEFAULT_FADE_BLOCKS,
		ArenaMiB:        DEFAULT_ARENA_MIB,
		DefaultSlewMs:   DEFAULT_SLEW_MS,
	}
}

// SeekConfig controls what a transport jump resets.
type SeekConfig struct {
	ResetHistoryDependent bool // Clear all per-state history and the arena
	PrerollBlocks         int  // Blocks rendered silently before the target
}

func DefaultSeekConfig() SeekConfig {
	return SeekConfig{ResetHistoryDependent: true}
}

type seekRequest struct {
	samples uint64
	cfg     SeekConfig
}

// VM executes one program per block. ProcessBlock belongs to the audio
// thread. LoadProgram, SetParam, RemoveParam, SetBPM and RequestSeek are
// safe from a control thread. The remaining setters must not race with
// ProcessBlock.
type VM struct {
	ctx     ExecutionContext
	buffers *BufferPool
	states  *StatePool
	arena   *AudioArena
	env     *EnvMap
	samples *SampleBank

	swap      *SwapController
	xfadeCfg  CrossfadeConfig
	xfade     CrossfadeState
	loadMu    sync.Mutex // Serialises control-thread loaders
	bpm       atomicFloat
	seekQueue atomic.Pointer[seekRequest]
	position  atomic.Uint64 // Mirror of the sample counter for other threads
	fading    atomic.Bool   // Mirror of the crossfade state for other threads

	// Crossfade scratch outputs
	oldL, oldR Block
	newL, newR Block
	discardL   Block
	discardR   Block
}

func NewVM(cfg VMConfig) *VM {
	if cfg.ArenaMiB <= 0 {
		cfg.ArenaMiB = DEFAULT_ARENA_MIB
	}
	v := &VM{
		buffers: NewBufferPool(),
		states:  NewStatePool(),
		arena:   NewAudioArenaMiB(cfg.ArenaMiB),
		env:     NewEnvMap(),
		samples: cfg.Samples,
		swap:    NewSwapController(),
	}
	if v.samples == nil {
		v.samples = NewSampleBank()
	}
	v.ctx.Buffers = v.buffers
	v.ctx.States = v.states
	v.ctx.Arena = v.arena
	v.ctx.Env = v.env
	v.ctx.Samples = v.samples

	if cfg.SampleRate <= 0 {
		cfg.SampleRate = DEFAULT_SAMPLE_RATE
	}
	v.SetSampleRate(cfg.SampleRate)
	if cfg.BPM <= 0 {
		cfg.BPM = DEFAULT_BPM
	}
	v.SetBPM(cfg.BPM)
	v.ctx.BPM = cfg.BPM
	if cfg.CrossfadeBlocks == 0 {
		cfg.CrossfadeBlocks = DEFAULT_XFADE_BLOCKS
	}
	v.SetCrossfadeBlocks(cfg.CrossfadeBlocks)
	if cfg.FadeBlocks > 0 {
		v.states.SetFadeBlocks(cfg.FadeBlocks)
	}
	if cfg.DefaultSlewMs > 0 {
		v.env.SetDefaultSlew(cfg.DefaultSlewMs)
	}
	v.states.SetStrict(cfg.StrictStates)
	return v
}

// validateProgram checks buffer indices once so the hot path never has to.
func validateProgram(prog *Program) error {
	for pc := range prog.Instructions {
		inst := &prog.Instructions[pc]
		info := inst.Opcode.Info()
		if !info.Valid {
			return fmt.Errorf("%w: pc %d unknown opcode %d", ErrInvalidProgram, pc, uint8(inst.Opcode))
		}
		if inst.Opcode != OP_NOP && inst.Opcode != OP_OUTPUT {
			if inst.Out >= BUFFER_ZERO {
				return fmt.Errorf("%w: pc %d %s writes buffer %d", ErrInvalidProgram, pc, info.Name, inst.Out)
			}
		}
		for i, in := range inst.Inputs {
			if in == BUFFER_UNUSED {
				if i < info.MinInputs {
					return fmt.Errorf("%w: pc %d %s input %d not wired", ErrInvalidProgram, pc, info.Name, i)
				}
				continue
			}
			if in >= MAX_BUFFERS {
				return fmt.Errorf("%w: pc %d %s input %d reads buffer %d", ErrInvalidProgram, pc, info.Name, i, in)
			}
		}
	}
	return nil
}

// ValidateProgram reports the first structural problem in prog.
func ValidateProgram(prog *Program) error {
	if len(prog.Instructions) > MAX_PROGRAM_SIZE {
		return fmt.Errorf("%w: %d instructions (max %d)", ErrProgramTooLarge, len(prog.Instructions), MAX_PROGRAM_SIZE)
	}
	return validateProgram(prog)
}

// LoadProgram validates prog and queues it for the next block boundary.
func (v *VM) LoadProgram(prog *Program) LoadResult {
	if len(prog.Instructions) > MAX_PROGRAM_SIZE {
		return LOAD_TOO_LARGE
	}
	if err := validateProgram(prog); err != nil {
		logWarn(LOG_VM, "program rejected", "name", prog.Name, "err", err)
		return LOAD_INVALID_PROGRAM
	}
	if _, missing := v.samples.ResolveNames(prog.SampleNames); len(missing) > 0 {
		logWarn(LOG_VM, "program references unknown samples", "name", prog.Name, "missing", missing)
	}

	v.loadMu.Lock()
	defer v.loadMu.Unlock()
	slot := v.swap.AcquireWriteSlot()
	if slot == nil {
		return LOAD_SLOT_BUSY
	}
	slot.load(prog)
	if !v.swap.SubmitReady(slot) {
		v.swap.AbortWrite(slot)
		return LOAD_SLOT_BUSY
	}
	logDebug(LOG_SWAP, "program queued", "name", prog.Name,
		"instructions", len(prog.Instructions), "states", slot.Signature().StateIDCount)
	return LOAD_SUCCESS
}

// LoadProgramImmediate resets the VM and makes prog current without a
// crossfade. It must not run concurrently with ProcessBlock.
func (v *VM) LoadProgramImmediate(prog *Program) LoadResult {
	v.Reset()
	if r := v.LoadProgram(prog); r != LOAD_SUCCESS {
		return r
	}
	if v.swap.ExecuteSwap() {
		v.bindProgram(v.swap.CurrentSlot())
		v.swap.ReleasePrevious()
	}
	return LOAD_SUCCESS
}

// bindProgram seeds sequencer state and marks the program's states live.
func (v *VM) bindProgram(slot *ProgramSlot) {
	for i := range slot.seeds {
		v.applySeed(&slot.seeds[i])
	}
	for _, id := range slot.stateIDs {
		v.states.Touch(id)
	}
}

func (v *VM) applySeed(seed *SeedRecord) {
	switch seed.Kind {
	case SEED_STEP_SEQUENCE:
		if s := seed.StepSeq; s != nil {
			v.states.InitSeqStep(seed.StateID, s.Times, s.Values, s.Velocities, s.Cycle)
		}
	case SEED_TIMELINE:
		if s := seed.Timeline; s != nil {
			v.states.InitTimeline(seed.StateID, s.Points, s.Loop, s.LoopLength)
		}
	case SEED_PATTERN:
		if s := seed.Pattern; s != nil {
			v.states.InitPattern(seed.StateID, s)
		}
	}
}

// ProcessBlock renders one block into outL and outR.
func (v *VM) ProcessBlock(outL, outR *Block) {
	*outL = Block{}
	*outR = Block{}

	v.applyControl()
	v.handleSwap()

	cur := v.swap.CurrentSlot()
	if cur.Empty() {
		v.advanceCounters()
		return
	}

	v.env.UpdateInterpolationBlock()
	v.ctx.UpdateTiming()
	v.states.BeginFrame()

	if v.xfade.IsActive() {
		v.performCrossfade(outL, outR)
	} else {
		v.executeProgram(cur, outL, outR)
	}
	v.advanceCounters()
}

func (v *VM) advanceCounters() {
	v.ctx.GlobalSampleCounter += BLOCK_SIZE
	v.ctx.BlockCounter++
	v.position.Store(v.ctx.GlobalSampleCounter)
	v.fading.Store(v.xfade.IsActive())
}

// applyControl picks up tempo and seek requests made since the last block.
func (v *VM) applyControl() {
	v.ctx.BPM = v.bpm.Load()
	if req := v.seekQueue.Swap(nil); req != nil {
		v.SeekSamples(req.samples, req.cfg)
	}
}

func (v *VM) handleSwap() {
	if v.xfade.IsCompleting() {
		v.swap.ReleasePrevious()
		v.xfade.Complete()
		v.states.GCSweep()
	}
	v.states.AdvanceFading()
	v.states.GCFading()

	if v.xfade.IsActive() {
		v.xfade.Advance()
		return
	}
	if !v.swap.HasPendingSwap() {
		return
	}

	old := v.swap.CurrentSlot()
	if !v.swap.ExecuteSwap() {
		return
	}
	next := v.swap.CurrentSlot()
	v.bindProgram(next)

	if requiresCrossfade(old, next) {
		v.xfade.Begin(v.xfadeCfg.DurationBlocks)
	} else {
		v.swap.ReleasePrevious()
	}
}

func (v *VM) executeProgram(slot *ProgramSlot, outL, outR *Block) {
	v.ctx.OutL = outL
	v.ctx.OutR = outR
	insts := slot.instructions
	for i := range insts {
		inst := &insts[i]
		if fn := opTable[inst.Opcode]; fn != nil {
			fn(&v.ctx, inst)
		}
	}
}

// performCrossfade runs both programs and mixes them with equal-power gains.
func (v *VM) performCrossfade(outL, outR *Block) {
	prev := v.swap.PreviousSlot()
	cur := v.swap.CurrentSlot()

	v.oldL, v.oldR = Block{}, Block{}
	v.newL, v.newR = Block{}, Block{}
	if prev != nil {
		v.executeProgram(prev, &v.oldL, &v.oldR)
	}
	v.executeProgram(cur, &v.newL, &v.newR)

	gOld, gNew := equalPowerGains(v.xfade.Position())
	for i := 0; i < BLOCK_SIZE; i++ {
		outL[i] = v.oldL[i]*gOld + v.newL[i]*gNew
		outR[i] = v.oldR[i]*gOld + v.newR[i]*gNew
	}
}

// Reset drops programs, state and transport position. Parameters survive.
func (v *VM) Reset() {
	v.swap.Reset()
	v.buffers.ClearAll()
	v.states.Reset()
	v.arena.Reset()
	v.xfade.Complete()
	v.ctx.GlobalSampleCounter = 0
	v.ctx.BlockCounter = 0
	v.position.Store(0)
	v.fading.Store(false)
}

// Seek jumps the transport to beat. Must not race with ProcessBlock; use
// RequestSeek from a control thread.
func (v *VM) Seek(beat float64, cfg SeekConfig) {
	if beat < 0 {
		beat = 0
	}
	v.SeekSamples(uint64(beat*float64(v.ctx.SamplesPerBeat())), cfg)
}

// SeekSamples jumps the transport to an absolute sample position.
func (v *VM) SeekSamples(target uint64, cfg SeekConfig) {
	if cfg.ResetHistoryDependent {
		v.states.ResetHistory()
		v.arena.Reset()
	}
	preroll := uint64(max(cfg.PrerollBlocks, 0)) * BLOCK_SIZE
	if preroll > target {
		preroll = target - target%BLOCK_SIZE
	}
	v.ctx.GlobalSampleCounter = target - preroll
	for v.ctx.GlobalSampleCounter < target {
		cur := v.swap.CurrentSlot()
		if cur.Empty() {
			break
		}
		v.ctx.UpdateTiming()
		v.states.BeginFrame()
		v.discardL, v.discardR = Block{}, Block{}
		v.executeProgram(cur, &v.discardL, &v.discardR)
		v.advanceCounters()
	}
	v.ctx.GlobalSampleCounter = target
	v.position.Store(target)
}

// RequestSeek queues a seek that the audio thread applies at the next block.
func (v *VM) RequestSeek(beat float64, cfg SeekConfig) {
	if beat < 0 {
		beat = 0
	}
	samples := uint64(beat * float64(60/v.bpm.Load()*v.ctx.SampleRate))
	v.seekQueue.Store(&seekRequest{samples: samples, cfg: cfg})
}

// CurrentBeatPosition returns the transport position in beats.
func (v *VM) CurrentBeatPosition() float64 {
	spb := 60 / float64(v.bpm.Load()) * float64(v.ctx.SampleRate)
	if spb <= 0 {
		return 0
	}
	return float64(v.position.Load()) / spb
}

func (v *VM) SetSampleRate(sr float32) {
	v.ctx.setSampleRate(sr)
	v.env.SetSampleRate(v.ctx.SampleRate)
}

// SetBPM takes effect at the next block.
func (v *VM) SetBPM(bpm float32) {
	if bpm <= 0 || math.IsNaN(float64(bpm)) {
		return
	}
	v.bpm.Store(bpm)
}

func (v *VM) BPM() float32 { return v.bpm.Load() }

func (v *VM) SetCrossfadeBlocks(blocks int) {
	v.xfadeCfg.SetDuration(blocks)
	v.states.SetFadeBlocks(v.xfadeCfg.DurationBlocks)
}

func (v *VM) SetParam(name string, value float32, slewMs float32) bool {
	return v.env.SetParam(name, value, slewMs)
}

func (v *VM) RemoveParam(name string) bool { return v.env.RemoveParam(name) }
func (v *VM) HasParam(name string) bool    { return v.env.HasParam(name) }

func (v *VM) IsCrossfading() bool        { return v.fading.Load() }
func (v *VM) CrossfadePosition() float32 { return v.xfade.Position() }
func (v *VM) HasProgram() bool           { return !v.swap.CurrentSlot().Empty() }
func (v *VM) SwapCount() uint64          { return v.swap.SwapCount() }
func (v *VM) SampleRate() float32        { return v.ctx.SampleRate }
func (v *VM) SampleBank() *SampleBank    { return v.samples }
func (v *VM) Env() *EnvMap               { return v.env }
func (v *VM) States() *StatePool         { return v.states }
func (v *VM) Arena() *AudioArena         { return v.arena }
func (v *VM) Buffers() *BufferPool       { return v.buffers }
func (v *VM) SampleCounter() uint64      { return v.position.Load() }
