// dsp_context.go - Per-block execution environment and transport timing

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

// ExecutionContext is what every opcode sees while a block runs.
type ExecutionContext struct {
	SampleRate    float32
	InvSampleRate float32
	BPM           float32

	GlobalSampleCounter uint64 // Samples since start or last seek
	BlockCounter        uint64

	BeatPhase float32 // Position within the current beat at block start
	BarPhase  float32 // Position within the current bar at block start

	Buffers *BufferPool
	States  *StatePool
	Arena   *AudioArena
	Env     *EnvMap
	Samples *SampleBank

	OutL *Block
	OutR *Block
}

func (ctx *ExecutionContext) setSampleRate(sr float32) {
	if sr <= 0 {
		sr = DEFAULT_SAMPLE_RATE
	}
	ctx.SampleRate = sr
	ctx.InvSampleRate = 1 / sr
}

// SamplesPerBeat at the current tempo.
func (ctx *ExecutionContext) SamplesPerBeat() float32 {
	bpm := ctx.BPM
	if bpm <= 0 {
		bpm = DEFAULT_BPM
	}
	return 60 / bpm * ctx.SampleRate
}

func (ctx *ExecutionContext) SamplesPerBar() float32 {
	return ctx.SamplesPerBeat() * BEATS_PER_BAR
}

// SamplesPerCycle is the pattern cycle length; one cycle is one bar.
func (ctx *ExecutionContext) SamplesPerCycle() float32 {
	return ctx.SamplesPerBar()
}

// BeatAtSample returns the absolute beat position of sample i of the block.
func (ctx *ExecutionContext) BeatAtSample(i int) float64 {
	return float64(ctx.GlobalSampleCounter+uint64(i)) / float64(ctx.SamplesPerBeat())
}

// UpdateTiming derives the beat and bar phase of the block's first sample.
// The modulo runs on the integer counter so long sessions keep precision.
func (ctx *ExecutionContext) UpdateTiming() {
	spb := uint64(ctx.SamplesPerBeat())
	if spb == 0 {
		spb = 1
	}
	spbar := spb * BEATS_PER_BAR
	ctx.BeatPhase = float32(ctx.GlobalSampleCounter%spb) / float32(spb)
	ctx.BarPhase = float32(ctx.GlobalSampleCounter%spbar) / float32(spbar)
}

// input returns buffer id, substituting silence for an unwired input.
func (ctx *ExecutionContext) input(id uint16) *Block {
	if id == BUFFER_UNUSED {
		return ctx.Buffers.Zero()
	}
	return ctx.Buffers.Get(id)
}

// output returns the instruction's output buffer.
func (ctx *ExecutionContext) output(inst *Instruction) *Block {
	return ctx.Buffers.Get(inst.Out)
}

// sideOutput returns a secondary output carried in an input slot, or nil
// when it is unwired or names the silence buffer.
func (ctx *ExecutionContext) sideOutput(id uint16) *Block {
	if id == BUFFER_UNUSED || id == BUFFER_ZERO {
		return nil
	}
	return ctx.Buffers.Get(id)
}
