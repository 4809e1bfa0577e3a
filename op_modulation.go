// op_modulation.go - Comb, flanger, chorus and phaser opcodes

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

// Flanger, chorus and phaser output the wet signal only. Unwired or
// non-positive range inputs fall back to the defaults below.
const (
	FLANGER_MIN_DELAY_MS = 0.1
	FLANGER_MAX_DELAY_MS = 10.0
	CHORUS_BASE_MS       = 20.0
	CHORUS_RANGE_MS      = 10.0
	CHORUS_VOICES        = 3
	PHASER_MIN_HZ        = 200.0
	PHASER_MAX_HZ        = 4000.0
)

var chorusPhaseOffsets = [CHORUS_VOICES]float32{0, 0.33, 0.67}

func orDefault(v, def float32) float32 {
	if v > 0 {
		return v
	}
	return def
}

// opEffectComb: in0 signal, in1 delay ms (0.1..100), in2 feedback (±0.99).
// Rate is the damping of the feedback lowpass.
func opEffectComb(ctx *ExecutionContext, inst *Instruction) {
	out := ctx.output(inst)
	in := ctx.input(inst.Inputs[0])
	delayMs := ctx.input(inst.Inputs[1])
	feedback := ctx.input(inst.Inputs[2])
	s := getOrCreate[CombState](ctx.States, inst.StateID)

	if !s.buffer.Valid() {
		s.buffer = ctx.Arena.Allocate(COMB_MAX_SAMPLES)
		s.writePos = 0
		if !s.buffer.Valid() {
			silence(out)
			return
		}
	}
	buf := ctx.Arena.Slice(s.buffer)
	damp := float32(inst.Rate) / 255

	for i := range out {
		d := clampf(delayMs[i], 0.1, 100) * 0.001 * ctx.SampleRate
		delayed := readDelay(buf, s.writePos, d)
		s.filtered = delayed*(1-damp) + s.filtered*damp
		buf[s.writePos] = in[i] + clampf(feedback[i], -0.99, 0.99)*s.filtered
		s.writePos = (s.writePos + 1) % len(buf)
		out[i] = delayed
	}
}

// opEffectFlanger: in0 signal, in1 lfo Hz (0.1..10), in2 depth, in3 min ms,
// in4 max ms. Rate high nibble is feedback, -1..0.99.
func opEffectFlanger(ctx *ExecutionContext, inst *Instruction) {
	out := ctx.output(inst)
	in := ctx.input(inst.Inputs[0])
	rate := ctx.input(inst.Inputs[1])
	depth := ctx.input(inst.Inputs[2])
	minIn := ctx.input(inst.Inputs[3])
	maxIn := ctx.input(inst.Inputs[4])
	s := getOrCreate[FlangerState](ctx.States, inst.StateID)

	if !s.buffer.Valid() {
		s.buffer = ctx.Arena.Allocate(FLANGER_MAX_SAMPLES)
		s.writePos = 0
		if !s.buffer.Valid() {
			silence(out)
			return
		}
	}
	buf := ctx.Arena.Slice(s.buffer)
	fb := clampf(float32(inst.Rate>>4&0x0F)/7.5-1, -0.99, 0.99)

	for i := range out {
		lo := orDefault(minIn[i], FLANGER_MIN_DELAY_MS)
		hi := orDefault(maxIn[i], FLANGER_MAX_DELAY_MS)
		center := (lo + hi) * 0.5
		span := (hi - lo) * 0.5

		s.lfoPhase = advancePhase(s.lfoPhase, clampf(rate[i], 0.1, 10)*ctx.InvSampleRate)
		lfo := fastSinPhase(s.lfoPhase)
		ms := center + lfo*clampf(depth[i], 0, 1)*span

		delayed := readDelay(buf, s.writePos, ms*0.001*ctx.SampleRate)
		buf[s.writePos] = in[i] + fb*delayed
		s.writePos = (s.writePos + 1) % len(buf)
		out[i] = delayed
	}
}

// opEffectChorus: three taps with spread LFO phases.
// in0 signal, in1 lfo Hz (0.1..5), in2 depth, in3 base ms, in4 range ms.
func opEffectChorus(ctx *ExecutionContext, inst *Instruction) {
	out := ctx.output(inst)
	in := ctx.input(inst.Inputs[0])
	rate := ctx.input(inst.Inputs[1])
	depth := ctx.input(inst.Inputs[2])
	baseIn := ctx.input(inst.Inputs[3])
	rangeIn := ctx.input(inst.Inputs[4])
	s := getOrCreate[ChorusState](ctx.States, inst.StateID)

	if !s.buffer.Valid() {
		s.buffer = ctx.Arena.Allocate(CHORUS_MAX_SAMPLES)
		s.writePos = 0
		if !s.buffer.Valid() {
			silence(out)
			return
		}
	}
	buf := ctx.Arena.Slice(s.buffer)

	for i := range out {
		base := orDefault(baseIn[i], CHORUS_BASE_MS)
		span := orDefault(rangeIn[i], CHORUS_RANGE_MS)
		s.lfoPhase = advancePhase(s.lfoPhase, clampf(rate[i], 0.1, 5)*ctx.InvSampleRate)
		d := clampf(depth[i], 0, 1)

		var wet float32
		for v := 0; v < CHORUS_VOICES; v++ {
			p := s.lfoPhase + chorusPhaseOffsets[v]
			if p >= 1 {
				p -= 1
			}
			ms := base + fastSinPhase(p)*d*span
			wet += readDelay(buf, s.writePos, ms*0.001*ctx.SampleRate)
		}
		buf[s.writePos] = in[i]
		s.writePos = (s.writePos + 1) % len(buf)
		out[i] = wet / CHORUS_VOICES
	}
}

// opEffectPhaser sweeps a cascade of first-order allpasses exponentially
// around the geometric centre of the range.
// in0 signal, in1 lfo Hz, in2 depth, in3 min Hz, in4 max Hz.
// Rate high nibble is feedback (0..0.99), low nibble the stage count (2..12).
func opEffectPhaser(ctx *ExecutionContext, inst *Instruction) {
	out := ctx.output(inst)
	in := ctx.input(inst.Inputs[0])
	rate := ctx.input(inst.Inputs[1])
	depth := ctx.input(inst.Inputs[2])
	minIn := ctx.input(inst.Inputs[3])
	maxIn := ctx.input(inst.Inputs[4])
	s := getOrCreate[PhaserState](ctx.States, inst.StateID)

	fb := float32(inst.Rate>>4&0x0F) / 15 * 0.99
	stages := int(inst.Rate & 0x0F)
	if stages < 2 {
		stages = 2
	}
	if stages > PHASER_MAX_STAGES {
		stages = PHASER_MAX_STAGES
	}

	for i := range out {
		lo := orDefault(minIn[i], PHASER_MIN_HZ)
		hi := orDefault(maxIn[i], PHASER_MAX_HZ)
		s.lfoPhase = advancePhase(s.lfoPhase, clampf(rate[i], 0.1, 5)*ctx.InvSampleRate)
		lfo := fastSinPhase(s.lfoPhase)

		center := clampf(sqrtf(lo*hi)*expf(lfo*clampf(depth[i], 0, 1)*2), lo, hi)
		t := tanf(PI * clampCutoff(center, ctx.SampleRate) * ctx.InvSampleRate)
		a := (t - 1) / (t + 1)

		x := in[i] + fb*s.lastOut
		for k := 0; k < stages; k++ {
			y := a*x + s.xPrev[k] - a*s.yPrev[k]
			s.xPrev[k] = x
			s.yPrev[k] = softClamp(y)
			x = y
		}
		s.lastOut = x
		out[i] = x
	}
}
