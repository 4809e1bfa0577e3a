// op_utility.go - Constants, routing, noise, slew and sample-and-hold

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

import "math"

func opNop(ctx *ExecutionContext, inst *Instruction) {}

// opPushConst fills the output with the float carried in StateID.
func opPushConst(ctx *ExecutionContext, inst *Instruction) {
	out := ctx.output(inst)
	v := inst.ConstValue()
	for i := range out {
		out[i] = v
	}
}

func opCopy(ctx *ExecutionContext, inst *Instruction) {
	*ctx.output(inst) = *ctx.input(inst.Inputs[0])
}

// opOutput accumulates in0 into both channels; in1, when wired, feeds the
// right channel instead.
func opOutput(ctx *ExecutionContext, inst *Instruction) {
	left := ctx.input(inst.Inputs[0])
	right := left
	if inst.Inputs[1] != BUFFER_UNUSED {
		right = ctx.input(inst.Inputs[1])
	}
	for i := 0; i < BLOCK_SIZE; i++ {
		ctx.OutL[i] += left[i]
		ctx.OutR[i] += right[i]
	}
}

// opNoise is white noise from a per-state LCG.
func opNoise(ctx *ExecutionContext, inst *Instruction) {
	out := ctx.output(inst)
	s := getOrCreate[NoiseState](ctx.States, inst.StateID)
	if !s.initialized {
		s.seed = 12345
		s.initialized = true
	}
	for i := range out {
		s.seed = s.seed*1103515245 + 12345
		out[i] = float32(s.seed)/float32(math.MaxUint32)*2 - 1
	}
}

// opMtof converts MIDI note numbers to Hz.
func opMtof(ctx *ExecutionContext, inst *Instruction) {
	applyUnary(ctx, inst, func(n float32) float32 {
		return 440 * powf(2, (n-69)/12)
	})
}

// opDC offsets in0 by the float in StateID.
func opDC(ctx *ExecutionContext, inst *Instruction) {
	out := ctx.output(inst)
	in := ctx.input(inst.Inputs[0])
	offset := inst.ConstValue()
	for i := range out {
		out[i] = in[i] + offset
	}
}

// opSlew chases in0; StateID holds the time constant in samples.
func opSlew(ctx *ExecutionContext, inst *Instruction) {
	out := ctx.output(inst)
	target := ctx.input(inst.Inputs[0])
	s := getOrCreate[SlewState](ctx.States, inst.StateID)
	rate := inst.ConstValue()
	coeff := float32(1)
	if rate > 0 {
		coeff = 1 / rate
	}
	for i := range out {
		s.current += (target[i] - s.current) * coeff
		out[i] = s.current
	}
}

// opSAH latches in0 on each rising edge of in1.
func opSAH(ctx *ExecutionContext, inst *Instruction) {
	out := ctx.output(inst)
	in := ctx.input(inst.Inputs[0])
	trig := ctx.input(inst.Inputs[1])
	s := getOrCreate[SAHState](ctx.States, inst.StateID)
	for i := range out {
		if s.prevTrigger <= 0 && trig[i] > 0 {
			s.held = in[i]
		}
		s.prevTrigger = trig[i]
		out[i] = s.held
	}
}

// opEnvGet reads the live parameter whose name hashes to StateID.
func opEnvGet(ctx *ExecutionContext, inst *Instruction) {
	ctx.Env.fillRamp(inst.StateID, ctx.output(inst))
}
