// op_distortion.go - Saturation, folding and bit reduction opcodes

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

// TANH, SOFT and FOLD honour Instruction.Reserved for 2x or 4x oversampling.

// opDistortTanh: in0 signal, in1 drive (floored at 0.1).
func opDistortTanh(ctx *ExecutionContext, inst *Instruction) {
	out := ctx.output(inst)
	in := ctx.input(inst.Inputs[0])
	drive := ctx.input(inst.Inputs[1])
	s := getOrCreate[WaveshaperState](ctx.States, inst.StateID)
	factor := oversampleFactor(inst)

	for i := range out {
		d := drive[i]
		if d < 0.1 {
			d = 0.1
		}
		out[i] = s.os.process(in[i], factor, func(x float32) float32 {
			return tanhf(x * d)
		})
	}
}

// softClip is the rational cubic approximation of tanh, hard at |x| > 3.
func softClip(x float32) float32 {
	if x > 3 {
		return 1
	}
	if x < -3 {
		return -1
	}
	x2 := x * x
	return x * (27 + x2) / (27 + 9*x2)
}

// opDistortSoft: in0 signal, in1 threshold 0.1..2.
func opDistortSoft(ctx *ExecutionContext, inst *Instruction) {
	out := ctx.output(inst)
	in := ctx.input(inst.Inputs[0])
	threshold := ctx.input(inst.Inputs[1])
	s := getOrCreate[WaveshaperState](ctx.States, inst.StateID)
	factor := oversampleFactor(inst)

	for i := range out {
		t := clampf(threshold[i], 0.1, 2)
		out[i] = s.os.process(in[i], factor, func(x float32) float32 {
			return softClip(x/t) * t
		})
	}
}

// foldUnit reflects x into [-1, 1] with a triangular transfer.
func foldUnit(x float32) float32 {
	f := fmodf(x+1, 4)
	if f < 0 {
		f += 4
	}
	switch {
	case f > 3:
		return f - 4
	case f > 2:
		return -(f - 2)
	case f > 1:
		return 2 - f
	}
	return f
}

// opDistortFold: in0 signal, in1 threshold 0.1..2, in2 symmetry (0.5 is even).
func opDistortFold(ctx *ExecutionContext, inst *Instruction) {
	out := ctx.output(inst)
	in := ctx.input(inst.Inputs[0])
	threshold := ctx.input(inst.Inputs[1])
	symmetry := ctx.input(inst.Inputs[2])
	s := getOrCreate[WaveshaperState](ctx.States, inst.StateID)
	factor := oversampleFactor(inst)

	for i := range out {
		t := clampf(threshold[i], 0.1, 2)
		bias := (clampf(symmetry[i], 0, 1) - 0.5) * t
		out[i] = s.os.process(in[i], factor, func(x float32) float32 {
			return foldUnit((x+bias)/t) * t
		})
	}
}

// opDistortBitcrush: in0 signal, in1 bit depth 1..16, in2 rate factor 0.01..1.
func opDistortBitcrush(ctx *ExecutionContext, inst *Instruction) {
	out := ctx.output(inst)
	in := ctx.input(inst.Inputs[0])
	bits := ctx.input(inst.Inputs[1])
	rate := ctx.input(inst.Inputs[2])
	s := getOrCreate[BitcrushState](ctx.States, inst.StateID)

	for i := range out {
		s.phase += clampf(rate[i], 0.01, 1)
		if s.phase >= 1 {
			s.phase -= 1
			levels := powf(2, clampf(bits[i], 1, 16))
			s.held = roundf(in[i]*levels) / levels
		}
		out[i] = s.held
	}
}
