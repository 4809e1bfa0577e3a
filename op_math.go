// op_math.go - Arithmetic, math and logic opcodes

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

type unaryFn func(float32) float32
type binaryFn func(a, b float32) float32

func applyUnary(ctx *ExecutionContext, inst *Instruction, f unaryFn) {
	out := ctx.output(inst)
	a := ctx.input(inst.Inputs[0])
	for i := range out {
		out[i] = f(a[i])
	}
}

func applyBinary(ctx *ExecutionContext, inst *Instruction, f binaryFn) {
	out := ctx.output(inst)
	a := ctx.input(inst.Inputs[0])
	b := ctx.input(inst.Inputs[1])
	for i := range out {
		out[i] = f(a[i], b[i])
	}
}

func opAdd(ctx *ExecutionContext, inst *Instruction) {
	out := ctx.output(inst)
	a, b := ctx.input(inst.Inputs[0]), ctx.input(inst.Inputs[1])
	for i := range out {
		out[i] = a[i] + b[i]
	}
}

func opSub(ctx *ExecutionContext, inst *Instruction) {
	out := ctx.output(inst)
	a, b := ctx.input(inst.Inputs[0]), ctx.input(inst.Inputs[1])
	for i := range out {
		out[i] = a[i] - b[i]
	}
}

func opMul(ctx *ExecutionContext, inst *Instruction) {
	out := ctx.output(inst)
	a, b := ctx.input(inst.Inputs[0]), ctx.input(inst.Inputs[1])
	for i := range out {
		out[i] = a[i] * b[i]
	}
}

// opDiv yields 0 for a zero divisor.
func opDiv(ctx *ExecutionContext, inst *Instruction) {
	applyBinary(ctx, inst, func(a, b float32) float32 {
		if b == 0 {
			return 0
		}
		return a / b
	})
}

func opPow(ctx *ExecutionContext, inst *Instruction) {
	applyBinary(ctx, inst, func(a, b float32) float32 {
		r := powf(a, b)
		if r != r || math.IsInf(float64(r), 0) {
			return 0
		}
		return r
	})
}

func opNeg(ctx *ExecutionContext, inst *Instruction) {
	applyUnary(ctx, inst, func(x float32) float32 { return -x })
}

func opAbs(ctx *ExecutionContext, inst *Instruction) { applyUnary(ctx, inst, absf) }

func opSqrt(ctx *ExecutionContext, inst *Instruction) {
	applyUnary(ctx, inst, func(x float32) float32 {
		if x <= 0 {
			return 0
		}
		return sqrtf(x)
	})
}

// opLog is the natural log, floored at a tiny positive input.
func opLog(ctx *ExecutionContext, inst *Instruction) {
	applyUnary(ctx, inst, func(x float32) float32 {
		return float32(math.Log(float64(max(x, 1e-10))))
	})
}

func opExp(ctx *ExecutionContext, inst *Instruction) {
	applyUnary(ctx, inst, func(x float32) float32 { return expf(min(x, 80)) })
}

func opMin(ctx *ExecutionContext, inst *Instruction) {
	applyBinary(ctx, inst, func(a, b float32) float32 { return min(a, b) })
}

func opMax(ctx *ExecutionContext, inst *Instruction) {
	applyBinary(ctx, inst, func(a, b float32) float32 { return max(a, b) })
}

// opClamp bounds in0 to [in1, in2].
func opClamp(ctx *ExecutionContext, inst *Instruction) {
	out := ctx.output(inst)
	x := ctx.input(inst.Inputs[0])
	lo := ctx.input(inst.Inputs[1])
	hi := ctx.input(inst.Inputs[2])
	for i := range out {
		out[i] = clampf(x[i], lo[i], hi[i])
	}
}

// opWrap folds in0 into [in1, in2).
func opWrap(ctx *ExecutionContext, inst *Instruction) {
	out := ctx.output(inst)
	x := ctx.input(inst.Inputs[0])
	lo := ctx.input(inst.Inputs[1])
	hi := ctx.input(inst.Inputs[2])
	for i := range out {
		span := hi[i] - lo[i]
		if span <= 0 {
			out[i] = lo[i]
			continue
		}
		v := fmodf(x[i]-lo[i], span)
		if v < 0 {
			v += span
		}
		out[i] = v + lo[i]
	}
}

func opFloor(ctx *ExecutionContext, inst *Instruction) { applyUnary(ctx, inst, floorf) }

func opCeil(ctx *ExecutionContext, inst *Instruction) {
	applyUnary(ctx, inst, func(x float32) float32 { return float32(math.Ceil(float64(x))) })
}

func opMathSin(ctx *ExecutionContext, inst *Instruction)  { applyUnary(ctx, inst, sinf) }
func opMathCos(ctx *ExecutionContext, inst *Instruction)  { applyUnary(ctx, inst, cosf) }
func opMathTanh(ctx *ExecutionContext, inst *Instruction) { applyUnary(ctx, inst, tanhf) }

func opMathTan(ctx *ExecutionContext, inst *Instruction) {
	applyUnary(ctx, inst, func(x float32) float32 { return clampf(tanf(x), -1e6, 1e6) })
}

// opMod is a floored modulo; the result takes the sign of the divisor.
func opMod(ctx *ExecutionContext, inst *Instruction) {
	applyBinary(ctx, inst, func(a, b float32) float32 {
		if b == 0 {
			return 0
		}
		r := fmodf(a, b)
		if r != 0 && (r < 0) != (b < 0) {
			r += b
		}
		return r
	})
}

// Logic: any value > 0 is true, results are 0 or 1.

func boolf(b bool) float32 {
	if b {
		return 1
	}
	return 0
}

func opGt(ctx *ExecutionContext, inst *Instruction) {
	applyBinary(ctx, inst, func(a, b float32) float32 { return boolf(a > b) })
}

func opLt(ctx *ExecutionContext, inst *Instruction) {
	applyBinary(ctx, inst, func(a, b float32) float32 { return boolf(a < b) })
}

func opEq(ctx *ExecutionContext, inst *Instruction) {
	applyBinary(ctx, inst, func(a, b float32) float32 { return boolf(absf(a-b) < 1e-6) })
}

// opSelect outputs in1 where in0 is true and in2 elsewhere.
func opSelect(ctx *ExecutionContext, inst *Instruction) {
	out := ctx.output(inst)
	cond := ctx.input(inst.Inputs[0])
	a := ctx.input(inst.Inputs[1])
	b := ctx.input(inst.Inputs[2])
	for i := range out {
		if cond[i] > 0 {
			out[i] = a[i]
		} else {
			out[i] = b[i]
		}
	}
}

func opAnd(ctx *ExecutionContext, inst *Instruction) {
	applyBinary(ctx, inst, func(a, b float32) float32 { return boolf(a > 0 && b > 0) })
}

func opOr(ctx *ExecutionContext, inst *Instruction) {
	applyBinary(ctx, inst, func(a, b float32) float32 { return boolf(a > 0 || b > 0) })
}

func opNot(ctx *ExecutionContext, inst *Instruction) {
	applyUnary(ctx, inst, func(x float32) float32 { return boolf(x <= 0) })
}
