// dsp_test_helpers_test.go - Shared helpers for engine tests

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

import "testing"

func newTestVM(t *testing.T) *VM {
	t.Helper()
	cfg := DefaultVMConfig()
	cfg.ArenaMiB = 8
	return NewVM(cfg)
}

func constInst(out uint16, v float32) Instruction {
	return MakeInstruction(OP_PUSH_CONST, out, ConstStateID(v))
}

func loadInstructions(t *testing.T, vm *VM, insts ...Instruction) {
	t.Helper()
	prog := &Program{Name: t.Name(), Instructions: insts}
	if r := vm.LoadProgramImmediate(prog); r != LOAD_SUCCESS {
		t.Fatalf("LoadProgramImmediate: %v", r)
	}
}

// renderBuffer runs blocks and collects buffer id across them.
func renderBuffer(vm *VM, id uint16, blocks int) []float32 {
	var l, r Block
	out := make([]float32, 0, blocks*BLOCK_SIZE)
	for b := 0; b < blocks; b++ {
		vm.ProcessBlock(&l, &r)
		out = append(out, vm.Buffers().Get(id)[:]...)
	}
	return out
}

func renderOutput(vm *VM, blocks int) (left, right []float32) {
	var l, r Block
	for b := 0; b < blocks; b++ {
		vm.ProcessBlock(&l, &r)
		left = append(left, l[:]...)
		right = append(right, r[:]...)
	}
	return left, right
}

func approx(a, b, tol float32) bool {
	return absf(a-b) <= tol
}

func peakAbs(xs []float32) float32 {
	var p float32
	for _, x := range xs {
		p = max(p, absf(x))
	}
	return p
}

// newOpContext builds a bare execution context for driving one opcode.
func newOpContext() *ExecutionContext {
	ctx := &ExecutionContext{
		BPM:     DEFAULT_BPM,
		Buffers: NewBufferPool(),
		States:  NewStatePool(),
		Arena:   NewAudioArenaMiB(8),
		Env:     NewEnvMap(),
		Samples: NewSampleBank(),
	}
	ctx.setSampleRate(DEFAULT_SAMPLE_RATE)
	return ctx
}

// runOp calls fn for the given number of blocks, advancing the clock, and
// collects the instruction's output.
func runOp(ctx *ExecutionContext, fn opFunc, inst *Instruction, blocks int) []float32 {
	out := make([]float32, 0, blocks*BLOCK_SIZE)
	for b := 0; b < blocks; b++ {
		ctx.UpdateTiming()
		fn(ctx, inst)
		out = append(out, ctx.Buffers.Get(inst.Out)[:]...)
		ctx.GlobalSampleCounter += BLOCK_SIZE
		ctx.BlockCounter++
	}
	return out
}

// runOpFed is runOp with feed called before each block to refresh inputs.
func runOpFed(ctx *ExecutionContext, fn opFunc, inst *Instruction, blocks int, feed func(block int)) []float32 {
	out := make([]float32, 0, blocks*BLOCK_SIZE)
	for b := 0; b < blocks; b++ {
		feed(b)
		ctx.UpdateTiming()
		fn(ctx, inst)
		out = append(out, ctx.Buffers.Get(inst.Out)[:]...)
		ctx.GlobalSampleCounter += BLOCK_SIZE
		ctx.BlockCounter++
	}
	return out
}

// fillSaw writes block b of a naive saw with the given period and amplitude.
func fillSaw(ctx *ExecutionContext, id uint16, b, period int, amp float32) {
	buf := ctx.Buffers.Get(id)
	for i := range buf {
		n := (b*BLOCK_SIZE + i) % period
		buf[i] = amp * (2*float32(n)/float32(period) - 1)
	}
}

// checkFinite fails on NaN, Inf or any sample beyond ±limit.
func checkFinite(t *testing.T, out []float32, limit float32) {
	t.Helper()
	for i, x := range out {
		if x != x || x > limit || x < -limit {
			t.Fatalf("sample %d = %g (limit %g)", i, x, limit)
		}
	}
}
