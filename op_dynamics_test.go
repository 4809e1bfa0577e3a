// op_dynamics_test.go - Dynamics opcode tests

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

func TestCompressor_SteadyStateGain(t *testing.T) {
	for _, tc := range []struct {
		name   string
		input  float32
		thresh float32
		ratio  float32
		want   float32
	}{
		{"above threshold", 1, -20, 4, dbToLinear(-15)},
		{"below threshold", 0.01, -20, 4, 0.01},
		{"ratio clamped to 20", 1, -20, 1e6, dbToLinear(-19)},
		{"threshold clamped to 0", 1, 12, 4, 1},
	} {
		t.Run(tc.name, func(t *testing.T) {
			ctx := newOpContext()
			ctx.Buffers.Fill(1, tc.input)
			ctx.Buffers.Fill(2, tc.thresh)
			ctx.Buffers.Fill(3, tc.ratio)
			inst := MakeInstruction(OP_DYNAMICS_COMP, 4, 0xC011, 1, 2, 3)
			out := runOp(ctx, opDynamicsComp, &inst, 40)
			last := out[len(out)-1]
			if !approx(last, tc.want, 2e-3) {
				t.Fatalf("settled at %f, want %f", last, tc.want)
			}
		})
	}
}

func TestLimiter_NeverExceedsCeiling(t *testing.T) {
	for _, tc := range []struct {
		name string
		rate uint8
	}{
		{"instant", 0},
		{"lookahead", 1},
	} {
		t.Run(tc.name, func(t *testing.T) {
			ctx := newOpContext()
			ctx.Buffers.Fill(2, -6)
			ctx.Buffers.Fill(3, 50)
			inst := MakeInstruction(OP_DYNAMICS_LIMITER, 4, 0x11, 1, 2, 3)
			inst.Rate = tc.rate
			out := runOpFed(ctx, opDynamicsLimiter, &inst, 40, func(b int) {
				fillSaw(ctx, 1, b, 97, 2)
			})
			ceiling := dbToLinear(-6)
			if p := peakAbs(out); p > ceiling*1.0001 {
				t.Fatalf("peak %f above ceiling %f", p, ceiling)
			}
			if p := peakAbs(out[BLOCK_SIZE:]); p < ceiling*0.9 {
				t.Fatalf("peak %f, limiter is squashing too hard", p)
			}
		})
	}
}

func TestGate_OpensAndCloses(t *testing.T) {
	for _, tc := range []struct {
		name    string
		input   float32
		wantMin float32
		wantMax float32
	}{
		{"loud passes", 0.5, 0.499, 0.501},
		{"quiet attenuated by range", 1e-4, 0, 1e-6},
	} {
		t.Run(tc.name, func(t *testing.T) {
			ctx := newOpContext()
			ctx.Buffers.Fill(1, tc.input)
			ctx.Buffers.Fill(2, -40)
			ctx.Buffers.Fill(3, -60)
			inst := MakeInstruction(OP_DYNAMICS_GATE, 4, 0x6A7E, 1, 2, 3)
			out := runOp(ctx, opDynamicsGate, &inst, 40)
			last := out[len(out)-1]
			if last < tc.wantMin || last > tc.wantMax {
				t.Fatalf("settled at %g, want %g..%g", last, tc.wantMin, tc.wantMax)
			}
		})
	}
}
