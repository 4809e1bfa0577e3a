// op_reverbs_test.go - Reverb opcode tests

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

type reverbCase struct {
	name   string
	fn     opFunc
	op     Opcode
	rate   uint8
	params [4]float32 // in1..in4
}

func runReverbCase(ctx *ExecutionContext, tc reverbCase, blocks int) []float32 {
	for k, v := range tc.params {
		ctx.Buffers.Fill(uint16(2+k), v)
	}
	inst := MakeInstruction(tc.op, 10, 0x7E7, 1, 2, 3, 4, 5)
	inst.Rate = tc.rate
	return runOpFed(ctx, tc.fn, &inst, blocks, func(b int) {
		fillSaw(ctx, 1, b, 173, 1)
	})
}

func TestReverbs_StayBoundedWithOutOfRangeParams(t *testing.T) {
	tests := []reverbCase{
		{"dattorro defaults", opReverbDattorro, OP_REVERB_DATTORRO, 0x35, [4]float32{0.9, 10, 0, 0}},
		{"dattorro diffusion 1.2", opReverbDattorro, OP_REVERB_DATTORRO, 0x35, [4]float32{0.9, 10, 1.2, 1.2}},
		{"dattorro all huge", opReverbDattorro, OP_REVERB_DATTORRO, 0xFF, [4]float32{1e6, 1e6, 1e6, 1e6}},
		{"dattorro negative", opReverbDattorro, OP_REVERB_DATTORRO, 0x00, [4]float32{0.7, -3, -3, -3}},
		{"freeverb huge room scale", opReverbFreeverb, OP_REVERB_FREEVERB, 255, [4]float32{1, 0, 1e6, 1e6}},
		{"freeverb all huge", opReverbFreeverb, OP_REVERB_FREEVERB, 255, [4]float32{1e6, 1e6, 1e6, 1e6}},
		{"fdn huge decay", opReverbFDN, OP_REVERB_FDN, 255, [4]float32{1e6, -5, 0, 0}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctx := newOpContext()
			out := runReverbCase(ctx, tc, 400)
			checkFinite(t, out, 1e3)
			t.Logf("peak %f", peakAbs(out))
			if peakAbs(out) == 0 {
				t.Fatal("reverb produced no output")
			}
		})
	}
}

func TestDattorro_TailDecays(t *testing.T) {
	ctx := newOpContext()
	ctx.Buffers.Fill(2, 0.5)
	inst := MakeInstruction(OP_REVERB_DATTORRO, 10, 0xDA7, 1, 2, 3, 4, 5)
	out := runOpFed(ctx, opReverbDattorro, &inst, 600, func(b int) {
		ctx.Buffers.Clear(1)
		if b == 0 {
			ctx.Buffers.Get(1)[0] = 1
		}
	})

	early := peakAbs(out[:20000])
	late := peakAbs(out[len(out)-BLOCK_SIZE*20:])
	t.Logf("early %g late %g", early, late)
	if early == 0 {
		t.Fatal("impulse never reached the tank output")
	}
	if late >= early*0.01 {
		t.Fatalf("tail did not decay: early %g late %g", early, late)
	}
}

func TestReverbs_SilentWhenArenaExhausted(t *testing.T) {
	for _, tc := range []reverbCase{
		{"freeverb", opReverbFreeverb, OP_REVERB_FREEVERB, 255, [4]float32{0.5, 0.5, 0, 0}},
		{"dattorro", opReverbDattorro, OP_REVERB_DATTORRO, 0x35, [4]float32{0.5, 0, 0, 0}},
		{"fdn", opReverbFDN, OP_REVERB_FDN, 128, [4]float32{0.5, 0.5, 0, 0}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			ctx := newOpContext()
			ctx.Arena = NewAudioArena(64)
			if p := peakAbs(runReverbCase(ctx, tc, 4)); p != 0 {
				t.Fatalf("peak %f from an exhausted arena", p)
			}
		})
	}
}
