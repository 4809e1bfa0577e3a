// op_modulation_test.go - Modulation effect opcode tests

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

func TestModulation_StaysBoundedWithOutOfRangeParams(t *testing.T) {
	tests := []struct {
		name   string
		fn     opFunc
		op     Opcode
		rate   uint8
		params [4]float32 // in1..in4
	}{
		{"comb", opEffectComb, OP_EFFECT_COMB, 0, [4]float32{1e6, 5, 0, 0}},
		{"comb negative feedback", opEffectComb, OP_EFFECT_COMB, 255, [4]float32{-4, -5, 0, 0}},
		{"flanger", opEffectFlanger, OP_EFFECT_FLANGER, 0xF0, [4]float32{1e6, 1e6, -1, 1e6}},
		{"chorus", opEffectChorus, OP_EFFECT_CHORUS, 0, [4]float32{1e6, 5, 1e6, 1e6}},
		{"phaser", opEffectPhaser, OP_EFFECT_PHASER, 0xFF, [4]float32{1e6, 1e6, 1e6, -5}},
		{"phaser defaults", opEffectPhaser, OP_EFFECT_PHASER, 0x84, [4]float32{0.5, 1, 0, 0}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctx := newOpContext()
			for k, v := range tc.params {
				ctx.Buffers.Fill(uint16(2+k), v)
			}
			inst := MakeInstruction(tc.op, 10, 0xE0, 1, 2, 3, 4, 5)
			inst.Rate = tc.rate
			out := runOpFed(ctx, tc.fn, &inst, 200, func(b int) {
				fillSaw(ctx, 1, b, 211, 1)
			})
			checkFinite(t, out, 1e3)
			if peakAbs(out) == 0 {
				t.Fatal("effect produced no output")
			}
		})
	}
}

func TestComb_EchoLandsOnDelay(t *testing.T) {
	ctx := newOpContext()
	ctx.Buffers.Fill(2, 10) // 480 samples
	inst := MakeInstruction(OP_EFFECT_COMB, 10, 0xC0, 1, 2, 3)
	out := runOpFed(ctx, opEffectComb, &inst, 8, func(b int) {
		ctx.Buffers.Clear(1)
		if b == 0 {
			ctx.Buffers.Get(1)[0] = 1
		}
	})
	if !approx(out[480], 1, 1e-3) {
		t.Fatalf("echo at 480 = %f", out[480])
	}
	if peakAbs(out[:470]) != 0 || peakAbs(out[490:]) > 1e-6 {
		t.Fatalf("unexpected energy outside the echo: %f / %f", peakAbs(out[:470]), peakAbs(out[490:]))
	}
}

func TestModulation_SilentWhenArenaExhausted(t *testing.T) {
	for _, tc := range []struct {
		name string
		fn   opFunc
		op   Opcode
	}{
		{"comb", opEffectComb, OP_EFFECT_COMB},
		{"flanger", opEffectFlanger, OP_EFFECT_FLANGER},
		{"chorus", opEffectChorus, OP_EFFECT_CHORUS},
	} {
		t.Run(tc.name, func(t *testing.T) {
			ctx := newOpContext()
			ctx.Arena = NewAudioArena(64)
			ctx.Buffers.Fill(1, 1)
			inst := MakeInstruction(tc.op, 10, 0xE1, 1, 2, 3, 4, 5)
			if p := peakAbs(runOp(ctx, tc.fn, &inst, 4)); p != 0 {
				t.Fatalf("peak %f from an exhausted arena", p)
			}
		})
	}
}
