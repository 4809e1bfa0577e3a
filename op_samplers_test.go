// op_samplers_test.go - Sampler opcode tests

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

func constSample(frames int, v float32) *SampleData {
	data := &SampleData{Frames: make([]float32, frames), Channels: 1, SampleRate: DEFAULT_SAMPLE_RATE}
	for i := range data.Frames {
		data.Frames[i] = v
	}
	return data
}

func TestSamplers_SilentWithoutSample(t *testing.T) {
	for _, tc := range []struct {
		name string
		fn   opFunc
		op   Opcode
		id   float32
		bank bool
	}{
		{"one-shot id 0", opSamplePlay, OP_SAMPLE_PLAY, 0, true},
		{"one-shot bank miss", opSamplePlay, OP_SAMPLE_PLAY, 99, true},
		{"one-shot no bank", opSamplePlay, OP_SAMPLE_PLAY, 1, false},
		{"loop id 0", opSamplePlayLoop, OP_SAMPLE_PLAY_LOOP, 0, true},
		{"loop bank miss", opSamplePlayLoop, OP_SAMPLE_PLAY_LOOP, 99, true},
		{"loop no bank", opSamplePlayLoop, OP_SAMPLE_PLAY_LOOP, 1, false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			ctx := newOpContext()
			if _, err := ctx.Samples.AddSample("tone", constSample(256, 0.5)); err != nil {
				t.Fatal(err)
			}
			if !tc.bank {
				ctx.Samples = nil
			}
			ctx.Buffers.Fill(1, 1)
			ctx.Buffers.Fill(2, 1)
			ctx.Buffers.Fill(3, tc.id)
			inst := MakeInstruction(tc.op, 4, 0x5A, 1, 2, 3)
			if p := peakAbs(runOp(ctx, tc.fn, &inst, 4)); p != 0 {
				t.Fatalf("peak %f without a playable sample", p)
			}
		})
	}
}

func TestSamplePlay_OneShotRunsToEnd(t *testing.T) {
	ctx := newOpContext()
	id, err := ctx.Samples.AddSample("tone", constSample(256, 0.5))
	if err != nil {
		t.Fatal(err)
	}
	ctx.Buffers.Fill(1, 1) // Rising edge on the first sample only
	ctx.Buffers.Fill(2, 1)
	ctx.Buffers.Fill(3, float32(id))
	inst := MakeInstruction(OP_SAMPLE_PLAY, 4, 0x5B, 1, 2, 3)
	out := runOp(ctx, opSamplePlay, &inst, 4)

	if out[0] != 0 || out[SAMPLER_RAMP-1] >= 0.5 {
		t.Fatalf("no attack ramp: %f %f", out[0], out[SAMPLER_RAMP-1])
	}
	for i := SAMPLER_RAMP; i < 250; i++ {
		if !approx(out[i], 0.5, 1e-6) {
			t.Fatalf("sample %d = %f", i, out[i])
		}
	}
	if p := peakAbs(out[260:]); p != 0 {
		t.Fatalf("voice still sounding after the sample ended: %f", p)
	}
}

func TestSamplePlayLoop_LoopsUntilGateDrops(t *testing.T) {
	ctx := newOpContext()
	id, _ := ctx.Samples.AddSample("pad", constSample(100, 0.5))
	ctx.Buffers.Fill(2, 1)
	ctx.Buffers.Fill(3, float32(id))
	inst := MakeInstruction(OP_SAMPLE_PLAY_LOOP, 4, 0x5C, 1, 2, 3)
	out := runOpFed(ctx, opSamplePlayLoop, &inst, 14, func(b int) {
		ctx.Buffers.Fill(1, boolf(b < 10))
	})

	for i := SAMPLER_RAMP; i < 10*BLOCK_SIZE; i++ {
		if !approx(out[i], 0.5, 1e-5) {
			t.Fatalf("sample %d = %f while gate is high", i, out[i])
		}
	}
	release := 10 * BLOCK_SIZE
	if out[release] == 0 {
		t.Fatal("voice cut without a fade")
	}
	if p := peakAbs(out[release+SAMPLER_RAMP:]); p != 0 {
		t.Fatalf("voice still sounding after release: %f", p)
	}
}
