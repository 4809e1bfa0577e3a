// op_envelopes_test.go - Envelope opcode tests

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

func adsrInst(rate uint8) Instruction {
	inst := MakeInstruction(OP_ENV_ADSR, 10, 0xAD, 1, 2, 3, 4)
	inst.Rate = rate
	return inst
}

func TestEnvADSR_AttackDecaySustainRelease(t *testing.T) {
	ctx := newOpContext()
	ctx.Buffers.Fill(1, 1)    // gate
	ctx.Buffers.Fill(2, 0.01) // attack
	ctx.Buffers.Fill(3, 0.05) // decay
	ctx.Buffers.Fill(4, 0.5)  // sustain
	inst := adsrInst(1)

	held := runOp(ctx, opEnvADSR, &inst, 60)
	if peakAbs(held) != 1 {
		t.Fatalf("attack peaked at %f", peakAbs(held))
	}
	for i := 1; i < 400; i++ {
		if held[i] < held[i-1] {
			t.Fatalf("attack not monotonic at %d: %f < %f", i, held[i], held[i-1])
		}
	}
	if last := held[len(held)-1]; last != 0.5 {
		t.Fatalf("sustain level %f, want 0.5", last)
	}

	ctx.Buffers.Fill(1, 0)
	released := runOp(ctx, opEnvADSR, &inst, 80)
	t.Logf("release start %f end %f", released[0], released[len(released)-1])
	if released[0] >= 0.5 || released[len(released)-1] != 0 {
		t.Fatal("release did not fall to zero")
	}
}

// A gate shorter than the attack still completes attack and decay.
func TestEnvADSR_ShortGateDefersRelease(t *testing.T) {
	ctx := newOpContext()
	ctx.Buffers.Fill(2, 0.01)
	ctx.Buffers.Fill(3, 0.01)
	ctx.Buffers.Fill(4, 0.5)
	gate := ctx.Buffers.Get(1)
	gate[0] = 1
	inst := adsrInst(1)

	out := runOp(ctx, opEnvADSR, &inst, 1)
	gate[0] = 0
	out = append(out, runOp(ctx, opEnvADSR, &inst, 10)...)
	if peakAbs(out) != 1 {
		t.Fatalf("short gate peaked at %f", peakAbs(out))
	}
}

func TestEnvAR_OneShot(t *testing.T) {
	ctx := newOpContext()
	ctx.Buffers.Fill(2, 0.005)
	ctx.Buffers.Fill(3, 0.02)
	trig := ctx.Buffers.Get(1)
	trig[0] = 1
	inst := MakeInstruction(OP_ENV_AR, 10, 0xA5, 1, 2, 3)

	out := runOp(ctx, opEnvAR, &inst, 1)
	trig[0] = 0
	out = append(out, runOp(ctx, opEnvAR, &inst, 40)...)
	if peakAbs(out) != 1 || out[len(out)-1] != 0 {
		t.Fatalf("peak %f end %f", peakAbs(out), out[len(out)-1])
	}
}
