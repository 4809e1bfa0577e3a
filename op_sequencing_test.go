// op_sequencing_test.go - Clock, LFO and sequencer opcode tests

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

// runOpCollect is runOp that also gathers side-output buffers.
func runOpCollect(ctx *ExecutionContext, fn opFunc, inst *Instruction, blocks int, ids ...uint16) (out []float32, sides [][]float32) {
	sides = make([][]float32, len(ids))
	for b := 0; b < blocks; b++ {
		ctx.UpdateTiming()
		fn(ctx, inst)
		out = append(out, ctx.Buffers.Get(inst.Out)[:]...)
		for k, id := range ids {
			sides[k] = append(sides[k], ctx.Buffers.Get(id)[:]...)
		}
		ctx.GlobalSampleCounter += BLOCK_SIZE
	}
	return out, sides
}

func onesAt(xs []float32) []int {
	var idx []int
	for i, x := range xs {
		if x > 0 {
			idx = append(idx, i)
		}
	}
	return idx
}

func sameInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

const testSamplesPerBeat = 24000 // 120 BPM at 48 kHz

func TestClock_BeatAndBarPhase(t *testing.T) {
	ctx := newOpContext()
	ctx.GlobalSampleCounter = testSamplesPerBeat / 2
	beat := MakeInstruction(OP_CLOCK, 1, 0)
	bar := MakeInstruction(OP_CLOCK, 2, 0)
	bar.Rate = 1

	opClock(ctx, &beat)
	opClock(ctx, &bar)
	if b := ctx.Buffers.Get(1)[0]; b != 0.5 {
		t.Fatalf("beat phase %f, want 0.5", b)
	}
	if b := ctx.Buffers.Get(2)[0]; b != 0.125 {
		t.Fatalf("bar phase %f, want 0.125", b)
	}
}

func TestLFO_Shapes(t *testing.T) {
	cases := []struct {
		shape  uint8
		name   string
		atZero float32
		atHalf float32
	}{
		{LFO_TRI, "tri", 1, -1},
		{LFO_SAW, "saw", -1, 0},
		{LFO_RAMP, "ramp", 1, 0},
		{LFO_SQR, "sqr", 1, -1},
		{LFO_PWM, "pwm", 1, -1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := newOpContext()
			ctx.Buffers.Fill(1, 1)
			inst := MakeInstruction(OP_LFO, 2, 0x1F0, 1)
			inst.Rate = tc.shape

			opLFO(ctx, &inst)
			zero := ctx.Buffers.Get(2)[0]
			ctx.GlobalSampleCounter = testSamplesPerBeat / 2
			opLFO(ctx, &inst)
			half := ctx.Buffers.Get(2)[0]
			t.Logf("%s: %f at 0, %f at half", tc.name, zero, half)
			if !approx(zero, tc.atZero, 1e-4) || !approx(half, tc.atHalf, 1e-4) {
				t.Fatalf("got %f/%f, want %f/%f", zero, half, tc.atZero, tc.atHalf)
			}
		})
	}
}

// Sample and hold draws from the sample counter, so two runs agree.
func TestLFO_SampleAndHoldIsDeterministic(t *testing.T) {
	render := func() []float32 {
		ctx := newOpContext()
		ctx.Buffers.Fill(1, 4)
		inst := MakeInstruction(OP_LFO, 2, 0x5A4, 1)
		inst.Rate = LFO_SAH
		return runOp(ctx, opLFO, &inst, 400)
	}
	a, b := render(), render()
	changes := 0
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("runs differ at %d", i)
		}
		if i > 0 && a[i] != a[i-1] {
			changes++
		}
	}
	t.Logf("%d held values over %d samples", changes, len(a))
	if changes == 0 || peakAbs(a) > 1 {
		t.Fatalf("S&H changes=%d peak=%f", changes, peakAbs(a))
	}
}

func TestSeqStep_ValuesAndTriggers(t *testing.T) {
	ctx := newOpContext()
	ctx.States.InitSeqStep(0x5E, []float32{0, 1, 2, 3}, []float32{10, 20, 30, 40}, []float32{1, 0.5}, 4)
	inst := MakeInstruction(OP_SEQ_STEP, 1, 0x5E, 2, 3)

	blocks := 4*testSamplesPerBeat/BLOCK_SIZE + 2
	out, sides := runOpCollect(ctx, opSeqStep, &inst, blocks, 2, 3)
	vel, trig := sides[0], sides[1]

	want := []int{0, testSamplesPerBeat, 2 * testSamplesPerBeat, 3 * testSamplesPerBeat, 4 * testSamplesPerBeat}
	if got := onesAt(trig); !sameInts(got, want) {
		t.Fatalf("triggers at %v, want %v", got, want)
	}
	if out[0] != 10 || out[testSamplesPerBeat+5] != 20 || out[4*testSamplesPerBeat-1] != 40 {
		t.Fatalf("values %f %f %f", out[0], out[testSamplesPerBeat+5], out[4*testSamplesPerBeat-1])
	}
	if vel[0] != 1 || vel[testSamplesPerBeat] != 0.5 || vel[2*testSamplesPerBeat] != 1 {
		t.Fatalf("velocities %f %f %f", vel[0], vel[testSamplesPerBeat], vel[2*testSamplesPerBeat])
	}
	if out[4*testSamplesPerBeat] != 10 {
		t.Fatalf("sequence did not wrap: %f", out[4*testSamplesPerBeat])
	}
}

func TestSeqStep_EmptyIsSilent(t *testing.T) {
	ctx := newOpContext()
	ctx.Buffers.Fill(1, 3)
	inst := MakeInstruction(OP_SEQ_STEP, 1, 0x5F)
	if p := peakAbs(runOp(ctx, opSeqStep, &inst, 1)); p != 0 {
		t.Fatalf("empty sequencer output %f", p)
	}
}

func TestEuclid_TresilloTriggers(t *testing.T) {
	ctx := newOpContext()
	ctx.Buffers.Fill(1, 3)
	ctx.Buffers.Fill(2, 8)
	inst := MakeInstruction(OP_EUCLID, 4, 0xE0, 1, 2)

	bar := 4 * testSamplesPerBeat
	out := runOp(ctx, opEuclid, &inst, bar/BLOCK_SIZE)
	step := bar / 8
	want := []int{0, 3 * step, 6 * step}
	if got := onesAt(out); !sameInts(got, want) {
		t.Fatalf("triggers at %v, want %v", got, want)
	}
}

func TestTrigger_FiresOnDivision(t *testing.T) {
	ctx := newOpContext()
	ctx.Buffers.Fill(1, 2)
	inst := MakeInstruction(OP_TRIGGER, 4, 0x7A, 1)

	out := runOp(ctx, opTrigger, &inst, 2*testSamplesPerBeat/BLOCK_SIZE+1)
	half := testSamplesPerBeat / 2
	want := []int{half, 2 * half, 3 * half, 4 * half}
	if got := onesAt(out); !sameInts(got, want) {
		t.Fatalf("triggers at %v, want %v", got, want)
	}
}

func TestTimeline_InterpolatesAndLoops(t *testing.T) {
	ctx := newOpContext()
	ctx.States.InitTimeline(0x71, []Breakpoint{
		{Time: 0, Value: 0, Curve: CURVE_LINEAR},
		{Time: 2, Value: 1, Curve: CURVE_HOLD},
		{Time: 3, Value: 5},
	}, true, 4)
	inst := MakeInstruction(OP_TIMELINE, 1, 0x71)

	at := func(beat float64) float32 {
		ctx.GlobalSampleCounter = uint64(beat * testSamplesPerBeat)
		opTimeline(ctx, &inst)
		return ctx.Buffers.Get(1)[0]
	}
	for _, tc := range []struct {
		beat float64
		want float32
	}{{1, 0.5}, {2.5, 1}, {3.5, 5}, {5, 0.5}} {
		if got := at(tc.beat); !approx(got, tc.want, 1e-4) {
			t.Errorf("beat %.1f: %f, want %f", tc.beat, got, tc.want)
		}
	}
}

func TestSeqPatQuery_GateTriggerValue(t *testing.T) {
	ctx := newOpContext()
	st := NewSequenceState(4, 3)
	var root Sequence
	root.AddEvent(DataEvent(0, 0.5, 60, 64))
	root.AddEvent(DataEvent(2, 1, 67))
	st.AddSequence(root)
	ctx.States.InitPattern(0x9A, st)

	inst := MakeInstruction(OP_SEQPAT_QUERY, 1, 0x9A, 2, 3)
	inst.Rate = 1 // second voice
	bar := 4 * testSamplesPerBeat
	out, sides := runOpCollect(ctx, opSeqPatQuery, &inst, bar/BLOCK_SIZE+1, 2, 3)
	gate, trig := sides[0], sides[1]

	if got, want := onesAt(trig), []int{0, 2 * testSamplesPerBeat, bar}; !sameInts(got, want) {
		t.Fatalf("triggers at %v, want %v", got, want)
	}
	if gate[0] != 1 || gate[testSamplesPerBeat] != 0 || gate[2*testSamplesPerBeat+10] != 1 {
		t.Fatal("gate does not follow event spans")
	}
	if out[0] != 64 || out[testSamplesPerBeat] != 64 || out[2*testSamplesPerBeat] != 67 {
		t.Fatalf("values %f %f %f", out[0], out[testSamplesPerBeat], out[2*testSamplesPerBeat])
	}
}

func TestSeqPatStep_OneEventPerBeat(t *testing.T) {
	ctx := newOpContext()
	st := NewSequenceState(4, 3)
	var root Sequence
	root.AddEvent(DataEvent(0, 1, 1))
	root.AddEvent(DataEvent(3, 1, 2))
	st.AddSequence(root)
	ctx.States.InitPattern(0x9B, st)

	inst := MakeInstruction(OP_SEQPAT_STEP, 1, 0x9B, 2)
	out, sides := runOpCollect(ctx, opSeqPatStep, &inst, 3*testSamplesPerBeat/BLOCK_SIZE+1, 2)

	if got, want := onesAt(sides[0]), []int{0, testSamplesPerBeat, 2 * testSamplesPerBeat, 3 * testSamplesPerBeat}; !sameInts(got, want) {
		t.Fatalf("triggers at %v, want %v", got, want)
	}
	if out[0] != 1 || out[testSamplesPerBeat] != 2 || out[2*testSamplesPerBeat] != 1 {
		t.Fatalf("step values %f %f %f", out[0], out[testSamplesPerBeat], out[2*testSamplesPerBeat])
	}
}
