// op_filters.go - Filter opcodes

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

// All filters take in0 signal, in1 cutoff (Hz), in2 Q or resonance.
// Coefficients are recomputed only when the per-sample parameters move.

// calc updates trapezoidal SVF coefficients.
func (s *SVFState) calc(freq, q, sampleRate float32) {
	if freq == s.lastFreq && q == s.lastQ && s.a1 != 0 {
		return
	}
	s.lastFreq = freq
	s.lastQ = q
	freq = clampCutoff(freq, sampleRate)
	if q < FILTER_MIN_Q {
		q = FILTER_MIN_Q
	}
	s.g = tanf(PI * freq / sampleRate)
	s.k = 1 / q
	s.a1 = 1 / (1 + s.g*(s.g+s.k))
	s.a2 = s.g * s.a1
	s.a3 = s.g * s.a2
}

// tick runs one sample and returns the bandpass and lowpass taps.
func (s *SVFState) tick(x float32) (bp, lp float32) {
	v3 := x - s.ic2eq
	v1 := s.a1*s.ic1eq + s.a2*v3
	v2 := s.ic2eq + s.a2*s.ic1eq + s.a3*v3
	s.ic1eq = softClamp(2*v1 - s.ic1eq)
	s.ic2eq = softClamp(2*v2 - s.ic2eq)
	return v1, v2
}

const (
	svfLowpass = iota
	svfHighpass
	svfBandpass
)

func runSVF(ctx *ExecutionContext, inst *Instruction, mode int) {
	out := ctx.output(inst)
	in := ctx.input(inst.Inputs[0])
	freq := ctx.input(inst.Inputs[1])
	q := ctx.input(inst.Inputs[2])
	s := getOrCreate[SVFState](ctx.States, inst.StateID)

	for i := range out {
		s.calc(freq[i], q[i], ctx.SampleRate)
		bp, lp := s.tick(in[i])
		switch mode {
		case svfLowpass:
			out[i] = lp
		case svfHighpass:
			out[i] = in[i] - s.k*bp - lp
		default:
			out[i] = bp
		}
	}
}

func opFilterSVFLP(ctx *ExecutionContext, inst *Instruction) { runSVF(ctx, inst, svfLowpass) }
func opFilterSVFHP(ctx *ExecutionContext, inst *Instruction) { runSVF(ctx, inst, svfHighpass) }
func opFilterSVFBP(ctx *ExecutionContext, inst *Instruction) { runSVF(ctx, inst, svfBandpass) }

// onePoleG is the matched one-pole gain for a ladder stage.
func onePoleG(freq, sampleRate float32) float32 {
	return 1 - expf(-TWO_PI*clampCutoff(freq, sampleRate)/sampleRate)
}

// opFilterMoog is a 4-pole transistor ladder. Resonance 0..1 maps onto a
// feedback gain just short of self-oscillation at 1.
func opFilterMoog(ctx *ExecutionContext, inst *Instruction) {
	out := ctx.output(inst)
	in := ctx.input(inst.Inputs[0])
	freq := ctx.input(inst.Inputs[1])
	res := ctx.input(inst.Inputs[2])
	s := getOrCreate[LadderState](ctx.States, inst.StateID)

	for i := range out {
		if freq[i] != s.lastFreq || res[i] != s.lastRes || s.g == 0 {
			s.lastFreq = freq[i]
			s.lastRes = res[i]
			s.g = onePoleG(freq[i], ctx.SampleRate)
			s.res = clampf(res[i], 0, 1) * 3.99
		}
		x := in[i] - s.res*s.stage[3]
		for k := 0; k < 4; k++ {
			s.stage[k] = softClamp(s.stage[k] + s.g*(fastTanh(x)-s.delay[k]))
			s.delay[k] = fastTanh(s.stage[k])
			x = s.stage[k]
		}
		out[i] = s.stage[3]
	}
}

// opFilterDiode is a diode ladder: a single saturating input stage and
// half-strength coupling between neighbouring poles.
func opFilterDiode(ctx *ExecutionContext, inst *Instruction) {
	out := ctx.output(inst)
	in := ctx.input(inst.Inputs[0])
	freq := ctx.input(inst.Inputs[1])
	res := ctx.input(inst.Inputs[2])
	s := getOrCreate[DiodeState](ctx.States, inst.StateID)

	for i := range out {
		if freq[i] != s.lastFreq || res[i] != s.lastRes || s.g == 0 {
			s.lastFreq = freq[i]
			s.lastRes = res[i]
			s.g = onePoleG(freq[i], ctx.SampleRate)
			s.res = clampf(res[i], 0, 1) * 7.5
		}
		x := fastTanh(in[i] - s.res*s.stage[3])
		s.stage[0] = softClamp(s.stage[0] + s.g*(x-s.stage[0]+0.5*(s.stage[1]-s.stage[0])))
		s.stage[1] = softClamp(s.stage[1] + s.g*(s.stage[0]-s.stage[1]+0.5*(s.stage[2]-s.stage[1])))
		s.stage[2] = softClamp(s.stage[2] + s.g*(s.stage[1]-s.stage[2]+0.5*(s.stage[3]-s.stage[2])))
		s.stage[3] = softClamp(s.stage[3] + s.g*(s.stage[2]-s.stage[3]))
		out[i] = s.stage[3]
	}
}

// opFilterSallenKey is an MS-20 style 2-pole lowpass. Resonance 0..1 drives
// a saturated feedback path that self-oscillates near 1.
func opFilterSallenKey(ctx *ExecutionContext, inst *Instruction) {
	out := ctx.output(inst)
	in := ctx.input(inst.Inputs[0])
	freq := ctx.input(inst.Inputs[1])
	res := ctx.input(inst.Inputs[2])
	s := getOrCreate[SallenKeyState](ctx.States, inst.StateID)

	for i := range out {
		if freq[i] != s.lastFreq || res[i] != s.lastRes || s.g == 0 {
			s.lastFreq = freq[i]
			s.lastRes = res[i]
			g := tanf(PI * clampCutoff(freq[i], ctx.SampleRate) / ctx.SampleRate)
			s.g = g / (1 + g)
			s.k = clampf(res[i], 0, 1) * 2
		}
		x := in[i] - fastTanh(s.k*s.ic2eq)
		v1 := (x - s.ic1eq) * s.g
		lp1 := v1 + s.ic1eq
		s.ic1eq = softClamp(lp1 + v1)
		v2 := (lp1 - s.ic2eq) * s.g
		lp2 := v2 + s.ic2eq
		s.ic2eq = softClamp(lp2 + v2)
		out[i] = lp2
	}
}

// Formant centre frequencies and band gains for A E I O U.
var formantTable = [5]struct {
	freq [3]float32
	gain [3]float32
}{
	{[3]float32{800, 1150, 2900}, [3]float32{1, 0.5, 0.025}},
	{[3]float32{350, 2000, 2800}, [3]float32{1, 0.1, 0.18}},
	{[3]float32{270, 2140, 2950}, [3]float32{1, 0.25, 0.05}},
	{[3]float32{450, 800, 2830}, [3]float32{1, 0.28, 0.08}},
	{[3]float32{325, 700, 2700}, [3]float32{1, 0.25, 0.03}},
}

// opFilterFormant: in0 signal, in1 vowel position 0..4 (fractions morph),
// in2 band Q (10 when unwired or not positive).
func opFilterFormant(ctx *ExecutionContext, inst *Instruction) {
	out := ctx.output(inst)
	in := ctx.input(inst.Inputs[0])
	vowel := ctx.input(inst.Inputs[1])
	qIn := ctx.input(inst.Inputs[2])
	s := getOrCreate[FormantState](ctx.States, inst.StateID)

	for i := range out {
		v := clampf(vowel[i], 0, 4)
		q := qIn[i]
		if q <= 0 {
			q = 10
		}
		if v != s.lastVowel || q != s.lastQ {
			s.lastVowel = v
			s.lastQ = q
			lo := int(v)
			hi := lo + 1
			if hi > 4 {
				hi = 4
			}
			t := v - float32(lo)
			for b := 0; b < 3; b++ {
				f := formantTable[lo].freq[b] + t*(formantTable[hi].freq[b]-formantTable[lo].freq[b])
				s.gains[b] = formantTable[lo].gain[b] + t*(formantTable[hi].gain[b]-formantTable[lo].gain[b])
				s.bands[b].calc(f, q, ctx.SampleRate)
			}
		}
		var sum float32
		for b := 0; b < 3; b++ {
			bp, _ := s.bands[b].tick(in[i])
			sum += bp * s.gains[b]
		}
		out[i] = sum
	}
}
