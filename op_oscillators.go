// op_oscillators.go - Band-limited oscillator opcodes

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

// Oscillator input layout:
//   basic:  in0 freq, in1 phase offset, in2 trigger
//   pwm:    in0 freq, in1 pwm (-1..1), in2 phase offset, in3 trigger
// A rising trigger edge resets the phase to the offset and drops any
// pending band-limiting correction.

// waveFn evaluates one sample of a waveform. mod is the pwm input.
type waveFn func(phase, dt, mod float32, corrected bool) float32

func oscInputs(ctx *ExecutionContext, inst *Instruction, pwm bool) (freq, mod, offset, trig *Block) {
	freq = ctx.input(inst.Inputs[0])
	if pwm {
		return freq, ctx.input(inst.Inputs[1]), ctx.input(inst.Inputs[2]), ctx.input(inst.Inputs[3])
	}
	return freq, ctx.Buffers.Zero(), ctx.input(inst.Inputs[1]), ctx.input(inst.Inputs[2])
}

// checkPhaseReset handles the trigger convention and reports a reset.
func (s *OscState) checkPhaseReset(trigger, offset float32) bool {
	triggered := trigger > 0 && s.prevTrigger <= 0
	s.prevTrigger = trigger
	if triggered {
		s.phase = wrapPhase(offset)
		s.initialized = false
	}
	return triggered
}

func waveSin(phase, dt, mod float32, corrected bool) float32 {
	return sinf(phase * TWO_PI)
}

func wavePhasor(phase, dt, mod float32, corrected bool) float32 {
	return phase
}

func waveSaw(phase, dt, mod float32, corrected bool) float32 {
	v := 2*phase - 1
	if corrected {
		v -= polyBLEP(phase, dt)
	}
	return v
}

func waveRamp(phase, dt, mod float32, corrected bool) float32 {
	v := 1 - 2*phase
	if corrected {
		v += polyBLEP(phase, dt)
	}
	return v
}

func waveSqr(phase, dt, mod float32, corrected bool) float32 {
	v := float32(-1)
	if phase < 0.5 {
		v = 1
	}
	if corrected {
		v += polyBLEP(phase, dt)
		t := phase + 0.5
		if t >= 1 {
			t -= 1
		}
		v -= polyBLEP(t, dt)
	}
	return v
}

// waveTri peaks at phase 0 and bottoms out at 0.5.
func waveTri(phase, dt, mod float32, corrected bool) float32 {
	v := 4*absf(phase-0.5) - 1
	if corrected {
		blamp := polyBLAMP(phase, dt)
		half := phase + 0.5
		if half >= 1 {
			half -= 1
		}
		blamp -= polyBLAMP(half, dt)
		v += 4 * dt * blamp
	}
	return v
}

func pwmDuty(pwm float32) float32 {
	return clampf(0.5+clampf(pwm, -1, 1)*0.5, 0.001, 0.999)
}

func waveSqrPWM(phase, dt, pwm float32, corrected bool) float32 {
	duty := pwmDuty(pwm)
	v := float32(-1)
	if phase < duty {
		v = 1
	}
	if corrected {
		v += polyBLEP(phase, dt)
		dist := phase - duty
		if dist > 0.5 {
			dist -= 1
		}
		if dist < -0.5 {
			dist += 1
		}
		v -= polyBLEPDistance(dist, dt)
	}
	return v
}

// waveSawPWM morphs rising saw (-1) through triangle (0) to falling ramp (+1).
func waveSawPWM(phase, dt, pwm float32, corrected bool) float32 {
	mid := clampf((1+clampf(pwm, -1, 1))*0.5, 0.01, 0.99)
	var v float32
	if phase < mid {
		v = 2*phase/mid - 1
	} else {
		v = 1 - 2*(phase-mid)/(1-mid)
	}
	if corrected {
		blamp := polyBLAMP(phase, dt)
		atMid := phase - mid
		if atMid < 0 {
			atMid += 1
		}
		blamp -= polyBLAMP(atMid, dt)
		slopeDiff := 2/mid + 2/(1-mid)
		v += slopeDiff * dt * blamp
	}
	return v
}

// runOsc renders a waveform at the base rate.
func runOsc(ctx *ExecutionContext, inst *Instruction, wave waveFn, pwm bool) {
	out := ctx.output(inst)
	freq, mod, offset, trig := oscInputs(ctx, inst, pwm)
	s := getOrCreate[OscState](ctx.States, inst.StateID)
	for i := range out {
		s.checkPhaseReset(trig[i], offset[i])
		dt := freq[i] * ctx.InvSampleRate
		out[i] = wave(s.phase, dt, mod[i], s.initialized)
		s.prevPhase = s.phase
		s.phase = advancePhase(s.phase, dt)
		s.initialized = true
	}
}

// runOscOversampled renders factor sub-samples per output sample, with the
// frequency interpolated toward the next input sample, then averages down.
func runOscOversampled(ctx *ExecutionContext, inst *Instruction, wave waveFn, pwm bool, factor int) {
	out := ctx.output(inst)
	freq, mod, offset, trig := oscInputs(ctx, inst, pwm)
	s := getOrCreate[OscOversampleState](ctx.States, inst.StateID)
	invSR := ctx.InvSampleRate / float32(factor)
	step := 1 / float32(factor)

	var sub [4]float32
	for i := range out {
		s.checkPhaseReset(trig[i], offset[i])
		fCur := freq[i]
		fNext := fCur
		if i+1 < BLOCK_SIZE {
			fNext = freq[i+1]
		}
		for j := 0; j < factor; j++ {
			f := fCur + float32(j)*step*(fNext-fCur)
			dt := f * invSR
			sub[j] = wave(s.phase, dt, mod[i], s.initialized)
			s.prevPhase = s.phase
			s.phase = advancePhase(s.phase, dt)
			s.initialized = true
		}
		if factor == 2 {
			out[i] = downsample2x(sub[0], sub[1])
		} else {
			out[i] = downsample4x(sub[0], sub[1], sub[2], sub[3])
		}
	}
}

func opOscSin(ctx *ExecutionContext, inst *Instruction)    { runOsc(ctx, inst, waveSin, false) }
func opOscTri(ctx *ExecutionContext, inst *Instruction)    { runOsc(ctx, inst, waveTri, false) }
func opOscSaw(ctx *ExecutionContext, inst *Instruction)    { runOsc(ctx, inst, waveSaw, false) }
func opOscSqr(ctx *ExecutionContext, inst *Instruction)    { runOsc(ctx, inst, waveSqr, false) }
func opOscRamp(ctx *ExecutionContext, inst *Instruction)   { runOsc(ctx, inst, waveRamp, false) }
func opOscPhasor(ctx *ExecutionContext, inst *Instruction) { runOsc(ctx, inst, wavePhasor, false) }
func opOscSqrPWM(ctx *ExecutionContext, inst *Instruction) { runOsc(ctx, inst, waveSqrPWM, true) }
func opOscSawPWM(ctx *ExecutionContext, inst *Instruction) { runOsc(ctx, inst, waveSawPWM, true) }

func opOscSin2x(ctx *ExecutionContext, inst *Instruction) {
	runOscOversampled(ctx, inst, waveSin, false, 2)
}
func opOscSin4x(ctx *ExecutionContext, inst *Instruction) {
	runOscOversampled(ctx, inst, waveSin, false, 4)
}
func opOscSaw2x(ctx *ExecutionContext, inst *Instruction) {
	runOscOversampled(ctx, inst, waveSaw, false, 2)
}
func opOscSaw4x(ctx *ExecutionContext, inst *Instruction) {
	runOscOversampled(ctx, inst, waveSaw, false, 4)
}
func opOscSqr2x(ctx *ExecutionContext, inst *Instruction) {
	runOscOversampled(ctx, inst, waveSqr, false, 2)
}
func opOscSqr4x(ctx *ExecutionContext, inst *Instruction) {
	runOscOversampled(ctx, inst, waveSqr, false, 4)
}
func opOscTri2x(ctx *ExecutionContext, inst *Instruction) {
	runOscOversampled(ctx, inst, waveTri, false, 2)
}
func opOscTri4x(ctx *ExecutionContext, inst *Instruction) {
	runOscOversampled(ctx, inst, waveTri, false, 4)
}
func opOscSqrPWM4x(ctx *ExecutionContext, inst *Instruction) {
	runOscOversampled(ctx, inst, waveSqrPWM, true, 4)
}
func opOscSawPWM4x(ctx *ExecutionContext, inst *Instruction) {
	runOscOversampled(ctx, inst, waveSawPWM, true, 4)
}

// MinBLEP square: edges land on the sample after the crossing and the
// tabulated residual smooths the step over the following samples.
func opOscSqrMinBLEP(ctx *ExecutionContext, inst *Instruction) {
	runMinBLEPSquare(ctx, inst, false)
}

func opOscSqrPWMMinBLEP(ctx *ExecutionContext, inst *Instruction) {
	runMinBLEPSquare(ctx, inst, true)
}

func runMinBLEPSquare(ctx *ExecutionContext, inst *Instruction, pwm bool) {
	out := ctx.output(inst)
	freq, mod, offset, trig := oscInputs(ctx, inst, pwm)
	s := getOrCreate[MinBLEPOscState](ctx.States, inst.StateID)

	for i := range out {
		if s.checkPhaseReset(trig[i], offset[i]) {
			s.clearResidual()
		}
		dt := freq[i] * ctx.InvSampleRate
		duty := float32(0.5)
		if pwm {
			duty = pwmDuty(mod[i])
		}

		naive := float32(-1)
		if s.phase < duty {
			naive = 1
		}
		next := s.phase + dt

		if s.initialized {
			if next >= 1 {
				var frac float32
				if pwm && dt > 1e-8 {
					frac = (next - 1) / dt
				}
				s.addStep(2, frac)
				naive = 1
			}
			if s.phase < duty && next >= duty {
				var frac float32
				if pwm && dt > 1e-8 {
					frac = (next - duty) / dt
				}
				s.addStep(-2, frac)
				naive = -1
			}
		}

		out[i] = naive + s.nextResidual()

		s.prevPhase = s.phase
		s.phase = next
		if s.phase >= 1 {
			s.phase -= 1
		}
		s.initialized = true
	}
}
