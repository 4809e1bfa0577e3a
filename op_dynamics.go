// op_dynamics.go - Compressor, limiter and gate opcodes

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

// opDynamicsComp is a feedforward peak compressor.
// in0 signal, in1 threshold dB (-60..0), in2 ratio (1..20).
// Rate high nibble selects attack 0.1..100 ms, low nibble release 10..1000 ms.
func opDynamicsComp(ctx *ExecutionContext, inst *Instruction) {
	out := ctx.output(inst)
	in := ctx.input(inst.Inputs[0])
	threshold := ctx.input(inst.Inputs[1])
	ratio := ctx.input(inst.Inputs[2])
	s := getOrCreate[CompState](ctx.States, inst.StateID)

	attackMs := 0.1 + float32(inst.Rate>>4&0x0F)*(100-0.1)/15
	releaseMs := 10 + float32(inst.Rate&0x0F)*(1000-10)/15
	if attackMs != s.lastAttack || releaseMs != s.lastRelease || s.attackCoeff == 0 {
		s.lastAttack = attackMs
		s.lastRelease = releaseMs
		s.attackCoeff = timeCoeff(attackMs, ctx.SampleRate)
		s.releaseCoeff = timeCoeff(releaseMs, ctx.SampleRate)
	}

	for i := range out {
		x := in[i]
		ax := absf(x)
		if ax > s.envelope {
			s.envelope += s.attackCoeff * (ax - s.envelope)
		} else {
			s.envelope += s.releaseCoeff * (ax - s.envelope)
		}

		envDb := linearToDb(s.envelope + 1e-10)
		thresh := clampf(threshold[i], -60, 0)
		r := clampf(ratio[i], 1, 20)

		var gainDb float32
		if envDb > thresh {
			gainDb = thresh + (envDb-thresh)/r - envDb
		}
		s.gain = dbToLinear(gainDb)
		out[i] = x * s.gain
	}
}

// opDynamicsLimiter clamps peaks to a ceiling with instant attack.
// in0 signal, in1 ceiling dB (-12..0), in2 release ms (10..500).
// A non-zero rate delays the signal by LIMITER_LOOKAHEAD samples so gain
// reduction lands before the peak.
func opDynamicsLimiter(ctx *ExecutionContext, inst *Instruction) {
	out := ctx.output(inst)
	in := ctx.input(inst.Inputs[0])
	ceilingDb := ctx.input(inst.Inputs[1])
	releaseMs := ctx.input(inst.Inputs[2])
	s := getOrCreate[LimiterState](ctx.States, inst.StateID)
	if !s.ready {
		s.gain = 1
		s.ready = true
	}
	lookahead := inst.Rate != 0

	for i := range out {
		x := in[i]
		peak := absf(x)
		if lookahead {
			// The window max covers the incoming sample and everything still queued.
			s.lookahead[s.pos] = x
			s.pos = (s.pos + 1) % LIMITER_LOOKAHEAD
			x = s.lookahead[s.pos]
			for _, v := range s.lookahead {
				if a := absf(v); a > peak {
					peak = a
				}
			}
		}

		ceiling := dbToLinear(clampf(ceilingDb[i], -12, 0))
		target := float32(1)
		if peak > ceiling {
			target = ceiling / peak
		}
		if target < s.gain {
			s.gain = target
		} else {
			s.gain += timeCoeff(clampf(releaseMs[i], 10, 500), ctx.SampleRate) * (target - s.gain)
		}
		out[i] = x * s.gain
	}
}

const GATE_HYSTERESIS_DB = 6.0

// opDynamicsGate attenuates below threshold with hold and hysteresis.
// in0 signal, in1 threshold dB (-80..0), in2 range dB (-80..0).
// Rate bits 6-7 attack 0.1..10 ms, bits 4-5 hold 0..200 ms, bits 0-3 release 10..500 ms.
func opDynamicsGate(ctx *ExecutionContext, inst *Instruction) {
	out := ctx.output(inst)
	in := ctx.input(inst.Inputs[0])
	threshold := ctx.input(inst.Inputs[1])
	rangeDb := ctx.input(inst.Inputs[2])
	s := getOrCreate[GateState](ctx.States, inst.StateID)

	attackMs := 0.1 + float32(inst.Rate>>6&0x3)*(10-0.1)/3
	holdMs := float32(inst.Rate>>4&0x3) * 200 / 3
	releaseMs := 10 + float32(inst.Rate&0x0F)*(500-10)/15
	if attackMs != s.lastAttack || releaseMs != s.lastRelease || s.attackCoeff == 0 {
		s.lastAttack = attackMs
		s.lastRelease = releaseMs
		s.attackCoeff = timeCoeff(attackMs, ctx.SampleRate)
		s.releaseCoeff = timeCoeff(releaseMs, ctx.SampleRate)
	}
	holdSamples := holdMs * 0.001 * ctx.SampleRate

	for i := range out {
		x := in[i]
		ax := absf(x)
		coeff := s.releaseCoeff
		if ax > s.envelope {
			coeff = clampf(s.attackCoeff*4, 0, 1)
		}
		s.envelope += coeff * (ax - s.envelope)

		envDb := linearToDb(s.envelope + 1e-10)
		thresh := clampf(threshold[i], -80, 0)

		if s.open {
			if envDb < thresh-GATE_HYSTERESIS_DB {
				s.holdCounter++
				if s.holdCounter > holdSamples {
					s.open = false
					s.holdCounter = 0
				}
			} else {
				s.holdCounter = 0
			}
		} else if envDb > thresh {
			s.open = true
			s.holdCounter = 0
		}

		target := dbToLinear(clampf(rangeDb[i], -80, 0))
		if s.open {
			target = 1
		}
		gc := s.releaseCoeff
		if target > s.gain {
			gc = s.attackCoeff
		}
		s.gain += gc * (target - s.gain)
		out[i] = x * s.gain
	}
}
