// op_envelopes.go - Envelope generator opcodes

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

// envCoeff reaches ~99% of a step in seconds (five time constants, -4.6).
func envCoeff(seconds, sampleRate float32) float32 {
	if seconds < 0.001 {
		seconds = 0.001
	}
	return 1 - expf(-4.6/(seconds*sampleRate))
}

func (s *EnvState) updateCoeffs(attack, decay, release, sampleRate float32) {
	if attack != s.lastAttack || s.attackCoeff == 0 {
		s.lastAttack = attack
		s.attackCoeff = envCoeff(attack, sampleRate)
	}
	if decay != s.lastDecay || s.decayCoeff == 0 {
		s.lastDecay = decay
		s.decayCoeff = envCoeff(decay, sampleRate)
	}
	if release != s.lastRelease || s.releaseCoeff == 0 {
		s.lastRelease = release
		s.releaseCoeff = envCoeff(release, sampleRate)
	}
}

// opEnvADSR: in0 gate, in1 attack s, in2 decay s, in3 sustain 0..1.
// Release time is Rate tenths of a second (0.3 s when zero). A gate that
// falls during attack or decay leaves a pending release, taken once the
// envelope reaches sustain.
func opEnvADSR(ctx *ExecutionContext, inst *Instruction) {
	out := ctx.output(inst)
	gate := ctx.input(inst.Inputs[0])
	attack := ctx.input(inst.Inputs[1])
	decay := ctx.input(inst.Inputs[2])
	sustain := ctx.input(inst.Inputs[3])
	s := getOrCreate[EnvState](ctx.States, inst.StateID)

	release := float32(inst.Rate) * 0.1
	if release < 0.001 {
		release = 0.3
	}

	for i := range out {
		g := gate[i]
		on := g > 0 && s.prevGate <= 0
		off := g <= 0 && s.prevGate > 0
		s.prevGate = g

		if on {
			s.stage = ENV_STAGE_ATTACK
			s.releasePending = false
		}
		if off {
			switch s.stage {
			case ENV_STAGE_SUSTAIN:
				s.stage = ENV_STAGE_RELEASE
			case ENV_STAGE_ATTACK, ENV_STAGE_DECAY:
				s.releasePending = true
			}
		}

		s.updateCoeffs(attack[i], decay[i], release, ctx.SampleRate)
		sus := sustain[i]

		switch s.stage {
		case ENV_STAGE_ATTACK:
			s.level += s.attackCoeff * (1 - s.level)
			if s.level >= 0.999 {
				s.level = 1
				s.stage = ENV_STAGE_DECAY
			}
		case ENV_STAGE_DECAY:
			s.level += s.decayCoeff * (sus - s.level)
			if absf(s.level-sus) < 0.001 {
				s.level = sus
				s.stage = ENV_STAGE_SUSTAIN
			}
		case ENV_STAGE_SUSTAIN:
			s.level = sus
			if s.releasePending {
				s.releasePending = false
				s.stage = ENV_STAGE_RELEASE
			}
		case ENV_STAGE_RELEASE:
			s.level -= s.releaseCoeff * s.level
			if s.level < 0.001 {
				s.level = 0
				s.stage = ENV_STAGE_IDLE
			}
		default:
			s.stage = ENV_STAGE_IDLE
			s.level = 0
		}
		out[i] = s.level
	}
}

// opEnvAR is a one-shot: a rising trigger runs attack then release.
// in0 trigger, in1 attack s, in2 release s.
func opEnvAR(ctx *ExecutionContext, inst *Instruction) {
	out := ctx.output(inst)
	trig := ctx.input(inst.Inputs[0])
	attack := ctx.input(inst.Inputs[1])
	release := ctx.input(inst.Inputs[2])
	s := getOrCreate[EnvState](ctx.States, inst.StateID)

	for i := range out {
		if trig[i] > 0 && s.prevGate <= 0 {
			s.stage = ENV_STAGE_ATTACK
		}
		s.prevGate = trig[i]
		s.updateCoeffs(attack[i], s.lastDecay, release[i], ctx.SampleRate)

		switch s.stage {
		case ENV_STAGE_ATTACK:
			s.level += s.attackCoeff * (1 - s.level)
			if s.level >= 0.999 {
				s.level = 1
				s.stage = ENV_STAGE_RELEASE
			}
		case ENV_STAGE_RELEASE:
			s.level -= s.releaseCoeff * s.level
			if s.level < 0.001 {
				s.level = 0
				s.stage = ENV_STAGE_IDLE
			}
		default:
			s.stage = ENV_STAGE_IDLE
			s.level = 0
		}
		out[i] = s.level
	}
}

// opEnvFollower tracks |in0| with in1 attack and in2 release, both seconds.
func opEnvFollower(ctx *ExecutionContext, inst *Instruction) {
	out := ctx.output(inst)
	in := ctx.input(inst.Inputs[0])
	attack := ctx.input(inst.Inputs[1])
	release := ctx.input(inst.Inputs[2])
	s := getOrCreate[FollowerState](ctx.States, inst.StateID)

	for i := range out {
		if attack[i] != s.lastAttack || s.attackCoeff == 0 {
			s.lastAttack = attack[i]
			s.attackCoeff = 1 - expf(-1/(max(0.001, attack[i])*ctx.SampleRate))
		}
		if release[i] != s.lastRelease || s.releaseCoeff == 0 {
			s.lastRelease = release[i]
			s.releaseCoeff = 1 - expf(-1/(max(0.001, release[i])*ctx.SampleRate))
		}
		ax := absf(in[i])
		if ax > s.envelope {
			s.envelope += s.attackCoeff * (ax - s.envelope)
		} else {
			s.envelope += s.releaseCoeff * (ax - s.envelope)
		}
		out[i] = s.envelope
	}
}
