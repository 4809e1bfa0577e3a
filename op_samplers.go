// op_samplers.go - Sample playback opcodes

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

// Both samplers take in0 trigger or gate, in1 pitch ratio (1 = original),
// in2 sample id. Id 0 or an id missing from the bank plays nothing.

func startVoice(s *SamplerState, data *SampleData, id uint32, pitch float32) {
	v := s.allocateVoice()
	*v = SamplerVoice{sampleID: id, speed: pitch, active: true}
	// Material that already starts at zero needs no anti-click ramp.
	if absf(data.GetInterpolated(0, 0)) <= 0.01 {
		v.attack = SAMPLER_RAMP
	}
}

func (v *SamplerVoice) attackGain() float32 {
	if v.attack >= SAMPLER_RAMP {
		return 1
	}
	g := float32(v.attack) / SAMPLER_RAMP
	v.attack++
	return g
}

// opSamplePlay starts a one-shot voice on each rising trigger edge.
func opSamplePlay(ctx *ExecutionContext, inst *Instruction) {
	out := ctx.output(inst)
	trig := ctx.input(inst.Inputs[0])
	pitch := ctx.input(inst.Inputs[1])
	ids := ctx.input(inst.Inputs[2])
	s := getOrCreate[SamplerState](ctx.States, inst.StateID)
	bank := ctx.Samples

	for i := range out {
		p := max(0.01, pitch[i])
		id := uint32(ids[i])
		on := trig[i] > 0 && s.prevTrigger <= 0
		s.prevTrigger = trig[i]

		if on && id != 0 && bank != nil {
			if data := bank.Get(id); data.FrameCount() > 0 {
				startVoice(s, data, id, p)
			}
		}

		var mix float32
		for k := range s.voices {
			v := &s.voices[k]
			if !v.active {
				continue
			}
			var data *SampleData
			if bank != nil {
				data = bank.Get(v.sampleID)
			}
			frames := data.FrameCount()
			if frames == 0 {
				v.active = false
				continue
			}
			mix += data.Mono(v.position, false) * v.attackGain()
			v.position += v.speed * data.SampleRate * ctx.InvSampleRate
			if v.position >= float32(frames) {
				v.active = false
			}
		}
		out[i] = clampf(mix, -2, 2)
	}
}

// opSamplePlayLoop loops while the gate is high and fades out over
// SAMPLER_RAMP samples once it drops. The id is read once per block.
func opSamplePlayLoop(ctx *ExecutionContext, inst *Instruction) {
	out := ctx.output(inst)
	gate := ctx.input(inst.Inputs[0])
	pitch := ctx.input(inst.Inputs[1])
	ids := ctx.input(inst.Inputs[2])
	s := getOrCreate[SamplerState](ctx.States, inst.StateID)

	id := uint32(ids[0])
	var data *SampleData
	if ctx.Samples != nil && id != 0 {
		data = ctx.Samples.Get(id)
	}
	frames := data.FrameCount()
	if frames == 0 {
		for i := range out {
			s.prevTrigger = gate[i]
			out[i] = 0
		}
		return
	}

	for i := range out {
		g := gate[i]
		on := g > 0 && s.prevTrigger <= 0
		off := g <= 0 && s.prevTrigger > 0
		s.prevTrigger = g

		if on {
			startVoice(s, data, id, max(0.01, pitch[i]))
		}
		if off {
			for k := range s.voices {
				if v := &s.voices[k]; v.active && v.sampleID == id {
					v.fadingOut = true
					v.fadeCount = 0
				}
			}
		}

		var mix float32
		for k := range s.voices {
			v := &s.voices[k]
			if !v.active || v.sampleID != id {
				continue
			}
			env := float32(1)
			if v.fadingOut {
				env = 1 - float32(v.fadeCount)/SAMPLER_RAMP
				v.fadeCount++
				if v.fadeCount >= SAMPLER_RAMP {
					v.active = false
					v.fadingOut = false
				}
			} else {
				env = v.attackGain()
			}
			mix += data.Mono(v.position, true) * env
			v.position += v.speed * data.SampleRate * ctx.InvSampleRate
			if v.position >= float32(frames) {
				v.position = fmodf(v.position, float32(frames))
			}
		}
		out[i] = clampf(mix, -2, 2)
	}
}
