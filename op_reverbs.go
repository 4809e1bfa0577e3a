// op_reverbs.go - Freeverb, Dattorro plate and FDN reverb opcodes

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

// Line lengths in samples, tuned at 44.1 kHz and used unscaled.
var (
	freeverbCombSizes    = [8]int{1116, 1188, 1277, 1356, 1422, 1491, 1557, 1617}
	freeverbAllpassSizes = [4]int{556, 441, 341, 225}

	dattorroInputSizes = [4]int{142, 107, 379, 277}
	dattorroDecaySizes = [2]int{672, 908}
	dattorroTankSizes  = [2]int{4453, 4217}

	fdnSizes = [4]int{1087, 1283, 1511, 1789}
)

const (
	FREEVERB_ROOM_SCALE      = 0.28
	FREEVERB_ROOM_OFFSET     = 0.7
	FREEVERB_ALLPASS_GAIN    = 0.5
	FREEVERB_MAX_FEEDBACK    = 0.98
	DATTORRO_INPUT_DIFFUSION = 0.75
	DATTORRO_DECAY_DIFFUSION = 0.625
	DATTORRO_MAX_DIFFUSION   = 0.95
	DATTORRO_LFO_HZ          = 0.5
	DATTORRO_MOD_SAMPLES     = 8.0
)

func (s *FreeverbState) ensure(arena *AudioArena) bool {
	if s.ready {
		return true
	}
	for i := range s.combs {
		if !s.combs[i].ensure(arena, freeverbCombSizes[i]) {
			return false
		}
	}
	for i := range s.allpasses {
		if !s.allpasses[i].ensure(arena, freeverbAllpassSizes[i]) {
			return false
		}
	}
	s.ready = true
	return true
}

// opReverbFreeverb: 8 damped combs in parallel into 4 series allpasses.
// in0 signal, in1 room 0..1, in2 damping 0..1, in3 room scale, in4 room offset.
// The resulting comb feedback is clamped below 1.
// Rate is the wet mix.
func opReverbFreeverb(ctx *ExecutionContext, inst *Instruction) {
	out := ctx.output(inst)
	in := ctx.input(inst.Inputs[0])
	room := ctx.input(inst.Inputs[1])
	damping := ctx.input(inst.Inputs[2])
	scaleIn := ctx.input(inst.Inputs[3])
	offsetIn := ctx.input(inst.Inputs[4])
	s := getOrCreate[FreeverbState](ctx.States, inst.StateID)

	if !s.ensure(ctx.Arena) {
		silence(out)
		return
	}
	var combs [8][]float32
	var aps [4][]float32
	for c := range combs {
		combs[c] = ctx.Arena.Slice(s.combs[c].buffer)
	}
	for a := range aps {
		aps[a] = ctx.Arena.Slice(s.allpasses[a].buffer)
	}
	mix := float32(inst.Rate) / 255

	for i := range out {
		x := in[i]
		damp := clampf(damping[i], 0, 1)
		fb := clampf(clampf(room[i], 0, 1)*orDefault(scaleIn[i], FREEVERB_ROOM_SCALE)+
			orDefault(offsetIn[i], FREEVERB_ROOM_OFFSET), 0, FREEVERB_MAX_FEEDBACK)

		var sum float32
		for c := range combs {
			line := &s.combs[c]
			delayed := combs[c][line.pos]
			line.filter = softClamp(delayed*(1-damp) + line.filter*damp)
			combs[c][line.pos] = x + fb*line.filter
			line.pos = (line.pos + 1) % len(combs[c])
			sum += delayed
		}
		y := sum * 0.125
		for a := range aps {
			y = allpassTick(aps[a], &s.allpasses[a].pos, y, FREEVERB_ALLPASS_GAIN)
		}
		out[i] = x*(1-mix) + y*mix
	}
}

func (s *DattorroState) ensure(arena *AudioArena) bool {
	if s.ready {
		return true
	}
	if !s.predelay.ensure(arena, PREDELAY_MAX_SAMPLES) {
		return false
	}
	for i := range s.inputAP {
		if !s.inputAP[i].ensure(arena, dattorroInputSizes[i]) {
			return false
		}
	}
	for i := range s.decayAP {
		if !s.decayAP[i].ensure(arena, dattorroDecaySizes[i]) {
			return false
		}
		if !s.tank[i].ensure(arena, DATTORRO_MAX_DELAY) {
			return false
		}
	}
	s.ready = true
	return true
}

// opReverbDattorro is a plate: predelay, four input diffusers, then a
// figure-eight tank of two modulated branches feeding each other.
// in0 signal, in1 decay 0..0.99, in2 predelay ms 0..100, in3 input diffusion,
// in4 decay diffusion, both clamped to 0..0.95. Rate low nibble damping,
// high nibble modulation depth.
func opReverbDattorro(ctx *ExecutionContext, inst *Instruction) {
	out := ctx.output(inst)
	in := ctx.input(inst.Inputs[0])
	decay := ctx.input(inst.Inputs[1])
	predelayMs := ctx.input(inst.Inputs[2])
	inDiffIn := ctx.input(inst.Inputs[3])
	decDiffIn := ctx.input(inst.Inputs[4])
	s := getOrCreate[DattorroState](ctx.States, inst.StateID)

	if !s.ensure(ctx.Arena) {
		silence(out)
		return
	}
	pre := ctx.Arena.Slice(s.predelay.buffer)
	var inAP [4][]float32
	var decAP, tank [2][]float32
	for k := range inAP {
		inAP[k] = ctx.Arena.Slice(s.inputAP[k].buffer)
	}
	for k := 0; k < 2; k++ {
		decAP[k] = ctx.Arena.Slice(s.decayAP[k].buffer)
		tank[k] = ctx.Arena.Slice(s.tank[k].buffer)
	}
	damping := float32(inst.Rate&0x0F) / 15
	modDepth := float32(inst.Rate>>4&0x0F) / 15

	for i := range out {
		dec := clampf(decay[i], 0, 0.99)
		inDiff := clampf(orDefault(inDiffIn[i], DATTORRO_INPUT_DIFFUSION), 0, DATTORRO_MAX_DIFFUSION)
		decDiff := clampf(orDefault(decDiffIn[i], DATTORRO_DECAY_DIFFUSION), 0, DATTORRO_MAX_DIFFUSION)

		pd := int(clampf(predelayMs[i], 0, 100) * 0.001 * ctx.SampleRate)
		if pd > len(pre)-1 {
			pd = len(pre) - 1
		}
		pre[s.predelay.pos] = in[i]
		x := pre[(s.predelay.pos+len(pre)-pd)%len(pre)]
		s.predelay.pos = (s.predelay.pos + 1) % len(pre)

		for k := range inAP {
			x = allpassTick(inAP[k], &s.inputAP[k].pos, x, inDiff)
		}

		s.lfoPhase = advancePhase(s.lfoPhase, DATTORRO_LFO_HZ*ctx.InvSampleRate)

		branchIn := [2]float32{x + dec*s.feedback[1], x + dec*s.feedback[0]}
		for b := 0; b < 2; b++ {
			diffused := allpassTick(decAP[b], &s.decayAP[b].pos, branchIn[b], decDiff)

			mod := fastSinPhase(s.lfoPhase+0.5*float32(b)) * modDepth * DATTORRO_MOD_SAMPLES
			line := &s.tank[b]
			tapped := readDelay(tank[b], line.pos, float32(dattorroTankSizes[b])+mod)
			tank[b][line.pos] = diffused * dec
			line.pos = (line.pos + 1) % len(tank[b])

			s.damp[b] = softClamp(tapped*(1-damping) + s.damp[b]*damping)
			s.feedback[b] = s.damp[b]
		}
		out[i] = (s.feedback[0] + s.feedback[1]) * 0.5
	}
}

func (s *FDNState) ensure(arena *AudioArena) bool {
	if s.ready {
		return true
	}
	for i := range s.lines {
		if !s.lines[i].ensure(arena, FDN_MAX_DELAY) {
			return false
		}
	}
	s.ready = true
	return true
}

// opReverbFDN is a 4-line feedback delay network mixed by a normalized
// Hadamard matrix. in0 signal, in1 decay 0..0.99, in2 damping 0..1.
// Rate scales the line lengths by 0.5..1.5.
func opReverbFDN(ctx *ExecutionContext, inst *Instruction) {
	out := ctx.output(inst)
	in := ctx.input(inst.Inputs[0])
	decay := ctx.input(inst.Inputs[1])
	damping := ctx.input(inst.Inputs[2])
	s := getOrCreate[FDNState](ctx.States, inst.StateID)

	if !s.ensure(ctx.Arena) {
		silence(out)
		return
	}
	var bufs [4][]float32
	var lengths [4]int
	sizeMod := 0.5 + float32(inst.Rate)/255
	for d := range bufs {
		bufs[d] = ctx.Arena.Slice(s.lines[d].buffer)
		n := int(float32(fdnSizes[d]) * sizeMod)
		lengths[d] = max(1, min(n, len(bufs[d])-1))
	}

	for i := range out {
		dec := clampf(decay[i], 0, 0.99)
		damp := clampf(damping[i], 0, 1)

		var tap [4]float32
		for d := range tap {
			line := &s.lines[d]
			v := bufs[d][(line.pos+len(bufs[d])-lengths[d])%len(bufs[d])]
			line.filter = softClamp(v*(1-damp) + line.filter*damp)
			tap[d] = line.filter
		}
		mixed := [4]float32{
			0.5 * (tap[0] + tap[1] + tap[2] + tap[3]),
			0.5 * (tap[0] - tap[1] + tap[2] - tap[3]),
			0.5 * (tap[0] + tap[1] - tap[2] - tap[3]),
			0.5 * (tap[0] - tap[1] - tap[2] + tap[3]),
		}
		var sum float32
		for d := range tap {
			line := &s.lines[d]
			bufs[d][line.pos] = in[i] + mixed[d]*dec
			line.pos = (line.pos + 1) % len(bufs[d])
			sum += tap[d]
		}
		out[i] = sum * 0.25
	}
}
