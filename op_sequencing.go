// op_sequencing.go - Clock, LFO, step sequencers and pattern opcodes

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

// LFO shapes, selected by Rate
const (
	LFO_SIN = iota
	LFO_TRI
	LFO_SAW
	LFO_RAMP
	LFO_SQR
	LFO_PWM
	LFO_SAH
)

// opClock outputs the beat phase, or the bar phase when Rate is non-zero.
func opClock(ctx *ExecutionContext, inst *Instruction) {
	out := ctx.output(inst)
	spb := float64(ctx.SamplesPerBeat())
	period := spb
	if inst.Rate != 0 {
		period = spb * BEATS_PER_BAR
	}
	for i := range out {
		pos := float64(ctx.GlobalSampleCounter+uint64(i)) / period
		out[i] = float32(pos - float64(int64(pos)))
	}
}

// opLFO is a tempo-locked LFO. in0 is cycles per beat, in1 the duty for
// LFO_PWM. Phase comes from the sample counter so it survives seeks.
func opLFO(ctx *ExecutionContext, inst *Instruction) {
	out := ctx.output(inst)
	rate := ctx.input(inst.Inputs[0])
	duty := ctx.input(inst.Inputs[1])
	s := getOrCreate[LFOState](ctx.States, inst.StateID)
	spb := float64(ctx.SamplesPerBeat())

	for i := range out {
		beat := float64(ctx.GlobalSampleCounter+uint64(i)) / spb
		cycles := beat * float64(rate[i])
		phase := float32(cycles - floor64(cycles))

		var v float32
		switch inst.Rate {
		case LFO_TRI:
			v = 4*absf(phase-0.5) - 1
		case LFO_SAW:
			v = 2*phase - 1
		case LFO_RAMP:
			v = 1 - 2*phase
		case LFO_SQR:
			v = 1
			if phase >= 0.5 {
				v = -1
			}
		case LFO_PWM:
			d := duty[i]
			if inst.Inputs[1] == BUFFER_UNUSED {
				d = 0.5
			}
			v = 1
			if phase >= clampf(d, 0.01, 0.99) {
				v = -1
			}
		case LFO_SAH:
			if phase < s.prevPhase && s.prevPhase > 0.5 {
				h := splitmix64((ctx.GlobalSampleCounter + uint64(i)) ^ uint64(inst.StateID))
				s.shValue = hashToUnit(h)*2 - 1
			}
			v = s.shValue
		default:
			v = fastSinPhase(phase)
		}
		s.prevPhase = phase
		out[i] = v
	}
}

func floor64(x float64) float64 {
	i := float64(int64(x))
	if i > x {
		i--
	}
	return i
}

// opSeqStep plays a seeded step sequence. Out carries the value, in0 and
// in1 name the velocity and trigger outputs. The last event's value holds
// until the next one.
func opSeqStep(ctx *ExecutionContext, inst *Instruction) {
	out := ctx.output(inst)
	vel := ctx.sideOutput(inst.Inputs[0])
	trig := ctx.sideOutput(inst.Inputs[1])
	s := getOrCreate[SeqStepState](ctx.States, inst.StateID)

	if s.count == 0 {
		silence(out)
		if vel != nil {
			silence(vel)
		}
		if trig != nil {
			silence(trig)
		}
		return
	}

	cycle := float64(s.cycle)
	for i := range out {
		beat := ctx.BeatAtSample(i)
		pos := float32(beat - floor64(beat/cycle)*cycle)

		if pos < s.lastBeat {
			s.index = 0 // Wrapped into a new cycle
		}
		s.lastBeat = pos

		fired := false
		for s.index < s.count && s.times[s.index] <= pos {
			s.index++
			fired = true
		}

		// Before the cycle's first event the previous cycle's last event holds.
		current := s.count - 1
		if s.index > 0 {
			current = s.index - 1
		}
		value, velocity := s.values[current], s.velocities[current]
		out[i] = value
		if vel != nil {
			vel[i] = velocity
		}
		if trig != nil {
			trig[i] = 0
			if fired {
				trig[i] = 1
			}
		}
	}
}

// opEuclid outputs a one-sample trigger on each hit step. in0 is hits, in1
// steps, in2 rotation, all read at block start. The bar divides evenly
// into steps.
func opEuclid(ctx *ExecutionContext, inst *Instruction) {
	out := ctx.output(inst)
	hits := int(max(0, ctx.input(inst.Inputs[0])[0]))
	steps := int(max(1, ctx.input(inst.Inputs[1])[0]))
	rotation := int(max(0, ctx.input(inst.Inputs[2])[0]))
	s := getOrCreate[EuclidState](ctx.States, inst.StateID)

	if !s.valid || hits != s.hits || steps != s.steps || rotation != s.rotation {
		s.pattern = ComputeEuclideanPattern(hits, steps, rotation)
		s.hits, s.steps, s.rotation = hits, steps, rotation
		s.prevStep = ^uint32(0)
		s.valid = true
	}
	steps = min(steps, EUCLID_MAX_STEPS)

	stepLen := float64(ctx.SamplesPerBar()) / float64(steps)
	for i := range out {
		abs := uint64(float64(ctx.GlobalSampleCounter+uint64(i)) / stepLen)
		step := uint32(abs % uint64(steps))
		out[i] = 0
		if step != s.prevStep {
			if s.pattern&(1<<step) != 0 {
				out[i] = 1
			}
			s.prevStep = step
		}
	}
}

// opTrigger fires once per 1/in0 of a beat.
func opTrigger(ctx *ExecutionContext, inst *Instruction) {
	out := ctx.output(inst)
	div := ctx.input(inst.Inputs[0])
	s := getOrCreate[TriggerState](ctx.States, inst.StateID)
	spb := float64(ctx.SamplesPerBeat())

	for i := range out {
		out[i] = 0
		if div[i] <= 0 {
			continue
		}
		pos := float64(ctx.GlobalSampleCounter+uint64(i)) / spb * float64(div[i])
		phase := float32(pos - floor64(pos))
		if phase < s.prevPhase && s.prevPhase > 0.5 {
			out[i] = 1
		}
		s.prevPhase = phase
	}
}

// opTimeline interpolates the seeded breakpoints at the current beat.
func opTimeline(ctx *ExecutionContext, inst *Instruction) {
	out := ctx.output(inst)
	s := getOrCreate[TimelineState](ctx.States, inst.StateID)
	if s.count == 0 {
		silence(out)
		return
	}
	for i := range out {
		beat := ctx.BeatAtSample(i)
		if s.loop && s.loopLength > 0 {
			l := float64(s.loopLength)
			beat -= floor64(beat/l) * l
		}
		out[i] = s.valueAt(float32(beat))
	}
}

func (s *TimelineState) valueAt(t float32) float32 {
	pts := s.points[:s.count]
	if t <= pts[0].Time {
		return pts[0].Value
	}
	for k := 1; k < len(pts); k++ {
		if t >= pts[k].Time {
			continue
		}
		a, b := &pts[k-1], &pts[k]
		span := b.Time - a.Time
		if span <= 0 {
			return b.Value
		}
		x := (t - a.Time) / span
		switch a.Curve {
		case CURVE_HOLD:
			return a.Value
		case CURVE_EXP:
			x *= x
		}
		return a.Value + (b.Value-a.Value)*x
	}
	return pts[len(pts)-1].Value
}

// opSeqPatQuery renders a seeded pattern. Out is the value of voice Rate of
// the sounding event, held between events; in0 and in1 name the gate and
// trigger outputs.
func opSeqPatQuery(ctx *ExecutionContext, inst *Instruction) {
	out := ctx.output(inst)
	gate := ctx.sideOutput(inst.Inputs[0])
	trig := ctx.sideOutput(inst.Inputs[1])
	s := getOrCreate[PatternState](ctx.States, inst.StateID)
	cl := float64(s.seq.cycleLength())
	voice := int(inst.Rate)

	for i := range out {
		beat := ctx.BeatAtSample(i)
		cycle := int64(floor64(beat / cl))
		if QueryPattern(&s.seq, cycle) {
			s.prevActive = false
			s.stepIndex = -1
		}
		pos := float32(beat - float64(cycle)*cl)

		events := s.seq.Output()
		active := -1
		for k := 0; k < events.Count; k++ {
			e := &events.Events[k]
			if e.Time > pos {
				break
			}
			if pos < e.Time+e.Duration {
				active = k
			}
		}

		var g, t float32
		if active >= 0 {
			g = 1
			if !s.prevActive || active != s.stepIndex {
				t = 1
			}
			s.stepValue = events.Events[active].Value(voice)
			s.stepIndex = active
		}
		s.prevActive = active >= 0

		out[i] = s.stepValue
		if gate != nil {
			gate[i] = g
		}
		if trig != nil {
			trig[i] = t
		}
	}
}

// opSeqPatStep walks the events of sequence Rate one per beat, ignoring
// their times. in0 names the trigger output.
func opSeqPatStep(ctx *ExecutionContext, inst *Instruction) {
	out := ctx.output(inst)
	trig := ctx.sideOutput(inst.Inputs[0])
	s := getOrCreate[PatternState](ctx.States, inst.StateID)

	idx := int(inst.Rate)
	if idx >= s.seq.NumSequences || s.seq.Sequences[idx].NumEvents == 0 {
		silence(out)
		if trig != nil {
			silence(trig)
		}
		return
	}
	seq := &s.seq.Sequences[idx]

	for i := range out {
		beat := int64(floor64(ctx.BeatAtSample(i)))
		var t float32
		if beat != s.lastStepBeat {
			if s.lastStepBeat >= 0 {
				s.stepIndex = (s.stepIndex + 1) % seq.NumEvents
			}
			s.lastStepBeat = beat
			e := &seq.Events[s.stepIndex]
			s.stepValue = 0
			if e.NumValues > 0 {
				s.stepValue = e.Values[0]
			}
			t = 1
		}
		out[i] = s.stepValue
		if trig != nil {
			trig[i] = t
		}
	}
}
