// op_delays.go - Delay line opcodes and shared circular-buffer helpers

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

// readDelay interpolates the sample delay samples behind writePos, where
// writePos is the slot about to be written.
func readDelay(buf []float32, writePos int, delay float32) float32 {
	size := len(buf)
	delay = clampf(delay, 1, float32(size-1))
	pos := float32(writePos) - delay
	if pos < 0 {
		pos += float32(size)
	}
	i0 := int(pos)
	if i0 >= size {
		i0 -= size
	}
	i1 := i0 + 1
	if i1 == size {
		i1 = 0
	}
	frac := pos - float32(int(pos))
	return buf[i0]*(1-frac) + buf[i1]*frac
}

// allpassTick is the Schroeder allpass on a fixed-length line.
func allpassTick(buf []float32, pos *int, x, gain float32) float32 {
	delayed := buf[*pos]
	y := delayed - gain*x
	buf[*pos] = x + gain*y
	*pos++
	if *pos == len(buf) {
		*pos = 0
	}
	return y
}

func silence(out *Block) {
	*out = Block{}
}

// runDelay is the shared body of DELAY and DELAY_SYNC. toSamples converts
// the in1 value into a delay length.
func runDelay(ctx *ExecutionContext, inst *Instruction, maxSamples int, toSamples float32) {
	out := ctx.output(inst)
	in := ctx.input(inst.Inputs[0])
	delayIn := ctx.input(inst.Inputs[1])
	feedback := ctx.input(inst.Inputs[2])
	s := getOrCreate[DelayState](ctx.States, inst.StateID)

	if maxSamples > DELAY_MAX_SAMPLES {
		maxSamples = DELAY_MAX_SAMPLES
	}
	if !s.ensureBuffer(ctx.Arena, maxSamples) {
		silence(out)
		return
	}
	buf := ctx.Arena.Slice(s.buffer)
	size := len(buf)
	mix := float32(inst.Rate) / 255

	for i := range out {
		delayed := readDelay(buf, s.writePos, clampf(delayIn[i]*toSamples, 0, float32(size-2)))
		fb := clampf(feedback[i], 0, 0.99)
		buf[s.writePos] = in[i] + delayed*fb
		s.writePos++
		if s.writePos == size {
			s.writePos = 0
		}
		out[i] = in[i]*(1-mix) + delayed*mix
	}
}

// opDelay: in0 signal, in1 time ms (up to 2 s), in2 feedback. Rate is wet mix.
func opDelay(ctx *ExecutionContext, inst *Instruction) {
	maxSamples := int(DELAY_MAX_MS*0.001*ctx.SampleRate) + 1
	runDelay(ctx, inst, maxSamples, 0.001*ctx.SampleRate)
}

// opDelaySync: in1 is the time in beats, up to four.
func opDelaySync(ctx *ExecutionContext, inst *Instruction) {
	spb := ctx.SamplesPerBeat()
	runDelay(ctx, inst, int(DELAY_SYNC_MAX_BEATS*spb)+1, spb)
}
