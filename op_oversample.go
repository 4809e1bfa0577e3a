// op_oversample.go - Halfband oversampling for nonlinear stages and oscillators

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

// Halfband kernel taps; h[1] and h[5] are zero.
var halfbandCoeffs = [4]float32{0.07322047, 0, 0.30677953, 0.5}

// halfband is a 2x zero-stuffing interpolator with a short delay ring.
type halfband struct {
	delay [4]float32
	idx   int
}

// up returns two samples at twice the rate for input x.
func (h *halfband) up(x float32) (float32, float32) {
	h.delay[h.idx] = x
	i := h.idx
	sum := h.delay[i] * halfbandCoeffs[3]
	i = (i + 3) & 3
	sum += h.delay[i] * halfbandCoeffs[2]
	i = (i + 3) & 3
	sum += h.delay[i] * halfbandCoeffs[0]
	h.idx = (h.idx + 1) & 3
	return sum * 2, x
}

// Oversampler runs a shaping function at 1x, 2x or 4x and averages back down.
type Oversampler struct {
	stage1  halfband
	stage2a halfband
	stage2b halfband
}

func (o *Oversampler) process(x float32, factor int, shape func(float32) float32) float32 {
	switch factor {
	case 1:
		return shape(x)
	case 2:
		a, b := o.stage1.up(x)
		return (shape(a) + shape(b)) * 0.5
	default:
		a, b := o.stage1.up(x)
		a0, a1 := o.stage2a.up(a)
		b0, b1 := o.stage2b.up(b)
		return (shape(a0) + shape(a1) + shape(b0) + shape(b1)) * 0.25
	}
}

// oversampleFactor decodes Instruction.Reserved: 0 or 1 is off, 2 and 4 select the rate.
func oversampleFactor(inst *Instruction) int {
	switch inst.Reserved & 0x7 {
	case 2:
		return 2
	case 4:
		return 4
	default:
		return 1
	}
}

func downsample2x(a, b float32) float32 { return (a + b) * 0.5 }

func downsample4x(a, b, c, d float32) float32 {
	return downsample2x(downsample2x(a, b), downsample2x(c, d))
}
