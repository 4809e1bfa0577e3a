// dsp_utils.go - Float32 math helpers shared by opcode routines

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

import "math"

func clampf(x, lo, hi float32) float32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

func absf(x float32) float32  { return math.Float32frombits(math.Float32bits(x) &^ (1 << 31)) }
func sinf(x float32) float32  { return float32(math.Sin(float64(x))) }
func cosf(x float32) float32  { return float32(math.Cos(float64(x))) }
func tanf(x float32) float32  { return float32(math.Tan(float64(x))) }
func tanhf(x float32) float32 { return float32(math.Tanh(float64(x))) }
func expf(x float32) float32  { return float32(math.Exp(float64(x))) }
func sqrtf(x float32) float32 { return float32(math.Sqrt(float64(x))) }
func powf(x, y float32) float32 {
	return float32(math.Pow(float64(x), float64(y)))
}
func fmodf(x, y float32) float32 {
	return float32(math.Mod(float64(x), float64(y)))
}
func floorf(x float32) float32 { return float32(math.Floor(float64(x))) }
func roundf(x float32) float32 { return float32(math.Round(float64(x))) }

// wrapPhase folds x into [0, 1).
func wrapPhase(x float32) float32 {
	x = fmodf(x, 1)
	if x < 0 {
		x += 1
	}
	if x >= 1 {
		x = 0
	}
	return x
}

// advancePhase adds dt and wraps once in either direction.
func advancePhase(phase, dt float32) float32 {
	phase += dt
	if phase >= 1 {
		phase -= 1
	} else if phase < 0 {
		phase += 1
	}
	return phase
}

// softClamp bounds filter memory and adds the anti-denormal bias.
func softClamp(x float32) float32 {
	if x > FILTER_STATE_LIMIT {
		x = FILTER_STATE_LIMIT
	} else if x < -FILTER_STATE_LIMIT {
		x = -FILTER_STATE_LIMIT
	}
	return x + DENORMAL_BIAS
}

// clampCutoff keeps a filter cutoff inside [20 Hz, 0.49·sr].
func clampCutoff(freq, sampleRate float32) float32 {
	return clampf(freq, FILTER_MIN_CUTOFF, sampleRate*FILTER_MAX_CUTOFF_K)
}

func dbToLinear(db float32) float32 { return float32(math.Pow(10, float64(db)/20)) }

func linearToDb(x float32) float32 {
	if x < 1e-10 {
		return -200
	}
	return float32(20 * math.Log10(float64(x)))
}

// timeCoeff is the one-pole coefficient reaching ~99% of a step in ms milliseconds.
func timeCoeff(ms, sampleRate float32) float32 {
	samples := ms * 0.001 * sampleRate
	if samples < 1 {
		return 1
	}
	return 1 - expf(-1/samples)
}

// FNV1a hashes a parameter or call-site path. Env map keys and ENV_GET
// state ids use the same function.
func FNV1a(s string) uint32 {
	h := uint32(2166136261)
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= 16777619
	}
	return h
}

func splitmix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}

// hashToUnit maps a hash to [0, 1).
func hashToUnit(h uint64) float32 {
	return float32(h>>40) / float32(1<<24)
}
