// audio_lut.go - Lookup tables and band-limiting kernels for oscillators and shapers

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

// Lookup table sizes
const (
	sinLUTSize  = 8192           // ~0.00077 radian resolution
	sinLUTMask  = sinLUTSize - 1 // Mask for fast modulo
	tanhLUTSize = 4096
	tanhLUTMin  = float32(-4.0)
	tanhLUTMax  = float32(4.0)
)

const (
	sinLUTScale  = float32(sinLUTSize)                                // normalized phase to index
	tanhLUTScale = float32(tanhLUTSize-1) / (tanhLUTMax - tanhLUTMin) // input to index
)

var sinLUT [sinLUTSize]float32

var tanhLUT [tanhLUTSize]float32

// minblepTable holds MINBLEP_PHASES rows of MINBLEP_SAMPLES step residuals.
var minblepTable [MINBLEP_PHASES * MINBLEP_SAMPLES]float32

func init() {
	for i := 0; i < sinLUTSize; i++ {
		sinLUT[i] = float32(math.Sin(float64(i) * 2 * math.Pi / sinLUTSize))
	}
	for i := 0; i < tanhLUTSize; i++ {
		x := float64(tanhLUTMin) + float64(i)*float64(tanhLUTMax-tanhLUTMin)/float64(tanhLUTSize-1)
		tanhLUT[i] = float32(math.Tanh(x))
	}
	buildMinBLEPTable()
}

// fastSinPhase returns sin(2π·phase) for a normalized phase, interpolated.
//
//go:nosplit
func fastSinPhase(phase float32) float32 {
	phase -= float32(int(phase))
	if phase < 0 {
		phase += 1
	}
	indexF := phase * sinLUTScale
	index := int(indexF)
	frac := indexF - float32(index)
	index &= sinLUTMask
	next := (index + 1) & sinLUTMask
	return sinLUT[index] + frac*(sinLUT[next]-sinLUT[index])
}

// fastTanh is tanh over [-4, 4] with linear interpolation, ±1 outside.
//
//go:nosplit
func fastTanh(x float32) float32 {
	if x <= tanhLUTMin {
		return -1.0
	}
	if x >= tanhLUTMax {
		return 1.0
	}
	indexF := (x - tanhLUTMin) * tanhLUTScale
	index := int(indexF)
	frac := indexF - float32(index)
	if index >= tanhLUTSize-1 {
		return tanhLUT[tanhLUTSize-1]
	}
	return tanhLUT[index] + frac*(tanhLUT[index+1]-tanhLUT[index])
}

// polyBLEP is the step correction for phase t at increment dt.
//
//go:nosplit
func polyBLEP(t, dt float32) float32 {
	dt = absf(dt)
	if dt < 1e-8 {
		return 0
	}
	if t < dt {
		t /= dt
		return t + t - t*t - 1.0
	} else if t > 1.0-dt {
		t = (t - 1.0) / dt
		return t*t + t + t + 1.0
	}
	return 0.0
}

// polyBLEPDistance corrects around an edge at a signed phase distance, so
// rising and falling edges at arbitrary positions get identical treatment.
func polyBLEPDistance(distance, dt float32) float32 {
	if dt < 1e-8 {
		return 0
	}
	if distance >= 0 && distance < dt {
		t := distance / dt
		return t + t - t*t - 1.0
	} else if distance < 0 && distance > -dt {
		t := distance / dt
		return t*t + t + t + 1.0
	}
	return 0
}

// polyBLAMP is the integrated correction for slope discontinuities.
func polyBLAMP(t, dt float32) float32 {
	dt = absf(dt)
	if dt < 1e-8 {
		return 0
	}
	if t < dt {
		t = t/dt - 1.0
		return -1.0 / 3.0 * t * t * t
	} else if t > 1.0-dt {
		t = (t-1.0)/dt + 1.0
		return 1.0 / 3.0 * t * t * t
	}
	return 0
}

// buildMinBLEPTable integrates a Hann-windowed sinc into a band-limited step
// and stores its difference from the ideal step, one row per sub-sample
// offset of the edge.
func buildMinBLEPTable() {
	const (
		oversampling  = 32
		cutoff        = 0.9
		zeroCrossings = 8
		sincLen       = zeroCrossings * 2 * oversampling
		center        = zeroCrossings * oversampling
	)

	var step [sincLen]float64
	sum := 0.0
	for i := 0; i < sincLen; i++ {
		t := float64(i-center) / oversampling
		v := cutoff
		if math.Abs(t) >= 1e-7 {
			v = math.Sin(math.Pi*cutoff*t) / (math.Pi * t)
		}
		n := float64(i) / float64(sincLen-1)
		sum += v * 0.5 * (1 - math.Cos(2*math.Pi*n))
		step[i] = sum
	}
	if math.Abs(sum) > 1e-6 {
		for i := range step {
			step[i] /= sum
		}
	}

	for p := 0; p < MINBLEP_PHASES; p++ {
		frac := float64(p) / MINBLEP_PHASES
		for i := 0; i < MINBLEP_SAMPLES; i++ {
			pos := math.Max(float64(i)-frac, 0)
			os := center + int(math.Round(pos*oversampling))
			if os < sincLen {
				minblepTable[p*MINBLEP_SAMPLES+i] = float32(step[os] - 1)
			}
		}
	}
}
