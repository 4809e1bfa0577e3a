// dsp_constants.go - Engine-wide constants for the DSP virtual machine

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

// Block and pool geometry
const (
	BLOCK_SIZE       = 128    // Samples per processed block
	MAX_BUFFERS      = 256    // Buffer pool capacity (register file)
	BUFFER_ZERO      = 255    // Read-only buffer holding silence
	BUFFER_UNUSED    = 0xFFFF // Input not wired
	MAX_STATES       = 256    // State pool capacity
	MAX_FADING       = 64     // States allowed to fade out at once
	OVERFLOW_STATES  = 16     // Spill records for ids beyond MAX_STATES
	MAX_PROGRAM_SIZE = 4096   // Instructions per program
	MAX_ENV_PARAMS   = 256    // Named live parameters
	ENV_MAP_SLOTS    = 512    // Hash slots for live parameters
	NUM_INPUTS       = 6      // Input operands per instruction
)

// Transport defaults
const (
	DEFAULT_SAMPLE_RATE   = 48000.0
	DEFAULT_BPM           = 120.0
	BEATS_PER_BAR         = 4
	DEFAULT_SLEW_MS       = 5.0
	DEFAULT_FADE_BLOCKS   = 3
	DEFAULT_ARENA_MIB     = 32
	ARENA_ALIGN_FLOATS    = 8 // 32 bytes
	MIN_CROSSFADE_BLOCKS  = 2
	MAX_CROSSFADE_BLOCKS  = 5
	DEFAULT_XFADE_BLOCKS  = 3
	SWAP_SLOT_COUNT       = 3
	TIME_QUANTUM_PER_BEAT = 10000.0 // Quantization for deterministic randomness
)

// Processing rates carried in Instruction.Rate by convention
const (
	RATE_AUDIO   = 0
	RATE_CONTROL = 1
)

// Filter safety limits
const (
	FILTER_MIN_CUTOFF   = 20.0
	FILTER_MAX_CUTOFF_K = 0.49 // Fraction of sample rate
	FILTER_MIN_Q        = 0.1
	FILTER_STATE_LIMIT  = 10.0
	DENORMAL_BIAS       = 1e-18
)

// Effect buffer sizes (samples)
const (
	DELAY_MAX_MS         = 2000.0
	DELAY_MAX_SAMPLES    = 192000
	DELAY_SYNC_MAX_BEATS = 4.0
	COMB_MAX_SAMPLES     = 4800
	FLANGER_MAX_SAMPLES  = 2048
	CHORUS_MAX_SAMPLES   = 4096
	LIMITER_LOOKAHEAD    = 48
	PHASER_MAX_STAGES    = 12
	PREDELAY_MAX_SAMPLES = 4800
	DATTORRO_MAX_DELAY   = 5000
	FDN_MAX_DELAY        = 4096
	MINBLEP_PHASES       = 64
	MINBLEP_SAMPLES      = 64
	MINBLEP_RING         = 64
	SAMPLER_VOICES       = 16
	SAMPLER_RAMP         = 5
	TIMELINE_MAX_POINTS  = 64
	SEQ_STEP_MAX_EVENTS  = 64
)

// Pattern subsystem bounds
const (
	SEQ_MAX_EVENTS    = 8
	SEQ_MAX_SEQUENCES = 4
	SEQ_MAX_OUTPUT    = 16
	SEQ_MAX_VALUES    = 4
	SEQ_MAX_DEPTH     = 8
	EUCLID_MAX_STEPS  = 32
)

const (
	PI      = math.Pi
	TWO_PI  = 2 * math.Pi
	HALF_PI = math.Pi / 2
)
