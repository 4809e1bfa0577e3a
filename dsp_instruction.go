// dsp_instruction.go - Instruction encoding and opcode table

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

import (
	"math"
	"strconv"
)

// Opcode identifies one processing routine. Values are grouped by family
// so a disassembly stays readable.
type Opcode uint8

const (
	OP_NOP        Opcode = 0
	OP_PUSH_CONST Opcode = 1
	OP_COPY       Opcode = 2

	OP_ADD Opcode = 10
	OP_SUB Opcode = 11
	OP_MUL Opcode = 12
	OP_DIV Opcode = 13
	OP_POW Opcode = 14
	OP_NEG Opcode = 15

	OP_OSC_SIN             Opcode = 20
	OP_OSC_TRI             Opcode = 21
	OP_OSC_SAW             Opcode = 22
	OP_OSC_SQR             Opcode = 23
	OP_OSC_RAMP            Opcode = 24
	OP_OSC_PHASOR          Opcode = 25
	OP_OSC_SQR_MINBLEP     Opcode = 26
	OP_OSC_SQR_PWM         Opcode = 27
	OP_OSC_SAW_PWM         Opcode = 28
	OP_OSC_SQR_PWM_MINBLEP Opcode = 29

	OP_FILTER_SVF_LP    Opcode = 30
	OP_FILTER_SVF_HP    Opcode = 31
	OP_FILTER_SVF_BP    Opcode = 32
	OP_FILTER_MOOG      Opcode = 33
	OP_FILTER_DIODE     Opcode = 34
	OP_FILTER_SALLENKEY Opcode = 35
	OP_FILTER_FORMANT   Opcode = 36

	OP_ABS   Opcode = 40
	OP_SQRT  Opcode = 41
	OP_LOG   Opcode = 42
	OP_EXP   Opcode = 43
	OP_MIN   Opcode = 44
	OP_MAX   Opcode = 45
	OP_CLAMP Opcode = 46
	OP_WRAP  Opcode = 47
	OP_FLOOR Opcode = 48
	OP_CEIL  Opcode = 49

	OP_OUTPUT  Opcode = 50
	OP_NOISE   Opcode = 51
	OP_MTOF    Opcode = 52
	OP_DC      Opcode = 53
	OP_SLEW    Opcode = 54
	OP_SAH     Opcode = 55
	OP_ENV_GET Opcode = 56

	OP_ENV_ADSR     Opcode = 60
	OP_ENV_AR       Opcode = 61
	OP_ENV_FOLLOWER Opcode = 62

	OP_DELAY      Opcode = 70
	OP_DELAY_SYNC Opcode = 71

	OP_MATH_SIN  Opcode = 80
	OP_MATH_COS  Opcode = 81
	OP_MATH_TAN  Opcode = 82
	OP_MATH_TANH Opcode = 83
	OP_MOD       Opcode = 84

	OP_CLOCK        Opcode = 90
	OP_LFO          Opcode = 91
	OP_SEQ_STEP     Opcode = 92
	OP_EUCLID       Opcode = 93
	OP_TRIGGER      Opcode = 94
	OP_TIMELINE     Opcode = 95
	OP_SEQPAT_QUERY Opcode = 96
	OP_SEQPAT_STEP  Opcode = 97

	OP_OSC_SIN_2X     Opcode = 110
	OP_OSC_SIN_4X     Opcode = 111
	OP_OSC_SAW_2X     Opcode = 112
	OP_OSC_SAW_4X     Opcode = 113
	OP_OSC_SQR_2X     Opcode = 114
	OP_OSC_SQR_4X     Opcode = 115
	OP_OSC_TRI_2X     Opcode = 116
	OP_OSC_TRI_4X     Opcode = 117
	OP_OSC_SQR_PWM_4X Opcode = 118
	OP_OSC_SAW_PWM_4X Opcode = 119

	OP_GT     Opcode = 120
	OP_LT     Opcode = 121
	OP_EQ     Opcode = 122
	OP_SELECT Opcode = 123
	OP_AND    Opcode = 124
	OP_OR     Opcode = 125
	OP_NOT    Opcode = 126

	OP_REVERB_FREEVERB Opcode = 130
	OP_REVERB_DATTORRO Opcode = 131
	OP_REVERB_FDN      Opcode = 132

	OP_EFFECT_CHORUS  Opcode = 140
	OP_EFFECT_FLANGER Opcode = 141
	OP_EFFECT_PHASER  Opcode = 142
	OP_EFFECT_COMB    Opcode = 143

	OP_DISTORT_TANH     Opcode = 150
	OP_DISTORT_SOFT     Opcode = 151
	OP_DISTORT_BITCRUSH Opcode = 152
	OP_DISTORT_FOLD     Opcode = 153

	OP_DYNAMICS_COMP    Opcode = 160
	OP_DYNAMICS_LIMITER Opcode = 161
	OP_DYNAMICS_GATE    Opcode = 162

	OP_SAMPLE_PLAY      Opcode = 170
	OP_SAMPLE_PLAY_LOOP Opcode = 171

	OP_INVALID Opcode = 255
)

// Instruction is one step of a program. Inputs not wired hold BUFFER_UNUSED.
type Instruction struct {
	Opcode   Opcode
	Rate     uint8              // Packed per-opcode parameter (mix, shape, nibbles)
	Out      uint16             // Output buffer
	Inputs   [NUM_INPUTS]uint16 // Input buffers
	Reserved uint16             // Secondary packed parameter (oversampling factor)
	StateID  uint32             // Call-site hash or float immediate
}

// MakeInstruction builds an instruction with the given inputs; the rest are left unused.
func MakeInstruction(op Opcode, out uint16, stateID uint32, inputs ...uint16) Instruction {
	inst := Instruction{Opcode: op, Out: out, StateID: stateID}
	for i := range inst.Inputs {
		inst.Inputs[i] = BUFFER_UNUSED
	}
	copy(inst.Inputs[:], inputs)
	return inst
}

// ConstStateID packs a float immediate into a state id.
func ConstStateID(v float32) uint32 {
	return math.Float32bits(v)
}

// ConstValue recovers the float immediate of PUSH_CONST, DC and SLEW style opcodes.
func (inst *Instruction) ConstValue() float32 {
	return math.Float32frombits(inst.StateID)
}

// Opcode families, used by the disassembler and by seek to find history-dependent state.
const (
	FAMILY_CORE = iota
	FAMILY_ARITH
	FAMILY_OSC
	FAMILY_FILTER
	FAMILY_MATH
	FAMILY_UTILITY
	FAMILY_ENVELOPE
	FAMILY_DELAY
	FAMILY_SEQUENCING
	FAMILY_LOGIC
	FAMILY_REVERB
	FAMILY_MODULATION
	FAMILY_DISTORTION
	FAMILY_DYNAMICS
	FAMILY_SAMPLER
)

// OpcodeInfo describes an opcode for tooling and load-time checks.
type OpcodeInfo struct {
	Name      string
	MinInputs int // Inputs that must be wired
	Family    int
	Valid     bool
	Stateful  bool // StateID addresses a state record rather than an immediate
}

var opcodeTable [256]OpcodeInfo

var opcodeByName = map[string]Opcode{}

func defOp(op Opcode, name string, minInputs, family int) {
	stateless := family == FAMILY_ARITH || family == FAMILY_MATH || family == FAMILY_LOGIC
	switch op {
	case OP_NOP, OP_PUSH_CONST, OP_COPY, OP_DC, OP_OUTPUT, OP_MTOF, OP_ENV_GET, OP_CLOCK:
		stateless = true
	}
	opcodeTable[op] = OpcodeInfo{Name: name, MinInputs: minInputs, Family: family, Valid: true, Stateful: !stateless}
	opcodeByName[name] = op
}

func init() {
	defOp(OP_NOP, "NOP", 0, FAMILY_CORE)
	defOp(OP_PUSH_CONST, "PUSH_CONST", 0, FAMILY_CORE)
	defOp(OP_COPY, "COPY", 1, FAMILY_CORE)

	defOp(OP_ADD, "ADD", 2, FAMILY_ARITH)
	defOp(OP_SUB, "SUB", 2, FAMILY_ARITH)
	defOp(OP_MUL, "MUL", 2, FAMILY_ARITH)
	defOp(OP_DIV, "DIV", 2, FAMILY_ARITH)
	defOp(OP_POW, "POW", 2, FAMILY_ARITH)
	defOp(OP_NEG, "NEG", 1, FAMILY_ARITH)

	defOp(OP_OSC_SIN, "OSC_SIN", 1, FAMILY_OSC)
	defOp(OP_OSC_TRI, "OSC_TRI", 1, FAMILY_OSC)
	defOp(OP_OSC_SAW, "OSC_SAW", 1, FAMILY_OSC)
	defOp(OP_OSC_SQR, "OSC_SQR", 1, FAMILY_OSC)
	defOp(OP_OSC_RAMP, "OSC_RAMP", 1, FAMILY_OSC)
	defOp(OP_OSC_PHASOR, "OSC_PHASOR", 1, FAMILY_OSC)
	defOp(OP_OSC_SQR_MINBLEP, "OSC_SQR_MINBLEP", 1, FAMILY_OSC)
	defOp(OP_OSC_SQR_PWM, "OSC_SQR_PWM", 2, FAMILY_OSC)
	defOp(OP_OSC_SAW_PWM, "OSC_SAW_PWM", 2, FAMILY_OSC)
	defOp(OP_OSC_SQR_PWM_MINBLEP, "OSC_SQR_PWM_MINBLEP", 2, FAMILY_OSC)
	defOp(OP_OSC_SIN_2X, "OSC_SIN_2X", 1, FAMILY_OSC)
	defOp(OP_OSC_SIN_4X, "OSC_SIN_4X", 1, FAMILY_OSC)
	defOp(OP_OSC_SAW_2X, "OSC_SAW_2X", 1, FAMILY_OSC)
	defOp(OP_OSC_SAW_4X, "OSC_SAW_4X", 1, FAMILY_OSC)
	defOp(OP_OSC_SQR_2X, "OSC_SQR_2X", 1, FAMILY_OSC)
	defOp(OP_OSC_SQR_4X, "OSC_SQR_4X", 1, FAMILY_OSC)
	defOp(OP_OSC_TRI_2X, "OSC_TRI_2X", 1, FAMILY_OSC)
	defOp(OP_OSC_TRI_4X, "OSC_TRI_4X", 1, FAMILY_OSC)
	defOp(OP_OSC_SQR_PWM_4X, "OSC_SQR_PWM_4X", 2, FAMILY_OSC)
	defOp(OP_OSC_SAW_PWM_4X, "OSC_SAW_PWM_4X", 2, FAMILY_OSC)

	defOp(OP_FILTER_SVF_LP, "FILTER_SVF_LP", 3, FAMILY_FILTER)
	defOp(OP_FILTER_SVF_HP, "FILTER_SVF_HP", 3, FAMILY_FILTER)
	defOp(OP_FILTER_SVF_BP, "FILTER_SVF_BP", 3, FAMILY_FILTER)
	defOp(OP_FILTER_MOOG, "FILTER_MOOG", 3, FAMILY_FILTER)
	defOp(OP_FILTER_DIODE, "FILTER_DIODE", 3, FAMILY_FILTER)
	defOp(OP_FILTER_SALLENKEY, "FILTER_SALLENKEY", 3, FAMILY_FILTER)
	defOp(OP_FILTER_FORMANT, "FILTER_FORMANT", 2, FAMILY_FILTER)

	defOp(OP_ABS, "ABS", 1, FAMILY_MATH)
	defOp(OP_SQRT, "SQRT", 1, FAMILY_MATH)
	defOp(OP_LOG, "LOG", 1, FAMILY_MATH)
	defOp(OP_EXP, "EXP", 1, FAMILY_MATH)
	defOp(OP_MIN, "MIN", 2, FAMILY_MATH)
	defOp(OP_MAX, "MAX", 2, FAMILY_MATH)
	defOp(OP_CLAMP, "CLAMP", 3, FAMILY_MATH)
	defOp(OP_WRAP, "WRAP", 3, FAMILY_MATH)
	defOp(OP_FLOOR, "FLOOR", 1, FAMILY_MATH)
	defOp(OP_CEIL, "CEIL", 1, FAMILY_MATH)
	defOp(OP_MATH_SIN, "SIN", 1, FAMILY_MATH)
	defOp(OP_MATH_COS, "COS", 1, FAMILY_MATH)
	defOp(OP_MATH_TAN, "TAN", 1, FAMILY_MATH)
	defOp(OP_MATH_TANH, "TANH", 1, FAMILY_MATH)
	defOp(OP_MOD, "MOD", 2, FAMILY_MATH)

	defOp(OP_OUTPUT, "OUTPUT", 1, FAMILY_UTILITY)
	defOp(OP_NOISE, "NOISE", 0, FAMILY_UTILITY)
	defOp(OP_MTOF, "MTOF", 1, FAMILY_UTILITY)
	defOp(OP_DC, "DC", 1, FAMILY_UTILITY)
	defOp(OP_SLEW, "SLEW", 1, FAMILY_UTILITY)
	defOp(OP_SAH, "SAH", 2, FAMILY_UTILITY)
	defOp(OP_ENV_GET, "ENV_GET", 0, FAMILY_UTILITY)

	defOp(OP_ENV_ADSR, "ENV_ADSR", 1, FAMILY_ENVELOPE)
	defOp(OP_ENV_AR, "ENV_AR", 1, FAMILY_ENVELOPE)
	defOp(OP_ENV_FOLLOWER, "ENV_FOLLOWER", 1, FAMILY_ENVELOPE)

	defOp(OP_DELAY, "DELAY", 2, FAMILY_DELAY)
	defOp(OP_DELAY_SYNC, "DELAY_SYNC", 2, FAMILY_DELAY)

	defOp(OP_CLOCK, "CLOCK", 0, FAMILY_SEQUENCING)
	defOp(OP_LFO, "LFO", 1, FAMILY_SEQUENCING)
	defOp(OP_SEQ_STEP, "SEQ_STEP", 0, FAMILY_SEQUENCING)
	defOp(OP_EUCLID, "EUCLID", 2, FAMILY_SEQUENCING)
	defOp(OP_TRIGGER, "TRIGGER", 1, FAMILY_SEQUENCING)
	defOp(OP_TIMELINE, "TIMELINE", 0, FAMILY_SEQUENCING)
	defOp(OP_SEQPAT_QUERY, "SEQPAT_QUERY", 0, FAMILY_SEQUENCING)
	defOp(OP_SEQPAT_STEP, "SEQPAT_STEP", 0, FAMILY_SEQUENCING)

	defOp(OP_GT, "GT", 2, FAMILY_LOGIC)
	defOp(OP_LT, "LT", 2, FAMILY_LOGIC)
	defOp(OP_EQ, "EQ", 2, FAMILY_LOGIC)
	defOp(OP_SELECT, "SELECT", 3, FAMILY_LOGIC)
	defOp(OP_AND, "AND", 2, FAMILY_LOGIC)
	defOp(OP_OR, "OR", 2, FAMILY_LOGIC)
	defOp(OP_NOT, "NOT", 1, FAMILY_LOGIC)

	defOp(OP_REVERB_FREEVERB, "REVERB_FREEVERB", 1, FAMILY_REVERB)
	defOp(OP_REVERB_DATTORRO, "REVERB_DATTORRO", 1, FAMILY_REVERB)
	defOp(OP_REVERB_FDN, "REVERB_FDN", 1, FAMILY_REVERB)

	defOp(OP_EFFECT_CHORUS, "EFFECT_CHORUS", 1, FAMILY_MODULATION)
	defOp(OP_EFFECT_FLANGER, "EFFECT_FLANGER", 1, FAMILY_MODULATION)
	defOp(OP_EFFECT_PHASER, "EFFECT_PHASER", 1, FAMILY_MODULATION)
	defOp(OP_EFFECT_COMB, "EFFECT_COMB", 1, FAMILY_MODULATION)

	defOp(OP_DISTORT_TANH, "DISTORT_TANH", 1, FAMILY_DISTORTION)
	defOp(OP_DISTORT_SOFT, "DISTORT_SOFT", 1, FAMILY_DISTORTION)
	defOp(OP_DISTORT_BITCRUSH, "DISTORT_BITCRUSH", 1, FAMILY_DISTORTION)
	defOp(OP_DISTORT_FOLD, "DISTORT_FOLD", 1, FAMILY_DISTORTION)

	defOp(OP_DYNAMICS_COMP, "DYNAMICS_COMP", 1, FAMILY_DYNAMICS)
	defOp(OP_DYNAMICS_LIMITER, "DYNAMICS_LIMITER", 1, FAMILY_DYNAMICS)
	defOp(OP_DYNAMICS_GATE, "DYNAMICS_GATE", 1, FAMILY_DYNAMICS)

	defOp(OP_SAMPLE_PLAY, "SAMPLE_PLAY", 1, FAMILY_SAMPLER)
	defOp(OP_SAMPLE_PLAY_LOOP, "SAMPLE_PLAY_LOOP", 1, FAMILY_SAMPLER)

	opcodeTable[OP_INVALID] = OpcodeInfo{Name: "INVALID"}
}

// String returns the mnemonic, or OP_<n> for unassigned codes.
func (op Opcode) String() string {
	if info := opcodeTable[op]; info.Name != "" {
		return info.Name
	}
	return "OP_" + strconv.Itoa(int(op))
}

// Info returns the table entry for op.
func (op Opcode) Info() OpcodeInfo {
	return opcodeTable[op]
}

// LookupOpcode resolves a mnemonic.
func LookupOpcode(name string) (Opcode, bool) {
	op, ok := opcodeByName[name]
	return op, ok
}
