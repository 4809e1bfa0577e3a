// dsp_dispatch.go - Opcode dispatch table

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

type opFunc func(*ExecutionContext, *Instruction)

// opTable maps each opcode to its routine. Unassigned entries stay nil and
// execute as no-ops.
var opTable [256]opFunc

func init() {
	opTable[OP_NOP] = opNop
	opTable[OP_PUSH_CONST] = opPushConst
	opTable[OP_COPY] = opCopy

	opTable[OP_ADD] = opAdd
	opTable[OP_SUB] = opSub
	opTable[OP_MUL] = opMul
	opTable[OP_DIV] = opDiv
	opTable[OP_POW] = opPow
	opTable[OP_NEG] = opNeg

	opTable[OP_OSC_SIN] = opOscSin
	opTable[OP_OSC_TRI] = opOscTri
	opTable[OP_OSC_SAW] = opOscSaw
	opTable[OP_OSC_SQR] = opOscSqr
	opTable[OP_OSC_RAMP] = opOscRamp
	opTable[OP_OSC_PHASOR] = opOscPhasor
	opTable[OP_OSC_SQR_MINBLEP] = opOscSqrMinBLEP
	opTable[OP_OSC_SQR_PWM] = opOscSqrPWM
	opTable[OP_OSC_SAW_PWM] = opOscSawPWM
	opTable[OP_OSC_SQR_PWM_MINBLEP] = opOscSqrPWMMinBLEP
	opTable[OP_OSC_SIN_2X] = opOscSin2x
	opTable[OP_OSC_SIN_4X] = opOscSin4x
	opTable[OP_OSC_SAW_2X] = opOscSaw2x
	opTable[OP_OSC_SAW_4X] = opOscSaw4x
	opTable[OP_OSC_SQR_2X] = opOscSqr2x
	opTable[OP_OSC_SQR_4X] = opOscSqr4x
	opTable[OP_OSC_TRI_2X] = opOscTri2x
	opTable[OP_OSC_TRI_4X] = opOscTri4x
	opTable[OP_OSC_SQR_PWM_4X] = opOscSqrPWM4x
	opTable[OP_OSC_SAW_PWM_4X] = opOscSawPWM4x

	opTable[OP_FILTER_SVF_LP] = opFilterSVFLP
	opTable[OP_FILTER_SVF_HP] = opFilterSVFHP
	opTable[OP_FILTER_SVF_BP] = opFilterSVFBP
	opTable[OP_FILTER_MOOG] = opFilterMoog
	opTable[OP_FILTER_DIODE] = opFilterDiode
	opTable[OP_FILTER_SALLENKEY] = opFilterSallenKey
	opTable[OP_FILTER_FORMANT] = opFilterFormant

	opTable[OP_ABS] = opAbs
	opTable[OP_SQRT] = opSqrt
	opTable[OP_LOG] = opLog
	opTable[OP_EXP] = opExp
	opTable[OP_MIN] = opMin
	opTable[OP_MAX] = opMax
	opTable[OP_CLAMP] = opClamp
	opTable[OP_WRAP] = opWrap
	opTable[OP_FLOOR] = opFloor
	opTable[OP_CEIL] = opCeil
	opTable[OP_MATH_SIN] = opMathSin
	opTable[OP_MATH_COS] = opMathCos
	opTable[OP_MATH_TAN] = opMathTan
	opTable[OP_MATH_TANH] = opMathTanh
	opTable[OP_MOD] = opMod

	opTable[OP_OUTPUT] = opOutput
	opTable[OP_NOISE] = opNoise
	opTable[OP_MTOF] = opMtof
	opTable[OP_DC] = opDC
	opTable[OP_SLEW] = opSlew
	opTable[OP_SAH] = opSAH
	opTable[OP_ENV_GET] = opEnvGet

	opTable[OP_ENV_ADSR] = opEnvADSR
	opTable[OP_ENV_AR] = opEnvAR
	opTable[OP_ENV_FOLLOWER] = opEnvFollower

	opTable[OP_DELAY] = opDelay
	opTable[OP_DELAY_SYNC] = opDelaySync

	opTable[OP_CLOCK] = opClock
	opTable[OP_LFO] = opLFO
	opTable[OP_SEQ_STEP] = opSeqStep
	opTable[OP_EUCLID] = opEuclid
	opTable[OP_TRIGGER] = opTrigger
	opTable[OP_TIMELINE] = opTimeline
	opTable[OP_SEQPAT_QUERY] = opSeqPatQuery
	opTable[OP_SEQPAT_STEP] = opSeqPatStep

	opTable[OP_GT] = opGt
	opTable[OP_LT] = opLt
	opTable[OP_EQ] = opEq
	opTable[OP_SELECT] = opSelect
	opTable[OP_AND] = opAnd
	opTable[OP_OR] = opOr
	opTable[OP_NOT] = opNot

	opTable[OP_REVERB_FREEVERB] = opReverbFreeverb
	opTable[OP_REVERB_DATTORRO] = opReverbDattorro
	opTable[OP_REVERB_FDN] = opReverbFDN

	opTable[OP_EFFECT_CHORUS] = opEffectChorus
	opTable[OP_EFFECT_FLANGER] = opEffectFlanger
	opTable[OP_EFFECT_PHASER] = opEffectPhaser
	opTable[OP_EFFECT_COMB] = opEffectComb

	opTable[OP_DISTORT_TANH] = opDistortTanh
	opTable[OP_DISTORT_SOFT] = opDistortSoft
	opTable[OP_DISTORT_BITCRUSH] = opDistortBitcrush
	opTable[OP_DISTORT_FOLD] = opDistortFold

	opTable[OP_DYNAMICS_COMP] = opDynamicsComp
	opTable[OP_DYNAMICS_LIMITER] = opDynamicsLimiter
	opTable[OP_DYNAMICS_GATE] = opDynamicsGate

	opTable[OP_SAMPLE_PLAY] = opSamplePlay
	opTable[OP_SAMPLE_PLAY_LOOP] = opSamplePlayLoop
}
