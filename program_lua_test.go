// program_lua_test.go - Lua program script tests

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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const kickScript = `
dsp.name("kick")
dsp.bpm(128)
dsp.param("decay", 0.2)

local pat = dsp.hash("kick/pat")
dsp.pattern(pat, {
  cycle = 4,
  seed = 9,
  sequences = {
    { events = {
        { time = 0, dur = 1, values = {1} },
        { time = 2, dur = 1, seq = 1 },
    } },
    { mode = "alternate", events = {
        { time = 0, dur = 1, values = {0.5} },
        { time = 0, dur = 1, values = {0.8}, chance = 0.5 },
    } },
  },
})
dsp.op("seqpat_query", 1, {2, 3}, pat)
dsp.op("env_ar", 4, {3, dsp.UNUSED, dsp.UNUSED}, "kick/env")
dsp.op("output", 0, {4})
`

func TestRunProgramSource_Pattern(t *testing.T) {
	prog, err := RunProgramSource("inline", kickScript, nil)
	require.NoError(t, err)

	assert.Equal(t, "kick", prog.Name)
	assert.Equal(t, float32(128), prog.BPM)
	assert.Equal(t, []ParamSeed{{Name: "decay", Value: 0.2}}, prog.Params)
	require.Len(t, prog.Instructions, 3)

	q := prog.Instructions[0]
	assert.Equal(t, OP_SEQPAT_QUERY, q.Opcode)
	assert.Equal(t, FNV1a("kick/pat"), q.StateID)
	assert.Equal(t, uint16(2), q.Inputs[0])
	assert.Equal(t, uint16(BUFFER_UNUSED), q.Inputs[2])
	assert.Equal(t, FNV1a("kick/env"), prog.Instructions[1].StateID)

	require.Len(t, prog.Seeds, 1)
	st := prog.Seeds[0].Pattern
	require.NotNil(t, st)
	assert.Equal(t, 2, st.NumSequences)
	assert.Equal(t, SEQ_MODE_ALTERNATE, st.Sequences[1].Mode)
	assert.Equal(t, EVENT_SUB_SEQ, st.Sequences[0].Events[1].Type)
	assert.Equal(t, float32(0.5), st.Sequences[1].Events[1].Degrade)

	require.NoError(t, ValidateProgram(prog))
	vm := newTestVM(t)
	require.NoError(t, applyProgram(vm, prog, true))
	l, _ := renderOutput(vm, 8)
	assert.Positive(t, peakAbs(l), "kick pattern produced silence")
}

func TestRunProgramSource_Sequencers(t *testing.T) {
	prog, err := RunProgramSource("seq", `
dsp.seq_step("bass/steps", {0, 1, 2, 3}, {40, 43, 47, 50}, {1, 0.7})
dsp.timeline(7, {{0, 0}, {4, 1, 1}}, true, 8)
dsp.op("seq_step", 1, {dsp.UNUSED, 2}, "bass/steps")
dsp.op("timeline", 3, {}, 7)
`, nil)
	require.NoError(t, err)
	require.Len(t, prog.Seeds, 2)

	step := prog.Seeds[0]
	assert.Equal(t, SEED_STEP_SEQUENCE, step.Kind)
	assert.Equal(t, FNV1a("bass/steps"), step.StateID)
	assert.Equal(t, []float32{40, 43, 47, 50}, step.StepSeq.Values)
	assert.Equal(t, float32(BEATS_PER_BAR), step.StepSeq.Cycle)

	tl := prog.Seeds[1]
	assert.Equal(t, uint32(7), tl.StateID)
	assert.True(t, tl.Timeline.Loop)
	assert.Equal(t, Breakpoint{Time: 4, Value: 1, Curve: CURVE_EXP}, tl.Timeline.Points[1])
}

func TestRunProgramSource_Samples(t *testing.T) {
	bank := NewSampleBank()
	prog, err := RunProgramSource("samples", `
local click = dsp.make_sample("click", {1, 0.5, 0.25, 0}, 1, 48000)
local snare = dsp.sample("snare")
local again = dsp.sample("click")
dsp.const(1, click)
dsp.const(2, snare)
dsp.const(3, again)
`, bank)
	require.NoError(t, err)
	assert.Equal(t, 1, bank.Len())
	assert.Equal(t, []string{"snare", "click"}, prog.SampleNames)
	assert.Equal(t, float32(1), prog.Instructions[0].ConstValue())
	assert.Equal(t, float32(1), prog.Instructions[2].ConstValue(), "known names resolve to the bank id")

	_, err = RunProgramSource("nobank", `dsp.make_sample("x", {1})`, nil)
	assert.ErrorContains(t, err, "no sample bank")
}

func TestRunProgramSource_Errors(t *testing.T) {
	for name, src := range map[string]string{
		"unknown opcode": `dsp.op("warp_drive", 1)`,
		"buffer range":   `dsp.op("osc_sin", 300, {1})`,
		"bad mode":       `dsp.pattern(1, {sequences = {{mode = "chaos"}}})`,
		"no sequences":   `dsp.pattern(1, {})`,
		"bad bpm":        `dsp.bpm(0)`,
		"syntax":         `dsp.op(`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := RunProgramSource(name, src, nil)
			assert.Error(t, err)
		})
	}
}
