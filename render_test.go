// render_test.go - Offline render and plot tests

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
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dcProgram(name string, v float32) *Program {
	return &Program{
		Name: name,
		Instructions: []Instruction{
			constInst(1, v),
			MakeInstruction(OP_OUTPUT, 0, 0, 1),
		},
	}
}

func TestRenderProgram_Length(t *testing.T) {
	vm, err := NewProgramVM(DefaultVMConfig(), dcProgram("dc", 0.25))
	require.NoError(t, err)

	l, r, err := RenderProgram(context.Background(), vm, 0.01)
	require.NoError(t, err)
	assert.Len(t, l, 480)
	assert.Len(t, r, 480)
	assert.Equal(t, float32(0.25), l[len(l)-1])
}

func TestNewProgramVM_AppliesTempoAndParams(t *testing.T) {
	prog := dcProgram("tempo", 0)
	prog.BPM = 90
	prog.Params = []ParamSeed{{Name: "gain", Value: 0.3}}

	vm, err := NewProgramVM(DefaultVMConfig(), prog)
	require.NoError(t, err)
	assert.Equal(t, float32(90), vm.BPM())
	assert.True(t, vm.HasParam("gain"))

	_, err = NewProgramVM(DefaultVMConfig(), &Program{Instructions: []Instruction{{Opcode: OP_INVALID}}})
	assert.ErrorIs(t, err, ErrInvalidProgram)
}

func TestRenderMany(t *testing.T) {
	progs := []*Program{dcProgram("a", 0.1), dcProgram("b", 0.2), dcProgram("c", 0.3)}
	out, err := RenderMany(context.Background(), progs, DefaultVMConfig(), 0.05, 2)
	require.NoError(t, err)
	require.Len(t, out, 3)
	for i, rd := range out {
		assert.Equal(t, progs[i].Name, rd.Name, "results keep input order")
		assert.InDelta(t, 0.1*float64(i+1), rd.L[100], 1e-6)
	}
}

func TestRenderMany_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := RenderMany(ctx, []*Program{dcProgram("a", 1)}, DefaultVMConfig(), 1, 1)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestWriteWAV_Header(t *testing.T) {
	var buf bytes.Buffer
	l := []float32{0, 1, -1, 2}
	r := []float32{0.5, 0, 0, -2}
	require.NoError(t, WriteWAV(&buf, l, r, 48000))

	data := buf.Bytes()
	require.Len(t, data, 44+4*4)
	assert.Equal(t, "RIFF", string(data[0:4]))
	assert.Equal(t, "WAVE", string(data[8:12]))
	assert.Equal(t, uint32(36+16), binary.LittleEndian.Uint32(data[4:]))
	assert.Equal(t, uint16(2), binary.LittleEndian.Uint16(data[22:]))
	assert.Equal(t, uint32(48000), binary.LittleEndian.Uint32(data[24:]))
	assert.Equal(t, "data", string(data[36:40]))

	frame := func(i int) (int16, int16) {
		off := 44 + 4*i
		return int16(binary.LittleEndian.Uint16(data[off:])), int16(binary.LittleEndian.Uint16(data[off+2:]))
	}
	fl, fr := frame(1)
	assert.Equal(t, int16(32767), fl)
	assert.Equal(t, int16(0), fr)
	fl, fr = frame(3)
	assert.Equal(t, int16(32767), fl, "clipped high")
	assert.Equal(t, int16(-32767), fr, "clipped low")
}

func TestPlotWaveform(t *testing.T) {
	rd := &Rendered{Name: "dc", L: make([]float32, 1000), R: make([]float32, 1000), SampleRate: 48000}
	var buf bytes.Buffer
	require.NoError(t, PlotWaveform(&buf, rd, 10))
	html := buf.String()
	assert.True(t, strings.Contains(html, "echarts"), "output is an echarts page")

	path := filepath.Join(t.TempDir(), "dc.html")
	require.NoError(t, PlotWaveformFile(path, rd, 0))
	require.NoError(t, WriteWAVFile(filepath.Join(t.TempDir(), "dc.wav"), rd))
}
