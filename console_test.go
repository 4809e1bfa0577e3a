// console_test.go - Console command tests

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
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConsole(t *testing.T) (*Console, *VM) {
	t.Helper()
	vm := newTestVM(t)
	loadInstructions(t, vm, constInst(1, 0.1), MakeInstruction(OP_OUTPUT, 0, 0, 1))
	load := func(path string) (*Program, error) {
		if path == "missing.idsp" {
			return nil, errors.New("no such file")
		}
		return dcProgram(path, 0.5), nil
	}
	return NewConsole(vm, load), vm
}

func TestConsole_Commands(t *testing.T) {
	c, vm := newTestConsole(t)

	msg, err := c.Exec("set cutoff 1200 0")
	require.NoError(t, err)
	assert.Equal(t, "cutoff = 1200", msg)
	assert.True(t, vm.HasParam("cutoff"))

	_, err = c.Exec("rm cutoff")
	require.NoError(t, err)
	assert.False(t, vm.HasParam("cutoff"))
	_, err = c.Exec("rm cutoff")
	assert.Error(t, err)

	_, err = c.Exec("bpm 140")
	require.NoError(t, err)
	assert.Equal(t, float32(140), vm.BPM())
	_, err = c.Exec("bpm -3")
	assert.Error(t, err)

	msg, err = c.Exec("status")
	require.NoError(t, err)
	assert.Contains(t, msg, "bpm 140")

	msg, err = c.Exec("   ")
	assert.NoError(t, err)
	assert.Empty(t, msg)
}

func TestConsole_Errors(t *testing.T) {
	c, _ := newTestConsole(t)
	for _, line := range []string{"set x", "set x abc", "bpm", "seek nowhere", "load", "load missing.idsp", "frobnicate"} {
		_, err := c.Exec(line)
		assert.Error(t, err, line)
	}
	_, err := c.Exec("quit")
	assert.ErrorIs(t, err, errQuit)
}

func TestConsole_LoadSwapsOnNextBlock(t *testing.T) {
	c, vm := newTestConsole(t)
	before := vm.SwapCount()

	msg, err := c.Exec("load pad")
	require.NoError(t, err)
	assert.Contains(t, msg, "queued pad")

	l, _ := renderOutput(vm, 1)
	assert.Greater(t, vm.SwapCount(), before)
	assert.Equal(t, float32(0.5), l[0])
}

func TestConsole_SeekRequest(t *testing.T) {
	c, vm := newTestConsole(t)
	_, err := c.Exec("seek 8")
	require.NoError(t, err)
	renderOutput(vm, 1)
	assert.InDelta(t, 8.0, vm.CurrentBeatPosition(), 0.01)
}

func TestConsole_RunPlain(t *testing.T) {
	c, vm := newTestConsole(t)
	var out bytes.Buffer
	in := strings.NewReader("bpm 100\nnope\nquit\nbpm 50\n")

	require.NoError(t, c.runPlain(context.Background(), in, &out))
	assert.Equal(t, float32(100), vm.BPM(), "commands after quit are not run")
	assert.Contains(t, out.String(), "bpm 100")
	assert.Contains(t, out.String(), `error: unknown command "nope"`)
}
