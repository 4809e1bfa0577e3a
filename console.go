// console.go - Interactive control console

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
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"golang.org/x/term"
)

var errQuit = errors.New("quit")

// Console drives a running VM from typed commands.
type Console struct {
	vm   *VM
	load func(path string) (*Program, error)
}

func NewConsole(vm *VM, load func(string) (*Program, error)) *Console {
	if load == nil {
		load = LoadProgramFile
	}
	return &Console{vm: vm, load: load}
}

const consoleHelp = `commands:
  set <name> <value> [slew_ms]  set a live parameter
  rm <name>                     remove a live parameter
  bpm <value>                   change tempo
  seek <beat>                   jump the transport
  load <file>                   hot-swap a program (.idsp or .lua)
  status                        show transport state
  quit                          leave`

// Exec runs one command line and returns its reply.
func (c *Console) Exec(line string) (string, error) {
	f := strings.Fields(line)
	if len(f) == 0 {
		return "", nil
	}
	arg := func(i int) (float32, error) {
		if i >= len(f) {
			return 0, fmt.Errorf("%s: missing argument %d", f[0], i)
		}
		v, err := strconv.ParseFloat(f[i], 32)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", f[0], err)
		}
		return float32(v), nil
	}

	switch strings.ToLower(f[0]) {
	case "set":
		if len(f) < 3 {
			return "", fmt.Errorf("usage: set <name> <value> [slew_ms]")
		}
		v, err := arg(2)
		if err != nil {
			return "", err
		}
		slew := float32(-1)
		if len(f) > 3 {
			if slew, err = arg(3); err != nil {
				return "", err
			}
		}
		if !c.vm.SetParam(f[1], v, slew) {
			return "", fmt.Errorf("set %s: parameter table full", f[1])
		}
		return fmt.Sprintf("%s = %g", f[1], v), nil
	case "rm":
		if len(f) < 2 {
			return "", fmt.Errorf("usage: rm <name>")
		}
		if !c.vm.RemoveParam(f[1]) {
			return "", fmt.Errorf("rm %s: no such parameter", f[1])
		}
		return "removed " + f[1], nil
	case "bpm":
		v, err := arg(1)
		if err != nil {
			return "", err
		}
		if v <= 0 {
			return "", fmt.Errorf("bpm must be positive")
		}
		c.vm.SetBPM(v)
		return fmt.Sprintf("bpm %g", v), nil
	case "seek":
		v, err := arg(1)
		if err != nil {
			return "", err
		}
		c.vm.RequestSeek(float64(v), DefaultSeekConfig())
		return fmt.Sprintf("seek to beat %g", v), nil
	case "load":
		if len(f) < 2 {
			return "", fmt.Errorf("usage: load <file>")
		}
		prog, err := c.load(f[1])
		if err != nil {
			return "", err
		}
		if err := applyProgram(c.vm, prog, false); err != nil {
			return "", err
		}
		return fmt.Sprintf("queued %s (%d instructions)", prog.Name, len(prog.Instructions)), nil
	case "status", "st":
		return c.status(), nil
	case "help", "?":
		return consoleHelp, nil
	case "quit", "exit", "q":
		return "", errQuit
	}
	return "", fmt.Errorf("unknown command %q, try help", f[0])
}

func (c *Console) status() string {
	return fmt.Sprintf("beat %.2f  bpm %g  swaps %d  crossfading %v  states %d",
		c.vm.CurrentBeatPosition(), c.vm.BPM(), c.vm.SwapCount(), c.vm.IsCrossfading(), c.vm.States().Size())
}

// Run reads commands until quit, EOF or ctx ends. A terminal gets a line
// editor with history; anything else is read line by line.
func (c *Console) Run(ctx context.Context, in *os.File, out io.Writer) error {
	if term.IsTerminal(int(in.Fd())) {
		return c.runReadline(ctx, out)
	}
	return c.runPlain(ctx, in, out)
}

func (c *Console) runReadline(ctx context.Context, out io.Writer) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "dsp> ",
		HistoryFile:     historyPath(),
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
	})
	if err != nil {
		return fmt.Errorf("console: %w", err)
	}
	defer rl.Close()

	go func() {
		<-ctx.Done()
		rl.Close()
	}()
	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err != nil {
			return nil
		}
		if done := c.reply(line, out); done {
			return nil
		}
	}
}

func (c *Console) runPlain(ctx context.Context, in io.Reader, out io.Writer) error {
	sc := bufio.NewScanner(in)
	for sc.Scan() {
		if ctx.Err() != nil {
			return nil
		}
		if done := c.reply(sc.Text(), out); done {
			return nil
		}
	}
	return sc.Err()
}

func (c *Console) reply(line string, out io.Writer) bool {
	msg, err := c.Exec(line)
	switch {
	case errors.Is(err, errQuit):
		return true
	case err != nil:
		fmt.Fprintln(out, "error:", err)
		logDebug(LOG_CONSOLE, "command failed", "line", line, "err", err)
	case msg != "":
		fmt.Fprintln(out, msg)
	}
	return false
}

func historyPath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "intuition_dsp_history")
}
