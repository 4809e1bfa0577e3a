// render.go - Offline rendering and WAV output

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
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Rendered holds one offline render.
type Rendered struct {
	Name       string
	L, R       []float32
	SampleRate float32
}

// NewProgramVM builds a VM from cfg, makes prog current and applies the
// program's tempo and initial parameters.
func NewProgramVM(cfg VMConfig, prog *Program) (*VM, error) {
	vm := NewVM(cfg)
	if err := applyProgram(vm, prog, true); err != nil {
		return nil, err
	}
	return vm, nil
}

// applyProgram loads prog, immediately or through the swap path.
func applyProgram(vm *VM, prog *Program, immediate bool) error {
	if prog.BPM > 0 {
		vm.SetBPM(prog.BPM)
	}
	for _, p := range prog.Params {
		vm.SetParam(p.Name, p.Value, 0)
	}
	var r LoadResult
	if immediate {
		r = vm.LoadProgramImmediate(prog)
	} else {
		r = vm.LoadProgram(prog)
	}
	if err := r.Err(); err != nil {
		return fmt.Errorf("load %q: %w", prog.Name, err)
	}
	return nil
}

// RenderProgram runs vm for seconds of audio. It checks ctx between blocks.
func RenderProgram(ctx context.Context, vm *VM, seconds float64) (l, r []float32, err error) {
	frames := int(seconds * float64(vm.SampleRate()))
	blocks := (frames + BLOCK_SIZE - 1) / BLOCK_SIZE
	l = make([]float32, 0, blocks*BLOCK_SIZE)
	r = make([]float32, 0, blocks*BLOCK_SIZE)

	var bl, br Block
	for b := 0; b < blocks; b++ {
		if b%64 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, nil, err
			}
		}
		vm.ProcessBlock(&bl, &br)
		l = append(l, bl[:]...)
		r = append(r, br[:]...)
	}
	return l[:frames], r[:frames], nil
}

// RenderMany renders each program on its own VM, workers at a time.
func RenderMany(ctx context.Context, progs []*Program, cfg VMConfig, seconds float64, workers int) ([]Rendered, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	out := make([]Rendered, len(progs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, prog := range progs {
		i, prog := i, prog
		g.Go(func() error {
			vm, err := NewProgramVM(cfg, prog)
			if err != nil {
				return err
			}
			l, r, err := RenderProgram(gctx, vm, seconds)
			if err != nil {
				return fmt.Errorf("render %q: %w", prog.Name, err)
			}
			out[i] = Rendered{Name: prog.Name, L: l, R: r, SampleRate: vm.SampleRate()}
			logInfo(LOG_RENDER, "rendered", "name", prog.Name, "frames", len(l))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// WriteWAV writes 16-bit stereo PCM. Samples are clipped to [-1, 1].
func WriteWAV(w io.Writer, l, r []float32, sampleRate float32) error {
	frames := min(len(l), len(r))
	const channels, bytesPerSample = 2, 2
	dataSize := uint32(frames * channels * bytesPerSample)
	sr := uint32(sampleRate)

	bw := bufio.NewWriter(w)
	hdr := []any{
		[4]byte{'R', 'I', 'F', 'F'}, 36 + dataSize, [4]byte{'W', 'A', 'V', 'E'},
		[4]byte{'f', 'm', 't', ' '}, uint32(16), uint16(1), uint16(channels),
		sr, sr * channels * bytesPerSample, uint16(channels * bytesPerSample), uint16(16),
		[4]byte{'d', 'a', 't', 'a'}, dataSize,
	}
	for _, v := range hdr {
		if err := binary.Write(bw, binary.LittleEndian, v); err != nil {
			return err
		}
	}

	var frame [4]byte
	for i := 0; i < frames; i++ {
		binary.LittleEndian.PutUint16(frame[0:], uint16(pcm16(l[i])))
		binary.LittleEndian.PutUint16(frame[2:], uint16(pcm16(r[i])))
		if _, err := bw.Write(frame[:]); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func pcm16(x float32) int16 {
	return int16(clampf(x, -1, 1) * 32767)
}

// WriteWAVFile renders to path.
func WriteWAVFile(path string, rd *Rendered) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteWAV(f, rd.L, rd.R, rd.SampleRate); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
