// program_codec.go - Program container: CBOR payload with an xxh3 checksum

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
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"github.com/zeebo/xxh3"
)

const (
	PROGRAM_MAGIC   = "IDSP"
	PROGRAM_VERSION = 1
	PROGRAM_EXT     = ".idsp"
)

var (
	ErrBadMagic           = errors.New("not a program container")
	ErrChecksum           = errors.New("program checksum mismatch")
	ErrUnsupportedVersion = errors.New("unsupported program version")
)

type programContainer struct {
	Magic    string `cbor:"1,keyasint"`
	Version  uint16 `cbor:"2,keyasint"`
	Checksum uint64 `cbor:"3,keyasint"`
	Payload  []byte `cbor:"4,keyasint"`
}

var programEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("program codec: cbor enc mode: %v", err))
	}
	programEncMode = em
}

// EncodeProgram serialises prog into a checksummed container.
func EncodeProgram(prog *Program) ([]byte, error) {
	payload, err := programEncMode.Marshal(prog)
	if err != nil {
		return nil, fmt.Errorf("encode program %q: %w", prog.Name, err)
	}
	return programEncMode.Marshal(&programContainer{
		Magic:    PROGRAM_MAGIC,
		Version:  PROGRAM_VERSION,
		Checksum: xxh3.Hash(payload),
		Payload:  payload,
	})
}

// DecodeProgram verifies and unpacks a container produced by EncodeProgram.
func DecodeProgram(data []byte) (*Program, error) {
	var c programContainer
	if err := cbor.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadMagic, err)
	}
	if c.Magic != PROGRAM_MAGIC {
		return nil, fmt.Errorf("%w: magic %q", ErrBadMagic, c.Magic)
	}
	if c.Version != PROGRAM_VERSION {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, c.Version)
	}
	if sum := xxh3.Hash(c.Payload); sum != c.Checksum {
		return nil, fmt.Errorf("%w: have %016x, want %016x", ErrChecksum, sum, c.Checksum)
	}
	var prog Program
	if err := cbor.Unmarshal(c.Payload, &prog); err != nil {
		return nil, fmt.Errorf("decode program payload: %w", err)
	}
	for i := range prog.Seeds {
		if p := prog.Seeds[i].Pattern; p != nil {
			p.Invalidate()
		}
	}
	return &prog, nil
}

// WriteProgramFile encodes prog to path.
func WriteProgramFile(path string, prog *Program) error {
	data, err := EncodeProgram(prog)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// LoadProgramFile reads a container, or runs a Lua script when path ends in .lua.
func LoadProgramFile(path string) (*Program, error) {
	if strings.HasSuffix(strings.ToLower(path), ".lua") {
		return RunProgramScript(path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	prog, err := DecodeProgram(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return prog, nil
}

// Disassemble lists prog one instruction per line.
func Disassemble(prog *Program) string {
	var sb strings.Builder
	writeDisassembly(&sb, prog)
	return sb.String()
}

func writeDisassembly(w io.Writer, prog *Program) {
	name := prog.Name
	if name == "" {
		name = "(unnamed)"
	}
	fmt.Fprintf(w, "; program %s: %d instructions, %d seeds\n", name, len(prog.Instructions), len(prog.Seeds))
	if prog.BPM > 0 {
		fmt.Fprintf(w, "; bpm %.2f\n", prog.BPM)
	}
	for _, p := range prog.Params {
		fmt.Fprintf(w, "; param %s = %g\n", p.Name, p.Value)
	}
	for i, n := range prog.SampleNames {
		fmt.Fprintf(w, "; sample %d %s\n", i, n)
	}

	for pc := range prog.Instructions {
		inst := &prog.Instructions[pc]
		fmt.Fprintf(w, "%04d  %-20s b%-3d <- %s", pc, inst.Opcode, inst.Out, formatInputs(inst))
		info := inst.Opcode.Info()
		if info.Stateful {
			fmt.Fprintf(w, "  state=%08x", inst.StateID)
		} else if inst.StateID != 0 {
			fmt.Fprintf(w, "  imm=%g", inst.ConstValue())
		}
		if inst.Rate != 0 {
			fmt.Fprintf(w, "  rate=%d", inst.Rate)
		}
		if inst.Reserved != 0 {
			fmt.Fprintf(w, "  res=%d", inst.Reserved)
		}
		fmt.Fprintln(w)
	}

	for _, s := range prog.Seeds {
		switch s.Kind {
		case SEED_STEP_SEQUENCE:
			if s.StepSeq != nil {
				fmt.Fprintf(w, "; seed %08x step sequence, %d events over %g beats\n",
					s.StateID, len(s.StepSeq.Times), s.StepSeq.Cycle)
			}
		case SEED_TIMELINE:
			if s.Timeline != nil {
				fmt.Fprintf(w, "; seed %08x timeline, %d points\n", s.StateID, len(s.Timeline.Points))
			}
		case SEED_PATTERN:
			if s.Pattern != nil {
				fmt.Fprintf(w, "; seed %08x pattern, %d sequences\n", s.StateID, s.Pattern.NumSequences)
			}
		}
	}
}

func formatInputs(inst *Instruction) string {
	var parts []string
	for _, in := range inst.Inputs {
		switch in {
		case BUFFER_UNUSED:
			continue
		case BUFFER_ZERO:
			parts = append(parts, "zero")
		default:
			parts = append(parts, fmt.Sprintf("b%d", in))
		}
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, ", ")
}
