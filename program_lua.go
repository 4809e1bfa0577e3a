// program_lua.go - Lua program builder

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
	"fmt"
	"path/filepath"
	"strings"

	lua "github.com/yuin/gopher-lua"
)

func init() { registerFeature("script:lua") }

// programBuilder accumulates what a script emits through the dsp module.
type programBuilder struct {
	prog    Program
	bank    *SampleBank
	nameIdx map[string]int
}

// RunProgramScript executes a Lua file and returns the program it built.
func RunProgramScript(path string) (*Program, error) {
	return RunProgramScriptWith(path, nil)
}

// RunProgramScriptWith is RunProgramScript with a sample bank that
// dsp.sample resolves against and dsp.make_sample fills.
func RunProgramScriptWith(path string, bank *SampleBank) (*Program, error) {
	b := newProgramBuilder(bank)
	b.prog.Name = strings.TrimSuffix(filepath.Base(path), ".lua")
	if err := b.run(func(L *lua.LState) error { return L.DoFile(path) }); err != nil {
		return nil, fmt.Errorf("script %s: %w", path, err)
	}
	return &b.prog, nil
}

// RunProgramSource executes Lua source held in memory.
func RunProgramSource(name, src string, bank *SampleBank) (*Program, error) {
	b := newProgramBuilder(bank)
	b.prog.Name = name
	if err := b.run(func(L *lua.LState) error { return L.DoString(src) }); err != nil {
		return nil, fmt.Errorf("script %s: %w", name, err)
	}
	return &b.prog, nil
}

func newProgramBuilder(bank *SampleBank) *programBuilder {
	return &programBuilder{bank: bank, nameIdx: make(map[string]int)}
}

func (b *programBuilder) run(exec func(*lua.LState) error) error {
	L := lua.NewState()
	defer L.Close()
	L.SetGlobal("dsp", b.module(L))
	if err := exec(L); err != nil {
		return err
	}
	logDebug(LOG_SCRIPT, "script built program", "name", b.prog.Name,
		"instructions", len(b.prog.Instructions), "seeds", len(b.prog.Seeds))
	return nil
}

func (b *programBuilder) module(L *lua.LState) *lua.LTable {
	mod := L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"op":          b.luaOp,
		"const":       b.luaConst,
		"hash":        luaHash,
		"seq_step":    b.luaSeqStep,
		"timeline":    b.luaTimeline,
		"pattern":     b.luaPattern,
		"sample":      b.luaSample,
		"make_sample": b.luaMakeSample,
		"bpm":         b.luaBPM,
		"param":       b.luaParam,
		"name":        b.luaName,
	})
	mod.RawSetString("ZERO", lua.LNumber(BUFFER_ZERO))
	mod.RawSetString("UNUSED", lua.LNumber(BUFFER_UNUSED))
	mod.RawSetString("BLOCK_SIZE", lua.LNumber(BLOCK_SIZE))
	return mod
}

// stateArg accepts a number or a string path hashed with FNV-1a.
func stateArg(L *lua.LState, n int) uint32 {
	switch v := L.Get(n).(type) {
	case lua.LNumber:
		return uint32(v)
	case lua.LString:
		return FNV1a(string(v))
	case *lua.LNilType:
		return 0
	default:
		L.ArgError(n, "state must be a number or a string")
		return 0
	}
}

func bufferArg(L *lua.LState, n int) uint16 {
	v := L.CheckInt(n)
	if v < 0 || v >= BUFFER_ZERO {
		L.ArgError(n, fmt.Sprintf("output buffer %d out of range", v))
	}
	return uint16(v)
}

func floatsFromTable(t *lua.LTable) []float32 {
	if t == nil {
		return nil
	}
	out := make([]float32, 0, t.Len())
	for i := 1; i <= t.Len(); i++ {
		out = append(out, float32(lua.LVAsNumber(t.RawGetInt(i))))
	}
	return out
}

func numField(t *lua.LTable, key string, def float64) float64 {
	if v, ok := t.RawGetString(key).(lua.LNumber); ok {
		return float64(v)
	}
	return def
}

// dsp.op(name, out, {inputs}, state, rate, reserved) -> pc
func (b *programBuilder) luaOp(L *lua.LState) int {
	name := strings.ToUpper(L.CheckString(1))
	op, ok := LookupOpcode(name)
	if !ok {
		L.ArgError(1, "unknown opcode "+name)
		return 0
	}
	out := uint16(0)
	if op != OP_OUTPUT && op != OP_NOP {
		out = bufferArg(L, 2)
	}
	var inputs []uint16
	if t := L.OptTable(3, nil); t != nil {
		for i := 1; i <= t.Len(); i++ {
			v := int(lua.LVAsNumber(t.RawGetInt(i)))
			if v < 0 {
				v = BUFFER_UNUSED
			}
			inputs = append(inputs, uint16(v))
		}
	}
	if len(inputs) > NUM_INPUTS {
		L.ArgError(3, fmt.Sprintf("at most %d inputs", NUM_INPUTS))
	}
	inst := MakeInstruction(op, out, stateArg(L, 4), inputs...)
	inst.Rate = uint8(L.OptInt(5, 0))
	inst.Reserved = uint16(L.OptInt(6, 0))
	b.prog.Instructions = append(b.prog.Instructions, inst)
	L.Push(lua.LNumber(len(b.prog.Instructions) - 1))
	return 1
}

// dsp.const(out, value)
func (b *programBuilder) luaConst(L *lua.LState) int {
	out := bufferArg(L, 1)
	v := float32(L.CheckNumber(2))
	b.prog.Instructions = append(b.prog.Instructions, MakeInstruction(OP_PUSH_CONST, out, ConstStateID(v)))
	return 0
}

func luaHash(L *lua.LState) int {
	L.Push(lua.LNumber(FNV1a(L.CheckString(1))))
	return 1
}

// dsp.seq_step(state, times, values, velocities, cycle)
func (b *programBuilder) luaSeqStep(L *lua.LState) int {
	seed := &StepSequenceSeed{
		Times:      floatsFromTable(L.CheckTable(2)),
		Values:     floatsFromTable(L.CheckTable(3)),
		Velocities: floatsFromTable(L.OptTable(4, nil)),
		Cycle:      float32(L.OptNumber(5, BEATS_PER_BAR)),
	}
	b.prog.Seeds = append(b.prog.Seeds, SeedRecord{StateID: stateArg(L, 1), Kind: SEED_STEP_SEQUENCE, StepSeq: seed})
	return 0
}

// dsp.timeline(state, {{time, value, curve}, ...}, loop, loop_length)
func (b *programBuilder) luaTimeline(L *lua.LState) int {
	pts := L.CheckTable(2)
	seed := &TimelineSeed{Loop: L.OptBool(3, false), LoopLength: float32(L.OptNumber(4, 0))}
	for i := 1; i <= pts.Len(); i++ {
		p, ok := pts.RawGetInt(i).(*lua.LTable)
		if !ok {
			L.ArgError(2, fmt.Sprintf("point %d is not a table", i))
			return 0
		}
		seed.Points = append(seed.Points, Breakpoint{
			Time:  float32(lua.LVAsNumber(p.RawGetInt(1))),
			Value: float32(lua.LVAsNumber(p.RawGetInt(2))),
			Curve: uint8(lua.LVAsNumber(p.RawGetInt(3))),
		})
	}
	b.prog.Seeds = append(b.prog.Seeds, SeedRecord{StateID: stateArg(L, 1), Kind: SEED_TIMELINE, Timeline: seed})
	return 0
}

var sequenceModes = map[string]SequenceMode{
	"normal":    SEQ_MODE_NORMAL,
	"alternate": SEQ_MODE_ALTERNATE,
	"random":    SEQ_MODE_RANDOM,
}

// dsp.pattern(state, {cycle=, seed=, sequences={{mode=, duration=, events={...}}}})
// An event is {time=, dur=, values={...}, chance=} or {time=, dur=, seq=id}.
func (b *programBuilder) luaPattern(L *lua.LState) int {
	def := L.CheckTable(2)
	st := NewSequenceState(float32(numField(def, "cycle", 4)), uint64(numField(def, "seed", 0)))

	seqs, _ := def.RawGetString("sequences").(*lua.LTable)
	if seqs == nil {
		L.ArgError(2, "pattern needs a sequences table")
		return 0
	}
	for i := 1; i <= seqs.Len(); i++ {
		seqTbl, ok := seqs.RawGetInt(i).(*lua.LTable)
		if !ok {
			continue
		}
		var seq Sequence
		seq.Duration = float32(numField(seqTbl, "duration", 4))
		if m, ok := seqTbl.RawGetString("mode").(lua.LString); ok {
			mode, known := sequenceModes[strings.ToLower(string(m))]
			if !known {
				L.ArgError(2, "unknown sequence mode "+string(m))
				return 0
			}
			seq.Mode = mode
		}
		events, _ := seqTbl.RawGetString("events").(*lua.LTable)
		for j := 1; events != nil && j <= events.Len(); j++ {
			et, ok := events.RawGetInt(j).(*lua.LTable)
			if !ok {
				continue
			}
			t := float32(numField(et, "time", 0))
			d := float32(numField(et, "dur", 1))
			var e Event
			if id, ok := et.RawGetString("seq").(lua.LNumber); ok {
				e = SubSeqEvent(t, d, uint16(id))
			} else {
				vals, _ := et.RawGetString("values").(*lua.LTable)
				e = DataEvent(t, d, floatsFromTable(vals)...)
			}
			e.Degrade = clampf(1-float32(numField(et, "chance", 1)), 0, 1)
			seq.AddEvent(e)
		}
		st.AddSequence(seq)
	}
	b.prog.Seeds = append(b.prog.Seeds, SeedRecord{StateID: stateArg(L, 1), Kind: SEED_PATTERN, Pattern: st})
	return 0
}

// dsp.sample(name) -> id
func (b *programBuilder) luaSample(L *lua.LState) int {
	name := L.CheckString(1)
	idx, seen := b.nameIdx[name]
	if !seen {
		idx = len(b.prog.SampleNames)
		b.nameIdx[name] = idx
		b.prog.SampleNames = append(b.prog.SampleNames, name)
	}
	id := uint32(idx + 1)
	if b.bank != nil {
		if bid := b.bank.ID(name); bid != 0 {
			id = bid
		}
	}
	L.Push(lua.LNumber(id))
	return 1
}

// dsp.make_sample(name, {frames}, channels, rate) -> id
func (b *programBuilder) luaMakeSample(L *lua.LState) int {
	name := L.CheckString(1)
	data := &SampleData{
		Frames:     floatsFromTable(L.CheckTable(2)),
		Channels:   L.OptInt(3, 1),
		SampleRate: float32(L.OptNumber(4, DEFAULT_SAMPLE_RATE)),
	}
	if b.bank == nil {
		L.RaiseError("make_sample %q: no sample bank attached", name)
		return 0
	}
	id, err := b.bank.AddSample(name, data)
	if err != nil {
		L.RaiseError("make_sample %q: %v", name, err)
		return 0
	}
	L.Push(lua.LNumber(id))
	return 1
}

func (b *programBuilder) luaBPM(L *lua.LState) int {
	v := float32(L.CheckNumber(1))
	if v <= 0 {
		L.ArgError(1, "bpm must be positive")
	}
	b.prog.BPM = v
	return 0
}

func (b *programBuilder) luaParam(L *lua.LState) int {
	b.prog.Params = append(b.prog.Params, ParamSeed{Name: L.CheckString(1), Value: float32(L.CheckNumber(2))})
	return 0
}

func (b *programBuilder) luaName(L *lua.LState) int {
	b.prog.Name = L.CheckString(1)
	return 0
}
