// dsp_env_map.go - Live named parameters with per-sample slew

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
	"sync"
	"sync/atomic"
)

// atomicFloat stores a float32 in an atomic word.
type atomicFloat struct {
	bits atomic.Uint32
}

func (f *atomicFloat) Load() float32   { return math.Float32frombits(f.bits.Load()) }
func (f *atomicFloat) Store(v float32) { f.bits.Store(math.Float32bits(v)) }

type envParam struct {
	hash    atomic.Uint32
	active  atomic.Bool
	target  atomicFloat // Written by the control thread
	coeff   atomicFloat // One-pole slew coefficient
	current atomicFloat // Smoothed value at block end
	start   atomicFloat // Smoothed value at block start
}

// EnvMap holds externally controlled parameters (sliders, toggles) keyed by
// the FNV-1a hash of their name. Writers take the control mutex; the audio
// thread only performs atomic loads and its own smoothing stores.
type EnvMap struct {
	params [MAX_ENV_PARAMS]envParam
	slots  [ENV_MAP_SLOTS]atomic.Int32 // param index+1, 0 empty, -1 deleted

	mu         sync.Mutex
	sampleRate float32
	defaultMs  float32
}

func NewEnvMap() *EnvMap {
	return &EnvMap{sampleRate: DEFAULT_SAMPLE_RATE, defaultMs: DEFAULT_SLEW_MS}
}

func (m *EnvMap) SetSampleRate(sr float32) {
	m.mu.Lock()
	m.sampleRate = sr
	m.mu.Unlock()
}

// SetDefaultSlew changes the slew applied when SetParam gets a negative time.
func (m *EnvMap) SetDefaultSlew(ms float32) {
	m.mu.Lock()
	m.defaultMs = ms
	m.mu.Unlock()
}

func (m *EnvMap) slewCoeff(ms float32) float32 {
	if ms <= 0 {
		return 1
	}
	return clampf(1/(ms*m.sampleRate*0.001), 0.0001, 1)
}

// lookup returns the param index for hash, or -1.
func (m *EnvMap) lookup(hash uint32) int {
	start := int(hash % ENV_MAP_SLOTS)
	for n := 0; n < ENV_MAP_SLOTS; n++ {
		v := m.slots[(start+n)%ENV_MAP_SLOTS].Load()
		if v == 0 {
			return -1
		}
		if v < 0 {
			continue
		}
		p := &m.params[v-1]
		if p.hash.Load() == hash && p.active.Load() {
			return int(v - 1)
		}
	}
	return -1
}

// SetParam sets or creates a parameter. slewMs < 0 selects the default slew,
// 0 jumps immediately. Returns false when the map is full.
func (m *EnvMap) SetParam(name string, value float32, slewMs float32) bool {
	return m.SetParamHash(FNV1a(name), value, slewMs)
}

func (m *EnvMap) SetParamHash(hash uint32, value float32, slewMs float32) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if slewMs < 0 {
		slewMs = m.defaultMs
	}
	coeff := m.slewCoeff(slewMs)

	if idx := m.lookup(hash); idx >= 0 {
		p := &m.params[idx]
		p.coeff.Store(coeff)
		p.target.Store(value)
		return true
	}

	free := -1
	for i := range m.params {
		if !m.params[i].active.Load() {
			free = i
			break
		}
	}
	if free < 0 {
		return false
	}

	start := int(hash % ENV_MAP_SLOTS)
	for n := 0; n < ENV_MAP_SLOTS; n++ {
		s := &m.slots[(start+n)%ENV_MAP_SLOTS]
		if s.Load() > 0 {
			continue
		}
		p := &m.params[free]
		p.hash.Store(hash)
		p.coeff.Store(coeff)
		p.target.Store(value)
		p.current.Store(value)
		p.start.Store(value)
		p.active.Store(true)
		s.Store(int32(free + 1))
		return true
	}
	return false
}

// RemoveParam deactivates name. Readers see 0 afterwards.
func (m *EnvMap) RemoveParam(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	hash := FNV1a(name)
	start := int(hash % ENV_MAP_SLOTS)
	for n := 0; n < ENV_MAP_SLOTS; n++ {
		s := &m.slots[(start+n)%ENV_MAP_SLOTS]
		v := s.Load()
		if v == 0 {
			return false
		}
		if v < 0 {
			continue
		}
		p := &m.params[v-1]
		if p.hash.Load() == hash && p.active.Load() {
			p.active.Store(false)
			s.Store(-1)
			return true
		}
	}
	return false
}

func (m *EnvMap) HasParam(name string) bool {
	return m.lookup(FNV1a(name)) >= 0
}

// Get returns the smoothed value for hash, or 0 when absent.
func (m *EnvMap) Get(hash uint32) float32 {
	if idx := m.lookup(hash); idx >= 0 {
		return m.params[idx].current.Load()
	}
	return 0
}

// Target returns the value most recently written for name.
func (m *EnvMap) Target(name string) (float32, bool) {
	if idx := m.lookup(FNV1a(name)); idx >= 0 {
		return m.params[idx].target.Load(), true
	}
	return 0, false
}

// fillRamp writes the block's smoothed trajectory for hash into out.
func (m *EnvMap) fillRamp(hash uint32, out *Block) {
	idx := m.lookup(hash)
	if idx < 0 {
		*out = Block{}
		return
	}
	p := &m.params[idx]
	from, to := p.start.Load(), p.current.Load()
	step := (to - from) / BLOCK_SIZE
	for i := range out {
		out[i] = from + step*float32(i+1)
	}
}

// UpdateInterpolationBlock advances every active parameter by one block of
// one-pole smoothing. Called once per block on the audio thread.
func (m *EnvMap) UpdateInterpolationBlock() {
	for i := range m.params {
		p := &m.params[i]
		if !p.active.Load() {
			continue
		}
		target := p.target.Load()
		coeff := p.coeff.Load()
		cur := p.current.Load()
		p.start.Store(cur)
		if cur == target {
			continue
		}
		for n := 0; n < BLOCK_SIZE; n++ {
			cur += (target - cur) * coeff
		}
		if absf(target-cur) < 1e-6 {
			cur = target
		}
		p.current.Store(cur)
	}
}

// Reset removes every parameter.
func (m *EnvMap) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.params {
		m.params[i].active.Store(false)
	}
	for i := range m.slots {
		m.slots[i].Store(0)
	}
}

// Count returns the number of active parameters.
func (m *EnvMap) Count() int {
	n := 0
	for i := range m.params {
		if m.params[i].active.Load() {
			n++
		}
	}
	return n
}
