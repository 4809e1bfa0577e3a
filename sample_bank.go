// sample_bank.go - In-memory sample storage addressed by small integer ids

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
	"sync"
	"sync/atomic"
)

// SampleData is decoded audio, interleaved when Channels > 1.
type SampleData struct {
	Frames     []float32
	Channels   int
	SampleRate float32
}

// FrameCount returns the number of frames.
func (s *SampleData) FrameCount() int {
	if s == nil || s.Channels <= 0 {
		return 0
	}
	return len(s.Frames) / s.Channels
}

// Get returns one channel of one frame, or 0 outside the data.
func (s *SampleData) Get(frame, channel int) float32 {
	if frame < 0 || frame >= s.FrameCount() || channel < 0 || channel >= s.Channels {
		return 0
	}
	return s.Frames[frame*s.Channels+channel]
}

// GetInterpolated reads between frames with linear interpolation.
func (s *SampleData) GetInterpolated(pos float32, channel int) float32 {
	if pos < 0 {
		return 0
	}
	i := int(pos)
	frac := pos - float32(i)
	a := s.Get(i, channel)
	b := s.Get(i+1, channel)
	return a + (b-a)*frac
}

// GetInterpolatedLooped wraps the second tap to the start of the data.
func (s *SampleData) GetInterpolatedLooped(pos float32, channel int) float32 {
	n := s.FrameCount()
	if n == 0 {
		return 0
	}
	i := int(pos) % n
	frac := pos - floorf(pos)
	a := s.Get(i, channel)
	b := s.Get((i+1)%n, channel)
	return a + (b-a)*frac
}

// Mono mixes all channels of a frame position.
func (s *SampleData) Mono(pos float32, looped bool) float32 {
	var sum float32
	for ch := 0; ch < s.Channels; ch++ {
		if looped {
			sum += s.GetInterpolatedLooped(pos, ch)
		} else {
			sum += s.GetInterpolated(pos, ch)
		}
	}
	return sum / float32(s.Channels)
}

// SampleBank maps names to ids. Id 0 is reserved for "no sample". Writers
// publish a fresh snapshot so the audio thread reads without locking.
type SampleBank struct {
	mu       sync.Mutex
	snapshot atomic.Pointer[[]*SampleData] // index = id-1
	names    map[string]uint32
}

func NewSampleBank() *SampleBank {
	b := &SampleBank{names: make(map[string]uint32)}
	empty := []*SampleData{}
	b.snapshot.Store(&empty)
	return b
}

// AddSample registers data under name, replacing an earlier sample of the same name.
func (b *SampleBank) AddSample(name string, data *SampleData) (uint32, error) {
	if data == nil || data.Channels <= 0 || len(data.Frames) == 0 {
		return 0, fmt.Errorf("sample %q: empty data", name)
	}
	if data.SampleRate <= 0 {
		data.SampleRate = DEFAULT_SAMPLE_RATE
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	cur := *b.snapshot.Load()
	next := make([]*SampleData, len(cur), len(cur)+1)
	copy(next, cur)

	id, ok := b.names[name]
	if ok {
		next[id-1] = data
	} else {
		next = append(next, data)
		id = uint32(len(next))
		b.names[name] = id
	}
	b.snapshot.Store(&next)
	return id, nil
}

// ID returns the id for name, or 0.
func (b *SampleBank) ID(name string) uint32 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.names[name]
}

// Get returns the sample for id, or nil for 0 and unknown ids.
func (b *SampleBank) Get(id uint32) *SampleData {
	if b == nil || id == 0 {
		return nil
	}
	samples := *b.snapshot.Load()
	if int(id) > len(samples) {
		return nil
	}
	return samples[id-1]
}

func (b *SampleBank) Len() int {
	return len(*b.snapshot.Load())
}

func (b *SampleBank) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	empty := []*SampleData{}
	b.snapshot.Store(&empty)
	b.names = make(map[string]uint32)
}

// ResolveNames maps each name to its id and lists names the bank lacks.
func (b *SampleBank) ResolveNames(names []string) (map[string]uint32, []string) {
	ids := make(map[string]uint32, len(names))
	var missing []string
	for _, n := range names {
		if id := b.ID(n); id != 0 {
			ids[n] = id
		} else {
			missing = append(missing, n)
		}
	}
	return ids, missing
}
