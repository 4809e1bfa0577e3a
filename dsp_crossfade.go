// dsp_crossfade.go - Equal-power crossfade between outgoing and incoming programs

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

// Crossfade phases
const (
	XFADE_IDLE = iota
	XFADE_PENDING
	XFADE_ACTIVE
	XFADE_COMPLETING
)

// CrossfadeConfig sets the fade length in blocks.
type CrossfadeConfig struct {
	DurationBlocks int
}

// SetDuration clamps blocks into the supported 2..5 range.
func (c *CrossfadeConfig) SetDuration(blocks int) {
	c.DurationBlocks = min(max(blocks, MIN_CROSSFADE_BLOCKS), MAX_CROSSFADE_BLOCKS)
}

// CrossfadeState tracks a running fade. It is owned by the audio thread.
type CrossfadeState struct {
	phase     int
	total     int
	remaining int
}

func (x *CrossfadeState) Begin(blocks int) {
	x.phase = XFADE_PENDING
	x.total = max(blocks, 1)
	x.remaining = x.total
}

// Advance moves the fade one block forward.
func (x *CrossfadeState) Advance() {
	switch x.phase {
	case XFADE_PENDING:
		x.phase = XFADE_ACTIVE
		fallthrough
	case XFADE_ACTIVE:
		x.remaining--
		if x.remaining <= 0 {
			x.remaining = 0
			x.phase = XFADE_COMPLETING
		}
	}
}

// Position runs from 0 (all old) to 1 (all new).
func (x *CrossfadeState) Position() float32 {
	if x.total == 0 {
		return 1
	}
	return 1 - float32(x.remaining)/float32(x.total)
}

func (x *CrossfadeState) Complete() {
	*x = CrossfadeState{}
}

func (x *CrossfadeState) IsActive() bool {
	return x.phase == XFADE_PENDING || x.phase == XFADE_ACTIVE
}

func (x *CrossfadeState) IsCompleting() bool {
	return x.phase == XFADE_COMPLETING
}

func (x *CrossfadeState) Phase() int { return x.phase }

// equalPowerGains returns the old and new program gains at position p.
func equalPowerGains(p float32) (float32, float32) {
	return cosf(p * HALF_PI), sinf(p * HALF_PI)
}

// requiresCrossfade reports whether moving from old to new changes the state layout.
func requiresCrossfade(oldSlot, newSlot *ProgramSlot) bool {
	if oldSlot == nil || oldSlot.Empty() {
		return false
	}
	return oldSlot.Signature() != newSlot.Signature()
}
