// seq_euclid_test.go - Euclidean rhythm tests

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
	"math/bits"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeEuclideanPattern(t *testing.T) {
	cases := []struct {
		name                  string
		hits, steps, rotation int
		want                  []int
	}{
		{"tresillo", 3, 8, 0, []int{0, 3, 6}},
		{"tresillo rotated", 3, 8, 1, []int{2, 5, 7}},
		{"negative rotation", 3, 8, -7, []int{2, 5, 7}},
		{"four on the floor", 4, 16, 0, []int{0, 4, 8, 12}},
		{"full", 8, 8, 0, []int{0, 1, 2, 3, 4, 5, 6, 7}},
		{"single", 1, 5, 0, []int{0}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := ComputeEuclideanPattern(tc.hits, tc.steps, tc.rotation)
			assert.Equal(t, tc.want, EuclideanHits(p, tc.steps))
		})
	}
}

func TestComputeEuclideanPattern_Degenerate(t *testing.T) {
	assert.Zero(t, ComputeEuclideanPattern(0, 8, 0))
	assert.Zero(t, ComputeEuclideanPattern(3, 0, 0))
	assert.Equal(t, uint32(0xFF), ComputeEuclideanPattern(12, 8, 0))
	assert.Equal(t, uint32(0xFFFFFFFF), ComputeEuclideanPattern(40, 64, 0), "steps cap at 32")
}

// Hits are spread as evenly as the grid allows: gaps differ by at most one.
func TestComputeEuclideanPattern_EvenSpacing(t *testing.T) {
	for steps := 2; steps <= EUCLID_MAX_STEPS; steps++ {
		for hits := 1; hits < steps; hits++ {
			p := ComputeEuclideanPattern(hits, steps, 0)
			assert.Equal(t, hits, bits.OnesCount32(p), "E(%d,%d)", hits, steps)

			h := EuclideanHits(p, steps)
			lo, hi := steps, 0
			for i := range h {
				gap := (h[(i+1)%len(h)] - h[i] + steps) % steps
				if gap == 0 {
					gap = steps
				}
				lo, hi = min(lo, gap), max(hi, gap)
			}
			assert.LessOrEqual(t, hi-lo, 1, "E(%d,%d) gaps %d..%d", hits, steps, lo, hi)
		}
	}
}
