// seq_euclid.go - Euclidean rhythm generator

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

// ComputeEuclideanPattern spreads hits across steps with the bucket
// algorithm and rotates the result right by rotation. Bit i is step i.
// Steps are capped at EUCLID_MAX_STEPS.
func ComputeEuclideanPattern(hits, steps, rotation int) uint32 {
	if steps > EUCLID_MAX_STEPS {
		steps = EUCLID_MAX_STEPS
	}
	if steps <= 0 || hits <= 0 {
		return 0
	}
	mask := uint32(1<<steps - 1)
	if hits >= steps {
		return mask
	}

	var pattern uint32
	// Integer bucket primed one increment short of a hit, so step 0 is always a hit.
	bucket := steps - hits
	for i := 0; i < steps; i++ {
		bucket += hits
		if bucket >= steps {
			pattern |= 1 << i
			bucket -= steps
		}
	}

	if rotation < 0 {
		rotation = rotation%steps + steps
	}
	rotation %= steps
	if rotation > 0 {
		pattern = (pattern>>rotation | pattern<<(steps-rotation)) & mask
	}
	return pattern
}

// EuclideanHits lists the hit steps of a pattern in order.
func EuclideanHits(pattern uint32, steps int) []int {
	var hits []int
	for i := 0; i < steps && i < EUCLID_MAX_STEPS; i++ {
		if pattern&(1<<i) != 0 {
			hits = append(hits, i)
		}
	}
	return hits
}
