package randutil

import (
	"crypto/rand"
	"encoding/binary"
	mathrand "math/rand/v2"
)

const goldenRatio64 = 0x9e3779b97f4a7c15

// New returns a *rand.Rand seeded deterministically from the provided int64.
// The helper centralises how we derive the two 64-bit seeds required by
// rand/v2 so that all call sites get reproducible sequences.
func New(seed int64) *mathrand.Rand {
	u := uint64(seed)
	return mathrand.New(mathrand.NewPCG(mix(u), mix(u+goldenRatio64)))
}

// ForHand derives a per-hand RNG from a table seed and hand number, so
// replaying the same seed and hand count reproduces the same shuffles.
func ForHand(seed int64, hand int) *mathrand.Rand {
	u := uint64(seed) + uint64(hand)*goldenRatio64
	return mathrand.New(mathrand.NewPCG(mix(u), mix(u+goldenRatio64)))
}

// CryptoSeed draws a fresh seed from the operating system CSPRNG.
func CryptoSeed() int64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		panic("randutil: crypto/rand unavailable: " + err.Error())
	}
	return int64(binary.LittleEndian.Uint64(buf[:]))
}

func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
