package shower

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"
)

// Source is the random stream a run draws from. Draws must be uniform in
// [0, 1). *rand.Rand satisfies it.
//
// A Source is owned by exactly one run at a time; *rand.Rand is not safe for
// concurrent use.
type Source interface {
	Float64() float64
}

// NewSource returns a deterministic Source for seed. Two sources built from
// the same seed yield the same stream.
func NewSource(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// RandomSeed generates a non-negative seed using crypto/rand.
func RandomSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return int64(binary.LittleEndian.Uint64(b[:]) >> 1), nil
}

// uniform draws from U(0, hi).
func uniform(src Source, hi float64) float64 {
	return hi * src.Float64()
}
