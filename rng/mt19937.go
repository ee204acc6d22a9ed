// Package rng provides the deterministic 32-bit Mersenne Twister generator
// driving path shuffling and category sampling. Every draw is a pure
// function of the construction seed and the call sequence; there is no
// package-level state.
package rng

const (
	mtN         = 624
	mtM         = 397
	mtMatrixA   = 0x9908b0df
	mtUpperMask = 0x80000000
	mtLowerMask = 0x7fffffff
)

// MT19937 is the classic 32-bit Mersenne Twister.
type MT19937 struct {
	state [mtN]uint32
	index int
}

// New creates a generator initialized from a single 32-bit seed.
func New(seed uint32) *MT19937 {
	m := &MT19937{index: mtN}
	m.state[0] = seed
	for i := uint32(1); i < mtN; i++ {
		m.state[i] = 1812433253*(m.state[i-1]^(m.state[i-1]>>30)) + i
	}
	return m
}

// Next returns the next 32-bit draw.
func (m *MT19937) Next() uint32 {
	if m.index >= mtN {
		m.generate()
	}
	y := m.state[m.index]
	m.index++

	y ^= y >> 11
	y ^= (y << 7) & 0x9d2c5680
	y ^= (y << 15) & 0xefc60000
	y ^= y >> 18
	return y
}

// generate refills the state block.
func (m *MT19937) generate() {
	for i := 0; i < mtN; i++ {
		y := (m.state[i] & mtUpperMask) | (m.state[(i+1)%mtN] & mtLowerMask)
		next := m.state[(i+mtM)%mtN] ^ (y >> 1)
		if y&1 != 0 {
			next ^= mtMatrixA
		}
		m.state[i] = next
	}
	m.index = 0
}

// NextInRange returns a draw in the half-open interval [lo, hi) by modulus
// reduction on a fresh 32-bit draw. The modulo bias is negligible for the
// ranges used here.
func (m *MT19937) NextInRange(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	span := uint32(hi - lo)
	return lo + int(m.Next()%span)
}

// NextUnitFloat returns a draw in [0, 1) as a fresh 32-bit draw divided
// by 2^32.
func (m *MT19937) NextUnitFloat() float64 {
	return float64(m.Next()) / 4294967296.0
}

// Shuffle applies a Fisher-Yates permutation to n elements via swap,
// consuming exactly n-1 draws.
func (m *MT19937) Shuffle(n int, swap func(i, j int)) {
	for i := n - 1; i > 0; i-- {
		j := m.NextInRange(0, i+1)
		swap(i, j)
	}
}
