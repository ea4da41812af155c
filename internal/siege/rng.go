package siege

// Rand is the randomness source of a simulation. Inject a fixed-seed
// implementation to make targeting and potion draws reproducible.
type Rand interface {
	// Float64 returns a value in [0, 1).
	Float64() float64
	// Intn returns a value in [0, n). It returns 0 when n <= 0.
	Intn(n int) int
}

// LCG is a deterministic 64-bit linear congruential generator. Its whole
// state is one word, which makes it cheap to fold into snapshot hashes.
type LCG struct {
	state uint64
}

// NewLCG creates a generator. A zero seed is replaced with 1.
func NewLCG(seed int64) *LCG {
	s := uint64(seed) //#nosec G115 -- intentional conversion for RNG seeding
	if s == 0 {
		s = 1
	}
	return &LCG{state: s}
}

// Next advances the generator and returns the raw state.
func (r *LCG) Next() uint64 {
	r.state = r.state*6364136223846793005 + 1442695040888963407
	return r.state
}

// Intn uses the high bits, the low bits of an LCG have short periods.
func (r *LCG) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int((r.Next() >> 33) % uint64(n)) //#nosec G115 -- n is always positive
}

func (r *LCG) Float64() float64 {
	return float64(r.Next()>>11) / (1 << 53)
}

// State exposes the generator word for snapshots.
func (r *LCG) State() uint64 { return r.state }

// uniform returns a value in [lo, hi).
func uniform(r Rand, lo, hi float64) float64 {
	return lo + (hi-lo)*r.Float64()
}

// chance returns true with probability p.
func chance(r Rand, p float64) bool {
	return r.Float64() < p
}

// weightedPick draws an index from non-negative weights. It returns -1 when
// every weight is zero.
func weightedPick(r Rand, weights []int) int {
	total := 0
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total == 0 {
		return -1
	}
	roll := r.Intn(total)
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		if roll < w {
			return i
		}
		roll -= w
	}
	return len(weights) - 1
}
