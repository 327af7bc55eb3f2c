package sim

// PCG32 (XSH-RR variant). The generator state is carried inside GameState so
// a week resolves identically wherever it is replayed; relying on a library
// RNG would tie outcomes to that library's algorithm instead of the save.

const (
	pcgMultiplier = 6364136223846793005
	pcgDefaultInc = 1442695040888963407
)

type RNG struct {
	state uint64
	inc   uint64
}

// NewRNG seeds a generator. The stream selector lets two generators with the
// same seed produce unrelated sequences; zero picks the default stream.
func NewRNG(seed, stream uint64) *RNG {
	if stream == 0 {
		stream = pcgDefaultInc
	}
	r := &RNG{inc: stream<<1 | 1}
	r.state = 0
	r.next()
	r.state += seed
	r.next()
	return r
}

// RestoreRNG resumes a generator from persisted state words.
func RestoreRNG(state, inc uint64) *RNG {
	return &RNG{state: state, inc: inc}
}

func (r *RNG) Save() (state, inc uint64) {
	return r.state, r.inc
}

func (r *RNG) next() uint32 {
	old := r.state
	r.state = old*pcgMultiplier + r.inc
	xorshifted := uint32(((old >> 18) ^ old) >> 27)
	rot := uint32(old >> 59)
	return (xorshifted >> rot) | (xorshifted << ((-rot) & 31))
}

// Float64 returns a draw in [0,1) with 53 bits of precision.
func (r *RNG) Float64() float64 {
	hi := uint64(r.next())
	lo := uint64(r.next())
	return float64((hi<<32|lo)>>11) / (1 << 53)
}

// IntN returns a draw in [0,n). Uses a single underlying draw so the
// consumption rate stays predictable.
func (r *RNG) IntN(n int) int {
	if n <= 0 {
		return 0
	}
	return int(r.next() % uint32(n))
}
