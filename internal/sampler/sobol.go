package sampler

import (
	"fmt"
	"math"
	"math/bits"
)

// Direction number parameters from the Joe–Kuo tables (new-joe-kuo-6).
// Dimension 1 is the van der Corput sequence and needs no entry.
type sobolDim struct {
	a uint32   // primitive polynomial coefficients, excluding leading/trailing 1
	m []uint32 // initial direction numbers
}

var sobolDims = []sobolDim{
	{0, []uint32{1}},
	{1, []uint32{1, 3}},
	{1, []uint32{1, 3, 1}},
	{2, []uint32{1, 1, 1}},
	{1, []uint32{1, 1, 3, 3}},
	{4, []uint32{1, 3, 5, 13}},
	{2, []uint32{1, 1, 5, 5, 17}},
	{4, []uint32{1, 1, 5, 5, 5}},
	{7, []uint32{1, 1, 7, 11, 19}},
	{11, []uint32{1, 1, 5, 1, 1}},
	{13, []uint32{1, 1, 1, 3, 11}},
	{14, []uint32{1, 3, 5, 5, 31}},
	{1, []uint32{1, 3, 3, 9, 7, 49}},
	{13, []uint32{1, 1, 1, 15, 21, 21}},
	{16, []uint32{1, 3, 1, 13, 27, 49}},
}

// MaxSobolDims is the largest dimensionality the Sobol generator supports.
const MaxSobolDims = 16

const sobolBits = 32

// sobol generates the first n points of a (optionally digit-scrambled)
// Sobol sequence. The requested count is rounded up internally to the next
// power of two and the prefix returned; the sequence's balance property
// makes front-truncation unbiased. seed = 0 yields the unscrambled
// sequence; any other seed applies a deterministic per-dimension digital
// shift (Owen-style random XOR of the output digits).
func sobol(n, dims int, seed uint64) ([][]float64, error) {
	if dims > MaxSobolDims {
		return nil, fmt.Errorf("sampler: sobol supports up to %d dimensions, got %d", MaxSobolDims, dims)
	}

	total := nextPow2(n)

	// Direction numbers v[j][k], scaled so bit 31 is the first output digit.
	v := make([][sobolBits]uint32, dims)
	for k := 0; k < sobolBits; k++ {
		v[0][k] = 1 << (sobolBits - 1 - k)
	}
	for j := 1; j < dims; j++ {
		d := sobolDims[j-1]
		s := len(d.m)
		for k := 0; k < s && k < sobolBits; k++ {
			v[j][k] = d.m[k] << (sobolBits - 1 - k)
		}
		for k := s; k < sobolBits; k++ {
			prev := v[j][k-s]
			vk := prev ^ (prev >> s)
			for t := 1; t < s; t++ {
				if (d.a>>(s-1-t))&1 == 1 {
					vk ^= v[j][k-t]
				}
			}
			v[j][k] = vk
		}
	}

	// Digital shift per dimension for the scrambled variant.
	shift := make([]uint32, dims)
	if seed != 0 {
		r := rng(seed)
		for j := range shift {
			shift[j] = r.Uint32()
		}
	}

	out := make([][]float64, 0, n)
	x := make([]uint32, dims)
	scale := math.Exp2(-sobolBits)
	for i := 0; i < total && len(out) < n; i++ {
		if i > 0 {
			// Gray-code update: flip the direction number of the lowest
			// zero bit of i-1.
			c := bits.TrailingZeros32(^uint32(i - 1))
			for j := 0; j < dims; j++ {
				x[j] ^= v[j][c]
			}
		}
		row := make([]float64, dims)
		for j := 0; j < dims; j++ {
			row[j] = float64(x[j]^shift[j]) * scale
		}
		out = append(out, row)
	}
	return out, nil
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
