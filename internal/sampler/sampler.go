// Package sampler generates design-space samples on the unit hypercube.
//
// Four methods are supported: Sobol (primary), Halton (alternative
// low-discrepancy), Latin hypercube (small-sample stratified), and plain
// uniform random. All methods are deterministic for a given
// (method, seed, n, dims) tuple; the seed doubles as the scramble seed for
// the quasi-random sequences and is recorded by the caller for
// reproducibility.
package sampler

import (
	"errors"
	"fmt"
	"math/rand/v2"
)

// Method selects the sample generation algorithm.
type Method string

const (
	MethodSobol          Method = "sobol"
	MethodHalton         Method = "halton"
	MethodLatinHypercube Method = "latin_hypercube"
	MethodRandom         Method = "random"
)

// ErrInvalidDimension is returned when dims < 1.
var ErrInvalidDimension = errors.New("sampler: dimensions must be positive")

// ParseMethod validates a method name.
func ParseMethod(s string) (Method, error) {
	switch Method(s) {
	case MethodSobol, MethodHalton, MethodLatinHypercube, MethodRandom:
		return Method(s), nil
	}
	return "", fmt.Errorf("sampler: unknown method %q", s)
}

// Generate produces n samples of the given dimensionality. n = 0 yields an
// empty sequence; dims = 0 is an error. The returned slice is produced once
// and owned by the caller.
func Generate(method Method, n, dims int, seed uint64) ([][]float64, error) {
	if dims < 1 {
		return nil, ErrInvalidDimension
	}
	if n < 0 {
		return nil, fmt.Errorf("sampler: negative sample count %d", n)
	}
	if n == 0 {
		return [][]float64{}, nil
	}

	switch method {
	case MethodSobol:
		return sobol(n, dims, seed)
	case MethodHalton:
		return halton(n, dims, seed), nil
	case MethodLatinHypercube:
		return latinHypercube(n, dims, seed), nil
	case MethodRandom:
		return random(n, dims, seed), nil
	default:
		return nil, fmt.Errorf("sampler: unknown method %q", method)
	}
}

// rng builds the seeded generator shared by all methods. The second PCG
// stream word is fixed so the sequence depends only on the caller's seed.
func rng(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, 0x9e3779b97f4a7c15))
}

func random(n, dims int, seed uint64) [][]float64 {
	r := rng(seed)
	out := make([][]float64, n)
	for i := range out {
		row := make([]float64, dims)
		for j := range row {
			row[j] = r.Float64()
		}
		out[i] = row
	}
	return out
}

// latinHypercube stratifies each dimension into n equal bins, places one
// point per bin with uniform jitter, and shuffles bin assignments
// independently per dimension.
func latinHypercube(n, dims int, seed uint64) [][]float64 {
	r := rng(seed)
	out := make([][]float64, n)
	for i := range out {
		out[i] = make([]float64, dims)
	}
	perm := make([]int, n)
	for j := 0; j < dims; j++ {
		for i := range perm {
			perm[i] = i
		}
		r.Shuffle(n, func(a, b int) { perm[a], perm[b] = perm[b], perm[a] })
		for i := 0; i < n; i++ {
			out[i][j] = (float64(perm[i]) + r.Float64()) / float64(n)
		}
	}
	return out
}
