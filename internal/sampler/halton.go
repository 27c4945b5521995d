package sampler

// First primes, one base per dimension. Halton is only used for the same
// dimensionalities as Sobol, so a fixed table is enough.
var haltonBases = []int{2, 3, 5, 7, 11, 13, 17, 19, 23, 29, 31, 37, 41, 43, 47, 53}

// halton generates a scrambled Halton sequence. Each dimension uses the
// radical inverse in its prime base with a seeded digit permutation
// (the zero digit stays fixed so 0 maps to 0); seed = 0 leaves every
// dimension unscrambled. The index starts at 1 to skip the all-zero point,
// which correlates badly across dimensions in high bases.
func halton(n, dims int, seed uint64) [][]float64 {
	perms := make([][]int, dims)
	if seed != 0 {
		r := rng(seed)
		for j := 0; j < dims; j++ {
			base := haltonBases[j%len(haltonBases)]
			p := make([]int, base)
			for d := range p {
				p[d] = d
			}
			// Permute the non-zero digits only.
			r.Shuffle(base-1, func(a, b int) { p[a+1], p[b+1] = p[b+1], p[a+1] })
			perms[j] = p
		}
	}

	out := make([][]float64, n)
	for i := 0; i < n; i++ {
		row := make([]float64, dims)
		for j := 0; j < dims; j++ {
			base := haltonBases[j%len(haltonBases)]
			row[j] = radicalInverse(i+1, base, perms[j])
		}
		out[i] = row
	}
	return out
}

func radicalInverse(i, base int, perm []int) float64 {
	inv := 0.0
	f := 1.0 / float64(base)
	for i > 0 {
		digit := i % base
		if perm != nil {
			digit = perm[digit]
		}
		inv += float64(digit) * f
		i /= base
		f /= float64(base)
	}
	return inv
}
