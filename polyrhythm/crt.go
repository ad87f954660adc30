package polyrhythm

import (
	"fmt"
	"math"
	"math/bits"
)

// GCD returns the greatest common divisor of a and b (always >= 0).
func GCD(a, b int) int {
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// ExtendedGCD returns g = gcd(a, b) together with Bézout coefficients x, y
// such that a*x + b*y == g.
func ExtendedGCD(a, b int) (g, x, y int) {
	if b == 0 {
		return a, 1, 0
	}
	g, x1, y1 := ExtendedGCD(b, a%b)
	return g, y1, x1 - floorDiv(a, b)*y1
}

// LCM returns the least common multiple of two positive integers.
// It panics if the result does not fit in an int.
func LCM(a, b int) int {
	return mulChecked(a/GCD(a, b), b)
}

// LeastCommonMultiple folds LCM over lengths. Every length must be positive
// and at least one must be given.
func LeastCommonMultiple(lengths ...int) int {
	if len(lengths) == 0 {
		panic("polyrhythm: LeastCommonMultiple of no lengths")
	}
	acc := 1
	for _, l := range lengths {
		if l <= 0 {
			panic(fmt.Sprintf("polyrhythm: non-positive length %d", l))
		}
		acc = LCM(acc, l)
	}
	return acc
}

// GeneralizedCRT returns the smallest non-negative x with
// x ≡ remainders[i] (mod moduli[i]) for every i, or NoSolution if the
// congruences are inconsistent. Moduli need not be coprime.
//
// remainders and moduli must have the same, non-zero length and every
// modulus must be positive; anything else panics before any computation.
// It also panics when the lcm of the moduli does not fit in an int.
func GeneralizedCRT(remainders, moduli []int) Solution {
	if len(remainders) != len(moduli) {
		panic(fmt.Sprintf("polyrhythm: %d remainders for %d moduli", len(remainders), len(moduli)))
	}
	if len(moduli) == 0 {
		panic("polyrhythm: empty congruence system")
	}
	for _, m := range moduli {
		if m <= 0 {
			panic(fmt.Sprintf("polyrhythm: non-positive modulus %d", m))
		}
	}

	solution := mod(remainders[0], moduli[0])
	modulus := moduli[0]
	for i := 1; i < len(moduli); i++ {
		var ok bool
		solution, modulus, ok = combine(solution, modulus, remainders[i], moduli[i])
		if !ok {
			return NoSolution()
		}
	}
	return SolutionOf(solution)
}

// combine merges x ≡ r1 (mod m1) and x ≡ r2 (mod m2) into a single
// congruence modulo lcm(m1, m2).
func combine(r1, m1, r2, m2 int) (solution, modulus int, ok bool) {
	g, x, _ := ExtendedGCD(m1, m2)
	diff := mod(r2, m2) - r1
	if diff%g != 0 {
		return 0, 0, false
	}
	modulus = mulChecked(m1/g, m2)
	// k in [0, m2/g) keeps r1+k*m1 below modulus
	n := m2 / g
	k := mulMod(mod(x, n), mod(diff/g, n), n)
	return r1 + k*m1, modulus, true
}

// mulChecked multiplies non-negative a and b, panicking on overflow.
func mulChecked(a, b int) int {
	hi, lo := bits.Mul64(uint64(a), uint64(b))
	if hi != 0 || lo > math.MaxInt {
		panic(fmt.Sprintf("polyrhythm: %d * %d overflows int", a, b))
	}
	return int(lo)
}

// mulMod returns a*b mod m for a, b in [0, m) without overflowing.
func mulMod(a, b, m int) int {
	hi, lo := bits.Mul64(uint64(a), uint64(b))
	return int(bits.Rem64(hi, lo, uint64(m)))
}

func mod(a, m int) int {
	return (a%m + m) % m
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
