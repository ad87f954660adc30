package polyrhythm

import "fmt"

// Solution is the result of GeneralizedCRT: either a value or "no solution".
// The zero value is "no solution".
type Solution struct {
	value int
	ok    bool
}

// SolutionOf returns a Solution holding v.
func SolutionOf(v int) Solution {
	return Solution{value: v, ok: true}
}

// NoSolution returns the empty Solution.
func NoSolution() Solution {
	return Solution{}
}

// Unpack returns the value and whether it exists.
func (s Solution) Unpack() (int, bool) {
	return s.value, s.ok
}

// Ok reports whether the congruence system was solvable.
func (s Solution) Ok() bool {
	return s.ok
}

// Value returns the solution. It panics on an empty Solution.
func (s Solution) Value() int {
	if !s.ok {
		panic("polyrhythm: Value of empty Solution")
	}
	return s.value
}

// Equals reports whether s holds v.
func (s Solution) Equals(v int) bool {
	return s.ok && s.value == v
}

func (s Solution) String() string {
	if !s.ok {
		return "none"
	}
	return fmt.Sprintf("%d", s.value)
}
