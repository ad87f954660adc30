package polyrhythm

import (
	"strings"
	"testing"
)

func TestGeneralizedCRTKnownSystems(t *testing.T) {
	cases := []struct {
		remainders []int
		moduli     []int
		want       int
	}{
		{[]int{2, 3, 2}, []int{3, 5, 7}, 23},
		{[]int{2, 3, 2}, []int{3, 4, 5}, 47},
		{[]int{1, 0}, []int{60, 7}, 301},
		{[]int{5, 13}, []int{8, 16}, 13},
	}
	for _, c := range cases {
		got := GeneralizedCRT(c.remainders, c.moduli)
		if !got.Equals(c.want) {
			t.Errorf("GeneralizedCRT(%v, %v) = %v, want %d", c.remainders, c.moduli, got, c.want)
		}
	}
}

func TestGeneralizedCRTSingleCongruence(t *testing.T) {
	for m := 1; m <= 20; m++ {
		for r := -25; r <= 25; r++ {
			got := GeneralizedCRT([]int{r}, []int{m})
			want := ((r % m) + m) % m
			if !got.Equals(want) {
				t.Fatalf("GeneralizedCRT([%d], [%d]) = %v, want %d", r, m, got, want)
			}
		}
	}
}

func TestGeneralizedCRTNoSolution(t *testing.T) {
	// 1 mod 4 is odd, 2 mod 6 is even
	got := GeneralizedCRT([]int{1, 2}, []int{4, 6})
	if got.Ok() {
		t.Fatalf("expected no solution, got %v", got)
	}
	// a later inconsistency short-circuits the whole fold
	got = GeneralizedCRT([]int{2, 3, 1, 0}, []int{3, 5, 4, 6})
	if got.Ok() {
		t.Fatalf("expected no solution, got %v", got)
	}
}

func TestGeneralizedCRTLengthMismatchPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on mismatched lengths")
		}
	}()
	GeneralizedCRT([]int{1, 2}, []int{3, 4, 5})
}

func TestGeneralizedCRTMatchingLengthsDoNotPanic(t *testing.T) {
	got := GeneralizedCRT([]int{1, 2, 3}, []int{3, 4, 5})
	if !got.Ok() {
		t.Fatal("expected a solution for coprime moduli")
	}
	v := got.Value()
	if v%3 != 1 || v%4 != 2 || v%5 != 3 {
		t.Fatalf("solution %d does not satisfy the system", v)
	}
}

func TestGeneralizedCRTIsSmallestNonNegative(t *testing.T) {
	moduli := []int{8, 16, 17, 18, 19}
	l := LeastCommonMultiple(moduli...)
	for _, x := range []int{0, 1, 15, 16, 151, 2047, l - 1} {
		remainders := make([]int, len(moduli))
		for i, m := range moduli {
			remainders[i] = x % m
		}
		got := GeneralizedCRT(remainders, moduli)
		if !got.Equals(x) {
			t.Errorf("x=%d: got %v", x, got)
		}
	}
}

func TestGeneralizedCRTLargeModuli(t *testing.T) {
	// lcm fits in an int but k*m1 alone would not
	moduli := []int{3037000499, 3037000493}
	cases := []struct {
		remainders []int
		want       int
	}{
		{[]int{0, 1}, 1537228669290207751},
		{[]int{-1, -1}, 9223372012704246006},
	}
	for _, c := range cases {
		got := GeneralizedCRT(c.remainders, moduli)
		if !got.Equals(c.want) {
			t.Errorf("%v: got %v, want %d", c.remainders, got, c.want)
		}
	}
}

func expectOverflowPanic(t *testing.T, name string, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		msg, _ := r.(string)
		if !strings.Contains(msg, "overflows") {
			t.Errorf("%s: expected overflow panic, got %v", name, r)
		}
	}()
	fn()
}

func TestOverflowPanics(t *testing.T) {
	expectOverflowPanic(t, "LCM", func() { LCM(1<<62, 3) })
	expectOverflowPanic(t, "LeastCommonMultiple", func() { LeastCommonMultiple(1<<61, 3, 5) })
	expectOverflowPanic(t, "GeneralizedCRT", func() {
		GeneralizedCRT([]int{0, 0}, []int{1<<62 + 1, 3})
	})
}

func TestLeastCommonMultiple(t *testing.T) {
	for a := 1; a <= 12; a++ {
		if got := LeastCommonMultiple(a, a); got != a {
			t.Errorf("lcm(%d, %d) = %d", a, a, got)
		}
		for b := 1; b <= 12; b++ {
			for c := 1; c <= 12; c++ {
				left := LCM(LCM(a, b), c)
				right := LCM(a, LCM(b, c))
				if left != right {
					t.Fatalf("lcm not associative for %d %d %d: %d != %d", a, b, c, left, right)
				}
				if got := LeastCommonMultiple(a, b, c); got != left {
					t.Fatalf("LeastCommonMultiple(%d, %d, %d) = %d, want %d", a, b, c, got, left)
				}
			}
		}
	}
	if got := LeastCommonMultiple(8, 16, 17, 18, 19); got != 46512 {
		t.Errorf("default track lengths: got %d", got)
	}
	if got := LeastCommonMultiple(7); got != 7 {
		t.Errorf("single value: got %d", got)
	}
}

func TestExtendedGCD(t *testing.T) {
	for a := 1; a <= 30; a++ {
		for b := 1; b <= 30; b++ {
			g, x, y := ExtendedGCD(a, b)
			if g != GCD(a, b) {
				t.Fatalf("gcd(%d, %d) = %d, want %d", a, b, g, GCD(a, b))
			}
			if a*x+b*y != g {
				t.Fatalf("bezout failed for %d %d: %d*%d + %d*%d != %d", a, b, a, x, b, y, g)
			}
		}
	}
}

func TestSolution(t *testing.T) {
	if _, ok := NoSolution().Unpack(); ok {
		t.Fatal("NoSolution unpacked as ok")
	}
	if v, ok := SolutionOf(4).Unpack(); !ok || v != 4 {
		t.Fatalf("SolutionOf(4) unpacked as %d, %v", v, ok)
	}
	if (Solution{}).Ok() {
		t.Fatal("zero Solution should be empty")
	}
	defer func() {
		if recover() == nil {
			t.Fatal("Value of empty Solution should panic")
		}
	}()
	NoSolution().Value()
}
