package interpolate

import (
	"log"
)

// TriDiagAt solves a tridiagonal system of equations with the Thomas
// algorithm and writes the solution to out. as, bs, and cs are the
// subdiagonal, diagonal, and superdiagonal bands, and rs is the right
// hand side. as[0] and cs[len(cs)-1] are ignored.
func TriDiagAt(as, bs, cs, rs, out []float64) {
	n := len(bs)
	if len(as) != n || len(cs) != n || len(rs) != n || len(out) != n {
		log.Fatalf(
			"TriDiagAt() given bands of length %d, %d, %d, %d and output "+
				"of length %d.", len(as), len(bs), len(cs), len(rs), len(out),
		)
	}
	if n == 0 {
		return
	}

	cps := make([]float64, n)

	cps[0] = cs[0] / bs[0]
	out[0] = rs[0] / bs[0]
	for i := 1; i < n; i++ {
		m := bs[i] - as[i]*cps[i-1]
		cps[i] = cs[i] / m
		out[i] = (rs[i] - as[i]*out[i-1]) / m
	}

	for i := n - 2; i >= 0; i-- {
		out[i] -= cps[i] * out[i+1]
	}
}
