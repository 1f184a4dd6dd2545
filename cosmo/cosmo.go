/*package cosmo contains the background cosmology needed to set up and
evolve particle-mesh simulations: densities, the Hubble function, and
linear growth.

All densities are in units of (Msun/h) / (Mpc/h)^3.
*/
package cosmo

import (
	"math"
)

// RhoCrit0 is the z = 0 critical density.
const RhoCrit0 = 2.77536627e11

// HubbleE returns the dimensionless Hubble function
// E(a) = H(a)/H0 = sqrt(OmegaM/a^3 + OmegaK/a^2 + OmegaL).
func HubbleE(omegaM, omegaL, a float64) float64 {
	omegaK := 1 - omegaM - omegaL
	return math.Sqrt(omegaM/(a*a*a) + omegaK/(a*a) + omegaL)
}

// dHubbleEdA returns the derivative of HubbleE with respect to a.
func dHubbleEdA(omegaM, omegaL, a float64) float64 {
	omegaK := 1 - omegaM - omegaL
	e := HubbleE(omegaM, omegaL, a)
	return -(3*omegaM/(a*a*a*a) + 2*omegaK/(a*a*a)) / (2 * e)
}

// RhoCritical returns the critical density at the given redshift.
func RhoCritical(H0, omegaM, omegaL, z float64) float64 {
	a := 1 / (1 + z)
	e := HubbleE(omegaM, omegaL, a)
	return RhoCrit0 * e * e
}

// RhoAverage returns the mean matter density at the given redshift. At
// z = 0 this is also the comoving matter density at all times, which is
// what sets the particle mass of a simulation.
func RhoAverage(H0, omegaM, omegaL, z float64) float64 {
	return RhoCrit0 * omegaM * (1 + z) * (1 + z) * (1 + z)
}

// growthIntegral computes the unnormalized linear growth factor
// (5 OmegaM / 2) E(a) int_0^a da' / (a' E(a'))^3.
func growthIntegral(omegaM, omegaL, a float64) float64 {
	f := func(ap float64) float64 {
		if ap == 0 {
			return 0
		}
		ae := ap * HubbleE(omegaM, omegaL, ap)
		return 1 / (ae * ae * ae)
	}
	integral := simpson(f, 0, a, 1024)
	return 2.5 * omegaM * HubbleE(omegaM, omegaL, a) * integral
}

// GrowthFactor returns the linear growth factor D(a), normalized so that
// D(1) = 1.
func GrowthFactor(omegaM, omegaL, a float64) float64 {
	return growthIntegral(omegaM, omegaL, a) /
		growthIntegral(omegaM, omegaL, 1)
}

// GrowthRate returns the logarithmic growth rate f = dln(D)/dln(a).
func GrowthRate(omegaM, omegaL, a float64) float64 {
	f := func(ap float64) float64 {
		if ap == 0 {
			return 0
		}
		ae := ap * HubbleE(omegaM, omegaL, ap)
		return 1 / (ae * ae * ae)
	}
	integral := simpson(f, 0, a, 1024)

	e := HubbleE(omegaM, omegaL, a)
	dh := dHubbleEdA(omegaM, omegaL, a)*integral + e*f(a)
	return a * dh / (e * integral)
}

// simpson integrates f over [lo, hi] with n panels. n must be even.
func simpson(f func(float64) float64, lo, hi float64, n int) float64 {
	h := (hi - lo) / float64(n)
	sum := f(lo) + f(hi)
	for i := 1; i < n; i++ {
		x := lo + h*float64(i)
		if i%2 == 1 {
			sum += 4 * f(x)
		} else {
			sum += 2 * f(x)
		}
	}
	return sum * h / 3
}
