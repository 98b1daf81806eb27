package lheplot

import "math"

// Vec4 is a four-momentum in GeV: (Px, Py, Pz, E).
type Vec4 struct {
	Px, Py, Pz, E float64
}

func (v Vec4) Add(o Vec4) Vec4 {
	return Vec4{v.Px + o.Px, v.Py + o.Py, v.Pz + o.Pz, v.E + o.E}
}

// P returns the magnitude of the three-momentum.
func (v Vec4) P() float64 {
	return math.Sqrt(v.Px*v.Px + v.Py*v.Py + v.Pz*v.Pz)
}

// PT returns the transverse momentum.
func (v Vec4) PT() float64 {
	return math.Sqrt(v.Px*v.Px + v.Py*v.Py)
}

// Eta returns the pseudorapidity atanh(pz/|p|) and false for a
// zero-momentum vector, for which eta is undefined.
func (v Vec4) Eta() (float64, bool) {
	p := v.P()
	if p == 0 || math.Abs(v.Pz) == p {
		return 0, false
	}
	return math.Atanh(v.Pz / p), true
}

// Phi returns the azimuthal angle in (-pi, pi].
func (v Vec4) Phi() float64 {
	return math.Atan2(v.Py, v.Px)
}

// M returns the invariant mass. Spacelike vectors yield the negative
// root, following the TLorentzVector convention.
func (v Vec4) M() float64 {
	m2 := v.E*v.E - v.Px*v.Px - v.Py*v.Py - v.Pz*v.Pz
	if m2 < 0 {
		return -math.Sqrt(-m2)
	}
	return math.Sqrt(m2)
}

// Rapidity returns 0.5*ln((E+pz)/(E-pz)) and false when |E| <= |pz|,
// where the rapidity diverges.
func (v Vec4) Rapidity() (float64, bool) {
	if v.E-v.Pz <= 0 || v.E+v.Pz <= 0 {
		return 0, false
	}
	return 0.5 * math.Log((v.E+v.Pz)/(v.E-v.Pz)), true
}

// DeltaPhi returns the azimuthal separation of two vectors, folded
// into [0, pi].
func DeltaPhi(a, b Vec4) float64 {
	dphi := math.Abs(a.Phi() - b.Phi())
	if dphi > math.Pi {
		dphi = 2*math.Pi - dphi
	}
	return dphi
}
