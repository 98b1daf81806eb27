package lheplot

import (
	"fmt"
	"math"

	yaml "gopkg.in/yaml.v3"
)

// Quantity is a derived kinematic scalar. The set is closed: every
// quantity a cut or histogram can request is named here and
// statically dispatched, never evaluated from a free-form expression.
type Quantity int

const (
	// The zero value is deliberately invalid so that a definition
	// missing its quantity field fails validation instead of silently
	// becoming a pt cut.
	quantInvalid Quantity = iota

	QuantPT
	QuantEta
	QuantPhi
	QuantEnergy
	QuantMass
	QuantRapidity

	// pair-only quantities
	QuantDeltaPhi
	QuantDeltaEta
	QuantDeltaR
	QuantDeltaPT
)

var quantNames = map[Quantity]string{
	QuantPT:       "pt",
	QuantEta:      "eta",
	QuantPhi:      "phi",
	QuantEnergy:   "energy",
	QuantMass:     "mass",
	QuantRapidity: "rapidity",
	QuantDeltaPhi: "dphi",
	QuantDeltaEta: "deta",
	QuantDeltaR:   "dr",
	QuantDeltaPT:  "dpt",
}

func ParseQuantity(s string) (Quantity, error) {
	for q, name := range quantNames {
		if name == s {
			return q, nil
		}
	}
	return 0, fmt.Errorf("unknown quantity %q", s)
}

func (q Quantity) String() string {
	if name, ok := quantNames[q]; ok {
		return name
	}
	return fmt.Sprintf("Quantity(%d)", int(q))
}

// PairOnly reports whether q is defined only for two particles.
func (q Quantity) PairOnly() bool {
	switch q {
	case QuantDeltaPhi, QuantDeltaEta, QuantDeltaR, QuantDeltaPT:
		return true
	}
	return false
}

func (q *Quantity) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	v, err := ParseQuantity(s)
	if err != nil {
		return err
	}
	*q = v
	return nil
}

func (q Quantity) MarshalYAML() (interface{}, error) {
	return q.String(), nil
}

// Eval computes q for a single four-vector. Degenerate inputs return
// an error instead of a non-finite value.
func (q Quantity) Eval(v Vec4) (float64, error) {
	switch q {
	case QuantPT:
		return v.PT(), nil
	case QuantEta:
		eta, ok := v.Eta()
		if !ok {
			return 0, fmt.Errorf("eta undefined for p=(%g,%g,%g)", v.Px, v.Py, v.Pz)
		}
		return eta, nil
	case QuantPhi:
		return v.Phi(), nil
	case QuantEnergy:
		return v.E, nil
	case QuantMass:
		return v.M(), nil
	case QuantRapidity:
		y, ok := v.Rapidity()
		if !ok {
			return 0, fmt.Errorf("rapidity undefined for E=%g, pz=%g", v.E, v.Pz)
		}
		return y, nil
	}
	return 0, fmt.Errorf("%s is not a single-particle quantity", q)
}

// EvalPair computes q for two four-vectors. Combined quantities (mass,
// pt, ...) act on the vector sum; delta quantities act on the
// difference of the per-particle scalars.
func (q Quantity) EvalPair(a, b Vec4) (float64, error) {
	switch q {
	case QuantDeltaPhi:
		return DeltaPhi(a, b), nil
	case QuantDeltaEta:
		etaA, okA := a.Eta()
		etaB, okB := b.Eta()
		if !okA || !okB {
			return 0, fmt.Errorf("deta undefined for zero-momentum particle")
		}
		return math.Abs(etaA - etaB), nil
	case QuantDeltaR:
		etaA, okA := a.Eta()
		etaB, okB := b.Eta()
		if !okA || !okB {
			return 0, fmt.Errorf("dr undefined for zero-momentum particle")
		}
		deta := etaA - etaB
		dphi := DeltaPhi(a, b)
		return math.Sqrt(deta*deta + dphi*dphi), nil
	case QuantDeltaPT:
		return math.Abs(a.PT() - b.PT()), nil
	}
	return q.Eval(a.Add(b))
}

// Cut is one kinematic selection: the named quantity of every particle
// (single mode) or of the matched pair (pair mode) must lie within
// [Min, Max].
type Cut struct {
	Quantity Quantity `yaml:"quantity"`
	Mode     Mode     `yaml:"mode"`
	PIDs     []int    `yaml:"id"`
	Min      float64  `yaml:"-"`
	Max      float64  `yaml:"-"`
}

func (c *Cut) UnmarshalYAML(value *yaml.Node) error {
	// The strictness of the outer decoder does not reach into a custom
	// unmarshaler, so unknown fields are rejected by hand here.
	if value.Kind == yaml.MappingNode {
		for i := 0; i < len(value.Content); i += 2 {
			switch key := value.Content[i].Value; key {
			case "quantity", "mode", "id", "min", "max":
			default:
				return fmt.Errorf("cut: unknown field %q", key)
			}
		}
	}

	var aux struct {
		Quantity Quantity `yaml:"quantity"`
		Mode     Mode     `yaml:"mode"`
		PIDs     []int    `yaml:"id"`
		Min      *float64 `yaml:"min"`
		Max      *float64 `yaml:"max"`
	}
	if err := value.Decode(&aux); err != nil {
		return err
	}
	c.Quantity = aux.Quantity
	c.Mode = aux.Mode
	c.PIDs = aux.PIDs
	c.Min = math.Inf(-1)
	c.Max = math.Inf(+1)
	if aux.Min != nil {
		c.Min = *aux.Min
	}
	if aux.Max != nil {
		c.Max = *aux.Max
	}
	return nil
}

func (c Cut) Validate() error {
	if c.Quantity == quantInvalid {
		return fmt.Errorf("cut without a quantity")
	}
	if len(c.PIDs) == 0 {
		return fmt.Errorf("cut on %s: empty id list", c.Quantity)
	}
	if c.Min > c.Max {
		return fmt.Errorf("cut on %s: min %g > max %g", c.Quantity, c.Min, c.Max)
	}
	switch c.Mode {
	case ModeSingle:
		if c.Quantity.PairOnly() {
			return fmt.Errorf("cut on %s: quantity requires pair mode", c.Quantity)
		}
	case ModePair:
	default:
		return fmt.Errorf("cut on %s: mode %s not valid for cuts", c.Quantity, c.Mode)
	}
	return nil
}

// PassCuts reports whether ev satisfies every cut (logical AND).
func PassCuts(ev Event, cuts []Cut, warns *Warnings) bool {
	for _, c := range cuts {
		if !c.pass(ev, warns) {
			return false
		}
	}
	return true
}

func (c Cut) pass(ev Event, warns *Warnings) bool {
	sel := ev.Select(c.PIDs)

	switch c.Mode {
	case ModeSingle:
		// Zero matching particles pass vacuously: a cut on a species
		// absent from the event constrains nothing.
		for _, p := range sel {
			v, err := c.Quantity.Eval(p.P)
			if err != nil {
				warns.Warnf(WarnDegenerateFill, "cut on %s: %v", c.Quantity, err)
				return false
			}
			if v < c.Min || v > c.Max {
				return false
			}
		}
		return true

	case ModePair:
		// Fail closed on any multiplicity other than two.
		if len(sel) != 2 {
			return false
		}
		v, err := c.Quantity.EvalPair(sel[0].P, sel[1].P)
		if err != nil {
			warns.Warnf(WarnDegenerateFill, "cut on %s: %v", c.Quantity, err)
			return false
		}
		return v >= c.Min && v <= c.Max
	}
	return false
}
