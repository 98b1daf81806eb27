package lheplot

// Particle is one record from an LHE event block: PDG id plus
// four-momentum.
type Particle struct {
	PID int
	P   Vec4
}

// Event is an ordered list of particles as they appear in the source
// record. Weight is the generator weight (XWGTUP); analysis-level
// normalization is applied separately at fill time.
type Event struct {
	Particles []Particle
	Weight    float64
}

// Select returns the particles whose PDG id is in ids, preserving the
// source order. Ids may repeat within an event.
func (ev Event) Select(ids []int) []Particle {
	var out []Particle
	for _, p := range ev.Particles {
		for _, id := range ids {
			if p.PID == id {
				out = append(out, p)
				break
			}
		}
	}
	return out
}
