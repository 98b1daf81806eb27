package lheplot

import "fmt"

// Warning categories reported in the run summary.
const (
	WarnMalformedEvent = "malformed event"
	WarnDegenerateFill = "degenerate quantity"
	WarnPairMismatch   = "pair multiplicity"
)

const maxWarnDetail = 25

// Warnings accumulates non-fatal problems encountered during a run so
// that batch jobs keep an auditable record beyond transient log lines.
type Warnings struct {
	Counts map[string]int
	Detail []string
}

func NewWarnings() *Warnings {
	return &Warnings{Counts: make(map[string]int)}
}

func (w *Warnings) Warnf(category, format string, args ...interface{}) {
	w.Counts[category]++
	if len(w.Detail) < maxWarnDetail {
		w.Detail = append(w.Detail, category+": "+fmt.Sprintf(format, args...))
	}
}

// Merge folds o's counts and detail into w.
func (w *Warnings) Merge(o *Warnings) {
	for category, n := range o.Counts {
		w.Counts[category] += n
	}
	for _, d := range o.Detail {
		if len(w.Detail) == maxWarnDetail {
			break
		}
		w.Detail = append(w.Detail, d)
	}
}

// Total returns the number of warnings across all categories.
func (w *Warnings) Total() int {
	n := 0
	for _, c := range w.Counts {
		n += c
	}
	return n
}
