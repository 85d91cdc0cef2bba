package aggregate

// Stat accumulates a sum and a row count for one numeric series.
//
// Mean of an empty set is defined as 0 with Count 0 — an explicit sentinel
// rather than the NaN a dataframe library would propagate silently. Callers
// that must distinguish "mean is zero" from "no rows" check Defined.
type Stat struct {
	Sum   float64 `json:"sum"`
	Count int     `json:"count"`
}

// Add folds one observation into the stat.
func (s *Stat) Add(v float64) {
	s.Sum += v
	s.Count++
}

// Mean returns Sum/Count, or 0 when no rows were observed. Never NaN, so
// the value survives JSON encoding.
func (s Stat) Mean() float64 {
	if s.Count == 0 {
		return 0
	}
	return s.Sum / float64(s.Count)
}

// Defined reports whether at least one row was observed.
func (s Stat) Defined() bool { return s.Count > 0 }
