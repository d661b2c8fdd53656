package badges

// Evaluation pairs one catalog entry with its earned state for a single
// (ratio, hardMoneyPct) input. Earned is a recomputed snapshot, never a
// persisted fact; tracking "newly earned" transitions is the Service's job.
type Evaluation struct {
	Definition
	Earned bool `json:"earned"`
}

// Evaluate runs every catalog predicate against the supplied scalars and
// returns the results in catalog order. Pure and deterministic: eligibility
// depends only on the two inputs, never on time, wallet identity, or prior
// evaluations.
func Evaluate(ratio, hardMoneyPct float64) []Evaluation {
	results := make([]Evaluation, len(Catalog))
	for i, def := range Catalog {
		results[i] = Evaluation{
			Definition: def,
			Earned:     def.eligible(ratio, hardMoneyPct),
		}
	}
	return results
}

// EarnedCount returns how many evaluations are earned.
func EarnedCount(evals []Evaluation) int {
	n := 0
	for _, e := range evals {
		if e.Earned {
			n++
		}
	}
	return n
}

// NextBadge returns the unearned ratio-gated badge with the lowest ratio
// threshold, for progress-bar display. Badges gated only on hard-money
// percentage are skipped: there is no meaningful ratio distance to show for
// them. Returns nil when every ratio-gated badge is earned.
func NextBadge(evals []Evaluation) *Definition {
	var next *Definition
	for i := range evals {
		e := &evals[i]
		if e.Earned || !e.RatioGated() {
			continue
		}
		if next == nil || e.MinRatio < next.MinRatio {
			next = &evals[i].Definition
		}
	}
	return next
}

// EarnedIDs returns the set of earned badge IDs, used for history diffing.
func EarnedIDs(evals []Evaluation) []string {
	ids := make([]string, 0, len(evals))
	for _, e := range evals {
		if e.Earned {
			ids = append(ids, e.ID)
		}
	}
	return ids
}
