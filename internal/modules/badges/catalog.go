// Package badges evaluates achievement badges from sovereignty metrics.
//
// The catalog is a fixed ordered list of definitions validated at package
// init. Each badge gates on a ratio threshold, a hard-money-percentage
// threshold, or both; predicates are independent and multiple badges can be
// earned at once.
package badges

import "fmt"

// Rarity is the cosmetic rarity class of a badge. It never affects
// eligibility evaluation.
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// Valid reports whether the rarity is one of the known variants.
func (r Rarity) Valid() bool {
	switch r {
	case RarityCommon, RarityRare, RarityEpic, RarityLegendary:
		return true
	}
	return false
}

// Definition is one entry in the fixed badge catalog.
//
// MinRatio and MinHardMoneyPct are inclusive lower bounds; a zero threshold
// means the dimension is not gated. Thresholds are explicit fields rather
// than opaque predicates so the "next badge" progress display can sort
// ratio-gated badges by their ratio component.
type Definition struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Requirement     string  `json:"requirement"`
	Rarity          Rarity  `json:"rarity"`
	MinRatio        float64 `json:"min_ratio"`
	MinHardMoneyPct float64 `json:"min_hard_money_pct"`
}

// eligible is the badge's pure predicate over the two input scalars.
func (d Definition) eligible(ratio, hardMoneyPct float64) bool {
	return ratio >= d.MinRatio && hardMoneyPct >= d.MinHardMoneyPct
}

// RatioGated reports whether the badge has a ratio threshold component.
func (d Definition) RatioGated() bool {
	return d.MinRatio > 0
}

// Catalog is the fixed badge catalog, in display order. Declared once,
// never mutated at runtime.
var Catalog = []Definition{
	{
		ID:          "first_runway",
		Name:        "First Runway",
		Requirement: "Reach 3 months of expense coverage",
		Rarity:      RarityCommon,
		MinRatio:    0.25,
	},
	{
		ID:          "year_of_freedom",
		Name:        "Year of Freedom",
		Requirement: "Reach 1 year of expense coverage",
		Rarity:      RarityCommon,
		MinRatio:    1,
	},
	{
		ID:          "robust_stack",
		Name:        "Robust Stack",
		Requirement: "Reach 3 years of expense coverage",
		Rarity:      RarityRare,
		MinRatio:    3,
	},
	{
		ID:          "antifragile",
		Name:        "Antifragile",
		Requirement: "Reach 6 years of expense coverage",
		Rarity:      RarityEpic,
		MinRatio:    6,
	},
	{
		ID:          "generational",
		Name:        "Generational Wealth",
		Requirement: "Reach 20 years of expense coverage",
		Rarity:      RarityLegendary,
		MinRatio:    20,
	},
	{
		ID:              "hard_money_majority",
		Name:            "Hard Money Majority",
		Requirement:     "Hold at least 50% of portfolio value in hard assets",
		Rarity:          RarityRare,
		MinHardMoneyPct: 50,
	},
	{
		ID:              "hard_money_maximalist",
		Name:            "Hard Money Maximalist",
		Requirement:     "Hold at least 80% of portfolio value in hard assets",
		Rarity:          RarityEpic,
		MinHardMoneyPct: 80,
	},
	{
		ID:              "sovereign_stacker",
		Name:            "Sovereign Stacker",
		Requirement:     "Reach 3 years of coverage with at least 50% hard assets",
		Rarity:          RarityEpic,
		MinRatio:        3,
		MinHardMoneyPct: 50,
	},
}

func init() {
	if err := validateCatalog(Catalog); err != nil {
		panic(fmt.Sprintf("invalid badge catalog: %v", err))
	}
}

// validateCatalog enforces catalog invariants at startup: unique non-empty
// IDs, known rarities, non-negative thresholds, at least one gate per badge.
func validateCatalog(defs []Definition) error {
	seen := make(map[string]struct{}, len(defs))
	for i, d := range defs {
		if d.ID == "" {
			return fmt.Errorf("badge %d has empty id", i)
		}
		if _, dup := seen[d.ID]; dup {
			return fmt.Errorf("duplicate badge id %q", d.ID)
		}
		seen[d.ID] = struct{}{}
		if !d.Rarity.Valid() {
			return fmt.Errorf("badge %q has unknown rarity %q", d.ID, d.Rarity)
		}
		if d.MinRatio < 0 || d.MinHardMoneyPct < 0 {
			return fmt.Errorf("badge %q has negative threshold", d.ID)
		}
		if d.MinRatio == 0 && d.MinHardMoneyPct == 0 {
			return fmt.Errorf("badge %q has no unlock condition", d.ID)
		}
	}
	return nil
}
