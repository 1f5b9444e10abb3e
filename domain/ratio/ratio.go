// Package ratio computes the dimensionless indices used to compare
// territories and sectors. Every index is 0 when its numerator or
// denominator is not strictly positive; no index is ever NaN, infinite or
// negative. This hides the "infinitely profitable" case of a profit share
// with zero companies, on purpose.
package ratio

import "math"

// Safe divides num by den, returning 0 unless both are finite and > 0.
func Safe(num, den float64) float64 {
	if !positive(num) || !positive(den) {
		return 0
	}
	q := num / den
	if !positive(q) || math.IsInf(q, 0) {
		return 0
	}
	return q
}

// Share is part as a percentage of total.
func Share(part, total float64) float64 {
	return Safe(part*100, total)
}

// Profitability is the entity's share of national profit over its share of
// national companies, times 100. 100 means profit proportional to company
// count. nationalCompanies must come from the unfiltered table.
func Profitability(participation, companies, nationalCompanies float64) float64 {
	return Safe(participation, Share(companies, nationalCompanies)) * 100
}

// Density is companies per inhabitant. population must be summed once per
// district.
func Density(companies, population float64) float64 {
	return Safe(companies, population)
}

// ProfitPerPopulation is the entity's share of national profit over its
// share of national population. 1 means profit proportional to population.
func ProfitPerPopulation(participation, population, nationalPopulation float64) float64 {
	return Safe(participation, Share(population, nationalPopulation))
}

func positive(f float64) bool {
	return f > 0 && !math.IsNaN(f) && !math.IsInf(f, 0)
}
