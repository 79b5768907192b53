package service

import (
	"sort"
	"time"

	"core/internal/config"
	"core/internal/model"
)

// DealRanker scores properties against the buyer's criteria and orders them
// best-first. Scores run 0-100 from a weighted blend of value gap, spec
// match, and sale recency.
type DealRanker struct {
	weightValue   float64
	weightSpecs   float64
	weightRecency float64
}

// NewDealRanker creates a ranker with the configured weights
func NewDealRanker(cfg *config.RankingConfig) *DealRanker {
	return &DealRanker{
		weightValue:   cfg.WeightValue,
		weightSpecs:   cfg.WeightSpecs,
		weightRecency: cfg.WeightRecency,
	}
}

// Rank assigns a deal score to every result and sorts descending by score.
// The sort is stable so equally scored listings keep their search order.
func (r *DealRanker) Rank(results []model.PropertyResult, criteria *model.SearchCriteria) {
	for i := range results {
		score := r.weightValue*valueScore(&results[i]) +
			r.weightSpecs*specsScore(&results[i], criteria) +
			r.weightRecency*recencyScore(&results[i])
		results[i].DealScore = score * 100
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].DealScore > results[j].DealScore
	})
}

// valueScore rewards listings priced below their fair-value estimate. A
// listing at fair value scores 0.5; a 20% discount scores 1.0.
func valueScore(p *model.PropertyResult) float64 {
	if p.ListingPrice == nil || *p.ListingPrice <= 0 || p.FairValueEstimate == nil || *p.FairValueEstimate <= 0 {
		return 0.5
	}
	gap := (*p.FairValueEstimate - *p.ListingPrice) / *p.ListingPrice
	return clamp01(0.5 + gap*2.5)
}

// specsScore is the fraction of the buyer's spec constraints the listing
// satisfies. With no constraints it stays neutral.
func specsScore(p *model.PropertyResult, criteria *model.SearchCriteria) float64 {
	checked, matched := 0, 0

	if criteria.MinBeds != nil {
		checked++
		if p.Bedrooms != nil && *p.Bedrooms >= *criteria.MinBeds {
			matched++
		}
	}
	if criteria.MinBaths != nil {
		checked++
		if p.Bathrooms != nil && *p.Bathrooms >= *criteria.MinBaths {
			matched++
		}
	}
	if criteria.MinSqft != nil {
		checked++
		if p.SquareFeet != nil && *p.SquareFeet >= *criteria.MinSqft {
			matched++
		}
	}
	if criteria.MaxPrice != nil {
		checked++
		if p.ListingPrice != nil && *p.ListingPrice <= float64(*criteria.MaxPrice) {
			matched++
		}
	}
	if criteria.MinYearBuilt != nil {
		checked++
		if p.YearBuilt != nil && *p.YearBuilt >= *criteria.MinYearBuilt {
			matched++
		}
	}

	if checked == 0 {
		return 0.5
	}
	return float64(matched) / float64(checked)
}

// recencyScore decays with the age of the last recorded sale. Listings with
// no sale history stay neutral.
func recencyScore(p *model.PropertyResult) float64 {
	if p.LastSaleDate == "" {
		return 0.5
	}
	for _, layout := range []string{"2006-01-02", "01/02/2006", "20060102"} {
		saleDate, err := time.Parse(layout, p.LastSaleDate)
		if err != nil {
			continue
		}
		years := time.Since(saleDate).Hours() / (24 * 365)
		if years < 0 {
			years = 0
		}
		return clamp01(1.0 - years/10.0)
	}
	return 0.5
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
