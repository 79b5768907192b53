package service

import (
	"testing"

	"core/internal/config"
	"core/internal/model"
)

func float64Ptr(v float64) *float64 { return &v }

func testRanker() *DealRanker {
	return NewDealRanker(&config.RankingConfig{
		WeightValue:   0.6,
		WeightSpecs:   0.25,
		WeightRecency: 0.15,
	})
}

func TestRankOrdersByScoreDescending(t *testing.T) {
	r := testRanker()

	results := []model.PropertyResult{
		{Address: "overpriced", ListingPrice: float64Ptr(400000), FairValueEstimate: float64Ptr(320000)},
		{Address: "bargain", ListingPrice: float64Ptr(300000), FairValueEstimate: float64Ptr(360000)},
		{Address: "fair", ListingPrice: float64Ptr(300000), FairValueEstimate: float64Ptr(300000)},
	}

	r.Rank(results, &model.SearchCriteria{})

	if results[0].Address != "bargain" {
		t.Errorf("Results[0] = %s, want bargain", results[0].Address)
	}
	if results[2].Address != "overpriced" {
		t.Errorf("Results[2] = %s, want overpriced", results[2].Address)
	}
	for i, res := range results {
		if res.DealScore < 0 || res.DealScore > 100 {
			t.Errorf("Results[%d].DealScore = %.1f, want within [0, 100]", i, res.DealScore)
		}
	}
}

func TestValueScore(t *testing.T) {
	tests := []struct {
		name string
		prop model.PropertyResult
		want float64
	}{
		{
			name: "at fair value is neutral",
			prop: model.PropertyResult{ListingPrice: float64Ptr(300000), FairValueEstimate: float64Ptr(300000)},
			want: 0.5,
		},
		{
			name: "twenty percent discount maxes out",
			prop: model.PropertyResult{ListingPrice: float64Ptr(250000), FairValueEstimate: float64Ptr(300000)},
			want: 1.0,
		},
		{
			name: "missing data is neutral",
			prop: model.PropertyResult{},
			want: 0.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := valueScore(&tt.prop)
			if got < tt.want-0.01 || got > tt.want+0.01 {
				t.Errorf("valueScore = %.3f, want %.3f", got, tt.want)
			}
		})
	}
}

func TestSpecsScore(t *testing.T) {
	beds := 3
	baths := 2.0
	prop := model.PropertyResult{
		Bedrooms:     &beds,
		Bathrooms:    &baths,
		ListingPrice: float64Ptr(280000),
	}

	minBeds := 3
	maxPrice := 300000
	minSqft := 2000
	criteria := model.SearchCriteria{
		MinBeds:  &minBeds,
		MaxPrice: &maxPrice,
		MinSqft:  &minSqft, // property has no sqft data, counts as a miss
	}

	got := specsScore(&prop, &criteria)
	want := 2.0 / 3.0
	if got < want-0.01 || got > want+0.01 {
		t.Errorf("specsScore = %.3f, want %.3f", got, want)
	}

	// No constraints stays neutral
	if got := specsScore(&prop, &model.SearchCriteria{}); got != 0.5 {
		t.Errorf("specsScore with no constraints = %.3f, want 0.5", got)
	}
}

func TestRecencyScore(t *testing.T) {
	if got := recencyScore(&model.PropertyResult{}); got != 0.5 {
		t.Errorf("recencyScore without sale date = %.3f, want 0.5", got)
	}

	recent := model.PropertyResult{LastSaleDate: "2025-06-01"}
	old := model.PropertyResult{LastSaleDate: "2010-06-01"}
	if recencyScore(&recent) <= recencyScore(&old) {
		t.Error("Recent sale should score higher than an old one")
	}

	unparseable := model.PropertyResult{LastSaleDate: "last tuesday"}
	if got := recencyScore(&unparseable); got != 0.5 {
		t.Errorf("recencyScore with bad date = %.3f, want 0.5", got)
	}
}
