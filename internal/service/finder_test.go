package service

import (
	"context"
	"testing"

	"core/internal/config"
	"core/internal/gazetteer"
	"core/internal/model"
)

func newTestFinder(t *testing.T) *PropertyFinder {
	t.Helper()
	gaz, err := gazetteer.Load()
	if err != nil {
		t.Fatalf("Failed to load gazetteer: %v", err)
	}
	valuer := NewValuationEngine(nil)
	return NewPropertyFinder(nil, valuer, gaz, &config.ATTOMConfig{PageSize: 50})
}

func TestFindByLocationWithoutATTOM(t *testing.T) {
	f := newTestFinder(t)

	results, err := f.FindByLocation(context.Background(), &model.SearchCriteria{
		City:  "Austin",
		State: "TX",
	}, 10)
	if err != nil {
		t.Fatalf("FindByLocation error: %v", err)
	}
	if len(results) != 5 {
		t.Fatalf("Got %d mock properties, want 5", len(results))
	}

	for i, res := range results {
		if res.City != "Austin" || res.State != "TX" {
			t.Errorf("Results[%d] located in %s, %s, want Austin, TX", i, res.City, res.State)
		}
		if res.Address == "" {
			t.Errorf("Results[%d] has no address", i)
		}
		if res.ListingPrice == nil || *res.ListingPrice <= 0 {
			t.Errorf("Results[%d] has no listing price", i)
		}
		if res.FairValueEstimate == nil || *res.FairValueEstimate <= 0 {
			t.Errorf("Results[%d] has no fair-value estimate", i)
		}
		if res.Bedrooms == nil || *res.Bedrooms < 2 || *res.Bedrooms > 5 {
			t.Errorf("Results[%d].Bedrooms = %v, want 2-5", i, res.Bedrooms)
		}
	}
}

func TestMockPropertiesResolveZipLocation(t *testing.T) {
	f := newTestFinder(t)

	results, err := f.FindByLocation(context.Background(), &model.SearchCriteria{
		ZipCode: "24060",
	}, 10)
	if err != nil {
		t.Fatalf("FindByLocation error: %v", err)
	}

	for i, res := range results {
		if res.City != "Blacksburg" || res.State != "VA" {
			t.Errorf("Results[%d] located in %s, %s, want Blacksburg, VA", i, res.City, res.State)
		}
		if res.ZipCode != "24060" {
			t.Errorf("Results[%d].ZipCode = %s, want 24060", i, res.ZipCode)
		}
	}
}

func TestZipsFor(t *testing.T) {
	f := newTestFinder(t)

	tests := []struct {
		name     string
		criteria model.SearchCriteria
		wantLen  int
		wantNil  bool
	}{
		{
			name:     "explicit zip wins",
			criteria: model.SearchCriteria{ZipCode: "24060", City: "Austin", State: "TX"},
			wantLen:  1,
		},
		{
			name:     "gazetteer city uses primary zips",
			criteria: model.SearchCriteria{City: "Richmond", State: "VA"},
			wantLen:  5,
		},
		{
			name:     "no location",
			criteria: model.SearchCriteria{},
			wantNil:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			zips := f.zipsFor(&tt.criteria)
			if tt.wantNil {
				if zips != nil {
					t.Errorf("zipsFor = %v, want nil", zips)
				}
				return
			}
			if len(zips) != tt.wantLen {
				t.Errorf("zipsFor returned %d zips, want %d", len(zips), tt.wantLen)
			}
		})
	}
}

func TestZipsForLegacyFallback(t *testing.T) {
	// Without a gazetteer the fixed metro table still resolves big cities
	f := NewPropertyFinder(nil, NewValuationEngine(nil), nil, nil)

	zips := f.zipsFor(&model.SearchCriteria{City: "Dallas", State: "TX"})
	if len(zips) != 5 {
		t.Fatalf("zipsFor(Dallas) = %v, want 5 metro zips", zips)
	}

	if zips := f.zipsFor(&model.SearchCriteria{City: "Smallville", State: "KS"}); zips != nil {
		t.Errorf("zipsFor(Smallville) = %v, want nil", zips)
	}
}
