package service

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"strings"

	"core/internal/config"
	"core/internal/gazetteer"
	"core/internal/model"
)

const maxZipsPerSearch = 8

// legacyFallbackZips covers a handful of large metros when the gazetteer has
// no entry for the requested city
var legacyFallbackZips = map[string][]string{
	"austin":      {"78701", "78702", "78703", "78704", "78705"},
	"houston":     {"77001", "77002", "77003", "77004", "77005"},
	"dallas":      {"75201", "75202", "75203", "75204", "75205"},
	"san antonio": {"78201", "78202", "78203", "78204", "78205"},
	"new york":    {"10001", "10002", "10003", "10004", "10005"},
	"los angeles": {"90001", "90002", "90003", "90004", "90005"},
	"chicago":     {"60601", "60602", "60603", "60604", "60605"},
	"miami":       {"33101", "33102", "33109", "33125", "33126"},
	"seattle":     {"98101", "98102", "98103", "98104", "98105"},
	"denver":      {"80201", "80202", "80203", "80204", "80205"},
}

// PropertyFinder turns search criteria into scored property results. Without
// a configured ATTOM client it serves deterministic mock listings so the
// conversational flow stays demonstrable.
type PropertyFinder struct {
	attom    *ATTOMClient
	valuer   *ValuationEngine
	gaz      *gazetteer.Gazetteer
	pageSize int
}

// NewPropertyFinder creates a property finder; attom may be nil
func NewPropertyFinder(attom *ATTOMClient, valuer *ValuationEngine, gaz *gazetteer.Gazetteer, cfg *config.ATTOMConfig) *PropertyFinder {
	pageSize := 50
	if cfg != nil && cfg.PageSize > 0 {
		pageSize = cfg.PageSize
	}
	return &PropertyFinder{
		attom:    attom,
		valuer:   valuer,
		gaz:      gaz,
		pageSize: pageSize,
	}
}

// FindByLocation searches for properties matching the criteria's location and
// annotates each hit with a fair-value estimate.
func (f *PropertyFinder) FindByLocation(ctx context.Context, criteria *model.SearchCriteria, maxResults int) ([]model.PropertyResult, error) {
	if maxResults <= 0 {
		maxResults = 10
	}

	if f.attom == nil || !f.attom.IsEnabled() {
		log.Printf("⚠️  ATTOM API disabled, serving mock properties")
		return f.mockProperties(ctx, criteria, 5), nil
	}

	zips := f.zipsFor(criteria)
	if len(zips) == 0 {
		return nil, fmt.Errorf("no searchable location in criteria")
	}

	perZip := maxResults / len(zips)
	if perZip < 1 {
		perZip = 1
	}
	if perZip > 20 {
		perZip = 20
	}

	var results []model.PropertyResult
	for _, zip := range zips {
		if len(results) >= maxResults {
			break
		}
		props, err := f.attom.SearchByZip(ctx, zip, perZip)
		if err != nil {
			log.Printf("⚠️  ATTOM search failed for ZIP %s: %v", zip, err)
			continue
		}
		for i := range props {
			if len(results) >= maxResults {
				break
			}
			results = append(results, f.buildResult(ctx, &props[i]))
		}
	}

	if len(results) == 0 {
		log.Printf("⚠️  No ATTOM results for criteria, serving mock properties")
		return f.mockProperties(ctx, criteria, 5), nil
	}
	return results, nil
}

// zipsFor resolves the criteria to a bounded list of ZIP codes
func (f *PropertyFinder) zipsFor(criteria *model.SearchCriteria) []string {
	if criteria.ZipCode != "" {
		return []string{criteria.ZipCode}
	}
	if criteria.City == "" {
		return nil
	}

	if f.gaz != nil {
		if zips := f.gaz.ZipCodes(criteria.City, criteria.State, true); len(zips) > 0 {
			return zips
		}
		if info, ok := f.gaz.Resolve(criteria.City); ok {
			zips := info.ZipCodes
			if len(zips) > maxZipsPerSearch {
				zips = zips[:maxZipsPerSearch]
			}
			return zips
		}
	}

	return legacyFallbackZips[strings.ToLower(criteria.City)]
}

// buildResult converts one ATTOM record into an annotated property result
func (f *PropertyFinder) buildResult(ctx context.Context, p *attomProperty) model.PropertyResult {
	result := model.PropertyResult{
		Address:       p.Address.OneLine,
		City:          p.Address.Locality,
		State:         p.Address.CountrySubd,
		ZipCode:       p.Address.Postal1,
		PropertyType:  p.Summary.PropType,
		Bedrooms:      p.Building.Rooms.Beds,
		Bathrooms:     p.Building.Rooms.BathsTotal,
		SquareFeet:    p.Building.Size.LivingSize,
		LotSize:       p.Lot.LotSize1,
		YearBuilt:     p.Building.Summary.YearBuilt,
		ListingPrice:  p.Valuation(),
		AssessedValue: p.Assessment.Assessed.AssdTtlValue,
		MarketValue:   p.Assessment.Market.MktTtlValue,
		LastSalePrice: p.Sale.Amount.SaleAmt,
		LastSaleDate:  p.Sale.Amount.SaleRecDate,
		PropertyTaxes: p.Assessment.Tax.TaxAmt,
	}

	estimate := f.valuer.EstimateFairValue(ctx, &result)
	result.FairValueEstimate = &estimate.EstimatedValue
	result.AIConfidence = estimate.ConfidenceLevel
	result.AIReasoning = estimate.Reasoning

	return result
}

// mockZipLocations maps sample ZIP codes to their city and state
var mockZipLocations = map[string][2]string{
	"24060": {"Blacksburg", "VA"},
	"78701": {"Austin", "TX"},
	"90001": {"Los Angeles", "CA"},
	"60601": {"Chicago", "IL"},
	"33101": {"Miami", "FL"},
}

var mockStreets = []string{"Oak St", "Maple Ave", "Cedar Ln", "Elm Dr", "Pine Ct", "Birch Rd"}

var mockBathOptions = []float64{1.0, 1.5, 2.0, 2.5, 3.0, 3.5}

// mockProperties fabricates plausible listings for demo and offline use
func (f *PropertyFinder) mockProperties(ctx context.Context, criteria *model.SearchCriteria, count int) []model.PropertyResult {
	city, state := criteria.City, criteria.State
	zip := criteria.ZipCode
	if zip != "" {
		if loc, ok := mockZipLocations[zip]; ok {
			city, state = loc[0], loc[1]
		}
	}
	if city == "" {
		city, state, zip = "Austin", "TX", "78701"
	}
	if zip == "" {
		zip = "78701"
	}

	results := make([]model.PropertyResult, 0, count)
	for i := 0; i < count; i++ {
		beds := rand.Intn(4) + 2
		baths := mockBathOptions[rand.Intn(len(mockBathOptions))]
		sqft := rand.Intn(2301) + 1200
		year := rand.Intn(34) + 1990
		price := float64(sqft * (rand.Intn(201) + 150))
		price = float64(int(price/1000)) * 1000
		fairValue := price * (0.95 + rand.Float64()*0.20)

		result := model.PropertyResult{
			Address:           fmt.Sprintf("%d %s", 100+rand.Intn(9900), mockStreets[rand.Intn(len(mockStreets))]),
			City:              city,
			State:             state,
			ZipCode:           zip,
			PropertyType:      "SFR",
			Bedrooms:          &beds,
			Bathrooms:         &baths,
			SquareFeet:        &sqft,
			YearBuilt:         &year,
			ListingPrice:      &price,
			FairValueEstimate: &fairValue,
			AIConfidence:      "low",
			AIReasoning:       "Demo listing generated without live market data",
		}
		results = append(results, result)
	}
	return results
}
