package model

import "time"

// SearchCriteria is the normalized single-valued search request handed to the
// property finder
type SearchCriteria struct {
	City          string         `json:"city,omitempty"`
	State         string         `json:"state,omitempty"`
	ZipCode       string         `json:"zip_code,omitempty"`
	RadiusMiles   *int           `json:"radius_miles,omitempty"`
	MinPrice      *int           `json:"min_price,omitempty"`
	MaxPrice      *int           `json:"max_price,omitempty"`
	MinBeds       *int           `json:"min_beds,omitempty"`
	MaxBeds       *int           `json:"max_beds,omitempty"`
	MinBaths      *float64       `json:"min_baths,omitempty"`
	MaxBaths      *float64       `json:"max_baths,omitempty"`
	MinSqft       *int           `json:"min_sqft,omitempty"`
	MaxSqft       *int           `json:"max_sqft,omitempty"`
	MinYearBuilt  *int           `json:"min_year_built,omitempty"`
	PropertyTypes []PropertyType `json:"property_types"`
}

// HasLocation reports whether the criteria carry any searchable location
func (c *SearchCriteria) HasLocation() bool {
	return c.ZipCode != "" || (c.City != "" && c.State != "")
}

// HandoffPayload is the full snapshot dispatched to the property finder when a
// session becomes ready for search
type HandoffPayload struct {
	SessionID   string            `json:"session_id"`
	Preferences *PreferenceRecord `json:"preferences"`
	Criteria    SearchCriteria    `json:"search_criteria"`
	Timestamp   time.Time         `json:"timestamp"`
}

// PropertyResult is one listing returned by the property finder, annotated
// with valuation data and a deal score
type PropertyResult struct {
	Address           string   `json:"address"`
	City              string   `json:"city,omitempty"`
	State             string   `json:"state,omitempty"`
	ZipCode           string   `json:"zip_code,omitempty"`
	PropertyType      string   `json:"property_type,omitempty"`
	Bedrooms          *int     `json:"bedrooms,omitempty"`
	Bathrooms         *float64 `json:"bathrooms,omitempty"`
	SquareFeet        *int     `json:"square_feet,omitempty"`
	LotSize           *float64 `json:"lot_size,omitempty"`
	YearBuilt         *int     `json:"year_built,omitempty"`
	ListingPrice      *float64 `json:"listing_price,omitempty"`
	FairValueEstimate *float64 `json:"fair_value_estimate,omitempty"`
	AIConfidence      string   `json:"ai_confidence,omitempty"`
	AIReasoning       string   `json:"ai_reasoning,omitempty"`
	AssessedValue     *float64 `json:"assessed_value,omitempty"`
	MarketValue       *float64 `json:"market_value,omitempty"`
	LastSalePrice     *float64 `json:"last_sale_price,omitempty"`
	LastSaleDate      string   `json:"last_sale_date,omitempty"`
	PropertyTaxes     *float64 `json:"property_taxes,omitempty"`
	DealScore         float64  `json:"deal_score"`
}
