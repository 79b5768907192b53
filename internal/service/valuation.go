package service

import (
	"context"
	"fmt"
	"log"
	"math"
	"strconv"
	"time"

	"core/internal/model"
	"core/internal/utils"
)

// Sanity window for AI estimates; anything outside falls back to the
// deterministic chain
const (
	minSaneEstimate = 10_000
	maxSaneEstimate = 50_000_000
)

// FairValueEstimate is the outcome of one property valuation
type FairValueEstimate struct {
	EstimatedValue   float64  `json:"estimated_value"`
	ConfidenceLevel  string   `json:"confidence_level"`
	AnalysisFactors  []string `json:"analysis_factors"`
	MarketComparison string   `json:"market_comparison"`
	Reasoning        string   `json:"reasoning"`
}

// ValuationEngine estimates fair market value for a listing via the analysis
// model, degrading to a deterministic estimate when the model fails or
// returns an implausible number.
type ValuationEngine struct {
	analyzer Analyzer
}

// NewValuationEngine creates a valuation engine; analyzer may be nil, in
// which case every estimate comes from the fallback chain.
func NewValuationEngine(analyzer Analyzer) *ValuationEngine {
	return &ValuationEngine{analyzer: analyzer}
}

// EstimateFairValue produces a fair-value estimate for one property
func (e *ValuationEngine) EstimateFairValue(ctx context.Context, prop *model.PropertyResult) FairValueEstimate {
	if e.analyzer == nil {
		return e.fallback(prop, "AI analysis unavailable, used deterministic estimate")
	}

	raw, err := e.analyzer.Analyze(ctx, buildValuationPrompt(prop))
	if err != nil {
		log.Printf("⚠️  Valuation analysis failed for %s: %v", prop.Address, err)
		return e.fallback(prop, "AI analysis failed, used deterministic estimate")
	}

	var estimate FairValueEstimate
	if err := utils.DecodeModelJSON(raw, &estimate); err != nil {
		log.Printf("⚠️  Unparseable valuation response for %s: %v", prop.Address, err)
		return e.fallback(prop, "AI response unparseable, used deterministic estimate")
	}

	if estimate.EstimatedValue < minSaneEstimate || estimate.EstimatedValue > maxSaneEstimate {
		log.Printf("⚠️  Implausible estimate $%.0f for %s, applying fallback", estimate.EstimatedValue, prop.Address)
		estimate.EstimatedValue = fallbackEstimate(prop)
		estimate.ConfidenceLevel = "low"
	}
	if estimate.ConfidenceLevel == "" {
		estimate.ConfidenceLevel = "medium"
	}
	return estimate
}

// fallback wraps the deterministic estimate with low confidence
func (e *ValuationEngine) fallback(prop *model.PropertyResult, reason string) FairValueEstimate {
	return FairValueEstimate{
		EstimatedValue:  fallbackEstimate(prop),
		ConfidenceLevel: "low",
		Reasoning:       reason,
	}
}

// fallbackEstimate derives a value from whatever price data exists:
// listing price less 5%, then the last sale appreciated 3% per year, then a
// state-level price per square foot, then a flat floor.
func fallbackEstimate(prop *model.PropertyResult) float64 {
	if prop.ListingPrice != nil && *prop.ListingPrice > 0 {
		return *prop.ListingPrice * 0.95
	}

	if prop.LastSalePrice != nil && *prop.LastSalePrice > 0 {
		if len(prop.LastSaleDate) >= 4 {
			if saleYear, err := strconv.Atoi(prop.LastSaleDate[:4]); err == nil {
				years := time.Now().Year() - saleYear
				if years > 0 {
					return *prop.LastSalePrice * math.Pow(1.03, float64(years))
				}
			}
		}
		return *prop.LastSalePrice
	}

	if prop.SquareFeet != nil && *prop.SquareFeet > 0 {
		return float64(*prop.SquareFeet * pricePerSqft(prop.State))
	}

	return 250_000
}

// pricePerSqft is a rough state-level $/sqft table
func pricePerSqft(state string) int {
	switch state {
	case "CA", "NY", "MA":
		return 300
	case "TX", "FL", "GA", "NC":
		return 150
	case "VA", "MD", "DC":
		return 200
	default:
		return 120
	}
}

// buildValuationPrompt formats the property facts for the analysis model
func buildValuationPrompt(prop *model.PropertyResult) string {
	age := "Unknown"
	if prop.YearBuilt != nil {
		age = strconv.Itoa(time.Now().Year() - *prop.YearBuilt)
	}

	priceContext := ""
	if prop.ListingPrice != nil {
		priceContext += fmt.Sprintf("Current listing price: $%.0f\n", *prop.ListingPrice)
	}
	if prop.LastSalePrice != nil {
		date := prop.LastSaleDate
		if date == "" {
			date = "unknown date"
		}
		priceContext += fmt.Sprintf("Last sale: $%.0f on %s\n", *prop.LastSalePrice, date)
	}
	if priceContext == "" {
		priceContext = "No pricing data available\n"
	}

	taxes := 0.0
	if prop.PropertyTaxes != nil {
		taxes = *prop.PropertyTaxes
	}

	return fmt.Sprintf(`You are a professional real estate appraiser with 20+ years of experience. Analyze this property and provide a fair market value estimate.

PROPERTY DETAILS:
Address: %s, %s, %s %s
Type: %s
Bedrooms: %s
Bathrooms: %s
Square Feet: %s
Lot Size: %s sqft
Year Built: %s (Age: %s years)

FINANCIAL DATA:
%sProperty Taxes: $%.0f/year

ANALYSIS REQUIREMENTS:
1. Consider location desirability and market trends in %s, %s
2. Evaluate property condition based on age and typical maintenance
3. Compare to similar properties in the %s area
4. Factor in current market conditions (interest rates, inventory, demand)

Provide your analysis in this EXACT JSON format:
{
    "estimated_value": [your fair market value estimate as number],
    "confidence_level": "[high/medium/low]",
    "analysis_factors": [
        "Factor 1 that influenced your estimate",
        "Factor 2 that influenced your estimate",
        "Factor 3 that influenced your estimate"
    ],
    "market_comparison": "Brief comparison to similar properties in the area",
    "reasoning": "Your detailed reasoning for this valuation in 2-3 sentences"
}

Focus on providing a realistic, market-based valuation that reflects current conditions and comparable sales.`,
		prop.Address, prop.City, prop.State, prop.ZipCode,
		orUnknown(prop.PropertyType),
		intOrUnknown(prop.Bedrooms),
		floatOrUnknown(prop.Bathrooms),
		intOrUnknown(prop.SquareFeet),
		floatOrUnknown(prop.LotSize),
		intOrUnknown(prop.YearBuilt), age,
		priceContext, taxes,
		prop.City, prop.State, prop.ZipCode)
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}

func intOrUnknown(v *int) string {
	if v == nil {
		return "Unknown"
	}
	return strconv.Itoa(*v)
}

func floatOrUnknown(v *float64) string {
	if v == nil {
		return "Unknown"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
