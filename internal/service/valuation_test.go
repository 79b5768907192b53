package service

import (
	"context"
	"fmt"
	"math"
	"testing"
	"time"

	"core/internal/model"
)

type fakeAnalyzer struct {
	response string
	err      error
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, prompt string) (string, error) {
	return f.response, f.err
}

func TestEstimateFairValueFromModel(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     float64
		wantConf string
	}{
		{
			name:     "plain JSON",
			response: `{"estimated_value": 325000, "confidence_level": "high", "reasoning": "solid comps"}`,
			want:     325000,
			wantConf: "high",
		},
		{
			name: "fenced JSON",
			response: "```json\n{\"estimated_value\": 280000, \"confidence_level\": \"medium\"}\n```",
			want:     280000,
			wantConf: "medium",
		},
		{
			name:     "JSON buried in prose",
			response: `Here is my analysis: {"estimated_value": 410000, "confidence_level": "low"} hope that helps`,
			want:     410000,
			wantConf: "low",
		},
	}

	prop := &model.PropertyResult{Address: "1 Main St", City: "Richmond", State: "VA"}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewValuationEngine(&fakeAnalyzer{response: tt.response})
			got := e.EstimateFairValue(context.Background(), prop)

			if got.EstimatedValue != tt.want {
				t.Errorf("EstimatedValue = %.0f, want %.0f", got.EstimatedValue, tt.want)
			}
			if got.ConfidenceLevel != tt.wantConf {
				t.Errorf("ConfidenceLevel = %s, want %s", got.ConfidenceLevel, tt.wantConf)
			}
		})
	}
}

func TestEstimateFairValueSanityWindow(t *testing.T) {
	listing := 300000.0
	prop := &model.PropertyResult{Address: "1 Main St", ListingPrice: &listing}

	tests := []struct {
		name     string
		response string
	}{
		{"absurdly low", `{"estimated_value": 500, "confidence_level": "high"}`},
		{"absurdly high", `{"estimated_value": 90000000, "confidence_level": "high"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewValuationEngine(&fakeAnalyzer{response: tt.response})
			got := e.EstimateFairValue(context.Background(), prop)

			if got.EstimatedValue != listing*0.95 {
				t.Errorf("EstimatedValue = %.0f, want fallback %.0f", got.EstimatedValue, listing*0.95)
			}
			if got.ConfidenceLevel != "low" {
				t.Errorf("ConfidenceLevel = %s, want low after sanity override", got.ConfidenceLevel)
			}
		})
	}
}

func TestEstimateFairValueAnalyzerFailure(t *testing.T) {
	listing := 200000.0
	prop := &model.PropertyResult{Address: "1 Main St", ListingPrice: &listing}

	e := NewValuationEngine(&fakeAnalyzer{err: fmt.Errorf("quota exceeded")})
	got := e.EstimateFairValue(context.Background(), prop)

	if got.EstimatedValue != 190000 {
		t.Errorf("EstimatedValue = %.0f, want 190000 from fallback", got.EstimatedValue)
	}
	if got.ConfidenceLevel != "low" {
		t.Errorf("ConfidenceLevel = %s, want low", got.ConfidenceLevel)
	}
}

func TestEstimateFairValueNoAnalyzer(t *testing.T) {
	e := NewValuationEngine(nil)
	got := e.EstimateFairValue(context.Background(), &model.PropertyResult{})
	if got.EstimatedValue != 250000 {
		t.Errorf("EstimatedValue = %.0f, want flat floor 250000", got.EstimatedValue)
	}
}

func TestFallbackEstimateChain(t *testing.T) {
	listing := 400000.0
	salePrice := 250000.0
	sqft := 2000

	saleYear := time.Now().Year() - 5
	saleDate := fmt.Sprintf("%d-03-15", saleYear)
	appreciated := salePrice * math.Pow(1.03, 5)

	tests := []struct {
		name string
		prop model.PropertyResult
		want float64
	}{
		{
			name: "listing price discounted",
			prop: model.PropertyResult{ListingPrice: &listing, LastSalePrice: &salePrice},
			want: 380000,
		},
		{
			name: "last sale appreciated",
			prop: model.PropertyResult{LastSalePrice: &salePrice, LastSaleDate: saleDate},
			want: appreciated,
		},
		{
			name: "sale without date is taken as-is",
			prop: model.PropertyResult{LastSalePrice: &salePrice},
			want: salePrice,
		},
		{
			name: "high cost state per sqft",
			prop: model.PropertyResult{State: "CA", SquareFeet: &sqft},
			want: 600000,
		},
		{
			name: "mid cost state per sqft",
			prop: model.PropertyResult{State: "VA", SquareFeet: &sqft},
			want: 400000,
		},
		{
			name: "unknown state per sqft",
			prop: model.PropertyResult{State: "ZZ", SquareFeet: &sqft},
			want: 240000,
		},
		{
			name: "nothing known",
			prop: model.PropertyResult{},
			want: 250000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := fallbackEstimate(&tt.prop)
			if math.Abs(got-tt.want) > 1 {
				t.Errorf("fallbackEstimate = %.0f, want %.0f", got, tt.want)
			}
		})
	}
}
