package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"core/internal/config"
)

// ATTOMClient calls the ATTOM Data property API
type ATTOMClient struct {
	config     *config.ATTOMConfig
	httpClient *http.Client
}

// NewATTOMClient creates a new ATTOM API client
func NewATTOMClient(cfg *config.ATTOMConfig) *ATTOMClient {
	return &ATTOMClient{
		config: cfg,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
	}
}

// IsEnabled returns whether the client is configured and ready
func (c *ATTOMClient) IsEnabled() bool {
	return c.config.Enabled
}

// attomProperty mirrors the fields of an ATTOM basicprofile record we consume
type attomProperty struct {
	Address struct {
		OneLine     string `json:"oneLine"`
		Locality    string `json:"locality"`
		CountrySubd string `json:"countrySubd"`
		Postal1     string `json:"postal1"`
	} `json:"address"`
	Summary struct {
		PropType string `json:"propType"`
	} `json:"summary"`
	Building struct {
		Rooms struct {
			Beds       *int     `json:"beds"`
			BathsTotal *float64 `json:"bathsTotal"`
		} `json:"rooms"`
		Size struct {
			LivingSize *int `json:"livingSize"`
		} `json:"size"`
		Summary struct {
			YearBuilt *int `json:"yearBuilt"`
		} `json:"summary"`
	} `json:"building"`
	Lot struct {
		LotSize1 *float64 `json:"lotSize1"`
	} `json:"lot"`
	Assessment struct {
		Market struct {
			MktTtlValue *float64 `json:"mktTtlValue"`
		} `json:"market"`
		Assessed struct {
			AssdTtlValue *float64 `json:"assdTtlValue"`
		} `json:"assessed"`
		Tax struct {
			TaxAmt *float64 `json:"taxAmt"`
		} `json:"tax"`
	} `json:"assessment"`
	Sale struct {
		Amount struct {
			SaleAmt     *float64 `json:"saleAmt"`
			SaleRecDate string   `json:"saleRecDate"`
		} `json:"amount"`
	} `json:"sale"`
}

// attomSearchResponse is the top-level basicprofile response shape
type attomSearchResponse struct {
	Property []attomProperty `json:"property"`
}

// SearchByZip queries the basicprofile endpoint for one ZIP code
func (c *ATTOMClient) SearchByZip(ctx context.Context, zipCode string, pageSize int) ([]attomProperty, error) {
	if !c.config.Enabled {
		return nil, fmt.Errorf("ATTOM API is not enabled (missing API key)")
	}

	params := url.Values{}
	params.Set("format", "json")
	params.Set("postalcode", zipCode)
	params.Set("pageSize", strconv.Itoa(pageSize))

	endpoint := fmt.Sprintf("%s/property/basicprofile?%s", c.config.APIBase, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("apikey", c.config.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ATTOM API request failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// Fall through to decode
	case http.StatusUnauthorized:
		return nil, fmt.Errorf("ATTOM API authentication failed - check API key")
	case http.StatusNotFound:
		// No properties for this ZIP; not an error
		return nil, nil
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("ATTOM API error: %d - %s", resp.StatusCode, string(body))
	}

	var decoded attomSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode ATTOM response: %w", err)
	}

	if decoded.Property == nil {
		log.Printf("⚠️  No 'property' key in ATTOM response for ZIP %s", zipCode)
		return nil, nil
	}
	return decoded.Property, nil
}

// Valuation estimates a listing price from the available ATTOM data.
// Priority: market value, then a sale recorded within the last two years,
// then assessed value adjusted upward 15% for market conditions.
func (p *attomProperty) Valuation() *float64 {
	if mv := p.Assessment.Market.MktTtlValue; mv != nil && *mv > 0 {
		return mv
	}

	if sale := p.Sale.Amount.SaleAmt; sale != nil && *sale > 0 && isRecentSale(p.Sale.Amount.SaleRecDate) {
		return sale
	}

	if assessed := p.Assessment.Assessed.AssdTtlValue; assessed != nil && *assessed > 0 {
		adjusted := *assessed * 1.15
		return &adjusted
	}

	return nil
}

// isRecentSale reports whether the sale date falls within the last two years
func isRecentSale(dateStr string) bool {
	if dateStr == "" {
		return false
	}
	for _, layout := range []string{"2006-01-02", "01/02/2006", "20060102"} {
		saleDate, err := time.Parse(layout, dateStr)
		if err != nil {
			continue
		}
		return time.Since(saleDate) <= 2*365*24*time.Hour
	}
	return false
}
