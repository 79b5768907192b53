package model

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Topic identifies one of the six preference categories tracked for completion
type Topic string

const (
	TopicLocation           Topic = "location"
	TopicPropertyType       Topic = "property_type"
	TopicPropertySpecs      Topic = "property_specs"
	TopicBudget             Topic = "budget"
	TopicInvestmentStrategy Topic = "investment_strategy"
	TopicTimeline           Topic = "timeline"
)

// TotalTopics is the number of tracked preference categories
const TotalTopics = 6

// PropertyType is a closed set of property categories
type PropertyType string

const (
	PropertySingleFamily PropertyType = "single-family"
	PropertyCondo        PropertyType = "condo"
	PropertyTownhouse    PropertyType = "townhouse"
	PropertyMultiFamily  PropertyType = "multi-family"
)

// InvestmentStrategy is a closed set of investment approaches
type InvestmentStrategy string

const (
	StrategyBuyAndHold InvestmentStrategy = "buy-and-hold"
	StrategyFixAndFlip InvestmentStrategy = "fix-and-flip"
	StrategyBRRRR      InvestmentStrategy = "brrrr"
	StrategyWholesale  InvestmentStrategy = "wholesale"
)

// Timeline is a purchase-urgency tag
type Timeline string

const (
	TimelineImmediate   Timeline = "immediate"
	TimelineThreeMonths Timeline = "3-months"
	TimelineSixMonths   Timeline = "6-months"
)

// UserSegment classifies who we are talking to
type UserSegment string

const (
	SegmentNewBuyer UserSegment = "new-buyer"
	SegmentAgent    UserSegment = "agent"
	SegmentInvestor UserSegment = "investor"
	SegmentUnknown  UserSegment = "unknown"
)

// LocationPreferences accumulates disclosed location constraints
type LocationPreferences struct {
	Cities      []string `json:"cities"`
	States      []string `json:"states"`
	ZipCodes    []string `json:"zip_codes"`
	RadiusMiles *int     `json:"radius_miles,omitempty"`
}

// PropertyPreferences accumulates disclosed property constraints
type PropertyPreferences struct {
	PropertyTypes []PropertyType `json:"property_types"`
	MinBedrooms   *int           `json:"min_bedrooms,omitempty"`
	MaxBedrooms   *int           `json:"max_bedrooms,omitempty"`
	MinBathrooms  *float64       `json:"min_bathrooms,omitempty"`
	MaxBathrooms  *float64       `json:"max_bathrooms,omitempty"`
	MinSqft       *int           `json:"min_sqft,omitempty"`
	MaxSqft       *int           `json:"max_sqft,omitempty"`
	MinYearBuilt  *int           `json:"min_year_built,omitempty"`
	MaxYearBuilt  *int           `json:"max_year_built,omitempty"`
}

// FinancialPreferences accumulates disclosed financial constraints
type FinancialPreferences struct {
	MinPrice             *int                 `json:"min_price,omitempty"`
	MaxPrice             *int                 `json:"max_price,omitempty"`
	TargetCashFlow       *int                 `json:"target_cash_flow,omitempty"`
	MaxInvestment        *int                 `json:"max_investment,omitempty"`
	InvestmentStrategies []InvestmentStrategy `json:"investment_strategies"`
}

// TimelinePreferences accumulates disclosed timeline constraints
type TimelinePreferences struct {
	PurchaseTimeline Timeline `json:"purchase_timeline,omitempty"`
	HoldPeriod       string   `json:"hold_period,omitempty"`
}

// PreferenceRecord accumulates everything a user has disclosed across turns.
// Mutations are additive: list inserts are membership-checked and completed
// topics only grow.
type PreferenceRecord struct {
	Location   LocationPreferences  `json:"location"`
	Property   PropertyPreferences  `json:"property"`
	Financial  FinancialPreferences `json:"financial"`
	Timeline   TimelinePreferences  `json:"timeline"`
	Completed  map[Topic]bool       `json:"-"`
	IsComplete bool                 `json:"is_complete"`
}

// NewPreferenceRecord creates an empty preference record
func NewPreferenceRecord() *PreferenceRecord {
	return &PreferenceRecord{
		Location:  LocationPreferences{Cities: []string{}, States: []string{}, ZipCodes: []string{}},
		Property:  PropertyPreferences{PropertyTypes: []PropertyType{}},
		Financial: FinancialPreferences{InvestmentStrategies: []InvestmentStrategy{}},
		Completed: make(map[Topic]bool),
	}
}

// MarkComplete records a topic as completed; completion never recedes
func (p *PreferenceRecord) MarkComplete(topic Topic) {
	p.Completed[topic] = true
}

// HasTopic reports whether a topic has been completed
func (p *PreferenceRecord) HasTopic(topic Topic) bool {
	return p.Completed[topic]
}

// CompletionPercentage returns 100 * |completed topics| / 6, computed on demand
func (p *PreferenceRecord) CompletionPercentage() int {
	return len(p.Completed) * 100 / TotalTopics
}

// CompletedTopics returns the completed topics in a stable order
func (p *PreferenceRecord) CompletedTopics() []string {
	topics := make([]string, 0, len(p.Completed))
	for t := range p.Completed {
		topics = append(topics, string(t))
	}
	sort.Strings(topics)
	return topics
}

// HasLocation reports whether any location fact is known
func (p *PreferenceRecord) HasLocation() bool {
	return len(p.Location.Cities) > 0 || len(p.Location.States) > 0
}

// AddCity appends a city if not already present
func (p *PreferenceRecord) AddCity(city string) {
	for _, c := range p.Location.Cities {
		if strings.EqualFold(c, city) {
			return
		}
	}
	p.Location.Cities = append(p.Location.Cities, city)
}

// AddState appends a two-letter state code if not already present
func (p *PreferenceRecord) AddState(code string) {
	code = strings.ToUpper(code)
	for _, s := range p.Location.States {
		if s == code {
			return
		}
	}
	p.Location.States = append(p.Location.States, code)
}

// AddZipCode appends a ZIP code if not already present
func (p *PreferenceRecord) AddZipCode(zip string) {
	for _, z := range p.Location.ZipCodes {
		if z == zip {
			return
		}
	}
	p.Location.ZipCodes = append(p.Location.ZipCodes, zip)
}

// AddPropertyType appends a property type if not already present
func (p *PreferenceRecord) AddPropertyType(pt PropertyType) {
	for _, existing := range p.Property.PropertyTypes {
		if existing == pt {
			return
		}
	}
	p.Property.PropertyTypes = append(p.Property.PropertyTypes, pt)
}

// AddStrategy appends an investment strategy if not already present
func (p *PreferenceRecord) AddStrategy(s InvestmentStrategy) {
	for _, existing := range p.Financial.InvestmentStrategies {
		if existing == s {
			return
		}
	}
	p.Financial.InvestmentStrategies = append(p.Financial.InvestmentStrategies, s)
}

// FormPayload is structured input from the frontend intake form
type FormPayload struct {
	Location      string   `json:"location,omitempty"`
	PropertyTypes []string `json:"property_types,omitempty"`
	BudgetMin     *int     `json:"budget_min,omitempty"`
	BudgetMax     *int     `json:"budget_max,omitempty"`
}

// formStrategyMap maps frontend property-type tokens to investment strategies
var formStrategyMap = map[string]InvestmentStrategy{
	"primary-residence": StrategyBuyAndHold,
	"fix-flip":          StrategyFixAndFlip,
	"rental-property":   StrategyBuyAndHold,
	"multi-family":      StrategyBuyAndHold,
	"quick-deals":       StrategyWholesale,
}

// ApplyForm pre-populates the record from a structured form payload.
// Called at most once, at session creation.
func (p *PreferenceRecord) ApplyForm(form *FormPayload) {
	if form == nil {
		return
	}

	if loc := strings.TrimSpace(form.Location); loc != "" {
		p.applyFormLocation(loc)
		p.MarkComplete(TopicLocation)
	}

	for _, token := range form.PropertyTypes {
		if strategy, ok := formStrategyMap[token]; ok {
			p.AddStrategy(strategy)
		}
	}
	if len(form.PropertyTypes) > 0 {
		p.MarkComplete(TopicInvestmentStrategy)
	}

	if form.BudgetMin != nil {
		p.Financial.MinPrice = form.BudgetMin
	}
	if form.BudgetMax != nil {
		p.Financial.MaxPrice = form.BudgetMax
	}
	if form.BudgetMin != nil || form.BudgetMax != nil {
		p.MarkComplete(TopicBudget)
	}
}

// applyFormLocation parses "City, ST", "City, State name", a bare 5-digit ZIP,
// or a bare city name.
func (p *PreferenceRecord) applyFormLocation(loc string) {
	if idx := strings.Index(loc, ","); idx >= 0 {
		city := strings.TrimSpace(loc[:idx])
		statePart := strings.TrimSpace(loc[idx+1:])
		if city != "" {
			p.AddCity(city)
		}
		if len(statePart) == 2 {
			p.AddState(statePart)
		} else {
			for _, word := range strings.Fields(statePart) {
				if len(word) == 2 && isAlpha(word) {
					p.AddState(word)
					break
				}
			}
		}
		return
	}

	if len(loc) == 5 && isDigits(loc) {
		p.AddZipCode(loc)
		return
	}

	p.AddCity(loc)
}

// ToSearchCriteria converts the record into single-valued search criteria.
// Only the first element of each location set is used.
func (p *PreferenceRecord) ToSearchCriteria() SearchCriteria {
	criteria := SearchCriteria{
		RadiusMiles:   p.Location.RadiusMiles,
		MinPrice:      p.Financial.MinPrice,
		MaxPrice:      p.Financial.MaxPrice,
		MinBeds:       p.Property.MinBedrooms,
		MaxBeds:       p.Property.MaxBedrooms,
		MinBaths:      p.Property.MinBathrooms,
		MaxBaths:      p.Property.MaxBathrooms,
		MinSqft:       p.Property.MinSqft,
		MaxSqft:       p.Property.MaxSqft,
		MinYearBuilt:  p.Property.MinYearBuilt,
		PropertyTypes: append([]PropertyType{}, p.Property.PropertyTypes...),
	}
	if len(p.Location.Cities) > 0 {
		criteria.City = p.Location.Cities[0]
	}
	if len(p.Location.States) > 0 {
		criteria.State = p.Location.States[0]
	}
	if len(p.Location.ZipCodes) > 0 {
		criteria.ZipCode = p.Location.ZipCodes[0]
	}
	return criteria
}

// Summary renders a short human-readable description of what is known so far
func (p *PreferenceRecord) Summary() string {
	parts := []string{}

	if len(p.Location.Cities) > 0 {
		parts = append(parts, "Looking in "+strings.Join(p.Location.Cities, ", "))
	} else if len(p.Location.States) > 0 {
		parts = append(parts, "Interested in "+strings.Join(p.Location.States, ", "))
	}

	if len(p.Property.PropertyTypes) > 0 {
		types := make([]string, len(p.Property.PropertyTypes))
		for i, pt := range p.Property.PropertyTypes {
			types[i] = string(pt)
		}
		parts = append(parts, "Property types: "+strings.Join(types, ", "))
	}

	if p.Financial.MaxPrice != nil {
		parts = append(parts, fmt.Sprintf("Budget: up to $%d", *p.Financial.MaxPrice))
	}

	if len(p.Financial.InvestmentStrategies) > 0 {
		strategies := make([]string, len(p.Financial.InvestmentStrategies))
		for i, s := range p.Financial.InvestmentStrategies {
			strategies[i] = string(s)
		}
		parts = append(parts, "Strategy: "+strings.Join(strategies, ", "))
	}

	if p.Timeline.PurchaseTimeline != "" {
		parts = append(parts, "Timeline: "+string(p.Timeline.PurchaseTimeline))
	}

	if len(parts) == 0 {
		return "Still getting to know their preferences"
	}
	return strings.Join(parts, "; ")
}

func isAlpha(s string) bool {
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return len(s) > 0
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

// TranscriptEntry is one message in the append-only conversation transcript
type TranscriptEntry struct {
	Role      string    `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}
