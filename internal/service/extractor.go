package service

import (
	"regexp"
	"strconv"
	"strings"

	"core/internal/gazetteer"
	"core/internal/model"
)

var (
	zipRe   = regexp.MustCompile(`\b(\d{5})\b`)
	bedRe   = regexp.MustCompile(`(\d+)\s*(?:bed|br)`)
	bathRe  = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:bath|ba)`)
	sqftRe  = regexp.MustCompile(`(\d+)\s*(?:sq|square|sqft)`)
	priceRe = regexp.MustCompile(`\$?([\d,]+)`)
	codeRe  = regexp.MustCompile(`\b[A-Z]{2}\b`)
)

// Keyword sets driving tag extraction
var (
	singleFamilyWords = []string{"single family", "house", "home"}
	condoWords        = []string{"condo", "townhouse"}
	multiFamilyWords  = []string{"multi", "duplex", "triplex"}

	budgetCueWords = []string{"budget", "max", "under", "below"}

	buyAndHoldWords = []string{"rental", "rent out", "cash flow", "passive income"}
	fixAndFlipWords = []string{"flip", "renovate", "fix up"}
	brrrrWords      = []string{"brrrr", "refinance"}

	timelineCueWords = []string{"month", "soon", "asap", "quarter", "timeline", "timeframe", "time frame"}
	immediateWords   = []string{"month", "soon", "asap"}
	threeMonthsWords = []string{"3", "three", "quarter"}
)

// Extractor pulls structured preferences out of free-form utterances.
// Extraction is additive and idempotent: repeated runs over the same text
// never duplicate entries and never erase prior state.
type Extractor struct {
	gaz *gazetteer.Gazetteer
}

// NewExtractor creates an extractor backed by the given gazetteer
func NewExtractor(gaz *gazetteer.Gazetteer) *Extractor {
	return &Extractor{gaz: gaz}
}

// Extract mutates the preference record in place from one user utterance.
// Parse failures for any candidate are skipped silently.
func (e *Extractor) Extract(rec *model.PreferenceRecord, message string) {
	lowered := strings.ToLower(message)

	e.extractLocation(rec, message, lowered)
	e.extractPropertyType(rec, lowered)
	e.extractSpecs(rec, lowered)
	e.extractBudget(rec, lowered)
	e.extractStrategy(rec, lowered)
	e.extractTimeline(rec, lowered)
}

func (e *Extractor) extractLocation(rec *model.PreferenceRecord, original, lowered string) {
	for _, name := range e.gaz.CityNames() {
		if strings.Contains(lowered, name) {
			if info, ok := e.gaz.Resolve(name); ok {
				rec.AddCity(info.City)
				rec.AddState(info.State)
				rec.MarkComplete(model.TopicLocation)
			}
		}
	}

	for name, code := range gazetteer.StateNames() {
		if strings.Contains(lowered, name) {
			rec.AddState(code)
			rec.MarkComplete(model.TopicLocation)
		}
	}

	// Bare codes must be uppercase standalone tokens; "in" and "or" as
	// ordinary words stay inert
	for _, token := range codeRe.FindAllString(original, -1) {
		if gazetteer.IsStateCode(token) {
			rec.AddState(token)
			rec.MarkComplete(model.TopicLocation)
		}
	}

	for _, match := range zipRe.FindAllStringSubmatch(lowered, -1) {
		rec.AddZipCode(match[1])
		rec.MarkComplete(model.TopicLocation)
	}
}

func (e *Extractor) extractPropertyType(rec *model.PreferenceRecord, lowered string) {
	if containsAny(lowered, singleFamilyWords) {
		rec.AddPropertyType(model.PropertySingleFamily)
		rec.MarkComplete(model.TopicPropertyType)
	}
	if containsAny(lowered, condoWords) {
		rec.AddPropertyType(model.PropertyCondo)
		rec.AddPropertyType(model.PropertyTownhouse)
		rec.MarkComplete(model.TopicPropertyType)
	}
	if containsAny(lowered, multiFamilyWords) {
		rec.AddPropertyType(model.PropertyMultiFamily)
		rec.MarkComplete(model.TopicPropertyType)
	}
}

func (e *Extractor) extractSpecs(rec *model.PreferenceRecord, lowered string) {
	if match := bedRe.FindStringSubmatch(lowered); match != nil {
		if beds, err := strconv.Atoi(match[1]); err == nil {
			rec.Property.MinBedrooms = &beds
			rec.MarkComplete(model.TopicPropertySpecs)
		}
	}

	if match := bathRe.FindStringSubmatch(lowered); match != nil {
		if baths, err := strconv.ParseFloat(match[1], 64); err == nil {
			rec.Property.MinBathrooms = &baths
			rec.MarkComplete(model.TopicPropertySpecs)
		}
	}

	if match := sqftRe.FindStringSubmatch(lowered); match != nil {
		if sqft, err := strconv.Atoi(match[1]); err == nil {
			rec.Property.MinSqft = &sqft
			rec.MarkComplete(model.TopicPropertySpecs)
		}
	}
}

func (e *Extractor) extractBudget(rec *model.PreferenceRecord, lowered string) {
	if !containsAny(lowered, budgetCueWords) {
		return
	}

	for _, match := range priceRe.FindAllStringSubmatch(lowered, -1) {
		price, err := strconv.Atoi(strings.ReplaceAll(match[1], ",", ""))
		if err != nil || price <= 10 {
			continue
		}
		// A bare number under 1000 reads as thousands ("300k", "under 300")
		if price < 1000 {
			price *= 1000
		}
		rec.Financial.MaxPrice = &price
		rec.MarkComplete(model.TopicBudget)
	}
}

func (e *Extractor) extractStrategy(rec *model.PreferenceRecord, lowered string) {
	if containsAny(lowered, buyAndHoldWords) {
		rec.AddStrategy(model.StrategyBuyAndHold)
		rec.MarkComplete(model.TopicInvestmentStrategy)
	}
	if containsAny(lowered, fixAndFlipWords) {
		rec.AddStrategy(model.StrategyFixAndFlip)
		rec.MarkComplete(model.TopicInvestmentStrategy)
	}
	if containsAny(lowered, brrrrWords) {
		rec.AddStrategy(model.StrategyBRRRR)
		rec.MarkComplete(model.TopicInvestmentStrategy)
	}
}

func (e *Extractor) extractTimeline(rec *model.PreferenceRecord, lowered string) {
	// Timeline only fires when the utterance is actually about timing;
	// otherwise every turn would complete the topic with the default tag
	if !containsAny(lowered, timelineCueWords) {
		return
	}

	switch {
	case containsAny(lowered, immediateWords):
		rec.Timeline.PurchaseTimeline = model.TimelineImmediate
	case containsAny(lowered, threeMonthsWords):
		rec.Timeline.PurchaseTimeline = model.TimelineThreeMonths
	default:
		rec.Timeline.PurchaseTimeline = model.TimelineSixMonths
	}
	rec.MarkComplete(model.TopicTimeline)
}

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}
