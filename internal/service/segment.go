package service

import (
	"strings"

	"core/internal/model"
)

// Keyword lists scored by the segment classifier
var (
	investorTerms = []string{
		"investment", "roi", "cash flow", "rental", "flip", "brrrr", "portfolio",
		"cap rate", "investor", "investing", "rental property", "appreciation",
		"leverage", "financing", "debt service", "noi", "yield",
	}
	agentTerms = []string{
		"realtor", "agent", "listing", "mls", "client", "buyer", "seller",
		"commission", "closing", "contract", "showing", "market analysis",
		"comp", "comparable", "licensed", "brokerage", "referral",
	}
	buyerTerms = []string{
		"first home", "buying my first", "home buyer", "homebuyer",
		"moving", "family", "neighborhood", "schools", "mortgage",
		"down payment", "closing costs", "home inspection", "primary residence",
	}
)

// SegmentClassifier scores free text against fixed keyword lists to decide
// whether we are talking to an investor, an agent, or a new buyer.
type SegmentClassifier struct {
	historyN int
}

// NewSegmentClassifier creates a classifier scoring the trailing historyN
// transcript entries alongside the live message
func NewSegmentClassifier(historyN int) *SegmentClassifier {
	if historyN <= 0 {
		historyN = 3
	}
	return &SegmentClassifier{historyN: historyN}
}

// Classify scores the current message plus the trailing transcript window.
// A term appearing in both the live message and the trailing window counts
// twice; that weighting is intentional. The strictly highest score wins; any
// tie for the maximum, or all-zero scores, yields unknown.
func (c *SegmentClassifier) Classify(message string, history []model.TranscriptEntry) model.UserSegment {
	lowered := strings.ToLower(message)

	investor := countTerms(lowered, investorTerms)
	agent := countTerms(lowered, agentTerms)
	buyer := countTerms(lowered, buyerTerms)

	if len(history) > 0 {
		window := history
		if len(window) > c.historyN {
			window = window[len(window)-c.historyN:]
		}
		texts := make([]string, len(window))
		for i, entry := range window {
			texts[i] = strings.ToLower(entry.Text)
		}
		joined := strings.Join(texts, " ")

		investor += countTerms(joined, investorTerms)
		agent += countTerms(joined, agentTerms)
		buyer += countTerms(joined, buyerTerms)
	}

	switch {
	case investor > agent && investor > buyer && investor > 0:
		return model.SegmentInvestor
	case agent > investor && agent > buyer && agent > 0:
		return model.SegmentAgent
	case buyer > investor && buyer > agent && buyer > 0:
		return model.SegmentNewBuyer
	default:
		return model.SegmentUnknown
	}
}

func countTerms(text string, terms []string) int {
	count := 0
	for _, term := range terms {
		if strings.Contains(text, term) {
			count++
		}
	}
	return count
}
