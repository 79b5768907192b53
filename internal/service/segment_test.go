package service

import (
	"testing"

	"core/internal/model"
)

func TestClassifySegments(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    model.UserSegment
	}{
		{
			name:    "investor language",
			message: "I'm looking for cash flow and a good cap rate on a rental portfolio",
			want:    model.SegmentInvestor,
		},
		{
			name:    "agent language",
			message: "I'm a realtor with a client looking in this market, checking the mls for my buyer",
			want:    model.SegmentAgent,
		},
		{
			name:    "new buyer language",
			message: "This is my first home and I'm pre-approved for a mortgage, looking for a good school district",
			want:    model.SegmentNewBuyer,
		},
		{
			name:    "no signal",
			message: "hello there",
			want:    model.SegmentUnknown,
		},
	}

	c := NewSegmentClassifier(3)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Classify(tt.message, nil); got != tt.want {
				t.Errorf("Classify(%q) = %s, want %s", tt.message, got, tt.want)
			}
		})
	}
}

func TestClassifyTieIsUnknown(t *testing.T) {
	c := NewSegmentClassifier(3)

	// One investor term against one agent term scores 1-1; no winner
	got := c.Classify("thinking about roi, my realtor disagrees", nil)
	if got != model.SegmentUnknown {
		t.Errorf("Tied scores should classify as unknown, got %s", got)
	}
}

func TestClassifyUsesTrailingHistory(t *testing.T) {
	c := NewSegmentClassifier(3)

	history := []model.TranscriptEntry{
		{Role: "user", Text: "I care about cash flow and cap rate"},
		{Role: "assistant", Text: "Got it"},
	}

	// The live message alone is neutral; history tips it to investor
	got := c.Classify("what do you suggest", history)
	if got != model.SegmentInvestor {
		t.Errorf("Classify with investor history = %s, want investor", got)
	}

	// Entries older than the trailing window are ignored
	old := []model.TranscriptEntry{
		{Role: "user", Text: "cash flow cap rate roi portfolio"},
		{Role: "assistant", Text: "ok"},
		{Role: "user", Text: "thanks"},
		{Role: "assistant", Text: "sure"},
	}
	got = c.Classify("what do you suggest", old)
	if got != model.SegmentUnknown {
		t.Errorf("Classify with stale history = %s, want unknown", got)
	}
}

func TestClassifyDoubleCountsRepeatedTerms(t *testing.T) {
	c := NewSegmentClassifier(3)

	// Two investor terms in the live message beat one agent term
	live := "as a realtor I track roi and cap rate"
	if got := c.Classify(live, nil); got != model.SegmentInvestor {
		t.Fatalf("Classify without history = %s, want investor", got)
	}

	// With "realtor" also in the trailing window it scores twice, pulling
	// the totals even and the result back to unknown
	history := []model.TranscriptEntry{
		{Role: "user", Text: "my realtor said so"},
	}
	if got := c.Classify(live, history); got != model.SegmentUnknown {
		t.Errorf("Classify with repeated agent term = %s, want unknown", got)
	}
}
